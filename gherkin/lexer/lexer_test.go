package lexer

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/chriserin/tgherkin/gherkin/diag"
	"github.com/chriserin/tgherkin/gherkin/grammar"
)

func lex(t *testing.T, src string) ([]grammar.Token, *diag.Collector) {
	t.Helper()
	reg := grammar.Builtin()
	k, ok := reg.Lookup("en")
	require.True(t, ok)
	diags := &diag.Collector{}
	return New(src, reg, k, diags).All(), diags
}

func kinds(toks []grammar.Token) []grammar.TokenKind {
	out := make([]grammar.TokenKind, len(toks))
	for i, t := range toks {
		out[i] = t.Kind
	}
	return out
}

func TestLexer_Kinds(t *testing.T) {
	toks, diags := lex(t, `# comment
@smoke
Feature: Login
  Some description

  Background:
    Given a user
  Scenario Outline: eat
    When I eat <n>
      | a | b |
    Examples:
`)
	assert.Zero(t, diags.Len())
	assert.Equal(t, []grammar.TokenKind{
		grammar.TagLine,
		grammar.FeatureLine,
		grammar.Other,
		grammar.Empty,
		grammar.BackgroundLine,
		grammar.StepLine,
		grammar.ScenarioOutlineLine,
		grammar.StepLine,
		grammar.TableRow,
		grammar.ExamplesLine,
		grammar.EOF,
	}, kinds(toks))
}

func TestLexer_Positions(t *testing.T) {
	toks, _ := lex(t, "Feature: Login\n  Scenario:  Log in\n    Given a user\n")
	require.Len(t, toks, 4)

	assert.Equal(t, grammar.Pos{Line: 1, Column: 1}, toks[0].Pos)
	assert.Equal(t, 10, toks[0].TextColumn)

	assert.Equal(t, grammar.Pos{Line: 2, Column: 3}, toks[1].Pos)
	assert.Equal(t, "Log in", toks[1].Text)
	assert.Equal(t, 14, toks[1].TextColumn)

	assert.Equal(t, grammar.Pos{Line: 3, Column: 5}, toks[2].Pos)
	assert.Equal(t, "Given", toks[2].Keyword)
	assert.Equal(t, grammar.RoleGiven, toks[2].Role)
	assert.Equal(t, 11, toks[2].TextColumn)

	assert.Equal(t, grammar.Pos{Line: 4, Column: 1}, toks[3].Pos)
}

func TestLexer_BOMAndCRLF(t *testing.T) {
	toks, diags := lex(t, "\uFEFFFeature: Login\r\n  Scenario: a\r\n")
	assert.Zero(t, diags.Len())
	require.Len(t, toks, 3)
	assert.Equal(t, grammar.FeatureLine, toks[0].Kind)
	assert.Equal(t, "Login", toks[0].Text)
	assert.Equal(t, 1, toks[0].Pos.Column)
	assert.Equal(t, "a", toks[1].Text)
}

func TestLexer_Tags(t *testing.T) {
	toks, diags := lex(t, "  @smoke @ft:5  @regression # trailing comment\n")
	assert.Zero(t, diags.Len())
	require.Equal(t, grammar.TagLine, toks[0].Kind)
	assert.Equal(t, []grammar.Item{
		{Column: 3, Text: "smoke"},
		{Column: 10, Text: "ft:5"},
		{Column: 17, Text: "regression"},
	}, toks[0].Items)
}

func TestLexer_BadTag(t *testing.T) {
	toks, diags := lex(t, "@ok notatag\n")
	require.Equal(t, 1, diags.Len())
	d := diags.Diagnostics()[0]
	assert.Equal(t, diag.Lexical, d.Category)
	assert.Equal(t, 5, d.Column)
	assert.Len(t, toks[0].Items, 1)
}

func TestLexer_TableCells(t *testing.T) {
	toks, diags := lex(t, `| a | b\|c |  | d\\ | e\nf |`+"\n")
	assert.Zero(t, diags.Len())
	require.Equal(t, grammar.TableRow, toks[0].Kind)
	texts := make([]string, len(toks[0].Items))
	for i, it := range toks[0].Items {
		texts[i] = it.Text
	}
	assert.Equal(t, []string{"a", "b|c", "", `d\`, "e\nf"}, texts)
	assert.Equal(t, 3, toks[0].Items[0].Column)
}

func TestLexer_EmptyCells(t *testing.T) {
	toks, _ := lex(t, "||\n|\n")
	assert.Len(t, toks[0].Items, 1)
	assert.Empty(t, toks[1].Items)
}

func TestLexer_UnclosedTableRow(t *testing.T) {
	toks, diags := lex(t, "  | a | b\n")
	require.Equal(t, 1, diags.Len())
	d := diags.Diagnostics()[0]
	assert.Equal(t, diag.Lexical, d.Category)
	assert.Equal(t, diag.SeverityError, d.Severity)
	assert.Equal(t, 1, d.Line)
	assert.Equal(t, 3, d.Column)
	require.Len(t, toks[0].Items, 2)
	assert.Equal(t, "b", toks[0].Items[1].Text)
}

func TestLexer_DocString(t *testing.T) {
	toks, diags := lex(t, `    """json
    {
      "a": 1
    }
     \"\"\" escaped
    """
`)
	assert.Zero(t, diags.Len())
	require.Len(t, toks, 7)
	assert.Equal(t, grammar.DocStringSeparator, toks[0].Kind)
	assert.Equal(t, "json", toks[0].MediaType)
	assert.Equal(t, `"""`, toks[0].Delimiter)
	assert.Equal(t, "{", toks[1].Text)
	assert.Equal(t, `  "a": 1`, toks[2].Text)
	assert.Equal(t, "}", toks[3].Text)
	assert.Equal(t, ` """ escaped`, toks[4].Text)
	assert.Equal(t, grammar.DocStringSeparator, toks[5].Kind)
}

func TestLexer_DocStringIsOpaque(t *testing.T) {
	toks, _ := lex(t, "```\nFeature: inner\n# not a comment\n@tag\n\"\"\"\n```\n")
	assert.Equal(t, []grammar.TokenKind{
		grammar.DocStringSeparator,
		grammar.Other,
		grammar.Other,
		grammar.Other,
		grammar.Other,
		grammar.DocStringSeparator,
		grammar.EOF,
	}, kinds(toks))
	assert.Equal(t, "# not a comment", toks[2].Text)
}

func TestLexer_UnterminatedDocString(t *testing.T) {
	toks, diags := lex(t, "Feature: a\n  \"\"\"\n  text\n")
	require.Equal(t, 1, diags.Len())
	d := diags.Diagnostics()[0]
	assert.Equal(t, diag.Lexical, d.Category)
	assert.Equal(t, 2, d.Line)
	assert.Equal(t, 3, d.Column)
	assert.Equal(t, grammar.EOF, toks[len(toks)-1].Kind)
}

func TestLexer_LanguageHeader(t *testing.T) {
	reg := grammar.Builtin()
	k, _ := reg.Lookup("en")
	diags := &diag.Collector{}
	lx := New("# language: ru\nФункционал: тест\n", reg, k, diags)
	toks := lx.All()
	assert.Zero(t, diags.Len())
	assert.Equal(t, "ru", lx.Language())
	assert.Equal(t, grammar.FeatureLine, toks[0].Kind)
	assert.Equal(t, "тест", toks[0].Text)
}

func TestLexer_LanguageHeaderOnlyInHeader(t *testing.T) {
	reg := grammar.Builtin()
	k, _ := reg.Lookup("en")
	lx := New("Feature: a\n# language: ru\n", reg, k, &diag.Collector{})
	lx.All()
	assert.Equal(t, "en", lx.Language())
}

func TestLexer_UnknownLanguage(t *testing.T) {
	reg := grammar.Builtin()
	k, _ := reg.Lookup("en")
	diags := &diag.Collector{}
	lx := New("# language: xx\nFeature: a\n", reg, k, diags)
	toks := lx.All()
	require.Equal(t, 1, diags.Len())
	assert.Equal(t, diag.Lexical, diags.Diagnostics()[0].Category)
	assert.Equal(t, "en", lx.Language())
	assert.Equal(t, grammar.FeatureLine, toks[0].Kind)
}

func TestLexer_EOFIsSticky(t *testing.T) {
	reg := grammar.Builtin()
	k, _ := reg.Lookup("en")
	lx := New("", reg, k, &diag.Collector{})
	assert.Equal(t, grammar.EOF, lx.Next().Kind)
	assert.Equal(t, grammar.EOF, lx.Next().Kind)
}
