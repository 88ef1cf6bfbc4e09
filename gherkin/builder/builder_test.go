package builder

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/chriserin/tgherkin/gherkin/diag"
	"github.com/chriserin/tgherkin/gherkin/grammar"
	"github.com/chriserin/tgherkin/gherkin/lexer"
	"github.com/chriserin/tgherkin/gherkin/model"
	"github.com/chriserin/tgherkin/gherkin/parser"
)

func build(t *testing.T, src string) (*model.Document, []diag.Diagnostic) {
	t.Helper()
	reg := grammar.Builtin()
	k, ok := reg.Lookup("en")
	require.True(t, ok)
	diags := &diag.Collector{}
	doc := Build(parser.Parse(lexer.New(src, reg, k, diags), diags), diags)
	return doc, diags.Diagnostics()
}

func TestBuild_Feature(t *testing.T) {
	doc, diags := build(t, `@billing @web
Feature: Login
  As a user

  I want in

  Background: setup
    Given a registered user

  Scenario: User logs in
    Given a user
    When they log in
    Then they see the dashboard
    And nothing else
    But no errors
    * whatever
    If the banner shows
`)
	require.Empty(t, diags)
	f := doc.Feature
	require.NotNil(t, f)
	assert.Equal(t, model.Location{Line: 2, Column: 1}, f.Location)
	assert.Equal(t, "Feature", f.Keyword)
	assert.Equal(t, "Login", f.Name)
	assert.Equal(t, "As a user\n\nI want in", f.Description)
	assert.Equal(t, []string{"billing", "web"}, model.TagNames(f.Tags))
	assert.Equal(t, model.Location{Line: 1, Column: 10}, f.Tags[1].Location)

	require.NotNil(t, f.Background)
	assert.Equal(t, "setup", f.Background.Name)
	require.Len(t, f.Background.Steps, 1)

	require.Len(t, f.Scenarios, 1)
	s := f.Scenarios[0]
	assert.False(t, s.Outline)
	types := make([]model.KeywordType, len(s.Steps))
	for i, st := range s.Steps {
		types[i] = st.KeywordType
	}
	assert.Equal(t, []model.KeywordType{
		model.KeywordTypeContext,
		model.KeywordTypeAction,
		model.KeywordTypeOutcome,
		model.KeywordTypeConjunction,
		model.KeywordTypeConjunction,
		model.KeywordTypeUnknown,
		model.KeywordTypeConditional,
	}, types)
	assert.Equal(t, model.Location{Line: 11, Column: 5}, s.Steps[0].Location)
	assert.Equal(t, "a user", s.Steps[0].Text)
}

func TestBuild_StepArguments(t *testing.T) {
	doc, diags := build(t, `Feature: Args
  Scenario: a
    Given a table
      | name | role  |
      | ann  | admin |
    And a doc string
      """json
      {"a": 1}

        indented
      """
`)
	require.Empty(t, diags)
	steps := doc.Feature.Scenarios[0].Steps
	require.Len(t, steps, 2)

	table := steps[0].DataTable
	require.NotNil(t, table)
	assert.Equal(t, model.Location{Line: 4, Column: 7}, table.Location)
	assert.Equal(t, []string{"name", "role"}, table.Header().Cells)
	require.Len(t, table.Body(), 1)
	assert.Equal(t, []string{"ann", "admin"}, table.Body()[0].Cells)

	doc2 := steps[1].DocString
	require.NotNil(t, doc2)
	assert.Equal(t, "json", doc2.MediaType)
	assert.Equal(t, `"""`, doc2.Delimiter)
	assert.Equal(t, "{\"a\": 1}\n\n  indented", doc2.Content)
}

func TestBuild_Rectangularity(t *testing.T) {
	doc, diags := build(t, `Feature: Tables
  Scenario: a
    Given rows
      | a | b | c |
      | 1 | 2 | 3 |
      | 1 | 2 |
      | 1 | 2 | 3 | 4 |
`)
	require.Len(t, diags, 2)
	for i, line := range []int{6, 7} {
		assert.Equal(t, diag.SeverityError, diags[i].Severity)
		assert.Equal(t, diag.Semantic, diags[i].Category)
		assert.Equal(t, line, diags[i].Line)
		assert.Equal(t, 7, diags[i].Column)
	}

	rows := doc.Feature.Scenarios[0].Steps[0].DataTable.Rows
	require.Len(t, rows, 4)
	assert.Len(t, rows[2].Cells, 2, "rows are kept as written")
	assert.Len(t, rows[3].Cells, 4)
}

func TestBuild_ExamplesRectangularity(t *testing.T) {
	doc, diags := build(t, `Feature: Tables
  Scenario Outline: a
    Given <x> and <y>
    Examples:
      | x | y |
      | 1 |
      | 1 | 2 | 3 |
      | 4 | 5 |
`)
	require.Len(t, diags, 2)
	for i, line := range []int{6, 7} {
		assert.Equal(t, diag.SeverityError, diags[i].Severity)
		assert.Equal(t, diag.Semantic, diags[i].Category)
		assert.Equal(t, line, diags[i].Line)
		assert.Equal(t, 7, diags[i].Column)
	}
	assert.Contains(t, diags[0].Message, "table row has 1 cells, expected 2 like the header row at line 5")

	examples := doc.Feature.Scenarios[0].Examples
	require.Len(t, examples, 1)
	rows := examples[0].Table.Rows
	require.Len(t, rows, 4)
	assert.Len(t, rows[1].Cells, 1, "rows are kept as written")
	assert.Len(t, rows[2].Cells, 3)
	assert.Len(t, rows[3].Cells, 2)
}

func TestBuild_DuplicateTags(t *testing.T) {
	doc, diags := build(t, `Feature: Tags
  @a @b
  @a
  Scenario: dup
    Given x
`)
	require.Len(t, diags, 1)
	assert.Equal(t, diag.SeverityWarning, diags[0].Severity)
	assert.Equal(t, 3, diags[0].Line)
	assert.Equal(t, 3, diags[0].Column)
	assert.Equal(t, []string{"a", "b", "a"}, model.TagNames(doc.Feature.Scenarios[0].Tags))
}

func TestBuild_Outline(t *testing.T) {
	doc, diags := build(t, `Feature: Outline
  Scenario Outline: eating <count>
    Given there are <start> cucumbers
    When I eat <eat> cucumbers
    Then I should have <left> cucumbers

    Examples:
      | start | eat | left |
      | 12    | 5   | 7    |
      | 20    | 5   | 15   |
`)
	require.Empty(t, diags)
	s := doc.Feature.Scenarios[0]
	assert.True(t, s.Outline)
	assert.Equal(t, "there are <start> cucumbers", s.Steps[0].Text)
	require.Len(t, s.Examples, 1)
	assert.Equal(t, []string{"start", "eat", "left"}, s.Examples[0].Columns())
	assert.Len(t, s.Examples[0].Table.Body(), 2)
	require.Len(t, s.Params, 1)
	assert.Equal(t, "count", s.Params[0].Value)
}

func TestBuild_ScenarioWithExamplesIsOutline(t *testing.T) {
	doc, diags := build(t, `Feature: Outline
  Scenario: plain keyword
    Given <x>
    Examples:
      | x |
      | 1 |
`)
	require.Empty(t, diags)
	assert.True(t, doc.Feature.Scenarios[0].Outline)
}

func TestBuild_UnresolvedPlaceholder(t *testing.T) {
	_, diags := build(t, `Feature: Outline
  Scenario Outline: a
    Given <a> and <undefined>

    Examples: one
      | a |
      | 1 |

    Examples: two
      | a | undefined |
      | 1 | 2         |
`)
	require.Len(t, diags, 1)
	d := diags[0]
	assert.Equal(t, diag.SeverityWarning, d.Severity)
	assert.Equal(t, diag.Semantic, d.Category)
	assert.Equal(t, 3, d.Line)
	assert.Equal(t, 19, d.Column)
	assert.Equal(t, 11, d.Length)
	assert.Contains(t, d.Message, "<undefined>")
	assert.Contains(t, d.Message, "line 5")
	assert.NotContains(t, d.Message, "line 9")
}

func TestBuild_PlaceholdersOutsideOutlineAreNotChecked(t *testing.T) {
	doc, diags := build(t, `Feature: Plain
  Scenario: a
    Given <anything>
`)
	require.Empty(t, diags)
	require.Len(t, doc.Feature.Scenarios[0].Steps[0].Params, 1)
}

func TestBuild_OutlineWithoutExamples(t *testing.T) {
	_, diags := build(t, `Feature: Outline
  Scenario Outline: lonely
    Given <a>
`)
	require.Len(t, diags, 1)
	assert.Equal(t, diag.SeverityWarning, diags[0].Severity)
	assert.Equal(t, 2, diags[0].Line)
}

func TestBuild_ExamplesWithoutTable(t *testing.T) {
	_, diags := build(t, `Feature: Outline
  Scenario Outline: a
    Given <a>
    Examples: empty
`)
	require.Len(t, diags, 1)
	assert.Equal(t, diag.SeverityWarning, diags[0].Severity)
	assert.Equal(t, 4, diags[0].Line)
}

func TestBuild_Rules(t *testing.T) {
	doc, diags := build(t, `Feature: Rules
  Scenario: top
    Given a

  @rule
  Rule: r
    Keep it simple
    Background:
      Given b
    Scenario: inner
      Given c
`)
	require.Empty(t, diags)
	f := doc.Feature
	require.Len(t, f.Rules, 1)
	r := f.Rules[0]
	assert.Equal(t, "r", r.Name)
	assert.Equal(t, "Keep it simple", r.Description)
	assert.Equal(t, []string{"rule"}, model.TagNames(r.Tags))
	require.NotNil(t, r.Background)
	require.Len(t, r.Scenarios, 1)

	all := f.AllScenarios()
	require.Len(t, all, 2)
	assert.Equal(t, "top", all[0].Name)
	assert.Equal(t, "inner", all[1].Name)
}

func TestBuild_SkipsRecoveredLines(t *testing.T) {
	doc, diags := build(t, `Feature: Recovery
  Scenario: first
    Given a
  Background:
    Given late
  Scenario: second
    Given b
`)
	require.Len(t, diags, 1)
	assert.Nil(t, doc.Feature.Background)
	require.Len(t, doc.Feature.Scenarios, 2)
	for _, s := range doc.Feature.Scenarios {
		require.Len(t, s.Steps, 1)
		assert.NotEqual(t, "late", s.Steps[0].Text, "skipped lines stay out of the model")
	}
}

func TestBuild_NoFeature(t *testing.T) {
	doc, diags := build(t, "just text\n")
	assert.Nil(t, doc.Feature)
	require.Len(t, diags, 1)
}
