// Package params recognizes the values written inline in step and scenario
// text: <placeholders>, quoted strings, floats and decimals.
package params

import (
	"strings"
	"unicode/utf8"

	"github.com/alecthomas/participle/v2"
	"github.com/alecthomas/participle/v2/lexer"

	"github.com/chriserin/tgherkin/gherkin/model"
)

var textLexer = lexer.MustSimple([]lexer.SimpleRule{
	{Name: "Placeholder", Pattern: `<[^<>\n]+>`},
	{Name: "String", Pattern: `"[^"\n]*"|'[^'\n]*'`},
	{Name: "Float", Pattern: `[-+]?\d+\.\d+\b`},
	{Name: "Decimal", Pattern: `[-+]?\d+\b`},
	{Name: "Word", Pattern: `[^\s"'<>]+`},
	{Name: "Punct", Pattern: `["'<>]`},
	{Name: "Whitespace", Pattern: `\s+`},
})

type stepText struct {
	Fragments []*fragment `@@*`
}

// fragment is one lexeme of step text. Words and stray punctuation are
// matched so that any text parses; only the other alternatives are values.
type fragment struct {
	Pos lexer.Position

	Placeholder *string `  @Placeholder`
	String      *string `| @String`
	Float       *string `| @Float`
	Decimal     *string `| @Decimal`
	Word        *string `| @Word`
	Punct       *string `| @Punct`
}

var textParser = participle.MustBuild[stepText](
	participle.Lexer(textLexer),
	participle.Elide("Whitespace"),
)

// Parse returns the values in text in order. column is the source column
// of the first rune of text; the returned columns are absolute.
func Parse(text string, column int) []model.Param {
	if strings.TrimSpace(text) == "" {
		return nil
	}
	st, err := textParser.ParseString("", text)
	if err != nil {
		// Every rune is covered by Word, Punct or Whitespace.
		return nil
	}
	var out []model.Param
	for _, f := range st.Fragments {
		var kind model.ParamKind
		var lit string
		switch {
		case f.Placeholder != nil:
			kind, lit = model.ParamPlaceholder, *f.Placeholder
		case f.String != nil:
			kind, lit = model.ParamString, *f.String
		case f.Float != nil:
			kind, lit = model.ParamFloat, *f.Float
		case f.Decimal != nil:
			kind, lit = model.ParamDecimal, *f.Decimal
		default:
			continue
		}
		value := lit
		if kind == model.ParamPlaceholder || kind == model.ParamString {
			value = lit[1 : len(lit)-1]
		}
		out = append(out, model.Param{
			Kind:   kind,
			Text:   lit,
			Value:  value,
			Column: column + utf8.RuneCountInString(text[:f.Pos.Offset]),
		})
	}
	return out
}

// Placeholders returns the <name> parameters of text, including those
// written inside quoted strings.
func Placeholders(text string, column int) []model.Param {
	var out []model.Param
	for _, p := range Parse(text, column) {
		switch p.Kind {
		case model.ParamPlaceholder:
			out = append(out, p)
		case model.ParamString:
			out = append(out, Placeholders(p.Value, p.Column+1)...)
		}
	}
	return out
}
