package grammar

import (
	"slices"
	"strings"
)

// Rule names a production of the grammar.
type Rule int

const (
	RuleDocument Rule = iota
	RuleFeature
	RuleRule
	RuleBackground
	RuleScenario
	RuleExamples
	RuleStep
	RuleDataTable
	RuleDocString
	RuleTags
	RuleDescription
)

// Production describes one rule: the tokens that may start it and the
// tokens a block accepts after its header line and description.
type Production struct {
	Name        string
	First       []TokenKind
	Body        []TokenKind
	Description bool
}

// productions is the grammar. Keyword spellings never appear here; they
// come from the Keywords used by the lexer, so every dialect shares the
// same productions.
var productions = map[Rule]Production{
	// Document := Feature? #EOF
	RuleDocument: {
		Name:  "Document",
		First: []TokenKind{TagLine, FeatureLine, EOF},
		Body:  []TokenKind{TagLine, FeatureLine},
	},
	// Feature := Tags? #FeatureLine Description? Background? Scenario* Rule*
	RuleFeature: {
		Name:        "Feature",
		First:       []TokenKind{TagLine, FeatureLine},
		Body:        []TokenKind{BackgroundLine, TagLine, ScenarioLine, ScenarioOutlineLine, RuleLine},
		Description: true,
	},
	// Rule := Tags? #RuleLine Description? Background? Scenario*
	RuleRule: {
		Name:        "Rule",
		First:       []TokenKind{TagLine, RuleLine},
		Body:        []TokenKind{BackgroundLine, TagLine, ScenarioLine, ScenarioOutlineLine},
		Description: true,
	},
	// Background := #BackgroundLine Description? Step*
	RuleBackground: {
		Name:        "Background",
		First:       []TokenKind{BackgroundLine},
		Body:        []TokenKind{StepLine},
		Description: true,
	},
	// Scenario := Tags? (#ScenarioLine | #ScenarioOutlineLine) Description? Step* Examples*
	RuleScenario: {
		Name:        "Scenario",
		First:       []TokenKind{TagLine, ScenarioLine, ScenarioOutlineLine},
		Body:        []TokenKind{StepLine, TagLine, ExamplesLine},
		Description: true,
	},
	// Examples := Tags? #ExamplesLine Description? DataTable?
	RuleExamples: {
		Name:        "Examples",
		First:       []TokenKind{TagLine, ExamplesLine},
		Body:        []TokenKind{TableRow},
		Description: true,
	},
	// Step := #StepLine (DataTable | DocString)?
	RuleStep: {
		Name:  "Step",
		First: []TokenKind{StepLine},
		Body:  []TokenKind{TableRow, DocStringSeparator},
	},
	// DataTable := #TableRow+
	RuleDataTable: {
		Name:  "DataTable",
		First: []TokenKind{TableRow},
		Body:  []TokenKind{TableRow},
	},
	// DocString := #DocStringSeparator #Other* #DocStringSeparator
	RuleDocString: {
		Name:  "DocString",
		First: []TokenKind{DocStringSeparator},
		Body:  []TokenKind{Other, DocStringSeparator},
	},
	// Tags := #TagLine+
	RuleTags: {
		Name:  "Tags",
		First: []TokenKind{TagLine},
		Body:  []TokenKind{TagLine},
	},
	// Description := #Other+
	RuleDescription: {
		Name:  "Description",
		First: []TokenKind{Other},
		Body:  []TokenKind{Other},
	},
}

func (r Rule) String() string {
	return productions[r].Name
}

// Production returns a copy of the production for r.
func (r Rule) Production() Production {
	p := productions[r]
	p.First = slices.Clone(p.First)
	p.Body = slices.Clone(p.Body)
	return p
}

// Starts reports whether a token of kind k can begin rule r.
func Starts(r Rule, k TokenKind) bool {
	return slices.Contains(productions[r].First, k)
}

// Follow lists the body tokens of r, leaving out the closed ones: those a
// block no longer accepts given what it already holds.
func Follow(r Rule, closed ...TokenKind) []TokenKind {
	var out []TokenKind
	for _, k := range productions[r].Body {
		if !slices.Contains(closed, k) {
			out = append(out, k)
		}
	}
	return out
}

// Taggable reports whether tags may precede a line of kind k.
func Taggable(k TokenKind) bool {
	switch k {
	case FeatureLine, RuleLine, ScenarioLine, ScenarioOutlineLine, ExamplesLine:
		return true
	}
	return false
}

// Synchronizes reports whether the parser may resume at a token of kind k
// after an error: tag lines and block keyword lines.
func Synchronizes(k TokenKind) bool {
	switch k {
	case TagLine, FeatureLine, RuleLine, BackgroundLine, ScenarioLine, ScenarioOutlineLine, ExamplesLine, EOF:
		return true
	}
	return false
}

// Expected formats a list of acceptable tokens for diagnostics. #EOF is
// always acceptable and comes last.
func Expected(kinds []TokenKind) string {
	if len(kinds) == 0 {
		return EOF.String()
	}
	names := make([]string, 0, len(kinds)+1)
	for _, k := range kinds {
		names = append(names, k.String())
	}
	names = append(names, EOF.String())
	return "one of " + strings.Join(names, ", ")
}
