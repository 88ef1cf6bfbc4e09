package grammar

import "strconv"

// TokenKind classifies one logical source line.
type TokenKind int

const (
	EOF TokenKind = iota
	Empty
	TagLine
	FeatureLine
	RuleLine
	BackgroundLine
	ScenarioLine
	ScenarioOutlineLine
	ExamplesLine
	StepLine
	DocStringSeparator
	TableRow
	Other
)

var tokenNames = [...]string{
	EOF:                 "#EOF",
	Empty:               "#Empty",
	TagLine:             "#TagLine",
	FeatureLine:         "#FeatureLine",
	RuleLine:            "#RuleLine",
	BackgroundLine:      "#BackgroundLine",
	ScenarioLine:        "#ScenarioLine",
	ScenarioOutlineLine: "#ScenarioOutlineLine",
	ExamplesLine:        "#ExamplesLine",
	StepLine:            "#StepLine",
	DocStringSeparator:  "#DocStringSeparator",
	TableRow:            "#TableRow",
	Other:               "#Other",
}

func (k TokenKind) String() string {
	if k >= 0 && int(k) < len(tokenNames) {
		return tokenNames[k]
	}
	return "#TokenKind(" + strconv.Itoa(int(k)) + ")"
}

// Pos is a one-based line and column. Columns count runes, not bytes.
type Pos struct {
	Line   int
	Column int
}

func (p Pos) String() string {
	return strconv.Itoa(p.Line) + ":" + strconv.Itoa(p.Column)
}

// Item is a positioned piece of a line: a tag name or a table cell.
type Item struct {
	Column int
	Text   string
}

// Token is one lexed line.
type Token struct {
	Kind TokenKind
	// Pos points at the first non-blank rune of the line.
	Pos Pos
	// Length is the rune length of the line without surrounding blanks.
	Length int

	// Keyword is the keyword as spelled in the source, without the colon.
	Keyword string
	// Role is set for step lines.
	Role StepRole
	// Text is the remainder after the keyword, the trimmed line for #Other,
	// or the de-indented content line inside a doc string.
	Text string
	// TextColumn is the column of the first rune of Text on keyword lines.
	TextColumn int

	// Items holds tag names for #TagLine and cells for #TableRow.
	Items []Item

	// Delimiter and MediaType are set on #DocStringSeparator.
	Delimiter string
	MediaType string
}
