// Package model is the typed document produced by a parse. Values are
// built once by package builder and are not modified afterwards.
package model

import "github.com/chriserin/tgherkin/gherkin/diag"

// Location is a one-based source position.
type Location struct {
	Line   int `json:"line" yaml:"line"`
	Column int `json:"column" yaml:"column"`
}

// KeywordType classifies step keywords semantically.
type KeywordType string

const (
	KeywordTypeContext     KeywordType = "context"
	KeywordTypeAction      KeywordType = "action"
	KeywordTypeOutcome     KeywordType = "outcome"
	KeywordTypeConjunction KeywordType = "conjunction"
	KeywordTypeConditional KeywordType = "conditional"
	KeywordTypeUnknown     KeywordType = "unknown"
)

type Document struct {
	URI string `json:"uri,omitempty" yaml:"uri,omitempty"`
	// Language is the code of the keyword table the source was read with.
	Language    string            `json:"language" yaml:"language"`
	Feature     *Feature          `json:"feature,omitempty" yaml:"feature,omitempty"`
	Diagnostics []diag.Diagnostic `json:"diagnostics,omitempty" yaml:"diagnostics,omitempty"`
}

type Feature struct {
	Location    Location    `json:"location" yaml:"location"`
	Tags        []Tag       `json:"tags,omitempty" yaml:"tags,omitempty"`
	Keyword     string      `json:"keyword" yaml:"keyword"`
	Name        string      `json:"name" yaml:"name"`
	Description string      `json:"description,omitempty" yaml:"description,omitempty"`
	Background  *Background `json:"background,omitempty" yaml:"background,omitempty"`
	Scenarios   []*Scenario `json:"scenarios,omitempty" yaml:"scenarios,omitempty"`
	Rules       []*Rule     `json:"rules,omitempty" yaml:"rules,omitempty"`
}

// AllScenarios returns the feature's scenarios followed by those of each
// rule, in source order.
func (f *Feature) AllScenarios() []*Scenario {
	out := append([]*Scenario(nil), f.Scenarios...)
	for _, r := range f.Rules {
		out = append(out, r.Scenarios...)
	}
	return out
}

// Rule groups scenarios under a business rule. It may carry its own
// Background, applied after the feature's.
type Rule struct {
	Location    Location    `json:"location" yaml:"location"`
	Tags        []Tag       `json:"tags,omitempty" yaml:"tags,omitempty"`
	Keyword     string      `json:"keyword" yaml:"keyword"`
	Name        string      `json:"name" yaml:"name"`
	Description string      `json:"description,omitempty" yaml:"description,omitempty"`
	Background  *Background `json:"background,omitempty" yaml:"background,omitempty"`
	Scenarios   []*Scenario `json:"scenarios,omitempty" yaml:"scenarios,omitempty"`
}

type Background struct {
	Location    Location `json:"location" yaml:"location"`
	Keyword     string   `json:"keyword" yaml:"keyword"`
	Name        string   `json:"name,omitempty" yaml:"name,omitempty"`
	Description string   `json:"description,omitempty" yaml:"description,omitempty"`
	Steps       []*Step  `json:"steps,omitempty" yaml:"steps,omitempty"`
}

// Scenario is a plain scenario or, when Outline is set, a template
// instantiated once per Examples body row.
type Scenario struct {
	Location    Location    `json:"location" yaml:"location"`
	Tags        []Tag       `json:"tags,omitempty" yaml:"tags,omitempty"`
	Keyword     string      `json:"keyword" yaml:"keyword"`
	Name        string      `json:"name" yaml:"name"`
	Description string      `json:"description,omitempty" yaml:"description,omitempty"`
	Outline     bool        `json:"outline,omitempty" yaml:"outline,omitempty"`
	Params      []Param     `json:"params,omitempty" yaml:"params,omitempty"`
	Steps       []*Step     `json:"steps,omitempty" yaml:"steps,omitempty"`
	Examples    []*Examples `json:"examples,omitempty" yaml:"examples,omitempty"`
}

type Examples struct {
	Location    Location   `json:"location" yaml:"location"`
	Tags        []Tag      `json:"tags,omitempty" yaml:"tags,omitempty"`
	Keyword     string     `json:"keyword" yaml:"keyword"`
	Name        string     `json:"name,omitempty" yaml:"name,omitempty"`
	Description string     `json:"description,omitempty" yaml:"description,omitempty"`
	Table       *DataTable `json:"table,omitempty" yaml:"table,omitempty"`
}

// Columns returns the header cells of the examples table.
func (e *Examples) Columns() []string {
	if e.Table == nil {
		return nil
	}
	if h := e.Table.Header(); h != nil {
		return h.Cells
	}
	return nil
}

type Step struct {
	Location    Location    `json:"location" yaml:"location"`
	Keyword     string      `json:"keyword" yaml:"keyword"`
	KeywordType KeywordType `json:"keywordType" yaml:"keywordType"`
	// Text is the step text as written; outline placeholders are not
	// substituted.
	Text      string     `json:"text" yaml:"text"`
	Params    []Param    `json:"params,omitempty" yaml:"params,omitempty"`
	DocString *DocString `json:"docString,omitempty" yaml:"docString,omitempty"`
	DataTable *DataTable `json:"dataTable,omitempty" yaml:"dataTable,omitempty"`
}

type DocString struct {
	Location  Location `json:"location" yaml:"location"`
	Delimiter string   `json:"delimiter" yaml:"delimiter"`
	MediaType string   `json:"mediaType,omitempty" yaml:"mediaType,omitempty"`
	Content   string   `json:"content" yaml:"content"`
}

type DataTable struct {
	Location Location `json:"location" yaml:"location"`
	Rows     []*Row   `json:"rows" yaml:"rows"`
}

// Header returns the first row, or nil for an empty table.
func (t *DataTable) Header() *Row {
	if len(t.Rows) == 0 {
		return nil
	}
	return t.Rows[0]
}

// Body returns every row after the header.
func (t *DataTable) Body() []*Row {
	if len(t.Rows) < 2 {
		return nil
	}
	return t.Rows[1:]
}

type Row struct {
	Location Location `json:"location" yaml:"location"`
	Cells    []string `json:"cells" yaml:"cells"`
}

type Tag struct {
	Location Location `json:"location" yaml:"location"`
	// Name is the tag without its leading '@'.
	Name string `json:"name" yaml:"name"`
}

// TagNames returns the names of tags in order.
func TagNames(tags []Tag) []string {
	out := make([]string, len(tags))
	for i, t := range tags {
		out[i] = t.Name
	}
	return out
}

type ParamKind string

const (
	ParamPlaceholder ParamKind = "placeholder"
	ParamString      ParamKind = "string"
	ParamFloat       ParamKind = "float"
	ParamDecimal     ParamKind = "decimal"
)

// Param is a value recognized in step or scenario text.
type Param struct {
	Kind ParamKind `json:"kind" yaml:"kind"`
	// Text is the literal as written, including quotes or angle brackets.
	Text string `json:"text" yaml:"text"`
	// Value is Text without its quotes or angle brackets.
	Value  string `json:"value" yaml:"value"`
	Column int    `json:"column" yaml:"column"`
}
