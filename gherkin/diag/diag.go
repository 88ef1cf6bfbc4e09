// Package diag collects position-tagged errors and warnings produced while
// lexing, parsing and building a document.
package diag

import (
	"fmt"
	"sort"
	"strconv"
)

type Severity int

const (
	SeverityError Severity = iota
	SeverityWarning
)

func (s Severity) String() string {
	if s == SeverityWarning {
		return "warning"
	}
	return "error"
}

func (s Severity) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

// Category tells which stage found the problem.
type Category int

const (
	Lexical Category = iota
	Structural
	Semantic
)

func (c Category) String() string {
	switch c {
	case Lexical:
		return "lexical"
	case Structural:
		return "structural"
	case Semantic:
		return "semantic"
	}
	return "category(" + strconv.Itoa(int(c)) + ")"
}

func (c Category) MarshalText() ([]byte, error) {
	return []byte(c.String()), nil
}

type Diagnostic struct {
	Severity Severity `json:"severity" yaml:"severity"`
	Category Category `json:"category" yaml:"category"`
	Message  string   `json:"message" yaml:"message"`
	Line     int      `json:"line" yaml:"line"`
	Column   int      `json:"column" yaml:"column"`
	// Length is the rune length of the offending span, zero when unknown.
	Length int `json:"length,omitempty" yaml:"length,omitempty"`
}

func (d Diagnostic) String() string {
	return fmt.Sprintf("%d:%d: %s: %s", d.Line, d.Column, d.Severity, d.Message)
}

// Collector is a sink for diagnostics. It is owned by a single parse and
// is not safe for concurrent use.
type Collector struct {
	items []Diagnostic
}

func (c *Collector) Add(d Diagnostic) {
	c.items = append(c.items, d)
}

func (c *Collector) Errorf(cat Category, line, column, length int, format string, args ...any) {
	c.Add(Diagnostic{
		Severity: SeverityError,
		Category: cat,
		Message:  fmt.Sprintf(format, args...),
		Line:     line,
		Column:   column,
		Length:   length,
	})
}

func (c *Collector) Warnf(cat Category, line, column, length int, format string, args ...any) {
	c.Add(Diagnostic{
		Severity: SeverityWarning,
		Category: cat,
		Message:  fmt.Sprintf(format, args...),
		Line:     line,
		Column:   column,
		Length:   length,
	})
}

func (c *Collector) Len() int {
	return len(c.items)
}

func (c *Collector) HasErrors() bool {
	return HasErrors(c.items)
}

// Diagnostics returns a copy of the collected records in source order.
// Records at the same position keep the order they were added in.
func (c *Collector) Diagnostics() []Diagnostic {
	out := make([]Diagnostic, len(c.items))
	copy(out, c.items)
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].Line != out[j].Line {
			return out[i].Line < out[j].Line
		}
		return out[i].Column < out[j].Column
	})
	return out
}

func HasErrors(list []Diagnostic) bool {
	for _, d := range list {
		if d.Severity == SeverityError {
			return true
		}
	}
	return false
}

// Filter returns the diagnostics that satisfy keep.
func Filter(list []Diagnostic, keep func(Diagnostic) bool) []Diagnostic {
	var out []Diagnostic
	for _, d := range list {
		if keep(d) {
			out = append(out, d)
		}
	}
	return out
}

// Errors returns only the error-severity diagnostics.
func Errors(list []Diagnostic) []Diagnostic {
	return Filter(list, func(d Diagnostic) bool { return d.Severity == SeverityError })
}
