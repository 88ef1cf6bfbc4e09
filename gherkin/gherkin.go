// Package gherkin parses Turbo Gherkin source into a document model.
//
// Parse runs the lexer, parser and builder in one pass over an in-memory
// string. It does no I/O and holds no shared mutable state, so documents
// may be parsed from any number of goroutines at once.
package gherkin

import (
	"errors"
	"fmt"
	"strings"

	"github.com/chriserin/tgherkin/gherkin/builder"
	"github.com/chriserin/tgherkin/gherkin/cst"
	"github.com/chriserin/tgherkin/gherkin/diag"
	"github.com/chriserin/tgherkin/gherkin/grammar"
	"github.com/chriserin/tgherkin/gherkin/lexer"
	"github.com/chriserin/tgherkin/gherkin/model"
	"github.com/chriserin/tgherkin/gherkin/parser"
)

var (
	// ErrStrict is wrapped by the error returned in strict mode.
	ErrStrict = errors.New("document has errors")
	// ErrUnknownLanguage is returned when Options.Language is not in the
	// registry.
	ErrUnknownLanguage = errors.New("unknown language")
)

type Options struct {
	// Filename is recorded as the document URI.
	Filename string
	// Language selects the keyword table used until a "# language:"
	// header says otherwise. Empty means grammar.DefaultLanguage.
	Language string
	// Dialects resolves language codes. Nil means grammar.Builtin().
	Dialects *grammar.Registry
	// Strict makes Parse fail when any error diagnostic was recorded.
	Strict bool
}

// StrictError is returned in strict mode. The document is still returned
// alongside it.
type StrictError struct {
	Filename    string
	Diagnostics []diag.Diagnostic
}

func (e *StrictError) Error() string {
	errs := diag.Errors(e.Diagnostics)
	name := e.Filename
	if name == "" {
		name = "input"
	}
	if len(errs) == 1 {
		return fmt.Sprintf("%s: %s", name, errs[0])
	}
	return fmt.Sprintf("%s: %d errors, first: %s", name, len(errs), errs[0])
}

func (e *StrictError) Unwrap() error {
	return ErrStrict
}

// Parse parses src. Problems in the source are reported as diagnostics on
// the returned document, never as a Go error, unless opts.Strict is set.
func Parse(src string, opts Options) (*model.Document, error) {
	tree, lang, diags, err := parse(src, opts)
	if err != nil {
		return nil, err
	}
	doc := builder.Build(tree, diags)
	doc.URI = opts.Filename
	doc.Language = lang
	doc.Diagnostics = diags.Diagnostics()
	if doc.Feature == nil {
		// Without a feature only the reason for its absence is reported.
		doc.Diagnostics = diag.Filter(doc.Diagnostics, func(d diag.Diagnostic) bool {
			return d.Category == diag.Structural
		})
	}

	if opts.Strict && diag.HasErrors(doc.Diagnostics) {
		return doc, &StrictError{Filename: opts.Filename, Diagnostics: doc.Diagnostics}
	}
	return doc, nil
}

// ParseTree stops after the parser and returns the concrete syntax tree,
// including the lines skipped during recovery, with the lexer and parser
// diagnostics.
func ParseTree(src string, opts Options) (*cst.Branch, []diag.Diagnostic, error) {
	tree, _, diags, err := parse(src, opts)
	if err != nil {
		return nil, nil, err
	}
	return tree, diags.Diagnostics(), nil
}

func parse(src string, opts Options) (*cst.Branch, string, *diag.Collector, error) {
	registry := opts.Dialects
	if registry == nil {
		registry = grammar.Builtin()
	}
	code := opts.Language
	if code == "" {
		code = grammar.DefaultLanguage
	}
	keywords, ok := registry.Lookup(code)
	if !ok {
		return nil, "", nil, fmt.Errorf("%w %q, known: %s", ErrUnknownLanguage, code, strings.Join(registry.Codes(), ", "))
	}

	diags := &diag.Collector{}
	lx := lexer.New(src, registry, keywords, diags)
	tree := parser.Parse(lx, diags)
	return tree, lx.Language(), diags, nil
}
