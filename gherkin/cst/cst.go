// Package cst holds the concrete syntax tree built by the parser: branches
// of a closed set of kinds with the lexed lines as leaves.
package cst

import (
	"fmt"
	"io"
	"strings"

	"github.com/chriserin/tgherkin/gherkin/grammar"
)

type Kind int

const (
	KindDocument Kind = iota
	KindFeature
	KindRule
	KindBackground
	KindScenario
	KindExamples
	KindStep
	KindDataTable
	KindDocString
	KindTags
	KindDescription
	// KindError holds the lines skipped while recovering from an error.
	KindError
)

var kindNames = [...]string{
	KindDocument:    "Document",
	KindFeature:     "Feature",
	KindRule:        "Rule",
	KindBackground:  "Background",
	KindScenario:    "Scenario",
	KindExamples:    "Examples",
	KindStep:        "Step",
	KindDataTable:   "DataTable",
	KindDocString:   "DocString",
	KindTags:        "Tags",
	KindDescription: "Description",
	KindError:       "Error",
}

func (k Kind) String() string {
	if k >= 0 && int(k) < len(kindNames) {
		return kindNames[k]
	}
	return fmt.Sprintf("Kind(%d)", int(k))
}

// Node is either a *Branch or a *Leaf.
type Node interface {
	Pos() grammar.Pos
}

type Branch struct {
	Kind     Kind
	Children []Node
}

type Leaf struct {
	Token grammar.Token
}

func (l *Leaf) Pos() grammar.Pos {
	return l.Token.Pos
}

// Pos is the position of the first leaf under b.
func (b *Branch) Pos() grammar.Pos {
	for _, c := range b.Children {
		if p := c.Pos(); p.Line > 0 {
			return p
		}
	}
	return grammar.Pos{}
}

func (b *Branch) Add(n Node) {
	b.Children = append(b.Children, n)
}

func (b *Branch) AddToken(t grammar.Token) {
	b.Children = append(b.Children, &Leaf{Token: t})
}

// Branch returns the first child branch of the given kind, or nil.
func (b *Branch) Branch(kind Kind) *Branch {
	for _, c := range b.Children {
		if cb, ok := c.(*Branch); ok && cb.Kind == kind {
			return cb
		}
	}
	return nil
}

// Branches returns the child branches of the given kind.
func (b *Branch) Branches(kind Kind) []*Branch {
	var out []*Branch
	for _, c := range b.Children {
		if cb, ok := c.(*Branch); ok && cb.Kind == kind {
			out = append(out, cb)
		}
	}
	return out
}

// Tokens returns the tokens of the direct leaf children.
func (b *Branch) Tokens() []grammar.Token {
	var out []grammar.Token
	for _, c := range b.Children {
		if l, ok := c.(*Leaf); ok {
			out = append(out, l.Token)
		}
	}
	return out
}

// Header returns the first direct leaf of one of the given kinds.
func (b *Branch) Header(kinds ...grammar.TokenKind) (grammar.Token, bool) {
	for _, t := range b.Tokens() {
		for _, k := range kinds {
			if t.Kind == k {
				return t, true
			}
		}
	}
	return grammar.Token{}, false
}

// Walk visits n and its descendants depth first. Returning false from fn
// skips the children of the visited node.
func Walk(n Node, fn func(n Node, depth int) bool) {
	walk(n, 0, fn)
}

func walk(n Node, depth int, fn func(Node, int) bool) {
	if !fn(n, depth) {
		return
	}
	if b, ok := n.(*Branch); ok {
		for _, c := range b.Children {
			walk(c, depth+1, fn)
		}
	}
}

// Dump writes an indented outline of the tree, one node per line.
func Dump(w io.Writer, n Node) error {
	var err error
	Walk(n, func(n Node, depth int) bool {
		if err != nil {
			return false
		}
		indent := strings.Repeat("  ", depth)
		switch n := n.(type) {
		case *Branch:
			_, err = fmt.Fprintf(w, "%s%s\n", indent, n.Kind)
		case *Leaf:
			line := fmt.Sprintf("%s%s %s", indent, n.Token.Pos, n.Token.Kind)
			if n.Token.Keyword != "" {
				line += fmt.Sprintf(" %q", n.Token.Keyword)
			}
			if n.Token.Text != "" {
				line += fmt.Sprintf(" %q", n.Token.Text)
			}
			_, err = fmt.Fprintln(w, line)
		}
		return true
	})
	return err
}
