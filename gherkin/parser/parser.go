// Package parser assembles the concrete syntax tree from lexed lines
// following the productions in package grammar.
//
// On a token a block does not accept, the parser switches from scanning to
// synchronizing: it records one structural diagnostic, skips lines up to
// the next block keyword line, or the tags leading to one, and resumes
// scanning there. The skipped lines are kept under a KindError branch.
package parser

import (
	"fmt"
	"slices"

	"github.com/chriserin/tgherkin/gherkin/cst"
	"github.com/chriserin/tgherkin/gherkin/diag"
	"github.com/chriserin/tgherkin/gherkin/grammar"
)

// TokenSource yields tokens until #EOF. *lexer.Lexer implements it.
type TokenSource interface {
	Next() grammar.Token
}

type state int

const (
	scanning state = iota
	synchronizing
)

type Parser struct {
	toks  []grammar.Token
	pos   int
	diags *diag.Collector
	state state
}

// Parse reads src to the end and returns the document branch.
func Parse(src TokenSource, diags *diag.Collector) *cst.Branch {
	p := &Parser{diags: diags}
	for {
		t := src.Next()
		p.toks = append(p.toks, t)
		if t.Kind == grammar.EOF {
			break
		}
	}
	return p.document()
}

func (p *Parser) peek() grammar.Token {
	return p.toks[p.pos]
}

func (p *Parser) advance() grammar.Token {
	t := p.toks[p.pos]
	if t.Kind != grammar.EOF {
		p.pos++
	}
	return t
}

func (p *Parser) skipEmpty() {
	for p.peek().Kind == grammar.Empty {
		p.pos++
	}
}

// blockKind is the kind of the current line, looking through tag lines to
// the line they are attached to.
func (p *Parser) blockKind() grammar.TokenKind {
	for i := p.pos; i < len(p.toks); i++ {
		switch k := p.toks[i].Kind; k {
		case grammar.TagLine, grammar.Empty:
			continue
		default:
			return k
		}
	}
	return grammar.EOF
}

func (p *Parser) hasFeature() bool {
	for _, t := range p.toks {
		if t.Kind == grammar.FeatureLine {
			return true
		}
	}
	return false
}

func (p *Parser) document() *cst.Branch {
	root := &cst.Branch{Kind: cst.KindDocument}
	if !p.hasFeature() {
		p.diags.Errorf(diag.Structural, 1, 1, 0, "no Feature header found")
		return root
	}
	seen := false
	for {
		p.skipEmpty()
		if p.peek().Kind == grammar.EOF {
			return root
		}
		if !seen && grammar.Starts(grammar.RuleFeature, p.blockKind()) {
			root.Add(p.feature())
			seen = true
			continue
		}
		if seen {
			p.unexpected(root, grammar.RuleDocument, grammar.TagLine, grammar.FeatureLine)
		} else {
			p.unexpected(root, grammar.RuleDocument)
		}
	}
}

func (p *Parser) feature() *cst.Branch {
	b := &cst.Branch{Kind: cst.KindFeature}
	if p.peek().Kind == grammar.TagLine {
		b.Add(p.tags())
	}
	b.AddToken(p.advance())
	p.description(b)

	var background, scenarios, rules bool
	for {
		p.skipEmpty()
		t, k := p.peek(), p.blockKind()
		switch {
		case t.Kind == grammar.EOF, grammar.Starts(grammar.RuleFeature, k):
			return b
		case grammar.Starts(grammar.RuleBackground, t.Kind) && !background && !scenarios && !rules:
			b.Add(p.background())
			background = true
		case grammar.Starts(grammar.RuleScenario, k):
			b.Add(p.scenario())
			scenarios = true
		case grammar.Starts(grammar.RuleRule, k):
			b.Add(p.rule())
			rules = true
		case background || scenarios || rules:
			p.unexpected(b, grammar.RuleFeature, grammar.BackgroundLine)
		default:
			p.unexpected(b, grammar.RuleFeature)
		}
	}
}

func (p *Parser) rule() *cst.Branch {
	b := &cst.Branch{Kind: cst.KindRule}
	if p.peek().Kind == grammar.TagLine {
		b.Add(p.tags())
	}
	b.AddToken(p.advance())
	p.description(b)

	var background, scenarios bool
	for {
		p.skipEmpty()
		t, k := p.peek(), p.blockKind()
		switch {
		case t.Kind == grammar.EOF, grammar.Starts(grammar.RuleFeature, k), grammar.Starts(grammar.RuleRule, k):
			return b
		case grammar.Starts(grammar.RuleBackground, t.Kind) && !background && !scenarios:
			b.Add(p.background())
			background = true
		case grammar.Starts(grammar.RuleScenario, k):
			b.Add(p.scenario())
			scenarios = true
		case background || scenarios:
			p.unexpected(b, grammar.RuleRule, grammar.BackgroundLine)
		default:
			p.unexpected(b, grammar.RuleRule)
		}
	}
}

func (p *Parser) background() *cst.Branch {
	b := &cst.Branch{Kind: cst.KindBackground}
	b.AddToken(p.advance())
	p.description(b)
	for {
		p.skipEmpty()
		switch {
		case grammar.Starts(grammar.RuleStep, p.peek().Kind):
			b.Add(p.step())
		case grammar.Synchronizes(p.blockKind()):
			return b
		default:
			p.unexpected(b, grammar.RuleBackground)
		}
	}
}

func (p *Parser) scenario() *cst.Branch {
	b := &cst.Branch{Kind: cst.KindScenario}
	if p.peek().Kind == grammar.TagLine {
		b.Add(p.tags())
	}
	b.AddToken(p.advance())
	p.description(b)

	examples := false
	for {
		p.skipEmpty()
		t, k := p.peek(), p.blockKind()
		switch {
		case grammar.Starts(grammar.RuleStep, t.Kind) && !examples:
			b.Add(p.step())
		case grammar.Starts(grammar.RuleExamples, k):
			b.Add(p.examples())
			examples = true
		case grammar.Synchronizes(k):
			return b
		case examples:
			p.unexpected(b, grammar.RuleScenario, grammar.StepLine)
		default:
			p.unexpected(b, grammar.RuleScenario)
		}
	}
}

func (p *Parser) examples() *cst.Branch {
	b := &cst.Branch{Kind: cst.KindExamples}
	if p.peek().Kind == grammar.TagLine {
		b.Add(p.tags())
	}
	b.AddToken(p.advance())
	p.description(b)

	table := false
	for {
		p.skipEmpty()
		switch {
		case grammar.Starts(grammar.RuleDataTable, p.peek().Kind) && !table:
			b.Add(p.dataTable())
			table = true
		case grammar.Synchronizes(p.blockKind()):
			return b
		case table:
			p.unexpected(b, grammar.RuleExamples, grammar.TableRow)
		default:
			p.unexpected(b, grammar.RuleExamples)
		}
	}
}

func (p *Parser) step() *cst.Branch {
	b := &cst.Branch{Kind: cst.KindStep}
	b.AddToken(p.advance())

	i := p.pos
	for p.toks[i].Kind == grammar.Empty {
		i++
	}
	switch k := p.toks[i].Kind; {
	case grammar.Starts(grammar.RuleDataTable, k):
		p.pos = i
		b.Add(p.dataTable())
	case grammar.Starts(grammar.RuleDocString, k):
		p.pos = i
		b.Add(p.docString())
	}
	return b
}

func (p *Parser) dataTable() *cst.Branch {
	b := &cst.Branch{Kind: cst.KindDataTable}
	for {
		i := p.pos
		for p.toks[i].Kind == grammar.Empty {
			i++
		}
		if p.toks[i].Kind != grammar.TableRow {
			return b
		}
		p.pos = i
		b.AddToken(p.advance())
	}
}

func (p *Parser) docString() *cst.Branch {
	b := &cst.Branch{Kind: cst.KindDocString}
	b.AddToken(p.advance())
	for p.peek().Kind == grammar.Other {
		b.AddToken(p.advance())
	}
	// Without a closing separator the lexer has already reported the
	// unterminated string and the content runs to the end of input.
	if p.peek().Kind == grammar.DocStringSeparator {
		b.AddToken(p.advance())
	}
	return b
}

func (p *Parser) tags() *cst.Branch {
	b := &cst.Branch{Kind: cst.KindTags}
	for {
		p.skipEmpty()
		if p.peek().Kind != grammar.TagLine {
			return b
		}
		b.AddToken(p.advance())
	}
}

// description collects free text lines, keeping blank lines between them.
func (p *Parser) description(parent *cst.Branch) {
	var d *cst.Branch
	for {
		i := p.pos
		for p.toks[i].Kind == grammar.Empty {
			i++
		}
		if !grammar.Starts(grammar.RuleDescription, p.toks[i].Kind) {
			return
		}
		if d == nil {
			d = &cst.Branch{Kind: cst.KindDescription}
			parent.Add(d)
		} else {
			for p.pos < i {
				d.AddToken(p.advance())
			}
		}
		p.pos = i
		d.AddToken(p.advance())
	}
}

// unexpected consumes the offending token, synchronizes on the next block
// keyword line and records one diagnostic for the skipped span. closed
// lists the body tokens of r the block no longer accepts.
func (p *Parser) unexpected(parent *cst.Branch, r grammar.Rule, closed ...grammar.TokenKind) {
	bad := p.advance()
	p.state = synchronizing
	if bad.Kind == grammar.TagLine {
		// These tags lead to no block r accepts.
		closed = append(closed, grammar.TagLine)
	}

	skipped := &cst.Branch{Kind: cst.KindError}
	skipped.AddToken(bad)
	last := bad
	for p.state == synchronizing {
		if p.resumes(r, closed) {
			p.state = scanning
			break
		}
		if t := p.advance(); t.Kind != grammar.Empty {
			skipped.AddToken(t)
			last = t
		}
	}
	parent.Add(skipped)

	span := fmt.Sprintf("line %d", bad.Pos.Line)
	if last.Pos.Line > bad.Pos.Line {
		span = fmt.Sprintf("lines %d-%d", bad.Pos.Line, last.Pos.Line)
	}
	p.diags.Errorf(diag.Structural, bad.Pos.Line, bad.Pos.Column, bad.Length,
		"unexpected %s in %s, expected %s (skipped %s)",
		describe(bad), r, grammar.Expected(grammar.Follow(r, closed...)), span)
}

// resumes reports whether scanning may restart at the current token. Tag
// lines only count when they lead to a taggable block, so a run of
// dangling tags is skipped as one span. Outside the feature only the
// first feature header can restart it.
func (p *Parser) resumes(r grammar.Rule, closed []grammar.TokenKind) bool {
	k := p.peek().Kind
	if k == grammar.TagLine {
		if k = p.blockKind(); !grammar.Taggable(k) {
			return false
		}
	}
	if r == grammar.RuleDocument {
		return k == grammar.EOF || (k == grammar.FeatureLine && !slices.Contains(closed, grammar.FeatureLine))
	}
	return grammar.Synchronizes(k)
}

func describe(t grammar.Token) string {
	switch {
	case t.Keyword != "":
		return fmt.Sprintf("%s %q", t.Kind, t.Keyword)
	case t.Kind == grammar.Other:
		return fmt.Sprintf("%s %q", t.Kind, t.Text)
	}
	return t.Kind.String()
}
