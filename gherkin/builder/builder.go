// Package builder walks a concrete syntax tree and produces the document
// model, reporting semantic problems to the diagnostics collector.
package builder

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/chriserin/tgherkin/gherkin/cst"
	"github.com/chriserin/tgherkin/gherkin/diag"
	"github.com/chriserin/tgherkin/gherkin/grammar"
	"github.com/chriserin/tgherkin/gherkin/model"
	"github.com/chriserin/tgherkin/gherkin/params"
)

type builder struct {
	diags        *diag.Collector
	placeholders map[*model.Step][]model.Param
}

// Build converts root, a KindDocument branch, into a document. Lines the
// parser skipped during recovery are not part of the result.
func Build(root *cst.Branch, diags *diag.Collector) *model.Document {
	b := &builder{diags: diags, placeholders: map[*model.Step][]model.Param{}}
	doc := &model.Document{}
	for _, n := range branches(root) {
		switch n.Kind {
		case cst.KindFeature:
			doc.Feature = b.feature(n)
		case cst.KindError:
			// Lines skipped during recovery were reported by the parser and
			// have no place in the model.
		}
	}
	return doc
}

func branches(parent *cst.Branch) []*cst.Branch {
	var out []*cst.Branch
	for _, c := range parent.Children {
		if b, ok := c.(*cst.Branch); ok {
			out = append(out, b)
		}
	}
	return out
}

func location(p grammar.Pos) model.Location {
	return model.Location{Line: p.Line, Column: p.Column}
}

func (b *builder) feature(n *cst.Branch) *model.Feature {
	head, _ := n.Header(grammar.FeatureLine)
	f := &model.Feature{
		Location: location(head.Pos),
		Keyword:  head.Keyword,
		Name:     head.Text,
	}
	for _, c := range branches(n) {
		switch c.Kind {
		case cst.KindTags:
			f.Tags = b.tags(c)
		case cst.KindDescription:
			f.Description = description(c)
		case cst.KindBackground:
			f.Background = b.background(c)
		case cst.KindScenario:
			f.Scenarios = append(f.Scenarios, b.scenario(c))
		case cst.KindRule:
			f.Rules = append(f.Rules, b.rule(c))
		case cst.KindError:
			// Skipped during recovery.
		}
	}
	return f
}

func (b *builder) rule(n *cst.Branch) *model.Rule {
	head, _ := n.Header(grammar.RuleLine)
	r := &model.Rule{
		Location: location(head.Pos),
		Keyword:  head.Keyword,
		Name:     head.Text,
	}
	for _, c := range branches(n) {
		switch c.Kind {
		case cst.KindTags:
			r.Tags = b.tags(c)
		case cst.KindDescription:
			r.Description = description(c)
		case cst.KindBackground:
			r.Background = b.background(c)
		case cst.KindScenario:
			r.Scenarios = append(r.Scenarios, b.scenario(c))
		case cst.KindError:
			// Skipped during recovery.
		}
	}
	return r
}

func (b *builder) background(n *cst.Branch) *model.Background {
	head, _ := n.Header(grammar.BackgroundLine)
	bg := &model.Background{
		Location: location(head.Pos),
		Keyword:  head.Keyword,
		Name:     head.Text,
	}
	for _, c := range branches(n) {
		switch c.Kind {
		case cst.KindDescription:
			bg.Description = description(c)
		case cst.KindStep:
			bg.Steps = append(bg.Steps, b.step(c))
		case cst.KindError:
			// Skipped during recovery.
		}
	}
	return bg
}

func (b *builder) scenario(n *cst.Branch) *model.Scenario {
	head, _ := n.Header(grammar.ScenarioLine, grammar.ScenarioOutlineLine)
	s := &model.Scenario{
		Location: location(head.Pos),
		Keyword:  head.Keyword,
		Name:     head.Text,
		Outline:  head.Kind == grammar.ScenarioOutlineLine,
		Params:   params.Parse(head.Text, head.TextColumn),
	}
	for _, c := range branches(n) {
		switch c.Kind {
		case cst.KindTags:
			s.Tags = b.tags(c)
		case cst.KindDescription:
			s.Description = description(c)
		case cst.KindStep:
			s.Steps = append(s.Steps, b.step(c))
		case cst.KindExamples:
			s.Examples = append(s.Examples, b.examples(c))
		case cst.KindError:
			// Skipped during recovery.
		}
	}
	if len(s.Examples) > 0 {
		s.Outline = true
	}
	if s.Outline {
		b.checkPlaceholders(s)
	}
	return s
}

func (b *builder) examples(n *cst.Branch) *model.Examples {
	head, _ := n.Header(grammar.ExamplesLine)
	e := &model.Examples{
		Location: location(head.Pos),
		Keyword:  head.Keyword,
		Name:     head.Text,
	}
	for _, c := range branches(n) {
		switch c.Kind {
		case cst.KindTags:
			e.Tags = b.tags(c)
		case cst.KindDescription:
			e.Description = description(c)
		case cst.KindDataTable:
			e.Table = b.dataTable(c)
		case cst.KindError:
			// Skipped during recovery.
		}
	}
	if e.Table == nil {
		b.diags.Warnf(diag.Semantic, head.Pos.Line, head.Pos.Column, utf8.RuneCountInString(head.Keyword),
			"%s has no table", head.Keyword)
	}
	return e
}

func (b *builder) step(n *cst.Branch) *model.Step {
	head, _ := n.Header(grammar.StepLine)
	s := &model.Step{
		Location:    location(head.Pos),
		Keyword:     head.Keyword,
		KeywordType: keywordType(head.Role),
		Text:        head.Text,
		Params:      params.Parse(head.Text, head.TextColumn),
	}
	b.placeholders[s] = params.Placeholders(head.Text, head.TextColumn)
	for _, c := range branches(n) {
		switch c.Kind {
		case cst.KindDataTable:
			s.DataTable = b.dataTable(c)
		case cst.KindDocString:
			s.DocString = docString(c)
		case cst.KindError:
			// Skipped during recovery.
		}
	}
	return s
}

func keywordType(r grammar.StepRole) model.KeywordType {
	switch r {
	case grammar.RoleGiven:
		return model.KeywordTypeContext
	case grammar.RoleWhen:
		return model.KeywordTypeAction
	case grammar.RoleThen:
		return model.KeywordTypeOutcome
	case grammar.RoleAnd, grammar.RoleBut:
		return model.KeywordTypeConjunction
	case grammar.RoleIf:
		return model.KeywordTypeConditional
	}
	return model.KeywordTypeUnknown
}

func (b *builder) tags(n *cst.Branch) []model.Tag {
	var tags []model.Tag
	seen := map[string]bool{}
	for _, t := range n.Tokens() {
		for _, it := range t.Items {
			if seen[it.Text] {
				b.diags.Warnf(diag.Semantic, t.Pos.Line, it.Column, utf8.RuneCountInString(it.Text)+1,
					"duplicate tag @%s", it.Text)
			}
			seen[it.Text] = true
			tags = append(tags, model.Tag{
				Location: model.Location{Line: t.Pos.Line, Column: it.Column},
				Name:     it.Text,
			})
		}
	}
	return tags
}

// description joins the free text lines, dropping trailing blank lines.
func description(n *cst.Branch) string {
	var lines []string
	for _, t := range n.Tokens() {
		lines = append(lines, t.Text)
	}
	for len(lines) > 0 && lines[len(lines)-1] == "" {
		lines = lines[:len(lines)-1]
	}
	return strings.Join(lines, "\n")
}

// dataTable keeps every row as written; rows whose width differs from the
// header are reported, never padded or truncated.
func (b *builder) dataTable(n *cst.Branch) *model.DataTable {
	t := &model.DataTable{Location: location(n.Pos())}
	for _, tok := range n.Tokens() {
		row := &model.Row{Location: location(tok.Pos), Cells: make([]string, len(tok.Items))}
		for i, it := range tok.Items {
			row.Cells[i] = it.Text
		}
		t.Rows = append(t.Rows, row)
	}
	header := t.Header()
	if header == nil {
		return t
	}
	for _, row := range t.Body() {
		if len(row.Cells) != len(header.Cells) {
			b.diags.Errorf(diag.Semantic, row.Location.Line, row.Location.Column, 0,
				"table row has %d cells, expected %d like the header row at line %d",
				len(row.Cells), len(header.Cells), header.Location.Line)
		}
	}
	return t
}

func docString(n *cst.Branch) *model.DocString {
	toks := n.Tokens()
	open := toks[0]
	d := &model.DocString{
		Location:  location(open.Pos),
		Delimiter: open.Delimiter,
		MediaType: open.MediaType,
	}
	var lines []string
	for _, t := range toks[1:] {
		if t.Kind == grammar.Other {
			lines = append(lines, t.Text)
		}
	}
	d.Content = strings.Join(lines, "\n")
	return d
}

// checkPlaceholders verifies that every <name> in the outline's step text
// is a column of each attached Examples table. Step text is left as is.
func (b *builder) checkPlaceholders(s *model.Scenario) {
	if len(s.Examples) == 0 {
		b.diags.Warnf(diag.Semantic, s.Location.Line, s.Location.Column, utf8.RuneCountInString(s.Keyword),
			"%s %q has no Examples", s.Keyword, s.Name)
		return
	}
	var tables []*model.Examples
	for _, e := range s.Examples {
		if e.Table != nil && e.Table.Header() != nil {
			tables = append(tables, e)
		}
	}
	if len(tables) == 0 {
		return
	}
	for _, st := range s.Steps {
		for _, p := range b.placeholders[st] {
			var missing []string
			for _, e := range tables {
				if !contains(e.Columns(), p.Value) {
					missing = append(missing, fmt.Sprintf("line %d", e.Location.Line))
				}
			}
			if len(missing) > 0 {
				b.diags.Warnf(diag.Semantic, st.Location.Line, p.Column, utf8.RuneCountInString(p.Text),
					"unresolved placeholder <%s>: no such column in Examples at %s",
					p.Value, strings.Join(missing, ", "))
			}
		}
	}
}

func contains(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}
