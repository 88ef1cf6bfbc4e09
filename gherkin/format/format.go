// Package format writes a document model back out as Gherkin text.
// Parsing the output yields the same structure; comments and the original
// layout are not preserved.
package format

import (
	"io"
	"strings"

	"github.com/mattn/go-runewidth"

	"github.com/chriserin/tgherkin/gherkin/grammar"
	"github.com/chriserin/tgherkin/gherkin/model"
)

const indentUnit = "  "

type printer struct {
	sb strings.Builder
}

// Format writes doc to w.
func Format(w io.Writer, doc *model.Document) error {
	_, err := io.WriteString(w, String(doc))
	return err
}

// String renders doc. A document without a feature renders empty.
func String(doc *model.Document) string {
	if doc == nil || doc.Feature == nil {
		return ""
	}
	p := &printer{}
	if doc.Language != "" && doc.Language != grammar.DefaultLanguage {
		p.line(0, "# language: "+doc.Language)
	}
	p.feature(doc.Feature)
	return p.sb.String()
}

// Scenario renders s under its feature header, preceded by the
// backgrounds that apply to it.
func Scenario(f *model.Feature, s *model.Scenario) string {
	p := &printer{}
	p.header(0, f.Keyword, f.Name)
	if f.Background != nil {
		p.blank()
		p.background(1, f.Background)
	}
	depth := 1
	for _, r := range f.Rules {
		for _, rs := range r.Scenarios {
			if rs != s {
				continue
			}
			p.blank()
			p.header(1, r.Keyword, r.Name)
			if r.Background != nil {
				p.blank()
				p.background(2, r.Background)
			}
			depth = 2
		}
	}
	p.blank()
	p.scenario(depth, s)
	return p.sb.String()
}

func (p *printer) line(depth int, s string) {
	p.sb.WriteString(strings.Repeat(indentUnit, depth))
	p.sb.WriteString(s)
	p.sb.WriteByte('\n')
}

func (p *printer) blank() {
	p.sb.WriteByte('\n')
}

func (p *printer) header(depth int, keyword, name string) {
	if name == "" {
		p.line(depth, keyword+":")
		return
	}
	p.line(depth, keyword+": "+name)
}

func (p *printer) tags(depth int, tags []model.Tag) {
	if len(tags) == 0 {
		return
	}
	names := make([]string, len(tags))
	for i, t := range tags {
		names[i] = "@" + t.Name
	}
	p.line(depth, strings.Join(names, " "))
}

func (p *printer) description(depth int, text string) {
	if text == "" {
		return
	}
	for _, l := range strings.Split(text, "\n") {
		if l == "" {
			p.blank()
			continue
		}
		p.line(depth, l)
	}
}

func (p *printer) feature(f *model.Feature) {
	p.tags(0, f.Tags)
	p.header(0, f.Keyword, f.Name)
	p.description(1, f.Description)
	if f.Background != nil {
		p.blank()
		p.background(1, f.Background)
	}
	for _, s := range f.Scenarios {
		p.blank()
		p.scenario(1, s)
	}
	for _, r := range f.Rules {
		p.blank()
		p.rule(1, r)
	}
}

func (p *printer) rule(depth int, r *model.Rule) {
	p.tags(depth, r.Tags)
	p.header(depth, r.Keyword, r.Name)
	p.description(depth+1, r.Description)
	if r.Background != nil {
		p.blank()
		p.background(depth+1, r.Background)
	}
	for _, s := range r.Scenarios {
		p.blank()
		p.scenario(depth+1, s)
	}
}

func (p *printer) background(depth int, b *model.Background) {
	p.header(depth, b.Keyword, b.Name)
	p.description(depth+1, b.Description)
	for _, s := range b.Steps {
		p.step(depth+1, s)
	}
}

func (p *printer) scenario(depth int, s *model.Scenario) {
	p.tags(depth, s.Tags)
	p.header(depth, s.Keyword, s.Name)
	p.description(depth+1, s.Description)
	for _, st := range s.Steps {
		p.step(depth+1, st)
	}
	for _, e := range s.Examples {
		p.blank()
		p.examples(depth+1, e)
	}
}

func (p *printer) examples(depth int, e *model.Examples) {
	p.tags(depth, e.Tags)
	p.header(depth, e.Keyword, e.Name)
	p.description(depth+1, e.Description)
	if e.Table != nil {
		p.table(depth+1, e.Table)
	}
}

func (p *printer) step(depth int, s *model.Step) {
	if s.Text == "" {
		p.line(depth, s.Keyword)
	} else {
		p.line(depth, s.Keyword+" "+s.Text)
	}
	if s.DataTable != nil {
		p.table(depth+1, s.DataTable)
	}
	if s.DocString != nil {
		p.docString(depth+1, s.DocString)
	}
}

func (p *printer) docString(depth int, d *model.DocString) {
	delim := d.Delimiter
	if delim == "" {
		delim = `"""`
	}
	c := delim[:1]
	escaped := `\` + c + `\` + c + `\` + c
	p.line(depth, delim+d.MediaType)
	if d.Content != "" {
		for _, l := range strings.Split(d.Content, "\n") {
			l = strings.ReplaceAll(l, delim, escaped)
			if l == "" {
				p.blank()
				continue
			}
			p.line(depth, l)
		}
	}
	p.line(depth, delim)
}

// table pads cells to the widest cell of their column, measured in
// terminal cells so wide runes stay aligned.
func (p *printer) table(depth int, t *model.DataTable) {
	var widths []int
	cells := make([][]string, len(t.Rows))
	for i, r := range t.Rows {
		cells[i] = make([]string, len(r.Cells))
		for j, c := range r.Cells {
			c = escapeCell(c)
			cells[i][j] = c
			if j >= len(widths) {
				widths = append(widths, 0)
			}
			if w := runewidth.StringWidth(c); w > widths[j] {
				widths[j] = w
			}
		}
	}
	for _, row := range cells {
		var sb strings.Builder
		sb.WriteString("|")
		for j, c := range row {
			sb.WriteString(" ")
			sb.WriteString(runewidth.FillRight(c, widths[j]))
			sb.WriteString(" |")
		}
		p.line(depth, sb.String())
	}
}

func escapeCell(s string) string {
	s = strings.ReplaceAll(s, `\`, `\\`)
	s = strings.ReplaceAll(s, "|", `\|`)
	return strings.ReplaceAll(s, "\n", `\n`)
}
