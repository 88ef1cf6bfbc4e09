// Package lexer turns source text into one grammar.Token per logical line.
// Comment lines are dropped; a "# language: xx" comment in the header
// switches the keyword table.
package lexer

import (
	"regexp"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/chriserin/tgherkin/gherkin/diag"
	"github.com/chriserin/tgherkin/gherkin/grammar"
)

var languagePattern = regexp.MustCompile(`^#\s*language\s*:\s*([\w-]+)\s*$`)

type docString struct {
	delimiter string
	indent    int
	pos       grammar.Pos
}

type Lexer struct {
	lines    []string
	next     int
	registry *grammar.Registry
	keywords *grammar.Keywords
	match    *grammar.Matcher
	diags    *diag.Collector
	inHeader bool
	doc      *docString
	done     bool
}

// New creates a lexer over src. The registry resolves "# language:"
// headers; keywords is the table used until such a header is seen.
func New(src string, registry *grammar.Registry, keywords *grammar.Keywords, diags *diag.Collector) *Lexer {
	src = strings.TrimPrefix(src, "\uFEFF")
	lines := strings.Split(src, "\n")
	for i, line := range lines {
		lines[i] = strings.TrimSuffix(line, "\r")
	}
	// A trailing newline does not start another line.
	if len(lines) > 0 && lines[len(lines)-1] == "" {
		lines = lines[:len(lines)-1]
	}
	return &Lexer{
		lines:    lines,
		registry: registry,
		keywords: keywords,
		match:    keywords.NewMatcher(),
		diags:    diags,
		inHeader: true,
	}
}

// Language returns the code of the keyword table in effect.
func (l *Lexer) Language() string {
	return l.keywords.Code()
}

// Next returns the next token. After #EOF it keeps returning #EOF.
func (l *Lexer) Next() grammar.Token {
	for {
		if l.next >= len(l.lines) {
			return l.eof()
		}
		raw := l.lines[l.next]
		l.next++
		lineNo := l.next

		if l.doc != nil {
			return l.docStringLine(raw, lineNo)
		}

		body := strings.TrimLeftFunc(raw, unicode.IsSpace)
		indent := utf8.RuneCountInString(raw) - utf8.RuneCountInString(body)
		body = strings.TrimRightFunc(body, unicode.IsSpace)
		pos := grammar.Pos{Line: lineNo, Column: indent + 1}
		tok := grammar.Token{Pos: pos, Length: utf8.RuneCountInString(body)}

		if body == "" {
			tok.Kind = grammar.Empty
			return tok
		}
		if strings.HasPrefix(body, "#") {
			if l.inHeader {
				l.language(body, pos)
			}
			continue
		}
		l.inHeader = false

		switch {
		case strings.HasPrefix(body, `"""`), strings.HasPrefix(body, "```"):
			delim := body[:3]
			tok.Kind = grammar.DocStringSeparator
			tok.Delimiter = delim
			tok.MediaType = strings.TrimSpace(body[3:])
			l.doc = &docString{delimiter: delim, indent: indent, pos: pos}
			return tok
		case strings.HasPrefix(body, "|"):
			tok.Kind = grammar.TableRow
			cells, closed := splitCells(body, pos.Column)
			tok.Items = cells
			if !closed {
				l.diags.Errorf(diag.Lexical, pos.Line, pos.Column, tok.Length,
					"table row is not closed with '|'")
			}
			return tok
		case strings.HasPrefix(body, "@"):
			tok.Kind = grammar.TagLine
			tok.Items = l.splitTags(body, pos)
			return tok
		}

		if m, ok := l.match.Block(body); ok {
			tok.Kind = m.Kind
			tok.Keyword = m.Keyword
			tok.Text = m.Rest
			tok.TextColumn = pos.Column + m.Offset
			return tok
		}
		if m, ok := l.match.Step(body); ok {
			tok.Kind = grammar.StepLine
			tok.Keyword = m.Keyword
			tok.Role = m.Role
			tok.Text = m.Rest
			tok.TextColumn = pos.Column + m.Offset
			return tok
		}
		tok.Kind = grammar.Other
		tok.Text = body
		return tok
	}
}

// All drains the lexer, returning every token up to and including #EOF.
func (l *Lexer) All() []grammar.Token {
	var toks []grammar.Token
	for {
		tok := l.Next()
		toks = append(toks, tok)
		if tok.Kind == grammar.EOF {
			return toks
		}
	}
}

func (l *Lexer) eof() grammar.Token {
	if !l.done {
		l.done = true
		if l.doc != nil {
			l.diags.Errorf(diag.Lexical, l.doc.pos.Line, l.doc.pos.Column, utf8.RuneCountInString(l.doc.delimiter),
				"doc string opened with %s is not closed before end of input", l.doc.delimiter)
			l.doc = nil
		}
	}
	return grammar.Token{Kind: grammar.EOF, Pos: grammar.Pos{Line: len(l.lines) + 1, Column: 1}}
}

func (l *Lexer) docStringLine(raw string, lineNo int) grammar.Token {
	if strings.TrimSpace(raw) == l.doc.delimiter {
		body := strings.TrimLeftFunc(raw, unicode.IsSpace)
		col := utf8.RuneCountInString(raw) - utf8.RuneCountInString(body) + 1
		tok := grammar.Token{
			Kind:      grammar.DocStringSeparator,
			Pos:       grammar.Pos{Line: lineNo, Column: col},
			Length:    3,
			Delimiter: l.doc.delimiter,
		}
		l.doc = nil
		return tok
	}
	text := stripIndent(raw, l.doc.indent)
	text = strings.ReplaceAll(text, escapedDelimiter(l.doc.delimiter), l.doc.delimiter)
	return grammar.Token{
		Kind:   grammar.Other,
		Pos:    grammar.Pos{Line: lineNo, Column: 1},
		Length: utf8.RuneCountInString(raw),
		Text:   text,
	}
}

func (l *Lexer) language(comment string, pos grammar.Pos) {
	m := languagePattern.FindStringSubmatch(comment)
	if m == nil {
		return
	}
	k, ok := l.registry.Lookup(m[1])
	if !ok {
		l.diags.Errorf(diag.Lexical, pos.Line, pos.Column, utf8.RuneCountInString(comment),
			"unknown language %q, using %q", m[1], l.keywords.Code())
		return
	}
	l.keywords = k
	l.match = k.NewMatcher()
}

func (l *Lexer) splitTags(body string, pos grammar.Pos) []grammar.Item {
	var items []grammar.Item
	col := pos.Column
	for _, word := range fields(body) {
		wcol := col + word.offset
		if strings.HasPrefix(word.text, "#") {
			break
		}
		if !strings.HasPrefix(word.text, "@") || len(word.text) == 1 {
			l.diags.Errorf(diag.Lexical, pos.Line, wcol, utf8.RuneCountInString(word.text),
				"expected a tag, got %q", word.text)
			continue
		}
		items = append(items, grammar.Item{Column: wcol, Text: word.text[1:]})
	}
	return items
}

type field struct {
	offset int // in runes
	text   string
}

func fields(s string) []field {
	var out []field
	start := -1
	runeIdx, startRune := 0, 0
	for i, r := range s {
		if unicode.IsSpace(r) {
			if start >= 0 {
				out = append(out, field{offset: startRune, text: s[start:i]})
				start = -1
			}
		} else if start < 0 {
			start, startRune = i, runeIdx
		}
		runeIdx++
	}
	if start >= 0 {
		out = append(out, field{offset: startRune, text: s[start:]})
	}
	return out
}

// splitCells splits a row starting with '|'. It reports whether the row was
// closed by a final unescaped '|'; an unclosed row keeps its trailing text
// as a last cell.
func splitCells(body string, col int) ([]grammar.Item, bool) {
	runes := []rune(body)
	var items []grammar.Item
	start := 1
	for i := 1; i < len(runes); i++ {
		switch runes[i] {
		case '\\':
			i++
		case '|':
			items = append(items, cell(runes[start:i], col+start))
			start = i + 1
		}
	}
	if start < len(runes) {
		items = append(items, cell(runes[start:], col+start))
		return items, false
	}
	return items, true
}

func cell(raw []rune, col int) grammar.Item {
	lead := 0
	for lead < len(raw) && unicode.IsSpace(raw[lead]) {
		lead++
	}
	end := len(raw)
	for end > lead && unicode.IsSpace(raw[end-1]) {
		end--
	}
	return grammar.Item{Column: col + lead, Text: unescapeCell(raw[lead:end])}
}

func unescapeCell(raw []rune) string {
	var sb strings.Builder
	for i := 0; i < len(raw); i++ {
		if raw[i] == '\\' && i+1 < len(raw) {
			switch raw[i+1] {
			case '|':
				sb.WriteRune('|')
				i++
				continue
			case '\\':
				sb.WriteRune('\\')
				i++
				continue
			case 'n':
				sb.WriteRune('\n')
				i++
				continue
			}
		}
		sb.WriteRune(raw[i])
	}
	return sb.String()
}

// stripIndent removes up to n leading whitespace runes.
func stripIndent(s string, n int) string {
	for i, r := range s {
		if n == 0 || !unicode.IsSpace(r) {
			return s[i:]
		}
		n--
	}
	return ""
}

func escapedDelimiter(delim string) string {
	c := delim[:1]
	return `\` + c + `\` + c + `\` + c
}
