package grammar

import (
	"sort"
	"strings"
	"unicode"
	"unicode/utf8"

	"golang.org/x/text/cases"
)

type keyword struct {
	literal string
	folded  string
	runes   int
	kind    TokenKind
	role    StepRole
}

// Keywords is a compiled Dialect. It is immutable and may be shared by
// concurrent lexers.
type Keywords struct {
	dialect *Dialect
	blocks  []keyword
	steps   []keyword
}

// Compile validates d and builds its keyword matcher tables.
func Compile(d *Dialect) (*Keywords, error) {
	if err := d.Validate(); err != nil {
		return nil, err
	}
	fold := cases.Fold()
	k := &Keywords{dialect: d}
	add := func(dst *[]keyword, list []string, kind TokenKind, role StepRole) {
		for _, lit := range list {
			lit = strings.TrimSpace(lit)
			*dst = append(*dst, keyword{
				literal: lit,
				folded:  fold.String(lit),
				runes:   utf8.RuneCountInString(lit),
				kind:    kind,
				role:    role,
			})
		}
	}
	add(&k.blocks, d.Feature, FeatureLine, RoleNone)
	add(&k.blocks, d.Rule, RuleLine, RoleNone)
	add(&k.blocks, d.Background, BackgroundLine, RoleNone)
	add(&k.blocks, d.Scenario, ScenarioLine, RoleNone)
	add(&k.blocks, d.ScenarioOutline, ScenarioOutlineLine, RoleNone)
	add(&k.blocks, d.Examples, ExamplesLine, RoleNone)

	add(&k.steps, d.Given, StepLine, RoleGiven)
	add(&k.steps, d.When, StepLine, RoleWhen)
	add(&k.steps, d.Then, StepLine, RoleThen)
	add(&k.steps, d.And, StepLine, RoleAnd)
	add(&k.steps, d.But, StepLine, RoleBut)
	add(&k.steps, d.If, StepLine, RoleIf)
	add(&k.steps, []string{"*"}, StepLine, RoleAny)

	// Longest keyword first so "Scenario Outline" beats "Scenario" and
	// "Пусть будет" beats "Пусть".
	byLength := func(list []keyword) func(i, j int) bool {
		return func(i, j int) bool { return list[i].runes > list[j].runes }
	}
	sort.SliceStable(k.blocks, byLength(k.blocks))
	sort.SliceStable(k.steps, byLength(k.steps))
	return k, nil
}

func (k *Keywords) Dialect() *Dialect {
	return k.dialect
}

func (k *Keywords) Code() string {
	return k.dialect.Code
}

// Match is the result of a successful keyword match.
type Match struct {
	Kind    TokenKind
	Role    StepRole
	Keyword string // as spelled in the line
	Rest    string // text after the keyword (and colon), trimmed
	// Offset is the rune offset of Rest from the start of the line.
	Offset int
}

// Matcher matches keywords at the start of lines. A Matcher holds a case
// folder and must not be shared between goroutines; Keywords can.
type Matcher struct {
	keywords *Keywords
	fold     cases.Caser
}

func (k *Keywords) NewMatcher() *Matcher {
	return &Matcher{keywords: k, fold: cases.Fold()}
}

// Block matches a block keyword immediately followed by a colon.
func (m *Matcher) Block(line string) (Match, bool) {
	for _, kw := range m.keywords.blocks {
		head, rest, ok := m.prefix(line, kw)
		if !ok || !strings.HasPrefix(rest, ":") {
			continue
		}
		return Match{Kind: kw.kind, Keyword: head, Rest: strings.TrimSpace(rest[1:]), Offset: kw.runes + 1 + leading(rest[1:])}, true
	}
	return Match{}, false
}

// Step matches a step keyword followed by a blank or the end of line.
func (m *Matcher) Step(line string) (Match, bool) {
	for _, kw := range m.keywords.steps {
		head, rest, ok := m.prefix(line, kw)
		if !ok {
			continue
		}
		if rest != "" {
			r, _ := utf8.DecodeRuneInString(rest)
			if !unicode.IsSpace(r) {
				continue
			}
		}
		return Match{Kind: StepLine, Role: kw.role, Keyword: head, Rest: strings.TrimSpace(rest), Offset: kw.runes + leading(rest)}, true
	}
	return Match{}, false
}

// prefix compares the first kw.runes runes of line with kw, ignoring case.
func (m *Matcher) prefix(line string, kw keyword) (head, rest string, ok bool) {
	n, i := 0, 0
	for i < len(line) && n < kw.runes {
		_, size := utf8.DecodeRuneInString(line[i:])
		i += size
		n++
	}
	if n < kw.runes {
		return "", "", false
	}
	head = line[:i]
	if head != kw.literal && m.fold.String(head) != kw.folded {
		return "", "", false
	}
	return head, line[i:], true
}

func leading(s string) int {
	n := 0
	for _, r := range s {
		if !unicode.IsSpace(r) {
			break
		}
		n++
	}
	return n
}
