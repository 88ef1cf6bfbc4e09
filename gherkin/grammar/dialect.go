package grammar

import (
	"bytes"
	"errors"
	"fmt"
	"path/filepath"
	"slices"
	"strings"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"
)

// StepRole is the semantic role of a step keyword.
type StepRole int

const (
	RoleNone StepRole = iota
	RoleGiven
	RoleWhen
	RoleThen
	RoleAnd
	RoleBut
	RoleIf
	// RoleAny is the dialect independent "*" bullet.
	RoleAny
)

var roleNames = [...]string{"none", "given", "when", "then", "and", "but", "if", "any"}

func (r StepRole) String() string {
	if r >= 0 && int(r) < len(roleNames) {
		return roleNames[r]
	}
	return "unknown"
}

// Dialect is a keyword table for one language. Block keywords are listed
// without their trailing colon.
type Dialect struct {
	Code   string `yaml:"code" toml:"code"`
	Name   string `yaml:"name" toml:"name"`
	Native string `yaml:"native" toml:"native"`

	Feature         []string `yaml:"feature" toml:"feature"`
	Rule            []string `yaml:"rule" toml:"rule"`
	Background      []string `yaml:"background" toml:"background"`
	Scenario        []string `yaml:"scenario" toml:"scenario"`
	ScenarioOutline []string `yaml:"scenario_outline" toml:"scenario_outline"`
	Examples        []string `yaml:"examples" toml:"examples"`

	Given []string `yaml:"given" toml:"given"`
	When  []string `yaml:"when" toml:"when"`
	Then  []string `yaml:"then" toml:"then"`
	And   []string `yaml:"and" toml:"and"`
	But   []string `yaml:"but" toml:"but"`
	If    []string `yaml:"if" toml:"if"`
}

var ErrInvalidDialect = errors.New("invalid dialect")

// Validate checks that the table can drive the grammar.
func (d *Dialect) Validate() error {
	if strings.TrimSpace(d.Code) == "" {
		return fmt.Errorf("%w: missing code", ErrInvalidDialect)
	}
	required := map[string][]string{
		"feature":          d.Feature,
		"scenario":         d.Scenario,
		"scenario_outline": d.ScenarioOutline,
		"examples":         d.Examples,
		"given":            d.Given,
		"when":             d.When,
		"then":             d.Then,
	}
	for _, name := range []string{"feature", "scenario", "scenario_outline", "examples", "given", "when", "then"} {
		if len(required[name]) == 0 {
			return fmt.Errorf("%w %q: no %s keywords", ErrInvalidDialect, d.Code, name)
		}
	}
	for _, list := range [][]string{d.Feature, d.Rule, d.Background, d.Scenario, d.ScenarioOutline, d.Examples} {
		for _, kw := range list {
			if kw == "" || strings.ContainsAny(kw, ":\t\n") {
				return fmt.Errorf("%w %q: bad block keyword %q", ErrInvalidDialect, d.Code, kw)
			}
		}
	}
	for _, list := range [][]string{d.Given, d.When, d.Then, d.And, d.But, d.If} {
		for _, kw := range list {
			if strings.TrimSpace(kw) == "" || strings.ContainsAny(kw, "\t\n") {
				return fmt.Errorf("%w %q: bad step keyword %q", ErrInvalidDialect, d.Code, kw)
			}
		}
	}
	return nil
}

func (d *Dialect) keywordLists() []*[]string {
	return []*[]string{
		&d.Feature, &d.Rule, &d.Background, &d.Scenario, &d.ScenarioOutline, &d.Examples,
		&d.Given, &d.When, &d.Then, &d.And, &d.But, &d.If,
	}
}

// Merge returns a dialect that accepts the keywords of every given
// dialect, so one document may mix them freely. Keywords keep their
// order of first appearance.
func Merge(code, name, native string, dialects ...*Dialect) *Dialect {
	m := &Dialect{Code: code, Name: name, Native: native}
	dst := m.keywordLists()
	for _, d := range dialects {
		for i, src := range d.keywordLists() {
			for _, kw := range *src {
				if !slices.Contains(*dst[i], kw) {
					*dst[i] = append(*dst[i], kw)
				}
			}
		}
	}
	return m
}

// DecodeDialect reads a language pack. The format follows the file
// extension: .yaml/.yml or .toml.
func DecodeDialect(filename string, data []byte) (*Dialect, error) {
	d := &Dialect{}
	switch strings.ToLower(filepath.Ext(filename)) {
	case ".yaml", ".yml":
		dec := yaml.NewDecoder(bytes.NewReader(data))
		dec.KnownFields(true)
		if err := dec.Decode(d); err != nil {
			return nil, fmt.Errorf("decoding %s: %w", filename, err)
		}
	case ".toml":
		md, err := toml.Decode(string(data), d)
		if err != nil {
			return nil, fmt.Errorf("decoding %s: %w", filename, err)
		}
		if undecoded := md.Undecoded(); len(undecoded) > 0 {
			return nil, fmt.Errorf("decoding %s: unknown key %q", filename, undecoded[0].String())
		}
	default:
		return nil, fmt.Errorf("decoding %s: unsupported language pack format", filename)
	}
	if err := d.Validate(); err != nil {
		return nil, err
	}
	return d, nil
}
