package grammar

import (
	"embed"
	"fmt"
	"path"
	"sort"
	"sync"
)

//go:embed languages/*.yaml
var languageFiles embed.FS

const (
	// DefaultLanguage is used when no language is configured.
	DefaultLanguage = "en"
	// MixedLanguage accepts the English and Russian keywords together.
	MixedLanguage = "turbo"
)

// Registry maps language codes to compiled keyword tables. A Registry is
// never modified after construction.
type Registry struct {
	byCode map[string]*Keywords
}

// NewRegistry compiles the given dialects. Later dialects replace earlier
// ones with the same code.
func NewRegistry(dialects ...*Dialect) (*Registry, error) {
	r := &Registry{byCode: make(map[string]*Keywords, len(dialects))}
	for _, d := range dialects {
		k, err := Compile(d)
		if err != nil {
			return nil, err
		}
		r.byCode[d.Code] = k
	}
	return r, nil
}

// With returns a new registry holding r's dialects plus the given ones.
func (r *Registry) With(dialects ...*Dialect) (*Registry, error) {
	out := &Registry{byCode: make(map[string]*Keywords, len(r.byCode)+len(dialects))}
	for code, k := range r.byCode {
		out.byCode[code] = k
	}
	for _, d := range dialects {
		k, err := Compile(d)
		if err != nil {
			return nil, err
		}
		out.byCode[d.Code] = k
	}
	return out, nil
}

func (r *Registry) Lookup(code string) (*Keywords, bool) {
	k, ok := r.byCode[code]
	return k, ok
}

// Codes returns the registered language codes in sorted order.
func (r *Registry) Codes() []string {
	codes := make([]string, 0, len(r.byCode))
	for code := range r.byCode {
		codes = append(codes, code)
	}
	sort.Strings(codes)
	return codes
}

var builtin = sync.OnceValue(func() *Registry {
	entries, err := languageFiles.ReadDir("languages")
	if err != nil {
		panic(err)
	}
	var dialects []*Dialect
	for _, e := range entries {
		name := path.Join("languages", e.Name())
		data, err := languageFiles.ReadFile(name)
		if err != nil {
			panic(err)
		}
		d, err := DecodeDialect(name, data)
		if err != nil {
			panic(fmt.Sprintf("built-in language pack: %v", err))
		}
		dialects = append(dialects, d)
	}
	byCode := make(map[string]*Dialect, len(dialects))
	for _, d := range dialects {
		byCode[d.Code] = d
	}
	dialects = append(dialects, Merge(MixedLanguage, "Turbo", "English + русский", byCode["en"], byCode["ru"]))
	r, err := NewRegistry(dialects...)
	if err != nil {
		panic(err)
	}
	return r
})

// Builtin returns the registry of embedded language packs.
func Builtin() *Registry {
	return builtin()
}
