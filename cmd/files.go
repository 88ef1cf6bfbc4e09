package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"sort"
	"strings"
	"time"

	"github.com/spf13/afero"
	"golang.org/x/sync/errgroup"

	"github.com/chriserin/tgherkin/gherkin"
	"github.com/chriserin/tgherkin/gherkin/model"
)

// parsedFile is one feature file after parsing. doc is never nil.
type parsedFile struct {
	path  string
	lines []string
	doc   *model.Document
}

// discover expands paths into the feature files they name. Directories are
// walked for *.feature files, skipping hidden directories. Files named
// explicitly are taken whatever their extension.
func discover(fs afero.Fs, paths []string) ([]string, error) {
	if len(paths) == 0 {
		paths = []string{"."}
	}
	seen := map[string]bool{}
	var out []string
	add := func(p string) {
		p = filepath.Clean(p)
		if !seen[p] {
			seen[p] = true
			out = append(out, p)
		}
	}
	for _, root := range paths {
		info, err := fs.Stat(root)
		if err != nil {
			return nil, fmt.Errorf("reading %s: %w", root, err)
		}
		if !info.IsDir() {
			add(root)
			continue
		}
		err = afero.Walk(fs, root, func(path string, info os.FileInfo, err error) error {
			if err != nil {
				return err
			}
			if info.IsDir() {
				if path != root && strings.HasPrefix(info.Name(), ".") {
					return filepath.SkipDir
				}
				return nil
			}
			if filepath.Ext(path) == ".feature" {
				add(path)
			}
			return nil
		})
		if err != nil {
			return nil, fmt.Errorf("walking %s: %w", root, err)
		}
	}
	sort.Strings(out)
	return out, nil
}

// parseFiles reads and parses paths concurrently, keeping their order.
// Strict failures are not errors here; callers look at the diagnostics.
func parseFiles(ctx context.Context, st *state, paths []string) ([]parsedFile, error) {
	out := make([]parsedFile, len(paths))
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(runtime.GOMAXPROCS(0))
	for i, path := range paths {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			start := time.Now()
			pf, err := parseFile(st, path)
			if err != nil {
				return err
			}
			out[i] = pf
			st.logger.WithField("file", path).Debugf("parsed in %s, %d diagnostics", time.Since(start), len(pf.doc.Diagnostics))
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return out, nil
}

func parseFile(st *state, path string) (parsedFile, error) {
	data, err := afero.ReadFile(st.fs, path)
	if err != nil {
		return parsedFile{}, fmt.Errorf("reading %s: %w", path, err)
	}
	src := string(data)
	doc, err := gherkin.Parse(src, st.options(path))
	if err != nil && !errors.Is(err, gherkin.ErrStrict) {
		return parsedFile{}, err
	}
	return parsedFile{path: path, lines: strings.Split(src, "\n"), doc: doc}, nil
}
