package cmd

import (
	"fmt"
	"io"
	"strings"

	"github.com/mattn/go-runewidth"
	"github.com/spf13/cobra"

	"github.com/chriserin/tgherkin/gherkin/model"
	"github.com/chriserin/tgherkin/internal/ui"
)

var (
	tagFlag     string
	outlineFlag bool
)

var listCmd = &cobra.Command{
	Use:   "list [path]...",
	Short: "List the scenarios of feature files",
	RunE: func(cmd *cobra.Command, args []string) error {
		return RunList(cmd.OutOrStdout(), current, args, tagFlag, outlineFlag)
	},
}

func init() {
	listCmd.Flags().StringVar(&tagFlag, "tag", "", "Show only scenarios carrying this tag")
	listCmd.Flags().BoolVar(&outlineFlag, "outlines", false, "Show only scenario outlines")
	rootCmd.AddCommand(listCmd)
}

type listRow struct {
	loc     string
	keyword string
	name    string
	tags    string
}

// scenarioTags returns the tags that apply to s: its own plus those of the
// feature and of the enclosing rule.
func scenarioTags(f *model.Feature, s *model.Scenario) []model.Tag {
	tags := append([]model.Tag(nil), f.Tags...)
	for _, r := range f.Rules {
		for _, rs := range r.Scenarios {
			if rs == s {
				tags = append(tags, r.Tags...)
			}
		}
	}
	return append(tags, s.Tags...)
}

func RunList(w io.Writer, st *state, paths []string, tagFilter string, outlines bool) error {
	files, err := discover(st.fs, paths)
	if err != nil {
		return err
	}
	parsed, err := parseFiles(st.ctx, st, files)
	if err != nil {
		return err
	}

	tagFilter = strings.TrimPrefix(tagFilter, "@")
	var results []listRow
	for _, pf := range parsed {
		f := pf.doc.Feature
		if f == nil {
			st.logger.WithField("file", pf.path).Warn("no feature, skipped")
			continue
		}
		for _, s := range f.AllScenarios() {
			names := model.TagNames(scenarioTags(f, s))
			if tagFilter != "" && !contains(names, tagFilter) {
				continue
			}
			if outlines && !s.Outline {
				continue
			}
			var tags []string
			for _, n := range model.TagNames(s.Tags) {
				tags = append(tags, "@"+n)
			}
			results = append(results, listRow{
				loc:     fmt.Sprintf("%s:%d", pf.path, s.Location.Line),
				keyword: s.Keyword,
				name:    s.Name,
				tags:    strings.Join(tags, " "),
			})
		}
	}

	if len(results) == 0 {
		return nil
	}

	// Compute column widths
	locWidth, keywordWidth, nameWidth := 0, 0, 0
	for _, r := range results {
		locWidth = max(locWidth, runewidth.StringWidth(r.loc))
		keywordWidth = max(keywordWidth, runewidth.StringWidth(r.keyword))
		nameWidth = max(nameWidth, runewidth.StringWidth(r.name))
	}

	for _, r := range results {
		ui.ListRow(w, r.loc, r.keyword, r.name, r.tags, locWidth, keywordWidth, nameWidth)
	}

	return nil
}

func contains(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}
