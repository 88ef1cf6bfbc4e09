package cmd

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/chriserin/tgherkin/gherkin/format"
	"github.com/chriserin/tgherkin/gherkin/model"
	"github.com/chriserin/tgherkin/internal/ui"
)

var showCmd = &cobra.Command{
	Use:   "show <file>:<line>",
	Short: "Show one scenario with its backgrounds",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return RunShow(cmd.OutOrStdout(), current, args[0])
	},
}

func init() {
	rootCmd.AddCommand(showCmd)
}

// RunShow prints the scenario that contains line, preceded by the feature
// header and every Background that applies to it.
func RunShow(w io.Writer, st *state, ref string) error {
	i := strings.LastIndex(ref, ":")
	if i < 0 {
		return fmt.Errorf("invalid reference %q, expected <file>:<line>", ref)
	}
	path := ref[:i]
	line, err := strconv.Atoi(ref[i+1:])
	if err != nil || line < 1 {
		return fmt.Errorf("invalid line in %q", ref)
	}

	pf, err := parseFile(st, path)
	if err != nil {
		return err
	}
	f := pf.doc.Feature
	if f == nil {
		return fmt.Errorf("%s has no feature", path)
	}

	matched := scenarioAt(f, line)
	if matched == nil {
		return fmt.Errorf("no scenario at %s:%d", path, line)
	}

	ui.ShowHeader(w, path, matched.Location.Line)
	fmt.Fprintln(w)
	fmt.Fprint(w, format.Scenario(f, matched))
	return nil
}

// scenarioAt returns the last scenario starting at or before line.
func scenarioAt(f *model.Feature, line int) *model.Scenario {
	var matched *model.Scenario
	for _, s := range f.AllScenarios() {
		if s.Location.Line <= line && (matched == nil || s.Location.Line > matched.Location.Line) {
			matched = s
		}
	}
	return matched
}
