package cmd

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/chriserin/tgherkin/gherkin"
	"github.com/chriserin/tgherkin/gherkin/diag"
	"github.com/chriserin/tgherkin/internal/ui"
)

var checkCmd = &cobra.Command{
	Use:   "check [path]...",
	Short: "Report diagnostics for feature files",
	RunE: func(cmd *cobra.Command, args []string) error {
		return RunCheck(cmd.OutOrStdout(), current, args)
	},
}

func init() {
	rootCmd.AddCommand(checkCmd)
}

// RunCheck parses every feature file under paths (the working directory
// when empty) and prints their diagnostics with a summary. It fails only
// in strict mode, and only for error diagnostics.
func RunCheck(w io.Writer, st *state, paths []string) error {
	files, err := discover(st.fs, paths)
	if err != nil {
		return err
	}
	st.logger.Debugf("found %d feature files", len(files))

	parsed, err := parseFiles(st.ctx, st, files)
	if err != nil {
		return err
	}

	errs, warnings := 0, 0
	for _, pf := range parsed {
		for _, d := range pf.doc.Diagnostics {
			ui.Diagnostic(w, pf.path, pf.lines, d)
			if d.Severity == diag.SeverityError {
				errs++
			} else {
				warnings++
			}
		}
	}
	ui.SummaryLine(w, len(parsed), errs, warnings)

	if st.conf.Strict.Bool && errs > 0 {
		return fmt.Errorf("%w: %d errors", gherkin.ErrStrict, errs)
	}
	return nil
}
