package cmd

import (
	"fmt"
	"io"
	"strings"

	"github.com/spf13/afero"
	"github.com/spf13/cobra"

	"github.com/chriserin/tgherkin/gherkin/diag"
	"github.com/chriserin/tgherkin/gherkin/format"
	"github.com/chriserin/tgherkin/internal/ui"
)

var writeFlag bool

var fmtCmd = &cobra.Command{
	Use:   "fmt <file>...",
	Short: "Reformat feature files",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return RunFmt(cmd.OutOrStdout(), current, args, writeFlag)
	},
}

func init() {
	fmtCmd.Flags().BoolVarP(&writeFlag, "write", "w", false, "rewrite the files instead of printing them")
	rootCmd.AddCommand(fmtCmd)
}

// RunFmt prints the canonical form of each file, or rewrites the files in
// place with write. Files with error diagnostics are refused: recovery
// drops the lines it skipped and formatting would lose them.
func RunFmt(w io.Writer, st *state, paths []string, write bool) error {
	parsed, err := parseFiles(st.ctx, st, paths)
	if err != nil {
		return err
	}
	for _, pf := range parsed {
		if diag.HasErrors(pf.doc.Diagnostics) {
			return fmt.Errorf("%s has errors, run check first", pf.path)
		}
		log := st.logger.WithField("file", pf.path)
		if hasComments(pf.lines) {
			log.Warn("comments are not kept by fmt")
		}
		out := format.String(pf.doc)
		if !write {
			fmt.Fprint(w, out)
			continue
		}
		if out == strings.Join(pf.lines, "\n") {
			ui.UnchangedLine(w, pf.path)
			continue
		}
		if err := afero.WriteFile(st.fs, pf.path, []byte(out), 0o644); err != nil {
			return fmt.Errorf("writing %s: %w", pf.path, err)
		}
		log.Debug("rewritten")
		ui.FormattedLine(w, pf.path)
	}
	return nil
}

// hasComments reports comment lines other than the language header. Lines
// inside doc strings may be counted too; the result only drives a warning.
func hasComments(lines []string) bool {
	for _, l := range lines {
		t := strings.TrimSpace(l)
		if strings.HasPrefix(t, "#") && !languageHeader(t) {
			return true
		}
	}
	return false
}

func languageHeader(t string) bool {
	t = strings.TrimSpace(strings.TrimPrefix(t, "#"))
	return strings.HasPrefix(t, "language:")
}
