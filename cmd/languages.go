package cmd

import (
	"io"

	"github.com/mattn/go-runewidth"
	"github.com/spf13/cobra"

	"github.com/chriserin/tgherkin/internal/ui"
)

var languagesCmd = &cobra.Command{
	Use:   "languages",
	Short: "List the keyword languages",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return RunLanguages(cmd.OutOrStdout(), current)
	},
}

func init() {
	rootCmd.AddCommand(languagesCmd)
}

// RunLanguages lists the built-in languages and the one loaded with
// --keywords, if any.
func RunLanguages(w io.Writer, st *state) error {
	codes := st.dialects.Codes()
	width := 0
	for _, code := range codes {
		width = max(width, runewidth.StringWidth(code))
	}
	for _, code := range codes {
		k, _ := st.dialects.Lookup(code)
		d := k.Dialect()
		ui.LanguageRow(w, code, d.Name, d.Native, width)
	}
	return nil
}
