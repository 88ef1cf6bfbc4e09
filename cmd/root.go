package cmd

import (
	"context"
	"os"

	"github.com/mattn/go-isatty"
	"github.com/spf13/afero"
	"github.com/spf13/cobra"

	"github.com/chriserin/tgherkin/internal/config"
	"github.com/chriserin/tgherkin/internal/ui"
)

// current is set before any subcommand runs.
var current *state

var rootCmd = &cobra.Command{
	Use:          "tgherkin",
	Short:        "tgherkin: Turbo Gherkin parser and checker",
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		st, err := newState(afero.NewOsFs(), cmd.Flags(), os.LookupEnv, cmd.ErrOrStderr())
		if err != nil {
			return err
		}
		stdout := os.Stdout.Fd()
		if st.conf.NoColor.Bool || !(isatty.IsTerminal(stdout) || isatty.IsCygwinTerminal(stdout)) {
			ui.DisableColor()
		}
		if ctx := cmd.Context(); ctx != nil {
			st.ctx = ctx
		}
		current = st
		return nil
	},
}

func init() {
	rootCmd.PersistentFlags().AddFlagSet(config.FlagSet())
}

func Execute() {
	if err := rootCmd.ExecuteContext(context.Background()); err != nil {
		os.Exit(1)
	}
}
