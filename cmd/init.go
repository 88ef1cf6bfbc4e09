package cmd

import (
	"fmt"
	"io"

	"github.com/spf13/afero"
	"github.com/spf13/cobra"

	"github.com/chriserin/tgherkin/internal/config"
)

const featuresDir = "features"

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Initialize tgherkin in the current directory",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return RunInit(cmd.OutOrStdout(), current)
	},
}

func init() {
	rootCmd.AddCommand(initCmd)
}

// RunInit creates the features directory and writes the consolidated
// configuration to .tgherkin.toml. Existing files are left alone.
func RunInit(w io.Writer, st *state) error {
	// features/ directory
	dirExists, err := afero.DirExists(st.fs, featuresDir)
	if err != nil {
		return fmt.Errorf("checking %s: %w", featuresDir, err)
	}
	if err := st.fs.MkdirAll(featuresDir, 0o755); err != nil {
		return fmt.Errorf("creating %s directory: %w", featuresDir, err)
	}
	if dirExists {
		fmt.Fprintf(w, "%s/ already exists\n", featuresDir)
	} else {
		fmt.Fprintf(w, "%s/ created\n", featuresDir)
	}

	// config file
	exists, err := afero.Exists(st.fs, config.Filename)
	if err != nil {
		return fmt.Errorf("checking %s: %w", config.Filename, err)
	}
	if exists {
		fmt.Fprintf(w, "%s already exists\n", config.Filename)
		return nil
	}
	if err := config.Write(st.fs, config.Filename, st.conf); err != nil {
		return err
	}
	fmt.Fprintf(w, "%s created\n", config.Filename)

	return nil
}
