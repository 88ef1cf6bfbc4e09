package cmd

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"

	"github.com/spf13/afero"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/chriserin/tgherkin/gherkin"
	"github.com/chriserin/tgherkin/gherkin/cst"
)

var treeFlag bool

var parseCmd = &cobra.Command{
	Use:   "parse <file>...",
	Short: "Print the document model of feature files",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if treeFlag {
			return RunTree(cmd.OutOrStdout(), current, args)
		}
		return RunParse(cmd.OutOrStdout(), current, args)
	},
}

func init() {
	parseCmd.Flags().BoolVar(&treeFlag, "tree", false, "print the concrete syntax tree instead")
	rootCmd.AddCommand(parseCmd)
}

// RunParse prints one document per file as a YAML stream or as JSON
// objects. In strict mode every document is still printed before the
// first strict failure is returned.
func RunParse(w io.Writer, st *state, paths []string) error {
	var enc interface{ Encode(any) error }
	switch st.conf.Format.String {
	case "json":
		je := json.NewEncoder(w)
		je.SetIndent("", "  ")
		enc = je
	default:
		ye := yaml.NewEncoder(w)
		ye.SetIndent(2)
		defer ye.Close()
		enc = ye
	}

	var strictErr error
	for _, path := range paths {
		data, err := afero.ReadFile(st.fs, path)
		if err != nil {
			return fmt.Errorf("reading %s: %w", path, err)
		}
		doc, err := gherkin.Parse(string(data), st.options(path))
		if errors.Is(err, gherkin.ErrStrict) {
			if strictErr == nil {
				strictErr = err
			}
		} else if err != nil {
			return err
		}
		if err := enc.Encode(doc); err != nil {
			return fmt.Errorf("encoding %s: %w", path, err)
		}
	}
	return strictErr
}

// RunTree prints the concrete syntax tree of each file, skipped lines
// included, followed by the lexer and parser diagnostics.
func RunTree(w io.Writer, st *state, paths []string) error {
	for i, path := range paths {
		data, err := afero.ReadFile(st.fs, path)
		if err != nil {
			return fmt.Errorf("reading %s: %w", path, err)
		}
		tree, diags, err := gherkin.ParseTree(string(data), st.options(path))
		if err != nil {
			return err
		}
		if len(paths) > 1 {
			if i > 0 {
				fmt.Fprintln(w)
			}
			fmt.Fprintf(w, "%s:\n", path)
		}
		if err := cst.Dump(w, tree); err != nil {
			return err
		}
		for _, d := range diags {
			fmt.Fprintf(w, "%s:%s\n", path, d)
		}
	}
	return nil
}
