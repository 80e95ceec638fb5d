package cmd

import (
	"fmt"

	"github.com/agentic-research/potoo/internal/codegen"
	"github.com/agentic-research/potoo/internal/workspace"
	"github.com/go-git/go-billy/v5/osfs"
	"github.com/spf13/cobra"
)

var (
	genTarget string
	genOut    string
)

func init() {
	generateCmd.Flags().StringVar(&genTarget, "target", "all", "Target to print (main, components, systems, all)")
	generateCmd.Flags().StringVarP(&genOut, "out", "o", "", "Write the full Cargo workspace to this directory instead of printing")
	rootCmd.AddCommand(generateCmd)
}

var generateCmd = &cobra.Command{
	Use:   "generate [project.json]",
	Short: "Generate Rust source for a project",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		m, err := loadProject(args[0])
		if err != nil {
			return err
		}

		if genOut != "" {
			ws := workspace.New(osfs.New(genOut), generator(), workspace.Options{BevyVersion: cfg.BevyVersion}, nil)
			written, err := ws.Materialize(m)
			if err != nil {
				return err
			}
			for _, p := range written {
				fmt.Fprintln(cmd.OutOrStdout(), p)
			}
			return nil
		}

		target, err := codegen.ParseTarget(genTarget)
		if err != nil {
			return err
		}
		out, err := generator().Generate(m, target)
		if err != nil {
			return err
		}
		fmt.Fprint(cmd.OutOrStdout(), out.Source)
		for _, f := range out.Files {
			fmt.Fprintf(cmd.OutOrStdout(), "\n// %s\n%s", f.Path, f.Content)
		}
		return nil
	},
}
