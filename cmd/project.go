package cmd

import (
	"fmt"
	"strings"

	"github.com/agentic-research/potoo/internal/envelope"
	"github.com/agentic-research/potoo/internal/linter"
	"github.com/agentic-research/potoo/internal/templates"
	"github.com/spf13/cobra"
)

var (
	templateName string
	projectName  string
)

func init() {
	newCmd.Flags().StringVarP(&templateName, "template", "t", "empty",
		"Starter template ("+strings.Join(templates.Names(), ", ")+")")
	newCmd.Flags().StringVarP(&projectName, "name", "n", "", "Project name (defaults to the template's)")

	rootCmd.AddCommand(newCmd, summaryCmd, lintCmd)
}

var newCmd = &cobra.Command{
	Use:   "new [project.json]",
	Short: "Create a project file from a starter template",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		tmpl, err := templates.Lookup(templateName)
		if err != nil {
			return err
		}
		m := tmpl(projectName)
		if err := envelope.WriteFile(args[0], m); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Created %s from the %s template.\n", args[0], templateName)
		return nil
	},
}

var summaryCmd = &cobra.Command{
	Use:   "summary [project.json]",
	Short: "Print a human readable summary of a project",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		m, err := loadProject(args[0])
		if err != nil {
			return err
		}
		fmt.Fprint(cmd.OutOrStdout(), m.Summary())
		return nil
	},
}

var lintCmd = &cobra.Command{
	Use:   "lint [project.json]",
	Short: "Check a project for duplicate names, empty names and unknown features",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		m, err := loadProject(args[0])
		if err != nil {
			return err
		}
		diags := linter.Lint(m)
		for _, d := range diags {
			fmt.Fprintln(cmd.OutOrStdout(), d.String())
		}
		if linter.HasErrors(diags) {
			return fmt.Errorf("lint: %d problem(s) in %s", len(diags), args[0])
		}
		return nil
	},
}
