package cmd

import (
	"fmt"
	"os"
	"path/filepath"
	"text/tabwriter"
	"time"

	"github.com/agentic-research/potoo/internal/envelope"
	"github.com/agentic-research/potoo/internal/store"
	"github.com/spf13/cobra"
)

func init() {
	storeCmd.AddCommand(storeSaveCmd, storeLoadCmd, storeListCmd, storeDeleteCmd)
	rootCmd.AddCommand(storeCmd)
}

func openStore() (*store.Store, error) {
	if dir := filepath.Dir(cfg.DB); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("create store dir: %w", err)
		}
	}
	return store.Open(cfg.DB)
}

var storeCmd = &cobra.Command{
	Use:   "store",
	Short: "Save and load projects in the project database",
}

var storeSaveCmd = &cobra.Command{
	Use:   "save [name] [project.json]",
	Short: "Save a project file under a name",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		m, err := loadProject(args[1])
		if err != nil {
			return err
		}
		s, err := openStore()
		if err != nil {
			return err
		}
		defer func() { _ = s.Close() }()
		return s.Save(cmd.Context(), args[0], m)
	},
}

var storeLoadCmd = &cobra.Command{
	Use:   "load [name] [project.json]",
	Short: "Write a stored project to a file, or stdout when no file is given",
	Args:  cobra.RangeArgs(1, 2),
	RunE: func(cmd *cobra.Command, args []string) error {
		s, err := openStore()
		if err != nil {
			return err
		}
		defer func() { _ = s.Close() }()

		loaded, err := s.Load(cmd.Context(), args[0])
		if err != nil {
			return err
		}
		if len(args) == 2 {
			return envelope.WriteFile(args[1], loaded.Model)
		}
		data, err := envelope.Save(loaded.Model)
		if err != nil {
			return err
		}
		_, err = cmd.OutOrStdout().Write(data)
		return err
	},
}

var storeListCmd = &cobra.Command{
	Use:   "list",
	Short: "List stored projects",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		s, err := openStore()
		if err != nil {
			return err
		}
		defer func() { _ = s.Close() }()

		entries, err := s.List(cmd.Context())
		if err != nil {
			return err
		}
		tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
		fmt.Fprintln(tw, "NAME\tVERSION\tUPDATED")
		for _, e := range entries {
			fmt.Fprintf(tw, "%s\t%s\t%s\n", e.Name, e.SchemaVersion, e.UpdatedAt.Format(time.RFC3339))
		}
		return tw.Flush()
	},
}

var storeDeleteCmd = &cobra.Command{
	Use:   "delete [name]",
	Short: "Delete a stored project",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		s, err := openStore()
		if err != nil {
			return err
		}
		defer func() { _ = s.Close() }()
		return s.Delete(cmd.Context(), args[0])
	},
}
