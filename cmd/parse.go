package cmd

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/agentic-research/potoo/api"
	"github.com/agentic-research/potoo/internal/envelope"
	"github.com/agentic-research/potoo/internal/ingest"
	"github.com/fsnotify/fsnotify"
	"github.com/spf13/cobra"
)

var (
	parseEntry string
	parseSeed  string
	parseWatch bool
)

func init() {
	parseCmd.Flags().StringVar(&parseEntry, "entry", ingest.DefaultEntryPoint, "Function holding the App builder chain")
	parseCmd.Flags().StringVar(&parseSeed, "seed", "", "Write a project file seeded from the parse result")
	parseCmd.Flags().BoolVarP(&parseWatch, "watch", "w", false, "Re-parse whenever the file changes")
	rootCmd.AddCommand(parseCmd)
}

// parseOutput is what parse prints: the raw result plus the imports
// regrouped into use trees.
type parseOutput struct {
	*api.ParseResult
	UseTrees []string `json:"use_trees,omitempty"`
}

var parseCmd = &cobra.Command{
	Use:   "parse [main.rs]",
	Short: "Recover imports and the App builder chain from Rust source",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		path := args[0]
		cache, err := ingest.NewCache(ingest.NewParser(parseEntry), ingest.DefaultCacheSize)
		if err != nil {
			return err
		}
		if err := runParse(cmd, cache, path); err != nil {
			return err
		}
		if !parseWatch {
			return nil
		}
		return watchFile(cmd.Context(), path, func() {
			if err := runParse(cmd, cache, path); err != nil {
				slog.Warn("re-parse failed", "path", path, "error", err)
			}
		})
	},
}

func runParse(cmd *cobra.Command, cache *ingest.Cache, path string) error {
	src, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	res, err := cache.Parse(cmd.Context(), src)
	if err != nil {
		return fmt.Errorf("parse %s: %w", path, err)
	}
	if res.Empty() {
		slog.Warn("no imports or entry chain recognized", "path", path, "entry", parseEntry)
		res = &api.ParseResult{}
	}

	if err := printJSON(cmd, parseOutput{ParseResult: res, UseTrees: ingest.RenderUseTree(res.Imports)}); err != nil {
		return err
	}
	if parseSeed != "" {
		if err := envelope.WriteFile(parseSeed, api.SeedModel(res)); err != nil {
			return err
		}
		slog.Info("seeded project", "path", parseSeed)
	}
	return nil
}

// watchFile calls onChange after every write to path until ctx is done.
// The parent directory is watched so editors that replace the file by
// rename keep triggering events.
func watchFile(ctx context.Context, path string, onChange func()) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("create watcher: %w", err)
	}
	defer func() { _ = watcher.Close() }()

	abs, err := filepath.Abs(path)
	if err != nil {
		return err
	}
	if err := watcher.Add(filepath.Dir(abs)); err != nil {
		return fmt.Errorf("watch %s: %w", path, err)
	}
	slog.Info("watching for changes", "path", path)

	for {
		select {
		case <-ctx.Done():
			return nil
		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(event.Name) != abs {
				continue
			}
			if event.Op&(fsnotify.Write|fsnotify.Create) != 0 {
				onChange()
			}
		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			slog.Warn("watcher error", "error", err)
		}
	}
}
