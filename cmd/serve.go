package cmd

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/agentic-research/potoo/api"
	"github.com/agentic-research/potoo/internal/envelope"
	"github.com/agentic-research/potoo/internal/liveedit"
	"github.com/agentic-research/potoo/internal/session"
	"github.com/agentic-research/potoo/internal/workspace"
	"github.com/go-git/go-billy/v5/osfs"
	"github.com/spf13/cobra"
)

var (
	serveOut    string
	serveListen string
)

func init() {
	serveCmd.Flags().StringVarP(&serveOut, "out", "o", ".", "Cargo workspace directory kept in sync with edits")
	serveCmd.Flags().StringVar(&serveListen, "listen", "", "Address for the live edit websocket (default from POTOO_LISTEN)")
	rootCmd.AddCommand(serveCmd)
}

var serveCmd = &cobra.Command{
	Use:   "serve [project.json]",
	Short: "Accept live system edits over a websocket and keep the workspace in sync",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		projectPath := args[0]
		m, err := loadProject(projectPath)
		if err != nil {
			return err
		}
		ws := workspace.New(osfs.New(serveOut), generator(), workspace.Options{BevyVersion: cfg.BevyVersion}, nil)
		if _, err := ws.Materialize(m); err != nil {
			return err
		}

		sess := session.New(m, nil)
		syncWorkspace := ws.Sync(sess.Snapshot, func(m *api.Model) error {
			return envelope.WriteFile(projectPath, m)
		})

		addr := cfg.Listen
		if serveListen != "" {
			addr = serveListen
		}
		mux := http.NewServeMux()
		mux.Handle("/edit", liveedit.NewServer(sess, syncWorkspace, slog.Default()))
		srv := &http.Server{Addr: addr, Handler: mux, ReadHeaderTimeout: 10 * time.Second}

		errCh := make(chan error, 1)
		go func() {
			slog.Info("live edit server listening", "addr", "ws://"+addr+"/edit", "workspace", serveOut)
			errCh <- srv.ListenAndServe()
		}()

		select {
		case err := <-errCh:
			if errors.Is(err, http.ErrServerClosed) {
				return nil
			}
			return fmt.Errorf("serve: %w", err)
		case <-cmd.Context().Done():
			ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			slog.Info("shutting down live edit server")
			return srv.Shutdown(ctx)
		}
	},
}
