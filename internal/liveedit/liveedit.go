// Package liveedit accepts system body edits over a websocket and applies
// them to a session. Each message is one edit:
//
//	-> {"system": "tick", "body": "step();"}
//	<- {"system": "tick", "reload": "hot"}
package liveedit

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/agentic-research/potoo/api"
	"github.com/agentic-research/potoo/internal/history"
	"github.com/gorilla/websocket"
)

// Edit replaces the body of one system.
type Edit struct {
	System string `json:"system"`
	Body   string `json:"body"`
}

// Reply reports the outcome of an Edit.
type Reply struct {
	System string `json:"system"`
	Reload string `json:"reload,omitempty"`
	Error  string `json:"error,omitempty"`
}

// Editor applies body edits. *session.Session implements it.
type Editor interface {
	EditSystemBody(name, body string) (api.System, history.Reload, error)
}

// AfterEdit runs after an edit is recorded, e.g. to rewrite generated
// source. An error is reported to the client but the edit stays recorded.
type AfterEdit func(ctx context.Context, sys api.System, reload history.Reload) error

// Server is an http.Handler serving the edit channel.
type Server struct {
	editor   Editor
	after    AfterEdit
	log      *slog.Logger
	upgrader websocket.Upgrader
}

// NewServer returns a server applying edits to editor. after may be nil.
func NewServer(editor Editor, after AfterEdit, logger *slog.Logger) *Server {
	if logger == nil {
		logger = slog.Default()
	}
	return &Server{
		editor: editor,
		after:  after,
		log:    logger,
		upgrader: websocket.Upgrader{
			// Editors connect from local tools with arbitrary origins.
			CheckOrigin: func(r *http.Request) bool { return true },
		},
	}
}

// Handle applies a single edit.
func (s *Server) Handle(ctx context.Context, e Edit) Reply {
	reply := Reply{System: e.System}
	if e.System == "" {
		reply.Error = "missing system name"
		return reply
	}
	sys, reload, err := s.editor.EditSystemBody(e.System, e.Body)
	if err != nil {
		reply.Error = err.Error()
		return reply
	}
	reply.Reload = reload.String()
	if s.after != nil {
		if err := s.after(ctx, sys, reload); err != nil {
			s.log.Warn("post-edit hook failed", slog.String("system", e.System), slog.Any("error", err))
			reply.Error = err.Error()
		}
	}
	return reply
}

// ServeHTTP upgrades the connection and handles edits until the client
// disconnects.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ws, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.log.Error("failed to upgrade the websocket", slog.Any("error", err))
		return
	}
	defer func() { _ = ws.Close() }()
	s.log.Info("live edit client connected", slog.String("remote", r.RemoteAddr))

	for {
		var e Edit
		if err := ws.ReadJSON(&e); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				s.log.Warn("live edit connection closed", slog.Any("error", err))
			} else {
				s.log.Info("live edit client disconnected")
			}
			return
		}
		reply := s.Handle(r.Context(), e)
		if err := ws.WriteJSON(reply); err != nil {
			s.log.Warn("failed to write websocket reply", slog.Any("error", err))
			return
		}
	}
}
