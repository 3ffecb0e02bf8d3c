// Package bridge connects an external editor front-end to the correlation
// engine over a WebSocket. Each connection is one editing session: the
// client streams text changes and hover events in; compiled segment views
// and highlight decorations flow back out.
package bridge

import (
	"context"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"loov.dev/evmlens/internal/editor"
	"loov.dev/evmlens/internal/listing"
	"loov.dev/evmlens/internal/solc"
	"loov.dev/evmlens/internal/workspace"
)

// CompileFunc compiles the named entry file against the full file set.
type CompileFunc func(ctx context.Context, entry string, files map[string]string) (*solc.Result, error)

// Server upgrades HTTP requests to editing sessions.
type Server struct {
	Compile  CompileFunc
	Debounce time.Duration
	Context  int // source context lines in compiled views
	Log      *slog.Logger

	upgrader websocket.Upgrader
}

func NewServer(compile CompileFunc, logger *slog.Logger) *Server {
	if logger == nil {
		logger = slog.Default()
	}
	return &Server{
		Compile:  compile,
		Debounce: editor.DefaultDebounce,
		Context:  3,
		Log:      logger,
		upgrader: websocket.Upgrader{
			CheckOrigin: func(*http.Request) bool { return true },
		},
	}
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ws, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.Log.Warn("websocket upgrade failed", "err", err)
		return
	}

	sess := newSession(s, ws)
	defer sess.close()
	sess.run()
}

// session is the state of one connected editor.
type session struct {
	srv *Server
	ws  *websocket.Conn

	writeMu sync.Mutex // gorilla allows one concurrent writer

	textMu sync.Mutex // guards text; taken after mu, never before
	text   string

	mu      sync.Mutex // guards everything below
	tree    *workspace.Tree
	entry   string
	mode    editor.DisplayMode
	view    *editor.Session
	rec     *editor.Recompiler
	handles editor.Handle
}

func newSession(srv *Server, ws *websocket.Conn) *session {
	sess := &session{
		srv:  srv,
		ws:   ws,
		tree: workspace.NewTree(),
	}
	sess.view = editor.NewSession(sess, srv.Log)
	sess.rec = editor.NewRecompiler(srv.Debounce, sess.compile, sess.apply)
	sess.rec.SetLogger(srv.Log)
	return sess
}

func (sess *session) close() {
	sess.rec.Close()
	sess.ws.Close()
}

func (sess *session) run() {
	sess.send(Outbound{Type: "ready", Version: Version})

	for {
		var msg Inbound
		if err := sess.ws.ReadJSON(&msg); err != nil {
			if !websocket.IsCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				sess.srv.Log.Debug("session read ended", "err", err)
			}
			return
		}
		sess.handle(msg)
	}
}

func (sess *session) handle(msg Inbound) {
	sess.mu.Lock()
	defer sess.mu.Unlock()

	switch msg.Type {
	case "open":
		sess.entry = msg.Name
		sess.tree = workspace.NewTree()
		for name, content := range msg.Files {
			if err := sess.tree.CreateFile(name, content); err != nil {
				sess.send(Outbound{Type: "error", Message: err.Error()})
			}
		}
		if text, err := sess.tree.ReadFile(sess.entry); err == nil {
			sess.setText(text)
		}
		sess.rec.TextChanged(sess.Text())
		sess.rec.Trigger()

	case "change":
		if sess.entry == "" {
			sess.send(Outbound{Type: "error", Message: "no file open"})
			return
		}
		sess.setText(msg.Text)
		if err := sess.tree.WriteFile(sess.entry, msg.Text); err != nil {
			sess.send(Outbound{Type: "error", Message: err.Error()})
			return
		}
		sess.rec.TextChanged(msg.Text)

	case "auto":
		sess.rec.SetAuto(msg.On)

	case "compile":
		sess.rec.Trigger()

	case "mode":
		sess.mode = editor.ParseDisplayMode(msg.Mode)
		sess.sendCompiledLocked(0)

	case "hover":
		sess.view.Hover(sess.mode, msg.Segment)

	default:
		sess.send(Outbound{Type: "error", Message: "unknown message type: " + msg.Type})
	}
}

func (sess *session) compile(ctx context.Context, text string) (*solc.Result, error) {
	sess.mu.Lock()
	entry := sess.entry
	files := sess.tree.Flatten()
	sess.mu.Unlock()

	files[entry] = text
	return sess.srv.Compile(ctx, entry, files)
}

// apply receives the winning compilation from the scheduler.
func (sess *session) apply(seq uint64, res *solc.Result, err error) {
	if err != nil {
		sess.send(Outbound{Type: "compiled", Seq: seq, Errors: []string{err.Error()}})
		return
	}

	sess.mu.Lock()
	defer sess.mu.Unlock()
	sess.view.SetResult(res)
	sess.sendCompiledLocked(seq)
}

func (sess *session) sendCompiledLocked(seq uint64) {
	res := sess.view.Result()
	if res == nil {
		return
	}
	if !res.Success {
		sess.send(Outbound{Type: "compiled", Seq: seq, Errors: res.Errors})
		return
	}

	l := listing.Build(sess.Text(), sess.view.Bytecode(sess.mode), sess.view.Segments(sess.mode), sess.srv.Context)
	sess.send(Outbound{
		Type:     "compiled",
		Seq:      seq,
		Success:  true,
		Mode:     sess.mode.String(),
		Segments: segmentsJSON(l),
	})
}

func (sess *session) send(msg Outbound) {
	sess.writeMu.Lock()
	defer sess.writeMu.Unlock()
	if err := sess.ws.WriteJSON(msg); err != nil {
		sess.srv.Log.Debug("session write failed", "err", err)
	}
}

// The session doubles as the remote editor: highlight and reveal calls
// from the hover controller become messages to the client.

// Text is part of the editor boundary and may be called with sess.mu held,
// so the current text lives under its own lock.
func (sess *session) Text() string {
	sess.textMu.Lock()
	defer sess.textMu.Unlock()
	return sess.text
}

func (sess *session) setText(text string) {
	sess.textMu.Lock()
	sess.text = text
	sess.textMu.Unlock()
}

func (sess *session) ApplyHighlight(r editor.Range) editor.Handle {
	sess.handles++
	sess.send(Outbound{Type: "highlight", Range: &r})
	return sess.handles
}

func (sess *session) ClearHighlight(editor.Handle) {
	sess.send(Outbound{Type: "clear"})
}

func (sess *session) RevealRange(r editor.Range) {
	sess.send(Outbound{Type: "reveal", Range: &r})
}
