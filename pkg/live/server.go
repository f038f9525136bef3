package live

import (
	"context"
	"errors"
	"fmt"
	"html"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/gorilla/websocket"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/trace"

	rerrors "github.com/vango-dev/rangedom/internal/errors"
	"github.com/vango-dev/rangedom/pkg/vdom"
)

// Config configures a Server.
type Config struct {
	// App builds the tree each new session renders. Required.
	App func() *vdom.VNode

	// EngineOptions are passed to every session's renderer.
	EngineOptions []vdom.Option

	// Metrics, if set, is served at /metrics.
	Metrics http.Handler

	// CheckOrigin is passed to the WebSocket upgrader. Nil allows only
	// same-origin requests.
	CheckOrigin func(*http.Request) bool

	// MaxMessageSize limits incoming WebSocket messages (default 64KB).
	MaxMessageSize int64

	// ReadTimeout is the idle limit between client messages (default 5m).
	ReadTimeout time.Duration

	// IdleTimeout is how long a session without an open connection is kept
	// after its last activity (default 10m).
	IdleTimeout time.Duration

	// CleanupInterval is how often expired sessions are swept. The default
	// is a minute, or IdleTimeout/2 when that is shorter.
	CleanupInterval time.Duration

	// Logger is the structured logger. If nil, slog.Default() is used.
	Logger *slog.Logger

	// Tracer traces event dispatch. The default comes from the global
	// provider.
	Tracer trace.Tracer
}

// Message is a client → server frame.
type Message struct {
	Type   string         `json:"type"`
	Target string         `json:"target,omitempty"`
	Event  string         `json:"event,omitempty"`
	Data   map[string]any `json:"data,omitempty"`
}

// Reply is a server → client frame.
type Reply struct {
	Type    string `json:"type"`
	HTML    string `json:"html,omitempty"`
	Code    string `json:"code,omitempty"`
	Message string `json:"message,omitempty"`
}

// Server hosts live sessions.
type Server struct {
	config   Config
	logger   *slog.Logger
	upgrader websocket.Upgrader
	router   chi.Router

	mu       sync.Mutex
	sessions map[string]*Session

	httpServer *http.Server
}

// New creates a Server.
func New(config Config) *Server {
	if config.Logger == nil {
		config.Logger = slog.Default()
	}
	if config.MaxMessageSize == 0 {
		config.MaxMessageSize = 64 * 1024
	}
	if config.ReadTimeout == 0 {
		config.ReadTimeout = 5 * time.Minute
	}
	if config.IdleTimeout == 0 {
		config.IdleTimeout = 10 * time.Minute
	}
	if config.CleanupInterval == 0 {
		config.CleanupInterval = min(time.Minute, config.IdleTimeout/2)
	}
	if config.Tracer == nil {
		config.Tracer = otel.Tracer("github.com/vango-dev/rangedom/pkg/live")
	}

	s := &Server{
		config:   config,
		logger:   config.Logger,
		sessions: make(map[string]*Session),
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin:     config.CheckOrigin,
		},
	}

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Get("/", s.handlePage)
	r.Get("/ws", s.handleWebSocket)
	r.Get("/sessions/{id}", s.handleSessionHTML)
	r.Delete("/sessions/{id}", s.handleSessionClose)
	if config.Metrics != nil {
		r.Handle("/metrics", config.Metrics)
	}
	s.router = r
	return s
}

// Handler returns the HTTP handler.
func (s *Server) Handler() http.Handler {
	return s.router
}

// Session returns the live session with the given ID.
func (s *Server) Session(id string) (*Session, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	sess, ok := s.sessions[id]
	if !ok {
		return nil, rerrors.New("E202").WithDetail("Unknown session " + id + ".")
	}
	return sess, nil
}

// SessionCount returns the number of live sessions.
func (s *Server) SessionCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.sessions)
}

func (s *Server) open() (*Session, error) {
	if s.config.App == nil {
		return nil, errors.New("live: no App configured")
	}
	sess, err := newSession(s.config.App(), s.logger, s.config.Tracer, s.config.EngineOptions...)
	if err != nil {
		return nil, err
	}
	s.mu.Lock()
	s.sessions[sess.ID] = sess
	s.mu.Unlock()
	s.logger.Info("session opened", "session", sess.ID)
	return sess, nil
}

func (s *Server) close(id string) bool {
	s.mu.Lock()
	sess, ok := s.sessions[id]
	delete(s.sessions, id)
	s.mu.Unlock()
	if !ok {
		return false
	}
	if err := sess.Close(); err != nil {
		s.logger.Warn("session close failed", "session", id, "error", err)
	}
	s.logger.Info("session closed", "session", id)
	return true
}

// cleanupLoop sweeps expired sessions until ctx is done.
func (s *Server) cleanupLoop(ctx context.Context) {
	ticker := time.NewTicker(s.config.CleanupInterval)
	defer ticker.Stop()
	for {
		select {
		case <-ticker.C:
			s.cleanupExpired(time.Now())
		case <-ctx.Done():
			return
		}
	}
}

// cleanupExpired closes sessions with no open connection that have been
// idle past IdleTimeout. It returns the number closed.
func (s *Server) cleanupExpired(now time.Time) int {
	s.mu.Lock()
	var expired []string
	for id, sess := range s.sessions {
		if sess.expired(now, s.config.IdleTimeout) {
			expired = append(expired, id)
		}
	}
	s.mu.Unlock()

	n := 0
	for _, id := range expired {
		if s.close(id) {
			n++
		}
	}
	if n > 0 {
		s.logger.Info("expired sessions evicted", "count", n)
	}
	return n
}

func (s *Server) handlePage(w http.ResponseWriter, r *http.Request) {
	sess, err := s.open()
	if err != nil {
		s.logger.Error("session open failed", "error", err)
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	body, err := sess.HTML()
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	fmt.Fprintf(w, pageTemplate, html.EscapeString(sess.ID), body)
}

func (s *Server) handleSessionHTML(w http.ResponseWriter, r *http.Request) {
	sess, err := s.Session(chi.URLParam(r, "id"))
	if err != nil {
		http.Error(w, err.Error(), http.StatusNotFound)
		return
	}
	body, err := sess.HTML()
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	_, _ = w.Write([]byte(body))
}

func (s *Server) handleSessionClose(w http.ResponseWriter, r *http.Request) {
	if !s.close(chi.URLParam(r, "id")) {
		http.Error(w, rerrors.New("E202").Error(), http.StatusNotFound)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// handleWebSocket answers every event frame with the updated body HTML.
func (s *Server) handleWebSocket(w http.ResponseWriter, r *http.Request) {
	id := r.URL.Query().Get("session")
	sess, err := s.Session(id)
	if err != nil {
		http.Error(w, err.Error(), http.StatusNotFound)
		return
	}

	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.logger.Error("websocket upgrade failed", "error", err)
		return
	}
	defer conn.Close()
	sess.attach()
	defer sess.detach()
	conn.SetReadLimit(s.config.MaxMessageSize)

	for {
		conn.SetReadDeadline(time.Now().Add(s.config.ReadTimeout))

		var msg Message
		if err := conn.ReadJSON(&msg); err != nil {
			if websocket.IsUnexpectedCloseError(err,
				websocket.CloseGoingAway,
				websocket.CloseAbnormalClosure,
				websocket.CloseNormalClosure) {
				s.logger.Error("read error", "session", id, "error", err)
			}
			return
		}

		reply := s.handleMessage(r.Context(), sess, msg)
		if err := conn.WriteJSON(reply); err != nil {
			s.logger.Error("write error", "session", id, "error", err)
			return
		}
	}
}

func (s *Server) handleMessage(ctx context.Context, sess *Session, msg Message) Reply {
	switch msg.Type {
	case "event":
		body, err := sess.Dispatch(ctx, msg.Target, msg.Event, msg.Data)
		if err != nil {
			return errorReply(err)
		}
		return Reply{Type: "html", HTML: body}
	case "sync":
		body, err := sess.HTML()
		if err != nil {
			return errorReply(err)
		}
		return Reply{Type: "html", HTML: body}
	default:
		s.logger.Warn("unknown message type", "session", sess.ID, "type", msg.Type)
		return Reply{Type: "error", Message: "unknown message type " + msg.Type}
	}
}

func errorReply(err error) Reply {
	reply := Reply{Type: "error", Message: err.Error()}
	var e *rerrors.Error
	if errors.As(err, &e) {
		reply.Code = e.Code
	}
	return reply
}

// ListenAndServe serves on addr until ctx is cancelled, then shuts down
// gracefully.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	s.httpServer = &http.Server{
		Addr:              addr,
		Handler:           s.router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go s.cleanupLoop(ctx)

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("live server listening", "address", addr)
		errCh <- s.httpServer.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		err := s.httpServer.Shutdown(shutdownCtx)

		s.mu.Lock()
		ids := make([]string, 0, len(s.sessions))
		for id := range s.sessions {
			ids = append(ids, id)
		}
		s.mu.Unlock()
		for _, id := range ids {
			s.close(id)
		}
		return err
	}
}

const pageTemplate = `<!DOCTYPE html>
<html>
<head><meta charset="utf-8"><title>rangedom</title></head>
<body data-session="%s">%s
<script>
(function () {
  var body = document.body;
  var url = (location.protocol === "https:" ? "wss://" : "ws://") + location.host +
    "/ws?session=" + encodeURIComponent(body.dataset.session);
  var ws = new WebSocket(url);
  var script = body.querySelector("script");
  ws.onmessage = function (e) {
    var reply = JSON.parse(e.data);
    if (reply.type === "html") {
      body.innerHTML = reply.html;
      body.appendChild(script);
    } else if (reply.type === "error") {
      console.warn(reply.code, reply.message);
    }
  };
  ["click", "input", "change", "submit"].forEach(function (type) {
    body.addEventListener(type, function (e) {
      var el = e.target.closest("[data-rid]");
      if (!el) return;
      if (type === "submit") e.preventDefault();
      var data = "value" in el ? {value: el.value} : undefined;
      ws.send(JSON.stringify({type: "event", target: el.dataset.rid, event: type, data: data}));
    });
  });
})();
</script>
</body>
</html>
`
