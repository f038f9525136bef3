package live

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	rerrors "github.com/vango-dev/rangedom/internal/errors"
	"github.com/vango-dev/rangedom/pkg/host/htmldoc"
	"github.com/vango-dev/rangedom/pkg/vdom"
)

// Session is one rendered document and the renderer that owns it.
// The renderer is single-threaded, so every call into it holds mu.
type Session struct {
	ID      string
	Created time.Time

	mu     sync.Mutex
	doc    *htmldoc.Document
	r      *vdom.Renderer
	logger *slog.Logger
	tracer trace.Tracer

	// lastActive and conns are guarded by mu.
	lastActive time.Time
	conns      int
}

// newSession renders root into a fresh document.
func newSession(root *vdom.VNode, logger *slog.Logger, tracer trace.Tracer, opts ...vdom.Option) (*Session, error) {
	id := uuid.NewString()
	logger = logger.With("session", id)
	doc := htmldoc.New()
	opts = append([]vdom.Option{vdom.WithLogger(logger)}, opts...)
	r := vdom.NewRenderer(doc, opts...)
	if err := r.Render(root, doc.Body()); err != nil {
		return nil, err
	}
	now := time.Now()
	return &Session{
		ID:         id,
		Created:    now,
		doc:        doc,
		r:          r,
		logger:     logger,
		tracer:     tracer,
		lastActive: now,
	}, nil
}

// HTML returns the body content with listener IDs stamped.
func (s *Session) HTML() (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.doc.LiveHTML(s.doc.Body())
}

// Dispatch runs event on the node with the given listener ID and returns
// the body HTML after the handlers (and the updates they trigger) finish.
func (s *Session) Dispatch(ctx context.Context, target, event string, data map[string]any) (html string, err error) {
	_, span := s.tracer.Start(ctx, "live.Event",
		trace.WithAttributes(
			attribute.String("live.session", s.ID),
			attribute.String("live.target", target),
			attribute.String("live.event", event),
		))
	defer func() {
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
		}
		span.End()
	}()

	s.mu.Lock()
	defer s.mu.Unlock()
	s.lastActive = time.Now()

	node, ok := s.doc.NodeByID(target)
	if !ok {
		return "", rerrors.New("E203").WithDetail("No node with id " + target + ".")
	}
	if err := s.doc.Dispatch(node, event, data); err != nil {
		if errors.Is(err, htmldoc.ErrNoListener) {
			return "", rerrors.New("E203").WithDetail(err.Error())
		}
		return "", err
	}
	s.logger.Debug("event dispatched", "target", target, "event", event)
	return s.doc.LiveHTML(s.doc.Body())
}

// attach records an open connection.
func (s *Session) attach() {
	s.mu.Lock()
	s.conns++
	s.lastActive = time.Now()
	s.mu.Unlock()
}

// detach records a closed connection.
func (s *Session) detach() {
	s.mu.Lock()
	s.conns--
	s.lastActive = time.Now()
	s.mu.Unlock()
}

// LastActive returns the time of the last event or connection change.
func (s *Session) LastActive() time.Time {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastActive
}

// expired reports whether the session has no open connection and has been
// idle for longer than ttl.
func (s *Session) expired(now time.Time, ttl time.Duration) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.conns == 0 && now.Sub(s.lastActive) > ttl
}

// Close unmounts the rendered tree.
func (s *Session) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.r.Unmount(s.doc.Body())
}
