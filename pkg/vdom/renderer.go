package vdom

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/vango-dev/rangedom/internal/errors"
	"github.com/vango-dev/rangedom/pkg/host"
)

// tracerName is the instrumentation scope for engine spans.
const tracerName = "github.com/vango-dev/rangedom/pkg/vdom"

// ShrinkPolicy decides what happens when a node that is patched in place
// has fewer children than before.
type ShrinkPolicy uint8

const (
	// ShrinkDelete removes the trailing old children.
	ShrinkDelete ShrinkPolicy = iota

	// ShrinkRetain leaves the trailing old children attached and reports the
	// condition through the logger and Observer.
	ShrinkRetain

	// ShrinkError aborts the reconciliation with ErrUnsupportedShrink.
	ShrinkError
)

// String returns the policy name used in configuration.
func (p ShrinkPolicy) String() string {
	switch p {
	case ShrinkDelete:
		return "delete"
	case ShrinkRetain:
		return "retain"
	case ShrinkError:
		return "error"
	default:
		return "unknown"
	}
}

// ParseShrinkPolicy parses a policy name. The empty string is ShrinkDelete.
func ParseShrinkPolicy(s string) (ShrinkPolicy, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "delete":
		return ShrinkDelete, nil
	case "retain":
		return ShrinkRetain, nil
	case "error":
		return ShrinkError, nil
	}
	return 0, fmt.Errorf("unknown shrink policy %q (want delete, retain or error)", s)
}

// Observer receives engine activity. Implementations must be cheap; they
// run inline with reconciliation.
type Observer interface {
	// NodeMounted is called for every node mounted fresh.
	NodeMounted(kind VKind)

	// NodeReused is called for every node patched in place.
	NodeReused(kind VKind)

	// NodeReplaced is called when the same-node test fails.
	NodeReplaced(kind VKind)

	// ChildrenRemoved is called when trailing children are deleted.
	ChildrenRemoved(count int)

	// ShrinkRetained is called when stale trailing children are left attached.
	ShrinkRetained(count int)

	// UpdateFinished is called after each state-driven reconciliation.
	UpdateFinished(component string, elapsed time.Duration, err error)
}

// NopObserver ignores everything.
type NopObserver struct{}

func (NopObserver) NodeMounted(VKind)                         {}
func (NopObserver) NodeReused(VKind)                          {}
func (NopObserver) NodeReplaced(VKind)                        {}
func (NopObserver) ChildrenRemoved(int)                       {}
func (NopObserver) ShrinkRetained(int)                        {}
func (NopObserver) UpdateFinished(string, time.Duration, error) {}

// Option configures a Renderer.
type Option func(*Renderer)

// WithLogger sets the logger. If nil, slog.Default() is used.
func WithLogger(l *slog.Logger) Option {
	return func(r *Renderer) {
		if l != nil {
			r.logger = l
		}
	}
}

// WithTracer sets the tracer. The default comes from the global provider.
func WithTracer(t trace.Tracer) Option {
	return func(r *Renderer) {
		if t != nil {
			r.tracer = t
		}
	}
}

// WithObserver sets the Observer.
func WithObserver(o Observer) Option {
	return func(r *Renderer) {
		if o != nil {
			r.observer = o
		}
	}
}

// WithShrinkPolicy sets the child shrink policy (default ShrinkDelete).
func WithShrinkPolicy(p ShrinkPolicy) Option {
	return func(r *Renderer) {
		r.shrink = p
	}
}

// Renderer mounts virtual trees into a host document and reconciles them
// when component state changes. It is single-threaded: all calls, including
// the SetState calls it triggers from host event handlers, must happen on
// one goroutine.
type Renderer struct {
	doc      host.Document
	logger   *slog.Logger
	tracer   trace.Tracer
	observer Observer
	shrink   ShrinkPolicy
	roots    map[host.Node]*VNode
}

// NewRenderer creates a Renderer for doc.
func NewRenderer(doc host.Document, opts ...Option) *Renderer {
	r := &Renderer{
		doc:      doc,
		logger:   slog.Default(),
		tracer:   otel.Tracer(tracerName),
		observer: NopObserver{},
		roots:    make(map[host.Node]*VNode),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Document returns the host document.
func (r *Renderer) Document() host.Document {
	return r.doc
}

// ShrinkPolicy returns the configured shrink policy.
func (r *Renderer) ShrinkPolicy() ShrinkPolicy {
	return r.shrink
}

// Render replaces all of target's content with node.
//
// Components mounted by a previous Render into the same target are
// unmounted first. Calling Render again with an equivalent tree produces
// structurally identical host content.
func (r *Renderer) Render(node *VNode, target host.Node) error {
	if node == nil {
		return errors.New("E001").WithDetail("Render needs a non-nil node.")
	}
	_, span := r.tracer.Start(context.Background(), "vdom.Render",
		trace.WithAttributes(attribute.String("vdom.root", node.Name())))
	defer span.End()

	if prev, ok := r.roots[target]; ok {
		r.unmountTree(prev)
		delete(r.roots, target)
	}

	rng := &Range{Parent: target, Start: 0, End: r.doc.ChildCount(target)}
	err := rng.Delete(r.doc)
	if err == nil {
		err = r.mount(node, rng)
	}
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		r.logger.Error("render failed", "root", node.Name(), "error", err)
		return err
	}

	r.roots[target] = node
	r.logger.Debug("rendered", "root", node.Name(), "range", rng.String())
	return nil
}

// Root returns the tree last rendered into target.
func (r *Renderer) Root(target host.Node) *VNode {
	return r.roots[target]
}

// Unmount clears target and unmounts every component rendered into it.
func (r *Renderer) Unmount(target host.Node) error {
	root, ok := r.roots[target]
	if !ok {
		return nil
	}
	r.unmountTree(root)
	delete(r.roots, target)
	return root.rng.Delete(r.doc)
}

// rerender recomputes b's output and reconciles it against the previous
// output inside b's range.
func (r *Renderer) rerender(b *Base) error {
	name := b.typ.String()
	_, span := r.tracer.Start(context.Background(), "vdom.Update",
		trace.WithAttributes(attribute.String("vdom.component", name)))
	defer span.End()

	start := time.Now()
	b.phase = Updating
	next := r.renderOutput(b)
	err := r.update(b.prev, next)
	if err == nil {
		b.prev = next
	}
	if b.phase == Updating {
		b.phase = Mounted
	}
	elapsed := time.Since(start)

	r.observer.UpdateFinished(name, elapsed, err)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		r.logger.Error("update failed", "component", name, "error", err)
		return err
	}
	r.logger.Debug("updated", "component", name, "elapsed", elapsed)
	return nil
}
