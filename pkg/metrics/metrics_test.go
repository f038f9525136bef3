package metrics

import (
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"

	"github.com/vango-dev/rangedom/pkg/host/htmldoc"
	"github.com/vango-dev/rangedom/pkg/vdom"
)

func TestObserverCounters(t *testing.T) {
	reg := prometheus.NewRegistry()
	o := NewObserver(WithRegistry(reg))

	o.NodeMounted(vdom.KindElement)
	o.NodeMounted(vdom.KindElement)
	o.NodeMounted(vdom.KindText)
	o.NodeReused(vdom.KindComponent)
	o.NodeReplaced(vdom.KindText)
	o.ChildrenRemoved(3)
	o.ShrinkRetained(2)

	tests := []struct {
		name string
		c    prometheus.Collector
		want float64
	}{
		{"mounted element", o.mounted.WithLabelValues("Element"), 2},
		{"mounted text", o.mounted.WithLabelValues("Text"), 1},
		{"reused component", o.reused.WithLabelValues("Component"), 1},
		{"replaced text", o.replaced.WithLabelValues("Text"), 1},
		{"removed", o.removed, 3},
		{"retained", o.retained, 2},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := testutil.ToFloat64(tt.c); got != tt.want {
				t.Errorf("got %v, want %v", got, tt.want)
			}
		})
	}
}

func TestObserverUpdateFinished(t *testing.T) {
	reg := prometheus.NewRegistry()
	o := NewObserver(WithRegistry(reg))

	o.UpdateFinished("Counter", 2*time.Millisecond, nil)
	o.UpdateFinished("Counter", time.Millisecond, errors.New("boom"))

	if got := testutil.ToFloat64(o.updates.WithLabelValues("Counter", "ok")); got != 1 {
		t.Errorf("ok updates = %v, want 1", got)
	}
	if got := testutil.ToFloat64(o.updates.WithLabelValues("Counter", "error")); got != 1 {
		t.Errorf("error updates = %v, want 1", got)
	}
	if got := testutil.CollectAndCount(o.updateDuration); got != 1 {
		t.Errorf("duration series = %d, want 1", got)
	}
}

func TestObserverOptions(t *testing.T) {
	reg := prometheus.NewRegistry()
	o := NewObserver(
		WithRegistry(reg),
		WithNamespace("app"),
		WithSubsystem("ui"),
		WithConstLabels(prometheus.Labels{"env": "test"}),
		WithBuckets([]float64{0.001, 0.01}),
	)
	o.ChildrenRemoved(1)

	families, err := reg.Gather()
	if err != nil {
		t.Fatalf("Gather: %v", err)
	}
	var found bool
	for _, f := range families {
		if f.GetName() != "app_ui_children_removed_total" {
			continue
		}
		found = true
		labels := f.GetMetric()[0].GetLabel()
		if len(labels) != 1 || labels[0].GetName() != "env" || labels[0].GetValue() != "test" {
			t.Errorf("labels = %v", labels)
		}
	}
	if !found {
		t.Error("app_ui_children_removed_total not registered")
	}
}

func TestObserverWithRenderer(t *testing.T) {
	reg := prometheus.NewRegistry()
	o := NewObserver(WithRegistry(reg))
	doc := htmldoc.New()
	r := vdom.NewRenderer(doc,
		vdom.WithObserver(o),
		vdom.WithLogger(slog.New(slog.NewTextHandler(io.Discard, nil))),
	)

	tree := vdom.Ul(nil, vdom.Li(nil, "a"), vdom.Li(nil, "b"))
	if err := r.Render(tree, doc.Body()); err != nil {
		t.Fatal(err)
	}

	if got := testutil.ToFloat64(o.mounted.WithLabelValues("Element")); got != 3 {
		t.Errorf("mounted elements = %v, want 3", got)
	}
	if got := testutil.ToFloat64(o.mounted.WithLabelValues("Text")); got != 2 {
		t.Errorf("mounted text = %v, want 2", got)
	}
}
