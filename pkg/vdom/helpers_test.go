package vdom

import (
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/vango-dev/rangedom/pkg/host"
	"github.com/vango-dev/rangedom/pkg/host/htmldoc"
)

// recordingDoc counts every mutation the engine asks the host for.
type recordingDoc struct {
	*htmldoc.Document
	mutations int
}

func newRecordingDoc() *recordingDoc {
	return &recordingDoc{Document: htmldoc.New()}
}

func (d *recordingDoc) CreateElement(tag string) host.Node {
	d.mutations++
	return d.Document.CreateElement(tag)
}

func (d *recordingDoc) CreateText(content string) host.Node {
	d.mutations++
	return d.Document.CreateText(content)
}

func (d *recordingDoc) SetAttribute(n host.Node, name string, value any) error {
	d.mutations++
	return d.Document.SetAttribute(n, name, value)
}

func (d *recordingDoc) InsertBefore(parent, child host.Node, offset int) error {
	d.mutations++
	return d.Document.InsertBefore(parent, child, offset)
}

func (d *recordingDoc) DeleteRange(parent host.Node, start, end int) error {
	d.mutations++
	return d.Document.DeleteRange(parent, start, end)
}

// recordingObserver tallies Observer callbacks.
type recordingObserver struct {
	mounted, reused, replaced map[VKind]int
	removed, retained         int
	updates                   []string
	errs                      []error
}

func newRecordingObserver() *recordingObserver {
	return &recordingObserver{
		mounted:  map[VKind]int{},
		reused:   map[VKind]int{},
		replaced: map[VKind]int{},
	}
}

func (o *recordingObserver) NodeMounted(k VKind)       { o.mounted[k]++ }
func (o *recordingObserver) NodeReused(k VKind)        { o.reused[k]++ }
func (o *recordingObserver) NodeReplaced(k VKind)      { o.replaced[k]++ }
func (o *recordingObserver) ChildrenRemoved(count int) { o.removed += count }
func (o *recordingObserver) ShrinkRetained(count int)  { o.retained += count }
func (o *recordingObserver) UpdateFinished(name string, _ time.Duration, err error) {
	o.updates = append(o.updates, name)
	o.errs = append(o.errs, err)
}

func quietLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func newTestRenderer(t *testing.T, opts ...Option) (*Renderer, *recordingDoc) {
	t.Helper()
	doc := newRecordingDoc()
	opts = append([]Option{WithLogger(quietLogger())}, opts...)
	return NewRenderer(doc, opts...), doc
}

func mustRender(t *testing.T, r *Renderer, n *VNode, target host.Node) {
	t.Helper()
	if err := r.Render(n, target); err != nil {
		t.Fatalf("Render: %v", err)
	}
}

func innerHTML(t *testing.T, n host.Node) string {
	t.Helper()
	s, err := htmldoc.InnerHTML(n)
	if err != nil {
		t.Fatalf("InnerHTML: %v", err)
	}
	return s
}

// counter renders div > span > "count: N".
type counter struct{ Base }

func (c *counter) Render() *VNode {
	return Div(nil, Span(nil, Textf("count: %d", c.State().Get("count").Int())))
}

var counterType = DefineComponent("Counter", func() Component {
	c := &counter{}
	c.InitState(map[string]any{"count": 0})
	return c
})

// list renders ul > li* from state.items.
type list struct{ Base }

func (l *list) Render() *VNode {
	items, _ := l.State().Get("items").Any().([]string)
	return Ul(nil, Each(items, func(s string, _ int) *VNode { return Li(nil, s) }))
}

var listType = DefineComponent("List", func() Component {
	l := &list{}
	l.InitState(map[string]any{"items": []string{}})
	return l
})

func childAt(n host.Node, i int) host.Node {
	return htmldoc.Child(n, i)
}
