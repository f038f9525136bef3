package vdom

import (
	"errors"
	"testing"

	"github.com/vango-dev/rangedom/pkg/host"
	"github.com/vango-dev/rangedom/pkg/host/htmldoc"
)

func TestRenderElementTree(t *testing.T) {
	r, doc := newTestRenderer(t)
	tree := Div(Attrs(ID("app"), Class("card")),
		H1(nil, "Title"),
		P(nil, "one ", "two"),
	)
	mustRender(t, r, tree, doc.Body())

	want := `<div class="card" id="app"><h1>Title</h1><p>one two</p></div>`
	if got := innerHTML(t, doc.Body()); got != want {
		t.Errorf("html = %s\nwant   %s", got, want)
	}
	if tree.Host() != childAt(doc.Body(), 0) {
		t.Error("root VNode should record its host element")
	}
	if tree.Children[1].Range().Parent != tree.Host() {
		t.Error("child ranges should be addressed inside the parent element")
	}
}

func TestRenderReplacesTargetContent(t *testing.T) {
	r, doc := newTestRenderer(t)
	body := doc.Body()
	_ = doc.InsertBefore(body, doc.CreateText("stale"), 0)
	_ = doc.InsertBefore(body, doc.CreateElement("hr"), 1)

	mustRender(t, r, P(nil, "fresh"), body)

	if got := innerHTML(t, body); got != "<p>fresh</p>" {
		t.Errorf("html = %s, want <p>fresh</p>", got)
	}
}

func TestRenderIsIdempotent(t *testing.T) {
	r, doc := newTestRenderer(t)
	body := doc.Body()
	tree := Ul(Attrs(Class("x")), Li(nil, "a"), Li(nil, H(counterType, nil)))

	mustRender(t, r, tree, body)
	first := innerHTML(t, body)
	firstHost := tree.Host()

	mustRender(t, r, tree, body)
	second := innerHTML(t, body)

	if first != second {
		t.Errorf("second render differs:\n%s\n%s", first, second)
	}
	if doc.ChildCount(body) != 1 {
		t.Errorf("body has %d children, want 1", doc.ChildCount(body))
	}
	if tree.Host() == firstHost {
		t.Error("each Render should create fresh host content")
	}
}

func TestRenderNil(t *testing.T) {
	r, doc := newTestRenderer(t)
	if err := r.Render(nil, doc.Body()); !errors.Is(err, ErrUnknownNodeType) {
		t.Errorf("Render(nil) = %v, want ErrUnknownNodeType", err)
	}
}

func TestMountRegistersEventHandlers(t *testing.T) {
	r, doc := newTestRenderer(t)
	var clicks, keys int
	var lastEvent host.Event
	btn := Button(Attrs(
		OnClick(func() { clicks++ }),
		Attr{Key: "onKeyDown", Value: func(e host.Event) { keys++; lastEvent = e }},
		Attr{Key: "title", Value: "go"},
	), "Go")
	mustRender(t, r, btn, doc.Body())

	el := btn.Host()
	if _, ok := htmldoc.Attr(el, "onClick"); ok {
		t.Error("event props must not become attributes")
	}
	if v, _ := htmldoc.Attr(el, "title"); v != "go" {
		t.Errorf("title = %q, want go", v)
	}

	if err := doc.Dispatch(el, "click", nil); err != nil {
		t.Fatal(err)
	}
	if err := doc.Dispatch(el, "keyDown", map[string]any{"key": "Enter"}); err != nil {
		t.Fatal(err)
	}
	if clicks != 1 || keys != 1 {
		t.Errorf("clicks=%d keys=%d, want 1 each", clicks, keys)
	}
	if lastEvent.Data["key"] != "Enter" || lastEvent.Target != el {
		t.Errorf("event = %+v", lastEvent)
	}
}

func TestMountInvalidHandler(t *testing.T) {
	r, doc := newTestRenderer(t)

	// Construction succeeds; the handler is only checked when attached.
	n, err := CreateNode("button", Props{"onClick": "alert(1)"})
	if err != nil {
		t.Fatalf("CreateNode: %v", err)
	}
	err = r.Render(n, doc.Body())
	if !errors.Is(err, ErrInvalidHandler) {
		t.Errorf("Render = %v, want ErrInvalidHandler", err)
	}
}

func TestComponentIsTransparent(t *testing.T) {
	r, doc := newTestRenderer(t)
	card := Func("Card", func(p Props, children []*VNode) *VNode {
		return Div(Attrs(Class("card")), H2(nil, p["title"].(string)), children)
	})
	wrapper := Func("Wrapper", func(p Props, children []*VNode) *VNode {
		return H(card, Props{"title": "T"}, children)
	})

	root := Div(nil, H(wrapper, nil, P(nil, "body")))
	mustRender(t, r, root, doc.Body())

	want := `<div><div class="card"><h2>T</h2><p>body</p></div></div>`
	if got := innerHTML(t, doc.Body()); got != want {
		t.Errorf("html = %s\nwant   %s", got, want)
	}

	comp := root.Children[0]
	if comp.Range() != resolve(comp).Range() {
		t.Error("a component should share its range with its rendered output")
	}
	if comp.Comp.base().Phase() != Mounted {
		t.Errorf("Phase = %v, want Mounted", comp.Comp.base().Phase())
	}
}

func TestComponentRenderingNil(t *testing.T) {
	r, doc := newTestRenderer(t)
	empty := Func("Empty", func(Props, []*VNode) *VNode { return nil })
	mustRender(t, r, Div(nil, H(empty, nil), "after"), doc.Body())

	div := childAt(doc.Body(), 0)
	if doc.ChildCount(div) != 2 {
		t.Errorf("div has %d children, want 2 (empty text + after)", doc.ChildCount(div))
	}
	if htmldoc.TextContent(div) != "after" {
		t.Errorf("text = %q", htmldoc.TextContent(div))
	}
}

func TestObserverSeesMounts(t *testing.T) {
	obs := newRecordingObserver()
	r, doc := newTestRenderer(t, WithObserver(obs))
	mustRender(t, r, H(counterType, nil), doc.Body())

	if obs.mounted[KindComponent] != 1 || obs.mounted[KindElement] != 2 || obs.mounted[KindText] != 1 {
		t.Errorf("mounted = %v", obs.mounted)
	}
}

func TestUnmount(t *testing.T) {
	r, doc := newTestRenderer(t)
	root := H(counterType, nil)
	mustRender(t, r, root, doc.Body())

	if err := r.Unmount(doc.Body()); err != nil {
		t.Fatal(err)
	}
	if doc.ChildCount(doc.Body()) != 0 {
		t.Error("Unmount should clear the target")
	}
	if r.Root(doc.Body()) != nil {
		t.Error("Root should be forgotten")
	}
	if err := root.Comp.base().SetState(map[string]any{"count": 1}); !errors.Is(err, ErrLifecycle) {
		t.Errorf("SetState after Unmount = %v, want ErrLifecycle", err)
	}
	if err := r.Unmount(doc.Body()); err != nil {
		t.Errorf("second Unmount = %v, want nil", err)
	}
}
