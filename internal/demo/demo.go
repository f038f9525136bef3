// Package demo holds the sample components the CLI and live server render.
package demo

import (
	"fmt"
	"sort"

	"github.com/vango-dev/rangedom/pkg/vdom"
)

// Counter shows a count and a button that increments it by the "step" prop.
type Counter struct{ vdom.Base }

// CounterType is the Counter component type.
var CounterType = vdom.DefineComponent("Counter", func() vdom.Component {
	c := &Counter{}
	c.InitState(map[string]any{"count": 0})
	return c
})

func (c *Counter) step() int {
	if s, ok := c.Prop("step").(int); ok && s != 0 {
		return s
	}
	return 1
}

// Increment adds the step to the count.
func (c *Counter) Increment() error {
	return c.SetState(map[string]any{"count": c.State().Get("count").Int() + c.step()})
}

func (c *Counter) onIncrement() {
	if err := c.Increment(); err != nil {
		c.Logger().Warn("increment failed", "error", err)
	}
}

// Render implements vdom.Component.
func (c *Counter) Render() *vdom.VNode {
	return vdom.Div(vdom.Attrs(vdom.Class("counter")),
		vdom.Span(nil, vdom.Textf("count: %d", c.State().Get("count").Int())),
		vdom.Button(vdom.Attrs(vdom.OnClick(c.onIncrement)), fmt.Sprintf("+%d", c.step())),
	)
}

// TodoList keeps a list of items with add and remove controls. Removing
// shrinks the rendered list, so its behavior depends on the shrink policy.
type TodoList struct{ vdom.Base }

// TodoListType is the TodoList component type.
var TodoListType = vdom.DefineComponent("TodoList", func() vdom.Component {
	l := &TodoList{}
	l.InitState(map[string]any{"items": []string{}, "next": 1})
	return l
})

// Items returns the current items.
func (l *TodoList) Items() []string {
	items, _ := l.State().Get("items").Any().([]string)
	return items
}

// Add appends "item N".
func (l *TodoList) Add() error {
	n := l.State().Get("next").Int()
	items := append(append([]string(nil), l.Items()...), fmt.Sprintf("item %d", n))
	return l.SetState(map[string]any{"items": items, "next": n + 1})
}

// RemoveLast drops the last item.
func (l *TodoList) RemoveLast() error {
	items := l.Items()
	if len(items) == 0 {
		return nil
	}
	return l.SetState(map[string]any{"items": append([]string(nil), items[:len(items)-1]...)})
}

func (l *TodoList) onAdd() {
	if err := l.Add(); err != nil {
		l.Logger().Warn("add failed", "error", err)
	}
}

func (l *TodoList) onRemove() {
	if err := l.RemoveLast(); err != nil {
		l.Logger().Warn("remove failed", "error", err)
	}
}

// Render implements vdom.Component.
func (l *TodoList) Render() *vdom.VNode {
	title, _ := l.Prop("title").(string)
	if title == "" {
		title = "Todo"
	}
	return vdom.Div(vdom.Attrs(vdom.Class("todo")),
		vdom.H2(nil, title),
		vdom.Button(vdom.Attrs(vdom.Class("add"), vdom.OnClick(l.onAdd)), "add"),
		vdom.Button(vdom.Attrs(vdom.Class("remove"), vdom.OnClick(l.onRemove)), "remove"),
		vdom.Ul(nil, vdom.Each(l.Items(), func(item string, _ int) *vdom.VNode {
			return vdom.Li(nil, item)
		})),
	)
}

// Card frames its passthrough children under a title.
var Card = vdom.Func("Card", func(props vdom.Props, children []*vdom.VNode) *vdom.VNode {
	title, _ := props["title"].(string)
	return vdom.Div(vdom.Attrs(vdom.Class("card")),
		vdom.H1(nil, title),
		children,
	)
})

// Apps are the named demo trees.
var Apps = map[string]func() *vdom.VNode{
	"counter": func() *vdom.VNode {
		return vdom.H(Card, vdom.Props{"title": "Counter"}, vdom.H(CounterType, nil))
	},
	"todo": func() *vdom.VNode {
		return vdom.H(Card, vdom.Props{"title": "Todo"}, vdom.H(TodoListType, vdom.Props{"title": "Today"}))
	},
	"static": func() *vdom.VNode {
		return vdom.Div(vdom.Attrs(vdom.ID("1"), vdom.Class("parent")),
			vdom.Div(vdom.Attrs(vdom.ID("2"), vdom.Class("child"))),
			vdom.Div(vdom.Attrs(vdom.ID("3"), vdom.Class("child"))),
		)
	},
}

// Names returns the demo names in sorted order.
func Names() []string {
	names := make([]string, 0, len(Apps))
	for name := range Apps {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Lookup returns a fresh tree for the named demo.
func Lookup(name string) (*vdom.VNode, bool) {
	fn, ok := Apps[name]
	if !ok {
		return nil, false
	}
	return fn(), true
}
