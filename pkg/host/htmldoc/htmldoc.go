// Package htmldoc is an in-memory host.Document backed by
// golang.org/x/net/html node trees.
//
// It is the reference host for rangedom: tests read it back to check node
// identity, the CLI serializes it, and the live server dispatches browser
// events into it. Listeners are kept in a side table keyed by node, since
// markup has nowhere to hold Go callbacks.
package htmldoc

import (
	"bytes"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"

	"github.com/vango-dev/rangedom/pkg/host"
)

// IDAttr is the attribute LiveHTML stamps on nodes that have listeners.
const IDAttr = "data-rid"

var (
	// ErrForeignNode is returned when a handle was not created by this package.
	ErrForeignNode = errors.New("htmldoc: node not owned by an htmldoc document")

	// ErrOutOfRange is returned when an offset falls outside a parent's children.
	ErrOutOfRange = errors.New("htmldoc: offset out of range")

	// ErrNoListener is returned by Dispatch when the target has no listener for the event.
	ErrNoListener = errors.New("htmldoc: no listener for event")
)

// Document is an html.Node tree plus event listeners.
type Document struct {
	root      *html.Node
	body      *html.Node
	listeners map[*html.Node]map[string][]host.Handler
	ids       map[*html.Node]string
	byID      map[string]*html.Node
	nextID    int

	// Created counts nodes created through CreateElement/CreateText.
	Created int
}

var _ host.Document = (*Document)(nil)

// New creates an empty document with an <html><body> skeleton.
func New() *Document {
	root := &html.Node{Type: html.DocumentNode}
	htmlEl := &html.Node{Type: html.ElementNode, Data: "html", DataAtom: atom.Html}
	body := &html.Node{Type: html.ElementNode, Data: "body", DataAtom: atom.Body}
	root.AppendChild(htmlEl)
	htmlEl.AppendChild(body)

	return &Document{
		root:      root,
		body:      body,
		listeners: make(map[*html.Node]map[string][]host.Handler),
		ids:       make(map[*html.Node]string),
		byID:      make(map[string]*html.Node),
	}
}

// Body returns the <body> element, the usual render target.
func (d *Document) Body() host.Node { return d.body }

// CreateElement implements host.Document.
func (d *Document) CreateElement(tag string) host.Node {
	d.Created++
	return &html.Node{
		Type:     html.ElementNode,
		Data:     tag,
		DataAtom: atom.Lookup([]byte(tag)),
	}
}

// CreateText implements host.Document.
func (d *Document) CreateText(content string) host.Node {
	d.Created++
	return &html.Node{Type: html.TextNode, Data: content}
}

// SetAttribute implements host.Document.
func (d *Document) SetAttribute(n host.Node, name string, value any) error {
	el, err := element(n)
	if err != nil {
		return err
	}
	v := host.FormatValue(value)
	for i := range el.Attr {
		if el.Attr[i].Key == name {
			el.Attr[i].Val = v
			return nil
		}
	}
	el.Attr = append(el.Attr, html.Attribute{Key: name, Val: v})
	return nil
}

// RemoveAttribute implements host.Document.
func (d *Document) RemoveAttribute(n host.Node, name string) error {
	el, err := element(n)
	if err != nil {
		return err
	}
	for i := range el.Attr {
		if el.Attr[i].Key == name {
			el.Attr = append(el.Attr[:i], el.Attr[i+1:]...)
			return nil
		}
	}
	return nil
}

// AddEventListener implements host.Document.
func (d *Document) AddEventListener(n host.Node, event string, h host.Handler) error {
	el, err := element(n)
	if err != nil {
		return err
	}
	if h == nil {
		return fmt.Errorf("htmldoc: nil handler for %q", event)
	}
	byEvent := d.listeners[el]
	if byEvent == nil {
		byEvent = make(map[string][]host.Handler)
		d.listeners[el] = byEvent
	}
	byEvent[event] = append(byEvent[event], h)
	return nil
}

// InsertBefore implements host.Document.
func (d *Document) InsertBefore(parent, child host.Node, offset int) error {
	p, err := asNode(parent)
	if err != nil {
		return err
	}
	c, err := asNode(child)
	if err != nil {
		return err
	}
	if c.Parent != nil {
		c.Parent.RemoveChild(c)
	}

	if offset < 0 || offset > countChildren(p) {
		return fmt.Errorf("%w: insert at %d into %d children", ErrOutOfRange, offset, countChildren(p))
	}
	p.InsertBefore(c, childAt(p, offset))
	return nil
}

// DeleteRange implements host.Document.
func (d *Document) DeleteRange(parent host.Node, start, end int) error {
	p, err := asNode(parent)
	if err != nil {
		return err
	}
	count := countChildren(p)
	if start < 0 || end < start || end > count {
		return fmt.Errorf("%w: delete [%d,%d) of %d children", ErrOutOfRange, start, end, count)
	}

	victims := make([]*html.Node, 0, end-start)
	for c, i := childAt(p, start), start; c != nil && i < end; c, i = c.NextSibling, i+1 {
		victims = append(victims, c)
	}
	for _, c := range victims {
		p.RemoveChild(c)
		d.forget(c)
	}
	return nil
}

// ChildCount implements host.Document.
func (d *Document) ChildCount(parent host.Node) int {
	p, err := asNode(parent)
	if err != nil {
		return 0
	}
	return countChildren(p)
}

// forget drops listeners and IDs for a detached subtree.
func (d *Document) forget(n *html.Node) {
	delete(d.listeners, n)
	if id, ok := d.ids[n]; ok {
		delete(d.byID, id)
		delete(d.ids, n)
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		d.forget(c)
	}
}

// Dispatch synchronously invokes the listeners registered for event on target.
func (d *Document) Dispatch(target host.Node, event string, data map[string]any) error {
	el, err := element(target)
	if err != nil {
		return err
	}
	handlers := append([]host.Handler(nil), d.listeners[el][event]...)
	if len(handlers) == 0 {
		return fmt.Errorf("%w: %q on <%s>", ErrNoListener, event, el.Data)
	}
	ev := host.Event{Type: event, Target: target, Data: data}
	for _, h := range handlers {
		h(ev)
	}
	return nil
}

// Listeners returns the number of listeners registered for event on n.
func (d *Document) Listeners(n host.Node, event string) int {
	el, err := element(n)
	if err != nil {
		return 0
	}
	return len(d.listeners[el][event])
}

// ID returns a stable identifier for n, allocating one on first use.
func (d *Document) ID(n host.Node) string {
	hn, err := asNode(n)
	if err != nil {
		return ""
	}
	if id, ok := d.ids[hn]; ok {
		return id
	}
	d.nextID++
	id := "r" + strconv.Itoa(d.nextID)
	d.ids[hn] = id
	d.byID[id] = hn
	return id
}

// NodeByID resolves an identifier previously returned by ID.
func (d *Document) NodeByID(id string) (host.Node, bool) {
	n, ok := d.byID[id]
	if !ok {
		return nil, false
	}
	return n, true
}

// Children returns n's current children in order.
func Children(n host.Node) []host.Node {
	hn, err := asNode(n)
	if err != nil {
		return nil
	}
	var out []host.Node
	for c := hn.FirstChild; c != nil; c = c.NextSibling {
		out = append(out, c)
	}
	return out
}

// Child returns n's i-th child, or nil.
func Child(n host.Node, i int) host.Node {
	hn, err := asNode(n)
	if err != nil {
		return nil
	}
	if c := childAt(hn, i); c != nil {
		return c
	}
	return nil
}

// Tag returns an element's tag name, or "#text" for text nodes.
func Tag(n host.Node) string {
	hn, err := asNode(n)
	if err != nil {
		return ""
	}
	if hn.Type == html.TextNode {
		return "#text"
	}
	return hn.Data
}

// Attr returns the value of an element attribute.
func Attr(n host.Node, name string) (string, bool) {
	hn, err := asNode(n)
	if err != nil {
		return "", false
	}
	for _, a := range hn.Attr {
		if a.Key == name {
			return a.Val, true
		}
	}
	return "", false
}

// TextContent concatenates the text of n and its descendants.
func TextContent(n host.Node) string {
	hn, err := asNode(n)
	if err != nil {
		return ""
	}
	var b strings.Builder
	var walk func(*html.Node)
	walk = func(x *html.Node) {
		if x.Type == html.TextNode {
			b.WriteString(x.Data)
		}
		for c := x.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(hn)
	return b.String()
}

// InnerHTML serializes n's children.
func InnerHTML(n host.Node) (string, error) {
	hn, err := asNode(n)
	if err != nil {
		return "", err
	}
	var buf bytes.Buffer
	for c := hn.FirstChild; c != nil; c = c.NextSibling {
		if err := html.Render(&buf, c); err != nil {
			return "", err
		}
	}
	return buf.String(), nil
}

// HTML serializes the whole document.
func (d *Document) HTML() (string, error) {
	var buf bytes.Buffer
	if err := html.Render(&buf, d.root); err != nil {
		return "", err
	}
	return buf.String(), nil
}

// LiveHTML serializes n's children with IDAttr stamped on every node that
// has listeners, so a remote client can address events back to it.
func (d *Document) LiveHTML(n host.Node) (string, error) {
	hn, err := asNode(n)
	if err != nil {
		return "", err
	}
	var buf bytes.Buffer
	for c := hn.FirstChild; c != nil; c = c.NextSibling {
		if err := html.Render(&buf, d.stamped(c)); err != nil {
			return "", err
		}
	}
	return buf.String(), nil
}

// stamped returns a detached copy of n with listener IDs as attributes.
func (d *Document) stamped(n *html.Node) *html.Node {
	cp := &html.Node{
		Type:     n.Type,
		Data:     n.Data,
		DataAtom: n.DataAtom,
		Attr:     append([]html.Attribute(nil), n.Attr...),
	}
	if len(d.listeners[n]) > 0 {
		cp.Attr = append(cp.Attr, html.Attribute{Key: IDAttr, Val: d.ID(n)})
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		cp.AppendChild(d.stamped(c))
	}
	return cp
}

func asNode(n host.Node) (*html.Node, error) {
	hn, ok := n.(*html.Node)
	if !ok || hn == nil {
		return nil, ErrForeignNode
	}
	return hn, nil
}

func element(n host.Node) (*html.Node, error) {
	hn, err := asNode(n)
	if err != nil {
		return nil, err
	}
	if hn.Type != html.ElementNode {
		return nil, fmt.Errorf("htmldoc: <%s> is not an element", hn.Data)
	}
	return hn, nil
}

func countChildren(p *html.Node) int {
	n := 0
	for c := p.FirstChild; c != nil; c = c.NextSibling {
		n++
	}
	return n
}

func childAt(p *html.Node, i int) *html.Node {
	if i < 0 {
		return nil
	}
	c := p.FirstChild
	for ; c != nil && i > 0; i-- {
		c = c.NextSibling
	}
	return c
}
