// Package host defines the capability surface rangedom needs from the UI
// tree it mutates.
//
// The engine never creates or walks native nodes directly. It asks a
// Document to create nodes, set attributes, attach listeners, insert a
// node at an offset inside a parent and delete a span of a parent's
// children. Everything else about the host tree is the implementation's
// business.
package host

import "fmt"

// Node is an opaque handle to a native node owned by a Document.
// Handles are compared by identity.
type Node interface{}

// Event is delivered to listeners registered with AddEventListener.
type Event struct {
	// Type is the normalized event name (e.g. "click").
	Type string

	// Target is the node the event was dispatched on.
	Target Node

	// Data carries implementation-specific payload (input values, keys).
	Data map[string]any
}

// Handler is a host event callback.
type Handler func(Event)

// Document is the capability surface consumed by the engine.
type Document interface {
	// CreateElement creates a detached element node.
	CreateElement(tag string) Node

	// CreateText creates a detached text node.
	CreateText(content string) Node

	// SetAttribute sets a named attribute on an element.
	SetAttribute(n Node, name string, value any) error

	// RemoveAttribute removes a named attribute from an element.
	RemoveAttribute(n Node, name string) error

	// AddEventListener registers h for events named event on n.
	AddEventListener(n Node, event string, h Handler) error

	// InsertBefore inserts child into parent so that it ends up at offset.
	// An offset equal to ChildCount(parent) appends.
	InsertBefore(parent, child Node, offset int) error

	// DeleteRange removes parent's children in [start, end).
	DeleteRange(parent Node, start, end int) error

	// ChildCount returns the number of children parent currently has.
	ChildCount(parent Node) int
}

// AsHandler coerces an attribute value into a Handler.
// Accepted shapes are Handler, func(Event) and func().
func AsHandler(v any) (Handler, bool) {
	switch h := v.(type) {
	case Handler:
		return h, h != nil
	case func(Event):
		return Handler(h), h != nil
	case func():
		if h == nil {
			return nil, false
		}
		return func(Event) { h() }, true
	default:
		return nil, false
	}
}

// FormatValue renders an attribute value as the string a markup host stores.
func FormatValue(v any) string {
	switch val := v.(type) {
	case nil:
		return ""
	case string:
		return val
	case bool:
		if val {
			return "true"
		}
		return "false"
	case fmt.Stringer:
		return val.String()
	default:
		return fmt.Sprintf("%v", v)
	}
}
