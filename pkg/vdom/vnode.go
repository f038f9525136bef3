package vdom

import (
	"github.com/vango-dev/rangedom/pkg/host"
)

// VKind is the node type discriminator.
type VKind uint8

const (
	KindElement   VKind = iota // <div>, <button>, etc.
	KindText                   // Plain text node
	KindComponent              // User-defined render logic
)

// String returns the string representation of the VKind.
func (k VKind) String() string {
	switch k {
	case KindElement:
		return "Element"
	case KindText:
		return "Text"
	case KindComponent:
		return "Component"
	default:
		return "Unknown"
	}
}

// VNode is the virtual DOM node.
//
// Element and text nodes are immutable once built. A component node points
// at its Component instance, which carries the only mutable state in the
// tree. The unexported fields are mount bookkeeping owned by the Renderer.
type VNode struct {
	Kind     VKind          // Node type
	Tag      string         // Element tag name (e.g., "div")
	Props    Props          // Attributes and event handlers (component props)
	Children []*VNode       // Child nodes (passthrough children for components)
	Text     string         // For KindText
	Type     *ComponentType // For KindComponent
	Comp     Component      // For KindComponent

	host      host.Node
	rng       *Range
	listeners map[string]*listener
}

// Props holds attributes and event handlers.
type Props map[string]any

// Range returns the span this node currently occupies, or nil if unmounted.
func (v *VNode) Range() *Range {
	if v == nil {
		return nil
	}
	return v.rng
}

// Host returns the host node materializing v. Components are transparent,
// so for a component this is the host node of its innermost rendered output.
func (v *VNode) Host() host.Node {
	n := resolve(v)
	if n == nil {
		return nil
	}
	return n.host
}

// Name returns the tag, "#text", or the component type name.
func (v *VNode) Name() string {
	if v == nil {
		return ""
	}
	switch v.Kind {
	case KindElement:
		return v.Tag
	case KindText:
		return "#text"
	case KindComponent:
		return v.Type.String()
	}
	return "?"
}

// resolve follows component outputs until it reaches an element or text
// node. It returns nil for components that have not rendered yet.
func resolve(v *VNode) *VNode {
	for v != nil && v.Kind == KindComponent {
		if v.Comp == nil {
			return nil
		}
		v = v.Comp.base().prev
	}
	return v
}

// Attr represents a single attribute.
type Attr struct {
	Key   string
	Value any
}

// IsEmpty returns true if this is an empty/nil attribute.
func (a Attr) IsEmpty() bool {
	return a.Key == ""
}

// Attrs collects attributes into Props. Empty attributes are skipped and
// later keys win.
func Attrs(attrs ...Attr) Props {
	if len(attrs) == 0 {
		return nil
	}
	p := make(Props, len(attrs))
	for _, a := range attrs {
		if a.IsEmpty() {
			continue
		}
		p[a.Key] = a.Value
	}
	return p
}
