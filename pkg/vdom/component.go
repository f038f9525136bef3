package vdom

import (
	"log/slog"

	"github.com/vango-dev/rangedom/internal/errors"
)

// Component is user-defined render logic. Implementations embed Base:
//
//	type Counter struct{ vdom.Base }
//
//	func (c *Counter) Render() *vdom.VNode {
//	    return vdom.Div(nil, vdom.Textf("count: %d", c.State().Get("count").Int()))
//	}
//
// Render must be pure with respect to Props, Children and State at call time.
type Component interface {
	Render() *VNode
	base() *Base
}

// ComponentType is the identity of a component's logic. Two component nodes
// can only be patched in place when they share the same *ComponentType.
type ComponentType struct {
	name    string
	factory func() Component
}

// DefineComponent registers a component type. newFn is called once per
// component node and may set initial state with InitState.
func DefineComponent(name string, newFn func() Component) *ComponentType {
	return &ComponentType{name: name, factory: newFn}
}

// String returns the component type name.
func (t *ComponentType) String() string {
	if t == nil {
		return "<nil>"
	}
	return t.name
}

// Func defines a stateless component type from a render function.
func Func(name string, render func(props Props, children []*VNode) *VNode) *ComponentType {
	return DefineComponent(name, func() Component {
		return &funcComponent{render: render}
	})
}

type funcComponent struct {
	Base
	render func(Props, []*VNode) *VNode
}

func (f *funcComponent) Render() *VNode {
	return f.render(f.Props(), f.Children())
}

// Phase is a component's lifecycle state.
type Phase uint8

const (
	Unmounted Phase = iota
	Mounted
	Updating
)

// String returns the phase name.
func (p Phase) String() string {
	switch p {
	case Unmounted:
		return "Unmounted"
	case Mounted:
		return "Mounted"
	case Updating:
		return "Updating"
	default:
		return "Unknown"
	}
}

// Base is the lifecycle controller every component embeds.
//
// It owns the component's props, passthrough children and state, and once
// mounted the Range the component occupies and the output it last rendered.
type Base struct {
	self     Component
	typ      *ComponentType
	props    Props
	children []*VNode
	state    Value
	phase    Phase

	r    *Renderer
	rng  *Range
	prev *VNode
}

func (b *Base) base() *Base { return b }

// Props returns the props the component was created with.
func (b *Base) Props() Props {
	if b.props == nil {
		return Props{}
	}
	return b.props
}

// Prop returns a single prop value.
func (b *Base) Prop(name string) any {
	return b.props[name]
}

// Children returns the passthrough children handed to the component.
func (b *Base) Children() []*VNode {
	return b.children
}

// State returns the current state.
func (b *Base) State() Value {
	return b.state
}

// Phase returns the lifecycle phase.
func (b *Base) Phase() Phase {
	return b.phase
}

// Logger returns the renderer's logger tagged with the component name, or
// slog.Default() before the first render.
func (b *Base) Logger() *slog.Logger {
	l := slog.Default()
	if b.r != nil {
		l = b.r.logger
	}
	return l.With("component", b.typ.String())
}

// InitState sets the initial state. It is meant for component constructors
// and does not render.
func (b *Base) InitState(v any) {
	b.state = ValueOf(v)
}

// SetState deep-merges patch into the current state and synchronously
// reconciles the component's range against a fresh render.
//
// Mapping values merge key by key, recursing into nested mappings; any
// other value replaces what it lands on, and a non-mapping patch replaces
// the whole state. The merge is complete before Render runs.
func (b *Base) SetState(patch any) error {
	if err := b.checkMounted("SetState"); err != nil {
		return err
	}
	b.state = b.state.Merge(ValueOf(patch))
	return b.r.rerender(b)
}

// ForceUpdate reconciles against a fresh render without changing state.
func (b *Base) ForceUpdate() error {
	if err := b.checkMounted("ForceUpdate"); err != nil {
		return err
	}
	return b.r.rerender(b)
}

func (b *Base) checkMounted(op string) error {
	switch b.phase {
	case Mounted:
		return nil
	case Updating:
		return errors.New("E003").
			WithComponent(b.typ.String()).
			WithDetail(op + " was called while the component was already reconciling.")
	default:
		return errors.New("E003").
			WithComponent(b.typ.String()).
			WithSuggestion(op + " is only valid after the component has been rendered")
	}
}

func (b *Base) setAttribute(name string, value any) {
	if b.props == nil {
		b.props = make(Props)
	}
	b.props[name] = value
}

func (b *Base) appendChild(child *VNode) {
	b.children = append(b.children, child)
}
