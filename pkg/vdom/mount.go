package vdom

import (
	"sort"

	"github.com/vango-dev/rangedom/internal/errors"
	"github.com/vango-dev/rangedom/pkg/host"
)

// listener is the cell a host listener reads its handler from. Reusing an
// element in place swaps the handler without touching the host.
type listener struct {
	h host.Handler
}

// mount produces host content for n inside rng.
func (r *Renderer) mount(n *VNode, rng *Range) error {
	switch n.Kind {
	case KindText:
		hn := r.doc.CreateText(n.Text)
		if err := rng.Insert(r.doc, hn); err != nil {
			return err
		}
		n.host, n.rng = hn, rng

	case KindElement:
		el := r.doc.CreateElement(n.Tag)
		if err := r.applyProps(el, n); err != nil {
			return err
		}
		for _, child := range n.Children {
			if err := r.mount(child, ChildRangeAt(r.doc, el)); err != nil {
				return err
			}
		}
		if err := rng.Insert(r.doc, el); err != nil {
			return err
		}
		n.host, n.rng = el, rng

	case KindComponent:
		if err := r.mountComponent(n, rng); err != nil {
			return err
		}

	default:
		return errors.New("E001").WithDetail("Cannot mount a node of kind " + n.Kind.String() + ".")
	}

	r.observer.NodeMounted(n.Kind)
	return nil
}

// mountComponent renders the component and mounts its output into the
// component's own range. A component contributes no host node.
func (r *Renderer) mountComponent(n *VNode, rng *Range) error {
	if n.Comp == nil {
		return errors.New("E001").WithComponent(n.Type.String()).WithDetail("Component node has no instance.")
	}
	b := n.Comp.base()
	b.r = r
	b.rng = rng
	n.rng = rng

	out := r.renderOutput(b)
	if err := r.mount(out, rng); err != nil {
		return err
	}
	b.prev = out
	b.phase = Mounted
	return nil
}

// renderOutput calls Render. A nil output is mounted as empty text so the
// component still owns exactly one host slot.
func (r *Renderer) renderOutput(b *Base) *VNode {
	if b.self == nil {
		return Text("")
	}
	out := b.self.Render()
	if out == nil {
		return Text("")
	}
	return out
}

// applyProps sets attributes and registers listeners in sorted key order.
func (r *Renderer) applyProps(el host.Node, n *VNode) error {
	keys := make([]string, 0, len(n.Props))
	for k := range n.Props {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	for _, key := range keys {
		value := n.Props[key]
		if ev, ok := EventName(key); ok {
			h, ok := host.AsHandler(value)
			if !ok {
				return errors.New("E002").WithTag(n.Tag + " " + key)
			}
			l := &listener{h: h}
			if err := r.doc.AddEventListener(el, ev, func(e host.Event) { l.h(e) }); err != nil {
				return errors.New("E005").WithTag(n.Tag).Wrap(err)
			}
			if n.listeners == nil {
				n.listeners = make(map[string]*listener)
			}
			n.listeners[key] = l
			continue
		}
		if err := r.doc.SetAttribute(el, key, value); err != nil {
			return errors.New("E005").WithTag(n.Tag).Wrap(err)
		}
	}
	return nil
}
