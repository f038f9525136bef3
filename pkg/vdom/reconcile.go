package vdom

import (
	"fmt"
	"reflect"

	"github.com/vango-dev/rangedom/internal/errors"
	"github.com/vango-dev/rangedom/pkg/host"
)

// SameNode reports whether next may be patched into prev's host content in
// place: same kind, same tag or component type, identical props and, for
// text, identical content.
func SameNode(prev, next *VNode) bool {
	if prev == nil || next == nil || prev.Kind != next.Kind {
		return false
	}
	switch prev.Kind {
	case KindElement:
		if prev.Tag != next.Tag {
			return false
		}
	case KindComponent:
		if prev.Type != next.Type {
			return false
		}
	case KindText:
		if prev.Text != next.Text {
			return false
		}
	}
	return sameProps(prev.Props, next.Props)
}

// sameProps requires identical key sets and equal values.
func sameProps(a, b Props) bool {
	if len(a) != len(b) {
		return false
	}
	for k, av := range a {
		bv, ok := b[k]
		if !ok || !propsEqual(av, bv) {
			return false
		}
	}
	return true
}

// update makes the host content in prev's range match next.
func (r *Renderer) update(prev, next *VNode) error {
	rng := prev.rng
	if rng == nil {
		return errors.New("E006").WithDetail("Cannot reconcile a node that was never mounted.")
	}

	if !SameNode(prev, next) {
		r.logger.Debug("reconcile", "decision", "replace", "prev", prev.Name(), "next", next.Name(), "range", rng.String())
		r.observer.NodeReplaced(prev.Kind)
		r.unmountTree(prev)
		if err := rng.Delete(r.doc); err != nil {
			return err
		}
		return r.mount(next, rng)
	}

	r.observer.NodeReused(next.Kind)
	next.rng = rng

	switch next.Kind {
	case KindText:
		next.host = prev.host
		return nil

	case KindElement:
		next.host = prev.host
		if err := r.rebind(prev, next); err != nil {
			return err
		}
		return r.updateChildren(prev, next)

	case KindComponent:
		return r.updateComponent(prev, next)
	}
	return nil
}

// rebind points next's listeners at next's handlers, reusing prev's host
// listeners.
func (r *Renderer) rebind(prev, next *VNode) error {
	next.listeners = prev.listeners
	for key, l := range next.listeners {
		h, ok := host.AsHandler(next.Props[key])
		if !ok {
			return errors.New("E002").WithTag(next.Tag + " " + key)
		}
		l.h = h
	}
	return nil
}

// updateChildren reconciles children by position. New children beyond the
// old count are mounted after the last old child; old children beyond the
// new count are handled by the shrink policy.
func (r *Renderer) updateChildren(prev, next *VNode) error {
	oldKids, newKids := prev.Children, next.Children
	if len(oldKids) == 0 && len(newKids) == 0 {
		return nil
	}

	common := min(len(oldKids), len(newKids))
	for i := 0; i < common; i++ {
		if err := r.update(oldKids[i], newKids[i]); err != nil {
			return err
		}
	}

	if len(newKids) > len(oldKids) {
		anchor := 0
		if common > 0 {
			anchor = newKids[common-1].rng.End
		}
		for _, child := range newKids[common:] {
			cr := &Range{Parent: next.host, Start: anchor, End: anchor}
			if err := r.mount(child, cr); err != nil {
				return err
			}
			anchor = cr.End
		}
		return nil
	}

	if extra := len(oldKids) - len(newKids); extra > 0 {
		return r.shrinkChildren(next, oldKids[common:])
	}
	return nil
}

func (r *Renderer) shrinkChildren(next *VNode, stale []*VNode) error {
	switch r.shrink {
	case ShrinkRetain:
		r.logger.Warn("unsupported shrink: stale children left attached",
			"tag", next.Tag, "stale", len(stale))
		r.observer.ShrinkRetained(len(stale))
		return nil

	case ShrinkError:
		return errors.New("E004").
			WithTag(next.Tag).
			WithDetail(fmt.Sprintf("<%s> went from %d to %d children.",
				next.Tag, len(next.Children)+len(stale), len(next.Children)))
	}

	// Delete from the end so earlier siblings keep their offsets.
	for i := len(stale) - 1; i >= 0; i-- {
		r.unmountTree(stale[i])
		if err := stale[i].rng.Delete(r.doc); err != nil {
			return err
		}
	}
	r.observer.ChildrenRemoved(len(stale))
	return nil
}

// updateComponent keeps the mounted instance (and its state), hands it the
// new passthrough children and reconciles its output against a fresh render.
func (r *Renderer) updateComponent(prev, next *VNode) error {
	inst := prev.Comp
	next.Comp = inst

	b := inst.base()
	b.children = next.Children
	b.props = copyProps(next.Props)
	b.rng = next.rng

	out := r.renderOutput(b)
	if err := r.update(b.prev, out); err != nil {
		return err
	}
	b.prev = out
	return nil
}

// unmountTree moves every component in n's subtree to Unmounted.
func (r *Renderer) unmountTree(n *VNode) {
	if n == nil {
		return
	}
	switch n.Kind {
	case KindElement:
		for _, c := range n.Children {
			r.unmountTree(c)
		}
	case KindComponent:
		if n.Comp == nil {
			return
		}
		b := n.Comp.base()
		if b.phase == Unmounted {
			return
		}
		b.phase = Unmounted
		prev := b.prev
		b.prev, b.rng = nil, nil
		r.unmountTree(prev)
	}
}

// propsEqual compares two prop values for equality. Functions compare by
// code pointer, so a handler literal re-created on every render is still
// the same prop.
func propsEqual(a, b any) bool {
	switch av := a.(type) {
	case string:
		if bv, ok := b.(string); ok {
			return av == bv
		}
		return false
	case int:
		if bv, ok := b.(int); ok {
			return av == bv
		}
		return false
	case int64:
		if bv, ok := b.(int64); ok {
			return av == bv
		}
		return false
	case float64:
		if bv, ok := b.(float64); ok {
			return av == bv
		}
		return false
	case bool:
		if bv, ok := b.(bool); ok {
			return av == bv
		}
		return false
	case nil:
		return b == nil
	}

	ra, rb := reflect.ValueOf(a), reflect.ValueOf(b)
	if ra.Kind() == reflect.Func || rb.Kind() == reflect.Func {
		if ra.Kind() != rb.Kind() || ra.Type() != rb.Type() {
			return false
		}
		if ra.IsNil() || rb.IsNil() {
			return ra.IsNil() && rb.IsNil()
		}
		return ra.Pointer() == rb.Pointer()
	}
	return reflect.DeepEqual(a, b)
}
