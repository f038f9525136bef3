package vdom

import (
	"fmt"

	"github.com/vango-dev/rangedom/internal/errors"
)

// CreateNode builds one VNode from a type descriptor, an attribute mapping
// and a variadic child list.
//
// typ is either a tag name (string) or a *ComponentType. Element attributes
// are recorded and applied to the host at mount; component attributes
// become props and the component is instantiated but not rendered.
//
// Children may be *VNode, string (wrapped as text), []*VNode, []string or
// []any nested to any depth. nil entries are skipped. Flattening is
// depth-first, left to right.
//
// Any other type descriptor or child fails with ErrUnknownNodeType.
func CreateNode(typ any, attrs Props, children ...any) (*VNode, error) {
	kids, err := flatten(nil, children)
	if err != nil {
		return nil, err
	}

	switch t := typ.(type) {
	case string:
		if t == "" {
			return nil, errors.New("E001").WithDetail("Element tag names must not be empty.")
		}
		return &VNode{
			Kind:     KindElement,
			Tag:      t,
			Props:    copyProps(attrs),
			Children: kids,
		}, nil

	case *ComponentType:
		if t == nil || t.factory == nil {
			return nil, errors.New("E001").WithDetail("Component types must be created with DefineComponent or Func.")
		}
		comp := t.factory()
		if comp == nil {
			return nil, errors.New("E001").
				WithComponent(t.name).
				WithDetail("The component constructor returned nil.")
		}
		b := comp.base()
		b.self = comp
		b.typ = t
		for name, v := range attrs {
			b.setAttribute(name, v)
		}
		for _, child := range kids {
			b.appendChild(child)
		}
		return &VNode{
			Kind:     KindComponent,
			Type:     t,
			Props:    copyProps(attrs),
			Children: kids,
			Comp:     comp,
		}, nil

	default:
		return nil, errors.New("E001").
			WithDetail(fmt.Sprintf("Got a type descriptor of type %T.", typ)).
			WithSuggestion("Pass a tag name or a *vdom.ComponentType")
	}
}

// MustCreateNode is like CreateNode but panics on error.
func MustCreateNode(typ any, attrs Props, children ...any) *VNode {
	n, err := CreateNode(typ, attrs, children...)
	if err != nil {
		panic(err)
	}
	return n
}

// H is shorthand for MustCreateNode.
func H(typ any, attrs Props, children ...any) *VNode {
	return MustCreateNode(typ, attrs, children...)
}

func flatten(out []*VNode, children []any) ([]*VNode, error) {
	for _, child := range children {
		switch v := child.(type) {
		case nil:
			continue
		case *VNode:
			if v != nil {
				out = append(out, v)
			}
		case string:
			out = append(out, Text(v))
		case []*VNode:
			for _, c := range v {
				if c != nil {
					out = append(out, c)
				}
			}
		case []string:
			for _, s := range v {
				out = append(out, Text(s))
			}
		case []any:
			var err error
			if out, err = flatten(out, v); err != nil {
				return nil, err
			}
		default:
			return nil, errors.New("E001").
				WithDetail(fmt.Sprintf("Children must be *VNode, string or slices of them; got %T.", child))
		}
	}
	return out, nil
}

func copyProps(p Props) Props {
	if len(p) == 0 {
		return nil
	}
	cp := make(Props, len(p))
	for k, v := range p {
		cp[k] = v
	}
	return cp
}
