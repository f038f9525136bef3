package vdom

import "fmt"

// Text creates a text node.
func Text(content string) *VNode {
	return &VNode{
		Kind: KindText,
		Text: content,
	}
}

// Textf creates a formatted text node.
func Textf(format string, args ...any) *VNode {
	return Text(fmt.Sprintf(format, args...))
}

func Div(attrs Props, children ...any) *VNode    { return H("div", attrs, children...) }
func Span(attrs Props, children ...any) *VNode   { return H("span", attrs, children...) }
func P(attrs Props, children ...any) *VNode      { return H("p", attrs, children...) }
func H1(attrs Props, children ...any) *VNode     { return H("h1", attrs, children...) }
func H2(attrs Props, children ...any) *VNode     { return H("h2", attrs, children...) }
func Ul(attrs Props, children ...any) *VNode     { return H("ul", attrs, children...) }
func Li(attrs Props, children ...any) *VNode     { return H("li", attrs, children...) }
func A(attrs Props, children ...any) *VNode      { return H("a", attrs, children...) }
func Button(attrs Props, children ...any) *VNode { return H("button", attrs, children...) }
func Input(attrs Props) *VNode                   { return H("input", attrs) }
func Label(attrs Props, children ...any) *VNode  { return H("label", attrs, children...) }
func Form(attrs Props, children ...any) *VNode   { return H("form", attrs, children...) }

// If returns the node if condition is true, nil otherwise.
func If(condition bool, node *VNode) *VNode {
	if condition {
		return node
	}
	return nil
}

// When is like If but only calls fn when condition is true.
func When(condition bool, fn func() *VNode) *VNode {
	if condition {
		return fn()
	}
	return nil
}

// Each maps a slice to VNodes, dropping nil results.
func Each[T any](items []T, fn func(item T, index int) *VNode) []*VNode {
	result := make([]*VNode, 0, len(items))
	for i, item := range items {
		if node := fn(item, i); node != nil {
			result = append(result, node)
		}
	}
	return result
}
