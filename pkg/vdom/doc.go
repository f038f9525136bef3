// Package vdom is rangedom's virtual tree and reconciliation engine.
//
// Application code describes the UI as a tree of VNodes built with
// CreateNode (or the H and element helpers). A Renderer materializes the
// tree into a host.Document and keeps it synchronized when component state
// changes, patching in place where it can and replacing wholesale where it
// must.
//
// # Core Types
//
// VNode is a tagged union of elements, text and components. Props holds
// attributes and event handlers; names of the form on<Event> register a
// listener instead of an attribute. Components embed Base, which owns
// props, passthrough children, state and the component's mounted Range.
//
// # Ranges
//
// Every mounted node owns a Range: a (parent, start, end) span of the
// parent's children. Reconciliation replaces a node by deleting its span
// and mounting the new node into the same Range value, so ancestors that
// share the Range stay valid.
//
// # Reconciliation
//
// Two nodes are the same when they have the same kind, the same tag or
// component type, identical props and, for text, identical content.
// Same nodes keep their host node and recurse into children by position;
// anything else is deleted and mounted fresh. There is no keyed matching
// and no incremental attribute patching.
//
//	r := vdom.NewRenderer(doc)
//	err := r.Render(vdom.H(Counter, nil), doc.Body())
package vdom
