package vdom

import (
	"fmt"

	"github.com/vango-dev/rangedom/internal/errors"
	"github.com/vango-dev/rangedom/pkg/host"
)

// Range addresses the children [Start, End) of a host parent.
//
// A Range is a mutable handle: the node that owns it, the component whose
// output it is, and the reconciler all hold the same *Range and update it in
// place. Every mounted element or text node fills exactly one slot, so after
// Insert a Range always spans one child.
type Range struct {
	Parent host.Node
	Start  int
	End    int
}

// ChildRangeAt returns a zero-width range at the end of parent's current
// children, for mounting a child into a parent under construction.
func ChildRangeAt(doc host.Document, parent host.Node) *Range {
	n := doc.ChildCount(parent)
	return &Range{Parent: parent, Start: n, End: n}
}

// Collapsed reports whether the range is zero-width.
func (r *Range) Collapsed() bool {
	return r.Start == r.End
}

// Len returns the number of host children the range spans.
func (r *Range) Len() int {
	return r.End - r.Start
}

// Delete removes the host content spanned by the range and collapses it
// onto its start.
func (r *Range) Delete(doc host.Document) error {
	if err := r.check(doc); err != nil {
		return err
	}
	if r.Collapsed() {
		return nil
	}
	if err := doc.DeleteRange(r.Parent, r.Start, r.End); err != nil {
		return errors.New("E005").Wrap(err)
	}
	r.End = r.Start
	return nil
}

// Insert replaces the range's content with n and tightens the range around
// it, so a later Delete removes exactly n.
func (r *Range) Insert(doc host.Document, n host.Node) error {
	if err := r.Delete(doc); err != nil {
		return err
	}
	if err := doc.InsertBefore(r.Parent, n, r.Start); err != nil {
		return errors.New("E005").Wrap(err)
	}
	r.End = r.Start + 1
	return nil
}

// After returns a zero-width range immediately after r.
func (r *Range) After() *Range {
	return &Range{Parent: r.Parent, Start: r.End, End: r.End}
}

func (r *Range) check(doc host.Document) error {
	if r.Parent == nil {
		return errors.New("E006").WithDetail("The range has no parent.")
	}
	if r.Start < 0 || r.End < r.Start || r.End > doc.ChildCount(r.Parent) {
		return errors.New("E006").
			WithDetail(fmt.Sprintf("Range [%d,%d) does not fit a parent with %d children.",
				r.Start, r.End, doc.ChildCount(r.Parent)))
	}
	return nil
}

// String implements fmt.Stringer.
func (r *Range) String() string {
	return fmt.Sprintf("[%d,%d)", r.Start, r.End)
}
