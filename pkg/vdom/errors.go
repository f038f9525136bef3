package vdom

import (
	"github.com/vango-dev/rangedom/internal/errors"
)

// Sentinels for errors.Is. Errors returned by this package carry the same
// codes with extra context attached.
var (
	// ErrUnknownNodeType is returned by CreateNode for a type descriptor that
	// is neither a tag name nor a *ComponentType, and for unsupported children.
	ErrUnknownNodeType error = errors.New("E001")

	// ErrInvalidHandler is returned at mount when an on<Event> prop is not callable.
	ErrInvalidHandler error = errors.New("E002")

	// ErrLifecycle is returned when state is updated on an unmounted component.
	ErrLifecycle error = errors.New("E003")

	// ErrUnsupportedShrink is returned under ShrinkError when a same node loses children.
	ErrUnsupportedShrink error = errors.New("E004")

	// ErrHost wraps failures reported by the host document.
	ErrHost error = errors.New("E005")

	// ErrRangeBounds is returned when a range no longer fits its parent.
	ErrRangeBounds error = errors.New("E006")
)
