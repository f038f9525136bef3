package vdom

import (
	"strings"
	"unicode"
	"unicode/utf8"
)

// Event attribute convention.
//
// A prop is an event handler iff its name is "on" followed by at least one
// character. The event name is the remainder with only its first character
// lowercased:
//
//	onClick      -> click
//	onclick      -> click
//	onMouseDown  -> mouseDown
//	onX          -> x
//	on           -> (plain attribute)
//	Onclick      -> (plain attribute; the prefix is case-sensitive)
const eventPrefix = "on"

// EventName reports whether a prop name follows the on<Event> convention and
// returns the normalized event name.
func EventName(prop string) (string, bool) {
	if !strings.HasPrefix(prop, eventPrefix) || len(prop) == len(eventPrefix) {
		return "", false
	}
	rest := prop[len(eventPrefix):]
	r, size := utf8.DecodeRuneInString(rest)
	return string(unicode.ToLower(r)) + rest[size:], true
}

// On builds an event prop name from an event name: On("click") is "onClick".
func On(event string) string {
	if event == "" {
		return eventPrefix
	}
	r, size := utf8.DecodeRuneInString(event)
	return eventPrefix + string(unicode.ToUpper(r)) + event[size:]
}

func event(name string, handler any) Attr {
	return Attr{Key: On(name), Value: handler}
}

// Mouse events

// OnClick handles click events.
func OnClick(handler any) Attr { return event("click", handler) }

// OnDblClick handles double-click events.
func OnDblClick(handler any) Attr { return event("dblclick", handler) }

// OnMouseDown handles mousedown events.
func OnMouseDown(handler any) Attr { return event("mousedown", handler) }

// OnMouseUp handles mouseup events.
func OnMouseUp(handler any) Attr { return event("mouseup", handler) }

// Keyboard events

// OnKeyDown handles keydown events.
func OnKeyDown(handler any) Attr { return event("keydown", handler) }

// OnKeyUp handles keyup events.
func OnKeyUp(handler any) Attr { return event("keyup", handler) }

// Form events

// OnInput handles input events.
func OnInput(handler any) Attr { return event("input", handler) }

// OnChange handles change events.
func OnChange(handler any) Attr { return event("change", handler) }

// OnSubmit handles form submit events.
func OnSubmit(handler any) Attr { return event("submit", handler) }

// OnFocus handles focus events.
func OnFocus(handler any) Attr { return event("focus", handler) }

// OnBlur handles blur events.
func OnBlur(handler any) Attr { return event("blur", handler) }
