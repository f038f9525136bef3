package errors

import (
	stderrors "errors"
	"fmt"
	"strings"
	"testing"
)

func TestNew(t *testing.T) {
	tests := []struct {
		name    string
		code    string
		wantMsg string
		wantCat Category
	}{
		{"unknown node type", "E001", "Unknown node type", CategoryBuilder},
		{"invalid handler", "E002", "Invalid event handler", CategoryMount},
		{"lifecycle", "E003", "Lifecycle violation", CategoryLifecycle},
		{"config", "E101", "Invalid configuration", CategoryConfig},
		{"unknown code", "E999", "Unknown error", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := New(tt.code)
			if err.Message != tt.wantMsg {
				t.Errorf("Message = %q, want %q", err.Message, tt.wantMsg)
			}
			if err.Category != tt.wantCat {
				t.Errorf("Category = %q, want %q", err.Category, tt.wantCat)
			}
			if err.Code != tt.code {
				t.Errorf("Code = %q, want %q", err.Code, tt.code)
			}
		})
	}
}

func TestNewReturnsFreshValues(t *testing.T) {
	a := New("E003").WithComponent("Counter")
	b := New("E003")
	if b.Component != "" {
		t.Errorf("second New shares state with first: Component = %q", b.Component)
	}
	if a.Component != "Counter" {
		t.Errorf("Component = %q, want Counter", a.Component)
	}
}

func TestErrorString(t *testing.T) {
	err := New("E003").WithComponent("Counter")
	want := "E003: Lifecycle violation (component Counter)"
	if got := err.Error(); got != want {
		t.Errorf("Error() = %q, want %q", got, want)
	}

	plain := &Error{Message: "test error"}
	if plain.Error() != "test error" {
		t.Errorf("Error() = %q, want %q", plain.Error(), "test error")
	}
}

func TestIsMatchesByCode(t *testing.T) {
	sentinel := New("E002")
	err := fmt.Errorf("mount button: %w", New("E002").WithTag("onClick"))

	if !stderrors.Is(err, sentinel) {
		t.Error("errors.Is should match on code through wrapping")
	}
	if stderrors.Is(err, New("E003")) {
		t.Error("errors.Is should not match a different code")
	}
	if stderrors.Is(&Error{Message: "x"}, &Error{Message: "x"}) {
		t.Error("errors without codes should not match by code")
	}
}

func TestWrapAndUnwrap(t *testing.T) {
	cause := stderrors.New("parent has 2 children")
	err := New("E005").Wrap(cause)

	if !stderrors.Is(err, cause) {
		t.Error("wrapped cause should be reachable through Unwrap")
	}
	if !strings.Contains(err.Error(), "parent has 2 children") {
		t.Errorf("Error() = %q, want it to include the cause", err.Error())
	}
}

func TestFromError(t *testing.T) {
	if FromError(nil, "E005") != nil {
		t.Error("FromError(nil) should return nil")
	}

	orig := New("E001")
	if FromError(orig, "E005") != orig {
		t.Error("FromError should return an existing *Error unchanged")
	}

	wrapped := FromError(stderrors.New("boom"), "E005")
	if wrapped.Code != "E005" || wrapped.Wrapped == nil {
		t.Errorf("FromError = %+v, want code E005 with wrapped cause", wrapped)
	}
}

func TestFormat(t *testing.T) {
	DisableColors()
	defer EnableColors()

	err := New("E003").
		WithComponent("Counter").
		WithSuggestion("Mount the component first")

	out := err.Format()
	for _, want := range []string{
		"ERROR E003: Lifecycle violation",
		"component Counter",
		"State was updated on a component that is not mounted.",
		"Hint: Mount the component first",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("Format() missing %q in:\n%s", want, out)
		}
	}
}

func TestFormatCompact(t *testing.T) {
	err := New("E001").WithComponent("Widget")
	want := "E001: Unknown node type [Widget]"
	if got := err.FormatCompact(); got != want {
		t.Errorf("FormatCompact() = %q, want %q", got, want)
	}
}

func TestFormatJSON(t *testing.T) {
	got := New("E004").FormatJSON()
	for _, want := range []string{`"code":"E004"`, `"category":"reconcile"`, `"message":"Unsupported shrink"`} {
		if !strings.Contains(got, want) {
			t.Errorf("FormatJSON() = %s, missing %s", got, want)
		}
	}
}

func TestWrapText(t *testing.T) {
	lines := wrapText("one two three four five six", 10)
	for _, l := range lines {
		if len(l) > 10 {
			t.Errorf("line %q exceeds width", l)
		}
	}
	if strings.Join(lines, " ") != "one two three four five six" {
		t.Errorf("wrapText lost words: %v", lines)
	}
	if wrapText("", 10) != nil {
		t.Error("wrapText(\"\") should be nil")
	}
}

func TestGetAllCodesSorted(t *testing.T) {
	codes := GetAllCodes()
	if len(codes) == 0 || codes[0] != "E001" {
		t.Fatalf("GetAllCodes() = %v, want sorted starting at E001", codes)
	}
	for _, code := range codes {
		if _, ok := GetTemplate(code); !ok {
			t.Errorf("GetTemplate(%q) missing", code)
		}
	}
}
