package errors

import (
	"errors"
	"strings"
	"testing"
)

func TestNewRegisteredCode(t *testing.T) {
	err := New("R001")

	if err.Code != "R001" {
		t.Errorf("expected code R001, got %q", err.Code)
	}
	if err.Category != CategoryRuntime {
		t.Errorf("expected runtime category, got %q", err.Category)
	}
	if err.Message == "" {
		t.Error("expected registered message, got empty")
	}
	if err.DocURL == "" {
		t.Error("expected registered doc URL, got empty")
	}
}

func TestNewUnknownCode(t *testing.T) {
	err := New("R999")

	if err.Code != "R999" {
		t.Errorf("expected code R999, got %q", err.Code)
	}
	if err.Message != "Unknown diagnostic" {
		t.Errorf("expected unknown-diagnostic message, got %q", err.Message)
	}
}

func TestErrorInterface(t *testing.T) {
	err := New("R003")

	msg := err.Error()
	if !strings.HasPrefix(msg, "R003: ") {
		t.Errorf("expected Error() to start with code, got %q", msg)
	}

	uncoded := Newf(CategoryCLI, "bad flag %q", "-x")
	if uncoded.Error() != `bad flag "-x"` {
		t.Errorf("unexpected uncoded Error(): %q", uncoded.Error())
	}
}

func TestBuilderMethods(t *testing.T) {
	err := New("R001").
		WithDetailf("set %q on readonly view", "count").
		WithHint("use the mutable view")

	if err.Detail != `set "count" on readonly view` {
		t.Errorf("unexpected detail: %q", err.Detail)
	}
	if err.Hint != "use the mutable view" {
		t.Errorf("unexpected hint: %q", err.Hint)
	}
}

func TestWrapAndUnwrap(t *testing.T) {
	cause := errors.New("underlying")
	err := New("C002").Wrap(cause)

	if !errors.Is(err, cause) {
		t.Error("expected errors.Is to find wrapped cause")
	}

	var re *ReagoError
	if !errors.As(err, &re) {
		t.Error("expected errors.As to find ReagoError")
	}
}

func TestFromError(t *testing.T) {
	if FromError(nil, "R001") != nil {
		t.Error("expected nil for nil input")
	}

	original := New("R002")
	if FromError(original, "R001") != original {
		t.Error("expected existing ReagoError to pass through unchanged")
	}

	wrapped := FromError(errors.New("boom"), "C001")
	if wrapped.Code != "C001" {
		t.Errorf("expected code C001, got %q", wrapped.Code)
	}
	if wrapped.Wrapped == nil {
		t.Error("expected wrapped cause to be retained")
	}
}

func TestFormat(t *testing.T) {
	DisableColors()
	defer EnableColors()

	out := New("R001").WithDetail("set on readonly view").Format()

	for _, want := range []string{"WARN", "R001", "set on readonly view", "Hint:", "Learn more:"} {
		if !strings.Contains(out, want) {
			t.Errorf("formatted output missing %q:\n%s", want, out)
		}
	}
}

func TestFormatCompact(t *testing.T) {
	out := New("R004").WithDetail("no ambient scope").FormatCompact()

	if !strings.HasPrefix(out, "R004: ") {
		t.Errorf("expected compact format to lead with code, got %q", out)
	}
	if !strings.Contains(out, "no ambient scope") {
		t.Errorf("expected detail in compact format, got %q", out)
	}
	if strings.Contains(out, "\n") {
		t.Errorf("compact format must be single-line, got %q", out)
	}
}

func TestFormatJSON(t *testing.T) {
	out := New("R005").WithDetail("type int").FormatJSON()

	for _, want := range []string{`"code":"R005"`, `"category":"runtime"`, `"detail":"type int"`} {
		if !strings.Contains(out, want) {
			t.Errorf("JSON output missing %s: %s", want, out)
		}
	}
}

func TestRegistryLookup(t *testing.T) {
	if _, ok := Lookup("R001"); !ok {
		t.Error("expected R001 to be registered")
	}
	if _, ok := Lookup("Z000"); ok {
		t.Error("expected Z000 to be unregistered")
	}

	codes := Codes()
	if len(codes) == 0 {
		t.Error("expected registered codes")
	}
}

func TestWrapText(t *testing.T) {
	lines := wrapText("one two three four five six seven eight nine ten", 20)
	if len(lines) < 2 {
		t.Errorf("expected wrapping into multiple lines, got %d", len(lines))
	}
	for _, line := range lines {
		if len(line) > 20 {
			t.Errorf("line exceeds width: %q", line)
		}
	}
}
