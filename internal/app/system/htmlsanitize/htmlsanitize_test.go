package htmlsanitize_test

import (
	"testing"

	"github.com/dalemusser/volunteerhub/internal/app/system/htmlsanitize"
)

func TestPlainText(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"empty", "", ""},
		{"plain", "Need help moving boxes", "Need help moving boxes"},
		{"trims", "  hello  ", "hello"},
		{"strips tags keeps text", "<b>Bold</b> and <em>italic</em>", "Bold and italic"},
		{"removes script", "Hi<script>alert('x')</script>", "Hi"},
		{"removes attributes", `<a href="javascript:alert(1)">click</a>`, "click"},
		{"keeps ampersand", "Fish & chips", "Fish & chips"},
		{"decodes entities", "Fish &amp; chips", "Fish & chips"},
		{"only markup", "<img src=x onerror=alert(1)>", ""},
		{"cyrillic", "Київська область", "Київська область"},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if got := htmlsanitize.PlainText(tc.in); got != tc.want {
				t.Errorf("PlainText(%q): got %q, want %q", tc.in, got, tc.want)
			}
		})
	}
}

func TestPlainTextPtr(t *testing.T) {
	if htmlsanitize.PlainTextPtr(nil) != nil {
		t.Error("expected nil for nil input")
	}
	in := " <i>x</i> "
	got := htmlsanitize.PlainTextPtr(&in)
	if got == nil || *got != "x" {
		t.Errorf("PlainTextPtr: got %v, want \"x\"", got)
	}
}
