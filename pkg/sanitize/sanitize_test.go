package sanitize

import "testing"

func TestText(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"Plain", "Buy milk", "Buy milk"},
		{"Unicode", "Café ✓", "Café ✓"},
		{"Tabs And Newlines", "a\tb\nc\r\nd", "a b c  d"},
		{"ANSI Escape", "\x1b[31mred\x1b[0m", "[31mred[0m"},
		{"NUL And BEL", "a\x00b\x07c", "abc"},
		{"Invalid UTF-8", "ok\xffok", "okok"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Text(tt.input); got != tt.want {
				t.Errorf("Text(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}
