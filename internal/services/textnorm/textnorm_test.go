package textnorm

import (
	"testing"
	"unicode"
)

// TestNormalize checks decomposition and placeholder substitution.
func TestNormalize(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"plain ascii", "Our warehouse picking is too slow", "Our warehouse picking is too slow"},
		{"keeps newlines and tabs", "a\n\tb\r\n", "a\n\tb\r\n"},
		{"accent keeps base letter", "café", "cafe?"},
		{"ligature expands", "ﬁle", "file"},
		{"fullwidth digits", "１２３", "123"},
		{"superscript", "m²", "m2"},
		{"currency symbol", "€100", "?100"},
		{"cjk", "日本", "??"},
		{"emoji", "ok 👍", "ok ?"},
		{"smart quotes", "“quoted”", "?quoted?"},
		{"empty", "", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Normalize(tt.input)
			if got != tt.want {
				t.Errorf("Normalize(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

// TestNormalize_Idempotent verifies normalize(normalize(s)) == normalize(s).
func TestNormalize_Idempotent(t *testing.T) {
	inputs := []string{
		"",
		"plain",
		"Ångström – naïve coöperation",
		"ﬀ ﬃ Ⅻ ½ ℃",
		"é́",
		"Ελληνικά кириллица العربية",
		"🚀🔥 mixed 日本語 text\nwith lines",
		string([]byte{0xff, 0xfe, 'a'}), // invalid UTF-8 decodes to U+FFFD
	}

	for _, in := range inputs {
		once := Normalize(in)
		twice := Normalize(once)
		if once != twice {
			t.Errorf("Normalize not idempotent for %q: %q then %q", in, once, twice)
		}
		for _, r := range once {
			if r > unicode.MaxASCII {
				t.Errorf("Normalize(%q) left non-ASCII rune %U", in, r)
			}
		}
	}
}
