package language

import (
	"testing"
)

func TestToISO2(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		// 2-letter codes pass through
		{"en", "en"},
		{"EN", "en"},
		{"es", "es"},
		// 3-letter codes convert
		{"eng", "en"},
		{"fra", "fr"},
		{"fre", "fr"},
		{"deu", "de"},
		{"jpn", "ja"},
		// Word forms
		{"english", "en"},
		{"German", "de"},
		// BCP-47 tags fall back to x/text parsing
		{"en-US", "en"},
		{"pt-BR", "pt"},
		{"zh-Hans", "zh"},
		// Unknown
		{"", ""},
		{"12345", ""},
	}
	for _, tc := range tests {
		if got := ToISO2(tc.input); got != tc.expected {
			t.Errorf("ToISO2(%q) = %q, want %q", tc.input, got, tc.expected)
		}
	}
}

func TestDisplayName(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{"en", "English"},
		{"en-US", "English"},
		{"deu", "German"},
		{"", "Unknown"},
		{"qq", "QQ"},
	}
	for _, tc := range tests {
		if got := DisplayName(tc.input); got != tc.expected {
			t.Errorf("DisplayName(%q) = %q, want %q", tc.input, got, tc.expected)
		}
	}
}
