package ui

import "testing"

func TestNormalizeAccentColor(t *testing.T) {
	tests := []struct {
		input string
		want  string
		ok    bool
	}{
		{"39", "39", true},
		{"255", "255", true},
		{"#A78BFA", "#A78BFA", true},
		{"256", "", false},
		{"#ZZZZZZ", "", false},
		{"", "", false},
		{"blue", "", false},
	}
	for _, tt := range tests {
		got, ok := normalizeAccentColor(tt.input)
		if got != tt.want || ok != tt.ok {
			t.Errorf("normalizeAccentColor(%q) = (%q, %v), want (%q, %v)",
				tt.input, got, ok, tt.want, tt.ok)
		}
	}
}

func TestConfigureTheme(t *testing.T) {
	origAccent := accentColor
	origCode := codeTheme
	t.Cleanup(func() {
		accentColor = origAccent
		codeTheme = origCode
	})

	ConfigureTheme("#D4A017", "monokai")
	if got, ok := AccentColor(); !ok || got != "#D4A017" {
		t.Errorf("AccentColor = (%q, %v)", got, ok)
	}
	if got, ok := CodeTheme(); !ok || got != "monokai" {
		t.Errorf("CodeTheme = (%q, %v)", got, ok)
	}

	ConfigureTheme("not-a-color", "")
	if got, _ := AccentColor(); got != "#D4A017" {
		t.Errorf("invalid accent should be ignored, got %q", got)
	}
	if got, _ := CodeTheme(); got != "monokai" {
		t.Errorf("empty code theme should keep the previous value, got %q", got)
	}
}
