package slugs

import (
	"strings"
	"testing"
)

func TestDescription(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"Build User Authentication System!", "build_user_authentication_system"},
		{"Fix Bug #123: Login Error", "fix_bug_123_login_error"},
		{"already_clean", "already_clean"},
		{"  spaces   everywhere  ", "spaces_everywhere"},
	}
	for _, tt := range tests {
		if got := Description(tt.input); got != tt.want {
			t.Errorf("Description(%q) = %q, want %q", tt.input, got, tt.want)
		}
	}

	t.Run("truncates long titles", func(t *testing.T) {
		got := Description(strings.Repeat("word ", 30))
		if len(got) > MaxDescriptionLen {
			t.Errorf("length %d exceeds %d", len(got), MaxDescriptionLen)
		}
		if strings.HasSuffix(got, "_") {
			t.Errorf("truncation left trailing underscore: %q", got)
		}
	})
}

func TestIsDescription(t *testing.T) {
	for _, valid := range []string{"fix_login", "a", "x1_y2"} {
		if !IsDescription(valid) {
			t.Errorf("IsDescription(%q) = false, want true", valid)
		}
	}
	for _, invalid := range []string{"", "Fix_Login", "has space", "_leading", "trailing_", "dash-ed"} {
		if IsDescription(invalid) {
			t.Errorf("IsDescription(%q) = true, want false", invalid)
		}
	}
}
