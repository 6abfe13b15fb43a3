package export

import "testing"

func TestSanitizeName(t *testing.T) {
	tests := []struct {
		name   string
		in     string
		maxLen int
		want   string
	}{
		{name: "plain", in: "My Track", maxLen: 64, want: "My Track"},
		{name: "part suffix kept", in: "Chorus (Part 1/3)", maxLen: 64, want: "Chorus (Part 1/3)"},
		{name: "control chars stripped", in: "a\x00b\nc", maxLen: 64, want: "abc"},
		{name: "disallowed replaced", in: "mix: v2 <final>", maxLen: 64, want: "mix_ v2 _final_"},
		{name: "truncated", in: "abcdefgh", maxLen: 4, want: "abcd"},
		{name: "trimmed", in: "  spaced  ", maxLen: 64, want: "spaced"},
		{name: "no limit", in: "abcdefgh", maxLen: 0, want: "abcdefgh"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if got := SanitizeName(tc.in, tc.maxLen); got != tc.want {
				t.Fatalf("SanitizeName(%q, %d) = %q, want %q", tc.in, tc.maxLen, got, tc.want)
			}
		})
	}
}
