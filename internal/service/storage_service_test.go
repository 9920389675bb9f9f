package service

import "testing"

func TestNormalizeObjectKey(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"abc123.pdf", "documents/abc123.pdf"},
		{"documents/abc123.pdf", "documents/abc123.pdf"},
		{"nested/abc123.pdf", "documents/nested/abc123.pdf"},
	}
	for _, tt := range tests {
		if got := normalizeObjectKey(tt.in); got != tt.want {
			t.Errorf("normalizeObjectKey(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
