package util

import "testing"

func TestHashKeyStable(t *testing.T) {
	a := HashKey("user-123")
	b := HashKey("user-123")
	if a != b {
		t.Fatalf("expected stable hash, got %s and %s", a, b)
	}
	if len(a) != 64 {
		t.Fatalf("expected 64 hex chars, got %d", len(a))
	}
	if a == HashKey("user-124") {
		t.Fatalf("expected different inputs to hash differently")
	}
}

func TestSanitizeFileName(t *testing.T) {
	cases := []struct {
		in      string
		want    string
		wantErr bool
	}{
		{"receipt.pdf", "receipt.pdf", false},
		{" water heater.jpg ", "water heater.jpg", false},
		{"a/b.png", "a_b.png", false},
		{"a\\b.png", "a_b.png", false},
		{"../../etc/passwd", "", true},
		{"   ", "", true},
	}
	for _, tc := range cases {
		got, err := SanitizeFileName(tc.in)
		if tc.wantErr {
			if err == nil {
				t.Fatalf("SanitizeFileName(%q): expected error", tc.in)
			}
			continue
		}
		if err != nil {
			t.Fatalf("SanitizeFileName(%q): %v", tc.in, err)
		}
		if got != tc.want {
			t.Fatalf("SanitizeFileName(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}
