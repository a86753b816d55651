package utils

import (
	"strings"
	"testing"
)

func TestNewTransactionID(t *testing.T) {
	id := NewTransactionID("ticket")
	if !strings.HasPrefix(id, "TICKET-") {
		t.Fatalf("id = %q, want TICKET- prefix", id)
	}

	seen := make(map[string]bool)
	for i := 0; i < 1000; i++ {
		id := NewTransactionID("DEP")
		if seen[id] {
			t.Fatalf("duplicate id %q", id)
		}
		seen[id] = true
	}
}

func TestMaskAccountNumber(t *testing.T) {
	cases := []struct {
		in, want string
	}{
		{"123456789012", "********9012"},
		{"12345", "*2345"},
		{"1234", "****"},
		{"12", "**"},
		{"", ""},
	}
	for _, tc := range cases {
		if got := MaskAccountNumber(tc.in); got != tc.want {
			t.Errorf("MaskAccountNumber(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}
