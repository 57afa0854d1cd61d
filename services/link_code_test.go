package services

import (
	"strings"
	"testing"
)

func TestGenerateLinkCode(t *testing.T) {
	seen := make(map[string]bool)
	for i := 0; i < 50; i++ {
		c, err := GenerateLinkCode()
		if err != nil {
			t.Fatalf("GenerateLinkCode: %v", err)
		}
		if len(c) != linkCodeLen {
			t.Fatalf("len = %d, want %d", len(c), linkCodeLen)
		}
		for _, r := range c {
			if !strings.ContainsRune(linkCodeAlphabet, r) {
				t.Errorf("code %q contains %q", c, r)
			}
		}
		seen[c] = true
	}
	if len(seen) < 45 {
		t.Errorf("only %d distinct codes out of 50", len(seen))
	}
}

func TestLinkCodeLookupKey(t *testing.T) {
	k := linkCodeLookupKey("ABCD2345")
	if len(k) != 64 {
		t.Fatalf("lookup key length = %d, want 64 hex chars", len(k))
	}
	if got := linkCodeLookupKey("  abcd2345 "); got != k {
		t.Error("lookup key must ignore case and surrounding space")
	}
	if linkCodeLookupKey("ABCD2346") == k {
		t.Error("different codes must not share a lookup key")
	}
}
