package relay

import "testing"

func TestNewSessionIDIsNonEmpty(t *testing.T) {
	if id := NewSessionID(); id == "" {
		t.Fatal("empty session id")
	}
}

func TestNewSessionIDIsUnique(t *testing.T) {
	seen := make(map[string]bool)
	for i := 0; i < 10000; i++ {
		id := NewSessionID()
		if seen[id] {
			t.Fatalf("duplicate session id after %d generations: %s", i, id)
		}
		seen[id] = true
	}
}
