package uid

import (
	"testing"
)

func TestNewIdUnique(t *testing.T) {
	seen := map[string]bool{}
	for i := 0; i < 100; i++ {
		id := NewId()
		if id == "" {
			t.Fatal("empty id")
		}
		if seen[id] {
			t.Fatalf("duplicate id %q", id)
		}
		seen[id] = true
	}
}

func TestRandStringRunes(t *testing.T) {
	s := RandStringRunes(12)
	if len(s) != 12 {
		t.Errorf("len = %d, want 12", len(s))
	}
}
