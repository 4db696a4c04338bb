package naming

import (
	"strconv"
	"testing"
	"time"
)

func TestNewCompactID(t *testing.T) {
	t.Run("shape", func(t *testing.T) {
		id, err := NewCompactID()
		if err != nil {
			t.Fatalf("NewCompactID: %v", err)
		}
		if len(id) != 12 {
			t.Fatalf("length = %d, want 12 (%q)", len(id), id)
		}
		for _, r := range id {
			if !(r >= '0' && r <= '9' || r >= 'a' && r <= 'z') {
				t.Fatalf("non-base36 character %q in %q", r, id)
			}
		}
	})

	t.Run("prefix encodes current second", func(t *testing.T) {
		before := time.Now().UTC().Unix()
		id, err := NewCompactID()
		if err != nil {
			t.Fatalf("NewCompactID: %v", err)
		}
		after := time.Now().UTC().Unix()
		sec, err := strconv.ParseInt(id[:7], 36, 64)
		if err != nil {
			t.Fatalf("parse prefix %q: %v", id[:7], err)
		}
		if sec < before || sec > after {
			t.Fatalf("prefix second %d outside [%d, %d]", sec, before, after)
		}
	})

	t.Run("unique", func(t *testing.T) {
		seen := make(map[string]struct{}, 1000)
		for i := 0; i < 1000; i++ {
			id, err := NewCompactID()
			if err != nil {
				t.Fatalf("NewCompactID: %v", err)
			}
			if _, dup := seen[id]; dup {
				t.Fatalf("duplicate ID %q after %d draws", id, i)
			}
			seen[id] = struct{}{}
		}
	})
}
