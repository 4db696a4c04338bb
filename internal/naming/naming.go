package naming

// Package naming provides centralized generation of short deterministic hashes
// and provider-safe label keys used across cloud resource names and tags.
// Keeping the logic here allows future changes (length/algorithm) without
// touching call sites.

import (
	"crypto/sha1"
	"fmt"
	"strings"
)

// defaultLength defines the hex length of hashes (bits ~ length * 4).
const defaultLength = 6

// ShortHash returns the hex SHA1 prefix of length n (clamped to digest size).
func ShortHash(s string, n int) string {
	sum := sha1.Sum([]byte(s))
	h := fmt.Sprintf("%x", sum)
	if n > len(h) {
		n = len(h)
	}
	return h[:n]
}

// ResourceHash returns a short hash for a provider resource identifier,
// used to derive stable per-resource name suffixes.
func ResourceHash(id string) string {
	return ShortHash(id, defaultLength)
}

// GCPLabelKey converts an arbitrary tag key into a key acceptable as a GCP
// resource label: lowercase letters, digits, hyphens and underscores, starting
// with a letter. Invalid characters map to underscores, runs of underscores
// collapse, and an empty or digit-leading result gains a "tag" prefix so the
// mapping never produces an invalid key.
func GCPLabelKey(key string) string {
	var b strings.Builder
	b.Grow(len(key))
	for _, r := range strings.ToLower(key) {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9', r == '-':
			b.WriteRune(r)
		default:
			b.WriteByte('_')
		}
	}
	s := b.String()
	for strings.Contains(s, "__") {
		s = strings.ReplaceAll(s, "__", "_")
	}
	s = strings.Trim(s, "_")
	if s == "" {
		return "tag"
	}
	if c := s[0]; c < 'a' || c > 'z' {
		s = "tag_" + s
	}
	return s
}
