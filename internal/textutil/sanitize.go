package textutil

import (
	"crypto/sha1"
	"encoding/hex"
	"regexp"
	"strings"
)

// DefaultSlugLength bounds derived slugs.
const DefaultSlugLength = 80

// unsafeRunPattern matches runs of characters outside the portable filename set.
var unsafeRunPattern = regexp.MustCompile(`[^a-z0-9._-]+`)

// Slugify lowercases value, collapses every run of unsafe characters into a
// single hyphen, trims leading/trailing hyphens and truncates to maxLen bytes.
// A non-positive maxLen disables truncation.
func Slugify(value string, maxLen int) string {
	value = strings.ToLower(strings.TrimSpace(value))
	value = strings.Trim(unsafeRunPattern.ReplaceAllString(value, "-"), "-")
	if maxLen > 0 && len(value) > maxLen {
		value = value[:maxLen]
	}
	return value
}

// ShortHash returns the first n hex characters of the SHA-1 digest of value.
func ShortHash(value string, n int) string {
	sum := sha1.Sum([]byte(value))
	digest := hex.EncodeToString(sum[:])
	if n <= 0 || n >= len(digest) {
		return digest
	}
	return digest[:n]
}

// IsPlainFileName reports whether name is a single path element that cannot
// escape its parent directory.
func IsPlainFileName(name string) bool {
	if name == "" || name == "." || name == ".." {
		return false
	}
	return !strings.ContainsAny(name, `/\`) && strings.TrimSpace(name) == name
}
