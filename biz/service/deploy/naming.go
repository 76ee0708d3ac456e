package deploy

import (
	"crypto/sha1"
	"encoding/hex"
	"strings"
)

// tokenLength is a size/collision tradeoff, not a security boundary: the
// salt keeps object locations unguessable, while read access is gated by
// URL signing.
const tokenLength = 8

// ResolvePrefix derives the deterministic storage prefix for a logical name.
// The same name and salt always resolve to the same prefix, which makes
// re-deploys idempotent and lets teardown target the exact object set.
func ResolvePrefix(logicalName, salt string) string {
	name := sanitizeName(logicalName)
	sum := sha1.Sum([]byte(logicalName + salt))
	token := hex.EncodeToString(sum[:])[:tokenLength]
	return name + "-" + token
}

// sanitizeName makes a logical name safe to embed in an object key. The
// hash token disambiguates names whose sanitized forms collide.
func sanitizeName(name string) string {
	trimmed := strings.TrimSpace(name)
	replacer := strings.NewReplacer(" ", "-", "/", "-", "\\", "-", "?", "-", "#", "-")
	return replacer.Replace(trimmed)
}
