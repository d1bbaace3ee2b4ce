package cache

import (
	"crypto/sha256"
	"encoding/hex"
)

// hashKey maps a cache key (a query string or a URL) to a 16-character
// filesystem-safe file stem.
func hashKey(key string) string {
	sum := sha256.Sum256([]byte(key))
	return hex.EncodeToString(sum[:8])
}
