// Package identity produces stable, non-reversible tokens from raw user
// ids so rate-limiting state never holds a real identifier.
package identity

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
)

// tokenBytes is how much of the HMAC digest survives into the token.
// 16 bytes keeps tokens short while leaving collisions implausible at the
// tracked-user bound.
const tokenBytes = 16

// Hasher derives user tokens with a service-held secret.
type Hasher struct {
	secret []byte
}

// NewHasher creates a hasher. The secret must be stable across the
// process lifetime or cooldown state silently fragments.
func NewHasher(secret string) *Hasher {
	return &Hasher{secret: []byte(secret)}
}

// Hash returns the hex token for a raw user id.
func (h *Hasher) Hash(userID string) string {
	mac := hmac.New(sha256.New, h.secret)
	mac.Write([]byte(userID))
	return hex.EncodeToString(mac.Sum(nil)[:tokenBytes])
}
