// Package randtoken produces unguessable URL-safe strings for verification
// links, sessions and download capabilities.
package randtoken

import (
	"crypto/rand"
	"encoding/base64"
	"fmt"
)

// Size is the number of random bytes behind every token (256 bits).
const Size = 32

// New returns Size random bytes encoded as unpadded base64url.
func New() (string, error) {
	b := make([]byte, Size)
	if _, err := rand.Read(b); err != nil {
		return "", fmt.Errorf("read random: %w", err)
	}
	return base64.RawURLEncoding.EncodeToString(b), nil
}
