package xauth

import (
	"crypto/rand"
	"fmt"
)

// GenerateCookie returns n cryptographically random bytes suitable as the
// data of a new MITMagicCookie1 record.
func GenerateCookie(n int) ([]byte, error) {
	if n <= 0 || n > MaxFieldLen {
		return nil, fmt.Errorf("xauth: invalid cookie length %d", n)
	}
	b := make([]byte, n)
	if _, err := rand.Read(b); err != nil {
		return nil, fmt.Errorf("generate cookie: %w", err)
	}
	return b, nil
}
