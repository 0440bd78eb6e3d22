package helpers

import (
	"crypto/rand"
	"crypto/sha256"
	"encoding/hex"

	"golang.org/x/crypto/bcrypt"
)

// Hasher is the hashing capability injected into the auth flows so tests
// can swap in a deterministic fake. Passwords use bcrypt; reset tokens are
// random secrets of which only the SHA-256 digest is ever stored.
type Hasher interface {
	Hash(plain string) (string, error)
	Verify(hash, plain string) bool
	ResetToken() (raw string, digest string, err error)
	HashToken(raw string) string
}

type BcryptHasher struct {
	Cost int
}

func NewBcryptHasher() *BcryptHasher {
	return &BcryptHasher{Cost: bcrypt.DefaultCost}
}

func (h *BcryptHasher) Hash(plain string) (string, error) {
	b, err := bcrypt.GenerateFromPassword([]byte(plain), h.Cost)
	if err != nil {
		return "", err
	}
	return string(b), nil
}

func (h *BcryptHasher) Verify(hash, plain string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(plain)) == nil
}

// ResetToken generates a 32-byte random token. The raw hex form goes out
// by email; only the digest is persisted.
func (h *BcryptHasher) ResetToken() (string, string, error) {
	b := make([]byte, 32)
	if _, err := rand.Read(b); err != nil {
		return "", "", err
	}
	raw := hex.EncodeToString(b)
	return raw, h.HashToken(raw), nil
}

func (h *BcryptHasher) HashToken(raw string) string {
	sum := sha256.Sum256([]byte(raw))
	return hex.EncodeToString(sum[:])
}
