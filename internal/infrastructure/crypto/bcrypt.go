package crypto

import (
	"fmt"

	"golang.org/x/crypto/bcrypt"
)

// BcryptVerifier hashes and checks passwords with bcrypt.
type BcryptVerifier struct {
	cost int
}

// NewBcryptVerifier returns a verifier with the given cost. Costs outside
// bcrypt's supported range fall back to the library default.
func NewBcryptVerifier(cost int) *BcryptVerifier {
	if cost < bcrypt.MinCost || cost > bcrypt.MaxCost {
		cost = bcrypt.DefaultCost
	}
	return &BcryptVerifier{cost: cost}
}

func (v *BcryptVerifier) Hash(plaintext string) (string, error) {
	h, err := bcrypt.GenerateFromPassword([]byte(plaintext), v.cost)
	if err != nil {
		return "", fmt.Errorf("hash password: %w", err)
	}
	return string(h), nil
}

func (v *BcryptVerifier) Verify(plaintext, hash string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(plaintext)) == nil
}
