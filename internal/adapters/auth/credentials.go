package auth

import (
	"crypto/rand"
	"crypto/subtle"
	"encoding/hex"

	"github.com/phenrril/backoffice/internal/domain"
)

// Credentials is the single configured administrator pair.
type Credentials struct {
	Username string
	Password string
}

// Check compares both values in constant time and never says which one
// mismatched.
func (c Credentials) Check(username, password string) error {
	userOK := secureCompare(username, c.Username)
	passOK := secureCompare(password, c.Password)
	if !userOK || !passOK || c.Username == "" {
		return domain.ErrInvalidCredentials
	}
	return nil
}

func secureCompare(a, b string) bool {
	return subtle.ConstantTimeCompare([]byte(a), []byte(b)) == 1
}

func newTokenID() string {
	b := make([]byte, 16)
	_, _ = rand.Read(b)
	return hex.EncodeToString(b)
}
