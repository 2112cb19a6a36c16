package ports

import "time"

// Token purposes. Session tokens leave Purpose empty.
const PurposeReset = "reset"

// Claims is the identity carried by a bearer credential.
type Claims struct {
	UserID  string
	Role    string
	Purpose string
}

// PasswordHasher hashes and verifies passwords.
type PasswordHasher interface {
	Hash(plaintext string) (string, error)
	Verify(plaintext, hash string) bool
}

// TokenIssuer signs and verifies bearer credentials. Verify returns
// domain.ErrInvalidToken for every kind of failure.
type TokenIssuer interface {
	Issue(claims Claims, ttl time.Duration) (string, error)
	Verify(token string) (*Claims, error)
}
