package security

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/shopline/shop-api/internal/core/domain"
	"github.com/shopline/shop-api/internal/core/ports"
)

var ErrMissingSecret = errors.New("security: token secret is not configured")

// JWTIssuer signs HS256 tokens with a process-wide secret.
type JWTIssuer struct {
	secret []byte
	now    func() time.Time
}

func NewJWTIssuer(secret string) (*JWTIssuer, error) {
	if secret == "" {
		return nil, ErrMissingSecret
	}
	return &JWTIssuer{secret: []byte(secret), now: time.Now}, nil
}

type tokenClaims struct {
	UserID  string `json:"_id"`
	Role    string `json:"role,omitempty"`
	Purpose string `json:"purpose,omitempty"`
	jwt.RegisteredClaims
}

// Issue signs claims. A positive ttl embeds an expiry; zero issues a
// non-expiring token.
func (j *JWTIssuer) Issue(claims ports.Claims, ttl time.Duration) (string, error) {
	now := j.now()
	tc := tokenClaims{
		UserID:  claims.UserID,
		Role:    claims.Role,
		Purpose: claims.Purpose,
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt: jwt.NewNumericDate(now),
		},
	}
	if ttl > 0 {
		tc.ExpiresAt = jwt.NewNumericDate(now.Add(ttl))
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, tc).SignedString(j.secret)
}

// Verify checks signature, algorithm and expiry.
func (j *JWTIssuer) Verify(token string) (*ports.Claims, error) {
	var tc tokenClaims
	parsed, err := jwt.ParseWithClaims(token, &tc, func(t *jwt.Token) (interface{}, error) {
		return j.secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithTimeFunc(j.now),
	)
	if err != nil || !parsed.Valid || tc.UserID == "" {
		return nil, domain.ErrInvalidToken
	}
	return &ports.Claims{UserID: tc.UserID, Role: tc.Role, Purpose: tc.Purpose}, nil
}
