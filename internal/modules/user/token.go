package user

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// TokenTTL is the fixed lifetime of issued bearer tokens. Tokens are stateless:
// logout does not revoke them, and role changes only take effect once the user
// re-authenticates.
const TokenTTL = 24 * time.Hour

// TokenClaims are the verified contents of a bearer token. The role claim is
// trusted at face value; verification never touches the credential store.
type TokenClaims struct {
	UserID   string
	Role     Role
	IssuedAt time.Time
}

type jwtClaims struct {
	Role Role `json:"role"`
	jwt.RegisteredClaims
}

// TokenIssuer issues and verifies signed, time-limited bearer tokens that
// embed a user's identity and role.
type TokenIssuer struct {
	secret []byte
}

// NewTokenIssuer creates a token issuer. An empty secret is a startup-class
// misconfiguration, not a per-request condition, so it is rejected here.
func NewTokenIssuer(secret string) (*TokenIssuer, error) {
	if secret == "" {
		return nil, errors.New("token issuer: signing secret is not configured")
	}
	return &TokenIssuer{secret: []byte(secret)}, nil
}

// Issue produces a signed HS256 token with a fixed 24-hour expiry embedding
// the user id and role.
func (t *TokenIssuer) Issue(userID string, role Role) (string, error) {
	now := time.Now()
	claims := jwtClaims{
		Role: role,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   userID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(TokenTTL)),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(t.secret)
	if err != nil {
		return "", ErrInternal.WithCause(err)
	}
	return signed, nil
}

// Verify parses and validates a token string. Expired tokens surface as
// ErrTokenExpired; anything else wrong with the signature or structure is
// ErrTokenMalformed.
func (t *TokenIssuer) Verify(tokenString string) (*TokenClaims, error) {
	claims := &jwtClaims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("unexpected signing method")
		}
		return t.secret, nil
	})
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, ErrTokenExpired.WithCause(err)
		}
		return nil, ErrTokenMalformed.WithCause(err)
	}
	if !token.Valid || claims.Subject == "" {
		return nil, ErrTokenMalformed
	}

	out := &TokenClaims{
		UserID: claims.Subject,
		Role:   claims.Role,
	}
	if claims.IssuedAt != nil {
		out.IssuedAt = claims.IssuedAt.Time
	}
	return out, nil
}
