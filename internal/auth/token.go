package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

const DefaultTokenTTL = 24 * time.Hour

var (
	ErrTokenMalformed = errors.New("malformed token")
	ErrBadSignature   = errors.New("invalid token signature")
	ErrTokenExpired   = errors.New("expired token")
)

// TokenService issues and verifies stateless HS256 bearer tokens bound to
// a username. The signing key is process-wide and injected at startup.
type TokenService struct {
	secret []byte
	ttl    time.Duration
	now    func() time.Time
}

func NewTokenService(secret string, ttl time.Duration) *TokenService {
	if ttl <= 0 {
		ttl = DefaultTokenTTL
	}

	return &TokenService{
		secret: []byte(secret),
		ttl:    ttl,
		now:    func() time.Time { return time.Now().UTC() },
	}
}

// WithClock overrides the time source. Tests only.
func (s *TokenService) WithClock(now func() time.Time) *TokenService {
	s.now = now
	return s
}

// Issue signs a token for username valid from now until now+ttl.
func (s *TokenService) Issue(username string) (string, error) {
	now := s.now()
	claims := jwt.MapClaims{
		"sub": username,
		"iat": now.Unix(),
		"exp": now.Add(s.ttl).Unix(),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	encoded, err := token.SignedString(s.secret)
	if err != nil {
		return "", fmt.Errorf("sign jwt: %w", err)
	}

	return encoded, nil
}

// ParseAndVerify decodes the compact representation, checks the signature
// against the process key and returns the embedded claims. Failures are
// reported as ErrTokenMalformed, ErrBadSignature or ErrTokenExpired; no
// library error detail escapes.
func (s *TokenService) ParseAndVerify(tokenStr string) (Claims, error) {
	claims := jwt.MapClaims{}
	token, err := jwt.ParseWithClaims(tokenStr, claims, func(token *jwt.Token) (any, error) {
		return s.secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithTimeFunc(s.now),
		jwt.WithExpirationRequired(),
	)
	if err != nil {
		switch {
		case errors.Is(err, jwt.ErrTokenExpired):
			return Claims{}, ErrTokenExpired
		case errors.Is(err, jwt.ErrTokenSignatureInvalid):
			return Claims{}, ErrBadSignature
		default:
			return Claims{}, ErrTokenMalformed
		}
	}
	if !token.Valid {
		return Claims{}, ErrBadSignature
	}

	subject, err := claims.GetSubject()
	if err != nil || subject == "" {
		return Claims{}, ErrTokenMalformed
	}
	issuedAt, err := claims.GetIssuedAt()
	if err != nil || issuedAt == nil {
		return Claims{}, ErrTokenMalformed
	}
	expiresAt, err := claims.GetExpirationTime()
	if err != nil || expiresAt == nil {
		return Claims{}, ErrTokenMalformed
	}

	return Claims{
		Subject:   subject,
		IssuedAt:  issuedAt.Time.UTC(),
		ExpiresAt: expiresAt.Time.UTC(),
	}, nil
}

// IsValid reports whether tokenStr verifies under the current key, names
// expectedUsername as its subject and has not expired.
func (s *TokenService) IsValid(tokenStr, expectedUsername string) bool {
	parsed, err := s.ParseAndVerify(tokenStr)
	if err != nil {
		return false
	}

	return parsed.Subject == expectedUsername && s.now().Before(parsed.ExpiresAt)
}
