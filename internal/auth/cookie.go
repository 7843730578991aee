package auth

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v4"
	"github.com/google/uuid"
)

var ErrInvalidCookie = errors.New("invalid session cookie")

const cookieIssuer = "flightbooking"

// SessionClaims is the payload of the session cookie. It only names the
// server-side session; nothing else about the visitor travels in it.
type SessionClaims struct {
	SessionID string `json:"sid"`
	jwt.RegisteredClaims
}

// CookieSigner issues and checks HS256-signed session cookies.
type CookieSigner struct {
	secret []byte
	ttl    time.Duration
	now    func() time.Time
}

func NewCookieSigner(secret string, ttl time.Duration) *CookieSigner {
	return &CookieSigner{
		secret: []byte(secret),
		ttl:    ttl,
		now:    time.Now,
	}
}

// NewSessionID returns a fresh random session id.
func NewSessionID() string {
	return uuid.NewString()
}

func (s *CookieSigner) Sign(sessionID string) (string, error) {
	now := s.now()
	claims := SessionClaims{
		SessionID: sessionID,
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.ttl)),
			Issuer:    cookieIssuer,
		},
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secret)
}

// Verify returns the session id carried by a valid, unexpired cookie.
func (s *CookieSigner) Verify(value string) (string, error) {
	parser := jwt.Parser{SkipClaimsValidation: true}
	token, err := parser.ParseWithClaims(value, &SessionClaims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, ErrInvalidCookie
		}
		return s.secret, nil
	})
	if err != nil {
		return "", ErrInvalidCookie
	}

	claims, ok := token.Claims.(*SessionClaims)
	if !ok || !token.Valid || claims.SessionID == "" {
		return "", ErrInvalidCookie
	}
	if claims.ExpiresAt == nil || !s.now().Before(claims.ExpiresAt.Time) {
		return "", ErrInvalidCookie
	}
	return claims.SessionID, nil
}

// TTL is how long a signed cookie stays valid.
func (s *CookieSigner) TTL() time.Duration {
	return s.ttl
}
