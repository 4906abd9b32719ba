// Package token issues and validates the gateway's application bearer
// tokens. A token is minted after a successful backend login and carries the
// backend session token so the HTTP surface can replay it on later calls.
package token

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

var (
	InvalidTokenErr  = errors.New("invalid token")
	ExpiredTokenErr  = errors.New("token expired")
	MissingSecretErr = errors.New("token secret is required")
)

// Claims carried by an application bearer token.
type Claims struct {
	jwt.RegisteredClaims
	BackendSession string `json:"bks"`
	CompanyID      string `json:"cid"`
	Email          string `json:"email,omitempty"`
}

// Manager creates and validates application bearer tokens.
type Manager struct {
	secret  []byte
	ttl     time.Duration
	issuer  string
	nowTime func() time.Time // nowTime function (injectable for testing)
}

// ManagerOption defines a function type to modify a Manager instance.
type ManagerOption func(*Manager)

// WithNowTime sets the now time function (primarily for testing)
func WithNowTime(nowFunc func() time.Time) ManagerOption {
	return func(m *Manager) {
		m.nowTime = nowFunc
	}
}

// New creates a Manager signing with the given shared secret. The gateway is
// the sole issuer and verifier of its tokens, so symmetric signing suffices.
func New(secret string, ttl time.Duration, issuer string, options ...ManagerOption) (*Manager, error) {
	if secret == "" {
		return nil, MissingSecretErr
	}

	m := &Manager{
		secret:  []byte(secret),
		ttl:     ttl,
		issuer:  issuer,
		nowTime: time.Now,
	}
	for _, opt := range options {
		opt(m)
	}
	return m, nil
}

// TTL returns the configured token lifetime.
func (m *Manager) TTL() time.Duration {
	return m.ttl
}

// Generate mints a signed token embedding the backend session. It returns
// the token and its expiry.
func (m *Manager) Generate(backendSession, companyID, email string) (string, time.Time, error) {
	now := m.nowTime()
	expiresAt := now.Add(m.ttl)

	claims := Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.NewString(),
			Issuer:    m.issuer,
			Subject:   email,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(expiresAt),
		},
		BackendSession: backendSession,
		CompanyID:      companyID,
		Email:          email,
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(m.secret)
	if err != nil {
		return "", time.Time{}, err
	}
	return signed, expiresAt, nil
}

// Validate parses and verifies a raw token and returns its claims.
func (m *Manager) Validate(raw string) (*Claims, error) {
	claims := &Claims{}
	parsed, err := jwt.ParseWithClaims(raw, claims, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, InvalidTokenErr
		}
		return m.secret, nil
	}, jwt.WithTimeFunc(m.nowTime), jwt.WithIssuer(m.issuer))
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, ExpiredTokenErr
		}
		return nil, InvalidTokenErr
	}
	if !parsed.Valid {
		return nil, InvalidTokenErr
	}
	return claims, nil
}
