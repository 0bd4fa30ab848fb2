package session

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// UserTypeEmployee is the only user type the portal serves; back-office
// users have their own surface.
const UserTypeEmployee = "Employee"

// CookieName is the cookie carrying the session token.
const CookieName = "billed_session"

// ErrNoSession is returned when a request carries no usable session.
var ErrNoSession = errors.New("no active session")

// User is the identity read from the session and passed explicitly into
// every controller constructor.
type User struct {
	Type  string `json:"type"`
	Email string `json:"email"`
}

type claims struct {
	UserType string `json:"userType"`
	jwt.RegisteredClaims
}

// Manager signs and parses session tokens.
type Manager struct {
	secret []byte
	ttl    time.Duration
}

// NewManager creates a session manager with the given signing secret and
// token lifetime.
func NewManager(secret string, ttl time.Duration) *Manager {
	return &Manager{secret: []byte(secret), ttl: ttl}
}

// Issue creates a signed session token for the user.
func (m *Manager) Issue(user User) (string, error) {
	now := time.Now()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims{
		UserType: user.Type,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   user.Email,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(m.ttl)),
		},
	})

	signed, err := token.SignedString(m.secret)
	if err != nil {
		return "", fmt.Errorf("failed to sign session token: %w", err)
	}
	return signed, nil
}

// Parse validates a session token and returns the user it identifies.
func (m *Manager) Parse(tokenString string) (User, error) {
	if tokenString == "" {
		return User{}, ErrNoSession
	}

	var c claims
	token, err := jwt.ParseWithClaims(tokenString, &c, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", t.Header["alg"])
		}
		return m.secret, nil
	})
	if err != nil {
		return User{}, fmt.Errorf("%w: %v", ErrNoSession, err)
	}
	if !token.Valid {
		return User{}, ErrNoSession
	}

	return User{Type: c.UserType, Email: c.Subject}, nil
}
