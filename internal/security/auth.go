// Package security implements the admin gate: a pluggable credential
// check and the durable admin session flag.
//
// The shared-secret check is not a security boundary. The secret lives in
// the config file of a single-device deployment and gates UI affordances,
// nothing more.
package security

import (
	"crypto/subtle"

	"github.com/cityfix/cityfix-go/internal/errors"
)

// Authenticator checks an admin credential. Pluggable so the comparison
// is not baked into business logic; a real deployment would substitute a
// proper identity provider here.
type Authenticator interface {
	Authenticate(password string) bool
}

// SharedSecret is the default Authenticator: constant-time equality
// against a single configured secret.
type SharedSecret struct {
	secret string
}

// NewSharedSecret creates a shared-secret authenticator.
func NewSharedSecret(secret string) *SharedSecret {
	return &SharedSecret{secret: secret}
}

// Authenticate reports whether password matches the shared secret.
func (s *SharedSecret) Authenticate(password string) bool {
	return subtle.ConstantTimeCompare([]byte(s.secret), []byte(password)) == 1
}

// SessionStore persists the admin session flag. Implemented by the
// datastore backends.
type SessionStore interface {
	AdminSession() (bool, error)
	SetAdminSession(active bool) error
}

// Gate combines the credential check with the durable session flag.
type Gate struct {
	auth     Authenticator
	sessions SessionStore
}

// NewGate creates an admin gate.
func NewGate(auth Authenticator, sessions SessionStore) *Gate {
	return &Gate{auth: auth, sessions: sessions}
}

// Login validates the password and, on success, sets the durable admin
// session flag.
func (g *Gate) Login(password string) error {
	if !g.auth.Authenticate(password) {
		return errors.Newf("invalid password").
			Category(errors.CategoryValidation).
			Component("security").
			Build()
	}
	if err := g.sessions.SetAdminSession(true); err != nil {
		return errors.New(err).
			Category(errors.CategoryPersistence).
			Component("security").
			Build()
	}
	return nil
}

// Logout clears the durable admin session flag.
func (g *Gate) Logout() error {
	if err := g.sessions.SetAdminSession(false); err != nil {
		return errors.New(err).
			Category(errors.CategoryPersistence).
			Component("security").
			Build()
	}
	return nil
}

// Active reports whether an admin session is in effect. A persistence
// read failure reads as "not logged in".
func (g *Gate) Active() bool {
	active, err := g.sessions.AdminSession()
	if err != nil {
		return false
	}
	return active
}
