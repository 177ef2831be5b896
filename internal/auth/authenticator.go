// Package auth implements registration, login and server-side sessions.
package auth

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/erazemk/zaloga/internal/model"
)

// DefaultSessionTTL is the default session lifetime.
const DefaultSessionTTL = 24 * time.Hour

// UserStore persists user accounts.
type UserStore interface {
	CreateUser(ctx context.Context, username, passwordHash string) (*model.User, error)
	GetUserByUsername(ctx context.Context, username string) (*model.User, error)
}

// SessionStore persists login sessions.
type SessionStore interface {
	CreateSession(ctx context.Context, sess *model.Session) error
	GetSession(ctx context.Context, id string) (*model.Session, error)
	DeleteSession(ctx context.Context, id string) error
	DeleteExpiredSessions(ctx context.Context, now time.Time) error
}

// Options configures an Authenticator.
type Options struct {
	// Secret signs the session cookie tokens.
	Secret string
	// SessionTTL defaults to DefaultSessionTTL.
	SessionTTL time.Duration
	// BcryptCost defaults to bcrypt.DefaultCost.
	BcryptCost int
}

// Authenticator owns user identities and session validity.
type Authenticator struct {
	users    UserStore
	sessions SessionStore
	secret   string
	ttl      time.Duration
	cost     int

	// dummyHash is compared against when the username is unknown so that
	// both login failures take the same time.
	dummyHash []byte

	now func() time.Time
}

// NewAuthenticator creates an Authenticator.
func NewAuthenticator(users UserStore, sessions SessionStore, opts Options) (*Authenticator, error) {
	if opts.Secret == "" {
		return nil, errors.New("session secret required")
	}
	if opts.SessionTTL <= 0 {
		opts.SessionTTL = DefaultSessionTTL
	}
	if opts.BcryptCost == 0 {
		opts.BcryptCost = bcrypt.DefaultCost
	}

	dummy, err := bcrypt.GenerateFromPassword([]byte("not-a-real-password"), opts.BcryptCost)
	if err != nil {
		return nil, fmt.Errorf("hashing dummy password: %w", err)
	}

	return &Authenticator{
		users:     users,
		sessions:  sessions,
		secret:    opts.Secret,
		ttl:       opts.SessionTTL,
		cost:      opts.BcryptCost,
		dummyHash: dummy,
		now:       time.Now,
	}, nil
}

// SessionTTL returns the configured session lifetime.
func (a *Authenticator) SessionTTL() time.Duration {
	return a.ttl
}

// Register creates a new user with a bcrypt-hashed password.
func (a *Authenticator) Register(ctx context.Context, username, password string) (*model.User, error) {
	if username == "" || password == "" {
		return nil, model.NewValidationError("username and password required")
	}

	existing, err := a.users.GetUserByUsername(ctx, username)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, fmt.Errorf("registering %q: %w", username, model.ErrConflict)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), a.cost)
	if errors.Is(err, bcrypt.ErrPasswordTooLong) {
		return nil, model.NewValidationError("password must be at most 72 bytes")
	}
	if err != nil {
		return nil, fmt.Errorf("hashing password: %w", err)
	}

	// A concurrent registration can still win the race; the unique
	// constraint turns that into ErrConflict.
	return a.users.CreateUser(ctx, username, string(hash))
}

// Login verifies credentials and opens a new session. It returns the session
// and the signed token for the cookie. Unknown users and wrong passwords both
// yield model.ErrInvalidCredentials.
func (a *Authenticator) Login(ctx context.Context, username, password string) (*model.Session, string, error) {
	user, err := a.users.GetUserByUsername(ctx, username)
	if err != nil {
		return nil, "", err
	}

	hash := a.dummyHash
	if user != nil {
		hash = []byte(user.PasswordHash)
	}
	if err := bcrypt.CompareHashAndPassword(hash, []byte(password)); err != nil || user == nil {
		return nil, "", model.ErrInvalidCredentials
	}

	now := a.now().UTC().Truncate(time.Second)

	// Opportunistically clean up expired sessions.
	_ = a.sessions.DeleteExpiredSessions(ctx, now)

	sess := &model.Session{
		ID:        uuid.NewString(),
		UserID:    user.ID,
		CreatedAt: now,
		ExpiresAt: now.Add(a.ttl),
	}
	if err := a.sessions.CreateSession(ctx, sess); err != nil {
		return nil, "", err
	}

	token, err := GenerateToken(a.secret, sess)
	if err != nil {
		_ = a.sessions.DeleteSession(ctx, sess.ID)
		return nil, "", err
	}

	return sess, token, nil
}

// Logout ends the given session.
func (a *Authenticator) Logout(ctx context.Context, sess *model.Session) error {
	if sess == nil {
		return model.ErrUnauthorized
	}
	return a.sessions.DeleteSession(ctx, sess.ID)
}

// RequireSession resolves a cookie token into a live session. Any token that
// does not map to an unexpired server-side session yields
// model.ErrUnauthorized; storage failures are returned as-is.
func (a *Authenticator) RequireSession(ctx context.Context, token string) (*model.Session, error) {
	if token == "" {
		return nil, model.ErrUnauthorized
	}

	claims, err := ValidateToken(a.secret, token)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", model.ErrUnauthorized, err)
	}
	userID, err := claims.UserID()
	if err != nil {
		return nil, fmt.Errorf("%w: bad subject", model.ErrUnauthorized)
	}

	sess, err := a.sessions.GetSession(ctx, claims.ID)
	if err != nil {
		return nil, err
	}
	if sess == nil || sess.UserID != userID {
		return nil, model.ErrUnauthorized
	}
	if sess.Expired(a.now()) {
		_ = a.sessions.DeleteSession(ctx, sess.ID)
		return nil, model.ErrUnauthorized
	}

	return sess, nil
}
