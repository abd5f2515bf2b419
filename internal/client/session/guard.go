// Package session tracks whether the client holds a usable credential and
// forces the transition to the signed-out state when it does not.
package session

import (
	"errors"
	"fmt"
	"sync"

	"go.uber.org/zap"

	"github.com/palmlink/palmlink/internal/client/api"
	"github.com/palmlink/palmlink/internal/client/credentials"
)

// ErrSignedOut is returned by Token once the guard has tripped. Callers must
// abandon the current operation; a new credential arrives only through SignIn.
var ErrSignedOut = errors.New("session: signed out")

// Guard is a two-state machine: authenticated or signed out. It trips to
// signed out when no credential exists at load time or when a call comes back
// with an authentication failure. Tripping clears the credential and fires
// the sign-out hook exactly once per transition. The reverse transition is
// external: a successful login or registration calls SignIn.
type Guard struct {
	store credentials.Store
	log   *zap.Logger

	mu          sync.Mutex
	signedOut   bool
	onSignedOut func()
}

// Option customizes a Guard.
type Option func(*Guard)

// WithLogger sets the structured logger.
func WithLogger(log *zap.Logger) Option {
	return func(g *Guard) { g.log = log }
}

// OnSignedOut registers the hook fired when the guard trips. The hook runs
// once per authenticated→signed-out transition, on the goroutine that
// triggered it.
func OnSignedOut(fn func()) Option {
	return func(g *Guard) { g.onSignedOut = fn }
}

// NewGuard builds a Guard over the given credential store. The guard starts
// armed; the first Token call with an empty store trips it.
func NewGuard(store credentials.Store, opts ...Option) *Guard {
	g := &Guard{store: store, log: zap.NewNop()}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

// Token returns the current credential, failing fast with ErrSignedOut when
// none exists. An authenticated call must never be issued without it.
func (g *Guard) Token() (string, error) {
	g.mu.Lock()
	if g.signedOut {
		g.mu.Unlock()
		return "", ErrSignedOut
	}
	g.mu.Unlock()

	token, err := g.store.Get()
	if err != nil {
		if errors.Is(err, credentials.ErrNoCredential) {
			g.trip("no credential at load")
			return "", ErrSignedOut
		}
		return "", fmt.Errorf("session: read credential: %w", err)
	}
	return token, nil
}

// Check inspects an operation error and trips the guard on authentication
// failures. It reports whether the error was consumed; callers stop their
// own error handling when it was.
func (g *Guard) Check(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, ErrSignedOut) {
		return true
	}
	if api.IsAuth(err) {
		g.trip("server rejected credential")
		return true
	}
	return false
}

// SignIn stores a fresh credential and re-arms the guard.
func (g *Guard) SignIn(token string) error {
	if err := g.store.Save(token); err != nil {
		return fmt.Errorf("session: save credential: %w", err)
	}
	g.mu.Lock()
	g.signedOut = false
	g.mu.Unlock()
	return nil
}

// SignOut clears the credential on explicit user logout. The sign-out hook
// does not fire; it signals credential loss, not a user choice.
func (g *Guard) SignOut() error {
	g.mu.Lock()
	g.signedOut = true
	g.mu.Unlock()
	return g.store.Clear()
}

// SignedOut reports whether the guard has tripped.
func (g *Guard) SignedOut() bool {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.signedOut
}

func (g *Guard) trip(reason string) {
	g.mu.Lock()
	if g.signedOut {
		g.mu.Unlock()
		return
	}
	g.signedOut = true
	hook := g.onSignedOut
	g.mu.Unlock()

	g.log.Info("session ended, credential purged", zap.String("reason", reason))
	if err := g.store.Clear(); err != nil {
		g.log.Warn("failed to clear credential", zap.Error(err))
	}
	if hook != nil {
		hook()
	}
}
