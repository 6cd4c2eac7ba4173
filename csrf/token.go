// Package csrf issues and verifies the authentication tokens of secured forms.
//
// A token is issued per form path and session, rendered into the form's
// formAuthToken field and compared against the stored one when the form is
// bound again.
package csrf

import (
	"context"
	"crypto/subtle"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
)

var (
	ErrTokenMissing = errors.New("authentication token missing")
	ErrTokenInvalid = errors.New("authentication token invalid")
	ErrNoStore      = errors.New("no token store configured")
)

// DefaultTTL is the token lifetime used when a Guard has none.
const DefaultTTL = 2 * time.Hour

type storeKey struct{}

type sessionKey struct{}

// WithStore returns a context whose binds use store for tokens.
func WithStore(ctx context.Context, store Store) context.Context {
	return context.WithValue(ctx, storeKey{}, store)
}

// StoreFrom returns the store carried by ctx, if any.
func StoreFrom(ctx context.Context) (Store, bool) {
	s, ok := ctx.Value(storeKey{}).(Store)
	return s, ok && s != nil
}

// WithSession scopes the tokens of ctx to a session id.
func WithSession(ctx context.Context, session string) context.Context {
	return context.WithValue(ctx, sessionKey{}, session)
}

// SessionFrom returns the session id of ctx, empty when unset.
func SessionFrom(ctx context.Context) string {
	s, _ := ctx.Value(sessionKey{}).(string)
	return s
}

// Guard issues and checks tokens against a store.
type Guard struct {
	Store Store
	TTL   time.Duration
}

func (g Guard) store(ctx context.Context) (Store, error) {
	if s, ok := StoreFrom(ctx); ok {
		return s, nil
	}

	if g.Store == nil {
		return nil, ErrNoStore
	}

	return g.Store, nil
}

func key(ctx context.Context, path string) string {
	return "csrf:" + SessionFrom(ctx) + ":" + path
}

// Issue returns the token of the form at path, generating one on first use.
func (g Guard) Issue(ctx context.Context, path string) (string, error) {
	store, err := g.store(ctx)
	if err != nil {
		return "", err
	}

	k := key(ctx, path)

	token, ok, err := store.Get(ctx, k)
	if err != nil {
		return "", fmt.Errorf("read token of %s: %w", path, err)
	}

	if ok {
		return token, nil
	}

	ttl := g.TTL
	if ttl == 0 {
		ttl = DefaultTTL
	}

	// concurrent first fills must all end up with the token that was stored first
	token, err = store.SetIfAbsent(ctx, k, uuid.NewString(), ttl)
	if err != nil {
		return "", fmt.Errorf("store token of %s: %w", path, err)
	}

	return token, nil
}

// Verify checks the submitted token of the form at path. The token stays valid.
func (g Guard) Verify(ctx context.Context, path, submitted string) error {
	if submitted == "" {
		return fmt.Errorf("%w: %s", ErrTokenMissing, path)
	}

	store, err := g.store(ctx)
	if err != nil {
		return err
	}

	token, ok, err := store.Get(ctx, key(ctx, path))
	if err != nil {
		return fmt.Errorf("read token of %s: %w", path, err)
	}

	if !ok || subtle.ConstantTimeCompare([]byte(token), []byte(submitted)) != 1 {
		return fmt.Errorf("%w: %s", ErrTokenInvalid, path)
	}

	return nil
}

// Invalidate drops the token of the form at path so the next Issue generates a new one.
func (g Guard) Invalidate(ctx context.Context, path string) error {
	store, err := g.store(ctx)
	if err != nil {
		return err
	}

	return store.Delete(ctx, key(ctx, path))
}
