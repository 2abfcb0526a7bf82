// Package identity resolves counterparty usernames to their public identity
// keys, pinning each key on first use.
package identity

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"time"

	cache "github.com/Code-Hex/go-generics-cache"
	"github.com/Code-Hex/go-generics-cache/policy/lru"
	"github.com/dmitrijs2005/gophinvoice/internal/client/models"
	"github.com/dmitrijs2005/gophinvoice/internal/client/repositories/contacts"
	"github.com/dmitrijs2005/gophinvoice/internal/logging"
)

// ErrKeyMismatch means the server now reports a different key than the one
// pinned locally.
var ErrKeyMismatch = errors.New("identity key does not match pinned key")

// Directory is the server-side identity lookup.
type Directory interface {
	LookupIdentity(ctx context.Context, username string) ([]byte, error)
}

// Resolver looks keys up in an LRU, then in the pin store, then on the
// server. It is safe for concurrent use.
type Resolver struct {
	dir    Directory
	pins   contacts.Repository
	cache  *cache.Cache[string, []byte]
	logger logging.Logger
	now    func() time.Time
}

func NewResolver(dir Directory, pins contacts.Repository, size int, l logging.Logger) *Resolver {
	if size <= 0 {
		size = 128
	}
	return &Resolver{
		dir:    dir,
		pins:   pins,
		cache:  cache.New(cache.AsLRU[string, []byte](lru.WithCapacity(size))),
		logger: l.With("module", "identity"),
		now:    time.Now,
	}
}

// PublicKey returns the pinned key for username, fetching and pinning it on
// first use.
func (r *Resolver) PublicKey(ctx context.Context, username string) ([]byte, error) {
	if k, ok := r.cache.Get(username); ok {
		return k, nil
	}

	pinned, err := r.pins.Get(ctx, username)
	if err != nil {
		return nil, err
	}
	if pinned != nil {
		r.cache.Set(username, pinned.PublicKey)
		return pinned.PublicKey, nil
	}

	return r.Refresh(ctx, username)
}

// Refresh asks the server for username's key and compares it with the pin.
// An unpinned key is pinned; a different key fails with ErrKeyMismatch and
// leaves the pin alone.
func (r *Resolver) Refresh(ctx context.Context, username string) ([]byte, error) {
	key, err := r.dir.LookupIdentity(ctx, username)
	if err != nil {
		return nil, fmt.Errorf("lookup %s: %w", username, err)
	}

	pinned, err := r.pins.Get(ctx, username)
	if err != nil {
		return nil, err
	}

	if pinned != nil {
		if !bytes.Equal(pinned.PublicKey, key) {
			r.logger.Warn(ctx, "identity key changed", "username", username)
			return nil, fmt.Errorf("%s: %w", username, ErrKeyMismatch)
		}
	} else {
		c := &models.Contact{Username: username, PublicKey: key, PinnedAt: r.now()}
		if err := r.pins.Pin(ctx, c); err != nil {
			return nil, err
		}
		r.logger.Info(ctx, "identity key pinned", "username", username)
	}

	r.cache.Set(username, key)
	return key, nil
}

// Forget drops username's pin, so the next lookup trusts the server again.
func (r *Resolver) Forget(ctx context.Context, username string) error {
	r.cache.Delete(username)
	return r.pins.Delete(ctx, username)
}
