// Package usercache is a small read-through cache in front of user lookups.
// The verification page polls resend/verify with the same user id, so the
// hot path would otherwise hit the store once per request. Concurrent misses
// for the same id collapse into a single store round-trip via singleflight.
package usercache

import (
	"context"
	"time"

	gocache "github.com/patrickmn/go-cache"
	"golang.org/x/sync/singleflight"

	"github.com/clinicbook/clinicbook/internal/store/core"
)

// Reader resolves users by id with a short TTL cache.
type Reader struct {
	repo core.Repository
	c    *gocache.Cache
	sf   singleflight.Group
}

// New builds a Reader. ttl bounds how stale a cached user may be; writers
// must call Invalidate after mutating a user.
func New(repo core.Repository, ttl time.Duration) *Reader {
	if ttl <= 0 {
		ttl = 30 * time.Second
	}
	return &Reader{
		repo: repo,
		c:    gocache.New(ttl, time.Minute),
	}
}

// Get returns the user by id, from cache or the store.
func (r *Reader) Get(ctx context.Context, id string) (*core.User, error) {
	if v, ok := r.c.Get(id); ok {
		u := v.(core.User)
		return &u, nil
	}
	v, err, _ := r.sf.Do(id, func() (any, error) {
		u, err := r.repo.GetUserByID(ctx, id)
		if err != nil {
			return nil, err
		}
		r.c.SetDefault(id, *u)
		return *u, nil
	})
	if err != nil {
		return nil, err
	}
	u := v.(core.User)
	return &u, nil
}

// Invalidate drops the cached entry for id. Call after any user mutation.
func (r *Reader) Invalidate(id string) {
	r.c.Delete(id)
}
