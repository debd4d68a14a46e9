// Package revocation remembers signed-out token ids until the tokens expire.
package revocation

import (
	"context"
	"sync"
	"time"
)

// Registry records revoked token ids
type Registry interface {
	// Revoke marks tokenID revoked for ttl. A non-positive ttl is a no-op.
	Revoke(ctx context.Context, tokenID string, ttl time.Duration) error
	IsRevoked(ctx context.Context, tokenID string) (bool, error)
}

// MemoryRegistry keeps revoked token ids in process memory
type MemoryRegistry struct {
	mu      sync.Mutex
	revoked map[string]time.Time
	now     func() time.Time
}

// NewMemoryRegistry creates an in-process registry
func NewMemoryRegistry() *MemoryRegistry {
	return &MemoryRegistry{
		revoked: make(map[string]time.Time),
		now:     time.Now,
	}
}

// Revoke marks tokenID revoked for ttl. Expired entries are pruned on every call.
func (r *MemoryRegistry) Revoke(_ context.Context, tokenID string, ttl time.Duration) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	now := r.now()
	for id, exp := range r.revoked {
		if !exp.After(now) {
			delete(r.revoked, id)
		}
	}
	if ttl > 0 {
		r.revoked[tokenID] = now.Add(ttl)
	}
	return nil
}

// IsRevoked reports whether tokenID is revoked and its entry has not lapsed
func (r *MemoryRegistry) IsRevoked(_ context.Context, tokenID string) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	exp, ok := r.revoked[tokenID]
	return ok && exp.After(r.now()), nil
}
