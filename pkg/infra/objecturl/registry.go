package objecturl

import (
	"sync"

	"github.com/google/uuid"

	"github.com/m-mizutani/pdfsaver/pkg/domain/interfaces"
	"github.com/m-mizutani/pdfsaver/pkg/domain/model"
)

// Scheme prefixes every issued URL
const Scheme = "blob:"

// Registry maps transient blob: URLs to in-memory content.
// Every CreateObjectURL call issues a fresh URL, so concurrent callers never
// share a reference.
type Registry struct {
	origin  string
	mu      sync.RWMutex
	entries map[string]*model.Content
}

var _ interfaces.ObjectURLs = (*Registry)(nil)

// New creates an empty registry. origin is embedded in every URL, e.g.
// "blob:http://localhost:8080/<uuid>".
func New(origin string) *Registry {
	return &Registry{
		origin:  origin,
		entries: make(map[string]*model.Content),
	}
}

// CreateObjectURL registers content and returns its URL
func (r *Registry) CreateObjectURL(content *model.Content) string {
	u := Scheme + r.origin + "/" + uuid.NewString()

	r.mu.Lock()
	defer r.mu.Unlock()
	r.entries[u] = content
	return u
}

// Resolve returns the content behind u if it has not been revoked
func (r *Registry) Resolve(u string) (*model.Content, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	c, ok := r.entries[u]
	return c, ok
}

// RevokeObjectURL releases u. Revoking an unknown URL is a no-op.
func (r *Registry) RevokeObjectURL(u string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.entries, u)
}

// Len returns the number of live URLs
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.entries)
}
