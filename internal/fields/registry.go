// Package fields holds the session's field registry and the add-field flow.
package fields

import (
	"sync"

	"cropcura/internal/types"
)

// OwnerSelf keys the officer's own "My Fields" collection. Farmer fields are
// keyed by farmer id.
const OwnerSelf = "self"

// Registry is an append-only, thread-safe store of fields grouped by owner.
// Insertion order is preserved.
type Registry struct {
	mu      sync.RWMutex
	byOwner map[string][]types.Field
}

// NewRegistry returns an empty registry.
func NewRegistry() *Registry {
	return &Registry{byOwner: make(map[string][]types.Field)}
}

// Seed replaces an owner's collection with a copy of fields.
func (r *Registry) Seed(owner string, fields []types.Field) {
	cp := make([]types.Field, 0, len(fields))
	for _, f := range fields {
		cp = append(cp, clone(f))
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.byOwner[owner] = cp
}

// Add appends a field to an owner's collection.
func (r *Registry) Add(owner string, f types.Field) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.byOwner[owner] = append(r.byOwner[owner], clone(f))
}

// List returns a copy of an owner's fields. An unknown owner yields an empty,
// non-nil slice.
func (r *Registry) List(owner string) []types.Field {
	r.mu.RLock()
	defer r.mu.RUnlock()
	src := r.byOwner[owner]
	out := make([]types.Field, 0, len(src))
	for _, f := range src {
		out = append(out, clone(f))
	}
	return out
}

// Get returns one field by id.
func (r *Registry) Get(owner, id string) (types.Field, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, f := range r.byOwner[owner] {
		if f.ID == id {
			return clone(f), true
		}
	}
	return types.Field{}, false
}

// Find looks a field up by id across every owner and reports its owner.
func (r *Registry) Find(id string) (types.Field, string, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for owner, list := range r.byOwner {
		for _, f := range list {
			if f.ID == id {
				return clone(f), owner, true
			}
		}
	}
	return types.Field{}, "", false
}

func clone(f types.Field) types.Field {
	f.Coordinates = append([]types.FieldCoordinate(nil), f.Coordinates...)
	return f
}
