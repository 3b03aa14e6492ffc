// Package registry - Identity-caching factory for billing records
//
// Loaders resolve the same type, target or customer many times. The registry
// hands back one shared pointer per identity so that records coming from plan
// files and action files compare equal by identity as well as by id.
package registry

import (
	"sync"

	"metered-billing/core/types"
)

// Registry caches records by unique id
type Registry struct {
	mu        sync.RWMutex
	types     map[string]*types.Type
	targets   map[string]*types.Target
	customers map[string]*types.Customer
}

// New creates an empty registry
func New() *Registry {
	return &Registry{
		types:     make(map[string]*types.Type),
		targets:   make(map[string]*types.Target),
		customers: make(map[string]*types.Customer),
	}
}

// Type returns the cached type for id, creating it on first use.
// A non-empty name fills in a cached record that has none.
func (r *Registry) Type(id, name string) *types.Type {
	key := id
	if key == "" {
		key = name
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if t, ok := r.types[key]; ok {
		if t.Name == "" {
			t.Name = name
		}
		return t
	}
	t := &types.Type{ID: id, Name: name}
	r.types[key] = t
	if name != "" && name != key {
		r.types[name] = t
	}
	return t
}

// Target returns the cached target for id, creating it on first use.
func (r *Registry) Target(id, name, kind string) *types.Target {
	r.mu.Lock()
	defer r.mu.Unlock()

	if t, ok := r.targets[id]; ok {
		if t.Name == "" {
			t.Name = name
		}
		if t.Kind == "" {
			t.Kind = kind
		}
		return t
	}
	t := &types.Target{ID: id, Name: name, Kind: kind}
	r.targets[id] = t
	return t
}

// Customer returns the cached customer for login. The seller, when given, is
// resolved through the registry too.
func (r *Registry) Customer(login, seller string) *types.Customer {
	var sellerRec *types.Customer
	if seller != "" {
		sellerRec = r.Customer(seller, "")
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if c, ok := r.customers[login]; ok {
		if c.Seller == nil {
			c.Seller = sellerRec
		}
		return c
	}
	c := &types.Customer{Login: login, Seller: sellerRec}
	r.customers[login] = c
	return c
}

// FindType returns a cached type by id or name
func (r *Registry) FindType(key string) (*types.Type, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	t, ok := r.types[key]
	return t, ok
}

// FindTarget returns a cached target by id
func (r *Registry) FindTarget(id string) (*types.Target, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	t, ok := r.targets[id]
	return t, ok
}

// FindCustomer returns a cached customer by login
func (r *Registry) FindCustomer(login string) (*types.Customer, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	c, ok := r.customers[login]
	return c, ok
}
