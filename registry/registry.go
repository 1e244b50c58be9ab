// Package registry implements the in-memory provider registry:
// one live Provider instance per account id, the home for everything
// account-service-created providers do between requests: a
// mutex-guarded map mutated at runtime as accounts are created,
// updated and deleted.
package registry

import (
	"sync"

	"github.com/ZnLuAr/dns-orchestrator-sub000/internal/dnserr"
	"github.com/ZnLuAr/dns-orchestrator-sub000/provider"
)

// Registry holds one live Provider per account id behind a single
// short-held mutex.
// Lookups are on the hot path for every DNS call; registration is
// rare, so a plain mutex outperforms anything more elaborate here.
type Registry struct {
	mu        sync.Mutex
	providers map[string]provider.Provider
}

// New returns an empty registry.
func New() *Registry {
	return &Registry{providers: make(map[string]provider.Provider)}
}

// Register associates accountID with p, replacing any prior provider
// for that id.
func (r *Registry) Register(accountID string, p provider.Provider) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.providers[accountID] = p
}

// Unregister removes accountID's provider, if any. Unregistering an
// absent id is a no-op.
func (r *Registry) Unregister(accountID string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.providers, accountID)
}

// Get returns accountID's live provider, or an AccountNotFound error
// when none is registered.
func (r *Registry) Get(accountID string) (provider.Provider, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	p, ok := r.providers[accountID]
	if !ok {
		return nil, dnserr.AccountNotFound(accountID)
	}
	return p, nil
}

// ListIDs returns every currently-registered account id, in no
// particular order.
func (r *Registry) ListIDs() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	ids := make([]string, 0, len(r.providers))
	for id := range r.providers {
		ids = append(ids, id)
	}
	return ids
}
