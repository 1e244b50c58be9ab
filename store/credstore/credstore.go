// Package credstore implements the credential store contract: the
// authoritative secret sink for every account's provider credentials,
// a JSON-file-backed key-value store keyed by account id with a
// single-writer lock.
package credstore

import (
	"github.com/ZnLuAr/dns-orchestrator-sub000/internal/dnsmodel"
)

// Store is the credential store contract every back-end implements.
// The invariant after a successful account-service operation
// is account_id ∈ AccountRepo ⟺ account_id ∈ Store.
type Store interface {
	// LoadAll returns every account's credentials keyed by account id.
	// Returns a dnserr.Error with Kind() == KindMigrationRequired when
	// the on-disk shape is the v1 flat layout the migration service
	// must upgrade first.
	LoadAll() (map[string]dnsmodel.Credentials, error)

	// SaveAll overwrites the entire store with m, used by the
	// migration service to write back the upgraded v2 shape.
	SaveAll(m map[string]dnsmodel.Credentials) error

	Get(accountID string) (dnsmodel.Credentials, bool, error)
	Set(accountID string, creds dnsmodel.Credentials) error
	Remove(accountID string) error

	// LoadRawJSON/SaveRawJSON bypass the typed path entirely; used for
	// backup and by the migration service to read the v1 file as-is.
	LoadRawJSON() (string, error)
	SaveRawJSON(raw string) error
}
