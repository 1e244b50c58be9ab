// Package accountrepo implements the account repository contract,
// the persisted non-secret half of an Account. Only the JSON-file
// store is implemented today; the SQL-shaped variant is described on
// Repo rather than carried as an unused driver dependency.
package accountrepo

import (
	"github.com/ZnLuAr/dns-orchestrator-sub000/internal/dnsmodel"
)

// Repo is the account repository contract every back-end implements.
// A SQL-backed Repo would store one row per account
// {id PK, name, provider, created_at, updated_at, status?, error?};
// FileRepo below persists the same shape as a JSON array.
type Repo interface {
	FindAll() ([]dnsmodel.Account, error)
	FindByID(accountID string) (dnsmodel.Account, bool, error)
	Save(account dnsmodel.Account) error
	Delete(accountID string) error
	SaveAll(accounts []dnsmodel.Account) error

	// UpdateStatus must return a dnserr.Error with
	// Kind() == KindAccountNotFound when accountID is absent.
	UpdateStatus(accountID string, status dnsmodel.AccountStatus, reason string) error
}
