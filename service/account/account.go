// Package account implements the account service: the
// create/update/delete lifecycle for a provider account, and the
// startup restoration sequence that re-validates every persisted
// account's credentials and repopulates the provider registry.
// Providers are constructed, validated and registered one per
// account, at any point in the process's life.
package account

import (
	"context"
	"time"

	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"

	"github.com/ZnLuAr/dns-orchestrator-sub000/internal/dnserr"
	"github.com/ZnLuAr/dns-orchestrator-sub000/internal/dnsmodel"
	"github.com/ZnLuAr/dns-orchestrator-sub000/provider"
	"github.com/ZnLuAr/dns-orchestrator-sub000/provider/factory"
	"github.com/ZnLuAr/dns-orchestrator-sub000/servicectx"
)

// ProviderFactory builds a live provider.Provider for an account's
// credentials, the seam factory.New fills in production and tests
// replace with a deterministic stub.
type ProviderFactory func(accountID string, creds dnsmodel.Credentials) (provider.Provider, error)

// Service implements the account lifecycle operations.
type Service struct {
	ctx         *servicectx.Context
	newProvider ProviderFactory
}

// New builds a Service wired to the real provider factory.
func New(ctx *servicectx.Context) *Service {
	return &Service{ctx: ctx, newProvider: factory.New}
}

// NewWithFactory builds a Service using a caller-supplied provider
// factory, for tests that must not perform real network validation.
func NewWithFactory(ctx *servicectx.Context, f ProviderFactory) *Service {
	return &Service{ctx: ctx, newProvider: f}
}

// RestoreResult is the outcome of RestoreAccounts, reported once at
// startup.
type RestoreResult struct {
	SuccessCount int
	ErrorCount   int
}

// Create instantiates and validates the provider, persists
// credentials, persists the account, then registers the provider. Any
// failure after credentials are persisted rolls them back so the
// invariant (account_id ∈ AccountRepo ⟺ account_id ∈ CredentialStore)
// never observes a dangling credential.
func (s *Service) Create(ctx context.Context, name string, kind dnsmodel.ProviderKind, creds dnsmodel.Credentials) (dnsmodel.Account, error) {
	id := uuid.New().String()

	p, err := s.newProvider(id, creds)
	if err != nil {
		return dnsmodel.Account{}, dnserr.InvalidParameter("", "provider", err.Error())
	}
	ok, err := p.ValidateCredentials(ctx)
	if err != nil {
		return dnsmodel.Account{}, err
	}
	if !ok {
		return dnsmodel.Account{}, dnserr.InvalidCredentials(string(kind), "credentials rejected by provider")
	}

	if err := s.ctx.Credentials.Set(id, creds); err != nil {
		return dnsmodel.Account{}, err
	}

	now := time.Now().UTC()
	acct := dnsmodel.Account{
		ID:        id,
		Name:      name,
		Provider:  kind,
		CreatedAt: now,
		UpdatedAt: now,
		Status:    dnsmodel.AccountActive,
	}
	if err := s.ctx.Accounts.Save(acct); err != nil {
		if rbErr := s.ctx.Credentials.Remove(id); rbErr != nil {
			log.WithFields(log.Fields{"account_id": id}).Error("rollback credentials after failed account save: " + rbErr.Error())
		}
		return dnsmodel.Account{}, err
	}

	s.ctx.Registry.Register(id, p)
	return acct, nil
}

// UpdateName renames an existing account, touching UpdatedAt.
func (s *Service) UpdateName(accountID, name string) (dnsmodel.Account, error) {
	acct, ok, err := s.ctx.Accounts.FindByID(accountID)
	if err != nil {
		return dnsmodel.Account{}, err
	}
	if !ok {
		return dnsmodel.Account{}, dnserr.AccountNotFound(accountID)
	}
	acct.Name = name
	acct.UpdatedAt = time.Now().UTC()
	if err := s.ctx.Accounts.Save(acct); err != nil {
		return dnsmodel.Account{}, err
	}
	return acct, nil
}

// UpdateCredentials re-validates creds against a freshly instantiated
// provider before replacing anything: a rejected credential
// never overwrites a working one.
func (s *Service) UpdateCredentials(ctx context.Context, accountID string, creds dnsmodel.Credentials) (dnsmodel.Account, error) {
	acct, ok, err := s.ctx.Accounts.FindByID(accountID)
	if err != nil {
		return dnsmodel.Account{}, err
	}
	if !ok {
		return dnsmodel.Account{}, dnserr.AccountNotFound(accountID)
	}

	p, err := s.newProvider(accountID, creds)
	if err != nil {
		return dnsmodel.Account{}, dnserr.InvalidParameter("", "provider", err.Error())
	}
	valid, err := p.ValidateCredentials(ctx)
	if err != nil {
		return dnsmodel.Account{}, err
	}
	if !valid {
		return dnsmodel.Account{}, dnserr.InvalidCredentials(string(acct.Provider), "credentials rejected by provider")
	}

	if err := s.ctx.Credentials.Set(accountID, creds); err != nil {
		return dnsmodel.Account{}, err
	}

	acct.Status = dnsmodel.AccountActive
	acct.Error = ""
	acct.UpdatedAt = time.Now().UTC()
	if err := s.ctx.Accounts.Save(acct); err != nil {
		return dnsmodel.Account{}, err
	}

	s.ctx.Registry.Register(accountID, p)
	return acct, nil
}

// UpdateStatus forwards to the account repository, surfacing
// AccountNotFound when accountID is absent.
func (s *Service) UpdateStatus(accountID string, status dnsmodel.AccountStatus, reason string) error {
	return s.ctx.Accounts.UpdateStatus(accountID, status, reason)
}

// Delete reverses Create's step order: unregister the live
// provider first so no in-flight call can use credentials about to be
// removed, then remove credentials, then delete the account record.
func (s *Service) Delete(accountID string) error {
	s.ctx.Registry.Unregister(accountID)
	if err := s.ctx.Credentials.Remove(accountID); err != nil {
		return err
	}
	return s.ctx.Accounts.Delete(accountID)
}

func (s *Service) ListAccounts() ([]dnsmodel.Account, error) {
	return s.ctx.Accounts.FindAll()
}

func (s *Service) GetAccount(accountID string) (dnsmodel.Account, error) {
	acct, ok, err := s.ctx.Accounts.FindByID(accountID)
	if err != nil {
		return dnsmodel.Account{}, err
	}
	if !ok {
		return dnsmodel.Account{}, dnserr.AccountNotFound(accountID)
	}
	return acct, nil
}

// RestoreAccounts runs once at startup:
// for every persisted account, it re-validates credentials and
// repopulates the registry. A rejected credential marks the account
// Error with a reason; any other failure (network, storage) leaves
// the prior status untouched and is only logged and counted, since it
// may be transient.
func (s *Service) RestoreAccounts(ctx context.Context) RestoreResult {
	var result RestoreResult

	accounts, err := s.ctx.Accounts.FindAll()
	if err != nil {
		log.WithError(err).Error("restore_accounts: failed to list accounts")
		return result
	}

	for _, acct := range accounts {
		creds, ok, err := s.ctx.Credentials.Get(acct.ID)
		if err != nil {
			log.WithFields(log.Fields{"account_id": acct.ID}).Warn("restore_accounts: credential lookup failed: " + err.Error())
			result.ErrorCount++
			continue
		}
		if !ok {
			log.WithFields(log.Fields{"account_id": acct.ID}).Warn("restore_accounts: no credentials on file")
			result.ErrorCount++
			continue
		}

		p, err := s.newProvider(acct.ID, creds)
		if err != nil {
			log.WithFields(log.Fields{"account_id": acct.ID}).Warn("restore_accounts: cannot instantiate provider: " + err.Error())
			result.ErrorCount++
			continue
		}

		valid, err := p.ValidateCredentials(ctx)
		if err != nil {
			log.WithFields(log.Fields{"account_id": acct.ID}).Warn("restore_accounts: transient validation failure: " + err.Error())
			result.ErrorCount++
			continue
		}
		if !valid {
			if uErr := s.ctx.Accounts.UpdateStatus(acct.ID, dnsmodel.AccountError, "credentials rejected by provider"); uErr != nil {
				log.WithFields(log.Fields{"account_id": acct.ID}).Error("restore_accounts: failed to mark account errored: " + uErr.Error())
			}
			result.ErrorCount++
			continue
		}

		s.ctx.Registry.Register(acct.ID, p)
		if uErr := s.ctx.Accounts.UpdateStatus(acct.ID, dnsmodel.AccountActive, ""); uErr != nil {
			log.WithFields(log.Fields{"account_id": acct.ID}).Error("restore_accounts: failed to mark account active: " + uErr.Error())
		}
		result.SuccessCount++
	}

	return result
}
