// Package migration implements the v1→v2 credential migration service.
// It runs once at startup, before account restoration: if the
// credential store's on-disk shape is already v2, there is nothing to
// do; otherwise it parses the v1 flat layout, cross-references each
// account's provider kind against the account repository, and writes
// the upgraded v2 shape back through the store.
package migration

import (
	"encoding/json"
	"fmt"

	log "github.com/sirupsen/logrus"

	"github.com/ZnLuAr/dns-orchestrator-sub000/internal/dnserr"
	"github.com/ZnLuAr/dns-orchestrator-sub000/internal/dnsmodel"
	"github.com/ZnLuAr/dns-orchestrator-sub000/servicectx"
)

// Status is the outcome of a migration run.
type Status string

const (
	// NotNeeded means load_all already succeeded against the v2 shape.
	NotNeeded Status = "not_needed"
	// Migrated means the v1 shape was found, parsed and written back as v2.
	Migrated Status = "migrated"
)

// FailedAccount records one account the migration could not carry
// forward, with the reason.
type FailedAccount struct {
	AccountID string
	Reason    string
}

// Result is returned by Run.
type Result struct {
	Status         Status
	MigratedCount  int
	FailedAccounts []FailedAccount
}

type Service struct {
	ctx *servicectx.Context
}

func New(ctx *servicectx.Context) *Service {
	return &Service{ctx: ctx}
}

// Run performs the migration check and, if needed, the upgrade. Called
// once from the startup sequence, before account restoration.
func (s *Service) Run() (Result, error) {
	_, err := s.ctx.Credentials.LoadAll()
	if err == nil {
		return Result{Status: NotNeeded}, nil
	}

	derr, ok := err.(*dnserr.Error)
	if !ok || derr.Kind() != dnserr.KindMigrationRequired {
		return Result{}, err
	}

	raw, err := s.ctx.Credentials.LoadRawJSON()
	if err != nil {
		return Result{}, err
	}
	var flat map[string]map[string]string
	if err := json.Unmarshal([]byte(raw), &flat); err != nil {
		return Result{}, dnserr.ParseError("", fmt.Sprintf("v1 credential file is not valid JSON: %s", err))
	}

	accounts, err := s.ctx.Accounts.FindAll()
	if err != nil {
		return Result{}, err
	}
	kindByAccount := make(map[string]dnsmodel.ProviderKind, len(accounts))
	for _, a := range accounts {
		kindByAccount[a.ID] = a.Provider
	}

	var result Result
	result.Status = Migrated
	upgraded := make(map[string]dnsmodel.Credentials, len(flat))

	for accountID, fields := range flat {
		kind, ok := kindByAccount[accountID]
		if !ok {
			result.FailedAccounts = append(result.FailedAccounts, FailedAccount{AccountID: accountID, Reason: "no matching account record"})
			continue
		}
		creds, err := dnsmodel.CredentialsFromMap(kind, fields)
		if err != nil {
			result.FailedAccounts = append(result.FailedAccounts, FailedAccount{AccountID: accountID, Reason: err.Error()})
			continue
		}
		upgraded[accountID] = creds
		result.MigratedCount++
	}

	if err := s.ctx.Credentials.SaveAll(upgraded); err != nil {
		return Result{}, err
	}

	for _, failed := range result.FailedAccounts {
		if uErr := s.ctx.Accounts.UpdateStatus(failed.AccountID, dnsmodel.AccountError, "credential migration failed: "+failed.Reason); uErr != nil {
			log.WithFields(log.Fields{"account_id": failed.AccountID}).Warn("migration: failed to mark account errored: " + uErr.Error())
		}
	}

	return result, nil
}
