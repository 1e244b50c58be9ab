// Package provider defines the polymorphic DNS-provider contract
// every cloud adapter implements, plus the default
// bounded-concurrency batch behavior shared by all of them: one
// method set, with a BaseProvider struct supplying shared defaults,
// and one live instance per account.
package provider

import (
	"context"

	"github.com/ZnLuAr/dns-orchestrator-sub000/internal/dnsmodel"
)

// Metadata describes a provider kind's display name, required
// credential fields, feature flags and page-size limits.
type Metadata struct {
	ID              string
	DisplayName     string
	CredentialFields []dnsmodel.CredentialField
	Features        Features
	MaxZonePageSize int
	MaxRecordPageSize int
}

// Features are the capability flags a provider exposes. Only
// Proxy exists today, Cloudflare-specific.
type Features struct {
	Proxy bool
}

// Provider is the uniform contract every cloud adapter implements.
// A Provider instance is bound to one account's credentials;
// the provider registry (package registry) holds one live instance per
// account id.
type Provider interface {
	ID() string
	Metadata() Metadata

	ValidateCredentials(ctx context.Context) (bool, error)

	ListDomains(ctx context.Context, page dnsmodel.Pagination) (dnsmodel.PaginatedResponse[dnsmodel.ProviderDomain], error)
	GetDomain(ctx context.Context, domainID string) (dnsmodel.ProviderDomain, error)

	ListRecords(ctx context.Context, domainID string, q dnsmodel.RecordQueryParams) (dnsmodel.PaginatedResponse[dnsmodel.DnsRecord], error)
	CreateRecord(ctx context.Context, req dnsmodel.CreateRecordRequest) (dnsmodel.DnsRecord, error)
	UpdateRecord(ctx context.Context, recordID string, req dnsmodel.UpdateRecordRequest) (dnsmodel.DnsRecord, error)
	DeleteRecord(ctx context.Context, domainID, recordID string) error

	BatchCreateRecords(ctx context.Context, reqs []dnsmodel.CreateRecordRequest) dnsmodel.BatchCreateResult
	BatchUpdateRecords(ctx context.Context, reqs []BatchUpdateItem) dnsmodel.BatchUpdateResult
	BatchDeleteRecords(ctx context.Context, domainID string, recordIDs []string) dnsmodel.BatchDeleteResult
}

// BatchUpdateItem pairs a record id with the partial update applied to
// it, the input shape for BatchUpdateRecords.
type BatchUpdateItem struct {
	RecordID string
	Update   dnsmodel.UpdateRecordRequest
}

// DefaultBatchConcurrency is the bounded fan-out width used by
// BaseProvider's default batch implementations when an adapter has no
// native batch endpoint.
const DefaultBatchConcurrency = 5
