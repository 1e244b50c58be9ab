// Package domain implements the domain service: a thin,
// registry-backed pass-through to a provider's ListDomains, enforcing
// the adapter's own page-size limit before the call is issued.
package domain

import (
	"context"

	"github.com/ZnLuAr/dns-orchestrator-sub000/internal/dnsmodel"
	"github.com/ZnLuAr/dns-orchestrator-sub000/servicectx"
)

type Service struct {
	ctx *servicectx.Context
}

func New(ctx *servicectx.Context) *Service {
	return &Service{ctx: ctx}
}

// ListDomains looks up accountID's provider in the registry, clamps
// page/pageSize to the adapter's MaxZonePageSize, and passes the call
// straight through.
func (s *Service) ListDomains(ctx context.Context, accountID string, page dnsmodel.Pagination) (dnsmodel.PaginatedResponse[dnsmodel.ProviderDomain], error) {
	p, err := s.ctx.Registry.Get(accountID)
	if err != nil {
		return dnsmodel.PaginatedResponse[dnsmodel.ProviderDomain]{}, err
	}
	normalized := page.Normalize(p.Metadata().MaxZonePageSize)
	return p.ListDomains(ctx, normalized)
}

// GetDomain looks up accountID's provider and forwards to its
// GetDomain, surfacing DomainNotFound as the adapter reports it.
func (s *Service) GetDomain(ctx context.Context, accountID, domainID string) (dnsmodel.ProviderDomain, error) {
	p, err := s.ctx.Registry.Get(accountID)
	if err != nil {
		return dnsmodel.ProviderDomain{}, err
	}
	return p.GetDomain(ctx, domainID)
}
