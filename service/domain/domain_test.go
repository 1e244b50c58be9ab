package domain

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ZnLuAr/dns-orchestrator-sub000/internal/dnserr"
	"github.com/ZnLuAr/dns-orchestrator-sub000/internal/dnsmodel"
	"github.com/ZnLuAr/dns-orchestrator-sub000/provider"
	"github.com/ZnLuAr/dns-orchestrator-sub000/registry"
	"github.com/ZnLuAr/dns-orchestrator-sub000/servicectx"
)

type stubProvider struct {
	lastPage dnsmodel.Pagination
	maxZone  int
}

func (s *stubProvider) ID() string { return "stub" }
func (s *stubProvider) Metadata() provider.Metadata {
	return provider.Metadata{ID: "stub", MaxZonePageSize: s.maxZone}
}
func (s *stubProvider) ValidateCredentials(ctx context.Context) (bool, error) { return true, nil }
func (s *stubProvider) ListDomains(ctx context.Context, page dnsmodel.Pagination) (dnsmodel.PaginatedResponse[dnsmodel.ProviderDomain], error) {
	s.lastPage = page
	return dnsmodel.NewPaginatedResponse([]dnsmodel.ProviderDomain{{ID: "z1", Name: "example.com"}}, page.Page, page.PageSize, 1), nil
}
func (s *stubProvider) GetDomain(ctx context.Context, domainID string) (dnsmodel.ProviderDomain, error) {
	if domainID != "z1" {
		return dnsmodel.ProviderDomain{}, dnserr.DomainNotFound("stub", domainID, "")
	}
	return dnsmodel.ProviderDomain{ID: "z1", Name: "example.com"}, nil
}
func (s *stubProvider) ListRecords(ctx context.Context, domainID string, q dnsmodel.RecordQueryParams) (dnsmodel.PaginatedResponse[dnsmodel.DnsRecord], error) {
	return dnsmodel.PaginatedResponse[dnsmodel.DnsRecord]{}, nil
}
func (s *stubProvider) CreateRecord(ctx context.Context, req dnsmodel.CreateRecordRequest) (dnsmodel.DnsRecord, error) {
	return dnsmodel.DnsRecord{}, nil
}
func (s *stubProvider) UpdateRecord(ctx context.Context, recordID string, req dnsmodel.UpdateRecordRequest) (dnsmodel.DnsRecord, error) {
	return dnsmodel.DnsRecord{}, nil
}
func (s *stubProvider) DeleteRecord(ctx context.Context, domainID, recordID string) error { return nil }
func (s *stubProvider) BatchCreateRecords(ctx context.Context, reqs []dnsmodel.CreateRecordRequest) dnsmodel.BatchCreateResult {
	return dnsmodel.BatchCreateResult{}
}
func (s *stubProvider) BatchUpdateRecords(ctx context.Context, reqs []provider.BatchUpdateItem) dnsmodel.BatchUpdateResult {
	return dnsmodel.BatchUpdateResult{}
}
func (s *stubProvider) BatchDeleteRecords(ctx context.Context, domainID string, recordIDs []string) dnsmodel.BatchDeleteResult {
	return dnsmodel.BatchDeleteResult{}
}

func newTestCtx() (*servicectx.Context, *stubProvider) {
	reg := registry.New()
	p := &stubProvider{maxZone: 50}
	reg.Register("acct-1", p)
	return servicectx.New(nil, nil, nil, reg), p
}

func TestListDomainsClampsPageSizeToAdapterLimit(t *testing.T) {
	ctx, p := newTestCtx()
	svc := New(ctx)

	resp, err := svc.ListDomains(context.Background(), "acct-1", dnsmodel.Pagination{Page: 1, PageSize: 500})
	require.NoError(t, err)
	assert.Equal(t, 50, p.lastPage.PageSize)
	assert.Len(t, resp.Items, 1)
}

func TestListDomainsUnknownAccountReturnsAccountNotFound(t *testing.T) {
	ctx, _ := newTestCtx()
	svc := New(ctx)

	_, err := svc.ListDomains(context.Background(), "nope", dnsmodel.Pagination{Page: 1, PageSize: 10})
	require.Error(t, err)
	derr, ok := err.(*dnserr.Error)
	require.True(t, ok)
	assert.Equal(t, dnserr.KindAccountNotFound, derr.Kind())
}

func TestGetDomainForwardsNotFound(t *testing.T) {
	ctx, _ := newTestCtx()
	svc := New(ctx)

	_, err := svc.GetDomain(context.Background(), "acct-1", "missing")
	require.Error(t, err)
	derr, ok := err.(*dnserr.Error)
	require.True(t, ok)
	assert.Equal(t, dnserr.KindDomainNotFound, derr.Kind())
}
