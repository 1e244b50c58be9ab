package dns

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
	records []dnsmodel.DnsRecord
}

func (s *stubProvider) ID() string { return "stub" }
func (s *stubProvider) Metadata() provider.Metadata {
	return provider.Metadata{ID: "stub", MaxRecordPageSize: 100}
}
func (s *stubProvider) ValidateCredentials(ctx context.Context) (bool, error) { return true, nil }
func (s *stubProvider) ListDomains(ctx context.Context, page dnsmodel.Pagination) (dnsmodel.PaginatedResponse[dnsmodel.ProviderDomain], error) {
	return dnsmodel.PaginatedResponse[dnsmodel.ProviderDomain]{}, nil
}
func (s *stubProvider) GetDomain(ctx context.Context, domainID string) (dnsmodel.ProviderDomain, error) {
	return dnsmodel.ProviderDomain{}, nil
}
func (s *stubProvider) ListRecords(ctx context.Context, domainID string, q dnsmodel.RecordQueryParams) (dnsmodel.PaginatedResponse[dnsmodel.DnsRecord], error) {
	return dnsmodel.NewPaginatedResponse(s.records, q.Page, q.PageSize, len(s.records)), nil
}
func (s *stubProvider) CreateRecord(ctx context.Context, req dnsmodel.CreateRecordRequest) (dnsmodel.DnsRecord, error) {
	rec := dnsmodel.DnsRecord{ID: "r1", DomainID: req.DomainID, Name: req.Name, TTL: req.TTL, Data: req.Data}
	s.records = append(s.records, rec)
	return rec, nil
}
func (s *stubProvider) UpdateRecord(ctx context.Context, recordID string, req dnsmodel.UpdateRecordRequest) (dnsmodel.DnsRecord, error) {
	return dnsmodel.DnsRecord{ID: recordID}, nil
}
func (s *stubProvider) DeleteRecord(ctx context.Context, domainID, recordID string) error { return nil }
func (s *stubProvider) BatchCreateRecords(ctx context.Context, reqs []dnsmodel.CreateRecordRequest) dnsmodel.BatchCreateResult {
	result := dnsmodel.BatchCreateResult{SuccessCount: len(reqs)}
	for _, r := range reqs {
		result.Created = append(result.Created, dnsmodel.DnsRecord{Name: r.Name})
	}
	return result
}
func (s *stubProvider) BatchUpdateRecords(ctx context.Context, reqs []provider.BatchUpdateItem) dnsmodel.BatchUpdateResult {
	return dnsmodel.BatchUpdateResult{SuccessCount: len(reqs)}
}
func (s *stubProvider) BatchDeleteRecords(ctx context.Context, domainID string, recordIDs []string) dnsmodel.BatchDeleteResult {
	return dnsmodel.BatchDeleteResult{SuccessCount: len(recordIDs)}
}

func newTestCtx(p provider.Provider) *servicectx.Context {
	reg := registry.New()
	reg.Register("acct-1", p)
	return servicectx.New(nil, nil, nil, reg)
}

func TestCreateRecordRejectsInvalidTTL(t *testing.T) {
	svc := New(newTestCtx(&stubProvider{}))
	_, err := svc.CreateRecord(context.Background(), "acct-1", dnsmodel.CreateRecordRequest{Name: "www", TTL: 0})
	require.Error(t, err)
	derr, ok := err.(*dnserr.Error)
	require.True(t, ok)
	assert.Equal(t, dnserr.KindInvalidParameter, derr.Kind())
	assert.Equal(t, "ttl", derr.Param())
}

func TestCreateRecordRejectsInvalidName(t *testing.T) {
	svc := New(newTestCtx(&stubProvider{}))
	_, err := svc.CreateRecord(context.Background(), "acct-1", dnsmodel.CreateRecordRequest{Name: "bad name!", TTL: 300})
	require.Error(t, err)
	derr, ok := err.(*dnserr.Error)
	require.True(t, ok)
	assert.Equal(t, "name", derr.Param())
}

func TestCreateRecordAllowsApexMarker(t *testing.T) {
	svc := New(newTestCtx(&stubProvider{}))
	rec, err := svc.CreateRecord(context.Background(), "acct-1", dnsmodel.CreateRecordRequest{Name: "@", TTL: 300, Data: dnsmodel.RecordData{Type: dnsmodel.TypeA, A: &dnsmodel.ARecord{Address: "1.2.3.4"}}})
	require.NoError(t, err)
	assert.Equal(t, "@", rec.Name)
}

func TestUpdateRecordValidatesPresentFieldsOnly(t *testing.T) {
	svc := New(newTestCtx(&stubProvider{}))
	newTTL := 600
	_, err := svc.UpdateRecord(context.Background(), "acct-1", "r1", dnsmodel.UpdateRecordRequest{TTL: &newTTL})
	require.NoError(t, err)
}

func TestUpdateRecordRejectsInvalidTTLPointer(t *testing.T) {
	svc := New(newTestCtx(&stubProvider{}))
	bad := 0
	_, err := svc.UpdateRecord(context.Background(), "acct-1", "r1", dnsmodel.UpdateRecordRequest{TTL: &bad})
	require.Error(t, err)
}

func TestBatchCreatePartitionsInvalidFromValid(t *testing.T) {
	svc := New(newTestCtx(&stubProvider{}))
	reqs := []dnsmodel.CreateRecordRequest{
		{Name: "www", TTL: 300},
		{Name: "bad name", TTL: 300},
		{Name: "api", TTL: 0},
	}
	result, err := svc.BatchCreate(context.Background(), "acct-1", reqs)
	require.NoError(t, err)
	assert.Equal(t, 1, result.SuccessCount)
	assert.Equal(t, 2, result.FailedCount)
	assert.Len(t, result.Failures, 2)
}

func TestBatchCreateAllInvalidNeverCallsAdapter(t *testing.T) {
	svc := New(newTestCtx(&stubProvider{}))
	reqs := []dnsmodel.CreateRecordRequest{{Name: "bad name", TTL: 300}}
	result, err := svc.BatchCreate(context.Background(), "acct-1", reqs)
	require.NoError(t, err)
	assert.Equal(t, 0, result.SuccessCount)
	assert.Equal(t, 1, result.FailedCount)
}

func TestBatchDeleteForwardsDirectly(t *testing.T) {
	svc := New(newTestCtx(&stubProvider{}))
	result, err := svc.BatchDelete(context.Background(), "acct-1", "zone-1", []string{"r1", "r2"})
	require.NoError(t, err)
	assert.Equal(t, 2, result.SuccessCount)
}

func TestListRecordsUnknownAccountReturnsAccountNotFound(t *testing.T) {
	svc := New(newTestCtx(&stubProvider{}))
	_, err := svc.ListRecords(context.Background(), "nope", "zone-1", dnsmodel.RecordQueryParams{})
	require.Error(t, err)
	derr, ok := err.(*dnserr.Error)
	require.True(t, ok)
	assert.Equal(t, dnserr.KindAccountNotFound, derr.Kind())
}
