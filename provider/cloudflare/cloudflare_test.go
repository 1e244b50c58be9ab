package cloudflare

import (
	"context"
	"testing"

	cf "github.com/cloudflare/cloudflare-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ZnLuAr/dns-orchestrator-sub000/internal/dnsmodel"
	"github.com/ZnLuAr/dns-orchestrator-sub000/provider"
)

type mockClient struct {
	zones   []cf.Zone
	records []cf.DNSRecord
	created cf.CreateDNSRecordParams
	updated cf.UpdateDNSRecordParams
	deleted string
	err     error
}

func (m *mockClient) ListZonesContext(ctx context.Context, opts ...cf.ReqOption) (cf.ZonesResponse, error) {
	return cf.ZonesResponse{Result: m.zones, ResultInfo: cf.ResultInfo{Page: 1, Total: len(m.zones)}}, m.err
}

func (m *mockClient) ZoneDetails(ctx context.Context, zoneID string) (cf.Zone, error) {
	for _, z := range m.zones {
		if z.ID == zoneID {
			return z, nil
		}
	}
	return cf.Zone{}, m.err
}

func (m *mockClient) ListDNSRecords(ctx context.Context, rc *cf.ResourceContainer, rp cf.ListDNSRecordsParams) ([]cf.DNSRecord, *cf.ResultInfo, error) {
	return m.records, &cf.ResultInfo{Page: 1, Total: len(m.records)}, m.err
}

func (m *mockClient) CreateDNSRecord(ctx context.Context, rc *cf.ResourceContainer, rp cf.CreateDNSRecordParams) (cf.DNSRecord, error) {
	m.created = rp
	rec := cf.DNSRecord{ID: "rec1", Name: rp.Name, Type: rp.Type, Content: rp.Content, TTL: rp.TTL, Priority: rp.Priority}
	if m.err == nil {
		m.records = append(m.records, rec)
	}
	return rec, m.err
}

func (m *mockClient) UpdateDNSRecord(ctx context.Context, rc *cf.ResourceContainer, rp cf.UpdateDNSRecordParams) (cf.DNSRecord, error) {
	m.updated = rp
	var updated cf.DNSRecord
	for i, r := range m.records {
		if r.ID != rp.ID {
			continue
		}
		if rp.TTL != 0 {
			m.records[i].TTL = rp.TTL
		}
		if rp.Content != "" {
			m.records[i].Content = rp.Content
		}
		if rp.Type != "" {
			m.records[i].Type = rp.Type
		}
		if rp.Name != "" {
			m.records[i].Name = rp.Name
		}
		updated = m.records[i]
	}
	return updated, m.err
}

func (m *mockClient) DeleteDNSRecord(ctx context.Context, rc *cf.ResourceContainer, recordID string) error {
	m.deleted = recordID
	return m.err
}

func newTestProvider(m *mockClient) *Provider {
	return &Provider{accountID: "acc1", api: m}
}

func TestListDomainsMapsZoneStatus(t *testing.T) {
	m := &mockClient{zones: []cf.Zone{{ID: "z1", Name: "example.com", Status: "active"}}}
	p := newTestProvider(m)

	resp, err := p.ListDomains(context.Background(), dnsmodel.Pagination{Page: 1, PageSize: 10})
	require.NoError(t, err)
	require.Len(t, resp.Items, 1)
	assert.Equal(t, "example.com", resp.Items[0].Name)
	assert.Equal(t, dnsmodel.DomainActive, resp.Items[0].Status)
}

func TestCreateRecordEncodesMXPriority(t *testing.T) {
	m := &mockClient{}
	p := newTestProvider(m)

	_, err := p.CreateRecord(context.Background(), dnsmodel.CreateRecordRequest{
		DomainID: "z1",
		Name:     "@",
		TTL:      300,
		Data:     dnsmodel.RecordData{Type: dnsmodel.TypeMX, MX: &dnsmodel.MXRecord{Priority: 10, Exchange: "mail.example.com"}},
	})
	require.NoError(t, err)
	assert.Equal(t, "mail.example.com", m.created.Content)
	require.NotNil(t, m.created.Priority)
	assert.Equal(t, uint16(10), *m.created.Priority)
}

func TestRecordLifecycleRoundTrip(t *testing.T) {
	m := &mockClient{zones: []cf.Zone{{ID: "z1", Name: "example.com", Status: "active"}}}
	p := newTestProvider(m)
	ctx := context.Background()

	created, err := p.CreateRecord(ctx, dnsmodel.CreateRecordRequest{
		DomainID: "z1",
		Name:     "www",
		TTL:      300,
		Data:     dnsmodel.RecordData{Type: dnsmodel.TypeA, A: &dnsmodel.ARecord{Address: "1.2.3.4"}},
	})
	require.NoError(t, err)

	listed, err := p.ListRecords(ctx, "z1", dnsmodel.RecordQueryParams{Pagination: dnsmodel.Pagination{Page: 1, PageSize: 50}})
	require.NoError(t, err)
	require.Len(t, listed.Items, 1)
	assert.Equal(t, created.ID, listed.Items[0].ID)
	assert.Equal(t, 300, listed.Items[0].TTL)
	require.NotNil(t, listed.Items[0].Data.A)
	assert.Equal(t, "1.2.3.4", listed.Items[0].Data.A.Address)

	ttl := 600
	_, err = p.UpdateRecord(ctx, created.ID, dnsmodel.UpdateRecordRequest{DomainID: "z1", TTL: &ttl})
	require.NoError(t, err)

	listed, err = p.ListRecords(ctx, "z1", dnsmodel.RecordQueryParams{Pagination: dnsmodel.Pagination{Page: 1, PageSize: 50}})
	require.NoError(t, err)
	require.Len(t, listed.Items, 1)
	assert.Equal(t, 600, listed.Items[0].TTL)
}

func TestUpdateRecordRequiresDomainID(t *testing.T) {
	p := newTestProvider(&mockClient{})
	_, err := p.UpdateRecord(context.Background(), "rec1", dnsmodel.UpdateRecordRequest{})
	assert.Error(t, err)
}

func TestDeleteRecord(t *testing.T) {
	m := &mockClient{}
	p := newTestProvider(m)
	err := p.DeleteRecord(context.Background(), "z1", "rec1")
	require.NoError(t, err)
	assert.Equal(t, "rec1", m.deleted)
}

func TestBatchCreateRecordsPreservesOrder(t *testing.T) {
	m := &mockClient{}
	p := newTestProvider(m)

	reqs := []dnsmodel.CreateRecordRequest{
		{DomainID: "z1", Name: "a", Data: dnsmodel.RecordData{Type: dnsmodel.TypeA, A: &dnsmodel.ARecord{Address: "1.1.1.1"}}},
		{DomainID: "z1", Name: "b", Data: dnsmodel.RecordData{Type: dnsmodel.TypeA, A: &dnsmodel.ARecord{Address: "2.2.2.2"}}},
	}
	res := p.BatchCreateRecords(context.Background(), reqs)
	assert.Equal(t, 2, res.SuccessCount)
	assert.Equal(t, 0, res.FailedCount)
	require.Len(t, res.Created, 2)
	assert.Equal(t, "a", res.Created[0].Name)
	assert.Equal(t, "b", res.Created[1].Name)
}

var _ provider.Provider = (*Provider)(nil)
