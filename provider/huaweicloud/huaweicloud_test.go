package huaweicloud

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ZnLuAr/dns-orchestrator-sub000/internal/dnsmodel"
	"github.com/ZnLuAr/dns-orchestrator-sub000/provider"
	"github.com/ZnLuAr/dns-orchestrator-sub000/provider/recordcodec"
)

var _ provider.Provider = (*Provider)(nil)

func TestConvertDomainStatus(t *testing.T) {
	assert.Equal(t, dnsmodel.DomainActive, convertDomainStatus("ACTIVE"))
	assert.Equal(t, dnsmodel.DomainPending, convertDomainStatus("PENDING_CREATE"))
	assert.Equal(t, dnsmodel.DomainPending, convertDomainStatus("PENDING_DISABLE"))
	assert.Equal(t, dnsmodel.DomainPaused, convertDomainStatus("FREEZE"))
	assert.Equal(t, dnsmodel.DomainPaused, convertDomainStatus("DISABLE"))
	assert.Equal(t, dnsmodel.DomainErrored, convertDomainStatus("ERROR"))
	assert.Equal(t, dnsmodel.DomainUnknown, convertDomainStatus("WEIRD"))
}

func TestParseRFC3339(t *testing.T) {
	assert.Nil(t, parseRFC3339(""))
	assert.Nil(t, parseRFC3339("not-a-time"))

	got := parseRFC3339("2024-01-15T08:00:00Z")
	if assert.NotNil(t, got) {
		assert.Equal(t, time.Date(2024, 1, 15, 8, 0, 0, 0, time.UTC), *got)
	}
}

func TestMetadataUsesHuaweiCloudPageLimits(t *testing.T) {
	p := New("acct-1", dnsmodel.HuaweiCloudCredentials{})
	meta := p.Metadata()
	assert.Equal(t, maxPageSize, meta.MaxZonePageSize)
	assert.Equal(t, maxPageSize, meta.MaxRecordPageSize)
	assert.Equal(t, "huaweicloud", meta.ID)
}

func TestIDReturnsAccountID(t *testing.T) {
	p := New("acct-7", dnsmodel.HuaweiCloudCredentials{AccessKeyID: "ak", SecretAccessKey: "sk", ProjectID: "proj"})
	assert.Equal(t, "acct-7", p.ID())
}

func TestCreateRecordEncodesMXAsSingleString(t *testing.T) {
	var gotBody createRecordSetRequest
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch {
		case r.Method == http.MethodGet && r.URL.Path == "/v2/zones/z-uuid":
			json.NewEncoder(w).Encode(showZoneResponse{ID: "z-uuid", Name: "example.com.", Status: "ACTIVE"})
		case r.Method == http.MethodPost && r.URL.Path == "/v2/zones/z-uuid/recordsets":
			require.NoError(t, json.NewDecoder(r.Body).Decode(&gotBody))
			assert.NotEmpty(t, r.Header.Get("Authorization"))
			json.NewEncoder(w).Encode(createRecordSetResponse{ID: "rs-1", Name: gotBody.Name, Type: gotBody.Type, TTL: gotBody.TTL, Records: gotBody.Records})
		default:
			t.Errorf("unexpected request %s %s", r.Method, r.URL.Path)
			w.WriteHeader(http.StatusNotFound)
		}
	}))
	defer srv.Close()

	p := New("acct-1", dnsmodel.HuaweiCloudCredentials{AccessKeyID: "ak", SecretAccessKey: "sk"})
	p.endpoint = srv.URL

	rec, err := p.CreateRecord(context.Background(), dnsmodel.CreateRecordRequest{
		DomainID: "z-uuid",
		Name:     "@",
		TTL:      300,
		Data:     dnsmodel.RecordData{Type: dnsmodel.TypeMX, MX: &dnsmodel.MXRecord{Priority: 10, Exchange: "mail.example.com"}},
	})
	require.NoError(t, err)
	assert.Equal(t, "rs-1", rec.ID)
	assert.Equal(t, []string{"10 mail.example.com"}, gotBody.Records)
	assert.Equal(t, "example.com.", gotBody.Name)

	parsed, err := recordcodec.ParseSingleStringRecord(dnsmodel.TypeMX, gotBody.Records[0])
	require.NoError(t, err)
	require.NotNil(t, parsed.MX)
	assert.Equal(t, uint16(10), parsed.MX.Priority)
	assert.Equal(t, "mail.example.com", parsed.MX.Exchange)
}
