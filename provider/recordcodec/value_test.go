package recordcodec

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ZnLuAr/dns-orchestrator-sub000/internal/dnsmodel"
)

func TestValuePriorityRoundTrip(t *testing.T) {
	cases := []dnsmodel.RecordData{
		{Type: dnsmodel.TypeA, A: &dnsmodel.ARecord{Address: "1.2.3.4"}},
		{Type: dnsmodel.TypeAAAA, AAAA: &dnsmodel.AAAARecord{Address: "::1"}},
		{Type: dnsmodel.TypeCNAME, CNAME: &dnsmodel.CNAMERecord{Target: "example.com"}},
		{Type: dnsmodel.TypeTXT, TXT: &dnsmodel.TXTRecord{Value: "v=spf1 -all"}},
		{Type: dnsmodel.TypeNS, NS: &dnsmodel.NSRecord{Nameserver: "ns1.example.com"}},
		{Type: dnsmodel.TypeMX, MX: &dnsmodel.MXRecord{Priority: 10, Exchange: "mail.example.com"}},
		{Type: dnsmodel.TypeSRV, SRV: &dnsmodel.SRVRecord{Priority: 1, Weight: 2, Port: 443, Target: "svc.example.com"}},
	}
	for _, want := range cases {
		value, priority := RecordDataToValuePriority(want)
		got, err := ParseRecordDataWithPriority(want.Type, value, priority, "aliyun")
		require.NoError(t, err)
		assert.True(t, got.Equal(want), "round trip mismatch for %s", want.Type)
	}
}

func TestSingleStringRoundTrip(t *testing.T) {
	cases := []dnsmodel.RecordData{
		{Type: dnsmodel.TypeA, A: &dnsmodel.ARecord{Address: "1.2.3.4"}},
		{Type: dnsmodel.TypeMX, MX: &dnsmodel.MXRecord{Priority: 20, Exchange: "mail.example.com"}},
		{Type: dnsmodel.TypeSRV, SRV: &dnsmodel.SRVRecord{Priority: 1, Weight: 5, Port: 8443, Target: "svc.example.com"}},
		{Type: dnsmodel.TypeCAA, CAA: &dnsmodel.CAARecord{Flags: 0, Tag: "issue", Value: "letsencrypt.org"}},
	}
	for _, want := range cases {
		raw, err := RecordDataToSingleString(want)
		require.NoError(t, err)
		got, err := ParseSingleStringRecord(want.Type, raw)
		require.NoError(t, err)
		assert.True(t, got.Equal(want), "single-string round trip mismatch for %s", want.Type)
	}
}

func TestApexNameConversion(t *testing.T) {
	assert.Equal(t, "example.com", RelativeToFullName("@", "example.com"))
	assert.Equal(t, "www.example.com", RelativeToFullName("www", "example.com"))
	assert.Equal(t, "@", FullNameToRelative("example.com", "example.com"))
	assert.Equal(t, "www", FullNameToRelative("www.example.com", "example.com"))
	assert.Equal(t, "example.com", NormalizeZoneName("example.com."))
}

func TestUnsupportedRecordTypeRejected(t *testing.T) {
	_, err := ParseRecordDataWithPriority("PTR", "host.example.com", 0, "aliyun")
	assert.Error(t, err)
}
