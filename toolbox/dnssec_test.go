package toolbox

import (
	"testing"

	"github.com/miekg/dns"
	"github.com/stretchr/testify/assert"
)

func TestAlgorithmNameKnownValues(t *testing.T) {
	assert.Equal(t, "RSA/SHA-256", algorithmName(8))
	assert.Equal(t, "ECDSAP256SHA256", algorithmName(13))
	assert.Equal(t, "Ed25519", algorithmName(15))
	assert.Equal(t, "RSA/MD5 (deprecated)", algorithmName(1))
}

func TestAlgorithmNameUnknownValue(t *testing.T) {
	assert.Equal(t, "Unknown (253)", algorithmName(253))
}

func TestDigestTypeNameKnownValues(t *testing.T) {
	assert.Equal(t, "SHA-1", digestTypeName(1))
	assert.Equal(t, "SHA-256", digestTypeName(2))
	assert.Equal(t, "SHA-384", digestTypeName(4))
}

func TestDigestTypeNameUnknownValue(t *testing.T) {
	assert.Equal(t, "Unknown (200)", digestTypeName(200))
}

func TestParseDNSKEYClassifiesKeySigningKey(t *testing.T) {
	key := &dns.DNSKEY{
		Flags:     dns.SEP | dns.ZONE,
		Protocol:  3,
		Algorithm: 13,
		PublicKey: "abcd",
	}
	rec := parseDNSKEY(key)
	assert.Equal(t, "KSK", rec.KeyType)
	assert.Equal(t, "ECDSAP256SHA256", rec.AlgorithmName)
}

func TestParseDNSKEYClassifiesZoneSigningKey(t *testing.T) {
	key := &dns.DNSKEY{
		Flags:     dns.ZONE,
		Protocol:  3,
		Algorithm: 8,
		PublicKey: "abcd",
	}
	rec := parseDNSKEY(key)
	assert.Equal(t, "ZSK", rec.KeyType)
}

func TestParseDNSKEYClassifiesUnknownFlags(t *testing.T) {
	key := &dns.DNSKEY{
		Flags:     0,
		Protocol:  3,
		Algorithm: 8,
		PublicKey: "abcd",
	}
	rec := parseDNSKEY(key)
	assert.Equal(t, "Unknown (flags=0)", rec.KeyType)
}

func TestValidationStatusClassification(t *testing.T) {
	tests := []struct {
		name     string
		dnskeys  int
		ds       int
		expected ValidationStatus
	}{
		{"both present", 1, 1, ValidationSecure},
		{"only dnskey", 1, 0, ValidationIndeterminate},
		{"only ds", 0, 1, ValidationIndeterminate},
		{"neither", 0, 0, ValidationInsecure},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			result := DNSSECResult{}
			for i := 0; i < tc.dnskeys; i++ {
				result.DNSKEYRecords = append(result.DNSKEYRecords, DNSKEYRecord{})
			}
			for i := 0; i < tc.ds; i++ {
				result.DSRecords = append(result.DSRecords, DSRecord{})
			}
			switch {
			case len(result.DNSKEYRecords) > 0 && len(result.DSRecords) > 0:
				result.ValidationStatus = ValidationSecure
			case len(result.DNSKEYRecords) > 0 || len(result.DSRecords) > 0:
				result.ValidationStatus = ValidationIndeterminate
			default:
				result.ValidationStatus = ValidationInsecure
			}
			assert.Equal(t, tc.expected, result.ValidationStatus)
		})
	}
}
