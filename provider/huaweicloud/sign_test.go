package huaweicloud

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func fixedHeaders(date string) map[string]string {
	return map[string]string{
		"host":         apiHost,
		"x-sdk-date":   date,
		"content-type": "application/json",
	}
}

func TestSignSDKHMACOutputFormat(t *testing.T) {
	sig := signSDKHMAC("GET", "/v2/zones", "", fixedHeaders("20240115T080000Z"), nil, "ak", "sk")
	assert.True(t, len(sig) > 0 && sig[:len("SDK-HMAC-SHA256")] == "SDK-HMAC-SHA256")
	assert.Contains(t, sig, "Access=ak")
	assert.Contains(t, sig, "SignedHeaders=content-type;host;x-sdk-date")
	assert.Contains(t, sig, "Signature=")
}

func TestSignSDKHMACDeterministic(t *testing.T) {
	a := signSDKHMAC("POST", "/v2/zones/z1/recordsets", "", fixedHeaders("20240115T080000Z"), []byte(`{"name":"www"}`), "ak", "sk")
	b := signSDKHMAC("POST", "/v2/zones/z1/recordsets", "", fixedHeaders("20240115T080000Z"), []byte(`{"name":"www"}`), "ak", "sk")
	assert.Equal(t, a, b)
}

func TestSignSDKHMACDifferentBodyChangesSignature(t *testing.T) {
	a := signSDKHMAC("POST", "/v2/zones/z1/recordsets", "", fixedHeaders("20240115T080000Z"), []byte(`{"name":"a"}`), "ak", "sk")
	b := signSDKHMAC("POST", "/v2/zones/z1/recordsets", "", fixedHeaders("20240115T080000Z"), []byte(`{"name":"b"}`), "ak", "sk")
	assert.NotEqual(t, a, b)
}

func TestSignSDKHMACDifferentSecretChangesSignature(t *testing.T) {
	a := signSDKHMAC("GET", "/v2/zones", "", fixedHeaders("20240115T080000Z"), nil, "ak", "sk_alpha")
	b := signSDKHMAC("GET", "/v2/zones", "", fixedHeaders("20240115T080000Z"), nil, "ak", "sk_beta")
	assert.NotEqual(t, a, b)
}

func TestSignSDKHMACDifferentQueryChangesSignature(t *testing.T) {
	a := signSDKHMAC("GET", "/v2/zones", "limit=1", fixedHeaders("20240115T080000Z"), nil, "ak", "sk")
	b := signSDKHMAC("GET", "/v2/zones", "limit=2", fixedHeaders("20240115T080000Z"), nil, "ak", "sk")
	assert.NotEqual(t, a, b)
}

func TestCanonicalizeHeadersOmitsMissing(t *testing.T) {
	_, signed := canonicalizeHeaders(map[string]string{"host": apiHost, "x-sdk-date": "20240115T080000Z"})
	assert.Equal(t, "host;x-sdk-date", signed)
}
