package dnspod

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

const fixedTimestamp = 1705305600 // 2024-01-15 08:00:00 UTC

func TestSignTC3OutputFormat(t *testing.T) {
	sig := signTC3("DescribeRecordList", []byte("{}"), "id", "key", fixedTimestamp)
	assert.True(t, len(sig) > 0 && sig[:len("TC3-HMAC-SHA256")] == "TC3-HMAC-SHA256")
	assert.Contains(t, sig, "Credential=")
	assert.Contains(t, sig, "SignedHeaders=content-type;host;x-tc-action")
	assert.Contains(t, sig, "Signature=")
}

func TestSignTC3CredentialContainsSecretIDAndDate(t *testing.T) {
	sig := signTC3("DescribeRecordList", []byte("{}"), "test_secret_id", "test_secret_key", fixedTimestamp)
	assert.Contains(t, sig, "Credential=test_secret_id/2024-01-15/dnspod/tc3_request")
}

func TestSignTC3Deterministic(t *testing.T) {
	a := signTC3("DescribeRecordList", []byte(`{"Domain":"example.com"}`), "id", "key", fixedTimestamp)
	b := signTC3("DescribeRecordList", []byte(`{"Domain":"example.com"}`), "id", "key", fixedTimestamp)
	assert.Equal(t, a, b)
}

func TestSignTC3DifferentActionChangesSignature(t *testing.T) {
	a := signTC3("DescribeRecordList", []byte("{}"), "id", "key", fixedTimestamp)
	b := signTC3("CreateRecord", []byte("{}"), "id", "key", fixedTimestamp)
	assert.NotEqual(t, a, b)
}

func TestSignTC3DifferentPayloadChangesSignature(t *testing.T) {
	a := signTC3("DescribeRecordList", []byte(`{"Domain":"a.com"}`), "id", "key", fixedTimestamp)
	b := signTC3("DescribeRecordList", []byte(`{"Domain":"b.com"}`), "id", "key", fixedTimestamp)
	assert.NotEqual(t, a, b)
}

func TestSignTC3DifferentSecretChangesSignature(t *testing.T) {
	a := signTC3("DescribeRecordList", []byte("{}"), "id", "key_alpha", fixedTimestamp)
	b := signTC3("DescribeRecordList", []byte("{}"), "id", "key_beta", fixedTimestamp)
	assert.NotEqual(t, a, b)
}

func TestSignTC3DateDerivedFromTimestamp(t *testing.T) {
	morning := signTC3("DescribeRecordList", []byte("{}"), "id", "key", 1705305600)  // 2024-01-15 08:00 UTC
	evening := signTC3("DescribeRecordList", []byte("{}"), "id", "key", 1705348800)  // 2024-01-15 20:00 UTC
	nextDay := signTC3("DescribeRecordList", []byte("{}"), "id", "key", 1705392000)  // 2024-01-16 08:00 UTC

	assert.Contains(t, morning, "2024-01-15/dnspod/tc3_request")
	assert.Contains(t, evening, "2024-01-15/dnspod/tc3_request")
	assert.Contains(t, nextDay, "2024-01-16/dnspod/tc3_request")
}
