package aliyun

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func fixedHeaders() map[string]string {
	return map[string]string{
		"host":                  apiHost,
		"x-acs-action":          "DescribeDomains",
		"x-acs-version":         apiVersion,
		"x-acs-date":            "2026-07-30T00:00:00Z",
		"x-acs-signature-nonce": "11111111-1111-1111-1111-111111111111",
		"x-acs-content-sha256":  sha256Hex([]byte(`{"PageNumber":1,"PageSize":1}`)),
	}
}

func TestSignACS3Deterministic(t *testing.T) {
	body := []byte(`{"PageNumber":1,"PageSize":1}`)
	a := signACS3(fixedHeaders(), body, "AKID", "secret")
	b := signACS3(fixedHeaders(), body, "AKID", "secret")
	assert.Equal(t, a, b)
}

func TestSignACS3SensitiveToSecret(t *testing.T) {
	body := []byte(`{"PageNumber":1,"PageSize":1}`)
	a := signACS3(fixedHeaders(), body, "AKID", "secret-one")
	b := signACS3(fixedHeaders(), body, "AKID", "secret-two")
	assert.NotEqual(t, a, b)
}

func TestSignACS3SensitiveToBody(t *testing.T) {
	headers := fixedHeaders()
	a := signACS3(headers, []byte(`{"PageNumber":1,"PageSize":1}`), "AKID", "secret")
	b := signACS3(headers, []byte(`{"PageNumber":2,"PageSize":1}`), "AKID", "secret")
	assert.NotEqual(t, a, b)
}

func TestSignACS3IncludesCredentialAndSignedHeaders(t *testing.T) {
	sig := signACS3(fixedHeaders(), []byte(`{}`), "AKID", "secret")
	assert.Contains(t, sig, "Credential=AKID")
	assert.Contains(t, sig, "SignedHeaders=host;x-acs-action;x-acs-content-sha256;x-acs-date;x-acs-signature-nonce;x-acs-version")
}
