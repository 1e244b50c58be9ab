package dnspod

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/ZnLuAr/dns-orchestrator-sub000/internal/dnserr"
)

func TestMapErrorAuthFailureCodes(t *testing.T) {
	for _, code := range []string{"AuthFailure", "AuthFailure.InvalidSecretId", "InvalidParameter.LoginTokenNotExists"} {
		err := mapError(dnserr.RawAPIError{Code: code, Message: "auth failed"}, dnserr.ErrorContext{})
		assert.Equal(t, dnserr.KindInvalidCredentials, err.Kind(), "code %s", code)
	}
}

func TestMapErrorQuotaCodes(t *testing.T) {
	for _, code := range []string{"LimitExceeded", "LimitExceeded.AAAACountLimit", "RequestLimitExceeded.IPLimitExceeded"} {
		err := mapError(dnserr.RawAPIError{Code: code, Message: "quota hit"}, dnserr.ErrorContext{})
		assert.Equal(t, dnserr.KindQuotaExceeded, err.Kind(), "code %s", code)
	}
}

func TestMapErrorRateLimitCodes(t *testing.T) {
	for _, code := range []string{"RequestLimitExceeded", "FailedOperation.FrequencyLimit", "InvalidParameter.OperationIsTooFrequent"} {
		err := mapError(dnserr.RawAPIError{Code: code, Message: "slow down"}, dnserr.ErrorContext{})
		assert.Equal(t, dnserr.KindRateLimited, err.Kind(), "code %s", code)
	}
}

func TestMapErrorRecordExists(t *testing.T) {
	err := mapError(dnserr.RawAPIError{Code: "InvalidParameter.DomainRecordExist", Message: "dup"}, dnserr.ErrorContext{RecordName: "www"})
	assert.Equal(t, dnserr.KindRecordExists, err.Kind())
	assert.Equal(t, "www", err.RecordName())
}

func TestMapErrorDomainNotFoundCodes(t *testing.T) {
	for _, code := range []string{"ResourceNotFound.NoDataOfDomain", "InvalidParameterValue.DomainNotExists"} {
		err := mapError(dnserr.RawAPIError{Code: code, Message: "no domain"}, dnserr.ErrorContext{Domain: "example.com"})
		assert.Equal(t, dnserr.KindDomainNotFound, err.Kind(), "code %s", code)
		assert.Equal(t, "example.com", err.Domain())
	}
}

func TestMapErrorDomainLockedCodes(t *testing.T) {
	for _, code := range []string{"FailedOperation.DomainIsLocked", "FailedOperation.DomainIsSpam"} {
		err := mapError(dnserr.RawAPIError{Code: code, Message: "locked"}, dnserr.ErrorContext{Domain: "example.com"})
		assert.Equal(t, dnserr.KindDomainLocked, err.Kind(), "code %s", code)
	}
}

func TestMapErrorPermissionDeniedCodes(t *testing.T) {
	for _, code := range []string{"OperationDenied", "UnauthorizedOperation", "FailedOperation.NotDomainOwner"} {
		err := mapError(dnserr.RawAPIError{Code: code, Message: "denied"}, dnserr.ErrorContext{})
		assert.Equal(t, dnserr.KindPermissionDenied, err.Kind(), "code %s", code)
	}
}

func TestMapErrorInvalidParameterCodes(t *testing.T) {
	cases := map[string]string{
		"InvalidParameter.RecordLineInvalid": "line",
		"InvalidParameter.RecordTypeInvalid": "type",
		"InvalidParameter.RecordValueInvalid": "value",
		"InvalidParameter.SubdomainInvalid":   "subdomain",
		"LimitExceeded.RecordTtlLimit":        "ttl",
		"InvalidParameter.MxInvalid":          "mx",
		"InvalidParameter.DomainIdInvalid":    "domain",
		"InvalidParameter.RecordIdInvalid":    "record_id",
	}
	for code, param := range cases {
		err := mapError(dnserr.RawAPIError{Code: code, Message: "bad"}, dnserr.ErrorContext{})
		assert.Equal(t, dnserr.KindInvalidParameter, err.Kind(), "code %s", code)
		assert.Equal(t, param, err.Param(), "code %s", code)
	}
}

func TestMapErrorUnknownCodePreservesRawCode(t *testing.T) {
	err := mapError(dnserr.RawAPIError{Code: "SomeNewError.NeverSeenBefore", Message: "surprise"}, dnserr.ErrorContext{})
	assert.Equal(t, dnserr.KindUnknown, err.Kind())
	assert.Equal(t, "SomeNewError.NeverSeenBefore", err.RawCode())
}

func TestParseErrorExtractsCodeAndMessage(t *testing.T) {
	body := []byte(`{"Response":{"Error":{"Code":"InvalidParameter.DomainInvalid","Message":"bad domain"},"RequestId":"abc"}}`)
	raw := parseError(body, 200)
	assert.Equal(t, "InvalidParameter.DomainInvalid", raw.Code)
	assert.Equal(t, "bad domain", raw.Message)
}

func TestParseErrorNoErrorField(t *testing.T) {
	body := []byte(`{"Response":{"RequestId":"abc"}}`)
	raw := parseError(body, 200)
	assert.Equal(t, "", raw.Code)
}
