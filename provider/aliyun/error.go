package aliyun

import (
	"encoding/json"

	"github.com/ZnLuAr/dns-orchestrator-sub000/internal/dnserr"
)

// errorBody is the envelope every Aliyun RPC error response shares,
// regardless of action.
type errorBody struct {
	Code      string `json:"Code"`
	Message   string `json:"Message"`
	RequestID string `json:"RequestId"`
}

func parseError(body []byte, statusCode int) dnserr.RawAPIError {
	var e errorBody
	if err := json.Unmarshal(body, &e); err != nil || e.Code == "" {
		return dnserr.RawAPIError{Code: "", Message: string(body)}
	}
	return dnserr.RawAPIError{Code: e.Code, Message: e.Message}
}

// mapError translates an Aliyun error code into the shared taxonomy,
// covering the codes documented for the alidns API
// (InvalidAccessKeyId, SignatureDoesNotMatch, Throttling.User,
// DomainRecordDuplicate, ...).
func mapError(raw dnserr.RawAPIError, ctx dnserr.ErrorContext) *dnserr.Error {
	switch raw.Code {
	case "InvalidAccessKeyId.NotFound", "InvalidAccessKeyId", "SignatureDoesNotMatch", "IncompleteSignature":
		return dnserr.InvalidCredentials(id, raw.Message)
	case "Forbidden.RAM", "NoPermission":
		return dnserr.PermissionDenied(id, raw.Message)
	case "Throttling.User", "Throttling", "ServiceUnavailable":
		return dnserr.RateLimited(id, 0)
	case "QuotaExceeded.Record", "DomainRecordCountExceedLimit":
		return dnserr.QuotaExceeded(id, raw.Message)
	case "DomainRecordDuplicate":
		return dnserr.RecordExists(id, ctx.RecordName, raw.Message)
	case "RecordNotExist", "InvalidRecordId.NotFound", "RecordIdNotExist":
		return dnserr.RecordNotFound(id, ctx.RecordID, raw.Message)
	case "InvalidDomainName.NoExist", "DomainNotExist", "InvalidDomainName.Invalid":
		return dnserr.DomainNotFound(id, ctx.Domain, raw.Message)
	case "DomainForbidden", "DomainLocked":
		return dnserr.DomainLocked(id, ctx.Domain, raw.Message)
	case "InvalidRR.Invalid", "InvalidType.Malformed", "InvalidTTL.Malformed", "InvalidParameter", "InvalidValue.Malformed":
		return dnserr.InvalidParameter(id, "", raw.Message)
	}
	return dnserr.Unknown(id, raw.Code, raw.Message)
}
