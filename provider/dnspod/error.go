package dnspod

import (
	"encoding/json"

	"github.com/ZnLuAr/dns-orchestrator-sub000/internal/dnserr"
)

// wireResponse is the common Tencent Cloud response envelope; every
// DNSPod action nests its payload under Response, and errors replace
// the payload fields with an Error object.
type wireResponse struct {
	Response struct {
		Error *wireError `json:"Error"`
	} `json:"Response"`
}

type wireError struct {
	Code    string `json:"Code"`
	Message string `json:"Message"`
}

func parseError(body []byte, _ int) dnserr.RawAPIError {
	var resp wireResponse
	if err := json.Unmarshal(body, &resp); err != nil || resp.Response.Error == nil {
		return dnserr.RawAPIError{}
	}
	return dnserr.RawAPIError{Code: resp.Response.Error.Code, Message: resp.Response.Error.Message}
}

// mapError implements the DNSPod error-code table. See
// https://cloud.tencent.com/document/api/1427/56192 for the canonical
// list.
func mapError(raw dnserr.RawAPIError, ctx dnserr.ErrorContext) *dnserr.Error {
	switch raw.Code {
	case "AuthFailure",
		"AuthFailure.InvalidAuthorization",
		"AuthFailure.InvalidSecretId",
		"AuthFailure.MFAFailure",
		"AuthFailure.SecretIdNotFound",
		"AuthFailure.SignatureExpire",
		"AuthFailure.SignatureFailure",
		"AuthFailure.TokenFailure",
		"AuthFailure.UnauthorizedOperation",
		"InvalidParameter.InvalidSecretId",
		"InvalidParameter.InvalidSignature",
		"InvalidParameter.PermissionDenied",
		"InvalidParameter.LoginTokenIdError",
		"InvalidParameter.LoginTokenNotExists",
		"InvalidParameter.LoginTokenValidateFailed":
		return dnserr.InvalidCredentials(id, raw.Message)

	case "LimitExceeded",
		"LimitExceeded.AAAACountLimit",
		"LimitExceeded.AtNsRecordLimit",
		"LimitExceeded.CustomLineLimited",
		"LimitExceeded.DomainAliasCountExceeded",
		"LimitExceeded.DomainAliasNumberLimit",
		"LimitExceeded.FailedLoginLimitExceeded",
		"LimitExceeded.GroupNumberLimit",
		"LimitExceeded.HiddenUrlExceeded",
		"LimitExceeded.NsCountLimit",
		"LimitExceeded.OffsetExceeded",
		"LimitExceeded.SrvCountLimit",
		"LimitExceeded.SubdomainLevelLimit",
		"LimitExceeded.SubdomainRollLimit",
		"LimitExceeded.SubdomainWcardLimit",
		"LimitExceeded.UrlCountLimit",
		"RequestLimitExceeded.GlobalRegionUinLimitExceeded",
		"RequestLimitExceeded.IPLimitExceeded",
		"RequestLimitExceeded.UinLimitExceeded",
		"RequestLimitExceeded.BatchTaskLimit",
		"RequestLimitExceeded.CreateDomainLimit":
		return dnserr.QuotaExceeded(id, raw.Message)

	case "RequestLimitExceeded",
		"RequestLimitExceeded.RequestLimitExceeded",
		"FailedOperation.FrequencyLimit",
		"InvalidParameter.OperationIsTooFrequent":
		return dnserr.RateLimited(id, 0)

	case "InvalidParameter.DomainRecordExist":
		return dnserr.RecordExists(id, ctx.RecordName, raw.Message)

	case "ResourceNotFound.NoDataOfDomain", "InvalidParameterValue.DomainNotExists":
		return dnserr.DomainNotFound(id, ctx.Domain, raw.Message)

	case "FailedOperation.DomainIsLocked",
		"FailedOperation.DomainIsSpam",
		"FailedOperation.AccountIsLocked",
		"InvalidParameter.UserAlreadyLocked",
		"InvalidParameter.DomainIsNotlocked",
		"InvalidParameter.DomainNotAllowedLock":
		return dnserr.DomainLocked(id, ctx.Domain, raw.Message)

	case "OperationDenied",
		"OperationDenied.AccessDenied",
		"OperationDenied.DomainOwnerAllowedOnly",
		"OperationDenied.NoPermissionToOperateDomain",
		"OperationDenied.NotAdmin",
		"OperationDenied.NotAgent",
		"OperationDenied.NotGrantedByOwner",
		"OperationDenied.NotManagedUser",
		"OperationDenied.NotOrderOwner",
		"OperationDenied.NotResourceOwner",
		"OperationDenied.AgentDenied",
		"OperationDenied.AgentSubordinateDenied",
		"UnauthorizedOperation",
		"FailedOperation.NotDomainOwner",
		"FailedOperation.NotResourceOwner",
		"FailedOperation.NotBatchTaskOwner",
		"InvalidParameter.NoAuthorityToSrcDomain",
		"InvalidParameter.NoAuthorityToTheGroup":
		return dnserr.PermissionDenied(id, raw.Message)

	case "InvalidParameter.RecordLineInvalid", "InvalidParameter.LineNotExist":
		return dnserr.InvalidParameter(id, "line", raw.Message)

	case "InvalidParameter.RecordTypeInvalid":
		return dnserr.InvalidParameter(id, "type", raw.Message)

	case "InvalidParameter.RecordValueInvalid", "InvalidParameter.RecordValueLengthInvalid":
		return dnserr.InvalidParameter(id, "value", raw.Message)

	case "InvalidParameter.SubdomainInvalid":
		return dnserr.InvalidParameter(id, "subdomain", raw.Message)

	case "LimitExceeded.RecordTtlLimit":
		return dnserr.InvalidParameter(id, "ttl", raw.Message)

	case "InvalidParameter.MxInvalid":
		return dnserr.InvalidParameter(id, "mx", raw.Message)

	case "InvalidParameter.DomainIdInvalid",
		"InvalidParameter.DomainInvalid",
		"InvalidParameter.DomainTooLong",
		"InvalidParameter.DomainTypeInvalid":
		return dnserr.InvalidParameter(id, "domain", raw.Message)

	case "InvalidParameter.RecordIdInvalid":
		return dnserr.InvalidParameter(id, "record_id", raw.Message)

	default:
		return dnserr.Unknown(id, raw.Code, raw.Message)
	}
}
