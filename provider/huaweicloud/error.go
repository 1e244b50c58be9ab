package huaweicloud

import (
	"encoding/json"

	"github.com/ZnLuAr/dns-orchestrator-sub000/internal/dnserr"
)

// errorBody is the envelope Huawei's DNS/API-gateway errors share:
// either a top-level {error_code, error_msg} (DNS service errors) or
// the API-gateway's own {error_code, error_msg} shape on auth/routing
// failures — both use the same field names.
type errorBody struct {
	ErrorCode string `json:"error_code"`
	ErrorMsg  string `json:"error_msg"`
}

func parseError(body []byte, statusCode int) dnserr.RawAPIError {
	var e errorBody
	if err := json.Unmarshal(body, &e); err != nil || e.ErrorCode == "" {
		return dnserr.RawAPIError{Code: "", Message: string(body)}
	}
	return dnserr.RawAPIError{Code: e.ErrorCode, Message: e.ErrorMsg}
}

// mapError translates a Huawei Cloud DNS/API-gateway error code into
// the shared taxonomy. The table covers the documented codes split
// across APIGW.* (API-gateway-level auth/throttling) and DNS.*
// (DNS-service-level) namespaces.
func mapError(raw dnserr.RawAPIError, ctx dnserr.ErrorContext) *dnserr.Error {
	switch raw.Code {
	case "APIGW.0301", "APIGW.0101", "APIGW.0303", "APIGW.0305", "DNS.0005", "DNS.0013", "DNS.0040":
		return dnserr.InvalidCredentials(id, raw.Message)

	case "APIGW.0302", "APIGW.0306", "DNS.0030", "DNS.1802":
		return dnserr.PermissionDenied(id, raw.Message)

	case "DNS.0403", "DNS.0404", "DNS.0405", "DNS.0408", "DNS.0409", "DNS.0021", "DNS.2002":
		return dnserr.QuotaExceeded(id, raw.Message)

	case "APIGW.0308":
		return dnserr.RateLimited(id, 0)

	case "DNS.0312", "DNS.0335", "DNS.0016":
		return dnserr.RecordExists(id, ctx.RecordName, raw.Message)

	case "DNS.0313", "DNS.0004":
		return dnserr.RecordNotFound(id, ctx.RecordID, raw.Message)

	case "DNS.0302", "DNS.0101", "DNS.1206":
		return dnserr.DomainNotFound(id, ctx.Domain, raw.Message)

	case "DNS.0213", "DNS.0214", "DNS.0209", "DNS.2003", "DNS.2005", "DNS.2006":
		return dnserr.DomainLocked(id, ctx.Domain, raw.Message)

	case "DNS.0303", "DNS.0319":
		return dnserr.InvalidParameter(id, "ttl", raw.Message)
	case "DNS.0307":
		return dnserr.InvalidParameter(id, "type", raw.Message)
	case "DNS.0308":
		return dnserr.InvalidParameter(id, "value", raw.Message)
	case "DNS.0304", "DNS.0202":
		return dnserr.InvalidParameter(id, "name", raw.Message)
	case "DNS.0321":
		return dnserr.InvalidParameter(id, "subdomain", raw.Message)
	case "DNS.0323":
		return dnserr.InvalidParameter(id, "weight", raw.Message)
	case "DNS.0806", "DNS.1601", "DNS.1602", "DNS.1604":
		return dnserr.InvalidParameter(id, "line", raw.Message)
	case "DNS.1702", "DNS.1704", "DNS.1706", "DNS.1707":
		return dnserr.InvalidParameter(id, "line_group", raw.Message)
	case "DNS.0309":
		return dnserr.InvalidParameter(id, "record_id", raw.Message)
	case "DNS.0206", "DNS.0305":
		return dnserr.InvalidParameter(id, "description", raw.Message)

	case "APIGW.0201", "DNS.0012", "DNS.0015", "DNS.0022", "DNS.0036":
		return dnserr.NetworkError(id, raw.Message)
	}
	return dnserr.Unknown(id, raw.Code, raw.Message)
}
