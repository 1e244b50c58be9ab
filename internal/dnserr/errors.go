// Package dnserr implements the unified provider error taxonomy.
// Every error produced by a provider adapter or the shared HTTP client
// carries the producing provider's id plus a kind-specific payload, so
// front-ends can branch on Kind() instead of matching strings, and log
// lines are self-describing.
package dnserr

import "fmt"

// Kind is the closed set of error kinds a provider adapter can
// produce. Unknown never silently drops information: the raw code and
// message are preserved.
type Kind string

const (
	KindNetworkError         Kind = "network_error"
	KindTimeout              Kind = "timeout"
	KindRateLimited          Kind = "rate_limited"
	KindInvalidCredentials   Kind = "invalid_credentials"
	KindPermissionDenied     Kind = "permission_denied"
	KindQuotaExceeded        Kind = "quota_exceeded"
	KindRecordExists         Kind = "record_exists"
	KindRecordNotFound       Kind = "record_not_found"
	KindDomainNotFound       Kind = "domain_not_found"
	KindDomainLocked         Kind = "domain_locked"
	KindInvalidParameter     Kind = "invalid_parameter"
	KindUnsupportedRecordType Kind = "unsupported_record_type"
	KindParseError           Kind = "parse_error"
	KindSerializationError   Kind = "serialization_error"
	KindStorageError         Kind = "storage_error"
	KindAccountNotFound      Kind = "account_not_found"
	KindImportExportError    Kind = "import_export_error"
	KindMigrationRequired    Kind = "migration_required"
	KindUnknown              Kind = "unknown"
)

// Error is the single error type every provider adapter, store and
// service returns. The constructors below (NetworkError, Timeout, ...,
// Unknown) are the only supported way to build one.
type Error struct {
	kind       Kind
	provider   string
	detail     string
	rawCode    string
	rawMessage string
	retryAfter int // seconds; 0 means "not specified"

	recordName string
	recordID   string
	domain     string
	param      string
}

func (e *Error) Kind() Kind { return e.kind }

// Provider returns the producing provider's stable id, possibly empty
// for errors raised outside any adapter (e.g. store errors).
func (e *Error) Provider() string { return e.provider }

func (e *Error) RetryAfterSeconds() int { return e.retryAfter }
func (e *Error) RawCode() string        { return e.rawCode }
func (e *Error) RawMessage() string     { return e.rawMessage }
func (e *Error) RecordName() string     { return e.recordName }
func (e *Error) RecordID() string       { return e.recordID }
func (e *Error) Domain() string         { return e.domain }
func (e *Error) Param() string          { return e.param }

// Error renders the provider-prefixed human string,
// e.g. "[aliyun] Record 'www' already exists".
func (e *Error) Error() string {
	msg := e.message()
	if e.provider == "" {
		return msg
	}
	return fmt.Sprintf("[%s] %s", e.provider, msg)
}

func (e *Error) message() string {
	switch e.kind {
	case KindRecordExists:
		if e.recordName != "" {
			return fmt.Sprintf("Record '%s' already exists", e.recordName)
		}
	case KindRecordNotFound:
		if e.recordID != "" {
			return fmt.Sprintf("Record '%s' not found", e.recordID)
		}
	case KindDomainNotFound:
		if e.domain != "" {
			return fmt.Sprintf("Domain '%s' not found", e.domain)
		}
	case KindDomainLocked:
		if e.domain != "" {
			return fmt.Sprintf("Domain '%s' is locked", e.domain)
		}
	case KindInvalidParameter:
		if e.param != "" {
			return fmt.Sprintf("invalid parameter '%s': %s", e.param, e.detail)
		}
	}
	if e.detail != "" {
		return e.detail
	}
	if e.rawMessage != "" {
		return e.rawMessage
	}
	return string(e.kind)
}

// IsRetryable reports whether the client may retry this error
// automatically: network errors, timeouts and rate limits
// only. Every other kind is terminal.
func (e *Error) IsRetryable() bool {
	switch e.kind {
	case KindNetworkError, KindTimeout, KindRateLimited:
		return true
	}
	return false
}

// IsExpected reports whether this error is "expected"
// (user-input, resource-absent, domain-locked) and should be
// logged at warn rather than error.
func (e *Error) IsExpected() bool {
	switch e.kind {
	case KindInvalidParameter, KindUnsupportedRecordType, KindRecordNotFound,
		KindDomainNotFound, KindDomainLocked, KindRecordExists, KindAccountNotFound,
		KindInvalidCredentials:
		return true
	}
	return false
}

// RawAPIError is the minimal shape every adapter's wire response
// parses down to before calling MapError.
type RawAPIError struct {
	Code    string
	Message string
}

// ErrorContext carries the per-request identifiers an adapter's
// MapError uses to enrich an Error.
type ErrorContext struct {
	RecordName string
	RecordID   string
	Domain     string
}

func NetworkError(provider, detail string) *Error {
	return &Error{kind: KindNetworkError, provider: provider, detail: detail}
}

func Timeout(provider, detail string) *Error {
	return &Error{kind: KindTimeout, provider: provider, detail: detail}
}

func RateLimited(provider string, retryAfter int) *Error {
	return &Error{kind: KindRateLimited, provider: provider, retryAfter: retryAfter}
}

func InvalidCredentials(provider, raw string) *Error {
	return &Error{kind: KindInvalidCredentials, provider: provider, rawMessage: raw}
}

func PermissionDenied(provider, raw string) *Error {
	return &Error{kind: KindPermissionDenied, provider: provider, rawMessage: raw}
}

func QuotaExceeded(provider, raw string) *Error {
	return &Error{kind: KindQuotaExceeded, provider: provider, rawMessage: raw}
}

func RecordExists(provider, recordName, raw string) *Error {
	return &Error{kind: KindRecordExists, provider: provider, recordName: recordName, rawMessage: raw}
}

func RecordNotFound(provider, recordID, raw string) *Error {
	return &Error{kind: KindRecordNotFound, provider: provider, recordID: recordID, rawMessage: raw}
}

func DomainNotFound(provider, domain, raw string) *Error {
	return &Error{kind: KindDomainNotFound, provider: provider, domain: domain, rawMessage: raw}
}

func DomainLocked(provider, domain, raw string) *Error {
	return &Error{kind: KindDomainLocked, provider: provider, domain: domain, rawMessage: raw}
}

func InvalidParameter(provider, param, detail string) *Error {
	return &Error{kind: KindInvalidParameter, provider: provider, param: param, detail: detail}
}

func UnsupportedRecordType(provider, recordType string) *Error {
	return &Error{kind: KindUnsupportedRecordType, provider: provider, detail: recordType}
}

func ParseError(provider, detail string) *Error {
	return &Error{kind: KindParseError, provider: provider, detail: detail}
}

func SerializationError(provider, detail string) *Error {
	return &Error{kind: KindSerializationError, provider: provider, detail: detail}
}

func StorageError(detail string) *Error {
	return &Error{kind: KindStorageError, detail: detail}
}

func AccountNotFound(accountID string) *Error {
	return &Error{kind: KindAccountNotFound, detail: fmt.Sprintf("account '%s' not found", accountID)}
}

func ImportExportError(detail string) *Error {
	return &Error{kind: KindImportExportError, detail: detail}
}

// MigrationRequired signals the credential store holds a v1-format
// file the migration service must upgrade before load_all can succeed.
func MigrationRequired() *Error {
	return &Error{kind: KindMigrationRequired, detail: "credential store requires migration"}
}

// Unknown is the total fallback: never drop a raw code/message.
func Unknown(provider, rawCode, rawMessage string) *Error {
	return &Error{kind: KindUnknown, provider: provider, rawCode: rawCode, rawMessage: rawMessage}
}
