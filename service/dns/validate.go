package dns

import (
	"regexp"

	"github.com/ZnLuAr/dns-orchestrator-sub000/internal/dnserr"
)

// TTL bounds follow RFC 2181 §8 (a 32-bit unsigned field, treated as
// invalid above the signed range by most resolvers); no adapter
// accepts 0, so the practical minimum is 1.
const (
	minTTL = 1
	maxTTL = 2147483647
)

// nameCharset allows the apex marker, labels of letters/digits/
// hyphen/underscore separated by dots — the superset every adapter's
// wire format accepts.
var nameCharset = regexp.MustCompile(`^(@|[A-Za-z0-9_](?:[A-Za-z0-9_-]*[A-Za-z0-9_])?(\.[A-Za-z0-9_](?:[A-Za-z0-9_-]*[A-Za-z0-9_])?)*)$`)

// validateTTL rejects an out-of-bounds ttl before any adapter is
// touched.
func validateTTL(ttl int) error {
	if ttl < minTTL || ttl > maxTTL {
		return dnserr.InvalidParameter("", "ttl", "ttl must be between 1 and 2147483647")
	}
	return nil
}

// validateName rejects a record name outside the charset every
// adapter's wire format accepts.
func validateName(name string) error {
	if name == "" || len(name) > 253 || !nameCharset.MatchString(name) {
		return dnserr.InvalidParameter("", "name", "record name contains characters no provider accepts")
	}
	return nil
}
