// Package dnsmodel holds the data types shared by every service and
// provider adapter: account/credential/domain/record shapes, pagination,
// and batch-result wrappers. It depends on nothing but the standard
// library.
package dnsmodel

import "fmt"

// ProviderKind tags which cloud a credential, account or adapter belongs
// to. The string form is persisted on disk and used as the credential
// schema key, so it must never change once released.
type ProviderKind string

const (
	ProviderCloudflare  ProviderKind = "cloudflare"
	ProviderAliyun      ProviderKind = "aliyun"
	ProviderDNSPod      ProviderKind = "dnspod"
	ProviderHuaweiCloud ProviderKind = "huaweicloud"
)

// AllProviderKinds lists every supported provider in a stable order,
// used by front-ends to render a picker and by tests that iterate all
// kinds.
var AllProviderKinds = []ProviderKind{
	ProviderCloudflare,
	ProviderAliyun,
	ProviderDNSPod,
	ProviderHuaweiCloud,
}

// Valid reports whether k is one of the supported provider kinds.
func (k ProviderKind) Valid() bool {
	switch k {
	case ProviderCloudflare, ProviderAliyun, ProviderDNSPod, ProviderHuaweiCloud:
		return true
	}
	return false
}

func (k ProviderKind) String() string {
	return string(k)
}

// ParseProviderKind validates a raw string against the supported set.
func ParseProviderKind(s string) (ProviderKind, error) {
	k := ProviderKind(s)
	if !k.Valid() {
		return "", fmt.Errorf("unknown provider kind %q", s)
	}
	return k, nil
}
