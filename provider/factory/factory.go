// Package factory instantiates a provider.Provider for a given
// ProviderKind and credential set. It is the one place allowed to
// import every concrete adapter package, so the account, migration
// and import/export services, which all need to
// turn persisted Credentials back into a live Provider, depend only
// on this package and never on a specific cloud adapter.
package factory

import (
	"fmt"

	"github.com/ZnLuAr/dns-orchestrator-sub000/internal/dnsmodel"
	"github.com/ZnLuAr/dns-orchestrator-sub000/provider"
	"github.com/ZnLuAr/dns-orchestrator-sub000/provider/aliyun"
	"github.com/ZnLuAr/dns-orchestrator-sub000/provider/cloudflare"
	"github.com/ZnLuAr/dns-orchestrator-sub000/provider/dnspod"
	"github.com/ZnLuAr/dns-orchestrator-sub000/provider/huaweicloud"
)

// New builds the live Provider for accountID's credentials. creds.Kind
// must match one of the populated variant pointers; a mismatch
// is a caller bug, not a runtime condition, so it returns a plain
// error rather than a dnserr.Error.
func New(accountID string, creds dnsmodel.Credentials) (provider.Provider, error) {
	switch creds.Kind {
	case dnsmodel.ProviderCloudflare:
		if creds.Cloudflare == nil {
			return nil, fmt.Errorf("credentials kind %q missing cloudflare fields", creds.Kind)
		}
		p, err := cloudflare.New(accountID, *creds.Cloudflare)
		if err != nil {
			return nil, err
		}
		return p, nil
	case dnsmodel.ProviderAliyun:
		if creds.Aliyun == nil {
			return nil, fmt.Errorf("credentials kind %q missing aliyun fields", creds.Kind)
		}
		return aliyun.New(accountID, *creds.Aliyun), nil
	case dnsmodel.ProviderDNSPod:
		if creds.DNSPod == nil {
			return nil, fmt.Errorf("credentials kind %q missing dnspod fields", creds.Kind)
		}
		return dnspod.New(accountID, *creds.DNSPod), nil
	case dnsmodel.ProviderHuaweiCloud:
		if creds.HuaweiCloud == nil {
			return nil, fmt.Errorf("credentials kind %q missing huaweicloud fields", creds.Kind)
		}
		return huaweicloud.New(accountID, *creds.HuaweiCloud), nil
	default:
		return nil, fmt.Errorf("unknown provider kind %q", creds.Kind)
	}
}
