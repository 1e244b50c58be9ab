package factory

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ZnLuAr/dns-orchestrator-sub000/internal/dnsmodel"
)

func TestNewBuildsProviderForEachKnownKind(t *testing.T) {
	cases := []dnsmodel.Credentials{
		{Kind: dnsmodel.ProviderCloudflare, Cloudflare: &dnsmodel.CloudflareCredentials{APIToken: "tok"}},
		{Kind: dnsmodel.ProviderAliyun, Aliyun: &dnsmodel.AliyunCredentials{AccessKeyID: "ak", AccessKeySecret: "sk"}},
		{Kind: dnsmodel.ProviderDNSPod, DNSPod: &dnsmodel.DNSPodCredentials{SecretID: "id", SecretKey: "key"}},
		{Kind: dnsmodel.ProviderHuaweiCloud, HuaweiCloud: &dnsmodel.HuaweiCloudCredentials{AccessKeyID: "ak", SecretAccessKey: "sk", ProjectID: "p"}},
	}
	for _, creds := range cases {
		p, err := New("acct-1", creds)
		require.NoError(t, err, "kind %s", creds.Kind)
		assert.Equal(t, "acct-1", p.ID(), "kind %s", creds.Kind)
	}
}

func TestNewRejectsMismatchedVariant(t *testing.T) {
	_, err := New("acct-1", dnsmodel.Credentials{Kind: dnsmodel.ProviderCloudflare})
	assert.Error(t, err)
}

func TestNewRejectsUnknownKind(t *testing.T) {
	_, err := New("acct-1", dnsmodel.Credentials{Kind: "not-a-kind"})
	assert.Error(t, err)
}
