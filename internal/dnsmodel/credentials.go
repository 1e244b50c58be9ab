package dnsmodel

import "fmt"

// Credentials is a sum type over the per-provider credential shape.
// Exactly one of the embedded variants is populated, selected by Kind.
// Credentials round-trips through ToMap/CredentialsFromMap for storage
// compatibility.
type Credentials struct {
	Kind        ProviderKind
	Cloudflare  *CloudflareCredentials
	Aliyun      *AliyunCredentials
	DNSPod      *DNSPodCredentials
	HuaweiCloud *HuaweiCloudCredentials
}

// CloudflareCredentials carries a single opaque API token.
type CloudflareCredentials struct {
	APIToken string
}

// AliyunCredentials carries an access-key pair, the shape used for
// both the DNS and (in principle) private-zone Aliyun APIs.
type AliyunCredentials struct {
	AccessKeyID     string
	AccessKeySecret string
}

// DNSPodCredentials carries a Tencent Cloud secret-id/secret-key pair.
type DNSPodCredentials struct {
	SecretID  string
	SecretKey string
}

// HuaweiCloudCredentials carries a Huawei Cloud access-key pair plus
// the project id the DNS API calls are scoped to.
type HuaweiCloudCredentials struct {
	AccessKeyID     string
	SecretAccessKey string
	ProjectID       string
}

// ToMap converts c to a stable-field-name map, the storage-compatible
// shape persisted by the credential store and used by the v1→v2
// migration and the import/export envelope.
func (c Credentials) ToMap() map[string]string {
	m := map[string]string{"kind": string(c.Kind)}
	switch c.Kind {
	case ProviderCloudflare:
		if c.Cloudflare != nil {
			m["api_token"] = c.Cloudflare.APIToken
		}
	case ProviderAliyun:
		if c.Aliyun != nil {
			m["access_key_id"] = c.Aliyun.AccessKeyID
			m["access_key_secret"] = c.Aliyun.AccessKeySecret
		}
	case ProviderDNSPod:
		if c.DNSPod != nil {
			m["secret_id"] = c.DNSPod.SecretID
			m["secret_key"] = c.DNSPod.SecretKey
		}
	case ProviderHuaweiCloud:
		if c.HuaweiCloud != nil {
			m["access_key_id"] = c.HuaweiCloud.AccessKeyID
			m["secret_access_key"] = c.HuaweiCloud.SecretAccessKey
			m["project_id"] = c.HuaweiCloud.ProjectID
		}
	}
	return m
}

// CredentialsFromMap is the inverse of ToMap, used by the credential
// store's typed load path, the v1→v2 migration and import.
func CredentialsFromMap(kind ProviderKind, m map[string]string) (Credentials, error) {
	switch kind {
	case ProviderCloudflare:
		return Credentials{Kind: kind, Cloudflare: &CloudflareCredentials{APIToken: m["api_token"]}}, nil
	case ProviderAliyun:
		return Credentials{Kind: kind, Aliyun: &AliyunCredentials{
			AccessKeyID:     m["access_key_id"],
			AccessKeySecret: m["access_key_secret"],
		}}, nil
	case ProviderDNSPod:
		return Credentials{Kind: kind, DNSPod: &DNSPodCredentials{
			SecretID:  m["secret_id"],
			SecretKey: m["secret_key"],
		}}, nil
	case ProviderHuaweiCloud:
		return Credentials{Kind: kind, HuaweiCloud: &HuaweiCloudCredentials{
			AccessKeyID:     m["access_key_id"],
			SecretAccessKey: m["secret_access_key"],
			ProjectID:       m["project_id"],
		}}, nil
	default:
		return Credentials{}, fmt.Errorf("unknown provider kind %q", kind)
	}
}

// CredentialField describes one input field a front-end must collect
// to build a Credentials value for a given provider.
type CredentialField struct {
	Key         string
	Label       string
	FieldType   FieldType
	Placeholder string
	HelpText    string
}

// FieldType enumerates how a credential field should be rendered.
type FieldType int

const (
	FieldText FieldType = iota
	FieldPassword
)

// RequiredFields returns the credential field schema for kind, used by
// ProviderMetadata and by front-ends building a credential-entry form.
func RequiredFields(kind ProviderKind) []CredentialField {
	switch kind {
	case ProviderCloudflare:
		return []CredentialField{
			{Key: "api_token", Label: "API Token", FieldType: FieldPassword, HelpText: "Cloudflare API token with Zone:DNS edit permission"},
		}
	case ProviderAliyun:
		return []CredentialField{
			{Key: "access_key_id", Label: "Access Key ID", FieldType: FieldText},
			{Key: "access_key_secret", Label: "Access Key Secret", FieldType: FieldPassword},
		}
	case ProviderDNSPod:
		return []CredentialField{
			{Key: "secret_id", Label: "Secret ID", FieldType: FieldText},
			{Key: "secret_key", Label: "Secret Key", FieldType: FieldPassword},
		}
	case ProviderHuaweiCloud:
		return []CredentialField{
			{Key: "access_key_id", Label: "Access Key ID", FieldType: FieldText},
			{Key: "secret_access_key", Label: "Secret Access Key", FieldType: FieldPassword},
			{Key: "project_id", Label: "Project ID", FieldType: FieldText},
		}
	}
	return nil
}
