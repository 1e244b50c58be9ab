package dnsmodel

// DomainStatus is the zone-level status surfaced by list/get domain.
type DomainStatus string

const (
	DomainActive  DomainStatus = "active"
	DomainPaused  DomainStatus = "paused"
	DomainPending DomainStatus = "pending"
	DomainErrored DomainStatus = "error"
	DomainUnknown DomainStatus = "unknown"
)

// ProviderDomain is a zone as seen through the uniform interface. Id is
// provider-opaque: Cloudflare uses the zone UUID, Aliyun the domain
// name itself, DNSPod a numeric string or the domain name, Huawei a
// zone UUID.
type ProviderDomain struct {
	ID          string
	Name        string
	Provider    ProviderKind
	Status      DomainStatus
	RecordCount *int
}
