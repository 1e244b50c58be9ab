package dnsmodel

import "time"

// RecordType enumerates the record kinds the engine understands.
type RecordType string

const (
	TypeA     RecordType = "A"
	TypeAAAA  RecordType = "AAAA"
	TypeCNAME RecordType = "CNAME"
	TypeMX    RecordType = "MX"
	TypeTXT   RecordType = "TXT"
	TypeNS    RecordType = "NS"
	TypeSRV   RecordType = "SRV"
	TypeCAA   RecordType = "CAA"
)

// SupportedRecordTypes lists every RecordType the engine round-trips.
var SupportedRecordTypes = []RecordType{TypeA, TypeAAAA, TypeCNAME, TypeMX, TypeTXT, TypeNS, TypeSRV, TypeCAA}

func (t RecordType) Valid() bool {
	for _, s := range SupportedRecordTypes {
		if s == t {
			return true
		}
	}
	return false
}

// RecordData is a sum type over the strongly-typed per-record-type
// payload. Exactly one of the pointer fields matching Type is
// populated. This replaces the traditional (type, content, priority)
// triple; per-provider encode/decode helpers live in
// provider/recordcodec.
type RecordData struct {
	Type  RecordType
	A     *ARecord
	AAAA  *AAAARecord
	CNAME *CNAMERecord
	MX    *MXRecord
	TXT   *TXTRecord
	NS    *NSRecord
	SRV   *SRVRecord
	CAA   *CAARecord
}

type ARecord struct{ Address string }
type AAAARecord struct{ Address string }
type CNAMERecord struct{ Target string }
type TXTRecord struct{ Value string }
type NSRecord struct{ Nameserver string }

type MXRecord struct {
	Priority uint16
	Exchange string
}

type SRVRecord struct {
	Priority uint16
	Weight   uint16
	Port     uint16
	Target   string
}

type CAARecord struct {
	Flags uint8
	Tag   string
	Value string
}

// Equal reports whether two RecordData values describe the same
// record, used by the round-trip property test.
func (d RecordData) Equal(o RecordData) bool {
	if d.Type != o.Type {
		return false
	}
	switch d.Type {
	case TypeA:
		return d.A != nil && o.A != nil && *d.A == *o.A
	case TypeAAAA:
		return d.AAAA != nil && o.AAAA != nil && *d.AAAA == *o.AAAA
	case TypeCNAME:
		return d.CNAME != nil && o.CNAME != nil && *d.CNAME == *o.CNAME
	case TypeTXT:
		return d.TXT != nil && o.TXT != nil && *d.TXT == *o.TXT
	case TypeNS:
		return d.NS != nil && o.NS != nil && *d.NS == *o.NS
	case TypeMX:
		return d.MX != nil && o.MX != nil && *d.MX == *o.MX
	case TypeSRV:
		return d.SRV != nil && o.SRV != nil && *d.SRV == *o.SRV
	case TypeCAA:
		return d.CAA != nil && o.CAA != nil && *d.CAA == *o.CAA
	}
	return false
}

// DnsRecord is a DNS record as seen through the uniform interface.
// Name is relative to the zone; "@" denotes the apex. Proxied is
// only meaningful for Cloudflare.
type DnsRecord struct {
	ID        string
	DomainID  string
	Name      string
	TTL       int
	Data      RecordData
	Proxied   *bool
	CreatedAt *time.Time
	UpdatedAt *time.Time
}

// CreateRecordRequest is the input to Provider.CreateRecord / batch
// create.
type CreateRecordRequest struct {
	DomainID string
	Name     string
	TTL      int
	Data     RecordData
	Proxied  *bool
}

// UpdateRecordRequest is a partial update applied to an existing
// record; nil fields are left unchanged. DomainID is carried alongside
// the record id because several wire APIs (Cloudflare, Huawei) require
// the zone identifier to address an update, even though the engine's
// uniform operation is keyed on the record id alone.
type UpdateRecordRequest struct {
	DomainID string
	Name     *string
	TTL      *int
	Data     *RecordData
	Proxied  *bool
}
