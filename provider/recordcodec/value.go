package recordcodec

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/ZnLuAr/dns-orchestrator-sub000/internal/dnserr"
	"github.com/ZnLuAr/dns-orchestrator-sub000/internal/dnsmodel"
)

// ParseRecordDataWithPriority builds a dnsmodel.RecordData from the
// traditional (type, value, priority) triple most wire APIs still use
// (Aliyun, DNSPod). provider names the caller for error-context
// purposes only.
func ParseRecordDataWithPriority(recordType dnsmodel.RecordType, value string, priority int, provider string) (dnsmodel.RecordData, error) {
	switch recordType {
	case dnsmodel.TypeA:
		return dnsmodel.RecordData{Type: recordType, A: &dnsmodel.ARecord{Address: value}}, nil
	case dnsmodel.TypeAAAA:
		return dnsmodel.RecordData{Type: recordType, AAAA: &dnsmodel.AAAARecord{Address: value}}, nil
	case dnsmodel.TypeCNAME:
		return dnsmodel.RecordData{Type: recordType, CNAME: &dnsmodel.CNAMERecord{Target: value}}, nil
	case dnsmodel.TypeTXT:
		return dnsmodel.RecordData{Type: recordType, TXT: &dnsmodel.TXTRecord{Value: value}}, nil
	case dnsmodel.TypeNS:
		return dnsmodel.RecordData{Type: recordType, NS: &dnsmodel.NSRecord{Nameserver: value}}, nil
	case dnsmodel.TypeMX:
		return dnsmodel.RecordData{Type: recordType, MX: &dnsmodel.MXRecord{Priority: uint16(priority), Exchange: value}}, nil
	case dnsmodel.TypeSRV:
		return parseSRVValue(value, priority)
	case dnsmodel.TypeCAA:
		return parseCAAValue(value)
	default:
		return dnsmodel.RecordData{}, dnserr.UnsupportedRecordType(provider, string(recordType))
	}
}

// RecordDataToValuePriority is the inverse of
// ParseRecordDataWithPriority: given a RecordData, returns the wire
// (value, priority) pair most adapters submit.
func RecordDataToValuePriority(d dnsmodel.RecordData) (value string, priority int) {
	switch d.Type {
	case dnsmodel.TypeA:
		return d.A.Address, 0
	case dnsmodel.TypeAAAA:
		return d.AAAA.Address, 0
	case dnsmodel.TypeCNAME:
		return d.CNAME.Target, 0
	case dnsmodel.TypeTXT:
		return d.TXT.Value, 0
	case dnsmodel.TypeNS:
		return d.NS.Nameserver, 0
	case dnsmodel.TypeMX:
		return d.MX.Exchange, int(d.MX.Priority)
	case dnsmodel.TypeSRV:
		return fmt.Sprintf("%d %d %s", d.SRV.Weight, d.SRV.Port, d.SRV.Target), int(d.SRV.Priority)
	case dnsmodel.TypeCAA:
		return fmt.Sprintf("%d %s %q", d.CAA.Flags, d.CAA.Tag, d.CAA.Value), 0
	}
	return "", 0
}

// RecordDataToSingleString encodes d the way Huawei's wire format
// requires: one string per record, with MX/SRV/CAA folding
// priority/weight/flags into the string itself, e.g. MX
// "10 mail.example.com".
func RecordDataToSingleString(d dnsmodel.RecordData) (string, error) {
	switch d.Type {
	case dnsmodel.TypeA:
		return d.A.Address, nil
	case dnsmodel.TypeAAAA:
		return d.AAAA.Address, nil
	case dnsmodel.TypeCNAME:
		return d.CNAME.Target, nil
	case dnsmodel.TypeTXT:
		return d.TXT.Value, nil
	case dnsmodel.TypeNS:
		return d.NS.Nameserver, nil
	case dnsmodel.TypeMX:
		return fmt.Sprintf("%d %s", d.MX.Priority, d.MX.Exchange), nil
	case dnsmodel.TypeSRV:
		return fmt.Sprintf("%d %d %d %s", d.SRV.Priority, d.SRV.Weight, d.SRV.Port, d.SRV.Target), nil
	case dnsmodel.TypeCAA:
		return fmt.Sprintf("%d %s %s", d.CAA.Flags, d.CAA.Tag, d.CAA.Value), nil
	default:
		return "", dnserr.UnsupportedRecordType("huaweicloud", string(d.Type))
	}
}

// ParseSingleStringRecord is the inverse of RecordDataToSingleString.
func ParseSingleStringRecord(recordType dnsmodel.RecordType, raw string) (dnsmodel.RecordData, error) {
	raw = strings.TrimSpace(raw)
	switch recordType {
	case dnsmodel.TypeA:
		return dnsmodel.RecordData{Type: recordType, A: &dnsmodel.ARecord{Address: raw}}, nil
	case dnsmodel.TypeAAAA:
		return dnsmodel.RecordData{Type: recordType, AAAA: &dnsmodel.AAAARecord{Address: raw}}, nil
	case dnsmodel.TypeCNAME:
		return dnsmodel.RecordData{Type: recordType, CNAME: &dnsmodel.CNAMERecord{Target: raw}}, nil
	case dnsmodel.TypeTXT:
		return dnsmodel.RecordData{Type: recordType, TXT: &dnsmodel.TXTRecord{Value: raw}}, nil
	case dnsmodel.TypeNS:
		return dnsmodel.RecordData{Type: recordType, NS: &dnsmodel.NSRecord{Nameserver: raw}}, nil
	case dnsmodel.TypeMX:
		fields := strings.SplitN(raw, " ", 2)
		if len(fields) != 2 {
			return dnsmodel.RecordData{}, dnserr.ParseError("huaweicloud", fmt.Sprintf("malformed MX record %q", raw))
		}
		prio, err := strconv.Atoi(fields[0])
		if err != nil {
			return dnsmodel.RecordData{}, dnserr.ParseError("huaweicloud", fmt.Sprintf("malformed MX priority in %q: %v", raw, err))
		}
		return dnsmodel.RecordData{Type: recordType, MX: &dnsmodel.MXRecord{Priority: uint16(prio), Exchange: fields[1]}}, nil
	case dnsmodel.TypeSRV:
		fields := strings.SplitN(raw, " ", 4)
		if len(fields) != 4 {
			return dnsmodel.RecordData{}, dnserr.ParseError("huaweicloud", fmt.Sprintf("malformed SRV record %q", raw))
		}
		prio, err1 := strconv.Atoi(fields[0])
		weight, err2 := strconv.Atoi(fields[1])
		port, err3 := strconv.Atoi(fields[2])
		if err1 != nil || err2 != nil || err3 != nil {
			return dnsmodel.RecordData{}, dnserr.ParseError("huaweicloud", fmt.Sprintf("malformed SRV fields in %q", raw))
		}
		return dnsmodel.RecordData{Type: recordType, SRV: &dnsmodel.SRVRecord{
			Priority: uint16(prio), Weight: uint16(weight), Port: uint16(port), Target: fields[3],
		}}, nil
	case dnsmodel.TypeCAA:
		fields := strings.SplitN(raw, " ", 3)
		if len(fields) != 3 {
			return dnsmodel.RecordData{}, dnserr.ParseError("huaweicloud", fmt.Sprintf("malformed CAA record %q", raw))
		}
		flags, err := strconv.Atoi(fields[0])
		if err != nil {
			return dnsmodel.RecordData{}, dnserr.ParseError("huaweicloud", fmt.Sprintf("malformed CAA flags in %q: %v", raw, err))
		}
		return dnsmodel.RecordData{Type: recordType, CAA: &dnsmodel.CAARecord{
			Flags: uint8(flags), Tag: fields[1], Value: strings.Trim(fields[2], `"`),
		}}, nil
	default:
		return dnsmodel.RecordData{}, dnserr.UnsupportedRecordType("huaweicloud", string(recordType))
	}
}

func parseSRVValue(value string, priority int) (dnsmodel.RecordData, error) {
	fields := strings.SplitN(strings.TrimSpace(value), " ", 3)
	if len(fields) != 3 {
		return dnsmodel.RecordData{}, dnserr.ParseError("", fmt.Sprintf("malformed SRV value %q", value))
	}
	weight, err1 := strconv.Atoi(fields[0])
	port, err2 := strconv.Atoi(fields[1])
	if err1 != nil || err2 != nil {
		return dnsmodel.RecordData{}, dnserr.ParseError("", fmt.Sprintf("malformed SRV weight/port in %q", value))
	}
	return dnsmodel.RecordData{Type: dnsmodel.TypeSRV, SRV: &dnsmodel.SRVRecord{
		Priority: uint16(priority), Weight: uint16(weight), Port: uint16(port), Target: fields[2],
	}}, nil
}

func parseCAAValue(value string) (dnsmodel.RecordData, error) {
	fields := strings.SplitN(strings.TrimSpace(value), " ", 3)
	if len(fields) != 3 {
		return dnsmodel.RecordData{}, dnserr.ParseError("", fmt.Sprintf("malformed CAA value %q", value))
	}
	flags, err := strconv.Atoi(fields[0])
	if err != nil {
		return dnsmodel.RecordData{}, dnserr.ParseError("", fmt.Sprintf("malformed CAA flags in %q: %v", value, err))
	}
	return dnsmodel.RecordData{Type: dnsmodel.TypeCAA, CAA: &dnsmodel.CAARecord{
		Flags: uint8(flags), Tag: fields[1], Value: strings.Trim(fields[2], `"`),
	}}, nil
}
