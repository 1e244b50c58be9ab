package toolbox

import (
	"context"
	"fmt"
	"net"
	"strings"
	"time"

	"github.com/miekg/dns"
	"golang.org/x/sync/errgroup"

	"github.com/ZnLuAr/dns-orchestrator-sub000/internal/dnserr"
)

// queryTimeout bounds every single-type DNS query issued by this
// package.
const queryTimeout = 5 * time.Second

var allLookupTypes = []string{"A", "AAAA", "CNAME", "MX", "TXT", "NS", "SOA", "SRV", "CAA", "PTR"}

// resolveNameserver turns an optional user-supplied nameserver IP into
// a dial address, falling back to the host's configured resolvers from
// /etc/resolv.conf when nameserver is empty.
func resolveNameserver(nameserver string) (addr, label string, err error) {
	if nameserver != "" {
		ip := net.ParseIP(nameserver)
		if ip == nil {
			return "", "", dnserr.InvalidParameter("", "nameserver", fmt.Sprintf("invalid DNS server address: %s", nameserver))
		}
		return net.JoinHostPort(nameserver, "53"), nameserver, nil
	}

	cfg, err := dns.ClientConfigFromFile("/etc/resolv.conf")
	if err != nil || len(cfg.Servers) == 0 {
		return "", "", dnserr.NetworkError("", "no system resolver configured")
	}
	return net.JoinHostPort(cfg.Servers[0], cfg.Port), strings.Join(cfg.Servers, ", "), nil
}

// DNSLookup performs a single DNS query (or, for "ALL", one query per
// type fanned out concurrently) against either the system resolver or
// a single user-supplied nameserver, flattening every answer into a
// uniform record list.
func DNSLookup(ctx context.Context, domain, recordType, nameserver string) (LookupResult, error) {
	addr, label, err := resolveNameserver(nameserver)
	if err != nil {
		return LookupResult{}, err
	}

	upper := strings.ToUpper(recordType)
	if upper == "ALL" {
		results := make([][]LookupRecord, len(allLookupTypes))
		g, gctx := errgroup.WithContext(ctx)
		for i, t := range allLookupTypes {
			i, t := i, t
			g.Go(func() error {
				records, err := queryOne(gctx, addr, domain, t)
				if err != nil {
					return nil // a single type's failure never aborts ALL
				}
				results[i] = records
				return nil
			})
		}
		_ = g.Wait()

		var records []LookupRecord
		for _, r := range results {
			records = append(records, r...)
		}
		return LookupResult{Nameserver: label, Records: records}, nil
	}

	if _, ok := dns.StringToType[upper]; !ok {
		return LookupResult{}, dnserr.InvalidParameter("", "record_type", fmt.Sprintf("unsupported record type: %s", recordType))
	}
	records, err := queryOne(ctx, addr, domain, upper)
	if err != nil {
		return LookupResult{}, err
	}
	return LookupResult{Nameserver: label, Records: records}, nil
}

func queryOne(ctx context.Context, addr, domain, recordType string) ([]LookupRecord, error) {
	qtype, ok := dns.StringToType[recordType]
	if !ok {
		return nil, dnserr.InvalidParameter("", "record_type", "unsupported record type: "+recordType)
	}

	msg := new(dns.Msg)
	msg.SetQuestion(dns.Fqdn(domain), qtype)
	msg.RecursionDesired = true

	client := &dns.Client{Timeout: queryTimeout}
	resp, _, err := client.ExchangeContext(ctx, msg, addr)
	if err != nil {
		return nil, dnserr.NetworkError("", err.Error())
	}
	if resp.Rcode != dns.RcodeSuccess {
		return nil, dnserr.NetworkError("", fmt.Sprintf("query failed with rcode %s", dns.RcodeToString[resp.Rcode]))
	}

	var records []LookupRecord
	for _, rr := range resp.Answer {
		rec, ok := flattenRR(domain, recordType, rr)
		if ok {
			records = append(records, rec)
		}
	}
	return records, nil
}

func flattenRR(queried, recordType string, rr dns.RR) (LookupRecord, bool) {
	base := LookupRecord{Type: recordType, Name: queried, TTL: rr.Header().Ttl}

	switch v := rr.(type) {
	case *dns.A:
		base.Value = v.A.String()
	case *dns.AAAA:
		base.Value = v.AAAA.String()
	case *dns.MX:
		pref := v.Preference
		base.Value = strings.TrimSuffix(v.Mx, ".")
		base.Priority = &pref
	case *dns.TXT:
		base.Value = strings.Join(v.Txt, "")
	case *dns.NS:
		base.Value = strings.TrimSuffix(v.Ns, ".")
	case *dns.CNAME:
		base.Value = strings.TrimSuffix(v.Target, ".")
	case *dns.SOA:
		base.Value = fmt.Sprintf("%s %s %d %d %d %d %d",
			strings.TrimSuffix(v.Ns, "."), strings.TrimSuffix(v.Mbox, "."),
			v.Serial, v.Refresh, v.Retry, v.Expire, v.Minttl)
	case *dns.SRV:
		pref := v.Priority
		base.Value = fmt.Sprintf("%d %d %s", v.Weight, v.Port, strings.TrimSuffix(v.Target, "."))
		base.Priority = &pref
	case *dns.CAA:
		base.Value = fmt.Sprintf("%d %s %q", v.Flag, v.Tag, v.Value)
	case *dns.PTR:
		base.Value = strings.TrimSuffix(v.Ptr, ".")
	default:
		return LookupRecord{}, false
	}
	return base, true
}
