package toolbox

import (
	"context"
	"encoding/base64"
	"encoding/hex"
	"fmt"
	"strings"
	"time"

	"github.com/miekg/dns"

	"github.com/ZnLuAr/dns-orchestrator-sub000/internal/dnserr"
)

// algorithmName maps a DNSSEC algorithm number to its RFC 8624 name.
func algorithmName(algorithm uint8) string {
	switch algorithm {
	case 1:
		return "RSA/MD5 (deprecated)"
	case 3:
		return "DSA/SHA-1 (deprecated)"
	case 5:
		return "RSA/SHA-1"
	case 6:
		return "DSA-NSEC3-SHA1 (deprecated)"
	case 7:
		return "RSASHA1-NSEC3-SHA1"
	case 8:
		return "RSA/SHA-256"
	case 10:
		return "RSA/SHA-512"
	case 12:
		return "GOST R 34.10-2001"
	case 13:
		return "ECDSAP256SHA256"
	case 14:
		return "ECDSAP384SHA384"
	case 15:
		return "Ed25519"
	case 16:
		return "Ed448"
	default:
		return fmt.Sprintf("Unknown (%d)", algorithm)
	}
}

// digestTypeName maps an RFC 4034 DS digest type number to its name.
func digestTypeName(digestType uint8) string {
	switch digestType {
	case 1:
		return "SHA-1"
	case 2:
		return "SHA-256"
	case 3:
		return "GOST R 34.11-94"
	case 4:
		return "SHA-384"
	default:
		return fmt.Sprintf("Unknown (%d)", digestType)
	}
}

// DNSSECCheck queries DNSKEY, DS and RRSIG (via the SOA owner) for
// domain and classifies the deployment as secure, indeterminate or
// insecure. Unlike a validating resolver, miekg/dns performs no
// signature validation itself: "secure" here means both DNSKEY and DS
// records were found, not that a chain of trust was cryptographically
// verified.
func DNSSECCheck(ctx context.Context, domain, nameserver string) (DNSSECResult, error) {
	addr, label, err := resolveNameserver(nameserver)
	if err != nil {
		return DNSSECResult{}, err
	}

	start := time.Now()
	client := &dns.Client{Timeout: queryTimeout}

	result := DNSSECResult{Domain: domain, Nameserver: label}

	if dnskeyResp, err := exchangeType(ctx, client, addr, domain, dns.TypeDNSKEY); err == nil {
		result.DNSSECEnabled = true
		for _, rr := range dnskeyResp.Answer {
			if key, ok := rr.(*dns.DNSKEY); ok {
				result.DNSKEYRecords = append(result.DNSKEYRecords, parseDNSKEY(key))
			}
		}
	}

	if dsResp, err := exchangeType(ctx, client, addr, domain, dns.TypeDS); err == nil {
		result.DNSSECEnabled = true
		for _, rr := range dsResp.Answer {
			if ds, ok := rr.(*dns.DS); ok {
				result.DSRecords = append(result.DSRecords, parseDS(ds))
			}
		}
	}

	if soaResp, err := exchangeType(ctx, client, addr, domain, dns.TypeSOA); err == nil {
		for _, rr := range soaResp.Answer {
			if sig, ok := rr.(*dns.RRSIG); ok {
				result.DNSSECEnabled = true
				result.RRSIGRecords = append(result.RRSIGRecords, parseRRSIG(sig))
			}
		}
	}

	switch {
	case len(result.DNSKEYRecords) > 0 && len(result.DSRecords) > 0:
		result.ValidationStatus = ValidationSecure
	case len(result.DNSKEYRecords) > 0 || len(result.DSRecords) > 0:
		result.ValidationStatus = ValidationIndeterminate
	default:
		result.ValidationStatus = ValidationInsecure
	}

	result.ResponseTimeMs = time.Since(start).Milliseconds()
	return result, nil
}

func exchangeType(ctx context.Context, client *dns.Client, addr, domain string, qtype uint16) (*dns.Msg, error) {
	msg := new(dns.Msg)
	msg.SetQuestion(dns.Fqdn(domain), qtype)
	msg.SetEdns0(4096, true)
	resp, _, err := client.ExchangeContext(ctx, msg, addr)
	if err != nil {
		return nil, dnserr.NetworkError("", err.Error())
	}
	if resp.Rcode != dns.RcodeSuccess {
		return nil, dnserr.NetworkError("", fmt.Sprintf("query failed with rcode %s", dns.RcodeToString[resp.Rcode]))
	}
	return resp, nil
}

func parseDNSKEY(key *dns.DNSKEY) DNSKEYRecord {
	keyType := "ZSK"
	if key.Flags&dns.SEP != 0 {
		keyType = "KSK"
	} else if key.Flags&dns.ZONE == 0 {
		keyType = fmt.Sprintf("Unknown (flags=%d)", key.Flags)
	}

	return DNSKEYRecord{
		Flags:         key.Flags,
		Protocol:      key.Protocol,
		Algorithm:     key.Algorithm,
		AlgorithmName: algorithmName(key.Algorithm),
		PublicKey:     key.PublicKey,
		KeyTag:        key.KeyTag(),
		KeyType:       keyType,
	}
}

func parseDS(ds *dns.DS) DSRecord {
	return DSRecord{
		KeyTag:         ds.KeyTag,
		Algorithm:      ds.Algorithm,
		AlgorithmName:  algorithmName(ds.Algorithm),
		DigestType:     ds.DigestType,
		DigestTypeName: digestTypeName(ds.DigestType),
		Digest:         strings.ToLower(hex.EncodeToString(mustHexDecodeUpper(ds.Digest))),
	}
}

// mustHexDecodeUpper normalizes miekg/dns's uppercase hex Digest field
// to raw bytes so it can be re-encoded consistently lowercase; an
// undecodable digest is passed through as-is rather than dropped.
func mustHexDecodeUpper(digest string) []byte {
	raw, err := hex.DecodeString(digest)
	if err != nil {
		return []byte(digest)
	}
	return raw
}

func parseRRSIG(sig *dns.RRSIG) RRSIGRecord {
	return RRSIGRecord{
		TypeCovered:         dns.TypeToString[sig.TypeCovered],
		Algorithm:           sig.Algorithm,
		AlgorithmName:       algorithmName(sig.Algorithm),
		Labels:              sig.Labels,
		OriginalTTL:         sig.OrigTtl,
		SignatureExpiration: formatRRSIGTime(sig.Expiration),
		SignatureInception:  formatRRSIGTime(sig.Inception),
		KeyTag:              sig.KeyTag,
		SignerName:          strings.TrimSuffix(sig.SignerName, "."),
		Signature:           reencodeSignatureBase64(sig.Signature),
	}
}

func formatRRSIGTime(t uint32) string {
	return time.Unix(int64(t), 0).UTC().Format("2006-01-02 15:04:05 UTC")
}

// reencodeSignatureBase64 normalizes miekg/dns's own Base64 signature
// string into the same alphabet/padding the rest of this package uses.
func reencodeSignatureBase64(sig string) string {
	raw, err := base64.StdEncoding.DecodeString(sig)
	if err != nil {
		return sig
	}
	return base64.StdEncoding.EncodeToString(raw)
}
