package toolbox

import (
	"context"
	"crypto/tls"
	"crypto/x509"
	"net"
	"net/http"
	"strconv"
	"strings"
	"time"
)

const (
	// tlsDialTimeout bounds the TCP connect and the TLS handshake
	// together: it is net.Dialer's own Timeout field, which
	// tls.DialWithDialer enforces across both phases before returning.
	tlsDialTimeout   = 5 * time.Second
	httpProbeTimeout = 3 * time.Second
)

// SSLCheck opens a TLS connection to domain:port, inspects the leaf
// certificate and chain, and falls back to a plain HTTP HEAD probe
// when the TLS handshake fails so a plaintext server can still be
// distinguished from one that is unreachable entirely.
func SSLCheck(ctx context.Context, domain string, port int) (SSLCheckResult, error) {
	if port == 0 {
		port = 443
	}
	result := SSLCheckResult{Domain: domain, Port: port}

	dialer := &net.Dialer{Timeout: tlsDialTimeout}
	tlsConn, err := tls.DialWithDialer(dialer, "tcp", net.JoinHostPort(domain, strconv.Itoa(port)), &tls.Config{
		ServerName: domain,
	})
	if err != nil {
		return probeHTTPFallback(ctx, domain, result)
	}
	defer tlsConn.Close()

	state := tlsConn.ConnectionState()
	if len(state.PeerCertificates) == 0 {
		return probeHTTPFallback(ctx, domain, result)
	}

	result.ConnectionStatus = ConnectionHTTPS
	result.CertInfo = buildCertInfo(domain, state.PeerCertificates)
	return result, nil
}

func probeHTTPFallback(ctx context.Context, domain string, result SSLCheckResult) (SSLCheckResult, error) {
	client := &http.Client{Timeout: httpProbeTimeout}
	req, err := http.NewRequestWithContext(ctx, http.MethodHead, "http://"+domain+"/", nil)
	if err != nil {
		result.ConnectionStatus = ConnectionFailed
		result.Error = err.Error()
		return result, nil
	}
	resp, err := client.Do(req)
	if err != nil {
		result.ConnectionStatus = ConnectionFailed
		result.Error = err.Error()
		return result, nil
	}
	resp.Body.Close()
	result.ConnectionStatus = ConnectionHTTP
	return result, nil
}

func buildCertInfo(queried string, chain []*x509.Certificate) *CertInfo {
	leaf := chain[0]

	certDomain := leaf.Subject.CommonName
	if certDomain == "" && len(leaf.DNSNames) > 0 {
		certDomain = leaf.DNSNames[0]
	}
	if certDomain == "" {
		certDomain = queried
	}

	now := time.Now()
	isExpired := now.After(leaf.NotAfter)
	daysRemaining := int64(leaf.NotAfter.Sub(now).Hours() / 24)

	info := &CertInfo{
		Domain:             certDomain,
		Issuer:             leaf.Issuer.String(),
		Subject:            leaf.Subject.String(),
		ValidFrom:          leaf.NotBefore.UTC().Format("2006-01-02 15:04:05 UTC"),
		ValidTo:            leaf.NotAfter.UTC().Format("2006-01-02 15:04:05 UTC"),
		DaysRemaining:      daysRemaining,
		IsExpired:          isExpired,
		SAN:                leaf.DNSNames,
		SerialNumber:       leaf.SerialNumber.String(),
		SignatureAlgorithm: leaf.SignatureAlgorithm.String(),
	}

	domainMatches := matchesDomain(queried, leaf.Subject.CommonName)
	for _, san := range leaf.DNSNames {
		if matchesDomain(queried, san) {
			domainMatches = true
			break
		}
	}
	info.IsValid = !isExpired && domainMatches

	for _, cert := range chain[1:] {
		info.CertificateChain = append(info.CertificateChain, CertChainItem{
			Subject:  cert.Subject.String(),
			Issuer:   cert.Issuer.String(),
			NotAfter: cert.NotAfter.UTC().Format("2006-01-02 15:04:05 UTC"),
		})
	}

	return info
}

// matchesDomain implements the certificate-name matching rule: an
// exact match always passes; a wildcard pattern like *.example.com
// matches exactly one label (foo.example.com) but never the bare apex
// (example.com) and never a deeper subdomain (a.b.example.com).
// Comparison is case-insensitive.
func matchesDomain(queried, pattern string) bool {
	queried = strings.ToLower(strings.TrimSuffix(queried, "."))
	pattern = strings.ToLower(strings.TrimSuffix(pattern, "."))

	if queried == pattern {
		return true
	}
	if !strings.HasPrefix(pattern, "*.") {
		return false
	}

	suffix := pattern[1:] // ".example.com"
	if !strings.HasSuffix(queried, suffix) {
		return false
	}
	prefix := strings.TrimSuffix(queried, suffix)
	return prefix != "" && !strings.Contains(prefix, ".")
}
