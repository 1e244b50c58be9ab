package toolbox

import (
	"context"
	"fmt"
	"net"
	"sort"
	"strings"
	"time"

	"github.com/miekg/dns"
	"golang.org/x/sync/errgroup"

	"github.com/ZnLuAr/dns-orchestrator-sub000/internal/dnserr"
)

// publicResolvers is the built-in list of public resolvers a
// propagation check fans out against, each tagged with its region so
// results can be read as a rough geographic consistency picture.
var publicResolvers = []PropagationServer{
	{Name: "Google DNS", IP: "8.8.8.8", Region: "US", CountryCode: "NA"},
	{Name: "Cloudflare DNS", IP: "1.1.1.1", Region: "US", CountryCode: "NA"},
	{Name: "Quad9 DNS", IP: "9.9.9.9", Region: "US", CountryCode: "NA"},
	{Name: "Level3 DNS", IP: "4.2.2.2", Region: "US", CountryCode: "NA"},
	{Name: "Cloudflare Europe", IP: "1.0.0.1", Region: "EU", CountryCode: "EU"},
	{Name: "Quad9 Europe", IP: "149.112.112.112", Region: "EU", CountryCode: "EU"},
	{Name: "Google Europe", IP: "8.8.4.4", Region: "EU", CountryCode: "EU"},
	{Name: "Alibaba DNS", IP: "223.5.5.5", Region: "CN", CountryCode: "Asia"},
	{Name: "Tencent DNS", IP: "119.29.29.29", Region: "CN", CountryCode: "Asia"},
	{Name: "DNSPod", IP: "119.28.28.28", Region: "CN", CountryCode: "Asia"},
	{Name: "OpenDNS", IP: "208.67.222.222", Region: "US", CountryCode: "NA"},
	{Name: "AdGuard DNS", IP: "94.140.14.14", Region: "EU", CountryCode: "EU"},
	{Name: "Telstra Corporation Ltd", IP: "139.130.4.4", Region: "AU", CountryCode: "Oceania"},
}

const propagationQueryTimeout = 5 * time.Second

// DNSPropagationCheck queries every built-in public resolver in
// parallel for domain/recordType and reports how consistent the
// answers are across them.
func DNSPropagationCheck(ctx context.Context, domain, recordType string) (PropagationResult, error) {
	upper := strings.ToUpper(recordType)
	if _, ok := dns.StringToType[upper]; !ok {
		return PropagationResult{}, dnserr.InvalidParameter("", "record_type", fmt.Sprintf("unsupported record type: %s", recordType))
	}

	start := time.Now()
	results := make([]PropagationServerResult, len(publicResolvers))

	g, gctx := errgroup.WithContext(ctx)
	for i, server := range publicResolvers {
		i, server := i, server
		g.Go(func() error {
			results[i] = queryPropagationServer(gctx, server, domain, upper)
			return nil
		})
	}
	_ = g.Wait()

	consistency, unique := calculateConsistency(results)

	return PropagationResult{
		Domain:                domain,
		RecordType:            upper,
		Results:               results,
		TotalTimeMs:           time.Since(start).Milliseconds(),
		ConsistencyPercentage: consistency,
		UniqueValues:          unique,
	}, nil
}

func queryPropagationServer(ctx context.Context, server PropagationServer, domain, recordType string) PropagationServerResult {
	start := time.Now()
	result := PropagationServerResult{Server: server}

	queryCtx, cancel := context.WithTimeout(ctx, propagationQueryTimeout)
	defer cancel()

	records, err := queryOne(queryCtx, net.JoinHostPort(server.IP, "53"), domain, recordType)
	result.ResponseTimeMs = time.Since(start).Milliseconds()
	if err != nil {
		if queryCtx.Err() != nil {
			result.Status = PropagationTimeout
		} else {
			result.Status = PropagationError
		}
		result.Error = err.Error()
		return result
	}

	result.Status = PropagationSuccess
	result.Records = records
	return result
}

// calculateConsistency groups successful results by their sorted
// "value:priority" signature (TTL is ignored, since it legitimately
// drifts between resolvers even when propagation is complete) and
// reports what fraction of successful responders agree on the most
// common signature.
func calculateConsistency(results []PropagationServerResult) (percentage float64, uniqueValues []string) {
	counts := make(map[string]int)
	var successful int

	for _, r := range results {
		if r.Status != PropagationSuccess {
			continue
		}
		successful++
		counts[signatureOf(r.Records)]++
	}

	if successful == 0 {
		return 0, nil
	}

	var maxCount int
	for key, count := range counts {
		uniqueValues = append(uniqueValues, key)
		if count > maxCount {
			maxCount = count
		}
	}
	sort.Strings(uniqueValues)

	percentage = (float64(maxCount) / float64(successful)) * 100
	return percentage, uniqueValues
}

func signatureOf(records []LookupRecord) string {
	parts := make([]string, 0, len(records))
	for _, r := range records {
		priority := uint16(0)
		if r.Priority != nil {
			priority = *r.Priority
		}
		parts = append(parts, fmt.Sprintf("%s:%d", r.Value, priority))
	}
	sort.Strings(parts)
	return strings.Join(parts, ",")
}
