package toolbox

import (
	"context"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/ZnLuAr/dns-orchestrator-sub000/internal/dnserr"
)

// LookupDocument is the outcome of a generic user-configured GET used
// by WhoisLookup and IPGeoLookup: it carries the raw response body
// alongside the URL, status code, response time and fetch time;
// response headers are not included.
type LookupDocument struct {
	URL            string
	StatusCode     int
	ResponseTimeMs int64
	Body           string
	FetchedAt      time.Time
}

// WhoisLookup fetches rdapURL (a caller-supplied RDAP endpoint, e.g.
// an RDAP bootstrap server for the target's TLD).
func WhoisLookup(ctx context.Context, rdapURL string) (LookupDocument, error) {
	return fetchDocument(ctx, rdapURL)
}

// IPGeoLookup fetches geoURL (a caller-supplied IP-geolocation API
// endpoint).
func IPGeoLookup(ctx context.Context, geoURL string) (LookupDocument, error) {
	return fetchDocument(ctx, geoURL)
}

func fetchDocument(ctx context.Context, url string) (LookupDocument, error) {
	ctx, cancel := context.WithTimeout(ctx, headerOverallTimeout)
	defer cancel()

	if !strings.HasPrefix(url, "http://") && !strings.HasPrefix(url, "https://") {
		url = "https://" + url
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return LookupDocument{}, dnserr.InvalidParameter("", "url", err.Error())
	}

	start := time.Now()
	resp, err := headerHTTPClient.Do(req)
	if err != nil {
		return LookupDocument{}, dnserr.NetworkError("", "HTTP request failed: "+err.Error())
	}
	defer resp.Body.Close()
	elapsed := time.Since(start)

	body, _ := io.ReadAll(io.LimitReader(resp.Body, 1<<20))

	return LookupDocument{
		URL:            url,
		StatusCode:     resp.StatusCode,
		ResponseTimeMs: elapsed.Milliseconds(),
		Body:           string(body),
		FetchedAt:      time.Now().UTC(),
	}, nil
}
