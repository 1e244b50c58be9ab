package toolbox

import (
	"context"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/ZnLuAr/dns-orchestrator-sub000/internal/dnserr"
)

const (
	headerRequestTimeout = 10 * time.Second
	headerOverallTimeout = 15 * time.Second
)

var requiredSecurityHeaders = []string{
	"strict-transport-security",
	"x-frame-options",
	"x-content-type-options",
	"content-security-policy",
}

var recommendedSecurityHeaders = []string{
	"referrer-policy",
	"permissions-policy",
	"x-xss-protection",
}

var headerRecommendations = map[string]string{
	"strict-transport-security": "Add HSTS header to enforce HTTPS connections",
	"x-frame-options":           "Add to prevent clickjacking attacks",
	"x-content-type-options":    "Set to 'nosniff' to prevent MIME type sniffing",
	"content-security-policy":   "Add CSP header to prevent XSS attacks",
	"referrer-policy":           "Set Referrer-Policy to control referrer information",
	"permissions-policy":        "Set Permissions-Policy to restrict browser features",
	"x-xss-protection":          "Add to enable browser XSS filter",
}

var headerHTTPClient = &http.Client{
	Timeout: headerRequestTimeout,
	CheckRedirect: func(req *http.Request, via []*http.Request) error {
		if len(via) >= 5 {
			return http.ErrUseLastResponse
		}
		return nil
	},
}

// HTTPHeaderCheck issues a configurable HTTP request against req.URL
// and returns its response headers alongside a security-header audit.
func HTTPHeaderCheck(ctx context.Context, req HTTPHeaderCheckRequest) (HTTPHeaderCheckResult, error) {
	ctx, cancel := context.WithTimeout(ctx, headerOverallTimeout)
	defer cancel()

	url := req.URL
	if !strings.HasPrefix(url, "http://") && !strings.HasPrefix(url, "https://") {
		url = "https://" + url
	}

	method := string(req.Method)
	if method == "" {
		method = string(MethodGET)
	}

	var bodyReader io.Reader
	if req.Body != "" {
		bodyReader = strings.NewReader(req.Body)
	}

	httpReq, err := http.NewRequestWithContext(ctx, method, url, bodyReader)
	if err != nil {
		return HTTPHeaderCheckResult{}, dnserr.InvalidParameter("", "url", err.Error())
	}

	for _, h := range req.CustomHeaders {
		if h.Name != "" && h.Value != "" {
			httpReq.Header.Set(h.Name, h.Value)
		}
	}
	if req.Body != "" && req.ContentType != "" {
		httpReq.Header.Set("Content-Type", req.ContentType)
	}

	start := time.Now()
	resp, err := headerHTTPClient.Do(httpReq)
	if err != nil {
		return HTTPHeaderCheckResult{}, dnserr.NetworkError("", "HTTP request failed: "+err.Error())
	}
	defer resp.Body.Close()
	elapsed := time.Since(start)

	body, _ := io.ReadAll(io.LimitReader(resp.Body, 1<<20))

	var headers []HTTPHeaderField
	for name, values := range resp.Header {
		headers = append(headers, HTTPHeaderField{Name: name, Value: strings.Join(values, ", ")})
	}

	result := HTTPHeaderCheckResult{
		URL:              url,
		StatusCode:       resp.StatusCode,
		StatusText:       http.StatusText(resp.StatusCode),
		ResponseTimeMs:   elapsed.Milliseconds(),
		Headers:          headers,
		SecurityAnalysis: analyzeSecurityHeaders(headers),
		ContentLength:    int64(len(body)),
		FetchedAt:        time.Now().UTC(),
	}
	return result, nil
}

func analyzeSecurityHeaders(headers []HTTPHeaderField) []SecurityHeaderAnalysis {
	var analysis []SecurityHeaderAnalysis

	for _, name := range requiredSecurityHeaders {
		value, found := findHeader(headers, name)
		entry := SecurityHeaderAnalysis{Name: name, Present: found, Value: value}
		if found {
			entry.Status = SecurityGood
		} else {
			entry.Status = SecurityMissing
			entry.Recommendation = recommendationFor(name)
		}
		analysis = append(analysis, entry)
	}

	for _, name := range recommendedSecurityHeaders {
		value, found := findHeader(headers, name)
		entry := SecurityHeaderAnalysis{Name: name, Present: found, Value: value}
		if found {
			entry.Status = SecurityGood
		} else {
			entry.Status = SecurityWarning
			entry.Recommendation = recommendationFor(name)
		}
		analysis = append(analysis, entry)
	}

	return analysis
}

func findHeader(headers []HTTPHeaderField, name string) (value string, found bool) {
	for _, h := range headers {
		if strings.EqualFold(h.Name, name) {
			return h.Value, true
		}
	}
	return "", false
}

func recommendationFor(headerName string) string {
	if rec, ok := headerRecommendations[headerName]; ok {
		return rec
	}
	return "Consider adding this security header"
}
