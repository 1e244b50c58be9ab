// Package huaweicloud adapts Huawei Cloud DNS (public zones) to the
// uniform provider.Provider contract: REST under /v2/zones,
// offset/limit paging, SOA records filtered out of listings, and the
// single-string records[] encoding shared with recordcodec. sign.go
// implements Huawei's publicly documented SDK-HMAC-SHA256 AK/SK
// scheme.
package huaweicloud

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"time"

	"github.com/ZnLuAr/dns-orchestrator-sub000/internal/dnserr"
	"github.com/ZnLuAr/dns-orchestrator-sub000/internal/dnsmodel"
	"github.com/ZnLuAr/dns-orchestrator-sub000/internal/httpclient"
	"github.com/ZnLuAr/dns-orchestrator-sub000/provider"
	"github.com/ZnLuAr/dns-orchestrator-sub000/provider/recordcodec"
)

const (
	id            = "huaweicloud"
	apiEndpoint   = "https://dns.myhuaweicloud.com"
	apiHost       = "dns.myhuaweicloud.com"
	maxPageSize   = 500
	defaultTTL    = 300
	soaRecordType = "SOA"
)

// Provider is the Huawei Cloud DNS adapter. One instance is bound to
// one account's AK/SK pair and project id.
type Provider struct {
	provider.BaseProvider
	accountID       string
	accessKeyID     string
	secretAccessKey string
	projectID       string
	endpoint        string
	http            *httpclient.Client
}

// sharedHTTP is the one HTTP client every Huawei Cloud account reuses.
var sharedHTTP = httpclient.New(id, mapError, parseError)

// New builds a Provider from Huawei Cloud account credentials.
func New(accountID string, creds dnsmodel.HuaweiCloudCredentials) *Provider {
	return &Provider{
		accountID:       accountID,
		accessKeyID:     creds.AccessKeyID,
		secretAccessKey: creds.SecretAccessKey,
		projectID:       creds.ProjectID,
		endpoint:        apiEndpoint,
		http:            sharedHTTP,
	}
}

func (p *Provider) ID() string { return p.accountID }

func (p *Provider) Metadata() provider.Metadata {
	return provider.Metadata{
		ID:                string(dnsmodel.ProviderHuaweiCloud),
		DisplayName:       "Huawei Cloud DNS",
		CredentialFields:  dnsmodel.RequiredFields(dnsmodel.ProviderHuaweiCloud),
		Features:          provider.Features{},
		MaxZonePageSize:   maxPageSize,
		MaxRecordPageSize: maxPageSize,
	}
}

func (p *Provider) ValidateCredentials(ctx context.Context) (bool, error) {
	var resp listZonesResponse
	err := p.call(ctx, "GET", "/v2/zones", "type=public&limit=1", nil, dnserr.ErrorContext{}, &resp)
	if err != nil {
		if dErr, ok := err.(*dnserr.Error); ok && dErr.Kind() == dnserr.KindInvalidCredentials {
			return false, nil
		}
		return false, err
	}
	return true, nil
}

func (p *Provider) ListDomains(ctx context.Context, page dnsmodel.Pagination) (dnsmodel.PaginatedResponse[dnsmodel.ProviderDomain], error) {
	page = page.Normalize(maxPageSize)
	offset := (page.Page - 1) * page.PageSize
	query := fmt.Sprintf("type=public&offset=%d&limit=%d", offset, page.PageSize)

	var resp listZonesResponse
	if err := p.call(ctx, "GET", "/v2/zones", query, nil, dnserr.ErrorContext{}, &resp); err != nil {
		return dnsmodel.PaginatedResponse[dnsmodel.ProviderDomain]{}, err
	}

	domains := make([]dnsmodel.ProviderDomain, 0, len(resp.Zones))
	for _, z := range resp.Zones {
		domains = append(domains, dnsmodel.ProviderDomain{
			ID:          z.ID,
			Name:        recordcodec.NormalizeZoneName(z.Name),
			Provider:    dnsmodel.ProviderHuaweiCloud,
			Status:      convertDomainStatus(z.Status),
			RecordCount: z.RecordNum,
		})
	}
	return dnsmodel.NewPaginatedResponse(domains, page.Page, page.PageSize, resp.Metadata.TotalCount), nil
}

func (p *Provider) GetDomain(ctx context.Context, domainID string) (dnsmodel.ProviderDomain, error) {
	var resp showZoneResponse
	ectx := dnserr.ErrorContext{Domain: domainID}
	if err := p.call(ctx, "GET", "/v2/zones/"+domainID, "", nil, ectx, &resp); err != nil {
		return dnsmodel.ProviderDomain{}, err
	}
	return dnsmodel.ProviderDomain{
		ID:          resp.ID,
		Name:        recordcodec.NormalizeZoneName(resp.Name),
		Provider:    dnsmodel.ProviderHuaweiCloud,
		Status:      convertDomainStatus(resp.Status),
		RecordCount: resp.RecordNum,
	}, nil
}

func (p *Provider) ListRecords(ctx context.Context, domainID string, q dnsmodel.RecordQueryParams) (dnsmodel.PaginatedResponse[dnsmodel.DnsRecord], error) {
	domainInfo, err := p.GetDomain(ctx, domainID)
	if err != nil {
		return dnsmodel.PaginatedResponse[dnsmodel.DnsRecord]{}, err
	}

	q.Pagination = q.Pagination.Normalize(maxPageSize)
	offset := (q.Page - 1) * q.PageSize
	query := fmt.Sprintf("offset=%d&limit=%d", offset, q.PageSize)
	if q.Keyword != "" {
		query += "&name=" + url.QueryEscape(q.Keyword)
	}
	if q.RecordType != "" {
		query += "&type=" + url.QueryEscape(string(q.RecordType))
	}

	var resp listRecordSetsResponse
	ectx := dnserr.ErrorContext{Domain: domainID}
	if err := p.call(ctx, "GET", "/v2/zones/"+domainID+"/recordsets", query, nil, ectx, &resp); err != nil {
		return dnsmodel.PaginatedResponse[dnsmodel.DnsRecord]{}, err
	}

	out := make([]dnsmodel.DnsRecord, 0, len(resp.Recordsets))
	for _, r := range resp.Recordsets {
		if r.Type == soaRecordType {
			continue
		}
		if len(r.Records) == 0 {
			continue
		}
		data, err := recordcodec.ParseSingleStringRecord(dnsmodel.RecordType(r.Type), r.Records[0])
		if err != nil {
			continue
		}
		ttl := defaultTTL
		if r.TTL != nil {
			ttl = *r.TTL
		}
		out = append(out, dnsmodel.DnsRecord{
			ID:        r.ID,
			DomainID:  domainID,
			Name:      recordcodec.FullNameToRelative(r.Name, domainInfo.Name),
			TTL:       ttl,
			Data:      data,
			CreatedAt: parseRFC3339(r.CreateTime),
			UpdatedAt: parseRFC3339(r.UpdateTime),
		})
	}
	return dnsmodel.NewPaginatedResponse(out, q.Page, q.PageSize, resp.Metadata.TotalCount), nil
}

func (p *Provider) CreateRecord(ctx context.Context, req dnsmodel.CreateRecordRequest) (dnsmodel.DnsRecord, error) {
	domainInfo, err := p.GetDomain(ctx, req.DomainID)
	if err != nil {
		return dnsmodel.DnsRecord{}, err
	}

	value, err := recordcodec.RecordDataToSingleString(req.Data)
	if err != nil {
		return dnsmodel.DnsRecord{}, err
	}
	fullName := recordcodec.RelativeToFullName(req.Name, domainInfo.Name) + "."

	apiReq := createRecordSetRequest{
		Name:    fullName,
		Type:    string(req.Data.Type),
		TTL:     req.TTL,
		Records: []string{value},
	}

	var resp createRecordSetResponse
	ectx := dnserr.ErrorContext{RecordName: req.Name, Domain: req.DomainID}
	if err := p.call(ctx, "POST", "/v2/zones/"+req.DomainID+"/recordsets", "", apiReq, ectx, &resp); err != nil {
		return dnsmodel.DnsRecord{}, err
	}

	now := time.Now().UTC()
	return dnsmodel.DnsRecord{
		ID:        resp.ID,
		DomainID:  req.DomainID,
		Name:      req.Name,
		TTL:       req.TTL,
		Data:      req.Data,
		CreatedAt: &now,
		UpdatedAt: &now,
	}, nil
}

func (p *Provider) UpdateRecord(ctx context.Context, recordID string, req dnsmodel.UpdateRecordRequest) (dnsmodel.DnsRecord, error) {
	if req.Data == nil || req.Name == nil {
		return dnsmodel.DnsRecord{}, dnserr.InvalidParameter(id, "name/data", "huaweicloud requires name and data on every update")
	}

	domainInfo, err := p.GetDomain(ctx, req.DomainID)
	if err != nil {
		return dnsmodel.DnsRecord{}, err
	}

	value, err := recordcodec.RecordDataToSingleString(*req.Data)
	if err != nil {
		return dnsmodel.DnsRecord{}, err
	}
	fullName := recordcodec.RelativeToFullName(*req.Name, domainInfo.Name) + "."

	ttl := defaultTTL
	if req.TTL != nil {
		ttl = *req.TTL
	}

	apiReq := updateRecordSetRequest{
		Name:    fullName,
		Type:    string(req.Data.Type),
		TTL:     ttl,
		Records: []string{value},
	}

	var resp updateRecordSetResponse
	ectx := dnserr.ErrorContext{RecordName: *req.Name, RecordID: recordID, Domain: req.DomainID}
	path := "/v2/zones/" + req.DomainID + "/recordsets/" + recordID
	if err := p.call(ctx, "PUT", path, "", apiReq, ectx, &resp); err != nil {
		return dnsmodel.DnsRecord{}, err
	}

	now := time.Now().UTC()
	return dnsmodel.DnsRecord{
		ID:        recordID,
		DomainID:  req.DomainID,
		Name:      *req.Name,
		TTL:       ttl,
		Data:      *req.Data,
		UpdatedAt: &now,
	}, nil
}

func (p *Provider) DeleteRecord(ctx context.Context, domainID, recordID string) error {
	ectx := dnserr.ErrorContext{RecordID: recordID, Domain: domainID}
	path := "/v2/zones/" + domainID + "/recordsets/" + recordID
	return p.call(ctx, "DELETE", path, "", nil, ectx, nil)
}

func (p *Provider) BatchCreateRecords(ctx context.Context, reqs []dnsmodel.CreateRecordRequest) dnsmodel.BatchCreateResult {
	return p.BaseProvider.BatchCreate(ctx, p, reqs)
}

func (p *Provider) BatchUpdateRecords(ctx context.Context, items []provider.BatchUpdateItem) dnsmodel.BatchUpdateResult {
	return p.BaseProvider.BatchUpdate(ctx, p, items)
}

func (p *Provider) BatchDeleteRecords(ctx context.Context, domainID string, recordIDs []string) dnsmodel.BatchDeleteResult {
	return p.BaseProvider.BatchDelete(ctx, p, domainID, recordIDs)
}

// call signs and issues one DNS REST request. path is the
// request path (e.g. "/v2/zones"), query the already-encoded query
// string (without a leading "?"), body the request payload (nil for
// GET/DELETE).
func (p *Provider) call(ctx context.Context, method, path, query string, body any, ectx dnserr.ErrorContext, out any) error {
	var payload []byte
	if body != nil {
		var err error
		payload, err = json.Marshal(body)
		if err != nil {
			return dnserr.SerializationError(id, err.Error())
		}
	}

	date := time.Now().UTC().Format(timeFormat)
	headers := map[string]string{
		"host":         apiHost,
		"x-sdk-date":   date,
		"content-type": "application/json",
		"x-project-id": p.projectID,
	}
	headers["Authorization"] = signSDKHMAC(method, path, query, headers, payload, p.accessKeyID, p.secretAccessKey)

	reqURL := p.endpoint + path
	if query != "" {
		reqURL += "?" + query
	}

	req := httpclient.Request{Method: method, URL: reqURL, Headers: headers, Body: payload}
	return p.http.Send(ctx, req, ectx, out)
}

func convertDomainStatus(status string) dnsmodel.DomainStatus {
	switch status {
	case "ACTIVE":
		return dnsmodel.DomainActive
	case "PENDING_CREATE", "PENDING_UPDATE", "PENDING_DELETE", "PENDING_FREEZE", "PENDING_DISABLE":
		return dnsmodel.DomainPending
	case "FREEZE", "ILLEGAL", "POLICE", "DISABLE":
		return dnsmodel.DomainPaused
	case "ERROR":
		return dnsmodel.DomainErrored
	default:
		return dnsmodel.DomainUnknown
	}
}

func parseRFC3339(s string) *time.Time {
	if s == "" {
		return nil
	}
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		return nil
	}
	t = t.UTC()
	return &t
}
