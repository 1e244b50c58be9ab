// Package dnspod adapts Tencent Cloud DNSPod to the uniform
// provider.Provider contract, with transport and TC3-HMAC-SHA256
// signing built by hand over the shared httpclient, the same pattern
// used for the Aliyun adapter.
package dnspod

import (
	"context"
	"encoding/json"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/ZnLuAr/dns-orchestrator-sub000/internal/dnserr"
	"github.com/ZnLuAr/dns-orchestrator-sub000/internal/dnsmodel"
	"github.com/ZnLuAr/dns-orchestrator-sub000/internal/httpclient"
	"github.com/ZnLuAr/dns-orchestrator-sub000/provider"
	"github.com/ZnLuAr/dns-orchestrator-sub000/provider/recordcodec"
)

const (
	id          = "dnspod"
	apiEndpoint = "https://dnspod.tencentcloudapi.com/"
	apiHost     = "dnspod.tencentcloudapi.com"
	apiVersion  = "2021-03-23"
	maxPageSize = 3000

	// defaultRecordLine is the DNSPod product's name for the
	// catch-all routing line; every create/update call must supply
	// one.
	defaultRecordLine = "默认"
)

// Provider is the DNSPod adapter. One instance is bound to one
// account's secret-id/secret-key pair.
type Provider struct {
	provider.BaseProvider
	accountID string
	secretID  string
	secretKey string
	endpoint  string
	http      *httpclient.Client

	cacheMu sync.Mutex
	cache   map[string]dnsmodel.ProviderDomain
}

// sharedHTTP is the one HTTP client every DNSPod account reuses.
var sharedHTTP = httpclient.New(id, mapError, parseError)

// New builds a Provider from DNSPod account credentials.
func New(accountID string, creds dnsmodel.DNSPodCredentials) *Provider {
	return &Provider{
		accountID: accountID,
		secretID:  creds.SecretID,
		secretKey: creds.SecretKey,
		endpoint:  apiEndpoint,
		http:      sharedHTTP,
		cache:     make(map[string]dnsmodel.ProviderDomain),
	}
}

func (p *Provider) ID() string { return p.accountID }

func (p *Provider) Metadata() provider.Metadata {
	return provider.Metadata{
		ID:                string(dnsmodel.ProviderDNSPod),
		DisplayName:       "Tencent Cloud DNSPod",
		CredentialFields:  dnsmodel.RequiredFields(dnsmodel.ProviderDNSPod),
		Features:          provider.Features{},
		MaxZonePageSize:   maxPageSize,
		MaxRecordPageSize: maxPageSize,
	}
}

func (p *Provider) ValidateCredentials(ctx context.Context) (bool, error) {
	var resp describeDomainListResponse
	req := describeDomainListRequest{Offset: 0, Limit: 1}
	err := p.call(ctx, "DescribeDomainList", req, dnserr.ErrorContext{}, &resp)
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

	var resp describeDomainListResponse
	req := describeDomainListRequest{Offset: offset, Limit: page.PageSize}
	if err := p.call(ctx, "DescribeDomainList", req, dnserr.ErrorContext{}, &resp); err != nil {
		return dnsmodel.PaginatedResponse[dnsmodel.ProviderDomain]{}, err
	}

	total := 0
	if resp.DomainCountInfo != nil {
		total = resp.DomainCountInfo.AllTotal
	}

	domains := make([]dnsmodel.ProviderDomain, 0, len(resp.DomainList))
	for _, d := range resp.DomainList {
		domain := dnsmodel.ProviderDomain{
			ID:          strconv.Itoa(d.DomainID),
			Name:        d.Name,
			Provider:    dnsmodel.ProviderDNSPod,
			Status:      convertDomainStatus(d.Status, d.DNSStatus),
			RecordCount: d.RecordCount,
		}
		p.putCache(domain)
		domains = append(domains, domain)
	}
	return dnsmodel.NewPaginatedResponse(domains, page.Page, page.PageSize, total), nil
}

// GetDomain resolves domainID, which may be the domain name or the
// numeric DNSPod domain id. A name resolves directly through
// DescribeDomain; a numeric id falls back to draining
// DescribeDomainList and scanning for a match. The drain also warms
// the id/name cache for every domain it passes over.
func (p *Provider) GetDomain(ctx context.Context, domainID string) (dnsmodel.ProviderDomain, error) {
	if strings.Contains(domainID, ".") {
		var resp describeDomainResponse
		ectx := dnserr.ErrorContext{Domain: domainID}
		if err := p.call(ctx, "DescribeDomain", describeDomainRequest{Domain: domainID}, ectx, &resp); err != nil {
			return dnsmodel.ProviderDomain{}, err
		}
		domain := dnsmodel.ProviderDomain{
			ID:          strconv.Itoa(resp.DomainInfo.DomainID),
			Name:        resp.DomainInfo.Domain,
			Provider:    dnsmodel.ProviderDNSPod,
			Status:      convertDomainStatus(resp.DomainInfo.Status, resp.DomainInfo.DNSStatus),
			RecordCount: resp.DomainInfo.RecordCount,
		}
		p.putCache(domain)
		return domain, nil
	}

	const pageSize = 100
	all, err := httpclient.DrainAll(ctx, pageSize, func(ctx context.Context, offset, pageSize int) ([]dnsmodel.ProviderDomain, int, error) {
		resp, err := p.ListDomains(ctx, dnsmodel.Pagination{Page: offset/pageSize + 1, PageSize: pageSize})
		if err != nil {
			return nil, 0, err
		}
		return resp.Items, resp.TotalCount, nil
	})
	if err != nil {
		return dnsmodel.ProviderDomain{}, err
	}
	for _, d := range all {
		if d.ID == domainID {
			return d, nil
		}
	}
	return dnsmodel.ProviderDomain{}, dnserr.DomainNotFound(id, domainID, "")
}

// getDomainCached resolves domainID through the per-adapter cache
// before falling back to GetDomain.
func (p *Provider) getDomainCached(ctx context.Context, domainID string) (dnsmodel.ProviderDomain, error) {
	p.cacheMu.Lock()
	d, ok := p.cache[domainID]
	p.cacheMu.Unlock()
	if ok {
		return d, nil
	}
	d, err := p.GetDomain(ctx, domainID)
	if err != nil {
		return dnsmodel.ProviderDomain{}, err
	}
	p.putCache(d)
	return d, nil
}

func (p *Provider) putCache(d dnsmodel.ProviderDomain) {
	p.cacheMu.Lock()
	p.cache[d.ID] = d
	p.cache[d.Name] = d
	p.cacheMu.Unlock()
}

func (p *Provider) ListRecords(ctx context.Context, domainID string, q dnsmodel.RecordQueryParams) (dnsmodel.PaginatedResponse[dnsmodel.DnsRecord], error) {
	q.Pagination = q.Pagination.Normalize(maxPageSize)
	domain, err := p.getDomainCached(ctx, domainID)
	if err != nil {
		return dnsmodel.PaginatedResponse[dnsmodel.DnsRecord]{}, err
	}

	offset := (q.Page - 1) * q.PageSize
	req := describeRecordListRequest{
		Domain:     domain.Name,
		Offset:     offset,
		Limit:      q.PageSize,
		Keyword:    q.Keyword,
		RecordType: string(q.RecordType),
	}

	var resp describeRecordListResponse
	ectx := dnserr.ErrorContext{Domain: domainID}
	err = p.call(ctx, "DescribeRecordList", req, ectx, &resp)
	if err != nil {
		if dErr, ok := err.(*dnserr.Error); ok && dErr.RawCode() == "ResourceNotFound.NoDataOfRecord" {
			return dnsmodel.NewPaginatedResponse([]dnsmodel.DnsRecord{}, q.Page, q.PageSize, 0), nil
		}
		return dnsmodel.PaginatedResponse[dnsmodel.DnsRecord]{}, err
	}

	total := 0
	if resp.RecordCountInfo != nil {
		total = resp.RecordCountInfo.TotalCount
	}

	out := make([]dnsmodel.DnsRecord, 0, len(resp.RecordList))
	for _, r := range resp.RecordList {
		data, perr := recordcodec.ParseRecordDataWithPriority(dnsmodel.RecordType(r.Type), r.Value, derefInt(r.MX), id)
		if perr != nil {
			continue
		}
		out = append(out, dnsmodel.DnsRecord{
			ID:        strconv.FormatInt(r.RecordID, 10),
			DomainID:  domainID,
			Name:      r.Name,
			TTL:       r.TTL,
			Data:      data,
			UpdatedAt: parseRFC3339(r.UpdatedOn),
		})
	}
	return dnsmodel.NewPaginatedResponse(out, q.Page, q.PageSize, total), nil
}

func (p *Provider) CreateRecord(ctx context.Context, req dnsmodel.CreateRecordRequest) (dnsmodel.DnsRecord, error) {
	domain, err := p.getDomainCached(ctx, req.DomainID)
	if err != nil {
		return dnsmodel.DnsRecord{}, err
	}

	value, priority := recordcodec.RecordDataToValuePriority(req.Data)
	apiReq := createRecordRequest{
		Domain:     domain.Name,
		SubDomain:  req.Name,
		RecordType: string(req.Data.Type),
		RecordLine: defaultRecordLine,
		Value:      value,
		TTL:        req.TTL,
	}
	if priority > 0 {
		apiReq.MX = &priority
	}

	var resp createRecordResponse
	ectx := dnserr.ErrorContext{RecordName: req.Name, Domain: req.DomainID}
	if err := p.call(ctx, "CreateRecord", apiReq, ectx, &resp); err != nil {
		return dnsmodel.DnsRecord{}, err
	}

	now := time.Now().UTC()
	return dnsmodel.DnsRecord{
		ID:        strconv.FormatInt(resp.RecordID, 10),
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
		return dnsmodel.DnsRecord{}, dnserr.InvalidParameter(id, "name/data", "dnspod requires name and data on every update")
	}
	recordIDNum, convErr := strconv.ParseInt(recordID, 10, 64)
	if convErr != nil {
		return dnsmodel.DnsRecord{}, dnserr.RecordNotFound(id, recordID, "record id must be numeric")
	}

	domain, err := p.getDomainCached(ctx, req.DomainID)
	if err != nil {
		return dnsmodel.DnsRecord{}, err
	}

	value, priority := recordcodec.RecordDataToValuePriority(*req.Data)
	ttl := 0
	if req.TTL != nil {
		ttl = *req.TTL
	}
	apiReq := modifyRecordRequest{
		Domain:     domain.Name,
		RecordID:   recordIDNum,
		SubDomain:  *req.Name,
		RecordType: string(req.Data.Type),
		RecordLine: defaultRecordLine,
		Value:      value,
		TTL:        ttl,
	}
	if priority > 0 {
		apiReq.MX = &priority
	}

	var resp modifyRecordResponse
	ectx := dnserr.ErrorContext{RecordID: recordID, Domain: req.DomainID}
	if err := p.call(ctx, "ModifyRecord", apiReq, ectx, &resp); err != nil {
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
	recordIDNum, convErr := strconv.ParseInt(recordID, 10, 64)
	if convErr != nil {
		return dnserr.RecordNotFound(id, recordID, "record id must be numeric")
	}
	domain, err := p.getDomainCached(ctx, domainID)
	if err != nil {
		return err
	}

	var resp deleteRecordResponse
	ectx := dnserr.ErrorContext{RecordID: recordID, Domain: domainID}
	return p.call(ctx, "DeleteRecord", deleteRecordRequest{Domain: domain.Name, RecordID: recordIDNum}, ectx, &resp)
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

// responseEnvelope is the common Tencent Cloud wrapper every action's
// response body nests its payload (or its error) under.
type responseEnvelope struct {
	Response json.RawMessage `json:"Response"`
}

// call signs and issues one DNSPod action over POST with a JSON body
// and the X-TC-Action header. DNSPod answers every call
// with HTTP 200 and nests a failure inside the Response.Error field
// rather than using the status code, so errors are detected after
// Send rather than by it.
func (p *Provider) call(ctx context.Context, action string, body any, ectx dnserr.ErrorContext, out any) error {
	payload, err := json.Marshal(body)
	if err != nil {
		return dnserr.SerializationError(id, err.Error())
	}

	timestamp := time.Now().Unix()
	authorization := signTC3(action, payload, p.secretID, p.secretKey, timestamp)

	headers := map[string]string{
		"Host":           apiHost,
		"X-TC-Action":    action,
		"X-TC-Version":   apiVersion,
		"X-TC-Timestamp": strconv.FormatInt(timestamp, 10),
		"Content-Type":   "application/json; charset=utf-8",
		"Authorization":  authorization,
	}

	var env responseEnvelope
	req := httpclient.Request{Method: "POST", URL: p.endpoint, Headers: headers, Body: payload}
	if err := p.http.Send(ctx, req, ectx, &env); err != nil {
		return err
	}

	var errCheck struct {
		Error *wireError `json:"Error"`
	}
	if err := json.Unmarshal(env.Response, &errCheck); err == nil && errCheck.Error != nil {
		return mapError(dnserr.RawAPIError{Code: errCheck.Error.Code, Message: errCheck.Error.Message}, ectx)
	}

	if out != nil {
		if err := json.Unmarshal(env.Response, out); err != nil {
			return dnserr.SerializationError(id, err.Error())
		}
	}
	return nil
}

func convertDomainStatus(status, dnsStatus string) dnsmodel.DomainStatus {
	switch {
	case (status == "ENABLE" || status == "enable") && dnsStatus == "":
		return dnsmodel.DomainActive
	case status == "PAUSE" || status == "pause":
		return dnsmodel.DomainPaused
	case (status == "ENABLE" || status == "enable") && dnsStatus == "DNSERROR":
		return dnsmodel.DomainErrored
	case status == "SPAM" || status == "spam":
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

func derefInt(p *int) int {
	if p == nil {
		return 0
	}
	return *p
}

