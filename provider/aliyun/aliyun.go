// Package aliyun adapts Alibaba Cloud DNS (alidns) to the uniform
// provider.Provider contract: the classic alidns RPC actions
// (DescribeDomains, DescribeDomainRecords, AddDomainRecord, ...)
// issued through a hand-rolled ACS3-HMAC-SHA256 signer over the
// shared httpclient. Domain ids are the domain names themselves.
package aliyun

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"encoding/json"
	"time"

	"github.com/ZnLuAr/dns-orchestrator-sub000/internal/dnserr"
	"github.com/ZnLuAr/dns-orchestrator-sub000/internal/dnsmodel"
	"github.com/ZnLuAr/dns-orchestrator-sub000/internal/httpclient"
	"github.com/ZnLuAr/dns-orchestrator-sub000/provider"
	"github.com/ZnLuAr/dns-orchestrator-sub000/provider/recordcodec"
)

const (
	id          = "aliyun"
	apiEndpoint = "https://alidns.cn-hangzhou.aliyuncs.com/"
	apiHost     = "alidns.cn-hangzhou.aliyuncs.com"
	apiVersion  = "2015-01-09"
	maxPageSize = 100
)

// Provider is the Aliyun DNS adapter. One instance is bound to one
// account's access-key pair.
type Provider struct {
	provider.BaseProvider
	accountID string
	keyID     string
	keySecret string
	endpoint  string
	http      *httpclient.Client
}

// sharedHTTP is the one HTTP client every Aliyun account reuses.
var sharedHTTP = httpclient.New(id, mapError, parseError)

// New builds a Provider from Aliyun account credentials.
func New(accountID string, creds dnsmodel.AliyunCredentials) *Provider {
	return &Provider{
		accountID: accountID,
		keyID:     creds.AccessKeyID,
		keySecret: creds.AccessKeySecret,
		endpoint:  apiEndpoint,
		http:      sharedHTTP,
	}
}

func (p *Provider) ID() string { return p.accountID }

func (p *Provider) Metadata() provider.Metadata {
	return provider.Metadata{
		ID:                string(dnsmodel.ProviderAliyun),
		DisplayName:       "Alibaba Cloud DNS",
		CredentialFields:  dnsmodel.RequiredFields(dnsmodel.ProviderAliyun),
		Features:          provider.Features{},
		MaxZonePageSize:   maxPageSize,
		MaxRecordPageSize: maxPageSize,
	}
}

func (p *Provider) ValidateCredentials(ctx context.Context) (bool, error) {
	var resp describeDomainsResponse
	err := p.call(ctx, "DescribeDomains", describeDomainsRequest{PageNumber: 1, PageSize: 1}, dnserr.ErrorContext{}, &resp)
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
	var resp describeDomainsResponse
	err := p.call(ctx, "DescribeDomains", describeDomainsRequest{
		PageNumber: page.Page,
		PageSize:   page.PageSize,
	}, dnserr.ErrorContext{}, &resp)
	if err != nil {
		return dnsmodel.PaginatedResponse[dnsmodel.ProviderDomain]{}, err
	}

	domains := make([]dnsmodel.ProviderDomain, 0, len(resp.Domains.Domain))
	for _, d := range resp.Domains.Domain {
		domains = append(domains, dnsmodel.ProviderDomain{
			ID:          d.DomainName,
			Name:        d.DomainName,
			Provider:    dnsmodel.ProviderAliyun,
			Status:      convertDomainStatus(d.DomainStatus),
			RecordCount: d.RecordCount,
		})
	}
	return dnsmodel.NewPaginatedResponse(domains, page.Page, page.PageSize, resp.TotalCount), nil
}

func (p *Provider) GetDomain(ctx context.Context, domainID string) (dnsmodel.ProviderDomain, error) {
	var resp describeDomainInfoResponse
	err := p.call(ctx, "DescribeDomainInfo", describeDomainInfoRequest{DomainName: domainID}, dnserr.ErrorContext{Domain: domainID}, &resp)
	if err != nil {
		return dnsmodel.ProviderDomain{}, err
	}
	return dnsmodel.ProviderDomain{
		ID:          resp.DomainName,
		Name:        resp.DomainName,
		Provider:    dnsmodel.ProviderAliyun,
		Status:      convertDomainStatus(resp.DomainStatus),
		RecordCount: resp.RecordCount,
	}, nil
}

func (p *Provider) ListRecords(ctx context.Context, domainID string, q dnsmodel.RecordQueryParams) (dnsmodel.PaginatedResponse[dnsmodel.DnsRecord], error) {
	q.Pagination = q.Pagination.Normalize(maxPageSize)
	req := describeDomainRecordsRequest{
		DomainName: domainID,
		PageNumber: q.Page,
		PageSize:   q.PageSize,
		RRKeyWord:  q.Keyword,
		Type:       string(q.RecordType),
	}

	var resp describeDomainRecordsResponse
	ectx := dnserr.ErrorContext{Domain: domainID}
	if err := p.call(ctx, "DescribeDomainRecords", req, ectx, &resp); err != nil {
		return dnsmodel.PaginatedResponse[dnsmodel.DnsRecord]{}, err
	}

	out := make([]dnsmodel.DnsRecord, 0, len(resp.DomainRecords.Record))
	for _, r := range resp.DomainRecords.Record {
		data, err := recordcodec.ParseRecordDataWithPriority(dnsmodel.RecordType(r.Type), r.Value, r.Priority, id)
		if err != nil {
			continue
		}
		out = append(out, dnsmodel.DnsRecord{
			ID:        r.RecordID,
			DomainID:  domainID,
			Name:      r.RR,
			TTL:       r.TTL,
			Data:      data,
			CreatedAt: msToTime(r.CreateTimestamp),
			UpdatedAt: msToTime(r.UpdateTimestamp),
		})
	}
	return dnsmodel.NewPaginatedResponse(out, q.Page, q.PageSize, resp.TotalCount), nil
}

func (p *Provider) CreateRecord(ctx context.Context, req dnsmodel.CreateRecordRequest) (dnsmodel.DnsRecord, error) {
	value, priority := recordcodec.RecordDataToValuePriority(req.Data)
	apiReq := addDomainRecordRequest{
		DomainName: req.DomainID,
		RR:         req.Name,
		Type:       string(req.Data.Type),
		Value:      value,
		TTL:        req.TTL,
	}
	if priority > 0 {
		apiReq.Priority = priority
	}

	var resp addDomainRecordResponse
	ectx := dnserr.ErrorContext{RecordName: req.Name, Domain: req.DomainID}
	if err := p.call(ctx, "AddDomainRecord", apiReq, ectx, &resp); err != nil {
		return dnsmodel.DnsRecord{}, err
	}

	now := time.Now().UTC()
	return dnsmodel.DnsRecord{
		ID:        resp.RecordID,
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
		return dnsmodel.DnsRecord{}, dnserr.InvalidParameter(id, "name/data", "aliyun requires name and data on every update")
	}
	value, priority := recordcodec.RecordDataToValuePriority(*req.Data)
	ttl := 0
	if req.TTL != nil {
		ttl = *req.TTL
	}
	apiReq := updateDomainRecordRequest{
		RecordID: recordID,
		RR:       *req.Name,
		Type:     string(req.Data.Type),
		Value:    value,
		TTL:      ttl,
	}
	if priority > 0 {
		apiReq.Priority = priority
	}

	var resp updateDomainRecordResponse
	ectx := dnserr.ErrorContext{RecordID: recordID, Domain: req.DomainID}
	if err := p.call(ctx, "UpdateDomainRecord", apiReq, ectx, &resp); err != nil {
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
	var resp deleteDomainRecordResponse
	ectx := dnserr.ErrorContext{RecordID: recordID, Domain: domainID}
	return p.call(ctx, "DeleteDomainRecord", deleteDomainRecordRequest{RecordID: recordID}, ectx, &resp)
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

// call signs and issues one alidns RPC action over POST with a JSON
// body.
func (p *Provider) call(ctx context.Context, action string, body any, ectx dnserr.ErrorContext, out any) error {
	payload, err := json.Marshal(body)
	if err != nil {
		return dnserr.SerializationError(id, err.Error())
	}

	nonce, err := newNonce()
	if err != nil {
		return dnserr.NetworkError(id, err.Error())
	}

	headers := map[string]string{
		"host":                  apiHost,
		"x-acs-action":          action,
		"x-acs-version":         apiVersion,
		"x-acs-date":            time.Now().UTC().Format(time.RFC3339),
		"x-acs-signature-nonce": nonce,
		"x-acs-content-sha256":  sha256Hex(payload),
		"Content-Type":          "application/json",
	}
	headers["Authorization"] = signACS3(headers, payload, p.keyID, p.keySecret)

	req := httpclient.Request{Method: "POST", URL: p.endpoint, Headers: headers, Body: payload}
	return p.http.Send(ctx, req, ectx, out)
}

func newNonce() (string, error) {
	b := make([]byte, 16)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return hex.EncodeToString(b), nil
}

func convertDomainStatus(status string) dnsmodel.DomainStatus {
	switch status {
	case "ENABLE", "enable":
		return dnsmodel.DomainActive
	case "PAUSE", "pause":
		return dnsmodel.DomainPaused
	case "SPAM", "spam":
		return dnsmodel.DomainErrored
	default:
		return dnsmodel.DomainUnknown
	}
}

func msToTime(ms int64) *time.Time {
	if ms == 0 {
		return nil
	}
	t := time.UnixMilli(ms).UTC()
	return &t
}
