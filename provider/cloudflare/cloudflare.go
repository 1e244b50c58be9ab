// Package cloudflare adapts the official cloudflare-go client to the
// uniform provider.Provider contract: a narrowed client interface for
// testability, zone-UUID domain ids, and ClientRateLimited/5xx
// soft-error treatment. One provider instance per account, operating
// across all zones visible to its token.
package cloudflare

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"

	cf "github.com/cloudflare/cloudflare-go"
	log "github.com/sirupsen/logrus"

	"github.com/ZnLuAr/dns-orchestrator-sub000/internal/dnserr"
	"github.com/ZnLuAr/dns-orchestrator-sub000/internal/dnsmodel"
	"github.com/ZnLuAr/dns-orchestrator-sub000/provider"
	"github.com/ZnLuAr/dns-orchestrator-sub000/provider/recordcodec"
)

const id = "cloudflare"

// client is the subset of *cloudflare.API this adapter uses; narrowing
// it to an interface keeps unit tests from needing a live API.
type client interface {
	ListZonesContext(ctx context.Context, opts ...cf.ReqOption) (cf.ZonesResponse, error)
	ZoneDetails(ctx context.Context, zoneID string) (cf.Zone, error)
	ListDNSRecords(ctx context.Context, rc *cf.ResourceContainer, rp cf.ListDNSRecordsParams) ([]cf.DNSRecord, *cf.ResultInfo, error)
	CreateDNSRecord(ctx context.Context, rc *cf.ResourceContainer, rp cf.CreateDNSRecordParams) (cf.DNSRecord, error)
	UpdateDNSRecord(ctx context.Context, rc *cf.ResourceContainer, rp cf.UpdateDNSRecordParams) (cf.DNSRecord, error)
	DeleteDNSRecord(ctx context.Context, rc *cf.ResourceContainer, recordID string) error
}

// Provider is the Cloudflare adapter. One instance is bound to one
// account's API token.
type Provider struct {
	provider.BaseProvider
	accountID string
	api       client
}

// New builds a Provider from Cloudflare account credentials.
func New(accountID string, creds dnsmodel.CloudflareCredentials) (*Provider, error) {
	api, err := cf.NewWithAPIToken(creds.APIToken)
	if err != nil {
		return nil, dnserr.InvalidCredentials(id, err.Error())
	}
	return &Provider{accountID: accountID, api: api}, nil
}

func (p *Provider) ID() string { return p.accountID }

func (p *Provider) Metadata() provider.Metadata {
	return provider.Metadata{
		ID:                string(dnsmodel.ProviderCloudflare),
		DisplayName:       "Cloudflare",
		CredentialFields:  dnsmodel.RequiredFields(dnsmodel.ProviderCloudflare),
		Features:          provider.Features{Proxy: true},
		MaxZonePageSize:   50,
		MaxRecordPageSize: 5000,
	}
}

func (p *Provider) ValidateCredentials(ctx context.Context) (bool, error) {
	_, err := p.api.ListZonesContext(ctx, cf.WithPagination(cf.PaginationOptions{Page: 1, PerPage: 1}))
	if err != nil {
		if isAuthError(err) {
			return false, nil
		}
		return false, mapError(err, dnserr.ErrorContext{})
	}
	return true, nil
}

func (p *Provider) ListDomains(ctx context.Context, page dnsmodel.Pagination) (dnsmodel.PaginatedResponse[dnsmodel.ProviderDomain], error) {
	page = page.Normalize(p.Metadata().MaxZonePageSize)
	resp, err := p.api.ListZonesContext(ctx, cf.WithPagination(cf.PaginationOptions{Page: page.Page, PerPage: page.PageSize}))
	if err != nil {
		return dnsmodel.PaginatedResponse[dnsmodel.ProviderDomain]{}, mapError(err, dnserr.ErrorContext{})
	}
	domains := make([]dnsmodel.ProviderDomain, 0, len(resp.Result))
	for _, z := range resp.Result {
		domains = append(domains, zoneToDomain(z))
	}
	return dnsmodel.NewPaginatedResponse(domains, page.Page, page.PageSize, resp.ResultInfo.Total), nil
}

func (p *Provider) GetDomain(ctx context.Context, domainID string) (dnsmodel.ProviderDomain, error) {
	z, err := p.api.ZoneDetails(ctx, domainID)
	if err != nil {
		return dnsmodel.ProviderDomain{}, mapError(err, dnserr.ErrorContext{Domain: domainID})
	}
	return zoneToDomain(z), nil
}

func zoneToDomain(z cf.Zone) dnsmodel.ProviderDomain {
	status := dnsmodel.DomainUnknown
	switch z.Status {
	case "active":
		status = dnsmodel.DomainActive
	case "pending":
		status = dnsmodel.DomainPending
	case "paused", "deactivated":
		status = dnsmodel.DomainPaused
	}
	return dnsmodel.ProviderDomain{ID: z.ID, Name: z.Name, Provider: dnsmodel.ProviderCloudflare, Status: status}
}

func (p *Provider) ListRecords(ctx context.Context, domainID string, q dnsmodel.RecordQueryParams) (dnsmodel.PaginatedResponse[dnsmodel.DnsRecord], error) {
	q.Pagination = q.Pagination.Normalize(p.Metadata().MaxRecordPageSize)
	rc := cf.ZoneIdentifier(domainID)
	params := cf.ListDNSRecordsParams{
		Type:        string(q.RecordType),
		Name:        q.Keyword,
		ResultInfo:  cf.ResultInfo{Page: q.Page, PerPage: q.PageSize},
	}
	records, info, err := p.api.ListDNSRecords(ctx, rc, params)
	if err != nil {
		return dnsmodel.PaginatedResponse[dnsmodel.DnsRecord]{}, mapError(err, dnserr.ErrorContext{Domain: domainID})
	}
	out := make([]dnsmodel.DnsRecord, 0, len(records))
	for _, r := range records {
		rec, err := cfRecordToDnsRecord(r, domainID)
		if err != nil {
			log.Warnf("[cloudflare] skipping unparseable record %s: %v", r.ID, err)
			continue
		}
		out = append(out, rec)
	}
	return dnsmodel.NewPaginatedResponse(out, q.Page, q.PageSize, info.Total), nil
}

func (p *Provider) CreateRecord(ctx context.Context, req dnsmodel.CreateRecordRequest) (dnsmodel.DnsRecord, error) {
	rc := cf.ZoneIdentifier(req.DomainID)
	params, err := dnsRecordToCreateParams(req)
	if err != nil {
		return dnsmodel.DnsRecord{}, err
	}
	created, err := p.api.CreateDNSRecord(ctx, rc, params)
	if err != nil {
		return dnsmodel.DnsRecord{}, mapError(err, dnserr.ErrorContext{RecordName: req.Name, Domain: req.DomainID})
	}
	return cfRecordToDnsRecord(created, req.DomainID)
}

func (p *Provider) UpdateRecord(ctx context.Context, recordID string, req dnsmodel.UpdateRecordRequest) (dnsmodel.DnsRecord, error) {
	if req.DomainID == "" {
		return dnsmodel.DnsRecord{}, dnserr.InvalidParameter(id, "domain_id", "cloudflare requires a zone id to update a record")
	}
	rc := cf.ZoneIdentifier(req.DomainID)
	params, err := dnsUpdateToParams(recordID, req)
	if err != nil {
		return dnsmodel.DnsRecord{}, err
	}
	if _, uerr := p.api.UpdateDNSRecord(ctx, rc, params); uerr != nil {
		return dnsmodel.DnsRecord{}, mapError(uerr, dnserr.ErrorContext{RecordID: recordID, Domain: req.DomainID})
	}
	records, _, err := p.api.ListDNSRecords(ctx, rc, cf.ListDNSRecordsParams{})
	if err == nil {
		for _, r := range records {
			if r.ID == recordID {
				return cfRecordToDnsRecord(r, req.DomainID)
			}
		}
	}
	return dnsmodel.DnsRecord{ID: recordID, DomainID: req.DomainID}, nil
}

func (p *Provider) DeleteRecord(ctx context.Context, domainID, recordID string) error {
	rc := cf.ZoneIdentifier(domainID)
	if err := p.api.DeleteDNSRecord(ctx, rc, recordID); err != nil {
		return mapError(err, dnserr.ErrorContext{RecordID: recordID, Domain: domainID})
	}
	return nil
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

func dnsRecordToCreateParams(req dnsmodel.CreateRecordRequest) (cf.CreateDNSRecordParams, error) {
	content, priority, data, err := recordDataToWire(req.Data)
	if err != nil {
		return cf.CreateDNSRecordParams{}, err
	}
	return cf.CreateDNSRecordParams{
		Type:     string(req.Data.Type),
		Name:     req.Name,
		Content:  content,
		TTL:      req.TTL,
		Priority: priority,
		Proxied:  req.Proxied,
		Data:     data,
	}, nil
}

func dnsUpdateToParams(recordID string, req dnsmodel.UpdateRecordRequest) (cf.UpdateDNSRecordParams, error) {
	params := cf.UpdateDNSRecordParams{ID: recordID}
	if req.Name != nil {
		params.Name = *req.Name
	}
	if req.TTL != nil {
		params.TTL = *req.TTL
	}
	if req.Proxied != nil {
		params.Proxied = req.Proxied
	}
	if req.Data != nil {
		content, priority, data, err := recordDataToWire(*req.Data)
		if err != nil {
			return cf.UpdateDNSRecordParams{}, err
		}
		params.Type = string(req.Data.Type)
		params.Content = content
		params.Priority = priority
		params.Data = data
	}
	return params, nil
}

// recordDataToWire splits a RecordData into the Content/Priority/Data
// triple Cloudflare's API wants: SRV and CAA carry a structured "data"
// sub-object, everything else is a flat content string.
func recordDataToWire(d dnsmodel.RecordData) (content string, priority *uint16, data interface{}, err error) {
	switch d.Type {
	case dnsmodel.TypeMX:
		prio := d.MX.Priority
		return d.MX.Exchange, &prio, nil, nil
	case dnsmodel.TypeSRV:
		return "", nil, map[string]interface{}{
			"priority": d.SRV.Priority,
			"weight":   d.SRV.Weight,
			"port":     d.SRV.Port,
			"target":   d.SRV.Target,
		}, nil
	case dnsmodel.TypeCAA:
		return "", nil, map[string]interface{}{
			"flags": d.CAA.Flags,
			"tag":   d.CAA.Tag,
			"value": d.CAA.Value,
		}, nil
	default:
		value, _ := recordcodec.RecordDataToValuePriority(d)
		return value, nil, nil, nil
	}
}

func cfRecordToDnsRecord(r cf.DNSRecord, domainID string) (dnsmodel.DnsRecord, error) {
	data, err := wireToRecordData(dnsmodel.RecordType(r.Type), r.Content, r.Priority, r.Data)
	if err != nil {
		return dnsmodel.DnsRecord{}, err
	}
	return dnsmodel.DnsRecord{
		ID:        r.ID,
		DomainID:  domainID,
		Name:      r.Name,
		TTL:       r.TTL,
		Data:      data,
		Proxied:   r.Proxied,
		CreatedAt: &r.CreatedOn,
		UpdatedAt: &r.ModifiedOn,
	}, nil
}

func wireToRecordData(recordType dnsmodel.RecordType, content string, priority *uint16, raw interface{}) (dnsmodel.RecordData, error) {
	switch recordType {
	case dnsmodel.TypeSRV, dnsmodel.TypeCAA:
		if m, ok := raw.(map[string]interface{}); ok {
			return structuredDataToRecord(recordType, m)
		}
		return recordcodec.ParseRecordDataWithPriority(recordType, content, 0, id)
	case dnsmodel.TypeMX:
		prio := 0
		if priority != nil {
			prio = int(*priority)
		}
		return recordcodec.ParseRecordDataWithPriority(recordType, content, prio, id)
	default:
		return recordcodec.ParseRecordDataWithPriority(recordType, content, 0, id)
	}
}

func structuredDataToRecord(recordType dnsmodel.RecordType, m map[string]interface{}) (dnsmodel.RecordData, error) {
	switch recordType {
	case dnsmodel.TypeSRV:
		target, _ := m["target"].(string)
		return dnsmodel.RecordData{Type: recordType, SRV: &dnsmodel.SRVRecord{
			Priority: toUint16(m["priority"]),
			Weight:   toUint16(m["weight"]),
			Port:     toUint16(m["port"]),
			Target:   target,
		}}, nil
	case dnsmodel.TypeCAA:
		tag, _ := m["tag"].(string)
		value, _ := m["value"].(string)
		return dnsmodel.RecordData{Type: recordType, CAA: &dnsmodel.CAARecord{
			Flags: uint8(toUint16(m["flags"])),
			Tag:   tag,
			Value: value,
		}}, nil
	}
	return dnsmodel.RecordData{}, dnserr.UnsupportedRecordType(id, string(recordType))
}

func toUint16(v interface{}) uint16 {
	switch n := v.(type) {
	case float64:
		return uint16(n)
	case int:
		return uint16(n)
	}
	return 0
}

func isAuthError(err error) bool {
	var apiErr *cf.Error
	if errors.As(err, &apiErr) {
		return apiErr.StatusCode == http.StatusUnauthorized || apiErr.StatusCode == http.StatusForbidden
	}
	return false
}

// mapError translates a cloudflare-go error into the shared taxonomy.
// cloudflare-go surfaces rate limiting and 5xx responses as distinct
// sentinel checks rather than typed errors, so both are triaged here.
func mapError(err error, ectx dnserr.ErrorContext) error {
	var apiErr *cf.Error
	if errors.As(err, &apiErr) {
		switch {
		case apiErr.ClientRateLimited():
			return dnserr.RateLimited(id, 0)
		case apiErr.StatusCode == http.StatusUnauthorized:
			return dnserr.InvalidCredentials(id, apiErr.Error())
		case apiErr.StatusCode == http.StatusForbidden:
			return dnserr.PermissionDenied(id, apiErr.Error())
		case apiErr.StatusCode == http.StatusNotFound:
			if ectx.RecordID != "" {
				return dnserr.RecordNotFound(id, ectx.RecordID, apiErr.Error())
			}
			return dnserr.DomainNotFound(id, ectx.Domain, apiErr.Error())
		case apiErr.StatusCode >= http.StatusInternalServerError:
			return dnserr.NetworkError(id, apiErr.Error())
		case isRecordExists(apiErr):
			return dnserr.RecordExists(id, ectx.RecordName, apiErr.Error())
		}
		return dnserr.Unknown(id, fmt.Sprintf("%d", apiErr.StatusCode), apiErr.Error())
	}
	if strings.Contains(err.Error(), "exceeded available rate limit retries") {
		return dnserr.RateLimited(id, 0)
	}
	return dnserr.NetworkError(id, err.Error())
}

func isRecordExists(apiErr *cf.Error) bool {
	for _, e := range apiErr.Errors {
		if e.Code == 81058 || e.Code == 81057 {
			return true
		}
	}
	return false
}
