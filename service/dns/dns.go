// Package dns implements the DNS record service: thin,
// registry-backed forwarders to a provider's record CRUD and batch
// primitives, with record validation (ttl bounds, name charset)
// applied before any adapter is touched.
package dns

import (
	"context"

	"github.com/ZnLuAr/dns-orchestrator-sub000/internal/dnsmodel"
	"github.com/ZnLuAr/dns-orchestrator-sub000/provider"
	"github.com/ZnLuAr/dns-orchestrator-sub000/servicectx"
)

type Service struct {
	ctx *servicectx.Context
}

func New(ctx *servicectx.Context) *Service {
	return &Service{ctx: ctx}
}

func (s *Service) ListRecords(ctx context.Context, accountID, domainID string, q dnsmodel.RecordQueryParams) (dnsmodel.PaginatedResponse[dnsmodel.DnsRecord], error) {
	p, err := s.ctx.Registry.Get(accountID)
	if err != nil {
		return dnsmodel.PaginatedResponse[dnsmodel.DnsRecord]{}, err
	}
	q.Pagination = q.Pagination.Normalize(p.Metadata().MaxRecordPageSize)
	return p.ListRecords(ctx, domainID, q)
}

func (s *Service) CreateRecord(ctx context.Context, accountID string, req dnsmodel.CreateRecordRequest) (dnsmodel.DnsRecord, error) {
	if err := validateName(req.Name); err != nil {
		return dnsmodel.DnsRecord{}, err
	}
	if err := validateTTL(req.TTL); err != nil {
		return dnsmodel.DnsRecord{}, err
	}
	p, err := s.ctx.Registry.Get(accountID)
	if err != nil {
		return dnsmodel.DnsRecord{}, err
	}
	return p.CreateRecord(ctx, req)
}

func (s *Service) UpdateRecord(ctx context.Context, accountID, recordID string, req dnsmodel.UpdateRecordRequest) (dnsmodel.DnsRecord, error) {
	if req.Name != nil {
		if err := validateName(*req.Name); err != nil {
			return dnsmodel.DnsRecord{}, err
		}
	}
	if req.TTL != nil {
		if err := validateTTL(*req.TTL); err != nil {
			return dnsmodel.DnsRecord{}, err
		}
	}
	p, err := s.ctx.Registry.Get(accountID)
	if err != nil {
		return dnsmodel.DnsRecord{}, err
	}
	return p.UpdateRecord(ctx, recordID, req)
}

func (s *Service) DeleteRecord(ctx context.Context, accountID, domainID, recordID string) error {
	p, err := s.ctx.Registry.Get(accountID)
	if err != nil {
		return err
	}
	return p.DeleteRecord(ctx, domainID, recordID)
}

// BatchCreate validates every request up front; requests that fail
// validation are reported as failures without ever reaching the
// adapter, then the remaining valid requests are driven through the
// adapter's batch primitive and the two result sets are merged into
// one uniform BatchCreateResult. Failures lists the validation
// failures first, then the adapter's failures, each group in input
// order.
func (s *Service) BatchCreate(ctx context.Context, accountID string, reqs []dnsmodel.CreateRecordRequest) (dnsmodel.BatchCreateResult, error) {
	p, err := s.ctx.Registry.Get(accountID)
	if err != nil {
		return dnsmodel.BatchCreateResult{}, err
	}

	valid := make([]dnsmodel.CreateRecordRequest, 0, len(reqs))
	var result dnsmodel.BatchCreateResult
	for _, r := range reqs {
		if verr := validateName(r.Name); verr != nil {
			result.FailedCount++
			result.Failures = append(result.Failures, dnsmodel.BatchFailure{Identifier: r.Name, Reason: verr.Error()})
			continue
		}
		if verr := validateTTL(r.TTL); verr != nil {
			result.FailedCount++
			result.Failures = append(result.Failures, dnsmodel.BatchFailure{Identifier: r.Name, Reason: verr.Error()})
			continue
		}
		valid = append(valid, r)
	}

	if len(valid) > 0 {
		adapterResult := p.BatchCreateRecords(ctx, valid)
		result.SuccessCount += adapterResult.SuccessCount
		result.FailedCount += adapterResult.FailedCount
		result.Created = append(result.Created, adapterResult.Created...)
		result.Failures = append(result.Failures, adapterResult.Failures...)
	}
	return result, nil
}

// BatchUpdate mirrors BatchCreate's validate-then-merge shape for
// partial updates.
func (s *Service) BatchUpdate(ctx context.Context, accountID string, items []provider.BatchUpdateItem) (dnsmodel.BatchUpdateResult, error) {
	p, err := s.ctx.Registry.Get(accountID)
	if err != nil {
		return dnsmodel.BatchUpdateResult{}, err
	}

	valid := make([]provider.BatchUpdateItem, 0, len(items))
	var result dnsmodel.BatchUpdateResult
	for _, item := range items {
		if item.Update.Name != nil {
			if verr := validateName(*item.Update.Name); verr != nil {
				result.FailedCount++
				result.Failures = append(result.Failures, dnsmodel.BatchFailure{Identifier: item.RecordID, Reason: verr.Error()})
				continue
			}
		}
		if item.Update.TTL != nil {
			if verr := validateTTL(*item.Update.TTL); verr != nil {
				result.FailedCount++
				result.Failures = append(result.Failures, dnsmodel.BatchFailure{Identifier: item.RecordID, Reason: verr.Error()})
				continue
			}
		}
		valid = append(valid, item)
	}

	if len(valid) > 0 {
		adapterResult := p.BatchUpdateRecords(ctx, valid)
		result.SuccessCount += adapterResult.SuccessCount
		result.FailedCount += adapterResult.FailedCount
		result.Updated = append(result.Updated, adapterResult.Updated...)
		result.Failures = append(result.Failures, adapterResult.Failures...)
	}
	return result, nil
}

// BatchDelete needs no record-shape validation (a deletion carries no
// name/ttl), so it forwards directly to the adapter's batch primitive.
func (s *Service) BatchDelete(ctx context.Context, accountID, domainID string, recordIDs []string) (dnsmodel.BatchDeleteResult, error) {
	p, err := s.ctx.Registry.Get(accountID)
	if err != nil {
		return dnsmodel.BatchDeleteResult{}, err
	}
	return p.BatchDeleteRecords(ctx, domainID, recordIDs), nil
}
