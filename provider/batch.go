package provider

import (
	"context"
	"sync"

	"golang.org/x/sync/errgroup"

	"github.com/ZnLuAr/dns-orchestrator-sub000/internal/dnsmodel"
)

// SingleRecordAPI is the subset of Provider an adapter without a
// native batch endpoint must supply so BaseProvider can drive its
// default fan-out.
type SingleRecordAPI interface {
	CreateRecord(ctx context.Context, req dnsmodel.CreateRecordRequest) (dnsmodel.DnsRecord, error)
	UpdateRecord(ctx context.Context, recordID string, req dnsmodel.UpdateRecordRequest) (dnsmodel.DnsRecord, error)
	DeleteRecord(ctx context.Context, domainID, recordID string) error
}

// BaseProvider supplies the default batch-via-bounded-concurrency
// behavior via composition. Adapters that embed BaseProvider
// get working Batch* methods for free; adapters with a native batch
// endpoint (none of the four today) would override them directly.
type BaseProvider struct {
	Concurrency int
}

func (b BaseProvider) concurrency() int {
	if b.Concurrency <= 0 {
		return DefaultBatchConcurrency
	}
	return b.Concurrency
}

// BatchCreate drives api.CreateRecord over reqs with bounded
// concurrency, never short-circuiting on the first failure and
// preserving input order in the result slices via index-tagged
// collection.
func (b BaseProvider) BatchCreate(ctx context.Context, api SingleRecordAPI, reqs []dnsmodel.CreateRecordRequest) dnsmodel.BatchCreateResult {
	type outcome struct {
		record dnsmodel.DnsRecord
		err    error
	}
	results := make([]outcome, len(reqs))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(b.concurrency())
	for i, req := range reqs {
		i, req := i, req
		g.Go(func() error {
			rec, err := api.CreateRecord(gctx, req)
			results[i] = outcome{record: rec, err: err}
			return nil
		})
	}
	_ = g.Wait()

	var res dnsmodel.BatchCreateResult
	for i, o := range results {
		if o.err != nil {
			res.FailedCount++
			res.Failures = append(res.Failures, dnsmodel.BatchFailure{
				Identifier: reqs[i].Name,
				Reason:     o.err.Error(),
			})
			continue
		}
		res.SuccessCount++
		res.Created = append(res.Created, o.record)
	}
	return res
}

// BatchUpdate is BatchCreate's counterpart for updates.
func (b BaseProvider) BatchUpdate(ctx context.Context, api SingleRecordAPI, items []BatchUpdateItem) dnsmodel.BatchUpdateResult {
	type outcome struct {
		record dnsmodel.DnsRecord
		err    error
	}
	results := make([]outcome, len(items))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(b.concurrency())
	for i, item := range items {
		i, item := i, item
		g.Go(func() error {
			rec, err := api.UpdateRecord(gctx, item.RecordID, item.Update)
			results[i] = outcome{record: rec, err: err}
			return nil
		})
	}
	_ = g.Wait()

	var res dnsmodel.BatchUpdateResult
	for i, o := range results {
		if o.err != nil {
			res.FailedCount++
			res.Failures = append(res.Failures, dnsmodel.BatchFailure{
				Identifier: items[i].RecordID,
				Reason:     o.err.Error(),
			})
			continue
		}
		res.SuccessCount++
		res.Updated = append(res.Updated, o.record)
	}
	return res
}

// BatchDelete is BatchCreate's counterpart for deletes.
func (b BaseProvider) BatchDelete(ctx context.Context, api SingleRecordAPI, domainID string, recordIDs []string) dnsmodel.BatchDeleteResult {
	var mu sync.Mutex
	var res dnsmodel.BatchDeleteResult

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(b.concurrency())
	for _, id := range recordIDs {
		id := id
		g.Go(func() error {
			err := api.DeleteRecord(gctx, domainID, id)
			mu.Lock()
			defer mu.Unlock()
			if err != nil {
				res.FailedCount++
				res.Failures = append(res.Failures, dnsmodel.BatchFailure{Identifier: id, Reason: err.Error()})
			} else {
				res.SuccessCount++
			}
			return nil
		})
	}
	_ = g.Wait()
	return res
}
