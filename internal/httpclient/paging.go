package httpclient

import "context"

// FetchPageFunc fetches one page given the current offset into the
// listing and returns the items plus the total count the endpoint
// reports.
type FetchPageFunc[T any] func(ctx context.Context, offset, pageSize int) (items []T, total int, err error)

// DrainAll repeatedly calls fetch, advancing the offset by the number
// of items received, until a page comes back short or the reported
// total is reached. Adapters use it when one uniform-interface call
// must walk an entire provider listing, e.g. resolving a numeric
// DNSPod domain id against DescribeDomainList.
func DrainAll[T any](ctx context.Context, pageSize int, fetch FetchPageFunc[T]) ([]T, error) {
	var all []T
	offset := 0
	for {
		items, total, err := fetch(ctx, offset, pageSize)
		if err != nil {
			return nil, err
		}
		all = append(all, items...)
		offset += len(items)
		if len(items) < pageSize || offset >= total || len(items) == 0 {
			break
		}
	}
	return all, nil
}
