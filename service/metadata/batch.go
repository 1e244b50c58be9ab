package metadata

import (
	"time"

	"github.com/ZnLuAr/dns-orchestrator-sub000/internal/dnsmodel"
)

// BatchTagItem pairs a domain-metadata key with the tag list a bulk
// tag operation applies to it.
type BatchTagItem struct {
	Key  dnsmodel.DomainMetadataKey
	Tags []string
}

// BatchAddTags computes every item's merged tag set in memory first,
// failing an item outright (leaving it untouched) if the merge would
// exceed the 10-tag bound, then commits every successful item in a
// single batch_save.
func (s *Service) BatchAddTags(items []BatchTagItem) (dnsmodel.BatchTagResult, error) {
	var result dnsmodel.BatchTagResult
	updates := make(map[dnsmodel.DomainMetadataKey]dnsmodel.DomainMetadata)

	for _, item := range items {
		current, err := s.GetMetadata(item.Key)
		if err != nil {
			result.FailedCount++
			result.Failures = append(result.Failures, dnsmodel.BatchFailure{Identifier: item.Key.StorageKey(), Reason: err.Error()})
			continue
		}

		merged := append(append([]string{}, current.Tags...), item.Tags...)
		// NormalizeTags truncates to the bound, so count the distinct
		// valid tags first to detect an overflow.
		distinct := make(map[string]struct{}, len(merged))
		for _, t := range merged {
			if n, nerr := normalizeSingleTag(t); nerr == nil {
				distinct[n] = struct{}{}
			}
		}
		normalized, _ := dnsmodel.NormalizeTags(merged)
		if len(distinct) > maxTags {
			result.FailedCount++
			result.Failures = append(result.Failures, dnsmodel.BatchFailure{Identifier: item.Key.StorageKey(), Reason: "cannot exceed 10 tags"})
			continue
		}

		current.Tags = normalized
		current.UpdatedAt = time.Now().UTC()
		updates[item.Key] = current
		result.SuccessCount++
	}

	if len(updates) > 0 {
		if err := s.ctx.Metadata.BatchSave(updates); err != nil {
			return dnsmodel.BatchTagResult{}, err
		}
	}
	return result, nil
}

// BatchRemoveTags has no failure mode (removing an absent tag is a
// no-op), so every item succeeds.
func (s *Service) BatchRemoveTags(items []BatchTagItem) (dnsmodel.BatchTagResult, error) {
	var result dnsmodel.BatchTagResult
	updates := make(map[dnsmodel.DomainMetadataKey]dnsmodel.DomainMetadata)

	for _, item := range items {
		current, err := s.GetMetadata(item.Key)
		if err != nil {
			result.FailedCount++
			result.Failures = append(result.Failures, dnsmodel.BatchFailure{Identifier: item.Key.StorageKey(), Reason: err.Error()})
			continue
		}

		removeSet := make(map[string]struct{}, len(item.Tags))
		for _, t := range item.Tags {
			removeSet[t] = struct{}{}
		}
		kept := make([]string, 0, len(current.Tags))
		for _, t := range current.Tags {
			if _, drop := removeSet[t]; !drop {
				kept = append(kept, t)
			}
		}
		current.Tags = kept
		current.UpdatedAt = time.Now().UTC()
		updates[item.Key] = current
		result.SuccessCount++
	}

	if len(updates) > 0 {
		if err := s.ctx.Metadata.BatchSave(updates); err != nil {
			return dnsmodel.BatchTagResult{}, err
		}
	}
	return result, nil
}

// BatchSetTags replaces each item's tag set wholesale, failing that
// item outright (leaving it untouched) on an empty tag, a >50-char
// tag, or more than 10 tags, like the single-item SetTags.
func (s *Service) BatchSetTags(items []BatchTagItem) (dnsmodel.BatchTagResult, error) {
	var result dnsmodel.BatchTagResult
	updates := make(map[dnsmodel.DomainMetadataKey]dnsmodel.DomainMetadata)

	for _, item := range items {
		trimmed, err := validateTagList(item.Tags)
		if err != nil {
			result.FailedCount++
			result.Failures = append(result.Failures, dnsmodel.BatchFailure{Identifier: item.Key.StorageKey(), Reason: err.Error()})
			continue
		}

		current, err := s.GetMetadata(item.Key)
		if err != nil {
			result.FailedCount++
			result.Failures = append(result.Failures, dnsmodel.BatchFailure{Identifier: item.Key.StorageKey(), Reason: err.Error()})
			continue
		}

		normalized, _ := dnsmodel.NormalizeTags(trimmed)
		current.Tags = normalized
		current.UpdatedAt = time.Now().UTC()
		updates[item.Key] = current
		result.SuccessCount++
	}

	if len(updates) > 0 {
		if err := s.ctx.Metadata.BatchSave(updates); err != nil {
			return dnsmodel.BatchTagResult{}, err
		}
	}
	return result, nil
}
