// Package metadata implements the domain-metadata service: it
// wraps store/metadatarepo and enforces every metadata invariant on
// every write — the empty-triggers-delete rule, favorited_at
// monotonicity, the tag bounds/charset, and the color palette — so no
// caller can bypass them by writing through the repository directly.
package metadata

import (
	"time"

	"github.com/ZnLuAr/dns-orchestrator-sub000/internal/dnserr"
	"github.com/ZnLuAr/dns-orchestrator-sub000/internal/dnsmodel"
	"github.com/ZnLuAr/dns-orchestrator-sub000/servicectx"
)

const maxTags = 10

type Service struct {
	ctx *servicectx.Context
}

func New(ctx *servicectx.Context) *Service {
	return &Service{ctx: ctx}
}

// UpdateMetadataRequest is a partial update to a domain's metadata;
// nil fields are left unchanged.
type UpdateMetadataRequest struct {
	Color *dnsmodel.MetadataColor
	Note  *string
	Tags  *[]string
}

// GetMetadata returns the stored metadata for key, or the zero-value
// default when no row exists.
func (s *Service) GetMetadata(key dnsmodel.DomainMetadataKey) (dnsmodel.DomainMetadata, error) {
	m, ok, err := s.ctx.Metadata.Find(key)
	if err != nil {
		return dnsmodel.DomainMetadata{}, err
	}
	if !ok {
		return dnsmodel.NewDefaultMetadata(), nil
	}
	return m, nil
}

// GetMetadataBatch is a single-shot batch read for the UI;
// absent keys are simply omitted from the result, not defaulted,
// since the caller can tell "no row" from "empty map entry".
func (s *Service) GetMetadataBatch(keys []dnsmodel.DomainMetadataKey) (map[dnsmodel.DomainMetadataKey]dnsmodel.DomainMetadata, error) {
	return s.ctx.Metadata.FindBatch(keys)
}

// SaveMetadata validates color and note length, normalizes tags, and
// applies the empty-triggers-delete rule before persisting.
func (s *Service) SaveMetadata(key dnsmodel.DomainMetadataKey, m dnsmodel.DomainMetadata) (dnsmodel.DomainMetadata, error) {
	if err := validateColorAndNote(m.Color, m.Note); err != nil {
		return dnsmodel.DomainMetadata{}, err
	}
	m.Tags, _ = dnsmodel.NormalizeTags(m.Tags)
	m.UpdatedAt = time.Now().UTC()
	if err := s.ctx.Metadata.Save(key, m); err != nil {
		return dnsmodel.DomainMetadata{}, err
	}
	return m, nil
}

// UpdateMetadata applies a partial update on top of the stored (or
// default) metadata, then runs it through the same validation/save
// path as SaveMetadata.
func (s *Service) UpdateMetadata(key dnsmodel.DomainMetadataKey, req UpdateMetadataRequest) (dnsmodel.DomainMetadata, error) {
	current, err := s.GetMetadata(key)
	if err != nil {
		return dnsmodel.DomainMetadata{}, err
	}
	if req.Color != nil {
		current.Color = *req.Color
	}
	if req.Note != nil {
		current.Note = *req.Note
	}
	if req.Tags != nil {
		current.Tags = *req.Tags
	}
	return s.SaveMetadata(key, current)
}

// ToggleFavorite flips is_favorite. FavoritedAt is set the first time
// a domain is favorited and is never cleared afterward, preserving
// the "first favorited on" audit trail even across later disables.
func (s *Service) ToggleFavorite(key dnsmodel.DomainMetadataKey) (bool, error) {
	current, err := s.GetMetadata(key)
	if err != nil {
		return false, err
	}
	current.IsFavorite = !current.IsFavorite
	if current.IsFavorite && current.FavoritedAt == nil {
		now := time.Now().UTC()
		current.FavoritedAt = &now
	}
	current.UpdatedAt = time.Now().UTC()
	if err := s.ctx.Metadata.Save(key, current); err != nil {
		return false, err
	}
	return current.IsFavorite, nil
}

// AddTag trims, rejects empty/too-long/over-bound, and is a no-op
// (returning the current tags) when tag is already present.
func (s *Service) AddTag(key dnsmodel.DomainMetadataKey, tag string) ([]string, error) {
	trimmed, err := normalizeSingleTag(tag)
	if err != nil {
		return nil, err
	}
	current, err := s.GetMetadata(key)
	if err != nil {
		return nil, err
	}
	for _, t := range current.Tags {
		if t == trimmed {
			return current.Tags, nil
		}
	}
	if len(current.Tags) >= maxTags {
		return nil, dnserr.InvalidParameter("", "tags", "cannot exceed 10 tags")
	}
	current.Tags = append(current.Tags, trimmed)
	saved, err := s.SaveMetadata(key, current)
	if err != nil {
		return nil, err
	}
	return saved.Tags, nil
}

// RemoveTag is a silent no-op when tag is absent.
func (s *Service) RemoveTag(key dnsmodel.DomainMetadataKey, tag string) ([]string, error) {
	current, err := s.GetMetadata(key)
	if err != nil {
		return nil, err
	}
	out := make([]string, 0, len(current.Tags))
	for _, t := range current.Tags {
		if t != tag {
			out = append(out, t)
		}
	}
	current.Tags = out
	saved, err := s.SaveMetadata(key, current)
	if err != nil {
		return nil, err
	}
	return saved.Tags, nil
}

// SetTags replaces the tag set wholesale, rejecting the whole call on
// an empty tag, a >50-char tag, or more than 10 tags rather than
// truncating.
func (s *Service) SetTags(key dnsmodel.DomainMetadataKey, tags []string) ([]string, error) {
	trimmed, err := validateTagList(tags)
	if err != nil {
		return nil, err
	}
	current, err := s.GetMetadata(key)
	if err != nil {
		return nil, err
	}
	current.Tags = trimmed
	saved, err := s.SaveMetadata(key, current)
	if err != nil {
		return nil, err
	}
	return saved.Tags, nil
}

func (s *Service) FindByTag(accountID, tag string) ([]dnsmodel.DomainMetadataKey, error) {
	return s.ctx.Metadata.FindByTag(accountID, tag)
}

func (s *Service) ListFavorites(accountID string) ([]dnsmodel.DomainMetadataKey, error) {
	return s.ctx.Metadata.ListFavorites(accountID)
}

func (s *Service) ListAllTags(accountID string) ([]string, error) {
	return s.ctx.Metadata.ListAllTags(accountID)
}

func validateColorAndNote(color dnsmodel.MetadataColor, note string) error {
	if color != "" && !dnsmodel.ValidColor(color) {
		return dnserr.InvalidParameter("", "color", "color must be one of the fixed palette or \"none\"")
	}
	if len(note) > 500 {
		return dnserr.InvalidParameter("", "note", "note must be at most 500 characters")
	}
	return nil
}

func normalizeSingleTag(tag string) (string, error) {
	normalized, _ := dnsmodel.NormalizeTags([]string{tag})
	if len(normalized) == 0 {
		return "", dnserr.InvalidParameter("", "tag", "tag must be 1-50 characters after trimming")
	}
	return normalized[0], nil
}

// validateTagList rejects the whole list on any empty/overlong tag or
// a count over maxTags, matching AddTag's per-tag bound instead of
// silently truncating.
func validateTagList(tags []string) ([]string, error) {
	if len(tags) > maxTags {
		return nil, dnserr.InvalidParameter("", "tags", "cannot exceed 10 tags")
	}
	trimmed := make([]string, 0, len(tags))
	for _, tag := range tags {
		normalized, err := normalizeSingleTag(tag)
		if err != nil {
			return nil, err
		}
		trimmed = append(trimmed, normalized)
	}
	return trimmed, nil
}
