package dnsmodel

import (
	"sort"
	"strings"
	"time"
)

// MetadataColor is the fixed label-color palette.
type MetadataColor string

const (
	ColorRed    MetadataColor = "red"
	ColorOrange MetadataColor = "orange"
	ColorYellow MetadataColor = "yellow"
	ColorGreen  MetadataColor = "green"
	ColorTeal   MetadataColor = "teal"
	ColorBlue   MetadataColor = "blue"
	ColorPurple MetadataColor = "purple"
	ColorPink   MetadataColor = "pink"
	ColorBrown  MetadataColor = "brown"
	ColorGray   MetadataColor = "gray"
	ColorNone   MetadataColor = "none"
)

var colorPalette = map[MetadataColor]struct{}{
	ColorRed: {}, ColorOrange: {}, ColorYellow: {}, ColorGreen: {}, ColorTeal: {},
	ColorBlue: {}, ColorPurple: {}, ColorPink: {}, ColorBrown: {}, ColorGray: {}, ColorNone: {},
}

// ValidColor reports whether c is a member of the fixed palette,
// including the "none" sentinel.
func ValidColor(c MetadataColor) bool {
	_, ok := colorPalette[c]
	return ok
}

const (
	maxTags      = 10
	maxTagLen    = 50
	maxNoteLen   = 500
)

// DomainMetadataKey identifies a domain's metadata row, unique by the
// pair (AccountID, DomainID).
type DomainMetadataKey struct {
	AccountID string
	DomainID  string
}

// StorageKey renders the key into the reversible "<account_id>::<domain_id>"
// form used by non-relational store backends.
func (k DomainMetadataKey) StorageKey() string {
	return k.AccountID + "::" + k.DomainID
}

// ParseStorageKey is the inverse of StorageKey.
func ParseStorageKey(s string) (DomainMetadataKey, bool) {
	parts := strings.SplitN(s, "::", 2)
	if len(parts) != 2 {
		return DomainMetadataKey{}, false
	}
	return DomainMetadataKey{AccountID: parts[0], DomainID: parts[1]}, true
}

// DomainMetadata is the per-domain favorite/tag/color/note bundle.
// Tags are always stored sorted, unique, within bounds.
type DomainMetadata struct {
	IsFavorite  bool
	Tags        []string
	Color       MetadataColor
	Note        string
	FavoritedAt *time.Time
	UpdatedAt   time.Time
}

// NewDefaultMetadata is the zero value returned by get_metadata when no
// row is stored.
func NewDefaultMetadata() DomainMetadata {
	return DomainMetadata{Color: ColorNone}
}

// IsEmpty reports whether m carries no user data: not favorite, no
// tags, color = none, note empty, and no FavoritedAt timestamp. An
// empty metadata triggers delete-on-save so the store never holds
// trivial entries.
func (m DomainMetadata) IsEmpty() bool {
	return !m.IsFavorite && len(m.Tags) == 0 && (m.Color == "" || m.Color == ColorNone) && strings.TrimSpace(m.Note) == "" && m.FavoritedAt == nil
}

// NormalizeTags trims, drops empties, enforces length/size bounds,
// dedupes and sorts — the invariant every write-path must establish
// before persisting.
func NormalizeTags(tags []string) ([]string, bool) {
	seen := make(map[string]struct{}, len(tags))
	out := make([]string, 0, len(tags))
	for _, t := range tags {
		t = strings.TrimSpace(t)
		if t == "" || len(t) > maxTagLen {
			continue
		}
		if _, ok := seen[t]; ok {
			continue
		}
		seen[t] = struct{}{}
		out = append(out, t)
	}
	sort.Strings(out)
	if len(out) > maxTags {
		return out[:maxTags], true
	}
	return out, len(out) < len(tags)
}
