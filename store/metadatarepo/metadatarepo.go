// Package metadatarepo implements the domain-metadata repository
// contract: the favorite/tag/color/note bundle keyed by
// (account_id, domain_id). A SQL back-end would store one row
// {account_id, domain_id, is_favorite 0|1, tags JSON-array, color,
// note?, favorited_at?, updated_at} with composite primary key
// (account_id, domain_id) and answer FindByTag/ListAllTags by
// exploding the tags JSON array (e.g. SQLite json_each); only the
// file-backed scan implementation exists today.
package metadatarepo

import (
	"github.com/ZnLuAr/dns-orchestrator-sub000/internal/dnsmodel"
)

// Repo is the domain-metadata repository contract. An absent
// key is not an error: callers (the metadata service) substitute
// dnsmodel.NewDefaultMetadata(). Save with an empty metadata value
// (per DomainMetadata.IsEmpty) deletes the row instead of persisting
// it, so the store never holds trivial entries.
type Repo interface {
	Find(key dnsmodel.DomainMetadataKey) (dnsmodel.DomainMetadata, bool, error)
	FindBatch(keys []dnsmodel.DomainMetadataKey) (map[dnsmodel.DomainMetadataKey]dnsmodel.DomainMetadata, error)
	Save(key dnsmodel.DomainMetadataKey, metadata dnsmodel.DomainMetadata) error
	BatchSave(entries map[dnsmodel.DomainMetadataKey]dnsmodel.DomainMetadata) error
	Delete(key dnsmodel.DomainMetadataKey) error

	FindByTag(accountID, tag string) ([]dnsmodel.DomainMetadataKey, error)
	ListFavorites(accountID string) ([]dnsmodel.DomainMetadataKey, error)
	ListAllTags(accountID string) ([]string, error)
}
