package metadatarepo

import (
	"encoding/json"
	"os"
	"path/filepath"
	"sort"
	"sync"

	"github.com/ZnLuAr/dns-orchestrator-sub000/internal/dnserr"
	"github.com/ZnLuAr/dns-orchestrator-sub000/internal/dnsmodel"
)

// FileRepo is the JSON-file-backed metadata repository, keyed by the
// reversible "<account_id>::<domain_id>" storage key. FindByTag,
// ListFavorites and ListAllTags scan the whole map in place of a
// SQL json_each query.
type FileRepo struct {
	mu   sync.Mutex
	path string
}

func NewFileRepo(path string) *FileRepo {
	return &FileRepo{path: path}
}

func (r *FileRepo) Find(key dnsmodel.DomainMetadataKey) (dnsmodel.DomainMetadata, bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	all, err := r.readAllLocked()
	if err != nil {
		return dnsmodel.DomainMetadata{}, false, err
	}
	m, ok := all[key.StorageKey()]
	return m, ok, nil
}

func (r *FileRepo) FindBatch(keys []dnsmodel.DomainMetadataKey) (map[dnsmodel.DomainMetadataKey]dnsmodel.DomainMetadata, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	all, err := r.readAllLocked()
	if err != nil {
		return nil, err
	}
	out := make(map[dnsmodel.DomainMetadataKey]dnsmodel.DomainMetadata, len(keys))
	for _, k := range keys {
		if m, ok := all[k.StorageKey()]; ok {
			out[k] = m
		}
	}
	return out, nil
}

func (r *FileRepo) Save(key dnsmodel.DomainMetadataKey, metadata dnsmodel.DomainMetadata) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	all, err := r.readAllLocked()
	if err != nil {
		return err
	}
	if metadata.IsEmpty() {
		delete(all, key.StorageKey())
	} else {
		all[key.StorageKey()] = metadata
	}
	return r.writeAllLocked(all)
}

func (r *FileRepo) BatchSave(entries map[dnsmodel.DomainMetadataKey]dnsmodel.DomainMetadata) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	all, err := r.readAllLocked()
	if err != nil {
		return err
	}
	for key, metadata := range entries {
		if metadata.IsEmpty() {
			delete(all, key.StorageKey())
		} else {
			all[key.StorageKey()] = metadata
		}
	}
	return r.writeAllLocked(all)
}

func (r *FileRepo) Delete(key dnsmodel.DomainMetadataKey) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	all, err := r.readAllLocked()
	if err != nil {
		return err
	}
	delete(all, key.StorageKey())
	return r.writeAllLocked(all)
}

func (r *FileRepo) FindByTag(accountID, tag string) ([]dnsmodel.DomainMetadataKey, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	all, err := r.readAllLocked()
	if err != nil {
		return nil, err
	}
	var out []dnsmodel.DomainMetadataKey
	for storageKey, m := range all {
		key, ok := dnsmodel.ParseStorageKey(storageKey)
		if !ok || key.AccountID != accountID {
			continue
		}
		for _, t := range m.Tags {
			if t == tag {
				out = append(out, key)
				break
			}
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].DomainID < out[j].DomainID })
	return out, nil
}

func (r *FileRepo) ListFavorites(accountID string) ([]dnsmodel.DomainMetadataKey, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	all, err := r.readAllLocked()
	if err != nil {
		return nil, err
	}
	var out []dnsmodel.DomainMetadataKey
	for storageKey, m := range all {
		if !m.IsFavorite {
			continue
		}
		key, ok := dnsmodel.ParseStorageKey(storageKey)
		if !ok || key.AccountID != accountID {
			continue
		}
		out = append(out, key)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].DomainID < out[j].DomainID })
	return out, nil
}

func (r *FileRepo) ListAllTags(accountID string) ([]string, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	all, err := r.readAllLocked()
	if err != nil {
		return nil, err
	}
	seen := make(map[string]struct{})
	for storageKey, m := range all {
		key, ok := dnsmodel.ParseStorageKey(storageKey)
		if !ok || key.AccountID != accountID {
			continue
		}
		for _, t := range m.Tags {
			seen[t] = struct{}{}
		}
	}
	out := make([]string, 0, len(seen))
	for t := range seen {
		out = append(out, t)
	}
	sort.Strings(out)
	return out, nil
}

func (r *FileRepo) readAllLocked() (map[string]dnsmodel.DomainMetadata, error) {
	raw, err := os.ReadFile(r.path)
	if os.IsNotExist(err) {
		return map[string]dnsmodel.DomainMetadata{}, nil
	}
	if err != nil {
		return nil, dnserr.StorageError("read metadata repository: " + err.Error())
	}
	if len(raw) == 0 {
		return map[string]dnsmodel.DomainMetadata{}, nil
	}
	var all map[string]dnsmodel.DomainMetadata
	if err := json.Unmarshal(raw, &all); err != nil {
		return nil, dnserr.StorageError("corrupt metadata repository: " + err.Error())
	}
	return all, nil
}

func (r *FileRepo) writeAllLocked(all map[string]dnsmodel.DomainMetadata) error {
	raw, err := json.MarshalIndent(all, "", "  ")
	if err != nil {
		return dnserr.StorageError("encode metadata repository: " + err.Error())
	}
	if err := os.MkdirAll(filepath.Dir(r.path), 0o700); err != nil {
		return dnserr.StorageError("create metadata repository directory: " + err.Error())
	}
	if err := os.WriteFile(r.path, raw, 0o600); err != nil {
		return dnserr.StorageError("write metadata repository: " + err.Error())
	}
	return nil
}

var _ Repo = (*FileRepo)(nil)
