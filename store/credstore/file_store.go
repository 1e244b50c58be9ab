package credstore

import (
	"encoding/json"
	"os"
	"path/filepath"
	"sync"

	"github.com/ZnLuAr/dns-orchestrator-sub000/internal/dnserr"
	"github.com/ZnLuAr/dns-orchestrator-sub000/internal/dnsmodel"
)

// currentVersion is the on-disk shape this store reads/writes. Version
// 1 was a flat {account_id: {field: value}} map with no provider tag
// per entry; the migration service upgrades it to this shape.
const currentVersion = 2

// fileShape is the v2 on-disk layout: a version tag plus one entry per
// account, each carrying the provider kind alongside its field map so
// Credentials can round-trip without consulting the account repo.
type fileShape struct {
	Version  int                     `json:"version"`
	Accounts map[string]accountEntry `json:"accounts"`
}

type accountEntry struct {
	Kind   string            `json:"kind"`
	Fields map[string]string `json:"fields"`
}

// FileStore is the JSON-file-backed credential store. A single mutex
// serializes every read and write; each call reads the file afresh,
// with no in-memory cache.
type FileStore struct {
	mu   sync.Mutex
	path string
}

// NewFileStore returns a store backed by the file at path. The file is
// created lazily on first Set/SaveAll; LoadAll on a missing file
// returns an empty map, not an error.
func NewFileStore(path string) *FileStore {
	return &FileStore{path: path}
}

func (s *FileStore) LoadAll() (map[string]dnsmodel.Credentials, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.loadAllLocked()
}

func (s *FileStore) loadAllLocked() (map[string]dnsmodel.Credentials, error) {
	raw, err := s.readFileLocked()
	if err != nil {
		return nil, err
	}
	if len(raw) == 0 {
		return map[string]dnsmodel.Credentials{}, nil
	}

	shape, migrationNeeded, err := decodeShape(raw)
	if err != nil {
		return nil, dnserr.StorageError("corrupt credential store: " + err.Error())
	}
	if migrationNeeded {
		return nil, dnserr.MigrationRequired()
	}

	out := make(map[string]dnsmodel.Credentials, len(shape.Accounts))
	for id, entry := range shape.Accounts {
		kind, err := dnsmodel.ParseProviderKind(entry.Kind)
		if err != nil {
			return nil, dnserr.StorageError("credential store entry '" + id + "': " + err.Error())
		}
		creds, err := dnsmodel.CredentialsFromMap(kind, entry.Fields)
		if err != nil {
			return nil, dnserr.StorageError("credential store entry '" + id + "': " + err.Error())
		}
		out[id] = creds
	}
	return out, nil
}

// decodeShape distinguishes the v2 {"version":2,"accounts":{...}}
// layout from the v1 flat {account_id: {field: value}} layout. v1
// files carry no "version"/"accounts" envelope at all, so a failed or
// zero-version decode of the v2 shape, paired with a successful flat
// decode, signals migration is required.
func decodeShape(raw []byte) (fileShape, bool, error) {
	var v2 fileShape
	if err := json.Unmarshal(raw, &v2); err == nil && v2.Version == currentVersion {
		return v2, false, nil
	}

	var flat map[string]map[string]string
	if err := json.Unmarshal(raw, &flat); err != nil {
		return fileShape{}, false, err
	}
	return fileShape{}, true, nil
}

func (s *FileStore) SaveAll(m map[string]dnsmodel.Credentials) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	shape := fileShape{Version: currentVersion, Accounts: make(map[string]accountEntry, len(m))}
	for id, creds := range m {
		fields := creds.ToMap()
		kind := fields["kind"]
		delete(fields, "kind")
		shape.Accounts[id] = accountEntry{Kind: kind, Fields: fields}
	}
	return s.writeShapeLocked(shape)
}

func (s *FileStore) Get(accountID string) (dnsmodel.Credentials, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	all, err := s.loadAllLocked()
	if err != nil {
		return dnsmodel.Credentials{}, false, err
	}
	creds, ok := all[accountID]
	return creds, ok, nil
}

func (s *FileStore) Set(accountID string, creds dnsmodel.Credentials) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	all, err := s.loadAllLocked()
	if err != nil {
		return err
	}
	all[accountID] = creds

	shape := fileShape{Version: currentVersion, Accounts: make(map[string]accountEntry, len(all))}
	for id, c := range all {
		fields := c.ToMap()
		kind := fields["kind"]
		delete(fields, "kind")
		shape.Accounts[id] = accountEntry{Kind: kind, Fields: fields}
	}
	return s.writeShapeLocked(shape)
}

func (s *FileStore) Remove(accountID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	all, err := s.loadAllLocked()
	if err != nil {
		return err
	}
	if _, ok := all[accountID]; !ok {
		return nil
	}
	delete(all, accountID)

	shape := fileShape{Version: currentVersion, Accounts: make(map[string]accountEntry, len(all))}
	for id, c := range all {
		fields := c.ToMap()
		kind := fields["kind"]
		delete(fields, "kind")
		shape.Accounts[id] = accountEntry{Kind: kind, Fields: fields}
	}
	return s.writeShapeLocked(shape)
}

func (s *FileStore) LoadRawJSON() (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	raw, err := s.readFileLocked()
	if err != nil {
		return "", err
	}
	return string(raw), nil
}

func (s *FileStore) SaveRawJSON(raw string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := os.MkdirAll(filepath.Dir(s.path), 0o700); err != nil {
		return dnserr.StorageError("create credential store directory: " + err.Error())
	}
	if err := os.WriteFile(s.path, []byte(raw), 0o600); err != nil {
		return dnserr.StorageError("write credential store: " + err.Error())
	}
	return nil
}

func (s *FileStore) readFileLocked() ([]byte, error) {
	raw, err := os.ReadFile(s.path)
	if os.IsNotExist(err) {
		return nil, nil
	}
	if err != nil {
		return nil, dnserr.StorageError("read credential store: " + err.Error())
	}
	return raw, nil
}

func (s *FileStore) writeShapeLocked(shape fileShape) error {
	raw, err := json.MarshalIndent(shape, "", "  ")
	if err != nil {
		return dnserr.StorageError("encode credential store: " + err.Error())
	}
	if err := os.MkdirAll(filepath.Dir(s.path), 0o700); err != nil {
		return dnserr.StorageError("create credential store directory: " + err.Error())
	}
	if err := os.WriteFile(s.path, raw, 0o600); err != nil {
		return dnserr.StorageError("write credential store: " + err.Error())
	}
	return nil
}

var _ Store = (*FileStore)(nil)
