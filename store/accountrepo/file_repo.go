package accountrepo

import (
	"encoding/json"
	"os"
	"path/filepath"
	"sync"

	"github.com/ZnLuAr/dns-orchestrator-sub000/internal/dnserr"
	"github.com/ZnLuAr/dns-orchestrator-sub000/internal/dnsmodel"
)

// FileRepo is the JSON-file-backed account repository. A single mutex
// serializes writes; the file holds a JSON array, the same shape a
// SQL table's row set would produce.
type FileRepo struct {
	mu   sync.Mutex
	path string
}

func NewFileRepo(path string) *FileRepo {
	return &FileRepo{path: path}
}

func (r *FileRepo) FindAll() ([]dnsmodel.Account, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.readAllLocked()
}

func (r *FileRepo) FindByID(accountID string) (dnsmodel.Account, bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	all, err := r.readAllLocked()
	if err != nil {
		return dnsmodel.Account{}, false, err
	}
	for _, a := range all {
		if a.ID == accountID {
			return a, true, nil
		}
	}
	return dnsmodel.Account{}, false, nil
}

func (r *FileRepo) Save(account dnsmodel.Account) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	all, err := r.readAllLocked()
	if err != nil {
		return err
	}
	replaced := false
	for i, a := range all {
		if a.ID == account.ID {
			all[i] = account
			replaced = true
			break
		}
	}
	if !replaced {
		all = append(all, account)
	}
	return r.writeAllLocked(all)
}

func (r *FileRepo) Delete(accountID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	all, err := r.readAllLocked()
	if err != nil {
		return err
	}
	out := all[:0]
	for _, a := range all {
		if a.ID != accountID {
			out = append(out, a)
		}
	}
	return r.writeAllLocked(out)
}

func (r *FileRepo) SaveAll(accounts []dnsmodel.Account) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.writeAllLocked(accounts)
}

func (r *FileRepo) UpdateStatus(accountID string, status dnsmodel.AccountStatus, reason string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	all, err := r.readAllLocked()
	if err != nil {
		return err
	}
	for i, a := range all {
		if a.ID == accountID {
			all[i].Status = status
			all[i].Error = reason
			return r.writeAllLocked(all)
		}
	}
	return dnserr.AccountNotFound(accountID)
}

func (r *FileRepo) readAllLocked() ([]dnsmodel.Account, error) {
	raw, err := os.ReadFile(r.path)
	if os.IsNotExist(err) {
		return []dnsmodel.Account{}, nil
	}
	if err != nil {
		return nil, dnserr.StorageError("read account repository: " + err.Error())
	}
	if len(raw) == 0 {
		return []dnsmodel.Account{}, nil
	}
	var all []dnsmodel.Account
	if err := json.Unmarshal(raw, &all); err != nil {
		return nil, dnserr.StorageError("corrupt account repository: " + err.Error())
	}
	return all, nil
}

func (r *FileRepo) writeAllLocked(accounts []dnsmodel.Account) error {
	if accounts == nil {
		accounts = []dnsmodel.Account{}
	}
	raw, err := json.MarshalIndent(accounts, "", "  ")
	if err != nil {
		return dnserr.StorageError("encode account repository: " + err.Error())
	}
	if err := os.MkdirAll(filepath.Dir(r.path), 0o700); err != nil {
		return dnserr.StorageError("create account repository directory: " + err.Error())
	}
	if err := os.WriteFile(r.path, raw, 0o600); err != nil {
		return dnserr.StorageError("write account repository: " + err.Error())
	}
	return nil
}

var _ Repo = (*FileRepo)(nil)
