// Package importexport implements the backup export/preview/import
// service: a portable `.dnso` file carrying a snapshot of one or
// more accounts' credentials, optionally password-encrypted under the
// same envelope internal/crypto implements for the credential store.
package importexport

import (
	"encoding/base64"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/ZnLuAr/dns-orchestrator-sub000/internal/crypto"
	"github.com/ZnLuAr/dns-orchestrator-sub000/internal/dnserr"
	"github.com/ZnLuAr/dns-orchestrator-sub000/internal/dnsmodel"
	"github.com/ZnLuAr/dns-orchestrator-sub000/provider"
	"github.com/ZnLuAr/dns-orchestrator-sub000/provider/factory"
	"github.com/ZnLuAr/dns-orchestrator-sub000/servicectx"
)

// appVersion is the value written into every export's header.app_version.
const appVersion = "1.0.0"

// ProviderFactory mirrors service/account's seam: factory.New in
// production, a deterministic stub in tests that must not dial a real
// provider during import.
type ProviderFactory func(accountID string, creds dnsmodel.Credentials) (provider.Provider, error)

// Header is the envelope header, shared with the credential file
// format but carrying its own exported_at/app_version per export.
type Header struct {
	Version     int       `json:"version"`
	Encrypted   bool      `json:"encrypted"`
	Salt        string    `json:"salt,omitempty"`
	Nonce       string    `json:"nonce,omitempty"`
	ExportedAt  time.Time `json:"exported_at"`
	AppVersion  string    `json:"app_version"`
}

// File is the on-disk `.dnso` shape. Data is either the
// plaintext account array (unencrypted) or a Base64 ciphertext string.
type File struct {
	Header Header          `json:"header"`
	Data   json.RawMessage `json:"data"`
}

// exportedAccount is one entry of the plaintext payload.
type exportedAccount struct {
	ID          string            `json:"id"`
	Name        string            `json:"name"`
	Provider    dnsmodel.ProviderKind `json:"provider"`
	Credentials map[string]string `json:"credentials"`
	CreatedAt   time.Time         `json:"created_at"`
	UpdatedAt   time.Time         `json:"updated_at"`
}

// Request is the export input.
type Request struct {
	AccountIDs []string
	Encrypt    bool
	Password   string
}

// PreviewAccount is one row of a Preview result.
type PreviewAccount struct {
	Name       string
	Provider   dnsmodel.ProviderKind
	HasConflict bool
}

// PreviewResult is returned by Preview. Accounts is nil when
// the file is encrypted and no password was supplied, signalling the
// caller to prompt for one.
type PreviewResult struct {
	Encrypted    bool
	AccountCount int
	Accounts     []PreviewAccount
}

// ImportResult is returned by Import.
type ImportResult struct {
	SuccessCount int
	Failures     []dnsmodel.BatchFailure
}

type Service struct {
	ctx         *servicectx.Context
	newProvider ProviderFactory
}

func New(ctx *servicectx.Context) *Service {
	return &Service{ctx: ctx, newProvider: factory.New}
}

func NewWithFactory(ctx *servicectx.Context, f ProviderFactory) *Service {
	return &Service{ctx: ctx, newProvider: f}
}

// SuggestedFilename returns the conventional export filename for the
// given local time.
func SuggestedFilename(at time.Time) string {
	return fmt.Sprintf("dns-orchestrator-backup-%s.dnso", at.Format("20060102-150405"))
}

// Export builds a File for the requested accounts. The id field
// written into each plaintext entry is a fresh UUID, not the live
// account id: on import, a fresh UUID is assigned again, so the
// exported id only needs to be a stable identifier within the file.
func (s *Service) Export(req Request) (File, error) {
	entries := make([]exportedAccount, 0, len(req.AccountIDs))
	for _, id := range req.AccountIDs {
		acct, ok, err := s.ctx.Accounts.FindByID(id)
		if err != nil {
			return File{}, err
		}
		if !ok {
			return File{}, dnserr.AccountNotFound(id)
		}
		creds, ok, err := s.ctx.Credentials.Get(id)
		if err != nil {
			return File{}, err
		}
		if !ok {
			return File{}, dnserr.StorageError(fmt.Sprintf("account %q has no stored credentials", id))
		}
		entries = append(entries, exportedAccount{
			ID:          uuid.New().String(),
			Name:        acct.Name,
			Provider:    acct.Provider,
			Credentials: creds.ToMap(),
			CreatedAt:   acct.CreatedAt,
			UpdatedAt:   acct.UpdatedAt,
		})
	}

	plaintext, err := json.Marshal(entries)
	if err != nil {
		return File{}, dnserr.SerializationError("", err.Error())
	}

	header := Header{
		Version:    crypto.CurrentFileVersion,
		ExportedAt: time.Now().UTC(),
		AppVersion: appVersion,
	}

	if !req.Encrypt {
		return File{Header: header, Data: json.RawMessage(plaintext)}, nil
	}

	iterations, err := crypto.IterationsForVersion(header.Version)
	if err != nil {
		return File{}, dnserr.ImportExportError(err.Error())
	}
	salt, nonce, ciphertext, err := crypto.Encrypt(plaintext, req.Password, iterations)
	if err != nil {
		return File{}, dnserr.ImportExportError(err.Error())
	}
	header.Encrypted = true
	header.Salt = salt
	header.Nonce = nonce

	dataJSON, err := json.Marshal(ciphertext)
	if err != nil {
		return File{}, dnserr.SerializationError("", err.Error())
	}
	return File{Header: header, Data: json.RawMessage(dataJSON)}, nil
}

// Preview parses a raw .dnso file without applying it. When the
// file is encrypted and password is empty, Accounts is left nil and
// Encrypted is true so the caller can prompt for a password and retry.
func (s *Service) Preview(raw []byte, password string) (PreviewResult, error) {
	file, err := parseFile(raw)
	if err != nil {
		return PreviewResult{}, err
	}

	if file.Header.Encrypted && password == "" {
		return PreviewResult{Encrypted: true}, nil
	}

	entries, err := decodeEntries(file, password)
	if err != nil {
		return PreviewResult{}, err
	}

	existing, err := s.ctx.Accounts.FindAll()
	if err != nil {
		return PreviewResult{}, err
	}
	existingNames := make(map[string]struct{}, len(existing))
	for _, a := range existing {
		existingNames[a.Name] = struct{}{}
	}

	result := PreviewResult{Encrypted: file.Header.Encrypted, AccountCount: len(entries)}
	for _, e := range entries {
		_, conflict := existingNames[e.Name]
		result.Accounts = append(result.Accounts, PreviewAccount{Name: e.Name, Provider: e.Provider, HasConflict: conflict})
	}
	return result, nil
}

// Import applies every account in a raw .dnso file: for each
// entry it instantiates and registers a provider under a fresh UUID
// and persists the account, rolling back credentials/registration
// best-effort on failure so a partial import never leaves a dangling
// provider or credential behind.
func (s *Service) Import(raw []byte, password string) (ImportResult, error) {
	file, err := parseFile(raw)
	if err != nil {
		return ImportResult{}, err
	}
	entries, err := decodeEntries(file, password)
	if err != nil {
		return ImportResult{}, err
	}

	var result ImportResult
	for _, e := range entries {
		creds, err := dnsmodel.CredentialsFromMap(e.Provider, e.Credentials)
		if err != nil {
			result.Failures = append(result.Failures, dnsmodel.BatchFailure{Identifier: e.Name, Reason: err.Error()})
			continue
		}

		id := uuid.New().String()
		p, err := s.newProvider(id, creds)
		if err != nil {
			result.Failures = append(result.Failures, dnsmodel.BatchFailure{Identifier: e.Name, Reason: err.Error()})
			continue
		}

		if err := s.ctx.Credentials.Set(id, creds); err != nil {
			result.Failures = append(result.Failures, dnsmodel.BatchFailure{Identifier: e.Name, Reason: err.Error()})
			continue
		}

		s.ctx.Registry.Register(id, p)

		now := time.Now().UTC()
		acct := dnsmodel.Account{
			ID:        id,
			Name:      e.Name,
			Provider:  e.Provider,
			CreatedAt: now,
			UpdatedAt: now,
			Status:    dnsmodel.AccountActive,
		}
		if err := s.ctx.Accounts.Save(acct); err != nil {
			s.ctx.Registry.Unregister(id)
			_ = s.ctx.Credentials.Remove(id)
			result.Failures = append(result.Failures, dnsmodel.BatchFailure{Identifier: e.Name, Reason: err.Error()})
			continue
		}

		result.SuccessCount++
	}

	return result, nil
}

func parseFile(raw []byte) (File, error) {
	var file File
	if err := json.Unmarshal(raw, &file); err != nil {
		return File{}, dnserr.ImportExportError("malformed .dnso file: " + err.Error())
	}
	if _, err := crypto.IterationsForVersion(file.Header.Version); err != nil {
		return File{}, dnserr.ImportExportError(err.Error())
	}
	return file, nil
}

func decodeEntries(file File, password string) ([]exportedAccount, error) {
	var plaintext []byte

	if file.Header.Encrypted {
		var ciphertextB64 string
		if err := json.Unmarshal(file.Data, &ciphertextB64); err != nil {
			return nil, dnserr.ImportExportError("encrypted payload is not a string: " + err.Error())
		}
		if _, err := base64.StdEncoding.DecodeString(ciphertextB64); err != nil {
			return nil, dnserr.ImportExportError("encrypted payload is not valid base64: " + err.Error())
		}
		iterations, err := crypto.IterationsForVersion(file.Header.Version)
		if err != nil {
			return nil, dnserr.ImportExportError(err.Error())
		}
		pt, err := crypto.Decrypt(ciphertextB64, password, file.Header.Salt, file.Header.Nonce, iterations)
		if err != nil {
			return nil, dnserr.ImportExportError(err.Error())
		}
		plaintext = pt
	} else {
		plaintext = file.Data
	}

	var entries []exportedAccount
	if err := json.Unmarshal(plaintext, &entries); err != nil {
		return nil, dnserr.ImportExportError("payload is not a valid account list: " + err.Error())
	}
	return entries, nil
}
