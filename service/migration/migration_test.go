package migration

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ZnLuAr/dns-orchestrator-sub000/internal/dnsmodel"
	"github.com/ZnLuAr/dns-orchestrator-sub000/servicectx"
	"github.com/ZnLuAr/dns-orchestrator-sub000/store/accountrepo"
	"github.com/ZnLuAr/dns-orchestrator-sub000/store/credstore"
)

func newTestCtx(t *testing.T) (*servicectx.Context, string) {
	t.Helper()
	dir := t.TempDir()
	credPath := filepath.Join(dir, "credentials.json")
	accounts := accountrepo.NewFileRepo(filepath.Join(dir, "accounts.json"))
	creds := credstore.NewFileStore(credPath)
	return servicectx.New(accounts, creds, nil, nil), credPath
}

func TestRunReturnsNotNeededForV2Shape(t *testing.T) {
	ctx, _ := newTestCtx(t)
	require.NoError(t, ctx.Credentials.Set("acct-1", dnsmodel.Credentials{Kind: dnsmodel.ProviderCloudflare, Cloudflare: &dnsmodel.CloudflareCredentials{APIToken: "tok"}}))

	svc := New(ctx)
	result, err := svc.Run()
	require.NoError(t, err)
	assert.Equal(t, NotNeeded, result.Status)
}

func TestRunMigratesV1ShapeAndMarksFailedAccounts(t *testing.T) {
	ctx, credPath := newTestCtx(t)

	now := time.Now().UTC()
	require.NoError(t, ctx.Accounts.Save(dnsmodel.Account{ID: "acct-known", Name: "known", Provider: dnsmodel.ProviderCloudflare, CreatedAt: now, UpdatedAt: now, Status: dnsmodel.AccountActive}))

	v1 := `{"acct-known":{"api_token":"legacy-tok"},"acct-orphan":{"api_token":"orphan-tok"}}`
	require.NoError(t, os.WriteFile(credPath, []byte(v1), 0o600))

	svc := New(ctx)
	result, err := svc.Run()
	require.NoError(t, err)
	assert.Equal(t, Migrated, result.Status)
	assert.Equal(t, 1, result.MigratedCount)
	require.Len(t, result.FailedAccounts, 1)
	assert.Equal(t, "acct-orphan", result.FailedAccounts[0].AccountID)

	creds, ok, err := ctx.Credentials.Get("acct-known")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, "legacy-tok", creds.Cloudflare.APIToken)

	acct, ok, err := ctx.Accounts.FindByID("acct-known")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, dnsmodel.AccountActive, acct.Status)
}
