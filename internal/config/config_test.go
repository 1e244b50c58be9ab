package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/alecthomas/kingpin/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func parse(t *testing.T, cfg *Config, args []string) error {
	t.Helper()
	app := kingpin.New("dns-orchestrator", "")
	cfg.RegisterFlags(app)
	_, err := app.Parse(args)
	return err
}

func TestRegisterFlagsDefaults(t *testing.T) {
	cfg := New()
	require.NoError(t, parse(t, cfg, nil))
	assert.Equal(t, "text", cfg.LogFormat)
	assert.Equal(t, "info", cfg.LogLevel)
	assert.NotEmpty(t, cfg.DataDir)
}

func TestRegisterFlagsOverrides(t *testing.T) {
	cfg := New()
	require.NoError(t, parse(t, cfg, []string{"--data-dir=/tmp/custom", "--log-format=json", "--log-level=debug"}))
	assert.Equal(t, "/tmp/custom", cfg.DataDir)
	assert.Equal(t, "json", cfg.LogFormat)
	assert.Equal(t, "debug", cfg.LogLevel)
}

func TestRegisterFlagsRejectsUnknownLogFormat(t *testing.T) {
	cfg := New()
	err := parse(t, cfg, []string{"--log-format=xml"})
	assert.Error(t, err)
}

func TestLoadFileOverlaysFlags(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("dataDir: /var/lib/dns-orch\nlogLevel: debug\n"), 0o600))

	cfg := New()
	require.NoError(t, parse(t, cfg, []string{"--config=" + path, "--log-format=json"}))
	require.NoError(t, cfg.LoadFile())

	assert.Equal(t, "/var/lib/dns-orch", cfg.DataDir)
	assert.Equal(t, "debug", cfg.LogLevel)
	// not in the file, flag value survives
	assert.Equal(t, "json", cfg.LogFormat)
}

func TestLoadFileMissing(t *testing.T) {
	cfg := New()
	cfg.ConfigFile = filepath.Join(t.TempDir(), "absent.yaml")
	assert.Error(t, cfg.LoadFile())
}

func TestLoadFileNoop(t *testing.T) {
	cfg := New()
	require.NoError(t, cfg.LoadFile())
}

func TestStorePaths(t *testing.T) {
	cfg := &Config{DataDir: "/tmp/dns-orch"}
	assert.Equal(t, filepath.Join("/tmp/dns-orch", "accounts.json"), cfg.AccountsPath())
	assert.Equal(t, filepath.Join("/tmp/dns-orch", "credentials.json"), cfg.CredentialsPath())
	assert.Equal(t, filepath.Join("/tmp/dns-orch", "metadata.json"), cfg.MetadataPath())
}
