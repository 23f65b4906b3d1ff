package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/adrg/xdg"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hhm970/Museum-Kiosk-Pipeline-Project/errors"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

// isolateXDG points the XDG search path at an empty directory.
func isolateXDG(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", dir)
	t.Setenv("XDG_CONFIG_DIRS", dir)
	xdg.Reload()
	t.Cleanup(xdg.Reload)
	return dir
}

func TestDefault(t *testing.T) {
	cfg := Default()

	assert.Equal(t, BackendS3, cfg.Storage.Backend)
	assert.Equal(t, "resources-museum", cfg.Storage.Bucket)
	assert.Equal(t, "bucket_data", cfg.Local.Folder)
	assert.Equal(t, "combined_file.csv", cfg.Merge.Output)
	assert.Equal(t, SourceEnv, cfg.Credentials.Source)
	assert.Equal(t, "AWS_ACCESS_KEY_ID", cfg.Credentials.AccessKeyEnv)
	assert.Equal(t, "AWS_SECRET_ACCESS_KEY", cfg.Credentials.SecretKeyEnv)
	assert.NoError(t, cfg.Validate())
}

func TestLoad_NoFile(t *testing.T) {
	isolateXDG(t)

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)
}

func TestLoad_File(t *testing.T) {
	isolateXDG(t)
	path := writeConfig(t, `
storage:
  bucket: kiosk-archive
  region: eu-west-2
  timeout: 30s
  max_retries: 5
local:
  folder: downloads
log:
  level: debug
  format: console
metrics:
  textfile: /var/lib/node_exporter/museum.prom
`)

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "kiosk-archive", cfg.Storage.Bucket)
	assert.Equal(t, "eu-west-2", cfg.Storage.Region)
	assert.Equal(t, 30*time.Second, cfg.Storage.Timeout)
	assert.Equal(t, 5, cfg.Storage.MaxRetries)
	assert.Equal(t, "downloads", cfg.Local.Folder)
	assert.Equal(t, "debug", cfg.Log.Level)
	assert.Equal(t, "console", cfg.Log.Format)
	assert.Equal(t, "/var/lib/node_exporter/museum.prom", cfg.Metrics.Textfile)

	// Unset keys keep their defaults.
	assert.Equal(t, BackendS3, cfg.Storage.Backend)
	assert.Equal(t, "combined_file.csv", cfg.Merge.Output)
	assert.True(t, cfg.Storage.UseSSL)
}

func TestLoad_XDGSearch(t *testing.T) {
	dir := isolateXDG(t)
	path := filepath.Join(dir, DefaultFile)
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o700))
	require.NoError(t, os.WriteFile(path, []byte("storage:\n  bucket: from-xdg\n"), 0o600))

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, "from-xdg", cfg.Storage.Bucket)
}

func TestLoad_EnvOverridesFile(t *testing.T) {
	isolateXDG(t)
	path := writeConfig(t, "storage:\n  bucket: from-file\n")

	t.Setenv("MUSEUM_EXTRACT_STORAGE_BUCKET", "from-env")
	t.Setenv("MUSEUM_EXTRACT_STORAGE_FORCE_PATH_STYLE", "true")
	t.Setenv("MUSEUM_EXTRACT_CREDENTIALS_SOURCE", "secretsmanager")
	t.Setenv("MUSEUM_EXTRACT_CREDENTIALS_SECRET_ID", "museum/s3")

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "from-env", cfg.Storage.Bucket)
	assert.True(t, cfg.Storage.ForcePathStyle)
	assert.Equal(t, SourceSecretsManager, cfg.Credentials.Source)
	assert.Equal(t, "museum/s3", cfg.Credentials.SecretID)
}

func TestLoad_Errors(t *testing.T) {
	isolateXDG(t)

	tests := []struct {
		name string
		path func(t *testing.T) string
	}{
		{
			name: "missing explicit file",
			path: func(t *testing.T) string { return filepath.Join(t.TempDir(), "absent.yaml") },
		},
		{
			name: "directory",
			path: func(t *testing.T) string { return t.TempDir() },
		},
		{
			name: "bad yaml",
			path: func(t *testing.T) string { return writeConfig(t, "storage: [unterminated") },
		},
		{
			name: "invalid value",
			path: func(t *testing.T) string { return writeConfig(t, "storage:\n  backend: ftp\n") },
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Load(tt.path(t))
			require.Error(t, err)
			assert.Equal(t, errors.CodeInvalidConfig, errors.CodeOf(err))
		})
	}
}

func TestConfig_Validate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantMsg string
	}{
		{name: "unknown backend", mutate: func(c *Config) { c.Storage.Backend = "gcs" }, wantMsg: "storage.backend"},
		{name: "minio without endpoint", mutate: func(c *Config) { c.Storage.Backend = BackendMinio }, wantMsg: "storage.endpoint"},
		{name: "empty bucket", mutate: func(c *Config) { c.Storage.Bucket = "" }, wantMsg: "storage.bucket"},
		{name: "negative retries", mutate: func(c *Config) { c.Storage.MaxRetries = -1 }, wantMsg: "max_retries"},
		{name: "negative timeout", mutate: func(c *Config) { c.Storage.Timeout = -time.Second }, wantMsg: "timeout"},
		{name: "empty folder", mutate: func(c *Config) { c.Local.Folder = "" }, wantMsg: "local.folder"},
		{name: "empty output", mutate: func(c *Config) { c.Merge.Output = "" }, wantMsg: "merge.output"},
		{name: "unknown source", mutate: func(c *Config) { c.Credentials.Source = "vault" }, wantMsg: "credentials.source"},
		{
			name:    "secretsmanager without id",
			mutate:  func(c *Config) { c.Credentials.Source = SourceSecretsManager },
			wantMsg: "credentials.secret_id",
		},
		{name: "empty key name", mutate: func(c *Config) { c.Credentials.AccessKeyEnv = "" }, wantMsg: "access_key_env"},
		{name: "unknown log format", mutate: func(c *Config) { c.Log.Format = "xml" }, wantMsg: "log.format"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(cfg)

			err := cfg.Validate()
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantMsg)
			assert.True(t, errors.HasCode(err, errors.CodeInvalidConfig))
		})
	}

	t.Run("minio with endpoint", func(t *testing.T) {
		cfg := Default()
		cfg.Storage.Backend = BackendMinio
		cfg.Storage.Endpoint = "localhost:9000"
		assert.NoError(t, cfg.Validate())
	})
}

func TestEnvKey(t *testing.T) {
	assert.Equal(t, "storage.bucket", envKey("MUSEUM_EXTRACT_STORAGE_BUCKET"))
	assert.Equal(t, "storage.force_path_style", envKey("MUSEUM_EXTRACT_STORAGE_FORCE_PATH_STYLE"))
	assert.Equal(t, "log.level", envKey("MUSEUM_EXTRACT_LOG_LEVEL"))
	assert.Equal(t, "debug", envKey("MUSEUM_EXTRACT_DEBUG"))
}
