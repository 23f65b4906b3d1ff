// Package config holds the extract step's configuration.
package config

import (
	"fmt"
	"time"

	"github.com/hhm970/Museum-Kiosk-Pipeline-Project/errors"
)

// Storage backends.
const (
	BackendS3    = "s3"
	BackendMinio = "minio"
)

// Credential sources.
const (
	SourceEnv            = "env"
	SourceSecretsManager = "secretsmanager"
)

// Config is the complete configuration of an extract run.
type Config struct {
	Storage     StorageConfig     `koanf:"storage"`
	Local       LocalConfig       `koanf:"local"`
	Merge       MergeConfig       `koanf:"merge"`
	Credentials CredentialsConfig `koanf:"credentials"`
	Log         LogConfig         `koanf:"log"`
	Metrics     MetricsConfig     `koanf:"metrics"`
}

// StorageConfig selects and tunes the object-storage backend.
type StorageConfig struct {
	// Backend is "s3" or "minio".
	Backend string `koanf:"backend"`

	// Bucket holds the exhibition and history files.
	Bucket string `koanf:"bucket"`

	Region string `koanf:"region"`

	// Endpoint overrides the service endpoint. The minio backend requires
	// it as host[:port].
	Endpoint string `koanf:"endpoint"`

	ForcePathStyle bool          `koanf:"force_path_style"`
	UseSSL         bool          `koanf:"use_ssl"`
	MaxRetries     int           `koanf:"max_retries"`
	Timeout        time.Duration `koanf:"timeout"`
}

// LocalConfig describes the local download folder.
type LocalConfig struct {
	Folder string `koanf:"folder"`
}

// MergeConfig names the merged output file inside the folder.
type MergeConfig struct {
	Output string `koanf:"output"`
}

// CredentialsConfig says where the storage key pair comes from.
type CredentialsConfig struct {
	// Source is "env" or "secretsmanager".
	Source string `koanf:"source"`

	// SecretID names the Secrets Manager secret for the secretsmanager source.
	SecretID string `koanf:"secret_id"`

	// AccessKeyEnv and SecretKeyEnv name the variables, or the JSON fields
	// of the secret, holding the key pair.
	AccessKeyEnv string `koanf:"access_key_env"`
	SecretKeyEnv string `koanf:"secret_key_env"`
}

// LogConfig configures the zap logger.
type LogConfig struct {
	Level  string `koanf:"level"`
	Format string `koanf:"format"`
}

// MetricsConfig configures the Prometheus textfile written after a run.
type MetricsConfig struct {
	// Textfile is written after each run when set.
	Textfile string `koanf:"textfile"`
}

// Default returns the configuration used when nothing overrides it.
func Default() *Config {
	return &Config{
		Storage: StorageConfig{
			Backend:    BackendS3,
			Bucket:     "resources-museum",
			MaxRetries: 3,
			UseSSL:     true,
		},
		Local: LocalConfig{
			Folder: "bucket_data",
		},
		Merge: MergeConfig{
			Output: "combined_file.csv",
		},
		Credentials: CredentialsConfig{
			Source:       SourceEnv,
			AccessKeyEnv: "AWS_ACCESS_KEY_ID",
			SecretKeyEnv: "AWS_SECRET_ACCESS_KEY",
		},
		Log: LogConfig{
			Level:  "info",
			Format: "json",
		},
	}
}

// Validate reports the first invalid setting, coded CodeInvalidConfig.
func (c *Config) Validate() error {
	switch c.Storage.Backend {
	case BackendS3:
	case BackendMinio:
		if c.Storage.Endpoint == "" {
			return invalid("storage.endpoint is required for the minio backend")
		}
	default:
		return invalid(fmt.Sprintf("unknown storage.backend %q", c.Storage.Backend))
	}

	if c.Storage.Bucket == "" {
		return invalid("storage.bucket cannot be empty")
	}
	if c.Storage.MaxRetries < 0 {
		return invalid("storage.max_retries cannot be negative")
	}
	if c.Storage.Timeout < 0 {
		return invalid("storage.timeout cannot be negative")
	}
	if c.Local.Folder == "" {
		return invalid("local.folder cannot be empty")
	}
	if c.Merge.Output == "" {
		return invalid("merge.output cannot be empty")
	}

	switch c.Credentials.Source {
	case SourceEnv:
	case SourceSecretsManager:
		if c.Credentials.SecretID == "" {
			return invalid("credentials.secret_id is required for the secretsmanager source")
		}
	default:
		return invalid(fmt.Sprintf("unknown credentials.source %q", c.Credentials.Source))
	}
	if c.Credentials.AccessKeyEnv == "" || c.Credentials.SecretKeyEnv == "" {
		return invalid("credentials.access_key_env and credentials.secret_key_env cannot be empty")
	}

	switch c.Log.Format {
	case "json", "console":
	default:
		return invalid(fmt.Sprintf("unknown log.format %q", c.Log.Format))
	}

	return nil
}

func invalid(message string) error {
	return errors.New(errors.CodeInvalidConfig, message)
}
