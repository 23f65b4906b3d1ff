package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/adrg/xdg"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/rawbytes"
	"github.com/knadh/koanf/v2"

	"github.com/hhm970/Museum-Kiosk-Pipeline-Project/errors"
)

const (
	// EnvPrefix starts every environment override.
	EnvPrefix = "MUSEUM_EXTRACT_"

	// DefaultFile is looked up under the XDG config directories.
	DefaultFile = "museum-extract/config.yaml"

	maxConfigFileSize = 1024 * 1024
)

// Load builds the configuration from defaults, then the YAML file at path,
// then MUSEUM_EXTRACT_* environment variables, and validates the result.
//
// With an empty path the XDG config directories are searched for
// museum-extract/config.yaml; a missing default file is not an error.
//
// Environment variables split on the first underscore after the prefix:
//
//	MUSEUM_EXTRACT_STORAGE_BUCKET           -> storage.bucket
//	MUSEUM_EXTRACT_STORAGE_FORCE_PATH_STYLE -> storage.force_path_style
//	MUSEUM_EXTRACT_CREDENTIALS_SECRET_ID    -> credentials.secret_id
func Load(path string) (*Config, error) {
	k := koanf.New(".")

	if path == "" {
		if found, err := xdg.SearchConfigFile(DefaultFile); err == nil {
			path = found
		}
	}

	if path != "" {
		content, err := readConfigFile(path)
		if err != nil {
			return nil, err
		}
		if err := k.Load(rawbytes.Provider(content), yaml.Parser()); err != nil {
			return nil, errors.Wrap(err, errors.CodeInvalidConfig,
				fmt.Sprintf("failed to parse config file %s", path))
		}
	}

	if err := k.Load(env.Provider(EnvPrefix, ".", envKey), nil); err != nil {
		return nil, errors.Wrap(err, errors.CodeInvalidConfig, "failed to load environment variables")
	}

	cfg := Default()
	if err := k.Unmarshal("", cfg); err != nil {
		return nil, errors.Wrap(err, errors.CodeInvalidConfig, "failed to unmarshal config")
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// envKey maps MUSEUM_EXTRACT_SECTION_FIELD_NAME to section.field_name.
func envKey(s string) string {
	lower := strings.ToLower(strings.TrimPrefix(s, EnvPrefix))
	section, field, ok := strings.Cut(lower, "_")
	if !ok {
		return lower
	}
	return section + "." + field
}

func readConfigFile(path string) ([]byte, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, errors.Wrap(err, errors.CodeInvalidConfig, "config file not readable")
	}
	if info.IsDir() {
		return nil, errors.Newf(errors.CodeInvalidConfig, "config path %s is a directory", path)
	}
	if info.Size() > maxConfigFileSize {
		return nil, errors.Newf(errors.CodeInvalidConfig,
			"config file %s exceeds %d bytes", path, maxConfigFileSize)
	}

	content, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrap(err, errors.CodeInvalidConfig, "failed to read config file")
	}
	return content, nil
}
