// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package config resolves the effective configuration from defaults, a
// summarizer.yaml file, a .env file, and SUMMARIZER_* environment variables.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
	"go.yaml.in/yaml/v3"

	"github.com/pdiddy/transcript-summarizer/pkg/types"
)

// EnvPrefix prefixes every environment override, e.g. SUMMARIZER_UPLOAD_BASE_URL.
const EnvPrefix = "SUMMARIZER"

// Configuration keys. Nested keys map to environment variables with dots
// replaced by underscores.
const (
	KeyUserAgent     = "upload.user_agent"
	KeyTimeout       = "upload.timeout"
	KeyMediaType     = "upload.accepted_media_type"
	KeyMaxFileSize   = "upload.max_file_size"
	KeyDeadline      = "upload.deadline"
	KeyBaseURL       = "upload.base_url"
	KeyEndpoint      = "upload.endpoint"
	KeyFieldName     = "upload.field_name"
	KeyExportBackend = "export.backend"
	KeyExportDir     = "export.dir"
	KeyS3Bucket      = "export.s3.bucket"
	KeyS3Region      = "export.s3.region"
	KeyS3Prefix      = "export.s3.prefix"
	KeyS3Endpoint    = "export.s3.endpoint"
	KeyS3Expiry      = "export.s3.presign_expiry"
	KeyS3AccessKey   = "export.s3.access_key_id"
	KeyS3SecretKey   = "export.s3.secret_access_key"
	KeyWatchOutDir   = "watch.out_dir"
	KeyWatchDebounce = "watch.debounce"
	KeyLogLevel      = "log.level"
	KeyLogFormat     = "log.format"
)

// Init points v at the config file and environment. cfgFile overrides the
// search of ./summarizer.yaml and ~/.config/summarizer/summarizer.yaml.
func Init(v *viper.Viper, cfgFile string) {
	if cfgFile != "" {
		v.SetConfigFile(cfgFile)
	} else {
		v.SetConfigName("summarizer")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		if home, err := os.UserHomeDir(); err == nil {
			v.AddConfigPath(filepath.Join(home, ".config", "summarizer"))
		}
	}

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	SetDefaults(v)
}

// SetDefaults registers types.DefaultConfig under its keys.
func SetDefaults(v *viper.Viper) {
	d := types.DefaultConfig()
	v.SetDefault(KeyUserAgent, d.Upload.UserAgent)
	v.SetDefault(KeyTimeout, d.Upload.Timeout)
	v.SetDefault(KeyMediaType, d.Upload.AcceptedMediaType)
	v.SetDefault(KeyMaxFileSize, d.Upload.MaxFileSize)
	v.SetDefault(KeyDeadline, d.Upload.Deadline)
	v.SetDefault(KeyBaseURL, d.Upload.BaseURL)
	v.SetDefault(KeyEndpoint, d.Upload.Endpoint)
	v.SetDefault(KeyFieldName, d.Upload.FieldName)
	v.SetDefault(KeyExportBackend, string(d.Export.Backend))
	v.SetDefault(KeyExportDir, d.Export.Dir)
	v.SetDefault(KeyS3Bucket, d.Export.S3.Bucket)
	v.SetDefault(KeyS3Region, d.Export.S3.Region)
	v.SetDefault(KeyS3Prefix, d.Export.S3.Prefix)
	v.SetDefault(KeyS3Endpoint, d.Export.S3.Endpoint)
	v.SetDefault(KeyS3Expiry, d.Export.S3.PresignExpiry)
	v.SetDefault(KeyS3AccessKey, "")
	v.SetDefault(KeyS3SecretKey, "")
	v.SetDefault(KeyWatchOutDir, d.Watch.OutDir)
	v.SetDefault(KeyWatchDebounce, d.Watch.Debounce)
	v.SetDefault(KeyLogLevel, d.Log.Level)
	v.SetDefault(KeyLogFormat, d.Log.Format)
}

// ReadFile reads the config file if one is found. A missing file is not an
// error; the returned path is empty then.
func ReadFile(v *viper.Viper) (string, error) {
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if errors.As(err, &notFound) || errors.Is(err, fs.ErrNotExist) {
			return "", nil
		}
		return "", fmt.Errorf("reading config file: %w", err)
	}
	return v.ConfigFileUsed(), nil
}

// LoadDotEnv loads a .env file into the process environment without
// overriding variables that are already set. A missing file is ignored.
func LoadDotEnv(path string) error {
	if err := godotenv.Load(path); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("loading %s: %w", path, err)
	}
	return nil
}

// Load builds and validates the effective configuration.
func Load(v *viper.Viper) (types.Config, error) {
	cfg := types.Config{
		Upload: types.UploadConfig{
			HTTPConfig: types.HTTPConfig{
				Timeout:   v.GetDuration(KeyTimeout),
				UserAgent: v.GetString(KeyUserAgent),
			},
			AcceptedMediaType: v.GetString(KeyMediaType),
			MaxFileSize:       v.GetInt64(KeyMaxFileSize),
			Deadline:          v.GetDuration(KeyDeadline),
			BaseURL:           strings.TrimRight(v.GetString(KeyBaseURL), "/"),
			Endpoint:          v.GetString(KeyEndpoint),
			FieldName:         v.GetString(KeyFieldName),
		},
		Export: types.ExportConfig{
			Backend: types.ExportBackend(strings.ToLower(v.GetString(KeyExportBackend))),
			Dir:     v.GetString(KeyExportDir),
			S3: types.S3Config{
				Bucket:          v.GetString(KeyS3Bucket),
				Region:          v.GetString(KeyS3Region),
				Prefix:          v.GetString(KeyS3Prefix),
				Endpoint:        v.GetString(KeyS3Endpoint),
				PresignExpiry:   v.GetDuration(KeyS3Expiry),
				AccessKeyID:     v.GetString(KeyS3AccessKey),
				SecretAccessKey: v.GetString(KeyS3SecretKey),
			},
		},
		Watch: types.WatchConfig{
			OutDir:   v.GetString(KeyWatchOutDir),
			Debounce: v.GetDuration(KeyWatchDebounce),
		},
		Log: types.LogConfig{
			Level:  v.GetString(KeyLogLevel),
			Format: v.GetString(KeyLogFormat),
		},
	}

	if err := cfg.Upload.Validate(); err != nil {
		return types.Config{}, fmt.Errorf("upload config: %w", err)
	}
	if err := cfg.Export.Validate(); err != nil {
		return types.Config{}, fmt.Errorf("export config: %w", err)
	}
	return cfg, nil
}

// Marshal renders cfg as YAML. Credentials are never included.
func Marshal(cfg types.Config) ([]byte, error) {
	out, err := yaml.Marshal(cfg)
	if err != nil {
		return nil, fmt.Errorf("marshaling config: %w", err)
	}
	return out, nil
}
