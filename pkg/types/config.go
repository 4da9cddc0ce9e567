// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

import (
	"fmt"
	"time"
)

const (
	// MediaTypePDF is the only media type the summarization service accepts.
	MediaTypePDF = "application/pdf"

	// MediaTypeHTML is the media type of summaries and their exports.
	MediaTypeHTML = "text/html; charset=utf-8"

	// MiB is one mebibyte.
	MiB int64 = 1 << 20
)

// HTTPConfig holds shared HTTP settings used by components that make network requests.
type HTTPConfig struct {
	// Timeout bounds a single HTTP exchange. Zero leaves it to the caller's
	// deadline. For uploads it must not be shorter than the deadline.
	Timeout time.Duration `json:"timeout" yaml:"timeout"`

	// UserAgent is the User-Agent header sent with HTTP requests
	// (e.g. "summarizer/0.1").
	UserAgent string `json:"user_agent" yaml:"user_agent"`
}

// UploadConfig is the single source of the upload constraints. Both the
// validator and the upload controller read it.
type UploadConfig struct {
	HTTPConfig `yaml:",inline"`

	// AcceptedMediaType is the declared media type a file must carry.
	AcceptedMediaType string `json:"accepted_media_type" yaml:"accepted_media_type"`

	// MaxFileSize is the size ceiling in bytes (default 10 MiB).
	MaxFileSize int64 `json:"max_file_size" yaml:"max_file_size"`

	// Deadline is the wall-clock budget of one submission, measured from
	// request start (default 5m).
	Deadline time.Duration `json:"deadline" yaml:"deadline"`

	// BaseURL is the scheme and host of the summarization service.
	BaseURL string `json:"base_url" yaml:"base_url"`

	// Endpoint is the request path (default "/summarize").
	Endpoint string `json:"endpoint" yaml:"endpoint"`

	// FieldName is the multipart field carrying the file (default "file").
	FieldName string `json:"field_name" yaml:"field_name"`
}

// DefaultUploadConfig returns the constraints of the summarization service.
func DefaultUploadConfig() UploadConfig {
	return UploadConfig{
		HTTPConfig: HTTPConfig{
			UserAgent: "summarizer/dev",
		},
		AcceptedMediaType: MediaTypePDF,
		MaxFileSize:       10 * MiB,
		Deadline:          5 * time.Minute,
		BaseURL:           "http://127.0.0.1:8000",
		Endpoint:          "/summarize",
		FieldName:         "file",
	}
}

// URL returns the full request URL.
func (c UploadConfig) URL() string {
	return c.BaseURL + c.Endpoint
}

// Validate reports the first setting that cannot be used.
func (c UploadConfig) Validate() error {
	switch {
	case c.AcceptedMediaType == "":
		return fmt.Errorf("accepted_media_type must be set")
	case c.MaxFileSize <= 0:
		return fmt.Errorf("max_file_size must be positive, got %d", c.MaxFileSize)
	case c.Deadline <= 0:
		return fmt.Errorf("deadline must be positive, got %v", c.Deadline)
	case c.Timeout < 0:
		return fmt.Errorf("timeout must not be negative, got %v", c.Timeout)
	case c.Timeout > 0 && c.Timeout < c.Deadline:
		return fmt.Errorf("timeout %v is shorter than deadline %v; unset it or raise it", c.Timeout, c.Deadline)
	case c.BaseURL == "":
		return fmt.Errorf("base_url must be set")
	case c.FieldName == "":
		return fmt.Errorf("field_name must be set")
	}
	return nil
}

// ExportBackend identifies where downloadable copies of summaries live.
type ExportBackend string

const (
	ExportMemory ExportBackend = "memory"
	ExportFile   ExportBackend = "file"
	ExportS3     ExportBackend = "s3"
)

// S3Config holds settings for the S3 export backend.
type S3Config struct {
	Bucket string `json:"bucket" yaml:"bucket"`
	Region string `json:"region" yaml:"region"`

	// Prefix is prepended to every object key (e.g. "summaries/").
	Prefix string `json:"prefix" yaml:"prefix"`

	// Endpoint overrides the S3 endpoint (MinIO, localstack).
	Endpoint string `json:"endpoint,omitempty" yaml:"endpoint,omitempty"`

	// PresignExpiry bounds how long a handle URL stays fetchable (default 15m).
	PresignExpiry time.Duration `json:"presign_expiry" yaml:"presign_expiry"`

	AccessKeyID     string `json:"-" yaml:"-"`
	SecretAccessKey string `json:"-" yaml:"-"`
}

// ExportConfig holds settings for summary exports.
type ExportConfig struct {
	// Backend selects the exporter: memory, file, or s3.
	Backend ExportBackend `json:"backend" yaml:"backend"`

	// Dir is the directory of the file backend. Empty means a fresh temp dir.
	Dir string `json:"dir,omitempty" yaml:"dir,omitempty"`

	S3 S3Config `json:"s3" yaml:"s3"`
}

// DefaultExportConfig returns an ExportConfig using the file backend in a temp dir.
func DefaultExportConfig() ExportConfig {
	return ExportConfig{
		Backend: ExportFile,
		S3: S3Config{
			Region:        "us-east-1",
			Prefix:        "summaries/",
			PresignExpiry: 15 * time.Minute,
		},
	}
}

// Validate reports the first setting that cannot be used.
func (c ExportConfig) Validate() error {
	switch c.Backend {
	case ExportMemory, ExportFile:
		return nil
	case ExportS3:
		if c.S3.Bucket == "" {
			return fmt.Errorf("s3 export requires a bucket")
		}
		return nil
	default:
		return fmt.Errorf("unknown export backend %q", c.Backend)
	}
}

// WatchConfig holds settings for the watch command.
type WatchConfig struct {
	// OutDir receives one HTML file per summarized transcript.
	OutDir string `json:"out_dir" yaml:"out_dir"`

	// Debounce is how long a file must stay quiet before it is submitted.
	Debounce time.Duration `json:"debounce" yaml:"debounce"`
}

// LogConfig holds logging settings.
type LogConfig struct {
	// Level is one of debug, info, warn, error.
	Level string `json:"level" yaml:"level"`

	// Format is text or json.
	Format string `json:"format" yaml:"format"`
}

// Config groups every component configuration.
type Config struct {
	Upload UploadConfig `json:"upload" yaml:"upload"`
	Export ExportConfig `json:"export" yaml:"export"`
	Watch  WatchConfig  `json:"watch" yaml:"watch"`
	Log    LogConfig    `json:"log" yaml:"log"`
}

// DefaultConfig returns the configuration used when nothing is overridden.
func DefaultConfig() Config {
	return Config{
		Upload: DefaultUploadConfig(),
		Export: DefaultExportConfig(),
		Watch: WatchConfig{
			OutDir:   "summaries",
			Debounce: 500 * time.Millisecond,
		},
		Log: LogConfig{
			Level:  "info",
			Format: "text",
		},
	}
}
