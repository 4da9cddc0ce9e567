// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package secrets loads credentials from a directory of plain-text files.
// Each file is one secret: the filename is the key name and the trimmed
// contents are the value.
//
// Recognized key files: aws-access-key-id, aws-secret-access-key.
package secrets

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/pdiddy/transcript-summarizer/internal/logging"
	"github.com/pdiddy/transcript-summarizer/pkg/types"
)

const (
	KeyAWSAccessKeyID     = "aws-access-key-id"
	KeyAWSSecretAccessKey = "aws-secret-access-key"
)

// Load reads all files in dir and returns a map of filename to trimmed
// contents. A missing directory is not an error. Unreadable files are
// logged and skipped.
func Load(ctx context.Context, dir string, log logging.Logger) (map[string]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return map[string]string{}, nil
		}
		return nil, fmt.Errorf("reading secrets directory %s: %w", dir, err)
	}

	secrets := make(map[string]string)
	for _, entry := range entries {
		name := entry.Name()
		if entry.IsDir() || strings.HasPrefix(name, ".") {
			continue
		}

		data, err := os.ReadFile(filepath.Join(dir, name))
		if err != nil {
			log.Warn(ctx, "could not read secret", "name", name, "error", err)
			continue
		}
		if value := strings.TrimSpace(string(data)); value != "" {
			secrets[name] = value
		}
	}
	return secrets, nil
}

// ApplyS3 fills missing S3 credentials in cfg from loaded secrets. Values
// already set by config or environment win.
func ApplyS3(secrets map[string]string, cfg *types.S3Config) {
	if cfg.AccessKeyID == "" {
		cfg.AccessKeyID = secrets[KeyAWSAccessKeyID]
	}
	if cfg.SecretAccessKey == "" {
		cfg.SecretAccessKey = secrets[KeyAWSSecretAccessKey]
	}
}
