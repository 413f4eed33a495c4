// Package storage writes export artifacts under the configured base
// directory.
package storage

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/nadeos/bmd-exporter/internal/config"
)

// Fixed export directories, kept from the legacy layout so downstream
// pickup jobs keep working.
const (
	DirExports           = "nadeos.exports"
	DirCommissionExports = "nadeos.exports.commissions"
)

// Sink stores named export artifacts.
type Sink interface {
	Write(dir, name string, data []byte) error
	Path(dir, name string) string
}

// LocalSink writes artifacts to the local filesystem.
type LocalSink struct {
	base string
}

func NewLocalSink(cfg config.Config) *LocalSink {
	return &LocalSink{base: cfg.ExportBaseDir}
}

func (s *LocalSink) Path(dir, name string) string {
	return filepath.Join(s.base, dir, name)
}

func (s *LocalSink) Write(dir, name string, data []byte) error {
	target := filepath.Join(s.base, dir)
	if err := os.MkdirAll(target, 0o755); err != nil {
		return fmt.Errorf("create export directory %s: %w", target, err)
	}
	if err := os.WriteFile(filepath.Join(target, name), data, 0o644); err != nil {
		return fmt.Errorf("write export %s: %w", name, err)
	}
	return nil
}
