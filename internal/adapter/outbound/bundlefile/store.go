// Package bundlefile persists and reads the combined schema artifact.
package bundlefile

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/i2y/msggen/internal/domain"
)

// Indent is the indentation of the artifact. The artifact is committed and
// diffed, so the encoding must not change between runs.
const Indent = "  "

// Encode renders bundle exactly as it is written to disk.
func Encode(bundle *domain.SchemaBundle) ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetIndent("", Indent)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(bundle); err != nil {
		return nil, fmt.Errorf("failed to encode bundle: %w", err)
	}
	return buf.Bytes(), nil
}

// Decode parses an artifact produced by Encode.
func Decode(data []byte) (*domain.SchemaBundle, error) {
	bundle := domain.NewSchemaBundle()
	if err := json.Unmarshal(data, bundle); err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrParse, err)
	}
	return bundle, nil
}

// Writer implements usecase.BundleWriter.
type Writer struct {
	logger *slog.Logger
}

// NewWriter creates a new Writer.
func NewWriter(logger *slog.Logger) *Writer {
	return &Writer{logger: logger.With("component", "bundle_writer")}
}

// Write encodes bundle and atomically replaces dest with it. On failure dest
// is left untouched.
func (w *Writer) Write(ctx context.Context, dest string, bundle *domain.SchemaBundle) error {
	log := w.logger.With(slog.String("dest", dest))

	data, err := Encode(bundle)
	if err != nil {
		return err
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	dir := filepath.Dir(dest)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("failed to create bundle directory %s: %w", dir, err)
	}
	tmp, err := os.CreateTemp(dir, "."+filepath.Base(dest)+".*")
	if err != nil {
		return fmt.Errorf("failed to create temporary bundle file: %w", err)
	}
	cleanup := func() { _ = os.Remove(tmp.Name()) }

	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		cleanup()
		return fmt.Errorf("failed to write bundle: %w", err)
	}
	if err := tmp.Close(); err != nil {
		cleanup()
		return fmt.Errorf("failed to close bundle: %w", err)
	}
	if err := os.Chmod(tmp.Name(), 0o644); err != nil {
		cleanup()
		return fmt.Errorf("failed to set bundle permissions: %w", err)
	}
	if err := os.Rename(tmp.Name(), dest); err != nil {
		cleanup()
		return fmt.Errorf("failed to move bundle into place: %w", err)
	}

	log.Debug("Bundle artifact written", slog.Int("bytes", len(data)))
	return nil
}

// Source implements usecase.BundleSource by reading an artifact from disk.
type Source struct {
	path   string
	logger *slog.Logger
}

// NewSource creates a Source reading path.
func NewSource(path string, logger *slog.Logger) *Source {
	return &Source{
		path:   path,
		logger: logger.With("component", "bundle_source"),
	}
}

// Load reads and parses the artifact.
func (s *Source) Load(ctx context.Context) (*domain.SchemaBundle, error) {
	log := s.logger.With(slog.String("path", s.path))

	data, err := os.ReadFile(s.path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			log.Error("Bundle artifact not found; run the bundle step first")
		}
		return nil, fmt.Errorf("%w: %v", domain.ErrSourceRead, err)
	}
	bundle, err := Decode(data)
	if err != nil {
		log.Error("Bundle artifact is malformed", slog.Any("error", err))
		return nil, fmt.Errorf("bundle %s: %w", s.path, err)
	}
	log.Debug("Bundle artifact read", slog.Int("bytes", len(data)))
	return bundle, nil
}
