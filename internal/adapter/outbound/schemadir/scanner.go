// Package schemadir reads a directory of per-call JSON Schema files.
package schemadir

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/i2y/msggen/internal/domain"
)

const (
	// NotificationDir is the subdirectory holding notification schemas.
	NotificationDir = "notification"
	// SchemaExt is the extension a file needs to be bundled.
	SchemaExt = ".json"
)

// DefaultExcluded lists files that are produced by a plugin build step from
// the bundle itself and must never be read back as a source.
var DefaultExcluded = []string{"lightning-sql.json"}

// Scanner implements usecase.SchemaScanner on the local filesystem.
type Scanner struct {
	excluded map[string]bool
	logger   *slog.Logger
}

// NewScanner creates a Scanner that skips the given method file names.
// A nil list means DefaultExcluded.
func NewScanner(excluded []string, logger *slog.Logger) *Scanner {
	if excluded == nil {
		excluded = DefaultExcluded
	}
	set := make(map[string]bool, len(excluded))
	for _, name := range excluded {
		set[name] = true
	}
	return &Scanner{
		excluded: set,
		logger:   logger.With("component", "schemadir_scanner"),
	}
}

// Scan reads dir and dir/notification. Entries are visited in lexicographic
// order; files without the .json extension are skipped. A missing directory
// or a malformed file fails the whole scan.
func (s *Scanner) Scan(ctx context.Context, dir string) (*domain.SchemaBundle, error) {
	bundle := domain.NewSchemaBundle()

	if err := s.scanInto(ctx, dir, bundle.Methods, s.excluded); err != nil {
		return nil, err
	}
	if err := s.scanInto(ctx, filepath.Join(dir, NotificationDir), bundle.Notifications, nil); err != nil {
		return nil, err
	}
	return bundle, nil
}

func (s *Scanner) scanInto(ctx context.Context, dir string, set *domain.SchemaSet, excluded map[string]bool) error {
	log := s.logger.With(slog.String("dir", dir))

	// os.ReadDir returns entries sorted by file name.
	entries, err := os.ReadDir(dir)
	if err != nil {
		log.Error("Failed to read schema directory", slog.Any("error", err))
		return fmt.Errorf("%w: %v", domain.ErrSourceRead, err)
	}

	skipped := 0
	for _, entry := range entries {
		if err := ctx.Err(); err != nil {
			return err
		}
		name := entry.Name()
		if entry.IsDir() || !strings.HasSuffix(name, SchemaExt) {
			skipped++
			continue
		}
		if excluded[name] {
			log.Debug("Skipping generated schema file", slog.String("file", name))
			skipped++
			continue
		}

		path := filepath.Join(dir, name)
		data, err := os.ReadFile(path)
		if err != nil {
			log.Error("Failed to read schema file", slog.String("file", name), slog.Any("error", err))
			return fmt.Errorf("%w: %v", domain.ErrSourceRead, err)
		}
		var doc json.RawMessage
		if err := json.Unmarshal(data, &doc); err != nil {
			log.Error("Schema file is not valid JSON", slog.String("file", name), slog.Any("error", err))
			return fmt.Errorf("%w: %s: %v", domain.ErrParse, path, err)
		}
		set.Put(name, doc)
	}

	log.Debug("Scanned schema directory", slog.Int("files", set.Len()), slog.Int("skipped", skipped))
	return nil
}
