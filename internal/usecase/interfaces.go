package usecase

import (
	"context"
	"encoding/json"

	"github.com/i2y/msggen/internal/domain"
)

// --- Bundling ---

// SchemaScanner reads a schema directory (and its notification
// subdirectory) into an ordered bundle.
type SchemaScanner interface {
	Scan(ctx context.Context, dir string) (*domain.SchemaBundle, error)
}

// BundleWriter persists a bundle as a single artifact.
// Implementations must not leave a partially written artifact behind.
type BundleWriter interface {
	Write(ctx context.Context, dest string, bundle *domain.SchemaBundle) error
}

// --- Loading ---

// BundleSource reads a previously persisted bundle.
type BundleSource interface {
	Load(ctx context.Context) (*domain.SchemaBundle, error)
}

// BundleProvider hands out the bundle the loaders work from.
// BundleCache is the production implementation.
type BundleProvider interface {
	Get(ctx context.Context) (*domain.SchemaBundle, error)
}

// TypeBuilder turns a raw schema subtree into a composite type tree.
// name is the final type name of the root; path is only used in error
// messages. Nested types are named from name.
type TypeBuilder interface {
	Build(raw json.RawMessage, path string, name domain.TypeName) (*domain.CompositeField, error)
}
