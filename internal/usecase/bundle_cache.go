package usecase

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"github.com/i2y/msggen/internal/domain"
)

// BundleCache loads the persisted bundle at most once and serves the same
// value to every caller for the rest of its lifetime. Construct one per
// process (or per test) and share it; there is no invalidation.
type BundleCache struct {
	source BundleSource
	logger *slog.Logger

	once   sync.Once
	bundle *domain.SchemaBundle
	err    error
}

// NewBundleCache creates a cache backed by source.
func NewBundleCache(source BundleSource, logger *slog.Logger) *BundleCache {
	return &BundleCache{
		source: source,
		logger: logger.With("component", "bundle_cache"),
	}
}

// Get returns the cached bundle, loading it on first use. Concurrent first
// callers block until the single load finishes and all observe its result,
// including a load error. The context of the first caller is the one used
// for the load.
func (c *BundleCache) Get(ctx context.Context) (*domain.SchemaBundle, error) {
	c.once.Do(func() {
		ctx, span := tracer.Start(ctx, "BundleCache.Load")
		defer span.End()

		c.logger.Info("Loading schema bundle")
		bundle, err := c.source.Load(ctx)
		if err != nil {
			c.logger.Error("Failed to load schema bundle", slog.Any("error", err))
			span.RecordError(err)
			c.err = fmt.Errorf("failed to load schema bundle: %w", err)
			return
		}
		c.bundle = bundle
		c.logger.Info("Schema bundle loaded",
			slog.Int("method_schemas", bundle.Methods.Len()),
			slog.Int("notification_schemas", bundle.Notifications.Len()))
	})
	return c.bundle, c.err
}
