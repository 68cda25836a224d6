package usecase

import (
	"context"
	"fmt"
	"log/slog"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"

	"github.com/i2y/msggen/internal/domain"
)

// CombineSchemasUseCase bundles a schema directory into one artifact.
type CombineSchemasUseCase struct {
	scanner SchemaScanner
	writer  BundleWriter
	logger  *slog.Logger
	files   metric.Int64Counter
}

// NewCombineSchemasUseCase creates a new CombineSchemasUseCase.
func NewCombineSchemasUseCase(scanner SchemaScanner, writer BundleWriter, logger *slog.Logger) *CombineSchemasUseCase {
	return &CombineSchemasUseCase{
		scanner: scanner,
		writer:  writer,
		logger:  logger.With("usecase", "CombineSchemas"),
		files:   newCounter("msggen.bundle.files", "Schema files written into a bundle artifact"),
	}
}

// Execute scans schemaDir, writes the bundle to dest and returns it.
// Nothing is written when scanning fails.
func (uc *CombineSchemasUseCase) Execute(ctx context.Context, schemaDir, dest string) (*domain.SchemaBundle, error) {
	ctx, span := tracer.Start(ctx, "CombineSchemas")
	defer span.End()
	span.SetAttributes(attribute.String("schema_dir", schemaDir), attribute.String("dest", dest))

	log := uc.logger.With(slog.String("schema_dir", schemaDir), slog.String("dest", dest))
	log.Info("Combining schemas")

	bundle, err := uc.scanner.Scan(ctx, schemaDir)
	if err != nil {
		log.Error("Failed to scan schema directory", slog.Any("error", err))
		span.RecordError(err)
		span.SetStatus(codes.Error, "scan failed")
		return nil, fmt.Errorf("failed to scan schemas in %s: %w", schemaDir, err)
	}

	if err := uc.writer.Write(ctx, dest, bundle); err != nil {
		log.Error("Failed to write bundle", slog.Any("error", err))
		span.RecordError(err)
		span.SetStatus(codes.Error, "write failed")
		return nil, fmt.Errorf("failed to write bundle to %s: %w", dest, err)
	}

	total := bundle.Methods.Len() + bundle.Notifications.Len()
	uc.files.Add(ctx, int64(total))
	log.Info("Bundle written",
		slog.Int("method_schemas", bundle.Methods.Len()),
		slog.Int("notification_schemas", bundle.Notifications.Len()))
	return bundle, nil
}
