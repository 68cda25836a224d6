package usecase

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"

	"go.opentelemetry.io/otel/attribute"

	"github.com/i2y/msggen/internal/domain"
)

// MethodSchemaFile returns the bundle key holding the schema of a call.
func MethodSchemaFile(name string) string {
	return "lightning-" + strings.ToLower(name) + ".json"
}

// LoadMethodUseCase turns one call's schema into a Method.
type LoadMethodUseCase struct {
	bundles BundleProvider
	builder TypeBuilder
	logger  *slog.Logger
}

// NewLoadMethodUseCase creates a new LoadMethodUseCase.
func NewLoadMethodUseCase(bundles BundleProvider, builder TypeBuilder, logger *slog.Logger) *LoadMethodUseCase {
	return &LoadMethodUseCase{
		bundles: bundles,
		builder: builder,
		logger:  logger.With("usecase", "LoadMethod"),
	}
}

// Execute loads the call name. Its request and response types are named
// <Base>Request and <Base>Response, so they never collide with each other.
func (uc *LoadMethodUseCase) Execute(ctx context.Context, name string) (domain.Method, error) {
	ctx, span := tracer.Start(ctx, "LoadMethod")
	defer span.End()
	span.SetAttributes(attribute.String("method", name))

	bundle, err := uc.bundles.Get(ctx)
	if err != nil {
		return domain.Method{}, err
	}

	file := MethodSchemaFile(name)
	log := uc.logger.With(slog.String("method", name), slog.String("file", file))

	raw, ok := bundle.Methods.Get(file)
	if !ok {
		log.Error("Method schema missing from bundle")
		return domain.Method{}, fmt.Errorf("%w: method %s has no schema file %s", domain.ErrLookup, name, file)
	}

	var doc struct {
		Request  json.RawMessage `json:"request"`
		Response json.RawMessage `json:"response"`
	}
	if err := json.Unmarshal(raw, &doc); err != nil {
		return domain.Method{}, fmt.Errorf("%w: method %s in %s: %v", domain.ErrParse, name, file, err)
	}
	if isAbsent(doc.Request) {
		return domain.Method{}, fmt.Errorf("%w: method %s: %s has no request schema", domain.ErrLookup, name, file)
	}
	if isAbsent(doc.Response) {
		return domain.Method{}, fmt.Errorf("%w: method %s: %s has no response schema", domain.ErrLookup, name, file)
	}

	base := domain.BaseTypeName(name)
	request, err := uc.builder.Build(doc.Request, name, base+"Request")
	if err != nil {
		log.Error("Failed to build request type", slog.Any("error", err))
		return domain.Method{}, fmt.Errorf("failed to build request of %s: %w", name, err)
	}
	response, err := uc.builder.Build(doc.Response, name, base+"Response")
	if err != nil {
		log.Error("Failed to build response type", slog.Any("error", err))
		return domain.Method{}, fmt.Errorf("failed to build response of %s: %w", name, err)
	}

	log.Debug("Loaded method",
		slog.String("request", request.TypeName.String()),
		slog.String("response", response.TypeName.String()))
	return domain.Method{Name: name, Request: request, Response: response}, nil
}

func isAbsent(raw json.RawMessage) bool {
	return len(raw) == 0 || string(raw) == "null"
}
