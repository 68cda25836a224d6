package usecase

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"

	"github.com/i2y/msggen/internal/domain"
)

// LoadServiceUseCase assembles the Service described by a manifest.
type LoadServiceUseCase struct {
	manifest      Manifest
	methods       *LoadMethodUseCase
	notifications *LoadNotificationUseCase
	logger        *slog.Logger
	loads         metric.Int64Counter
}

// NewLoadServiceUseCase creates a new LoadServiceUseCase.
func NewLoadServiceUseCase(
	manifest Manifest,
	methods *LoadMethodUseCase,
	notifications *LoadNotificationUseCase,
	logger *slog.Logger,
) *LoadServiceUseCase {
	return &LoadServiceUseCase{
		manifest:      manifest,
		methods:       methods,
		notifications: notifications,
		logger:        logger.With("usecase", "LoadService"),
		loads:         newCounter("msggen.service.loads", "Completed service assemblies"),
	}
}

// Execute loads every active method and every notification in manifest
// order. The first failure aborts the load; a partial Service is never
// returned.
func (uc *LoadServiceUseCase) Execute(ctx context.Context) (*domain.Service, error) {
	ctx, span := tracer.Start(ctx, "LoadService")
	defer span.End()

	fail := func(err error) (*domain.Service, error) {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}

	log := uc.logger.With(slog.String("service", uc.manifest.ServiceName))
	active := uc.manifest.ActiveMethods()
	log.Info("Loading service",
		slog.Int("methods", len(active)),
		slog.Int("excluded_methods", len(uc.manifest.ExcludedMethods())),
		slog.Int("notifications", len(uc.manifest.Notifications)))

	methods := make([]domain.Method, 0, len(active))
	for _, name := range active {
		m, err := uc.methods.Execute(ctx, name)
		if err != nil {
			log.Error("Failed to load method", slog.String("method", name), slog.Any("error", err))
			return fail(fmt.Errorf("failed to load method %s: %w", name, err))
		}
		methods = append(methods, m)
	}

	notifications := make([]domain.Notification, 0, len(uc.manifest.Notifications))
	for _, entry := range uc.manifest.Notifications {
		n, err := uc.notifications.Execute(ctx, entry.Name, entry.TypeName)
		if err != nil {
			log.Error("Failed to load notification", slog.String("notification", entry.Name), slog.Any("error", err))
			return fail(fmt.Errorf("failed to load notification %s: %w", entry.Name, err))
		}
		notifications = append(notifications, n)
	}

	includes := make([]string, len(uc.manifest.Includes))
	copy(includes, uc.manifest.Includes)

	service := &domain.Service{
		Name:          uc.manifest.ServiceName,
		Methods:       methods,
		Notifications: notifications,
		Includes:      includes,
	}
	if errs := service.Validate(); len(errs) > 0 {
		err := errors.Join(errs...)
		log.Error("Generated type names collide", slog.Any("error", err))
		return fail(fmt.Errorf("invalid service %s: %w", service.Name, err))
	}

	span.SetAttributes(
		attribute.Int("methods", len(methods)),
		attribute.Int("notifications", len(notifications)))
	uc.loads.Add(ctx, 1)
	log.Info("Service loaded",
		slog.Int("methods", len(methods)),
		slog.Int("notifications", len(notifications)))
	return service, nil
}
