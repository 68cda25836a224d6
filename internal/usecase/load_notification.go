package usecase

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"go.opentelemetry.io/otel/attribute"

	"github.com/i2y/msggen/internal/domain"
)

// NotificationSchemaFiles returns the bundle keys of the subscription
// request and the delivered payload of a notification.
func NotificationSchemaFiles(name string) (request, payload string) {
	lower := strings.ToLower(name)
	return lower + ".request.json", lower + ".schema.json"
}

// LoadNotificationUseCase turns a notification's two schemas into a Notification.
type LoadNotificationUseCase struct {
	bundles BundleProvider
	builder TypeBuilder
	logger  *slog.Logger
}

// NewLoadNotificationUseCase creates a new LoadNotificationUseCase.
func NewLoadNotificationUseCase(bundles BundleProvider, builder TypeBuilder, logger *slog.Logger) *LoadNotificationUseCase {
	return &LoadNotificationUseCase{
		bundles: bundles,
		builder: builder,
		logger:  logger.With("usecase", "LoadNotification"),
	}
}

// Execute loads the notification name. The request type is named
// Stream<typename>Request and the payload <typename>Notification.
func (uc *LoadNotificationUseCase) Execute(ctx context.Context, name string, typename domain.TypeName) (domain.Notification, error) {
	ctx, span := tracer.Start(ctx, "LoadNotification")
	defer span.End()
	span.SetAttributes(attribute.String("notification", name))

	bundle, err := uc.bundles.Get(ctx)
	if err != nil {
		return domain.Notification{}, err
	}

	reqFile, respFile := NotificationSchemaFiles(name)
	log := uc.logger.With(slog.String("notification", name))

	reqRaw, ok := bundle.Notifications.Get(reqFile)
	if !ok {
		log.Error("Notification request schema missing from bundle", slog.String("file", reqFile))
		return domain.Notification{}, fmt.Errorf("%w: notification %s has no schema file %s", domain.ErrLookup, name, reqFile)
	}
	respRaw, ok := bundle.Notifications.Get(respFile)
	if !ok {
		log.Error("Notification payload schema missing from bundle", slog.String("file", respFile))
		return domain.Notification{}, fmt.Errorf("%w: notification %s has no schema file %s", domain.ErrLookup, name, respFile)
	}

	request, err := uc.builder.Build(reqRaw, name, "Stream"+typename+"Request")
	if err != nil {
		log.Error("Failed to build stream request type", slog.Any("error", err))
		return domain.Notification{}, fmt.Errorf("failed to build request of notification %s: %w", name, err)
	}
	response, err := uc.builder.Build(respRaw, name, typename+"Notification")
	if err != nil {
		log.Error("Failed to build payload type", slog.Any("error", err))
		return domain.Notification{}, fmt.Errorf("failed to build payload of notification %s: %w", name, err)
	}

	log.Debug("Loaded notification",
		slog.String("request", request.TypeName.String()),
		slog.String("response", response.TypeName.String()))
	return domain.Notification{
		Name:     name,
		TypeName: typename,
		Request:  request,
		Response: response,
	}, nil
}
