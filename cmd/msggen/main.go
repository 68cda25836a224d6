package main

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/i2y/msggen/configs"
	"github.com/i2y/msggen/internal/adapter/outbound/bundlefile"
	"github.com/i2y/msggen/internal/adapter/outbound/schemadir"
	"github.com/i2y/msggen/internal/adapter/outbound/typemodel"
	"github.com/i2y/msggen/internal/usecase"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracegrpc"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	semconv "go.opentelemetry.io/otel/semconv/v1.26.0"
	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials/insecure"
)

func main() {
	// === Command Line Flags ===
	var mode string
	flag.StringVar(&mode, "mode", "bundle", "What to run: bundle, service or watch")
	flag.Parse()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// === Configuration ===
	cfg, err := configs.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load config: %v\n", err)
		os.Exit(1)
	}

	// === Logging ===
	// stdout carries the service dump, so logs always go to stderr.
	logLevel := cfg.ParsedLogLevel()
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: logLevel}))
	slog.SetDefault(logger)
	logger.Info("Logger initialized.", slog.String("level", logLevel.String()), slog.String("mode", mode))

	// === OpenTelemetry Initialization ===
	shutdownOtel, err := initOtelProvider(cfg)
	if err != nil {
		logger.Error("Failed to initialize OpenTelemetry.", slog.Any("error", err))
		os.Exit(1)
	}
	defer func() {
		if err := shutdownOtel(context.Background()); err != nil {
			logger.Error("Failed to shutdown OpenTelemetry TracerProvider.", slog.Any("error", err))
		}
	}()

	if err := run(ctx, mode, cfg, logger, os.Stdout); err != nil {
		logger.Error("msggen failed", slog.Any("error", err))
		// Flush spans before exiting; deferred calls do not run on os.Exit.
		_ = shutdownOtel(context.Background())
		os.Exit(1)
	}
}

func run(ctx context.Context, mode string, cfg *configs.Config, logger *slog.Logger, out io.Writer) error {
	// === Dependency Injection ===
	scanner := schemadir.NewScanner(cfg.ExcludedFiles, logger)
	writer := bundlefile.NewWriter(logger)
	combineUC := usecase.NewCombineSchemasUseCase(scanner, writer, logger)

	switch mode {
	case "bundle":
		_, err := combineUC.Execute(ctx, cfg.SchemaDir, cfg.BundlePath)
		return err

	case "watch":
		return watch(ctx, combineUC, cfg.SchemaDir, cfg.BundlePath, logger)

	case "service":
		service, err := newLoadService(cfg.BundlePath, usecase.DefaultManifest(), logger).Execute(ctx)
		if err != nil {
			return err
		}
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		return enc.Encode(service)

	default:
		return fmt.Errorf("invalid mode %q: want bundle, service or watch", mode)
	}
}

// newLoadService wires the service assembler to the artifact at bundlePath.
func newLoadService(bundlePath string, manifest usecase.Manifest, logger *slog.Logger) *usecase.LoadServiceUseCase {
	cache := usecase.NewBundleCache(bundlefile.NewSource(bundlePath, logger), logger)
	builder := typemodel.NewBuilder(logger)
	return usecase.NewLoadServiceUseCase(
		manifest,
		usecase.NewLoadMethodUseCase(cache, builder, logger),
		usecase.NewLoadNotificationUseCase(cache, builder, logger),
		logger,
	)
}

// initOtelProvider exports spans over OTLP/gRPC when an endpoint is
// configured. The returned function flushes and closes the exporter.
func initOtelProvider(cfg *configs.Config) (func(context.Context) error, error) {
	if cfg.OtelExporterOtlpEndpoint == "" {
		return func(context.Context) error { return nil }, nil
	}

	var opts []grpc.DialOption
	if cfg.OtelExporterOtlpInsecure {
		opts = append(opts, grpc.WithTransportCredentials(insecure.NewCredentials()))
	}
	conn, err := grpc.NewClient(cfg.OtelExporterOtlpEndpoint, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to OTLP endpoint: %w", err)
	}

	exporter, err := otlptracegrpc.New(context.Background(), otlptracegrpc.WithGRPCConn(conn))
	if err != nil {
		_ = conn.Close()
		return nil, fmt.Errorf("failed to create OTLP trace exporter: %w", err)
	}

	tp := sdktrace.NewTracerProvider(
		sdktrace.WithBatcher(exporter),
		sdktrace.WithResource(resource.NewWithAttributes(semconv.SchemaURL, semconv.ServiceNameKey.String("msggen"))),
	)
	otel.SetTracerProvider(tp)
	slog.Info("Exporting traces over OTLP.", slog.String("endpoint", cfg.OtelExporterOtlpEndpoint))

	return func(ctx context.Context) error {
		return errors.Join(tp.Shutdown(ctx), conn.Close())
	}, nil
}
