package usecase_test

import (
	"context"
	"encoding/json"
	"log/slog"
	"os"

	"github.com/stretchr/testify/mock"

	"github.com/i2y/msggen/internal/domain"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelDebug}))
}

// MockBundleSource is a mock implementation of the BundleSource interface.
type MockBundleSource struct {
	mock.Mock
}

func (m *MockBundleSource) Load(ctx context.Context) (*domain.SchemaBundle, error) {
	args := m.Called(ctx)
	bundle, _ := args.Get(0).(*domain.SchemaBundle)
	return bundle, args.Error(1)
}

// MockSchemaScanner is a mock implementation of the SchemaScanner interface.
type MockSchemaScanner struct {
	mock.Mock
}

func (m *MockSchemaScanner) Scan(ctx context.Context, dir string) (*domain.SchemaBundle, error) {
	args := m.Called(ctx, dir)
	bundle, _ := args.Get(0).(*domain.SchemaBundle)
	return bundle, args.Error(1)
}

// MockBundleWriter is a mock implementation of the BundleWriter interface.
type MockBundleWriter struct {
	mock.Mock
}

func (m *MockBundleWriter) Write(ctx context.Context, dest string, bundle *domain.SchemaBundle) error {
	args := m.Called(ctx, dest, bundle)
	return args.Error(0)
}

// MockTypeBuilder is a mock implementation of the TypeBuilder interface.
type MockTypeBuilder struct {
	mock.Mock
}

func (m *MockTypeBuilder) Build(raw json.RawMessage, path string, name domain.TypeName) (*domain.CompositeField, error) {
	args := m.Called(raw, path, name)
	c, _ := args.Get(0).(*domain.CompositeField)
	return c, args.Error(1)
}

// staticBundles serves a fixed bundle, standing in for a BundleCache.
type staticBundles struct {
	bundle *domain.SchemaBundle
}

func (s staticBundles) Get(context.Context) (*domain.SchemaBundle, error) {
	return s.bundle, nil
}

const (
	methodDoc = `{"request": {"type": "object", "properties": {"id": {"type": "pubkey"}}, "required": ["id"]},
	              "response": {"type": "object", "properties": {"id": {"type": "pubkey"}, "alias": {"type": "string"}}}}`
	requestDoc = `{"type": "object", "properties": {}}`
	payloadDoc = `{"type": "object", "properties": {"hash": {"type": "hash"}, "height": {"type": "u32"}}}`
)

// testBundle returns a bundle holding the given method and notification schema files.
func testBundle(methods map[string]string, notifications map[string]string) *domain.SchemaBundle {
	b := domain.NewSchemaBundle()
	for name, doc := range methods {
		b.Methods.Put(name, json.RawMessage(doc))
	}
	for name, doc := range notifications {
		b.Notifications.Put(name, json.RawMessage(doc))
	}
	return b
}
