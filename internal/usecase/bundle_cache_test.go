package usecase_test

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/i2y/msggen/internal/domain"
	"github.com/i2y/msggen/internal/usecase"
)

func TestBundleCache_LoadsOnce(t *testing.T) {
	require := require.New(t)
	ctx := context.Background()

	bundle := testBundle(map[string]string{"lightning-getinfo.json": methodDoc}, nil)
	source := new(MockBundleSource)
	// Once: a second Load would fail the expectation and panic.
	source.On("Load", mock.Anything).Return(bundle, nil).Once()

	cache := usecase.NewBundleCache(source, testLogger())

	first, err := cache.Get(ctx)
	require.NoError(err)
	second, err := cache.Get(ctx)
	require.NoError(err)

	assert.Same(t, bundle, first)
	assert.Same(t, first, second)
	source.AssertExpectations(t)
	source.AssertNumberOfCalls(t, "Load", 1)
}

func TestBundleCache_ConcurrentFirstUse(t *testing.T) {
	bundle := testBundle(nil, nil)
	source := new(MockBundleSource)
	source.On("Load", mock.Anything).Return(bundle, nil).Once()

	cache := usecase.NewBundleCache(source, testLogger())

	const callers = 16
	results := make([]*domain.SchemaBundle, callers)
	var wg sync.WaitGroup
	for i := 0; i < callers; i++ {
		i := i
		wg.Add(1)
		go func() {
			defer wg.Done()
			b, err := cache.Get(context.Background())
			assert.NoError(t, err)
			results[i] = b
		}()
	}
	wg.Wait()

	for _, b := range results {
		assert.Same(t, bundle, b)
	}
	source.AssertNumberOfCalls(t, "Load", 1)
}

func TestBundleCache_LoadErrorIsFatal(t *testing.T) {
	ctx := context.Background()
	loadErr := errors.New("open schema.json: no such file or directory")

	source := new(MockBundleSource)
	source.On("Load", mock.Anything).Return(nil, loadErr).Once()

	cache := usecase.NewBundleCache(source, testLogger())

	_, err := cache.Get(ctx)
	assert.ErrorIs(t, err, loadErr)
	assert.EqualError(t, err, "failed to load schema bundle: open schema.json: no such file or directory")

	// The failure is remembered; the source is not retried.
	_, err = cache.Get(ctx)
	assert.ErrorIs(t, err, loadErr)
	source.AssertNumberOfCalls(t, "Load", 1)
}
