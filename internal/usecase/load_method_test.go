package usecase_test

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/i2y/msggen/internal/adapter/outbound/typemodel"
	"github.com/i2y/msggen/internal/domain"
	"github.com/i2y/msggen/internal/usecase"
)

func TestMethodSchemaFile(t *testing.T) {
	assert.Equal(t, "lightning-getinfo.json", usecase.MethodSchemaFile("Getinfo"))
	assert.Equal(t, "lightning-fundchannel_cancel.json", usecase.MethodSchemaFile("FundChannel_Cancel"))
	assert.Equal(t, "lightning-bkpr-listincome.json", usecase.MethodSchemaFile("Bkpr-ListIncome"))
}

func TestLoadMethodUseCase_Execute(t *testing.T) {
	assert := assert.New(t)
	require := require.New(t)
	ctx := context.Background()

	bundles := staticBundles{testBundle(map[string]string{
		"lightning-listpeers.json": methodDoc,
		// Both halves carry the same title; the suffixes keep them apart.
		"lightning-same.json": `{"request": {"title": "Same", "properties": {}}, "response": {"title": "Same", "properties": {}}}`,
	}, nil)}
	uc := usecase.NewLoadMethodUseCase(bundles, typemodel.NewBuilder(testLogger()), testLogger())

	m, err := uc.Execute(ctx, "ListPeers")
	require.NoError(err)
	assert.Equal("ListPeers", m.Name)
	assert.Equal(domain.TypeName("ListpeersRequest"), m.Request.TypeName)
	assert.Equal(domain.TypeName("ListpeersResponse"), m.Response.TypeName)
	assert.Equal("ListPeers", m.Request.Path)
	require.Len(m.Request.Fields, 1)
	assert.True(m.Request.Fields[0].Required)
	assert.Len(m.Response.Fields, 2)

	same, err := uc.Execute(ctx, "Same")
	require.NoError(err)
	assert.NotEqual(same.Request.TypeName, same.Response.TypeName)
}

func TestLoadMethodUseCase_Errors(t *testing.T) {
	ctx := context.Background()
	shapeErr := errors.New("bad shape")

	tests := []struct {
		name      string
		docs      map[string]string
		call      string
		setup     func(*MockTypeBuilder)
		wantErr   error
		errSubstr string
	}{
		{
			name:      "missing schema file",
			docs:      map[string]string{"lightning-getinfo.json": methodDoc},
			call:      "DoesNotExist",
			wantErr:   domain.ErrLookup,
			errSubstr: "lightning-doesnotexist.json",
		},
		{
			name:      "missing response member",
			docs:      map[string]string{"lightning-half.json": `{"request": {}}`},
			call:      "Half",
			wantErr:   domain.ErrLookup,
			errSubstr: "no response schema",
		},
		{
			name:    "document is not an object",
			docs:    map[string]string{"lightning-list.json": `[1, 2]`},
			call:    "List",
			wantErr: domain.ErrParse,
		},
		{
			name: "builder error propagates",
			docs: map[string]string{"lightning-getinfo.json": methodDoc},
			call: "Getinfo",
			setup: func(b *MockTypeBuilder) {
				b.On("Build", mock.Anything, "Getinfo", domain.TypeName("GetinfoRequest")).Return(nil, shapeErr).Once()
			},
			wantErr:   shapeErr,
			errSubstr: "failed to build request of Getinfo",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			builder := new(MockTypeBuilder)
			if tt.setup != nil {
				tt.setup(builder)
			}
			uc := usecase.NewLoadMethodUseCase(staticBundles{testBundle(tt.docs, nil)}, builder, testLogger())

			m, err := uc.Execute(ctx, tt.call)
			assert.ErrorIs(t, err, tt.wantErr)
			if tt.errSubstr != "" {
				assert.Contains(t, err.Error(), tt.errSubstr)
			}
			assert.Nil(t, m.Request)
			assert.Nil(t, m.Response)
			builder.AssertExpectations(t)
		})
	}
}

func TestLoadMethodUseCase_PassesRawSubtrees(t *testing.T) {
	ctx := context.Background()
	builder := new(MockTypeBuilder)
	req := &domain.CompositeField{TypeName: "ConnectRequest"}
	resp := &domain.CompositeField{TypeName: "ConnectResponse"}
	builder.On("Build", json.RawMessage(`{"a": 1}`), "Connect", domain.TypeName("ConnectRequest")).Return(req, nil).Once()
	builder.On("Build", json.RawMessage(`{"b": 2}`), "Connect", domain.TypeName("ConnectResponse")).Return(resp, nil).Once()

	bundles := staticBundles{testBundle(map[string]string{
		"lightning-connect.json": `{"request": {"a": 1}, "response": {"b": 2}}`,
	}, nil)}
	m, err := usecase.NewLoadMethodUseCase(bundles, builder, testLogger()).Execute(ctx, "Connect")
	require.NoError(t, err)
	assert.Same(t, req, m.Request)
	assert.Same(t, resp, m.Response)
	builder.AssertExpectations(t)
}
