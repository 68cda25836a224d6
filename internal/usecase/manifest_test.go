package usecase_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/i2y/msggen/internal/domain"
	"github.com/i2y/msggen/internal/usecase"
)

func TestDefaultManifest(t *testing.T) {
	assert := assert.New(t)
	m := usecase.DefaultManifest()

	active := m.ActiveMethods()
	assert.Equal("Node", m.ServiceName)
	assert.Equal([]string{"primitives.proto"}, m.Includes)
	assert.Len(active, 96)
	assert.Equal("Getinfo", active[0])
	assert.Equal("Bkpr-ListIncome", active[len(active)-1])

	var excluded []string
	for _, e := range m.ExcludedMethods() {
		assert.NotEmpty(e.Reason)
		excluded = append(excluded, e.Name)
	}
	assert.Equal([]string{"funderupdate", "multiwithdraw", "parsefeerate", "ListConfigs", "check", "notifications", "help"}, excluded)
	for _, name := range excluded {
		assert.NotContains(active, name)
	}

	// Type names derived from the manifest never collide.
	seen := make(map[domain.TypeName]string)
	for _, name := range active {
		base := domain.BaseTypeName(name)
		prev, dup := seen[base]
		assert.False(dup, "%s and %s share base type name %s", prev, name, base)
		seen[base] = name
	}

	assert.Equal([]usecase.NotificationEntry{
		usecase.Notify("block_added", "BlockAdded"),
		usecase.Notify("channel_open_failed", "ChannelOpenFailed"),
		usecase.Notify("channel_opened", "ChannelOpened"),
		usecase.Notify("connect", "Connect"),
		usecase.Notify("custommsg", "CustomMsg"),
	}, m.Notifications)
}

func TestManifest_EntryKind(t *testing.T) {
	m := usecase.Manifest{
		Methods: []usecase.ManifestEntry{
			usecase.Active("Getinfo"),
			usecase.Excluded("help", ""),
			usecase.Excluded("check", "no useful mapping"),
		},
	}

	assert.True(t, usecase.Active("Getinfo").IsActive())
	assert.False(t, usecase.Excluded("help", "").IsActive())
	assert.Equal(t, []string{"Getinfo"}, m.ActiveMethods())
	assert.Equal(t, []usecase.ManifestEntry{
		{Name: "help", Kind: usecase.EntryExcluded},
		{Name: "check", Kind: usecase.EntryExcluded, Reason: "no useful mapping"},
	}, m.ExcludedMethods())
}
