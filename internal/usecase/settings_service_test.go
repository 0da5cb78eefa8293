package usecase

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"acme-explorer-service/internal/domain/entity"
)

var defaultFinderSettings = entity.FinderSettings{MaxResults: 10, CacheTTL: 3600 * time.Second}

func TestSettingsService_DefaultsWhenEmpty(t *testing.T) {
	svc := NewSettingsService(&mockConfigRepo{}, defaultFinderSettings, newTestLogger())

	got := svc.FinderSettings(context.Background())
	assert.Equal(t, defaultFinderSettings, got)
	assert.Equal(t, 3600, got.CacheTTLSeconds())
}

func TestSettingsService_StoredValuesOverrideDefaults(t *testing.T) {
	repo := &mockConfigRepo{entries: []entity.ConfigurationEntry{
		{Key: entity.ConfigMaxResultsFinder, Value: "25"},
		{Key: entity.ConfigTimeCachedFinder, Value: " 120 "},
	}}
	svc := NewSettingsService(repo, defaultFinderSettings, newTestLogger())

	got := svc.FinderSettings(context.Background())
	assert.Equal(t, 25, got.MaxResults)
	assert.Equal(t, 2*time.Minute, got.CacheTTL)
}

func TestSettingsService_ReadsOnEveryCall(t *testing.T) {
	repo := &mockConfigRepo{}
	svc := NewSettingsService(repo, defaultFinderSettings, newTestLogger())

	assert.Equal(t, 10, svc.FinderSettings(context.Background()).MaxResults)

	repo.entries = []entity.ConfigurationEntry{{Key: entity.ConfigMaxResultsFinder, Value: "3"}}
	assert.Equal(t, 3, svc.FinderSettings(context.Background()).MaxResults)
}

func TestSettingsService_InvalidValuesIgnored(t *testing.T) {
	repo := &mockConfigRepo{entries: []entity.ConfigurationEntry{
		{Key: entity.ConfigMaxResultsFinder, Value: "-4"},
		{Key: entity.ConfigTimeCachedFinder, Value: "soon"},
	}}
	svc := NewSettingsService(repo, defaultFinderSettings, newTestLogger())

	assert.Equal(t, defaultFinderSettings, svc.FinderSettings(context.Background()))
}

func TestSettingsService_StoreFailureDegradesToDefaults(t *testing.T) {
	repo := &mockConfigRepo{listErr: errors.New("timeout")}
	svc := NewSettingsService(repo, defaultFinderSettings, newTestLogger())

	assert.Equal(t, defaultFinderSettings, svc.FinderSettings(context.Background()))

	_, err := svc.Entries(context.Background())
	assert.Error(t, err)
}

func TestSettingsService_Set(t *testing.T) {
	repo := &mockConfigRepo{}
	svc := NewSettingsService(repo, defaultFinderSettings, newTestLogger())

	require.NoError(t, svc.Set(context.Background(), entity.ConfigTimeCachedFinder, "60"))
	assert.Equal(t, time.Minute, svc.FinderSettings(context.Background()).CacheTTL)

	assert.ErrorIs(t, svc.Set(context.Background(), "colour", "blue"), entity.ErrInvalidRequest)
	assert.ErrorIs(t, svc.Set(context.Background(), entity.ConfigMaxResultsFinder, "0"), entity.ErrValidation)
}
