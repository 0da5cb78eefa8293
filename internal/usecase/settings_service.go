package usecase

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"acme-explorer-service/internal/domain/entity"
	"acme-explorer-service/internal/domain/repository"
	"acme-explorer-service/pkg/logger"
)

// SettingsService resolves operator-tunable finder settings from the configuration
// store on every call, falling back to process defaults.
type SettingsService struct {
	configRepo repository.ConfigurationRepository
	defaults   entity.FinderSettings
	logger     logger.Logger
}

// NewSettingsService creates a new settings service
func NewSettingsService(
	configRepo repository.ConfigurationRepository,
	defaults entity.FinderSettings,
	logger logger.Logger,
) *SettingsService {
	return &SettingsService{
		configRepo: configRepo,
		defaults:   defaults,
		logger:     logger,
	}
}

// FinderSettings returns the effective settings. A failing configuration store
// degrades to the defaults rather than failing the search.
func (s *SettingsService) FinderSettings(ctx context.Context) entity.FinderSettings {
	settings := s.defaults

	entries, err := s.configRepo.List(ctx)
	if err != nil {
		s.logger.Warn("Failed to read runtime configuration, using defaults", "error", err)
		return settings
	}

	for _, e := range entries {
		switch e.Key {
		case entity.ConfigMaxResultsFinder:
			if n, ok := positiveInt(e.Value); ok {
				settings.MaxResults = n
			} else {
				s.logger.Warn("Ignoring invalid runtime configuration", "key", e.Key, "value", e.Value)
			}
		case entity.ConfigTimeCachedFinder:
			if n, ok := positiveInt(e.Value); ok {
				settings.CacheTTL = time.Duration(n) * time.Second
			} else {
				s.logger.Warn("Ignoring invalid runtime configuration", "key", e.Key, "value", e.Value)
			}
		}
	}

	return settings
}

// Entries lists the raw configuration entries
func (s *SettingsService) Entries(ctx context.Context) ([]entity.ConfigurationEntry, error) {
	entries, err := s.configRepo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list configuration: %w", err)
	}
	return entries, nil
}

// Set validates and stores a runtime setting
func (s *SettingsService) Set(ctx context.Context, key, value string) error {
	switch key {
	case entity.ConfigMaxResultsFinder, entity.ConfigTimeCachedFinder:
	default:
		return fmt.Errorf("%w: unknown configuration key %q", entity.ErrInvalidRequest, key)
	}

	value = strings.TrimSpace(value)
	if _, ok := positiveInt(value); !ok {
		return fmt.Errorf("%w: %s must be a positive integer", entity.ErrValidation, key)
	}

	if err := s.configRepo.Set(ctx, key, value); err != nil {
		return fmt.Errorf("failed to store configuration: %w", err)
	}

	s.logger.Info("Runtime configuration updated", "key", key, "value", value)
	return nil
}

func positiveInt(s string) (int, bool) {
	n, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil || n <= 0 {
		return 0, false
	}
	return n, true
}
