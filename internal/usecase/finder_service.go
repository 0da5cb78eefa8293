package usecase

import (
	"context"
	"fmt"
	"time"

	"acme-explorer-service/internal/domain/entity"
	"acme-explorer-service/internal/domain/policy"
	"acme-explorer-service/internal/domain/repository"
	"acme-explorer-service/pkg/logger"
)

// FinderSortFields are the fields a finder listing may be sorted by
var FinderSortFields = []string{"createdAt", "updatedAt", "name"}

// FinderService manages saved searches on behalf of authenticated actors
type FinderService struct {
	finderRepo repository.FinderRepository
	logger     logger.Logger
	now        func() time.Time
}

// NewFinderService creates a new finder service
func NewFinderService(finderRepo repository.FinderRepository, logger logger.Logger) *FinderService {
	return &FinderService{
		finderRepo: finderRepo,
		logger:     logger,
		now:        time.Now,
	}
}

// List returns a page of finders. Non-admins only ever see their own.
func (s *FinderService) List(ctx context.Context, actor entity.Actor, query entity.FinderListQuery) (entity.Page[*entity.Finder], error) {
	if !actor.IsAdmin() {
		query.ActorID = actor.ID
	}

	finders, total, err := s.finderRepo.List(ctx, query)
	if err != nil {
		return entity.Page[*entity.Finder]{}, fmt.Errorf("failed to list finders: %w", err)
	}
	return entity.NewPage(finders, query.Page, total), nil
}

// Create saves a new finder. The owner is the requester unless an admin names another actor.
func (s *FinderService) Create(ctx context.Context, actor entity.Actor, finder *entity.Finder) (*entity.Finder, error) {
	if !actor.IsAdmin() || finder.ActorID == "" {
		finder.ActorID = actor.ID
	}
	if err := finder.Validate(); err != nil {
		return nil, err
	}

	now := s.now().UTC()
	finder.CreatedAt = now
	finder.UpdatedAt = now

	if err := s.finderRepo.Create(ctx, finder); err != nil {
		return nil, fmt.Errorf("failed to create finder: %w", err)
	}

	s.logger.Info("Finder created", "finderID", finder.ID, "actorID", finder.ActorID)
	return finder, nil
}

// Get loads a finder the actor is allowed to read
func (s *FinderService) Get(ctx context.Context, actor entity.Actor, id string) (*entity.Finder, error) {
	finder, err := s.finderRepo.FindByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to load finder %s: %w", id, err)
	}
	if !policy.CanReadFinder(actor, finder) {
		return nil, fmt.Errorf("%w: finder %s belongs to another actor", entity.ErrForbidden, id)
	}
	return finder, nil
}

// Update applies a partial update and re-validates the merged finder
func (s *FinderService) Update(ctx context.Context, actor entity.Actor, id string, patch entity.FinderPatch) (*entity.Finder, error) {
	finder, err := s.finderRepo.FindByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to load finder %s: %w", id, err)
	}
	if !policy.CanMutateFinder(actor, finder) {
		return nil, fmt.Errorf("%w: finder %s belongs to another actor", entity.ErrForbidden, id)
	}

	patch.ApplyTo(finder)
	if err := finder.Validate(); err != nil {
		return nil, err
	}
	finder.UpdatedAt = s.now().UTC()

	if err := s.finderRepo.Update(ctx, finder); err != nil {
		return nil, fmt.Errorf("failed to update finder %s: %w", id, err)
	}
	return finder, nil
}

// Delete removes a finder. Nothing references finders so there is no cascade.
func (s *FinderService) Delete(ctx context.Context, actor entity.Actor, id string) error {
	finder, err := s.finderRepo.FindByID(ctx, id)
	if err != nil {
		return fmt.Errorf("failed to load finder %s: %w", id, err)
	}
	if !policy.CanMutateFinder(actor, finder) {
		return fmt.Errorf("%w: finder %s belongs to another actor", entity.ErrForbidden, id)
	}

	if err := s.finderRepo.Delete(ctx, id); err != nil {
		return fmt.Errorf("failed to delete finder %s: %w", id, err)
	}

	s.logger.Info("Finder deleted", "finderID", id, "actorID", actor.ID)
	return nil
}
