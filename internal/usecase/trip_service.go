package usecase

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"acme-explorer-service/internal/domain/entity"
	"acme-explorer-service/internal/domain/policy"
	"acme-explorer-service/internal/domain/repository"
	"acme-explorer-service/pkg/logger"
	"acme-explorer-service/pkg/utils"
)

const maxTickerAttempts = 5

// TripService enforces the trip lifecycle: created INACTIVE, edited only while
// INACTIVE, published to ACTIVE and optionally cancelled.
type TripService struct {
	tripRepo        repository.TripRepository
	applicationRepo repository.ApplicationRepository
	logger          logger.Logger
	now             func() time.Time
}

// NewTripService creates a new trip service
func NewTripService(
	tripRepo repository.TripRepository,
	applicationRepo repository.ApplicationRepository,
	logger logger.Logger,
) *TripService {
	return &TripService{
		tripRepo:        tripRepo,
		applicationRepo: applicationRepo,
		logger:          logger,
		now:             time.Now,
	}
}

// Create stores a new INACTIVE trip owned by the requesting manager
func (s *TripService) Create(ctx context.Context, actor entity.Actor, trip *entity.Trip) (*entity.Trip, error) {
	if !policy.CanCreateTrip(actor) {
		return nil, fmt.Errorf("%w: only managers can create trips", entity.ErrForbidden)
	}

	now := s.now().UTC()
	trip.ManagerID = actor.ID
	trip.Manager = nil
	trip.State = entity.TripStateInactive
	trip.ReasonCancelled = ""
	for i := range trip.Stages {
		trip.Stages[i].ID = uuid.NewString()
	}
	trip.RecomputePrice()

	if err := trip.Validate(now); err != nil {
		return nil, err
	}
	trip.CreatedAt = now
	trip.UpdatedAt = now

	var err error
	for attempt := 1; attempt <= maxTickerAttempts; attempt++ {
		trip.Ticker = utils.GenerateTicker(now)
		err = s.tripRepo.Create(ctx, trip)
		if !errors.Is(err, entity.ErrConflict) {
			break
		}
		s.logger.Warn("Ticker collision, retrying", "ticker", trip.Ticker, "attempt", attempt)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to create trip: %w", err)
	}

	s.logger.Info("Trip created", "tripID", trip.ID, "ticker", trip.Ticker, "managerID", trip.ManagerID)
	return trip, nil
}

// Get returns a trip. INACTIVE trips are reported as missing to anyone but their
// manager or an admin. actor is nil for anonymous requests.
func (s *TripService) Get(ctx context.Context, actor *entity.Actor, id string) (*entity.Trip, error) {
	trip, err := s.tripRepo.FindByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to load trip %s: %w", id, err)
	}
	if !policy.CanViewTrip(actor, trip) {
		return nil, fmt.Errorf("%w: trip %s", entity.ErrNotFound, id)
	}
	return trip, nil
}

// Update applies a partial update to an INACTIVE trip
func (s *TripService) Update(ctx context.Context, actor entity.Actor, id string, patch entity.TripPatch) (*entity.Trip, error) {
	trip, err := s.loadEditable(ctx, actor, id, "edited")
	if err != nil {
		return nil, err
	}

	if patch.Stages != nil {
		stages := *patch.Stages
		for i := range stages {
			if stages[i].ID == "" {
				stages[i].ID = uuid.NewString()
			}
		}
	}
	patch.ApplyTo(trip)

	now := s.now().UTC()
	if err := trip.Validate(now); err != nil {
		return nil, err
	}
	return s.save(ctx, trip, now)
}

// Delete removes an INACTIVE trip
func (s *TripService) Delete(ctx context.Context, actor entity.Actor, id string) error {
	if _, err := s.loadEditable(ctx, actor, id, "deleted"); err != nil {
		return err
	}

	if err := s.tripRepo.Delete(ctx, id); err != nil {
		return fmt.Errorf("failed to delete trip %s: %w", id, err)
	}

	s.logger.Info("Trip deleted", "tripID", id, "managerID", actor.ID)
	return nil
}

// AddStage appends a stage to an INACTIVE trip and recomputes its price
func (s *TripService) AddStage(ctx context.Context, actor entity.Actor, id string, stage entity.Stage) (*entity.Trip, error) {
	trip, err := s.loadEditable(ctx, actor, id, "modified")
	if err != nil {
		return nil, err
	}
	if err := stage.Validate(); err != nil {
		return nil, err
	}

	stage.ID = uuid.NewString()
	trip.Stages = append(trip.Stages, stage)
	trip.RecomputePrice()

	return s.save(ctx, trip, s.now().UTC())
}

// RemoveStage drops a stage from an INACTIVE trip. The last stage cannot be removed.
func (s *TripService) RemoveStage(ctx context.Context, actor entity.Actor, id, stageID string) (*entity.Trip, error) {
	trip, err := s.loadEditable(ctx, actor, id, "modified")
	if err != nil {
		return nil, err
	}

	idx := -1
	for i, st := range trip.Stages {
		if st.ID == stageID {
			idx = i
			break
		}
	}
	if idx < 0 {
		return nil, fmt.Errorf("%w: stage %s", entity.ErrNotFound, stageID)
	}
	if len(trip.Stages) == 1 {
		return nil, fmt.Errorf("%w: at least one stage is required", entity.ErrValidation)
	}

	trip.Stages = append(trip.Stages[:idx:idx], trip.Stages[idx+1:]...)
	trip.RecomputePrice()

	return s.save(ctx, trip, s.now().UTC())
}

// Publish moves an INACTIVE trip to ACTIVE
func (s *TripService) Publish(ctx context.Context, actor entity.Actor, id string) (*entity.Trip, error) {
	trip, err := s.loadEditable(ctx, actor, id, "published")
	if err != nil {
		return nil, err
	}

	trip.State = entity.TripStateActive
	s.logger.Info("Trip published", "tripID", id, "managerID", actor.ID)
	return s.save(ctx, trip, s.now().UTC())
}

// Cancel moves an ACTIVE trip that has not started and has no accepted
// applications to CANCELLED
func (s *TripService) Cancel(ctx context.Context, actor entity.Actor, id, reason string) (*entity.Trip, error) {
	trip, err := s.loadOwned(ctx, actor, id)
	if err != nil {
		return nil, err
	}
	if trip.State != entity.TripStateActive {
		return nil, fmt.Errorf("%w: only ACTIVE trips can be cancelled, trip %s is %s", entity.ErrMethodNotAllowed, id, trip.State)
	}

	reason = strings.TrimSpace(reason)
	if reason == "" {
		return nil, fmt.Errorf("%w: reasonCancelled is required", entity.ErrValidation)
	}

	now := s.now().UTC()
	if !trip.StartDate.After(now) {
		return nil, fmt.Errorf("%w: trip %s has already started", entity.ErrMethodNotAllowed, id)
	}

	accepted, err := s.applicationRepo.CountByTripAndState(ctx, id, entity.ApplicationAccepted)
	if err != nil {
		return nil, fmt.Errorf("failed to count applications of trip %s: %w", id, err)
	}
	if accepted > 0 {
		return nil, fmt.Errorf("%w: trip %s has %d accepted applications", entity.ErrMethodNotAllowed, id, accepted)
	}

	trip.State = entity.TripStateCancelled
	trip.ReasonCancelled = reason
	s.logger.Info("Trip cancelled", "tripID", id, "managerID", actor.ID, "reason", reason)
	return s.save(ctx, trip, now)
}

func (s *TripService) loadOwned(ctx context.Context, actor entity.Actor, id string) (*entity.Trip, error) {
	trip, err := s.tripRepo.FindByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to load trip %s: %w", id, err)
	}
	if !policy.CanMutateTrip(actor, trip) {
		return nil, fmt.Errorf("%w: trip %s is managed by another actor", entity.ErrForbidden, id)
	}
	return trip, nil
}

func (s *TripService) loadEditable(ctx context.Context, actor entity.Actor, id, action string) (*entity.Trip, error) {
	trip, err := s.loadOwned(ctx, actor, id)
	if err != nil {
		return nil, err
	}
	if trip.State != entity.TripStateInactive {
		return nil, fmt.Errorf("%w: trip %s is %s and cannot be %s", entity.ErrMethodNotAllowed, id, trip.State, action)
	}
	return trip, nil
}

func (s *TripService) save(ctx context.Context, trip *entity.Trip, now time.Time) (*entity.Trip, error) {
	trip.UpdatedAt = now
	if err := s.tripRepo.Update(ctx, trip); err != nil {
		return nil, fmt.Errorf("failed to update trip %s: %w", trip.ID, err)
	}
	return trip, nil
}
