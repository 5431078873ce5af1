package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/attendly/attendance-api/internal/domain"
	"github.com/attendly/attendance-api/internal/repository"
)

var (
	ErrEventNotFound   = repository.ErrEventNotFound
	ErrClaimCodeExists = repository.ErrClaimCodeExists
)

type EventRepository interface {
	Create(ctx context.Context, event domain.Event) (domain.Event, error)
	FindByID(ctx context.Context, id uint) (domain.Event, error)
	FindAll(ctx context.Context) ([]domain.Event, error)
	Update(ctx context.Context, event domain.Event) (domain.Event, error)
}

type EventService struct {
	repo EventRepository
}

func NewEventService(repo EventRepository) *EventService {
	return &EventService{
		repo: repo,
	}
}

// CreateEvent stores a new claimable event. The claim code is normalized to
// upper case; it is immutable from here on.
func (s *EventService) CreateEvent(ctx context.Context, event domain.Event) (domain.Event, error) {
	event.ClaimCode = strings.ToUpper(strings.TrimSpace(event.ClaimCode))
	if !event.IsActive {
		event.IsActive = true
	}

	created, err := s.repo.Create(ctx, event)
	if err != nil {
		if errors.Is(err, repository.ErrClaimCodeExists) {
			return domain.Event{}, ErrClaimCodeExists
		}

		return domain.Event{}, fmt.Errorf("s.repo.Create -> %w", err)
	}

	return created, nil
}

func (s *EventService) GetEvents(ctx context.Context) ([]domain.Event, error) {
	events, err := s.repo.FindAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("s.repo.FindAll -> %w", err)
	}

	return events, nil
}

func (s *EventService) GetEvent(ctx context.Context, id uint) (domain.Event, error) {
	event, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrEventNotFound) {
			return domain.Event{}, ErrEventNotFound
		}

		return domain.Event{}, fmt.Errorf("s.repo.FindByID -> %w", err)
	}

	return event, nil
}

// UpdateEvent mutates event fields other than the claim code, which never
// changes after creation. Toggling IsActive is the expected lifecycle
// operation; events are not deleted.
func (s *EventService) UpdateEvent(ctx context.Context, event domain.Event) (domain.Event, error) {
	existing, err := s.repo.FindByID(ctx, event.ID)
	if err != nil {
		if errors.Is(err, repository.ErrEventNotFound) {
			return domain.Event{}, ErrEventNotFound
		}

		return domain.Event{}, fmt.Errorf("s.repo.FindByID -> %w", err)
	}

	event.ClaimCode = existing.ClaimCode

	updated, err := s.repo.Update(ctx, event)
	if err != nil {
		return domain.Event{}, fmt.Errorf("s.repo.Update -> %w", err)
	}

	return updated, nil
}
