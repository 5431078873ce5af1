package repository

import (
	"context"
	"fmt"

	"github.com/attendly/attendance-api/internal/domain"
	"github.com/attendly/attendance-api/internal/repository/dao"
)

var (
	ErrEventNotFound   = dao.ErrEventNotFound
	ErrClaimCodeExists = dao.ErrClaimCodeExists
)

type EventDAO interface {
	Insert(ctx context.Context, event dao.Event) (dao.Event, error)
	FindByClaimCode(ctx context.Context, code string) (dao.Event, int64, error)
	FindByID(ctx context.Context, id uint) (dao.Event, error)
	FindAll(ctx context.Context) ([]dao.Event, error)
	CountClaims(ctx context.Context, eventID uint) (int64, error)
	Update(ctx context.Context, event dao.Event) (dao.Event, error)
}

type EventRepository struct {
	dao EventDAO
}

func NewEventRepository(dao EventDAO) *EventRepository {
	return &EventRepository{
		dao: dao,
	}
}

func (r *EventRepository) Create(ctx context.Context, event domain.Event) (domain.Event, error) {
	created, err := r.dao.Insert(ctx, r.domainToDao(event))
	if err != nil {
		return domain.Event{}, fmt.Errorf("r.dao.Insert -> %w", err)
	}

	return r.daoToDomain(created), nil
}

// FindByClaimCode resolves a claim code (case-insensitively) to an event
// with its current claim count populated.
func (r *EventRepository) FindByClaimCode(ctx context.Context, code string) (domain.Event, error) {
	found, count, err := r.dao.FindByClaimCode(ctx, code)
	if err != nil {
		return domain.Event{}, fmt.Errorf("r.dao.FindByClaimCode -> %w", err)
	}

	event := r.daoToDomain(found)
	event.ClaimCount = count

	return event, nil
}

func (r *EventRepository) FindByID(ctx context.Context, id uint) (domain.Event, error) {
	found, err := r.dao.FindByID(ctx, id)
	if err != nil {
		return domain.Event{}, fmt.Errorf("r.dao.FindByID -> %w", err)
	}

	return r.daoToDomain(found), nil
}

func (r *EventRepository) FindAll(ctx context.Context) ([]domain.Event, error) {
	found, err := r.dao.FindAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("r.dao.FindAll -> %w", err)
	}

	events := make([]domain.Event, 0, len(found))
	for _, e := range found {
		event := r.daoToDomain(e)

		count, err := r.dao.CountClaims(ctx, e.ID)
		if err != nil {
			return nil, fmt.Errorf("r.dao.CountClaims -> %w", err)
		}
		event.ClaimCount = count

		events = append(events, event)
	}

	return events, nil
}

func (r *EventRepository) Update(ctx context.Context, event domain.Event) (domain.Event, error) {
	updated, err := r.dao.Update(ctx, r.domainToDao(event))
	if err != nil {
		return domain.Event{}, fmt.Errorf("r.dao.Update -> %w", err)
	}

	return r.daoToDomain(updated), nil
}

func (r *EventRepository) domainToDao(e domain.Event) dao.Event {
	return dao.Event{
		ID:          e.ID,
		Name:        e.Name,
		Description: e.Description,
		Date:        e.Date,
		Location:    e.Location,
		ClaimCode:   e.ClaimCode,
		IsActive:    e.IsActive,
		MaxSupply:   e.MaxSupply,
		ImageURL:    e.ImageURL,
		CreatedAt:   e.CreatedAt,
		UpdatedAt:   e.UpdatedAt,
	}
}

func (r *EventRepository) daoToDomain(e dao.Event) domain.Event {
	return domain.Event{
		ID:          e.ID,
		Name:        e.Name,
		Description: e.Description,
		Date:        e.Date,
		Location:    e.Location,
		ClaimCode:   e.ClaimCode,
		IsActive:    e.IsActive,
		MaxSupply:   e.MaxSupply,
		ImageURL:    e.ImageURL,
		CreatedAt:   e.CreatedAt,
		UpdatedAt:   e.UpdatedAt,
	}
}
