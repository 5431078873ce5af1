package dao

import (
	"context"
	"errors"
	"strings"
	"time"

	"gorm.io/gorm"

	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5/pgconn"
)

var (
	ErrEventNotFound      = errors.New("event not found")
	ErrClaimCodeExists    = errors.New("claim code already exists")
	ErrClaimCodeImmutable = errors.New("claim code cannot be changed")
)

type Event struct {
	ID uint `gorm:"primaryKey"`

	Name        string `gorm:"not null"`
	Description string
	Date        time.Time `gorm:"not null"`
	Location    string

	ClaimCode string `gorm:"unique;not null"`
	IsActive  bool   `gorm:"not null;default:true"`
	MaxSupply *int
	ImageURL  string

	CreatedAt time.Time `gorm:"not null"`
	UpdatedAt time.Time `gorm:"not null"`
}

type EventDAO struct {
	db *gorm.DB
}

func NewEventDAO(db *gorm.DB) *EventDAO {
	return &EventDAO{
		db: db,
	}
}

func (d *EventDAO) Insert(ctx context.Context, event Event) (Event, error) {
	event.ClaimCode = strings.ToUpper(event.ClaimCode)

	result := d.db.WithContext(ctx).Create(&event)
	if result.Error != nil {
		var err *pgconn.PgError
		if errors.As(result.Error, &err) &&
			err.Code == pgerrcode.UniqueViolation &&
			strings.Contains(err.Message, `unique constraint "uni_events_claim_code"`) {
			return Event{}, ErrClaimCodeExists
		}

		return Event{}, result.Error
	}

	return event, nil
}

// FindByClaimCode looks up an event by its claim code, case-insensitively,
// and returns the current claim count alongside it.
func (d *EventDAO) FindByClaimCode(ctx context.Context, code string) (Event, int64, error) {
	var event Event

	result := d.db.WithContext(ctx).First(&event, "claim_code = ?", strings.ToUpper(code))
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return Event{}, 0, ErrEventNotFound
		}

		return Event{}, 0, result.Error
	}

	var count int64
	if err := d.db.WithContext(ctx).Model(&Claim{}).Where("event_id = ?", event.ID).Count(&count).Error; err != nil {
		return Event{}, 0, err
	}

	return event, count, nil
}

func (d *EventDAO) FindByID(ctx context.Context, id uint) (Event, error) {
	var event Event

	result := d.db.WithContext(ctx).First(&event, id)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return Event{}, ErrEventNotFound
		}

		return Event{}, result.Error
	}

	return event, nil
}

func (d *EventDAO) FindAll(ctx context.Context) ([]Event, error) {
	var events []Event

	result := d.db.WithContext(ctx).Order("date DESC").Find(&events)
	if result.Error != nil {
		return nil, result.Error
	}

	return events, nil
}

func (d *EventDAO) CountClaims(ctx context.Context, eventID uint) (int64, error) {
	var count int64

	result := d.db.WithContext(ctx).Model(&Claim{}).Where("event_id = ?", eventID).Count(&count)
	if result.Error != nil {
		return 0, result.Error
	}

	return count, nil
}

// Update persists mutable event fields. The claim code is immutable by
// contract and is never written here.
func (d *EventDAO) Update(ctx context.Context, event Event) (Event, error) {
	updates := map[string]interface{}{
		"name":        event.Name,
		"description": event.Description,
		"date":        event.Date,
		"location":    event.Location,
		"is_active":   event.IsActive,
		"max_supply":  event.MaxSupply,
		"image_url":   event.ImageURL,
	}

	result := d.db.WithContext(ctx).Model(&Event{}).Where("id = ?", event.ID).Updates(updates)
	if result.Error != nil {
		return Event{}, result.Error
	}
	if result.RowsAffected == 0 {
		return Event{}, ErrEventNotFound
	}

	return d.FindByID(ctx, event.ID)
}
