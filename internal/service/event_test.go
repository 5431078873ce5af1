package service_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/attendly/attendance-api/internal/domain"
	"github.com/attendly/attendance-api/internal/repository"
	"github.com/attendly/attendance-api/internal/service"
)

type fakeEventStore struct {
	nextID uint
	events map[uint]domain.Event
}

func newFakeEventStore() *fakeEventStore {
	return &fakeEventStore{events: make(map[uint]domain.Event)}
}

func (f *fakeEventStore) Create(_ context.Context, event domain.Event) (domain.Event, error) {
	for _, e := range f.events {
		if e.ClaimCode == event.ClaimCode {
			return domain.Event{}, repository.ErrClaimCodeExists
		}
	}

	f.nextID++
	event.ID = f.nextID
	f.events[event.ID] = event

	return event, nil
}

func (f *fakeEventStore) FindByID(_ context.Context, id uint) (domain.Event, error) {
	event, ok := f.events[id]
	if !ok {
		return domain.Event{}, repository.ErrEventNotFound
	}

	return event, nil
}

func (f *fakeEventStore) FindAll(_ context.Context) ([]domain.Event, error) {
	out := make([]domain.Event, 0, len(f.events))
	for _, e := range f.events {
		out = append(out, e)
	}

	return out, nil
}

func (f *fakeEventStore) Update(_ context.Context, event domain.Event) (domain.Event, error) {
	if _, ok := f.events[event.ID]; !ok {
		return domain.Event{}, repository.ErrEventNotFound
	}

	f.events[event.ID] = event

	return event, nil
}

func TestCreateEvent_NormalizesClaimCode(t *testing.T) {
	svc := service.NewEventService(newFakeEventStore())

	created, err := svc.CreateEvent(context.Background(), domain.Event{
		Name:      "GopherCon 2024",
		Date:      time.Date(2024, 6, 15, 9, 0, 0, 0, time.UTC),
		ClaimCode: " conf24 ",
	})

	require.NoError(t, err)
	assert.Equal(t, "CONF24", created.ClaimCode)
	assert.True(t, created.IsActive)
}

func TestCreateEvent_DuplicateClaimCode(t *testing.T) {
	svc := service.NewEventService(newFakeEventStore())

	_, err := svc.CreateEvent(context.Background(), domain.Event{Name: "First", ClaimCode: "CONF24"})
	require.NoError(t, err)

	_, err = svc.CreateEvent(context.Background(), domain.Event{Name: "Second", ClaimCode: "conf24"})

	assert.ErrorIs(t, err, service.ErrClaimCodeExists)
}

func TestUpdateEvent_ClaimCodeImmutable(t *testing.T) {
	store := newFakeEventStore()
	svc := service.NewEventService(store)

	created, err := svc.CreateEvent(context.Background(), domain.Event{Name: "GopherCon 2024", ClaimCode: "CONF24"})
	require.NoError(t, err)

	created.Name = "GopherCon 2024 (updated)"
	created.ClaimCode = "HACKED"
	created.IsActive = false

	updated, err := svc.UpdateEvent(context.Background(), created)

	require.NoError(t, err)
	assert.Equal(t, "CONF24", updated.ClaimCode)
	assert.Equal(t, "GopherCon 2024 (updated)", updated.Name)
	assert.False(t, updated.IsActive)
}

func TestUpdateEvent_NotFound(t *testing.T) {
	svc := service.NewEventService(newFakeEventStore())

	_, err := svc.UpdateEvent(context.Background(), domain.Event{ID: 42})

	assert.ErrorIs(t, err, service.ErrEventNotFound)
}
