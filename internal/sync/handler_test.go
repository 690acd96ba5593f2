package sync

import (
	"context"
	"testing"
	"time"

	"github.com/dnazarov/clientstore-api/internal/config"
	"github.com/dnazarov/clientstore-api/internal/database"
	"github.com/dnazarov/clientstore-api/internal/model"
	"github.com/dnazarov/clientstore-api/internal/repository"
	"github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/database/sqlite3"
	_ "github.com/golang-migrate/migrate/v4/source/file"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func setupHandler(t *testing.T) (*Handler, repository.CityRepository, func()) {
	cfg := config.DBConfig{Type: config.DBTypeMemory}
	db, err := database.Connect(context.Background(), cfg)
	require.NoError(t, err)
	db.SetMaxOpenConns(1)

	driver, err := sqlite3.WithInstance(db.DB, &sqlite3.Config{})
	require.NoError(t, err)

	m, err := migrate.NewWithDatabaseInstance(
		"file://../../migrations/sqlite",
		"sqlite3",
		driver,
	)
	require.NoError(t, err)
	if err := m.Up(); err != nil && err != migrate.ErrNoChange {
		require.NoError(t, err)
	}

	repos := repository.NewRepositories(db, config.DBTypeMemory)
	handler := NewHandler(repos.City, zap.NewNop())

	return handler, repos.City, func() { db.Close() }
}

func createdEvent(cityID string, seq int64) model.CityEvent {
	return model.CityEvent{
		Type:          model.CityCreated,
		CityID:        cityID,
		EventID:       "evt-" + cityID + "-created",
		EventSequence: seq,
		Timestamp:     time.Now().UTC(),
		Version:       1,
		Data: &model.CityEventData{
			ID:            cityID,
			Name:          "Delhi",
			DisplayName:   "Delhi NCR",
			Code:          "DEL",
			State:         "Delhi",
			Country:       "India",
			Timezone:      "Asia/Kolkata",
			Latitude:      28.7041,
			Longitude:     77.1025,
			IsActive:      true,
			IsOperational: true,
			Version:       1,
		},
	}
}

func updatedEvent(cityID string, seq, version int64, name string) model.CityEvent {
	e := createdEvent(cityID, seq)
	e.Type = model.CityUpdated
	e.EventID = "evt-" + cityID + "-updated"
	e.Version = version
	e.Data.Name = name
	e.Data.Version = version
	return e
}

func TestHandler_CreatedIsIdempotent(t *testing.T) {
	handler, cities, cleanup := setupHandler(t)
	defer cleanup()
	ctx := context.Background()

	event := createdEvent("city-1", 1)

	res, err := handler.Apply(ctx, event)
	require.NoError(t, err)
	assert.True(t, res.Success)
	assert.Equal(t, ActionCreated, res.Action)

	// Re-delivery of the same event leaves exactly one row.
	res, err = handler.Apply(ctx, event)
	require.NoError(t, err)
	assert.True(t, res.Success)
	assert.Equal(t, ActionSkipped, res.Action)

	count, err := cities.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(1), count)
}

func TestHandler_UpdatedCreatesMissingRow(t *testing.T) {
	handler, cities, cleanup := setupHandler(t)
	defer cleanup()
	ctx := context.Background()

	res, err := handler.Apply(ctx, updatedEvent("city-1", 3, 2, "Delhi"))
	require.NoError(t, err)
	assert.True(t, res.Success)
	assert.Equal(t, ActionCreated, res.Action)

	got, err := cities.GetByID(ctx, "city-1")
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, "Delhi", got.Name)
	assert.Equal(t, int64(3), got.EventSequence)
	assert.Equal(t, int64(2), got.Version)
}

func TestHandler_UpdatedOverwritesSnapshot(t *testing.T) {
	handler, cities, cleanup := setupHandler(t)
	defer cleanup()
	ctx := context.Background()

	_, err := handler.Apply(ctx, createdEvent("city-1", 1))
	require.NoError(t, err)

	res, err := handler.Apply(ctx, updatedEvent("city-1", 2, 2, "New Delhi"))
	require.NoError(t, err)
	assert.Equal(t, ActionUpdated, res.Action)

	got, err := cities.GetByID(ctx, "city-1")
	require.NoError(t, err)
	assert.Equal(t, "New Delhi", got.Name)
	assert.Equal(t, int64(2), got.EventSequence)
}

func TestHandler_StaleUpdateRejected(t *testing.T) {
	handler, cities, cleanup := setupHandler(t)
	defer cleanup()
	ctx := context.Background()

	_, err := handler.Apply(ctx, updatedEvent("city-1", 5, 3, "New Delhi"))
	require.NoError(t, err)

	// An event sequenced before the stored row must not overwrite it.
	res, err := handler.Apply(ctx, updatedEvent("city-1", 2, 2, "Old Delhi"))
	require.NoError(t, err)
	assert.True(t, res.Success)
	assert.Equal(t, ActionStale, res.Action)

	got, err := cities.GetByID(ctx, "city-1")
	require.NoError(t, err)
	assert.Equal(t, "New Delhi", got.Name)
	assert.Equal(t, int64(5), got.EventSequence)
}

func TestHandler_DeletedIsSoft(t *testing.T) {
	handler, cities, cleanup := setupHandler(t)
	defer cleanup()
	ctx := context.Background()

	_, err := handler.Apply(ctx, createdEvent("city-1", 1))
	require.NoError(t, err)

	res, err := handler.Apply(ctx, model.CityEvent{
		Type:          model.CityDeleted,
		CityID:        "city-1",
		EventID:       "evt-del",
		EventSequence: 2,
		Timestamp:     time.Now().UTC(),
		Version:       2,
	})
	require.NoError(t, err)
	assert.Equal(t, ActionDeleted, res.Action)

	got, err := cities.GetByID(ctx, "city-1")
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.False(t, got.IsActive)
	assert.False(t, got.IsOperational)

	// The row is retained.
	count, err := cities.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(1), count)
}

func TestHandler_DeletedMissingRowSkipped(t *testing.T) {
	handler, _, cleanup := setupHandler(t)
	defer cleanup()

	res, err := handler.Apply(context.Background(), model.CityEvent{
		Type:          model.CityDeleted,
		CityID:        "city-unknown",
		EventID:       "evt-del",
		EventSequence: 9,
		Timestamp:     time.Now().UTC(),
	})
	require.NoError(t, err)
	assert.True(t, res.Success)
	assert.Equal(t, ActionSkipped, res.Action)
}

func TestHandler_ActivationLeavesOperationalAlone(t *testing.T) {
	handler, cities, cleanup := setupHandler(t)
	defer cleanup()
	ctx := context.Background()

	_, err := handler.Apply(ctx, createdEvent("city-1", 1))
	require.NoError(t, err)

	_, err = handler.Apply(ctx, model.CityEvent{
		Type:          model.CityDeleted,
		CityID:        "city-1",
		EventID:       "evt-del",
		EventSequence: 2,
		Version:       2,
		Timestamp:     time.Now().UTC(),
	})
	require.NoError(t, err)

	res, err := handler.Apply(ctx, model.CityEvent{
		Type:          model.CityActivated,
		CityID:        "city-1",
		EventID:       "evt-act",
		EventSequence: 3,
		Version:       3,
		Timestamp:     time.Now().UTC(),
	})
	require.NoError(t, err)
	assert.Equal(t, ActionStatusChanged, res.Action)

	got, err := cities.GetByID(ctx, "city-1")
	require.NoError(t, err)
	assert.True(t, got.IsActive)
	// Activation flips isActive only; the operational flag stays cleared.
	assert.False(t, got.IsOperational)
}

func TestHandler_DeactivationClearsActiveOnly(t *testing.T) {
	handler, cities, cleanup := setupHandler(t)
	defer cleanup()
	ctx := context.Background()

	_, err := handler.Apply(ctx, createdEvent("city-1", 1))
	require.NoError(t, err)

	res, err := handler.Apply(ctx, model.CityEvent{
		Type:          model.CityDeactivated,
		CityID:        "city-1",
		EventID:       "evt-deact",
		EventSequence: 2,
		Version:       2,
		Timestamp:     time.Now().UTC(),
	})
	require.NoError(t, err)
	assert.Equal(t, ActionStatusChanged, res.Action)

	got, err := cities.GetByID(ctx, "city-1")
	require.NoError(t, err)
	assert.False(t, got.IsActive)
	assert.True(t, got.IsOperational)
}

func TestHandler_StatusChangeRedeliverySkipped(t *testing.T) {
	handler, _, cleanup := setupHandler(t)
	defer cleanup()
	ctx := context.Background()

	_, err := handler.Apply(ctx, createdEvent("city-1", 1))
	require.NoError(t, err)

	event := model.CityEvent{
		Type:          model.CityDeactivated,
		CityID:        "city-1",
		EventID:       "evt-deact",
		EventSequence: 2,
		Version:       2,
		Timestamp:     time.Now().UTC(),
	}
	res, err := handler.Apply(ctx, event)
	require.NoError(t, err)
	assert.Equal(t, ActionStatusChanged, res.Action)

	res, err = handler.Apply(ctx, event)
	require.NoError(t, err)
	assert.Equal(t, ActionSkipped, res.Action)
}

func TestHandler_InvalidEvents(t *testing.T) {
	handler, _, cleanup := setupHandler(t)
	defer cleanup()
	ctx := context.Background()

	tests := []struct {
		name  string
		event model.CityEvent
	}{
		{
			name:  "missing cityId",
			event: model.CityEvent{Type: model.CityCreated, EventID: "evt-1"},
		},
		{
			name:  "missing eventId",
			event: model.CityEvent{Type: model.CityCreated, CityID: "city-1"},
		},
		{
			name:  "created without snapshot",
			event: model.CityEvent{Type: model.CityCreated, CityID: "city-1", EventID: "evt-1"},
		},
		{
			name:  "unknown type",
			event: model.CityEvent{Type: "RENAMED", CityID: "city-1", EventID: "evt-1"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res, err := handler.Apply(ctx, tt.event)
			require.Error(t, err)
			assert.ErrorIs(t, err, ErrInvalidEvent)
			assert.False(t, res.Success)
			assert.Equal(t, ActionError, res.Action)
			assert.NotEmpty(t, res.Error)
		})
	}
}
