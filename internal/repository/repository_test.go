package repository

import (
	"context"
	"testing"
	"time"

	"github.com/dnazarov/clientstore-api/internal/apierr"
	"github.com/dnazarov/clientstore-api/internal/config"
	"github.com/dnazarov/clientstore-api/internal/database"
	"github.com/dnazarov/clientstore-api/internal/model"
	"github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/database/sqlite3"
	_ "github.com/golang-migrate/migrate/v4/source/file"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupRepo(t *testing.T) (*Container, func()) {
	cfg := config.DBConfig{Type: config.DBTypeMemory}
	db, err := database.Connect(context.Background(), cfg)
	require.NoError(t, err)
	// Keep the FK pragma on the single connection the tests use.
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

	repos := NewRepositories(db, config.DBTypeMemory)

	cleanup := func() {
		db.Close()
	}

	return repos, cleanup
}

func testCity(id, code string) model.City {
	return model.City{
		ID:            id,
		Name:          "Delhi",
		DisplayName:   "Delhi NCR",
		Code:          code,
		State:         "Delhi",
		Country:       "India",
		Timezone:      "Asia/Kolkata",
		Latitude:      28.7041,
		Longitude:     77.1025,
		IsActive:      true,
		IsOperational: true,
		Version:       1,
		EventSequence: 1,
		LastSyncAt:    time.Now().UTC(),
	}
}

func TestCityRepository_InsertAndGet(t *testing.T) {
	repos, cleanup := setupRepo(t)
	defer cleanup()
	ctx := context.Background()

	city := testCity("city-1", "DEL")
	require.NoError(t, repos.City.Insert(ctx, city))

	got, err := repos.City.GetByID(ctx, "city-1")
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, "Delhi", got.Name)
	assert.Equal(t, int64(1), got.EventSequence)

	byCode, err := repos.City.GetByCode(ctx, "DEL")
	require.NoError(t, err)
	require.NotNil(t, byCode)
	assert.Equal(t, "city-1", byCode.ID)

	missing, err := repos.City.GetByID(ctx, "city-404")
	require.NoError(t, err)
	assert.Nil(t, missing)
}

func TestCityRepository_ListOrderingAndFilters(t *testing.T) {
	repos, cleanup := setupRepo(t)
	defer cleanup()
	ctx := context.Background()

	a := testCity("city-a", "AAA")
	a.Name = "Agra"
	a.IsOperational = false
	b := testCity("city-b", "BBB")
	b.Name = "Bhopal"
	c := testCity("city-c", "CCC")
	c.Name = "Chennai"
	c.IsActive = false
	c.IsOperational = false

	for _, city := range []model.City{a, b, c} {
		require.NoError(t, repos.City.Insert(ctx, city))
	}

	all, err := repos.City.List(ctx, model.CityFilter{})
	require.NoError(t, err)
	require.Len(t, all, 3)
	// Operational first, then active, then alphabetical.
	assert.Equal(t, "Bhopal", all[0].Name)
	assert.Equal(t, "Agra", all[1].Name)
	assert.Equal(t, "Chennai", all[2].Name)

	active := true
	onlyActive, err := repos.City.List(ctx, model.CityFilter{Active: &active})
	require.NoError(t, err)
	assert.Len(t, onlyActive, 2)

	operational := true
	onlyOperational, err := repos.City.List(ctx, model.CityFilter{Operational: &operational})
	require.NoError(t, err)
	require.Len(t, onlyOperational, 1)
	assert.Equal(t, "Bhopal", onlyOperational[0].Name)
}

func TestCityRepository_SetDeletedAndSetActive(t *testing.T) {
	repos, cleanup := setupRepo(t)
	defer cleanup()
	ctx := context.Background()

	require.NoError(t, repos.City.Insert(ctx, testCity("city-1", "DEL")))

	now := time.Now().UTC()
	require.NoError(t, repos.City.SetDeleted(ctx, "city-1", 5, 3, now))

	got, err := repos.City.GetByID(ctx, "city-1")
	require.NoError(t, err)
	assert.False(t, got.IsActive)
	assert.False(t, got.IsOperational)
	assert.Equal(t, int64(5), got.EventSequence)
	assert.Equal(t, int64(3), got.Version)

	require.NoError(t, repos.City.SetActive(ctx, "city-1", true, 6, 4, now))
	got, err = repos.City.GetByID(ctx, "city-1")
	require.NoError(t, err)
	assert.True(t, got.IsActive)
	// Reactivation must not touch the operational flag.
	assert.False(t, got.IsOperational)

	count, err := repos.City.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(1), count)
}

func testMapping(id, clientID, label string, platformID model.PlatformRiderID) model.ClientRiderMapping {
	now := time.Now().UTC()
	return model.ClientRiderMapping{
		ID:                 id,
		ClientID:           clientID,
		PlatformRiderID:    platformID,
		PublicRiderID:      "DEL-25-R000044",
		ClientRiderID:      label,
		IsActive:           true,
		VerificationStatus: model.VerificationPending,
		CreatedAt:          now,
		UpdatedAt:          now,
	}
}

func seedClient(t *testing.T, repos *Container, id string) {
	t.Helper()
	err := repos.Client.Insert(context.Background(), model.Client{
		ID:        id,
		Name:      "Acme Logistics",
		IsActive:  true,
		CreatedAt: time.Now().UTC(),
	})
	require.NoError(t, err)
}

func TestMappingRepository_UniqueConstraints(t *testing.T) {
	repos, cleanup := setupRepo(t)
	defer cleanup()
	ctx := context.Background()

	seedClient(t, repos, "client-1")
	seedClient(t, repos, "client-2")

	require.NoError(t, repos.Mapping.Insert(ctx, testMapping("m-1", "client-1", "EMP-001", "rider-uuid-1")))

	// Same label for a different client still violates the global constraint.
	err := repos.Mapping.Insert(ctx, testMapping("m-2", "client-2", "EMP-001", "rider-uuid-2"))
	require.Error(t, err)
	assert.True(t, apierr.IsUniqueViolation(err))

	// Same rider mapped twice to the same client violates the pair constraint.
	err = repos.Mapping.Insert(ctx, testMapping("m-3", "client-1", "EMP-002", "rider-uuid-1"))
	require.Error(t, err)
	assert.True(t, apierr.IsUniqueViolation(err))

	// Same rider for a different client is fine.
	require.NoError(t, repos.Mapping.Insert(ctx, testMapping("m-4", "client-2", "EMP-003", "rider-uuid-1")))
}

func TestMappingRepository_ForeignKey(t *testing.T) {
	repos, cleanup := setupRepo(t)
	defer cleanup()
	ctx := context.Background()

	err := repos.Mapping.Insert(ctx, testMapping("m-1", "client-missing", "EMP-001", "rider-uuid-1"))
	require.Error(t, err)
	assert.True(t, apierr.IsForeignKeyViolation(err))
}

func TestMappingRepository_Lifecycle(t *testing.T) {
	repos, cleanup := setupRepo(t)
	defer cleanup()
	ctx := context.Background()

	seedClient(t, repos, "client-1")
	require.NoError(t, repos.Mapping.Insert(ctx, testMapping("m-1", "client-1", "EMP-001", "rider-uuid-1")))

	byLabel, err := repos.Mapping.GetByClientRiderID(ctx, "EMP-001")
	require.NoError(t, err)
	require.NotNil(t, byLabel)
	assert.Equal(t, "m-1", byLabel.ID)

	byPair, err := repos.Mapping.GetByClientAndPlatform(ctx, "client-1", "rider-uuid-1")
	require.NoError(t, err)
	require.NotNil(t, byPair)

	now := time.Now().UTC()
	require.NoError(t, repos.Mapping.Verify(ctx, "m-1", model.VerificationVerified, "ops@acme", now))
	m, err := repos.Mapping.GetByID(ctx, "m-1")
	require.NoError(t, err)
	assert.Equal(t, model.VerificationVerified, m.VerificationStatus)
	require.NotNil(t, m.VerifiedBy)
	assert.Equal(t, "ops@acme", *m.VerifiedBy)

	require.NoError(t, repos.Mapping.Deactivate(ctx, "m-1", "contract ended", now))
	m, err = repos.Mapping.GetByID(ctx, "m-1")
	require.NoError(t, err)
	assert.False(t, m.IsActive)
	require.NotNil(t, m.DeactivationReason)
	assert.Equal(t, "contract ended", *m.DeactivationReason)

	// Deactivation never removes the row.
	byID, err := repos.Mapping.GetByID(ctx, "m-1")
	require.NoError(t, err)
	assert.NotNil(t, byID)
}
