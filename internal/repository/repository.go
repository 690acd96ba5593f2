package repository

import (
	"context"
	"time"

	"github.com/dnazarov/clientstore-api/internal/config"
	"github.com/dnazarov/clientstore-api/internal/model"
	"github.com/jmoiron/sqlx"
)

// CityRepository defines operations on the city replica table. Writes are
// owned exclusively by the event sync handler.
type CityRepository interface {
	GetByID(ctx context.Context, id string) (*model.City, error)
	GetByCode(ctx context.Context, code string) (*model.City, error)
	List(ctx context.Context, filter model.CityFilter) ([]model.City, error)
	Insert(ctx context.Context, city model.City) error
	Update(ctx context.Context, city model.City) error
	SetDeleted(ctx context.Context, id string, eventSequence, version int64, syncedAt time.Time) error
	SetActive(ctx context.Context, id string, active bool, eventSequence, version int64, syncedAt time.Time) error
	Count(ctx context.Context) (int64, error)
}

// MappingRepository defines operations on client-rider mappings.
type MappingRepository interface {
	Insert(ctx context.Context, m model.ClientRiderMapping) error
	GetByID(ctx context.Context, id string) (*model.ClientRiderMapping, error)
	GetByClientRiderID(ctx context.Context, clientRiderID string) (*model.ClientRiderMapping, error)
	GetByClientAndLabel(ctx context.Context, clientID, clientRiderID string) (*model.ClientRiderMapping, error)
	GetByClientAndPlatform(ctx context.Context, clientID string, platformRiderID model.PlatformRiderID) (*model.ClientRiderMapping, error)
	ListByClient(ctx context.Context, clientID string) ([]model.ClientRiderMapping, error)
	ListByPlatformRider(ctx context.Context, platformRiderID model.PlatformRiderID) ([]model.ClientRiderMapping, error)
	UpdateLabel(ctx context.Context, id, clientRiderID string, notes *string, updatedAt time.Time) error
	Verify(ctx context.Context, id, status, verifiedBy string, verifiedAt time.Time) error
	Deactivate(ctx context.Context, id, reason string, at time.Time) error
}

// ClientRepository defines operations on clients.
type ClientRepository interface {
	GetByID(ctx context.Context, id string) (*model.Client, error)
	Exists(ctx context.Context, id string) (bool, error)
	Insert(ctx context.Context, c model.Client) error
}

// Container holds all repositories
type Container struct {
	City    CityRepository
	Mapping MappingRepository
	Client  ClientRepository
}

// NewRepositories creates repository implementations based on DB type
func NewRepositories(db *sqlx.DB, dbType config.DBType) *Container {
	if dbType == config.DBTypePostgreSQL {
		return &Container{
			City:    &pgCityRepository{db: db},
			Mapping: &pgMappingRepository{db: db},
			Client:  &pgClientRepository{db: db},
		}
	}

	// Default to SQLite
	return &Container{
		City:    &sqliteCityRepository{db: db},
		Mapping: &sqliteMappingRepository{db: db},
		Client:  &sqliteClientRepository{db: db},
	}
}
