package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/dnazarov/clientstore-api/internal/model"
	"github.com/jmoiron/sqlx"
)

// --- PostgreSQL Implementation ---

type pgCityRepository struct {
	db *sqlx.DB
}

func (r *pgCityRepository) GetByID(ctx context.Context, id string) (*model.City, error) {
	var city model.City
	if err := r.db.GetContext(ctx, &city, "SELECT * FROM cities WHERE id = $1", id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return &city, nil
}

func (r *pgCityRepository) GetByCode(ctx context.Context, code string) (*model.City, error) {
	var city model.City
	if err := r.db.GetContext(ctx, &city, "SELECT * FROM cities WHERE code = $1", code); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return &city, nil
}

func (r *pgCityRepository) List(ctx context.Context, filter model.CityFilter) ([]model.City, error) {
	q := `SELECT * FROM cities WHERE 1=1`
	args := []any{}
	if filter.Active != nil {
		args = append(args, *filter.Active)
		q += fmt.Sprintf(" AND is_active = $%d", len(args))
	}
	if filter.Operational != nil {
		args = append(args, *filter.Operational)
		q += fmt.Sprintf(" AND is_operational = $%d", len(args))
	}
	q += ` ORDER BY is_operational DESC, is_active DESC, name ASC`

	var cities []model.City
	if err := r.db.SelectContext(ctx, &cities, q, args...); err != nil {
		return nil, err
	}
	return cities, nil
}

const cityInsertColumns = `
	(id, name, display_name, code, state, country, timezone,
	 latitude, longitude, pin_code_range, region_code,
	 is_active, is_operational, launch_date, estimated_population,
	 market_potential, version, last_modified_by, event_sequence, last_sync_at)
	VALUES
	(:id, :name, :display_name, :code, :state, :country, :timezone,
	 :latitude, :longitude, :pin_code_range, :region_code,
	 :is_active, :is_operational, :launch_date, :estimated_population,
	 :market_potential, :version, :last_modified_by, :event_sequence, :last_sync_at)`

func (r *pgCityRepository) Insert(ctx context.Context, city model.City) error {
	_, err := r.db.NamedExecContext(ctx, `INSERT INTO cities `+cityInsertColumns, city)
	return err
}

func (r *pgCityRepository) Update(ctx context.Context, city model.City) error {
	_, err := r.db.NamedExecContext(ctx, `
		UPDATE cities SET
			name = :name,
			display_name = :display_name,
			code = :code,
			state = :state,
			country = :country,
			timezone = :timezone,
			latitude = :latitude,
			longitude = :longitude,
			pin_code_range = :pin_code_range,
			region_code = :region_code,
			is_active = :is_active,
			is_operational = :is_operational,
			launch_date = :launch_date,
			estimated_population = :estimated_population,
			market_potential = :market_potential,
			version = :version,
			last_modified_by = :last_modified_by,
			event_sequence = :event_sequence,
			last_sync_at = :last_sync_at
		WHERE id = :id`, city)
	return err
}

func (r *pgCityRepository) SetDeleted(ctx context.Context, id string, eventSequence, version int64, syncedAt time.Time) error {
	_, err := r.db.ExecContext(ctx, `
		UPDATE cities SET
			is_active = FALSE,
			is_operational = FALSE,
			event_sequence = $2,
			version = $3,
			last_sync_at = $4
		WHERE id = $1`, id, eventSequence, version, syncedAt)
	return err
}

func (r *pgCityRepository) SetActive(ctx context.Context, id string, active bool, eventSequence, version int64, syncedAt time.Time) error {
	_, err := r.db.ExecContext(ctx, `
		UPDATE cities SET
			is_active = $2,
			event_sequence = $3,
			version = $4,
			last_sync_at = $5
		WHERE id = $1`, id, active, eventSequence, version, syncedAt)
	return err
}

func (r *pgCityRepository) Count(ctx context.Context) (int64, error) {
	var count int64
	if err := r.db.GetContext(ctx, &count, "SELECT COUNT(*) FROM cities"); err != nil {
		return 0, err
	}
	return count, nil
}

type pgMappingRepository struct {
	db *sqlx.DB
}

const mappingInsertColumns = `
	(id, client_id, platform_rider_id, public_rider_id, client_rider_id,
	 notes, is_active, verification_status, verified_by, verified_at,
	 deactivation_reason, deactivation_date, created_at, updated_at)
	VALUES
	(:id, :client_id, :platform_rider_id, :public_rider_id, :client_rider_id,
	 :notes, :is_active, :verification_status, :verified_by, :verified_at,
	 :deactivation_reason, :deactivation_date, :created_at, :updated_at)`

func (r *pgMappingRepository) Insert(ctx context.Context, m model.ClientRiderMapping) error {
	_, err := r.db.NamedExecContext(ctx, `INSERT INTO client_rider_mappings `+mappingInsertColumns, m)
	return err
}

func (r *pgMappingRepository) getOne(ctx context.Context, q string, args ...any) (*model.ClientRiderMapping, error) {
	var m model.ClientRiderMapping
	if err := r.db.GetContext(ctx, &m, q, args...); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return &m, nil
}

func (r *pgMappingRepository) GetByID(ctx context.Context, id string) (*model.ClientRiderMapping, error) {
	return r.getOne(ctx, "SELECT * FROM client_rider_mappings WHERE id = $1", id)
}

func (r *pgMappingRepository) GetByClientRiderID(ctx context.Context, clientRiderID string) (*model.ClientRiderMapping, error) {
	return r.getOne(ctx, "SELECT * FROM client_rider_mappings WHERE client_rider_id = $1", clientRiderID)
}

func (r *pgMappingRepository) GetByClientAndLabel(ctx context.Context, clientID, clientRiderID string) (*model.ClientRiderMapping, error) {
	return r.getOne(ctx,
		"SELECT * FROM client_rider_mappings WHERE client_id = $1 AND client_rider_id = $2",
		clientID, clientRiderID)
}

func (r *pgMappingRepository) GetByClientAndPlatform(ctx context.Context, clientID string, platformRiderID model.PlatformRiderID) (*model.ClientRiderMapping, error) {
	return r.getOne(ctx,
		"SELECT * FROM client_rider_mappings WHERE client_id = $1 AND platform_rider_id = $2",
		clientID, platformRiderID)
}

func (r *pgMappingRepository) ListByClient(ctx context.Context, clientID string) ([]model.ClientRiderMapping, error) {
	var ms []model.ClientRiderMapping
	err := r.db.SelectContext(ctx, &ms,
		"SELECT * FROM client_rider_mappings WHERE client_id = $1 ORDER BY created_at DESC", clientID)
	if err != nil {
		return nil, err
	}
	return ms, nil
}

func (r *pgMappingRepository) ListByPlatformRider(ctx context.Context, platformRiderID model.PlatformRiderID) ([]model.ClientRiderMapping, error) {
	var ms []model.ClientRiderMapping
	err := r.db.SelectContext(ctx, &ms,
		"SELECT * FROM client_rider_mappings WHERE platform_rider_id = $1 ORDER BY created_at DESC", platformRiderID)
	if err != nil {
		return nil, err
	}
	return ms, nil
}

func (r *pgMappingRepository) UpdateLabel(ctx context.Context, id, clientRiderID string, notes *string, updatedAt time.Time) error {
	_, err := r.db.ExecContext(ctx, `
		UPDATE client_rider_mappings SET
			client_rider_id = $2,
			notes = COALESCE($3, notes),
			updated_at = $4
		WHERE id = $1`, id, clientRiderID, notes, updatedAt)
	return err
}

func (r *pgMappingRepository) Verify(ctx context.Context, id, status, verifiedBy string, verifiedAt time.Time) error {
	_, err := r.db.ExecContext(ctx, `
		UPDATE client_rider_mappings SET
			verification_status = $2,
			verified_by = $3,
			verified_at = $4,
			updated_at = $4
		WHERE id = $1`, id, status, verifiedBy, verifiedAt)
	return err
}

func (r *pgMappingRepository) Deactivate(ctx context.Context, id, reason string, at time.Time) error {
	_, err := r.db.ExecContext(ctx, `
		UPDATE client_rider_mappings SET
			is_active = FALSE,
			deactivation_reason = $2,
			deactivation_date = $3,
			updated_at = $3
		WHERE id = $1`, id, reason, at)
	return err
}

type pgClientRepository struct {
	db *sqlx.DB
}

func (r *pgClientRepository) GetByID(ctx context.Context, id string) (*model.Client, error) {
	var c model.Client
	if err := r.db.GetContext(ctx, &c, "SELECT * FROM clients WHERE id = $1", id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return &c, nil
}

func (r *pgClientRepository) Exists(ctx context.Context, id string) (bool, error) {
	var count int
	if err := r.db.GetContext(ctx, &count, "SELECT COUNT(*) FROM clients WHERE id = $1", id); err != nil {
		return false, err
	}
	return count > 0, nil
}

func (r *pgClientRepository) Insert(ctx context.Context, c model.Client) error {
	_, err := r.db.NamedExecContext(ctx, `
		INSERT INTO clients (id, name, is_active, created_at)
		VALUES (:id, :name, :is_active, :created_at)`, c)
	return err
}
