package repository

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/dnazarov/clientstore-api/internal/model"
	"github.com/jmoiron/sqlx"
)

// --- SQLite Implementation (in-memory mode for dev and tests) ---

type sqliteCityRepository struct {
	db *sqlx.DB
}

func (r *sqliteCityRepository) GetByID(ctx context.Context, id string) (*model.City, error) {
	var city model.City
	if err := r.db.GetContext(ctx, &city, "SELECT * FROM cities WHERE id = ?", id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return &city, nil
}

func (r *sqliteCityRepository) GetByCode(ctx context.Context, code string) (*model.City, error) {
	var city model.City
	if err := r.db.GetContext(ctx, &city, "SELECT * FROM cities WHERE code = ?", code); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return &city, nil
}

func (r *sqliteCityRepository) List(ctx context.Context, filter model.CityFilter) ([]model.City, error) {
	q := `SELECT * FROM cities WHERE 1=1`
	args := []any{}
	if filter.Active != nil {
		q += ` AND is_active = ?`
		args = append(args, *filter.Active)
	}
	if filter.Operational != nil {
		q += ` AND is_operational = ?`
		args = append(args, *filter.Operational)
	}
	q += ` ORDER BY is_operational DESC, is_active DESC, name ASC`

	var cities []model.City
	if err := r.db.SelectContext(ctx, &cities, q, args...); err != nil {
		return nil, err
	}
	return cities, nil
}

func (r *sqliteCityRepository) Insert(ctx context.Context, city model.City) error {
	_, err := r.db.NamedExecContext(ctx, `INSERT INTO cities `+cityInsertColumns, city)
	return err
}

func (r *sqliteCityRepository) Update(ctx context.Context, city model.City) error {
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

func (r *sqliteCityRepository) SetDeleted(ctx context.Context, id string, eventSequence, version int64, syncedAt time.Time) error {
	_, err := r.db.ExecContext(ctx, `
		UPDATE cities SET
			is_active = 0,
			is_operational = 0,
			event_sequence = ?,
			version = ?,
			last_sync_at = ?
		WHERE id = ?`, eventSequence, version, syncedAt, id)
	return err
}

func (r *sqliteCityRepository) SetActive(ctx context.Context, id string, active bool, eventSequence, version int64, syncedAt time.Time) error {
	_, err := r.db.ExecContext(ctx, `
		UPDATE cities SET
			is_active = ?,
			event_sequence = ?,
			version = ?,
			last_sync_at = ?
		WHERE id = ?`, active, eventSequence, version, syncedAt, id)
	return err
}

func (r *sqliteCityRepository) Count(ctx context.Context) (int64, error) {
	var count int64
	if err := r.db.GetContext(ctx, &count, "SELECT COUNT(*) FROM cities"); err != nil {
		return 0, err
	}
	return count, nil
}

type sqliteMappingRepository struct {
	db *sqlx.DB
}

func (r *sqliteMappingRepository) Insert(ctx context.Context, m model.ClientRiderMapping) error {
	_, err := r.db.NamedExecContext(ctx, `INSERT INTO client_rider_mappings `+mappingInsertColumns, m)
	return err
}

func (r *sqliteMappingRepository) getOne(ctx context.Context, q string, args ...any) (*model.ClientRiderMapping, error) {
	var m model.ClientRiderMapping
	if err := r.db.GetContext(ctx, &m, q, args...); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return &m, nil
}

func (r *sqliteMappingRepository) GetByID(ctx context.Context, id string) (*model.ClientRiderMapping, error) {
	return r.getOne(ctx, "SELECT * FROM client_rider_mappings WHERE id = ?", id)
}

func (r *sqliteMappingRepository) GetByClientRiderID(ctx context.Context, clientRiderID string) (*model.ClientRiderMapping, error) {
	return r.getOne(ctx, "SELECT * FROM client_rider_mappings WHERE client_rider_id = ?", clientRiderID)
}

func (r *sqliteMappingRepository) GetByClientAndLabel(ctx context.Context, clientID, clientRiderID string) (*model.ClientRiderMapping, error) {
	return r.getOne(ctx,
		"SELECT * FROM client_rider_mappings WHERE client_id = ? AND client_rider_id = ?",
		clientID, clientRiderID)
}

func (r *sqliteMappingRepository) GetByClientAndPlatform(ctx context.Context, clientID string, platformRiderID model.PlatformRiderID) (*model.ClientRiderMapping, error) {
	return r.getOne(ctx,
		"SELECT * FROM client_rider_mappings WHERE client_id = ? AND platform_rider_id = ?",
		clientID, platformRiderID)
}

func (r *sqliteMappingRepository) ListByClient(ctx context.Context, clientID string) ([]model.ClientRiderMapping, error) {
	var ms []model.ClientRiderMapping
	err := r.db.SelectContext(ctx, &ms,
		"SELECT * FROM client_rider_mappings WHERE client_id = ? ORDER BY created_at DESC", clientID)
	if err != nil {
		return nil, err
	}
	return ms, nil
}

func (r *sqliteMappingRepository) ListByPlatformRider(ctx context.Context, platformRiderID model.PlatformRiderID) ([]model.ClientRiderMapping, error) {
	var ms []model.ClientRiderMapping
	err := r.db.SelectContext(ctx, &ms,
		"SELECT * FROM client_rider_mappings WHERE platform_rider_id = ? ORDER BY created_at DESC", platformRiderID)
	if err != nil {
		return nil, err
	}
	return ms, nil
}

func (r *sqliteMappingRepository) UpdateLabel(ctx context.Context, id, clientRiderID string, notes *string, updatedAt time.Time) error {
	_, err := r.db.ExecContext(ctx, `
		UPDATE client_rider_mappings SET
			client_rider_id = ?,
			notes = COALESCE(?, notes),
			updated_at = ?
		WHERE id = ?`, clientRiderID, notes, updatedAt, id)
	return err
}

func (r *sqliteMappingRepository) Verify(ctx context.Context, id, status, verifiedBy string, verifiedAt time.Time) error {
	_, err := r.db.ExecContext(ctx, `
		UPDATE client_rider_mappings SET
			verification_status = ?,
			verified_by = ?,
			verified_at = ?,
			updated_at = ?
		WHERE id = ?`, status, verifiedBy, verifiedAt, verifiedAt, id)
	return err
}

func (r *sqliteMappingRepository) Deactivate(ctx context.Context, id, reason string, at time.Time) error {
	_, err := r.db.ExecContext(ctx, `
		UPDATE client_rider_mappings SET
			is_active = 0,
			deactivation_reason = ?,
			deactivation_date = ?,
			updated_at = ?
		WHERE id = ?`, reason, at, at, id)
	return err
}

type sqliteClientRepository struct {
	db *sqlx.DB
}

func (r *sqliteClientRepository) GetByID(ctx context.Context, id string) (*model.Client, error) {
	var c model.Client
	if err := r.db.GetContext(ctx, &c, "SELECT * FROM clients WHERE id = ?", id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return &c, nil
}

func (r *sqliteClientRepository) Exists(ctx context.Context, id string) (bool, error) {
	var count int
	if err := r.db.GetContext(ctx, &count, "SELECT COUNT(*) FROM clients WHERE id = ?", id); err != nil {
		return false, err
	}
	return count > 0, nil
}

func (r *sqliteClientRepository) Insert(ctx context.Context, c model.Client) error {
	_, err := r.db.NamedExecContext(ctx, `
		INSERT INTO clients (id, name, is_active, created_at)
		VALUES (:id, :name, :is_active, :created_at)`, c)
	return err
}
