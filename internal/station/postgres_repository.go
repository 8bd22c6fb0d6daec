package station

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

// PostgresRepository is a PostgreSQL implementation of Repository.
type PostgresRepository struct {
	pool *pgxpool.Pool
}

// NewPostgresRepository creates a new PostgreSQL station repository.
func NewPostgresRepository(pool *pgxpool.Pool) *PostgresRepository {
	return &PostgresRepository{pool: pool}
}

// List retrieves all stations in the catalog.
func (r *PostgresRepository) List(ctx context.Context) ([]Station, error) {
	query := `
		SELECT
			opis_id, name, address, city, state,
			rack_id, retail_price, lat, lon
		FROM fuel_stations
		ORDER BY opis_id
	`

	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var stations []Station
	for rows.Next() {
		var st Station
		err := rows.Scan(
			&st.OPISID,
			&st.Name,
			&st.Address,
			&st.City,
			&st.State,
			&st.RackID,
			&st.RetailPrice,
			&st.Coordinate.Lat,
			&st.Coordinate.Lon,
		)
		if err != nil {
			return nil, err
		}
		stations = append(stations, st)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return stations, nil
}

// Exists reports whether a station with the given OPIS ID exists.
func (r *PostgresRepository) Exists(ctx context.Context, opisID int64) (bool, error) {
	query := `SELECT EXISTS (SELECT 1 FROM fuel_stations WHERE opis_id = $1)`

	var exists bool
	if err := r.pool.QueryRow(ctx, query, opisID).Scan(&exists); err != nil {
		return false, err
	}
	return exists, nil
}

// Create inserts a new station.
func (r *PostgresRepository) Create(ctx context.Context, st *Station) error {
	query := `
		INSERT INTO fuel_stations (
			opis_id, name, address, city, state,
			rack_id, retail_price, lat, lon
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	`

	_, err := r.pool.Exec(ctx, query,
		st.OPISID,
		st.Name,
		st.Address,
		st.City,
		st.State,
		st.RackID,
		st.RetailPrice,
		st.Coordinate.Lat,
		st.Coordinate.Lon,
	)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return ErrStationExists
		}
		return err
	}
	return nil
}

// CreateBatch inserts stations in bulk using a single round trip. Existing
// OPIS IDs are left untouched.
func (r *PostgresRepository) CreateBatch(ctx context.Context, stations []Station) error {
	if len(stations) == 0 {
		return nil
	}

	query := `
		INSERT INTO fuel_stations (
			opis_id, name, address, city, state,
			rack_id, retail_price, lat, lon
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		ON CONFLICT (opis_id) DO NOTHING
	`

	batch := &pgx.Batch{}
	for _, st := range stations {
		batch.Queue(query,
			st.OPISID,
			st.Name,
			st.Address,
			st.City,
			st.State,
			st.RackID,
			st.RetailPrice,
			st.Coordinate.Lat,
			st.Coordinate.Lon,
		)
	}

	results := r.pool.SendBatch(ctx, batch)
	defer results.Close()

	for range stations {
		if _, err := results.Exec(); err != nil {
			return err
		}
	}
	return results.Close()
}

// UpdatePrice sets the retail price for a station.
func (r *PostgresRepository) UpdatePrice(ctx context.Context, opisID int64, price float64) error {
	query := `UPDATE fuel_stations SET retail_price = $2 WHERE opis_id = $1`

	tag, err := r.pool.Exec(ctx, query, opisID, price)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrStationNotFound
	}
	return nil
}

// Get retrieves a single station by OPIS ID.
func (r *PostgresRepository) Get(ctx context.Context, opisID int64) (*Station, error) {
	query := `
		SELECT
			opis_id, name, address, city, state,
			rack_id, retail_price, lat, lon
		FROM fuel_stations
		WHERE opis_id = $1
	`

	var st Station
	err := r.pool.QueryRow(ctx, query, opisID).Scan(
		&st.OPISID,
		&st.Name,
		&st.Address,
		&st.City,
		&st.State,
		&st.RackID,
		&st.RetailPrice,
		&st.Coordinate.Lat,
		&st.Coordinate.Lon,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrStationNotFound
		}
		return nil, err
	}

	return &st, nil
}
