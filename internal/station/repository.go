package station

import "context"

// Repository defines the interface for station catalog persistence.
type Repository interface {
	// List retrieves all stations in the catalog.
	List(ctx context.Context) ([]Station, error)

	// Exists reports whether a station with the given OPIS ID exists.
	Exists(ctx context.Context, opisID int64) (bool, error)

	// Create inserts a new station.
	// Returns ErrStationExists if the OPIS ID is already taken.
	Create(ctx context.Context, st *Station) error

	// CreateBatch inserts stations in bulk, silently skipping OPIS IDs
	// that already exist.
	CreateBatch(ctx context.Context, stations []Station) error

	// UpdatePrice sets the retail price for a station.
	// Returns ErrStationNotFound if the station doesn't exist.
	UpdatePrice(ctx context.Context, opisID int64, price float64) error
}
