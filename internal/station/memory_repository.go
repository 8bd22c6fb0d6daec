package station

import (
	"context"
	"sort"
	"sync"
)

// InMemoryRepository is an in-memory implementation of Repository for
// tests and local development.
type InMemoryRepository struct {
	mu       sync.RWMutex
	stations map[int64]Station
}

// NewInMemoryRepository creates a new in-memory station repository.
func NewInMemoryRepository() *InMemoryRepository {
	return &InMemoryRepository{
		stations: make(map[int64]Station),
	}
}

// List retrieves all stations ordered by OPIS ID.
func (r *InMemoryRepository) List(_ context.Context) ([]Station, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	stations := make([]Station, 0, len(r.stations))
	for _, st := range r.stations {
		stations = append(stations, st)
	}
	sort.Slice(stations, func(i, j int) bool {
		return stations[i].OPISID < stations[j].OPISID
	})
	return stations, nil
}

// Exists reports whether a station with the given OPIS ID exists.
func (r *InMemoryRepository) Exists(_ context.Context, opisID int64) (bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	_, ok := r.stations[opisID]
	return ok, nil
}

// Create inserts a new station.
func (r *InMemoryRepository) Create(_ context.Context, st *Station) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.stations[st.OPISID]; ok {
		return ErrStationExists
	}
	r.stations[st.OPISID] = *st
	return nil
}

// CreateBatch inserts stations in bulk, skipping OPIS IDs that already exist.
func (r *InMemoryRepository) CreateBatch(_ context.Context, stations []Station) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, st := range stations {
		if _, ok := r.stations[st.OPISID]; ok {
			continue
		}
		r.stations[st.OPISID] = st
	}
	return nil
}

// UpdatePrice sets the retail price for a station.
func (r *InMemoryRepository) UpdatePrice(_ context.Context, opisID int64, price float64) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	st, ok := r.stations[opisID]
	if !ok {
		return ErrStationNotFound
	}
	st.RetailPrice = price
	r.stations[opisID] = st
	return nil
}
