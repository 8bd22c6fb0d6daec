package station

import (
	"context"
	"sync"
	"time"

	"github.com/rs/zerolog"
)

// ServiceConfig holds configuration for the catalog service.
type ServiceConfig struct {
	// Repository is the station persistence layer.
	Repository Repository

	// Logger for service operations.
	Logger zerolog.Logger

	// SnapshotTTL is how long a catalog snapshot stays fresh (default: 5 minutes).
	SnapshotTTL time.Duration
}

// Service hands out read-only catalog snapshots. Planning calls receive an
// immutable copy so a concurrent refresh can never expose a partially
// mutated catalog.
type Service struct {
	repo        Repository
	logger      zerolog.Logger
	snapshotTTL time.Duration

	mu        sync.RWMutex
	snapshot  []Station
	fetchedAt time.Time
}

// NewService creates a new catalog service.
func NewService(cfg ServiceConfig) *Service {
	snapshotTTL := cfg.SnapshotTTL
	if snapshotTTL == 0 {
		snapshotTTL = 5 * time.Minute
	}

	return &Service{
		repo:        cfg.Repository,
		logger:      cfg.Logger,
		snapshotTTL: snapshotTTL,
	}
}

// Snapshot returns the current catalog as an immutable slice. The snapshot
// is cached for SnapshotTTL; callers must not mutate the returned slice.
func (s *Service) Snapshot(ctx context.Context) ([]Station, error) {
	s.mu.RLock()
	if s.snapshot != nil && time.Since(s.fetchedAt) < s.snapshotTTL {
		snapshot := s.snapshot
		s.mu.RUnlock()
		return snapshot, nil
	}
	s.mu.RUnlock()

	return s.refresh(ctx)
}

// refresh loads a fresh snapshot from the repository.
func (s *Service) refresh(ctx context.Context) ([]Station, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	// Double-check after acquiring the write lock.
	if s.snapshot != nil && time.Since(s.fetchedAt) < s.snapshotTTL {
		return s.snapshot, nil
	}

	stations, err := s.repo.List(ctx)
	if err != nil {
		// Serve the stale snapshot if we have one.
		if s.snapshot != nil {
			s.logger.Warn().Err(err).
				Time("fetched_at", s.fetchedAt).
				Msg("serving stale station snapshot due to repository error")
			return s.snapshot, nil
		}
		return nil, err
	}

	s.snapshot = stations
	s.fetchedAt = time.Now()

	s.logger.Debug().
		Int("station_count", len(stations)).
		Msg("refreshed station catalog snapshot")

	return s.snapshot, nil
}

// UpdatePrice sets the retail price for a station and drops the cached
// snapshot so the next planning call sees the new price.
func (s *Service) UpdatePrice(ctx context.Context, opisID int64, price float64) error {
	if err := s.repo.UpdatePrice(ctx, opisID, price); err != nil {
		return err
	}
	s.InvalidateCache()
	return nil
}

// InvalidateCache drops the cached snapshot.
func (s *Service) InvalidateCache() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.snapshot = nil
	s.fetchedAt = time.Time{}
}
