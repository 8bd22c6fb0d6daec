package worker

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/fuelroute/fuelroute/internal/station"
)

// FeedFetcher retrieves the OPIS feed for one import run.
type FeedFetcher interface {
	Fetch(ctx context.Context, url string) (io.ReadCloser, error)
}

// HTTPFeedFetcher fetches the feed over HTTP.
type HTTPFeedFetcher struct {
	client *http.Client
}

// NewHTTPFeedFetcher creates a new HTTP feed fetcher. A nil client falls
// back to a default with a 2 minute timeout.
func NewHTTPFeedFetcher(client *http.Client) *HTTPFeedFetcher {
	if client == nil {
		client = &http.Client{Timeout: 2 * time.Minute}
	}
	return &HTTPFeedFetcher{client: client}
}

// Fetch downloads the feed. The caller owns the returned body.
func (f *HTTPFeedFetcher) Fetch(ctx context.Context, url string) (io.ReadCloser, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, http.NoBody)
	if err != nil {
		return nil, fmt.Errorf("creating feed request: %w", err)
	}

	resp, err := f.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetching feed: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		resp.Body.Close()
		return nil, fmt.Errorf("feed returned status %d", resp.StatusCode)
	}
	return resp.Body, nil
}

// ImportJob runs station feed imports.
type ImportJob struct {
	config   ImportConfig
	logger   zerolog.Logger
	importer *station.Importer
	fetcher  FeedFetcher

	metrics *ImportMetrics
}

// ImportMetrics tracks import job statistics.
type ImportMetrics struct {
	mu sync.RWMutex

	// Counters
	TotalRuns         int64
	SuccessfulRuns    int64
	FailedRuns        int64
	ImportedStations  int64
	SkippedStations   int64
	UnresolvedRecords int64
	MalformedRecords  int64

	// Timings
	LastRunAt       time.Time
	LastRunDuration time.Duration
	TotalDuration   time.Duration
}

// ImportJobConfig holds configuration for creating an ImportJob.
type ImportJobConfig struct {
	Config   ImportConfig
	Logger   zerolog.Logger
	Importer *station.Importer
	Fetcher  FeedFetcher
}

// NewImportJob creates a new import job processor.
func NewImportJob(cfg ImportJobConfig) *ImportJob {
	config := cfg.Config
	if config.Timeout == 0 {
		config.Timeout = DefaultImportConfig().Timeout
	}

	fetcher := cfg.Fetcher
	if fetcher == nil {
		fetcher = NewHTTPFeedFetcher(nil)
	}

	return &ImportJob{
		config:   config,
		logger:   cfg.Logger,
		importer: cfg.Importer,
		fetcher:  fetcher,
		metrics:  &ImportMetrics{},
	}
}

// Run fetches the feed and imports it. An empty feedURL uses the configured
// default.
func (j *ImportJob) Run(ctx context.Context, feedURL string) (*station.ImportResult, error) {
	if feedURL == "" {
		feedURL = j.config.FeedURL
	}
	if feedURL == "" {
		return nil, fmt.Errorf("no feed URL configured")
	}

	startTime := time.Now()

	runCtx, cancel := context.WithTimeout(ctx, j.config.Timeout)
	defer cancel()

	j.logger.Info().
		Str("feed_url", feedURL).
		Msg("starting station import job")

	feed, err := j.fetcher.Fetch(runCtx, feedURL)
	if err != nil {
		j.recordRun(nil, time.Since(startTime), false)
		return nil, err
	}
	defer feed.Close()

	result, err := j.importer.ImportCSV(runCtx, feed)
	duration := time.Since(startTime)
	j.recordRun(result, duration, err == nil)
	if err != nil {
		return result, fmt.Errorf("importing feed: %w", err)
	}

	j.logger.Info().
		Dur("duration", duration).
		Int("processed", result.Processed).
		Int("imported", result.Imported).
		Int("skipped_existing", result.SkippedExisting).
		Int("skipped_unresolved", result.SkippedUnresolved).
		Msg("station import job completed")

	return result, nil
}

func (j *ImportJob) recordRun(result *station.ImportResult, duration time.Duration, success bool) {
	j.metrics.mu.Lock()
	defer j.metrics.mu.Unlock()

	j.metrics.TotalRuns++
	if success {
		j.metrics.SuccessfulRuns++
	} else {
		j.metrics.FailedRuns++
	}
	if result != nil {
		j.metrics.ImportedStations += int64(result.Imported)
		j.metrics.SkippedStations += int64(result.SkippedExisting)
		j.metrics.UnresolvedRecords += int64(result.SkippedUnresolved)
		j.metrics.MalformedRecords += int64(result.Malformed)
	}
	j.metrics.LastRunAt = time.Now()
	j.metrics.LastRunDuration = duration
	j.metrics.TotalDuration += duration
}

// GetMetrics returns a copy of the current metrics.
func (j *ImportJob) GetMetrics() ImportMetrics {
	j.metrics.mu.RLock()
	defer j.metrics.mu.RUnlock()

	return ImportMetrics{
		TotalRuns:         j.metrics.TotalRuns,
		SuccessfulRuns:    j.metrics.SuccessfulRuns,
		FailedRuns:        j.metrics.FailedRuns,
		ImportedStations:  j.metrics.ImportedStations,
		SkippedStations:   j.metrics.SkippedStations,
		UnresolvedRecords: j.metrics.UnresolvedRecords,
		MalformedRecords:  j.metrics.MalformedRecords,
		LastRunAt:         j.metrics.LastRunAt,
		LastRunDuration:   j.metrics.LastRunDuration,
		TotalDuration:     j.metrics.TotalDuration,
	}
}

// MetricsSnapshot returns a snapshot of the current metrics as a map.
func (j *ImportJob) MetricsSnapshot() map[string]interface{} {
	m := j.GetMetrics()
	return map[string]interface{}{
		"total_runs":         m.TotalRuns,
		"successful_runs":    m.SuccessfulRuns,
		"failed_runs":        m.FailedRuns,
		"imported_stations":  m.ImportedStations,
		"skipped_stations":   m.SkippedStations,
		"unresolved_records": m.UnresolvedRecords,
		"malformed_records":  m.MalformedRecords,
		"last_run_at":        m.LastRunAt,
		"last_run_duration":  m.LastRunDuration.String(),
		"total_duration":     m.TotalDuration.String(),
	}
}
