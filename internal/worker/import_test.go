package worker_test

import (
	"context"
	"errors"
	"io"
	"strings"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fuelroute/fuelroute/internal/geo"
	"github.com/fuelroute/fuelroute/internal/station"
	"github.com/fuelroute/fuelroute/internal/worker"
)

const testFeed = "OPIS Truckstop ID,Truckstop Name,Address,City,State,Rack ID,Retail Price\n" +
	"101,Pilot Travel Center,I-70 EXIT 79,London,OH,305,3.25\n" +
	"102,Flying J,US-40,Springfield,OH,306,3.10\n"

type stubFetcher struct {
	data       string
	err        error
	fetchedURL string
}

func (f *stubFetcher) Fetch(_ context.Context, url string) (io.ReadCloser, error) {
	f.fetchedURL = url
	if f.err != nil {
		return nil, f.err
	}
	return io.NopCloser(strings.NewReader(f.data)), nil
}

type fixedGeocoder struct {
	coord geo.Coordinate
}

func (g *fixedGeocoder) Geocode(_ context.Context, _ string) (*geo.Coordinate, error) {
	c := g.coord
	return &c, nil
}

func newTestJob(fetcher worker.FeedFetcher, cfg worker.ImportConfig) (*worker.ImportJob, *station.InMemoryRepository) {
	repo := station.NewInMemoryRepository()
	importer := station.NewImporter(station.ImporterConfig{
		Repository: repo,
		Geocoder:   &fixedGeocoder{coord: geo.Coordinate{Lat: 39.9, Lon: -83.5}},
		Logger:     zerolog.Nop(),
	})

	job := worker.NewImportJob(worker.ImportJobConfig{
		Config:   cfg,
		Logger:   zerolog.Nop(),
		Importer: importer,
		Fetcher:  fetcher,
	})
	return job, repo
}

func TestDefaultImportConfig(t *testing.T) {
	cfg := worker.DefaultImportConfig()

	assert.Equal(t, 30*time.Minute, cfg.Timeout)
	assert.Equal(t, 100, cfg.BatchSize)
}

func TestImportJob_Run(t *testing.T) {
	fetcher := &stubFetcher{data: testFeed}
	job, repo := newTestJob(fetcher, worker.ImportConfig{
		FeedURL: "https://feeds.fuelroute.dev/opis.csv",
	})

	result, err := job.Run(context.Background(), "")
	require.NoError(t, err)

	assert.Equal(t, "https://feeds.fuelroute.dev/opis.csv", fetcher.fetchedURL)
	assert.Equal(t, 2, result.Imported)

	stations, err := repo.List(context.Background())
	require.NoError(t, err)
	assert.Len(t, stations, 2)
}

func TestImportJob_Run_FeedURLOverride(t *testing.T) {
	fetcher := &stubFetcher{data: testFeed}
	job, _ := newTestJob(fetcher, worker.ImportConfig{
		FeedURL: "https://feeds.fuelroute.dev/opis.csv",
	})

	_, err := job.Run(context.Background(), "https://feeds.fuelroute.dev/opis-2026-08.csv")
	require.NoError(t, err)

	assert.Equal(t, "https://feeds.fuelroute.dev/opis-2026-08.csv", fetcher.fetchedURL)
}

func TestImportJob_Run_NoFeedURL(t *testing.T) {
	job, _ := newTestJob(&stubFetcher{data: testFeed}, worker.ImportConfig{})

	_, err := job.Run(context.Background(), "")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no feed URL")
}

func TestImportJob_Run_FetchError(t *testing.T) {
	fetcher := &stubFetcher{err: errors.New("feed returned status 503")}
	job, _ := newTestJob(fetcher, worker.ImportConfig{
		FeedURL: "https://feeds.fuelroute.dev/opis.csv",
	})

	_, err := job.Run(context.Background(), "")
	require.Error(t, err)

	metrics := job.GetMetrics()
	assert.Equal(t, int64(1), metrics.TotalRuns)
	assert.Equal(t, int64(1), metrics.FailedRuns)
	assert.Equal(t, int64(0), metrics.SuccessfulRuns)
}

func TestImportJob_GetMetrics(t *testing.T) {
	fetcher := &stubFetcher{data: testFeed}
	job, _ := newTestJob(fetcher, worker.ImportConfig{
		FeedURL: "https://feeds.fuelroute.dev/opis.csv",
	})

	_, err := job.Run(context.Background(), "")
	require.NoError(t, err)

	metrics := job.GetMetrics()
	assert.Equal(t, int64(1), metrics.TotalRuns)
	assert.Equal(t, int64(1), metrics.SuccessfulRuns)
	assert.Equal(t, int64(2), metrics.ImportedStations)
	assert.NotZero(t, metrics.LastRunAt)
}

func TestImportJob_MetricsSnapshot(t *testing.T) {
	fetcher := &stubFetcher{data: testFeed}
	job, _ := newTestJob(fetcher, worker.ImportConfig{
		FeedURL: "https://feeds.fuelroute.dev/opis.csv",
	})

	_, err := job.Run(context.Background(), "")
	require.NoError(t, err)

	snapshot := job.MetricsSnapshot()

	assert.Contains(t, snapshot, "total_runs")
	assert.Contains(t, snapshot, "successful_runs")
	assert.Contains(t, snapshot, "failed_runs")
	assert.Contains(t, snapshot, "imported_stations")
	assert.Contains(t, snapshot, "last_run_at")
	assert.Contains(t, snapshot, "last_run_duration")
}

func TestImportJob_Run_SkipsExistingOnRerun(t *testing.T) {
	fetcher := &stubFetcher{data: testFeed}
	job, _ := newTestJob(fetcher, worker.ImportConfig{
		FeedURL: "https://feeds.fuelroute.dev/opis.csv",
	})

	_, err := job.Run(context.Background(), "")
	require.NoError(t, err)

	result, err := job.Run(context.Background(), "")
	require.NoError(t, err)

	assert.Equal(t, 0, result.Imported)
	assert.Equal(t, 2, result.SkippedExisting)

	metrics := job.GetMetrics()
	assert.Equal(t, int64(2), metrics.TotalRuns)
	assert.Equal(t, int64(2), metrics.ImportedStations)
	assert.Equal(t, int64(2), metrics.SkippedStations)
}
