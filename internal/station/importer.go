package station

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/rs/zerolog"

	"github.com/fuelroute/fuelroute/internal/geocoding"
)

// defaultImportBatchSize is how many geocoded stations accumulate before a
// bulk insert.
const defaultImportBatchSize = 100

// Required columns of the OPIS truckstop feed.
const (
	columnOPISID  = "OPIS Truckstop ID"
	columnName    = "Truckstop Name"
	columnAddress = "Address"
	columnCity    = "City"
	columnState   = "State"
	columnRackID  = "Rack ID"
	columnPrice   = "Retail Price"
)

// ImportResult summarizes one import run.
type ImportResult struct {
	// Processed is the number of data rows read from the feed.
	Processed int

	// Imported is the number of stations inserted.
	Imported int

	// SkippedExisting counts rows whose OPIS ID was already in the catalog.
	SkippedExisting int

	// SkippedUnresolved counts rows whose address could not be geocoded
	// after exhausting the fallback query chain.
	SkippedUnresolved int

	// Malformed counts rows with unparseable IDs or prices.
	Malformed int
}

// ImporterConfig holds configuration for the CSV importer.
type ImporterConfig struct {
	// Repository receives the imported stations.
	Repository Repository

	// Geocoder resolves street addresses to coordinates.
	Geocoder geocoding.Geocoder

	// Logger for per-record progress.
	Logger zerolog.Logger

	// BatchSize is the bulk insert size (default: 100).
	BatchSize int
}

// Importer loads the OPIS truckstop CSV feed into the catalog. Each new
// record is geocoded through the fallback query chain before insert;
// records that cannot be resolved are skipped rather than stored without
// coordinates.
type Importer struct {
	repo      Repository
	geocoder  geocoding.Geocoder
	logger    zerolog.Logger
	batchSize int
}

// NewImporter creates a new CSV importer.
func NewImporter(cfg ImporterConfig) *Importer {
	batchSize := cfg.BatchSize
	if batchSize <= 0 {
		batchSize = defaultImportBatchSize
	}
	return &Importer{
		repo:      cfg.Repository,
		geocoder:  cfg.Geocoder,
		logger:    cfg.Logger,
		batchSize: batchSize,
	}
}

// ImportCSV reads the feed and inserts new stations in batches. Malformed
// rows and unresolvable addresses are skipped with a log line; geocoder
// transport errors abort the run so a partial import can be resumed later
// (already-imported OPIS IDs are skipped on the next run).
func (im *Importer) ImportCSV(ctx context.Context, r io.Reader) (*ImportResult, error) {
	reader := csv.NewReader(r)

	header, err := reader.Read()
	if err != nil {
		return nil, fmt.Errorf("reading header: %w", err)
	}
	columns, err := mapColumns(header)
	if err != nil {
		return nil, err
	}

	result := &ImportResult{}
	batch := make([]Station, 0, im.batchSize)

	for {
		record, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return result, fmt.Errorf("reading record: %w", err)
		}
		result.Processed++

		st, err := parseRecord(record, columns)
		if err != nil {
			result.Malformed++
			im.logger.Warn().Err(err).
				Int("row", result.Processed).
				Msg("skipping malformed record")
			continue
		}

		exists, err := im.repo.Exists(ctx, st.OPISID)
		if err != nil {
			return result, fmt.Errorf("checking station %d: %w", st.OPISID, err)
		}
		if exists {
			result.SkippedExisting++
			continue
		}

		coord, err := geocoding.ResolveWithFallback(ctx, im.geocoder, geocoding.Address{
			Street: st.Address,
			City:   st.City,
			State:  st.State,
		})
		if err != nil {
			if errors.Is(err, geocoding.ErrNoResults) {
				result.SkippedUnresolved++
				im.logger.Warn().
					Int64("opis_id", st.OPISID).
					Str("station", st.String()).
					Msg("could not geocode station, skipping")
				continue
			}
			return result, fmt.Errorf("geocoding station %d: %w", st.OPISID, err)
		}
		st.Coordinate = *coord

		im.logger.Debug().
			Int64("opis_id", st.OPISID).
			Str("station", st.String()).
			Float64("lat", coord.Lat).
			Float64("lon", coord.Lon).
			Msg("geocoded station")

		batch = append(batch, st)
		if len(batch) == im.batchSize {
			if err := im.flush(ctx, batch, result); err != nil {
				return result, err
			}
			batch = batch[:0]
		}
	}

	if err := im.flush(ctx, batch, result); err != nil {
		return result, err
	}

	im.logger.Info().
		Int("processed", result.Processed).
		Int("imported", result.Imported).
		Int("skipped_existing", result.SkippedExisting).
		Int("skipped_unresolved", result.SkippedUnresolved).
		Int("malformed", result.Malformed).
		Msg("station import completed")

	return result, nil
}

func (im *Importer) flush(ctx context.Context, batch []Station, result *ImportResult) error {
	if len(batch) == 0 {
		return nil
	}
	if err := im.repo.CreateBatch(ctx, batch); err != nil {
		return fmt.Errorf("inserting batch: %w", err)
	}
	result.Imported += len(batch)
	im.logger.Info().
		Int("batch_size", len(batch)).
		Int("imported_total", result.Imported).
		Msg("inserted station batch")
	return nil
}

// mapColumns locates the required feed columns by header name.
func mapColumns(header []string) (map[string]int, error) {
	required := []string{
		columnOPISID, columnName, columnAddress,
		columnCity, columnState, columnRackID, columnPrice,
	}

	columns := make(map[string]int, len(required))
	for i, name := range header {
		columns[strings.TrimSpace(name)] = i
	}

	for _, name := range required {
		if _, ok := columns[name]; !ok {
			return nil, fmt.Errorf("feed is missing column %q", name)
		}
	}
	return columns, nil
}

func parseRecord(record []string, columns map[string]int) (Station, error) {
	field := func(name string) string {
		i := columns[name]
		if i >= len(record) {
			return ""
		}
		return strings.TrimSpace(record[i])
	}

	opisID, err := strconv.ParseInt(field(columnOPISID), 10, 64)
	if err != nil {
		return Station{}, fmt.Errorf("invalid OPIS ID %q", field(columnOPISID))
	}
	rackID, err := strconv.ParseInt(field(columnRackID), 10, 64)
	if err != nil {
		return Station{}, fmt.Errorf("invalid rack ID %q", field(columnRackID))
	}
	price, err := strconv.ParseFloat(field(columnPrice), 64)
	if err != nil {
		return Station{}, fmt.Errorf("invalid retail price %q", field(columnPrice))
	}

	return Station{
		OPISID:      opisID,
		Name:        field(columnName),
		Address:     field(columnAddress),
		City:        field(columnCity),
		State:       field(columnState),
		RackID:      rackID,
		RetailPrice: price,
	}, nil
}
