// Package main provides a one-shot CLI that loads the OPIS truckstop CSV
// feed into the station catalog.
package main

import (
	"context"
	"flag"
	"os"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"

	"github.com/fuelroute/fuelroute/internal/database"
	"github.com/fuelroute/fuelroute/internal/geocoding/nominatim"
	"github.com/fuelroute/fuelroute/internal/station"
)

func main() {
	feedPath := flag.String("feed", "", "path to the OPIS truckstop CSV feed")
	batchSize := flag.Int("batch-size", 100, "bulk insert batch size")
	timeout := flag.Duration("timeout", 30*time.Minute, "overall import timeout")
	flag.Parse()

	// Local development convenience; a missing .env is fine.
	_ = godotenv.Load()

	log := zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).
		With().
		Timestamp().
		Logger()

	if *feedPath == "" {
		log.Fatal().Msg("usage: importer -feed <path-to-csv>")
	}

	ctx, cancel := context.WithTimeout(context.Background(), *timeout)
	defer cancel()

	dbConfig := database.ConfigFromEnv()
	pool, err := database.Connect(ctx, dbConfig)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to database")
	}
	defer pool.Close()

	geocoder := nominatim.NewClient(nominatim.ClientConfig{
		BaseURL: os.Getenv("NOMINATIM_BASE_URL"),
		Logger:  log,
	})

	importer := station.NewImporter(station.ImporterConfig{
		Repository: station.NewPostgresRepository(pool),
		Geocoder:   geocoder,
		Logger:     log,
		BatchSize:  *batchSize,
	})

	feed, err := os.Open(*feedPath)
	if err != nil {
		log.Fatal().Err(err).Str("feed", *feedPath).Msg("failed to open feed")
	}
	defer feed.Close()

	result, err := importer.ImportCSV(ctx, feed)
	if err != nil {
		log.Fatal().Err(err).Msg("import failed")
	}

	log.Info().
		Int("processed", result.Processed).
		Int("imported", result.Imported).
		Int("skipped_existing", result.SkippedExisting).
		Int("skipped_unresolved", result.SkippedUnresolved).
		Int("malformed", result.Malformed).
		Msg("import complete")
}
