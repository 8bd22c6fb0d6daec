// Package worker provides background job processing for FuelRoute.
package worker

import (
	"time"
)

// ImportConfig holds configuration for the station import job.
type ImportConfig struct {
	// FeedURL is the default location of the OPIS truckstop CSV feed.
	// A Pub/Sub message may override it per run.
	FeedURL string

	// Timeout bounds one full import run, geocoding included.
	// Default: 30 minutes.
	Timeout time.Duration

	// BatchSize is the bulk insert size passed through to the importer.
	// Default: 100.
	BatchSize int
}

// DefaultImportConfig returns the default import configuration.
func DefaultImportConfig() ImportConfig {
	return ImportConfig{
		Timeout:   30 * time.Minute,
		BatchSize: 100,
	}
}
