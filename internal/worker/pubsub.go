package worker

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"cloud.google.com/go/pubsub/v2"
	"github.com/rs/zerolog"

	"github.com/fuelroute/fuelroute/internal/station"
)

// CatalogSource reads the station catalog, used for health checks.
type CatalogSource interface {
	Snapshot(ctx context.Context) ([]station.Station, error)
}

// PubSubHandler handles Pub/Sub messages for the worker.
type PubSubHandler struct {
	client           *pubsub.Client
	subscriber       *pubsub.Subscriber
	subscriptionName string
	importJob        *ImportJob
	catalog          CatalogSource
	logger           zerolog.Logger
}

// PubSubConfig holds configuration for the Pub/Sub handler.
type PubSubConfig struct {
	ProjectID        string
	SubscriptionName string
	ImportJob        *ImportJob
	Catalog          CatalogSource
	Logger           zerolog.Logger
}

// ImportMessage represents a station import job message.
type ImportMessage struct {
	JobType string `json:"job_type"`

	// FeedURL overrides the configured feed location for this run.
	FeedURL string `json:"feed_url,omitempty"`
}

// NewPubSubHandler creates a new Pub/Sub handler.
func NewPubSubHandler(ctx context.Context, cfg PubSubConfig) (*PubSubHandler, error) {
	client, err := pubsub.NewClient(ctx, cfg.ProjectID)
	if err != nil {
		return nil, fmt.Errorf("creating pubsub client: %w", err)
	}

	subscriber := client.Subscriber(cfg.SubscriptionName)

	// Imports geocode every new station, so runs are long; one at a time
	// with a generous ack extension.
	subscriber.ReceiveSettings.MaxOutstandingMessages = 1
	subscriber.ReceiveSettings.MaxExtension = 60 * time.Minute

	return &PubSubHandler{
		client:           client,
		subscriber:       subscriber,
		subscriptionName: cfg.SubscriptionName,
		importJob:        cfg.ImportJob,
		catalog:          cfg.Catalog,
		logger:           cfg.Logger,
	}, nil
}

// Start begins processing Pub/Sub messages.
func (h *PubSubHandler) Start(ctx context.Context) error {
	h.logger.Info().
		Str("subscription", h.subscriptionName).
		Msg("starting pubsub handler")

	return h.subscriber.Receive(ctx, func(ctx context.Context, msg *pubsub.Message) {
		h.handleMessage(ctx, msg)
	})
}

// Close closes the Pub/Sub client.
func (h *PubSubHandler) Close() error {
	return h.client.Close()
}

func (h *PubSubHandler) handleMessage(ctx context.Context, msg *pubsub.Message) {
	startTime := time.Now()

	logger := h.logger.With().
		Str("message_id", msg.ID).
		Str("publish_time", msg.PublishTime.Format(time.RFC3339)).
		Logger()

	logger.Debug().Msg("received pubsub message")

	var importMsg ImportMessage
	if err := json.Unmarshal(msg.Data, &importMsg); err != nil {
		logger.Error().Err(err).Msg("failed to parse message")
		msg.Nack()
		return
	}

	var err error
	switch importMsg.JobType {
	case "station_import":
		err = h.handleStationImport(ctx, importMsg)
	case "health_check":
		err = h.handleHealthCheck(ctx)
	default:
		logger.Warn().Str("job_type", importMsg.JobType).Msg("unknown job type")
		msg.Ack() // Ack unknown messages to prevent redelivery
		return
	}

	if err != nil {
		logger.Error().Err(err).Msg("job failed")
		msg.Nack()
		return
	}

	duration := time.Since(startTime)
	logger.Info().
		Str("job_type", importMsg.JobType).
		Dur("duration", duration).
		Msg("job completed successfully")

	msg.Ack()
}

func (h *PubSubHandler) handleStationImport(ctx context.Context, msg ImportMessage) error {
	h.logger.Info().
		Str("feed_url", msg.FeedURL).
		Msg("starting station import")

	result, err := h.importJob.Run(ctx, msg.FeedURL)
	if err != nil {
		return err
	}

	h.logger.Info().
		Int("imported", result.Imported).
		Int("skipped_existing", result.SkippedExisting).
		Int("skipped_unresolved", result.SkippedUnresolved).
		Msg("station import completed")

	return nil
}

func (h *PubSubHandler) handleHealthCheck(ctx context.Context) error {
	h.logger.Debug().Msg("running health check")

	checkCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	stations, err := h.catalog.Snapshot(checkCtx)
	if err != nil {
		return fmt.Errorf("health check failed: %w", err)
	}

	h.logger.Debug().
		Int("station_count", len(stations)).
		Msg("health check passed")
	return nil
}
