package app

import (
	"github.com/razorbill/livematch/external/streamed"
	"github.com/razorbill/livematch/internal/config"
	"github.com/razorbill/livematch/internal/domain/notification"
	"github.com/razorbill/livematch/internal/domain/sport"
	"github.com/razorbill/livematch/internal/infrastructure/repository/file"
	"github.com/razorbill/livematch/internal/infrastructure/repository/memory"
	"github.com/razorbill/livematch/internal/platform/logging"
	"github.com/razorbill/livematch/internal/platform/resilience"
	"github.com/razorbill/livematch/internal/platform/storage"
	"github.com/razorbill/livematch/internal/usecase"
)

// Client bundles the wired services a render layer consumes.
type Client struct {
	Feed      *usecase.FeedService
	Directory *usecase.DirectoryService
	Streams   *usecase.StreamService
	Reminders *usecase.ReminderService
	API       *streamed.Client
}

// New wires the full aggregation client from configuration. A storage open
// failure falls back to in-memory repositories: caching is best-effort and
// must never keep the client from starting.
func New(cfg config.Config, reminderCfg usecase.ReminderServiceConfig, logger *logging.Logger) (*Client, error) {
	if logger == nil {
		logger = logging.Default()
	}

	api := streamed.NewClient(streamed.ClientConfig{
		BaseURL:     cfg.StreamedBaseURL,
		BearerToken: cfg.StreamedBearerToken,
		Timeout:     cfg.StreamedTimeout,
		Logger:      logger,
		CircuitBreaker: resilience.CircuitBreakerConfig{
			Enabled:          cfg.StreamedCircuitEnabled,
			FailureThreshold: cfg.StreamedCircuitFailureCount,
			OpenTimeout:      cfg.StreamedCircuitOpenTimeout,
			HalfOpenMaxReq:   cfg.StreamedCircuitHalfOpenMax,
		},
	})

	sportRepo, reminderRepo := buildRepositories(cfg, logger)
	directorySvc := usecase.NewDirectoryService(api, sportRepo, logger)

	feedSvc := usecase.NewFeedService(api, directorySvc, usecase.FeedServiceConfig{
		RetryBackoff: cfg.FeedRetryBackoff,
		MaxWorkers:   cfg.FeedMaxWorkers,
	}, logger)

	if reminderCfg.Lead <= 0 {
		reminderCfg.Lead = cfg.ReminderLead
	}
	reminderSvc := usecase.NewReminderService(reminderRepo, reminderCfg, logger)

	return &Client{
		Feed:      feedSvc,
		Directory: directorySvc,
		Streams:   usecase.NewStreamService(api, logger),
		Reminders: reminderSvc,
		API:       api,
	}, nil
}

func buildRepositories(cfg config.Config, logger *logging.Logger) (sport.Repository, notification.Repository) {
	store, err := storage.Open(cfg.StoragePath)
	if err != nil {
		logger.Warn("open persisted store failed, running without persistence",
			"path", cfg.StoragePath,
			"error", err,
		)
		return memory.NewSportRepository(nil), memory.NewNotificationRepository()
	}

	return file.NewSportRepository(store), file.NewNotificationRepository(store)
}
