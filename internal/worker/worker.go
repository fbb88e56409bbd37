// Package worker runs the Asynq server that processes background dataset
// ingestion jobs.
package worker

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/hibiken/asynq"
	log "github.com/sirupsen/logrus"

	"memeforge/internal/config"
	"memeforge/internal/ingest"
	"memeforge/internal/tasks"
)

// Worker wraps the asynq server plus the handlers it dispatches to.
type Worker struct {
	server   *asynq.Server
	ingestor *ingest.Ingestor
}

func New(cfg *config.Config, ingestor *ingest.Ingestor) *Worker {
	queues := cfg.Worker.Queues
	if len(queues) == 0 {
		queues = map[string]int{"default": 1}
	}
	server := asynq.NewServer(
		asynq.RedisClientOpt{
			Addr:     cfg.Redis.Address,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		},
		asynq.Config{
			Concurrency: cfg.Worker.Concurrency,
			Queues:      queues,
		},
	)
	return &Worker{server: server, ingestor: ingestor}
}

// Run blocks, processing tasks until shutdown.
func (w *Worker) Run() error {
	mux := asynq.NewServeMux()
	mux.HandleFunc(tasks.TypeDatasetIngest, w.handleDatasetIngest)

	log.Info("worker started")
	if err := w.server.Run(mux); err != nil {
		return fmt.Errorf("run worker server: %w", err)
	}
	return nil
}

func (w *Worker) handleDatasetIngest(ctx context.Context, task *asynq.Task) error {
	var payload tasks.DatasetIngestPayload
	if err := json.Unmarshal(task.Payload(), &payload); err != nil {
		return fmt.Errorf("unmarshal dataset ingest payload: %v: %w", err, asynq.SkipRetry)
	}

	stats, err := w.ingestor.Run(ctx, ingest.Params{
		Path:            payload.Path,
		Source:          payload.Source,
		DefaultCategory: payload.DefaultCategory,
	})
	if err != nil {
		return fmt.Errorf("ingest %s: %w", payload.Path, err)
	}
	log.WithFields(log.Fields{
		"path":     payload.Path,
		"inserted": stats.Inserted,
		"skipped":  stats.Skipped,
	}).Info("background ingest complete")
	return nil
}
