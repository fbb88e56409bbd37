package store

import (
	"context"
	"fmt"

	"github.com/hibiken/asynq"

	"memeforge/internal/tasks"
)

// AsynqJobClient enqueues background tasks onto Redis.
var _ JobClient = (*AsynqJobClient)(nil)

type AsynqJobClient struct {
	client *asynq.Client
}

func NewAsynqJobClient(redisAddr, password string, db int) *AsynqJobClient {
	cli := asynq.NewClient(asynq.RedisClientOpt{
		Addr:     redisAddr,
		Password: password,
		DB:       db,
	})
	return &AsynqJobClient{client: cli}
}

func (jc *AsynqJobClient) Close() error {
	return jc.client.Close()
}

// EnqueueDatasetIngest schedules a background ingestion of the dataset at
// path, returning the task ID.
func (jc *AsynqJobClient) EnqueueDatasetIngest(ctx context.Context, path, source, category string) (string, error) {
	task, err := tasks.NewDatasetIngestTask(tasks.DatasetIngestPayload{
		Path:            path,
		Source:          source,
		DefaultCategory: category,
	})
	if err != nil {
		return "", err
	}
	info, err := jc.client.EnqueueContext(ctx, task, asynq.Queue("ingest"), asynq.MaxRetry(3))
	if err != nil {
		return "", fmt.Errorf("enqueue dataset ingest for %s: %w", path, err)
	}
	return info.ID, nil
}
