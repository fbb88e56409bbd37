// Package tasks defines the Asynq task types shared by enqueuers and the
// worker.
package tasks

import (
	"encoding/json"
	"fmt"

	"github.com/hibiken/asynq"
)

const (
	// TypeDatasetIngest loads a CSV dataset file into the content store.
	TypeDatasetIngest = "dataset:ingest"
)

// DatasetIngestPayload is the payload for TypeDatasetIngest.
type DatasetIngestPayload struct {
	Path            string `json:"path"`
	Source          string `json:"source"`
	DefaultCategory string `json:"default_category,omitempty"`
}

// NewDatasetIngestTask builds the task for a dataset ingestion run.
func NewDatasetIngestTask(payload DatasetIngestPayload) (*asynq.Task, error) {
	b, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("marshal dataset ingest payload: %w", err)
	}
	return asynq.NewTask(TypeDatasetIngest, b), nil
}
