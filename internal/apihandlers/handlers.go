package apihandlers

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	log "github.com/sirupsen/logrus"

	"memeforge/internal/models"
)

// Selector is the orchestrator surface the API depends on.
type Selector interface {
	Select(ctx context.Context, req models.SelectionRequest) (*models.Selection, error)
}

// RegistryView exposes the registry reads the API needs.
type RegistryView interface {
	All() []models.GeneratorSpec
}

// TrackerView exposes tracker observability.
type TrackerView interface {
	Stats() models.TrackerStats
}

// StoreView exposes the read-only store queries the API needs.
type StoreView interface {
	Categories(ctx context.Context) ([]string, error)
	CountByCategory(ctx context.Context, category string) (int, error)
}

// JobEnqueuer schedules background work.
type JobEnqueuer interface {
	EnqueueDatasetIngest(ctx context.Context, path, source, category string) (string, error)
}

// APIHandler serves the HTTP surface over the selection core. Dependencies
// are interfaces so the handlers are testable without a live app.
type APIHandler struct {
	Selector Selector
	Registry RegistryView
	Tracker  TrackerView
	Store    StoreView
	Jobs     JobEnqueuer
	Reload   func() error
}

// GenerateHandler serves one generation request. Exhaustion and missing
// categories degrade gracefully; neither is a server error.
func (h *APIHandler) GenerateHandler(c *gin.Context) {
	var req models.SelectionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, "invalid request body: "+err.Error())
		return
	}

	sel, err := h.Selector.Select(c.Request.Context(), req)
	switch {
	case err == nil:
		c.JSON(http.StatusOK, gin.H{"data": sel})
	case errors.Is(err, models.ErrValidation):
		BadRequest(c, err.Error())
	case errors.Is(err, models.ErrNoEligibleGenerator):
		NotFound(c, fmt.Sprintf("category %q is unavailable", req.Category))
	case errors.Is(err, models.ErrExhausted):
		Unavailable(c, fmt.Sprintf("no fresh content left in %q right now, try again later or widen the category", req.Category))
	default:
		log.WithError(err).Error("selection failed")
		Internal(c, "selection failed")
	}
}

// ListGeneratorsHandler returns the current generator table.
func (h *APIHandler) ListGeneratorsHandler(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"generators": h.Registry.All()})
}

// ReloadGeneratorsHandler re-reads generator configuration and swaps the
// table atomically.
func (h *APIHandler) ReloadGeneratorsHandler(c *gin.Context) {
	if err := h.Reload(); err != nil {
		BadRequest(c, "reload rejected: "+err.Error())
		return
	}
	c.JSON(http.StatusOK, gin.H{"generators": h.Registry.All()})
}

// TrackerStatsHandler exposes the repetition tracker's bounds and fill.
func (h *APIHandler) TrackerStatsHandler(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"tracker": h.Tracker.Stats()})
}

// ListCategoriesHandler returns the categories present in the store with
// their candidate counts.
func (h *APIHandler) ListCategoriesHandler(c *gin.Context) {
	ctx := c.Request.Context()
	categories, err := h.Store.Categories(ctx)
	if err != nil {
		Internal(c, "list categories: "+err.Error())
		return
	}

	type categoryCount struct {
		Category string `json:"category"`
		Count    int    `json:"count"`
	}
	out := make([]categoryCount, 0, len(categories))
	for _, cat := range categories {
		n, err := h.Store.CountByCategory(ctx, cat)
		if err != nil {
			Internal(c, "count category: "+err.Error())
			return
		}
		out = append(out, categoryCount{Category: cat, Count: n})
	}
	c.JSON(http.StatusOK, gin.H{"categories": out})
}

// IngestDatasetRequest is the body for background dataset ingestion.
type IngestDatasetRequest struct {
	Path     string `json:"path"`
	Source   string `json:"source"`
	Category string `json:"category"`
}

// IngestDatasetHandler enqueues a background ingestion job.
func (h *APIHandler) IngestDatasetHandler(c *gin.Context) {
	var req IngestDatasetRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, "invalid request body: "+err.Error())
		return
	}
	if req.Path == "" || req.Source == "" {
		BadRequest(c, "missing required fields: path and source")
		return
	}

	taskID, err := h.Jobs.EnqueueDatasetIngest(c.Request.Context(), req.Path, req.Source, req.Category)
	if err != nil {
		Internal(c, "enqueue ingest: "+err.Error())
		return
	}
	c.JSON(http.StatusAccepted, gin.H{"task_id": taskID})
}
