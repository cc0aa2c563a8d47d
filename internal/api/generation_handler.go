package api

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/phrazzld/storyboard-api/internal/api/shared"
	"github.com/phrazzld/storyboard-api/internal/batch"
	"github.com/phrazzld/storyboard-api/internal/domain"
	"github.com/phrazzld/storyboard-api/internal/generation"
	"github.com/phrazzld/storyboard-api/internal/platform/logger"
)

// BatchScheduler is the scheduler surface used by the handlers.
type BatchScheduler interface {
	RunBatch(
		ctx context.Context,
		assetType domain.AssetType,
		targets []domain.GenerationTarget,
		settings domain.GenerationSettings,
		opts ...batch.RunOption,
	) (*batch.Run, error)
	GenerateSingle(
		ctx context.Context,
		target domain.GenerationTarget,
		settings domain.GenerationSettings,
		opts ...batch.RunOption,
	) (*generation.Outcome, error)
	IsBusy(id string) bool
	Current(assetType domain.AssetType) (*batch.Run, bool)
}

// TaskPoller is the poller surface used by the handlers.
type TaskPoller interface {
	Start(taskID, targetID string) bool
	IsPolling(taskID string) bool
	Lookup(taskID string) (domain.GenerationTask, bool)
	Consume(taskID string) (domain.GenerationTask, bool)
}

// GenerationHandler handles batch, single-item and task requests.
type GenerationHandler struct {
	scheduler BatchScheduler
	poller    TaskPoller
	defaults  domain.GenerationSettings
	logger    *slog.Logger
}

// NewGenerationHandler creates a new GenerationHandler. defaults are the
// generation settings used when a request carries no overrides.
func NewGenerationHandler(
	scheduler BatchScheduler,
	poller TaskPoller,
	defaults domain.GenerationSettings,
	logger *slog.Logger,
) *GenerationHandler {
	if scheduler == nil {
		panic("scheduler cannot be nil")
	}
	if poller == nil {
		panic("poller cannot be nil")
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &GenerationHandler{
		scheduler: scheduler,
		poller:    poller,
		defaults:  defaults,
		logger:    logger.With("component", "generation_handler"),
	}
}

func assetTypeParam(r *http.Request) (domain.AssetType, error) {
	return domain.ParseAssetType(chi.URLParam(r, "assetType"))
}

// StartBatch handles POST /api/batches/{assetType}
func (h *GenerationHandler) StartBatch(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)

	assetType, err := assetTypeParam(r)
	if err != nil {
		HandleAPIError(w, r, err, "")
		return
	}

	var req StartBatchRequest
	if err := shared.DecodeJSON(r, &req); err != nil {
		HandleAPIError(w, r, fmt.Errorf("%w: %v", batch.ErrInvalidBatch, err), "Invalid request format")
		return
	}
	if err := shared.ValidateRequest(req); err != nil {
		HandleAPIError(w, r, err, "")
		return
	}

	targets := make([]domain.GenerationTarget, len(req.Targets))
	for i, t := range req.Targets {
		targets[i] = t.toDomain(assetType)
	}

	run, err := h.scheduler.RunBatch(r.Context(), assetType, targets, req.Settings.apply(h.defaults),
		batch.WithStyle(req.StyleID))
	if err != nil {
		HandleAPIError(w, r, err, "")
		return
	}

	log.Info("batch run accepted",
		slog.String("run_id", run.ID()),
		slog.String("asset_type", string(assetType)),
		slog.Int("targets", len(targets)))
	shared.RespondWithJSON(w, r, http.StatusAccepted, run.Progress())
}

// GetBatch handles GET /api/batches/{assetType}
func (h *GenerationHandler) GetBatch(w http.ResponseWriter, r *http.Request) {
	run, ok := h.currentRun(w, r)
	if !ok {
		return
	}
	shared.RespondWithJSON(w, r, http.StatusOK, run.Progress())
}

// StopBatch handles POST /api/batches/{assetType}/stop
func (h *GenerationHandler) StopBatch(w http.ResponseWriter, r *http.Request) {
	run, ok := h.currentRun(w, r)
	if !ok {
		return
	}
	run.Stop()
	logger.FromContextOrDefault(r.Context(), h.logger).Info("batch run stop requested",
		slog.String("run_id", run.ID()))
	shared.RespondWithJSON(w, r, http.StatusAccepted, run.Progress())
}

func (h *GenerationHandler) currentRun(w http.ResponseWriter, r *http.Request) (*batch.Run, bool) {
	assetType, err := assetTypeParam(r)
	if err != nil {
		HandleAPIError(w, r, err, "")
		return nil, false
	}
	run, ok := h.scheduler.Current(assetType)
	if !ok {
		HandleAPIError(w, r, fmt.Errorf("%w: %s", ErrRunNotFound, assetType), "")
		return nil, false
	}
	return run, true
}

// Generate handles POST /api/generations
func (h *GenerationHandler) Generate(w http.ResponseWriter, r *http.Request) {
	var req GenerateRequest
	if err := shared.DecodeJSON(r, &req); err != nil {
		HandleAPIError(w, r, fmt.Errorf("%w: %v", batch.ErrInvalidBatch, err), "Invalid request format")
		return
	}
	if err := shared.ValidateRequest(req); err != nil {
		HandleAPIError(w, r, err, "")
		return
	}
	assetType, err := domain.ParseAssetType(string(req.Type))
	if err != nil {
		HandleAPIError(w, r, err, "")
		return
	}

	target := req.Target.toDomain(assetType)
	outcome, err := h.scheduler.GenerateSingle(r.Context(), target, req.Settings.apply(h.defaults),
		batch.WithStyle(req.StyleID))
	if err != nil {
		HandleAPIError(w, r, err, "")
		return
	}

	status := http.StatusOK
	if outcome.IsAsync() {
		status = http.StatusAccepted
	}
	shared.RespondWithJSON(w, r, status, newGenerateResponse(target.ID, outcome))
}

// IsBusy handles GET /api/assets/{id}/busy
func (h *GenerationHandler) IsBusy(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	shared.RespondWithJSON(w, r, http.StatusOK, BusyResponse{ID: id, Busy: h.scheduler.IsBusy(id)})
}

// StartPolling handles POST /api/tasks/{taskID}/poll. Starting a task that
// is already polling is not an error; the response reports started=false.
func (h *GenerationHandler) StartPolling(w http.ResponseWriter, r *http.Request) {
	taskID := chi.URLParam(r, "taskID")

	var req PollRequest
	if r.ContentLength != 0 {
		if err := shared.DecodeJSON(r, &req); err != nil && !errors.Is(err, shared.ErrEmptyBody) {
			HandleAPIError(w, r, fmt.Errorf("%w: %v", batch.ErrInvalidBatch, err), "Invalid request format")
			return
		}
	}
	if req.TargetID == "" {
		if existing, ok := h.poller.Lookup(taskID); ok {
			req.TargetID = existing.TargetID
		}
	}

	started := h.poller.Start(taskID, req.TargetID)
	shared.RespondWithJSON(w, r, http.StatusAccepted, PollResponse{TaskID: taskID, Started: started})
}

// GetTask handles GET /api/tasks/{taskID}
func (h *GenerationHandler) GetTask(w http.ResponseWriter, r *http.Request) {
	taskID := chi.URLParam(r, "taskID")
	task, ok := h.poller.Lookup(taskID)
	if !ok {
		HandleAPIError(w, r, fmt.Errorf("%w: %s", ErrTaskNotFound, taskID), "")
		return
	}
	shared.RespondWithJSON(w, r, http.StatusOK, TaskResponse{GenerationTask: task, Polling: h.poller.IsPolling(taskID)})
}

// ConsumeTask handles DELETE /api/tasks/{taskID}. Only finished tasks can be
// consumed.
func (h *GenerationHandler) ConsumeTask(w http.ResponseWriter, r *http.Request) {
	taskID := chi.URLParam(r, "taskID")
	task, ok := h.poller.Consume(taskID)
	if !ok {
		if _, known := h.poller.Lookup(taskID); known {
			HandleAPIError(w, r, fmt.Errorf("%w: %s", ErrTaskInFlight, taskID), "")
			return
		}
		HandleAPIError(w, r, fmt.Errorf("%w: %s", ErrTaskNotFound, taskID), "")
		return
	}
	shared.RespondWithJSON(w, r, http.StatusOK, TaskResponse{GenerationTask: task})
}
