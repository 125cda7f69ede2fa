package handler

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/Lucafivan/Ship-Operation-Systems/internal/domain/entity"
	"github.com/Lucafivan/Ship-Operation-Systems/internal/domain/repository"
	"github.com/Lucafivan/Ship-Operation-Systems/internal/infrastructure/apiclient"
	"github.com/Lucafivan/Ship-Operation-Systems/internal/infrastructure/config"
	"github.com/Lucafivan/Ship-Operation-Systems/internal/usecase"
	"github.com/Lucafivan/Ship-Operation-Systems/pkg/logger"
	"github.com/Lucafivan/Ship-Operation-Systems/pkg/utils"

	"github.com/go-chi/chi/v5"
)

const defaultSubmissionLimit = 20

// MonitoringHandler serves the monitoring table and the per-record actions
type MonitoringHandler struct {
	monitor   *usecase.Monitor
	predictor *usecase.Predictor
	editor    *usecase.StageEditor
	journal   repository.SubmissionRepository
	logger    logger.Logger
}

// NewMonitoringHandler creates a new monitoring handler. journal may be nil.
func NewMonitoringHandler(
	monitor *usecase.Monitor,
	predictor *usecase.Predictor,
	editor *usecase.StageEditor,
	journal repository.SubmissionRepository,
	logger logger.Logger,
) *MonitoringHandler {
	return &MonitoringHandler{
		monitor:   monitor,
		predictor: predictor,
		editor:    editor,
		journal:   journal,
		logger:    logger,
	}
}

type monitoringResponse struct {
	entity.MonitoringView
	Predictions map[int64]entity.Overlay `json:"predictions,omitempty"`
}

// List applies the query parameters that differ from the current state and
// returns the rows the table displays.
func (h *MonitoringHandler) List(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	q := r.URL.Query()
	current := h.monitor.View()
	fetched := false

	if v := q.Get("all"); v != "" {
		on := parseBool(v)
		if err := h.monitor.SetGlobalSearch(ctx, on); err != nil {
			respondUpstream(w, err, usecase.MsgFetchFailed)
			return
		}
		if !on && current.GlobalMode && strings.TrimSpace(current.SearchText) != "" {
			fetched = true
		}
	}

	if preset := q.Get("preset"); preset != "" {
		filter := entity.DateFilter{
			Preset:      entity.DatePreset(preset),
			CustomStart: q.Get("start"),
			CustomEnd:   q.Get("end"),
		}
		if err := h.monitor.SetDateFilter(filter); err != nil {
			utils.RespondError(w, http.StatusBadRequest, err.Error())
			return
		}
	}

	if key := q.Get("sort"); key != "" {
		var cfg *entity.SortConfig
		if key != "none" {
			dir := entity.SortDirection(strings.ToLower(q.Get("dir")))
			if dir == "" {
				dir = entity.SortAsc
			}
			cfg = &entity.SortConfig{Key: entity.SortKey(key), Direction: dir}
		}
		if err := h.monitor.SetSort(cfg); err != nil {
			utils.RespondError(w, http.StatusBadRequest, err.Error())
			return
		}
	}

	if v := q.Get("per_page"); v != "" {
		perPage, err := strconv.Atoi(v)
		if err != nil || !config.ValidPerPage(perPage) {
			utils.RespondError(w, http.StatusBadRequest, "per_page must be one of 10, 20, 50, 100")
			return
		}
		if perPage != current.PerPage {
			if err := h.monitor.SetPerPage(ctx, perPage); err != nil {
				respondUpstream(w, err, usecase.MsgFetchFailed)
				return
			}
			fetched = true
		}
	}

	if _, ok := q["q"]; ok {
		text := q.Get("q")
		key := entity.SearchKey(q.Get("field"))
		if key == "" {
			key = entity.SearchAll
		}
		if !key.Valid() {
			utils.RespondError(w, http.StatusBadRequest, "unsupported search field")
			return
		}
		if text != current.SearchText || key != current.SearchKey {
			if err := h.monitor.ApplySearch(ctx, text, key); err != nil {
				respondUpstream(w, err, usecase.MsgFetchFailed)
				return
			}
			fetched = true
		}
	}

	if v := q.Get("page"); v != "" {
		page, err := strconv.Atoi(v)
		if err != nil || page < 1 {
			utils.RespondError(w, http.StatusBadRequest, "page must be a positive integer")
			return
		}
		if page != h.monitor.View().CurrentPage {
			if err := h.monitor.SetPage(ctx, page); err != nil {
				respondUpstream(w, err, usecase.MsgFetchFailed)
				return
			}
			fetched = true
		}
	}

	if !fetched && current.Pages == 0 && len(current.Data) == 0 {
		if err := h.monitor.Refresh(ctx); err != nil {
			respondUpstream(w, err, usecase.MsgFetchFailed)
			return
		}
	}

	if err := h.monitor.EnsureGlobalCache(ctx); err != nil {
		utils.RespondError(w, http.StatusBadGateway, usecase.MsgFetchAllFailed)
		return
	}

	view := h.monitor.View()
	resp := monitoringResponse{MonitoringView: view}
	for _, row := range view.Data {
		if overlay, ok := h.predictor.Overlay(ctx, row.VoyageID); ok && len(overlay) > 0 {
			if resp.Predictions == nil {
				resp.Predictions = make(map[int64]entity.Overlay)
			}
			resp.Predictions[row.VoyageID] = overlay
		}
	}
	utils.RespondJSON(w, http.StatusOK, resp)
}

type searchRequest struct {
	Text string           `json:"text"`
	Key  entity.SearchKey `json:"key"`
}

// Search schedules a debounced search fetch
func (h *MonitoringHandler) Search(w http.ResponseWriter, r *http.Request) {
	var req searchRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.RespondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if err := h.monitor.SetSearch(r.Context(), req.Text, req.Key); err != nil {
		utils.RespondError(w, http.StatusBadRequest, err.Error())
		return
	}
	utils.RespondJSON(w, http.StatusAccepted, map[string]interface{}{"success": true})
}

// Refresh reloads the current page
func (h *MonitoringHandler) Refresh(w http.ResponseWriter, r *http.Request) {
	if err := h.monitor.Refresh(r.Context()); err != nil {
		respondUpstream(w, err, usecase.MsgFetchFailed)
		return
	}
	utils.RespondJSON(w, http.StatusOK, h.monitor.View())
}

// Predictions fills the record's missing downstream values with predictions
func (h *MonitoringHandler) Predictions(w http.ResponseWriter, r *http.Request) {
	row, ok := h.row(w, r)
	if !ok {
		return
	}

	overlay, err := h.predictor.EnsurePredictions(r.Context(), row)
	if errors.Is(err, usecase.ErrBusy) {
		utils.RespondJSON(w, http.StatusAccepted, map[string]interface{}{
			"success": false,
			"error":   "Predictions are already being requested",
		})
		return
	}
	if err != nil {
		h.logger.Error("Failed to ensure predictions", "voyageId", row.VoyageID, "error", err)
		utils.RespondError(w, http.StatusInternalServerError, "Failed to request predictions")
		return
	}

	utils.RespondJSON(w, http.StatusOK, map[string]interface{}{
		"mode":    usecase.InferMode(row),
		"overlay": overlay,
		"row":     overlay.Merge(row),
	})
}

// Stages returns the edit tabs of the record
func (h *MonitoringHandler) Stages(w http.ResponseWriter, r *http.Request) {
	row, ok := h.row(w, r)
	if !ok {
		return
	}
	utils.RespondJSON(w, http.StatusOK, map[string]interface{}{
		"tabs":    usecase.Tabs(row),
		"initial": usecase.InitialTab(row),
		"form":    usecase.FormFromRow(row),
	})
}

type stageRequest struct {
	Quantities map[string]float64 `json:"quantities"`
	Obstacles  *string            `json:"obstacles"`
}

// SaveStage submits one stage of the record
func (h *MonitoringHandler) SaveStage(w http.ResponseWriter, r *http.Request) {
	row, ok := h.row(w, r)
	if !ok {
		return
	}

	stage := entity.Stage(chi.URLParam(r, "stage"))
	if !stage.Valid() {
		utils.RespondError(w, http.StatusNotFound, "Unknown stage")
		return
	}

	var req stageRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.RespondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	form := usecase.FormFromRow(row)
	for field, v := range req.Quantities {
		form.Quantities[field] = v
	}
	if req.Obstacles != nil {
		form.Obstacles = *req.Obstacles
	}

	err := h.editor.Save(r.Context(), row, stage, form, h.monitor.Refresh)
	if err == nil {
		utils.RespondJSON(w, http.StatusOK, map[string]interface{}{"success": true})
		return
	}

	if errors.Is(err, usecase.ErrStageLocked) {
		utils.RespondError(w, http.StatusConflict, "Stage is locked until the previous stage is filled")
		return
	}

	var apiErr *apiclient.APIError
	if errors.As(err, &apiErr) && len(apiErr.Violations) > 0 {
		utils.RespondJSON(w, http.StatusUnprocessableEntity, map[string]interface{}{
			"success":    false,
			"error":      apiErr.Msg,
			"violations": apiErr.Violations,
		})
		return
	}
	if errors.As(err, &apiErr) && apiErr.Msg != "" {
		utils.RespondError(w, http.StatusBadGateway, apiErr.Msg)
		return
	}
	utils.RespondError(w, http.StatusBadGateway, "Failed to save stage")
}

// Submissions lists the journaled saves of the record
func (h *MonitoringHandler) Submissions(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		utils.RespondError(w, http.StatusBadRequest, "Invalid id")
		return
	}

	limit := defaultSubmissionLimit
	if v := r.URL.Query().Get("limit"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			limit = n
		}
	}

	submissions := []*entity.StageSubmission{}
	if h.journal != nil {
		submissions, err = h.journal.Recent(r.Context(), id, limit)
		if err != nil {
			h.logger.Error("Failed to read submissions", "recordId", id, "error", err)
			utils.RespondError(w, http.StatusInternalServerError, "Failed to read submissions")
			return
		}
		if submissions == nil {
			submissions = []*entity.StageSubmission{}
		}
	}
	utils.RespondJSON(w, http.StatusOK, submissions)
}

func (h *MonitoringHandler) row(w http.ResponseWriter, r *http.Request) (entity.ContainerMovement, bool) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		utils.RespondError(w, http.StatusBadRequest, "Invalid id")
		return entity.ContainerMovement{}, false
	}
	row, ok := h.monitor.Row(id)
	if !ok {
		utils.RespondError(w, http.StatusNotFound, "Record is not loaded")
		return entity.ContainerMovement{}, false
	}
	return row, true
}

func parseBool(v string) bool {
	b, err := strconv.ParseBool(v)
	return err == nil && b
}
