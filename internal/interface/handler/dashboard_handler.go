package handler

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/Lucafivan/Ship-Operation-Systems/internal/infrastructure/apiclient"
	"github.com/Lucafivan/Ship-Operation-Systems/internal/usecase"
	"github.com/Lucafivan/Ship-Operation-Systems/pkg/logger"
	"github.com/Lucafivan/Ship-Operation-Systems/pkg/utils"

	"github.com/go-chi/chi/v5"
)

// DashboardHandler serves the per-port aggregates
type DashboardHandler struct {
	dashboard *usecase.Dashboard
	logger    logger.Logger
}

func NewDashboardHandler(dashboard *usecase.Dashboard, logger logger.Logger) *DashboardHandler {
	return &DashboardHandler{
		dashboard: dashboard,
		logger:    logger,
	}
}

// Get returns the dashboard. ?reload=1 or an empty summary loads it first.
func (h *DashboardHandler) Get(w http.ResponseWriter, r *http.Request) {
	view := h.dashboard.View()
	if parseBool(r.URL.Query().Get("reload")) || len(view.Summary) == 0 {
		if err := h.dashboard.Load(r.Context()); err != nil {
			respondUpstream(w, err, usecase.MsgSummaryFailed)
			return
		}
	}
	utils.RespondJSON(w, http.StatusOK, h.dashboard.View())
}

// SelectPort switches the percentages to another port
func (h *DashboardHandler) SelectPort(w http.ResponseWriter, r *http.Request) {
	portID, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		utils.RespondError(w, http.StatusBadRequest, "Invalid port id")
		return
	}

	if err := h.dashboard.SelectPort(r.Context(), portID); err != nil {
		respondUpstream(w, err, usecase.MsgPercentagesFailed)
		return
	}
	utils.RespondJSON(w, http.StatusOK, h.dashboard.View())
}

// CostHandler serves the cost estimation columns
type CostHandler struct {
	costs   *usecase.CostEstimator
	monitor *usecase.Monitor
}

func NewCostHandler(costs *usecase.CostEstimator, monitor *usecase.Monitor) *CostHandler {
	return &CostHandler{
		costs:   costs,
		monitor: monitor,
	}
}

// Get toggles the cost columns with ?show and returns the cached estimations
func (h *CostHandler) Get(w http.ResponseWriter, r *http.Request) {
	if v := r.URL.Query().Get("show"); v != "" {
		h.costs.SetShowCost(r.Context(), parseBool(v), h.monitor.View().Data)
	}
	utils.RespondJSON(w, http.StatusOK, map[string]interface{}{
		"show_cost":   h.costs.ShowCost(),
		"estimations": h.costs.Estimations(),
	})
}

// NotificationHandler lists recent notifications
type NotificationHandler struct {
	center *usecase.NotificationCenter
}

func NewNotificationHandler(center *usecase.NotificationCenter) *NotificationHandler {
	return &NotificationHandler{center: center}
}

func (h *NotificationHandler) List(w http.ResponseWriter, r *http.Request) {
	utils.RespondJSON(w, http.StatusOK, h.center.Recent())
}

func respondUpstream(w http.ResponseWriter, err error, message string) {
	if errors.Is(err, apiclient.ErrUnauthenticated) {
		utils.RespondError(w, http.StatusUnauthorized, "Session expired")
		return
	}
	utils.RespondError(w, http.StatusBadGateway, message)
}
