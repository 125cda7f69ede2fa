package repository

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"

	"github.com/Lucafivan/Ship-Operation-Systems/internal/domain/entity"
	"github.com/Lucafivan/Ship-Operation-Systems/internal/domain/repository"
)

// RestDashboardRepository reads the dashboard aggregates
type RestDashboardRepository struct {
	backend Backend
}

func NewRestDashboardRepository(backend Backend) repository.DashboardRepository {
	return &RestDashboardRepository{backend: backend}
}

func (r *RestDashboardRepository) SummaryByPort(ctx context.Context) ([]entity.PortSummary, error) {
	var summary []entity.PortSummary
	if err := r.backend.Get(ctx, "/container_movements/summary-by-port", nil, &summary); err != nil {
		return nil, err
	}
	if summary == nil {
		summary = []entity.PortSummary{}
	}
	return summary, nil
}

func (r *RestDashboardRepository) PercentagesByPort(ctx context.Context, portID int64) (*entity.PortPercentages, error) {
	var pct entity.PortPercentages
	if err := r.backend.Get(ctx, fmt.Sprintf("/percentages/by-port/%d", portID), nil, &pct); err != nil {
		return nil, err
	}
	return &pct, nil
}

// RestCostRepository reads cost estimations
type RestCostRepository struct {
	backend Backend
}

func NewRestCostRepository(backend Backend) repository.CostRepository {
	return &RestCostRepository{backend: backend}
}

// Estimation returns nil when the backend answers with an empty payload
func (r *RestCostRepository) Estimation(ctx context.Context, voyageID int64) (*entity.VoyageEstimation, error) {
	var raw json.RawMessage
	if err := r.backend.Get(ctx, fmt.Sprintf("/cost/cost-estimation/%d", voyageID), nil, &raw); err != nil {
		return nil, err
	}

	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null")) {
		return nil, nil
	}

	var estimation entity.VoyageEstimation
	if err := json.Unmarshal(trimmed, &estimation); err != nil {
		return nil, fmt.Errorf("failed to decode cost estimation: %w", err)
	}
	estimation.VoyageID = voyageID
	return &estimation, nil
}
