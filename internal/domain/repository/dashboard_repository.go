package repository

import (
	"context"

	"github.com/Lucafivan/Ship-Operation-Systems/internal/domain/entity"
)

// DashboardRepository defines the dashboard aggregate reads
type DashboardRepository interface {
	SummaryByPort(ctx context.Context) ([]entity.PortSummary, error)
	PercentagesByPort(ctx context.Context, portID int64) (*entity.PortPercentages, error)
}

// CostRepository reads cost estimations. A nil estimation means the backend
// returned an empty payload.
type CostRepository interface {
	Estimation(ctx context.Context, voyageID int64) (*entity.VoyageEstimation, error)
}
