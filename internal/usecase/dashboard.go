package usecase

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"

	"github.com/Lucafivan/Ship-Operation-Systems/internal/domain/entity"
	"github.com/Lucafivan/Ship-Operation-Systems/internal/domain/repository"
	"github.com/Lucafivan/Ship-Operation-Systems/pkg/logger"
)

const (
	MsgSummaryFailed     = "Gagal memuat data ringkasan untuk dashboard."
	MsgPercentagesFailed = "Gagal memuat persentase untuk port terpilih."

	sourceDashboard = "dashboard"
)

// Dashboard holds the per-port aggregates and the selected port
type Dashboard struct {
	repo     repository.DashboardRepository
	notifier Notifier
	logger   logger.Logger

	mu          sync.Mutex
	summary     []entity.PortSummary
	selected    *int64
	percentages *entity.PortPercentages
}

// NewDashboard creates a new dashboard
func NewDashboard(repo repository.DashboardRepository, notifier Notifier, logger logger.Logger) *Dashboard {
	return &Dashboard{
		repo:     repo,
		notifier: notifier,
		logger:   logger,
		summary:  []entity.PortSummary{},
	}
}

// Load fetches the summary and selects the alphabetically first port
func (d *Dashboard) Load(ctx context.Context) error {
	summary, err := d.repo.SummaryByPort(ctx)
	if err != nil {
		d.logger.Error("Failed to load port summary", "error", err)
		d.notifier.Notify(ctx, entity.LevelError, sourceDashboard, MsgSummaryFailed)
		return fmt.Errorf("failed to load summary: %w", err)
	}
	if summary == nil {
		summary = []entity.PortSummary{}
	}

	d.mu.Lock()
	d.summary = summary
	d.mu.Unlock()

	first, ok := FirstPortAlphabetically(summary)
	if !ok {
		return nil
	}
	return d.SelectPort(ctx, first.PortID)
}

// FirstPortAlphabetically picks the port whose name sorts first, ignoring case
func FirstPortAlphabetically(summary []entity.PortSummary) (entity.PortSummary, bool) {
	if len(summary) == 0 {
		return entity.PortSummary{}, false
	}
	sorted := make([]entity.PortSummary, len(summary))
	copy(sorted, summary)
	sort.SliceStable(sorted, func(i, j int) bool {
		return strings.ToLower(sorted[i].PortName) < strings.ToLower(sorted[j].PortName)
	})
	return sorted[0], true
}

// SelectPort loads the percentages of portID. On failure the percentages are cleared.
func (d *Dashboard) SelectPort(ctx context.Context, portID int64) error {
	d.mu.Lock()
	id := portID
	d.selected = &id
	d.mu.Unlock()

	pct, err := d.repo.PercentagesByPort(ctx, portID)

	d.mu.Lock()
	defer d.mu.Unlock()

	// a newer selection may have landed while the request was in flight
	if d.selected == nil || *d.selected != portID {
		return nil
	}

	if err != nil {
		d.percentages = nil
		d.logger.Error("Failed to load port percentages", "portId", portID, "error", err)
		d.notifier.Notify(ctx, entity.LevelError, sourceDashboard, MsgPercentagesFailed)
		return fmt.Errorf("failed to load percentages for port %d: %w", portID, err)
	}
	d.percentages = pct
	return nil
}

// ChartData returns [Total Pengajuan, Total Realisasi] of the selected port
func (d *Dashboard) ChartData() []entity.ChartPoint {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.chartData()
}

func (d *Dashboard) chartData() []entity.ChartPoint {
	points := []entity.ChartPoint{}
	if d.selected == nil {
		return points
	}
	for _, port := range d.summary {
		if port.PortID == *d.selected {
			return append(points,
				entity.ChartPoint{Name: "Total Pengajuan", Value: port.TotalPengajuan},
				entity.ChartPoint{Name: "Total Realisasi", Value: port.TotalRealisasi},
			)
		}
	}
	return points
}

// View returns the dashboard state
func (d *Dashboard) View() entity.DashboardView {
	d.mu.Lock()
	defer d.mu.Unlock()

	view := entity.DashboardView{
		Summary:     append([]entity.PortSummary(nil), d.summary...),
		Percentages: d.percentages,
		Chart:       d.chartData(),
	}
	if view.Summary == nil {
		view.Summary = []entity.PortSummary{}
	}
	if d.selected != nil {
		id := *d.selected
		view.SelectedPort = &id
	}
	if d.percentages != nil {
		if by, ok := d.percentages.Percentages.BySize[entity.Size20DC]; ok {
			view.By20DC = &by
		}
		if by, ok := d.percentages.Percentages.BySize[entity.Size40HC]; ok {
			view.By40HC = &by
		}
	}
	return view
}
