package usecase

import (
	"context"
	"errors"
	"testing"

	"github.com/Lucafivan/Ship-Operation-Systems/internal/domain/entity"
	"github.com/Lucafivan/Ship-Operation-Systems/pkg/logger"
)

type fakeDashboardRepo struct {
	summary     []entity.PortSummary
	summaryErr  error
	percentages map[int64]*entity.PortPercentages
	failPorts   map[int64]bool
	requested   []int64
}

func (r *fakeDashboardRepo) SummaryByPort(ctx context.Context) ([]entity.PortSummary, error) {
	return r.summary, r.summaryErr
}

func (r *fakeDashboardRepo) PercentagesByPort(ctx context.Context, portID int64) (*entity.PortPercentages, error) {
	r.requested = append(r.requested, portID)
	if r.failPorts[portID] {
		return nil, errors.New("bad gateway")
	}
	return r.percentages[portID], nil
}

func portPercentages(id int64, name string) *entity.PortPercentages {
	pct := &entity.PortPercentages{PortID: id, PortName: name}
	pct.Percentages.Realisasi = 80
	pct.Percentages.BySize = map[string]entity.StagePercentages{
		entity.Size20DC: {Pengajuan: 10},
		entity.Size40HC: {Pengajuan: 20},
	}
	return pct
}

func TestFirstPortAlphabetically_IgnoresCase(t *testing.T) {
	summary := []entity.PortSummary{
		{PortID: 1, PortName: "makassar"},
		{PortID: 2, PortName: "Balikpapan"},
		{PortID: 3, PortName: "ambon"},
	}

	first, ok := FirstPortAlphabetically(summary)
	if !ok || first.PortID != 3 {
		t.Errorf("Expected ambon, got %+v", first)
	}

	if _, ok := FirstPortAlphabetically(nil); ok {
		t.Error("Expected no port for an empty summary")
	}
}

func TestDashboard_LoadSelectsFirstPort(t *testing.T) {
	repo := &fakeDashboardRepo{
		summary: []entity.PortSummary{
			{PortID: 4, PortName: "Surabaya", TotalPengajuan: 10, TotalRealisasi: 7},
			{PortID: 9, PortName: "Jakarta", TotalPengajuan: 30, TotalRealisasi: 25},
		},
		percentages: map[int64]*entity.PortPercentages{9: portPercentages(9, "Jakarta")},
	}
	d := NewDashboard(repo, &recordingNotifier{}, logger.NewNopLogger())

	if err := d.Load(context.Background()); err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	view := d.View()
	if view.SelectedPort == nil || *view.SelectedPort != 9 {
		t.Fatalf("Expected port 9 selected, got %v", view.SelectedPort)
	}
	if view.Percentages == nil || view.Percentages.Percentages.Realisasi != 80 {
		t.Errorf("Unexpected percentages %+v", view.Percentages)
	}
	if view.By20DC == nil || view.By20DC.Pengajuan != 10 || view.By40HC == nil || view.By40HC.Pengajuan != 20 {
		t.Errorf("Unexpected size breakdown %+v %+v", view.By20DC, view.By40HC)
	}

	chart := d.ChartData()
	if len(chart) != 2 || chart[0].Value != 30 || chart[1].Value != 25 {
		t.Errorf("Unexpected chart %+v", chart)
	}
	if chart[0].Name != "Total Pengajuan" || chart[1].Name != "Total Realisasi" {
		t.Errorf("Unexpected chart labels %+v", chart)
	}
}

func TestDashboard_SelectPortFailureClearsPercentages(t *testing.T) {
	repo := &fakeDashboardRepo{
		summary:     []entity.PortSummary{{PortID: 1, PortName: "Ambon"}, {PortID: 2, PortName: "Bitung"}},
		percentages: map[int64]*entity.PortPercentages{1: portPercentages(1, "Ambon")},
		failPorts:   map[int64]bool{2: true},
	}
	notifier := &recordingNotifier{}
	d := NewDashboard(repo, notifier, logger.NewNopLogger())

	if err := d.Load(context.Background()); err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if err := d.SelectPort(context.Background(), 2); err == nil {
		t.Fatal("Expected SelectPort to fail")
	}

	view := d.View()
	if view.Percentages != nil || view.By20DC != nil {
		t.Errorf("Expected percentages to be cleared, got %+v", view.Percentages)
	}
	if view.SelectedPort == nil || *view.SelectedPort != 2 {
		t.Errorf("Expected port 2 to stay selected, got %v", view.SelectedPort)
	}

	notes := notifier.all()
	if len(notes) != 1 || notes[0].message != MsgPercentagesFailed {
		t.Errorf("Expected one percentages notification, got %+v", notes)
	}
}

func TestDashboard_LoadFailureNotifies(t *testing.T) {
	repo := &fakeDashboardRepo{summaryErr: errors.New("timeout")}
	notifier := &recordingNotifier{}
	d := NewDashboard(repo, notifier, logger.NewNopLogger())

	if err := d.Load(context.Background()); err == nil {
		t.Fatal("Expected Load to fail")
	}

	view := d.View()
	if view.Summary == nil || len(view.Summary) != 0 {
		t.Errorf("Expected empty summary, got %+v", view.Summary)
	}
	if len(view.Chart) != 0 {
		t.Errorf("Expected empty chart, got %+v", view.Chart)
	}
	if notes := notifier.all(); len(notes) != 1 || notes[0].message != MsgSummaryFailed {
		t.Errorf("Expected one summary notification, got %+v", notes)
	}
	if len(repo.requested) != 0 {
		t.Errorf("Expected no percentages request, got %v", repo.requested)
	}
}
