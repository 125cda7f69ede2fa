package usecase

import (
	"context"
	"errors"
	"testing"

	"github.com/Lucafivan/Ship-Operation-Systems/internal/domain/entity"
	"github.com/Lucafivan/Ship-Operation-Systems/internal/infrastructure/apiclient"
	repo "github.com/Lucafivan/Ship-Operation-Systems/internal/interface/repository"
	"github.com/Lucafivan/Ship-Operation-Systems/pkg/logger"
	"github.com/Lucafivan/Ship-Operation-Systems/pkg/metrics"

	"github.com/prometheus/client_golang/prometheus"
)

func enabledStages(row entity.ContainerMovement) []entity.Stage {
	var out []entity.Stage
	for _, tab := range Tabs(row) {
		if !tab.Disabled {
			out = append(out, tab.Stage)
		}
	}
	return out
}

func TestTabs_ZeroBongkaranUnlocksOnlyBongkaran(t *testing.T) {
	row := entity.ContainerMovement{
		ID:                 int64Ptr(1),
		BongkaranEmpty20DC: entity.Float(0),
		BongkaranEmpty40HC: entity.Float(0),
		BongkaranFull20DC:  entity.Float(0),
		BongkaranFull40HC:  entity.Float(0),
	}

	enabled := enabledStages(row)
	if len(enabled) != 1 || enabled[0] != entity.StageBongkaran {
		t.Errorf("Expected only bongkaran enabled, got %v", enabled)
	}
	if got := InitialTab(row); got != entity.StageBongkaran {
		t.Errorf("Expected initial tab bongkaran, got %s", got)
	}
}

func TestTabs_UnlockChain(t *testing.T) {
	row := entity.ContainerMovement{BongkaranFull20DC: entity.Float(3)}
	if got := enabledStages(row); len(got) != 2 {
		t.Fatalf("Expected bongkaran and pengajuan, got %v", got)
	}
	if got := InitialTab(row); got != entity.StagePengajuan {
		t.Errorf("Expected initial tab pengajuan, got %s", got)
	}

	row.PengajuanFull20DC = entity.Float(2)
	if got := enabledStages(row); len(got) != 3 {
		t.Fatalf("Expected three stages, got %v", got)
	}

	// realisasi waits for the pengajuan TEUs total
	row.AccPengajuanFull20DC = entity.Float(2)
	if StageEnabled(row, entity.StageRealisasi) {
		t.Error("Expected realisasi to stay locked without teus_pengajuan")
	}
	row.TeusPengajuan = entity.Float(2)
	if !StageEnabled(row, entity.StageRealisasi) {
		t.Error("Expected realisasi to unlock with teus_pengajuan")
	}
	if got := InitialTab(row); got != entity.StageRealisasi {
		t.Errorf("Expected initial tab realisasi, got %s", got)
	}

	row.RealisasiFXD20DC = entity.Float(2)
	if StageEnabled(row, entity.StageObstacles) {
		t.Error("Expected obstacles to stay locked without teus_realisasi")
	}
	if got := InitialTab(row); got != entity.StageObstacles {
		t.Errorf("Expected initial tab obstacles, got %s", got)
	}
	row.TeusRealisasi = entity.Float(2)
	if got := enabledStages(row); len(got) != 5 {
		t.Errorf("Expected every stage enabled, got %v", got)
	}
}

func TestStagePayload_OnlyStageFields(t *testing.T) {
	row := entity.ContainerMovement{ID: int64Ptr(5), VoyageID: 50, Obstacles: "Hujan"}
	form := FormFromRow(row)
	form.Quantities[entity.FieldBongkaranEmpty20DC] = 4
	form.Quantities[entity.FieldRealisasiMXD20DC] = 9

	payload, err := StagePayload(row, entity.StageBongkaran, form)
	if err != nil {
		t.Fatalf("StagePayload failed: %v", err)
	}
	if len(payload) != 6 {
		t.Errorf("Expected id, voyage_id and four quantities, got %v", payload)
	}
	if payload["voyage_id"] != int64(50) || payload[entity.FieldBongkaranEmpty20DC] != 4.0 {
		t.Errorf("Unexpected payload %v", payload)
	}
	if _, ok := payload[entity.FieldRealisasiMXD20DC]; ok {
		t.Error("Expected other stages' fields to be left out")
	}
	if payload[entity.FieldBongkaranFull40HC] != 0.0 {
		t.Errorf("Expected missing quantity as 0, got %v", payload[entity.FieldBongkaranFull40HC])
	}

	payload, _ = StagePayload(row, entity.StageRealisasi, form)
	if payload["obstacles"] != "Hujan" {
		t.Errorf("Expected realisasi to carry obstacles, got %v", payload["obstacles"])
	}
	if _, ok := payload["voyage_id"]; ok {
		t.Error("Expected voyage_id only on bongkaran")
	}
}

func newTestEditor(movements *fakeMovementRepo, notifier Notifier) (*StageEditor, *repo.MemorySubmissionRepository) {
	journal := repo.NewMemorySubmissionRepository()
	return NewStageEditor(movements, journal, notifier, newTestMetrics(), logger.NewNopLogger()), journal
}

func TestStageEditor_SaveSuccessRefreshes(t *testing.T) {
	movements := &fakeMovementRepo{}
	notifier := &recordingNotifier{}
	editor, journal := newTestEditor(movements, notifier)

	row := entity.ContainerMovement{ID: int64Ptr(8), VoyageID: 80}
	form := FormFromRow(row)
	form.Quantities[entity.FieldBongkaranFull40HC] = 12

	refreshed := 0
	refresh := func(ctx context.Context) error {
		refreshed++
		return errors.New("refresh failed")
	}

	if err := editor.Save(context.Background(), row, entity.StageBongkaran, form, refresh); err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	if len(movements.stages) != 1 || movements.stages[0] != entity.StageBongkaran {
		t.Fatalf("Expected one bongkaran save, got %v", movements.stages)
	}
	if movements.saves[0][entity.FieldBongkaranFull40HC] != 12.0 {
		t.Errorf("Unexpected payload %v", movements.saves[0])
	}
	if refreshed != 1 {
		t.Errorf("Expected one refresh, got %d", refreshed)
	}

	notes := notifier.all()
	if len(notes) != 1 || notes[0].level != entity.LevelSuccess || notes[0].message != "Berhasil memperbarui Bongkaran" {
		t.Errorf("Unexpected notifications %+v", notes)
	}

	entries, _ := journal.Recent(context.Background(), 8, 10)
	if len(entries) != 1 || entries[0].Status != entity.SubmissionSucceeded {
		t.Errorf("Expected one succeeded journal entry, got %+v", entries)
	}
}

func TestStageEditor_LockedStageIsRefused(t *testing.T) {
	movements := &fakeMovementRepo{}
	editor, _ := newTestEditor(movements, &recordingNotifier{})

	row := entity.ContainerMovement{ID: int64Ptr(1)}
	err := editor.Save(context.Background(), row, entity.StageAccPengajuan, FormFromRow(row), nil)
	if !errors.Is(err, ErrStageLocked) {
		t.Fatalf("Expected ErrStageLocked, got %v", err)
	}
	if len(movements.saves) != 0 {
		t.Error("Expected no request for a locked stage")
	}
}

func TestStageEditor_OneNotificationPerViolation(t *testing.T) {
	movements := &fakeMovementRepo{save: func(ctx context.Context, stage entity.Stage, payload map[string]interface{}) error {
		return &apiclient.APIError{
			Status: 400,
			Violations: []apiclient.Violation{
				{Msg: "ACC 20DC melebihi Pengajuan"},
				{},
			},
		}
	}}
	notifier := &recordingNotifier{}
	editor, journal := newTestEditor(movements, notifier)

	row := entity.ContainerMovement{ID: int64Ptr(2), PengajuanEmpty20DC: entity.Float(4)}
	refreshed := false
	err := editor.Save(context.Background(), row, entity.StageAccPengajuan, FormFromRow(row), func(ctx context.Context) error {
		refreshed = true
		return nil
	})

	var apiErr *apiclient.APIError
	if !errors.As(err, &apiErr) {
		t.Fatalf("Expected APIError, got %v", err)
	}
	if refreshed {
		t.Error("Expected no refresh after a rejected save")
	}

	notes := notifier.all()
	if len(notes) != 2 {
		t.Fatalf("Expected two notifications, got %+v", notes)
	}
	if notes[0].message != "ACC 20DC melebihi Pengajuan" || notes[1].message != "ACC melebihi Pengajuan" {
		t.Errorf("Unexpected violation messages %+v", notes)
	}

	entries, _ := journal.Recent(context.Background(), 2, 10)
	if len(entries) != 1 || entries[0].Status != entity.SubmissionRejected || entries[0].Violations != 2 {
		t.Errorf("Expected one rejected journal entry, got %+v", entries)
	}
}

func TestStageEditor_FailureMessage(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want string
	}{
		{"server message", &apiclient.APIError{Status: 500, Msg: "Data tidak ditemukan"}, "Data tidak ditemukan"},
		{"stage default", &apiclient.APIError{Status: 500}, "Gagal memperbarui bongkaran"},
		{"transport", errors.New("connection reset"), "Gagal memperbarui bongkaran"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			movements := &fakeMovementRepo{save: func(ctx context.Context, stage entity.Stage, payload map[string]interface{}) error {
				return tt.err
			}}
			notifier := &recordingNotifier{}
			editor, _ := newTestEditor(movements, notifier)

			row := entity.ContainerMovement{ID: int64Ptr(3)}
			if err := editor.Save(context.Background(), row, entity.StageBongkaran, FormFromRow(row), nil); err == nil {
				t.Fatal("Expected save error")
			}

			notes := notifier.all()
			if len(notes) != 1 || notes[0].message != tt.want || notes[0].level != entity.LevelError {
				t.Errorf("Expected %q, got %+v", tt.want, notes)
			}
		})
	}
}

// recordStore serves pages from rows and applies stage saves to them
type recordStore struct {
	rows []entity.ContainerMovement
}

func (s *recordStore) list(ctx context.Context, q entity.ListQuery) (*entity.Page, error) {
	data := append([]entity.ContainerMovement(nil), s.rows...)
	return &entity.Page{Data: data, Pages: 3, CurrentPage: q.Page, Total: 25}, nil
}

func (s *recordStore) save(ctx context.Context, stage entity.Stage, payload map[string]interface{}) error {
	id, _ := payload["id"].(*int64)
	for i := range s.rows {
		if id == nil || s.rows[i].Key() != *id {
			continue
		}
		for name, v := range payload {
			q, ok := v.(float64)
			if !ok {
				continue
			}
			if ref := s.rows[i].QuantityRef(name); ref != nil {
				*ref = entity.Float(q)
			}
		}
		return nil
	}
	return errors.New("record not found")
}

func TestStageEditor_SaveThenRefreshShowsSubmittedValues(t *testing.T) {
	store := &recordStore{rows: []entity.ContainerMovement{rowWithID(21), rowWithID(22)}}
	movements := &fakeMovementRepo{list: store.list, save: store.save}
	notifier := &recordingNotifier{}
	monitor := newTestMonitor(t, movements, notifier)
	editor, _ := newTestEditor(movements, notifier)
	ctx := context.Background()

	if err := monitor.SetPage(ctx, 2); err != nil {
		t.Fatalf("SetPage failed: %v", err)
	}
	row, ok := monitor.Row(22)
	if !ok {
		t.Fatal("Expected row 22 on the loaded page")
	}

	form := FormFromRow(row)
	form.Quantities[entity.FieldBongkaranEmpty20DC] = 6
	form.Quantities[entity.FieldBongkaranFull40HC] = 11
	before := len(movements.listCalls())

	if err := editor.Save(ctx, row, entity.StageBongkaran, form, monitor.Refresh); err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	calls := movements.listCalls()
	if len(calls) != before+1 {
		t.Fatalf("Expected one refetch after the save, got %d", len(calls)-before)
	}
	if calls[len(calls)-1].Page != 2 {
		t.Errorf("Expected the current page 2 to be refetched, got %d", calls[len(calls)-1].Page)
	}

	var edited *entity.ContainerMovement
	for _, r := range monitor.View().Data {
		if r.Key() == 22 {
			r := r
			edited = &r
		}
	}
	if edited == nil {
		t.Fatal("Expected row 22 in the refreshed view")
	}
	if v, ok := edited.Quantity(entity.FieldBongkaranEmpty20DC); !ok || v != 6 {
		t.Errorf("Expected bongkaran_empty_20dc 6, got %v (%v)", v, ok)
	}
	if v, ok := edited.Quantity(entity.FieldBongkaranFull40HC); !ok || v != 11 {
		t.Errorf("Expected bongkaran_full_40hc 11, got %v (%v)", v, ok)
	}
	if v, ok := edited.Quantity(entity.FieldBongkaranEmpty40HC); !ok || v != 0 {
		t.Errorf("Expected untouched bongkaran_empty_40hc saved as 0, got %v (%v)", v, ok)
	}
}

// errorCount reads test_errors_total for operation from reg
func errorCount(t *testing.T, reg *prometheus.Registry, operation string) float64 {
	t.Helper()
	families, err := reg.Gather()
	if err != nil {
		t.Fatalf("Gather failed: %v", err)
	}
	for _, family := range families {
		if family.GetName() != "test_errors_total" {
			continue
		}
		for _, metric := range family.GetMetric() {
			for _, label := range metric.GetLabel() {
				if label.GetName() == "operation" && label.GetValue() == operation {
					return metric.GetCounter().GetValue()
				}
			}
		}
	}
	return 0
}

func TestStageEditor_FailureCountsError(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := metrics.NewMetrics("test", reg)
	movements := &fakeMovementRepo{save: func(ctx context.Context, stage entity.Stage, payload map[string]interface{}) error {
		return errors.New("connection reset")
	}}
	editor := NewStageEditor(movements, repo.NewMemorySubmissionRepository(), &recordingNotifier{}, m, logger.NewNopLogger())

	row := entity.ContainerMovement{ID: int64Ptr(4)}
	editor.Save(context.Background(), row, entity.StageBongkaran, FormFromRow(row), nil)

	if got := errorCount(t, reg, "save_stage"); got != 1 {
		t.Errorf("Expected 1 save_stage error, got %v", got)
	}
}
