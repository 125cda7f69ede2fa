package entity

import "testing"

func TestSortConfig_Toggle(t *testing.T) {
	var cfg *SortConfig
	cfg = cfg.Toggle(SortPortName)
	if cfg.Key != SortPortName || cfg.Direction != SortAsc {
		t.Errorf("Expected port_name asc from nil, got %+v", cfg)
	}

	cfg = cfg.Toggle(SortPortName)
	if cfg.Direction != SortDesc {
		t.Errorf("Expected desc on second toggle, got %+v", cfg)
	}

	cfg = cfg.Toggle(SortPortName)
	if cfg.Direction != SortAsc {
		t.Errorf("Expected asc on third toggle, got %+v", cfg)
	}

	cfg = DefaultSort().Toggle(SortVesselName)
	if cfg.Key != SortVesselName || cfg.Direction != SortAsc {
		t.Errorf("Expected a new key to start ascending, got %+v", cfg)
	}
}

func TestStage_Endpoint(t *testing.T) {
	tests := map[Stage]string{
		StageBongkaran:    "bongkaran",
		StagePengajuan:    "pengajuan",
		StageAccPengajuan: "acc_pengajuan",
		StageRealisasi:    "realisasi_shipside",
		StageObstacles:    "obstacles",
		Stage("draft"):    "",
	}
	for stage, want := range tests {
		if got := stage.Endpoint(); got != want {
			t.Errorf("Expected %q for %s, got %q", want, stage, got)
		}
	}
}

func TestOverlay_MergeFillsOnlyMissing(t *testing.T) {
	row := ContainerMovement{PengajuanEmpty20DC: Float(4)}
	overlay := Overlay{
		FieldPengajuanEmpty20DC: 9,
		FieldPengajuanFull40HC:  2,
		"not_a_column":          1,
	}

	merged := overlay.Merge(row)
	if v, _ := merged.Quantity(FieldPengajuanEmpty20DC); v != 4 {
		t.Errorf("Expected recorded value 4 to win, got %v", v)
	}
	if v, ok := merged.Quantity(FieldPengajuanFull40HC); !ok || v != 2 {
		t.Errorf("Expected predicted 2, got %v (%v)", v, ok)
	}
	if row.PengajuanFull40HC != nil {
		t.Error("Expected the original row to stay untouched")
	}
}

func TestContainerMovement_KeyAndFieldString(t *testing.T) {
	id := int64(12)
	year := 2024
	row := ContainerMovement{ID: &id, VoyageID: 99, VoyageYear: &year, BongkaranFull20DC: Float(1.5)}

	if row.Key() != 12 {
		t.Errorf("Expected key 12, got %d", row.Key())
	}
	row.ID = nil
	if row.Key() != 99 {
		t.Errorf("Expected voyage id as key, got %d", row.Key())
	}

	if s, ok := row.FieldString("voyage_year"); !ok || s != "2024" {
		t.Errorf("Expected 2024, got %q", s)
	}
	if _, ok := row.FieldString("bongkaran_empty_20dc"); ok {
		t.Error("Expected null quantity to report false")
	}
	if _, ok := row.FieldString("unknown"); ok {
		t.Error("Expected unknown column to report false")
	}
}

func TestPredictionResult_First(t *testing.T) {
	var empty *PredictionResult
	if _, ok := empty.First(); ok {
		t.Error("Expected nil result to have no first value")
	}

	r := &PredictionResult{Keys: []string{"b", "a"}, Values: map[string]float64{"a": 1, "b": 2}}
	if v, ok := r.First(); !ok || v != 2 {
		t.Errorf("Expected first key b=2, got %v", v)
	}
}
