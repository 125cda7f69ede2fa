package entity

// SizeKey is a container size bucket used by the prediction endpoints
type SizeKey string

const (
	SizeEmpty20 SizeKey = "empty_20"
	SizeEmpty40 SizeKey = "empty_40"
	SizeFull20  SizeKey = "full_20"
	SizeFull40  SizeKey = "full_40"
)

// SizeKeys in the order predictions are requested
var SizeKeys = []SizeKey{SizeEmpty20, SizeEmpty40, SizeFull20, SizeFull40}

// PredictionMode is the next stage inferred from which upstream values exist
type PredictionMode string

const (
	ModeNone      PredictionMode = "none"
	ModePengajuan PredictionMode = "pengajuan"
	ModeAcc       PredictionMode = "acc"
	ModeRealisasi PredictionMode = "realisasi"
)

// Route returns the prediction endpoint segment for the mode
func (m PredictionMode) Route() string {
	switch m {
	case ModePengajuan:
		return "bongkaran_to_pengajuan"
	case ModeAcc:
		return "pengajuan_to_acc"
	case ModeRealisasi:
		return "acc_to_realisasi"
	}
	return ""
}

// SizeBucket groups one size's values across the upstream stages
type SizeBucket struct {
	Size      SizeKey
	Bongkaran string
	Pengajuan string
	Acc       string
	Realisasi string
	ShipYes   string
	ShipNo    string
	// suffix of the realisasi model output keys, e.g. MXD_20_DC
	ResultSuffix string
}

// SizeBuckets maps each size key to its column names
var SizeBuckets = []SizeBucket{
	{SizeEmpty20, FieldBongkaranEmpty20DC, FieldPengajuanEmpty20DC, FieldAccPengajuanEmpty20DC,
		FieldRealisasiMXD20DC, FieldShipsideYesMXD20DC, FieldShipsideNoMXD20DC, "MXD_20_DC"},
	{SizeEmpty40, FieldBongkaranEmpty40HC, FieldPengajuanEmpty40HC, FieldAccPengajuanEmpty40HC,
		FieldRealisasiMXD40HC, FieldShipsideYesMXD40HC, FieldShipsideNoMXD40HC, "MXD_40_HC"},
	{SizeFull20, FieldBongkaranFull20DC, FieldPengajuanFull20DC, FieldAccPengajuanFull20DC,
		FieldRealisasiFXD20DC, FieldShipsideYesFXD20DC, FieldShipsideNoFXD20DC, "FXD_20_DC"},
	{SizeFull40, FieldBongkaranFull40HC, FieldPengajuanFull40HC, FieldAccPengajuanFull40HC,
		FieldRealisasiFXD40HC, FieldShipsideYesFXD40HC, FieldShipsideNoFXD40HC, "FXD_40_HC"},
}

// Overlay is a partial record of predicted quantities keyed by column name
type Overlay map[string]float64

// Merge returns a copy of row with overlay values filled in where the row has
// no recorded value. The row itself is never modified.
func (o Overlay) Merge(row ContainerMovement) ContainerMovement {
	merged := row
	for name, v := range o {
		ref := merged.QuantityRef(name)
		if ref == nil || *ref != nil {
			continue
		}
		value := v
		*ref = &value
	}
	return merged
}

// Features is the model input, keyed by the training column names
type Features map[string]interface{}

// PredictionResult is the `prediction` object of a model response. Keys keep the
// order the model returned them in; Values only holds the numeric ones.
type PredictionResult struct {
	Keys   []string
	Values map[string]float64
}

// First returns the value of the first key, used by the single-output models.
// It reports false when that value is not numeric.
func (r *PredictionResult) First() (float64, bool) {
	if r == nil || len(r.Keys) == 0 {
		return 0, false
	}
	v, ok := r.Values[r.Keys[0]]
	return v, ok
}

// Get returns a named output
func (r *PredictionResult) Get(key string) (float64, bool) {
	if r == nil {
		return 0, false
	}
	v, ok := r.Values[key]
	return v, ok
}
