// internal/domain/entity/container_movement.go
package entity

import (
	"strconv"

	"github.com/Lucafivan/Ship-Operation-Systems/pkg/utils"
)

// ContainerMovement is one monitoring row per voyage. Quantities are nullable:
// a nil value means the stage has not been recorded, which is different from zero.
type ContainerMovement struct {
	ID              *int64 `json:"id"`
	VoyageID        int64  `json:"voyage_id"`
	VesselName      string `json:"vessel_name"`
	VoyageNumber    string `json:"voyage_number"`
	VoyageYear      *int   `json:"voyage_year"`
	PortID          *int64 `json:"port_id"`
	PortName        string `json:"port_name"`
	VoyageBerthLoc  string `json:"voyage_berth_loc,omitempty"`
	VoyageDateBerth string `json:"voyage_date_berth"`

	BongkaranEmpty20DC *float64 `json:"bongkaran_empty_20dc"`
	BongkaranEmpty40HC *float64 `json:"bongkaran_empty_40hc"`
	BongkaranFull20DC  *float64 `json:"bongkaran_full_20dc"`
	BongkaranFull40HC  *float64 `json:"bongkaran_full_40hc"`

	PengajuanEmpty20DC *float64 `json:"pengajuan_empty_20dc"`
	PengajuanEmpty40HC *float64 `json:"pengajuan_empty_40hc"`
	PengajuanFull20DC  *float64 `json:"pengajuan_full_20dc"`
	PengajuanFull40HC  *float64 `json:"pengajuan_full_40hc"`

	AccPengajuanEmpty20DC *float64 `json:"acc_pengajuan_empty_20dc"`
	AccPengajuanEmpty40HC *float64 `json:"acc_pengajuan_empty_40hc"`
	AccPengajuanFull20DC  *float64 `json:"acc_pengajuan_full_20dc"`
	AccPengajuanFull40HC  *float64 `json:"acc_pengajuan_full_40hc"`

	TotalPengajuan20DC *float64 `json:"total_pengajuan_20dc"`
	TotalPengajuan40HC *float64 `json:"total_pengajuan_40hc"`
	TeusPengajuan      *float64 `json:"teus_pengajuan"`

	RealisasiMXD20DC *float64 `json:"realisasi_mxd_20dc"`
	RealisasiMXD40HC *float64 `json:"realisasi_mxd_40hc"`
	RealisasiFXD20DC *float64 `json:"realisasi_fxd_20dc"`
	RealisasiFXD40HC *float64 `json:"realisasi_fxd_40hc"`

	ShipsideYesMXD20DC *float64 `json:"shipside_yes_mxd_20dc"`
	ShipsideYesMXD40HC *float64 `json:"shipside_yes_mxd_40hc"`
	ShipsideYesFXD20DC *float64 `json:"shipside_yes_fxd_20dc"`
	ShipsideYesFXD40HC *float64 `json:"shipside_yes_fxd_40hc"`
	ShipsideNoMXD20DC  *float64 `json:"shipside_no_mxd_20dc"`
	ShipsideNoMXD40HC  *float64 `json:"shipside_no_mxd_40hc"`
	ShipsideNoFXD20DC  *float64 `json:"shipside_no_fxd_20dc"`
	ShipsideNoFXD40HC  *float64 `json:"shipside_no_fxd_40hc"`

	TotalRealisasi20DC *float64 `json:"total_realisasi_20dc"`
	TotalRealisasi40HC *float64 `json:"total_realisasi_40hc"`
	TeusRealisasi      *float64 `json:"teus_realisasi"`

	TurunCY20DC  *float64 `json:"turun_cy_20dc"`
	TurunCY40HC  *float64 `json:"turun_cy_40hc"`
	TeusTurunCY  *float64 `json:"teus_turun_cy"`
	PercentageVs *float64 `json:"percentage_vessel"`

	Obstacles       string `json:"obstacles"`
	CreatedAt       string `json:"created_at"`
	UpdatedAt       string `json:"updated_at"`
	VoyageCreatedAt string `json:"voyage_created_at"`
}

// Key identifies a row across pages: id when present, voyage id otherwise
func (m *ContainerMovement) Key() int64 {
	if m.ID != nil {
		return *m.ID
	}
	return m.VoyageID
}

// IDOrZero is used as the sort tie breaker
func (m *ContainerMovement) IDOrZero() int64 {
	if m.ID == nil {
		return 0
	}
	return *m.ID
}

// Quantity field names, in serialization order
const (
	FieldBongkaranEmpty20DC    = "bongkaran_empty_20dc"
	FieldBongkaranEmpty40HC    = "bongkaran_empty_40hc"
	FieldBongkaranFull20DC     = "bongkaran_full_20dc"
	FieldBongkaranFull40HC     = "bongkaran_full_40hc"
	FieldPengajuanEmpty20DC    = "pengajuan_empty_20dc"
	FieldPengajuanEmpty40HC    = "pengajuan_empty_40hc"
	FieldPengajuanFull20DC     = "pengajuan_full_20dc"
	FieldPengajuanFull40HC     = "pengajuan_full_40hc"
	FieldAccPengajuanEmpty20DC = "acc_pengajuan_empty_20dc"
	FieldAccPengajuanEmpty40HC = "acc_pengajuan_empty_40hc"
	FieldAccPengajuanFull20DC  = "acc_pengajuan_full_20dc"
	FieldAccPengajuanFull40HC  = "acc_pengajuan_full_40hc"
	FieldTotalPengajuan20DC    = "total_pengajuan_20dc"
	FieldTotalPengajuan40HC    = "total_pengajuan_40hc"
	FieldTeusPengajuan         = "teus_pengajuan"
	FieldRealisasiMXD20DC      = "realisasi_mxd_20dc"
	FieldRealisasiMXD40HC      = "realisasi_mxd_40hc"
	FieldRealisasiFXD20DC      = "realisasi_fxd_20dc"
	FieldRealisasiFXD40HC      = "realisasi_fxd_40hc"
	FieldShipsideYesMXD20DC    = "shipside_yes_mxd_20dc"
	FieldShipsideYesMXD40HC    = "shipside_yes_mxd_40hc"
	FieldShipsideYesFXD20DC    = "shipside_yes_fxd_20dc"
	FieldShipsideYesFXD40HC    = "shipside_yes_fxd_40hc"
	FieldShipsideNoMXD20DC     = "shipside_no_mxd_20dc"
	FieldShipsideNoMXD40HC     = "shipside_no_mxd_40hc"
	FieldShipsideNoFXD20DC     = "shipside_no_fxd_20dc"
	FieldShipsideNoFXD40HC     = "shipside_no_fxd_40hc"
	FieldTotalRealisasi20DC    = "total_realisasi_20dc"
	FieldTotalRealisasi40HC    = "total_realisasi_40hc"
	FieldTeusRealisasi         = "teus_realisasi"
	FieldTurunCY20DC           = "turun_cy_20dc"
	FieldTurunCY40HC           = "turun_cy_40hc"
	FieldTeusTurunCY           = "teus_turun_cy"
	FieldPercentageVessel      = "percentage_vessel"
)

// QuantityFields lists every nullable numeric column
var QuantityFields = []string{
	FieldBongkaranEmpty20DC, FieldBongkaranEmpty40HC, FieldBongkaranFull20DC, FieldBongkaranFull40HC,
	FieldPengajuanEmpty20DC, FieldPengajuanEmpty40HC, FieldPengajuanFull20DC, FieldPengajuanFull40HC,
	FieldAccPengajuanEmpty20DC, FieldAccPengajuanEmpty40HC, FieldAccPengajuanFull20DC, FieldAccPengajuanFull40HC,
	FieldTotalPengajuan20DC, FieldTotalPengajuan40HC, FieldTeusPengajuan,
	FieldRealisasiMXD20DC, FieldRealisasiMXD40HC, FieldRealisasiFXD20DC, FieldRealisasiFXD40HC,
	FieldShipsideYesMXD20DC, FieldShipsideYesMXD40HC, FieldShipsideYesFXD20DC, FieldShipsideYesFXD40HC,
	FieldShipsideNoMXD20DC, FieldShipsideNoMXD40HC, FieldShipsideNoFXD20DC, FieldShipsideNoFXD40HC,
	FieldTotalRealisasi20DC, FieldTotalRealisasi40HC, FieldTeusRealisasi,
	FieldTurunCY20DC, FieldTurunCY40HC, FieldTeusTurunCY, FieldPercentageVessel,
}

// QuantityRef returns the address of the named quantity, or nil when the name
// is not a quantity column.
func (m *ContainerMovement) QuantityRef(name string) **float64 {
	switch name {
	case FieldBongkaranEmpty20DC:
		return &m.BongkaranEmpty20DC
	case FieldBongkaranEmpty40HC:
		return &m.BongkaranEmpty40HC
	case FieldBongkaranFull20DC:
		return &m.BongkaranFull20DC
	case FieldBongkaranFull40HC:
		return &m.BongkaranFull40HC
	case FieldPengajuanEmpty20DC:
		return &m.PengajuanEmpty20DC
	case FieldPengajuanEmpty40HC:
		return &m.PengajuanEmpty40HC
	case FieldPengajuanFull20DC:
		return &m.PengajuanFull20DC
	case FieldPengajuanFull40HC:
		return &m.PengajuanFull40HC
	case FieldAccPengajuanEmpty20DC:
		return &m.AccPengajuanEmpty20DC
	case FieldAccPengajuanEmpty40HC:
		return &m.AccPengajuanEmpty40HC
	case FieldAccPengajuanFull20DC:
		return &m.AccPengajuanFull20DC
	case FieldAccPengajuanFull40HC:
		return &m.AccPengajuanFull40HC
	case FieldTotalPengajuan20DC:
		return &m.TotalPengajuan20DC
	case FieldTotalPengajuan40HC:
		return &m.TotalPengajuan40HC
	case FieldTeusPengajuan:
		return &m.TeusPengajuan
	case FieldRealisasiMXD20DC:
		return &m.RealisasiMXD20DC
	case FieldRealisasiMXD40HC:
		return &m.RealisasiMXD40HC
	case FieldRealisasiFXD20DC:
		return &m.RealisasiFXD20DC
	case FieldRealisasiFXD40HC:
		return &m.RealisasiFXD40HC
	case FieldShipsideYesMXD20DC:
		return &m.ShipsideYesMXD20DC
	case FieldShipsideYesMXD40HC:
		return &m.ShipsideYesMXD40HC
	case FieldShipsideYesFXD20DC:
		return &m.ShipsideYesFXD20DC
	case FieldShipsideYesFXD40HC:
		return &m.ShipsideYesFXD40HC
	case FieldShipsideNoMXD20DC:
		return &m.ShipsideNoMXD20DC
	case FieldShipsideNoMXD40HC:
		return &m.ShipsideNoMXD40HC
	case FieldShipsideNoFXD20DC:
		return &m.ShipsideNoFXD20DC
	case FieldShipsideNoFXD40HC:
		return &m.ShipsideNoFXD40HC
	case FieldTotalRealisasi20DC:
		return &m.TotalRealisasi20DC
	case FieldTotalRealisasi40HC:
		return &m.TotalRealisasi40HC
	case FieldTeusRealisasi:
		return &m.TeusRealisasi
	case FieldTurunCY20DC:
		return &m.TurunCY20DC
	case FieldTurunCY40HC:
		return &m.TurunCY40HC
	case FieldTeusTurunCY:
		return &m.TeusTurunCY
	case FieldPercentageVessel:
		return &m.PercentageVs
	}
	return nil
}

// Quantity returns the named quantity and whether it is recorded
func (m *ContainerMovement) Quantity(name string) (float64, bool) {
	ref := m.QuantityRef(name)
	if ref == nil || *ref == nil {
		return 0, false
	}
	return **ref, true
}

// FieldString renders one column the way it is displayed. The second result is
// false for null columns and unknown names.
func (m *ContainerMovement) FieldString(name string) (string, bool) {
	switch name {
	case "id":
		if m.ID == nil {
			return "", false
		}
		return strconv.FormatInt(*m.ID, 10), true
	case "voyage_id":
		return strconv.FormatInt(m.VoyageID, 10), true
	case "vessel_name":
		return m.VesselName, m.VesselName != ""
	case "voyage_number":
		return m.VoyageNumber, m.VoyageNumber != ""
	case "voyage_year":
		if m.VoyageYear == nil {
			return "", false
		}
		return strconv.Itoa(*m.VoyageYear), true
	case "port_id":
		if m.PortID == nil {
			return "", false
		}
		return strconv.FormatInt(*m.PortID, 10), true
	case "port_name":
		return m.PortName, m.PortName != ""
	case "voyage_berth_loc":
		return m.VoyageBerthLoc, m.VoyageBerthLoc != ""
	case "voyage_date_berth":
		return m.VoyageDateBerth, m.VoyageDateBerth != ""
	case "obstacles":
		return m.Obstacles, m.Obstacles != ""
	case "created_at":
		return m.CreatedAt, m.CreatedAt != ""
	case "updated_at":
		return m.UpdatedAt, m.UpdatedAt != ""
	case "voyage_created_at":
		return m.VoyageCreatedAt, m.VoyageCreatedAt != ""
	}
	if v, ok := m.Quantity(name); ok {
		return utils.FormatNumber(v), true
	}
	return "", false
}

// DescriptiveFields are the non-quantity columns, in serialization order
var DescriptiveFields = []string{
	"id", "voyage_id", "vessel_name", "voyage_number", "voyage_year", "port_id", "port_name",
	"voyage_berth_loc", "voyage_date_berth",
}

// TrailingFields follow the quantities in serialization order
var TrailingFields = []string{"obstacles", "created_at", "updated_at", "voyage_created_at"}

// AllFields lists every column of a row
func AllFields() []string {
	fields := make([]string, 0, len(DescriptiveFields)+len(QuantityFields)+len(TrailingFields))
	fields = append(fields, DescriptiveFields...)
	fields = append(fields, QuantityFields...)
	fields = append(fields, TrailingFields...)
	return fields
}

// Float returns a pointer to v, handy for building rows
func Float(v float64) *float64 {
	return &v
}

// ValueOrZero dereferences a nullable quantity
func ValueOrZero(v *float64) float64 {
	if v == nil {
		return 0
	}
	return *v
}
