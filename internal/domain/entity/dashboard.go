package entity

// PortSummary is one row of the summary-by-port aggregate
type PortSummary struct {
	PortID         int64   `json:"port_id"`
	PortName       string  `json:"port_name"`
	TotalPengajuan float64 `json:"total_pengajuan"`
	AccPengajuan   float64 `json:"acc_pengajuan"`
	TotalRealisasi float64 `json:"total_realisasi"`
}

// StagePercentages are stage completion rates in percent
type StagePercentages struct {
	Pengajuan float64 `json:"pengajuan"`
	Acc       float64 `json:"acc"`
	TL        float64 `json:"tl"`
	Realisasi float64 `json:"realisasi"`
}

type Overall struct {
	Overall float64 `json:"overall"`
}

// PortPercentages is the realization rate of one port
type PortPercentages struct {
	PortID      int64  `json:"port_id"`
	PortName    string `json:"port_name"`
	Percentages struct {
		StagePercentages
		BySize map[string]StagePercentages `json:"by_size,omitempty"`
	} `json:"percentages"`
	Totals *struct {
		Bongkaran *Overall `json:"bongkaran,omitempty"`
		Pengajuan *Overall `json:"pengajuan,omitempty"`
		Acc       *Overall `json:"acc,omitempty"`
		TLSS      *Overall `json:"tlss,omitempty"`
	} `json:"totals,omitempty"`
}

// Size buckets of the percentages by_size map
const (
	Size20DC = "20dc"
	Size40HC = "40hc"
)

// ChartPoint is one bar of the dashboard chart
type ChartPoint struct {
	Name  string  `json:"name"`
	Value float64 `json:"value"`
}

// DashboardView is the dashboard state served to the UI
type DashboardView struct {
	Summary      []PortSummary     `json:"summary"`
	SelectedPort *int64            `json:"selected_port"`
	Percentages  *PortPercentages  `json:"percentages"`
	By20DC       *StagePercentages `json:"by_20dc"`
	By40HC       *StagePercentages `json:"by_40hc"`
	Chart        []ChartPoint      `json:"chart"`
}
