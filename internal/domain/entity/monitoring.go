package entity

// SortKey is one of the sortable monitoring columns
type SortKey string

const (
	SortVesselName      SortKey = "vessel_name"
	SortVoyageNumber    SortKey = "voyage_number"
	SortVoyageYear      SortKey = "voyage_year"
	SortPortName        SortKey = "port_name"
	SortVoyageDateBerth SortKey = "voyage_date_berth"
	SortCreatedAt       SortKey = "created_at"
	SortUpdatedAt       SortKey = "updated_at"
	SortVoyageCreatedAt SortKey = "voyage_created_at"
)

// Valid reports whether k is a sortable column
func (k SortKey) Valid() bool {
	switch k {
	case SortVesselName, SortVoyageNumber, SortVoyageYear, SortPortName,
		SortVoyageDateBerth, SortCreatedAt, SortUpdatedAt, SortVoyageCreatedAt:
		return true
	}
	return false
}

// IsDate reports whether the column holds a timestamp
func (k SortKey) IsDate() bool {
	switch k {
	case SortVoyageDateBerth, SortCreatedAt, SortUpdatedAt, SortVoyageCreatedAt:
		return true
	}
	return false
}

type SortDirection string

const (
	SortAsc  SortDirection = "asc"
	SortDesc SortDirection = "desc"
)

type SortConfig struct {
	Key       SortKey       `json:"key"`
	Direction SortDirection `json:"direction"`
}

// DefaultSort is applied when the monitor starts
func DefaultSort() *SortConfig {
	return &SortConfig{Key: SortVoyageCreatedAt, Direction: SortDesc}
}

// Toggle flips the direction when the same key is selected again and resets to
// ascending on a new key. A nil receiver behaves like "no sort yet".
func (c *SortConfig) Toggle(key SortKey) *SortConfig {
	if c != nil && c.Key == key && c.Direction == SortAsc {
		return &SortConfig{Key: key, Direction: SortDesc}
	}
	return &SortConfig{Key: key, Direction: SortAsc}
}

type DatePreset string

const (
	PresetAll       DatePreset = "all"
	PresetThisWeek  DatePreset = "this_week"
	PresetLastWeek  DatePreset = "last_week"
	PresetThisMonth DatePreset = "this_month"
	PresetLastMonth DatePreset = "last_month"
	PresetCustom    DatePreset = "custom"
)

func (p DatePreset) Valid() bool {
	switch p {
	case PresetAll, PresetThisWeek, PresetLastWeek, PresetThisMonth, PresetLastMonth, PresetCustom:
		return true
	}
	return false
}

// DateFilter is the date preset with its optional custom bounds (YYYY-MM-DD)
type DateFilter struct {
	Preset      DatePreset `json:"preset"`
	CustomStart string     `json:"start,omitempty"`
	CustomEnd   string     `json:"end,omitempty"`
}

// SearchKey selects which column a search query is matched against
type SearchKey string

const (
	SearchAll             SearchKey = "all"
	SearchVesselName      SearchKey = "vessel_name"
	SearchVoyageNumber    SearchKey = "voyage_number"
	SearchVoyageYear      SearchKey = "voyage_year"
	SearchPortName        SearchKey = "port_name"
	SearchVoyageDateBerth SearchKey = "voyage_date_berth"
	SearchCreatedAt       SearchKey = "created_at"
	SearchUpdatedAt       SearchKey = "updated_at"
	SearchVoyageCreatedAt SearchKey = "voyage_created_at"
	SearchObstacles       SearchKey = "obstacles"
)

func (k SearchKey) Valid() bool {
	switch k {
	case SearchAll, SearchVesselName, SearchVoyageNumber, SearchVoyageYear, SearchPortName,
		SearchVoyageDateBerth, SearchCreatedAt, SearchUpdatedAt, SearchVoyageCreatedAt, SearchObstacles:
		return true
	}
	return false
}

// ListQuery are the list endpoint parameters
type ListQuery struct {
	Page    int
	PerPage int
	Query   string
	Field   SearchKey
}

// Page is the list endpoint response
type Page struct {
	Data        []ContainerMovement `json:"data"`
	Pages       int                 `json:"pages"`
	CurrentPage int                 `json:"current_page"`
	Total       int                 `json:"total"`
	HasNext     bool                `json:"has_next"`
}

// MonitoringView is what the monitoring table renders
type MonitoringView struct {
	Data        []ContainerMovement `json:"data"`
	Pages       int                 `json:"pages"`
	CurrentPage int                 `json:"current_page"`
	PerPage     int                 `json:"per_page"`
	Total       int                 `json:"total"`
	Loading     bool                `json:"loading"`
	GlobalMode  bool                `json:"global_mode"`
	AllLoaded   bool                `json:"all_loaded"`
	LoadingAll  bool                `json:"loading_all"`
	Sort        *SortConfig         `json:"sort"`
	DateFilter  DateFilter          `json:"date_filter"`
	SearchText  string              `json:"search_text"`
	SearchKey   SearchKey           `json:"search_key"`
}
