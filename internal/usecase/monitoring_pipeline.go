package usecase

import (
	"math"
	"sort"
	"strings"
	"time"

	"github.com/Lucafivan/Ship-Operation-Systems/internal/domain/entity"
	"github.com/Lucafivan/Ship-Operation-Systems/pkg/utils"
)

// DateWindow is an inclusive time window. A nil bound is open.
type DateWindow struct {
	Start *time.Time
	End   *time.Time
}

// Contains reports whether t falls inside the window
func (w DateWindow) Contains(t time.Time) bool {
	if w.Start != nil && t.Before(*w.Start) {
		return false
	}
	if w.End != nil && t.After(*w.End) {
		return false
	}
	return true
}

const endOfDayNanos = utils.DATE_END_OF_DAY_FRACTION * int(time.Millisecond)

func startOfWeek(t time.Time) time.Time {
	// Monday based: Sunday is 6 days after Monday
	diffToMon := (int(t.Weekday()) + 6) % 7
	return time.Date(t.Year(), t.Month(), t.Day()-diffToMon, 0, 0, 0, 0, t.Location())
}

func endOfWeek(t time.Time) time.Time {
	s := startOfWeek(t)
	return time.Date(s.Year(), s.Month(), s.Day()+6, 23, 59, 59, endOfDayNanos, s.Location())
}

func startOfMonth(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, t.Location())
}

func endOfMonth(t time.Time) time.Time {
	// day 0 of the next month is the last day of this one
	return time.Date(t.Year(), t.Month()+1, 0, 23, 59, 59, endOfDayNanos, t.Location())
}

func window(start, end time.Time) DateWindow {
	return DateWindow{Start: &start, End: &end}
}

// DateRange computes the window of a date preset relative to now, in loc.
// The second result is false for the "all" preset, which does not filter.
func DateRange(filter entity.DateFilter, now time.Time, loc *time.Location) (DateWindow, bool) {
	if loc == nil {
		loc = time.Local
	}
	now = now.In(loc)

	switch filter.Preset {
	case entity.PresetThisWeek:
		return window(startOfWeek(now), endOfWeek(now)), true

	case entity.PresetLastWeek:
		lastWeek := now.AddDate(0, 0, -7)
		return window(startOfWeek(lastWeek), endOfWeek(lastWeek)), true

	case entity.PresetThisMonth:
		return window(startOfMonth(now), endOfMonth(now)), true

	case entity.PresetLastMonth:
		// anchored mid-month so month lengths never skip a month
		anchor := time.Date(now.Year(), now.Month()-1, 15, 0, 0, 0, 0, loc)
		return window(startOfMonth(anchor), endOfMonth(anchor)), true

	case entity.PresetCustom:
		var w DateWindow
		if day, ok := utils.ParseDay(filter.CustomStart, loc); ok {
			w.Start = &day
		}
		if day, ok := utils.ParseDay(filter.CustomEnd, loc); ok {
			end := time.Date(day.Year(), day.Month(), day.Day(), 23, 59, 59, endOfDayNanos, loc)
			w.End = &end
		}
		return w, true
	}

	return DateWindow{}, false
}

// FilterByDate keeps the rows whose voyage_date_berth lies inside the preset's
// window. Rows without a parseable berth date are dropped unless the preset is "all".
func FilterByDate(rows []entity.ContainerMovement, filter entity.DateFilter, now time.Time, loc *time.Location) []entity.ContainerMovement {
	w, ok := DateRange(filter, now, loc)
	if !ok {
		return rows
	}

	filtered := make([]entity.ContainerMovement, 0, len(rows))
	for _, row := range rows {
		if row.VoyageDateBerth == "" {
			continue
		}
		t, err := utils.ParseTimestamp(row.VoyageDateBerth, loc)
		if err != nil {
			continue
		}
		if w.Contains(t) {
			filtered = append(filtered, row)
		}
	}
	return filtered
}

// sortValue is either a number or a lowercase string. Numbers order before strings.
type sortValue struct {
	isString bool
	num      float64
	str      string
}

func compareSortValues(a, b sortValue) int {
	switch {
	case !a.isString && !b.isString:
		switch {
		case a.num < b.num:
			return -1
		case a.num > b.num:
			return 1
		}
		return 0
	case a.isString && b.isString:
		return strings.Compare(a.str, b.str)
	case !a.isString:
		return -1
	}
	return 1
}

func extractSortValue(row *entity.ContainerMovement, key entity.SortKey, loc *time.Location) sortValue {
	switch {
	case key == entity.SortVoyageYear:
		if row.VoyageYear == nil {
			return sortValue{}
		}
		return sortValue{num: float64(*row.VoyageYear)}

	case key == entity.SortVoyageNumber:
		if n, ok := utils.ParseNumber(row.VoyageNumber); ok {
			return sortValue{num: n}
		}
		return sortValue{isString: true, str: strings.ToLower(row.VoyageNumber)}

	case key.IsDate():
		raw, _ := row.FieldString(string(key))
		t, err := utils.ParseTimestamp(raw, loc)
		if err != nil {
			return sortValue{num: math.Inf(1)}
		}
		return sortValue{num: float64(t.UnixMilli())}
	}

	raw, _ := row.FieldString(string(key))
	return sortValue{isString: true, str: strings.ToLower(raw)}
}

// SortRows returns a sorted copy of rows. Ties are broken by descending id
// regardless of direction. A nil config leaves the order unchanged.
func SortRows(rows []entity.ContainerMovement, cfg *entity.SortConfig, loc *time.Location) []entity.ContainerMovement {
	if cfg == nil {
		return rows
	}

	dir := 1
	if cfg.Direction == entity.SortDesc {
		dir = -1
	}

	type keyed struct {
		row   entity.ContainerMovement
		value sortValue
	}
	items := make([]keyed, len(rows))
	for i := range rows {
		items[i] = keyed{row: rows[i], value: extractSortValue(&rows[i], cfg.Key, loc)}
	}

	sort.SliceStable(items, func(i, j int) bool {
		if c := compareSortValues(items[i].value, items[j].value); c != 0 {
			return c*dir < 0
		}
		return items[i].row.IDOrZero() > items[j].row.IDOrZero()
	})

	sorted := make([]entity.ContainerMovement, len(items))
	for i := range items {
		sorted[i] = items[i].row
	}
	return sorted
}

// SearchRows keeps the rows where the selected column, or any column for the
// "all" key, starts with the query. Matching is case-insensitive.
func SearchRows(rows []entity.ContainerMovement, text string, key entity.SearchKey) []entity.ContainerMovement {
	q := strings.ToLower(strings.TrimSpace(text))
	if q == "" {
		return rows
	}

	fields := []string{string(key)}
	if key == entity.SearchAll || key == "" {
		fields = entity.AllFields()
	}

	matched := make([]entity.ContainerMovement, 0, len(rows))
	for i := range rows {
		for _, field := range fields {
			value, ok := rows[i].FieldString(field)
			if ok && strings.HasPrefix(strings.ToLower(value), q) {
				matched = append(matched, rows[i])
				break
			}
		}
	}
	return matched
}

// MergePages deduplicates rows by Key. A later occurrence replaces an earlier
// one but keeps the position where the key was first seen.
func MergePages(pages ...[]entity.ContainerMovement) []entity.ContainerMovement {
	index := make(map[int64]int)
	merged := make([]entity.ContainerMovement, 0)

	for _, page := range pages {
		for _, row := range page {
			k := row.Key()
			if i, ok := index[k]; ok {
				merged[i] = row
				continue
			}
			index[k] = len(merged)
			merged = append(merged, row)
		}
	}
	return merged
}

// ViewParams is the state the displayed rows are derived from
type ViewParams struct {
	Filter     entity.DateFilter
	Sort       *entity.SortConfig
	SearchText string
	SearchKey  entity.SearchKey
	// Search is only applied client side in global mode
	ApplySearch bool
	Now         time.Time
	Location    *time.Location
}

// ApplyView derives the displayed rows: date filter, then sort, then search
func ApplyView(source []entity.ContainerMovement, p ViewParams) []entity.ContainerMovement {
	rows := FilterByDate(source, p.Filter, p.Now, p.Location)
	rows = SortRows(rows, p.Sort, p.Location)
	if p.ApplySearch {
		rows = SearchRows(rows, p.SearchText, p.SearchKey)
	}
	return rows
}
