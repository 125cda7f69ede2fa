package usecase

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/Lucafivan/Ship-Operation-Systems/internal/domain/entity"
	"github.com/Lucafivan/Ship-Operation-Systems/internal/domain/repository"
	"github.com/Lucafivan/Ship-Operation-Systems/internal/infrastructure/scheduler"
	"github.com/Lucafivan/Ship-Operation-Systems/pkg/logger"
	"github.com/Lucafivan/Ship-Operation-Systems/pkg/metrics"
)

const (
	MsgFetchFailed    = "Gagal memuat data monitoring."
	MsgFetchAllFailed = "Gagal mengambil semua halaman untuk pencarian."

	sourceMonitoring = "monitoring"
)

// MonitorOptions configures a Monitor
type MonitorOptions struct {
	PerPage       int
	GlobalSearch  bool
	DebounceDelay time.Duration
	DiscardStale  bool
	Location      *time.Location

	// Global page walk
	MaxGlobalPages int
	GlobalPerPage  int

	Now func() time.Time
}

// DefaultMonitorOptions are the options the monitoring table starts with
func DefaultMonitorOptions() MonitorOptions {
	return MonitorOptions{
		PerPage:        10,
		DebounceDelay:  250 * time.Millisecond,
		DiscardStale:   true,
		Location:       time.Local,
		MaxGlobalPages: 100,
		GlobalPerPage:  10,
		Now:            time.Now,
	}
}

// Monitor owns the monitoring table state: the current page, search, date
// filter, sort and the merged all-pages cache used by global search.
type Monitor struct {
	repo      repository.ContainerMovementRepository
	notifier  Notifier
	debouncer *scheduler.Debouncer
	metrics   *metrics.Metrics
	logger    logger.Logger
	opts      MonitorOptions

	mu          sync.Mutex
	perPage     int
	currentPage int
	searchText  string
	searchKey   entity.SearchKey
	dateFilter  entity.DateFilter
	sortConfig  *entity.SortConfig
	globalMode  bool

	data         []entity.ContainerMovement
	totalPages   int
	totalRecords int
	loading      int

	allData    []entity.ContainerMovement
	allLoaded  bool
	loadingAll bool

	// request sequence for discarding out-of-order page responses
	seq     uint64
	applied uint64
}

// NewMonitor creates a new monitor
func NewMonitor(
	repo repository.ContainerMovementRepository,
	notifier Notifier,
	m *metrics.Metrics,
	logger logger.Logger,
	opts MonitorOptions,
) *Monitor {
	defaults := DefaultMonitorOptions()
	if opts.PerPage <= 0 {
		opts.PerPage = defaults.PerPage
	}
	if opts.DebounceDelay <= 0 {
		opts.DebounceDelay = defaults.DebounceDelay
	}
	if opts.Location == nil {
		opts.Location = defaults.Location
	}
	if opts.MaxGlobalPages <= 0 {
		opts.MaxGlobalPages = defaults.MaxGlobalPages
	}
	if opts.GlobalPerPage <= 0 {
		opts.GlobalPerPage = defaults.GlobalPerPage
	}
	if opts.Now == nil {
		opts.Now = defaults.Now
	}

	return &Monitor{
		repo:        repo,
		notifier:    notifier,
		debouncer:   scheduler.NewDebouncer(opts.DebounceDelay),
		metrics:     m,
		logger:      logger,
		opts:        opts,
		perPage:     opts.PerPage,
		currentPage: 1,
		searchKey:   entity.SearchAll,
		dateFilter:  entity.DateFilter{Preset: entity.PresetAll},
		sortConfig:  entity.DefaultSort(),
		globalMode:  opts.GlobalSearch,
		data:        []entity.ContainerMovement{},
		allData:     []entity.ContainerMovement{},
	}
}

// Close cancels any pending debounced fetch
func (m *Monitor) Close() {
	m.debouncer.Stop()
}

func (m *Monitor) fetchMode() string {
	if m.globalMode {
		return "global"
	}
	return "page"
}

// Fetch loads one page. A silent fetch does not toggle the loading flag. On
// failure the previous state is kept and an error notification is raised.
func (m *Monitor) Fetch(ctx context.Context, page int, silent bool) error {
	if page < 1 {
		page = 1
	}

	m.mu.Lock()
	query := entity.ListQuery{Page: page, PerPage: m.perPage}
	if text := strings.TrimSpace(m.searchText); !m.globalMode && text != "" {
		query.Query = text
		query.Field = m.searchKey
	}
	m.seq++
	seq := m.seq
	if !silent {
		m.loading++
	}
	mode := m.fetchMode()
	m.mu.Unlock()

	result, err := m.repo.List(ctx, query)

	m.mu.Lock()
	if !silent {
		m.loading--
	}

	if err != nil {
		m.mu.Unlock()
		m.metrics.PageFetches.WithLabelValues(mode, "failed").Inc()
		m.metrics.ErrorsCount.WithLabelValues("fetch_page").Inc()
		m.logger.Error("Failed to fetch monitoring page", "page", page, "perPage", query.PerPage, "error", err)
		m.notifier.Notify(ctx, entity.LevelError, sourceMonitoring, MsgFetchFailed)
		return fmt.Errorf("failed to fetch page %d: %w", page, err)
	}

	if m.opts.DiscardStale && seq < m.applied {
		m.mu.Unlock()
		m.metrics.StaleResponses.Inc()
		m.logger.Debug("Discarding stale monitoring page", "page", page, "seq", seq, "applied", m.applied)
		return nil
	}

	m.data = result.Data
	if m.data == nil {
		m.data = []entity.ContainerMovement{}
	}
	m.totalPages = result.Pages
	if result.CurrentPage > 0 {
		m.currentPage = result.CurrentPage
	} else {
		m.currentPage = page
	}
	m.totalRecords = result.Total
	m.allLoaded = false
	m.applied = seq
	m.mu.Unlock()

	m.metrics.PageFetches.WithLabelValues(mode, "succeeded").Inc()
	m.logger.Debug("Fetched monitoring page", "page", page, "rows", len(result.Data), "total", result.Total)
	return nil
}

// Refresh reloads the current page
func (m *Monitor) Refresh(ctx context.Context) error {
	m.mu.Lock()
	page := m.currentPage
	m.mu.Unlock()
	return m.Fetch(ctx, page, false)
}

// SetPage moves to page and fetches it
func (m *Monitor) SetPage(ctx context.Context, page int) error {
	if page < 1 {
		page = 1
	}
	m.mu.Lock()
	m.currentPage = page
	m.mu.Unlock()
	return m.Fetch(ctx, page, false)
}

// SetPerPage changes the page size and refetches the current page
func (m *Monitor) SetPerPage(ctx context.Context, perPage int) error {
	switch perPage {
	case 10, 20, 50, 100:
	default:
		return fmt.Errorf("unsupported page size %d", perPage)
	}

	m.mu.Lock()
	m.perPage = perPage
	page := m.currentPage
	m.mu.Unlock()
	return m.Fetch(ctx, page, false)
}

// SetSearch updates the search text and key. Outside global mode a silent
// fetch of page 1 is scheduled after the debounce delay, replacing any fetch
// still pending.
func (m *Monitor) SetSearch(ctx context.Context, text string, key entity.SearchKey) error {
	if key == "" {
		key = entity.SearchAll
	}
	if !key.Valid() {
		return fmt.Errorf("unsupported search field %q", key)
	}

	m.mu.Lock()
	m.searchText = text
	m.searchKey = key
	global := m.globalMode
	m.mu.Unlock()

	if global {
		return nil
	}

	// the caller's request may end before the timer fires
	fetchCtx := context.WithoutCancel(ctx)
	m.debouncer.Schedule(func() {
		m.Fetch(fetchCtx, 1, true)
	})
	return nil
}

// ApplySearch updates the search like SetSearch but fetches page 1 right away,
// dropping any debounced fetch still pending.
func (m *Monitor) ApplySearch(ctx context.Context, text string, key entity.SearchKey) error {
	if key == "" {
		key = entity.SearchAll
	}
	if !key.Valid() {
		return fmt.Errorf("unsupported search field %q", key)
	}

	m.debouncer.Cancel()

	m.mu.Lock()
	m.searchText = text
	m.searchKey = key
	global := m.globalMode
	m.mu.Unlock()

	if global {
		return nil
	}
	return m.Fetch(ctx, 1, false)
}

// SetGlobalSearch switches search across all pages on or off. Leaving global
// mode with a search in place refetches page 1 narrowed by the server, since
// the loaded page was fetched without the search.
func (m *Monitor) SetGlobalSearch(ctx context.Context, on bool) error {
	m.mu.Lock()
	was := m.globalMode
	m.globalMode = on
	text := strings.TrimSpace(m.searchText)
	m.mu.Unlock()

	if on {
		m.debouncer.Cancel()
		return nil
	}
	if !was || text == "" {
		return nil
	}
	return m.Fetch(ctx, 1, false)
}

// SetDateFilter replaces the date preset and its custom bounds
func (m *Monitor) SetDateFilter(filter entity.DateFilter) error {
	if filter.Preset == "" {
		filter.Preset = entity.PresetAll
	}
	if !filter.Preset.Valid() {
		return fmt.Errorf("unsupported date preset %q", filter.Preset)
	}
	m.mu.Lock()
	m.dateFilter = filter
	m.mu.Unlock()
	return nil
}

// RequestSort toggles sorting on key
func (m *Monitor) RequestSort(key entity.SortKey) error {
	if !key.Valid() {
		return fmt.Errorf("unsupported sort key %q", key)
	}
	m.mu.Lock()
	m.sortConfig = m.sortConfig.Toggle(key)
	m.mu.Unlock()
	return nil
}

// SetSort replaces the sort config. nil disables sorting.
func (m *Monitor) SetSort(cfg *entity.SortConfig) error {
	if cfg != nil {
		if !cfg.Key.Valid() {
			return fmt.Errorf("unsupported sort key %q", cfg.Key)
		}
		if cfg.Direction != entity.SortAsc && cfg.Direction != entity.SortDesc {
			return fmt.Errorf("unsupported sort direction %q", cfg.Direction)
		}
		c := *cfg
		cfg = &c
	}
	m.mu.Lock()
	m.sortConfig = cfg
	m.mu.Unlock()
	return nil
}

// FetchAllPages walks the list endpoint following has_next and merges every
// row into the global search cache. State is only replaced when the whole walk
// succeeds.
func (m *Monitor) FetchAllPages(ctx context.Context) error {
	m.mu.Lock()
	if m.loadingAll {
		m.mu.Unlock()
		return ErrBusy
	}
	m.loadingAll = true
	m.mu.Unlock()

	defer func() {
		m.mu.Lock()
		m.loadingAll = false
		m.mu.Unlock()
	}()

	pages := make([][]entity.ContainerMovement, 0)
	page := 1
	for i := 0; i < m.opts.MaxGlobalPages; i++ {
		result, err := m.repo.List(ctx, entity.ListQuery{Page: page, PerPage: m.opts.GlobalPerPage})
		if err != nil {
			m.metrics.PageFetches.WithLabelValues("all", "failed").Inc()
			m.metrics.ErrorsCount.WithLabelValues("fetch_all_pages").Inc()
			m.logger.Error("Failed to fetch all pages", "page", page, "error", err)
			m.notifier.Notify(ctx, entity.LevelError, sourceMonitoring, MsgFetchAllFailed)
			return fmt.Errorf("failed to fetch page %d: %w", page, err)
		}
		m.metrics.GlobalFetchPages.Inc()
		pages = append(pages, result.Data)

		if !result.HasNext {
			break
		}
		page++
	}

	merged := MergePages(pages...)

	m.mu.Lock()
	m.allData = merged
	m.allLoaded = true
	m.mu.Unlock()

	m.metrics.PageFetches.WithLabelValues("all", "succeeded").Inc()
	m.logger.Info("Loaded all pages for search", "pages", len(pages), "rows", len(merged))
	return nil
}

// EnsureGlobalCache loads all pages when global search needs them and they
// are neither loaded nor loading.
func (m *Monitor) EnsureGlobalCache(ctx context.Context) error {
	m.mu.Lock()
	needed := m.globalMode && strings.TrimSpace(m.searchText) != "" && !m.allLoaded && !m.loadingAll
	m.mu.Unlock()

	if !needed {
		return nil
	}
	if err := m.FetchAllPages(ctx); err != nil && !errors.Is(err, ErrBusy) {
		return err
	}
	return nil
}

// View derives the rows the table displays along with pagination metadata
func (m *Monitor) View() entity.MonitoringView {
	m.mu.Lock()
	defer m.mu.Unlock()

	query := strings.TrimSpace(m.searchText)
	source := m.data
	if m.globalMode && query != "" {
		source = m.allData
	}

	rows := ApplyView(source, ViewParams{
		Filter:      m.dateFilter,
		Sort:        m.sortConfig,
		SearchText:  m.searchText,
		SearchKey:   m.searchKey,
		ApplySearch: m.globalMode,
		Now:         m.opts.Now(),
		Location:    m.opts.Location,
	})
	data := make([]entity.ContainerMovement, len(rows))
	copy(data, rows)

	var sortCfg *entity.SortConfig
	if m.sortConfig != nil {
		c := *m.sortConfig
		sortCfg = &c
	}

	return entity.MonitoringView{
		Data:        data,
		Pages:       m.totalPages,
		CurrentPage: m.currentPage,
		PerPage:     m.perPage,
		Total:       m.totalRecords,
		Loading:     m.loading > 0,
		GlobalMode:  m.globalMode,
		AllLoaded:   m.allLoaded,
		LoadingAll:  m.loadingAll,
		Sort:        sortCfg,
		DateFilter:  m.dateFilter,
		SearchText:  m.searchText,
		SearchKey:   m.searchKey,
	}
}

// Row finds a loaded row by id or voyage id
func (m *Monitor) Row(key int64) (entity.ContainerMovement, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()

	for _, rows := range [][]entity.ContainerMovement{m.data, m.allData} {
		for _, row := range rows {
			if row.Key() == key {
				return row, true
			}
		}
	}
	return entity.ContainerMovement{}, false
}
