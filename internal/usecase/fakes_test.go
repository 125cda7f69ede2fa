package usecase

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/Lucafivan/Ship-Operation-Systems/internal/domain/entity"
	"github.com/Lucafivan/Ship-Operation-Systems/pkg/metrics"

	"github.com/prometheus/client_golang/prometheus"
)

func newTestMetrics() *metrics.Metrics {
	return metrics.NewMetrics("test", prometheus.NewRegistry())
}

type notification struct {
	level   entity.NotificationLevel
	source  string
	message string
}

type recordingNotifier struct {
	mu    sync.Mutex
	items []notification
}

func (n *recordingNotifier) Notify(ctx context.Context, level entity.NotificationLevel, source, message string) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.items = append(n.items, notification{level: level, source: source, message: message})
}

func (n *recordingNotifier) all() []notification {
	n.mu.Lock()
	defer n.mu.Unlock()
	return append([]notification(nil), n.items...)
}

type fakeMovementRepo struct {
	mu     sync.Mutex
	list   func(ctx context.Context, q entity.ListQuery) (*entity.Page, error)
	save   func(ctx context.Context, stage entity.Stage, payload map[string]interface{}) error
	calls  []entity.ListQuery
	saves  []map[string]interface{}
	stages []entity.Stage
}

func (r *fakeMovementRepo) List(ctx context.Context, q entity.ListQuery) (*entity.Page, error) {
	r.mu.Lock()
	r.calls = append(r.calls, q)
	list := r.list
	r.mu.Unlock()
	return list(ctx, q)
}

func (r *fakeMovementRepo) SaveStage(ctx context.Context, stage entity.Stage, payload map[string]interface{}) error {
	r.mu.Lock()
	r.saves = append(r.saves, payload)
	r.stages = append(r.stages, stage)
	save := r.save
	r.mu.Unlock()
	if save == nil {
		return nil
	}
	return save(ctx, stage, payload)
}

func (r *fakeMovementRepo) listCalls() []entity.ListQuery {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]entity.ListQuery(nil), r.calls...)
}

// pageOf builds a page of n rows with ids starting at first
func pageOf(first int64, n int, page, pages int, hasNext bool) *entity.Page {
	rows := make([]entity.ContainerMovement, n)
	for i := range rows {
		rows[i] = rowWithID(first + int64(i))
	}
	return &entity.Page{Data: rows, Pages: pages, CurrentPage: page, Total: n, HasNext: hasNext}
}

// waitFor polls cond until it holds or the deadline passes
func waitFor(t *testing.T, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if cond() {
			return
		}
		time.Sleep(5 * time.Millisecond)
	}
	t.Fatal("Condition not met before deadline")
}
