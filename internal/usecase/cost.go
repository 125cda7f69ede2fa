package usecase

import (
	"context"
	"sync"

	"github.com/Lucafivan/Ship-Operation-Systems/internal/domain/entity"
	"github.com/Lucafivan/Ship-Operation-Systems/internal/domain/repository"
	"github.com/Lucafivan/Ship-Operation-Systems/pkg/logger"
)

// CostRowLimit is how many visible rows get a cost estimation
const CostRowLimit = 15

// CostEstimator caches cost estimations for the rows on screen
type CostEstimator struct {
	repo   repository.CostRepository
	logger logger.Logger

	mu          sync.Mutex
	showCost    bool
	estimations map[int64]entity.VoyageEstimation
}

// NewCostEstimator creates a new cost estimator
func NewCostEstimator(repo repository.CostRepository, logger logger.Logger) *CostEstimator {
	return &CostEstimator{
		repo:        repo,
		logger:      logger,
		estimations: make(map[int64]entity.VoyageEstimation),
	}
}

// SetShowCost toggles the cost columns. Turning them on fetches estimations
// for the first rows that are not cached yet. Failures are only logged.
func (c *CostEstimator) SetShowCost(ctx context.Context, on bool, rows []entity.ContainerMovement) {
	c.mu.Lock()
	c.showCost = on
	c.mu.Unlock()

	if !on {
		return
	}

	if len(rows) > CostRowLimit {
		rows = rows[:CostRowLimit]
	}

	var wg sync.WaitGroup
	seen := make(map[int64]bool)
	for _, row := range rows {
		id := row.VoyageID
		if seen[id] || c.cached(id) {
			continue
		}
		seen[id] = true

		wg.Add(1)
		go func() {
			defer wg.Done()
			c.fetch(ctx, id)
		}()
	}
	wg.Wait()
}

func (c *CostEstimator) cached(voyageID int64) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	_, ok := c.estimations[voyageID]
	return ok
}

func (c *CostEstimator) fetch(ctx context.Context, voyageID int64) {
	estimation, err := c.repo.Estimation(ctx, voyageID)
	if err != nil {
		c.logger.Error("Failed to fetch cost estimation", "voyageId", voyageID, "error", err)
		return
	}

	value := entity.EmptyEstimation(voyageID)
	if estimation != nil {
		value = *estimation
		value.VoyageID = voyageID
	}

	c.mu.Lock()
	c.estimations[voyageID] = value
	c.mu.Unlock()
}

// ShowCost reports whether the cost columns are on
func (c *CostEstimator) ShowCost() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.showCost
}

// Estimations returns the cached estimations keyed by voyage id
func (c *CostEstimator) Estimations() map[int64]entity.VoyageEstimation {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make(map[int64]entity.VoyageEstimation, len(c.estimations))
	for k, v := range c.estimations {
		out[k] = v
	}
	return out
}
