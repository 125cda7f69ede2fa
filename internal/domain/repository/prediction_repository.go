package repository

import (
	"context"
	"time"

	"github.com/Lucafivan/Ship-Operation-Systems/internal/domain/entity"
)

// PredictionRepository calls the scoring endpoints
type PredictionRepository interface {
	Predict(ctx context.Context, mode entity.PredictionMode, size entity.SizeKey, features entity.Features) (*entity.PredictionResult, error)
}

// OverlayCacheRepository keeps predicted overlays per voyage id
type OverlayCacheRepository interface {
	Get(ctx context.Context, voyageID int64) (entity.Overlay, bool, error)
	Set(ctx context.Context, voyageID int64, overlay entity.Overlay, ttl time.Duration) error
	Delete(ctx context.Context, voyageID int64) error
}
