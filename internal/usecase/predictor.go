package usecase

import (
	"context"
	"math"
	"sync"
	"time"

	"github.com/Lucafivan/Ship-Operation-Systems/internal/domain/entity"
	"github.com/Lucafivan/Ship-Operation-Systems/internal/domain/repository"
	"github.com/Lucafivan/Ship-Operation-Systems/pkg/logger"
	"github.com/Lucafivan/Ship-Operation-Systems/pkg/metrics"
)

// Predictor fills missing downstream quantities with model predictions. The
// results are an advisory overlay and never written back to the record.
type Predictor struct {
	repo    repository.PredictionRepository
	cache   repository.OverlayCacheRepository
	ttl     time.Duration
	metrics *metrics.Metrics
	logger  logger.Logger

	mu       sync.Mutex
	inFlight map[int64]struct{}
}

// NewPredictor creates a new predictor
func NewPredictor(
	repo repository.PredictionRepository,
	cache repository.OverlayCacheRepository,
	ttl time.Duration,
	m *metrics.Metrics,
	logger logger.Logger,
) *Predictor {
	return &Predictor{
		repo:     repo,
		cache:    cache,
		ttl:      ttl,
		metrics:  m,
		logger:   logger,
		inFlight: make(map[int64]struct{}),
	}
}

func present(v *float64) bool {
	return v != nil && !math.IsNaN(*v)
}

func anyPresent(row *entity.ContainerMovement, fields ...string) bool {
	for _, f := range fields {
		if ref := row.QuantityRef(f); ref != nil && present(*ref) {
			return true
		}
	}
	return false
}

func quantity(row *entity.ContainerMovement, field string) *float64 {
	if ref := row.QuantityRef(field); ref != nil {
		return *ref
	}
	return nil
}

// InferMode picks the stage to predict from which upstream values exist.
// Approval data means realisasi is next, submission data means approval is
// next, unloading data means submission is next.
func InferMode(row entity.ContainerMovement) entity.PredictionMode {
	switch {
	case anyPresent(&row, entity.FieldAccPengajuanEmpty20DC, entity.FieldAccPengajuanEmpty40HC,
		entity.FieldAccPengajuanFull20DC, entity.FieldAccPengajuanFull40HC):
		return entity.ModeRealisasi
	case anyPresent(&row, entity.FieldPengajuanEmpty20DC, entity.FieldPengajuanEmpty40HC,
		entity.FieldPengajuanFull20DC, entity.FieldPengajuanFull40HC):
		return entity.ModeAcc
	case anyPresent(&row, entity.FieldBongkaranEmpty20DC, entity.FieldBongkaranEmpty40HC,
		entity.FieldBongkaranFull20DC, entity.FieldBongkaranFull40HC):
		return entity.ModePengajuan
	}
	return entity.ModeNone
}

var (
	bongkaranFeatures = map[string]string{
		"TOTAL BONGKARAN_EMPTY_20 DC": entity.FieldBongkaranEmpty20DC,
		"TOTAL BONGKARAN_EMPTY_40 HC": entity.FieldBongkaranEmpty40HC,
		"TOTAL BONGKARAN_FULL_20 DC":  entity.FieldBongkaranFull20DC,
		"TOTAL BONGKARAN_FULL_40 HC":  entity.FieldBongkaranFull40HC,
	}
	pengajuanFeatures = map[string]string{
		"PENGAJUAN KE PLANNER_EMPTY_20 DC": entity.FieldPengajuanEmpty20DC,
		"PENGAJUAN KE PLANNER_EMPTY_40 HC": entity.FieldPengajuanEmpty40HC,
		"PENGAJUAN KE PLANNER_FULL_20 DC":  entity.FieldPengajuanFull20DC,
		"PENGAJUAN KE PLANNER_FULL_40 HC":  entity.FieldPengajuanFull40HC,
	}
	accFeatures = map[string]string{
		"ACC PENGAJUAN_EMPTY_20 DC": entity.FieldAccPengajuanEmpty20DC,
		"ACC PENGAJUAN_EMPTY_40 HC": entity.FieldAccPengajuanEmpty40HC,
		"ACC PENGAJUAN_FULL_20 DC":  entity.FieldAccPengajuanFull20DC,
		"ACC PENGAJUAN_FULL_40 HC":  entity.FieldAccPengajuanFull40HC,
	}
)

// BuildFeatures assembles the model input for mode. Missing quantities are sent as 0.
func BuildFeatures(row entity.ContainerMovement, mode entity.PredictionMode) entity.Features {
	features := entity.Features{
		"BERTH LOCATION":  row.PortName,
		"VESSEL ID (DMY)": row.VesselName,
		"Voyage Yr":       row.VoyageYear,
		"Voyage No.":      row.VoyageNumber,
	}

	groups := []map[string]string{bongkaranFeatures}
	switch mode {
	case entity.ModeAcc:
		groups = append(groups, pengajuanFeatures)
	case entity.ModeRealisasi:
		groups = append(groups, pengajuanFeatures, accFeatures)
	}

	for _, group := range groups {
		for column, field := range group {
			v := quantity(&row, field)
			if present(v) {
				features[column] = *v
			} else {
				features[column] = 0.0
			}
		}
	}
	return features
}

// Overlay returns the cached overlay of a voyage
func (p *Predictor) Overlay(ctx context.Context, voyageID int64) (entity.Overlay, bool) {
	overlay, ok, err := p.cache.Get(ctx, voyageID)
	if err != nil {
		p.logger.Warn("Failed to read prediction overlay", "voyageId", voyageID, "error", err)
		return nil, false
	}
	return overlay, ok
}

// Merge returns row with its cached overlay applied
func (p *Predictor) Merge(ctx context.Context, row entity.ContainerMovement) entity.ContainerMovement {
	overlay, ok := p.Overlay(ctx, row.VoyageID)
	if !ok {
		return row
	}
	return overlay.Merge(row)
}

func (p *Predictor) acquire(voyageID int64) bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	if _, busy := p.inFlight[voyageID]; busy {
		return false
	}
	p.inFlight[voyageID] = struct{}{}
	return true
}

func (p *Predictor) release(voyageID int64) {
	p.mu.Lock()
	delete(p.inFlight, voyageID)
	p.mu.Unlock()
}

// EnsurePredictions requests predictions for the values row is missing and
// caches the overlay. It returns the cached overlay when one exists and ErrBusy
// when predictions for the voyage are already being requested. Individual
// prediction failures are logged and leave the field unpredicted.
func (p *Predictor) EnsurePredictions(ctx context.Context, row entity.ContainerMovement) (entity.Overlay, error) {
	key := row.VoyageID

	if overlay, ok := p.Overlay(ctx, key); ok {
		return overlay, nil
	}
	if !p.acquire(key) {
		return nil, ErrBusy
	}
	defer p.release(key)

	mode := InferMode(row)
	log := p.logger.With("voyageId", key, "vessel", row.VesselName, "mode", string(mode))
	log.Debug("Ensuring predictions")

	overlay := entity.Overlay{}
	if mode == entity.ModeNone {
		return overlay, nil
	}

	features := BuildFeatures(row, mode)

	for _, bucket := range entity.SizeBuckets {
		switch mode {
		case entity.ModePengajuan:
			if !present(quantity(&row, bucket.Bongkaran)) || present(quantity(&row, bucket.Pengajuan)) {
				continue
			}
			if v, ok := p.predictFirst(ctx, log, mode, bucket.Size, features); ok {
				overlay[bucket.Pengajuan] = v
			}

		case entity.ModeAcc:
			if !present(quantity(&row, bucket.Pengajuan)) || present(quantity(&row, bucket.Acc)) {
				continue
			}
			if v, ok := p.predictFirst(ctx, log, mode, bucket.Size, features); ok {
				overlay[bucket.Acc] = v
			}

		case entity.ModeRealisasi:
			realisasi := quantity(&row, bucket.Realisasi)
			yes := quantity(&row, bucket.ShipYes)
			no := quantity(&row, bucket.ShipNo)
			needed := realisasi == nil || yes == nil || no == nil
			if !needed || !present(quantity(&row, bucket.Acc)) {
				continue
			}

			result := p.predict(ctx, log, mode, bucket.Size, features)
			if result == nil {
				continue
			}
			fill := func(current *float64, field, output string) {
				if current != nil {
					return
				}
				if v, ok := result.Get(output); ok {
					overlay[field] = v
				}
			}
			fill(realisasi, bucket.Realisasi, "REALISASI_ALL_DEPO_"+bucket.ResultSuffix)
			fill(yes, bucket.ShipYes, "SHIPSIDE_YES_"+bucket.ResultSuffix)
			fill(no, bucket.ShipNo, "SHIPSIDE_NO_"+bucket.ResultSuffix)
		}
	}

	if len(overlay) > 0 {
		if err := p.cache.Set(ctx, key, overlay, p.ttl); err != nil {
			log.Warn("Failed to cache prediction overlay", "error", err)
		}
		log.Info("Predictions cached", "fields", len(overlay))
	}
	return overlay, nil
}

func (p *Predictor) predict(ctx context.Context, log logger.Logger, mode entity.PredictionMode, size entity.SizeKey, features entity.Features) *entity.PredictionResult {
	result, err := p.repo.Predict(ctx, mode, size, features)
	if err != nil {
		p.metrics.Predictions.WithLabelValues(string(mode), "failed").Inc()
		log.Warn("Prediction failed", "size", string(size), "error", err)
		return nil
	}
	if result == nil || len(result.Values) == 0 {
		p.metrics.Predictions.WithLabelValues(string(mode), "empty").Inc()
		log.Debug("Prediction returned no result", "size", string(size))
		return nil
	}
	p.metrics.Predictions.WithLabelValues(string(mode), "succeeded").Inc()
	return result
}

func (p *Predictor) predictFirst(ctx context.Context, log logger.Logger, mode entity.PredictionMode, size entity.SizeKey, features entity.Features) (float64, bool) {
	return p.predict(ctx, log, mode, size, features).First()
}
