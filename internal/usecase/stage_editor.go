package usecase

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/Lucafivan/Ship-Operation-Systems/internal/domain/entity"
	"github.com/Lucafivan/Ship-Operation-Systems/internal/domain/repository"
	"github.com/Lucafivan/Ship-Operation-Systems/internal/infrastructure/apiclient"
	"github.com/Lucafivan/Ship-Operation-Systems/pkg/logger"
	"github.com/Lucafivan/Ship-Operation-Systems/pkg/metrics"
)

const sourceStageEditor = "stage_editor"

// RefreshFunc reloads whatever view the saved record is displayed in
type RefreshFunc func(ctx context.Context) error

type stageDef struct {
	label         string
	fields        []string
	withVoyage    bool
	withObstacles bool
	success       string
	failure       string
	violation     string
}

var stageDefs = map[entity.Stage]stageDef{
	entity.StageBongkaran: {
		label: "Bongkaran",
		fields: []string{
			entity.FieldBongkaranEmpty20DC, entity.FieldBongkaranEmpty40HC,
			entity.FieldBongkaranFull20DC, entity.FieldBongkaranFull40HC,
		},
		withVoyage: true,
		success:    "Berhasil memperbarui Bongkaran",
		failure:    "Gagal memperbarui bongkaran",
		violation:  "Input melebihi batas",
	},
	entity.StagePengajuan: {
		label: "Pengajuan",
		fields: []string{
			entity.FieldPengajuanEmpty20DC, entity.FieldPengajuanEmpty40HC,
			entity.FieldPengajuanFull20DC, entity.FieldPengajuanFull40HC,
		},
		success:   "Berhasil memperbarui Pengajuan",
		failure:   "Gagal memperbarui pengajuan",
		violation: "Input melebihi batas",
	},
	entity.StageAccPengajuan: {
		label: "Acc Pengajuan",
		fields: []string{
			entity.FieldAccPengajuanEmpty20DC, entity.FieldAccPengajuanEmpty40HC,
			entity.FieldAccPengajuanFull20DC, entity.FieldAccPengajuanFull40HC,
		},
		success:   "Berhasil memperbarui ACC Pengajuan",
		failure:   "Gagal memperbarui ACC Pengajuan",
		violation: "ACC melebihi Pengajuan",
	},
	entity.StageRealisasi: {
		label: "Realisasi All Depo dan Shipside",
		fields: []string{
			entity.FieldRealisasiMXD20DC, entity.FieldRealisasiMXD40HC,
			entity.FieldRealisasiFXD20DC, entity.FieldRealisasiFXD40HC,
			entity.FieldShipsideYesMXD20DC, entity.FieldShipsideYesMXD40HC,
			entity.FieldShipsideYesFXD20DC, entity.FieldShipsideYesFXD40HC,
			entity.FieldShipsideNoMXD20DC, entity.FieldShipsideNoMXD40HC,
			entity.FieldShipsideNoFXD20DC, entity.FieldShipsideNoFXD40HC,
		},
		withObstacles: true,
		success:       "Berhasil memperbarui Realisasi dan Shipside",
		failure:       "Gagal memperbarui Realisasi/Shipside",
		violation:     "Input melebihi batas",
	},
	entity.StageObstacles: {
		label:         "Obstacles",
		withObstacles: true,
		success:       "Berhasil memperbarui Obstacles",
		failure:       "Gagal memperbarui data",
		violation:     "Input melebihi batas",
	},
}

func anyPositive(row *entity.ContainerMovement, fields ...string) bool {
	for _, f := range fields {
		if v, ok := row.Quantity(f); ok && v > 0 {
			return true
		}
	}
	return false
}

// stage completion as the edit form judges it
func bongkaranComplete(row *entity.ContainerMovement) bool {
	return anyPositive(row, stageDefs[entity.StageBongkaran].fields...)
}

func pengajuanComplete(row *entity.ContainerMovement) bool {
	return anyPositive(row, stageDefs[entity.StagePengajuan].fields...)
}

func accComplete(row *entity.ContainerMovement) bool {
	return anyPositive(row, entity.FieldTeusPengajuan)
}

func realisasiComplete(row *entity.ContainerMovement) bool {
	return anyPositive(row, entity.FieldRealisasiMXD20DC, entity.FieldRealisasiMXD40HC,
		entity.FieldRealisasiFXD20DC, entity.FieldRealisasiFXD40HC)
}

func shipsideComplete(row *entity.ContainerMovement) bool {
	return anyPositive(row, entity.FieldTeusRealisasi)
}

// Tabs returns the edit tabs in unlock order. Each tab unlocks once the stage
// before it has a non-zero value.
func Tabs(row entity.ContainerMovement) []entity.StageTab {
	return []entity.StageTab{
		{Stage: entity.StageBongkaran, Label: stageDefs[entity.StageBongkaran].label},
		{Stage: entity.StagePengajuan, Label: stageDefs[entity.StagePengajuan].label, Disabled: !bongkaranComplete(&row)},
		{Stage: entity.StageAccPengajuan, Label: stageDefs[entity.StageAccPengajuan].label, Disabled: !pengajuanComplete(&row)},
		{Stage: entity.StageRealisasi, Label: stageDefs[entity.StageRealisasi].label, Disabled: !accComplete(&row)},
		{Stage: entity.StageObstacles, Label: stageDefs[entity.StageObstacles].label, Disabled: !shipsideComplete(&row)},
	}
}

// InitialTab is the first stage that is not complete yet
func InitialTab(row entity.ContainerMovement) entity.Stage {
	switch {
	case !bongkaranComplete(&row):
		return entity.StageBongkaran
	case !pengajuanComplete(&row):
		return entity.StagePengajuan
	case !accComplete(&row):
		return entity.StageAccPengajuan
	case !realisasiComplete(&row):
		return entity.StageRealisasi
	}
	return entity.StageObstacles
}

// StageEnabled reports whether the tab of stage is unlocked for row
func StageEnabled(row entity.ContainerMovement, stage entity.Stage) bool {
	for _, tab := range Tabs(row) {
		if tab.Stage == stage {
			return !tab.Disabled
		}
	}
	return false
}

// FormFromRow prefills the form of every stage from the recorded values
func FormFromRow(row entity.ContainerMovement) entity.StageForm {
	form := entity.StageForm{
		Quantities: make(map[string]float64),
		Obstacles:  row.Obstacles,
	}
	for _, stage := range entity.Stages {
		for _, f := range stageDefs[stage].fields {
			v, _ := row.Quantity(f)
			form.Quantities[f] = v
		}
	}
	return form
}

// StagePayload builds the request body of a stage save: the record id, the
// stage's own fields and nothing else.
func StagePayload(row entity.ContainerMovement, stage entity.Stage, form entity.StageForm) (map[string]interface{}, error) {
	def, ok := stageDefs[stage]
	if !ok {
		return nil, fmt.Errorf("unknown stage %q", stage)
	}

	payload := map[string]interface{}{
		"id": row.ID,
	}
	if def.withVoyage {
		payload["voyage_id"] = row.VoyageID
	}
	for _, f := range def.fields {
		payload[f] = form.Quantities[f]
	}
	if def.withObstacles {
		payload["obstacles"] = form.Obstacles
	}
	return payload, nil
}

// StageEditor saves one stage of a record at a time
type StageEditor struct {
	repo     repository.ContainerMovementRepository
	journal  repository.SubmissionRepository
	notifier Notifier
	metrics  *metrics.Metrics
	logger   logger.Logger
}

// NewStageEditor creates a new stage editor. journal may be nil.
func NewStageEditor(
	repo repository.ContainerMovementRepository,
	journal repository.SubmissionRepository,
	notifier Notifier,
	m *metrics.Metrics,
	logger logger.Logger,
) *StageEditor {
	return &StageEditor{
		repo:     repo,
		journal:  journal,
		notifier: notifier,
		metrics:  m,
		logger:   logger,
	}
}

// Save submits the stage's fields. On success a notification is raised and
// refresh is called; on a validation failure one notification is raised per
// violation.
func (e *StageEditor) Save(ctx context.Context, row entity.ContainerMovement, stage entity.Stage, form entity.StageForm, refresh RefreshFunc) error {
	def, ok := stageDefs[stage]
	if !ok {
		return fmt.Errorf("unknown stage %q", stage)
	}
	if !StageEnabled(row, stage) {
		return fmt.Errorf("%s: %w", stage, ErrStageLocked)
	}

	payload, err := StagePayload(row, stage, form)
	if err != nil {
		return err
	}

	log := e.logger.With("voyageId", row.VoyageID, "stage", string(stage))

	if err := e.repo.SaveStage(ctx, stage, payload); err != nil {
		var apiErr *apiclient.APIError
		status := entity.SubmissionFailed
		message := def.failure
		violations := 0

		if errors.As(err, &apiErr) {
			if apiErr.Msg != "" {
				message = apiErr.Msg
			}
			if len(apiErr.Violations) > 0 {
				status = entity.SubmissionRejected
				violations = len(apiErr.Violations)
				for _, v := range apiErr.Violations {
					msg := v.Msg
					if msg == "" {
						msg = apiErr.Msg
					}
					if msg == "" {
						msg = def.violation
					}
					e.notifier.Notify(ctx, entity.LevelError, sourceStageEditor, msg)
				}
			}
		}
		if violations == 0 {
			e.notifier.Notify(ctx, entity.LevelError, sourceStageEditor, message)
		}

		e.metrics.StageSaves.WithLabelValues(string(stage), status).Inc()
		e.metrics.ErrorsCount.WithLabelValues("save_stage").Inc()
		log.Warn("Stage save failed", "violations", violations, "error", err)
		e.record(ctx, row, stage, payload, status, message, violations)
		return fmt.Errorf("failed to save %s: %w", stage, err)
	}

	e.metrics.StageSaves.WithLabelValues(string(stage), entity.SubmissionSucceeded).Inc()
	log.Info("Stage saved")
	e.notifier.Notify(ctx, entity.LevelSuccess, sourceStageEditor, def.success)
	e.record(ctx, row, stage, payload, entity.SubmissionSucceeded, def.success, 0)

	if refresh != nil {
		if err := refresh(ctx); err != nil {
			log.Warn("Refresh after save failed", "error", err)
		}
	}
	return nil
}

func (e *StageEditor) record(ctx context.Context, row entity.ContainerMovement, stage entity.Stage, payload map[string]interface{}, status, message string, violations int) {
	if e.journal == nil {
		return
	}

	body, err := json.Marshal(payload)
	if err != nil {
		e.logger.Warn("Failed to marshal submission payload", "error", err)
		return
	}

	submission := &entity.StageSubmission{
		RecordID:   row.Key(),
		VoyageID:   row.VoyageID,
		Stage:      stage,
		Payload:    string(body),
		Status:     status,
		Message:    message,
		Violations: violations,
		CreatedAt:  time.Now(),
	}
	if err := e.journal.Record(ctx, submission); err != nil {
		e.logger.Warn("Failed to journal stage submission", "error", err)
	}
}
