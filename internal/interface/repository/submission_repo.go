package repository

import (
	"context"
	"sort"
	"sync"

	"github.com/Lucafivan/Ship-Operation-Systems/internal/domain/entity"
	"github.com/Lucafivan/Ship-Operation-Systems/internal/domain/repository"

	"gorm.io/gorm"
)

// GormSubmissionRepository implements the SubmissionRepository interface
type GormSubmissionRepository struct {
	db *gorm.DB
}

// NewGormSubmissionRepository creates a new GORM submission repository
func NewGormSubmissionRepository(db *gorm.DB) repository.SubmissionRepository {
	return &GormSubmissionRepository{
		db: db,
	}
}

// StageSubmissions GORM model for database mapping
type StageSubmissions struct {
	gorm.Model
	RecordID   int64  `gorm:"column:record_id;index"`
	VoyageID   int64  `gorm:"column:voyage_id"`
	Stage      string `gorm:"column:stage"`
	Payload    string `gorm:"column:payload"`
	Status     string `gorm:"column:status"`
	Message    string `gorm:"column:message"`
	Violations int    `gorm:"column:violations"`
}

// TableName overrides the default table name
func (StageSubmissions) TableName() string {
	return "stage_submissions"
}

// MigrateSubmissions creates or updates the journal table
func MigrateSubmissions(db *gorm.DB) error {
	return db.AutoMigrate(&StageSubmissions{})
}

// Record inserts a new submission into the database
func (r *GormSubmissionRepository) Record(ctx context.Context, submission *entity.StageSubmission) error {
	model := StageSubmissions{
		RecordID:   submission.RecordID,
		VoyageID:   submission.VoyageID,
		Stage:      string(submission.Stage),
		Payload:    submission.Payload,
		Status:     submission.Status,
		Message:    submission.Message,
		Violations: submission.Violations,
	}
	if !submission.CreatedAt.IsZero() {
		model.CreatedAt = submission.CreatedAt
	}

	result := r.db.WithContext(ctx).Create(&model)
	if result.Error != nil {
		return result.Error
	}

	// Update the entity with the generated ID
	submission.ID = model.ID
	submission.CreatedAt = model.CreatedAt

	return nil
}

// Recent returns the latest submissions of a record, newest first
func (r *GormSubmissionRepository) Recent(ctx context.Context, recordID int64, limit int) ([]*entity.StageSubmission, error) {
	var rows []StageSubmissions
	result := r.db.WithContext(ctx).
		Where("record_id = ?", recordID).
		Order("created_at DESC").
		Order("id DESC").
		Limit(limit).
		Find(&rows)

	if result.Error != nil {
		return nil, result.Error
	}

	submissions := make([]*entity.StageSubmission, 0, len(rows))
	for _, row := range rows {
		submissions = append(submissions, &entity.StageSubmission{
			ID:         row.ID,
			RecordID:   row.RecordID,
			VoyageID:   row.VoyageID,
			Stage:      entity.Stage(row.Stage),
			Payload:    row.Payload,
			Status:     row.Status,
			Message:    row.Message,
			Violations: row.Violations,
			CreatedAt:  row.CreatedAt,
		})
	}
	return submissions, nil
}

// MemorySubmissionRepository journals submissions in process memory
type MemorySubmissionRepository struct {
	mu          sync.Mutex
	nextID      uint
	submissions []entity.StageSubmission
}

func NewMemorySubmissionRepository() *MemorySubmissionRepository {
	return &MemorySubmissionRepository{}
}

func (r *MemorySubmissionRepository) Record(ctx context.Context, submission *entity.StageSubmission) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.nextID++
	submission.ID = r.nextID
	r.submissions = append(r.submissions, *submission)
	return nil
}

func (r *MemorySubmissionRepository) Recent(ctx context.Context, recordID int64, limit int) ([]*entity.StageSubmission, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var out []*entity.StageSubmission
	for i := range r.submissions {
		if r.submissions[i].RecordID == recordID {
			s := r.submissions[i]
			out = append(out, &s)
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].ID > out[j].ID })
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}
