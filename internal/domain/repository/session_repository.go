package repository

import (
	"context"
	"errors"

	"github.com/Lucafivan/Ship-Operation-Systems/internal/domain/entity"
)

// ErrSessionNotFound is returned when no session has been stored yet
var ErrSessionNotFound = errors.New("session not found")

// SessionRepository persists the backend auth tokens
type SessionRepository interface {
	Load(ctx context.Context, name string) (*entity.StoredSession, error)
	Save(ctx context.Context, session *entity.StoredSession) error
	Delete(ctx context.Context, name string) error
}

// SubmissionRepository journals stage saves
type SubmissionRepository interface {
	Record(ctx context.Context, submission *entity.StageSubmission) error
	Recent(ctx context.Context, recordID int64, limit int) ([]*entity.StageSubmission, error)
}
