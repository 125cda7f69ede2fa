package repository

import (
	"context"

	"github.com/Lucafivan/Ship-Operation-Systems/internal/domain/entity"
)

// ContainerMovementRepository defines the operations on the container movement list
type ContainerMovementRepository interface {
	List(ctx context.Context, query entity.ListQuery) (*entity.Page, error)
	SaveStage(ctx context.Context, stage entity.Stage, payload map[string]interface{}) error
}
