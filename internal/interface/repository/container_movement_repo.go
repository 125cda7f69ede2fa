package repository

import (
	"context"
	"fmt"
	"net/url"
	"strconv"

	"github.com/Lucafivan/Ship-Operation-Systems/internal/domain/entity"
	"github.com/Lucafivan/Ship-Operation-Systems/internal/domain/repository"
	"github.com/Lucafivan/Ship-Operation-Systems/internal/infrastructure/apiclient"
	"github.com/Lucafivan/Ship-Operation-Systems/pkg/logger"
)

// Backend is the subset of the API client the REST repositories need
type Backend interface {
	Get(ctx context.Context, path string, query url.Values, out interface{}) error
	Post(ctx context.Context, path string, body, out interface{}) error
}

var _ Backend = (*apiclient.Client)(nil)

// RestContainerMovementRepository reads and updates container movements over REST
type RestContainerMovementRepository struct {
	backend Backend
	logger  logger.Logger
}

// NewRestContainerMovementRepository creates a new REST container movement repository
func NewRestContainerMovementRepository(backend Backend, logger logger.Logger) repository.ContainerMovementRepository {
	return &RestContainerMovementRepository{
		backend: backend,
		logger:  logger,
	}
}

// List fetches one page of the monitoring list
func (r *RestContainerMovementRepository) List(ctx context.Context, query entity.ListQuery) (*entity.Page, error) {
	params := url.Values{}
	params.Set("page", strconv.Itoa(query.Page))
	params.Set("per_page", strconv.Itoa(query.PerPage))
	if query.Query != "" {
		params.Set("q", query.Query)
		field := query.Field
		if field == "" {
			field = entity.SearchAll
		}
		params.Set("field", string(field))
	}

	var page entity.Page
	if err := r.backend.Get(ctx, "/container_movements/", params, &page); err != nil {
		return nil, err
	}
	if page.Data == nil {
		page.Data = []entity.ContainerMovement{}
	}
	return &page, nil
}

// SaveStage posts a stage-scoped update
func (r *RestContainerMovementRepository) SaveStage(ctx context.Context, stage entity.Stage, payload map[string]interface{}) error {
	endpoint := stage.Endpoint()
	if endpoint == "" {
		return fmt.Errorf("unknown stage %q", stage)
	}

	r.logger.Debug("Saving stage", "stage", string(stage), "endpoint", endpoint)
	return r.backend.Post(ctx, "/container_movements/"+endpoint, payload, nil)
}

