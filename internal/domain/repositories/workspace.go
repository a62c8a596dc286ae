package repositories

import (
	"context"

	"tessera/internal/domain/models"
)

// WorkspaceRepository manages workspace rows.
type WorkspaceRepository interface {
	Create(ctx context.Context, ws *models.Workspace) error
	GetByID(ctx context.Context, id string) (*models.Workspace, error)
	List(ctx context.Context) ([]*models.Workspace, error)
}
