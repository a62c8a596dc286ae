package service

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"

	"tessera/internal/config"
	"tessera/internal/domain"
	"tessera/internal/domain/models"
	"tessera/internal/domain/repositories"
	"tessera/internal/domain/services"
	"tessera/internal/idgen"
)

type workspaceService struct {
	workspaces repositories.WorkspaceRepository
	ids        idgen.Generator
	logger     *slog.Logger
}

// NewWorkspaceService creates a new workspace service.
func NewWorkspaceService(
	workspaces repositories.WorkspaceRepository,
	ids idgen.Generator,
	logger *slog.Logger,
) services.WorkspaceService {
	return &workspaceService{
		workspaces: workspaces,
		ids:        ids,
		logger:     logger,
	}
}

func (s *workspaceService) CreateWorkspace(ctx context.Context, userID string, req *services.CreateWorkspaceRequest) (*models.Workspace, error) {
	name := strings.TrimSpace(req.Name)
	if err := validation.Validate(name, validation.Required, validation.Length(1, config.MaxWorkspaceNameLength)); err != nil {
		return nil, fmt.Errorf("%w: name: %v", domain.ErrValidation, err)
	}

	now := time.Now()
	ws := &models.Workspace{
		ID:        s.ids(),
		Name:      name,
		CreatedBy: userID,
		CreatedAt: now,
		UpdatedAt: now,
	}

	if err := s.workspaces.Create(ctx, ws); err != nil {
		return nil, err
	}

	s.logger.Info("workspace created", "id", ws.ID, "name", ws.Name)
	return ws, nil
}

func (s *workspaceService) GetWorkspace(ctx context.Context, id string) (*models.Workspace, error) {
	return s.workspaces.GetByID(ctx, id)
}

func (s *workspaceService) ListWorkspaces(ctx context.Context) ([]*models.Workspace, error) {
	return s.workspaces.List(ctx)
}
