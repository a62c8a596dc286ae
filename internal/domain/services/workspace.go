package services

import (
	"context"

	"tessera/internal/domain/models"
)

// CreateWorkspaceRequest creates a workspace.
type CreateWorkspaceRequest struct {
	Name string `json:"name"`
}

// WorkspaceService manages the workspaces that own page trees.
type WorkspaceService interface {
	CreateWorkspace(ctx context.Context, userID string, req *CreateWorkspaceRequest) (*models.Workspace, error)
	GetWorkspace(ctx context.Context, id string) (*models.Workspace, error)
	ListWorkspaces(ctx context.Context) ([]*models.Workspace, error)
}
