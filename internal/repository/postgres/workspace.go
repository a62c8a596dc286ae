package postgres

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/jackc/pgx/v5/pgxpool"

	"tessera/internal/domain"
	"tessera/internal/domain/models"
	"tessera/internal/domain/repositories"
)

// PostgresWorkspaceRepository implements the WorkspaceRepository interface.
type PostgresWorkspaceRepository struct {
	pool   *pgxpool.Pool
	tables *TableNames
	logger *slog.Logger
}

// NewWorkspaceRepository creates a new workspace repository.
func NewWorkspaceRepository(config *RepositoryConfig) repositories.WorkspaceRepository {
	return &PostgresWorkspaceRepository{
		pool:   config.Pool,
		tables: config.Tables,
		logger: config.Logger,
	}
}

// Create inserts a new workspace row.
func (r *PostgresWorkspaceRepository) Create(ctx context.Context, ws *models.Workspace) error {
	query := fmt.Sprintf(`
		INSERT INTO %s (id, name, created_by, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5)
	`, r.tables.Workspaces)

	executor := GetExecutor(ctx, r.pool)
	_, err := executor.Exec(ctx, query, ws.ID, ws.Name, ws.CreatedBy, ws.CreatedAt, ws.UpdatedAt)
	if err != nil {
		if IsPgDuplicateError(err) {
			return fmt.Errorf("workspace %s: %w", ws.ID, domain.ErrConflict)
		}
		return fmt.Errorf("create workspace: %w", err)
	}
	return nil
}

// GetByID retrieves a workspace by id.
func (r *PostgresWorkspaceRepository) GetByID(ctx context.Context, id string) (*models.Workspace, error) {
	query := fmt.Sprintf(`
		SELECT id, name, created_by, created_at, updated_at
		FROM %s WHERE id = $1
	`, r.tables.Workspaces)

	var ws models.Workspace
	executor := GetExecutor(ctx, r.pool)
	err := executor.QueryRow(ctx, query, id).Scan(&ws.ID, &ws.Name, &ws.CreatedBy, &ws.CreatedAt, &ws.UpdatedAt)
	if err != nil {
		if IsPgNoRowsError(err) {
			return nil, fmt.Errorf("workspace %s: %w", id, domain.ErrNotFound)
		}
		return nil, fmt.Errorf("get workspace: %w", err)
	}
	return &ws, nil
}

// List returns all workspaces, oldest first.
func (r *PostgresWorkspaceRepository) List(ctx context.Context) ([]*models.Workspace, error) {
	query := fmt.Sprintf(`
		SELECT id, name, created_by, created_at, updated_at
		FROM %s ORDER BY created_at ASC
	`, r.tables.Workspaces)

	executor := GetExecutor(ctx, r.pool)
	rows, err := executor.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("list workspaces: %w", err)
	}
	defer rows.Close()

	var workspaces []*models.Workspace
	for rows.Next() {
		var ws models.Workspace
		if err := rows.Scan(&ws.ID, &ws.Name, &ws.CreatedBy, &ws.CreatedAt, &ws.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scan workspace: %w", err)
		}
		workspaces = append(workspaces, &ws)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list workspaces: %w", err)
	}
	return workspaces, nil
}
