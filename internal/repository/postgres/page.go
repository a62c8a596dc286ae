package postgres

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"tessera/internal/domain"
	"tessera/internal/domain/models"
	"tessera/internal/domain/repositories"
)

// PostgresPageRepository implements the PageRepository interface.
type PostgresPageRepository struct {
	pool   *pgxpool.Pool
	tables *TableNames
	logger *slog.Logger
}

// NewPageRepository creates a new page repository.
func NewPageRepository(config *RepositoryConfig) repositories.PageRepository {
	return &PostgresPageRepository{
		pool:   config.Pool,
		tables: config.Tables,
		logger: config.Logger,
	}
}

// pageColumns is the select list shared by every read. Order must match
// scanPage.
const pageColumns = `id, workspace_id, parent_id, path, depth, position,
	title, icon, cover, content, properties,
	created_by, last_edited_by, created_at, updated_at, deleted_at`

type rowScanner interface {
	Scan(dest ...any) error
}

func scanPage(row rowScanner) (*models.Page, error) {
	var p models.Page
	err := row.Scan(
		&p.ID,
		&p.WorkspaceID,
		&p.ParentID,
		&p.Path,
		&p.Depth,
		&p.Position,
		&p.Title,
		&p.Icon,
		&p.Cover,
		&p.Content,
		&p.Properties,
		&p.CreatedBy,
		&p.LastEditedBy,
		&p.CreatedAt,
		&p.UpdatedAt,
		&p.DeletedAt,
	)
	if err != nil {
		return nil, err
	}
	if p.Path == nil {
		p.Path = []string{}
	}
	return &p, nil
}

// Create inserts a new page row.
func (r *PostgresPageRepository) Create(ctx context.Context, page *models.Page) error {
	query := fmt.Sprintf(`
		INSERT INTO %s (id, workspace_id, parent_id, path, depth, position,
			title, icon, cover, content, properties,
			created_by, last_edited_by, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15)
	`, r.tables.Pages)

	executor := GetExecutor(ctx, r.pool)
	_, err := executor.Exec(ctx, query,
		page.ID,
		page.WorkspaceID,
		page.ParentID,
		page.Path,
		page.Depth,
		page.Position,
		page.Title,
		page.Icon,
		page.Cover,
		page.Content,
		page.Properties,
		page.CreatedBy,
		page.LastEditedBy,
		page.CreatedAt,
		page.UpdatedAt,
	)
	if err != nil {
		if IsPgDuplicateError(err) {
			return fmt.Errorf("page %s: %w", page.ID, domain.ErrConflict)
		}
		if IsPgForeignKeyError(err) {
			return fmt.Errorf("%w: workspace %s does not exist", domain.ErrValidation, page.WorkspaceID)
		}
		return fmt.Errorf("create page: %w", err)
	}
	return nil
}

// GetByID retrieves a page row, trashed or not.
func (r *PostgresPageRepository) GetByID(ctx context.Context, id string) (*models.Page, error) {
	query := fmt.Sprintf(`SELECT %s FROM %s WHERE id = $1`, pageColumns, r.tables.Pages)

	executor := GetExecutor(ctx, r.pool)
	page, err := scanPage(executor.QueryRow(ctx, query, id))
	if err != nil {
		if IsPgNoRowsError(err) {
			return nil, fmt.Errorf("page %s: %w", id, domain.ErrNotFound)
		}
		return nil, fmt.Errorf("get page: %w", err)
	}
	return page, nil
}

// ListChildren returns the ordered non-trashed children of parentID.
func (r *PostgresPageRepository) ListChildren(ctx context.Context, workspaceID string, parentID *string) ([]*models.Page, error) {
	var query string
	var args []any

	if parentID != nil {
		query = fmt.Sprintf(`
			SELECT %s FROM %s
			WHERE workspace_id = $1 AND parent_id = $2 AND deleted_at IS NULL
			ORDER BY position ASC, id ASC
		`, pageColumns, r.tables.Pages)
		args = []any{workspaceID, *parentID}
	} else {
		query = fmt.Sprintf(`
			SELECT %s FROM %s
			WHERE workspace_id = $1 AND parent_id IS NULL AND deleted_at IS NULL
			ORDER BY position ASC, id ASC
		`, pageColumns, r.tables.Pages)
		args = []any{workspaceID}
	}

	return r.queryPages(ctx, query, args...)
}

// ListByWorkspace returns every non-trashed page in the workspace.
func (r *PostgresPageRepository) ListByWorkspace(ctx context.Context, workspaceID string) ([]*models.Page, error) {
	query := fmt.Sprintf(`
		SELECT %s FROM %s
		WHERE workspace_id = $1 AND deleted_at IS NULL
		ORDER BY depth ASC, position ASC, id ASC
	`, pageColumns, r.tables.Pages)

	return r.queryPages(ctx, query, workspaceID)
}

// ListTrashed returns the workspace's tombstoned pages, newest first.
func (r *PostgresPageRepository) ListTrashed(ctx context.Context, workspaceID string) ([]*models.Page, error) {
	query := fmt.Sprintf(`
		SELECT %s FROM %s
		WHERE workspace_id = $1 AND deleted_at IS NOT NULL
		ORDER BY deleted_at DESC
	`, pageColumns, r.tables.Pages)

	return r.queryPages(ctx, query, workspaceID)
}

func (r *PostgresPageRepository) queryPages(ctx context.Context, query string, args ...any) ([]*models.Page, error) {
	executor := GetExecutor(ctx, r.pool)
	rows, err := executor.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list pages: %w", err)
	}
	defer rows.Close()

	var pages []*models.Page
	for rows.Next() {
		page, err := scanPage(rows)
		if err != nil {
			return nil, fmt.Errorf("scan page: %w", err)
		}
		pages = append(pages, page)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list pages: %w", err)
	}
	return pages, nil
}

// Update persists the content fields from the struct.
func (r *PostgresPageRepository) Update(ctx context.Context, page *models.Page) error {
	query := fmt.Sprintf(`
		UPDATE %s
		SET title = $1, icon = $2, cover = $3, content = $4, properties = $5,
			last_edited_by = $6, updated_at = $7
		WHERE id = $8
	`, r.tables.Pages)

	executor := GetExecutor(ctx, r.pool)
	result, err := executor.Exec(ctx, query,
		page.Title,
		page.Icon,
		page.Cover,
		page.Content,
		page.Properties,
		page.LastEditedBy,
		page.UpdatedAt,
		page.ID,
	)
	if err != nil {
		return fmt.Errorf("update page: %w", err)
	}
	if result.RowsAffected() == 0 {
		return fmt.Errorf("page %s: %w", page.ID, domain.ErrNotFound)
	}
	return nil
}

// UpdateTree persists parent_id, path, and depth from the struct. This is
// the only write that touches the materialized ancestry.
func (r *PostgresPageRepository) UpdateTree(ctx context.Context, page *models.Page) error {
	query := fmt.Sprintf(`
		UPDATE %s
		SET parent_id = $1, path = $2, depth = $3, last_edited_by = $4, updated_at = $5
		WHERE id = $6
	`, r.tables.Pages)

	executor := GetExecutor(ctx, r.pool)
	result, err := executor.Exec(ctx, query,
		page.ParentID,
		page.Path,
		page.Depth,
		page.LastEditedBy,
		page.UpdatedAt,
		page.ID,
	)
	if err != nil {
		return fmt.Errorf("update page tree position: %w", err)
	}
	if result.RowsAffected() == 0 {
		return fmt.Errorf("page %s: %w", page.ID, domain.ErrNotFound)
	}
	return nil
}

// SetPosition sets one page's sibling rank.
func (r *PostgresPageRepository) SetPosition(ctx context.Context, id string, position int, editedBy string) error {
	query := fmt.Sprintf(`
		UPDATE %s
		SET position = $1, last_edited_by = $2, updated_at = $3
		WHERE id = $4
	`, r.tables.Pages)

	executor := GetExecutor(ctx, r.pool)
	result, err := executor.Exec(ctx, query, position, editedBy, time.Now(), id)
	if err != nil {
		return fmt.Errorf("set page position: %w", err)
	}
	if result.RowsAffected() == 0 {
		return fmt.Errorf("page %s: %w", id, domain.ErrNotFound)
	}
	return nil
}

// NextPosition counts the current non-trashed siblings under parentID.
func (r *PostgresPageRepository) NextPosition(ctx context.Context, workspaceID string, parentID *string) (int, error) {
	var query string
	var args []any

	if parentID != nil {
		query = fmt.Sprintf(`
			SELECT COUNT(*) FROM %s
			WHERE workspace_id = $1 AND parent_id = $2 AND deleted_at IS NULL
		`, r.tables.Pages)
		args = []any{workspaceID, *parentID}
	} else {
		query = fmt.Sprintf(`
			SELECT COUNT(*) FROM %s
			WHERE workspace_id = $1 AND parent_id IS NULL AND deleted_at IS NULL
		`, r.tables.Pages)
		args = []any{workspaceID}
	}

	executor := GetExecutor(ctx, r.pool)
	var count int
	if err := executor.QueryRow(ctx, query, args...).Scan(&count); err != nil {
		return 0, fmt.Errorf("next position: %w", err)
	}
	return count, nil
}

// SoftDelete tombstones the page.
func (r *PostgresPageRepository) SoftDelete(ctx context.Context, id string, at time.Time, editedBy string) error {
	query := fmt.Sprintf(`
		UPDATE %s
		SET deleted_at = $1, last_edited_by = $2, updated_at = $1
		WHERE id = $3
	`, r.tables.Pages)

	executor := GetExecutor(ctx, r.pool)
	result, err := executor.Exec(ctx, query, at, editedBy, id)
	if err != nil {
		return fmt.Errorf("trash page: %w", err)
	}
	if result.RowsAffected() == 0 {
		return fmt.Errorf("page %s: %w", id, domain.ErrNotFound)
	}
	return nil
}

// Restore clears the tombstone.
func (r *PostgresPageRepository) Restore(ctx context.Context, id string, editedBy string) error {
	query := fmt.Sprintf(`
		UPDATE %s
		SET deleted_at = NULL, last_edited_by = $1, updated_at = $2
		WHERE id = $3
	`, r.tables.Pages)

	executor := GetExecutor(ctx, r.pool)
	result, err := executor.Exec(ctx, query, editedBy, time.Now(), id)
	if err != nil {
		return fmt.Errorf("restore page: %w", err)
	}
	if result.RowsAffected() == 0 {
		return fmt.Errorf("page %s: %w", id, domain.ErrNotFound)
	}
	return nil
}

// Delete removes the row outright.
func (r *PostgresPageRepository) Delete(ctx context.Context, id string) error {
	query := fmt.Sprintf(`DELETE FROM %s WHERE id = $1`, r.tables.Pages)

	executor := GetExecutor(ctx, r.pool)
	result, err := executor.Exec(ctx, query, id)
	if err != nil {
		return fmt.Errorf("delete page: %w", err)
	}
	if result.RowsAffected() == 0 {
		return fmt.Errorf("page %s: %w", id, domain.ErrNotFound)
	}
	return nil
}
