package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
)

// EnsureSchema creates the tables and indexes if they don't exist. Ids are
// generated by the application (UUIDv7 strings), so the columns are plain
// TEXT with no database-side default.
//
// parent_id deliberately has no foreign key: moves, restores, and purges
// must tolerate a parent that was trashed or removed underneath a page.
func EnsureSchema(ctx context.Context, pool *pgxpool.Pool, tables *TableNames, prefix string) error {
	createWorkspaces := `
		CREATE TABLE IF NOT EXISTS ` + tables.Workspaces + ` (
			id TEXT PRIMARY KEY,
			name TEXT NOT NULL,
			created_by TEXT NOT NULL,
			created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
			updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
		)
	`
	if _, err := pool.Exec(ctx, createWorkspaces); err != nil {
		return fmt.Errorf("create workspaces table: %w", err)
	}

	createPages := `
		CREATE TABLE IF NOT EXISTS ` + tables.Pages + ` (
			id TEXT PRIMARY KEY,
			workspace_id TEXT NOT NULL REFERENCES ` + tables.Workspaces + `(id) ON DELETE CASCADE,
			parent_id TEXT,
			path TEXT[] NOT NULL DEFAULT '{}',
			depth INTEGER NOT NULL DEFAULT 0,
			position INTEGER NOT NULL DEFAULT 0,
			title TEXT NOT NULL DEFAULT '',
			icon TEXT,
			cover TEXT,
			content JSONB,
			properties JSONB,
			created_by TEXT NOT NULL,
			last_edited_by TEXT NOT NULL,
			created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
			updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
			deleted_at TIMESTAMPTZ
		)
	`
	if _, err := pool.Exec(ctx, createPages); err != nil {
		return fmt.Errorf("create pages table: %w", err)
	}

	indexes := []string{
		`CREATE INDEX IF NOT EXISTS idx_` + prefix + `pages_workspace ON ` + tables.Pages + `(workspace_id) WHERE deleted_at IS NULL`,
		`CREATE INDEX IF NOT EXISTS idx_` + prefix + `pages_siblings ON ` + tables.Pages + `(workspace_id, parent_id, position) WHERE deleted_at IS NULL`,
		`CREATE INDEX IF NOT EXISTS idx_` + prefix + `pages_trash ON ` + tables.Pages + `(workspace_id, deleted_at) WHERE deleted_at IS NOT NULL`,
		`CREATE INDEX IF NOT EXISTS idx_` + prefix + `pages_path ON ` + tables.Pages + ` USING GIN (path)`,
	}
	for _, indexSQL := range indexes {
		if _, err := pool.Exec(ctx, indexSQL); err != nil {
			return fmt.Errorf("create index: %w", err)
		}
	}

	return nil
}

// DropSchema drops the tables, children first. Used by the seed command's
// --drop-tables flag; never called by the server.
func DropSchema(ctx context.Context, pool *pgxpool.Pool, tables *TableNames) error {
	for _, table := range []string{tables.Pages, tables.Workspaces} {
		if _, err := pool.Exec(ctx, "DROP TABLE IF EXISTS "+table+" CASCADE"); err != nil {
			return fmt.Errorf("drop %s: %w", table, err)
		}
	}
	return nil
}
