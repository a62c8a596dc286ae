package services

import (
	"context"

	"tessera/internal/domain/models"
	"tessera/internal/httputil"
)

// CreatePageRequest creates a page at root level or under a parent.
// A ParentID that does not resolve to an existing page is treated as a
// silent no-parent fallback, not an error.
type CreatePageRequest struct {
	WorkspaceID string         `json:"workspace_id"`
	ParentID    *string        `json:"parent_id,omitempty"`
	Title       string         `json:"title"`
	Icon        *string        `json:"icon,omitempty"`
	Content     map[string]any `json:"content,omitempty"`
	Properties  map[string]any `json:"properties,omitempty"`
}

// UpdatePageRequest patches content fields. Icon and Cover are tri-state:
// absent = unchanged, null = cleared, string = set.
type UpdatePageRequest struct {
	Title      *string                 `json:"title,omitempty"`
	Icon       httputil.OptionalString `json:"icon"`
	Cover      httputil.OptionalString `json:"cover"`
	Content    map[string]any          `json:"content,omitempty"`
	Properties map[string]any          `json:"properties,omitempty"`
}

// MovePageRequest re-parents a page. ParentID nil moves it to root level.
type MovePageRequest struct {
	ParentID *string `json:"parent_id"`
}

// DuplicatePageRequest clones a page, optionally with its whole
// non-trashed subtree.
type DuplicatePageRequest struct {
	IncludeSubpages bool `json:"include_subpages"`
}

// ReorderPagesRequest assigns position = index for each id, in order.
// The caller is trusted to supply one coherent sibling set.
type ReorderPagesRequest struct {
	PageIDs []string `json:"page_ids"`
}

// EmptyTrashResult reports the per-page outcome of an empty-trash run.
// The purges are independent; one failure does not stop the rest.
type EmptyTrashResult struct {
	Purged int `json:"purged"`
	Failed int `json:"failed"`
}

// PageService implements the structural mutations over the page tree and
// the reads the clients reconcile against.
type PageService interface {
	CreatePage(ctx context.Context, userID string, req *CreatePageRequest) (*models.Page, error)
	GetPage(ctx context.Context, id string) (*models.Page, error)

	// ListPages returns non-trashed pages. With parentID set it returns the
	// ordered children of that parent (nil pointer target = root level);
	// with listChildren false it returns the whole workspace.
	ListPages(ctx context.Context, workspaceID string) ([]*models.Page, error)
	ListChildren(ctx context.Context, workspaceID string, parentID *string) ([]*models.Page, error)

	UpdatePage(ctx context.Context, userID, id string, req *UpdatePageRequest) (*models.Page, error)
	MovePage(ctx context.Context, userID, id string, newParentID *string) (*models.Page, error)

	// DuplicatePage returns the created pages, subtree root first.
	DuplicatePage(ctx context.Context, userID, id string, includeSubpages bool) ([]*models.Page, error)

	ReorderPages(ctx context.Context, userID string, pageIDs []string) error

	TrashPage(ctx context.Context, userID, id string) error
	RestorePage(ctx context.Context, userID, id string) (*models.Page, error)
	PurgePage(ctx context.Context, id string) error

	ListTrash(ctx context.Context, workspaceID string) ([]*models.Page, error)
	EmptyTrash(ctx context.Context, workspaceID string) (*EmptyTrashResult, error)
}
