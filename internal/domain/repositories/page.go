package repositories

import (
	"context"
	"time"

	"tessera/internal/domain/models"
)

// PageRepository is the single source of truth for page records. It is the
// only layer that reads or writes path, depth, and position; deciding when
// those need recomputing is the service layer's job.
//
// None of these methods span more than one row. Multi-row tree mutations
// (subtree duplication, reorder, empty trash) are sequences of independent
// single-row calls and can partially fail; callers own that failure model.
type PageRepository interface {
	// Create inserts a new page row. The caller supplies the id.
	Create(ctx context.Context, page *models.Page) error

	// GetByID returns the page row whether or not it is trashed.
	// Returns domain.ErrNotFound if the row does not exist.
	GetByID(ctx context.Context, id string) (*models.Page, error)

	// ListChildren returns the non-trashed pages under parentID
	// (nil = root level), ordered by position ascending.
	ListChildren(ctx context.Context, workspaceID string, parentID *string) ([]*models.Page, error)

	// ListByWorkspace returns every non-trashed page in the workspace,
	// ordered by position ascending within each sibling group.
	ListByWorkspace(ctx context.Context, workspaceID string) ([]*models.Page, error)

	// ListTrashed returns every trashed page in the workspace, most
	// recently trashed first.
	ListTrashed(ctx context.Context, workspaceID string) ([]*models.Page, error)

	// Update persists the content fields (title, icon, cover, content,
	// properties) plus updated_at and last_edited_by from the struct.
	Update(ctx context.Context, page *models.Page) error

	// UpdateTree persists parent_id, path, depth, updated_at, and
	// last_edited_by from the struct. Position is left untouched.
	UpdateTree(ctx context.Context, page *models.Page) error

	// SetPosition sets one page's sibling rank, bumping updated_at.
	SetPosition(ctx context.Context, id string, position int, editedBy string) error

	// NextPosition returns the count of current non-trashed siblings under
	// parentID. Positions only need relative ordering, so a previously used
	// index may be handed out again after deletions.
	NextPosition(ctx context.Context, workspaceID string, parentID *string) (int, error)

	// SoftDelete tombstones the page at the given instant.
	SoftDelete(ctx context.Context, id string, at time.Time, editedBy string) error

	// Restore clears the tombstone. It does not check the current state;
	// the service decides whether a restore is legal.
	Restore(ctx context.Context, id string, editedBy string) error

	// Delete removes the row outright. Descendants are not touched.
	Delete(ctx context.Context, id string) error
}
