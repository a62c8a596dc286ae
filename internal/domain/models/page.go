package models

import (
	"slices"
	"time"
)

// Page is a node in the document tree.
//
// Path is the materialized ancestor chain: the ids of every ancestor, root
// first, excluding the page itself. A root page has an empty Path. Depth is
// always len(Path); it is denormalized for query convenience and must be
// written together with Path.
type Page struct {
	ID          string         `json:"id" db:"id"`
	WorkspaceID string         `json:"workspace_id" db:"workspace_id"`
	ParentID    *string        `json:"parent_id" db:"parent_id"` // NULL = root level
	Path        []string       `json:"path" db:"path"`
	Depth       int            `json:"depth" db:"depth"`
	Position    int            `json:"position" db:"position"` // rank among siblings, not necessarily contiguous
	Title       string         `json:"title" db:"title"`
	Icon        *string        `json:"icon,omitempty" db:"icon"`
	Cover       *string        `json:"cover,omitempty" db:"cover"`
	Content     map[string]any `json:"content,omitempty" db:"content"`       // opaque block document
	Properties  map[string]any `json:"properties,omitempty" db:"properties"` // opaque key/value bag

	CreatedBy    string `json:"created_by" db:"created_by"`
	LastEditedBy string `json:"last_edited_by" db:"last_edited_by"`

	CreatedAt time.Time  `json:"created_at" db:"created_at"`
	UpdatedAt time.Time  `json:"updated_at" db:"updated_at"`
	DeletedAt *time.Time `json:"deleted_at,omitempty" db:"deleted_at"` // non-nil = in the trash
}

// IsTrashed reports whether the page carries a tombstone.
func (p *Page) IsTrashed() bool {
	return p.DeletedAt != nil
}

// IsDescendantOf reports whether ancestorID appears in the page's
// materialized ancestor chain. O(depth), no traversal needed.
func (p *Page) IsDescendantOf(ancestorID string) bool {
	return slices.Contains(p.Path, ancestorID)
}

// ChildPath returns the (path, depth) a child of this page must carry.
// Called with a nil receiver it yields the root-level values.
func (p *Page) ChildPath() ([]string, int) {
	if p == nil {
		return []string{}, 0
	}
	path := make([]string, 0, len(p.Path)+1)
	path = append(path, p.Path...)
	path = append(path, p.ID)
	return path, p.Depth + 1
}
