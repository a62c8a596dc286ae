package service

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"

	"tessera/internal/config"
	"tessera/internal/domain"
	"tessera/internal/domain/models"
	"tessera/internal/domain/repositories"
	"tessera/internal/domain/services"
	"tessera/internal/idgen"
	"tessera/internal/service/notify"
)

// copySuffix marks the root of a duplicated subtree when the copy lands
// next to its source.
const copySuffix = " (Copy)"

// pageService implements the PageService interface. Each operation is a
// sequence of single-row repository calls with no surrounding transaction;
// a failure mid-sequence leaves the earlier writes in place, and the
// operation reports the error to the caller without retrying.
type pageService struct {
	pages  repositories.PageRepository
	ids    idgen.Generator
	hub    *notify.Hub
	logger *slog.Logger
}

// NewPageService creates a new page service.
func NewPageService(
	pages repositories.PageRepository,
	ids idgen.Generator,
	hub *notify.Hub,
	logger *slog.Logger,
) services.PageService {
	return &pageService{
		pages:  pages,
		ids:    ids,
		hub:    hub,
		logger: logger,
	}
}

// CreatePage creates a page at root level or under a parent.
func (s *pageService) CreatePage(ctx context.Context, userID string, req *services.CreatePageRequest) (*models.Page, error) {
	if err := s.validateCreateRequest(req); err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrValidation, err)
	}

	// A parent id that doesn't resolve places the page at root level
	// instead of failing; clients may create against a parent another tab
	// just removed.
	var parent *models.Page
	if req.ParentID != nil && *req.ParentID != "" {
		p, err := s.pages.GetByID(ctx, *req.ParentID)
		if err != nil {
			s.logger.Debug("parent not found, creating at root",
				"parent_id", *req.ParentID,
			)
		} else {
			parent = p
		}
	}

	path, depth := parent.ChildPath()
	var parentID *string
	if parent != nil {
		parentID = &parent.ID
	}

	position, err := s.pages.NextPosition(ctx, req.WorkspaceID, parentID)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	page := &models.Page{
		ID:           s.ids(),
		WorkspaceID:  req.WorkspaceID,
		ParentID:     parentID,
		Path:         path,
		Depth:        depth,
		Position:     position,
		Title:        strings.TrimSpace(req.Title),
		Icon:         req.Icon,
		Content:      req.Content,
		Properties:   req.Properties,
		CreatedBy:    userID,
		LastEditedBy: userID,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	if err := s.pages.Create(ctx, page); err != nil {
		return nil, err
	}

	s.logger.Info("page created",
		"id", page.ID,
		"workspace_id", page.WorkspaceID,
		"parent_id", parentID,
		"depth", page.Depth,
		"position", page.Position,
	)

	return page, nil
}

// GetPage retrieves a page, trashed or not.
func (s *pageService) GetPage(ctx context.Context, id string) (*models.Page, error) {
	return s.pages.GetByID(ctx, id)
}

// ListPages returns every non-trashed page in the workspace. This is the
// list the client reconciliation loop fingerprints.
func (s *pageService) ListPages(ctx context.Context, workspaceID string) ([]*models.Page, error) {
	if workspaceID == "" {
		return nil, fmt.Errorf("%w: workspace_id is required", domain.ErrValidation)
	}
	return s.pages.ListByWorkspace(ctx, workspaceID)
}

// ListChildren returns the ordered non-trashed children of parentID
// (nil = root level).
func (s *pageService) ListChildren(ctx context.Context, workspaceID string, parentID *string) ([]*models.Page, error) {
	if workspaceID == "" {
		return nil, fmt.Errorf("%w: workspace_id is required", domain.ErrValidation)
	}
	return s.pages.ListChildren(ctx, workspaceID, parentID)
}

// UpdatePage patches the content fields of a page. Whole-blob last write
// wins: no merging is attempted between concurrent editors.
func (s *pageService) UpdatePage(ctx context.Context, userID, id string, req *services.UpdatePageRequest) (*models.Page, error) {
	page, err := s.pages.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if req.Title != nil {
		page.Title = strings.TrimSpace(*req.Title)
	}
	if req.Icon.Present {
		page.Icon = req.Icon.Value
	}
	if req.Cover.Present {
		page.Cover = req.Cover.Value
	}
	if req.Content != nil {
		page.Content = req.Content
	}
	if req.Properties != nil {
		page.Properties = req.Properties
	}

	if err := validation.Validate(page.Title, validation.Length(0, config.MaxPageTitleLength)); err != nil {
		return nil, fmt.Errorf("%w: title: %v", domain.ErrValidation, err)
	}

	page.LastEditedBy = userID
	page.UpdatedAt = time.Now()

	if err := s.pages.Update(ctx, page); err != nil {
		return nil, err
	}

	s.hub.Emit(page.ID, page.UpdatedAt)

	return page, nil
}

// MovePage re-parents a page, recomputing path and depth for the moved
// page only.
func (s *pageService) MovePage(ctx context.Context, userID, id string, newParentID *string) (*models.Page, error) {
	page, err := s.pages.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if newParentID != nil && *newParentID == id {
		return nil, fmt.Errorf("%w: page cannot be its own parent", domain.ErrValidation)
	}

	var parent *models.Page
	if newParentID != nil {
		parent, err = s.pages.GetByID(ctx, *newParentID)
		if err != nil {
			return nil, fmt.Errorf("parent %w", err)
		}
		// The materialized ancestor chain makes this an O(depth)
		// containment check rather than a tree walk.
		if parent.IsDescendantOf(id) {
			return nil, fmt.Errorf("%w: cannot move a page under its own descendant", domain.ErrValidation)
		}
	}

	page.ParentID = newParentID
	page.Path, page.Depth = parent.ChildPath()
	page.LastEditedBy = userID
	page.UpdatedAt = time.Now()

	// Descendants keep their old path/depth until they are themselves
	// moved. Ancestry checks stay sound for moves *of* those descendants
	// (their paths still name their real ancestors at write time), but
	// reads of path below the moved page go stale until then.
	if err := s.pages.UpdateTree(ctx, page); err != nil {
		return nil, err
	}

	s.hub.Emit(page.ID, page.UpdatedAt)

	s.logger.Info("page moved",
		"id", page.ID,
		"parent_id", newParentID,
		"depth", page.Depth,
	)

	return page, nil
}

// DuplicatePage clones a page next to its source, optionally with its
// entire non-trashed subtree. Returns the created pages, root first.
//
// Traversal is depth-first with parents cloned before children, so every
// child's new parent id references an already-committed row. A failure
// partway through leaves the pages created so far in place.
func (s *pageService) DuplicatePage(ctx context.Context, userID, id string, includeSubpages bool) ([]*models.Page, error) {
	src, err := s.pages.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	created := make([]*models.Page, 0, 8)

	// The destination parent is the source's own parent, which is exactly
	// the case where the root of the copy gets the title suffix; clones
	// deeper in the subtree keep their titles.
	err = s.clonePage(ctx, userID, src, src.ParentID, src.Path, src.Depth, includeSubpages, true, &created)
	if err != nil {
		return nil, err
	}

	s.logger.Info("page duplicated",
		"source_id", src.ID,
		"pages_created", len(created),
		"include_subpages", includeSubpages,
	)

	return created, nil
}

// clonePage copies src under parentID with the given path/depth, appends
// the clone to out, and recurses over src's non-trashed children.
func (s *pageService) clonePage(
	ctx context.Context,
	userID string,
	src *models.Page,
	parentID *string,
	path []string,
	depth int,
	includeSubpages bool,
	markCopy bool,
	out *[]*models.Page,
) error {
	position, err := s.pages.NextPosition(ctx, src.WorkspaceID, parentID)
	if err != nil {
		return err
	}

	title := src.Title
	if markCopy {
		title += copySuffix
	}

	now := time.Now()
	clone := &models.Page{
		ID:           s.ids(),
		WorkspaceID:  src.WorkspaceID,
		ParentID:     parentID,
		Path:         append([]string(nil), path...),
		Depth:        depth,
		Position:     position,
		Title:        title,
		Icon:         src.Icon,
		Cover:        src.Cover,
		Content:      src.Content,
		Properties:   src.Properties,
		CreatedBy:    userID,
		LastEditedBy: userID,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	if err := s.pages.Create(ctx, clone); err != nil {
		return fmt.Errorf("duplicate %s: %w", src.ID, err)
	}
	*out = append(*out, clone)

	if !includeSubpages {
		return nil
	}

	children, err := s.pages.ListChildren(ctx, src.WorkspaceID, &src.ID)
	if err != nil {
		return err
	}
	childPath, childDepth := clone.ChildPath()
	for _, child := range children {
		if err := s.clonePage(ctx, userID, child, &clone.ID, childPath, childDepth, true, false, out); err != nil {
			return err
		}
	}
	return nil
}

// TrashPage tombstones a page. Descendants are left untouched: they stay
// out of the trash and remain reachable through ListChildren of their own
// parents.
func (s *pageService) TrashPage(ctx context.Context, userID, id string) error {
	now := time.Now()
	if err := s.pages.SoftDelete(ctx, id, now, userID); err != nil {
		return err
	}

	s.hub.Emit(id, now)
	s.logger.Info("page trashed", "id", id)
	return nil
}

// RestorePage clears a page's tombstone. The page must currently be in the
// trash. Ancestry that changed while the page was trashed is not validated
// or repaired.
func (s *pageService) RestorePage(ctx context.Context, userID, id string) (*models.Page, error) {
	page, err := s.pages.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !page.IsTrashed() {
		return nil, fmt.Errorf("%w: page %s is not in the trash", domain.ErrValidation, id)
	}

	if err := s.pages.Restore(ctx, id, userID); err != nil {
		return nil, err
	}

	page, err = s.pages.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	s.hub.Emit(page.ID, page.UpdatedAt)
	s.logger.Info("page restored", "id", id)
	return page, nil
}

// PurgePage removes a page row outright. Descendants are not purged; the
// empty-trash flow issues one purge per trashed page instead.
func (s *pageService) PurgePage(ctx context.Context, id string) error {
	if err := s.pages.Delete(ctx, id); err != nil {
		return err
	}
	s.logger.Info("page purged", "id", id)
	return nil
}

// ListTrash returns the workspace's trashed pages.
func (s *pageService) ListTrash(ctx context.Context, workspaceID string) ([]*models.Page, error) {
	if workspaceID == "" {
		return nil, fmt.Errorf("%w: workspace_id is required", domain.ErrValidation)
	}
	return s.pages.ListTrashed(ctx, workspaceID)
}

// EmptyTrash permanently deletes every currently-trashed page in the
// workspace. The purges run concurrently and independently; one failure
// does not stop the others, and the result reports both counts rather
// than pretending at all-or-nothing.
func (s *pageService) EmptyTrash(ctx context.Context, workspaceID string) (*services.EmptyTrashResult, error) {
	trashed, err := s.ListTrash(ctx, workspaceID)
	if err != nil {
		return nil, err
	}

	var wg sync.WaitGroup
	var purged, failed atomic.Int64
	for _, page := range trashed {
		wg.Add(1)
		go func(id string) {
			defer wg.Done()
			if err := s.pages.Delete(ctx, id); err != nil {
				s.logger.Warn("empty trash: purge failed", "page_id", id, "error", err)
				failed.Add(1)
				return
			}
			purged.Add(1)
		}(page.ID)
	}
	wg.Wait()

	result := &services.EmptyTrashResult{
		Purged: int(purged.Load()),
		Failed: int(failed.Load()),
	}

	s.logger.Info("trash emptied",
		"workspace_id", workspaceID,
		"purged", result.Purged,
		"failed", result.Failed,
	)

	return result, nil
}

// ReorderPages assigns position = index for each id, one row at a time in
// the sequence's order. The caller is trusted to supply exactly one
// coherent sibling set; ids are not checked for a shared parent.
func (s *pageService) ReorderPages(ctx context.Context, userID string, pageIDs []string) error {
	if err := validation.Validate(pageIDs, validation.Required, validation.Each(validation.Required)); err != nil {
		return fmt.Errorf("%w: page_ids: %v", domain.ErrValidation, err)
	}

	for i, id := range pageIDs {
		if err := s.pages.SetPosition(ctx, id, i, userID); err != nil {
			return fmt.Errorf("reorder page %s: %w", id, err)
		}
		s.hub.Emit(id, time.Now())
	}
	return nil
}

func (s *pageService) validateCreateRequest(req *services.CreatePageRequest) error {
	return validation.ValidateStruct(req,
		validation.Field(&req.WorkspaceID, validation.Required),
		validation.Field(&req.Title, validation.Length(0, config.MaxPageTitleLength)),
	)
}
