package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"strings"
	"sync"
	"testing"
	"time"

	"tessera/internal/domain"
	"tessera/internal/domain/models"
	"tessera/internal/domain/services"
	"tessera/internal/service/notify"
)

// fakePageRepo is an in-memory PageRepository for service tests. It mirrors
// the row-level semantics of the postgres implementation: GetByID returns
// trashed rows, the list methods filter and order, and mutations bump
// updated_at.
type fakePageRepo struct {
	mu         sync.Mutex
	pages      map[string]*models.Page
	failDelete map[string]error
}

func newFakePageRepo() *fakePageRepo {
	return &fakePageRepo{
		pages:      make(map[string]*models.Page),
		failDelete: make(map[string]error),
	}
}

func copyPage(p *models.Page) *models.Page {
	clone := *p
	clone.Path = append([]string(nil), p.Path...)
	return &clone
}

func (r *fakePageRepo) Create(_ context.Context, page *models.Page) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.pages[page.ID]; ok {
		return fmt.Errorf("duplicate id %s", page.ID)
	}
	r.pages[page.ID] = copyPage(page)
	return nil
}

func (r *fakePageRepo) GetByID(_ context.Context, id string) (*models.Page, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	page, ok := r.pages[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return copyPage(page), nil
}

func sameParent(page *models.Page, parentID *string) bool {
	if parentID == nil {
		return page.ParentID == nil
	}
	return page.ParentID != nil && *page.ParentID == *parentID
}

func (r *fakePageRepo) ListChildren(_ context.Context, workspaceID string, parentID *string) ([]*models.Page, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*models.Page
	for _, page := range r.pages {
		if page.WorkspaceID == workspaceID && !page.IsTrashed() && sameParent(page, parentID) {
			out = append(out, copyPage(page))
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Position < out[j].Position })
	return out, nil
}

func (r *fakePageRepo) ListByWorkspace(_ context.Context, workspaceID string) ([]*models.Page, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*models.Page
	for _, page := range r.pages {
		if page.WorkspaceID == workspaceID && !page.IsTrashed() {
			out = append(out, copyPage(page))
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Position < out[j].Position })
	return out, nil
}

func (r *fakePageRepo) ListTrashed(_ context.Context, workspaceID string) ([]*models.Page, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*models.Page
	for _, page := range r.pages {
		if page.WorkspaceID == workspaceID && page.IsTrashed() {
			out = append(out, copyPage(page))
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].DeletedAt.After(*out[j].DeletedAt) })
	return out, nil
}

func (r *fakePageRepo) Update(_ context.Context, page *models.Page) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	existing, ok := r.pages[page.ID]
	if !ok {
		return domain.ErrNotFound
	}
	existing.Title = page.Title
	existing.Icon = page.Icon
	existing.Cover = page.Cover
	existing.Content = page.Content
	existing.Properties = page.Properties
	existing.LastEditedBy = page.LastEditedBy
	existing.UpdatedAt = page.UpdatedAt
	return nil
}

func (r *fakePageRepo) UpdateTree(_ context.Context, page *models.Page) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	existing, ok := r.pages[page.ID]
	if !ok {
		return domain.ErrNotFound
	}
	existing.ParentID = page.ParentID
	existing.Path = append([]string(nil), page.Path...)
	existing.Depth = page.Depth
	existing.LastEditedBy = page.LastEditedBy
	existing.UpdatedAt = page.UpdatedAt
	return nil
}

func (r *fakePageRepo) SetPosition(_ context.Context, id string, position int, editedBy string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	existing, ok := r.pages[id]
	if !ok {
		return domain.ErrNotFound
	}
	existing.Position = position
	existing.LastEditedBy = editedBy
	existing.UpdatedAt = time.Now()
	return nil
}

func (r *fakePageRepo) NextPosition(_ context.Context, workspaceID string, parentID *string) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	count := 0
	for _, page := range r.pages {
		if page.WorkspaceID == workspaceID && !page.IsTrashed() && sameParent(page, parentID) {
			count++
		}
	}
	return count, nil
}

func (r *fakePageRepo) SoftDelete(_ context.Context, id string, at time.Time, editedBy string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	existing, ok := r.pages[id]
	if !ok {
		return domain.ErrNotFound
	}
	existing.DeletedAt = &at
	existing.LastEditedBy = editedBy
	existing.UpdatedAt = at
	return nil
}

func (r *fakePageRepo) Restore(_ context.Context, id string, editedBy string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	existing, ok := r.pages[id]
	if !ok {
		return domain.ErrNotFound
	}
	existing.DeletedAt = nil
	existing.LastEditedBy = editedBy
	existing.UpdatedAt = time.Now()
	return nil
}

func (r *fakePageRepo) Delete(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if err, ok := r.failDelete[id]; ok {
		return err
	}
	if _, ok := r.pages[id]; !ok {
		return domain.ErrNotFound
	}
	delete(r.pages, id)
	return nil
}

// sequentialIDs returns a deterministic id generator for tests.
func sequentialIDs() func() string {
	var mu sync.Mutex
	n := 0
	return func() string {
		mu.Lock()
		defer mu.Unlock()
		n++
		return fmt.Sprintf("page-%03d", n)
	}
}

func newTestService(t *testing.T) (services.PageService, *fakePageRepo, *notify.Hub) {
	t.Helper()
	repo := newFakePageRepo()
	hub := notify.NewHub()
	svc := NewPageService(repo, sequentialIDs(), hub, slog.New(slog.DiscardHandler))
	return svc, repo, hub
}

func mustCreate(t *testing.T, svc services.PageService, workspaceID, title string, parentID *string) *models.Page {
	t.Helper()
	page, err := svc.CreatePage(context.Background(), "user-1", &services.CreatePageRequest{
		WorkspaceID: workspaceID,
		ParentID:    parentID,
		Title:       title,
	})
	if err != nil {
		t.Fatalf("CreatePage(%q): %v", title, err)
	}
	return page
}

func TestCreatePageAtRoot(t *testing.T) {
	svc, _, _ := newTestService(t)

	page := mustCreate(t, svc, "ws-1", "  Getting Started  ", nil)

	if page.ParentID != nil {
		t.Errorf("ParentID = %v, want nil", *page.ParentID)
	}
	if len(page.Path) != 0 {
		t.Errorf("Path = %v, want empty", page.Path)
	}
	if page.Depth != 0 {
		t.Errorf("Depth = %d, want 0", page.Depth)
	}
	if page.Position != 0 {
		t.Errorf("Position = %d, want 0", page.Position)
	}
	if page.Title != "Getting Started" {
		t.Errorf("Title = %q, want trimmed", page.Title)
	}
}

func TestCreatePagePathInvariant(t *testing.T) {
	svc, _, _ := newTestService(t)

	a := mustCreate(t, svc, "ws-1", "A", nil)
	b := mustCreate(t, svc, "ws-1", "B", &a.ID)
	c := mustCreate(t, svc, "ws-1", "C", &b.ID)

	wantPath := []string{a.ID, b.ID}
	if len(c.Path) != 2 || c.Path[0] != wantPath[0] || c.Path[1] != wantPath[1] {
		t.Errorf("C.Path = %v, want %v", c.Path, wantPath)
	}
	if c.Depth != len(c.Path) {
		t.Errorf("Depth = %d, want len(Path) = %d", c.Depth, len(c.Path))
	}
	if b.Depth != 1 || len(b.Path) != 1 || b.Path[0] != a.ID {
		t.Errorf("B path/depth wrong: %v / %d", b.Path, b.Depth)
	}
}

func TestCreatePageSiblingPositions(t *testing.T) {
	svc, _, _ := newTestService(t)

	root := mustCreate(t, svc, "ws-1", "Root", nil)
	for i := 0; i < 3; i++ {
		child := mustCreate(t, svc, "ws-1", fmt.Sprintf("Child %d", i), &root.ID)
		if child.Position != i {
			t.Errorf("child %d: Position = %d, want %d", i, child.Position, i)
		}
	}
}

func TestCreatePageMissingParentFallsBackToRoot(t *testing.T) {
	svc, _, _ := newTestService(t)

	ghost := "no-such-page"
	page, err := svc.CreatePage(context.Background(), "user-1", &services.CreatePageRequest{
		WorkspaceID: "ws-1",
		ParentID:    &ghost,
		Title:       "Orphan",
	})
	if err != nil {
		t.Fatalf("CreatePage: %v", err)
	}
	if page.ParentID != nil {
		t.Errorf("ParentID = %v, want nil fallback", *page.ParentID)
	}
	if page.Depth != 0 || len(page.Path) != 0 {
		t.Errorf("page should sit at root: path=%v depth=%d", page.Path, page.Depth)
	}
}

func TestCreatePageRequiresWorkspace(t *testing.T) {
	svc, _, _ := newTestService(t)

	_, err := svc.CreatePage(context.Background(), "user-1", &services.CreatePageRequest{Title: "x"})
	if !errors.Is(err, domain.ErrValidation) {
		t.Errorf("err = %v, want ErrValidation", err)
	}
}

func TestCreatePageTitleTooLong(t *testing.T) {
	svc, _, _ := newTestService(t)

	_, err := svc.CreatePage(context.Background(), "user-1", &services.CreatePageRequest{
		WorkspaceID: "ws-1",
		Title:       strings.Repeat("x", 256),
	})
	if !errors.Is(err, domain.ErrValidation) {
		t.Errorf("err = %v, want ErrValidation", err)
	}
}

func TestMovePageRejectsCycles(t *testing.T) {
	svc, _, _ := newTestService(t)
	ctx := context.Background()

	a := mustCreate(t, svc, "ws-1", "A", nil)
	b := mustCreate(t, svc, "ws-1", "B", &a.ID)
	c := mustCreate(t, svc, "ws-1", "C", &b.ID)

	// Moving A under its own grandchild would make the chain circular.
	_, err := svc.MovePage(ctx, "user-1", a.ID, &c.ID)
	if !errors.Is(err, domain.ErrValidation) {
		t.Fatalf("MovePage(A under C): err = %v, want ErrValidation", err)
	}

	// Moving C to root level is legal and must clear its ancestry.
	moved, err := svc.MovePage(ctx, "user-1", c.ID, nil)
	if err != nil {
		t.Fatalf("MovePage(C to root): %v", err)
	}
	if moved.ParentID != nil {
		t.Errorf("ParentID = %v, want nil", *moved.ParentID)
	}
	if len(moved.Path) != 0 {
		t.Errorf("Path = %v, want empty", moved.Path)
	}
	if moved.Depth != 0 {
		t.Errorf("Depth = %d, want 0", moved.Depth)
	}
}

func TestMovePageRejectsSelfParent(t *testing.T) {
	svc, _, _ := newTestService(t)

	a := mustCreate(t, svc, "ws-1", "A", nil)
	_, err := svc.MovePage(context.Background(), "user-1", a.ID, &a.ID)
	if !errors.Is(err, domain.ErrValidation) {
		t.Errorf("err = %v, want ErrValidation", err)
	}
}

func TestMovePageRecomputesPath(t *testing.T) {
	svc, repo, _ := newTestService(t)
	ctx := context.Background()

	a := mustCreate(t, svc, "ws-1", "A", nil)
	b := mustCreate(t, svc, "ws-1", "B", nil)
	c := mustCreate(t, svc, "ws-1", "C", &a.ID)

	moved, err := svc.MovePage(ctx, "user-1", c.ID, &b.ID)
	if err != nil {
		t.Fatalf("MovePage: %v", err)
	}
	if moved.ParentID == nil || *moved.ParentID != b.ID {
		t.Errorf("ParentID = %v, want %s", moved.ParentID, b.ID)
	}
	if len(moved.Path) != 1 || moved.Path[0] != b.ID {
		t.Errorf("Path = %v, want [%s]", moved.Path, b.ID)
	}

	stored, err := repo.GetByID(ctx, c.ID)
	if err != nil {
		t.Fatalf("GetByID: %v", err)
	}
	if stored.Depth != 1 || len(stored.Path) != 1 || stored.Path[0] != b.ID {
		t.Errorf("persisted path/depth wrong: %v / %d", stored.Path, stored.Depth)
	}
}

func TestMovePageDescendantsKeepOldPath(t *testing.T) {
	svc, repo, _ := newTestService(t)
	ctx := context.Background()

	a := mustCreate(t, svc, "ws-1", "A", nil)
	b := mustCreate(t, svc, "ws-1", "B", &a.ID)
	c := mustCreate(t, svc, "ws-1", "C", &b.ID)
	dest := mustCreate(t, svc, "ws-1", "Dest", nil)

	if _, err := svc.MovePage(ctx, "user-1", b.ID, &dest.ID); err != nil {
		t.Fatalf("MovePage: %v", err)
	}

	// Only the moved page is re-pathed; its subtree still records the old
	// ancestry until each descendant is moved itself.
	stored, err := repo.GetByID(ctx, c.ID)
	if err != nil {
		t.Fatalf("GetByID: %v", err)
	}
	if len(stored.Path) != 2 || stored.Path[0] != a.ID || stored.Path[1] != b.ID {
		t.Errorf("C.Path = %v, want unchanged [%s %s]", stored.Path, a.ID, b.ID)
	}
}

func TestMovePageMissingParentFails(t *testing.T) {
	svc, _, _ := newTestService(t)

	a := mustCreate(t, svc, "ws-1", "A", nil)
	ghost := "no-such-page"
	_, err := svc.MovePage(context.Background(), "user-1", a.ID, &ghost)
	if !errors.Is(err, domain.ErrNotFound) {
		t.Errorf("err = %v, want ErrNotFound", err)
	}
}

func TestMovePageEmitsChangeEvent(t *testing.T) {
	svc, _, hub := newTestService(t)

	a := mustCreate(t, svc, "ws-1", "A", nil)
	events, cancel := hub.Subscribe(a.ID)
	defer cancel()

	if _, err := svc.MovePage(context.Background(), "user-1", a.ID, nil); err != nil {
		t.Fatalf("MovePage: %v", err)
	}

	select {
	case ev := <-events:
		if ev.PageID != a.ID {
			t.Errorf("event page = %s, want %s", ev.PageID, a.ID)
		}
	default:
		t.Error("no event emitted for moved page")
	}
}

func TestDuplicatePageSingle(t *testing.T) {
	svc, _, _ := newTestService(t)
	ctx := context.Background()

	src := mustCreate(t, svc, "ws-1", "Notes", nil)
	mustCreate(t, svc, "ws-1", "Child", &src.ID)

	created, err := svc.DuplicatePage(ctx, "user-1", src.ID, false)
	if err != nil {
		t.Fatalf("DuplicatePage: %v", err)
	}
	if len(created) != 1 {
		t.Fatalf("created %d pages, want 1", len(created))
	}
	clone := created[0]
	if clone.Title != "Notes (Copy)" {
		t.Errorf("Title = %q, want copy marker", clone.Title)
	}
	if clone.ParentID != nil {
		t.Errorf("clone parent = %v, want source's parent (nil)", *clone.ParentID)
	}
	if clone.ID == src.ID {
		t.Error("clone kept source id")
	}
}

func TestDuplicatePageWithSubtree(t *testing.T) {
	svc, repo, _ := newTestService(t)
	ctx := context.Background()

	root := mustCreate(t, svc, "ws-1", "Root", nil)
	childA := mustCreate(t, svc, "ws-1", "Child A", &root.ID)
	mustCreate(t, svc, "ws-1", "Child B", &root.ID)
	mustCreate(t, svc, "ws-1", "Grandchild", &childA.ID)

	created, err := svc.DuplicatePage(ctx, "user-1", root.ID, true)
	if err != nil {
		t.Fatalf("DuplicatePage: %v", err)
	}
	if len(created) != 4 {
		t.Fatalf("created %d pages, want 4", len(created))
	}

	cloneRoot := created[0]
	if cloneRoot.Title != "Root (Copy)" {
		t.Errorf("root clone title = %q", cloneRoot.Title)
	}
	for _, clone := range created[1:] {
		if strings.HasSuffix(clone.Title, copySuffix) {
			t.Errorf("non-root clone %q carries the copy marker", clone.Title)
		}
	}

	// Every clone's path names clones, not source pages.
	for _, clone := range created[1:] {
		if clone.Path[0] != cloneRoot.ID {
			t.Errorf("clone %q path %v does not start at clone root %s", clone.Title, clone.Path, cloneRoot.ID)
		}
	}

	// Clone children hang off the clone root, not the source.
	cloneChildren, err := repo.ListChildren(ctx, "ws-1", &cloneRoot.ID)
	if err != nil {
		t.Fatalf("ListChildren: %v", err)
	}
	if len(cloneChildren) != 2 {
		t.Errorf("clone root has %d children, want 2", len(cloneChildren))
	}
}

func TestDuplicatePageSkipsTrashedDescendants(t *testing.T) {
	svc, _, _ := newTestService(t)
	ctx := context.Background()

	root := mustCreate(t, svc, "ws-1", "Root", nil)
	keep := mustCreate(t, svc, "ws-1", "Keep", &root.ID)
	gone := mustCreate(t, svc, "ws-1", "Gone", &root.ID)
	if err := svc.TrashPage(ctx, "user-1", gone.ID); err != nil {
		t.Fatalf("TrashPage: %v", err)
	}

	created, err := svc.DuplicatePage(ctx, "user-1", root.ID, true)
	if err != nil {
		t.Fatalf("DuplicatePage: %v", err)
	}
	if len(created) != 2 {
		t.Fatalf("created %d pages, want 2 (root + %q)", len(created), keep.Title)
	}
	if created[1].Title != "Keep" {
		t.Errorf("cloned child = %q, want Keep", created[1].Title)
	}
}

func TestTrashPageHidesFromLists(t *testing.T) {
	svc, _, _ := newTestService(t)
	ctx := context.Background()

	root := mustCreate(t, svc, "ws-1", "Root", nil)
	child := mustCreate(t, svc, "ws-1", "Child", &root.ID)

	if err := svc.TrashPage(ctx, "user-1", root.ID); err != nil {
		t.Fatalf("TrashPage: %v", err)
	}

	pages, err := svc.ListPages(ctx, "ws-1")
	if err != nil {
		t.Fatalf("ListPages: %v", err)
	}
	for _, p := range pages {
		if p.ID == root.ID {
			t.Error("trashed page still listed")
		}
	}

	// Descendants are not cascaded into the trash.
	got, err := svc.GetPage(ctx, child.ID)
	if err != nil {
		t.Fatalf("GetPage(child): %v", err)
	}
	if got.IsTrashed() {
		t.Error("trashing a parent must not trash its children")
	}

	trash, err := svc.ListTrash(ctx, "ws-1")
	if err != nil {
		t.Fatalf("ListTrash: %v", err)
	}
	if len(trash) != 1 || trash[0].ID != root.ID {
		t.Errorf("trash = %v, want just the root", trash)
	}

	// GetPage still resolves the trashed row.
	if _, err := svc.GetPage(ctx, root.ID); err != nil {
		t.Errorf("GetPage(trashed): %v", err)
	}
}

func TestTrashedPageFreesItsPosition(t *testing.T) {
	svc, _, _ := newTestService(t)
	ctx := context.Background()

	root := mustCreate(t, svc, "ws-1", "Root", nil)
	first := mustCreate(t, svc, "ws-1", "First", &root.ID)
	if err := svc.TrashPage(ctx, "user-1", first.ID); err != nil {
		t.Fatalf("TrashPage: %v", err)
	}

	// Position counting ignores trashed siblings, so the index is reused.
	next := mustCreate(t, svc, "ws-1", "Second", &root.ID)
	if next.Position != 0 {
		t.Errorf("Position = %d, want 0 after sibling was trashed", next.Position)
	}
}

func TestRestorePage(t *testing.T) {
	svc, _, _ := newTestService(t)
	ctx := context.Background()

	page := mustCreate(t, svc, "ws-1", "Doc", nil)
	if err := svc.TrashPage(ctx, "user-1", page.ID); err != nil {
		t.Fatalf("TrashPage: %v", err)
	}

	restored, err := svc.RestorePage(ctx, "user-2", page.ID)
	if err != nil {
		t.Fatalf("RestorePage: %v", err)
	}
	if restored.IsTrashed() {
		t.Error("page still trashed after restore")
	}
	if restored.LastEditedBy != "user-2" {
		t.Errorf("LastEditedBy = %q, want user-2", restored.LastEditedBy)
	}
}

func TestRestorePageRejectsActivePage(t *testing.T) {
	svc, _, _ := newTestService(t)

	page := mustCreate(t, svc, "ws-1", "Doc", nil)
	_, err := svc.RestorePage(context.Background(), "user-1", page.ID)
	if !errors.Is(err, domain.ErrValidation) {
		t.Errorf("err = %v, want ErrValidation for non-trashed page", err)
	}
}

func TestUpdatePageTriState(t *testing.T) {
	svc, _, _ := newTestService(t)
	ctx := context.Background()

	icon := "📘"
	page, err := svc.CreatePage(ctx, "user-1", &services.CreatePageRequest{
		WorkspaceID: "ws-1",
		Title:       "Doc",
		Icon:        &icon,
	})
	if err != nil {
		t.Fatalf("CreatePage: %v", err)
	}

	// Absent icon field: unchanged.
	title := "Renamed"
	updated, err := svc.UpdatePage(ctx, "user-1", page.ID, &services.UpdatePageRequest{Title: &title})
	if err != nil {
		t.Fatalf("UpdatePage: %v", err)
	}
	if updated.Icon == nil || *updated.Icon != icon {
		t.Errorf("icon changed by unrelated patch: %v", updated.Icon)
	}
	if updated.Title != "Renamed" {
		t.Errorf("Title = %q", updated.Title)
	}

	// Explicit null: cleared.
	req := &services.UpdatePageRequest{}
	req.Icon.Present = true
	updated, err = svc.UpdatePage(ctx, "user-1", page.ID, req)
	if err != nil {
		t.Fatalf("UpdatePage: %v", err)
	}
	if updated.Icon != nil {
		t.Errorf("icon = %v, want cleared", *updated.Icon)
	}
}

func TestReorderPages(t *testing.T) {
	svc, repo, _ := newTestService(t)
	ctx := context.Background()

	root := mustCreate(t, svc, "ws-1", "Root", nil)
	a := mustCreate(t, svc, "ws-1", "A", &root.ID)
	b := mustCreate(t, svc, "ws-1", "B", &root.ID)
	c := mustCreate(t, svc, "ws-1", "C", &root.ID)

	if err := svc.ReorderPages(ctx, "user-1", []string{c.ID, a.ID, b.ID}); err != nil {
		t.Fatalf("ReorderPages: %v", err)
	}

	children, err := repo.ListChildren(ctx, "ws-1", &root.ID)
	if err != nil {
		t.Fatalf("ListChildren: %v", err)
	}
	got := []string{children[0].ID, children[1].ID, children[2].ID}
	want := []string{c.ID, a.ID, b.ID}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("order = %v, want %v", got, want)
		}
	}
}

func TestReorderPagesRejectsEmptyAndBlank(t *testing.T) {
	svc, _, _ := newTestService(t)
	ctx := context.Background()

	if err := svc.ReorderPages(ctx, "user-1", nil); !errors.Is(err, domain.ErrValidation) {
		t.Errorf("nil ids: err = %v, want ErrValidation", err)
	}
	if err := svc.ReorderPages(ctx, "user-1", []string{"a", ""}); !errors.Is(err, domain.ErrValidation) {
		t.Errorf("blank id: err = %v, want ErrValidation", err)
	}
}

func TestEmptyTrashReportsPartialFailure(t *testing.T) {
	svc, repo, _ := newTestService(t)
	ctx := context.Background()

	var trashed []*models.Page
	for i := 0; i < 3; i++ {
		page := mustCreate(t, svc, "ws-1", fmt.Sprintf("Old %d", i), nil)
		if err := svc.TrashPage(ctx, "user-1", page.ID); err != nil {
			t.Fatalf("TrashPage: %v", err)
		}
		trashed = append(trashed, page)
	}
	repo.failDelete[trashed[1].ID] = errors.New("row locked")

	result, err := svc.EmptyTrash(ctx, "ws-1")
	if err != nil {
		t.Fatalf("EmptyTrash: %v", err)
	}
	if result.Purged != 2 || result.Failed != 1 {
		t.Errorf("result = %+v, want 2 purged / 1 failed", result)
	}

	// The failed page is still in the trash for the next attempt.
	remaining, err := svc.ListTrash(ctx, "ws-1")
	if err != nil {
		t.Fatalf("ListTrash: %v", err)
	}
	if len(remaining) != 1 || remaining[0].ID != trashed[1].ID {
		t.Errorf("remaining trash = %v, want the failed page only", remaining)
	}
}

func TestPurgePageNotFound(t *testing.T) {
	svc, _, _ := newTestService(t)

	err := svc.PurgePage(context.Background(), "no-such-page")
	if !errors.Is(err, domain.ErrNotFound) {
		t.Errorf("err = %v, want ErrNotFound", err)
	}
}

func TestListPagesRequiresWorkspace(t *testing.T) {
	svc, _, _ := newTestService(t)

	if _, err := svc.ListPages(context.Background(), ""); !errors.Is(err, domain.ErrValidation) {
		t.Errorf("err = %v, want ErrValidation", err)
	}
}
