package handler

import (
	"log/slog"
	"net/http"

	"tessera/internal/domain/models"
	"tessera/internal/domain/services"
	"tessera/internal/httputil"
)

// PageHandler handles HTTP requests for page tree operations.
type PageHandler struct {
	pages  services.PageService
	logger *slog.Logger
}

// NewPageHandler creates a new page handler.
func NewPageHandler(pages services.PageService, logger *slog.Logger) *PageHandler {
	return &PageHandler{
		pages:  pages,
		logger: logger,
	}
}

// CreatePage handles POST /api/pages.
func (h *PageHandler) CreatePage(w http.ResponseWriter, r *http.Request) {
	var req services.CreatePageRequest
	if err := httputil.ParseJSON(w, r, &req); err != nil {
		httputil.RespondError(w, http.StatusBadRequest, err.Error())
		return
	}

	page, err := h.pages.CreatePage(r.Context(), httputil.GetUserID(r), &req)
	if err != nil {
		handleError(w, err)
		return
	}

	httputil.RespondJSON(w, http.StatusCreated, page)
}

// GetPage handles GET /api/pages/{id}.
func (h *PageHandler) GetPage(w http.ResponseWriter, r *http.Request) {
	page, err := h.pages.GetPage(r.Context(), r.PathValue("id"))
	if err != nil {
		handleError(w, err)
		return
	}

	httputil.RespondJSON(w, http.StatusOK, page)
}

// ListPages handles GET /api/pages?workspace_id=&parent_id=.
//
// Without parent_id it returns the whole workspace's non-trashed pages
// (the list the sync loop fingerprints). With parent_id it returns that
// parent's ordered children; an empty parent_id means root level.
func (h *PageHandler) ListPages(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()
	workspaceID := query.Get("workspace_id")
	if workspaceID == "" {
		httputil.RespondError(w, http.StatusBadRequest, "workspace_id is required")
		return
	}

	var pages []*models.Page
	var err error
	if query.Has("parent_id") {
		var parentID *string
		if v := query.Get("parent_id"); v != "" {
			parentID = &v
		}
		pages, err = h.pages.ListChildren(r.Context(), workspaceID, parentID)
	} else {
		pages, err = h.pages.ListPages(r.Context(), workspaceID)
	}
	if err != nil {
		handleError(w, err)
		return
	}

	if pages == nil {
		pages = []*models.Page{}
	}
	httputil.RespondJSON(w, http.StatusOK, pages)
}

// UpdatePage handles PATCH /api/pages/{id}.
func (h *PageHandler) UpdatePage(w http.ResponseWriter, r *http.Request) {
	var req services.UpdatePageRequest
	if err := httputil.ParseJSON(w, r, &req); err != nil {
		httputil.RespondError(w, http.StatusBadRequest, err.Error())
		return
	}

	page, err := h.pages.UpdatePage(r.Context(), httputil.GetUserID(r), r.PathValue("id"), &req)
	if err != nil {
		handleError(w, err)
		return
	}

	httputil.RespondJSON(w, http.StatusOK, page)
}

// MovePage handles POST /api/pages/{id}/move.
func (h *PageHandler) MovePage(w http.ResponseWriter, r *http.Request) {
	var req services.MovePageRequest
	if err := httputil.ParseJSON(w, r, &req); err != nil {
		httputil.RespondError(w, http.StatusBadRequest, err.Error())
		return
	}

	page, err := h.pages.MovePage(r.Context(), httputil.GetUserID(r), r.PathValue("id"), req.ParentID)
	if err != nil {
		handleError(w, err)
		return
	}

	httputil.RespondJSON(w, http.StatusOK, page)
}

// DuplicatePage handles POST /api/pages/{id}/duplicate. Responds with the
// created pages, subtree root first.
func (h *PageHandler) DuplicatePage(w http.ResponseWriter, r *http.Request) {
	var req services.DuplicatePageRequest
	if err := httputil.ParseJSON(w, r, &req); err != nil {
		httputil.RespondError(w, http.StatusBadRequest, err.Error())
		return
	}

	pages, err := h.pages.DuplicatePage(r.Context(), httputil.GetUserID(r), r.PathValue("id"), req.IncludeSubpages)
	if err != nil {
		handleError(w, err)
		return
	}

	httputil.RespondJSON(w, http.StatusCreated, pages)
}

// ReorderPages handles POST /api/pages/reorder.
func (h *PageHandler) ReorderPages(w http.ResponseWriter, r *http.Request) {
	var req services.ReorderPagesRequest
	if err := httputil.ParseJSON(w, r, &req); err != nil {
		httputil.RespondError(w, http.StatusBadRequest, err.Error())
		return
	}

	if err := h.pages.ReorderPages(r.Context(), httputil.GetUserID(r), req.PageIDs); err != nil {
		handleError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// TrashPage handles DELETE /api/pages/{id}.
func (h *PageHandler) TrashPage(w http.ResponseWriter, r *http.Request) {
	if err := h.pages.TrashPage(r.Context(), httputil.GetUserID(r), r.PathValue("id")); err != nil {
		handleError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// RestorePage handles POST /api/pages/{id}/restore.
func (h *PageHandler) RestorePage(w http.ResponseWriter, r *http.Request) {
	page, err := h.pages.RestorePage(r.Context(), httputil.GetUserID(r), r.PathValue("id"))
	if err != nil {
		handleError(w, err)
		return
	}

	httputil.RespondJSON(w, http.StatusOK, page)
}

// PurgePage handles DELETE /api/pages/{id}/purge.
func (h *PageHandler) PurgePage(w http.ResponseWriter, r *http.Request) {
	if err := h.pages.PurgePage(r.Context(), r.PathValue("id")); err != nil {
		handleError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// HealthCheck handles GET /health.
func (h *PageHandler) HealthCheck(w http.ResponseWriter, r *http.Request) {
	httputil.RespondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}
