package handler

import (
	"log/slog"
	"net/http"

	"tessera/internal/domain/models"
	"tessera/internal/domain/services"
	"tessera/internal/httputil"
)

// TrashHandler handles the workspace-level trash views and the bulk
// empty-trash flow.
type TrashHandler struct {
	pages  services.PageService
	logger *slog.Logger
}

// NewTrashHandler creates a new trash handler.
func NewTrashHandler(pages services.PageService, logger *slog.Logger) *TrashHandler {
	return &TrashHandler{
		pages:  pages,
		logger: logger,
	}
}

// ListTrash handles GET /api/trash?workspace_id=.
func (h *TrashHandler) ListTrash(w http.ResponseWriter, r *http.Request) {
	workspaceID := r.URL.Query().Get("workspace_id")
	if workspaceID == "" {
		httputil.RespondError(w, http.StatusBadRequest, "workspace_id is required")
		return
	}

	pages, err := h.pages.ListTrash(r.Context(), workspaceID)
	if err != nil {
		handleError(w, err)
		return
	}

	if pages == nil {
		pages = []*models.Page{}
	}
	httputil.RespondJSON(w, http.StatusOK, pages)
}

// EmptyTrash handles DELETE /api/trash?workspace_id=. The purges are
// independent, so the response reports counts rather than all-or-nothing.
func (h *TrashHandler) EmptyTrash(w http.ResponseWriter, r *http.Request) {
	workspaceID := r.URL.Query().Get("workspace_id")
	if workspaceID == "" {
		httputil.RespondError(w, http.StatusBadRequest, "workspace_id is required")
		return
	}

	result, err := h.pages.EmptyTrash(r.Context(), workspaceID)
	if err != nil {
		handleError(w, err)
		return
	}

	httputil.RespondJSON(w, http.StatusOK, result)
}
