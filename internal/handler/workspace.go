package handler

import (
	"log/slog"
	"net/http"

	"tessera/internal/domain/models"
	"tessera/internal/domain/services"
	"tessera/internal/httputil"
)

// WorkspaceHandler handles HTTP requests for workspaces.
type WorkspaceHandler struct {
	workspaces services.WorkspaceService
	logger     *slog.Logger
}

// NewWorkspaceHandler creates a new workspace handler.
func NewWorkspaceHandler(workspaces services.WorkspaceService, logger *slog.Logger) *WorkspaceHandler {
	return &WorkspaceHandler{
		workspaces: workspaces,
		logger:     logger,
	}
}

// CreateWorkspace handles POST /api/workspaces.
func (h *WorkspaceHandler) CreateWorkspace(w http.ResponseWriter, r *http.Request) {
	var req services.CreateWorkspaceRequest
	if err := httputil.ParseJSON(w, r, &req); err != nil {
		httputil.RespondError(w, http.StatusBadRequest, err.Error())
		return
	}

	ws, err := h.workspaces.CreateWorkspace(r.Context(), httputil.GetUserID(r), &req)
	if err != nil {
		handleError(w, err)
		return
	}

	httputil.RespondJSON(w, http.StatusCreated, ws)
}

// GetWorkspace handles GET /api/workspaces/{id}.
func (h *WorkspaceHandler) GetWorkspace(w http.ResponseWriter, r *http.Request) {
	ws, err := h.workspaces.GetWorkspace(r.Context(), r.PathValue("id"))
	if err != nil {
		handleError(w, err)
		return
	}

	httputil.RespondJSON(w, http.StatusOK, ws)
}

// ListWorkspaces handles GET /api/workspaces.
func (h *WorkspaceHandler) ListWorkspaces(w http.ResponseWriter, r *http.Request) {
	workspaces, err := h.workspaces.ListWorkspaces(r.Context())
	if err != nil {
		handleError(w, err)
		return
	}

	if workspaces == nil {
		workspaces = []*models.Workspace{}
	}
	httputil.RespondJSON(w, http.StatusOK, workspaces)
}
