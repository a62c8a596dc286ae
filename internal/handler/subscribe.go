package handler

import (
	"log/slog"
	"net/http"

	"tessera/internal/domain/services"
	"tessera/internal/handler/sse"
	"tessera/internal/httputil"
	"tessera/internal/service/notify"
)

// SubscribeHandler binds the notification hub to long-lived SSE
// connections: one subscription per connection per page.
type SubscribeHandler struct {
	pages  services.PageService
	hub    *notify.Hub
	config *sse.Config
	logger *slog.Logger
}

// NewSubscribeHandler creates a new subscribe handler.
func NewSubscribeHandler(pages services.PageService, hub *notify.Hub, config *sse.Config, logger *slog.Logger) *SubscribeHandler {
	return &SubscribeHandler{
		pages:  pages,
		hub:    hub,
		config: config,
		logger: logger,
	}
}

// SubscribeToPage handles GET /api/pages/{id}/subscribe. It streams
// page-changed events until the client disconnects; the hub registration
// is dropped the moment the connection goes away so hub memory stays
// bounded by the number of open connections.
func (h *SubscribeHandler) SubscribeToPage(w http.ResponseWriter, r *http.Request) {
	pageID := r.PathValue("id")

	if _, err := h.pages.GetPage(r.Context(), pageID); err != nil {
		handleError(w, err)
		return
	}

	flusher, ok := w.(http.Flusher)
	if !ok {
		httputil.RespondError(w, http.StatusInternalServerError, "streaming unsupported")
		return
	}

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.Header().Set("X-Accel-Buffering", "no") // disable nginx buffering
	w.WriteHeader(http.StatusOK)
	flusher.Flush()

	events, cancel := h.hub.Subscribe(pageID)
	defer cancel()

	writer := sse.NewWriter(w, flusher)
	keepAlive := sse.NewTickerKeepAlive(h.config.KeepAliveInterval)
	stopped := keepAlive.Start(writer, h.logger)
	defer keepAlive.Stop()

	h.logger.Debug("page subscription opened", "page_id", pageID)
	defer h.logger.Debug("page subscription closed", "page_id", pageID)

	for {
		select {
		case <-r.Context().Done():
			return
		case <-stopped:
			// Keep-alive write failed: the connection is dead.
			return
		case event, ok := <-events:
			if !ok {
				return
			}
			if err := writer.WriteEvent("page_updated", event); err != nil {
				h.logger.Debug("event write failed", "page_id", pageID, "error", err)
				return
			}
		}
	}
}
