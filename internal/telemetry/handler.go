package telemetry

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/scro-cloud/scro/internal/platform/httpx"
)

// Handler wires HTTP endpoints for the simulated metrics stream.
type Handler struct {
	feed   *Feed
	logger *slog.Logger
}

// NewHandler constructs a Handler instance.
func NewHandler(feed *Feed, logger *slog.Logger) *Handler {
	return &Handler{feed: feed, logger: logger}
}

// MountRoutes registers telemetry routes on the provided router.
func (h *Handler) MountRoutes(r chi.Router) {
	r.Get("/", h.latest)
	r.Get("/stream", h.stream)
}

func (h *Handler) latest(w http.ResponseWriter, r *http.Request) {
	snap, ok := h.feed.Latest()
	if !ok {
		httpx.Problem(w, http.StatusServiceUnavailable, "Feed Warming Up", "no snapshot emitted yet")
		return
	}
	httpx.JSON(w, http.StatusOK, snap)
}

// stream pushes snapshots over server-sent events until the client
// disconnects.
func (h *Handler) stream(w http.ResponseWriter, r *http.Request) {
	flusher, ok := w.(http.Flusher)
	if !ok {
		httpx.Problem(w, http.StatusInternalServerError, "Streaming Unsupported", "")
		return
	}
	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.WriteHeader(http.StatusOK)
	flusher.Flush()

	sub := h.feed.Subscribe(r.Context())
	for snap := range sub {
		data, err := json.Marshal(snap)
		if err != nil {
			h.logger.Error("marshal snapshot", slog.Any("error", err))
			return
		}
		if _, err := w.Write([]byte("data: ")); err != nil {
			return
		}
		if _, err := w.Write(data); err != nil {
			return
		}
		if _, err := w.Write([]byte("\n\n")); err != nil {
			return
		}
		flusher.Flush()
	}
}
