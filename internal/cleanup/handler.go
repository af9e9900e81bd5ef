package cleanup

import (
	"fmt"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/curiolist/curio/pkg/handlers"
)

// Handler provides the maintenance HTTP endpoints for the cleanup queue.
type Handler struct {
	runner     *Runner
	queue      Queue
	batchLimit int
	logger     *slog.Logger
}

// NewHandler creates a cleanup HTTP handler. batchLimit is the default task
// count for runs triggered without an explicit limit.
func NewHandler(runner *Runner, queue Queue, batchLimit int, logger *slog.Logger) *Handler {
	return &Handler{
		runner:     runner,
		queue:      queue,
		batchLimit: batchLimit,
		logger:     logger.With("handler", "cleanup"),
	}
}

// Run handles POST /cleanup/run - drains a batch of tasks on demand.
func (h *Handler) Run(w http.ResponseWriter, r *http.Request) {
	limit, err := h.parseLimit(r.URL.Query().Get("limit"))
	if err != nil {
		handlers.RespondError(w, h.logger, MapHTTPStatus(err), err)
		return
	}

	stats, err := h.runner.Run(r.Context(), limit)
	if err != nil {
		handlers.RespondError(w, h.logger, http.StatusInternalServerError, err)
		return
	}

	handlers.RespondJSON(w, http.StatusOK, stats)
}

// Tasks handles GET /cleanup/tasks - lists pending tasks FIFO.
func (h *Handler) Tasks(w http.ResponseWriter, r *http.Request) {
	limit, err := h.parseLimit(r.URL.Query().Get("limit"))
	if err != nil {
		handlers.RespondError(w, h.logger, MapHTTPStatus(err), err)
		return
	}

	tasks, err := h.queue.List(r.Context(), limit)
	if err != nil {
		handlers.RespondError(w, h.logger, http.StatusInternalServerError, err)
		return
	}

	total, err := h.queue.Count(r.Context())
	if err != nil {
		handlers.RespondError(w, h.logger, http.StatusInternalServerError, err)
		return
	}

	if tasks == nil {
		tasks = []Task{}
	}

	handlers.RespondJSON(w, http.StatusOK, map[string]any{
		"tasks": tasks,
		"total": total,
	})
}

func (h *Handler) parseLimit(raw string) (int, error) {
	if raw == "" {
		return h.batchLimit, nil
	}

	limit, err := strconv.Atoi(raw)
	if err != nil {
		return 0, fmt.Errorf("%w: %q", ErrInvalidLimit, raw)
	}
	if limit < 1 || limit > 100 {
		return 0, fmt.Errorf("%w: %d", ErrInvalidLimit, limit)
	}

	return limit, nil
}
