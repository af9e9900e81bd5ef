package entities

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/curiolist/curio/pkg/handlers"
	"github.com/curiolist/curio/pkg/pagination"
	"github.com/google/uuid"
)

// Handler provides HTTP endpoints for entity management.
type Handler struct {
	sys        System
	logger     *slog.Logger
	pagination pagination.Config
}

// NewHandler creates an entities HTTP handler.
func NewHandler(sys System, logger *slog.Logger, pagination pagination.Config) *Handler {
	return &Handler{
		sys:        sys,
		logger:     logger.With("handler", "entities"),
		pagination: pagination,
	}
}

// List handles GET /entities - cursor-paginated search.
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	values := r.URL.Query()

	filters, err := FiltersFromQuery(values)
	if err != nil {
		handlers.RespondError(w, h.logger, MapHTTPStatus(err), err)
		return
	}

	limit, _ := strconv.Atoi(values.Get("limit"))

	page, err := h.sys.List(r.Context(), limit, values.Get("cursor"), filters)
	if err != nil {
		handlers.RespondError(w, h.logger, MapHTTPStatus(err), err)
		return
	}

	handlers.RespondJSON(w, http.StatusOK, page)
}

// Find handles GET /entities/{id}.
func (h *Handler) Find(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		handlers.RespondError(w, h.logger, http.StatusBadRequest, err)
		return
	}

	entity, err := h.sys.Find(r.Context(), id)
	if err != nil {
		handlers.RespondError(w, h.logger, MapHTTPStatus(err), err)
		return
	}

	handlers.RespondJSON(w, http.StatusOK, entity)
}

// Create handles POST /entities.
func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	var cmd CreateCommand
	if err := json.NewDecoder(r.Body).Decode(&cmd); err != nil {
		handlers.RespondError(w, h.logger, http.StatusBadRequest, err)
		return
	}

	entity, err := h.sys.Create(r.Context(), cmd)
	if err != nil {
		handlers.RespondError(w, h.logger, MapHTTPStatus(err), err)
		return
	}

	handlers.RespondJSON(w, http.StatusCreated, entity)
}

// Update handles PUT /entities/{id}.
func (h *Handler) Update(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		handlers.RespondError(w, h.logger, http.StatusBadRequest, err)
		return
	}

	var cmd UpdateCommand
	if err := json.NewDecoder(r.Body).Decode(&cmd); err != nil {
		handlers.RespondError(w, h.logger, http.StatusBadRequest, err)
		return
	}

	entity, err := h.sys.Update(r.Context(), id, cmd)
	if err != nil {
		handlers.RespondError(w, h.logger, MapHTTPStatus(err), err)
		return
	}

	handlers.RespondJSON(w, http.StatusOK, entity)
}

// Delete handles DELETE /entities/{id}.
func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		handlers.RespondError(w, h.logger, http.StatusBadRequest, err)
		return
	}

	if err := h.sys.Delete(r.Context(), id); err != nil {
		handlers.RespondError(w, h.logger, MapHTTPStatus(err), err)
		return
	}

	handlers.RespondNoContent(w)
}

// Kinds handles GET /kinds.
func (h *Handler) Kinds(w http.ResponseWriter, r *http.Request) {
	kinds, err := h.sys.Kinds(r.Context())
	if err != nil {
		handlers.RespondError(w, h.logger, MapHTTPStatus(err), err)
		return
	}

	handlers.RespondJSON(w, http.StatusOK, kinds)
}

// Relate handles PUT /entities/{id}/relations/{otherId}.
func (h *Handler) Relate(w http.ResponseWriter, r *http.Request) {
	a, b, err := relationPair(r)
	if err != nil {
		handlers.RespondError(w, h.logger, http.StatusBadRequest, err)
		return
	}

	if err := h.sys.Relate(r.Context(), a, b); err != nil {
		handlers.RespondError(w, h.logger, MapHTTPStatus(err), err)
		return
	}

	handlers.RespondNoContent(w)
}

// Unrelate handles DELETE /entities/{id}/relations/{otherId}.
func (h *Handler) Unrelate(w http.ResponseWriter, r *http.Request) {
	a, b, err := relationPair(r)
	if err != nil {
		handlers.RespondError(w, h.logger, http.StatusBadRequest, err)
		return
	}

	if err := h.sys.Unrelate(r.Context(), a, b); err != nil {
		handlers.RespondError(w, h.logger, MapHTTPStatus(err), err)
		return
	}

	handlers.RespondNoContent(w)
}

// Related handles GET /entities/{id}/relations.
func (h *Handler) Related(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		handlers.RespondError(w, h.logger, http.StatusBadRequest, err)
		return
	}

	related, err := h.sys.Related(r.Context(), id)
	if err != nil {
		handlers.RespondError(w, h.logger, MapHTTPStatus(err), err)
		return
	}

	if related == nil {
		related = []Entity{}
	}
	handlers.RespondJSON(w, http.StatusOK, related)
}

func relationPair(r *http.Request) (uuid.UUID, uuid.UUID, error) {
	a, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		return uuid.Nil, uuid.Nil, err
	}
	b, err := uuid.Parse(r.PathValue("otherId"))
	if err != nil {
		return uuid.Nil, uuid.Nil, err
	}
	return a, b, nil
}
