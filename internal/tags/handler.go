package tags

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/curiolist/curio/pkg/handlers"
	"github.com/google/uuid"
)

// Handler provides HTTP endpoints for tag management.
type Handler struct {
	sys    System
	logger *slog.Logger
}

// NewHandler creates a tags HTTP handler.
func NewHandler(sys System, logger *slog.Logger) *Handler {
	return &Handler{
		sys:    sys,
		logger: logger.With("handler", "tags"),
	}
}

// List handles GET /tags.
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	tags, err := h.sys.List(r.Context())
	if err != nil {
		handlers.RespondError(w, h.logger, MapHTTPStatus(err), err)
		return
	}

	if tags == nil {
		tags = []Tag{}
	}
	handlers.RespondJSON(w, http.StatusOK, tags)
}

// Create handles POST /tags.
func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	var cmd CreateCommand
	if err := json.NewDecoder(r.Body).Decode(&cmd); err != nil {
		handlers.RespondError(w, h.logger, http.StatusBadRequest, err)
		return
	}

	tag, err := h.sys.Create(r.Context(), cmd)
	if err != nil {
		handlers.RespondError(w, h.logger, MapHTTPStatus(err), err)
		return
	}

	handlers.RespondJSON(w, http.StatusCreated, tag)
}

// Delete handles DELETE /tags/{id}.
func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.Atoi(r.PathValue("id"))
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

// Attach handles PUT /entities/{id}/tags/{tagId}.
func (h *Handler) Attach(w http.ResponseWriter, r *http.Request) {
	entityID, tagID, err := assignmentPair(r)
	if err != nil {
		handlers.RespondError(w, h.logger, http.StatusBadRequest, err)
		return
	}

	if err := h.sys.Attach(r.Context(), entityID, tagID); err != nil {
		handlers.RespondError(w, h.logger, MapHTTPStatus(err), err)
		return
	}

	handlers.RespondNoContent(w)
}

// Detach handles DELETE /entities/{id}/tags/{tagId}.
func (h *Handler) Detach(w http.ResponseWriter, r *http.Request) {
	entityID, tagID, err := assignmentPair(r)
	if err != nil {
		handlers.RespondError(w, h.logger, http.StatusBadRequest, err)
		return
	}

	if err := h.sys.Detach(r.Context(), entityID, tagID); err != nil {
		handlers.RespondError(w, h.logger, MapHTTPStatus(err), err)
		return
	}

	handlers.RespondNoContent(w)
}

// ForEntity handles GET /entities/{id}/tags.
func (h *Handler) ForEntity(w http.ResponseWriter, r *http.Request) {
	entityID, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		handlers.RespondError(w, h.logger, http.StatusBadRequest, err)
		return
	}

	tags, err := h.sys.ForEntity(r.Context(), entityID)
	if err != nil {
		handlers.RespondError(w, h.logger, MapHTTPStatus(err), err)
		return
	}

	if tags == nil {
		tags = []Tag{}
	}
	handlers.RespondJSON(w, http.StatusOK, tags)
}

func assignmentPair(r *http.Request) (uuid.UUID, int, error) {
	entityID, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		return uuid.Nil, 0, err
	}
	tagID, err := strconv.Atoi(r.PathValue("tagId"))
	if err != nil {
		return uuid.Nil, 0, err
	}
	return entityID, tagID, nil
}
