package images

import (
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/curiolist/curio/pkg/handlers"
	"github.com/google/uuid"
)

// Handler provides HTTP endpoints for entity image management.
type Handler struct {
	sys       System
	logger    *slog.Logger
	maxUpload int64
}

// NewHandler creates an images HTTP handler. maxUpload bounds the request
// body for uploads.
func NewHandler(sys System, logger *slog.Logger, maxUpload int64) *Handler {
	return &Handler{
		sys:       sys,
		logger:    logger.With("handler", "images"),
		maxUpload: maxUpload,
	}
}

// Upload handles POST /entities/{id}/images - multipart upload of one image.
func (h *Handler) Upload(w http.ResponseWriter, r *http.Request) {
	entityID, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		handlers.RespondError(w, h.logger, http.StatusBadRequest, err)
		return
	}

	// Leave headroom over the image bound for multipart framing.
	r.Body = http.MaxBytesReader(w, r.Body, h.maxUpload+64*1024)

	file, header, err := r.FormFile("file")
	if err != nil {
		var maxBytes *http.MaxBytesError
		if errors.As(err, &maxBytes) {
			handlers.RespondError(w, h.logger, http.StatusRequestEntityTooLarge, ErrFileTooLarge)
			return
		}
		handlers.RespondError(w, h.logger, http.StatusBadRequest, err)
		return
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		var maxBytes *http.MaxBytesError
		if errors.As(err, &maxBytes) {
			handlers.RespondError(w, h.logger, http.StatusRequestEntityTooLarge, ErrFileTooLarge)
			return
		}
		handlers.RespondError(w, h.logger, http.StatusBadRequest, err)
		return
	}

	cmd := UploadCommand{
		FileName: header.Filename,
		MimeType: header.Header.Get("Content-Type"),
		Data:     data,
	}

	img, err := h.sys.Upload(r.Context(), entityID, cmd)
	if err != nil {
		handlers.RespondError(w, h.logger, MapHTTPStatus(err), err)
		return
	}

	handlers.RespondJSON(w, http.StatusCreated, img)
}

// List handles GET /entities/{id}/images - images ordered by sort order.
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	entityID, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		handlers.RespondError(w, h.logger, http.StatusBadRequest, err)
		return
	}

	imgs, err := h.sys.List(r.Context(), entityID)
	if err != nil {
		handlers.RespondError(w, h.logger, MapHTTPStatus(err), err)
		return
	}

	handlers.RespondJSON(w, http.StatusOK, map[string]any{
		"images": imgs,
		"total":  len(imgs),
	})
}

// Data handles GET /entities/{id}/images/{imageId}/data - raw image bytes.
func (h *Handler) Data(w http.ResponseWriter, r *http.Request) {
	entityID, imageID, err := imagePair(r)
	if err != nil {
		handlers.RespondError(w, h.logger, http.StatusBadRequest, err)
		return
	}

	data, contentType, err := h.sys.Data(r.Context(), entityID, imageID)
	if err != nil {
		handlers.RespondError(w, h.logger, MapHTTPStatus(err), err)
		return
	}

	w.Header().Set("Content-Type", contentType)
	w.Header().Set("Content-Length", strconv.Itoa(len(data)))
	w.WriteHeader(http.StatusOK)
	w.Write(data)
}

// Delete handles DELETE /entities/{id}/images/{imageId}.
func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	entityID, imageID, err := imagePair(r)
	if err != nil {
		handlers.RespondError(w, h.logger, http.StatusBadRequest, err)
		return
	}

	disposition, err := h.sys.Delete(r.Context(), entityID, imageID)
	if err != nil {
		handlers.RespondError(w, h.logger, MapHTTPStatus(err), err)
		return
	}

	handlers.RespondJSON(w, http.StatusOK, map[string]any{
		"disposition": disposition,
	})
}

// Reorder handles PUT /entities/{id}/images/order - full replacement order.
func (h *Handler) Reorder(w http.ResponseWriter, r *http.Request) {
	entityID, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		handlers.RespondError(w, h.logger, http.StatusBadRequest, err)
		return
	}

	var body struct {
		ImageIDs []uuid.UUID `json:"image_ids"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		handlers.RespondError(w, h.logger, http.StatusBadRequest, err)
		return
	}

	if err := h.sys.Reorder(r.Context(), entityID, body.ImageIDs); err != nil {
		handlers.RespondError(w, h.logger, MapHTTPStatus(err), err)
		return
	}

	handlers.RespondNoContent(w)
}

func imagePair(r *http.Request) (uuid.UUID, uuid.UUID, error) {
	entityID, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		return uuid.Nil, uuid.Nil, err
	}

	imageID, err := uuid.Parse(r.PathValue("imageId"))
	if err != nil {
		return uuid.Nil, uuid.Nil, err
	}

	return entityID, imageID, nil
}
