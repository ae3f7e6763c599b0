package student

import (
	"context"
	"net/http"

	"github.com/frahmantamala/school-admin/internal/transport"
)

type BackendAPI interface {
	List(ctx context.Context) ([]Student, error)
	Create(ctx context.Context, dto StudentDTO) (*Student, error)
	Update(ctx context.Context, id int64, dto StudentDTO) (*Student, error)
	Delete(ctx context.Context, id int64) error
	BulkCreate(ctx context.Context, req BulkCreateRequest) ([]Student, error)
	BulkUpdate(ctx context.Context, dto BulkUpdateDTO) (*BulkResult, error)
	BulkDelete(ctx context.Context, dto BulkDeleteDTO) (*BulkResult, error)
}

type Handler struct {
	*transport.BaseHandler
	Backend BackendAPI
}

func NewHandler(baseHandler *transport.BaseHandler, backend BackendAPI) *Handler {
	return &Handler{
		BaseHandler: baseHandler,
		Backend:     backend,
	}
}

func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	students, err := h.Backend.List(r.Context())
	if err != nil {
		h.WriteAppError(w, err)
		return
	}
	h.WriteJSON(w, http.StatusOK, students)
}

func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	var dto StudentDTO
	if err := h.DecodeJSON(r, &dto); err != nil {
		h.WriteAppError(w, err)
		return
	}
	created, err := h.Backend.Create(r.Context(), dto)
	if err != nil {
		h.WriteAppError(w, err)
		return
	}
	h.WriteJSON(w, http.StatusCreated, created)
}

func (h *Handler) Update(w http.ResponseWriter, r *http.Request) {
	id, err := h.PathID(r)
	if err != nil {
		h.WriteAppError(w, err)
		return
	}
	var dto StudentDTO
	if err := h.DecodeJSON(r, &dto); err != nil {
		h.WriteAppError(w, err)
		return
	}
	updated, err := h.Backend.Update(r.Context(), id, dto)
	if err != nil {
		h.WriteAppError(w, err)
		return
	}
	h.WriteJSON(w, http.StatusOK, updated)
}

func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := h.PathID(r)
	if err != nil {
		h.WriteAppError(w, err)
		return
	}
	if err := h.Backend.Delete(r.Context(), id); err != nil {
		h.WriteAppError(w, err)
		return
	}
	h.WriteJSON(w, http.StatusOK, map[string]string{"message": "Alumno eliminado"})
}

func (h *Handler) BulkCreate(w http.ResponseWriter, r *http.Request) {
	var req BulkCreateRequest
	if err := h.DecodeJSON(r, &req); err != nil {
		h.WriteAppError(w, err)
		return
	}
	created, err := h.Backend.BulkCreate(r.Context(), req)
	if err != nil {
		h.WriteAppError(w, err)
		return
	}
	h.WriteJSON(w, http.StatusCreated, created)
}

func (h *Handler) BulkUpdate(w http.ResponseWriter, r *http.Request) {
	var dto BulkUpdateDTO
	if err := h.DecodeJSON(r, &dto); err != nil {
		h.WriteAppError(w, err)
		return
	}
	res, err := h.Backend.BulkUpdate(r.Context(), dto)
	if err != nil {
		h.WriteAppError(w, err)
		return
	}
	h.WriteJSON(w, http.StatusOK, res)
}

func (h *Handler) BulkDelete(w http.ResponseWriter, r *http.Request) {
	var dto BulkDeleteDTO
	if err := h.DecodeJSON(r, &dto); err != nil {
		h.WriteAppError(w, err)
		return
	}
	res, err := h.Backend.BulkDelete(r.Context(), dto)
	if err != nil {
		h.WriteAppError(w, err)
		return
	}
	h.WriteJSON(w, http.StatusOK, res)
}
