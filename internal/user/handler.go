package user

import (
	"context"
	"net/http"

	"github.com/frahmantamala/school-admin/internal/transport"
)

type BackendAPI interface {
	List(ctx context.Context) ([]Response, error)
	Create(ctx context.Context, dto CreateUserDTO) (*Response, error)
	Update(ctx context.Context, id int64, dto UpdateUserDTO) (*Response, error)
	Delete(ctx context.Context, id int64) error
	Login(ctx context.Context, dto LoginDTO) (*LoginResponse, error)
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
	users, err := h.Backend.List(r.Context())
	if err != nil {
		h.WriteAppError(w, err)
		return
	}
	h.WriteJSON(w, http.StatusOK, users)
}

func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	var dto CreateUserDTO
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
	var dto UpdateUserDTO
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
	h.WriteJSON(w, http.StatusOK, map[string]string{"message": "Usuario eliminado"})
}

func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	var dto LoginDTO
	if err := h.DecodeJSON(r, &dto); err != nil {
		h.WriteAppError(w, err)
		return
	}

	resp, err := h.Backend.Login(r.Context(), dto)
	if err != nil {
		h.WriteAppError(w, err)
		return
	}
	h.WriteJSON(w, http.StatusOK, resp)
}
