package justification

import (
	"context"
	"net/http"

	"github.com/frahmantamala/school-admin/internal"
	"github.com/frahmantamala/school-admin/internal/transport"
)

type BackendAPI interface {
	List(ctx context.Context) ([]Justification, error)
	Create(ctx context.Context, who internal.Principal, dto JustificationDTO) (*Justification, error)
	Update(ctx context.Context, who internal.Principal, id int64, dto JustificationDTO) (*Justification, error)
	Delete(ctx context.Context, id int64) error
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
	items, err := h.Backend.List(r.Context())
	if err != nil {
		h.WriteAppError(w, err)
		return
	}
	h.WriteJSON(w, http.StatusOK, items)
}

func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	who, ok := internal.PrincipalFromContext(r.Context())
	if !ok {
		h.WriteAppError(w, internal.ErrNotLoggedIn)
		return
	}
	var dto JustificationDTO
	if err := h.DecodeJSON(r, &dto); err != nil {
		h.WriteAppError(w, err)
		return
	}
	created, err := h.Backend.Create(r.Context(), who, dto)
	if err != nil {
		h.WriteAppError(w, err)
		return
	}
	h.WriteJSON(w, http.StatusCreated, created)
}

func (h *Handler) Update(w http.ResponseWriter, r *http.Request) {
	who, ok := internal.PrincipalFromContext(r.Context())
	if !ok {
		h.WriteAppError(w, internal.ErrNotLoggedIn)
		return
	}
	id, err := h.PathID(r)
	if err != nil {
		h.WriteAppError(w, err)
		return
	}
	var dto JustificationDTO
	if err := h.DecodeJSON(r, &dto); err != nil {
		h.WriteAppError(w, err)
		return
	}
	updated, err := h.Backend.Update(r.Context(), who, id, dto)
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
	h.WriteJSON(w, http.StatusOK, map[string]string{"message": "Justificante eliminado"})
}
