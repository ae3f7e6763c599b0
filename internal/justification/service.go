package justification

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/frahmantamala/school-admin/internal"
	"github.com/frahmantamala/school-admin/internal/apiclient"
	"github.com/frahmantamala/school-admin/internal/user"
)

const (
	resourcePath = "/justificantes"
	DeletePrompt = "¿Estás seguro de que deseas eliminar este justificante?"
)

// Service is the client side of the justificantes resource. Create and
// Update validate locally, overlap included, before any remote call.
type Service struct {
	api    apiclient.API
	logger *slog.Logger
}

func NewService(api apiclient.API, logger *slog.Logger) *Service {
	return &Service{
		api:    api,
		logger: logger,
	}
}

func (s *Service) List(ctx context.Context) ([]Justification, error) {
	var items []Justification
	if err := s.api.Get(ctx, resourcePath, &items); err != nil {
		s.logger.Error("failed to list justifications", "error", err)
		return nil, apiclient.Describe(err, "Error al cargar los justificantes.")
	}
	return items, nil
}

// Create validates dto against existing, the cached list, and sends it.
func (s *Service) Create(ctx context.Context, who internal.Principal, dto JustificationDTO, existing []Justification) (*Justification, error) {
	if err := Validate(&dto, existing, user.RoleOf(who.Rol), 0); err != nil {
		return nil, err
	}

	var created Justification
	if err := s.api.Post(ctx, resourcePath, dto, &created); err != nil {
		s.logger.Error("failed to create justification", "alumno_id", dto.AlumnoID, "error", err)
		return nil, remoteError(err, "Error al crear el justificante.")
	}
	s.logger.Info("justification created", "id", created.ID, "alumno_id", created.AlumnoID)
	return &created, nil
}

func (s *Service) Update(ctx context.Context, who internal.Principal, id int64, dto JustificationDTO, existing []Justification) (*Justification, error) {
	if err := Validate(&dto, existing, user.RoleOf(who.Rol), id); err != nil {
		return nil, err
	}

	var updated Justification
	if err := s.api.Put(ctx, fmt.Sprintf("%s/%d", resourcePath, id), dto, &updated); err != nil {
		s.logger.Error("failed to update justification", "id", id, "error", err)
		return nil, remoteError(err, "Error al actualizar el justificante.")
	}
	return &updated, nil
}

func (s *Service) Delete(ctx context.Context, id int64) error {
	if err := s.api.Delete(ctx, fmt.Sprintf("%s/%d", resourcePath, id), nil, nil); err != nil {
		s.logger.Error("failed to delete justification", "id", id, "error", err)
		return apiclient.Describe(err, "Error al eliminar el justificante.")
	}
	return nil
}

// remoteError turns the server's overlap conflict into the same field error
// the local check raises.
func remoteError(err error, msg string) error {
	var appErr *internal.AppError
	if errors.As(err, &appErr) && appErr.Type == internal.ErrorTypeConflict && appErr.Code == internal.ErrCodeOverlap {
		return OverlapError().WithCause(err)
	}
	return apiclient.Describe(err, msg)
}
