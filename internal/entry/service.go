package entry

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/frahmantamala/school-admin/internal/apiclient"
)

const (
	resourcePath = "/entradas-salidas"
	DeletePrompt = "¿Estás seguro de que deseas eliminar este registro?"
)

// Service is the client side of the entradas-salidas resource.
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

func (s *Service) List(ctx context.Context) ([]Entry, error) {
	var entries []Entry
	if err := s.api.Get(ctx, resourcePath, &entries); err != nil {
		s.logger.Error("failed to list entries", "error", err)
		return nil, apiclient.Describe(err, "Error al cargar las entradas y salidas.")
	}
	return entries, nil
}

func (s *Service) Create(ctx context.Context, dto EntryDTO) (*Entry, error) {
	if err := dto.Validate(); err != nil {
		return nil, err
	}
	var created Entry
	if err := s.api.Post(ctx, resourcePath, dto, &created); err != nil {
		s.logger.Error("failed to create entry", "error", err)
		return nil, apiclient.Describe(err, "Error al crear la visita.")
	}
	return &created, nil
}

func (s *Service) Update(ctx context.Context, id int64, dto EntryDTO) (*Entry, error) {
	if err := dto.Validate(); err != nil {
		return nil, err
	}
	var updated Entry
	if err := s.api.Put(ctx, fmt.Sprintf("%s/%d", resourcePath, id), dto, &updated); err != nil {
		s.logger.Error("failed to update entry", "id", id, "error", err)
		return nil, apiclient.Describe(err, "Error al actualizar la visita.")
	}
	return &updated, nil
}

func (s *Service) Delete(ctx context.Context, id int64) error {
	if err := s.api.Delete(ctx, fmt.Sprintf("%s/%d", resourcePath, id), nil, nil); err != nil {
		s.logger.Error("failed to delete entry", "id", id, "error", err)
		return apiclient.Describe(err, "Error al eliminar la visita.")
	}
	return nil
}
