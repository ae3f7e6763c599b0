package student

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/frahmantamala/school-admin/internal/apiclient"
)

const resourcePath = "/alumnos"

// Service is the client side of the alumnos resource.
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

func (s *Service) List(ctx context.Context) ([]Student, error) {
	var students []Student
	if err := s.api.Get(ctx, resourcePath, &students); err != nil {
		s.logger.Error("failed to list students", "error", err)
		return nil, apiclient.Describe(err, "Error al cargar los alumnos.")
	}
	return students, nil
}

func (s *Service) Create(ctx context.Context, dto StudentDTO) (*Student, error) {
	if err := dto.Validate(); err != nil {
		return nil, err
	}
	var created Student
	if err := s.api.Post(ctx, resourcePath, dto, &created); err != nil {
		s.logger.Error("failed to create student", "error", err)
		return nil, apiclient.Describe(err, "Error al crear el alumno.")
	}
	return &created, nil
}

func (s *Service) Update(ctx context.Context, id int64, dto StudentDTO) (*Student, error) {
	if err := dto.Validate(); err != nil {
		return nil, err
	}
	var updated Student
	if err := s.api.Put(ctx, fmt.Sprintf("%s/%d", resourcePath, id), dto, &updated); err != nil {
		s.logger.Error("failed to update student", "id", id, "error", err)
		return nil, apiclient.Describe(err, "Error al actualizar el alumno.")
	}
	return &updated, nil
}

func (s *Service) Delete(ctx context.Context, id int64) error {
	if err := s.api.Delete(ctx, fmt.Sprintf("%s/%d", resourcePath, id), nil, nil); err != nil {
		s.logger.Error("failed to delete student", "id", id, "error", err)
		return apiclient.Describe(err, "Error al eliminar el alumno.")
	}
	return nil
}

// BulkCreate adds one student per name in dto, all in the same group.
func (s *Service) BulkCreate(ctx context.Context, dto BulkCreateDTO) ([]Student, error) {
	req, err := dto.Request()
	if err != nil {
		return nil, err
	}
	var created []Student
	if err := s.api.Post(ctx, resourcePath+"/bulk", req, &created); err != nil {
		s.logger.Error("failed to bulk create students", "count", len(req.Alumnos), "error", err)
		return nil, apiclient.Describe(err, "Error al agregar alumnos.")
	}
	s.logger.Info("students created", "count", len(req.Alumnos))
	return created, nil
}

func (s *Service) BulkUpdate(ctx context.Context, dto BulkUpdateDTO) (*BulkResult, error) {
	if err := dto.Validate(); err != nil {
		return nil, err
	}
	var res BulkResult
	if err := s.api.Put(ctx, resourcePath+"/grupo", dto, &res); err != nil {
		s.logger.Error("failed to bulk update students", "grupo", dto.Grupo, "error", err)
		return nil, apiclient.Describe(err, "Error al editar el grupo.")
	}
	return &res, nil
}

func (s *Service) BulkDelete(ctx context.Context, dto BulkDeleteDTO) (*BulkResult, error) {
	if err := dto.Validate(); err != nil {
		return nil, err
	}
	var res BulkResult
	if err := s.api.Delete(ctx, resourcePath+"/grupo", dto, &res); err != nil {
		s.logger.Error("failed to bulk delete students", "grupo", dto.Grupo, "error", err)
		return nil, apiclient.Describe(err, "Error al eliminar el grupo.")
	}
	return &res, nil
}
