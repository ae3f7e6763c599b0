package user

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/frahmantamala/school-admin/internal/apiclient"
	"github.com/frahmantamala/school-admin/internal/session"
)

const resourcePath = "/users"

// Service is the client side of the users resource.
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

// List returns every user with its role lowercased.
func (s *Service) List(ctx context.Context) ([]User, error) {
	var users []User
	if err := s.api.Get(ctx, resourcePath, &users); err != nil {
		s.logger.Error("failed to list users", "error", err)
		return nil, apiclient.Describe(err, "Error al obtener usuarios")
	}
	for i := range users {
		users[i] = users[i].Normalized()
	}
	return users, nil
}

func (s *Service) Create(ctx context.Context, dto CreateUserDTO) (*User, error) {
	if err := dto.Validate(); err != nil {
		return nil, err
	}

	var created User
	if err := s.api.Post(ctx, resourcePath, newBody(dto.Nombre, dto.Password, dto.Rol), &created); err != nil {
		s.logger.Error("failed to create user", "nombre", dto.Nombre, "error", err)
		return nil, apiclient.Describe(err, "Error al crear el usuario. Por favor, intenta nuevamente.")
	}
	created = created.Normalized()
	s.logger.Info("user created", "id", created.ID)
	return &created, nil
}

func (s *Service) Update(ctx context.Context, id int64, dto UpdateUserDTO) (*User, error) {
	if err := dto.Validate(); err != nil {
		return nil, err
	}

	var updated User
	path := fmt.Sprintf("%s/%d", resourcePath, id)
	if err := s.api.Put(ctx, path, newBody(dto.Nombre, dto.Password, dto.Rol), &updated); err != nil {
		s.logger.Error("failed to update user", "id", id, "error", err)
		return nil, apiclient.Describe(err, "Error al actualizar el usuario. Por favor, intenta nuevamente.")
	}
	updated = updated.Normalized()
	return &updated, nil
}

func (s *Service) Delete(ctx context.Context, id int64) error {
	path := fmt.Sprintf("%s/%d", resourcePath, id)
	if err := s.api.Delete(ctx, path, nil, nil); err != nil {
		s.logger.Error("failed to delete user", "id", id, "error", err)
		return apiclient.Describe(err, "Error al eliminar el usuario. Por favor, intenta nuevamente.")
	}
	return nil
}

// Login exchanges credentials for a session. The caller persists it.
func (s *Service) Login(ctx context.Context, dto LoginDTO) (*session.Session, error) {
	if err := dto.Validate(); err != nil {
		return nil, err
	}

	var resp LoginResponse
	if err := s.api.Post(ctx, resourcePath+"/login", dto, &resp); err != nil {
		s.logger.Warn("login failed", "nombre", dto.Nombre, "error", err)
		return nil, apiclient.Describe(err, "Error en el login")
	}
	if resp.Token == "" {
		return nil, fmt.Errorf("login response carried no token")
	}

	return session.New(resp.Token, session.User{
		ID:     resp.User.ID,
		Nombre: resp.User.Nombre,
		Rol:    resp.User.Rol,
	}), nil
}
