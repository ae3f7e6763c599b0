package user

import (
	"context"
	"log/slog"

	"github.com/frahmantamala/school-admin/internal"
	userDatamodel "github.com/frahmantamala/school-admin/internal/core/datamodel/user"
)

var (
	ErrUserNotFound  = internal.NewNotFoundError("Usuario no encontrado", internal.ErrCodeNotFound)
	ErrDuplicateName = internal.NewConflictError("Ya existe un usuario con ese nombre", internal.ErrCodeDuplicateName)
	ErrBadLogin      = internal.NewUnauthorizedError("Usuario o contraseña incorrectos", internal.ErrCodeInvalidCredentials)
)

type RepositoryAPI interface {
	GetAll(ctx context.Context) ([]*userDatamodel.User, error)
	GetByID(ctx context.Context, id int64) (*userDatamodel.User, error)
	GetByNombre(ctx context.Context, nombre string) (*userDatamodel.User, error)
	Create(ctx context.Context, u *userDatamodel.User) error
	Update(ctx context.Context, u *userDatamodel.User) error
	Delete(ctx context.Context, id int64) error
}

// Authenticator hashes passwords and issues session tokens.
type Authenticator interface {
	HashPassword(password string) (string, error)
	VerifyPassword(hash, password string) error
	IssueToken(p internal.Principal) (string, error)
}

// Backend is the server side of the users resource.
type Backend struct {
	repo   RepositoryAPI
	auth   Authenticator
	logger *slog.Logger
}

func NewBackend(repo RepositoryAPI, auth Authenticator, logger *slog.Logger) *Backend {
	return &Backend{
		repo:   repo,
		auth:   auth,
		logger: logger,
	}
}

func (b *Backend) List(ctx context.Context) ([]Response, error) {
	rows, err := b.repo.GetAll(ctx)
	if err != nil {
		b.logger.Error("failed to get users from repository", "error", err)
		return nil, internal.NewInternalError("Error al obtener usuarios", err)
	}

	responses := make([]Response, 0, len(rows))
	for _, row := range rows {
		responses = append(responses, FromDataModel(row))
	}
	return responses, nil
}

func (b *Backend) Create(ctx context.Context, dto CreateUserDTO) (*Response, error) {
	if err := dto.Validate(); err != nil {
		return nil, err
	}
	if err := b.ensureUniqueName(ctx, dto.Nombre, 0); err != nil {
		return nil, err
	}

	hash, err := b.auth.HashPassword(dto.Password)
	if err != nil {
		return nil, internal.NewInternalError("Error al crear el usuario", err)
	}

	rol, _ := ParseRole(dto.Rol)
	row := ToDataModel(&User{Nombre: dto.Nombre, Rol: rol}, hash)
	if err := b.repo.Create(ctx, row); err != nil {
		b.logger.Error("failed to create user", "nombre", dto.Nombre, "error", err)
		return nil, internal.NewInternalError("Error al crear el usuario", err)
	}

	b.logger.Info("user created", "id", row.ID, "rol", row.Rol)
	resp := FromDataModel(row)
	return &resp, nil
}

// Update keeps the stored password hash when dto carries no password.
func (b *Backend) Update(ctx context.Context, id int64, dto UpdateUserDTO) (*Response, error) {
	if err := dto.Validate(); err != nil {
		return nil, err
	}

	row, err := b.repo.GetByID(ctx, id)
	if err != nil {
		return nil, internal.NewInternalError("Error al actualizar el usuario", err)
	}
	if row == nil {
		return nil, ErrUserNotFound
	}
	if err := b.ensureUniqueName(ctx, dto.Nombre, id); err != nil {
		return nil, err
	}

	rol, _ := ParseRole(dto.Rol)
	row.Nombre = dto.Nombre
	row.Rol = rol.Wire()
	if dto.Password != "" {
		hash, err := b.auth.HashPassword(dto.Password)
		if err != nil {
			return nil, internal.NewInternalError("Error al actualizar el usuario", err)
		}
		row.PasswordHash = hash
	}

	if err := b.repo.Update(ctx, row); err != nil {
		b.logger.Error("failed to update user", "id", id, "error", err)
		return nil, internal.NewInternalError("Error al actualizar el usuario", err)
	}
	resp := FromDataModel(row)
	return &resp, nil
}

func (b *Backend) Delete(ctx context.Context, id int64) error {
	row, err := b.repo.GetByID(ctx, id)
	if err != nil {
		return internal.NewInternalError("Error al eliminar el usuario", err)
	}
	if row == nil {
		return ErrUserNotFound
	}
	if err := b.repo.Delete(ctx, id); err != nil {
		b.logger.Error("failed to delete user", "id", id, "error", err)
		return internal.NewInternalError("Error al eliminar el usuario", err)
	}
	return nil
}

func (b *Backend) Login(ctx context.Context, dto LoginDTO) (*LoginResponse, error) {
	if err := dto.Validate(); err != nil {
		return nil, err
	}

	row, err := b.repo.GetByNombre(ctx, dto.Nombre)
	if err != nil {
		return nil, internal.NewInternalError("Error en el login", err)
	}
	if row == nil {
		return nil, ErrBadLogin
	}
	if err := b.auth.VerifyPassword(row.PasswordHash, dto.Password); err != nil {
		b.logger.Warn("login rejected", "nombre", dto.Nombre)
		return nil, ErrBadLogin
	}

	token, err := b.auth.IssueToken(internal.Principal{ID: row.ID, Nombre: row.Nombre, Rol: row.Rol})
	if err != nil {
		return nil, internal.NewInternalError("Error en el login", err)
	}
	return &LoginResponse{Token: token, User: FromDataModel(row)}, nil
}

func (b *Backend) ensureUniqueName(ctx context.Context, nombre string, self int64) error {
	existing, err := b.repo.GetByNombre(ctx, nombre)
	if err != nil {
		return internal.NewInternalError("Error al validar el usuario", err)
	}
	if existing != nil && existing.ID != self {
		return ErrDuplicateName
	}
	return nil
}
