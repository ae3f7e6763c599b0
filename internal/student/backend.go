package student

import (
	"context"
	"log/slog"

	"github.com/frahmantamala/school-admin/internal"
	studentDatamodel "github.com/frahmantamala/school-admin/internal/core/datamodel/student"
)

var ErrStudentNotFound = internal.NewNotFoundError("Alumno no encontrado", internal.ErrCodeNotFound)

type RepositoryAPI interface {
	GetAll(ctx context.Context) ([]*studentDatamodel.Alumno, error)
	GetByID(ctx context.Context, id int64) (*studentDatamodel.Alumno, error)
	Create(ctx context.Context, a *studentDatamodel.Alumno) error
	CreateMany(ctx context.Context, rows []*studentDatamodel.Alumno) error
	Update(ctx context.Context, a *studentDatamodel.Alumno) error
	Delete(ctx context.Context, id int64) error
	UpdateGroup(ctx context.Context, grupo string, exclude []int64, changes map[string]interface{}) (int64, error)
	DeleteGroup(ctx context.Context, grupo string, exclude []int64) (int64, error)
}

// Backend is the server side of the alumnos resource.
type Backend struct {
	repo   RepositoryAPI
	logger *slog.Logger
}

func NewBackend(repo RepositoryAPI, logger *slog.Logger) *Backend {
	return &Backend{
		repo:   repo,
		logger: logger,
	}
}

func (b *Backend) List(ctx context.Context) ([]Student, error) {
	rows, err := b.repo.GetAll(ctx)
	if err != nil {
		b.logger.Error("failed to get students from repository", "error", err)
		return nil, internal.NewInternalError("Error al obtener alumnos", err)
	}
	out := make([]Student, 0, len(rows))
	for _, row := range rows {
		out = append(out, FromDataModel(row))
	}
	return out, nil
}

func (b *Backend) Create(ctx context.Context, dto StudentDTO) (*Student, error) {
	if err := dto.Validate(); err != nil {
		return nil, err
	}
	row := ToDataModel(&Student{Nombre: dto.Nombre, Grupo: dto.Grupo, Turno: dto.Turno, Ingreso: dto.Ingreso})
	if err := b.repo.Create(ctx, row); err != nil {
		b.logger.Error("failed to create student", "error", err)
		return nil, internal.NewInternalError("Error al crear alumno", err)
	}
	created := FromDataModel(row)
	return &created, nil
}

func (b *Backend) Update(ctx context.Context, id int64, dto StudentDTO) (*Student, error) {
	if err := dto.Validate(); err != nil {
		return nil, err
	}
	row, err := b.repo.GetByID(ctx, id)
	if err != nil {
		return nil, internal.NewInternalError("Error al actualizar alumno", err)
	}
	if row == nil {
		return nil, ErrStudentNotFound
	}

	row.Nombre = dto.Nombre
	row.Grupo = dto.Grupo
	row.Turno = dto.Turno
	row.Ingreso = dto.Ingreso
	if err := b.repo.Update(ctx, row); err != nil {
		b.logger.Error("failed to update student", "id", id, "error", err)
		return nil, internal.NewInternalError("Error al actualizar alumno", err)
	}
	updated := FromDataModel(row)
	return &updated, nil
}

func (b *Backend) Delete(ctx context.Context, id int64) error {
	row, err := b.repo.GetByID(ctx, id)
	if err != nil {
		return internal.NewInternalError("Error al eliminar alumno", err)
	}
	if row == nil {
		return ErrStudentNotFound
	}
	if err := b.repo.Delete(ctx, id); err != nil {
		b.logger.Error("failed to delete student", "id", id, "error", err)
		return internal.NewInternalError("Error al eliminar alumno", err)
	}
	return nil
}

// BulkCreate inserts every row or none.
func (b *Backend) BulkCreate(ctx context.Context, req BulkCreateRequest) ([]Student, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}
	rows := make([]*studentDatamodel.Alumno, 0, len(req.Alumnos))
	for _, dto := range req.Alumnos {
		rows = append(rows, ToDataModel(&Student{Nombre: dto.Nombre, Grupo: dto.Grupo, Turno: dto.Turno, Ingreso: dto.Ingreso}))
	}
	if err := b.repo.CreateMany(ctx, rows); err != nil {
		b.logger.Error("failed to bulk create students", "count", len(rows), "error", err)
		return nil, internal.NewInternalError("Error en alta masiva", err)
	}

	out := make([]Student, 0, len(rows))
	for _, row := range rows {
		out = append(out, FromDataModel(row))
	}
	b.logger.Info("students created", "count", len(out))
	return out, nil
}

// BulkUpdate moves a group. A new group also moves the students to the
// group's shift.
func (b *Backend) BulkUpdate(ctx context.Context, dto BulkUpdateDTO) (*BulkResult, error) {
	if err := dto.Validate(); err != nil {
		return nil, err
	}

	changes := map[string]interface{}{}
	if dto.NuevoGrupo != "" {
		changes["grupo"] = dto.NuevoGrupo
		changes["turno"] = TurnoFor(Student{Grupo: dto.NuevoGrupo}.Letra())
	}
	if dto.NuevoIngreso != 0 {
		changes["ingreso"] = dto.NuevoIngreso
	}

	n, err := b.repo.UpdateGroup(ctx, dto.Grupo, dto.ExcluirIds, changes)
	if err != nil {
		b.logger.Error("failed to bulk update students", "grupo", dto.Grupo, "error", err)
		return nil, internal.NewInternalError("Error al editar el grupo", err)
	}
	b.logger.Info("group updated", "grupo", dto.Grupo, "affected", n)
	return &BulkResult{Affected: n}, nil
}

func (b *Backend) BulkDelete(ctx context.Context, dto BulkDeleteDTO) (*BulkResult, error) {
	if err := dto.Validate(); err != nil {
		return nil, err
	}
	n, err := b.repo.DeleteGroup(ctx, dto.Grupo, dto.ExcluirIds)
	if err != nil {
		b.logger.Error("failed to bulk delete students", "grupo", dto.Grupo, "error", err)
		return nil, internal.NewInternalError("Error al eliminar el grupo de alumnos", err)
	}
	b.logger.Info("group deleted", "grupo", dto.Grupo, "affected", n)
	return &BulkResult{Affected: n}, nil
}
