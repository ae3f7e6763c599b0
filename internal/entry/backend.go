package entry

import (
	"context"
	"log/slog"

	"github.com/frahmantamala/school-admin/internal"
	"github.com/frahmantamala/school-admin/internal/calendar"
	entryDatamodel "github.com/frahmantamala/school-admin/internal/core/datamodel/entry"
	studentDatamodel "github.com/frahmantamala/school-admin/internal/core/datamodel/student"
)

var (
	ErrEntryNotFound  = internal.NewNotFoundError("Registro no encontrado", internal.ErrCodeNotFound)
	ErrUnknownStudent = internal.NewValidationFieldError("alumno_id", "El alumno no existe", internal.ErrCodeNotFound)
)

type RepositoryAPI interface {
	List(ctx context.Context) ([]*entryDatamodel.EntradaSalidaRow, error)
	GetByID(ctx context.Context, id int64) (*entryDatamodel.EntradaSalidaRow, error)
	Create(ctx context.Context, row *entryDatamodel.EntradaSalida) error
	Update(ctx context.Context, row *entryDatamodel.EntradaSalida) error
	Delete(ctx context.Context, id int64) error
}

type StudentLookup interface {
	GetByID(ctx context.Context, id int64) (*studentDatamodel.Alumno, error)
}

// Backend is the server side of the entradas-salidas resource. It stamps
// fecha_registro from its clock on create.
type Backend struct {
	repo     RepositoryAPI
	students StudentLookup
	clock    calendar.Clock
	logger   *slog.Logger
}

func NewBackend(repo RepositoryAPI, students StudentLookup, clock calendar.Clock, logger *slog.Logger) *Backend {
	return &Backend{
		repo:     repo,
		students: students,
		clock:    clock,
		logger:   logger,
	}
}

func (b *Backend) List(ctx context.Context) ([]Entry, error) {
	rows, err := b.repo.List(ctx)
	if err != nil {
		b.logger.Error("failed to get entries from repository", "error", err)
		return nil, internal.NewInternalError("Error al obtener registros", err)
	}
	out := make([]Entry, 0, len(rows))
	for _, row := range rows {
		out = append(out, FromDataModel(row))
	}
	return out, nil
}

func (b *Backend) Create(ctx context.Context, dto EntryDTO) (*Entry, error) {
	if err := b.check(ctx, &dto); err != nil {
		return nil, err
	}
	row := ToDataModel(&Entry{
		NombreVisita:  dto.NombreVisita,
		Motivo:        dto.Motivo,
		Tipo:          dto.Tipo,
		AlumnoID:      dto.AlumnoID,
		FechaRegistro: calendar.TimestampOf(b.clock.Now()),
	})
	if err := b.repo.Create(ctx, row); err != nil {
		b.logger.Error("failed to create entry", "error", err)
		return nil, internal.NewInternalError("Error al crear registro", err)
	}
	b.logger.Info("entry created", "id", row.ID, "tipo", row.Tipo)
	return b.get(ctx, row.ID)
}

// Update keeps the original fecha_registro.
func (b *Backend) Update(ctx context.Context, id int64, dto EntryDTO) (*Entry, error) {
	if err := b.check(ctx, &dto); err != nil {
		return nil, err
	}
	current, err := b.repo.GetByID(ctx, id)
	if err != nil {
		return nil, internal.NewInternalError("Error al actualizar registro", err)
	}
	if current == nil {
		return nil, ErrEntryNotFound
	}

	row := current.EntradaSalida
	row.NombreVisita = dto.NombreVisita
	row.Motivo = dto.Motivo
	row.Tipo = dto.Tipo
	row.AlumnoID = dto.AlumnoID
	if err := b.repo.Update(ctx, &row); err != nil {
		b.logger.Error("failed to update entry", "id", id, "error", err)
		return nil, internal.NewInternalError("Error al actualizar registro", err)
	}
	return b.get(ctx, id)
}

func (b *Backend) Delete(ctx context.Context, id int64) error {
	current, err := b.repo.GetByID(ctx, id)
	if err != nil {
		return internal.NewInternalError("Error al eliminar registro", err)
	}
	if current == nil {
		return ErrEntryNotFound
	}
	if err := b.repo.Delete(ctx, id); err != nil {
		b.logger.Error("failed to delete entry", "id", id, "error", err)
		return internal.NewInternalError("Error al eliminar registro", err)
	}
	return nil
}

func (b *Backend) check(ctx context.Context, dto *EntryDTO) error {
	if err := dto.Validate(); err != nil {
		return err
	}
	if dto.AlumnoID == nil {
		return nil
	}
	alumno, err := b.students.GetByID(ctx, *dto.AlumnoID)
	if err != nil {
		return internal.NewInternalError("Error al validar el alumno", err)
	}
	if alumno == nil {
		return ErrUnknownStudent
	}
	return nil
}

func (b *Backend) get(ctx context.Context, id int64) (*Entry, error) {
	row, err := b.repo.GetByID(ctx, id)
	if err != nil {
		return nil, internal.NewInternalError("Error al obtener registro", err)
	}
	if row == nil {
		return nil, ErrEntryNotFound
	}
	e := FromDataModel(row)
	return &e, nil
}
