package justification

import (
	"context"
	"errors"
	"log/slog"

	"github.com/frahmantamala/school-admin/internal"
	justificationDatamodel "github.com/frahmantamala/school-admin/internal/core/datamodel/justification"
	studentDatamodel "github.com/frahmantamala/school-admin/internal/core/datamodel/student"
	"github.com/frahmantamala/school-admin/internal/user"
)

var (
	ErrJustificationNotFound = internal.NewNotFoundError("Justificante no encontrado", internal.ErrCodeNotFound)
	ErrUnknownStudent        = internal.NewValidationFieldError("alumno_id", "El alumno no existe", internal.ErrCodeNotFound)
)

// Guard inspects the stored justifications of the same student inside the
// write transaction and may veto the write.
type Guard func(sameStudent []*justificationDatamodel.Justificante) error

type RepositoryAPI interface {
	List(ctx context.Context) ([]*justificationDatamodel.JustificanteRow, error)
	GetByID(ctx context.Context, id int64) (*justificationDatamodel.JustificanteRow, error)
	Create(ctx context.Context, row *justificationDatamodel.Justificante, guard Guard) error
	Update(ctx context.Context, row *justificationDatamodel.Justificante, guard Guard) error
	Delete(ctx context.Context, id int64) error
}

// TotalsReader counts justifications per student.
type TotalsReader interface {
	CountByStudent(ctx context.Context) (map[int64]int, error)
}

type StudentLookup interface {
	GetByID(ctx context.Context, id int64) (*studentDatamodel.Alumno, error)
}

// Backend is the server side of the justificantes resource. It owns the
// authoritative overlap check.
type Backend struct {
	repo     RepositoryAPI
	totals   TotalsReader
	students StudentLookup
	logger   *slog.Logger
}

func NewBackend(repo RepositoryAPI, totals TotalsReader, students StudentLookup, logger *slog.Logger) *Backend {
	return &Backend{
		repo:     repo,
		totals:   totals,
		students: students,
		logger:   logger,
	}
}

func (b *Backend) List(ctx context.Context) ([]Justification, error) {
	rows, err := b.repo.List(ctx)
	if err != nil {
		b.logger.Error("failed to get justifications from repository", "error", err)
		return nil, internal.NewInternalError("Error al obtener justificantes", err)
	}
	totals, err := b.totals.CountByStudent(ctx)
	if err != nil {
		b.logger.Error("failed to count justifications", "error", err)
		return nil, internal.NewInternalError("Error al obtener justificantes", err)
	}

	out := make([]Justification, 0, len(rows))
	for _, row := range rows {
		row.TotalJustificantes = totals[row.AlumnoID]
		out = append(out, FromDataModel(row))
	}
	return out, nil
}

func (b *Backend) Create(ctx context.Context, who internal.Principal, dto JustificationDTO) (*Justification, error) {
	row, err := b.prepare(ctx, who, &dto)
	if err != nil {
		return nil, err
	}
	row.CreadoPor = who.ID

	if err := b.repo.Create(ctx, row, overlapGuard(dto.Candidate(0))); err != nil {
		return nil, b.writeError(err, "Error al crear justificante")
	}
	b.logger.Info("justification created", "id", row.ID, "alumno_id", row.AlumnoID, "tiempo_dias", row.TiempoDias)
	return b.get(ctx, row.ID)
}

func (b *Backend) Update(ctx context.Context, who internal.Principal, id int64, dto JustificationDTO) (*Justification, error) {
	current, err := b.repo.GetByID(ctx, id)
	if err != nil {
		return nil, internal.NewInternalError("Error al actualizar justificante", err)
	}
	if current == nil {
		return nil, ErrJustificationNotFound
	}

	row, err := b.prepare(ctx, who, &dto)
	if err != nil {
		return nil, err
	}
	row.ID = id
	row.CreadoPor = current.CreadoPor
	row.CreatedAt = current.CreatedAt

	if err := b.repo.Update(ctx, row, overlapGuard(dto.Candidate(id))); err != nil {
		return nil, b.writeError(err, "Error al actualizar justificante")
	}
	return b.get(ctx, id)
}

func (b *Backend) Delete(ctx context.Context, id int64) error {
	current, err := b.repo.GetByID(ctx, id)
	if err != nil {
		return internal.NewInternalError("Error al eliminar justificante", err)
	}
	if current == nil {
		return ErrJustificationNotFound
	}
	if err := b.repo.Delete(ctx, id); err != nil {
		b.logger.Error("failed to delete justification", "id", id, "error", err)
		return internal.NewInternalError("Error al eliminar justificante", err)
	}
	return nil
}

// prepare validates dto for who and resolves the student's group.
func (b *Backend) prepare(ctx context.Context, who internal.Principal, dto *JustificationDTO) (*justificationDatamodel.Justificante, error) {
	if err := dto.ValidateFields(user.RoleOf(who.Rol)); err != nil {
		return nil, err
	}
	alumno, err := b.students.GetByID(ctx, dto.AlumnoID)
	if err != nil {
		return nil, internal.NewInternalError("Error al validar el alumno", err)
	}
	if alumno == nil {
		return nil, ErrUnknownStudent
	}
	dto.Grupo = alumno.Grupo

	return ToDataModel(&Justification{
		TipoJustificante: dto.TipoJustificante,
		Departamento:     dto.Departamento,
		AlumnoID:         dto.AlumnoID,
		Grupo:            dto.Grupo,
		Tutor:            dto.Tutor,
		Motivo:           dto.Motivo,
		FechaInicio:      dto.FechaInicio,
		FechaRegreso:     dto.FechaRegreso,
		TiempoDias:       dto.TiempoDias,
	}), nil
}

func (b *Backend) get(ctx context.Context, id int64) (*Justification, error) {
	row, err := b.repo.GetByID(ctx, id)
	if err != nil {
		return nil, internal.NewInternalError("Error al obtener justificante", err)
	}
	if row == nil {
		return nil, ErrJustificationNotFound
	}
	totals, err := b.totals.CountByStudent(ctx)
	if err != nil {
		return nil, internal.NewInternalError("Error al obtener justificante", err)
	}
	row.TotalJustificantes = totals[row.AlumnoID]
	j := FromDataModel(row)
	return &j, nil
}

func (b *Backend) writeError(err error, msg string) error {
	if errors.Is(err, ErrOverlapConflict) {
		b.logger.Warn("justification rejected: overlapping period")
		return err
	}
	b.logger.Error("failed to store justification", "error", err)
	return internal.NewInternalError(msg, err)
}

func overlapGuard(c Candidate) Guard {
	return func(sameStudent []*justificationDatamodel.Justificante) error {
		existing := make([]Justification, 0, len(sameStudent))
		for _, row := range sameStudent {
			existing = append(existing, Justification{
				ID:           row.ID,
				AlumnoID:     row.AlumnoID,
				FechaInicio:  row.FechaInicio,
				FechaRegreso: row.FechaRegreso,
			})
		}
		if HasOverlap(c, existing) {
			return ErrOverlapConflict
		}
		return nil
	}
}
