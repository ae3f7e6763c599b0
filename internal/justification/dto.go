package justification

import (
	"strings"

	"github.com/frahmantamala/school-admin/internal"
	"github.com/frahmantamala/school-admin/internal/calendar"
	"github.com/frahmantamala/school-admin/internal/core/common/validation"
	"github.com/frahmantamala/school-admin/internal/user"
)

const (
	MsgSameDates   = "La fecha de regreso no puede ser igual a la de inicio."
	MsgReturnFirst = "La fecha de regreso no puede ser antes de la fecha de inicio."
	MsgMinimumDays = "Dirección solo puede justificar a partir de cuatro días (mínimo 4)"
	MsgOverlap     = "El alumno ya tiene un justificante que abarca parte o todo ese periodo."
)

// ErrOverlapConflict is what the server answers when the stored records
// clash with the request.
var ErrOverlapConflict = internal.NewConflictError(MsgOverlap, internal.ErrCodeOverlap)

// JustificationDTO is the create/update body. TiempoDias and Departamento are
// derived, never taken from the operator.
type JustificationDTO struct {
	TipoJustificante string        `json:"tipo_justificante" validate:"required,oneof=Enfermedad Familiar Escolar Otros"`
	Departamento     string        `json:"departamento"`
	AlumnoID         int64         `json:"alumno_id" validate:"required"`
	Grupo            string        `json:"grupo"`
	Tutor            string        `json:"tutor" validate:"required,max=100"`
	Motivo           string        `json:"motivo" validate:"required,max=120"`
	FechaInicio      calendar.Date `json:"fecha_inicio"`
	FechaRegreso     calendar.Date `json:"fecha_regreso"`
	TiempoDias       int           `json:"tiempo_dias"`
}

// ValidateFields runs every rule that needs no other record: required
// fields, date order and the direccion minimum. On success it fills in
// TiempoDias and, from rol, Departamento.
func (d *JustificationDTO) ValidateFields(rol user.Role) error {
	d.Tutor = strings.TrimSpace(d.Tutor)
	d.Motivo = strings.TrimSpace(d.Motivo)

	v := validation.NewValidator()
	v.Field("fecha_inicio", d.FechaInicio).Required("La fecha de inicio es obligatoria")
	v.Field("fecha_regreso", d.FechaRegreso).Required("La fecha de regreso es obligatoria")
	if err := validation.Join(validation.Struct(d), v.Validate()); err != nil {
		return err
	}

	switch d.FechaRegreso.Compare(d.FechaInicio) {
	case 0:
		return internal.NewValidationFieldError("fecha_regreso", MsgSameDates, internal.ErrCodeSameDates)
	case -1:
		return internal.NewValidationFieldError("fecha_regreso", MsgReturnFirst, internal.ErrCodeReturnBeforeStart)
	}

	days, _ := calendar.BusinessDaysBetween(d.FechaInicio, d.FechaRegreso)
	if rol == user.RoleDireccion && days < MinDaysDireccion {
		return internal.NewValidationFieldError("fecha_regreso", MsgMinimumDays, internal.ErrCodeMinimumDays)
	}

	d.TiempoDias = days
	if dep := rol.Department(); dep != "" {
		d.Departamento = dep
	}
	return nil
}

// Candidate is the overlap probe for d. editingID is 0 on create.
func (d *JustificationDTO) Candidate(editingID int64) Candidate {
	return Candidate{
		StudentID: d.AlumnoID,
		Start:     d.FechaInicio,
		End:       d.FechaRegreso,
		ExcludeID: editingID,
	}
}

// OverlapError is the field error raised by the local overlap check. Both
// dates are reported so the operator re-enters them.
func OverlapError() *internal.AppError {
	return internal.NewFieldErrors(
		internal.ValidationError{Field: "fecha_inicio", Message: MsgOverlap, Code: string(internal.ErrCodeOverlap)},
		internal.ValidationError{Field: "fecha_regreso", Message: MsgOverlap, Code: string(internal.ErrCodeOverlap)},
	)
}

// Validate runs ValidateFields and then the overlap check against existing.
func Validate(d *JustificationDTO, existing []Justification, rol user.Role, editingID int64) error {
	if err := d.ValidateFields(rol); err != nil {
		return err
	}
	if HasOverlap(d.Candidate(editingID), existing) {
		d.FechaInicio = calendar.Date{}
		d.FechaRegreso = calendar.Date{}
		d.TiempoDias = 0
		return OverlapError()
	}
	return nil
}

// FromJustification prefills an edit with the stored record.
func FromJustification(j Justification) JustificationDTO {
	return JustificationDTO{
		TipoJustificante: j.TipoJustificante,
		Departamento:     j.Departamento,
		AlumnoID:         j.AlumnoID,
		Grupo:            j.Grupo,
		Tutor:            j.Tutor,
		Motivo:           j.Motivo,
		FechaInicio:      j.FechaInicio,
		FechaRegreso:     j.FechaRegreso,
		TiempoDias:       j.TiempoDias,
	}
}
