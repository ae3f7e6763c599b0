package entry

import (
	"strings"

	"github.com/frahmantamala/school-admin/internal"
	"github.com/frahmantamala/school-admin/internal/core/common/validation"
	"github.com/frahmantamala/school-admin/internal/student"
	"github.com/frahmantamala/school-admin/internal/textnorm"
)

var (
	ErrStudentNotFound  = internal.NewValidationFieldError("alumno_id", "No se encontró el alumno.", internal.ErrCodeNotFound)
	ErrStudentAmbiguous = internal.NewValidationFieldError("alumno_id", "Hay varios alumnos con ese nombre, sé más específico.", internal.ErrCodeValidationFailed)
)

// EntryDTO is the create/update body. A nil AlumnoID is sent as null.
type EntryDTO struct {
	NombreVisita string `json:"nombre_visita" validate:"required,max=100"`
	Motivo       string `json:"motivo" validate:"required"`
	Tipo         string `json:"tipo" validate:"required,oneof=Entrada Salida"`
	AlumnoID     *int64 `json:"alumno_id"`
}

func (d *EntryDTO) Validate() error {
	d.NombreVisita = strings.TrimSpace(d.NombreVisita)
	d.Motivo = strings.TrimSpace(d.Motivo)
	if d.AlumnoID != nil && *d.AlumnoID == 0 {
		d.AlumnoID = nil
	}

	v := validation.NewValidator()
	v.Field("motivo", d.Motivo).MaxLength(MaxMotivo)
	return validation.Join(validation.Struct(d), v.Validate())
}

// FromEntry prefills an edit with the stored record.
func FromEntry(e Entry) EntryDTO {
	return EntryDTO{
		NombreVisita: e.NombreVisita,
		Motivo:       e.Motivo,
		Tipo:         e.Tipo,
		AlumnoID:     e.AlumnoID,
	}
}

// ResolveStudent finds the student named query. Exact matches, ignoring case
// and accents, win over partial ones; either way the match must be unique.
func ResolveStudent(students []student.Student, query string) (*student.Student, error) {
	q := textnorm.Normalize(strings.TrimSpace(query))
	if q == "" {
		return nil, ErrStudentNotFound
	}

	var exact, partial []student.Student
	for _, s := range students {
		if textnorm.Normalize(s.Nombre) == q {
			exact = append(exact, s)
		} else if textnorm.Contains(s.Nombre, q) {
			partial = append(partial, s)
		}
	}
	if len(exact) > 0 {
		return unique(exact)
	}
	if len(partial) == 0 {
		return nil, ErrStudentNotFound
	}
	return unique(partial)
}

func unique(matches []student.Student) (*student.Student, error) {
	if len(matches) > 1 {
		return nil, ErrStudentAmbiguous
	}
	return &matches[0], nil
}
