package student

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/frahmantamala/school-admin/internal"
	"github.com/frahmantamala/school-admin/internal/core/common/validation"
)

type StudentDTO struct {
	Nombre  string `json:"nombre" validate:"required,max=100"`
	Grupo   string `json:"grupo" validate:"required,grupo"`
	Turno   string `json:"turno" validate:"required,oneof=Matutino Vespertino"`
	Ingreso int    `json:"ingreso" validate:"required,min=2000,max=2100"`
}

// Validate also checks that the group letter belongs to the shift.
func (d *StudentDTO) Validate() error {
	d.Nombre = strings.TrimSpace(d.Nombre)
	d.Grupo = strings.ToUpper(strings.TrimSpace(d.Grupo))
	if err := validation.Struct(d); err != nil {
		return err
	}
	s := Student{Grupo: d.Grupo}
	if TurnoFor(s.Letra()) != d.Turno {
		return ErrShiftMismatch
	}
	return nil
}

// BulkCreateDTO is the "add a whole group" form: one name per line.
type BulkCreateDTO struct {
	Turno   string
	Grado   string
	Grupo   string
	Ingreso string
	Nombres string
}

// Names splits the textarea into trimmed, non-blank names.
func (d BulkCreateDTO) Names() []string {
	var names []string
	for _, line := range strings.Split(d.Nombres, "\n") {
		if n := strings.TrimSpace(line); n != "" {
			names = append(names, n)
		}
	}
	return names
}

func (d BulkCreateDTO) Validate() error {
	if d.Turno == "" || d.Grado == "" || d.Grupo == "" || d.Ingreso == "" || strings.TrimSpace(d.Nombres) == "" {
		return internal.NewValidationError("Completa todos los campos.", internal.ErrCodeFieldRequired)
	}
	if len(d.Names()) == 0 {
		return internal.NewValidationError("Agrega al menos un nombre.", internal.ErrCodeFieldRequired)
	}
	return nil
}

// Request builds the bulk insert body, validating every row.
func (d BulkCreateDTO) Request() (*BulkCreateRequest, error) {
	if err := d.Validate(); err != nil {
		return nil, err
	}
	ingreso, err := strconv.Atoi(strings.TrimSpace(d.Ingreso))
	if err != nil {
		return nil, internal.NewValidationFieldError("ingreso", "Año de ingreso inválido", internal.ErrCodeValidationFailed)
	}

	req := &BulkCreateRequest{}
	for _, nombre := range d.Names() {
		row := StudentDTO{Nombre: nombre, Grupo: d.Grado + d.Grupo, Turno: d.Turno, Ingreso: ingreso}
		if err := row.Validate(); err != nil {
			return nil, err
		}
		req.Alumnos = append(req.Alumnos, row)
	}
	return req, nil
}

type BulkCreateRequest struct {
	Alumnos []StudentDTO `json:"alumnos"`
}

func (r *BulkCreateRequest) Validate() error {
	if len(r.Alumnos) == 0 {
		return internal.NewValidationError("Agrega al menos un nombre.", internal.ErrCodeFieldRequired)
	}
	for i := range r.Alumnos {
		if err := r.Alumnos[i].Validate(); err != nil {
			return err
		}
	}
	return nil
}

// BulkUpdateDTO moves the students of Grupo, minus ExcluirIds, to a new
// group and/or enrolment year.
type BulkUpdateDTO struct {
	Grupo        string  `json:"grupo"`
	NuevoGrupo   string  `json:"nuevoGrupo,omitempty"`
	NuevoIngreso int     `json:"nuevoIngreso,omitempty"`
	ExcluirIds   []int64 `json:"excluirIds,omitempty"`
}

func (d *BulkUpdateDTO) Validate() error {
	d.Grupo = strings.ToUpper(strings.TrimSpace(d.Grupo))
	d.NuevoGrupo = strings.ToUpper(strings.TrimSpace(d.NuevoGrupo))

	v := validation.NewValidator()
	v.Field("grupo", d.Grupo).Required("Selecciona un grado y un grupo")
	v.Check(d.NuevoGrupo != "" || d.NuevoIngreso != 0, "nuevoGrupo", "Debes seleccionar al menos un campo a actualizar.", internal.ErrCodeNothingToUpdate)
	v.Check(d.NuevoGrupo == "" || validGroup(d.NuevoGrupo), "nuevoGrupo", "Grupo inválido", internal.ErrCodeInvalidGroup)
	if err := v.Validate(); err != nil {
		return err
	}
	return nil
}

type BulkDeleteDTO struct {
	Grupo      string  `json:"grupo"`
	ExcluirIds []int64 `json:"excluirIds"`
}

func (d *BulkDeleteDTO) Validate() error {
	d.Grupo = strings.ToUpper(strings.TrimSpace(d.Grupo))
	if d.Grupo == "" {
		return internal.NewValidationFieldError("grupo", "Selecciona un grado y un grupo", internal.ErrCodeNoFilter)
	}
	if d.ExcluirIds == nil {
		d.ExcluirIds = []int64{}
	}
	return nil
}

// BulkResult is the answer of the group-wide endpoints.
type BulkResult struct {
	Affected int64 `json:"afectados"`
}

// Exclusions returns the ids of group that are not in selected, the list the
// group-wide endpoints expect.
func Exclusions(group []Student, selected []int64) []int64 {
	keep := make(map[int64]bool, len(selected))
	for _, id := range selected {
		keep[id] = true
	}
	out := []int64{}
	for _, s := range group {
		if !keep[s.ID] {
			out = append(out, s.ID)
		}
	}
	return out
}

// DeletePrompt is the confirmation shown before a group-wide delete.
func DeletePrompt(grupo string, total, selected int) string {
	if selected == total {
		return fmt.Sprintf("¿Eliminar %d alumnos del grupo %s? Esta acción eliminará todos los alumnos de este grupo.", total, grupo)
	}
	return fmt.Sprintf("¿Eliminar %d alumnos del grupo %s? Se conservarán %d alumnos de este grupo.", selected, grupo, total-selected)
}

func validGroup(grupo string) bool {
	s := Student{Grupo: grupo}
	return len(grupo) == 2 && s.Grado() != "" && s.Grado() >= "1" && s.Grado() <= "3" && TurnoFor(s.Letra()) != ""
}
