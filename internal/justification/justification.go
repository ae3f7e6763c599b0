// Package justification manages absence justifications: the business-day
// duration, the per-student overlap rule and the list filters.
package justification

import (
	"encoding/json"

	"github.com/frahmantamala/school-admin/internal/calendar"
	justificationDatamodel "github.com/frahmantamala/school-admin/internal/core/datamodel/justification"
)

const (
	TipoEnfermedad = "Enfermedad"
	TipoFamiliar   = "Familiar"
	TipoEscolar    = "Escolar"
	TipoOtros      = "Otros"
)

var Tipos = []string{TipoEnfermedad, TipoFamiliar, TipoEscolar, TipoOtros}

// MinDaysDireccion is the shortest justification the direccion role may
// issue.
const MinDaysDireccion = 4

type Justification struct {
	ID                 int64         `json:"id"`
	TipoJustificante   string        `json:"tipo_justificante"`
	Departamento       string        `json:"departamento"`
	AlumnoID           int64         `json:"alumno_id"`
	AlumnoNombre       string        `json:"alumno_nombre"`
	Grupo              string        `json:"grupo"`
	Turno              string        `json:"turno,omitempty"`
	Tutor              string        `json:"tutor"`
	Motivo             string        `json:"motivo"`
	FechaInicio        calendar.Date `json:"fecha_inicio"`
	FechaRegreso       calendar.Date `json:"fecha_regreso"`
	TiempoDias         int           `json:"tiempo_dias"`
	TotalJustificantes int           `json:"total_justificantes"`
	CreadoPor          int64         `json:"creado_por"`
}

// UnmarshalJSON also accepts nombre_alumno and grupo_alumno, the names some
// deployments of the service use for the joined student columns.
func (j *Justification) UnmarshalJSON(b []byte) error {
	type plain Justification
	var aux struct {
		plain
		NombreAlumno string `json:"nombre_alumno"`
		GrupoAlumno  string `json:"grupo_alumno"`
	}
	if err := json.Unmarshal(b, &aux); err != nil {
		return err
	}
	*j = Justification(aux.plain)
	if j.AlumnoNombre == "" {
		j.AlumnoNombre = aux.NombreAlumno
	}
	if j.Grupo == "" {
		j.Grupo = aux.GrupoAlumno
	}
	return nil
}

// Grado is the first character of the group.
func (j Justification) Grado() string {
	if j.Grupo == "" {
		return ""
	}
	return j.Grupo[:1]
}

// Letra is the group without its grade.
func (j Justification) Letra() string {
	if len(j.Grupo) < 2 {
		return ""
	}
	return j.Grupo[1:]
}

func ToDataModel(j *Justification) *justificationDatamodel.Justificante {
	return &justificationDatamodel.Justificante{
		ID:               j.ID,
		TipoJustificante: j.TipoJustificante,
		Departamento:     j.Departamento,
		AlumnoID:         j.AlumnoID,
		Grupo:            j.Grupo,
		Tutor:            j.Tutor,
		Motivo:           j.Motivo,
		FechaInicio:      j.FechaInicio,
		FechaRegreso:     j.FechaRegreso,
		TiempoDias:       j.TiempoDias,
		CreadoPor:        j.CreadoPor,
	}
}

func FromDataModel(row *justificationDatamodel.JustificanteRow) Justification {
	return Justification{
		ID:                 row.ID,
		TipoJustificante:   row.TipoJustificante,
		Departamento:       row.Departamento,
		AlumnoID:           row.AlumnoID,
		AlumnoNombre:       row.AlumnoNombre,
		Grupo:              row.Grupo,
		Turno:              row.Turno,
		Tutor:              row.Tutor,
		Motivo:             row.Motivo,
		FechaInicio:        row.FechaInicio,
		FechaRegreso:       row.FechaRegreso,
		TiempoDias:         row.TiempoDias,
		TotalJustificantes: row.TotalJustificantes,
		CreadoPor:          row.CreadoPor,
	}
}
