// Package entry records visitor entries and exits, optionally linked to a
// student.
package entry

import (
	"github.com/frahmantamala/school-admin/internal/calendar"
	entryDatamodel "github.com/frahmantamala/school-admin/internal/core/datamodel/entry"
)

const (
	TipoEntrada = "Entrada"
	TipoSalida  = "Salida"
)

// MaxMotivo is the longest reason accepted, in characters.
const MaxMotivo = 35

type Entry struct {
	ID            int64              `json:"id"`
	NombreVisita  string             `json:"nombre_visita"`
	Motivo        string             `json:"motivo"`
	Tipo          string             `json:"tipo"`
	AlumnoID      *int64             `json:"alumno_id"`
	NombreAlumno  string             `json:"nombre_alumno,omitempty"`
	FechaRegistro calendar.Timestamp `json:"fecha_registro"`
}

// IsStudent reports whether the record is linked to a student.
func (e Entry) IsStudent() bool {
	return e.AlumnoID != nil && *e.AlumnoID != 0
}

func (e Entry) StudentID() int64 {
	if e.AlumnoID == nil {
		return 0
	}
	return *e.AlumnoID
}

func ToDataModel(e *Entry) *entryDatamodel.EntradaSalida {
	return &entryDatamodel.EntradaSalida{
		ID:            e.ID,
		NombreVisita:  e.NombreVisita,
		Motivo:        e.Motivo,
		Tipo:          e.Tipo,
		AlumnoID:      e.AlumnoID,
		FechaRegistro: e.FechaRegistro,
	}
}

func FromDataModel(row *entryDatamodel.EntradaSalidaRow) Entry {
	e := Entry{
		ID:            row.ID,
		NombreVisita:  row.NombreVisita,
		Motivo:        row.Motivo,
		Tipo:          row.Tipo,
		AlumnoID:      row.AlumnoID,
		FechaRegistro: row.FechaRegistro,
	}
	if row.NombreAlumno != nil {
		e.NombreAlumno = *row.NombreAlumno
	}
	return e
}
