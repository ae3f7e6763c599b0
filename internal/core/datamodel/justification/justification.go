package justification

import (
	"time"

	"github.com/frahmantamala/school-admin/internal/calendar"
)

type Justificante struct {
	ID               int64         `gorm:"primaryKey"`
	TipoJustificante string        `gorm:"column:tipo_justificante;not null"`
	Departamento     string        `gorm:"column:departamento;not null"`
	AlumnoID         int64         `gorm:"column:alumno_id;index;not null"`
	Grupo            string        `gorm:"column:grupo"`
	Tutor            string        `gorm:"column:tutor;not null"`
	Motivo           string        `gorm:"column:motivo;size:120;not null"`
	FechaInicio      calendar.Date `gorm:"column:fecha_inicio;not null"`
	FechaRegreso     calendar.Date `gorm:"column:fecha_regreso;not null"`
	TiempoDias       int           `gorm:"column:tiempo_dias;not null"`
	CreadoPor        int64         `gorm:"column:creado_por;index"`
	CreatedAt        time.Time     `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt        time.Time     `gorm:"column:updated_at;autoUpdateTime"`
}

func (Justificante) TableName() string {
	return "justificantes"
}

// JustificanteRow is a justificante joined with its student, as listed.
type JustificanteRow struct {
	Justificante
	AlumnoNombre       string `gorm:"column:alumno_nombre"`
	Turno              string `gorm:"column:turno"`
	TotalJustificantes int    `gorm:"column:total_justificantes"`
}
