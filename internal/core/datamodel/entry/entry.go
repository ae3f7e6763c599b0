package entry

import (
	"time"

	"github.com/frahmantamala/school-admin/internal/calendar"
)

type EntradaSalida struct {
	ID            int64              `gorm:"primaryKey"`
	NombreVisita  string             `gorm:"column:nombre_visita;not null"`
	Motivo        string             `gorm:"column:motivo;size:35;not null"`
	Tipo          string             `gorm:"column:tipo;not null"`
	AlumnoID      *int64             `gorm:"column:alumno_id;index"`
	FechaRegistro calendar.Timestamp `gorm:"column:fecha_registro;not null"`
	CreatedAt     time.Time          `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt     time.Time          `gorm:"column:updated_at;autoUpdateTime"`
}

func (EntradaSalida) TableName() string {
	return "entradas_salidas"
}

type EntradaSalidaRow struct {
	EntradaSalida
	NombreAlumno *string `gorm:"column:nombre_alumno"`
}
