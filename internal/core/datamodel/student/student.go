package student

import "time"

type Alumno struct {
	ID        int64     `gorm:"primaryKey"`
	Nombre    string    `gorm:"column:nombre;not null"`
	Grupo     string    `gorm:"column:grupo;size:2;index;not null"`
	Turno     string    `gorm:"column:turno;not null"`
	Ingreso   int       `gorm:"column:ingreso;not null"`
	CreatedAt time.Time `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt time.Time `gorm:"column:updated_at;autoUpdateTime"`
}

func (Alumno) TableName() string {
	return "alumnos"
}
