package user

import "time"

type User struct {
	ID           int64     `gorm:"primaryKey"`
	Nombre       string    `gorm:"column:nombre;uniqueIndex;not null"`
	PasswordHash string    `gorm:"column:password_hash;not null"`
	Rol          string    `gorm:"column:rol;not null"`
	CreatedAt    time.Time `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt    time.Time `gorm:"column:updated_at;autoUpdateTime"`
}

func (User) TableName() string {
	return "users"
}
