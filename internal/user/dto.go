package user

import (
	"strings"

	"github.com/frahmantamala/school-admin/internal"
	"github.com/frahmantamala/school-admin/internal/core/common/validation"
)

type CreateUserDTO struct {
	Nombre   string `json:"nombre" validate:"required,max=100"`
	Password string `json:"contraseña" validate:"required"`
	Rol      string `json:"rol" validate:"required"`
}

func (d *CreateUserDTO) Validate() error {
	d.Nombre = strings.TrimSpace(d.Nombre)
	if err := validation.Struct(d); err != nil {
		return err
	}
	return validateRole(d.Rol)
}

// UpdateUserDTO leaves the password unchanged when it is blank.
type UpdateUserDTO struct {
	Nombre   string `json:"nombre" validate:"required,max=100"`
	Password string `json:"contraseña,omitempty"`
	Rol      string `json:"rol" validate:"required"`
}

func (d *UpdateUserDTO) Validate() error {
	d.Nombre = strings.TrimSpace(d.Nombre)
	if strings.TrimSpace(d.Password) == "" {
		d.Password = ""
	}
	if err := validation.Struct(d); err != nil {
		return err
	}
	return validateRole(d.Rol)
}

func validateRole(rol string) error {
	if _, err := ParseRole(rol); err != nil {
		return internal.NewValidationFieldError("rol", "Selecciona un rol válido", internal.ErrCodeInvalidRole)
	}
	return nil
}

// body is the request sent to the service: role capitalised, password only
// when present.
type body struct {
	Nombre   string `json:"nombre"`
	Password string `json:"contraseña,omitempty"`
	Rol      string `json:"rol"`
}

func newBody(nombre, password, rol string) body {
	r, _ := ParseRole(rol)
	return body{Nombre: nombre, Password: password, Rol: r.Wire()}
}

type LoginDTO struct {
	Nombre   string `json:"nombre"`
	Password string `json:"contraseña"`
}

func (d *LoginDTO) Validate() error {
	v := validation.NewValidator()
	v.Field("nombre", d.Nombre).Required("Por favor, completa todos los campos.")
	v.Field("contraseña", d.Password).Required("Por favor, completa todos los campos.")
	if err := v.Validate(); err != nil {
		return err
	}
	return nil
}

type LoginResponse struct {
	Token string   `json:"token"`
	User  Response `json:"user"`
}
