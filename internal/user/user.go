package user

import (
	"errors"
	"strings"
	"unicode"
	"unicode/utf8"

	userDatamodel "github.com/frahmantamala/school-admin/internal/core/datamodel/user"
	"github.com/frahmantamala/school-admin/internal/textnorm"
)

// Role values are lowercase. The service stores and returns them capitalised.
type Role string

const (
	RoleMaestro       Role = "maestro"
	RolePrefecto      Role = "prefecto"
	RoleDireccion     Role = "direccion"
	RoleTrabajoSocial Role = "trabajo social"
	RoleEnfermeria    Role = "enfermeria"
)

var Roles = []Role{RoleMaestro, RolePrefecto, RoleDireccion, RoleTrabajoSocial, RoleEnfermeria}

var departments = map[Role]string{
	RolePrefecto:      "Prefectura",
	RoleMaestro:       "Maestros",
	RoleEnfermeria:    "Enfermeria",
	RoleDireccion:     "Direccion",
	RoleTrabajoSocial: "Trabajo Social",
}

var ErrUnknownRole = errors.New("rol desconocido")

// ParseRole accepts any casing and accents ("Dirección", "TRABAJO SOCIAL").
func ParseRole(s string) (Role, error) {
	r := Role(textnorm.Normalize(strings.TrimSpace(s)))
	if !r.Valid() {
		return "", ErrUnknownRole
	}
	return r, nil
}

func (r Role) Valid() bool {
	_, ok := departments[r]
	return ok
}

// Wire capitalises the first letter and lowercases the rest, the form the
// service stores ("Trabajo social").
func (r Role) Wire() string {
	s := strings.ToLower(string(r))
	if s == "" {
		return ""
	}
	first, size := utf8.DecodeRuneInString(s)
	return string(unicode.ToUpper(first)) + s[size:]
}

// Department is the department a justificante created by this role belongs
// to. Unknown roles have none.
func (r Role) Department() string {
	return departments[Role(strings.ToLower(string(r)))]
}

func (r Role) Label() string {
	switch r {
	case RoleDireccion:
		return "Dirección"
	case RoleEnfermeria:
		return "Enfermería"
	case RoleTrabajoSocial:
		return "Trabajo Social"
	default:
		return r.Wire()
	}
}

type User struct {
	ID     int64  `json:"id"`
	Nombre string `json:"nombre"`
	Rol    Role   `json:"rol"`
}

// Normalized returns u with its role lowercased, as read from the service.
func (u User) Normalized() User {
	u.Rol = Role(strings.ToLower(string(u.Rol)))
	return u
}

// Response is a user as the service returns it, role capitalised.
type Response struct {
	ID     int64  `json:"id"`
	Nombre string `json:"nombre"`
	Rol    string `json:"rol"`
}

func ToDataModel(u *User, passwordHash string) *userDatamodel.User {
	return &userDatamodel.User{
		ID:           u.ID,
		Nombre:       u.Nombre,
		PasswordHash: passwordHash,
		Rol:          u.Rol.Wire(),
	}
}

func FromDataModel(u *userDatamodel.User) Response {
	return Response{
		ID:     u.ID,
		Nombre: u.Nombre,
		Rol:    u.Rol,
	}
}

// RoleOf is ParseRole for values already trusted, such as a token's claims.
// Unknown roles come back lowercased and fail Valid.
func RoleOf(s string) Role {
	if r, err := ParseRole(s); err == nil {
		return r
	}
	return Role(strings.ToLower(strings.TrimSpace(s)))
}
