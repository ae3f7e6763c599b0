// Package auth issues and verifies the bearer tokens of the reference server.
package auth

import (
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/frahmantamala/school-admin/internal"
)

// Claims carry the staff member a token was issued to. Rol is stored as the
// service returns it ("Direccion").
type Claims struct {
	UserID int64  `json:"user_id"`
	Nombre string `json:"nombre"`
	Rol    string `json:"rol"`
	jwt.RegisteredClaims
}

func (c *Claims) Principal() internal.Principal {
	return internal.Principal{ID: c.UserID, Nombre: c.Nombre, Rol: c.Rol}
}

// TokenGenerator creates and checks access tokens.
type TokenGenerator interface {
	GenerateAccessToken(p internal.Principal) (string, error)
	ValidateToken(tokenString string) (*Claims, error)
}

type JWTTokenGenerator struct {
	Secret []byte
	TTL    time.Duration
	now    func() time.Time
}

var (
	ErrInvalidCredentials = internal.ErrInvalidCredentials
	ErrInvalidToken       = internal.ErrInvalidToken
	ErrTokenExpired       = internal.ErrTokenExpired
	ErrMissingToken       = internal.NewUnauthorizedError("Falta el token de autorización", internal.ErrCodeNotLoggedIn)
)
