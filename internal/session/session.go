// Package session keeps the logged-in staff member between command runs.
package session

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/frahmantamala/school-admin/internal"
)

type User struct {
	ID     int64  `json:"id"`
	Nombre string `json:"nombre"`
	Rol    string `json:"rol"`
}

type Session struct {
	Token string `json:"token"`
	User  User   `json:"user"`
}

func New(token string, user User) *Session {
	user.Rol = strings.ToLower(user.Rol)
	return &Session{Token: token, User: user}
}

// ExpiresAt reads the exp claim of the token without verifying it. The
// signature is checked by the server on every request.
func (s *Session) ExpiresAt() (time.Time, bool) {
	if s == nil || s.Token == "" {
		return time.Time{}, false
	}
	claims := jwt.MapClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(s.Token, claims); err != nil {
		return time.Time{}, false
	}
	exp, err := claims.GetExpirationTime()
	if err != nil || exp == nil {
		return time.Time{}, false
	}
	return exp.Time, true
}

// Expired reports whether the token carries an exp claim in the past.
func (s *Session) Expired(now time.Time) bool {
	exp, ok := s.ExpiresAt()
	return ok && !now.Before(exp)
}

// AccessToken lets a session act as the REST client's token source.
func (s *Session) AccessToken() string {
	if s == nil {
		return ""
	}
	return s.Token
}

func (s *Session) Principal() internal.Principal {
	return internal.Principal{ID: s.User.ID, Nombre: s.User.Nombre, Rol: s.User.Rol}
}

type Store interface {
	Load() (*Session, error)
	Save(s *Session) error
	Clear() error
}

// FileStore persists the session as JSON readable only by its owner.
type FileStore struct {
	path string
	now  func() time.Time
}

func NewFileStore(path string) *FileStore {
	return &FileStore{path: path, now: time.Now}
}

func (f *FileStore) Path() string {
	return f.path
}

// Load returns internal.ErrNotLoggedIn when no session exists and
// internal.ErrTokenExpired, after removing the file, when it has expired.
func (f *FileStore) Load() (*Session, error) {
	data, err := os.ReadFile(f.path)
	if errors.Is(err, os.ErrNotExist) {
		return nil, internal.ErrNotLoggedIn
	}
	if err != nil {
		return nil, fmt.Errorf("read session: %w", err)
	}

	var s Session
	if err := json.Unmarshal(data, &s); err != nil {
		return nil, fmt.Errorf("decode session %s: %w", f.path, err)
	}
	if s.Token == "" {
		return nil, internal.ErrNotLoggedIn
	}
	if s.Expired(f.now()) {
		if err := f.Clear(); err != nil {
			return nil, err
		}
		return nil, internal.ErrTokenExpired
	}
	return &s, nil
}

func (f *FileStore) Save(s *Session) error {
	if s == nil || s.Token == "" {
		return errors.New("session: refusing to save an empty session")
	}
	if err := os.MkdirAll(filepath.Dir(f.path), 0o700); err != nil {
		return fmt.Errorf("create session dir: %w", err)
	}
	data, err := json.MarshalIndent(s, "", "  ")
	if err != nil {
		return fmt.Errorf("encode session: %w", err)
	}
	if err := os.WriteFile(f.path, data, 0o600); err != nil {
		return fmt.Errorf("write session: %w", err)
	}
	return nil
}

// Clear removes the session. Clearing an absent session is not an error.
func (f *FileStore) Clear() error {
	if err := os.Remove(f.path); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("remove session: %w", err)
	}
	return nil
}
