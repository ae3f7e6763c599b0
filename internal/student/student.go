package student

import (
	"strings"
	"unicode"

	"github.com/frahmantamala/school-admin/internal"
	studentDatamodel "github.com/frahmantamala/school-admin/internal/core/datamodel/student"
)

const (
	TurnoMatutino   = "Matutino"
	TurnoVespertino = "Vespertino"
)

// Group letters per shift.
var (
	LettersMatutino   = []string{"A", "B", "C", "D", "E", "F"}
	LettersVespertino = []string{"G", "H", "I", "J", "K", "L"}
	Grades            = []string{"1", "2", "3"}
)

var ErrShiftMismatch = internal.NewValidationFieldError("grupo", "El grupo no corresponde al turno seleccionado", internal.ErrCodeInvalidGroup)

type Student struct {
	ID      int64  `json:"id"`
	Nombre  string `json:"nombre"`
	Grupo   string `json:"grupo"`
	Turno   string `json:"turno"`
	Ingreso int    `json:"ingreso"`
}

// Grado is the digit part of the group ("2" for "2B").
func (s Student) Grado() string {
	return strings.Map(func(r rune) rune {
		if unicode.IsDigit(r) {
			return r
		}
		return -1
	}, s.Grupo)
}

// Letra is the letter part of the group ("B" for "2B").
func (s Student) Letra() string {
	return strings.Map(func(r rune) rune {
		if unicode.IsLetter(r) {
			return unicode.ToUpper(r)
		}
		return -1
	}, s.Grupo)
}

// TurnoFor returns the shift a group letter belongs to, or "" when the letter
// is outside A-L.
func TurnoFor(letter string) string {
	letter = strings.ToUpper(strings.TrimSpace(letter))
	for _, l := range LettersMatutino {
		if l == letter {
			return TurnoMatutino
		}
	}
	for _, l := range LettersVespertino {
		if l == letter {
			return TurnoVespertino
		}
	}
	return ""
}

// LettersFor lists the group letters offered for a shift.
func LettersFor(turno string) []string {
	switch turno {
	case TurnoMatutino:
		return LettersMatutino
	case TurnoVespertino:
		return LettersVespertino
	default:
		return nil
	}
}

func ToDataModel(s *Student) *studentDatamodel.Alumno {
	return &studentDatamodel.Alumno{
		ID:      s.ID,
		Nombre:  s.Nombre,
		Grupo:   s.Grupo,
		Turno:   s.Turno,
		Ingreso: s.Ingreso,
	}
}

func FromDataModel(a *studentDatamodel.Alumno) Student {
	return Student{
		ID:      a.ID,
		Nombre:  a.Nombre,
		Grupo:   a.Grupo,
		Turno:   a.Turno,
		Ingreso: a.Ingreso,
	}
}
