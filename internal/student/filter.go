package student

import (
	"strings"

	"github.com/frahmantamala/school-admin/internal"
	"github.com/frahmantamala/school-admin/internal/filter"
)

var (
	ErrNoGroupFilter = internal.NewValidationError("Selecciona un grado y un grupo para editar o eliminar un grupo de alumnos.", internal.ErrCodeNoFilter)
	ErrNoneSelected  = internal.NewValidationError("Ningún alumno del grupo coincide con la selección.", internal.ErrCodeNoFilter)
)

type Filters struct {
	Search string
	Grado  string
	Grupo  string
	Turno  string
}

func (f Filters) Predicates() []filter.Predicate[Student] {
	return []filter.Predicate[Student]{
		filter.Text(f.Search, func(s Student) string { return s.Nombre }),
		filter.Equal(strings.TrimSpace(f.Grado), func(s Student) string { return s.Grado() }),
		filter.Equal(strings.ToUpper(strings.TrimSpace(f.Grupo)), func(s Student) string { return s.Letra() }),
		filter.Equal(f.Turno, func(s Student) string { return s.Turno }),
	}
}

// Apply orders students most recent first and keeps the ones matching f.
func (f Filters) Apply(students []Student) []Student {
	sorted := filter.SortByIDDesc(students, func(s Student) int64 { return s.ID })
	return filter.Apply(sorted, f.Predicates()...)
}

// Group is the "2B" style group the filters pin down. Group-wide edits and
// deletes need both grado and grupo.
func (f Filters) Group() (string, error) {
	grado := strings.TrimSpace(f.Grado)
	letra := strings.ToUpper(strings.TrimSpace(f.Grupo))
	if grado == "" || letra == "" {
		return "", ErrNoGroupFilter
	}
	return grado + letra, nil
}

// Selection is the part of a group a group-wide edit or delete acts on.
type Selection struct {
	Grupo    string
	Members  []Student
	Selected []Student
	Excluded []int64
}

// Select pins the group named by f and splits its members into the ones the
// remaining filters and only (when non-empty) keep and the ones they leave
// out. Excluded covers the whole group, so members hidden by a search are
// never touched by the server.
func (f Filters) Select(students []Student, only []int64) (*Selection, error) {
	grupo, err := f.Group()
	if err != nil {
		return nil, err
	}
	inGroup := Filters{}.Apply(students)
	members := make([]Student, 0, len(inGroup))
	for _, s := range inGroup {
		if s.Grupo == grupo {
			members = append(members, s)
		}
	}

	keep := make(map[int64]bool, len(only))
	for _, id := range only {
		keep[id] = true
	}
	var selected []Student
	for _, s := range f.Apply(members) {
		if len(only) == 0 || keep[s.ID] {
			selected = append(selected, s)
		}
	}
	if len(selected) == 0 {
		return nil, ErrNoneSelected
	}

	ids := make([]int64, 0, len(selected))
	for _, s := range selected {
		ids = append(ids, s.ID)
	}
	return &Selection{
		Grupo:    grupo,
		Members:  members,
		Selected: selected,
		Excluded: Exclusions(members, ids),
	}, nil
}
