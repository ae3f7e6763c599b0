package justification

import (
	"fmt"

	"github.com/frahmantamala/school-admin/internal/calendar"
	"github.com/frahmantamala/school-admin/internal/filter"
)

type Filters struct {
	Search       string
	Tipo         string
	Departamento string
	Grado        string
	Grupo        string
	Fecha        calendar.Preset
	Turno        string
	// MineOnly keeps the justifications created by UserID.
	MineOnly bool
	UserID   int64
}

func (f Filters) Predicates(clock calendar.Clock) []filter.Predicate[Justification] {
	return []filter.Predicate[Justification]{
		filter.Text(f.Search, func(j Justification) string { return j.AlumnoNombre }),
		filter.Equal(f.Tipo, func(j Justification) string { return j.TipoJustificante }),
		filter.Equal(f.Departamento, func(j Justification) string { return j.Departamento }),
		filter.Equal(f.Grado, func(j Justification) string { return j.Grado() }),
		filter.Equal(f.Grupo, func(j Justification) string { return j.Letra() }),
		filter.DatePreset(clock, f.Fecha, func(j Justification) calendar.Date { return j.FechaInicio }),
		filter.Equal(f.Turno, func(j Justification) string { return j.Turno }),
		filter.When(f.MineOnly, func(j Justification) bool { return j.CreadoPor == f.UserID }),
	}
}

// Apply orders justifications most recent first and keeps the ones matching
// f as of clock.Now().
func (f Filters) Apply(clock calendar.Clock, items []Justification) []Justification {
	sorted := filter.SortByIDDesc(items, func(j Justification) int64 { return j.ID })
	return filter.Apply(sorted, f.Predicates(clock)...)
}

// Active reports whether any filter is set.
func (f Filters) Active() bool {
	return len(f.Labels()) > 0
}

// Labels describes the active filters for report headers.
func (f Filters) Labels() []string {
	var labels []string
	add := func(name, value string) {
		if value != "" {
			labels = append(labels, fmt.Sprintf("%s: %s", name, value))
		}
	}
	add("Nombre", f.Search)
	add("Tipo", f.Tipo)
	add("Departamento", f.Departamento)
	add("Grado", f.Grado)
	add("Grupo", f.Grupo)
	add("Fecha", f.Fecha.Label())
	add("Turno", f.Turno)
	if f.MineOnly {
		labels = append(labels, "Creado por mí")
	}
	return labels
}
