package entry

import (
	"github.com/frahmantamala/school-admin/internal/calendar"
	"github.com/frahmantamala/school-admin/internal/filter"
)

type Filters struct {
	// OnlyStudents keeps the records linked to a student.
	OnlyStudents bool
	Search       string
	Fecha        calendar.Preset
	Desde        calendar.Date
	Hasta        calendar.Date
	Dia          calendar.Date
	Tipo         string
	// Hora is the hour of day, 0-23. Nil means any hour.
	Hora *int
}

func (f Filters) Predicates(clock calendar.Clock) []filter.Predicate[Entry] {
	day := func(e Entry) calendar.Date { return e.FechaRegistro.Day() }
	preds := []filter.Predicate[Entry]{
		filter.When[Entry](f.OnlyStudents, Entry.IsStudent),
		filter.Text(f.Search,
			func(e Entry) string { return e.NombreVisita },
			func(e Entry) string { return e.NombreAlumno },
		),
		filter.DatePreset(clock, f.Fecha, day),
		filter.DateRange(f.Desde, f.Hasta, day),
		filter.DateRange(f.Dia, f.Dia, day),
		filter.Equal(f.Tipo, func(e Entry) string { return e.Tipo }),
	}
	if f.Hora != nil {
		hour := *f.Hora
		preds = append(preds, func(e Entry) bool {
			return !e.FechaRegistro.IsZero() && e.FechaRegistro.Hour() == hour
		})
	}
	return preds
}

// Apply orders records most recent first and keeps the ones matching f as
// of clock.Now().
func (f Filters) Apply(clock calendar.Clock, items []Entry) []Entry {
	sorted := filter.SortByIDDesc(items, func(e Entry) int64 { return e.ID })
	return filter.Apply(sorted, f.Predicates(clock)...)
}
