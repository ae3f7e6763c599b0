package user

import (
	"github.com/frahmantamala/school-admin/internal/filter"
)

type Filters struct {
	Search string
	Rol    Role
}

func (f Filters) Predicates() []filter.Predicate[User] {
	return []filter.Predicate[User]{
		filter.Text(f.Search, func(u User) string { return u.Nombre }),
		filter.Equal(f.Rol, func(u User) Role { return u.Rol }),
	}
}

// Apply orders users most recent first and keeps the ones matching f.
func (f Filters) Apply(users []User) []User {
	sorted := filter.SortByIDDesc(users, func(u User) int64 { return u.ID })
	return filter.Apply(sorted, f.Predicates()...)
}
