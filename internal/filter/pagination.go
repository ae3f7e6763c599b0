package filter

const (
	DefaultPerPage = 5
	MaxPerPage     = 100
	DefaultPage    = 1
)

type Page[T any] struct {
	Items      []T
	Page       int
	PerPage    int
	TotalItems int
	TotalPages int
}

// HasNext reports whether a later page exists.
func (p Page[T]) HasNext() bool {
	return p.Page < p.TotalPages
}

// Paginate cuts items into 1-based pages. Out of range page numbers are
// clamped; an empty collection is a single empty page.
func Paginate[T any](items []T, page, perPage int) Page[T] {
	if perPage <= 0 || perPage > MaxPerPage {
		perPage = DefaultPerPage
	}

	total := len(items)
	totalPages := (total + perPage - 1) / perPage
	if totalPages == 0 {
		totalPages = 1
	}

	if page < 1 {
		page = DefaultPage
	}
	if page > totalPages {
		page = totalPages
	}

	start := (page - 1) * perPage
	end := start + perPage
	if start > total {
		start = total
	}
	if end > total {
		end = total
	}

	return Page[T]{
		Items:      items[start:end],
		Page:       page,
		PerPage:    perPage,
		TotalItems: total,
		TotalPages: totalPages,
	}
}
