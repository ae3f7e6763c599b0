package cmd

import (
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"github.com/frahmantamala/school-admin/internal/filter"
)

type table struct {
	w *tabwriter.Writer
}

func newTable(out io.Writer, headers ...string) *table {
	t := &table{w: tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)}
	t.row(headers...)
	return t
}

func (t *table) row(cells ...string) {
	fmt.Fprintln(t.w, strings.Join(cells, "\t"))
}

func (t *table) flush() error {
	return t.w.Flush()
}

// printPage renders one page of items followed by the page footer.
func printPage[T any](out io.Writer, page filter.Page[T], headers []string, cells func(T) []string) error {
	if page.TotalItems == 0 {
		fmt.Fprintln(out, "No hay registros.")
		return nil
	}
	t := newTable(out, headers...)
	for _, item := range page.Items {
		t.row(cells(item)...)
	}
	if err := t.flush(); err != nil {
		return err
	}
	fmt.Fprintf(out, "Página %d de %d (%d registros)\n", page.Page, page.TotalPages, page.TotalItems)
	return nil
}

type pageFlags struct {
	page    int
	perPage int
}

func (p *pageFlags) register(cmdFlags interface {
	IntVar(*int, string, int, string)
}) {
	cmdFlags.IntVar(&p.page, "page", filter.DefaultPage, "page to show")
	cmdFlags.IntVar(&p.perPage, "per-page", 0, "rows per page (default from config)")
}

func paginate[T any](a *app, items []T, p pageFlags) filter.Page[T] {
	perPage := p.perPage
	if perPage == 0 {
		perPage = a.cfg.School.PageSize
	}
	return filter.Paginate(items, p.page, perPage)
}
