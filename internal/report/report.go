// Package report renders justifications as XLSX and PDF documents.
package report

import (
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/frahmantamala/school-admin/internal"
	"github.com/frahmantamala/school-admin/internal/calendar"
	"github.com/frahmantamala/school-admin/internal/justification"
	"github.com/frahmantamala/school-admin/internal/textnorm"
)

type Format string

const (
	FormatXLSX Format = "xlsx"
	FormatPDF  Format = "pdf"
)

var ErrNoFilter = internal.NewValidationError("Selecciona al menos un filtro para generar el reporte.", internal.ErrCodeNoFilter)

var Columns = []string{"ID", "Tipo", "Departamento", "Nombre alumno", "Grupo", "Fecha inicio", "Fecha regreso", "Días"}

const listTitle = "Lista de Justificantes"

var (
	months   = []string{"enero", "febrero", "marzo", "abril", "mayo", "junio", "julio", "agosto", "septiembre", "octubre", "noviembre", "diciembre"}
	weekdays = []string{"Domingo", "Lunes", "Martes", "Miércoles", "Jueves", "Viernes", "Sábado"}
)

func ParseFormat(s string) (Format, error) {
	switch Format(strings.ToLower(strings.TrimSpace(s))) {
	case FormatXLSX, "excel":
		return FormatXLSX, nil
	case FormatPDF, "":
		return FormatPDF, nil
	default:
		return "", fmt.Errorf("formato de reporte desconocido %q", s)
	}
}

// FileName is the default name of a list report.
func (f Format) FileName() string {
	return "lista_justificantes." + string(f)
}

// List is a justification report ready to render.
type List struct {
	Filters     []string
	GeneratedAt time.Time
	Rows        [][]string
}

// FiltersLine is the header line under the title.
func (l *List) FiltersLine() string {
	return "Filtros: " + strings.Join(l.Filters, " | ")
}

func (l *List) GeneratedLine() string {
	return "Generado el: " + GeneratedLabel(l.GeneratedAt)
}

// BuildList orders items by student name and formats one row each. A report
// of the unfiltered list is refused.
func BuildList(items []justification.Justification, filters justification.Filters, now time.Time) (*List, error) {
	if !filters.Active() {
		return nil, ErrNoFilter
	}

	sorted := make([]justification.Justification, len(items))
	copy(sorted, items)
	textnorm.SortBy(sorted, func(j justification.Justification) string { return j.AlumnoNombre })

	rows := make([][]string, 0, len(sorted))
	for _, j := range sorted {
		rows = append(rows, []string{
			strconv.FormatInt(j.ID, 10),
			j.TipoJustificante,
			j.Departamento,
			j.AlumnoNombre,
			j.Grupo,
			formatDate(j.FechaInicio, "02/01/2006"),
			formatDate(j.FechaRegreso, "02/01/2006"),
			strconv.Itoa(j.TiempoDias),
		})
	}
	return &List{Filters: filters.Labels(), GeneratedAt: now, Rows: rows}, nil
}

// JustificationList writes the filtered list in format.
func JustificationList(w io.Writer, items []justification.Justification, filters justification.Filters, format Format, now time.Time) error {
	list, err := BuildList(items, filters, now)
	if err != nil {
		return err
	}
	switch format {
	case FormatXLSX:
		return writeXLSX(w, list)
	case FormatPDF:
		return writeListPDF(w, list)
	default:
		return fmt.Errorf("formato de reporte desconocido %q", format)
	}
}

// GeneratedLabel reads like "Miércoles 6 de marzo de 2024, 10h".
func GeneratedLabel(t time.Time) string {
	return fmt.Sprintf("%s %d de %s de %d, %02dh",
		weekdays[t.Weekday()], t.Day(), months[t.Month()-1], t.Year(), t.Hour())
}

func formatDate(d calendar.Date, layout string) string {
	if d.IsZero() {
		return ""
	}
	return d.Time.Format(layout)
}
