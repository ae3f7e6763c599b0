package report

import (
	"fmt"
	"io"

	"github.com/go-pdf/fpdf"

	"github.com/frahmantamala/school-admin/internal/justification"
)

var columnWidths = []float64{12, 24, 28, 50, 14, 22, 22, 12}

func newDocument() (*fpdf.Fpdf, func(string) string) {
	pdf := fpdf.New("P", "mm", "A4", "")
	pdf.SetMargins(10, 10, 10)
	pdf.SetAutoPageBreak(true, 15)
	// the core fonts are cp1252
	return pdf, pdf.UnicodeTranslatorFromDescriptor("")
}

func writeListPDF(w io.Writer, l *List) error {
	pdf, tr := newDocument()
	pdf.AddPage()

	pdf.SetFont("Helvetica", "B", 16)
	pdf.CellFormat(0, 8, tr(listTitle), "", 1, "C", false, 0, "")
	pdf.SetFont("Helvetica", "", 9)
	pdf.CellFormat(0, 5, tr(l.GeneratedLine()), "", 1, "C", false, 0, "")
	pdf.SetFont("Helvetica", "", 11)
	pdf.MultiCell(0, 6, tr(l.FiltersLine()), "", "C", false)
	pdf.Ln(3)

	header := func() {
		pdf.SetFont("Helvetica", "B", 10)
		pdf.SetFillColor(46, 204, 113)
		pdf.SetTextColor(255, 255, 255)
		for i, name := range Columns {
			pdf.CellFormat(columnWidths[i], 7, tr(name), "1", 0, "C", true, 0, "")
		}
		pdf.Ln(-1)
		pdf.SetTextColor(0, 0, 0)
		pdf.SetFont("Helvetica", "", 9)
	}
	header()
	_, pageHeight := pdf.GetPageSize()
	for _, row := range l.Rows {
		if pdf.GetY()+6 > pageHeight-15 {
			pdf.AddPage()
			header()
		}
		for i, v := range row {
			pdf.CellFormat(columnWidths[i], 6, tr(v), "1", 0, "L", false, 0, "")
		}
		pdf.Ln(-1)
	}

	return pdf.Output(w)
}

// JustificationFileName is the download name of a single justificante.
func JustificationFileName(id int64) string {
	return fmt.Sprintf("Justificante_%d.pdf", id)
}

// JustificationPDF writes the printable justificante of j with the signature
// grid staff fill in by hand.
func JustificationPDF(w io.Writer, j justification.Justification) error {
	pdf, tr := newDocument()
	pdf.AddPage()

	text := func(x, y float64, s string) { pdf.Text(x, y, tr(s)) }

	pdf.SetFont("Helvetica", "B", 12)
	text(15, 10, "SECRETARÍA DE EDUCACIÓN Y CULTURA SUBSECRETARÍA DE EDUCACIÓN BÁSICA")
	text(50, 15, "DIRECCIÓN DE EDUCACIÓN SECUNDARIA ESTATAL")
	text(15, 25, "ESC. SECUNDARIA NO.22 MIGUEL HIDALGO Y COSTILLA CLAVE 26EES00221, ZONA")
	text(95, 30, "ESCOLAR 01")

	pdf.SetFont("Helvetica", "", 12)
	text(90, 40, "S.L.R.C SON., a ")
	text(90, 45, "JUSTIFICANTE")

	pdf.SetFont("Helvetica", "", 10)
	text(10, 60, "Nombre del alumno(a): "+j.AlumnoNombre)
	text(10, 70, "Tipo de justificante: "+j.TipoJustificante)
	text(10, 80, "Departamento: "+j.Departamento)
	text(10, 90, "Tutor: "+j.Tutor)
	text(10, 100, "Motivo: "+j.Motivo)
	text(10, 110, "Fecha de inicio: "+formatDate(j.FechaInicio, "02-01-2006"))
	text(10, 120, "Fecha de regreso: "+formatDate(j.FechaRegreso, "02-01-2006"))
	text(10, 130, fmt.Sprintf("Dias de justificación: %d", j.TiempoDias))

	text(10, 150, "Nombre del maestro (a)")
	text(110, 150, "Materia")
	text(170, 150, "Firma")

	pdf.SetLineWidth(0.5)
	for i := 0; i < 8; i++ {
		y := 160 + float64(i)*10
		text(10, y, "Profr(a)")
		pdf.Line(25, y+2, 80, y+2)
		pdf.Line(90, y+2, 140, y+2)
		pdf.Line(150, y+2, 200, y+2)
	}

	return pdf.Output(w)
}
