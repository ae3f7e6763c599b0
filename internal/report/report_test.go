package report_test

import (
	"bytes"
	"testing"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"github.com/xuri/excelize/v2"

	"github.com/frahmantamala/school-admin/internal/calendar"
	"github.com/frahmantamala/school-admin/internal/justification"
	"github.com/frahmantamala/school-admin/internal/report"
)

func TestReport(t *testing.T) {
	RegisterFailHandler(Fail)
	RunSpecs(t, "Report Suite")
}

var _ = Describe("Justification reports", func() {
	now := time.Date(2024, 3, 6, 10, 15, 0, 0, time.Local)
	items := []justification.Justification{
		{ID: 2, TipoJustificante: "Familiar", Departamento: "Maestros", AlumnoNombre: "Óscar Díaz", Grupo: "1A",
			FechaInicio: calendar.MustParseDate("2024-03-04"), FechaRegreso: calendar.MustParseDate("2024-03-06"), TiempoDias: 2},
		{ID: 5, TipoJustificante: "Familiar", Departamento: "Prefectura", AlumnoNombre: "ana Ruiz", Grupo: "2B",
			FechaInicio: calendar.MustParseDate("2024-03-11"), FechaRegreso: calendar.MustParseDate("2024-03-12"), TiempoDias: 1},
		{ID: 7, TipoJustificante: "Familiar", Departamento: "Maestros", AlumnoNombre: "Beto Luna", Grupo: "3C",
			FechaInicio: calendar.MustParseDate("2024-03-01"), FechaRegreso: calendar.MustParseDate("2024-03-04"), TiempoDias: 1},
	}
	filters := justification.Filters{Tipo: "Familiar", Turno: "Matutino"}

	It("refuses to report the unfiltered list", func() {
		var buf bytes.Buffer
		err := report.JustificationList(&buf, items, justification.Filters{}, report.FormatPDF, now)
		Expect(err).To(MatchError(report.ErrNoFilter))
		Expect(buf.Len()).To(BeZero())
	})

	It("orders rows by student name and formats dates", func() {
		list, err := report.BuildList(items, filters, now)
		Expect(err).NotTo(HaveOccurred())
		Expect(list.Rows).To(HaveLen(3))
		Expect(list.Rows[0][3]).To(Equal("ana Ruiz"))
		Expect(list.Rows[1][3]).To(Equal("Beto Luna"))
		Expect(list.Rows[2][3]).To(Equal("Óscar Díaz"))
		Expect(list.Rows[2][5]).To(Equal("04/03/2024"))
		Expect(list.FiltersLine()).To(Equal("Filtros: Tipo: Familiar | Turno: Matutino"))
		Expect(list.GeneratedLine()).To(Equal("Generado el: Miércoles 6 de marzo de 2024, 10h"))
	})

	It("writes a workbook with the header and one row per record", func() {
		var buf bytes.Buffer
		Expect(report.JustificationList(&buf, items, filters, report.FormatXLSX, now)).To(Succeed())

		f, err := excelize.OpenReader(bytes.NewReader(buf.Bytes()))
		Expect(err).NotTo(HaveOccurred())
		defer f.Close()
		rows, err := f.GetRows("Justificantes")
		Expect(err).NotTo(HaveOccurred())
		Expect(rows[0][0]).To(Equal("Lista de Justificantes"))
		Expect(rows[2][0]).To(Equal("Filtros: Tipo: Familiar | Turno: Matutino"))
		Expect(rows[4]).To(Equal(report.Columns))
		Expect(rows[5][3]).To(Equal("ana Ruiz"))
		Expect(rows).To(HaveLen(8))
	})

	It("writes a PDF list", func() {
		var buf bytes.Buffer
		Expect(report.JustificationList(&buf, items, filters, report.FormatPDF, now)).To(Succeed())
		Expect(buf.String()).To(HavePrefix("%PDF-"))
	})

	It("writes a single justificante", func() {
		var buf bytes.Buffer
		Expect(report.JustificationPDF(&buf, items[0])).To(Succeed())
		Expect(buf.String()).To(HavePrefix("%PDF-"))
		Expect(report.JustificationFileName(2)).To(Equal("Justificante_2.pdf"))
	})

	It("parses formats", func() {
		f, err := report.ParseFormat("XLSX")
		Expect(err).NotTo(HaveOccurred())
		Expect(f).To(Equal(report.FormatXLSX))
		Expect(f.FileName()).To(Equal("lista_justificantes.xlsx"))
		_, err = report.ParseFormat("doc")
		Expect(err).To(HaveOccurred())
	})
})
