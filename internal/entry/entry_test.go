package entry_test

import (
	"context"
	"strings"
	"testing"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/frahmantamala/school-admin/internal"
	"github.com/frahmantamala/school-admin/internal/apiclient/apiclienttest"
	"github.com/frahmantamala/school-admin/internal/calendar"
	"github.com/frahmantamala/school-admin/internal/entry"
	"github.com/frahmantamala/school-admin/internal/student"
	"github.com/frahmantamala/school-admin/pkg/logger"
)

func TestEntry(t *testing.T) {
	RegisterFailHandler(Fail)
	RunSpecs(t, "Entry Suite")
}

func ts(s string) calendar.Timestamp {
	t, err := calendar.ParseTimestamp(s)
	Expect(err).NotTo(HaveOccurred())
	return t
}

func id(n int64) *int64 { return &n }

var _ = Describe("EntryDTO", func() {
	It("accepts a reason of exactly 35 characters", func() {
		dto := entry.EntryDTO{NombreVisita: "Carlos", Motivo: strings.Repeat("a", 35), Tipo: entry.TipoEntrada}
		Expect(dto.Validate()).To(Succeed())
	})

	It("rejects a longer reason", func() {
		dto := entry.EntryDTO{NombreVisita: "Carlos", Motivo: strings.Repeat("ñ", 36), Tipo: entry.TipoEntrada}
		err := dto.Validate()
		Expect(err).To(HaveOccurred())
		Expect(internal.FieldErrors(err)[0].Field).To(Equal("motivo"))
	})

	It("rejects an unknown direction", func() {
		dto := entry.EntryDTO{NombreVisita: "Carlos", Motivo: "Junta", Tipo: "Visita"}
		Expect(dto.Validate()).To(HaveOccurred())
	})

	It("sends a zero student as null", func() {
		dto := entry.EntryDTO{NombreVisita: "Carlos", Motivo: "Junta", Tipo: entry.TipoSalida, AlumnoID: id(0)}
		Expect(dto.Validate()).To(Succeed())
		Expect(dto.AlumnoID).To(BeNil())
	})
})

var _ = Describe("ResolveStudent", func() {
	students := []student.Student{
		{ID: 1, Nombre: "José Pérez"},
		{ID: 2, Nombre: "José Pérez Ruiz"},
		{ID: 3, Nombre: "Ana María"},
	}

	It("prefers an exact match", func() {
		s, err := entry.ResolveStudent(students, "jose perez")
		Expect(err).NotTo(HaveOccurred())
		Expect(s.ID).To(Equal(int64(1)))
	})

	It("accepts a unique partial match", func() {
		s, err := entry.ResolveStudent(students, "maria")
		Expect(err).NotTo(HaveOccurred())
		Expect(s.ID).To(Equal(int64(3)))
	})

	It("refuses an ambiguous name", func() {
		_, err := entry.ResolveStudent(students, "pérez")
		Expect(err).To(MatchError(entry.ErrStudentAmbiguous))
	})

	It("refuses two students with the same name", func() {
		namesakes := []student.Student{
			{ID: 1, Nombre: "José Hernández", Grupo: "1A"},
			{ID: 2, Nombre: "Jose Hernandez", Grupo: "3B"},
			{ID: 3, Nombre: "José Hernández López", Grupo: "2C"},
		}
		_, err := entry.ResolveStudent(namesakes, "jose hernandez")
		Expect(err).To(MatchError(entry.ErrStudentAmbiguous))
	})

	It("reports a missing student", func() {
		_, err := entry.ResolveStudent(students, "Luis")
		Expect(err).To(MatchError(entry.ErrStudentNotFound))
	})
})

var _ = Describe("Filters", func() {
	// Wednesday
	clock := calendar.FixedClock(time.Date(2024, 3, 6, 12, 0, 0, 0, time.Local))
	items := []entry.Entry{
		{ID: 1, NombreVisita: "Carlos Núñez", Tipo: entry.TipoEntrada, FechaRegistro: ts("2024-03-06 08:15:00")},
		{ID: 2, NombreVisita: "Marta", NombreAlumno: "Ana Núñez", AlumnoID: id(9), Tipo: entry.TipoSalida, FechaRegistro: ts("2024-03-05 13:40:00")},
		{ID: 3, NombreVisita: "Pedro", Tipo: entry.TipoEntrada, FechaRegistro: ts("2024-02-20 08:05:00")},
	}

	ids := func(es []entry.Entry) []int64 {
		out := make([]int64, 0, len(es))
		for _, e := range es {
			out = append(out, e.ID)
		}
		return out
	}

	It("keeps everything with no filter", func() {
		Expect(ids(entry.Filters{}.Apply(clock, items))).To(Equal([]int64{3, 2, 1}))
	})

	It("searches visitor and student names", func() {
		Expect(ids(entry.Filters{Search: "nunez"}.Apply(clock, items))).To(Equal([]int64{2, 1}))
	})

	It("keeps only student records", func() {
		Expect(ids(entry.Filters{OnlyStudents: true}.Apply(clock, items))).To(Equal([]int64{2}))
	})

	It("filters by preset", func() {
		Expect(ids(entry.Filters{Fecha: calendar.PresetYesterday}.Apply(clock, items))).To(Equal([]int64{2}))
		Expect(ids(entry.Filters{Fecha: calendar.PresetThisMonth}.Apply(clock, items))).To(Equal([]int64{2, 1}))
	})

	It("filters by an inclusive range and by a single day", func() {
		f := entry.Filters{Desde: calendar.MustParseDate("2024-02-20"), Hasta: calendar.MustParseDate("2024-03-05")}
		Expect(ids(f.Apply(clock, items))).To(Equal([]int64{3, 2}))

		f = entry.Filters{Dia: calendar.MustParseDate("2024-03-06")}
		Expect(ids(f.Apply(clock, items))).To(Equal([]int64{1}))
	})

	It("filters by direction and hour", func() {
		eight := 8
		f := entry.Filters{Tipo: entry.TipoEntrada, Hora: &eight}
		Expect(ids(f.Apply(clock, items))).To(Equal([]int64{3, 1}))
	})
})

var _ = Describe("Service", func() {
	var (
		fake *apiclienttest.Fake
		svc  *entry.Service
		ctx  context.Context
	)

	BeforeEach(func() {
		fake = apiclienttest.NewFake()
		svc = entry.NewService(fake, logger.Discard())
		ctx = context.Background()
	})

	It("does not call the service with an invalid record", func() {
		_, err := svc.Create(ctx, entry.EntryDTO{Tipo: entry.TipoEntrada})
		Expect(err).To(HaveOccurred())
		Expect(fake.Calls()).To(BeEmpty())
	})

	It("creates a record linked to a student", func() {
		fake.Respond("POST", "/entradas-salidas", map[string]interface{}{
			"id": 4, "nombre_visita": "Marta", "alumno_id": 9, "fecha_registro": "2024-03-06 08:15:00",
		})
		created, err := svc.Create(ctx, entry.EntryDTO{NombreVisita: "Marta", Motivo: "Recoger", Tipo: entry.TipoSalida, AlumnoID: id(9)})
		Expect(err).NotTo(HaveOccurred())
		Expect(created.IsStudent()).To(BeTrue())
		Expect(created.FechaRegistro.Hour()).To(Equal(8))

		var sent map[string]interface{}
		Expect(fake.LastBody(&sent)).To(Succeed())
		Expect(sent["alumno_id"]).To(BeNumerically("==", 9))
	})

	It("sends null when no student is linked", func() {
		_, err := svc.Update(ctx, 4, entry.EntryDTO{NombreVisita: "Marta", Motivo: "Recoger", Tipo: entry.TipoSalida})
		Expect(err).NotTo(HaveOccurred())

		var sent map[string]interface{}
		Expect(fake.LastBody(&sent)).To(Succeed())
		Expect(sent).To(HaveKeyWithValue("alumno_id", BeNil()))
		Expect(fake.Calls()[0].Path).To(Equal("/entradas-salidas/4"))
	})

	It("describes a failed load", func() {
		fake.Fail("GET", "/entradas-salidas", internal.NewExternalError("down", 0, nil))
		_, err := svc.List(ctx)
		Expect(err).To(MatchError("Error al cargar las entradas y salidas."))
	})
})
