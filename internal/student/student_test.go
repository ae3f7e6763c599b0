package student_test

import (
	"context"
	"testing"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/frahmantamala/school-admin/internal"
	"github.com/frahmantamala/school-admin/internal/apiclient/apiclienttest"
	"github.com/frahmantamala/school-admin/internal/student"
	"github.com/frahmantamala/school-admin/pkg/logger"
)

func TestStudent(t *testing.T) {
	RegisterFailHandler(Fail)
	RunSpecs(t, "Student Suite")
}

var roster = []student.Student{
	{ID: 1, Nombre: "Ana Martínez López", Grupo: "1A", Turno: student.TurnoMatutino, Ingreso: 2024},
	{ID: 2, Nombre: "José Hernández Ruiz", Grupo: "1A", Turno: student.TurnoMatutino, Ingreso: 2024},
	{ID: 3, Nombre: "María Fernanda Gómez", Grupo: "2G", Turno: student.TurnoVespertino, Ingreso: 2023},
	{ID: 4, Nombre: "Luis Ángel Pérez", Grupo: "3B", Turno: student.TurnoMatutino, Ingreso: 2022},
}

var _ = Describe("Student", func() {
	It("splits the group into grade and letter", func() {
		s := student.Student{Grupo: "2b"}
		Expect(s.Grado()).To(Equal("2"))
		Expect(s.Letra()).To(Equal("B"))
	})

	It("maps letters to shifts", func() {
		Expect(student.TurnoFor("c")).To(Equal(student.TurnoMatutino))
		Expect(student.TurnoFor("L")).To(Equal(student.TurnoVespertino))
		Expect(student.TurnoFor("Z")).To(BeEmpty())
		Expect(student.LettersFor(student.TurnoVespertino)).To(HaveLen(6))
		Expect(student.LettersFor("Nocturno")).To(BeNil())
	})
})

var _ = Describe("StudentDTO", func() {
	It("normalises the group and accepts a matching shift", func() {
		dto := student.StudentDTO{Nombre: "  Ana  ", Grupo: " 1a ", Turno: student.TurnoMatutino, Ingreso: 2024}
		Expect(dto.Validate()).To(Succeed())
		Expect(dto.Nombre).To(Equal("Ana"))
		Expect(dto.Grupo).To(Equal("1A"))
	})

	It("rejects a group from the other shift", func() {
		dto := student.StudentDTO{Nombre: "Ana", Grupo: "1G", Turno: student.TurnoMatutino, Ingreso: 2024}
		Expect(dto.Validate()).To(MatchError(student.ErrShiftMismatch))
	})

	It("reports each invalid field", func() {
		dto := student.StudentDTO{Grupo: "4A", Turno: student.TurnoMatutino, Ingreso: 1990}
		err := dto.Validate()
		Expect(internal.IsType(err, internal.ErrorTypeValidation)).To(BeTrue())
		fields := map[string]bool{}
		for _, f := range internal.FieldErrors(err) {
			fields[f.Field] = true
		}
		Expect(fields).To(HaveKey("nombre"))
		Expect(fields).To(HaveKey("grupo"))
		Expect(fields).To(HaveKey("ingreso"))
	})
})

var _ = Describe("BulkCreateDTO", func() {
	It("builds one row per non-blank line", func() {
		dto := student.BulkCreateDTO{Turno: student.TurnoVespertino, Grado: "2", Grupo: "H", Ingreso: "2024", Nombres: "Ana\n\n  José \n"}
		req, err := dto.Request()
		Expect(err).NotTo(HaveOccurred())
		Expect(req.Alumnos).To(HaveLen(2))
		Expect(req.Alumnos[1].Nombre).To(Equal("José"))
		Expect(req.Alumnos[1].Grupo).To(Equal("2H"))
	})

	It("needs every field", func() {
		_, err := student.BulkCreateDTO{Turno: student.TurnoMatutino, Grado: "1", Grupo: "A", Nombres: "Ana"}.Request()
		Expect(err).To(MatchError("Completa todos los campos."))
	})

	It("rejects names that are only whitespace", func() {
		_, err := student.BulkCreateDTO{Turno: student.TurnoMatutino, Grado: "1", Grupo: "A", Ingreso: "2024", Nombres: " \n \n\t"}.Request()
		Expect(err).To(HaveOccurred())
	})

	It("rejects a year that is not a number", func() {
		_, err := student.BulkCreateDTO{Turno: student.TurnoMatutino, Grado: "1", Grupo: "A", Ingreso: "dos mil", Nombres: "Ana"}.Request()
		Expect(internal.FieldErrors(err)).To(HaveLen(1))
	})
})

var _ = Describe("BulkUpdateDTO", func() {
	It("needs something to change", func() {
		dto := student.BulkUpdateDTO{Grupo: "1A"}
		err := dto.Validate()
		Expect(err).To(HaveOccurred())
		Expect(internal.FieldErrors(err)[0].Field).To(Equal("nuevoGrupo"))
	})

	It("rejects a target group outside the grid", func() {
		dto := student.BulkUpdateDTO{Grupo: "1A", NuevoGrupo: "4A"}
		Expect(dto.Validate()).NotTo(Succeed())
	})

	It("accepts a new year alone", func() {
		dto := student.BulkUpdateDTO{Grupo: "1a", NuevoIngreso: 2025}
		Expect(dto.Validate()).To(Succeed())
		Expect(dto.Grupo).To(Equal("1A"))
	})
})

var _ = Describe("Filters", func() {
	It("orders most recent first", func() {
		out := student.Filters{}.Apply(roster)
		Expect(out[0].ID).To(Equal(int64(4)))
		Expect(out[3].ID).To(Equal(int64(1)))
	})

	It("searches ignoring accents and case", func() {
		out := student.Filters{Search: "JOSE"}.Apply(roster)
		Expect(out).To(HaveLen(1))
		Expect(out[0].ID).To(Equal(int64(2)))
	})

	It("combines grade, letter and shift", func() {
		Expect(student.Filters{Grado: "1", Grupo: "a"}.Apply(roster)).To(HaveLen(2))
		Expect(student.Filters{Turno: student.TurnoVespertino}.Apply(roster)).To(HaveLen(1))
		Expect(student.Filters{Grado: "2", Turno: student.TurnoMatutino}.Apply(roster)).To(BeEmpty())
	})

	It("pins a group only with grade and letter", func() {
		_, err := student.Filters{Grado: "1"}.Group()
		Expect(err).To(MatchError(student.ErrNoGroupFilter))

		g, err := student.Filters{Grado: "1", Grupo: "a"}.Group()
		Expect(err).NotTo(HaveOccurred())
		Expect(g).To(Equal("1A"))
	})
})

var _ = Describe("Filters.Select", func() {
	It("excludes group members hidden by a search", func() {
		sel, err := student.Filters{Grado: "1", Grupo: "A", Search: "ana"}.Select(roster, nil)
		Expect(err).NotTo(HaveOccurred())
		Expect(sel.Grupo).To(Equal("1A"))
		Expect(sel.Members).To(HaveLen(2))
		Expect(sel.Selected).To(HaveLen(1))
		Expect(sel.Selected[0].ID).To(Equal(int64(1)))
		Expect(sel.Excluded).To(Equal([]int64{2}))
	})

	It("keeps only the listed ids that pass the filters", func() {
		sel, err := student.Filters{Grado: "1", Grupo: "A"}.Select(roster, []int64{2, 4})
		Expect(err).NotTo(HaveOccurred())
		Expect(sel.Selected).To(HaveLen(1))
		Expect(sel.Excluded).To(Equal([]int64{1}))
	})

	It("selects the whole group without narrowing", func() {
		sel, err := student.Filters{Grado: "1", Grupo: "a"}.Select(roster, nil)
		Expect(err).NotTo(HaveOccurred())
		Expect(sel.Excluded).To(BeEmpty())
		Expect(sel.Excluded).NotTo(BeNil())
	})

	It("refuses a selection that matches nobody", func() {
		_, err := student.Filters{Grado: "1", Grupo: "A", Search: "luis"}.Select(roster, nil)
		Expect(err).To(MatchError(student.ErrNoneSelected))
	})

	It("needs grade and letter", func() {
		_, err := student.Filters{Search: "ana"}.Select(roster, nil)
		Expect(err).To(MatchError(student.ErrNoGroupFilter))
	})
})

var _ = Describe("group selection", func() {
	It("excludes the members that were not selected", func() {
		group := roster[:2]
		Expect(student.Exclusions(group, []int64{1})).To(Equal([]int64{2}))
		Expect(student.Exclusions(group, []int64{1, 2})).To(BeEmpty())
	})

	It("words the prompt by how much of the group goes", func() {
		Expect(student.DeletePrompt("1A", 2, 2)).To(ContainSubstring("todos los alumnos"))
		Expect(student.DeletePrompt("1A", 3, 1)).To(ContainSubstring("Se conservarán 2 alumnos"))
	})
})

var _ = Describe("Service", func() {
	var (
		fake *apiclienttest.Fake
		svc  *student.Service
		ctx  context.Context
	)

	BeforeEach(func() {
		fake = apiclienttest.NewFake()
		svc = student.NewService(fake, logger.Discard())
		ctx = context.Background()
	})

	It("lists students", func() {
		fake.Respond("GET", "/alumnos", roster)
		out, err := svc.List(ctx)
		Expect(err).NotTo(HaveOccurred())
		Expect(out).To(Equal(roster))
	})

	It("describes a failed load", func() {
		fake.Fail("GET", "/alumnos", internal.NewExternalError("boom", 502, nil))
		_, err := svc.List(ctx)
		Expect(err).To(MatchError("Error al cargar los alumnos."))
	})

	It("validates before sending", func() {
		_, err := svc.Create(ctx, student.StudentDTO{Nombre: "Ana", Grupo: "1G", Turno: student.TurnoMatutino, Ingreso: 2024})
		Expect(err).To(MatchError(student.ErrShiftMismatch))
		Expect(fake.Calls()).To(BeEmpty())
	})

	It("updates by id", func() {
		fake.Respond("PUT", "/alumnos/3", roster[2])
		updated, err := svc.Update(ctx, 3, student.StudentDTO{Nombre: "María", Grupo: "2G", Turno: student.TurnoVespertino, Ingreso: 2023})
		Expect(err).NotTo(HaveOccurred())
		Expect(updated.ID).To(Equal(int64(3)))
	})

	It("sends the whole group in one request", func() {
		fake.Respond("POST", "/alumnos/bulk", roster[:2])
		created, err := svc.BulkCreate(ctx, student.BulkCreateDTO{Turno: student.TurnoMatutino, Grado: "1", Grupo: "A", Ingreso: "2024", Nombres: "Ana\nJosé"})
		Expect(err).NotTo(HaveOccurred())
		Expect(created).To(HaveLen(2))

		var sent student.BulkCreateRequest
		Expect(fake.LastBody(&sent)).To(Succeed())
		Expect(sent.Alumnos).To(HaveLen(2))
	})

	It("always sends an exclusion list on group delete", func() {
		fake.Respond("DELETE", "/alumnos/grupo", student.BulkResult{Affected: 2})
		res, err := svc.BulkDelete(ctx, student.BulkDeleteDTO{Grupo: "1a"})
		Expect(err).NotTo(HaveOccurred())
		Expect(res.Affected).To(Equal(int64(2)))

		var sent map[string]interface{}
		Expect(fake.LastBody(&sent)).To(Succeed())
		Expect(sent["grupo"]).To(Equal("1A"))
		Expect(sent["excluirIds"]).To(BeEmpty())
		Expect(sent["excluirIds"]).NotTo(BeNil())
	})
})
