package justification_test

import (
	"context"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/frahmantamala/school-admin/internal"
	"github.com/frahmantamala/school-admin/internal/apiclient/apiclienttest"
	"github.com/frahmantamala/school-admin/internal/justification"
	"github.com/frahmantamala/school-admin/pkg/logger"
)

var _ = Describe("Service", func() {
	var (
		fake *apiclienttest.Fake
		svc  *justification.Service
		ctx  context.Context
		who  internal.Principal
	)

	BeforeEach(func() {
		fake = apiclienttest.NewFake()
		svc = justification.NewService(fake, logger.Discard())
		ctx = context.Background()
		who = internal.Principal{ID: 4, Nombre: "Laura", Rol: "Maestro"}
	})

	It("lists justifications", func() {
		fake.Respond("GET", "/justificantes", []map[string]interface{}{
			{"id": 1, "nombre_alumno": "Ana", "grupo_alumno": "1A"},
		})
		items, err := svc.List(ctx)
		Expect(err).NotTo(HaveOccurred())
		Expect(items).To(HaveLen(1))
		Expect(items[0].AlumnoNombre).To(Equal("Ana"))
	})

	It("describes a failed load", func() {
		fake.Fail("GET", "/justificantes", internal.NewExternalError("boom", 500, nil))
		_, err := svc.List(ctx)
		Expect(err).To(MatchError("Error al cargar los justificantes."))
	})

	It("never calls the service when the dates are equal", func() {
		dto := validDTO()
		dto.FechaRegreso = dto.FechaInicio
		_, err := svc.Create(ctx, who, dto, nil)
		Expect(err).To(MatchError(justification.MsgSameDates))
		Expect(fake.Calls()).To(BeEmpty())
	})

	It("never calls the service when the cached list clashes", func() {
		existing := []justification.Justification{
			{ID: 3, AlumnoID: 7, FechaInicio: d("2024-03-06"), FechaRegreso: d("2024-03-08")},
		}
		_, err := svc.Create(ctx, who, validDTO(), existing)
		Expect(err).To(MatchError(justification.MsgOverlap))
		Expect(fake.Calls()).To(BeEmpty())
	})

	It("sends the derived fields", func() {
		fake.Respond("POST", "/justificantes", map[string]interface{}{"id": 11, "alumno_id": 7})
		created, err := svc.Create(ctx, who, validDTO(), nil)
		Expect(err).NotTo(HaveOccurred())
		Expect(created.ID).To(Equal(int64(11)))

		var sent justification.JustificationDTO
		Expect(fake.LastBody(&sent)).To(Succeed())
		Expect(sent.TiempoDias).To(Equal(2))
		Expect(sent.Departamento).To(Equal("Maestros"))
	})

	It("turns the server's overlap conflict into field errors", func() {
		fake.Fail("POST", "/justificantes", justification.ErrOverlapConflict)
		_, err := svc.Create(ctx, who, validDTO(), nil)
		Expect(internal.FieldErrors(err)).To(HaveLen(2))
	})

	It("lets an edit keep its own period", func() {
		existing := []justification.Justification{
			{ID: 3, AlumnoID: 7, FechaInicio: d("2024-03-04"), FechaRegreso: d("2024-03-06")},
		}
		_, err := svc.Update(ctx, who, 3, validDTO(), existing)
		Expect(err).NotTo(HaveOccurred())
		Expect(fake.Calls()[0].Path).To(Equal("/justificantes/3"))
	})

	It("deletes by id", func() {
		Expect(svc.Delete(ctx, 5)).To(Succeed())
		Expect(fake.Calls()[0].Method).To(Equal("DELETE"))
		Expect(fake.Calls()[0].Path).To(Equal("/justificantes/5"))
	})
})
