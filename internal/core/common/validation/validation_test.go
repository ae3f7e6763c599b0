package validation_test

import (
	"errors"
	"testing"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/frahmantamala/school-admin/internal"
	"github.com/frahmantamala/school-admin/internal/core/common/validation"
)

func TestValidation(t *testing.T) {
	RegisterFailHandler(Fail)
	RunSpecs(t, "Validation Suite")
}

type sample struct {
	Nombre string `json:"nombre" validate:"required"`
	Grupo  string `json:"grupo" validate:"omitempty,grupo"`
	Motivo string `json:"motivo" validate:"max=5"`
}

var _ = Describe("Struct", func() {
	It("passes a valid struct", func() {
		Expect(validation.Struct(sample{Nombre: "Ana", Grupo: "2B"})).To(BeNil())
	})

	It("reports json field names with Spanish messages", func() {
		err := validation.Struct(sample{Grupo: "4Z", Motivo: "demasiado"})
		Expect(err).NotTo(BeNil())
		fields := internal.FieldErrors(err)
		Expect(fields).To(HaveLen(3))
		Expect(fields[0].Field).To(Equal("nombre"))
		Expect(fields[0].Message).To(Equal("nombre es obligatorio"))
		Expect(fields[0].Code).To(Equal(string(internal.ErrCodeFieldRequired)))
		Expect(fields[1].Code).To(Equal(string(internal.ErrCodeInvalidGroup)))
		Expect(fields[2].Code).To(Equal(string(internal.ErrCodeFieldTooLong)))
	})
})

var _ = Describe("ValidationBuilder", func() {
	It("keeps the first failure per field in declaration order", func() {
		v := validation.NewValidator()
		v.Field("motivo", "ñandú largo").Required("Requerido").MaxLength(5)
		v.Field("tipo", "").Required("Selecciona un tipo")
		v.Check(false, "fecha_regreso", "La fecha de regreso no puede ser igual a la de inicio.", internal.ErrCodeSameDates)

		err := v.Validate()
		Expect(err).NotTo(BeNil())
		Expect(internal.FieldErrors(err)).To(Equal([]internal.ValidationError{
			{Field: "motivo", Message: "Máximo 5 caracteres", Code: string(internal.ErrCodeFieldTooLong)},
			{Field: "tipo", Message: "Selecciona un tipo", Code: string(internal.ErrCodeFieldRequired)},
			{Field: "fecha_regreso", Message: "La fecha de regreso no puede ser igual a la de inicio.", Code: string(internal.ErrCodeSameDates)},
		}))
	})

	It("counts characters rather than bytes", func() {
		v := validation.NewValidator()
		v.Field("motivo", "ñññññ").MaxLength(5)
		Expect(v.Validate()).To(BeNil())
	})

	It("merges validation errors and passes others through", func() {
		a := internal.NewValidationFieldError("a", "x", internal.ErrCodeFieldRequired)
		b := internal.NewValidationFieldError("b", "y", internal.ErrCodeFieldRequired)
		Expect(internal.FieldErrors(validation.Merge(a, nil, b))).To(HaveLen(2))
		Expect(validation.Merge(nil)).To(BeNil())

		boom := errors.New("boom")
		Expect(validation.Merge(a, boom)).To(Equal(boom))
	})
})
