package postgres_test

import (
	"context"
	"testing"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	studentDatamodel "github.com/frahmantamala/school-admin/internal/core/datamodel/student"
	"github.com/frahmantamala/school-admin/internal/student"
	"github.com/frahmantamala/school-admin/internal/student/postgres"
	"github.com/frahmantamala/school-admin/pkg/logger"
)

func TestStudentPostgres(t *testing.T) {
	RegisterFailHandler(Fail)
	RunSpecs(t, "Student Postgres Suite")
}

var _ = Describe("Student Backend", func() {
	var (
		backend *student.Backend
		ctx     context.Context
		group   []student.Student
	)

	BeforeEach(func() {
		db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
			Logger: gormlogger.Default.LogMode(gormlogger.Silent),
		})
		Expect(err).NotTo(HaveOccurred())
		sqlDB, err := db.DB()
		Expect(err).NotTo(HaveOccurred())
		sqlDB.SetMaxOpenConns(1)
		Expect(db.AutoMigrate(&studentDatamodel.Alumno{})).To(Succeed())

		backend = student.NewBackend(postgres.NewStudentRepository(db), logger.Discard())
		ctx = context.Background()

		group, err = backend.BulkCreate(ctx, student.BulkCreateRequest{Alumnos: []student.StudentDTO{
			{Nombre: "Ana", Grupo: "1A", Turno: student.TurnoMatutino, Ingreso: 2024},
			{Nombre: "José", Grupo: "1A", Turno: student.TurnoMatutino, Ingreso: 2024},
			{Nombre: "Luis", Grupo: "1A", Turno: student.TurnoMatutino, Ingreso: 2024},
		}})
		Expect(err).NotTo(HaveOccurred())
		Expect(group).To(HaveLen(3))
	})

	It("returns students most recent first", func() {
		out, err := backend.List(ctx)
		Expect(err).NotTo(HaveOccurred())
		Expect(out[0].Nombre).To(Equal("Luis"))
	})

	It("inserts nothing when one row is invalid", func() {
		_, err := backend.BulkCreate(ctx, student.BulkCreateRequest{Alumnos: []student.StudentDTO{
			{Nombre: "Eva", Grupo: "2B", Turno: student.TurnoMatutino, Ingreso: 2024},
			{Nombre: "Iván", Grupo: "2B", Turno: student.TurnoVespertino, Ingreso: 2024},
		}})
		Expect(err).To(HaveOccurred())
		out, _ := backend.List(ctx)
		Expect(out).To(HaveLen(3))
	})

	It("updates and deletes single students", func() {
		updated, err := backend.Update(ctx, group[0].ID, student.StudentDTO{Nombre: "Ana María", Grupo: "2C", Turno: student.TurnoMatutino, Ingreso: 2023})
		Expect(err).NotTo(HaveOccurred())
		Expect(updated.Grupo).To(Equal("2C"))

		Expect(backend.Delete(ctx, group[0].ID)).To(Succeed())
		Expect(backend.Delete(ctx, group[0].ID)).To(MatchError(student.ErrStudentNotFound))

		_, err = backend.Update(ctx, 999, student.StudentDTO{Nombre: "X", Grupo: "1A", Turno: student.TurnoMatutino, Ingreso: 2024})
		Expect(err).To(MatchError(student.ErrStudentNotFound))
	})

	It("moves a group to the new group's shift, keeping the excluded", func() {
		res, err := backend.BulkUpdate(ctx, student.BulkUpdateDTO{Grupo: "1A", NuevoGrupo: "2G", ExcluirIds: []int64{group[1].ID}})
		Expect(err).NotTo(HaveOccurred())
		Expect(res.Affected).To(Equal(int64(2)))

		byID := map[int64]student.Student{}
		out, _ := backend.List(ctx)
		for _, s := range out {
			byID[s.ID] = s
		}
		Expect(byID[group[0].ID].Grupo).To(Equal("2G"))
		Expect(byID[group[0].ID].Turno).To(Equal(student.TurnoVespertino))
		Expect(byID[group[1].ID].Grupo).To(Equal("1A"))
	})

	It("deletes a whole group", func() {
		res, err := backend.BulkDelete(ctx, student.BulkDeleteDTO{Grupo: "1A"})
		Expect(err).NotTo(HaveOccurred())
		Expect(res.Affected).To(Equal(int64(3)))
		out, _ := backend.List(ctx)
		Expect(out).To(BeEmpty())
	})
})
