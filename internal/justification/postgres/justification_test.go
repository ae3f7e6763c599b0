package postgres_test

import (
	"context"
	"testing"

	"github.com/jmoiron/sqlx"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/frahmantamala/school-admin/internal"
	"github.com/frahmantamala/school-admin/internal/calendar"
	justificationDatamodel "github.com/frahmantamala/school-admin/internal/core/datamodel/justification"
	studentDatamodel "github.com/frahmantamala/school-admin/internal/core/datamodel/student"
	"github.com/frahmantamala/school-admin/internal/justification"
	justificationPostgres "github.com/frahmantamala/school-admin/internal/justification/postgres"
	studentPostgres "github.com/frahmantamala/school-admin/internal/student/postgres"
	"github.com/frahmantamala/school-admin/pkg/logger"
)

func TestJustificationPostgres(t *testing.T) {
	RegisterFailHandler(Fail)
	RunSpecs(t, "Justification Postgres Suite")
}

var d = calendar.MustParseDate

var _ = Describe("Justification Backend", func() {
	var (
		db      *gorm.DB
		backend *justification.Backend
		ctx     context.Context
		alumno  *studentDatamodel.Alumno
		maestro internal.Principal
	)

	BeforeEach(func() {
		var err error
		db, err = gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
			Logger: gormlogger.Default.LogMode(gormlogger.Silent),
		})
		Expect(err).NotTo(HaveOccurred())
		sqlDB, err := db.DB()
		Expect(err).NotTo(HaveOccurred())
		// one connection keeps every query on the same in-memory database
		sqlDB.SetMaxOpenConns(1)

		Expect(db.AutoMigrate(&studentDatamodel.Alumno{}, &justificationDatamodel.Justificante{})).To(Succeed())

		students := studentPostgres.NewStudentRepository(db)
		backend = justification.NewBackend(
			justificationPostgres.NewJustificationRepository(db),
			justificationPostgres.NewTotalsRepository(sqlx.NewDb(sqlDB, "sqlite3")),
			students,
			logger.Discard(),
		)

		ctx = context.Background()
		alumno = &studentDatamodel.Alumno{Nombre: "Ana Ruiz", Grupo: "2B", Turno: "Matutino", Ingreso: 2023}
		Expect(students.Create(ctx, alumno)).To(Succeed())
		maestro = internal.Principal{ID: 3, Nombre: "Laura", Rol: "Maestro"}
	})

	dto := func(start, end string) justification.JustificationDTO {
		return justification.JustificationDTO{
			TipoJustificante: justification.TipoFamiliar,
			AlumnoID:         alumno.ID,
			Tutor:            "Pedro Ruiz",
			Motivo:           "Viaje",
			FechaInicio:      d(start),
			FechaRegreso:     d(end),
		}
	}

	It("stores the student's group, the creator and the joined columns", func() {
		created, err := backend.Create(ctx, maestro, dto("2024-03-04", "2024-03-06"))
		Expect(err).NotTo(HaveOccurred())
		Expect(created.ID).To(BeNumerically(">", 0))
		Expect(created.Grupo).To(Equal("2B"))
		Expect(created.AlumnoNombre).To(Equal("Ana Ruiz"))
		Expect(created.Turno).To(Equal("Matutino"))
		Expect(created.CreadoPor).To(Equal(int64(3)))
		Expect(created.Departamento).To(Equal("Maestros"))
		Expect(created.TiempoDias).To(Equal(2))
		Expect(created.TotalJustificantes).To(Equal(1))
	})

	It("refuses an overlapping period with a conflict", func() {
		_, err := backend.Create(ctx, maestro, dto("2024-03-04", "2024-03-06"))
		Expect(err).NotTo(HaveOccurred())

		_, err = backend.Create(ctx, maestro, dto("2024-03-06", "2024-03-08"))
		Expect(err).To(MatchError(justification.ErrOverlapConflict))
		Expect(internal.IsType(err, internal.ErrorTypeConflict)).To(BeTrue())
	})

	It("allows an edit over its own period", func() {
		created, err := backend.Create(ctx, maestro, dto("2024-03-04", "2024-03-06"))
		Expect(err).NotTo(HaveOccurred())

		updated, err := backend.Update(ctx, maestro, created.ID, dto("2024-03-05", "2024-03-08"))
		Expect(err).NotTo(HaveOccurred())
		Expect(updated.TiempoDias).To(Equal(3))
		Expect(updated.CreadoPor).To(Equal(int64(3)))
	})

	It("rejects an unknown student", func() {
		bad := dto("2024-03-04", "2024-03-06")
		bad.AlumnoID = 999
		_, err := backend.Create(ctx, maestro, bad)
		Expect(err).To(MatchError(justification.ErrUnknownStudent))
	})

	It("applies the direccion minimum", func() {
		direccion := internal.Principal{ID: 1, Nombre: "Dir", Rol: "Direccion"}
		_, err := backend.Create(ctx, direccion, dto("2024-03-04", "2024-03-06"))
		Expect(err).To(MatchError(justification.MsgMinimumDays))
	})

	It("lists newest first with per-student totals", func() {
		_, err := backend.Create(ctx, maestro, dto("2024-03-04", "2024-03-05"))
		Expect(err).NotTo(HaveOccurred())
		_, err = backend.Create(ctx, maestro, dto("2024-03-11", "2024-03-12"))
		Expect(err).NotTo(HaveOccurred())

		items, err := backend.List(ctx)
		Expect(err).NotTo(HaveOccurred())
		Expect(items).To(HaveLen(2))
		Expect(items[0].FechaInicio.String()).To(Equal("2024-03-11"))
		Expect(items[0].TotalJustificantes).To(Equal(2))
	})

	It("reports a missing record on delete", func() {
		Expect(backend.Delete(ctx, 42)).To(MatchError(justification.ErrJustificationNotFound))
	})
})
