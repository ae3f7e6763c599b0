package postgres_test

import (
	"context"
	"testing"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/frahmantamala/school-admin/internal/calendar"
	entryDatamodel "github.com/frahmantamala/school-admin/internal/core/datamodel/entry"
	studentDatamodel "github.com/frahmantamala/school-admin/internal/core/datamodel/student"
	"github.com/frahmantamala/school-admin/internal/entry"
	entryPostgres "github.com/frahmantamala/school-admin/internal/entry/postgres"
	studentPostgres "github.com/frahmantamala/school-admin/internal/student/postgres"
	"github.com/frahmantamala/school-admin/pkg/logger"
)

func TestEntryPostgres(t *testing.T) {
	RegisterFailHandler(Fail)
	RunSpecs(t, "Entry Postgres Suite")
}

var _ = Describe("Entry Backend", func() {
	var (
		backend *entry.Backend
		ctx     context.Context
		alumno  *studentDatamodel.Alumno
		now     time.Time
	)

	BeforeEach(func() {
		db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
			Logger: gormlogger.Default.LogMode(gormlogger.Silent),
		})
		Expect(err).NotTo(HaveOccurred())
		sqlDB, err := db.DB()
		Expect(err).NotTo(HaveOccurred())
		sqlDB.SetMaxOpenConns(1)
		Expect(db.AutoMigrate(&studentDatamodel.Alumno{}, &entryDatamodel.EntradaSalida{})).To(Succeed())

		ctx = context.Background()
		students := studentPostgres.NewStudentRepository(db)
		alumno = &studentDatamodel.Alumno{Nombre: "Ana Ruiz", Grupo: "1A", Turno: "Matutino", Ingreso: 2024}
		Expect(students.Create(ctx, alumno)).To(Succeed())

		now = time.Date(2024, 3, 6, 9, 30, 0, 0, time.Local)
		backend = entry.NewBackend(entryPostgres.NewEntryRepository(db), students, calendar.FixedClock(now), logger.Discard())
	})

	It("stamps the registration time and joins the student name", func() {
		created, err := backend.Create(ctx, entry.EntryDTO{NombreVisita: "Marta", Motivo: "Recoger", Tipo: entry.TipoSalida, AlumnoID: &alumno.ID})
		Expect(err).NotTo(HaveOccurred())
		Expect(created.FechaRegistro.String()).To(Equal("2024-03-06 09:30:00"))
		Expect(created.NombreAlumno).To(Equal("Ana Ruiz"))
	})

	It("keeps the registration time on update", func() {
		created, err := backend.Create(ctx, entry.EntryDTO{NombreVisita: "Marta", Motivo: "Recoger", Tipo: entry.TipoSalida})
		Expect(err).NotTo(HaveOccurred())

		updated, err := backend.Update(ctx, created.ID, entry.EntryDTO{NombreVisita: "Marta G.", Motivo: "Junta", Tipo: entry.TipoEntrada})
		Expect(err).NotTo(HaveOccurred())
		Expect(updated.NombreVisita).To(Equal("Marta G."))
		Expect(updated.FechaRegistro.String()).To(Equal("2024-03-06 09:30:00"))
		Expect(updated.IsStudent()).To(BeFalse())
	})

	It("rejects an unknown student", func() {
		missing := int64(404)
		_, err := backend.Create(ctx, entry.EntryDTO{NombreVisita: "Marta", Motivo: "Recoger", Tipo: entry.TipoSalida, AlumnoID: &missing})
		Expect(err).To(MatchError(entry.ErrUnknownStudent))
	})

	It("lists newest first", func() {
		for _, name := range []string{"Uno", "Dos"} {
			_, err := backend.Create(ctx, entry.EntryDTO{NombreVisita: name, Motivo: "Visita", Tipo: entry.TipoEntrada})
			Expect(err).NotTo(HaveOccurred())
		}
		entries, err := backend.List(ctx)
		Expect(err).NotTo(HaveOccurred())
		Expect(entries).To(HaveLen(2))
		Expect(entries[0].NombreVisita).To(Equal("Dos"))
	})

	It("deletes and then reports the record missing", func() {
		created, err := backend.Create(ctx, entry.EntryDTO{NombreVisita: "Marta", Motivo: "Recoger", Tipo: entry.TipoSalida})
		Expect(err).NotTo(HaveOccurred())
		Expect(backend.Delete(ctx, created.ID)).To(Succeed())
		Expect(backend.Delete(ctx, created.ID)).To(MatchError(entry.ErrEntryNotFound))
	})
})
