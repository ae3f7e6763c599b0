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

	"github.com/frahmantamala/school-admin/internal/auth"
	userDatamodel "github.com/frahmantamala/school-admin/internal/core/datamodel/user"
	"github.com/frahmantamala/school-admin/internal/user"
	"github.com/frahmantamala/school-admin/internal/user/postgres"
	"github.com/frahmantamala/school-admin/pkg/logger"
)

func TestUserPostgres(t *testing.T) {
	RegisterFailHandler(Fail)
	RunSpecs(t, "User Postgres Suite")
}

var _ = Describe("User Backend", func() {
	var (
		backend *user.Backend
		ctx     context.Context
		admin   *user.Response
	)

	BeforeEach(func() {
		db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
			Logger: gormlogger.Default.LogMode(gormlogger.Silent),
		})
		Expect(err).NotTo(HaveOccurred())
		sqlDB, err := db.DB()
		Expect(err).NotTo(HaveOccurred())
		sqlDB.SetMaxOpenConns(1)
		Expect(db.AutoMigrate(&userDatamodel.User{})).To(Succeed())

		tokens := auth.NewJWTTokenGenerator("a-test-secret-that-is-long-enough-for-hs256", time.Hour)
		backend = user.NewBackend(postgres.NewUserRepository(db), auth.NewService(tokens, 4), logger.Discard())
		ctx = context.Background()

		admin, err = backend.Create(ctx, user.CreateUserDTO{Nombre: "directora", Password: "secreta", Rol: "Dirección"})
		Expect(err).NotTo(HaveOccurred())
	})

	It("stores the role capitalised", func() {
		Expect(admin.Rol).To(Equal("Direccion"))
		out, err := backend.List(ctx)
		Expect(err).NotTo(HaveOccurred())
		Expect(out).To(HaveLen(1))
	})

	It("refuses a duplicate name", func() {
		_, err := backend.Create(ctx, user.CreateUserDTO{Nombre: "directora", Password: "x", Rol: "maestro"})
		Expect(err).To(MatchError(user.ErrDuplicateName))
	})

	It("logs in and issues a token", func() {
		resp, err := backend.Login(ctx, user.LoginDTO{Nombre: "directora", Password: "secreta"})
		Expect(err).NotTo(HaveOccurred())
		Expect(resp.Token).NotTo(BeEmpty())
		Expect(resp.User.ID).To(Equal(admin.ID))

		_, err = backend.Login(ctx, user.LoginDTO{Nombre: "directora", Password: "otra"})
		Expect(err).To(MatchError(user.ErrBadLogin))
		_, err = backend.Login(ctx, user.LoginDTO{Nombre: "nadie", Password: "otra"})
		Expect(err).To(MatchError(user.ErrBadLogin))
	})

	It("keeps the password when an update leaves it blank", func() {
		_, err := backend.Update(ctx, admin.ID, user.UpdateUserDTO{Nombre: "directora", Rol: "direccion"})
		Expect(err).NotTo(HaveOccurred())
		_, err = backend.Login(ctx, user.LoginDTO{Nombre: "directora", Password: "secreta"})
		Expect(err).NotTo(HaveOccurred())

		_, err = backend.Update(ctx, admin.ID, user.UpdateUserDTO{Nombre: "directora", Password: "nueva", Rol: "direccion"})
		Expect(err).NotTo(HaveOccurred())
		_, err = backend.Login(ctx, user.LoginDTO{Nombre: "directora", Password: "nueva"})
		Expect(err).NotTo(HaveOccurred())
	})

	It("reports missing users", func() {
		Expect(backend.Delete(ctx, 999)).To(MatchError(user.ErrUserNotFound))
		Expect(backend.Delete(ctx, admin.ID)).To(Succeed())
	})
})
