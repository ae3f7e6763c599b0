package db_test

import (
	"context"
	"testing"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/frahmantamala/school-admin/db"
)

func TestDB(t *testing.T) {
	RegisterFailHandler(Fail)
	RunSpecs(t, "DB Suite")
}

var _ = Describe("Migrate", func() {
	It("creates every table on sqlite and rolls back", func() {
		gdb, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
			Logger: gormlogger.Default.LogMode(gormlogger.Silent),
		})
		Expect(err).NotTo(HaveOccurred())
		sqlDB, err := gdb.DB()
		Expect(err).NotTo(HaveOccurred())
		sqlDB.SetMaxOpenConns(1)

		ctx := context.Background()
		Expect(db.Migrate(ctx, sqlDB, "sqlite", "up")).To(Succeed())
		for _, table := range []string{"users", "alumnos", "justificantes", "entradas_salidas"} {
			Expect(gdb.Migrator().HasTable(table)).To(BeTrue(), table)
		}

		Expect(db.Migrate(ctx, sqlDB, "sqlite", "down")).To(Succeed())
		Expect(gdb.Migrator().HasTable("justificantes")).To(BeFalse())
	})

	It("refuses an unknown driver", func() {
		_, _, err := db.Dialect("mysql")
		Expect(err).To(HaveOccurred())
	})
})
