// Package storage opens the reference server's database through gorm and
// exposes the same pool to sqlx for hand-written queries.
package storage

import (
	"fmt"
	"log/slog"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/jmoiron/sqlx"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/frahmantamala/school-admin/internal"
)

type Store struct {
	Gorm   *gorm.DB
	SQL    *sqlx.DB
	Driver string
}

// Open connects according to cfg and verifies the connection.
func Open(cfg internal.DatabaseConfig, lg *slog.Logger) (*Store, error) {
	var (
		dialector  gorm.Dialector
		driverName string
	)
	switch cfg.Driver {
	case "postgres":
		dialector, driverName = postgres.Open(cfg.GetDSN()), "pgx"
	case "sqlite":
		dialector, driverName = sqlite.Open(cfg.GetDSN()), "sqlite3"
	default:
		return nil, fmt.Errorf("unsupported database driver %q", cfg.Driver)
	}

	gdb, err := gorm.Open(dialector, &gorm.Config{Logger: newGormLogger(lg)})
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	sqlDB, err := gdb.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get database handle: %w", err)
	}

	sqlDB.SetMaxOpenConns(cfg.MaxOpenConns)
	sqlDB.SetMaxIdleConns(cfg.MaxIdleConns)
	if cfg.Driver == "sqlite" {
		// sqlite serialises writers; one connection avoids "database is locked"
		sqlDB.SetMaxOpenConns(1)
	}

	if err := sqlDB.Ping(); err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return &Store{
		Gorm:   gdb,
		SQL:    sqlx.NewDb(sqlDB, driverName),
		Driver: cfg.Driver,
	}, nil
}

func (s *Store) Close() error {
	return s.SQL.Close()
}

func newGormLogger(lg *slog.Logger) gormlogger.Interface {
	return gormlogger.New(
		slog.NewLogLogger(lg.Handler(), slog.LevelDebug),
		gormlogger.Config{
			SlowThreshold:             500 * time.Millisecond,
			LogLevel:                  gormlogger.Warn,
			IgnoreRecordNotFoundError: true,
		},
	)
}
