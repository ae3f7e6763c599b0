package rest

import (
	"log/slog"

	"github.com/go-chi/chi"

	"github.com/frahmantamala/school-admin/internal"
	"github.com/frahmantamala/school-admin/internal/auth"
	"github.com/frahmantamala/school-admin/internal/calendar"
	"github.com/frahmantamala/school-admin/internal/entry"
	entryPostgres "github.com/frahmantamala/school-admin/internal/entry/postgres"
	"github.com/frahmantamala/school-admin/internal/justification"
	justificationPostgres "github.com/frahmantamala/school-admin/internal/justification/postgres"
	"github.com/frahmantamala/school-admin/internal/storage"
	"github.com/frahmantamala/school-admin/internal/student"
	studentPostgres "github.com/frahmantamala/school-admin/internal/student/postgres"
	"github.com/frahmantamala/school-admin/internal/transport"
	"github.com/frahmantamala/school-admin/internal/transport/middleware"
	"github.com/frahmantamala/school-admin/internal/user"
	userPostgres "github.com/frahmantamala/school-admin/internal/user/postgres"
)

// NewServer wires repositories, backends and handlers over store and
// returns the routed mux.
func NewServer(cfg *internal.Config, store *storage.Store, clock calendar.Clock, lg *slog.Logger) (*chi.Mux, error) {
	base := transport.NewBaseHandler(lg)

	authService := auth.NewService(
		auth.NewJWTTokenGenerator(cfg.Security.JWTSecret, cfg.Security.AccessTokenDuration),
		cfg.Security.BCryptCost,
	)

	students := studentPostgres.NewStudentRepository(store.Gorm)
	userBackend := user.NewBackend(userPostgres.NewUserRepository(store.Gorm), authService, lg.With("component", "users"))
	studentBackend := student.NewBackend(students, lg.With("component", "alumnos"))
	justificationBackend := justification.NewBackend(
		justificationPostgres.NewJustificationRepository(store.Gorm),
		justificationPostgres.NewTotalsRepository(store.SQL),
		students,
		lg.With("component", "justificantes"),
	)
	entryBackend := entry.NewBackend(entryPostgres.NewEntryRepository(store.Gorm), students, clock, lg.With("component", "entradas-salidas"))

	handlers := Handlers{
		Auth:           auth.NewHandler(base, authService),
		Users:          user.NewHandler(base, userBackend),
		Students:       student.NewHandler(base, studentBackend),
		Justifications: justification.NewHandler(base, justificationBackend),
		Entries:        entry.NewHandler(base, entryBackend),
		Health:         NewHealthHandler(base, store.SQL, store.Driver),
	}

	var opts RouterOptions
	if cfg.Metrics.Enabled {
		opts.Metrics = middleware.NewMetrics()
		opts.MetricsPath = cfg.Metrics.Path
	}

	router := chi.NewRouter()
	if err := RegisterAllRoutes(router, base, handlers, opts); err != nil {
		return nil, err
	}
	return router, nil
}
