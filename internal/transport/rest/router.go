package rest

import (
	"net/http"

	"github.com/go-chi/chi"
	chiMiddleware "github.com/go-chi/chi/middleware"

	"github.com/frahmantamala/school-admin/api"
	"github.com/frahmantamala/school-admin/internal/auth"
	"github.com/frahmantamala/school-admin/internal/entry"
	"github.com/frahmantamala/school-admin/internal/justification"
	"github.com/frahmantamala/school-admin/internal/student"
	"github.com/frahmantamala/school-admin/internal/transport"
	"github.com/frahmantamala/school-admin/internal/transport/middleware"
	"github.com/frahmantamala/school-admin/internal/transport/swagger"
	"github.com/frahmantamala/school-admin/internal/user"
)

// APIPrefix is where the REST resources are mounted.
const APIPrefix = "/api"

type Handlers struct {
	Auth           *auth.Handler
	Users          *user.Handler
	Students       *student.Handler
	Justifications *justification.Handler
	Entries        *entry.Handler
	Health         *HealthHandler
}

type RouterOptions struct {
	// Metrics is nil when metrics are disabled.
	Metrics     *middleware.Metrics
	MetricsPath string
}

func RegisterAllRoutes(router *chi.Mux, base *transport.BaseHandler, h Handlers, opts RouterOptions) error {
	validator, err := middleware.NewOpenAPIValidator(api.Spec, APIPrefix, base)
	if err != nil {
		return err
	}

	router.Use(chiMiddleware.RequestID)
	router.Use(middleware.RequestID)
	router.Use(middleware.LoggingMiddleware(base.Logger))
	router.Use(middleware.RecoveryMiddleware(base))
	if opts.Metrics != nil {
		router.Use(opts.Metrics.Middleware)
		router.Handle(opts.MetricsPath, opts.Metrics.Handler())
	}

	router.Get("/openapi.yml", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/yaml")
		_, _ = w.Write(api.Spec)
	})
	router.Handle("/swagger/*", swagger.Handler())

	sectionGuard := func(s user.Section) func(http.Handler) http.Handler {
		return middleware.RequireSection(base, s)
	}

	router.Route(APIPrefix, func(r chi.Router) {
		r.Use(validator.Middleware)

		r.Get("/health", h.Health.Health)
		r.Get("/ping", h.Health.Ping)
		r.Post("/users/login", h.Users.Login)

		r.Group(func(pr chi.Router) {
			pr.Use(h.Auth.AuthMiddleware)

			pr.Route("/users", func(ur chi.Router) {
				ur.Use(sectionGuard(user.SectionUsers))
				ur.Get("/", h.Users.List)
				ur.Post("/", h.Users.Create)
				ur.Put("/{id}", h.Users.Update)
				ur.Delete("/{id}", h.Users.Delete)
			})

			pr.Route("/alumnos", func(sr chi.Router) {
				// every role picks students in the justification and entry forms
				sr.Get("/", h.Students.List)
				sr.Group(func(mr chi.Router) {
					mr.Use(sectionGuard(user.SectionStudents))
					mr.Post("/", h.Students.Create)
					mr.Post("/bulk", h.Students.BulkCreate)
					mr.Put("/grupo", h.Students.BulkUpdate)
					mr.Delete("/grupo", h.Students.BulkDelete)
					mr.Put("/{id}", h.Students.Update)
					mr.Delete("/{id}", h.Students.Delete)
				})
			})

			pr.Route("/justificantes", func(jr chi.Router) {
				jr.Use(sectionGuard(user.SectionJustifications))
				jr.Get("/", h.Justifications.List)
				jr.Post("/", h.Justifications.Create)
				jr.Put("/{id}", h.Justifications.Update)
				jr.Delete("/{id}", h.Justifications.Delete)
			})

			pr.Route("/entradas-salidas", func(er chi.Router) {
				er.Use(sectionGuard(user.SectionEntries))
				er.Get("/", h.Entries.List)
				er.Post("/", h.Entries.Create)
				er.Put("/{id}", h.Entries.Update)
				er.Delete("/{id}", h.Entries.Delete)
			})
		})
	})
	return nil
}
