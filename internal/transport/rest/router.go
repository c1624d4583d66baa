package rest

import (
	"log/slog"
	"net/http"
	"strings"

	"github.com/frahmantamala/hr-records/internal/absence"
	"github.com/frahmantamala/hr-records/internal/auth"
	"github.com/frahmantamala/hr-records/internal/decisionlog"
	"github.com/frahmantamala/hr-records/internal/employee"
	"github.com/frahmantamala/hr-records/internal/feedback"
	"github.com/frahmantamala/hr-records/internal/transport/middleware"
	"github.com/frahmantamala/hr-records/internal/transport/swagger"
	"github.com/frahmantamala/hr-records/pkg/metrics"
	"github.com/getkin/kin-openapi/openapi3"
	"github.com/go-chi/chi"
	chiMiddleware "github.com/go-chi/chi/middleware"
)

const apiPrefix = "/api/v1"

// Handlers groups the HTTP surface. A nil handler leaves its routes out.
type Handlers struct {
	Auth      *auth.Handler
	RBAC      *auth.RBACAuthorization
	Employee  *employee.Handler
	Absence   *absence.Handler
	Decisions *decisionlog.Handler
	Feedback  *feedback.Handler
	Health    *HealthHandler
}

type Options struct {
	AllowedOrigins string
	MetricsEnabled bool
	MetricsPath    string
	Metrics        *metrics.Collector
	// OpenAPI is the raw contract served at /openapi.yml. Doc, when set,
	// also validates incoming requests.
	OpenAPI []byte
	Doc     *openapi3.T
}

func RegisterAllRoutes(router *chi.Mux, h Handlers, opts Options, logger *slog.Logger) error {
	router.Use(middleware.CORS(opts.AllowedOrigins))
	router.Use(middleware.RequestID)
	router.Use(chiMiddleware.RealIP)
	router.Use(middleware.RecoveryMiddleware(logger))
	router.Use(middleware.LoggingMiddleware(logger, opts.Metrics))
	if opts.Doc != nil {
		validator, err := middleware.OpenAPIValidator(opts.Doc, logger)
		if err != nil {
			return err
		}
		router.Use(validator)
	}

	if len(opts.OpenAPI) > 0 {
		router.Get("/openapi.yml", func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Content-Type", "application/yaml")
			_, _ = w.Write(opts.OpenAPI)
		})
		router.Handle("/swagger/*", swagger.Handler())
	}

	metricsPath, underAPI := "", false
	if h.Health != nil && opts.MetricsEnabled && opts.MetricsPath != "" {
		metricsPath = opts.MetricsPath
		if rest, ok := strings.CutPrefix(metricsPath, apiPrefix); ok && strings.HasPrefix(rest, "/") {
			metricsPath, underAPI = rest, true
		} else {
			router.Get(metricsPath, h.Health.metricsHandler)
		}
	}

	router.Route(apiPrefix, func(r chi.Router) {
		if h.Health != nil {
			r.Get("/health", h.Health.healthCheckHandler)
			r.Get("/ping", h.Health.pingHandler)
			if underAPI {
				r.Get(metricsPath, h.Health.metricsHandler)
			}
		}

		if h.Auth == nil {
			return
		}

		r.Route("/auth", func(sr chi.Router) {
			sr.Post("/register", h.Auth.Register)
			sr.Post("/login", h.Auth.Login)
			sr.Post("/refresh", h.Auth.RefreshToken)
		})

		r.Group(func(pr chi.Router) {
			pr.Use(h.Auth.AuthMiddleware)

			pr.Route("/employees", func(er chi.Router) {
				if h.Employee != nil {
					er.Get("/", h.Employee.ListEmployees)
					er.Get("/search", h.Employee.SearchEmployees)
					er.Get("/me", h.Employee.GetMe)
					er.Get("/{id}", h.Employee.GetEmployee)
					er.Put("/{id}", h.Employee.UpdateEmployee)
				}
				if h.Absence != nil {
					er.Post("/{id}/absences", h.Absence.CreateAbsence)
					er.Get("/{id}/absences", h.Absence.GetEmployeeAbsences)
				}
				if h.Feedback != nil {
					er.Post("/{id}/feedback", h.Feedback.CreateFeedback)
					er.Get("/{id}/feedback", h.Feedback.GetEmployeeFeedback)
				}
			})

			if h.Absence != nil {
				pr.Route("/absences", func(ar chi.Router) {
					ar.Put("/{id}", h.Absence.UpdateAbsence)
					ar.Delete("/{id}", h.Absence.CancelAbsence)
					ar.Put("/{id}/status", h.Absence.UpdateAbsenceStatus)

					// Manager views
					ar.Group(func(mr chi.Router) {
						if h.RBAC != nil {
							mr.Use(h.RBAC.RequirePrivileged())
						}
						mr.Get("/", h.Absence.GetAllAbsences)
						mr.Get("/pending/count", h.Absence.GetPendingCount)
						mr.Get("/report.pdf", h.Absence.GetReport)
						if h.Decisions != nil {
							mr.Get("/{id}/decisions", h.Decisions.GetDecisions)
						}
					})
				})
			}

			if h.Feedback != nil {
				pr.Post("/feedback/suggestions", h.Feedback.GetSuggestions)
				pr.Delete("/feedback/{id}", h.Feedback.DeleteFeedback)
			}
		})
	})

	return nil
}
