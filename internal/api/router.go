package api

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"

	"github.com/jcabrerra/tvrs/internal/api/middleware"
	"github.com/jcabrerra/tvrs/internal/audit"
	"github.com/jcabrerra/tvrs/internal/core"
	"github.com/jcabrerra/tvrs/internal/store"
	"github.com/jcabrerra/tvrs/internal/ticketing"
)

type API struct {
	pool      *pgxpool.Pool
	queries   *store.Queries
	recorder  *audit.Recorder
	auditSvc  *audit.Service
	ticketSvc *ticketing.Service
	cfg       Config
	log       *zap.Logger
}

func NewAPI(pool *pgxpool.Pool, cfg Config, log *zap.Logger) *API {
	queries := store.New(pool)
	recorder := audit.NewRecorder(queries, log)
	return &API{
		pool:      pool,
		queries:   queries,
		recorder:  recorder,
		auditSvc:  audit.NewService(queries, log),
		ticketSvc: ticketing.New(pool, recorder, cfg.DemeritThreshold, log),
		cfg:       cfg,
		log:       log,
	}
}

func (a *API) Router() chi.Router {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.Metrics)
	r.Use(middleware.Recoverer(a.log))
	r.Use(middleware.Logger)
	r.Use(chiMiddleware.AllowContentType("application/json"))

	// Health endpoints
	r.Get("/healthz", a.HealthHandler)
	r.Get("/readyz", a.ReadyHandler)

	// API v1 routes
	r.Route("/v1", func(r chi.Router) {
		r.Post("/auth/login", a.Login)

		r.Group(func(r chi.Router) {
			r.Use(middleware.Auth([]byte(a.cfg.JWTSecret)))

			r.Post("/auth/logout", a.Logout)

			// Users (admin only)
			r.Route("/users", func(r chi.Router) {
				r.Use(middleware.RequireRole(core.RoleAdmin))
				r.Get("/", a.ListUsers)
				r.Post("/", a.CreateUser)
				r.Get("/{user_id}", a.GetUser)
				r.Put("/{user_id}", a.UpdateUser)
				r.Put("/{user_id}/password", a.SetUserPassword)
				r.Delete("/{user_id}", a.DeleteUser)
			})

			// Drivers
			r.Route("/drivers", func(r chi.Router) {
				r.Get("/", a.ListDrivers)
				r.Get("/{driver_id}", a.GetDriver)
				r.With(middleware.RequireRole(core.RoleOfficer, core.RoleAdmin)).
					Post("/", a.CreateDriver)
				r.With(middleware.RequireRole(core.RoleOfficer, core.RoleAdmin)).
					Put("/{driver_id}", a.UpdateDriver)
				r.With(middleware.RequireRole(core.RoleAdmin)).
					Put("/{driver_id}/license-status", a.SetLicenseStatus)
			})

			// Vehicles
			r.Route("/vehicles", func(r chi.Router) {
				r.Get("/", a.ListVehicles)
				r.Get("/{vehicle_id}", a.GetVehicle)
				r.With(middleware.RequireRole(core.RoleOfficer, core.RoleAdmin)).
					Post("/", a.CreateVehicle)
			})

			// Violation types
			r.Route("/violation-types", func(r chi.Router) {
				r.Get("/", a.ListViolationTypes)
				r.With(middleware.RequireRole(core.RoleAdmin)).
					Post("/", a.CreateViolationType)
				r.With(middleware.RequireRole(core.RoleAdmin)).
					Put("/{violation_type_id}", a.UpdateViolationType)
			})

			// Tickets
			r.Route("/tickets", func(r chi.Router) {
				r.Get("/", a.ListTickets)
				r.Get("/{ticket_id}", a.GetTicket)
				r.Get("/{ticket_id}/payments", a.ListPayments)
				r.With(middleware.RequireRole(core.RoleOfficer, core.RoleAdmin)).
					Post("/", a.CreateTicket)
				r.With(middleware.RequireRole(core.RoleOfficer, core.RoleAdmin)).
					Post("/{ticket_id}/violations", a.AddTicketViolation)
				r.With(middleware.RequireRole(core.RoleAdmin)).
					Post("/{ticket_id}:void", a.VoidTicket)
				r.With(middleware.RequireRole(core.RoleStaff, core.RoleAdmin)).
					Post("/{ticket_id}/payments", a.RecordPayment)
			})

			// Audit log (auditors and admins)
			r.Route("/audit", func(r chi.Router) {
				r.Use(middleware.RequireRole(core.RoleAuditor, core.RoleAdmin))
				r.Get("/events", a.ListAuditEvents)
				r.Get("/events/export", a.ExportAuditEvents)
				r.Get("/stats", a.AuditStats)
			})

			// System config (admin only)
			r.Route("/config", func(r chi.Router) {
				r.Use(middleware.RequireRole(core.RoleAdmin))
				r.Get("/", a.ListConfig)
				r.Get("/{key}", a.GetConfig)
				r.Put("/{key}", a.SetConfig)
			})
		})
	})

	return r
}

// actorFrom builds the audit actor for the current request.
func actorFrom(r *http.Request) ticketing.Actor {
	a := ticketing.Actor{IP: clientIP(r)}
	if p, ok := middleware.GetPrincipal(r); ok {
		a.ID = p.UserID
	}
	return a
}

// record writes one best-effort audit event attributed to the caller.
func (a *API) record(r *http.Request, action, table, id, details string) {
	in := core.EventInput{Action: action}
	if p, ok := middleware.GetPrincipal(r); ok {
		in.ActorID = &p.UserID
	}
	if ip := clientIP(r); ip != "" {
		in.IPAddress = &ip
	}
	if table != "" {
		in.AffectedTable = &table
	}
	if id != "" {
		in.AffectedID = &id
	}
	if details != "" {
		in.Details = &details
	}
	a.recorder.Record(r.Context(), in)
}

func clientIP(r *http.Request) string {
	if fwd := r.Header.Get("X-Forwarded-For"); fwd != "" {
		return fwd
	}
	return r.RemoteAddr
}

func parseLimit(s string, defaultVal, maxVal int) int {
	if s == "" {
		return defaultVal
	}
	n, err := strconv.Atoi(s)
	if err != nil || n < 1 {
		return defaultVal
	}
	if n > maxVal {
		return maxVal
	}
	return n
}

func parseOffset(s string) int {
	n, err := strconv.Atoi(s)
	if err != nil || n < 0 {
		return 0
	}
	return n
}
