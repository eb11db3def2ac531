// Package http exposes the lifecycle engine over a JSON API.
package http

import (
	"log/slog"
	"net/http"
	"reflect"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-playground/validator/v10"

	"gamenight/internal/ports/input"
	"gamenight/internal/ports/output"
)

type Services struct {
	Events       input.EventUseCase
	Lifecycle    input.LifecycleUseCase
	Participants input.ParticipantUseCase
	Leaderboard  input.LeaderboardUseCase
	Scheduler    input.SchedulerUseCase
}

type Options struct {
	JWTSecret     string
	CronSecret    string
	DefaultLocale string
	// Metrics is mounted on /metrics when set.
	Metrics http.Handler
}

type Server struct {
	svc           Services
	translator    output.T
	validate      *validator.Validate
	jwtSecret     []byte
	cronSecret    string
	defaultLocale string
	logger        *slog.Logger
}

// NewRouter builds the chi router serving the API.
func NewRouter(svc Services, translator output.T, opts Options, logger *slog.Logger) http.Handler {
	s := &Server{
		svc:           svc,
		translator:    translator,
		validate:      newValidator(),
		jwtSecret:     []byte(opts.JWTSecret),
		cronSecret:    opts.CronSecret,
		defaultLocale: opts.DefaultLocale,
		logger:        logger,
	}

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(requestLogger(logger))
	r.Use(middleware.Recoverer)

	r.Get("/health", func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})
	if opts.Metrics != nil {
		r.Method(http.MethodGet, "/metrics", opts.Metrics)
	}

	r.Route("/api/v1", func(api chi.Router) {
		api.With(s.cronAuth).Post("/scheduler/run", s.handleRunScheduler)

		api.Group(func(authed chi.Router) {
			authed.Use(s.authenticate)

			authed.Post("/events", s.handleCreateEvent)
			authed.Route("/events/{id}", func(ev chi.Router) {
				ev.Get("/", s.handleGetEvent)
				ev.Post("/transitions", s.handleTransition)
				ev.Post("/reconcile", s.handleReconcile)
				ev.Get("/leaderboard", s.handleLeaderboard)
				ev.Post("/participants", s.handleRegister)
				ev.Post("/check-in", s.handleCheckIn)
			})
			authed.Put("/participants/{id}/result", s.handleRecordResult)
			authed.Put("/participants/{id}/status", s.handleOverrideStatus)
		})
	})
	return r
}

// newValidator reports fields by their JSON names.
func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name, _, _ := strings.Cut(f.Tag.Get("json"), ",")
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}
