package api

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"

	"github.com/nikhilbhutani/emcoach/internal/analysis"
	"github.com/nikhilbhutani/emcoach/internal/api/handlers"
	"github.com/nikhilbhutani/emcoach/internal/api/middleware"
	"github.com/nikhilbhutani/emcoach/internal/config"
	"github.com/nikhilbhutani/emcoach/internal/questions"
	"github.com/nikhilbhutani/emcoach/internal/report"
)

// Deps are the services the HTTP layer is wired to. Queue may be nil.
type Deps struct {
	Pipeline handlers.Runner
	Store    report.Store
	Status   analysis.StatusStore
	Queue    handlers.Enqueuer
	Bank     *questions.Bank
	Checks   map[string]handlers.Pinger
}

type Router struct {
	mux  *chi.Mux
	cfg  *config.Config
	deps Deps
}

func NewRouter(cfg *config.Config, deps Deps) *Router {
	return &Router{
		mux:  chi.NewRouter(),
		cfg:  cfg,
		deps: deps,
	}
}

// Setup mounts middleware and routes. ctx bounds background middleware work.
func (rt *Router) Setup(ctx context.Context) http.Handler {
	r := rt.mux

	// Global middleware
	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(middleware.Logging)
	r.Use(chimiddleware.Recoverer)
	r.Use(middleware.CORS([]string{"*"}))

	rl := middleware.NewRateLimiter(ctx, 5, 20)
	r.Use(rl.Limit)

	health := handlers.NewHealthHandler(rt.deps.Checks)
	r.Get("/healthz", health.Healthz)
	r.Get("/readyz", health.Readyz)

	r.Route("/api/v1", func(r chi.Router) {
		questionH := handlers.NewQuestionHandler(rt.deps.Bank)
		r.Get("/questions", questionH.List)

		analysisH := handlers.NewAnalysisHandler(
			rt.deps.Pipeline,
			rt.deps.Store,
			rt.deps.Status,
			rt.deps.Queue,
			rt.deps.Bank,
			handlers.AnalysisOptions{
				UploadsDir:  rt.cfg.Server.UploadsDir,
				MaxUpload:   rt.cfg.Server.MaxUpload,
				SaveDefault: rt.cfg.Reports.Save,
			},
		)
		r.Route("/analyses", func(r chi.Router) {
			r.Post("/", analysisH.Create)
			r.Get("/{id}", analysisH.Status)
		})

		reportH := handlers.NewReportHandler(rt.deps.Store)
		r.Get("/reports/{id}", reportH.Get)
	})

	return r
}
