package delivery

import (
	"net/http"
	"time"

	"github.com/Vovarama1992/go-utils/httputil"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"
	"github.com/go-chi/httprate"
)

type RouteConfig struct {
	AuthToken       string
	RateLimitPerMin int
}

func NewRouter(hConv *ConvertHandler, hJobs *JobHandler, cfg RouteConfig) chi.Router {
	r := chi.NewRouter()
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Authorization", "Content-Type"},
	}))

	r.With(httputil.RecoverMiddleware).Get("/ping", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(200)
		w.Write([]byte("pong"))
	})

	RegisterRoutes(r, hConv, hJobs, cfg)
	return r
}

func RegisterRoutes(r chi.Router, hConv *ConvertHandler, hJobs *JobHandler, cfg RouteConfig) {
	limit := cfg.RateLimitPerMin
	if limit <= 0 {
		limit = 10
	}

	// --- protected ---
	r.Group(func(pr chi.Router) {
		pr.Use(
			httputil.RecoverMiddleware,
			AuthMiddleware(cfg.AuthToken),
		)

		// --- конвертация ---
		pr.With(httprate.LimitByIP(limit, time.Minute)).Post("/convert", hConv.Convert)
		pr.Get("/files/{job_id}/{name}", hConv.Download)

		// --- история ---
		pr.Get("/jobs", hJobs.List)
		pr.Get("/jobs/{job_id}", hJobs.Get)
	})
}
