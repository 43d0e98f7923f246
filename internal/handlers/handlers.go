// Package handlers wires HTTP routing, the server-rendered pages and the JSON
// API on top of the movie library.
package handlers

import (
	"context"
	"errors"
	"html/template"
	"math"
	"math/rand/v2"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/httprate"
	"golang.org/x/time/rate"

	"github.com/handsomefox/watchlist/internal/library"
	"github.com/handsomefox/watchlist/internal/movie"
)

// StatsSource serves the backend's precomputed statistics.
type StatsSource interface {
	Statistics(ctx context.Context) (*movie.Statistics, error)
}

type Handler struct {
	library  *library.Library
	stats    StatsSource
	pages    *template.Template
	debounce time.Duration
	limiter  *rate.Limiter
	apiLimit int
	seed     func() int64
	rng      *rand.Rand

	randomDefault bool
}

type Config struct {
	Library        *library.Library
	Stats          StatsSource
	Pages          *template.Template
	SearchDebounce time.Duration
	MutationRPS    float64
	MutationBurst  int
	// APIRateLimit is the per-IP request budget per minute for /api; 0
	// disables it.
	APIRateLimit int
	// RandomByDefault shows the list shuffled unless the query turns it off.
	RandomByDefault bool

	// Seed and Rand are test hooks; nil picks from math/rand/v2.
	Seed func() int64
	Rand *rand.Rand
}

func New(cfg *Config) (*Handler, error) {
	if cfg.Library == nil {
		return nil, errors.New("library is required")
	}
	if cfg.Stats == nil {
		return nil, errors.New("statistics source is required")
	}
	if cfg.Pages == nil {
		return nil, errors.New("templates are required")
	}

	limit := rate.Inf
	if cfg.MutationRPS > 0 {
		limit = rate.Limit(cfg.MutationRPS)
	}
	burst := max(cfg.MutationBurst, 1)

	seed := cfg.Seed
	if seed == nil {
		seed = func() int64 { return rand.Int64N(math.MaxInt64-1) + 1 }
	}

	return &Handler{
		library:  cfg.Library,
		stats:    cfg.Stats,
		pages:    cfg.Pages,
		debounce: cfg.SearchDebounce,
		limiter:  rate.NewLimiter(limit, burst),
		apiLimit: cfg.APIRateLimit,
		seed:     seed,
		rng:      cfg.Rand,

		randomDefault: cfg.RandomByDefault,
	}, nil
}

func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Get("/", func(w http.ResponseWriter, r *http.Request) {
		http.Redirect(w, r, "/movies", http.StatusFound)
	})
	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	})

	r.Method(http.MethodGet, "/movies", Adapt(h.getMoviesPage))
	r.Method(http.MethodPost, "/movies", Adapt(h.postMovieForm))
	r.Route("/movies/{id:[0-9]+}", func(r chi.Router) {
		r.Method(http.MethodPost, "/watched", Adapt(h.postWatchedForm))
		r.Method(http.MethodPost, "/delete", Adapt(h.postDeleteForm))
	})
	r.Method(http.MethodGet, "/statistics", Adapt(h.getStatisticsPage))

	r.Route("/api", func(r chi.Router) {
		if h.apiLimit > 0 {
			r.Use(httprate.LimitByIP(h.apiLimit, time.Minute))
		}

		r.Method(http.MethodGet, "/movies", Adapt(h.getMovies))
		r.Method(http.MethodGet, "/actors", Adapt(h.getActors))
		r.Method(http.MethodGet, "/statistics", Adapt(h.getStatistics))

		r.Group(func(r chi.Router) {
			r.Use(h.MiddlewareRateLimit)

			r.Method(http.MethodPost, "/movies", Adapt(h.postMovie))
			r.Route("/movies/{id:[0-9]+}", func(r chi.Router) {
				r.Method(http.MethodPut, "/watched", Adapt(h.putWatched))
				r.Method(http.MethodDelete, "/", Adapt(h.deleteMovie))
			})
		})
	})
}
