package handlers

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/dogclock/api/internal/clock"
	"github.com/dogclock/api/internal/middleware"
)

// Pinger is a dependency the health check verifies
type Pinger interface {
	Ping(ctx context.Context) error
}

// PingFunc adapts a function to Pinger
type PingFunc func(ctx context.Context) error

func (f PingFunc) Ping(ctx context.Context) error {
	return f(ctx)
}

// RouterConfig holds everything the router mounts
type RouterConfig struct {
	Pets        *PetHandler
	Pomodoro    *PomodoroHandler
	Shop        *ShopHandler
	Checks      map[string]Pinger
	CORSOrigins []string
	Clock       clock.Clock
	Logger      *slog.Logger
}

// NewRouter builds the HTTP routes
func NewRouter(cfg RouterConfig) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.Logging(cfg.Logger))
	r.Use(chimiddleware.Recoverer)
	r.Use(middleware.CORS(cfg.CORSOrigins))
	r.Use(middleware.Metrics)

	// Health check
	r.Get("/health", healthHandler(cfg.Checks, cfg.Clock))
	r.Handle("/metrics", promhttp.Handler())

	r.Route("/api", func(r chi.Router) {
		r.Route("/pets", func(r chi.Router) {
			r.Get("/", cfg.Pets.ListPets)
			r.Post("/", cfg.Pets.CreatePet)
			r.Get("/alive", cfg.Pets.HasAlivePet)
			r.Get("/alive-pet", cfg.Pets.GetAlivePet)
			r.Get("/{id}", cfg.Pets.GetPet)
			r.Put("/{id}/mark-dead", cfg.Pets.MarkDead)
			r.Get("/{id}/calculate-age", cfg.Pets.CalculateAge)
			r.Get("/{id}/calculate-hunger", cfg.Pets.CalculateHunger)
			r.Get("/{id}/calculate-mood", cfg.Pets.CalculateMood)
			r.Get("/{id}/calculate-healthy", cfg.Pets.CalculateHealthy)
			r.Put("/{id}/increase-hunger", cfg.Pets.IncreaseHunger)
			r.Put("/{id}/increase-mood", cfg.Pets.IncreaseMood)
		})

		r.Route("/pomodoro", func(r chi.Router) {
			r.Get("/", cfg.Pomodoro.ListSessions)
			r.Post("/", cfg.Pomodoro.StartSession)
			r.Get("/total-count", cfg.Pomodoro.TotalCount)
			r.Get("/total-focus", cfg.Pomodoro.TotalFocus)
			r.Get("/completion-rate", cfg.Pomodoro.CompletionRate)
			r.Get("/tags", cfg.Pomodoro.TopTags)
			r.Get("/running", cfg.Pomodoro.Running)
			r.Get("/{id}", cfg.Pomodoro.GetSession)
			r.Put("/{id}", cfg.Pomodoro.UpdateSession)
			r.Put("/{id}/update-on-unload", cfg.Pomodoro.UpdateOnUnload)
			r.Post("/{id}/update-on-unload", cfg.Pomodoro.UpdateOnUnload)
		})

		r.Route("/user", func(r chi.Router) {
			r.Get("/balance/{id}", cfg.Shop.GetBalance)
			r.Put("/balance/increase/{id}", cfg.Shop.IncreaseBalance)
			r.Put("/balance/decrease/{id}", cfg.Shop.DecreaseBalance)
			r.Get("/name/{id}", cfg.Shop.GetUserName)
			r.Put("/name/{id}", cfg.Shop.UpdateUserName)
			r.Delete("/consume/{id}", cfg.Shop.Consume)
		})

		r.Get("/products", cfg.Shop.ListProducts)
		r.Get("/products/{id}", cfg.Shop.GetProduct)

		r.Get("/useritems", cfg.Shop.ListItems)
		r.Get("/useritems/{id}", cfg.Shop.GetItem)
		r.Post("/useritems/purchase", cfg.Shop.Purchase)
	})

	return r
}

// healthHandler reports healthy only when every dependency answers a ping
func healthHandler(checks map[string]Pinger, clk clock.Clock) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
		defer cancel()

		status := map[string]string{
			"status": "healthy",
			"time":   clk.Now().Format(time.RFC3339),
		}
		code := http.StatusOK
		for name, check := range checks {
			if err := check.Ping(ctx); err != nil {
				status[name] = "unavailable"
				status["status"] = "unhealthy"
				code = http.StatusServiceUnavailable
				continue
			}
			status[name] = "connected"
		}
		writeJSON(w, code, status)
	}
}
