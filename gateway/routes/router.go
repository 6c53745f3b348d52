package routes

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"defind/gateway/middleware"
)

// Config wires the gateway router. RPCHandler is the JSON-RPC endpoint the
// gateway fronts; Observability and CORS are optional.
type Config struct {
	RPCHandler    http.Handler
	Observability *middleware.Observability
	CORS          middleware.CORSConfig
}

// New builds the public HTTP surface: a health probe, the JSON-RPC endpoint
// and, when observability is enabled, a Prometheus scrape endpoint.
func New(cfg Config) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.CORS(cfg.CORS))

	obs := cfg.Observability
	if obs != nil {
		r.Use(obs.Middleware("root"))
	}

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})

	if cfg.RPCHandler != nil {
		r.Route("/rpc", func(sr chi.Router) {
			if obs != nil {
				sr.Use(obs.Middleware("rpc"))
			}
			sr.Handle("/", cfg.RPCHandler)
		})
	}

	if obs != nil {
		r.Handle("/metrics", obs.MetricsHandler())
	}

	return r
}
