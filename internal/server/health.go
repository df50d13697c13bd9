package server

import (
	"context"
	_ "embed"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"bookshelf/internal/response"
)

//go:embed api/openapi.yaml
var openApiYaml []byte

// Pinger is satisfied by *pgxpool.Pool.
type Pinger interface {
	Ping(ctx context.Context) error
}

// Health registers /healthz, answering as long as the process serves
// requests, and /readyz, which also requires the database to answer.
func Health(r chi.Router, db Pinger, rr *response.Responder) {
	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		rr.SendJson(w, r.Context(), map[string]string{"status": "ok"})
	})

	r.Get("/readyz", func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()

		if err := db.Ping(ctx); err != nil {
			rr.RespondAndLogCustom(w, r.Context(), err, slog.LevelWarn, http.StatusServiceUnavailable)
			return
		}

		rr.SendJson(w, r.Context(), map[string]string{"status": "ready"})
	})
}

func Static(r chi.Router) {
	r.Get("/openapi.yaml", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/yaml")
		_, _ = w.Write(openApiYaml)
	})
}
