package api

import (
	"net/http"

	"github.com/gorilla/mux"

	"github.com/garnizeh/jobtracker/internal/config"
	"github.com/garnizeh/jobtracker/internal/db"
	"github.com/garnizeh/jobtracker/internal/metrics"
	"github.com/garnizeh/jobtracker/internal/repository/sqlite"
)

// SetupRoutes wires the store, handlers and middleware into one handler.
// Logging, recovery and CORS wrap the router itself so preflights and
// unmatched paths pass through them too.
func SetupRoutes(cfg *config.Config, version, buildTime string, d *db.DB) http.Handler {
	r := mux.NewRouter()
	r.Use(metrics.InstrumentHandler)

	// Repository
	repo := sqlite.New(d, logger.With("component", "store"))

	// Create handlers
	systemHandler := &SystemHandler{DB: d}
	applicationsHandler := NewApplicationsHandler(repo)

	r.HandleFunc("/", IndexHandler).Methods(http.MethodGet)
	r.HandleFunc("/version", systemHandler.VersionHandler(version, buildTime)).Methods(http.MethodGet)
	r.HandleFunc("/health", systemHandler.HealthHandler).Methods(http.MethodGet)
	if cfg.MetricsEnabled {
		r.Handle("/metrics", metrics.Handler()).Methods(http.MethodGet)
	}

	RegisterApplicationRoutes(r, applicationsHandler)

	// Middleware chain
	return LoggingMiddleware(RecoveryMiddleware(CORSMiddleware(r)))
}
