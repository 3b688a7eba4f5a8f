package router

import (
	"net/http"

	"github.com/BerylCAtieno/file-forensics-api/internal/handlers"
	"github.com/BerylCAtieno/file-forensics-api/internal/middleware"
	"github.com/BerylCAtieno/file-forensics-api/internal/services"
	"github.com/BerylCAtieno/file-forensics-api/internal/utils"

	"github.com/gorilla/mux"
)

func NewRouter(reportService services.ReportService, maxFileSize int64, logger *utils.Logger) http.Handler {
	r := mux.NewRouter()
	r.MethodNotAllowedHandler = http.HandlerFunc(handlers.MethodNotAllowed)

	// Middlewares
	r.Use(middleware.RequestID())
	r.Use(middleware.Logger(logger))
	r.Use(middleware.CORS())
	r.Use(middleware.Recovery(logger))

	reportHandler := handlers.NewReportHandler(reportService, maxFileSize, logger)

	api := r.PathPrefix("/api/v1").Subrouter()
	api.MethodNotAllowedHandler = http.HandlerFunc(handlers.MethodNotAllowed)

	api.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{"status":"healthy"}`))
	}).Methods(http.MethodGet)

	api.HandleFunc("/extract", reportHandler.Extract).Methods(http.MethodPost, http.MethodOptions)
	api.HandleFunc("/reports/{id}", reportHandler.GetReport).Methods(http.MethodGet)
	api.HandleFunc("/artifacts/{key:.+}", reportHandler.GetArtifact).Methods(http.MethodGet)

	// Method-less routes registered after the real ones. A later sibling that matches
	// the /api/v1 prefix resets mux's method mismatch, so a wrong method on a known
	// path would otherwise fall through to 404.
	for _, path := range []string{"/health", "/extract", "/reports/{id}", "/artifacts/{key:.+}"} {
		api.HandleFunc(path, handlers.MethodNotAllowed)
	}

	// Unversioned path for older clients
	r.HandleFunc("/extract", reportHandler.Extract).Methods(http.MethodPost, http.MethodOptions)
	r.HandleFunc("/extract", handlers.MethodNotAllowed)

	return r
}
