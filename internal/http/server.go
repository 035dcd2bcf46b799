// Package http exposes the ledger as a small JSON API. Rendering is left to
// whatever front end sits on top; this layer only parses requests, asks the
// directory for a yes/no, and calls the service.
package http

import (
	"net/http"

	"kotsuhi/internal/directory"
	"kotsuhi/internal/log"
	"kotsuhi/internal/middleware/trace"
	"kotsuhi/internal/services"
)

type Server struct {
	svc         *services.LedgerService
	dir         *directory.Directory
	adminSecret string
	logger      *log.Logger
}

// NewServer builds the HTTP server around the ledger service. adminSecret
// gates the fuel-rate update and the all-person summary; an empty secret
// disables those endpoints.
func NewServer(addr string, svc *services.LedgerService, dir *directory.Directory, adminSecret string, logger *log.Logger) *http.Server {
	if logger == nil {
		logger = log.New(0, log.ComponentHTTP)
	}
	s := &Server{
		svc:         svc,
		dir:         dir,
		adminSecret: adminSecret,
		logger:      logger.WithComponent(log.ComponentHTTP),
	}

	mux := http.NewServeMux()
	mux.HandleFunc("GET /healthz", s.handleHealth)
	mux.HandleFunc("GET /api/records", s.handleListRecords)
	mux.HandleFunc("POST /api/records", s.handleAppendRecord)
	mux.HandleFunc("POST /api/records/delete", s.handleDeleteRecord)
	mux.HandleFunc("GET /api/rate", s.handleGetRate)
	mux.HandleFunc("PUT /api/rate", s.handleSetRate)
	mux.HandleFunc("GET /api/summary", s.handleMonthSummary)
	mux.HandleFunc("GET /api/months", s.handleMonths)

	return &http.Server{
		Addr:    addr,
		Handler: trace.Middleware(mux),
	}
}
