package server

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/gorilla/websocket"

	"github.com/raysh454/spectre/internal/dashboard"
	"github.com/raysh454/spectre/internal/logging"
	"github.com/raysh454/spectre/internal/reportindex"
	"github.com/raysh454/spectre/internal/webclient"
)

// Server is the HTTP + WebSocket surface of the dashboard.
type Server struct {
	cfg      Config
	router   chi.Router
	upgrader websocket.Upgrader
	logger   logging.Logger

	client   webclient.WebClient
	sessions *dashboard.Sessions
	reports  *reportindex.Index
	pages    *pageSet
	proxy    http.Handler

	stop context.CancelFunc
}

// NewServer wires the backend client, report ledger and session store.
func NewServer(cfg Config) (*Server, error) {
	logger := cfg.Logger
	if logger == nil {
		logger = logging.NewStdoutLogger("server")
	}

	backend, err := url.Parse(cfg.BackendURL)
	if err != nil || backend.Scheme == "" || backend.Host == "" {
		return nil, fmt.Errorf("invalid backend url %q", cfg.BackendURL)
	}

	storageRoot, err := expandPath(cfg.StorageRoot)
	if err != nil {
		return nil, fmt.Errorf("expanding storage root path: %w", err)
	}
	cfg.StorageRoot = storageRoot
	if err := os.MkdirAll(cfg.StorageRoot, 0o755); err != nil {
		logger.Warn("creating storage root directory", logging.Field{Key: "path", Value: cfg.StorageRoot}, logging.Field{Key: "error", Value: err.Error()})
	}

	reports, err := reportindex.Open(filepath.Join(cfg.StorageRoot, "reports.db"), logger)
	if err != nil {
		return nil, fmt.Errorf("opening report ledger: %w", err)
	}

	client := cfg.Client
	if client == nil {
		client, err = webclient.NewWebClient(cfg.WebClientCfg, logger)
		if err != nil {
			reports.Close()
			return nil, fmt.Errorf("creating backend client: %w", err)
		}
	}

	pages, err := loadPages()
	if err != nil {
		reports.Close()
		return nil, fmt.Errorf("loading page templates: %w", err)
	}

	deps := dashboard.Deps{
		Backend: dashboard.Backend{BaseURL: cfg.BackendURL, Client: client},
		Reports: reports,
		Logger:  logger,
	}

	ctx, stop := context.WithCancel(context.Background())
	s := &Server{
		cfg:    cfg,
		router: chi.NewRouter(),
		logger: logger,
		upgrader: websocket.Upgrader{
			CheckOrigin: func(r *http.Request) bool { return true },
		},
		client:   client,
		sessions: dashboard.NewSessions(cfg.Sessions, deps),
		reports:  reports,
		pages:    pages,
		proxy:    newReportProxy(backend, logger),
		stop:     stop,
	}

	if cfg.PruneInterval > 0 {
		go s.sessions.Run(ctx, cfg.PruneInterval)
	}

	s.routes()
	return s, nil
}

// Sessions returns the session store for advanced use (tests, etc.).
func (s *Server) Sessions() *dashboard.Sessions {
	return s.sessions
}

func (s *Server) routes() {
	r := s.router

	r.Use(s.corsMiddleware)

	r.Options("/sessions/{session}/forms/{form}", s.optionsHandler("POST"))
	r.Options("/sessions/{session}/mounts/{mount}", s.optionsHandler("GET"))

	// Pages
	r.Get("/", s.handlePage(pageIndex))
	r.Get("/scans", s.handlePage(pageScans))
	r.Get("/scans/{kind}", s.handleScanPage)
	r.Get("/live_feed", s.handlePage(pageLiveFeed))
	r.Get("/reports", s.handleReportsPage)

	// Sessions
	r.Post("/sessions/{session}/forms/{form}", s.handleSubmit)
	r.Get("/sessions/{session}/mounts/{mount}", s.handleGetMount)
	r.Get("/sessions/{session}/ws", s.handleMountsWS)

	// Reports
	r.Get("/api/reports", s.handleListReports)
	r.Handle("/static/reports/*", s.proxy)

	r.Handle("/static/*", staticHandler())
	r.Get("/healthz", s.handleHealth)

	s.swaggerRoutes()
}

func (s *Server) corsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")
		w.Header().Set("Access-Control-Max-Age", "86400")

		next.ServeHTTP(w, r)
	})
}

func (s *Server) optionsHandler(methods string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Methods", methods)
		w.WriteHeader(http.StatusNoContent)
	}
}

// ServeHTTP implements http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	fields := []logging.Field{
		{Key: "method", Value: r.Method},
		{Key: "path", Value: r.URL.Path},
	}

	if q := r.URL.Query(); len(q) > 0 {
		fields = append(fields, logging.Field{Key: "query", Value: q})
	}
	if r.ContentLength > 0 {
		fields = append(fields, logging.Field{Key: "content_length", Value: r.ContentLength})
	}

	s.logger.Info("http_request", fields...)

	s.router.ServeHTTP(w, r)
}

// Close stops session pruning and releases the ledger and backend client.
// In-flight submissions are left to finish on their own.
func (s *Server) Close() {
	if s.stop != nil {
		s.stop()
	}
	if s.sessions != nil {
		s.sessions.Close()
	}
	if s.reports != nil {
		s.reports.Close()
	}
	if s.client != nil {
		s.client.Close()
	}
}

// HTTPServer creates an *http.Server ready to ListenAndServe.
func (s *Server) HTTPServer() *http.Server {
	return &http.Server{
		Addr:         s.cfg.ListenAddr,
		Handler:      s,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 0, // ?wait=true and the WebSocket stream hold the response open
	}
}

// --- JSON helpers ---

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if v != nil {
		_ = json.NewEncoder(w).Encode(v)
	}
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, ErrorResponse{Error: msg})
}

// @Summary Liveness probe
// @Tags health
// @Produce json
// @Success 200 {object} HealthResponse
// @Router /healthz [get]
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, HealthResponse{Status: "ok", Sessions: s.sessions.Len()})
}

func expandPath(p string) (string, error) {
	if len(p) > 0 && p[0] == '~' {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", err
		}
		return filepath.Join(home, p[1:]), nil
	}
	return p, nil
}
