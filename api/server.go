// Package api provides the HTTP server for the HCS → FOCUS
// transformation service: fetch a batch of metering records from the
// SC Northbound Interface, run them through the mapping engine, and
// return the FOCUS batch with its per-record issue report.
package api

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/goccy/go-json"
	"github.com/google/uuid"

	"hcs-focus/internal/hcs"
	"hcs-focus/internal/mapping"
	"hcs-focus/internal/transform"
	"hcs-focus/pkg/focus"
	"hcs-focus/pkg/platform"
)

// Server is the HTTP API server.
type Server struct {
	httpServer  *http.Server
	fetcher     hcs.MetricsFetcher
	transformer *transform.Transformer
	registry    *mapping.Registry
	config      *Config
	log         *slog.Logger
}

// Config holds server configuration.
type Config struct {
	Port           int
	ReadTimeout    time.Duration
	WriteTimeout   time.Duration
	MaxRequestSize int64
	CORSOrigins    []string
}

// DefaultConfig returns default server configuration.
func DefaultConfig() *Config {
	return &Config{
		Port:           8080,
		ReadTimeout:    30 * time.Second,
		WriteTimeout:   60 * time.Second,
		MaxRequestSize: 1 * 1024 * 1024,
		CORSOrigins:    []string{"*"},
	}
}

// ConfigFromEnv overlays the defaults with HCSFOCUS_* environment
// settings that do not warrant a CLI flag. The listen port stays with
// the CLI.
func ConfigFromEnv() *Config {
	cfg := DefaultConfig()
	cfg.ReadTimeout = time.Duration(platform.GetEnvInt("HCSFOCUS_READ_TIMEOUT_SECONDS", int(cfg.ReadTimeout.Seconds()))) * time.Second
	cfg.WriteTimeout = time.Duration(platform.GetEnvInt("HCSFOCUS_WRITE_TIMEOUT_SECONDS", int(cfg.WriteTimeout.Seconds()))) * time.Second
	cfg.MaxRequestSize = int64(platform.GetEnvInt("HCSFOCUS_MAX_REQUEST_BYTES", int(cfg.MaxRequestSize)))

	if !platform.GetEnvBool("HCSFOCUS_CORS_ENABLED", true) {
		cfg.CORSOrigins = nil
	} else if origins := platform.GetEnv("HCSFOCUS_CORS_ORIGINS", ""); origins != "" {
		cfg.CORSOrigins = strings.Split(origins, ",")
	}
	return cfg
}

// NewServer creates an API server over a validated rule registry and
// an upstream metrics fetcher.
func NewServer(fetcher hcs.MetricsFetcher, registry *mapping.Registry, config *Config, log *slog.Logger) *Server {
	if config == nil {
		config = DefaultConfig()
	}
	if log == nil {
		log = slog.Default()
	}
	return &Server{
		fetcher:     fetcher,
		transformer: transform.New(registry, log),
		registry:    registry,
		config:      config,
		log:         log,
	}
}

// Handler builds the route table with middleware applied.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/health", s.handleHealth)
	mux.HandleFunc("/ready", s.handleReady)
	mux.HandleFunc("/api/v1/transform", s.handleTransform)
	return s.corsMiddleware(s.loggingMiddleware(mux))
}

// Start starts the HTTP server.
func (s *Server) Start() error {
	s.httpServer = &http.Server{
		Addr:         fmt.Sprintf(":%d", s.config.Port),
		Handler:      s.Handler(),
		ReadTimeout:  s.config.ReadTimeout,
		WriteTimeout: s.config.WriteTimeout,
	}

	s.log.Info("transform API server starting", "port", s.config.Port)
	return s.httpServer.ListenAndServe()
}

// StartWithGracefulShutdown starts the server and drains on SIGINT/SIGTERM.
func (s *Server) StartWithGracefulShutdown() error {
	errChan := make(chan error, 1)
	go func() {
		if err := s.Start(); err != http.ErrServerClosed {
			errChan <- err
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-errChan:
		return err
	case <-quit:
		s.log.Info("shutting down server")
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		return s.httpServer.Shutdown(ctx)
	}
}

// =============================================================================
// MIDDLEWARE
// =============================================================================

func (s *Server) loggingMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		next.ServeHTTP(w, r)
		s.log.Info("request",
			"method", r.Method,
			"path", r.URL.Path,
			"remote", r.RemoteAddr,
			"duration", time.Since(start).String(),
		)
	})
}

func (s *Server) corsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		origin := r.Header.Get("Origin")
		if origin == "" {
			origin = "*"
		}

		allowed := false
		for _, o := range s.config.CORSOrigins {
			if o == "*" || o == origin {
				allowed = true
				break
			}
		}

		if allowed {
			w.Header().Set("Access-Control-Allow-Origin", origin)
			w.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
			w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")
			w.Header().Set("Access-Control-Max-Age", "86400")
		}

		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusNoContent)
			return
		}

		next.ServeHTTP(w, r)
	})
}

// =============================================================================
// HEALTH ENDPOINTS
// =============================================================================

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	s.jsonResponse(w, http.StatusOK, map[string]string{
		"status":  "healthy",
		"version": "1.0.0",
	})
}

func (s *Server) handleReady(w http.ResponseWriter, r *http.Request) {
	if s.registry == nil || len(s.registry.Rules()) == 0 {
		s.jsonError(w, http.StatusServiceUnavailable, "rule registry not initialised")
		return
	}
	s.jsonResponse(w, http.StatusOK, map[string]string{"status": "ready"})
}

// =============================================================================
// TRANSFORM ENDPOINT
// =============================================================================

// TransformRequest carries the upstream query parameters plus the
// tenant/VDC context the CDR feed does not include.
type TransformRequest struct {
	RegionCode       string `json:"region_code"`
	DomainID         string `json:"domain_id"`
	StartTime        string `json:"start_time"`
	EndTime          string `json:"end_time"`
	Period           string `json:"period"`
	TimeZone         string `json:"time_zone"`
	Locale           string `json:"locale"`
	ResourceTypeCode string `json:"resource_type_code"`
	Limit            int    `json:"limit"`

	TenantName string `json:"tenant_name"`
	TenantID   string `json:"tenant_id"`
	VDCName    string `json:"vdc_name"`
	VDCID      string `json:"vdc_id"`
}

// RecordReport lists the issues of one source record, accepted or not.
type RecordReport struct {
	Index    int             `json:"index"`
	Accepted bool            `json:"accepted"`
	Issues   []mapping.Issue `json:"issues"`
}

// TransformResponse is the FOCUS batch plus the issue report.
// Records holds only accepted records; rejected records appear in
// Issues alone.
type TransformResponse struct {
	Status   string            `json:"status"`
	BatchID  string            `json:"batch_id"`
	Total    int               `json:"total"`
	Accepted int               `json:"accepted"`
	Rejected int               `json:"rejected"`
	Warned   int               `json:"warned"`
	Records  []*focus.Record   `json:"records"`
	Issues   []RecordReport    `json:"issues"`
	Metadata map[string]string `json:"metadata"`
}

func (s *Server) handleTransform(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		s.jsonError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, s.config.MaxRequestSize)

	var req TransformRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.jsonError(w, http.StatusBadRequest, fmt.Sprintf("invalid request: %v", err))
		return
	}
	if req.RegionCode == "" || req.StartTime == "" || req.EndTime == "" {
		s.jsonError(w, http.StatusBadRequest, "region_code, start_time and end_time are required")
		return
	}

	batchID := uuid.NewString()
	log := s.log.With("batch_id", batchID, "region", req.RegionCode)

	sources, err := s.fetcher.FetchMetrics(r.Context(), hcs.QueryParams{
		RegionCode:       req.RegionCode,
		DomainID:         req.DomainID,
		StartTime:        req.StartTime,
		EndTime:          req.EndTime,
		Period:           req.Period,
		TimeZone:         req.TimeZone,
		Locale:           req.Locale,
		ResourceTypeCode: req.ResourceTypeCode,
		Limit:            req.Limit,
	})
	if err != nil {
		log.Error("upstream fetch failed", "error", err)
		s.jsonError(w, http.StatusBadGateway, fmt.Sprintf("upstream fetch failed: %v", err))
		return
	}

	sources = hcs.MergeContext(sources, hcs.AccountContext{
		TenantName: req.TenantName,
		TenantID:   req.TenantID,
		VDCName:    req.VDCName,
		VDCID:      req.VDCID,
	})
	result := s.transformer.Transform(sources)
	s.jsonResponse(w, http.StatusOK, buildTransformResponse(batchID, req, result))
}

func buildTransformResponse(batchID string, req TransformRequest, result transform.BatchResult) TransformResponse {
	resp := TransformResponse{
		Status:   "ok",
		BatchID:  batchID,
		Total:    result.Total,
		Accepted: result.Accepted,
		Rejected: result.Rejected,
		Warned:   result.Warned,
		Records:  make([]*focus.Record, 0, result.Accepted),
		Issues:   make([]RecordReport, 0),
		Metadata: map[string]string{
			"region_code":        req.RegionCode,
			"domain_id":          req.DomainID,
			"resource_type_code": req.ResourceTypeCode,
			"period":             req.Period,
			"start_time":         req.StartTime,
			"end_time":           req.EndTime,
		},
	}

	for i, outcome := range result.Outcomes {
		if !outcome.Rejected() {
			resp.Records = append(resp.Records, outcome.Record)
		}
		if len(outcome.Issues) > 0 {
			resp.Issues = append(resp.Issues, RecordReport{
				Index:    i,
				Accepted: !outcome.Rejected(),
				Issues:   outcome.Issues,
			})
		}
	}
	return resp
}

// =============================================================================
// RESPONSE HELPERS
// =============================================================================

func (s *Server) jsonResponse(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		s.log.Error("encode response failed", "error", err)
	}
}

func (s *Server) jsonError(w http.ResponseWriter, status int, msg string) {
	s.jsonResponse(w, status, map[string]string{"error": msg})
}
