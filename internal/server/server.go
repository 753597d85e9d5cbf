package server

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/gorilla/websocket"
	httpSwagger "github.com/swaggo/http-swagger/v2"

	_ "github.com/raysh454/sitegrade/docs/swagger" // registers the OpenAPI document
	"github.com/raysh454/sitegrade/internal/app"
	"github.com/raysh454/sitegrade/internal/logging"
	"github.com/raysh454/sitegrade/internal/report"
	"github.com/raysh454/sitegrade/internal/store"
)

// Server is the HTTP + WebSocket API surface for sitegrade.
type Server struct {
	cfg          Config
	orchestrator *app.Orchestrator
	router       chi.Router
	upgrader     websocket.Upgrader
	logger       logging.Logger
	reports      *reportCache

	// jobCtx parents jobs started over REST so they outlive the request.
	jobCtx context.Context
}

// NewServer routes requests to orch. Jobs started over REST derive from
// ctx; pass the application context so shutdown cancels them.
func NewServer(ctx context.Context, cfg Config, orch *app.Orchestrator, logger logging.Logger) *Server {
	if ctx == nil {
		ctx = context.Background()
	}
	r := chi.NewRouter()
	s := &Server{
		cfg:          cfg,
		orchestrator: orch,
		router:       r,
		logger:       logger.With(logging.Field{Key: "component", Value: "server"}),
		reports:      newReportCache(cfg.ReportCacheSize),
		jobCtx:       ctx,
		upgrader: websocket.Upgrader{
			CheckOrigin: func(r *http.Request) bool {
				// TODO: restrict to configured origins once the dashboard is served separately
				return true
			},
		},
	}

	s.routes()
	return s
}

// Orchestrator returns the underlying orchestrator for advanced use (tests, etc.).
func (s *Server) Orchestrator() *app.Orchestrator {
	return s.orchestrator
}

func (s *Server) routes() {
	r := s.router

	r.Use(s.corsMiddleware)

	// CORS preflight
	r.Options("/audits", s.optionsHandler("GET, POST"))
	r.Options("/audits/{id}", s.optionsHandler("GET"))
	r.Options("/audits/{id}/report", s.optionsHandler("GET"))
	r.Options("/audits/{id}/report.xlsx", s.optionsHandler("GET"))
	r.Options("/audits/{id}/compare/{otherID}", s.optionsHandler("GET"))
	r.Options("/jobs", s.optionsHandler("GET"))
	r.Options("/jobs/{jobID}", s.optionsHandler("GET, DELETE"))
	r.Options("/ws/audits", s.optionsHandler("GET"))

	// Audits
	r.Post("/audits", s.handleStartAudit)
	r.Get("/audits", s.handleListAudits)
	r.Get("/audits/{id}", s.handleGetAudit)
	r.Get("/audits/{id}/report", s.handleAuditReport)
	r.Get("/audits/{id}/report.xlsx", s.handleAuditWorkbook)
	r.Get("/audits/{id}/compare/{otherID}", s.handleCompareAudits)

	// Jobs over REST
	r.Get("/jobs", s.handleListJobs)
	r.Get("/jobs/{jobID}", s.handleGetJob)
	r.Delete("/jobs/{jobID}", s.handleCancelJob)

	// WebSocket: start an audit and stream its job events
	r.Get("/ws/audits", s.handleAuditWS)

	r.Get("/swagger/*", httpSwagger.Handler(httpSwagger.URL("/swagger/doc.json")))
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

	if r.Body != nil && (r.Method == http.MethodPost || r.Method == http.MethodPut || r.Method == http.MethodPatch) {
		if bodyBytes, err := io.ReadAll(r.Body); err == nil {
			fields = append(fields, logging.Field{Key: "body", Value: string(bodyBytes)})
			r.Body = io.NopCloser(bytes.NewReader(bodyBytes))
		}
	}

	s.logger.Info("http_request", fields...)

	s.router.ServeHTTP(w, r)
}

// HTTPServer creates an *http.Server ready to ListenAndServe.
func (s *Server) HTTPServer() *http.Server {
	return &http.Server{
		Addr:         s.cfg.Addr,
		Handler:      s,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 0, // allow streaming
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

// storeStatus maps store and orchestrator errors onto HTTP codes.
func storeStatus(err error) int {
	switch {
	case errors.Is(err, store.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, app.ErrNoStore):
		return http.StatusServiceUnavailable
	}
	return http.StatusInternalServerError
}

func (r StartAuditRequest) toRequest() app.Request {
	return app.Request{
		URL:         strings.TrimSpace(r.URL),
		ClientName:  r.ClientName,
		Competitors: r.Competitors,
		MaxPages:    r.MaxPages,
	}
}

// --- HTTP handlers ---

// Audits

// handleStartAudit godoc
// @Summary Start an audit
// @Tags audits
// @Accept json
// @Produce json
// @Param request body StartAuditRequest true "Audit target"
// @Success 202 {object} app.Job
// @Failure 400 {object} ErrorResponse
// @Router /audits [post]
func (s *Server) handleStartAudit(w http.ResponseWriter, r *http.Request) {
	var body StartAuditRequest
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		s.logger.Warn("decoding start audit body", logging.Field{Key: "error", Value: err.Error()})
		writeError(w, http.StatusBadRequest, "invalid JSON")
		return
	}
	req := body.toRequest()
	if req.URL == "" {
		writeError(w, http.StatusBadRequest, "url is required")
		return
	}
	if req.MaxPages < 0 {
		writeError(w, http.StatusBadRequest, "max_pages must not be negative")
		return
	}

	job, err := s.orchestrator.StartAuditJob(s.jobCtx, req)
	if err != nil {
		s.logger.Warn("starting audit job", logging.Field{Key: "error", Value: err.Error()})
		status := http.StatusInternalServerError
		if errors.Is(err, app.ErrOrchestratorClosed) {
			status = http.StatusServiceUnavailable
		}
		writeError(w, status, err.Error())
		return
	}
	s.logger.Info("started audit job", logging.Field{Key: "job_id", Value: job.ID}, logging.Field{Key: "url", Value: req.URL})
	writeJSON(w, http.StatusAccepted, s.orchestrator.GetJob(job.ID))
}

// handleListAudits godoc
// @Summary List stored audits, newest first
// @Tags audits
// @Produce json
// @Param url query string false "Only audits of this URL"
// @Param limit query int false "Maximum number of audits"
// @Success 200 {array} store.Summary
// @Router /audits [get]
func (s *Server) handleListAudits(w http.ResponseWriter, r *http.Request) {
	url := r.URL.Query().Get("url")
	limit := 0
	if ls := r.URL.Query().Get("limit"); ls != "" {
		if v, err := strconv.Atoi(ls); err == nil && v > 0 {
			limit = v
		}
	}

	sums, err := s.orchestrator.ListAudits(r.Context(), url, limit)
	if err != nil {
		s.logger.Warn("listing audits", logging.Field{Key: "error", Value: err.Error()})
		writeError(w, storeStatus(err), err.Error())
		return
	}
	s.logger.Info("listed audits", logging.Field{Key: "count", Value: len(sums)})
	writeJSON(w, http.StatusOK, sums)
}

// handleGetAudit godoc
// @Summary Get the full audit document
// @Tags audits
// @Produce json
// @Param id path string true "Audit ID"
// @Success 200 {object} report.Audit
// @Failure 404 {object} ErrorResponse
// @Router /audits/{id} [get]
func (s *Server) handleGetAudit(w http.ResponseWriter, r *http.Request) {
	a, ok := s.loadAudit(w, r)
	if !ok {
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	if err := report.WriteJSON(w, a); err != nil {
		s.logger.Warn("writing audit", logging.Field{Key: "error", Value: err.Error()})
	}
}

// handleAuditReport godoc
// @Summary Render the HTML dashboard of an audit
// @Tags audits
// @Produce html
// @Param id path string true "Audit ID"
// @Success 200 {string} string "HTML document"
// @Failure 404 {object} ErrorResponse
// @Router /audits/{id}/report [get]
func (s *Server) handleAuditReport(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	page, hit := s.reports.get(id)
	if !hit {
		a, ok := s.loadAudit(w, r)
		if !ok {
			return
		}
		var buf bytes.Buffer
		if err := report.RenderHTML(&buf, a, s.cfg.Branding); err != nil {
			s.logger.Warn("rendering report", logging.Field{Key: "audit_id", Value: id}, logging.Field{Key: "error", Value: err.Error()})
			writeError(w, http.StatusInternalServerError, err.Error())
			return
		}
		page = buf.Bytes()
		s.reports.add(id, page)
	}
	s.logger.Debug("served report", logging.Field{Key: "audit_id", Value: id}, logging.Field{Key: "cached", Value: hit})
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(page)
}

// handleAuditWorkbook godoc
// @Summary Download an audit as an XLSX workbook
// @Tags audits
// @Produce application/vnd.openxmlformats-officedocument.spreadsheetml.sheet
// @Param id path string true "Audit ID"
// @Success 200 {file} file
// @Failure 404 {object} ErrorResponse
// @Router /audits/{id}/report.xlsx [get]
func (s *Server) handleAuditWorkbook(w http.ResponseWriter, r *http.Request) {
	a, ok := s.loadAudit(w, r)
	if !ok {
		return
	}
	var buf bytes.Buffer
	if err := report.WriteXLSX(&buf, a); err != nil {
		s.logger.Warn("writing workbook", logging.Field{Key: "audit_id", Value: a.ID}, logging.Field{Key: "error", Value: err.Error()})
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	w.Header().Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	w.Header().Set("Content-Disposition", fmt.Sprintf(`attachment; filename="seo_audit_%s.xlsx"`, a.ID))
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(buf.Bytes())
}

// handleCompareAudits godoc
// @Summary Compare two audits
// @Tags audits
// @Produce json
// @Param id path string true "Base audit ID"
// @Param otherID path string true "Head audit ID"
// @Success 200 {object} store.Comparison
// @Failure 404 {object} ErrorResponse
// @Router /audits/{id}/compare/{otherID} [get]
func (s *Server) handleCompareAudits(w http.ResponseWriter, r *http.Request) {
	baseID := chi.URLParam(r, "id")
	headID := chi.URLParam(r, "otherID")

	cmp, err := s.orchestrator.CompareAudits(r.Context(), baseID, headID)
	if err != nil {
		s.logger.Warn("comparing audits", logging.Field{Key: "error", Value: err.Error()})
		writeError(w, storeStatus(err), err.Error())
		return
	}
	s.logger.Info("compared audits", logging.Field{Key: "base", Value: baseID}, logging.Field{Key: "head", Value: headID})
	writeJSON(w, http.StatusOK, cmp)
}

func (s *Server) loadAudit(w http.ResponseWriter, r *http.Request) (*report.Audit, bool) {
	id := chi.URLParam(r, "id")
	a, err := s.orchestrator.GetAudit(r.Context(), id)
	if err != nil {
		s.logger.Warn("getting audit", logging.Field{Key: "audit_id", Value: id}, logging.Field{Key: "error", Value: err.Error()})
		writeError(w, storeStatus(err), err.Error())
		return nil, false
	}
	return a, true
}

// Jobs (REST)

// handleGetJob godoc
// @Summary Get a job
// @Tags jobs
// @Produce json
// @Param jobID path string true "Job ID"
// @Success 200 {object} app.Job
// @Failure 404 {object} ErrorResponse
// @Router /jobs/{jobID} [get]
func (s *Server) handleGetJob(w http.ResponseWriter, r *http.Request) {
	jobID := chi.URLParam(r, "jobID")
	job := s.orchestrator.GetJob(jobID)
	if job == nil {
		s.logger.Warn("getting job: not found", logging.Field{Key: "job_id", Value: jobID})
		writeError(w, http.StatusNotFound, "job not found")
		return
	}
	s.logger.Info("got job", logging.Field{Key: "job_id", Value: job.ID})
	writeJSON(w, http.StatusOK, job)
}

// handleCancelJob godoc
// @Summary Cancel a running job
// @Tags jobs
// @Param jobID path string true "Job ID"
// @Success 204
// @Router /jobs/{jobID} [delete]
func (s *Server) handleCancelJob(w http.ResponseWriter, r *http.Request) {
	jobID := chi.URLParam(r, "jobID")
	s.orchestrator.CancelJob(jobID)
	s.logger.Info("canceled job", logging.Field{Key: "job_id", Value: jobID})
	writeJSON(w, http.StatusNoContent, nil)
}

// handleListJobs godoc
// @Summary List retained jobs, newest first
// @Tags jobs
// @Produce json
// @Success 200 {array} app.Job
// @Router /jobs [get]
func (s *Server) handleListJobs(w http.ResponseWriter, r *http.Request) {
	jobs := s.orchestrator.ListJobs()
	s.logger.Info("listed jobs", logging.Field{Key: "count", Value: len(jobs)})
	writeJSON(w, http.StatusOK, jobs)
}

// WebSockets

// handleAuditWS starts an audit from query parameters and streams its job
// events. The job is canceled when the client goes away.
func (s *Server) handleAuditWS(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	body := StartAuditRequest{
		URL:        q.Get("url"),
		ClientName: q.Get("client"),
	}
	for _, c := range q["competitors"] {
		for _, part := range strings.Split(c, ",") {
			if part = strings.TrimSpace(part); part != "" {
				body.Competitors = append(body.Competitors, part)
			}
		}
	}
	if ps := q.Get("pages"); ps != "" {
		if v, err := strconv.Atoi(ps); err == nil && v > 0 {
			body.MaxPages = v
		}
	}
	req := body.toRequest()
	if req.URL == "" {
		writeError(w, http.StatusBadRequest, "missing url query parameter")
		return
	}

	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.logger.Warn("upgrading to websocket", logging.Field{Key: "error", Value: err.Error()})
		return
	}
	defer conn.Close()

	job, err := s.orchestrator.StartAuditJob(r.Context(), req)
	if err != nil {
		s.logger.Warn("starting audit job", logging.Field{Key: "error", Value: err.Error()})
		_ = conn.WriteJSON(ErrorResponse{Error: err.Error()})
		return
	}

	s.logger.Info("started audit job", logging.Field{Key: "job_id", Value: job.ID})
	_ = conn.WriteJSON(s.orchestrator.GetJob(job.ID))

	for ev := range job.Events {
		if err := conn.WriteJSON(ev); err != nil {
			// Assume client disconnected; cancel job
			s.orchestrator.CancelJob(job.ID)
			return
		}
	}
	_ = conn.WriteMessage(websocket.CloseMessage,
		websocket.FormatCloseMessage(websocket.CloseNormalClosure, "job finished"))
}
