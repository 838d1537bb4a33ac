// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"github.com/ykato27/SDP-Analysis-Dashboard/internal/adapters/export"
	service "github.com/ykato27/SDP-Analysis-Dashboard/internal/app"
	"github.com/ykato27/SDP-Analysis-Dashboard/internal/domain/analysis"
	"github.com/ykato27/SDP-Analysis-Dashboard/internal/domain/kpi"
)

// Dependencies required by HTTP handlers. Using an interface bundle keeps
// the handler layer loosely coupled to the service implementation.
type Dependencies interface {
	StatsProvider

	Aggregate(ctx context.Context, q service.Query) ([]analysis.GroupAggregate, error)
	Gaps(ctx context.Context, q service.Query) ([]analysis.GapResult, error)
	Priorities(ctx context.Context, q service.Query) (service.PriorityReport, error)
	Bottlenecks(ctx context.Context, q service.Query) (service.PriorityReport, error)
	Distribution(ctx context.Context, q service.DistributionQuery) (analysis.ProficiencyDistribution, error)
	ExecutiveSummary(ctx context.Context, q service.SummaryQuery) (kpi.ExecutiveSummary, error)
	Monitoring(ctx context.Context, q service.MonitoringQuery) (kpi.MonitoringReport, error)
	Trend(ctx context.Context, q service.TrendQuery) (kpi.Trend, error)
	ShiftSummary(ctx context.Context, q service.ShiftQuery) (kpi.ShiftReport, error)
	Investment(ctx context.Context, q service.InvestmentQuery) (service.InvestmentPlan, error)
	ExportPriorities(ctx context.Context, w io.Writer, format export.Format, q service.Query) error

	Catalog() service.CatalogView
	Quantiles() analysis.TierQuantiles
}

// Server wires HTTP routes for the analysis API.
type Server struct {
	healthHandler   *HealthHandler
	statsHandler    *StatsHandler
	analysisHandler *AnalysisHandler
	exportHandler   *ExportHandler
	reloadHandler   *ReloadHandler
}

// ServerOption configures optional routes.
type ServerOption func(*Server)

// WithReloads serves /reload on top of a reload queue and its worker.
func WithReloads(h *ReloadHandler) ServerOption {
	return func(s *Server) {
		s.reloadHandler = h
	}
}

// NewServer creates a new API server with all handlers.
func NewServer(deps Dependencies, opts ...ServerOption) *Server {
	s := &Server{
		healthHandler:   NewHealthHandler(),
		statsHandler:    NewStatsHandler(deps),
		analysisHandler: NewAnalysisHandler(deps),
		exportHandler:   NewExportHandler(deps),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Register attaches all HTTP routes to mux.
func (s *Server) Register(_ context.Context, mux *http.ServeMux) {
	a := s.analysisHandler
	mux.HandleFunc("/healthz", MetricsMiddleware(s.healthHandler.HandleHealth, "healthz"))
	mux.HandleFunc("/stats", MetricsMiddleware(s.statsHandler.HandleStats, "stats"))
	mux.HandleFunc("/catalog", MetricsMiddleware(a.HandleCatalog, "catalog"))
	mux.HandleFunc("/aggregate", MetricsMiddleware(a.HandleAggregate, "aggregate"))
	mux.HandleFunc("/gaps", MetricsMiddleware(a.HandleGaps, "gaps"))
	mux.HandleFunc("/priorities", MetricsMiddleware(a.HandlePriorities, "priorities"))
	mux.HandleFunc("/bottlenecks", MetricsMiddleware(a.HandleBottlenecks, "bottlenecks"))
	mux.HandleFunc("/distribution", MetricsMiddleware(a.HandleDistribution, "distribution"))
	mux.HandleFunc("/summary", MetricsMiddleware(a.HandleSummary, "summary"))
	mux.HandleFunc("/monitoring", MetricsMiddleware(a.HandleMonitoring, "monitoring"))
	mux.HandleFunc("/trend", MetricsMiddleware(a.HandleTrend, "trend"))
	mux.HandleFunc("/shifts", MetricsMiddleware(a.HandleShifts, "shifts"))
	mux.HandleFunc("/investment", MetricsMiddleware(a.HandleInvestment, "investment"))
	mux.HandleFunc("/export/priorities", MetricsMiddleware(s.exportHandler.HandleExportPriorities, "export"))
	if s.reloadHandler != nil {
		mux.HandleFunc("/reload", MetricsMiddleware(s.reloadHandler.HandleReload, "reload"))
	}
}

type errorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, err error) {
	e := Wrap("api", err)
	if errors.Is(err, ErrMethodNotAllowed) {
		writeJSON(w, http.StatusMethodNotAllowed, errorResponse{Code: "method_not_allowed", Message: e.Error()})
		return
	}
	writeJSON(w, statusOf(e.Kind), errorResponse{Code: e.Kind, Message: e.Error()})
}

func statusOf(kind string) int {
	switch kind {
	case service.KindInvalidArgument:
		return http.StatusBadRequest
	case service.KindNotFound:
		return http.StatusNotFound
	case service.KindNotLoaded:
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}
