package api

import (
	"net/http"

	service "github.com/ykato27/SDP-Analysis-Dashboard/internal/app"
)

// AnalysisHandler serves the read-only analysis endpoints.
type AnalysisHandler struct {
	deps Dependencies
}

// NewAnalysisHandler creates a new analysis handler.
func NewAnalysisHandler(deps Dependencies) *AnalysisHandler {
	return &AnalysisHandler{deps: deps}
}

// get adapts fn to a GET-only handler that writes its result as JSON.
func get(fn func(r *http.Request) (any, error)) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet {
			writeError(w, ErrMethodNotAllowed)
			return
		}
		out, err := fn(r)
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, out)
	}
}

// HandleCatalog handles GET /catalog requests.
func (h *AnalysisHandler) HandleCatalog(w http.ResponseWriter, r *http.Request) {
	get(func(*http.Request) (any, error) {
		return h.deps.Catalog(), nil
	})(w, r)
}

// HandleAggregate handles GET /aggregate requests.
func (h *AnalysisHandler) HandleAggregate(w http.ResponseWriter, r *http.Request) {
	const op = "api.aggregate"
	get(func(r *http.Request) (any, error) {
		q, err := parseQuery(op, r.URL.Query(), h.deps.Quantiles())
		if err != nil {
			return nil, err
		}
		return h.deps.Aggregate(r.Context(), q)
	})(w, r)
}

// HandleGaps handles GET /gaps requests.
func (h *AnalysisHandler) HandleGaps(w http.ResponseWriter, r *http.Request) {
	const op = "api.gaps"
	get(func(r *http.Request) (any, error) {
		q, err := parseQuery(op, r.URL.Query(), h.deps.Quantiles())
		if err != nil {
			return nil, err
		}
		return h.deps.Gaps(r.Context(), q)
	})(w, r)
}

// HandlePriorities handles GET /priorities requests.
func (h *AnalysisHandler) HandlePriorities(w http.ResponseWriter, r *http.Request) {
	const op = "api.priorities"
	get(func(r *http.Request) (any, error) {
		q, err := parseQuery(op, r.URL.Query(), h.deps.Quantiles())
		if err != nil {
			return nil, err
		}
		return h.deps.Priorities(r.Context(), q)
	})(w, r)
}

// HandleBottlenecks handles GET /bottlenecks requests.
func (h *AnalysisHandler) HandleBottlenecks(w http.ResponseWriter, r *http.Request) {
	const op = "api.bottlenecks"
	get(func(r *http.Request) (any, error) {
		q, err := parseQuery(op, r.URL.Query(), h.deps.Quantiles())
		if err != nil {
			return nil, err
		}
		return h.deps.Bottlenecks(r.Context(), q)
	})(w, r)
}

// HandleDistribution handles GET /distribution?skill=X requests.
func (h *AnalysisHandler) HandleDistribution(w http.ResponseWriter, r *http.Request) {
	const op = "api.distribution"
	get(func(r *http.Request) (any, error) {
		v := r.URL.Query()
		skill := v.Get("skill")
		if skill == "" {
			return nil, badRequest(op, "skill is required")
		}
		f, err := parseFilter(op, v)
		if err != nil {
			return nil, err
		}
		return h.deps.Distribution(r.Context(), service.DistributionQuery{Skill: skill, Filter: f})
	})(w, r)
}

// HandleSummary handles GET /summary requests.
func (h *AnalysisHandler) HandleSummary(w http.ResponseWriter, r *http.Request) {
	const op = "api.summary"
	get(func(r *http.Request) (any, error) {
		v := r.URL.Query()
		f, err := parseFilter(op, v)
		if err != nil {
			return nil, err
		}
		return h.deps.ExecutiveSummary(r.Context(), service.SummaryQuery{Benchmark: v.Get("benchmark"), Filter: f})
	})(w, r)
}

// HandleMonitoring handles GET /monitoring?location=X requests.
func (h *AnalysisHandler) HandleMonitoring(w http.ResponseWriter, r *http.Request) {
	const op = "api.monitoring"
	get(func(r *http.Request) (any, error) {
		v := r.URL.Query()
		days, err := parseInt(op, v, "recent_days")
		if err != nil {
			return nil, err
		}
		f, err := parseFilter(op, v)
		if err != nil {
			return nil, err
		}
		// location selects the site; it must not also narrow the filter.
		location := v.Get("location")
		f.Locations = nil
		return h.deps.Monitoring(r.Context(), service.MonitoringQuery{Location: location, RecentDays: days, Filter: f})
	})(w, r)
}

// HandleTrend handles GET /trend requests.
func (h *AnalysisHandler) HandleTrend(w http.ResponseWriter, r *http.Request) {
	const op = "api.trend"
	get(func(r *http.Request) (any, error) {
		v := r.URL.Query()
		k, err := parseKPI(op, v)
		if err != nil {
			return nil, err
		}
		f, err := parseFilter(op, v)
		if err != nil {
			return nil, err
		}
		return h.deps.Trend(r.Context(), service.TrendQuery{Source: v.Get("source"), X: v.Get("x"), Y: k, Filter: f})
	})(w, r)
}

// HandleShifts handles GET /shifts requests.
func (h *AnalysisHandler) HandleShifts(w http.ResponseWriter, r *http.Request) {
	const op = "api.shifts"
	get(func(r *http.Request) (any, error) {
		v := r.URL.Query()
		groupBy, err := parseGroupBy(op, v)
		if err != nil {
			return nil, err
		}
		k, err := parseKPI(op, v)
		if err != nil {
			return nil, err
		}
		f, err := parseFilter(op, v)
		if err != nil {
			return nil, err
		}
		return h.deps.ShiftSummary(r.Context(), service.ShiftQuery{GroupBy: groupBy, KPI: k, Filter: f})
	})(w, r)
}

// HandleInvestment handles GET /investment?location=X requests.
func (h *AnalysisHandler) HandleInvestment(w http.ResponseWriter, r *http.Request) {
	const op = "api.investment"
	get(func(r *http.Request) (any, error) {
		v := r.URL.Query()
		packages, err := parsePackages(op, v)
		if err != nil {
			return nil, err
		}
		return h.deps.Investment(r.Context(), service.InvestmentQuery{
			Location: v.Get("location"),
			Skill:    v.Get("skill"),
			Packages: packages,
		})
	})(w, r)
}
