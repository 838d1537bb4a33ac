package api

import (
	"net/url"
	"strconv"
	"strings"
	"time"

	service "github.com/ykato27/SDP-Analysis-Dashboard/internal/app"
	"github.com/ykato27/SDP-Analysis-Dashboard/internal/domain/analysis"
	"github.com/ykato27/SDP-Analysis-Dashboard/internal/domain/kpi"
	"github.com/ykato27/SDP-Analysis-Dashboard/internal/domain/model"
	"github.com/ykato27/SDP-Analysis-Dashboard/internal/domain/scoring"
)

const dateLayout = "2006-01-02"

// list reads a comma separated or repeated parameter.
func list(v url.Values, key string) []string {
	var out []string
	for _, raw := range v[key] {
		for _, s := range strings.Split(raw, ",") {
			if s = strings.TrimSpace(s); s != "" {
				out = append(out, s)
			}
		}
	}
	return out
}

func parseFilter(op string, v url.Values) (model.Filter, error) {
	f := model.Filter{
		Locations: list(v, "location"),
		Teams:     list(v, "team"),
		Shifts:    list(v, "shift"),
		Processes: list(v, "process"),
	}
	var err error
	if s := v.Get("from"); s != "" {
		if f.From, err = time.Parse(dateLayout, s); err != nil {
			return f, badRequest(op, "from %q is not a date", s)
		}
	}
	if s := v.Get("to"); s != "" {
		if f.To, err = time.Parse(dateLayout, s); err != nil {
			return f, badRequest(op, "to %q is not a date", s)
		}
	}
	return f, nil
}

func parseGroupBy(op string, v url.Values) ([]model.Field, error) {
	fields, err := model.ParseFields(list(v, "group_by"))
	if err != nil {
		return nil, NewKind(op, service.KindInvalidArgument, err)
	}
	return fields, nil
}

func parseFloat(op string, v url.Values, key string) (float64, bool, error) {
	s := v.Get(key)
	if s == "" {
		return 0, false, nil
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, false, badRequest(op, "%s %q is not a number", key, s)
	}
	return f, true, nil
}

func parseInt(op string, v url.Values, key string) (int, error) {
	s := v.Get(key)
	if s == "" {
		return 0, nil
	}
	n, err := strconv.Atoi(s)
	if err != nil || n < 0 {
		return 0, badRequest(op, "%s %q is not a non-negative integer", key, s)
	}
	return n, nil
}

// parseQuery reads the parameters shared by the ranking endpoints.
// A single quantile overrides only its side of the defaults.
func parseQuery(op string, v url.Values, defaults analysis.TierQuantiles) (service.Query, error) {
	var (
		q   service.Query
		err error
	)
	if q.GroupBy, err = parseGroupBy(op, v); err != nil {
		return q, err
	}
	q.Metrics = list(v, "metric")
	if s := v.Get("benchmark"); s != "" {
		if q.Benchmark, err = model.ParseGroupKey(s); err != nil {
			return q, NewKind(op, service.KindInvalidArgument, err)
		}
	}
	if s := v.Get("preset"); s != "" {
		if q.Preset, err = scoring.ParsePreset(s); err != nil {
			return q, NewKind(op, service.KindInvalidArgument, err)
		}
	}

	medium, hasMedium, err := parseFloat(op, v, "q_medium")
	if err != nil {
		return q, err
	}
	high, hasHigh, err := parseFloat(op, v, "q_high")
	if err != nil {
		return q, err
	}
	if hasMedium || hasHigh {
		qs := defaults
		if hasMedium {
			qs.Medium = medium
		}
		if hasHigh {
			qs.High = high
		}
		q.Quantiles = &qs
	}

	if q.Limit, err = parseInt(op, v, "limit"); err != nil {
		return q, err
	}
	q.Filter, err = parseFilter(op, v)
	return q, err
}

func parsePackages(op string, v url.Values) ([]kpi.Package, error) {
	names := list(v, "packages")
	if len(names) == 0 {
		return nil, nil
	}
	all := kpi.DefaultPackages()
	out := make([]kpi.Package, 0, len(names))
	for _, n := range names {
		found := false
		for _, p := range all {
			if p.Name == n {
				out = append(out, p)
				found = true
				break
			}
		}
		if !found {
			return nil, badRequest(op, "unknown package %q", n)
		}
	}
	return out, nil
}

func parseKPI(op string, v url.Values) (kpi.KPI, error) {
	s := v.Get("kpi")
	if s == "" {
		return "", nil
	}
	k, err := kpi.ParseKPI(s)
	if err != nil {
		return "", NewKind(op, service.KindInvalidArgument, err)
	}
	return k, nil
}
