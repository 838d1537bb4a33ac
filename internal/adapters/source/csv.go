// Package source reads and writes the skill and production CSV files.
package source

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"slices"
	"strconv"
	"strings"
	"time"

	"github.com/ykato27/SDP-Analysis-Dashboard/internal/domain/catalog"
	"github.com/ykato27/SDP-Analysis-Dashboard/internal/domain/model"
)

// Fixed columns of the skill file. Every other column is a skill score.
const (
	ColEmployeeID     = "employee_id"
	ColLocation       = "location"
	ColTeam           = "team"
	ColShift          = "shift"
	ColProcess        = "process"
	ColEvaluationDate = "evaluation_date"
	ColEfficiency     = "efficiency_pct"
	ColDefectRate     = "defect_rate_pct"
)

// Fixed columns of the production file. Columns ending in AvgSuffix carry
// per-category skill averages.
const (
	ColDate              = "date"
	ColQuantityProduced  = "quantity_produced"
	ColYield             = "yield_pct"
	ColAvgPredictedSkill = "avg_predicted_skill"
	AvgSuffix            = "_avg"
)

// DateLayout is the date format of both files.
const DateLayout = "2006-01-02"

var skillFixed = []string{
	ColEmployeeID, ColLocation, ColTeam, ColShift, ColProcess,
	ColEvaluationDate, ColEfficiency, ColDefectRate,
}

var productionFixed = []string{
	ColDate, ColLocation, ColProcess, ColShift, ColTeam, ColQuantityProduced,
	ColEfficiency, ColDefectRate, ColYield, ColAvgPredictedSkill,
}

// Option configures a read.
type Option func(*options)

type options struct {
	hierarchy *catalog.Hierarchy
	location  *time.Location
}

// WithCatalog ignores skill columns that the hierarchy does not know.
func WithCatalog(h *catalog.Hierarchy) Option {
	return func(o *options) {
		o.hierarchy = h
	}
}

// WithTimeLocation parses dates in loc instead of UTC.
func WithTimeLocation(loc *time.Location) Option {
	return func(o *options) {
		if loc != nil {
			o.location = loc
		}
	}
}

func newOptions(opts []Option) options {
	o := options{location: time.UTC}
	for _, opt := range opts {
		opt(&o)
	}
	return o
}

type header map[string]int

func readHeader(cr *csv.Reader) (header, []string, error) {
	cols, err := cr.Read()
	if errors.Is(err, io.EOF) {
		return nil, nil, ErrEmptyFile
	}
	if err != nil {
		return nil, nil, fmt.Errorf("%w: header: %w", ErrMalformedRow, err)
	}
	h := make(header, len(cols))
	for i, c := range cols {
		c = strings.TrimSpace(strings.TrimPrefix(c, "\ufeff"))
		cols[i] = c
		h[c] = i
	}
	return h, cols, nil
}

func (h header) require(names ...string) error {
	for _, n := range names {
		if _, ok := h[n]; !ok {
			return fmt.Errorf("%w: %q", ErrMissingColumn, n)
		}
	}
	return nil
}

func (h header) get(row []string, name string) string {
	i, ok := h[name]
	if !ok || i >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[i])
}

func parseFloat(s string) (float64, error) {
	if s == "" {
		return 0, nil
	}
	return strconv.ParseFloat(s, 64)
}

func parseDate(s string, loc *time.Location) (time.Time, error) {
	if s == "" {
		return time.Time{}, nil
	}
	if t, err := time.ParseInLocation(DateLayout, s, loc); err == nil {
		return t, nil
	}
	return time.Parse(time.RFC3339, s)
}

// ReadSkills parses a skill evaluation file. Empty score cells are left out
// of the record; a score outside 1..5 fails the whole read.
func ReadSkills(r io.Reader, opts ...Option) ([]model.SkillRecord, error) {
	o := newOptions(opts)
	cr := csv.NewReader(r)
	h, cols, err := readHeader(cr)
	if err != nil {
		return nil, err
	}
	if err := h.require(ColEmployeeID, ColLocation, ColTeam, ColShift, ColProcess); err != nil {
		return nil, err
	}

	var skillCols []string
	for _, c := range cols {
		if slices.Contains(skillFixed, c) {
			continue
		}
		if o.hierarchy != nil {
			if _, ok := o.hierarchy.CategoryOf(c); !ok {
				continue
			}
		}
		skillCols = append(skillCols, c)
	}

	out := make([]model.SkillRecord, 0)
	for line := 2; ; line++ {
		row, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("%w: line %d: %w", ErrMalformedRow, line, err)
		}
		rec := model.SkillRecord{
			EmployeeID: h.get(row, ColEmployeeID),
			Location:   h.get(row, ColLocation),
			Team:       h.get(row, ColTeam),
			Shift:      h.get(row, ColShift),
			Process:    h.get(row, ColProcess),
			Scores:     make(map[string]int, len(skillCols)),
		}
		if rec.EvaluationDate, err = parseDate(h.get(row, ColEvaluationDate), o.location); err != nil {
			return nil, fmt.Errorf("%w: line %d: %s: %w", ErrMalformedRow, line, ColEvaluationDate, err)
		}
		if rec.EfficiencyPct, err = parseFloat(h.get(row, ColEfficiency)); err != nil {
			return nil, fmt.Errorf("%w: line %d: %s: %w", ErrMalformedRow, line, ColEfficiency, err)
		}
		if rec.DefectRatePct, err = parseFloat(h.get(row, ColDefectRate)); err != nil {
			return nil, fmt.Errorf("%w: line %d: %s: %w", ErrMalformedRow, line, ColDefectRate, err)
		}
		for _, c := range skillCols {
			v := h.get(row, c)
			if v == "" {
				continue
			}
			s, err := strconv.Atoi(v)
			if err != nil {
				// Scores sometimes arrive as "3.0".
				f, ferr := strconv.ParseFloat(v, 64)
				if ferr != nil || f != float64(int(f)) {
					return nil, fmt.Errorf("%w: line %d: %q: %w", ErrMalformedRow, line, c, err)
				}
				s = int(f)
			}
			rec.Scores[c] = s
		}
		if err := rec.Validate(); err != nil {
			return nil, fmt.Errorf("line %d: %w", line, err)
		}
		out = append(out, rec)
	}
	return out, nil
}

// ReadProduction parses a daily production file.
func ReadProduction(r io.Reader, opts ...Option) ([]model.DailyProductionRecord, error) {
	o := newOptions(opts)
	cr := csv.NewReader(r)
	h, cols, err := readHeader(cr)
	if err != nil {
		return nil, err
	}
	if err := h.require(ColDate, ColLocation, ColProcess, ColShift, ColEfficiency, ColDefectRate); err != nil {
		return nil, err
	}
	var avgCols []string
	for _, c := range cols {
		if strings.HasSuffix(c, AvgSuffix) && !slices.Contains(productionFixed, c) {
			avgCols = append(avgCols, c)
		}
	}

	out := make([]model.DailyProductionRecord, 0)
	for line := 2; ; line++ {
		row, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("%w: line %d: %w", ErrMalformedRow, line, err)
		}
		rec := model.DailyProductionRecord{
			Location: h.get(row, ColLocation),
			Process:  h.get(row, ColProcess),
			Shift:    h.get(row, ColShift),
			Team:     h.get(row, ColTeam),
		}
		if rec.Date, err = parseDate(h.get(row, ColDate), o.location); err != nil || rec.Date.IsZero() {
			return nil, fmt.Errorf("%w: line %d: %s %q", ErrMalformedRow, line, ColDate, h.get(row, ColDate))
		}
		fields := []struct {
			col string
			dst *float64
		}{
			{ColEfficiency, &rec.EfficiencyPct},
			{ColDefectRate, &rec.DefectRatePct},
			{ColYield, &rec.YieldPct},
			{ColAvgPredictedSkill, &rec.AvgPredictedSkill},
		}
		for _, f := range fields {
			if *f.dst, err = parseFloat(h.get(row, f.col)); err != nil {
				return nil, fmt.Errorf("%w: line %d: %s: %w", ErrMalformedRow, line, f.col, err)
			}
		}
		if q := h.get(row, ColQuantityProduced); q != "" {
			qf, err := strconv.ParseFloat(q, 64)
			if err != nil {
				return nil, fmt.Errorf("%w: line %d: %s: %w", ErrMalformedRow, line, ColQuantityProduced, err)
			}
			rec.QuantityProduced = int(qf)
		}
		if len(avgCols) > 0 {
			rec.CategoryAverages = make(map[string]float64, len(avgCols))
			for _, c := range avgCols {
				v := h.get(row, c)
				if v == "" {
					continue
				}
				f, err := strconv.ParseFloat(v, 64)
				if err != nil {
					return nil, fmt.Errorf("%w: line %d: %q: %w", ErrMalformedRow, line, c, err)
				}
				rec.CategoryAverages[strings.TrimSuffix(c, AvgSuffix)] = f
			}
		}
		out = append(out, rec)
	}
	return out, nil
}

func formatFloat(f float64) string {
	return strconv.FormatFloat(f, 'f', -1, 64)
}

func formatDate(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.Format(DateLayout)
}

// WriteSkills writes records with one column per entry of skills, in order.
func WriteSkills(w io.Writer, records []model.SkillRecord, skills []string) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(append(append([]string{}, skillFixed...), skills...)); err != nil {
		return err
	}
	for _, r := range records {
		row := []string{
			r.EmployeeID, r.Location, r.Team, r.Shift, r.Process,
			formatDate(r.EvaluationDate), formatFloat(r.EfficiencyPct), formatFloat(r.DefectRatePct),
		}
		for _, s := range skills {
			if v, ok := r.Scores[s]; ok {
				row = append(row, strconv.Itoa(v))
			} else {
				row = append(row, "")
			}
		}
		if err := cw.Write(row); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

// WriteProduction writes records with one average column per category.
func WriteProduction(w io.Writer, records []model.DailyProductionRecord, categories []string) error {
	cw := csv.NewWriter(w)
	head := append([]string{}, productionFixed...)
	for _, c := range categories {
		head = append(head, c+AvgSuffix)
	}
	if err := cw.Write(head); err != nil {
		return err
	}
	for _, r := range records {
		row := []string{
			formatDate(r.Date), r.Location, r.Process, r.Shift, r.Team,
			strconv.Itoa(r.QuantityProduced), formatFloat(r.EfficiencyPct), formatFloat(r.DefectRatePct),
			formatFloat(r.YieldPct), formatFloat(r.AvgPredictedSkill),
		}
		for _, c := range categories {
			if v, ok := r.CategoryAverages[c]; ok {
				row = append(row, formatFloat(v))
			} else {
				row = append(row, "")
			}
		}
		if err := cw.Write(row); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}
