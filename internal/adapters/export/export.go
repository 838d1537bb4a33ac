// Package export writes priority tables as spreadsheets.
package export

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/xuri/excelize/v2"

	"github.com/ykato27/SDP-Analysis-Dashboard/internal/domain/analysis"
	"github.com/ykato27/SDP-Analysis-Dashboard/internal/domain/model"
)

// Format is an output file format.
type Format string

const (
	FormatXLSX Format = "xlsx"
	FormatCSV  Format = "csv"
)

// ParseFormat accepts xlsx and csv, case-insensitively. Empty means xlsx.
func ParseFormat(s string) (Format, error) {
	switch Format(strings.ToLower(strings.TrimSpace(s))) {
	case "", FormatXLSX:
		return FormatXLSX, nil
	case FormatCSV:
		return FormatCSV, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnknownFormat, s)
	}
}

// ContentType is the MIME type of f.
func (f Format) ContentType() string {
	if f == FormatCSV {
		return "text/csv; charset=utf-8"
	}
	return "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
}

// FileName builds "<prefix>_<yyyymmdd_hhmmss>.<ext>".
func (f Format) FileName(prefix string, at time.Time) string {
	return fmt.Sprintf("%s_%s.%s", prefix, at.Format("20060102_150405"), f)
}

// Option configures a write.
type Option func(*options)

type options struct {
	sheet   string
	maxRows int
}

// WithSheetName names the xlsx sheet.
func WithSheetName(name string) Option {
	return func(o *options) {
		if name != "" {
			o.sheet = name
		}
	}
}

// WithMaxRows keeps only the first n rows; zero or less keeps all.
func WithMaxRows(n int) Option {
	return func(o *options) {
		o.maxRows = n
	}
}

// Tier fills, light red, amber and green.
var tierFill = map[analysis.Tier]string{
	analysis.TierHigh:   "FFC7CE",
	analysis.TierMedium: "FFEB9C",
	analysis.TierLow:    "C6EFCE",
}

type column struct {
	title string
	width float64
	value func(analysis.PriorityRow) any
}

func columns(rows []analysis.PriorityRow) []column {
	cols := []column{{"Rank", 8, func(r analysis.PriorityRow) any { return r.Rank }}}
	for _, f := range keyFields(rows) {
		cols = append(cols, column{strings.ToUpper(string(f[:1])) + string(f[1:]), 14, func(r analysis.PriorityRow) any { return r.Key.Get(f) }})
	}
	return append(cols,
		column{"Metric", 28, func(r analysis.PriorityRow) any { return r.Metric }},
		column{"Mean", 10, func(r analysis.PriorityRow) any { return round(r.Mean) }},
		column{"Std", 10, func(r analysis.PriorityRow) any { return round(r.Std) }},
		column{"Count", 8, func(r analysis.PriorityRow) any { return r.Count }},
		column{"Benchmark", 20, func(r analysis.PriorityRow) any { return benchmarkLabel(r) }},
		column{"Benchmark Mean", 16, func(r analysis.PriorityRow) any { return round(r.BenchmarkMean) }},
		column{"Gap", 10, func(r analysis.PriorityRow) any { return round(r.Gap) }},
		column{"Weight", 10, func(r analysis.PriorityRow) any { return r.Weight }},
		column{"Weighted Gap", 14, func(r analysis.PriorityRow) any { return round(r.WeightedGap) }},
		column{"Score", 10, func(r analysis.PriorityRow) any { return round(r.Score) }},
		column{"Tier", 10, func(r analysis.PriorityRow) any { return string(r.Tier) }},
	)
}

// keyFields are the grouping fields used by any row, in canonical order.
func keyFields(rows []analysis.PriorityRow) []model.Field {
	used := map[model.Field]bool{}
	for _, r := range rows {
		for _, f := range r.Key.SetFields() {
			used[f] = true
		}
	}
	out := make([]model.Field, 0, len(used))
	for _, f := range model.Fields {
		if used[f] {
			out = append(out, f)
		}
	}
	return out
}

func benchmarkLabel(r analysis.PriorityRow) string {
	if r.BenchmarkFallback {
		return "fallback"
	}
	if r.BenchmarkKey.IsZero() {
		return ""
	}
	return r.BenchmarkKey.String()
}

func round(x float64) float64 {
	v, _ := strconv.ParseFloat(strconv.FormatFloat(x, 'f', 3, 64), 64)
	return v
}

// WritePriorities writes rows to w in format.
func WritePriorities(w io.Writer, format Format, rows []analysis.PriorityRow, opts ...Option) error {
	o := options{sheet: "Priorities"}
	for _, opt := range opts {
		opt(&o)
	}
	if o.maxRows > 0 && len(rows) > o.maxRows {
		rows = rows[:o.maxRows]
	}
	switch format {
	case FormatXLSX:
		return writeXLSX(w, rows, o)
	case FormatCSV:
		return writeCSV(w, rows)
	default:
		return fmt.Errorf("%w: %q", ErrUnknownFormat, format)
	}
}

func writeCSV(w io.Writer, rows []analysis.PriorityRow) error {
	cols := columns(rows)
	cw := csv.NewWriter(w)
	head := make([]string, len(cols))
	for i, c := range cols {
		head[i] = c.title
	}
	if err := cw.Write(head); err != nil {
		return err
	}
	for _, r := range rows {
		rec := make([]string, len(cols))
		for i, c := range cols {
			rec[i] = fmt.Sprint(c.value(r))
		}
		if err := cw.Write(rec); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

func border() []excelize.Border {
	return []excelize.Border{
		{Type: "left", Color: "000000", Style: 1},
		{Type: "top", Color: "000000", Style: 1},
		{Type: "bottom", Color: "000000", Style: 1},
		{Type: "right", Color: "000000", Style: 1},
	}
}

func cell(col, row int) string {
	name, _ := excelize.CoordinatesToCellName(col, row)
	return name
}

func writeXLSX(w io.Writer, rows []analysis.PriorityRow, o options) error {
	f := excelize.NewFile()
	defer f.Close()

	sheet := o.sheet
	if err := f.SetSheetName("Sheet1", sheet); err != nil {
		return err
	}

	headerStyle, err := f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true, Size: 12, Color: "FFFFFF"},
		Fill:      excelize.Fill{Type: "pattern", Color: []string{"4F81BD"}, Pattern: 1},
		Alignment: &excelize.Alignment{Horizontal: "center", Vertical: "center"},
		Border:    border(),
	})
	if err != nil {
		return err
	}
	dataStyle, err := f.NewStyle(&excelize.Style{
		Alignment: &excelize.Alignment{Horizontal: "center", Vertical: "center"},
		Border:    border(),
	})
	if err != nil {
		return err
	}
	tierStyles := make(map[analysis.Tier]int, len(tierFill))
	for t, color := range tierFill {
		id, err := f.NewStyle(&excelize.Style{
			Font:      &excelize.Font{Bold: t == analysis.TierHigh},
			Fill:      excelize.Fill{Type: "pattern", Color: []string{color}, Pattern: 1},
			Alignment: &excelize.Alignment{Horizontal: "center", Vertical: "center"},
			Border:    border(),
		})
		if err != nil {
			return err
		}
		tierStyles[t] = id
	}
	summaryStyle, err := f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true, Size: 11},
		Fill:      excelize.Fill{Type: "pattern", Color: []string{"FFC000"}, Pattern: 1},
		Alignment: &excelize.Alignment{Horizontal: "center", Vertical: "center"},
		Border:    border(),
	})
	if err != nil {
		return err
	}

	cols := columns(rows)
	last := len(cols)
	for i, c := range cols {
		name, _ := excelize.ColumnNumberToName(i + 1)
		if err := f.SetColWidth(sheet, name, name, c.width); err != nil {
			return err
		}
		if err := f.SetCellValue(sheet, cell(i+1, 1), c.title); err != nil {
			return err
		}
	}
	if err := f.SetCellStyle(sheet, cell(1, 1), cell(last, 1), headerStyle); err != nil {
		return err
	}

	counts := map[analysis.Tier]int{}
	var totalWeighted float64
	for i, r := range rows {
		row := i + 2
		for j, c := range cols {
			if err := f.SetCellValue(sheet, cell(j+1, row), c.value(r)); err != nil {
				return err
			}
		}
		if err := f.SetCellStyle(sheet, cell(1, row), cell(last-1, row), dataStyle); err != nil {
			return err
		}
		if err := f.SetCellStyle(sheet, cell(last, row), cell(last, row), tierStyles[r.Tier]); err != nil {
			return err
		}
		counts[r.Tier]++
		totalWeighted += r.WeightedGap
	}

	summary := len(rows) + 2
	weightedCol := last - 2
	if err := f.SetCellValue(sheet, cell(1, summary), "Total"); err != nil {
		return err
	}
	if err := f.MergeCell(sheet, cell(1, summary), cell(weightedCol-1, summary)); err != nil {
		return err
	}
	if err := f.SetCellValue(sheet, cell(weightedCol, summary), round(totalWeighted)); err != nil {
		return err
	}
	label := fmt.Sprintf("%d rows: %d high, %d medium, %d low",
		len(rows), counts[analysis.TierHigh], counts[analysis.TierMedium], counts[analysis.TierLow])
	if err := f.SetCellValue(sheet, cell(weightedCol+1, summary), label); err != nil {
		return err
	}
	if err := f.MergeCell(sheet, cell(weightedCol+1, summary), cell(last, summary)); err != nil {
		return err
	}
	if err := f.SetCellStyle(sheet, cell(1, summary), cell(last, summary), summaryStyle); err != nil {
		return err
	}
	if err := f.SetPanes(sheet, &excelize.Panes{Freeze: true, YSplit: 1, TopLeftCell: "A2", ActivePane: "bottomLeft"}); err != nil {
		return err
	}

	return f.Write(w)
}
