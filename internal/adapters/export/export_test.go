package export

import (
	"bytes"
	"encoding/csv"
	"errors"
	"testing"
	"time"

	. "github.com/smartystreets/goconvey/convey"
	"github.com/xuri/excelize/v2"

	"github.com/ykato27/SDP-Analysis-Dashboard/internal/domain/analysis"
	"github.com/ykato27/SDP-Analysis-Dashboard/internal/domain/model"
)

func sampleRows() []analysis.PriorityRow {
	row := func(rank int, loc, team string, gap float64, tier analysis.Tier) analysis.PriorityRow {
		return analysis.PriorityRow{
			Rank: rank,
			GapResult: analysis.GapResult{
				Key:           model.GroupKey{Location: loc, Team: team},
				Metric:        "Quality Control",
				Mean:          3 - gap,
				Std:           0.5,
				Count:         4,
				BenchmarkKey:  model.GroupKey{Location: "JP", Team: team},
				BenchmarkMean: 3,
				Gap:           gap,
				Weight:        1.4,
				WeightedGap:   gap * 1.4,
			},
			Score: gap * 1.4,
			Tier:  tier,
		}
	}
	return []analysis.PriorityRow{
		row(1, "IN", "A", 1.5, analysis.TierHigh),
		row(2, "BR", "B", 1.0, analysis.TierMedium),
		row(3, "VN", "A", 0.25, analysis.TierLow),
	}
}

func TestParseFormat(t *testing.T) {
	Convey("Given format names", t, func() {
		f, err := ParseFormat("")
		So(err, ShouldBeNil)
		So(f, ShouldEqual, FormatXLSX)

		f, err = ParseFormat(" CSV ")
		So(err, ShouldBeNil)
		So(f, ShouldEqual, FormatCSV)
		So(f.ContentType(), ShouldStartWith, "text/csv")

		_, err = ParseFormat("pdf")
		So(errors.Is(err, ErrUnknownFormat), ShouldBeTrue)

		at := time.Date(2025, 2, 3, 4, 5, 6, 0, time.UTC)
		So(FormatXLSX.FileName("priorities", at), ShouldEqual, "priorities_20250203_040506.xlsx")
	})
}

func TestWritePrioritiesCSV(t *testing.T) {
	Convey("Given ranked rows", t, func() {
		var buf bytes.Buffer
		So(WritePriorities(&buf, FormatCSV, sampleRows()), ShouldBeNil)

		recs, err := csv.NewReader(&buf).ReadAll()
		So(err, ShouldBeNil)

		Convey("Then only the grouped key columns appear", func() {
			So(recs, ShouldHaveLength, 4)
			So(recs[0][:4], ShouldResemble, []string{"Rank", "Location", "Team", "Metric"})
			So(recs[1][1], ShouldEqual, "IN")
			So(recs[1][len(recs[1])-1], ShouldEqual, "high")
			So(recs[1][7], ShouldEqual, "location=JP,team=A")
		})
	})

	Convey("Given a row limit", t, func() {
		var buf bytes.Buffer
		So(WritePriorities(&buf, FormatCSV, sampleRows(), WithMaxRows(1)), ShouldBeNil)
		recs, err := csv.NewReader(&buf).ReadAll()
		So(err, ShouldBeNil)
		So(recs, ShouldHaveLength, 2)
	})

	Convey("Given an unknown format", t, func() {
		err := WritePriorities(&bytes.Buffer{}, Format("pdf"), sampleRows())
		So(errors.Is(err, ErrUnknownFormat), ShouldBeTrue)
	})
}

func TestWritePrioritiesXLSX(t *testing.T) {
	Convey("Given ranked rows written as xlsx", t, func() {
		var buf bytes.Buffer
		So(WritePriorities(&buf, FormatXLSX, sampleRows(), WithSheetName("Gaps")), ShouldBeNil)

		f, err := excelize.OpenReader(&buf)
		So(err, ShouldBeNil)
		defer f.Close()

		Convey("Then the sheet holds header, rows and summary", func() {
			So(f.GetSheetName(0), ShouldEqual, "Gaps")

			head, err := f.GetCellValue("Gaps", "A1")
			So(err, ShouldBeNil)
			So(head, ShouldEqual, "Rank")

			loc, err := f.GetCellValue("Gaps", "B2")
			So(err, ShouldBeNil)
			So(loc, ShouldEqual, "IN")

			tier, err := f.GetCellValue("Gaps", "N4")
			So(err, ShouldBeNil)
			So(tier, ShouldEqual, "low")

			total, err := f.GetCellValue("Gaps", "A5")
			So(err, ShouldBeNil)
			So(total, ShouldEqual, "Total")

			label, err := f.GetCellValue("Gaps", "M5")
			So(err, ShouldBeNil)
			So(label, ShouldEqual, "3 rows: 1 high, 1 medium, 1 low")
		})
	})

	Convey("Given no rows", t, func() {
		var buf bytes.Buffer
		So(WritePriorities(&buf, FormatXLSX, nil), ShouldBeNil)
		f, err := excelize.OpenReader(&buf)
		So(err, ShouldBeNil)
		defer f.Close()
		v, err := f.GetCellValue("Priorities", "A2")
		So(err, ShouldBeNil)
		So(v, ShouldEqual, "Total")
	})
}
