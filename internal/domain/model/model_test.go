package model_test

import (
	"errors"
	"testing"
	"time"

	model "github.com/ykato27/SDP-Analysis-Dashboard/internal/domain/model"
	"github.com/smartystreets/goconvey/convey"
)

func TestGroupKey(t *testing.T) {
	convey.Convey("Given a group key", t, func() {
		k := model.GroupKey{Location: "Site A", Team: "A", Shift: "Day", Process: "Rolling"}

		convey.Convey("When projecting onto a subset of fields", func() {
			p := k.Project([]model.Field{model.FieldTeam, model.FieldShift})

			convey.Convey("Then only those fields are kept", func() {
				convey.So(p, convey.ShouldResemble, model.GroupKey{Team: "A", Shift: "Day"})
				convey.So(p.SetFields(), convey.ShouldResemble, []model.Field{model.FieldTeam, model.FieldShift})
			})
		})

		convey.Convey("When overlaying a benchmark key", func() {
			o := k.Overlay(model.GroupKey{Location: "Japan"})

			convey.Convey("Then the benchmark fields are substituted", func() {
				convey.So(o.Location, convey.ShouldEqual, "Japan")
				convey.So(o.Team, convey.ShouldEqual, "A")
				convey.So(o.Process, convey.ShouldEqual, "Rolling")
			})
		})

		convey.Convey("When rendering", func() {
			convey.So(k.String(), convey.ShouldEqual, "location=Site A,team=A,shift=Day,process=Rolling")
			convey.So(model.GroupKey{}.String(), convey.ShouldEqual, "*")
			convey.So(model.GroupKey{}.IsZero(), convey.ShouldBeTrue)
		})

		convey.Convey("When ordering", func() {
			a := model.GroupKey{Location: "Japan", Team: "B"}
			b := model.GroupKey{Location: "Japan", Team: "C"}
			convey.So(a.Less(b), convey.ShouldBeTrue)
			convey.So(b.Less(a), convey.ShouldBeFalse)
			convey.So(a.Less(a), convey.ShouldBeFalse)
		})
	})
}

func TestParseFields(t *testing.T) {
	convey.Convey("Given field names", t, func() {
		convey.Convey("When they are valid with duplicates and mixed case", func() {
			fields, err := model.ParseFields([]string{"Location", "team", "location", " "})

			convey.Convey("Then duplicates are dropped in order", func() {
				convey.So(err, convey.ShouldBeNil)
				convey.So(fields, convey.ShouldResemble, []model.Field{model.FieldLocation, model.FieldTeam})
			})
		})

		convey.Convey("When one is unknown", func() {
			_, err := model.ParseFields([]string{"team", "region"})

			convey.Convey("Then ErrUnknownField is returned", func() {
				convey.So(errors.Is(err, model.ErrUnknownField), convey.ShouldBeTrue)
			})
		})
	})
}

func TestParseGroupKey(t *testing.T) {
	convey.Convey("Given a benchmark expression", t, func() {
		convey.Convey("When it uses both separators", func() {
			k, err := model.ParseGroupKey("location:Japan, shift=Day")

			convey.So(err, convey.ShouldBeNil)
			convey.So(k, convey.ShouldResemble, model.GroupKey{Location: "Japan", Shift: "Day"})
		})

		convey.Convey("When a pair has no value", func() {
			_, err := model.ParseGroupKey("location:")

			convey.So(errors.Is(err, model.ErrMalformedKey), convey.ShouldBeTrue)
		})

		convey.Convey("When the field is unknown", func() {
			_, err := model.ParseGroupKey("region:EU")

			convey.So(errors.Is(err, model.ErrUnknownField), convey.ShouldBeTrue)
		})
	})
}

func TestSkillRecord(t *testing.T) {
	convey.Convey("Given a skill record", t, func() {
		r := model.SkillRecord{
			EmployeeID: "E0001",
			Location:   "Japan",
			Scores:     map[string]int{"Daily Inspection": 4, "Failure Response": 2},
		}

		convey.Convey("Then the overall score is the mean", func() {
			v, ok := r.Overall()
			convey.So(ok, convey.ShouldBeTrue)
			convey.So(v, convey.ShouldEqual, 3.0)
			convey.So(r.Validate(), convey.ShouldBeNil)
		})

		convey.Convey("When a score leaves the 1..5 range", func() {
			r.Scores["Failure Response"] = 6

			convey.So(errors.Is(r.Validate(), model.ErrScoreOutOfRange), convey.ShouldBeTrue)
		})

		convey.Convey("When it has no scores", func() {
			_, ok := model.SkillRecord{}.Overall()
			convey.So(ok, convey.ShouldBeFalse)
		})
	})
}

func TestFilter(t *testing.T) {
	convey.Convey("Given production records", t, func() {
		day := func(d int) time.Time { return time.Date(2025, 1, d, 0, 0, 0, 0, time.UTC) }
		records := []model.DailyProductionRecord{
			{Date: day(1), Location: "Japan", Shift: "Day"},
			{Date: day(2), Location: "Site A", Shift: "Night"},
			{Date: day(3), Location: "Site A", Shift: "Day"},
		}

		convey.Convey("When filtering by location and date range", func() {
			out := model.FilterProduction(records, model.Filter{Locations: []string{"Site A"}, From: day(3)})

			convey.So(out, convey.ShouldHaveLength, 1)
			convey.So(out[0].Date, convey.ShouldEqual, day(3))
		})

		convey.Convey("When nothing matches", func() {
			out := model.FilterProduction(records, model.Filter{Teams: []string{"Z"}})

			convey.Convey("Then the result is empty but not nil", func() {
				convey.So(out, convey.ShouldNotBeNil)
				convey.So(out, convey.ShouldBeEmpty)
			})
		})
	})
}
