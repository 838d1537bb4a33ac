package source

import (
	"bytes"
	"context"
	"errors"
	"path/filepath"
	"strings"
	"testing"
	"time"

	. "github.com/smartystreets/goconvey/convey"

	"github.com/ykato27/SDP-Analysis-Dashboard/internal/adapters/repository"
	"github.com/ykato27/SDP-Analysis-Dashboard/internal/domain/catalog"
	"github.com/ykato27/SDP-Analysis-Dashboard/internal/domain/model"
)

const skillsCSV = "\ufeffemployee_id,location,team,shift,process,evaluation_date,efficiency_pct,defect_rate_pct,Surface Inspection,Daily Inspection,Nickname\n" +
	"E001,JP,A,Day,Rolling,2025-03-01,91.5,1.2,5,4,x\n" +
	"E002,TH,B,Night,Rolling,2025-03-02,82,3.4,2,,y\n" +
	"E003,TH,B,Night,Rolling,,,,3.0,1,z\n"

const plainSkillsCSV = "\ufeffemployee_id,location,team,shift,process,evaluation_date,efficiency_pct,defect_rate_pct,Surface Inspection,Daily Inspection\n" +
	"E001,JP,A,Day,Rolling,2025-03-01,91.5,1.2,5,4\n" +
	"E002,TH,B,Night,Rolling,2025-03-02,82,3.4,2,\n" +
	"E003,TH,B,Night,Rolling,,,,3.0,1\n"

const productionCSV = "date,location,process,shift,team,quantity_produced,efficiency_pct,defect_rate_pct,yield_pct,avg_predicted_skill,Quality Control_avg\n" +
	"2025-03-01,JP,Rolling,Day,A,1520,92.1,1.5,98.5,3.9,4.2\n" +
	"2025-03-01,TH,Rolling,Night,B,980.0,81.3,3.8,,2.7,\n"

func TestReadSkills(t *testing.T) {
	Convey("Given a skill CSV", t, func() {
		Convey("When reading without a catalog", func() {
			recs, err := ReadSkills(strings.NewReader(plainSkillsCSV))

			Convey("Then every non-fixed column is a score column", func() {
				So(err, ShouldEqual, nil)
				So(recs, ShouldHaveLength, 3)
				So(recs[0].EmployeeID, ShouldEqual, "E001")
				So(recs[0].Scores, ShouldResemble, map[string]int{"Surface Inspection": 5, "Daily Inspection": 4})
				So(recs[0].EvaluationDate, ShouldEqual, time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC))
				So(recs[0].EfficiencyPct, ShouldEqual, 91.5)
			})
		})

		Convey("When reading with the steel catalog", func() {
			recs, err := ReadSkills(strings.NewReader(skillsCSV), WithCatalog(catalog.Default()))

			Convey("Then unknown columns are ignored and blanks are left out", func() {
				So(err, ShouldBeNil)
				So(recs[1].Scores, ShouldResemble, map[string]int{"Surface Inspection": 2})
				So(recs[2].Scores, ShouldResemble, map[string]int{"Surface Inspection": 3, "Daily Inspection": 1})
				So(recs[2].EvaluationDate.IsZero(), ShouldBeTrue)
			})
		})

		Convey("When a score is out of range", func() {
			in := "employee_id,location,team,shift,process,Surface Inspection\nE1,JP,A,Day,Rolling,6\n"
			_, err := ReadSkills(strings.NewReader(in))

			Convey("Then the read fails", func() {
				So(errors.Is(err, model.ErrScoreOutOfRange), ShouldBeTrue)
			})
		})

		Convey("When a score is not a whole number", func() {
			in := "employee_id,location,team,shift,process,Surface Inspection\nE1,JP,A,Day,Rolling,2.5\n"
			_, err := ReadSkills(strings.NewReader(in))

			Convey("Then the row is malformed", func() {
				So(errors.Is(err, ErrMalformedRow), ShouldBeTrue)
			})
		})

		Convey("When a fixed column is missing", func() {
			_, err := ReadSkills(strings.NewReader("employee_id,location,team,process\n"))

			Convey("Then it is reported", func() {
				So(errors.Is(err, ErrMissingColumn), ShouldBeTrue)
				So(err.Error(), ShouldContainSubstring, "shift")
			})
		})

		Convey("When the file is empty", func() {
			_, err := ReadSkills(strings.NewReader(""))
			So(errors.Is(err, ErrEmptyFile), ShouldBeTrue)
		})
	})
}

func TestReadProduction(t *testing.T) {
	Convey("Given a production CSV", t, func() {
		recs, err := ReadProduction(strings.NewReader(productionCSV))

		Convey("Then rows and category averages are parsed", func() {
			So(err, ShouldBeNil)
			So(recs, ShouldHaveLength, 2)
			So(recs[0].QuantityProduced, ShouldEqual, 1520)
			So(recs[0].CategoryAverages, ShouldResemble, map[string]float64{catalog.QualityControl: 4.2})
			So(recs[1].QuantityProduced, ShouldEqual, 980)
			So(recs[1].YieldPct, ShouldEqual, 0)
			So(recs[1].CategoryAverages, ShouldBeEmpty)
		})

		Convey("When a date is missing", func() {
			in := "date,location,process,shift,efficiency_pct,defect_rate_pct\n,JP,Rolling,Day,90,2\n"
			_, err := ReadProduction(strings.NewReader(in))
			So(errors.Is(err, ErrMalformedRow), ShouldBeTrue)
		})
	})
}

func TestWriteRoundTrip(t *testing.T) {
	Convey("Given records written to CSV", t, func() {
		skills := []string{"Surface Inspection", "Daily Inspection"}
		recs, err := ReadSkills(strings.NewReader(skillsCSV), WithCatalog(catalog.Default()))
		So(err, ShouldBeNil)

		var buf bytes.Buffer
		So(WriteSkills(&buf, recs, skills), ShouldBeNil)

		Convey("Then reading them back yields the same records", func() {
			back, err := ReadSkills(&buf)
			So(err, ShouldBeNil)
			So(back, ShouldResemble, recs)
		})
	})

	Convey("Given a dataset written to files", t, func() {
		dir := t.TempDir()
		sp, pp := filepath.Join(dir, "skills.csv"), filepath.Join(dir, "production.csv")
		prod, err := ReadProduction(strings.NewReader(productionCSV))
		So(err, ShouldBeNil)
		skills, err := ReadSkills(strings.NewReader(skillsCSV), WithCatalog(catalog.Default()))
		So(err, ShouldBeNil)

		ds := repository.Dataset{Skills: skills, Production: prod}
		So(WriteFiles(ds, sp, pp, []string{"Surface Inspection", "Daily Inspection"}, []string{catalog.QualityControl}), ShouldBeNil)

		Convey("Then LoadFiles restores it", func() {
			got, err := LoadFiles(context.Background(), sp, pp)
			So(err, ShouldBeNil)
			So(got.Skills, ShouldResemble, ds.Skills)
			So(got.Production, ShouldHaveLength, 2)
			So(got.Production[0].CategoryAverages[catalog.QualityControl], ShouldEqual, 4.2)
		})

		Convey("Then a missing file is an error", func() {
			_, err := LoadFiles(context.Background(), filepath.Join(dir, "nope.csv"), "")
			So(err, ShouldNotBeNil)
		})
	})
}
