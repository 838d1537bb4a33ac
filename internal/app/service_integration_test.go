package service_test

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/ykato27/SDP-Analysis-Dashboard/internal/adapters/source"
	service "github.com/ykato27/SDP-Analysis-Dashboard/internal/app"
	"github.com/ykato27/SDP-Analysis-Dashboard/internal/domain/analysis"
	"github.com/ykato27/SDP-Analysis-Dashboard/internal/domain/catalog"
	"github.com/ykato27/SDP-Analysis-Dashboard/internal/synth"
	. "github.com/smartystreets/goconvey/convey"
)

func smallConfig() synth.Config {
	cfg := synth.DefaultConfig()
	cfg.Employees = 60
	cfg.Days = 5
	return cfg
}

func TestServiceIntegration(t *testing.T) {
	Convey("Given a service over a generated dataset", t, func() {
		svc := service.New(service.WithGenerator(smallConfig()))
		defer svc.Stop()

		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		So(svc.Start(ctx), ShouldBeNil)

		Convey("Then the dataset is reported as synthetic", func() {
			stats := svc.GetStats()
			So(stats["source"], ShouldEqual, service.SourceSynthetic)
			So(stats["batchId"], ShouldNotBeEmpty)
			So(stats["skillRecords"], ShouldEqual, 60)
			So(svc.Locations(ctx), ShouldContain, "JP")
		})

		Convey("When ranking every site against the benchmark", func() {
			report, err := svc.Priorities(ctx, service.Query{})
			So(err, ShouldBeNil)

			Convey("Then the benchmark site is never ranked", func() {
				So(report.Total, ShouldBeGreaterThan, 0)
				for _, r := range report.Rows {
					So(r.Key.Location, ShouldNotEqual, "JP")
				}
			})

			Convey("Then the lagging sites trail the benchmark", func() {
				So(report.Rows[0].WeightedGap, ShouldBeGreaterThan, 0)
				So(report.Rows[0].Tier, ShouldEqual, analysis.TierHigh)
			})
		})

		Convey("When the dataset round-trips through CSV", func() {
			dir := t.TempDir()
			skillsPath := filepath.Join(dir, "skills.csv")
			productionPath := filepath.Join(dir, "production.csv")
			h := catalog.Default()

			gen, err := synth.New(smallConfig(), h)
			So(err, ShouldBeNil)
			res, err := gen.Generate(ctx)
			So(err, ShouldBeNil)
			So(source.WriteFiles(res.Dataset, skillsPath, productionPath, h.Skills(), h.CategoryNames()), ShouldBeNil)

			fromCSV := service.New(service.WithDataFiles(skillsPath, productionPath))
			defer fromCSV.Stop()
			So(fromCSV.Start(ctx), ShouldBeNil)

			Convey("Then the ranking matches the generated one", func() {
				want, err := svc.Priorities(ctx, service.Query{})
				So(err, ShouldBeNil)
				got, err := fromCSV.Priorities(ctx, service.Query{})
				So(err, ShouldBeNil)

				So(fromCSV.GetStats()["source"], ShouldEqual, service.SourceCSV)
				So(got.Total, ShouldEqual, want.Total)
				So(got.Rows[0].Key, ShouldResemble, want.Rows[0].Key)
				So(got.Rows[0].Metric, ShouldEqual, want.Rows[0].Metric)
				So(got.Rows[0].WeightedGap, ShouldAlmostEqual, want.Rows[0].WeightedGap)
			})
		})

		Convey("When the generator config is invalid", func() {
			cfg := smallConfig()
			cfg.Employees = -1
			bad := service.New(service.WithGenerator(cfg))

			Convey("Then Start fails", func() {
				So(bad.Start(ctx), ShouldNotBeNil)
			})
		})
	})
}

func TestServiceReload(t *testing.T) {
	Convey("Given a service over a generated dataset", t, func() {
		ctx := context.Background()
		svc := service.New(service.WithGenerator(smallConfig()))

		Convey("When reloading before Start", func() {
			_, err := svc.Reload(ctx, nil)

			Convey("Then it should report not started", func() {
				So(errors.Is(err, service.ErrNotStarted), ShouldBeTrue)
			})
		})

		Convey("When reloading with a new seed", func() {
			So(svc.Start(ctx), ShouldBeNil)
			defer svc.Stop()

			seed := int64(7)
			res, err := svc.Reload(ctx, &seed)
			So(err, ShouldBeNil)

			Convey("Then the new dataset is published", func() {
				So(res.Source, ShouldEqual, service.SourceSynthetic)
				So(res.Skills, ShouldEqual, 60)
				So(res.BatchID, ShouldNotBeEmpty)
				So(svc.GetStats()["batchId"], ShouldEqual, res.BatchID)
			})

			Convey("Then it ranks like a service started with that seed", func() {
				cfg := smallConfig()
				cfg.Seed = 7
				fresh := service.New(service.WithGenerator(cfg))
				So(fresh.Start(ctx), ShouldBeNil)
				defer fresh.Stop()

				got, err := svc.Priorities(ctx, service.Query{})
				So(err, ShouldBeNil)
				want, err := fresh.Priorities(ctx, service.Query{})
				So(err, ShouldBeNil)
				So(got.Rows, ShouldResemble, want.Rows)
			})

			Convey("Then a reload without a seed keeps it", func() {
				again, err := svc.Reload(ctx, nil)
				So(err, ShouldBeNil)
				So(again.Skills, ShouldEqual, 60)
				So(svc.GeneratorConfig().Seed, ShouldEqual, 7)
			})
		})
	})
}
