package config_test

import (
	"context"
	"errors"
	"os"
	"testing"
	"time"

	"github.com/smartystreets/goconvey/convey"

	"github.com/ykato27/SDP-Analysis-Dashboard/internal/config"
	"github.com/ykato27/SDP-Analysis-Dashboard/internal/domain/catalog"
)

func TestConfigLoader(t *testing.T) {
	convey.Convey("Given a config loader", t, func() {
		ctx := context.Background()

		convey.Convey("When loading config with defaults only", func() {
			clearConfigEnvVars()

			cfg, err := config.Load(ctx)

			convey.Convey("Then it should load successfully with defaults", func() {
				convey.So(err, convey.ShouldBeNil)
				convey.So(cfg, convey.ShouldNotBeNil)
				convey.So(cfg.Addr, convey.ShouldEqual, ":9080")
				convey.So(cfg.EmployeeCount, convey.ShouldEqual, 250)
				convey.So(cfg.SkillsCSV, convey.ShouldBeEmpty)
			})
		})

		convey.Convey("When loading config with environment variables", func() {
			_ = os.Setenv("SDP_ADDR", ":8080")
			_ = os.Setenv("SDP_LOG_FORMAT", "json")
			_ = os.Setenv("SDP_TIER_QUANTILE_MEDIUM", "0.4")
			_ = os.Setenv("SDP_TIER_QUANTILE_HIGH", "0.9")
			_ = os.Setenv("SDP_SEED", "7")
			_ = os.Setenv("SDP_BENCHMARK_LOCATION", "IN")
			defer clearConfigEnvVars()

			cfg, err := config.Load(ctx)

			convey.Convey("Then it should override defaults with env vars", func() {
				convey.So(err, convey.ShouldBeNil)
				convey.So(cfg.Addr, convey.ShouldEqual, ":8080")
				convey.So(cfg.LogFormat, convey.ShouldEqual, "json")
				convey.So(cfg.TierQuantileMedium, convey.ShouldEqual, 0.4)
				convey.So(cfg.TierQuantileHigh, convey.ShouldEqual, 0.9)
				convey.So(cfg.Seed, convey.ShouldEqual, 7)
				convey.So(cfg.BenchmarkLocation, convey.ShouldEqual, "IN")
			})
		})

		convey.Convey("When loading config with YAML file", func() {
			yamlContent := `
addr: ":9090"
skills_csv: data/skills.csv
production_csv: data/production.csv
missing_benchmark_policy: substitute
missing_benchmark_value: 3.5
impact_weights:
  Quality Control: 2.0
max_export_rows: 500
reload_timeout: 45s
`
			tmpFile := createTempConfigFile(yamlContent)
			defer func() { _ = os.Remove(tmpFile) }()

			_ = os.Setenv("SDP_CONFIG", tmpFile)
			defer clearConfigEnvVars()

			cfg, err := config.Load(ctx)

			convey.Convey("Then it should load from YAML file", func() {
				convey.So(err, convey.ShouldBeNil)
				convey.So(cfg.Addr, convey.ShouldEqual, ":9090")
				convey.So(cfg.SkillsCSV, convey.ShouldEqual, "data/skills.csv")
				convey.So(cfg.ProductionCSV, convey.ShouldEqual, "data/production.csv")
				convey.So(cfg.MissingBenchmarkPolicy, convey.ShouldEqual, config.PolicySubstitute)
				convey.So(cfg.MissingBenchmarkValue, convey.ShouldEqual, 3.5)
				convey.So(cfg.ReloadTimeout, convey.ShouldEqual, 45*time.Second)
				convey.So(cfg.ImpactWeights[catalog.QualityControl], convey.ShouldEqual, 2.0)
				convey.So(cfg.MaxExportRows, convey.ShouldEqual, 500)
			})
		})

		convey.Convey("When loading config with both file and environment variables", func() {
			yamlContent := `
addr: ":9090"
employee_count: 100
production_days: 10
`
			tmpFile := createTempConfigFile(yamlContent)
			defer func() { _ = os.Remove(tmpFile) }()

			_ = os.Setenv("SDP_CONFIG", tmpFile)
			_ = os.Setenv("SDP_ADDR", ":8080")
			_ = os.Setenv("SDP_EMPLOYEE_COUNT", "40")
			defer clearConfigEnvVars()

			cfg, err := config.Load(ctx)

			convey.Convey("Then environment variables should override file values", func() {
				convey.So(err, convey.ShouldBeNil)
				convey.So(cfg.Addr, convey.ShouldEqual, ":8080")      // Overridden by env
				convey.So(cfg.EmployeeCount, convey.ShouldEqual, 40)  // Overridden by env
				convey.So(cfg.ProductionDays, convey.ShouldEqual, 10) // From file
				convey.So(cfg.MaxSkillScore, convey.ShouldEqual, 5)   // From defaults
			})
		})

		convey.Convey("When loading config with invalid YAML file", func() {
			tmpFile := createTempConfigFile(`invalid: yaml: content: [`)
			defer func() { _ = os.Remove(tmpFile) }()

			_ = os.Setenv("SDP_CONFIG", tmpFile)
			defer clearConfigEnvVars()

			cfg, err := config.Load(ctx)

			convey.Convey("Then it should return a load error", func() {
				convey.So(errors.Is(err, config.ErrLoadConfig), convey.ShouldBeTrue)
				convey.So(cfg, convey.ShouldBeNil)
			})
		})

		convey.Convey("When loading config with non-existent file", func() {
			_ = os.Setenv("SDP_CONFIG", "/non/existent/file.yaml")
			defer clearConfigEnvVars()

			cfg, err := config.Load(ctx)

			convey.Convey("Then it should return an error", func() {
				convey.So(err, convey.ShouldNotBeNil)
				convey.So(cfg, convey.ShouldBeNil)
			})
		})

		convey.Convey("When loading config with empty addr", func() {
			_ = os.Setenv("SDP_ADDR", "")
			defer clearConfigEnvVars()

			cfg, err := config.Load(ctx)

			convey.Convey("Then it should return a validation error", func() {
				convey.So(errors.Is(err, config.ErrInvalidConfig), convey.ShouldBeTrue)
				convey.So(err.Error(), convey.ShouldContainSubstring, "addr must not be empty")
				convey.So(cfg, convey.ShouldBeNil)
			})
		})

		convey.Convey("When loading config with inverted quantiles", func() {
			_ = os.Setenv("SDP_TIER_QUANTILE_MEDIUM", "0.9")
			_ = os.Setenv("SDP_TIER_QUANTILE_HIGH", "0.2")
			defer clearConfigEnvVars()

			_, err := config.Load(ctx)

			convey.Convey("Then validation rejects them", func() {
				convey.So(errors.Is(err, config.ErrInvalidConfig), convey.ShouldBeTrue)
			})
		})

		convey.Convey("When loading config with invalid numeric environment variables", func() {
			_ = os.Setenv("SDP_EMPLOYEE_COUNT", "not_a_number")
			defer clearConfigEnvVars()

			cfg, err := config.Load(ctx)

			convey.Convey("Then it should return an error", func() {
				convey.So(err, convey.ShouldNotBeNil)
				convey.So(cfg, convey.ShouldBeNil)
			})
		})
	})
}

// Helper functions.

func clearConfigEnvVars() {
	envVars := []string{
		"SDP_CONFIG",
		"SDP_ADDR",
		"SDP_LOG_FORMAT",
		"SDP_TIER_QUANTILE_MEDIUM",
		"SDP_TIER_QUANTILE_HIGH",
		"SDP_SEED",
		"SDP_BENCHMARK_LOCATION",
		"SDP_EMPLOYEE_COUNT",
	}
	for _, envVar := range envVars {
		_ = os.Unsetenv(envVar)
	}
}

func createTempConfigFile(content string) string {
	tmpFile, err := os.CreateTemp("", "sdp-config-*.yaml")
	if err != nil {
		panic(err)
	}

	if _, err := tmpFile.WriteString(content); err != nil {
		panic(err)
	}

	if err := tmpFile.Close(); err != nil {
		panic(err)
	}

	return tmpFile.Name()
}
