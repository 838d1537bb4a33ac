package main

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"

	"github.com/smartystreets/goconvey/convey"

	"github.com/ykato27/SDP-Analysis-Dashboard/internal/adapters/http/api"
	"github.com/ykato27/SDP-Analysis-Dashboard/internal/adapters/mq/queue"
	"github.com/ykato27/SDP-Analysis-Dashboard/internal/adapters/mq/worker"
	app "github.com/ykato27/SDP-Analysis-Dashboard/internal/app"
	"github.com/ykato27/SDP-Analysis-Dashboard/internal/config"
	"github.com/ykato27/SDP-Analysis-Dashboard/pkg/logger"
)

func TestMainFunction(t *testing.T) {
	convey.Convey("Given the main application", t, func() {
		convey.So(logger.Init(), convey.ShouldBeNil)

		convey.Convey("When testing configuration loading", func() {
			// Test with environment variables
			_ = os.Setenv("SDP_ADDR", ":8080")
			_ = os.Setenv("SDP_EMPLOYEE_COUNT", "30")
			_ = os.Setenv("SDP_PRODUCTION_DAYS", "2")
			defer func() {
				_ = os.Unsetenv("SDP_ADDR")
				_ = os.Unsetenv("SDP_EMPLOYEE_COUNT")
				_ = os.Unsetenv("SDP_PRODUCTION_DAYS")
			}()

			cfg, err := config.Load(context.Background())
			convey.So(err, convey.ShouldBeNil)
			convey.So(cfg.Addr, convey.ShouldEqual, ":8080")
			convey.So(cfg.EmployeeCount, convey.ShouldEqual, 30)

			convey.Convey("Then the service starts from it and serves every route", func() {
				ctx := context.Background()
				svc := app.New(app.OptionsFromConfig(cfg)...)
				convey.So(svc.Start(ctx), convey.ShouldBeNil)
				defer svc.Stop()

				reloads := queue.NewInMemoryQueue()
				reloader := worker.NewInMemoryWorker(reloads, svc)
				h := newHandler(ctx, svc, api.NewReloadHandler(reloads, reloader, nil))
				for _, path := range []string{
					"/healthz", "/stats", "/catalog", "/priorities", "/bottlenecks",
					"/summary", "/shifts", "/trend", "/reload", "/openapi.yaml", "/api-docs", "/",
				} {
					w := httptest.NewRecorder()
					h.ServeHTTP(w, httptest.NewRequest(http.MethodGet, path, http.NoBody))
					convey.So(w.Code, convey.ShouldEqual, http.StatusOK)
					convey.So(w.Header().Get(api.RequestIDHeader), convey.ShouldNotBeEmpty)
				}
			})
		})

		convey.Convey("When testing invalid configuration", func() {
			_ = os.Setenv("SDP_TIER_QUANTILE_HIGH", "2")
			defer func() { _ = os.Unsetenv("SDP_TIER_QUANTILE_HIGH") }()

			convey.Convey("Then configuration loading should fail", func() {
				_, err := config.Load(context.Background())
				convey.So(err, convey.ShouldNotBeNil)
			})
		})

		convey.Convey("When testing system metrics update", func() {
			convey.Convey("Then it should update metrics without panicking", func() {
				convey.So(updateSystemMetrics, convey.ShouldNotPanic)
			})
		})

		convey.Convey("When the system metrics updater is cancelled", func() {
			ctx, cancel := context.WithCancel(context.Background())
			done := make(chan struct{})
			go func() {
				startSystemMetricsUpdater(ctx)
				close(done)
			}()
			cancel()

			convey.Convey("Then it should return", func() {
				<-done
				convey.So(ctx.Err(), convey.ShouldNotBeNil)
			})
		})
	})
}
