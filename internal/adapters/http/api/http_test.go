package api_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/ykato27/SDP-Analysis-Dashboard/internal/adapters/http/api"
	"github.com/ykato27/SDP-Analysis-Dashboard/internal/adapters/repository"
	service "github.com/ykato27/SDP-Analysis-Dashboard/internal/app"
	"github.com/ykato27/SDP-Analysis-Dashboard/internal/domain/catalog"
	"github.com/ykato27/SDP-Analysis-Dashboard/internal/domain/model"
	"github.com/ykato27/SDP-Analysis-Dashboard/pkg/logger"
	. "github.com/smartystreets/goconvey/convey"
)

func init() {
	if err := logger.Init(); err != nil {
		panic(err)
	}
}

func testHierarchy() *catalog.Hierarchy {
	h, err := catalog.New([]catalog.Category{
		{Name: "Operation", Skills: []string{"Furnace", "Crane"}},
		{Name: "Quality", Skills: []string{"Inspection"}},
	})
	if err != nil {
		panic(err)
	}
	return h
}

func employee(id, loc, shift string, furnace, crane, inspection int) model.SkillRecord {
	return model.SkillRecord{
		EmployeeID:    id,
		Location:      loc,
		Team:          "A",
		Shift:         shift,
		Process:       "Rolling",
		Scores:        map[string]int{"Furnace": furnace, "Crane": crane, "Inspection": inspection},
		EfficiencyPct: 80 + float64(furnace+crane),
		DefectRatePct: 6 - float64(inspection),
	}
}

func testDataset() repository.Dataset {
	return repository.Dataset{Skills: []model.SkillRecord{
		employee("E1", "JP", "Day", 5, 5, 4),
		employee("E2", "JP", "Night", 4, 4, 4),
		employee("E3", "IN", "Day", 2, 2, 3),
		employee("E4", "IN", "Night", 2, 3, 3),
		employee("E5", "BR", "Day", 3, 3, 2),
	}}
}

func newServer(started bool) (*http.ServeMux, *service.Service) {
	svc := service.New(
		service.WithHierarchy(testHierarchy()),
		service.WithDataset(testDataset()),
		service.WithImpactWeights(map[string]float64{"Operation": 2}, 1),
	)
	if started {
		if err := svc.Start(context.Background()); err != nil {
			panic(err)
		}
	}
	mux := http.NewServeMux()
	api.NewServer(svc).Register(context.Background(), mux)
	return mux, svc
}

func do(mux http.Handler, method, target string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, target, http.NoBody)
	w := httptest.NewRecorder()
	mux.ServeHTTP(w, req)
	return w
}

func decode(w *httptest.ResponseRecorder, v any) {
	So(json.Unmarshal(w.Body.Bytes(), v), ShouldBeNil)
}

type errorBody struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

func TestHealthAndStats(t *testing.T) {
	Convey("Given a started API server", t, func() {
		mux, svc := newServer(true)
		defer svc.Stop()

		Convey("When GET /healthz is called", func() {
			w := do(mux, http.MethodGet, "/healthz")

			Convey("Then it should report ok", func() {
				So(w.Code, ShouldEqual, http.StatusOK)
				So(w.Body.String(), ShouldContainSubstring, `"status":"ok"`)
			})
		})

		Convey("When GET /healthz asks for text metrics", func() {
			req := httptest.NewRequest(http.MethodGet, "/healthz", http.NoBody)
			req.Header.Set("Accept", "text/plain")
			w := httptest.NewRecorder()
			mux.ServeHTTP(w, req)

			Convey("Then it should expose the Prometheus registry", func() {
				So(w.Code, ShouldEqual, http.StatusOK)
				So(w.Body.String(), ShouldContainSubstring, "sdp_analysis_dataset_locations")
			})
		})

		Convey("When GET /stats is called", func() {
			w := do(mux, http.MethodGet, "/stats")
			var stats map[string]any
			decode(w, &stats)

			Convey("Then it should describe the dataset", func() {
				So(w.Code, ShouldEqual, http.StatusOK)
				So(stats["started"], ShouldEqual, true)
				So(stats["skillRecords"], ShouldEqual, 5.0)
			})
		})

		Convey("When POST /stats is called", func() {
			w := do(mux, http.MethodPost, "/stats")
			So(w.Code, ShouldEqual, http.StatusMethodNotAllowed)
		})
	})
}

func TestPriorities(t *testing.T) {
	Convey("Given a started API server", t, func() {
		mux, svc := newServer(true)
		defer svc.Stop()

		Convey("When GET /priorities is called with defaults", func() {
			w := do(mux, http.MethodGet, "/priorities")
			var report service.PriorityReport
			decode(w, &report)

			Convey("Then it should rank every gap with tiers", func() {
				So(w.Code, ShouldEqual, http.StatusOK)
				So(report.Total, ShouldEqual, 4)
				So(report.Rows[0].Key.Location, ShouldEqual, "IN")
				So(report.Rows[0].Metric, ShouldEqual, "Operation")
				So(string(report.Rows[0].Tier), ShouldEqual, "high")
			})
		})

		Convey("When GET /priorities narrows by location and limit", func() {
			w := do(mux, http.MethodGet, "/priorities?location=BR&limit=1&q_high=0.9")
			var report service.PriorityReport
			decode(w, &report)

			Convey("Then only that site is ranked", func() {
				So(w.Code, ShouldEqual, http.StatusOK)
				So(report.Total, ShouldEqual, 2)
				So(len(report.Rows), ShouldEqual, 1)
				So(report.Rows[0].Key.Location, ShouldEqual, "BR")
				So(report.Quantiles.High, ShouldEqual, 0.9)
				So(report.Quantiles.Medium, ShouldEqual, 0.5)
			})
		})

		Convey("When GET /priorities uses a bad preset", func() {
			w := do(mux, http.MethodGet, "/priorities?preset=coin_flip")
			var body errorBody
			decode(w, &body)

			Convey("Then it should be a bad request", func() {
				So(w.Code, ShouldEqual, http.StatusBadRequest)
				So(body.Code, ShouldEqual, service.KindInvalidArgument)
			})
		})

		Convey("When GET /priorities has inverted quantiles", func() {
			w := do(mux, http.MethodGet, "/priorities?q_medium=0.9&q_high=0.2")
			So(w.Code, ShouldEqual, http.StatusBadRequest)
		})

		Convey("When GET /priorities has a malformed number", func() {
			w := do(mux, http.MethodGet, "/priorities?q_high=high")
			So(w.Code, ShouldEqual, http.StatusBadRequest)
		})

		Convey("When GET /bottlenecks is called", func() {
			w := do(mux, http.MethodGet, "/bottlenecks")
			var report service.PriorityReport
			decode(w, &report)

			So(w.Code, ShouldEqual, http.StatusOK)
			So(string(report.Preset), ShouldEqual, "bottleneck")
			So(report.Total, ShouldEqual, 4)
		})

		Convey("When GET /bottlenecks selects one site", func() {
			w := do(mux, http.MethodGet, "/bottlenecks?location=IN")
			var report service.PriorityReport
			decode(w, &report)

			So(w.Code, ShouldEqual, http.StatusOK)
			So(report.Rows, ShouldHaveLength, 2)
			So(report.Rows[0].Metric, ShouldEqual, "Furnace")
			So(report.Rows[0].Key.Team, ShouldEqual, "A")
			So(report.Rows[0].Key.Location, ShouldBeEmpty)
		})
	})
}

func TestAnalysisEndpoints(t *testing.T) {
	Convey("Given a started API server", t, func() {
		mux, svc := newServer(true)
		defer svc.Stop()

		Convey("When GET /aggregate groups by shift", func() {
			w := do(mux, http.MethodGet, "/aggregate?group_by=shift&metric=Inspection")
			var rows []map[string]any
			decode(w, &rows)

			So(w.Code, ShouldEqual, http.StatusOK)
			So(len(rows), ShouldEqual, 2)
		})

		Convey("When GET /aggregate uses an unknown field", func() {
			w := do(mux, http.MethodGet, "/aggregate?group_by=planet")
			So(w.Code, ShouldEqual, http.StatusBadRequest)
		})

		Convey("When GET /gaps uses an explicit benchmark", func() {
			w := do(mux, http.MethodGet, "/gaps?benchmark=location:BR&metric=Quality")
			var rows []map[string]any
			decode(w, &rows)

			So(w.Code, ShouldEqual, http.StatusOK)
			So(len(rows), ShouldEqual, 2)
		})

		Convey("When GET /distribution omits the skill", func() {
			w := do(mux, http.MethodGet, "/distribution")
			So(w.Code, ShouldEqual, http.StatusBadRequest)
		})

		Convey("When GET /distribution names a category", func() {
			w := do(mux, http.MethodGet, "/distribution?skill=Quality")
			So(w.Code, ShouldEqual, http.StatusBadRequest)
		})

		Convey("When GET /distribution names a skill", func() {
			w := do(mux, http.MethodGet, "/distribution?skill=Furnace&location=IN")
			var d map[string]any
			decode(w, &d)

			So(w.Code, ShouldEqual, http.StatusOK)
			So(d["total"], ShouldEqual, 2.0)
			So(d["low_count"], ShouldEqual, 2.0)
		})

		Convey("When GET /summary is called", func() {
			w := do(mux, http.MethodGet, "/summary")
			So(w.Code, ShouldEqual, http.StatusOK)
			So(w.Body.String(), ShouldContainSubstring, `"benchmark":"JP"`)
		})

		Convey("When GET /monitoring names an unknown site", func() {
			w := do(mux, http.MethodGet, "/monitoring?location=XX")
			So(w.Code, ShouldEqual, http.StatusNotFound)
		})

		Convey("When GET /trend asks for an unknown kpi", func() {
			w := do(mux, http.MethodGet, "/trend?kpi=happiness")
			So(w.Code, ShouldEqual, http.StatusBadRequest)
		})

		Convey("When GET /trend fits employees", func() {
			w := do(mux, http.MethodGet, "/trend?kpi=defect_rate")
			So(w.Code, ShouldEqual, http.StatusOK)
			So(w.Body.String(), ShouldContainSubstring, `"x":"overall_skill"`)
		})

		Convey("When GET /investment targets a lagging site", func() {
			w := do(mux, http.MethodGet, "/investment?location=IN&packages=immediate,risk")
			var plan map[string]any
			decode(w, &plan)

			So(w.Code, ShouldEqual, http.StatusOK)
			So(plan["skill"], ShouldEqual, "Furnace")
			So(plan["total_cost"], ShouldEqual, 3.5)
			So(plan["trainees"], ShouldEqual, 2.0)
		})

		Convey("When GET /investment names an unknown package", func() {
			w := do(mux, http.MethodGet, "/investment?location=IN&packages=magic")
			So(w.Code, ShouldEqual, http.StatusBadRequest)
		})

		Convey("When GET /catalog is called", func() {
			w := do(mux, http.MethodGet, "/catalog")
			So(w.Code, ShouldEqual, http.StatusOK)
			So(w.Body.String(), ShouldContainSubstring, "Inspection")
		})
	})
}

func TestExport(t *testing.T) {
	Convey("Given a started API server", t, func() {
		mux, svc := newServer(true)
		defer svc.Stop()

		Convey("When exporting priorities as CSV", func() {
			w := do(mux, http.MethodGet, "/export/priorities?format=csv")

			Convey("Then it should download a table", func() {
				So(w.Code, ShouldEqual, http.StatusOK)
				So(w.Header().Get("Content-Type"), ShouldStartWith, "text/csv")
				So(w.Header().Get("Content-Disposition"), ShouldContainSubstring, "priorities_")
				So(strings.Count(w.Body.String(), "\n"), ShouldEqual, 5)
			})
		})

		Convey("When exporting priorities as XLSX", func() {
			w := do(mux, http.MethodGet, "/export/priorities")
			So(w.Code, ShouldEqual, http.StatusOK)
			So(w.Header().Get("Content-Disposition"), ShouldContainSubstring, ".xlsx")
			So(w.Body.Len(), ShouldBeGreaterThan, 0)
		})

		Convey("When exporting an unknown format", func() {
			w := do(mux, http.MethodGet, "/export/priorities?format=pdf")
			So(w.Code, ShouldEqual, http.StatusBadRequest)
		})
	})
}

func TestNotStarted(t *testing.T) {
	Convey("Given an API server whose service is not started", t, func() {
		mux, _ := newServer(false)

		Convey("When GET /priorities is called", func() {
			w := do(mux, http.MethodGet, "/priorities")
			var body errorBody
			decode(w, &body)

			Convey("Then it should be unavailable", func() {
				So(w.Code, ShouldEqual, http.StatusServiceUnavailable)
				So(body.Code, ShouldEqual, service.KindNotLoaded)
			})
		})
	})
}

func TestRequestIDMiddleware(t *testing.T) {
	Convey("Given a handler behind the request id middleware", t, func() {
		var seen string
		h := api.RequestIDMiddleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			seen = r.Header.Get(api.RequestIDHeader)
			w.WriteHeader(http.StatusNoContent)
		}))

		Convey("When the caller supplies an id", func() {
			req := httptest.NewRequest(http.MethodGet, "/", http.NoBody)
			req.Header.Set(api.RequestIDHeader, "abc")
			w := httptest.NewRecorder()
			h.ServeHTTP(w, req)

			So(w.Header().Get(api.RequestIDHeader), ShouldEqual, "abc")
			So(seen, ShouldEqual, "abc")
		})

		Convey("When the caller supplies none", func() {
			w := httptest.NewRecorder()
			h.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", http.NoBody))

			So(len(w.Header().Get(api.RequestIDHeader)), ShouldEqual, 36)
		})
	})
}
