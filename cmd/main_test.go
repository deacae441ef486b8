package main

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/smartystreets/goconvey/convey"

	"github.com/okian/medalboard/internal/adapters/http/api"
	"github.com/okian/medalboard/internal/config"
	"github.com/okian/medalboard/pkg/logger"
)

func init() {
	if err := logger.Init(); err != nil {
		panic(err)
	}
}

var dataFiles = map[string]string{ //nolint:gochecknoglobals // test fixture
	"athletes.csv": "code,name,gender,country_code,country,birth_date,disciplines\n" +
		"1,MARCHAND Leon,Male,FRA,France,2002-05-17,['Swimming']\n",
	"events.csv":       "event,sport\nMen's 400m Individual Medley,Swimming\n",
	"medals_total.csv": "country_code,country,Gold Medal,Silver Medal,Bronze Medal,Total\nFRA,France,16,26,22,64\n",
}

func writeData(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	for name, body := range dataFiles {
		if err := os.WriteFile(filepath.Join(dir, name), []byte(body), 0o600); err != nil {
			t.Fatal(err)
		}
	}
	return dir
}

func TestConfigFromEnv(t *testing.T) {
	convey.Convey("Given medalboard environment variables", t, func() {
		t.Setenv("MEDALBOARD_ADDR", ":8081")
		t.Setenv("MEDALBOARD_WARMUP_WORKERS", "3")
		t.Setenv("MEDALBOARD_CORS_ORIGINS", "https://a.example, https://b.example")

		convey.Convey("When the configuration is loaded", func() {
			cfg, err := config.Load(context.Background())

			convey.Convey("Then the overrides are applied", func() {
				convey.So(err, convey.ShouldBeNil)
				convey.So(cfg.Addr, convey.ShouldEqual, ":8081")
				convey.So(cfg.WarmupWorkers, convey.ShouldEqual, 3)
				convey.So(cfg.CORSOrigins, convey.ShouldResemble, []string{"https://a.example", "https://b.example"})
			})
		})
	})
}

func TestHandlerChain(t *testing.T) {
	convey.Convey("Given a started service behind the full handler chain", t, func() {
		ctx := context.Background()
		cfg := config.New(ctx)
		cfg.DataDir = writeData(t)
		cfg.WarmupWorkers = 1

		svc, err := newService(cfg, logger.Get())
		convey.So(err, convey.ShouldBeNil)
		convey.So(svc.Start(ctx), convey.ShouldBeNil)
		defer func() { _ = svc.Stop(ctx) }()

		h := newHandler(ctx, cfg, svc)
		serve := func(req *http.Request) *httptest.ResponseRecorder {
			w := httptest.NewRecorder()
			h.ServeHTTP(w, req)
			return w
		}

		convey.Convey("When health is checked", func() {
			w := serve(httptest.NewRequest(http.MethodGet, "/healthz", http.NoBody))

			convey.Convey("Then the dataset is loaded and the request is tagged", func() {
				convey.So(w.Code, convey.ShouldEqual, http.StatusOK)
				convey.So(w.Header().Get(api.RequestIDHeader), convey.ShouldNotBeEmpty)
			})
		})

		convey.Convey("When a view is requested from another origin", func() {
			req := httptest.NewRequest(http.MethodGet, "/api/v1/overview", http.NoBody)
			req.Header.Set("Origin", "https://elsewhere.example")
			w := serve(req)

			convey.Convey("Then CORS allows it", func() {
				convey.So(w.Code, convey.ShouldEqual, http.StatusOK)
				convey.So(w.Header().Get("Access-Control-Allow-Origin"), convey.ShouldEqual, "*")
				convey.So(w.Body.String(), convey.ShouldContainSubstring, `"total":64`)
			})
		})

		convey.Convey("When the site and docs are requested", func() {
			convey.So(serve(httptest.NewRequest(http.MethodGet, "/", http.NoBody)).Code, convey.ShouldEqual, http.StatusOK)
			convey.So(serve(httptest.NewRequest(http.MethodGet, "/api-docs", http.NoBody)).Code, convey.ShouldEqual, http.StatusOK)
			convey.So(serve(httptest.NewRequest(http.MethodGet, "/openapi.yaml", http.NoBody)).Code, convey.ShouldEqual, http.StatusOK)
		})

		convey.Convey("When an image is requested", func() {
			w := serve(httptest.NewRequest(http.MethodGet, "/api/v1/charts/global-top-countries.svg", http.NoBody))
			convey.So(w.Code, convey.ShouldEqual, http.StatusOK)
			convey.So(w.Header().Get("Content-Type"), convey.ShouldStartWith, "image/svg+xml")
		})

		convey.Convey("When the periodic metric updaters run", func() {
			convey.So(updateSystemMetrics, convey.ShouldNotPanic)
			convey.So(func() { updateServiceMetrics(svc) }, convey.ShouldNotPanic)
		})
	})

	convey.Convey("Given an invalid reference date", t, func() {
		cfg := config.New(context.Background())
		cfg.ReferenceDate = "yesterday"

		convey.Convey("Then the service cannot be built", func() {
			_, err := newService(cfg, logger.Get())
			convey.So(err, convey.ShouldNotBeNil)
		})
	})
}
