package probe

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"sync"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/okian/medalboard/internal/domain/types"
	"github.com/okian/medalboard/pkg/logger"
)

// ErrFailed is returned by Run when at least one property is violated.
var ErrFailed = errors.New("probe failed")

// check is one request plus the property it verifies.
type check struct {
	name   string
	target string
	run    func(ctx context.Context, c *client) error
}

// Run probes the server at cfg.BaseURL. Unreachable servers and a missing
// dataset abort the run; violated properties are collected in the report.
func Run(ctx context.Context, cfg Config) (*Report, error) {
	start := time.Now()
	report := &Report{RunID: uuid.NewString()}
	log := logger.Named("probe")
	c := newClient(cfg.BaseURL, report.RunID, cfg.Timeout)

	log.Info(ctx, "probe started",
		logger.String("run_id", report.RunID),
		logger.String("url", cfg.BaseURL),
		logger.Int("workers", cfg.Workers),
		logger.Int("top", cfg.TopN))

	var health struct {
		Status     string `json:"status"`
		Generation uint64 `json:"generation"`
	}
	if err := c.getJSON(ctx, "/healthz", &health); err != nil {
		return nil, fmt.Errorf("health: %w", err)
	}
	var opts types.FilterOptions
	if err := c.getJSON(ctx, "/api/v1/filters", &opts); err != nil {
		return nil, fmt.Errorf("filters: %w", err)
	}

	checks := plan(cfg, opts)
	var mu sync.Mutex
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(max(cfg.Workers, 1))
	for _, ch := range checks {
		g.Go(func() error {
			err := ch.run(gctx, c)
			mu.Lock()
			defer mu.Unlock()
			report.Checks++
			switch {
			case err == nil:
				report.Passed++
				if cfg.Verbose {
					log.Info(gctx, "check passed", logger.String("check", ch.name), logger.String("target", ch.target))
				}
			case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
				return err
			default:
				report.Failures = append(report.Failures, Failure{Check: ch.name, Target: ch.target, Reason: err.Error()})
				log.Warn(gctx, "check failed", logger.String("check", ch.name), logger.String("target", ch.target), logger.Error(err))
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return report, err
	}

	report.Duration = time.Since(start)
	log.Info(ctx, "probe finished",
		logger.String("run_id", report.RunID),
		logger.Uint64("generation", health.Generation),
		logger.Int("checks", report.Checks),
		logger.Int("passed", report.Passed),
		logger.Int("failed", len(report.Failures)),
		logger.Duration("duration", report.Duration))
	if !report.OK() {
		return report, fmt.Errorf("%w: %d of %d checks", ErrFailed, len(report.Failures), report.Checks)
	}
	return report, nil
}

// plan lists the checks for one run.
func plan(cfg Config, opts types.FilterOptions) []check {
	n := strconv.Itoa(cfg.TopN)
	checks := []check{
		{name: "top-countries", target: "/api/v1/global", run: func(ctx context.Context, c *client) error {
			var v types.GlobalView
			if err := c.getJSON(ctx, "/api/v1/global", &v); err != nil {
				return err
			}
			if err := checkMedalSum(v.KPIs); err != nil {
				return err
			}
			return checkTopN(v.TopCountries, 0)
		}},
		{name: "ranking", target: "/api/v1/la28/ranking?limit=" + n, run: func(ctx context.Context, c *client) error {
			var v types.RankingView
			if err := c.getJSON(ctx, "/api/v1/la28/ranking?limit="+n, &v); err != nil {
				return err
			}
			return checkRanking(v, cfg.TopN)
		}},
		{name: "top-athletes", target: "/api/v1/athletes/top?limit=" + n, run: func(ctx context.Context, c *client) error {
			var f types.Figure
			err := c.getJSON(ctx, "/api/v1/athletes/top?limit="+n, &f)
			var se *statusError
			if errors.As(err, &se) && se.Status == http.StatusServiceUnavailable {
				// no per-athlete medal file in this dataset
				return nil
			}
			if err != nil {
				return err
			}
			return checkTopN(f, cfg.TopN)
		}},
	}
	for _, m := range opts.Medals {
		q := "/api/v1/global?" + url.Values{"medal": {m}}.Encode()
		checks = append(checks, check{name: "medal-filter", target: q, run: func(ctx context.Context, c *client) error {
			var v types.GlobalView
			if err := c.getJSON(ctx, q, &v); err != nil {
				return err
			}
			if err := checkMedalSum(v.KPIs); err != nil {
				return err
			}
			return checkTopN(v.TopCountries, 0)
		}})
	}

	nocs := opts.NOCs
	if cfg.Countries > 0 && len(nocs) > cfg.Countries {
		nocs = nocs[:cfg.Countries]
	}
	for _, o := range nocs {
		noc := o.Value
		q := "/api/v1/global?" + url.Values{"noc": {noc}}.Encode()
		checks = append(checks, check{name: "country-filter", target: q, run: func(ctx context.Context, c *client) error {
			var v types.GlobalView
			if err := c.getJSON(ctx, q, &v); err != nil {
				return err
			}
			if err := checkMedalSum(v.KPIs); err != nil {
				return err
			}
			return checkCountryFilter(v, noc)
		}})
	}
	return checks
}
