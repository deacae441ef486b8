package config

import (
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

const (
	envPrefix  = "MEDALBOARD_"
	envFile    = "MEDALBOARD_CONFIG"
	dateLayout = "2006-01-02"
)

// Load builds a Config by layering defaults, optional file, and env vars.
// Order of precedence (low -> high):
//  1. defaults (New(ctx))
//  2. file (YAML) if MEDALBOARD_CONFIG is set
//  3. env (prefix MEDALBOARD_)
func Load(ctx context.Context) (*Config, error) {
	base := New(ctx)

	k := koanf.New(".")

	if path := os.Getenv(envFile); path != "" {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("%w: %s: %v", ErrLoadConfig, path, err)
		}
	}

	// MEDALBOARD_DATA_DIR -> data_dir; flat keys keep their underscores.
	// Comma separated values become lists (MEDALBOARD_CORS_ORIGINS).
	envProvider := env.ProviderWithValue(envPrefix, ".", func(key, value string) (string, interface{}) {
		key = strings.TrimPrefix(strings.ToLower(key), strings.ToLower(envPrefix))
		if key == "config" {
			return "", nil
		}
		if key == "cors_origins" {
			return key, splitList(value)
		}
		return key, value
	})
	if err := k.Load(envProvider, nil); err != nil {
		return nil, fmt.Errorf("%w: env: %v", ErrLoadConfig, err)
	}

	cfg := *base
	if err := k.UnmarshalWithConf("", &cfg, koanf.UnmarshalConf{Tag: "koanf"}); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrLoadConfig, err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate reports the first invalid field.
func (c *Config) Validate() error {
	switch {
	case c.Addr == "":
		return fmt.Errorf("%w: addr must not be empty", ErrInvalidConfig)
	case c.DataDir == "":
		return fmt.Errorf("%w: data_dir must not be empty", ErrInvalidConfig)
	case c.TopCountries <= 0, c.TopAthletes <= 0, c.RankingLimit <= 0:
		return fmt.Errorf("%w: top-N limits must be positive", ErrInvalidConfig)
	case c.ScheduleSports <= 0:
		return fmt.Errorf("%w: schedule_sports must be positive", ErrInvalidConfig)
	case c.ScheduleDefaultSports < 0 || c.ScheduleDefaultSports > c.ScheduleSports:
		return fmt.Errorf("%w: schedule_default_sports must be within [0, schedule_sports]", ErrInvalidConfig)
	case c.CacheSize <= 0:
		return fmt.Errorf("%w: cache_size must be positive", ErrInvalidConfig)
	case c.WarmupWorkers <= 0 || c.WarmupQueueSize <= 0:
		return fmt.Errorf("%w: warm-up pool must have workers and queue space", ErrInvalidConfig)
	case c.RenderRate <= 0 || c.RenderBurst <= 0:
		return fmt.Errorf("%w: render_rate and render_burst must be positive", ErrInvalidConfig)
	case c.ChartWidth <= 0 || c.ChartHeight <= 0:
		return fmt.Errorf("%w: chart size must be positive", ErrInvalidConfig)
	}
	if _, err := c.Reference(); err != nil {
		return err
	}
	if _, err := c.Start(); err != nil {
		return err
	}
	return nil
}

// Reference returns ReferenceDate parsed as a UTC day.
func (c *Config) Reference() (time.Time, error) {
	t, err := time.Parse(dateLayout, c.ReferenceDate)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: reference_date %q", ErrInvalidConfig, c.ReferenceDate)
	}
	return t, nil
}

// Start returns GamesStart parsed as a UTC day.
func (c *Config) Start() (time.Time, error) {
	t, err := time.Parse(dateLayout, c.GamesStart)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: games_start %q", ErrInvalidConfig, c.GamesStart)
	}
	return t, nil
}

func splitList(v string) []string {
	var out []string
	for _, p := range strings.Split(v, ",") {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
