// Package config defines service configuration structures and loading hooks.
//
// Conventions:
// - Provide New(ctx) to build a Config with defaults.
// - Load(ctx) layers a YAML file and environment variables on top.
// - External errors are wrapped with this package's sentinel errors.
package config

import (
	"context"
	"runtime"
)

// Config contains process configuration.
type Config struct {
	// LogLevel controls verbosity: debug, info, warn, error.
	LogLevel string `koanf:"log_level"`

	// LogFormat selects text or json log output.
	LogFormat string `koanf:"log_format"`

	// Addr configures the HTTP listen address, e.g. ":8080".
	Addr string `koanf:"addr"`

	// DataDir is the directory holding the Olympic CSV files.
	DataDir string `koanf:"data_dir"`

	// TopCountries bounds the global top-N country breakdown.
	TopCountries int `koanf:"top_countries"`

	// TopAthletes bounds the athletes-by-medals ranking.
	TopAthletes int `koanf:"top_athletes"`

	// RankingLimit bounds the continent/gender ranking.
	RankingLimit int `koanf:"ranking_limit"`

	// ScheduleSports is how many sports the schedule covers.
	ScheduleSports int `koanf:"schedule_sports"`

	// ScheduleDefaultSports is how many of them are selected when none are requested.
	ScheduleDefaultSports int `koanf:"schedule_default_sports"`

	// ScheduleSeed seeds the synthetic schedule used when medal dates are missing.
	ScheduleSeed int64 `koanf:"schedule_seed"`

	// ReferenceDate is the day athlete ages are computed against (YYYY-MM-DD).
	ReferenceDate string `koanf:"reference_date"`

	// GamesStart anchors the synthetic schedule (YYYY-MM-DD).
	GamesStart string `koanf:"games_start"`

	// CacheSize bounds the view result cache.
	CacheSize int `koanf:"cache_size"`

	// WarmupWorkers and WarmupQueueSize size the cache pre-warming pool.
	WarmupWorkers   int `koanf:"warmup_workers"`
	WarmupQueueSize int `koanf:"warmup_queue_size"`

	// WatchData reloads the dataset when files under DataDir change.
	WatchData bool `koanf:"watch_data"`

	// RenderRate (per second) and RenderBurst bound server-side chart rendering.
	RenderRate  float64 `koanf:"render_rate"`
	RenderBurst int     `koanf:"render_burst"`

	// ChartWidth and ChartHeight are the default raster size in pixels.
	ChartWidth  int `koanf:"chart_width"`
	ChartHeight int `koanf:"chart_height"`

	// CORSOrigins lists origins allowed to call the API.
	CORSOrigins []string `koanf:"cors_origins"`
}

// New creates a Config populated with defaults.
func New(_ context.Context) *Config {
	return &Config{
		LogLevel:              "info",
		LogFormat:             "text",
		Addr:                  ":9080",
		DataDir:               "data",
		TopCountries:          20,
		TopAthletes:           10,
		RankingLimit:          15,
		ScheduleSports:        15,
		ScheduleDefaultSports: 5,
		ScheduleSeed:          2024,
		ReferenceDate:         "2024-07-26",
		GamesStart:            "2024-07-26",
		CacheSize:             512,
		WarmupWorkers:         runtime.NumCPU(),
		WarmupQueueSize:       64,
		WatchData:             false,
		RenderRate:            5,
		RenderBurst:           10,
		ChartWidth:            1024,
		ChartHeight:           576,
		CORSOrigins:           []string{"*"},
	}
}
