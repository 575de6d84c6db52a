package main

import (
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"

	"github.com/odtl/dl85/lib/dataset"
)

// Config holds every knob the fit subcommand exposes, loaded with
// env > file > defaults precedence and then overridden by any pflag the
// user actually set.
type Config struct {
	Data           string    `koanf:"data"`
	HasHeader      bool      `koanf:"header"`
	ClassFirst     bool      `koanf:"classfirst"`
	Comma          string    `koanf:"comma"`
	MinSupport     int       `koanf:"minsup"`
	MaxDepth       int       `koanf:"maxdepth"`
	MaxError       float64   `koanf:"maxerror"`
	TimeLimit      string    `koanf:"timelimit"`
	StopAfterError bool      `koanf:"stopaftererror"`
	InfoGain       string    `koanf:"infogain"`
	RepeatSort     bool      `koanf:"repeatsort"`
	Weights        []float64 `koanf:"weights"`
	Output         string    `koanf:"output"`
}

// DefaultConfig returns the Config every search starts from before a
// config file, environment variables, or flags are layered on top.
func DefaultConfig() Config {
	return Config{
		Comma:      ",",
		MinSupport: 1,
		MaxDepth:   2,
		MaxError:   math.Inf(1),
		InfoGain:   "none",
		Output:     "-",
	}
}

// LoadConfig layers an optional YAML file and DL85_-prefixed environment
// variables onto DefaultConfig, in file(lowest)/env(higher)/unmarshal
// order.
func LoadConfig(path string) (Config, error) {
	cfg := DefaultConfig()

	k := koanf.New(".")
	if path != "" {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return cfg, fmt.Errorf("loading config file %s: %w", path, err)
		}
	}

	// DL85_MINSUP -> minsup, DL85_STOPAFTERERROR -> stopaftererror
	err := k.Load(env.Provider("DL85_", ".", func(s string) string {
		s = strings.TrimPrefix(s, "DL85_")
		return strings.ToLower(s)
	}), nil)
	if err != nil {
		return cfg, fmt.Errorf("loading environment variables: %w", err)
	}

	if err := k.UnmarshalWithConf("", &cfg, koanf.UnmarshalConf{Tag: "koanf"}); err != nil {
		return cfg, fmt.Errorf("unmarshaling config: %w", err)
	}

	// DL85_WEIGHTS arrives as a single comma-separated string, unlike a
	// YAML file's native list syntax; parse it by hand when present.
	if raw, ok := k.Get("weights").(string); ok {
		weights, err := dataset.ParseFloatList(raw)
		if err != nil {
			return cfg, fmt.Errorf("parsing DL85_WEIGHTS: %w", err)
		}
		cfg.Weights = weights
	}
	return cfg, nil
}

// ParseTimeLimit parses the configured TimeLimit string, treating an
// empty string as "unbounded" (a zero time.Duration, which
// query.Query.TimeLimit documents as disabling the check).
func (c Config) ParseTimeLimit() (time.Duration, error) {
	if strings.TrimSpace(c.TimeLimit) == "" {
		return 0, nil
	}
	d, err := time.ParseDuration(c.TimeLimit)
	if err != nil {
		return 0, fmt.Errorf("invalid timelimit %q: %w", c.TimeLimit, err)
	}
	return d, nil
}
