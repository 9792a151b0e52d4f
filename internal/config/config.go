// Package config defines the configuration of the ranking service
// and the command line tool.
package config

import (
	"errors"
	"fmt"
	"runtime"

	"github.com/ezBadminton/ttrank/core"
)

var (
	ErrInvalidConfig = errors.New("invalid config")
	ErrLoadConfig    = errors.New("load config failed")
)

// Config contains the process configuration.
type Config struct {
	// LogLevel controls verbosity: debug, info, warn, error.
	LogLevel string `koanf:"log_level"`

	// LogFormat is json or console.
	LogFormat string `koanf:"log_format"`

	// Addr configures the HTTP listen address, e.g. ":8080".
	Addr string `koanf:"addr"`

	// MaxBodyBytes caps the size of uploaded competition documents.
	MaxBodyBytes int64 `koanf:"max_body_bytes"`

	// Workers bounds how many documents are ranked at the same time.
	Workers int `koanf:"workers"`

	// Rules are used for documents that do not bring their own.
	Rules Rules `koanf:"rules"`
}

// Rules is the flat configuration form of the game, set and match rules.
type Rules struct {
	ScoreMinimum  int `koanf:"score_minimum"`
	ScoreDistance int `koanf:"score_distance"`
	BestOf        int `koanf:"best_of"`
	VictoryPoints int `koanf:"victory_points"`
	DefeatPoints  int `koanf:"defeat_points"`
}

func (r Rules) SetRules() core.SetRules {
	return core.SetRules{
		GameRules: &core.GameRules{
			ScoreMinimum:  r.ScoreMinimum,
			ScoreDistance: r.ScoreDistance,
		},
		BestOf: r.BestOf,
	}
}

func (r Rules) MatchRules() core.MatchRules {
	return core.MatchRules{
		VictoryPoints: r.VictoryPoints,
		DefeatPoints:  r.DefeatPoints,
	}
}

// New creates a Config with the defaults.
func New() *Config {
	return &Config{
		LogLevel:     "info",
		LogFormat:    "console",
		Addr:         ":8080",
		MaxBodyBytes: 1 << 20,
		Workers:      runtime.NumCPU(),
		Rules: Rules{
			ScoreMinimum:  11,
			ScoreDistance: 2,
			BestOf:        5,
			VictoryPoints: 2,
			DefeatPoints:  1,
		},
	}
}

// Validate checks the values that the service cannot run without.
func (c *Config) Validate() error {
	switch {
	case c.Addr == "":
		return fmt.Errorf("%w: addr must not be empty", ErrInvalidConfig)
	case c.MaxBodyBytes <= 0:
		return fmt.Errorf("%w: max_body_bytes must be positive", ErrInvalidConfig)
	case c.Workers < 1:
		return fmt.Errorf("%w: workers must be 1 or more", ErrInvalidConfig)
	case c.LogFormat != "json" && c.LogFormat != "console":
		return fmt.Errorf("%w: log_format must be json or console", ErrInvalidConfig)
	}

	if err := c.Rules.SetRules().Validate(); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidConfig, err)
	}
	if err := c.Rules.MatchRules().Validate(); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidConfig, err)
	}

	return nil
}
