// Package config handles tool configuration loading and management.
package config

import "github.com/Faultbox/windtool/pkg/wind"

// Config holds all windtool settings.
type Config struct {
	Wind    WindConfig    `yaml:"wind"`
	Logging LoggingConfig `yaml:"logging"`
}

// WindConfig holds document-level defaults and the influence formula
// parameters used when building simulation groups.
type WindConfig struct {
	GustAttenuation float64 `yaml:"gust_attenuation"`
	GroundCover     bool    `yaml:"ground_cover"`

	TrunkInfluence   float64 `yaml:"trunk_influence"`
	MinInfluenceBase float64 `yaml:"min_influence_base"`
	MinInfluenceStep float64 `yaml:"min_influence_step"`
	InfluenceSpan    float64 `yaml:"influence_span"`
	ShiftTopBase     float64 `yaml:"shift_top_base"`
	ShiftTopStep     float64 `yaml:"shift_top_step"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level   string `yaml:"level"`
	LogFile string `yaml:"log_file"`
}

// Options converts the config into wind build options.
func (w WindConfig) Options() wind.Options {
	return wind.Options{
		GroundCover:      w.GroundCover,
		GustAttenuation:  w.GustAttenuation,
		TrunkInfluence:   w.TrunkInfluence,
		MinInfluenceBase: w.MinInfluenceBase,
		MinInfluenceStep: w.MinInfluenceStep,
		InfluenceSpan:    w.InfluenceSpan,
		ShiftTopBase:     w.ShiftTopBase,
		ShiftTopStep:     w.ShiftTopStep,
	}
}

// Default returns a Config with sensible default values.
func Default() *Config {
	opts := wind.DefaultOptions()
	return &Config{
		Wind: WindConfig{
			GustAttenuation:  opts.GustAttenuation,
			GroundCover:      opts.GroundCover,
			TrunkInfluence:   opts.TrunkInfluence,
			MinInfluenceBase: opts.MinInfluenceBase,
			MinInfluenceStep: opts.MinInfluenceStep,
			InfluenceSpan:    opts.InfluenceSpan,
			ShiftTopBase:     opts.ShiftTopBase,
			ShiftTopStep:     opts.ShiftTopStep,
		},
		Logging: LoggingConfig{
			Level:   "info",
			LogFile: "",
		},
	}
}
