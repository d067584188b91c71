// Package config loads wfcgen's runtime configuration: grid size, PRNG
// seed, restart cap, and macro-bias options. Values may come from a config
// file or WFCGEN_-prefixed environment variables, merged by spf13/viper
// and decoded into Config via mitchellh/mapstructure (the same decode path
// viper uses internally for Unmarshal).
package config

import (
	"fmt"

	"github.com/mitchellh/mapstructure"
	"github.com/spf13/viper"
)

// MacroConfig mirrors macro.Config's shape for (de)serialization without
// importing the macro package's domain types here.
type MacroConfig struct {
	Continents   int     `mapstructure:"continents"`
	RMinFrac     float64 `mapstructure:"r_min_frac"`
	RMaxFrac     float64 `mapstructure:"r_max_frac"`
	GrassChar    string  `mapstructure:"grass_char"`
	CoreMinCount int     `mapstructure:"core_min_count"`
	RimMinCount  int     `mapstructure:"rim_min_count"`
}

// Config is the full set of options accepted by `wfcgen generate`/`serve`.
// The host's `init{opts}` message does not go through Config; it is decoded
// from JSON into host.InitOpts.
type Config struct {
	CatalogPath     string       `mapstructure:"catalog_path"`
	GridW           int          `mapstructure:"grid_w"`
	GridH           int          `mapstructure:"grid_h"`
	Seed            uint32       `mapstructure:"seed"`
	MaxRestarts     int          `mapstructure:"max_restarts"`
	AllowRotate     bool         `mapstructure:"allow_rotate"`
	ReseedOnRestart bool         `mapstructure:"reseed_on_restart"`
	Macro           *MacroConfig `mapstructure:"macro"`

	ListenAddr string `mapstructure:"listen_addr"`
}

// ErrInvalid is returned by Validate for malformed configuration.
type ErrInvalid struct {
	Field, Reason string
}

func (e *ErrInvalid) Error() string {
	return fmt.Sprintf("config: field %q: %s", e.Field, e.Reason)
}

// Default returns the configuration's baseline values before any file,
// environment, or flag overrides are layered on.
func Default() Config {
	return Config{
		GridW:       64,
		GridH:       64,
		Seed:        1,
		MaxRestarts: 100,
		ListenAddr:  ":8787",
	}
}

// Load builds a viper instance seeded with Default(), merges in path (if
// non-empty) and the WFCGEN_-prefixed environment, and decodes the result.
func Load(path string) (Config, error) {
	v := viper.New()
	v.SetEnvPrefix("wfcgen")
	v.AutomaticEnv()

	def := Default()
	defMap := map[string]any{}
	if err := mapstructure.Decode(def, &defMap); err != nil {
		return Config{}, fmt.Errorf("config: encoding defaults: %w", err)
	}
	for k, val := range defMap {
		v.SetDefault(k, val)
	}

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return Config{}, fmt.Errorf("config: reading %s: %w", path, err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("config: decoding: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate checks the invariants engine.New would otherwise reject at
// construction time, so a bad config file is rejected early with a clear
// field name (spec.md §7: "Configuration errors ... engine construction
// fails with a typed error").
func (c Config) Validate() error {
	if c.GridW <= 0 {
		return &ErrInvalid{Field: "grid_w", Reason: "must be positive"}
	}
	if c.GridH <= 0 {
		return &ErrInvalid{Field: "grid_h", Reason: "must be positive"}
	}
	if c.MaxRestarts < 0 {
		return &ErrInvalid{Field: "max_restarts", Reason: "must be >= 0"}
	}
	if c.CatalogPath == "" {
		return &ErrInvalid{Field: "catalog_path", Reason: "must not be empty"}
	}
	return nil
}
