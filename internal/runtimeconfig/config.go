// Package runtimeconfig loads the handful of deployment-time knobs a
// flowcore runtime needs: worker count, per-insert fuel multiplier,
// spine level fanout, and the listen address for the example binary's
// status endpoint. The teacher reads one required env var
// (COORDINATOR_ADDR) straight into cmd/node/main.go; a dataflow runtime
// has enough dials that a YAML document is worth loading up front, with
// env vars still able to override individual fields at start time the
// same way the teacher's getenv/mustGetenv pair does.
package runtimeconfig

import (
	"os"
	"strconv"

	"gopkg.in/yaml.v3"

	"github.com/dreamware/flowcore/internal/errz"
)

// Config is the full set of runtime knobs. YAML tags keep the on-disk
// document lower_snake_case while the Go struct stays idiomatic.
type Config struct {
	// Workers is the number of parallel circuit copies to run
	// (spec.md §5's "N parallel OS threads, one per worker").
	Workers int `yaml:"workers"`

	// FuelMultiplier scales the per-insert merge fuel budget
	// (spec.md §4.D/§8's consolidation fuel accounting) away from its
	// default of 1.0, for tuning how eagerly background merges drain.
	// It is loaded and validated here; internal/trace does not read it,
	// and its merge fuel is always the inserted batch's Len.
	FuelMultiplier float64 `yaml:"fuel_multiplier"`

	// SpineFanout is the branching factor between adjacent trace spine
	// levels (spec.md §4.D "Spine"); the teacher's shard-count default
	// plays the same "fixed for the run, picked for the expected
	// scale" role NewShardRegistry's numShards argument does. It is
	// loaded and validated here; internal/trace does not read it, and
	// each of its levels merges two batches at a time.
	SpineFanout int `yaml:"spine_fanout"`

	// ListenAddr is the address the example binary's status endpoint
	// binds, analogous to the teacher's NODE_LISTEN.
	ListenAddr string `yaml:"listen_addr"`
}

// Default returns the configuration used when no file and no
// overriding env vars are present.
func Default() Config {
	return Config{
		Workers:        1,
		FuelMultiplier: 1.0,
		SpineFanout:    8,
		ListenAddr:     ":8090",
	}
}

// Load reads path as a YAML document layered over Default, then applies
// any of the FLOWCORE_* env var overrides that are set, following the
// teacher's getenv(key, default) convention (env wins over file, file
// wins over built-in default). An empty path skips the file and applies
// overrides directly on top of Default.
func Load(path string) (Config, error) {
	cfg := Default()
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return Config{}, errz.Wrap(err, "runtimeconfig: read "+path)
		}
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return Config{}, errz.Wrap(err, "runtimeconfig: parse "+path)
		}
	}
	applyEnvOverrides(&cfg)
	return cfg, nil
}

func applyEnvOverrides(cfg *Config) {
	if v := os.Getenv("FLOWCORE_WORKERS"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			cfg.Workers = n
		}
	}
	if v := os.Getenv("FLOWCORE_FUEL_MULTIPLIER"); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			cfg.FuelMultiplier = f
		}
	}
	if v := os.Getenv("FLOWCORE_SPINE_FANOUT"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			cfg.SpineFanout = n
		}
	}
	if v := os.Getenv("FLOWCORE_LISTEN_ADDR"); v != "" {
		cfg.ListenAddr = v
	}
}

// Validate rejects a configuration with fewer than one worker, a spine
// fanout below 2, or a fuel multiplier that is not positive.
func (c Config) Validate() error {
	if c.Workers < 1 {
		return errz.Precondition("runtimeconfig: workers must be >= 1")
	}
	if c.SpineFanout < 2 {
		return errz.Precondition("runtimeconfig: spine_fanout must be >= 2")
	}
	if c.FuelMultiplier <= 0 {
		return errz.Precondition("runtimeconfig: fuel_multiplier must be > 0")
	}
	return nil
}
