package pipeline

import (
	"errors"
	"fmt"
	"io"
	"runtime"

	"go.uber.org/zap"
	"gopkg.in/yaml.v3"

	"github.com/veslind/stratify/rollup"
	"github.com/veslind/stratify/split"
)

// Sentinel errors for run configuration.
var (
	// ErrBadWorkers indicates a non-positive worker count.
	ErrBadWorkers = errors.New("pipeline: worker count must be positive")

	// ErrBadConfig indicates a YAML tuning file that could not be parsed
	// or carried out-of-range values.
	ErrBadConfig = errors.New("pipeline: invalid configuration")
)

// Options configures a pipeline run.
//
//	Workers — parallel splitter invocations. Default: GOMAXPROCS.
//	Logger  — structured logger for warnings and fallbacks. The engine is
//	          a library and stays silent by default (zap.NewNop()).
//	Split   — splitter tuning (prior strength, floors, CFR ceiling).
//	Rollup  — aggregator tuning (reconciliation tolerance).
type Options struct {
	Workers int
	Logger  *zap.Logger
	Split   split.Options
	Rollup  rollup.Options
}

// Option is a functional option for Run.
type Option func(*Options)

// DefaultOptions returns the standard run configuration.
func DefaultOptions() Options {
	return Options{
		Workers: runtime.GOMAXPROCS(0),
		Logger:  zap.NewNop(),
		Split:   split.DefaultOptions(),
		Rollup:  rollup.DefaultOptions(),
	}
}

// WithWorkers caps concurrent per-country splitter invocations.
// Must be positive; invalid values panic (configuration bug, fail early).
func WithWorkers(n int) Option {
	if n <= 0 {
		panic(ErrBadWorkers.Error())
	}
	return func(o *Options) {
		o.Workers = n
	}
}

// WithLogger installs a structured logger for warnings and fallbacks.
func WithLogger(l *zap.Logger) Option {
	return func(o *Options) {
		if l != nil {
			o.Logger = l
		}
	}
}

// WithSplitOptions replaces the splitter tuning wholesale.
func WithSplitOptions(s split.Options) Option {
	return func(o *Options) { o.Split = s }
}

// WithRollupOptions replaces the aggregator tuning wholesale.
func WithRollupOptions(r rollup.Options) Option {
	return func(o *Options) { o.Rollup = r }
}

// WithPriorStrength overrides just the child-prior blend weight.
func WithPriorStrength(w float64) Option {
	return func(o *Options) { o.Split.PriorStrength = w }
}

// Config is the YAML shape of the engine tuning file. Zero values mean
// "keep the default", so a partial file overrides only what it names.
//
// Example:
//
//	workers: 8
//	prior_strength: 1.0
//	weight_floor: 0.001
//	death_floor: 1.0
//	cfr_warn_limit: 0.6
//	reconcile_tolerance: 0.1
type Config struct {
	Workers            int     `yaml:"workers"`
	PriorStrength      float64 `yaml:"prior_strength"`
	WeightFloor        float64 `yaml:"weight_floor"`
	DeathFloor         float64 `yaml:"death_floor"`
	CFRWarnLimit       float64 `yaml:"cfr_warn_limit"`
	ReconcileTolerance float64 `yaml:"reconcile_tolerance"`
}

// LoadConfig reads and validates a YAML tuning file. Unknown fields are
// rejected so typos fail loudly rather than silently keeping defaults.
func LoadConfig(r io.Reader) (Config, error) {
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	var c Config
	if err := dec.Decode(&c); err != nil {
		return Config{}, fmt.Errorf("%w: %v", ErrBadConfig, err)
	}
	if c.Workers < 0 || c.PriorStrength < 0 || c.WeightFloor < 0 ||
		c.DeathFloor < 0 || c.CFRWarnLimit < 0 || c.ReconcileTolerance < 0 {
		return Config{}, fmt.Errorf("%w: negative tuning value", ErrBadConfig)
	}
	return c, nil
}

// Option converts a loaded Config into a functional option, applying
// only the fields the file actually set.
func (c Config) Option() Option {
	return func(o *Options) {
		if c.Workers > 0 {
			o.Workers = c.Workers
		}
		if c.PriorStrength > 0 {
			o.Split.PriorStrength = c.PriorStrength
		}
		if c.WeightFloor > 0 {
			o.Split.WeightFloor = c.WeightFloor
		}
		if c.DeathFloor > 0 {
			o.Split.DeathFloor = c.DeathFloor
		}
		if c.CFRWarnLimit > 0 {
			o.Split.CFRWarnLimit = c.CFRWarnLimit
		}
		if c.ReconcileTolerance > 0 {
			o.Rollup.ReconcileTolerance = c.ReconcileTolerance
		}
	}
}
