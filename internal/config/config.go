package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/san-kum/switchctl/internal/problem"
)

const (
	DefaultTmax         = 1.0
	DefaultControlLower = -10.0
	DefaultControlUpper = 10.0
	DefaultX10          = 0.5
	DefaultX20          = 1.0
	DefaultRuns         = 3
	DefaultWorkers      = 4
	DefaultMaxAttempts  = 3
	DefaultStoreKind    = "file"
	DefaultStorePath    = ".switchctl"

	// Weight bound ranges of the trailing lambdas. The L1 functional has a
	// smaller effort term and gets the wider range.
	QuadraticWeightLower = 0.1
	QuadraticWeightUpper = 25000.0
	L1WeightLower        = 0.1
	L1WeightUpper        = 50000.0
)

// Task families of a sweep.
const (
	TasksSingle = "i12"
	TasksMulti  = "moi"
	TasksAll    = "all"
)

// Config describes an experiment sweep: every (switches, time) pair is
// solved for every selected task family.
type Config struct {
	Name        string          `yaml:"name"`
	Tasks       string          `yaml:"tasks"`
	Switches    []int           `yaml:"switches"`
	Times       []float64       `yaml:"times"`
	Control     problem.Bounds  `yaml:"control"`
	InitState   InitStateConfig `yaml:"init_state"`
	Lambda      LambdaConfig    `yaml:"lambda"`
	Steps       int             `yaml:"steps"`
	Runs        int             `yaml:"runs"`
	Workers     int             `yaml:"workers"`
	MaxAttempts int             `yaml:"max_attempts"`
	Optimizer   OptimizerConfig `yaml:"optimizer"`
	Store       StoreConfig     `yaml:"store"`
}

type InitStateConfig struct {
	X1 float64 `yaml:"x1"`
	X2 float64 `yaml:"x2"`
}

// LambdaConfig bounds the trailing weights of the quadratic (I1) and the
// L1 (I2) functional.
type LambdaConfig struct {
	I1 problem.Bounds `yaml:"i1"`
	I2 problem.Bounds `yaml:"i2"`
}

// OptimizerConfig lists the baseline grid configurations; each entry is
// the number of levels per free coordinate.
type OptimizerConfig struct {
	Levels []int `yaml:"levels"`
}

type StoreConfig struct {
	Kind string `yaml:"kind"`
	Path string `yaml:"path"`
}

func DefaultConfig() *Config {
	return &Config{
		Name:     "switching",
		Tasks:    TasksAll,
		Switches: []int{8, 10, 15},
		Times:    []float64{DefaultTmax},
		Control: problem.Bounds{
			Lower: DefaultControlLower,
			Upper: DefaultControlUpper,
		},
		InitState: InitStateConfig{
			X1: DefaultX10,
			X2: DefaultX20,
		},
		Lambda: LambdaConfig{
			I1: problem.Bounds{Lower: QuadraticWeightLower, Upper: QuadraticWeightUpper},
			I2: problem.Bounds{Lower: L1WeightLower, Upper: L1WeightUpper},
		},
		Runs:        DefaultRuns,
		Workers:     DefaultWorkers,
		MaxAttempts: DefaultMaxAttempts,
		Optimizer: OptimizerConfig{
			Levels: []int{3, 5},
		},
		Store: StoreConfig{
			Kind: DefaultStoreKind,
			Path: DefaultStorePath,
		},
	}
}

func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

func Save(path string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

// Validate checks the sweep-level settings. Problem parameters are checked
// again when each problem is built.
func (c *Config) Validate() error {
	switch c.Tasks {
	case TasksSingle, TasksMulti, TasksAll:
	default:
		return fmt.Errorf("config: unknown tasks %q (want %s, %s or %s)", c.Tasks, TasksSingle, TasksMulti, TasksAll)
	}
	if len(c.Switches) == 0 {
		return fmt.Errorf("config: no switch counts")
	}
	for _, n := range c.Switches {
		if n < 2 {
			return fmt.Errorf("config: switch count %d is less than 2", n)
		}
	}
	if len(c.Times) == 0 {
		return fmt.Errorf("config: no times")
	}
	for _, t := range c.Times {
		if t <= 0 {
			return fmt.Errorf("config: time %g is not positive", t)
		}
	}
	if c.Control.Lower >= c.Control.Upper {
		return fmt.Errorf("config: control lower bound %g is not less than upper bound %g", c.Control.Lower, c.Control.Upper)
	}
	if c.Runs < 1 {
		return fmt.Errorf("config: runs %d is less than 1", c.Runs)
	}
	if c.Workers < 1 {
		return fmt.Errorf("config: workers %d is less than 1", c.Workers)
	}
	if c.MaxAttempts < 1 {
		return fmt.Errorf("config: max_attempts %d is less than 1", c.MaxAttempts)
	}
	if len(c.Optimizer.Levels) == 0 {
		return fmt.Errorf("config: no optimizer configurations")
	}
	for _, l := range c.Optimizer.Levels {
		if l < 1 {
			return fmt.Errorf("config: grid levels %d is less than 1", l)
		}
	}
	return nil
}

// Params returns the problem parameters for one (switches, time) pair.
func (c *Config) Params(n int, tmax float64) problem.Params {
	return problem.Params{
		N:       n,
		Control: c.Control,
		Tmax:    tmax,
		X10:     c.InitState.X1,
		X20:     c.InitState.X2,
		Steps:   c.Steps,
	}
}

// SingleTasks reports whether the I1/I2 family is selected.
func (c *Config) SingleTasks() bool { return c.Tasks == TasksSingle || c.Tasks == TasksAll }

// MultiTasks reports whether the multi-objective family is selected.
func (c *Config) MultiTasks() bool { return c.Tasks == TasksMulti || c.Tasks == TasksAll }
