package config

import (
	"path/filepath"
	"testing"

	"github.com/san-kum/switchctl/internal/problem"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	if err := cfg.Validate(); err != nil {
		t.Fatalf("default config should be valid: %v", err)
	}
	if cfg.Lambda.I2.Upper <= cfg.Lambda.I1.Upper {
		t.Error("L1 weight range should be wider than the quadratic one")
	}
	if !cfg.SingleTasks() || !cfg.MultiTasks() {
		t.Error("default config should select all task families")
	}
}

func TestLoadOverridesDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "sweep.yaml")

	cfg := DefaultConfig()
	cfg.Tasks = TasksMulti
	cfg.Switches = []int{10}
	cfg.Times = []float64{1, 2}
	cfg.Steps = 500
	if err := Save(path, cfg); err != nil {
		t.Fatalf("save failed: %v", err)
	}

	loaded, err := Load(path)
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}
	if loaded.Tasks != TasksMulti || loaded.SingleTasks() {
		t.Errorf("expected moi tasks only, got %q", loaded.Tasks)
	}
	if len(loaded.Times) != 2 || loaded.Times[1] != 2 {
		t.Errorf("unexpected times %v", loaded.Times)
	}

	p := loaded.Params(10, 2)
	if p.N != 10 || p.Tmax != 2 || p.Steps != 500 || p.X10 != DefaultX10 {
		t.Errorf("unexpected params %+v", p)
	}
	if err := p.Validate(); err != nil {
		t.Errorf("params should be valid: %v", err)
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"unknown tasks", func(c *Config) { c.Tasks = "i3" }},
		{"no switches", func(c *Config) { c.Switches = nil }},
		{"one switch", func(c *Config) { c.Switches = []int{1} }},
		{"zero time", func(c *Config) { c.Times = []float64{1, 0} }},
		{"inverted control", func(c *Config) { c.Control.Lower = 20 }},
		{"zero runs", func(c *Config) { c.Runs = 0 }},
		{"zero workers", func(c *Config) { c.Workers = 0 }},
		{"zero attempts", func(c *Config) { c.MaxAttempts = 0 }},
		{"no optimizers", func(c *Config) { c.Optimizer.Levels = nil }},
		{"zero levels", func(c *Config) { c.Optimizer.Levels = []int{0} }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mutate(cfg)
			if err := cfg.Validate(); err == nil {
				t.Error("expected validation error")
			}
		})
	}
}

func TestLambdaPreset(t *testing.T) {
	l, ok := LambdaPreset(problem.Quadratic, 10)
	if !ok {
		t.Fatal("expected preset for quadratic N=10")
	}
	if l.L1 != 22621.5610681351 {
		t.Errorf("unexpected lambda1 %v", l.L1)
	}

	if _, ok := LambdaPreset(problem.L1, 9); ok {
		t.Error("expected no preset for N=9")
	}
}

func TestMultiWeights(t *testing.T) {
	w, ok := MultiWeights(8)
	if !ok {
		t.Fatal("expected weights for N=8")
	}
	if w.L1 != 11247.6302753864 || w.L4 != 4311.17267957873 {
		t.Errorf("unexpected weights %+v", w)
	}
	if _, ok := MultiWeights(12); ok {
		t.Error("expected no weights for N=12")
	}
}

func TestListPresets(t *testing.T) {
	ns := ListPresets(problem.L1)
	if len(ns) != 3 || ns[0] != 8 || ns[2] != 15 {
		t.Errorf("unexpected presets %v", ns)
	}

	if ListPresets(problem.Kind(9)) != nil {
		t.Error("expected nil for unknown kind")
	}
}

func TestWeightBounds(t *testing.T) {
	if b := WeightBounds(problem.L1); b.Upper != L1WeightUpper {
		t.Errorf("unexpected L1 bounds %+v", b)
	}
	if b := WeightBounds(problem.Quadratic); b.Upper != QuadraticWeightUpper {
		t.Errorf("unexpected quadratic bounds %+v", b)
	}
}

func TestShippedSweepConfig(t *testing.T) {
	cfg, err := Load("../../configs/sweep.yaml")
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if err := cfg.Validate(); err != nil {
		t.Fatalf("validate: %v", err)
	}
	if cfg.Store.Kind != "sqlite" || len(cfg.Times) != 2 || cfg.Steps != 250 {
		t.Errorf("unexpected config %+v", cfg)
	}
}
