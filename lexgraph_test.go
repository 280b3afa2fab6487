package lexgraph

import (
	"errors"
	"testing"
)

func TestNewRejectsInvalidConfig(t *testing.T) {
	cases := map[string]func(*Config){
		"zero damping":     func(c *Config) { c.Damping = 0 },
		"damping one":      func(c *Config) { c.Damping = 1 },
		"negative damping": func(c *Config) { c.Damping = -0.5 },
		"zero max iter":    func(c *Config) { c.MaxIter = 0 },
		"zero tolerance":   func(c *Config) { c.Tol = 0 },
		"empty base url":   func(c *Config) { c.BaseURL = "" },
	}
	for name, mutate := range cases {
		t.Run(name, func(t *testing.T) {
			cfg := DefaultConfig()
			mutate(&cfg)
			if _, err := New(cfg); !errors.Is(err, ErrInvalidConfig) {
				t.Fatalf("err = %v, want ErrInvalidConfig", err)
			}
		})
	}
}

func TestDefaultConfigIsValid(t *testing.T) {
	cfg := DefaultConfig()
	if err := cfg.validate(); err != nil {
		t.Fatalf("default config invalid: %v", err)
	}
}

func TestResolveDBPath(t *testing.T) {
	cfg := Config{DataDir: "work"}
	if got := cfg.resolveDBPath(); got != "work/cache.db" {
		t.Errorf("resolveDBPath = %q", got)
	}

	cfg.DBPath = "/tmp/other.db"
	if got := cfg.resolveDBPath(); got != "/tmp/other.db" {
		t.Errorf("resolveDBPath with override = %q", got)
	}
}
