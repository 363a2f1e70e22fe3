package authcase

import (
	"errors"
	"testing"
)

func TestDefaultConfigIsValidOneShot(t *testing.T) {
	cfg := DefaultConfig()
	if err := cfg.Validate(); err != nil {
		t.Fatalf("default config must validate: %v", err)
	}
	if !cfg.UseCase.OneShot {
		t.Fatal("expected OneShot by default")
	}
	if cfg.UseCase.AutoLogin {
		t.Fatal("expected AutoLogin disabled by default")
	}
}

func TestConfigPresets(t *testing.T) {
	oneShot := OneShotConfig(true)
	if !oneShot.UseCase.OneShot || !oneShot.UseCase.AutoLogin {
		t.Fatalf("unexpected one-shot preset: %+v", oneShot.UseCase)
	}

	continuous := ContinuousConfig(false)
	if continuous.UseCase.OneShot || continuous.UseCase.AutoLogin {
		t.Fatalf("unexpected continuous preset: %+v", continuous.UseCase)
	}
}

func TestConfigValidate(t *testing.T) {
	tests := []struct {
		name      string
		mutate    func(*Config)
		wantValid bool
	}{
		{
			name:      "default",
			mutate:    func(*Config) {},
			wantValid: true,
		},
		{
			name: "blank name invalid",
			mutate: func(c *Config) {
				c.Name = "   "
			},
			wantValid: false,
		},
		{
			name: "audit enabled without buffer invalid",
			mutate: func(c *Config) {
				c.Audit.Enabled = true
				c.Audit.BufferSize = 0
			},
			wantValid: false,
		},
		{
			name: "negative audit buffer invalid",
			mutate: func(c *Config) {
				c.Audit.BufferSize = -1
			},
			wantValid: false,
		},
		{
			name: "audit enabled with buffer valid",
			mutate: func(c *Config) {
				c.Audit.Enabled = true
				c.Audit.BufferSize = 8
			},
			wantValid: true,
		},
		{
			name: "latency histograms without metrics invalid",
			mutate: func(c *Config) {
				c.Metrics.EnableLatencyHistograms = true
			},
			wantValid: false,
		},
		{
			name: "latency histograms with metrics valid",
			mutate: func(c *Config) {
				c.Metrics.Enabled = true
				c.Metrics.EnableLatencyHistograms = true
			},
			wantValid: true,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tc.mutate(&cfg)
			err := cfg.Validate()
			if tc.wantValid && err != nil {
				t.Fatalf("expected valid, got %v", err)
			}
			if !tc.wantValid {
				if err == nil {
					t.Fatal("expected validation error")
				}
				if !errors.Is(err, ErrInvalidConfig) {
					t.Fatalf("expected ErrInvalidConfig, got %v", err)
				}
			}
		})
	}
}
