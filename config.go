package authcase

import (
	"fmt"
	"strings"
)

// Config holds every construction-time setting of a UseCase.
//
// Config instances are intended to be configured during initialization and then treated as immutable.
type Config struct {
	Name    string
	UseCase UseCaseConfig
	Audit   AuditConfig
	Metrics MetricsConfig
}

/*
====================================
USE CASE CONFIG
====================================
*/

// UseCaseConfig selects the completion and navigation behavior of a UseCase.
//
//   - OneShot: deregister on the first successful credential and complete the
//     output stream right after relaying the first business value.
//   - AutoLogin: invoke the login navigation hook whenever an auth attempt
//     yields NotAuthenticated.
type UseCaseConfig struct {
	AutoLogin bool
	OneShot   bool
}

// AuditConfig controls the lifecycle event dispatcher.
type AuditConfig struct {
	Enabled    bool
	BufferSize int
	DropIfFull bool
}

// MetricsConfig controls the in-process counters.
type MetricsConfig struct {
	Enabled                 bool
	EnableLatencyHistograms bool
}

/*
====================================
DEFAULT CONFIG
====================================
*/

// DefaultConfig returns a one-shot configuration without auto login, audit
// or metrics.
func DefaultConfig() Config {
	return Config{
		Name: "usecase",
		UseCase: UseCaseConfig{
			AutoLogin: false,
			OneShot:   true,
		},
		Audit: AuditConfig{
			Enabled:    false,
			BufferSize: 256,
			DropIfFull: true,
		},
		Metrics: MetricsConfig{
			Enabled:                 false,
			EnableLatencyHistograms: false,
		},
	}
}

// OneShotConfig returns DefaultConfig with the given AutoLogin setting.
func OneShotConfig(autoLogin bool) Config {
	cfg := DefaultConfig()
	cfg.UseCase.AutoLogin = autoLogin
	return cfg
}

// ContinuousConfig returns a configuration that keeps relaying business
// values across auth changes and stays registered until torn down.
func ContinuousConfig(autoLogin bool) Config {
	cfg := DefaultConfig()
	cfg.UseCase.OneShot = false
	cfg.UseCase.AutoLogin = autoLogin
	return cfg
}

/*
====================================
VALIDATION
====================================
*/

// Validate reports the first invalid setting, wrapped in ErrInvalidConfig.
func (c *Config) Validate() error {
	if strings.TrimSpace(c.Name) == "" {
		return fmt.Errorf("%w: Name must not be blank", ErrInvalidConfig)
	}

	if c.Audit.Enabled && c.Audit.BufferSize <= 0 {
		return fmt.Errorf("%w: Audit BufferSize must be > 0 when Audit is enabled", ErrInvalidConfig)
	}
	if c.Audit.BufferSize < 0 {
		return fmt.Errorf("%w: Audit BufferSize must be >= 0", ErrInvalidConfig)
	}

	if c.Metrics.EnableLatencyHistograms && !c.Metrics.Enabled {
		return fmt.Errorf("%w: Metrics EnableLatencyHistograms requires Metrics Enabled", ErrInvalidConfig)
	}

	return nil
}
