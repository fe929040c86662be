// Package config loads the settings that steer container detection.
//
// Settings come from an optional YAML file and from ENVDEP_* environment variables. The
// environment wins over the file.
package config

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/sethvargo/go-envconfig"
	"sigs.k8s.io/yaml"

	"github.com/gburgyan/go-envdep"
	"github.com/gburgyan/go-envdep/logging"
)

// EnvPrefix is prepended to every environment variable name.
const EnvPrefix = "ENVDEP_"

const (
	TimingOff   = "off"
	TimingSteps = "steps"
)

type Config struct {
	// Container forces a container by name instead of detecting one.
	Container string `env:"CONTAINER" json:"container,omitempty"`
	// Capabilities are reported as available even if not registered.
	Capabilities []string `env:"CAPABILITIES" json:"capabilities,omitempty"`
	// DisabledCapabilities are reported as unavailable even if registered.
	DisabledCapabilities []string `env:"DISABLED_CAPABILITIES" json:"disabledCapabilities,omitempty"`
	// Timing is "off" or "steps".
	Timing string `env:"TIMING" json:"timing,omitempty"`
	// MetricsAddr is where the command serves /metrics; empty disables it.
	MetricsAddr string `env:"METRICS_ADDR" json:"metricsAddr,omitempty"`

	Log logging.Config `env:", prefix=LOG_" json:"log"`
}

// Load reads the file at path, if path is not empty, and then applies the environment.
func Load(ctx context.Context, path string) (*Config, error) {
	return load(ctx, path, envconfig.OsLookuper())
}

func load(ctx context.Context, path string, lookuper envconfig.Lookuper) (*Config, error) {
	var cfg Config
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read config file: %w", err)
		}
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return nil, fmt.Errorf("parse config file %s: %w", path, err)
		}
	}

	if err := envconfig.ProcessWith(ctx, &envconfig.Config{
		Target:           &cfg,
		Lookuper:         envconfig.PrefixLookuper(EnvPrefix, lookuper),
		DefaultOverwrite: true,
	}); err != nil {
		return nil, fmt.Errorf("read environment: %w", err)
	}

	cfg.setDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) setDefaults() {
	if c.Timing == "" {
		c.Timing = TimingOff
	}
	if c.Log.Level == "" {
		c.Log.Level = "info"
	}
}

func (c *Config) Validate() error {
	switch strings.ToLower(c.Timing) {
	case TimingOff, TimingSteps:
	default:
		return fmt.Errorf("invalid timing mode %q (want %q or %q)", c.Timing, TimingOff, TimingSteps)
	}
	for _, d := range c.DisabledCapabilities {
		for _, e := range c.Capabilities {
			if d == e {
				return fmt.Errorf("capability %q is both enabled and disabled", d)
			}
		}
	}
	return nil
}

// Prober returns base adjusted by the enabled and disabled capability lists.
func (c *Config) Prober(base envdep.Prober) envdep.Prober {
	if len(c.Capabilities) == 0 && len(c.DisabledCapabilities) == 0 {
		return base
	}
	return &envdep.Overlay{
		Base:     base,
		Enabled:  toCapabilities(c.Capabilities),
		Disabled: toCapabilities(c.DisabledCapabilities),
	}
}

// BootstrapOptions returns the options for envdep.NewBootstrap.
func (c *Config) BootstrapOptions() []envdep.BootstrapOption {
	var opts []envdep.BootstrapOption
	if c.Container != "" {
		opts = append(opts, envdep.WithContainer(c.Container))
	}
	return opts
}

// TimingMode maps the Timing setting to envdep.TimingMode.
func (c *Config) TimingMode() envdep.TimingMode {
	if strings.EqualFold(c.Timing, TimingSteps) {
		return envdep.TimingSteps
	}
	return envdep.TimingDisable
}

// String renders the configuration as YAML for startup diagnostics.
func (c *Config) String() string {
	out, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Sprintf("<unprintable config: %v>", err)
	}
	return string(out)
}

func toCapabilities(names []string) []envdep.Capability {
	caps := make([]envdep.Capability, 0, len(names))
	for _, n := range names {
		if n = strings.TrimSpace(n); n != "" {
			caps = append(caps, envdep.Capability(n))
		}
	}
	return caps
}
