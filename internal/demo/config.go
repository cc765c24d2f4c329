package demo

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"

	"github.com/zoobzio/batchz"
)

// Config holds the tunables of the demo scenarios.
type Config struct {
	// Interval between two events of the string stream.
	Interval time.Duration `mapstructure:"interval"`
	// Count is the number of events taken from the string stream.
	Count int `mapstructure:"count"`
	// MaxCount and MaxDuration bound the buffering scenarios.
	MaxCount    int           `mapstructure:"max-count"`
	MaxDuration time.Duration `mapstructure:"max-duration"`
	// WindowPeriod is the time-only window of the window-time scenario.
	WindowPeriod time.Duration `mapstructure:"window-period"`
	// GroupInterval, GroupCount and Window drive the group-parity scenario.
	GroupInterval time.Duration `mapstructure:"group-interval"`
	GroupCount    int           `mapstructure:"group-count"`
	Window        time.Duration `mapstructure:"window"`
	// MetricsAddr, when set, serves Prometheus metrics on this address.
	MetricsAddr string `mapstructure:"metrics-addr"`
}

// DefaultConfig returns the tutorial's settings.
func DefaultConfig() Config {
	return Config{
		Interval:      200 * time.Millisecond,
		Count:         10,
		MaxCount:      3,
		MaxDuration:   time.Second,
		WindowPeriod:  500 * time.Millisecond,
		GroupInterval: 300 * time.Millisecond,
		GroupCount:    30,
		Window:        5 * time.Second,
	}
}

// SetDefaults registers DefaultConfig on v.
func SetDefaults(v *viper.Viper) {
	d := DefaultConfig()
	v.SetDefault("interval", d.Interval)
	v.SetDefault("count", d.Count)
	v.SetDefault("max-count", d.MaxCount)
	v.SetDefault("max-duration", d.MaxDuration)
	v.SetDefault("window-period", d.WindowPeriod)
	v.SetDefault("group-interval", d.GroupInterval)
	v.SetDefault("group-count", d.GroupCount)
	v.SetDefault("window", d.Window)
	v.SetDefault("metrics-addr", d.MetricsAddr)
}

// LoadConfig reads the demo configuration from v. A config file, if one is
// set on v, must exist; BATCHZ_* environment variables override it.
func LoadConfig(v *viper.Viper) (Config, error) {
	SetDefaults(v)
	v.SetEnvPrefix("batchz")
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()

	if v.ConfigFileUsed() != "" {
		if err := v.ReadInConfig(); err != nil {
			return Config{}, fmt.Errorf("failed to load configuration file. %w", err)
		}
	}

	var c Config
	if err := v.Unmarshal(&c); err != nil {
		return Config{}, fmt.Errorf("failed to unmarshal configuration. %w", err)
	}
	return c, c.Validate()
}

// Validate checks the stream settings and the batcher thresholds.
func (c Config) Validate() error {
	var errs []error
	if c.Interval <= 0 || c.GroupInterval <= 0 {
		errs = append(errs, errors.New("event intervals must be > 0"))
	}
	if c.Count < 0 || c.GroupCount < 0 {
		errs = append(errs, errors.New("event counts must be >= 0"))
	}
	if _, err := batchz.BatchByCountOrTimeout[string](c.MaxCount, c.MaxDuration, nil); err != nil {
		errs = append(errs, err)
	}
	if _, err := batchz.BatchByTimeout[string](c.WindowPeriod, nil); err != nil {
		errs = append(errs, fmt.Errorf("window-period: %w", err))
	}
	errs = append(errs, batchz.GroupConfig{Window: c.Window}.Validate())
	return errors.Join(errs...)
}
