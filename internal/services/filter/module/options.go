package module

import (
	"time"

	modkit "replyguard/internal/modkit"
	mmodule "replyguard/internal/modkit/module"
	"replyguard/internal/platform/config"
)

// Options holds configuration settings for the filter module
type Options struct {
	Tick          time.Duration
	SubmitTimeout time.Duration
}

// FromConfig reads configuration settings from the config.Conf
func FromConfig(cfg config.Conf) Options {
	fc := cfg.Prefix("CORE_FILTER_")
	return Options{
		Tick:          fc.MayDuration("TICK", 500*time.Millisecond),
		SubmitTimeout: fc.MayDuration("SUBMIT_TIMEOUT", 5*time.Second),
	}
}

// DepsModules carries the modules the filter pulls its ports from
type DepsModules struct {
	Ledger   mmodule.Module
	Settings mmodule.Module
}

// WithDepsModules lets callers pass dependency modules without exposing MustPortsOf in main
func WithDepsModules(ledger, settings mmodule.Module) modkit.Option {
	return modkit.WithPorts(DepsModules{Ledger: ledger, Settings: settings})
}
