package module

import (
	"time"

	"replyguard/internal/platform/config"
)

// Options holds configuration settings for the ledger module
type Options struct {
	FlushEvery time.Duration
	FlushBurst int
}

// FromConfig reads configuration settings from the config.Conf
func FromConfig(cfg config.Conf) Options {
	lc := cfg.Prefix("CORE_LEDGER_")
	return Options{
		FlushEvery: lc.MayDuration("FLUSH_EVERY", 250*time.Millisecond),
		FlushBurst: lc.MayInt("FLUSH_BURST", 1),
	}
}
