package store

import (
	"strings"
	"time"

	"replyguard/internal/platform/config"
)

// Drivers understood by Open
const (
	DriverMemory = "memory"
	DriverSQLite = "sqlite"
)

// Config aggregates backend configuration
type Config struct {
	AppName string

	KV KVConfig
}

// KVConfig selects and configures the key-value backend
type KVConfig struct {
	Driver string
	// Path is the sqlite file; ":memory:" opens a private in-memory database
	Path string

	// Guard/boot knobs:
	BusyTimeout  time.Duration // default 5s
	WriteRetries int           // default 5
}

// ConfigFromEnv reads SERVICE_KV_* keys
func ConfigFromEnv(c config.Conf) Config {
	kc := c.Prefix("SERVICE_KV_")
	return Config{
		AppName: c.MayString("SERVICE_NAME", "replyguard"),
		KV: KVConfig{
			Driver:       strings.ToLower(kc.MayEnum("DRIVER", DriverSQLite, DriverMemory, DriverSQLite)),
			Path:         kc.MayString("PATH", "replyguard.db"),
			BusyTimeout:  kc.MayDuration("BUSY_TIMEOUT", 5*time.Second),
			WriteRetries: kc.MayInt("WRITE_RETRIES", 5),
		},
	}
}
