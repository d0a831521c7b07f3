// Package modkit provides module wiring and core deps
package modkit

import (
	"replyguard/internal/platform/config"
	"replyguard/internal/platform/logger"
	"replyguard/internal/platform/store"
)

// Deps holds core dependencies passed to modules
// this is wiring only and does not introduce new abstractions
type Deps struct {
	Log logger.Logger
	Cfg config.Conf
	KV  store.KV
}
