package modkit

import "replyguard/internal/modkit/module"

// Module is the contract every API module satisfies; New constructors return it
type Module = module.Module
