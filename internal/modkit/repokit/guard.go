package repokit

import (
	"context"
	"fmt"
	"time"
)

// GuardTimeout bounds the startup readiness check
const GuardTimeout = 5 * time.Second

// Guarder is the startup check a store exposes
type Guarder interface {
	Guard(context.Context) error
}

// MustGuard panics unless st answers its readiness check within GuardTimeout.
// It runs once at startup, before any module binds a repo
func MustGuard(ctx context.Context, st Guarder) {
	ctx, cancel := context.WithTimeout(ctx, GuardTimeout)
	defer cancel()
	if err := st.Guard(ctx); err != nil {
		panic(fmt.Sprintf("kv store not ready: %v", err))
	}
}
