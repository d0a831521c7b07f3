package render

import (
	"context"
	"strings"

	"replyguard/internal/platform/logger"
	vdom "replyguard/internal/services/visibility/domain"
)

// Log writes every render request to the logger. It is the default when no
// page collaborator is attached; companions poll the thread snapshot instead
type Log struct {
	log *logger.Logger
}

// NewLog writes to l, or to the "render" component logger when l is nil
func NewLog(l *logger.Logger) *Log {
	if l == nil {
		l = logger.Named("render")
	}
	return &Log{log: l}
}

// RenderHidden implements Renderer
func (l *Log) RenderHidden(ctx context.Context, it vdom.Item, reasons []string) error {
	l.log.Debug().Str("key", it.NodeKey).Str("id", it.ID).Str("reasons", strings.Join(reasons, ",")).Msg("hide")
	return nil
}

// RenderRevealed implements Renderer
func (l *Log) RenderRevealed(ctx context.Context, it vdom.Item, reasons []string) error {
	l.log.Debug().Str("key", it.NodeKey).Str("id", it.ID).Str("reasons", strings.Join(reasons, ",")).Msg("reveal")
	return nil
}

// ClearMarker implements Renderer
func (l *Log) ClearMarker(ctx context.Context, it vdom.Item) error {
	l.log.Debug().Str("key", it.NodeKey).Msg("clear")
	return nil
}

// UpdateAggregateBar implements Renderer
func (l *Log) UpdateAggregateBar(ctx context.Context, count int, revealed bool) error {
	l.log.Debug().Int("count", count).Bool("revealed", revealed).Msg("bar")
	return nil
}

// UpdateToggleBadge implements Renderer
func (l *Log) UpdateToggleBadge(ctx context.Context, count int) error {
	l.log.Debug().Int("count", count).Msg("badge")
	return nil
}
