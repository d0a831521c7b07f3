// Package render defines the port the filter uses to change what the reader sees,
// plus log and in-memory implementations
package render

import (
	"context"
	"errors"

	perr "replyguard/internal/platform/errors"
	vdom "replyguard/internal/services/visibility/domain"
)

// ErrDetached means the render target is not mounted right now; the caller retries later
var ErrDetached = perr.New(perr.ErrorCodeDetached, "render target detached")

// Renderer applies visual state for one view
type Renderer interface {
	RenderHidden(ctx context.Context, it vdom.Item, reasons []string) error
	RenderRevealed(ctx context.Context, it vdom.Item, reasons []string) error
	ClearMarker(ctx context.Context, it vdom.Item) error
	// UpdateAggregateBar shows count flagged replies; zero removes the bar
	UpdateAggregateBar(ctx context.Context, count int, revealed bool) error
	UpdateToggleBadge(ctx context.Context, count int) error
}

// Multi fans a request out to every renderer and joins their errors
type Multi []Renderer

func (m Multi) each(fn func(Renderer) error) error {
	var errs []error
	for _, r := range m {
		if err := fn(r); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// RenderHidden implements Renderer
func (m Multi) RenderHidden(ctx context.Context, it vdom.Item, reasons []string) error {
	return m.each(func(r Renderer) error { return r.RenderHidden(ctx, it, reasons) })
}

// RenderRevealed implements Renderer
func (m Multi) RenderRevealed(ctx context.Context, it vdom.Item, reasons []string) error {
	return m.each(func(r Renderer) error { return r.RenderRevealed(ctx, it, reasons) })
}

// ClearMarker implements Renderer
func (m Multi) ClearMarker(ctx context.Context, it vdom.Item) error {
	return m.each(func(r Renderer) error { return r.ClearMarker(ctx, it) })
}

// UpdateAggregateBar implements Renderer
func (m Multi) UpdateAggregateBar(ctx context.Context, count int, revealed bool) error {
	return m.each(func(r Renderer) error { return r.UpdateAggregateBar(ctx, count, revealed) })
}

// UpdateToggleBadge implements Renderer
func (m Multi) UpdateToggleBadge(ctx context.Context, count int) error {
	return m.each(func(r Renderer) error { return r.UpdateToggleBadge(ctx, count) })
}
