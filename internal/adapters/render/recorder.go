package render

import (
	"context"
	"slices"
	"sync"

	vdom "replyguard/internal/services/visibility/domain"
)

// Op is one recorded render request
type Op struct {
	Kind     string
	Key      string
	Reasons  []string
	Count    int
	Revealed bool
}

// Op kinds
const (
	OpHidden   = "hidden"
	OpRevealed = "revealed"
	OpClear    = "clear"
	OpBar      = "bar"
	OpBadge    = "badge"
)

// Recorder keeps the current marker per key plus the last bar and badge.
// While Detached is set every call fails with ErrDetached and records nothing
type Recorder struct {
	mu       sync.Mutex
	detached bool
	ops      []Op
	markers  map[string]string
	bar      Op
	badge    int
}

// NewRecorder returns an attached, empty Recorder
func NewRecorder() *Recorder { return &Recorder{markers: map[string]string{}} }

// SetDetached toggles the failure mode
func (r *Recorder) SetDetached(d bool) {
	r.mu.Lock()
	r.detached = d
	r.mu.Unlock()
}

func (r *Recorder) record(op Op) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.detached {
		return ErrDetached
	}
	r.ops = append(r.ops, op)
	switch op.Kind {
	case OpHidden, OpRevealed:
		r.markers[op.Key] = op.Kind
	case OpClear:
		delete(r.markers, op.Key)
	case OpBar:
		r.bar = op
	case OpBadge:
		r.badge = op.Count
	}
	return nil
}

// RenderHidden implements Renderer
func (r *Recorder) RenderHidden(_ context.Context, it vdom.Item, reasons []string) error {
	return r.record(Op{Kind: OpHidden, Key: it.NodeKey, Reasons: slices.Clone(reasons)})
}

// RenderRevealed implements Renderer
func (r *Recorder) RenderRevealed(_ context.Context, it vdom.Item, reasons []string) error {
	return r.record(Op{Kind: OpRevealed, Key: it.NodeKey, Reasons: slices.Clone(reasons)})
}

// ClearMarker implements Renderer
func (r *Recorder) ClearMarker(_ context.Context, it vdom.Item) error {
	return r.record(Op{Kind: OpClear, Key: it.NodeKey})
}

// UpdateAggregateBar implements Renderer
func (r *Recorder) UpdateAggregateBar(_ context.Context, count int, revealed bool) error {
	return r.record(Op{Kind: OpBar, Count: count, Revealed: revealed})
}

// UpdateToggleBadge implements Renderer
func (r *Recorder) UpdateToggleBadge(_ context.Context, count int) error {
	return r.record(Op{Kind: OpBadge, Count: count})
}

// Ops returns a copy of every recorded request
func (r *Recorder) Ops() []Op {
	r.mu.Lock()
	defer r.mu.Unlock()
	return slices.Clone(r.ops)
}

// Marker returns the marker kind currently on key, "" when none
func (r *Recorder) Marker(key string) string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.markers[key]
}

// Markers counts keys carrying each marker kind
func (r *Recorder) Markers() (hidden, revealed int) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, k := range r.markers {
		if k == OpHidden {
			hidden++
		} else {
			revealed++
		}
	}
	return hidden, revealed
}

// Bar returns the last aggregate bar request
func (r *Recorder) Bar() (count int, revealed bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.bar.Count, r.bar.Revealed
}

// Badge returns the last badge count
func (r *Recorder) Badge() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.badge
}
