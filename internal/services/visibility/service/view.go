// Package service implements the per-thread visibility state machine
//
// A View is owned by a single goroutine (the filter engine loop) and is not
// safe for concurrent use
package service

import (
	"slices"
	"strings"

	"github.com/google/uuid"

	"replyguard/internal/core/classifier"
	dom "replyguard/internal/services/visibility/domain"
)

type entry struct {
	item      dom.Item
	state     dom.State
	result    *classifier.Result
	processed bool
	skipped   string
	stale     bool
}

// View tracks every item observed since the last navigation
type View struct {
	id         string
	threadKey  string
	isThread   bool
	rootAuthor string

	order []string
	items map[string]*entry

	hidden       int
	revealed     int
	revealedMode bool
}

// New starts a fresh view for a navigation
func New(nav dom.Nav) *View {
	return &View{
		id:         uuid.NewString(),
		threadKey:  nav.ThreadKey,
		isThread:   nav.IsThread,
		rootAuthor: dom.Handle(nav.RootAuthor),
		items:      map[string]*entry{},
	}
}

// ID is unique per navigation
func (v *View) ID() string { return v.id }

// IsThread reports whether items on this page are eligible for classification
func (v *View) IsThread() bool { return v.isThread }

// RootAuthor is the normalized thread author, empty while unresolved
func (v *View) RootAuthor() string { return v.rootAuthor }

// SetRootAuthor records a late-resolved thread author
func (v *View) SetRootAuthor(a string) { v.rootAuthor = dom.Handle(a) }

// Remember registers it and returns its key. Items with neither NodeKey nor ID
// get a fresh key every time so they are never deduplicated
func (v *View) Remember(it dom.Item) string {
	key := strings.TrimSpace(it.NodeKey)
	if key == "" {
		key = strings.TrimSpace(it.ID)
	}
	if key == "" {
		key = "anon:" + uuid.NewString()
	}
	if _, ok := v.items[key]; !ok {
		it.NodeKey = key
		it.Author = dom.Handle(it.Author)
		v.items[key] = &entry{item: it, state: dom.Unclassified}
		v.order = append(v.order, key)
	}
	return key
}

// Item returns the remembered item for key
func (v *View) Item(key string) (dom.Item, bool) {
	e, ok := v.items[key]
	if !ok {
		return dom.Item{}, false
	}
	return e.item, true
}

// State returns the state for key, Unclassified when unknown
func (v *View) State(key string) dom.State {
	if e, ok := v.items[key]; ok {
		return e.state
	}
	return dom.Unclassified
}

// Processed reports whether key was handled in the current pass
func (v *View) Processed(key string) bool {
	e, ok := v.items[key]
	return ok && e.processed
}

// Skip marks key processed without classifying it
func (v *View) Skip(key, why string) {
	if e, ok := v.items[key]; ok {
		e.processed = true
		e.skipped = why
	}
}

// Apply records a classification. Flagged items enter Hidden, or Revealed while the
// thread is in revealed mode, so the two populations never coexist
func (v *View) Apply(key string, res classifier.Result, flagged bool) dom.State {
	e, ok := v.items[key]
	if !ok {
		return dom.Unclassified
	}
	v.leave(e.state)
	e.processed = true
	e.skipped = ""
	e.result = &res
	switch {
	case !flagged:
		e.state = dom.Visible
	case v.revealedMode:
		e.state = dom.Revealed
	default:
		e.state = dom.Hidden
	}
	v.enter(e.state)
	return e.state
}

// Toggle is the single thread-wide switch: hidden items are revealed if there
// are any, otherwise revealed items are hidden. It returns the keys that moved
func (v *View) Toggle() []string {
	switch {
	case v.hidden > 0:
		return v.move(dom.Hidden, dom.Revealed, true)
	case v.revealed > 0:
		return v.move(dom.Revealed, dom.Hidden, false)
	}
	return nil
}

// ShowSpam sets revealed mode explicitly and moves the flagged population to match
func (v *View) ShowSpam(show bool) []string {
	if show {
		return v.move(dom.Hidden, dom.Revealed, true)
	}
	return v.move(dom.Revealed, dom.Hidden, false)
}

func (v *View) move(from, to dom.State, mode bool) []string {
	v.revealedMode = mode
	var moved []string
	for _, k := range v.order {
		e := v.items[k]
		if e.state != from {
			continue
		}
		v.leave(from)
		e.state = to
		v.enter(to)
		moved = append(moved, k)
	}
	return moved
}

// Reset discards per-item state for a new processing pass, keeping the items.
// It returns the keys that carried a marker before the reset
func (v *View) Reset() []string {
	var marked []string
	for _, k := range v.order {
		e := v.items[k]
		if e.state.Flagged() {
			marked = append(marked, k)
		}
		e.state = dom.Unclassified
		e.result = nil
		e.processed = false
		e.skipped = ""
		e.stale = false
	}
	v.hidden, v.revealed = 0, 0
	v.revealedMode = false
	return marked
}

// Keys lists remembered keys in arrival order
func (v *View) Keys() []string { return slices.Clone(v.order) }

// Reasons returns the reasons behind key's last result
func (v *View) Reasons(key string) []string {
	if e, ok := v.items[key]; ok && e.result != nil {
		return slices.Clone(e.result.Reasons)
	}
	return nil
}

// MarkStale flags key for a render retry
func (v *View) MarkStale(key string) {
	if e, ok := v.items[key]; ok {
		e.stale = true
	}
}

// ClearStale drops the retry flag
func (v *View) ClearStale(key string) {
	if e, ok := v.items[key]; ok {
		e.stale = false
	}
}

// Stale lists keys waiting for a render retry
func (v *View) Stale() []string {
	var out []string
	for _, k := range v.order {
		if v.items[k].stale {
			out = append(out, k)
		}
	}
	return out
}

// HiddenCount is the number of items currently Hidden
func (v *View) HiddenCount() int { return v.hidden }

// Aggregate summarizes the thread
func (v *View) Aggregate() dom.Aggregate {
	return dom.Aggregate{Hidden: v.hidden, Revealed: v.revealed, RevealedMode: v.revealedMode}
}

// Snapshot copies the whole view
func (v *View) Snapshot() dom.Snapshot {
	s := dom.Snapshot{
		ViewID:     v.id,
		ThreadKey:  v.threadKey,
		IsThread:   v.isThread,
		RootAuthor: v.rootAuthor,
		Aggregate:  v.Aggregate(),
		Items:      make([]dom.Entry, 0, len(v.order)),
	}
	for _, k := range v.order {
		e := v.items[k]
		out := dom.Entry{Key: k, Item: e.item, State: e.state, Skipped: e.skipped}
		if e.result != nil {
			r := classifier.Result{Total: e.result.Total, Reasons: slices.Clone(e.result.Reasons)}
			out.Result = &r
		}
		s.Items = append(s.Items, out)
	}
	return s
}

func (v *View) enter(s dom.State) {
	switch s {
	case dom.Hidden:
		v.hidden++
	case dom.Revealed:
		v.revealed++
	}
}

func (v *View) leave(s dom.State) {
	switch s {
	case dom.Hidden:
		v.hidden--
	case dom.Revealed:
		v.revealed--
	}
}
