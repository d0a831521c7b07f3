// Package domain defines the items, states and snapshots of a thread view
package domain

import (
	"strings"

	"replyguard/internal/core/classifier"
)

// State is the visibility of one observed item
type State string

const (
	// Unclassified items have not been scored in the current processing pass
	Unclassified State = "unclassified"
	// Visible items were scored and left alone
	Visible State = "visible"
	// Hidden items met the policy and are collapsed
	Hidden State = "hidden"
	// Revealed items met the policy but the reader chose to see them
	Revealed State = "revealed"
)

// Flagged reports whether the state means the policy fired
func (s State) Flagged() bool { return s == Hidden || s == Revealed }

// Item is one observed reply as the page collaborator reports it
type Item struct {
	// NodeKey identifies the rendered node within a view; falls back to ID
	NodeKey string `json:"node_key,omitempty"`
	// ID is the permalink id; empty means the item cannot be counted in the ledger
	ID     string `json:"id,omitempty"`
	Author string `json:"author,omitempty"`
	Text   string `json:"text"`
	IsRoot bool   `json:"is_root,omitempty"`
}

// Handle normalizes an author handle for comparison
func Handle(s string) string {
	return strings.ToLower(strings.TrimPrefix(strings.TrimSpace(s), "@"))
}

// Nav describes the page the reader moved to
type Nav struct {
	ThreadKey  string `json:"thread_key"`
	IsThread   bool   `json:"is_thread"`
	RootAuthor string `json:"root_author,omitempty"`
}

// Entry is a read-only copy of one item's state
type Entry struct {
	Key     string             `json:"key"`
	Item    Item               `json:"item"`
	State   State              `json:"state"`
	Result  *classifier.Result `json:"result,omitempty"`
	Skipped string             `json:"skipped,omitempty"`
}

// Aggregate is the thread level summary
type Aggregate struct {
	Hidden       int  `json:"hidden"`
	Revealed     int  `json:"revealed"`
	RevealedMode bool `json:"revealed_mode"`
}

// Flagged is hidden plus revealed
func (a Aggregate) Flagged() int { return a.Hidden + a.Revealed }

// Snapshot is a read-only copy of a whole view
type Snapshot struct {
	ViewID     string    `json:"view_id"`
	ThreadKey  string    `json:"thread_key"`
	IsThread   bool      `json:"is_thread"`
	RootAuthor string    `json:"root_author,omitempty"`
	Aggregate  Aggregate `json:"aggregate"`
	Items      []Entry   `json:"items"`
}

// Skip reasons recorded on entries the identity filters passed over
const (
	SkipRoot      = "root"
	SkipSelfReply = "self-reply"
	SkipEmpty     = "empty"
)
