// Package domain defines the daily hidden-reply ledger
package domain

import "context"

// Storage keys
const (
	KeyHiddenToday = "hiddenToday"
	KeyLastDate    = "lastDate"
	KeyCountedIDs  = "countedTweetIds"
)

// Snapshot is the persisted form of the ledger
type Snapshot struct {
	HiddenToday int      `json:"hiddenToday"`
	LastDate    string   `json:"lastDate"`
	CountedIDs  []string `json:"countedTweetIds"`
}

// Repo loads and saves ledger snapshots
type Repo interface {
	// Load returns ok=false when nothing was stored yet
	Load(ctx context.Context) (s Snapshot, ok bool, err error)
	Save(ctx context.Context, s Snapshot) error
	// WatchCount reports counts written to the store by anyone, this process included
	WatchCount(fn func(count int)) (cancel func())
}
