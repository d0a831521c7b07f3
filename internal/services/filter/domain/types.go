// Package domain defines the filter session ports and read models
package domain

import (
	"context"

	"replyguard/internal/core/classifier"
	"replyguard/internal/core/policy"
	sdom "replyguard/internal/services/settings/domain"
	vdom "replyguard/internal/services/visibility/domain"
)

// LedgerPort is the daily counter the engine drives from its loop
type LedgerPort interface {
	Load(ctx context.Context) error
	RecordHidden(id string) bool
	DailyCount() int
	Reset()
	AdoptExternal(count int) bool
	WatchCount(fn func(int)) (cancel func())
	Run(ctx context.Context)
}

// SettingsPort persists and watches the user switches
type SettingsPort interface {
	Load(ctx context.Context) sdom.Settings
	SetEnabled(ctx context.Context, on bool) error
	SetSensitivity(ctx context.Context, s policy.Sensitivity) error
	Watch(fn func(sdom.Patch)) (cancel func())
}

// Ports are the cross-module dependencies of the filter
type Ports struct {
	Ledger   LedgerPort
	Settings SettingsPort
}

// Stats answers the popup's stats query
type Stats struct {
	HiddenToday    int `json:"hiddenToday"`
	HiddenInThread int `json:"hiddenInThread"`
}

// Verdict is a stateless classification at a given sensitivity
type Verdict struct {
	classifier.Result
	Features    classifier.Features `json:"metrics"`
	Sensitivity policy.Sensitivity  `json:"sensitivity"`
	Hide        bool                `json:"hide"`
}

// Status is the full session read model
type Status struct {
	Settings sdom.Settings `json:"settings"`
	Stats    Stats         `json:"stats"`
	Thread   vdom.Snapshot `json:"thread"`
}

// EnginePort is the control and ingestion surface of a filter session
type EnginePort interface {
	ItemsAppeared(ctx context.Context, items []vdom.Item) (int, error)
	ItemsAppearedIn(ctx context.Context, viewID string, items []vdom.Item) (int, error)
	Navigate(ctx context.Context, nav vdom.Nav) (viewID string, err error)
	ResolveRootAuthor(ctx context.Context, author string) error
	ToggleEnabled(ctx context.Context, on bool) error
	SensitivityChanged(ctx context.Context, s policy.Sensitivity) error
	ResetCounter(ctx context.Context) error
	ToggleThread(ctx context.Context) error
	ShowSpam(ctx context.Context, show bool) error
	GetStats(ctx context.Context) (Stats, error)
	Status(ctx context.Context) (Status, error)
	Classify(ctx context.Context, text string, s policy.Sensitivity) (Verdict, error)
}
