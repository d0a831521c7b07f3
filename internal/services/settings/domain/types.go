// Package domain defines user settings for the reply filter
package domain

import (
	"context"

	"replyguard/internal/core/policy"
)

// Storage keys
const (
	KeyEnabled     = "enabled"
	KeySensitivity = "sensitivity"
)

// Settings are the user-controlled filter switches
type Settings struct {
	Enabled     bool               `json:"enabled"`
	Sensitivity policy.Sensitivity `json:"sensitivity"`
}

// Defaults returns the first-run settings
func Defaults() Settings {
	return Settings{Enabled: true, Sensitivity: policy.Default}
}

// Patch carries the fields that changed; nil means untouched
type Patch struct {
	Enabled     *bool
	Sensitivity *policy.Sensitivity
}

// Empty reports whether the patch changes nothing
func (p Patch) Empty() bool { return p.Enabled == nil && p.Sensitivity == nil }

// Apply returns s with p applied
func (p Patch) Apply(s Settings) Settings {
	if p.Enabled != nil {
		s.Enabled = *p.Enabled
	}
	if p.Sensitivity != nil {
		s.Sensitivity = *p.Sensitivity
	}
	return s
}

// Repo loads, saves and watches settings
type Repo interface {
	// Load fills keys that are stored over def
	Load(ctx context.Context, def Settings) (Settings, error)
	Save(ctx context.Context, p Patch) error
	Watch(fn func(Patch)) (cancel func())
}
