// Package service reads and writes the filter settings
package service

import (
	"context"

	"replyguard/internal/core/policy"
	"replyguard/internal/platform/logger"
	dom "replyguard/internal/services/settings/domain"
)

// Service wraps the settings repo with first-run defaults
type Service struct {
	repo dom.Repo
	def  dom.Settings
	log  *logger.Logger
}

// New constructs the settings service. An invalid default sensitivity falls back to medium
func New(repo dom.Repo, def dom.Settings) *Service {
	if !def.Sensitivity.Valid() {
		def.Sensitivity = policy.Default
	}
	return &Service{repo: repo, def: def, log: logger.Named("settings")}
}

// Defaults returns the settings used when nothing is stored
func (s *Service) Defaults() dom.Settings { return s.def }

// Load never fails: storage errors are logged and defaults returned
func (s *Service) Load(ctx context.Context) dom.Settings {
	got, err := s.repo.Load(ctx, s.def)
	if err != nil {
		s.log.Warn().Err(err).Msg("settings load failed; using defaults")
		return s.def
	}
	if !got.Sensitivity.Valid() {
		s.log.Info().Str("sensitivity", string(got.Sensitivity)).Msg("unknown sensitivity; filtering as medium")
	}
	return got
}

// SetEnabled persists the master switch
func (s *Service) SetEnabled(ctx context.Context, on bool) error {
	return s.repo.Save(ctx, dom.Patch{Enabled: &on})
}

// SetSensitivity persists the raw sensitivity value
func (s *Service) SetSensitivity(ctx context.Context, v policy.Sensitivity) error {
	return s.repo.Save(ctx, dom.Patch{Sensitivity: &v})
}

// Watch reports settings written by anyone, this process included
func (s *Service) Watch(fn func(dom.Patch)) (cancel func()) { return s.repo.Watch(fn) }
