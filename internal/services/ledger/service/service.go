// Package service implements the daily hidden-reply ledger
//
// Apart from Run and Flush, methods must be called from one goroutine (the
// filter engine loop)
package service

import (
	"context"
	"slices"
	"strings"
	"time"

	"replyguard/internal/platform/logger"
	ptime "replyguard/internal/platform/time"
	dom "replyguard/internal/services/ledger/domain"
)

// Config tunes the write-behind persister
type Config struct {
	FlushEvery time.Duration
	FlushBurst int
}

// Service counts unique hidden replies per calendar day
type Service struct {
	repo  dom.Repo
	clock ptime.Clock
	log   *logger.Logger
	p     *persister

	count int
	date  string
	ids   map[string]struct{}
	order []string
}

// New constructs a ledger; call Load before use
func New(repo dom.Repo, clock ptime.Clock, cfg Config) *Service {
	if clock == nil {
		clock = ptime.System{}
	}
	log := logger.Named("ledger")
	return &Service{
		repo:  repo,
		clock: clock,
		log:   log,
		p:     newPersister(repo, cfg.FlushEvery, cfg.FlushBurst, log),
		ids:   map[string]struct{}{},
	}
}

// Load reads the stored ledger and rolls it over when the stored date is not today.
// A missing date counts as today.
// On a storage error the ledger starts from defaults and the error is returned for logging
func (s *Service) Load(ctx context.Context) error {
	today := ptime.Today(s.clock)
	snap, ok, err := s.repo.Load(ctx)
	if err != nil {
		s.restart(today)
		return err
	}
	stamp := ok && snap.LastDate == ""
	if stamp {
		snap.LastDate = today
	}
	if !ok || snap.LastDate != today {
		if ok {
			s.log.Info().Str("from", snap.LastDate).Str("to", today).Int("dropped", snap.HiddenToday).Msg("ledger rollover")
		}
		s.restart(today)
		s.p.enqueue(s.Snapshot())
		return nil
	}

	s.count = max(snap.HiddenToday, 0)
	s.date = snap.LastDate
	s.ids = make(map[string]struct{}, len(snap.CountedIDs))
	s.order = s.order[:0]
	for _, id := range snap.CountedIDs {
		s.remember(id)
	}
	if stamp {
		s.p.enqueue(s.Snapshot())
	}
	return nil
}

func (s *Service) restart(today string) {
	s.count = 0
	s.date = today
	s.ids = map[string]struct{}{}
	s.order = nil
}

func (s *Service) remember(id string) bool {
	if _, seen := s.ids[id]; seen {
		return false
	}
	s.ids[id] = struct{}{}
	s.order = append(s.order, id)
	return true
}

// RecordHidden counts id once per day. Empty ids are never counted
func (s *Service) RecordHidden(id string) bool {
	id = strings.TrimSpace(id)
	if id == "" || !s.remember(id) {
		return false
	}
	s.count++
	s.p.enqueue(s.Snapshot())
	return true
}

// DailyCount is the number of unique hides counted today
func (s *Service) DailyCount() int { return s.count }

// Date is the calendar day the ledger is counting
func (s *Service) Date() string { return s.date }

// Reset zeroes the daily count. Counted ids are kept, so a reply hidden before
// the reset is not counted again the same day
func (s *Service) Reset() {
	s.count = 0
	s.p.enqueue(s.Snapshot())
}

// AdoptExternal applies a count written by another surface. Only resets are adopted;
// the echo of our own zero writes is ignored
func (s *Service) AdoptExternal(count int) bool {
	if count != 0 || s.p.consumeOwnZero() || s.count == 0 {
		return false
	}
	s.log.Info().Int("was", s.count).Msg("external counter reset")
	s.count = 0
	return true
}

// Snapshot returns the persisted form
func (s *Service) Snapshot() dom.Snapshot {
	return dom.Snapshot{HiddenToday: s.count, LastDate: s.date, CountedIDs: slices.Clone(s.order)}
}

// WatchCount subscribes to stored count changes
func (s *Service) WatchCount(fn func(int)) func() { return s.repo.WatchCount(fn) }

// Run drives the persister until ctx is done, then writes anything pending
func (s *Service) Run(ctx context.Context) { s.p.run(ctx) }

// Flush writes the current state synchronously; call it from the owning goroutine
func (s *Service) Flush(ctx context.Context) error {
	s.p.take()
	return s.p.save(ctx, s.Snapshot())
}
