package service

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"golang.org/x/time/rate"

	"replyguard/internal/platform/logger"
	dom "replyguard/internal/services/ledger/domain"
)

// persister is a write-behind saver: the latest snapshot wins and writes are
// spaced by a token bucket so a burst of hides costs one store write
type persister struct {
	repo dom.Repo
	lim  *rate.Limiter
	log  *logger.Logger

	mu      sync.Mutex
	pending *dom.Snapshot
	wake    chan struct{}

	// ownZero counts zero-count writes we made whose change notification is still in flight
	ownZero atomic.Int64
}

func newPersister(repo dom.Repo, every time.Duration, burst int, log *logger.Logger) *persister {
	if every <= 0 {
		every = 250 * time.Millisecond
	}
	if burst <= 0 {
		burst = 1
	}
	return &persister{
		repo: repo,
		lim:  rate.NewLimiter(rate.Every(every), burst),
		log:  log,
		wake: make(chan struct{}, 1),
	}
}

// enqueue never blocks
func (p *persister) enqueue(s dom.Snapshot) {
	p.mu.Lock()
	p.pending = &s
	p.mu.Unlock()
	select {
	case p.wake <- struct{}{}:
	default:
	}
}

func (p *persister) take() (dom.Snapshot, bool) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.pending == nil {
		return dom.Snapshot{}, false
	}
	s := *p.pending
	p.pending = nil
	return s, true
}

func (p *persister) run(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			p.drain()
			return
		case <-p.wake:
			if err := p.lim.Wait(ctx); err != nil {
				p.drain()
				return
			}
			if s, ok := p.take(); ok {
				p.save(ctx, s)
			}
		}
	}
}

// drain writes whatever is pending with a short detached deadline
func (p *persister) drain() {
	s, ok := p.take()
	if !ok {
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	p.save(ctx, s)
}

func (p *persister) save(ctx context.Context, s dom.Snapshot) error {
	if s.HiddenToday == 0 {
		p.ownZero.Add(1)
	}
	err := p.repo.Save(ctx, s)
	if err != nil {
		if s.HiddenToday == 0 {
			p.ownZero.Add(-1)
		}
		// write-behind: the next snapshot supersedes this one
		p.log.Warn().Err(err).Int("hidden_today", s.HiddenToday).Msg("ledger write dropped")
	}
	return err
}

// consumeOwnZero reports whether a zero-count notification is the echo of our own write
func (p *persister) consumeOwnZero() bool {
	for {
		n := p.ownZero.Load()
		if n <= 0 {
			return false
		}
		if p.ownZero.CompareAndSwap(n, n-1) {
			return true
		}
	}
}
