package app

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"github.com/rs/zerolog"

	"github.com/five82/pledge/internal/donation"
	"github.com/five82/pledge/internal/state"
)

const defaultPollInterval = 10 * time.Second

// PollerOptions configure NewPoller.
type PollerOptions struct {
	Interval time.Duration // zero uses 10s
	Timeout  time.Duration // per poll; zero uses half the interval
	Logger   zerolog.Logger
	OnChange func(state.Snapshot)
}

// Poller owns the poll loop for one store. At most one fetch is in flight at
// any time: a trigger that arrives while a poll is running is dropped.
type Poller struct {
	store    *state.Store
	fetcher  donation.AmountFetcher
	interval time.Duration
	timeout  time.Duration
	logger   zerolog.Logger

	mu       sync.RWMutex
	onChange func(state.Snapshot)

	busy atomic.Bool
	wg   sync.WaitGroup
}

// NewPoller creates a Poller writing outcomes from fetcher into store.
func NewPoller(store *state.Store, fetcher donation.AmountFetcher, opts PollerOptions) *Poller {
	interval := opts.Interval
	if interval <= 0 {
		interval = defaultPollInterval
	}
	timeout := opts.Timeout
	if timeout <= 0 {
		timeout = interval / 2
	}
	return &Poller{
		store:    store,
		fetcher:  fetcher,
		interval: interval,
		timeout:  timeout,
		logger:   opts.Logger,
		onChange: opts.OnChange,
	}
}

// Store returns the store the poller writes to.
func (p *Poller) Store() *state.Store {
	return p.store
}

// SetOnChange replaces the render callback. It is called after a poll begins
// and again after its outcome is recorded.
func (p *Poller) SetOnChange(fn func(state.Snapshot)) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.onChange = fn
}

// Start polls once immediately and then every interval until ctx is done.
// Ticks are never delayed by a slow poll; they are dropped instead.
func (p *Poller) Start(ctx context.Context) {
	p.wg.Add(1)
	go func() {
		defer p.wg.Done()

		ticker := time.NewTicker(p.interval)
		defer ticker.Stop()

		p.trigger(ctx, "start")
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				p.trigger(ctx, "tick")
			}
		}
	}()
}

// Refresh asks for one poll outside the schedule. It returns false when a poll
// is already in flight. The interval timer is not reset.
func (p *Poller) Refresh(ctx context.Context) bool {
	return p.trigger(ctx, "manual")
}

// PollOnce runs a single poll in the calling goroutine and returns its error.
// It reports false when another poll already holds the guard.
func (p *Poller) PollOnce(ctx context.Context) (bool, error) {
	if !p.busy.CompareAndSwap(false, true) {
		p.logger.Debug().Str("trigger", "once").Msg("poll already in flight, dropped")
		return false, nil
	}
	defer p.busy.Store(false)
	return true, p.run(ctx)
}

// Wait blocks until the loop started by Start and any in-flight poll return.
func (p *Poller) Wait() {
	p.wg.Wait()
}

func (p *Poller) trigger(ctx context.Context, reason string) bool {
	if !p.busy.CompareAndSwap(false, true) {
		p.logger.Debug().Str("trigger", reason).Msg("poll already in flight, dropped")
		return false
	}
	p.wg.Add(1)
	go func() {
		defer p.wg.Done()
		defer p.busy.Store(false)
		_ = p.run(ctx)
	}()
	return true
}

// run performs one poll. The caller holds the busy guard.
func (p *Poller) run(ctx context.Context) error {
	p.store.BeginPoll()
	p.notify()

	pollCtx, cancel := context.WithTimeout(ctx, p.timeout)
	start := time.Now()
	amount, err := p.fetcher.FetchAmount(pollCtx)
	cancel()

	p.store.Update(amount, err)
	if err != nil {
		p.logger.Warn().
			Err(err).
			Dur("elapsed", time.Since(start)).
			Msg("poll failed, keeping last amount")
	} else {
		p.logger.Debug().
			Int64("amount", amount).
			Dur("elapsed", time.Since(start)).
			Msg("poll succeeded")
	}
	p.notify()
	return err
}

func (p *Poller) notify() {
	p.mu.RLock()
	fn := p.onChange
	p.mu.RUnlock()
	if fn != nil {
		fn(p.store.Snapshot())
	}
}
