package app

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/five82/pledge/internal/donation"
	"github.com/five82/pledge/internal/state"
)

type fakeFetcher struct {
	mu          sync.Mutex
	calls       int
	inFlight    int
	maxInFlight int
	results     []fakeResult // consumed per call; the last one repeats

	gate    chan struct{} // when set, each call waits for a value
	started chan struct{}
}

type fakeResult struct {
	amount int64
	err    error
}

func newFakeFetcher(results ...fakeResult) *fakeFetcher {
	return &fakeFetcher{results: results, started: make(chan struct{}, 64)}
}

func (f *fakeFetcher) FetchAmount(ctx context.Context) (int64, error) {
	f.mu.Lock()
	idx := f.calls
	f.calls++
	f.inFlight++
	if f.inFlight > f.maxInFlight {
		f.maxInFlight = f.inFlight
	}
	f.mu.Unlock()
	defer func() {
		f.mu.Lock()
		f.inFlight--
		f.mu.Unlock()
	}()

	select {
	case f.started <- struct{}{}:
	default:
	}

	if f.gate != nil {
		select {
		case <-f.gate:
		case <-ctx.Done():
			return 0, ctx.Err()
		}
	}

	if len(f.results) == 0 {
		return 0, nil
	}
	if idx >= len(f.results) {
		idx = len(f.results) - 1
	}
	return f.results[idx].amount, f.results[idx].err
}

func (f *fakeFetcher) stats() (calls, maxInFlight int) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls, f.maxInFlight
}

func waitStarted(t *testing.T, f *fakeFetcher) {
	t.Helper()
	select {
	case <-f.started:
	case <-time.After(2 * time.Second):
		t.Fatalf("fetch did not start")
	}
}

func newTestPoller(f donation.AmountFetcher, opts PollerOptions) *Poller {
	opts.Logger = zerolog.Nop()
	return NewPoller(&state.Store{}, f, opts)
}

func TestNewPoller_Defaults(t *testing.T) {
	p := newTestPoller(newFakeFetcher(), PollerOptions{})
	if p.interval != 10*time.Second {
		t.Fatalf("interval = %v, want 10s", p.interval)
	}
	if p.timeout != 5*time.Second {
		t.Fatalf("timeout = %v, want 5s", p.timeout)
	}
}

func TestPoller_StatusTransitions(t *testing.T) {
	var (
		mu       sync.Mutex
		statuses []state.Status
	)
	f := newFakeFetcher(fakeResult{amount: 2_500_000})
	p := newTestPoller(f, PollerOptions{OnChange: func(s state.Snapshot) {
		mu.Lock()
		statuses = append(statuses, s.Status)
		mu.Unlock()
	}})

	ran, err := p.PollOnce(context.Background())
	if !ran || err != nil {
		t.Fatalf("PollOnce = %v, %v, want true, nil", ran, err)
	}

	mu.Lock()
	defer mu.Unlock()
	want := []state.Status{state.StatusConnecting, state.StatusConnected}
	if len(statuses) != len(want) || statuses[0] != want[0] || statuses[1] != want[1] {
		t.Fatalf("statuses = %v, want %v", statuses, want)
	}
	if got := p.Store().Snapshot().Amount; got != 2_500_000 {
		t.Fatalf("Amount = %d, want 2500000", got)
	}
}

func TestPoller_FailureKeepsLastAmount(t *testing.T) {
	fetchErr := errors.New("boom")
	f := newFakeFetcher(fakeResult{amount: 100}, fakeResult{err: fetchErr})
	p := newTestPoller(f, PollerOptions{})

	if _, err := p.PollOnce(context.Background()); err != nil {
		t.Fatalf("first poll returned error: %v", err)
	}
	_, err := p.PollOnce(context.Background())
	if !errors.Is(err, fetchErr) {
		t.Fatalf("second poll error = %v, want %v", err, fetchErr)
	}

	snap := p.Store().Snapshot()
	if snap.Amount != 100 {
		t.Fatalf("Amount = %d, want 100 retained", snap.Amount)
	}
	if snap.Status != state.StatusError {
		t.Fatalf("Status = %v, want error", snap.Status)
	}
	if !errors.Is(snap.LastError, fetchErr) {
		t.Fatalf("LastError = %v, want %v", snap.LastError, fetchErr)
	}
}

func TestPoller_RecoversAfterFailure(t *testing.T) {
	f := newFakeFetcher(fakeResult{err: donation.ErrTransport}, fakeResult{amount: 7})
	p := newTestPoller(f, PollerOptions{})

	_, _ = p.PollOnce(context.Background())
	if _, err := p.PollOnce(context.Background()); err != nil {
		t.Fatalf("second poll returned error: %v", err)
	}
	snap := p.Store().Snapshot()
	if snap.Status != state.StatusConnected || snap.Amount != 7 || snap.LastError != nil {
		t.Fatalf("snapshot = %+v, want connected with 7 and no error", snap)
	}
}

func TestPoller_RefreshDroppedWhileBusy(t *testing.T) {
	f := newFakeFetcher(fakeResult{amount: 1})
	f.gate = make(chan struct{})
	p := newTestPoller(f, PollerOptions{Interval: time.Hour})

	if !p.Refresh(context.Background()) {
		t.Fatalf("first Refresh was dropped")
	}
	waitStarted(t, f)

	if p.Refresh(context.Background()) {
		t.Fatalf("Refresh while busy was accepted")
	}
	if ran, _ := p.PollOnce(context.Background()); ran {
		t.Fatalf("PollOnce while busy ran")
	}

	f.gate <- struct{}{}
	p.Wait()

	if calls, _ := f.stats(); calls != 1 {
		t.Fatalf("calls = %d, want 1", calls)
	}

	close(f.gate)
	if !p.Refresh(context.Background()) {
		t.Fatalf("Refresh after completion was dropped")
	}
	p.Wait()
	if calls, _ := f.stats(); calls != 2 {
		t.Fatalf("calls = %d, want 2", calls)
	}
}

func TestPoller_TicksWhileBusyAreDropped(t *testing.T) {
	f := newFakeFetcher(fakeResult{amount: 1})
	f.gate = make(chan struct{})
	p := newTestPoller(f, PollerOptions{Interval: 10 * time.Millisecond, Timeout: time.Minute})

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	p.Start(ctx)
	waitStarted(t, f)

	// Several ticks elapse while the first poll is held.
	time.Sleep(60 * time.Millisecond)
	if calls, _ := f.stats(); calls != 1 {
		t.Fatalf("calls while busy = %d, want 1", calls)
	}

	close(f.gate)
	deadline := time.Now().Add(2 * time.Second)
	for {
		if calls, _ := f.stats(); calls >= 3 {
			break
		}
		if time.Now().After(deadline) {
			t.Fatalf("ticks did not resume polling")
		}
		time.Sleep(5 * time.Millisecond)
	}

	cancel()
	p.Wait()

	if _, maxInFlight := f.stats(); maxInFlight != 1 {
		t.Fatalf("max concurrent fetches = %d, want 1", maxInFlight)
	}
}

func TestPoller_StartPollsImmediately(t *testing.T) {
	f := newFakeFetcher(fakeResult{amount: 9})
	p := newTestPoller(f, PollerOptions{Interval: time.Hour})

	ctx, cancel := context.WithCancel(context.Background())
	p.Start(ctx)
	waitStarted(t, f)
	cancel()
	p.Wait()

	if got := p.Store().Snapshot().Amount; got != 9 {
		t.Fatalf("Amount = %d, want 9", got)
	}
}

func TestPoller_RefreshDoesNotResetTimer(t *testing.T) {
	f := newFakeFetcher(fakeResult{amount: 1})
	p := newTestPoller(f, PollerOptions{Interval: 200 * time.Millisecond, Timeout: time.Second})

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	begin := time.Now()
	p.Start(ctx)
	waitStarted(t, f)

	time.Sleep(time.Until(begin.Add(120 * time.Millisecond)))
	if !p.Refresh(ctx) {
		t.Fatalf("Refresh was dropped")
	}
	waitStarted(t, f)

	// The 200ms tick still fires on schedule; a re-armed ticker would wait until ~320ms.
	time.Sleep(time.Until(begin.Add(270 * time.Millisecond)))
	calls, _ := f.stats()
	cancel()
	p.Wait()

	if calls < 3 {
		t.Fatalf("calls by 270ms = %d, want 3 (start, refresh, first tick)", calls)
	}
}

func TestPoller_TimeoutBecomesError(t *testing.T) {
	f := newFakeFetcher()
	f.gate = make(chan struct{})
	p := newTestPoller(f, PollerOptions{Interval: time.Hour, Timeout: 20 * time.Millisecond})

	_, err := p.PollOnce(context.Background())
	if !errors.Is(err, context.DeadlineExceeded) {
		t.Fatalf("PollOnce error = %v, want deadline exceeded", err)
	}
	if got := p.Store().Snapshot().Status; got != state.StatusError {
		t.Fatalf("Status = %v, want error", got)
	}
}

func TestPoller_SetOnChange(t *testing.T) {
	f := newFakeFetcher(fakeResult{amount: 3})
	p := newTestPoller(f, PollerOptions{})

	var last state.Snapshot
	p.SetOnChange(func(s state.Snapshot) { last = s })
	if _, err := p.PollOnce(context.Background()); err != nil {
		t.Fatalf("PollOnce returned error: %v", err)
	}
	if last.Amount != 3 || last.Status != state.StatusConnected {
		t.Fatalf("last snapshot = %+v, want connected with 3", last)
	}
}
