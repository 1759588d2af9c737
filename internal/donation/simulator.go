package donation

import (
	"context"
	"sync"
)

// DefaultSimulationStep is how much each simulated poll adds.
const DefaultSimulationStep = 500_000

// Simulator fakes a growing total without touching the network. Each call adds
// Step; once the total would pass Goal it starts over at Step.
type Simulator struct {
	Step int64
	Goal int64

	mu      sync.Mutex
	current int64
}

// NewSimulator returns a Simulator starting from zero.
func NewSimulator(step, goal int64) *Simulator {
	if step <= 0 {
		step = DefaultSimulationStep
	}
	return &Simulator{Step: step, Goal: goal}
}

// FetchAmount returns the next simulated total.
func (s *Simulator) FetchAmount(ctx context.Context) (int64, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	next := s.current + s.Step
	if s.Goal > 0 && next > s.Goal {
		next = s.Step
	}
	s.current = next
	return next, nil
}
