// Package latency stands in for network latency and backend failures on the
// simulated data-access layer. Services take a Waiter so tests can run with
// no delay at all.
package latency

import (
	"context"
	"errors"
	"math/rand/v2"
	"sync"
	"time"
)

// Op names a class of simulated call.
type Op string

const (
	OpCatalog Op = "catalog"
	OpSearch  Op = "search"
	OpChat    Op = "chat"
)

// ErrInjectedFailure is returned when the simulator decides a call fails.
var ErrInjectedFailure = errors.New("simulated backend failure")

// Waiter suspends the caller for the duration of a simulated call.
type Waiter interface {
	Wait(ctx context.Context, op Op) error
}

// Config holds per-operation delays and the failure probability.
type Config struct {
	Catalog     time.Duration
	Search      time.Duration
	Chat        time.Duration
	FailureRate float64
}

// Simulator is the production Waiter.
type Simulator struct {
	cfg Config

	mu  sync.Mutex
	rnd *rand.Rand
}

// NewSimulator constructs a Simulator seeded from the wall clock.
func NewSimulator(cfg Config) *Simulator {
	seed := uint64(time.Now().UnixNano())
	return NewSimulatorWithRand(cfg, rand.New(rand.NewPCG(seed, seed>>1)))
}

// NewSimulatorWithRand constructs a Simulator with a caller-supplied source (for tests).
func NewSimulatorWithRand(cfg Config, rnd *rand.Rand) *Simulator {
	return &Simulator{cfg: cfg, rnd: rnd}
}

func (s *Simulator) delay(op Op) time.Duration {
	switch op {
	case OpSearch:
		return s.cfg.Search
	case OpChat:
		return s.cfg.Chat
	default:
		return s.cfg.Catalog
	}
}

func (s *Simulator) shouldFail() bool {
	if s.cfg.FailureRate <= 0 {
		return false
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.rnd.Float64() < s.cfg.FailureRate
}

// Wait sleeps for the delay configured for op, honoring ctx cancellation,
// and then fails with probability FailureRate.
func (s *Simulator) Wait(ctx context.Context, op Op) error {
	if d := s.delay(op); d > 0 {
		t := time.NewTimer(d)
		defer t.Stop()
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-t.C:
		}
	}

	if s.shouldFail() {
		return ErrInjectedFailure
	}
	return nil
}

type none struct{}

func (none) Wait(ctx context.Context, _ Op) error { return ctx.Err() }

// None returns a Waiter that never sleeps and never fails.
func None() Waiter { return none{} }

// Func adapts a plain function to the Waiter interface.
type Func func(ctx context.Context, op Op) error

func (f Func) Wait(ctx context.Context, op Op) error { return f(ctx, op) }
