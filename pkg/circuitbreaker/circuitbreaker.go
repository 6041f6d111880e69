package circuitbreaker

import (
	"errors"
	"sync"
	"time"
)

type State uint8

const (
	Closed State = iota + 1
	Open
	HalfOpen
)

func (s State) String() string {
	switch s {
	case Closed:
		return "closed"
	case Open:
		return "open"
	case HalfOpen:
		return "half-open"
	}
	return "unknown"
}

var ErrOpen = errors.New("circuit breaker is open")

type Config struct {
	// Window is how many recent calls are tracked.
	Window int `envconfig:"CB_WINDOW" default:"10"`
	// FailureRatio opens the breaker once failures/Window reaches it.
	FailureRatio float64 `envconfig:"CB_FAILURE_RATIO" default:"0.5"`
	// Cooldown is how long the breaker stays open before probing.
	Cooldown time.Duration `envconfig:"CB_COOLDOWN" default:"30s"`
	// Recovery is the number of consecutive half-open successes needed to close.
	Recovery int `envconfig:"CB_RECOVERY" default:"3"`
}

type CircuitBreaker struct {
	mu       sync.Mutex
	cfg      Config
	state    State
	openedAt time.Time
	failures []bool
	pos      int
	success  int
	now      func() time.Time
}

func New(cfg Config) *CircuitBreaker {
	if cfg.Window <= 0 {
		cfg.Window = 10
	}
	if cfg.FailureRatio <= 0 {
		cfg.FailureRatio = 0.5
	}
	if cfg.Recovery <= 0 {
		cfg.Recovery = 1
	}
	return &CircuitBreaker{
		cfg:      cfg,
		state:    Closed,
		failures: make([]bool, cfg.Window),
		now:      time.Now,
	}
}

func (cb *CircuitBreaker) State() State {
	cb.mu.Lock()
	defer cb.mu.Unlock()
	return cb.state
}

// Call runs fn unless the breaker is open, and records its outcome.
func (cb *CircuitBreaker) Call(fn func() error) error {
	cb.mu.Lock()
	if cb.state == Open {
		if cb.now().Sub(cb.openedAt) < cb.cfg.Cooldown {
			cb.mu.Unlock()
			return ErrOpen
		}
		cb.state = HalfOpen
		cb.success = 0
	}
	cb.mu.Unlock()

	err := fn()

	cb.mu.Lock()
	defer cb.mu.Unlock()

	cb.failures[cb.pos] = err != nil
	cb.pos = (cb.pos + 1) % cb.cfg.Window

	if cb.state == HalfOpen {
		if err != nil {
			cb.trip()
			return err
		}
		cb.success++
		if cb.success >= cb.cfg.Recovery {
			cb.reset()
		}
		return nil
	}

	fails := 0
	for _, failed := range cb.failures {
		if failed {
			fails++
		}
	}
	if float64(fails)/float64(cb.cfg.Window) >= cb.cfg.FailureRatio {
		cb.trip()
	}
	return err
}

func (cb *CircuitBreaker) Reset() {
	cb.mu.Lock()
	defer cb.mu.Unlock()
	cb.reset()
}

func (cb *CircuitBreaker) trip() {
	cb.state = Open
	cb.success = 0
	cb.openedAt = cb.now()
}

func (cb *CircuitBreaker) reset() {
	for i := range cb.failures {
		cb.failures[i] = false
	}
	cb.success = 0
	cb.pos = 0
	cb.state = Closed
}
