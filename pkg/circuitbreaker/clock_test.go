package circuitbreaker

import "time"

func (cb *CircuitBreaker) SetClock(now func() time.Time) {
	cb.now = now
}
