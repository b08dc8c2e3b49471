package sim

import (
	"errors"
	"time"

	"github.com/benbjohnson/clock"
)

// ErrAlreadyRunning is returned by Start when the loop is live
var ErrAlreadyRunning = errors.New("engine already running")

// Start launches the periodic step loop on the engine's clock. The
// ticker is owned by the loop goroutine and released on Stop, so no
// callback can fire into a torn-down engine.
func (e *Engine) Start() error {
	e.mu.Lock()
	if e.running {
		e.mu.Unlock()
		return ErrAlreadyRunning
	}
	e.running = true
	stop := make(chan struct{})
	done := make(chan struct{})
	e.stop = stop
	e.done = done
	ticker := e.clk.Ticker(tickInterval)
	e.mu.Unlock()

	go e.loop(ticker, stop, done)
	e.log.Info("engine started")
	return nil
}

func (e *Engine) loop(ticker *clock.Ticker, stop <-chan struct{}, done chan<- struct{}) {
	defer close(done)
	defer ticker.Stop()
	for {
		select {
		case <-ticker.C:
			e.Tick()
		case <-stop:
			return
		}
	}
}

// Stop cancels the step timer and waits for the loop goroutine to
// exit. Idempotent; safe to call on a never-started engine.
func (e *Engine) Stop() {
	e.mu.Lock()
	if !e.running {
		e.mu.Unlock()
		return
	}
	e.running = false
	stop := e.stop
	done := e.done
	e.mu.Unlock()

	close(stop)
	<-done
	e.log.Info("engine stopped")
}

// Running reports whether the step loop is live
func (e *Engine) Running() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.running
}

// LastStep returns when the most recent step was applied (zero time
// if none yet)
func (e *Engine) LastStep() time.Time {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.lastStep
}

// Stats reports tick and step counters for status endpoints
func (e *Engine) Stats() (ticks, steps int64) {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.ticks, e.steps
}
