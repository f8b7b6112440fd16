package render

import (
	"context"
	"fmt"
	"sync"
	"time"
)

// GateState is the initialization state of the decode worker.
type GateState int

const (
	Uninitialized GateState = iota
	Initializing
	Ready
)

func (s GateState) String() string {
	switch s {
	case Initializing:
		return "initializing"
	case Ready:
		return "ready"
	}
	return "uninitialized"
}

// Probe verifies one location the decode worker can be brought up from.
type Probe struct {
	Name  string
	Check func(ctx context.Context) error
}

// Gate holds rendering back until the decode worker has been initialized.
// Initialization runs once per gate; callers arriving while it runs share
// the same pending result.
//
// Probes are tried in order, each bounded by the timeout. If every probe
// fails the gate opens anyway in degraded mode: an attempted render that
// fails is better than a view that never renders.
type Gate struct {
	probes  []Probe
	timeout time.Duration

	mu       sync.Mutex
	state    GateState
	done     chan struct{}
	source   string
	degraded bool
	runs     int
}

// NewGate returns an uninitialized gate.
func NewGate(timeout time.Duration, probes ...Probe) *Gate {
	return &Gate{probes: probes, timeout: timeout}
}

// State returns the current state.
func (g *Gate) State() GateState {
	g.mu.Lock()
	defer g.mu.Unlock()

	return g.state
}

// Source returns the name of the probe that succeeded, or "" when the gate
// opened degraded or has not opened yet.
func (g *Gate) Source() string {
	g.mu.Lock()
	defer g.mu.Unlock()

	return g.source
}

// Degraded reports whether the gate opened without a successful probe.
func (g *Gate) Degraded() bool {
	g.mu.Lock()
	defer g.mu.Unlock()

	return g.degraded
}

// Runs returns how many times initialization has started. It never
// exceeds one.
func (g *Gate) Runs() int {
	g.mu.Lock()
	defer g.mu.Unlock()

	return g.runs
}

// Wait starts initialization if needed and blocks until the gate is open
// or ctx is done. Cancelling ctx does not abort the shared initialization.
func (g *Gate) Wait(ctx context.Context) error {
	g.mu.Lock()

	switch g.state {
	case Ready:
		g.mu.Unlock()
		return nil
	case Uninitialized:
		g.state = Initializing
		g.done = make(chan struct{})
		g.runs++
		go g.initialize()
	}

	done := g.done
	g.mu.Unlock()

	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (g *Gate) initialize() {
	log := Logger()
	source := ""

	for _, p := range g.probes {
		err := g.check(p)
		if err == nil {
			source = p.Name
			break
		}

		log.WithError(err).WithField("probe", p.Name).Warn("decode worker probe failed")
	}

	g.mu.Lock()
	g.source = source
	g.degraded = source == ""
	g.state = Ready
	close(g.done)
	g.mu.Unlock()

	if source == "" {
		log.Warn("no decode worker probe succeeded, rendering degraded")
		return
	}

	log.WithField("probe", source).Debug("decode worker ready")
}

func (g *Gate) check(p Probe) error {
	ctx := context.Background()
	if g.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, g.timeout)
		defer cancel()
	}

	errc := make(chan error, 1)

	go func() {
		defer func() {
			if r := recover(); r != nil {
				errc <- fmt.Errorf("probe panicked: %v", r)
			}
		}()
		errc <- p.Check(ctx)
	}()

	select {
	case err := <-errc:
		return err
	case <-ctx.Done():
		return fmt.Errorf("probe %s: %w", p.Name, ctx.Err())
	}
}
