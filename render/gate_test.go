package render

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"
)

func TestGateSharedInitialization(t *testing.T) {
	var calls int32
	release := make(chan struct{})

	g := NewGate(time.Second, Probe{
		Name: "primary",
		Check: func(ctx context.Context) error {
			atomic.AddInt32(&calls, 1)
			<-release
			return nil
		},
	})

	var wg sync.WaitGroup
	errs := make([]error, 2)
	for i := range errs {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			errs[i] = g.Wait(context.Background())
		}(i)
	}

	// both callers are blocked on the same initialization
	for g.State() != Initializing {
		time.Sleep(time.Millisecond)
	}
	close(release)
	wg.Wait()

	for i, err := range errs {
		if err != nil {
			t.Errorf("caller %d: %v", i, err)
		}
	}
	if n := atomic.LoadInt32(&calls); n != 1 {
		t.Errorf("probe ran %d times, want 1", n)
	}
	if g.Runs() != 1 || g.State() != Ready || g.Source() != "primary" {
		t.Errorf("runs %d state %v source %q", g.Runs(), g.State(), g.Source())
	}

	if err := g.Wait(context.Background()); err != nil || g.Runs() != 1 {
		t.Error("waiting on an open gate must not initialize again")
	}
}

func TestGateFallback(t *testing.T) {
	g := NewGate(20*time.Millisecond,
		Probe{Name: "primary", Check: func(ctx context.Context) error {
			<-ctx.Done()
			return ctx.Err()
		}},
		Probe{Name: "fallback", Check: func(ctx context.Context) error { return nil }},
	)

	if err := g.Wait(context.Background()); err != nil {
		t.Fatal(err)
	}
	if g.Source() != "fallback" || g.Degraded() {
		t.Errorf("source %q degraded %v", g.Source(), g.Degraded())
	}
}

func TestGateFailsOpen(t *testing.T) {
	g := NewGate(10*time.Millisecond,
		Probe{Name: "hang", Check: func(ctx context.Context) error {
			select {} // ignores its context
		}},
		Probe{Name: "broken", Check: func(ctx context.Context) error { return errors.New("unreachable") }},
		Probe{Name: "panics", Check: func(ctx context.Context) error { panic("boom") }},
	)

	if err := g.Wait(context.Background()); err != nil {
		t.Fatal(err)
	}
	if !g.Degraded() || g.State() != Ready {
		t.Errorf("expected degraded ready gate, got %v degraded=%v", g.State(), g.Degraded())
	}
}

func TestGateWaitCancelled(t *testing.T) {
	release := make(chan struct{})
	defer close(release)

	g := NewGate(0, Probe{Name: "slow", Check: func(ctx context.Context) error {
		<-release
		return nil
	}})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if err := g.Wait(ctx); !errors.Is(err, context.Canceled) {
		t.Errorf("expected context.Canceled, got %v", err)
	}
}
