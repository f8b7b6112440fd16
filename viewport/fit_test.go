package viewport

import (
	"math"
	"testing"
)

func TestFitZoom(t *testing.T) {
	opts := DefaultFitOptions()
	f := Frame{Width: 1000, Height: 1000}

	cases := []struct {
		name string
		size Size
		want float64
	}{
		{"fits", Size{900, 900}, 0.81},
		{"floor", Size{100, 100}, 0.5},
		{"ceiling", Size{10000, 10000}, 3},
		{"narrow", Size{600, 2000}, 0.54},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := FitZoom(tc.size, f, opts)
			if math.Abs(got-tc.want) > 1e-9 {
				t.Errorf("FitZoom = %g, want %g", got, tc.want)
			}
		})
	}
}

func TestFitControllerInitialFit(t *testing.T) {
	c := NewFitController(DefaultFitOptions())

	if _, changed := c.Resize(Size{900, 900}); changed {
		t.Error("no frame yet, nothing to fit")
	}
	zoom, changed := c.SetFrame(Frame{Width: 1000, Height: 1000})
	if !changed || math.Abs(zoom-0.81) > 1e-9 {
		t.Fatalf("SetFrame = %g, %v", zoom, changed)
	}
	if !c.Busy() {
		t.Error("controller must stay locked until layout settles")
	}
}

func TestFitControllerHysteresis(t *testing.T) {
	c := NewFitController(DefaultFitOptions())
	c.Resize(Size{900, 900})
	c.SetFrame(Frame{Width: 1000, Height: 1000})

	// locked: even a large resize is ignored until Settled
	if _, changed := c.Resize(Size{2000, 2000}); changed {
		t.Error("resize while locked must not recompute")
	}
	c.Settled()

	// the same size measured again after settling is applied
	z, changed := c.Resize(Size{2000, 2000})
	if !changed || math.Abs(z-1.8) > 1e-9 {
		t.Fatalf("Resize after Settled = %g, %v, want 1.8", z, changed)
	}
	c.Settled()

	// within the 10 unit size threshold of the last measurement
	if _, changed := c.Resize(Size{2005, 2008}); changed {
		t.Error("small container change must be ignored")
	}

	c2 := NewFitController(DefaultFitOptions())
	c2.Resize(Size{900, 900})
	c2.SetFrame(Frame{Width: 1000, Height: 1000})
	c2.Settled()

	// size moved by more than 10 but zoom moves by less than 10%
	if z, changed := c2.Resize(Size{940, 940}); changed {
		t.Errorf("zoom change below threshold applied: %g", z)
	}
	z, changed = c2.Resize(Size{1200, 1200})
	if !changed || math.Abs(z-1.08) > 1e-9 {
		t.Errorf("Resize = %g, %v, want 1.08", z, changed)
	}
}
