package render

import (
	"context"
	"errors"
	"regexp"
	"sync"
	"time"

	"github.com/mgmeyers/pdftakeoff/viewport"
)

var (
	// ErrTransient marks decoder failures worth one automatic retry.
	ErrTransient = errors.New("render: transient decoder failure")

	// ErrViewerClosed is returned once a viewer has been closed.
	ErrViewerClosed = errors.New("render: viewer closed")

	// ErrStalePage is returned when the page changed while decoding.
	ErrStalePage = errors.New("render: page changed during decode")
)

// ViewState is the load state of a viewer.
type ViewState int

const (
	StateIdle ViewState = iota
	StateLoading
	StateReady
	StateFailed
)

func (s ViewState) String() string {
	switch s {
	case StateLoading:
		return "loading"
	case StateReady:
		return "ready"
	case StateFailed:
		return "failed"
	}
	return "idle"
}

// ViewerOptions configures decoding and retries.
type ViewerOptions struct {
	DPI          float64       `yaml:"dpi"`
	RetryBackoff time.Duration `yaml:"retry_backoff"`
	// Transient lists error message patterns of known passing decoder
	// faults.
	Transient []string `yaml:"transient"`
}

// DefaultViewerOptions returns the stock options.
func DefaultViewerOptions() ViewerOptions {
	return ViewerOptions{
		DPI:          144,
		RetryBackoff: 500 * time.Millisecond,
		Transient: []string{
			`(?i)worker (was )?(destroyed|terminated)`,
			`(?i)transport destroyed`,
			`(?i)temporarily unavailable`,
			`(?i)cannot (load|open) page`,
		},
	}
}

// Viewer is one document view: it decodes pages through the shared queue,
// tracks the active page frame and keeps the page fitted to its container.
type Viewer struct {
	queue     *Queue
	dec       Decoder
	opts      ViewerOptions
	transient []*regexp.Regexp

	mu      sync.Mutex
	frames  viewport.FrameTracker
	fit     *viewport.FitController
	state   ViewState
	page    *Page
	lastErr error
	closed  bool
}

// NewViewer returns a viewer decoding dec through queue. Invalid transient
// patterns are reported as an error.
func NewViewer(queue *Queue, dec Decoder, fit *viewport.FitController, opts ViewerOptions) (*Viewer, error) {
	v := &Viewer{
		queue: queue,
		dec:   dec,
		opts:  opts,
		fit:   fit,
	}

	for _, p := range opts.Transient {
		re, err := regexp.Compile(p)
		if err != nil {
			return nil, err
		}
		v.transient = append(v.transient, re)
	}

	return v, nil
}

// IsTransient reports whether err matches a known passing decoder fault.
func (v *Viewer) IsTransient(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, ErrTransient) {
		return true
	}

	msg := err.Error()
	for _, re := range v.transient {
		if re.MatchString(msg) {
			return true
		}
	}

	return false
}

// State returns the load state and, when failed, the error.
func (v *Viewer) State() (ViewState, error) {
	v.mu.Lock()
	defer v.mu.Unlock()

	return v.state, v.lastErr
}

// Page returns the last decoded page, or nil.
func (v *Viewer) Page() *Page {
	v.mu.Lock()
	defer v.mu.Unlock()

	return v.page
}

// Frame returns the frame of the active page, or nil while it decodes.
func (v *Viewer) Frame() *viewport.Frame {
	v.mu.Lock()
	defer v.mu.Unlock()

	return v.frames.Frame()
}

// Zoom returns the zoom currently applied.
func (v *Viewer) Zoom() float64 {
	v.mu.Lock()
	defer v.mu.Unlock()

	return v.fit.Zoom()
}

// Resize forwards a container measurement to the fit controller.
func (v *Viewer) Resize(s viewport.Size) (float64, bool) {
	v.mu.Lock()
	defer v.mu.Unlock()

	return v.fit.Resize(s)
}

// Settled tells the fit controller that layout has been measured again.
func (v *Viewer) Settled() {
	v.mu.Lock()
	defer v.mu.Unlock()

	v.fit.Settled()
}

// ShowPage makes n the active page and decodes it. The frame of the
// previous page is dropped before the decode job is submitted. A decode
// failure that looks transient is retried once after a backoff; any other
// failure leaves the viewer in StateFailed until Retry.
func (v *Viewer) ShowPage(ctx context.Context, n int) (*Page, error) {
	v.mu.Lock()
	if v.closed {
		v.mu.Unlock()
		return nil, ErrViewerClosed
	}
	v.frames.SetPage(n)
	v.state = StateLoading
	v.lastErr = nil
	v.mu.Unlock()

	page, err := v.decode(ctx, n)
	if err != nil && v.IsTransient(err) {
		Logger().WithError(err).WithField("page", n).Warn("transient decode failure, retrying")

		if err = sleepCtx(ctx, v.opts.RetryBackoff); err == nil {
			page, err = v.decode(ctx, n)
		}
	}

	v.mu.Lock()
	defer v.mu.Unlock()

	if v.closed {
		return nil, ErrViewerClosed
	}
	if v.frames.Page() != n {
		return nil, ErrStalePage
	}

	if err != nil {
		v.state = StateFailed
		v.lastErr = err
		return nil, err
	}

	v.frames.Resolve(n, page.Frame)
	v.fit.SetFrame(page.Frame)
	v.page = page
	v.state = StateReady

	return page, nil
}

// Retry decodes the active page again after a failure.
func (v *Viewer) Retry(ctx context.Context) (*Page, error) {
	v.mu.Lock()
	n := v.frames.Page()
	v.mu.Unlock()

	return v.ShowPage(ctx, n)
}

// Close discards the view. Jobs already queued still run; their results
// are dropped.
func (v *Viewer) Close() {
	v.mu.Lock()
	defer v.mu.Unlock()

	v.closed = true
	v.page = nil
}

func (v *Viewer) decode(ctx context.Context, n int) (*Page, error) {
	var page *Page

	err := v.queue.Do(ctx, func(ctx context.Context) error {
		frame, err := v.dec.Frame(n)
		if err != nil {
			return err
		}

		img, err := v.dec.Render(n, v.opts.DPI)
		if err != nil {
			return err
		}

		page = &Page{Number: n, Frame: frame, Image: img}

		return nil
	})
	if err != nil {
		return nil, err
	}

	return page, nil
}

func sleepCtx(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}

	t := time.NewTimer(d)
	defer t.Stop()

	select {
	case <-t.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
