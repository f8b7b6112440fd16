package persist

import (
	"context"
	"sync"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/mgmeyers/pdftakeoff/markup"
)

// Debouncer coalesces updates per set and writes them once no further
// update has arrived for the wait period. Failed writes are logged and
// dropped; the in-memory set stays authoritative for the session.
type Debouncer struct {
	p    Persister
	wait time.Duration

	// Log receives save failures.
	Log logrus.FieldLogger

	// wmu serializes writes so updates reach p in order.
	wmu sync.Mutex

	mu      sync.Mutex
	pending map[markup.Ref]markup.Update
	timers  map[markup.Ref]*time.Timer
	writes  int
}

// NewDebouncer wraps p.
func NewDebouncer(p Persister, wait time.Duration) *Debouncer {
	return &Debouncer{
		p:       p,
		wait:    wait,
		Log:     logrus.StandardLogger(),
		pending: map[markup.Ref]markup.Update{},
		timers:  map[markup.Ref]*time.Timer{},
	}
}

// Push queues u for ref, restarting the wait period.
func (d *Debouncer) Push(ref markup.Ref, u markup.Update) {
	if u.Empty() {
		return
	}

	d.mu.Lock()
	defer d.mu.Unlock()

	d.pending[ref] = d.pending[ref].Merge(u)

	if t, ok := d.timers[ref]; ok {
		t.Stop()
	}

	d.timers[ref] = time.AfterFunc(d.wait, func() {
		d.flush(context.Background(), ref)
	})
}

// Writes returns the number of writes attempted so far.
func (d *Debouncer) Writes() int {
	d.mu.Lock()
	defer d.mu.Unlock()

	return d.writes
}

// Flush writes every pending update now.
func (d *Debouncer) Flush(ctx context.Context) error {
	d.mu.Lock()
	refs := make([]markup.Ref, 0, len(d.pending))
	for ref := range d.pending {
		refs = append(refs, ref)
	}
	d.mu.Unlock()

	var first error
	for _, ref := range refs {
		if err := d.flush(ctx, ref); err != nil && first == nil {
			first = err
		}
	}

	return first
}

func (d *Debouncer) flush(ctx context.Context, ref markup.Ref) error {
	d.wmu.Lock()
	defer d.wmu.Unlock()

	d.mu.Lock()
	u, ok := d.pending[ref]
	delete(d.pending, ref)
	if t, found := d.timers[ref]; found {
		t.Stop()
		delete(d.timers, ref)
	}
	if ok {
		d.writes++
	}
	d.mu.Unlock()

	if !ok {
		return nil
	}

	err := d.p.Persist(ctx, ref, u)
	if err != nil {
		d.Log.WithError(err).WithFields(logrus.Fields{
			"doc":  ref.Doc,
			"pack": ref.Pack,
		}).Error("failed to save annotations")
	}

	return err
}
