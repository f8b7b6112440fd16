package persist

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/mgmeyers/pdftakeoff/markup"
)

type memPersister struct {
	mu      sync.Mutex
	updates []markup.Update
	err     error
}

func (m *memPersister) Persist(ctx context.Context, ref markup.Ref, u markup.Update) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.updates = append(m.updates, u)
	return m.err
}

func (m *memPersister) count() int {
	m.mu.Lock()
	defer m.mu.Unlock()

	return len(m.updates)
}

func TestDebouncerCoalesces(t *testing.T) {
	p := &memPersister{}
	d := NewDebouncer(p, time.Hour)

	w := markup.NewWorkspace("doc", d.Push)
	s := w.Default()
	for i := 0; i < 5; i++ {
		s.AddCount(markup.CountMarker{Type: "Door", X: float64(i)})
	}
	s.AddPolyline(markup.Polyline{Points: []markup.Point{{X: 0, Y: 0}, {X: 1, Y: 1}}})

	if p.count() != 0 {
		t.Fatal("write happened before the wait period")
	}

	if err := d.Flush(context.Background()); err != nil {
		t.Fatal(err)
	}
	if p.count() != 1 {
		t.Fatalf("expected one coalesced write, got %d", p.count())
	}

	u := p.updates[0]
	if u.Counts == nil || len(*u.Counts) != 5 || u.Polylines == nil || u.Polygons != nil || u.Scale != nil {
		t.Errorf("coalesced update = %+v", u)
	}
}

func TestDebouncerTimer(t *testing.T) {
	p := &memPersister{}
	d := NewDebouncer(p, 10*time.Millisecond)

	counts := []markup.CountMarker{}
	d.Push(markup.Ref{Doc: "a"}, markup.Update{Counts: &counts})
	d.Push(markup.Ref{Doc: "a"}, markup.Update{Counts: &counts})

	deadline := time.Now().Add(time.Second)
	for p.count() == 0 && time.Now().Before(deadline) {
		time.Sleep(5 * time.Millisecond)
	}
	if p.count() != 1 {
		t.Errorf("expected one write, got %d", p.count())
	}
}

func TestDebouncerErrorsAreNotFatal(t *testing.T) {
	p := &memPersister{err: errors.New("disk full")}
	d := NewDebouncer(p, time.Hour)

	w := markup.NewWorkspace("doc", d.Push)
	s := w.Default()
	s.AddCount(markup.CountMarker{Type: "Door"})

	if err := d.Flush(context.Background()); err == nil {
		t.Error("expected the write error")
	}
	if s.CountOf("Door") != 1 {
		t.Error("local state must survive a failed save")
	}
	if err := d.Flush(context.Background()); err != nil {
		t.Errorf("failed update must not be retried: %v", err)
	}
}

func TestDebouncerIgnoresEmpty(t *testing.T) {
	p := &memPersister{}
	d := NewDebouncer(p, time.Hour)

	d.Push(markup.Ref{Doc: "a"}, markup.Update{})
	if err := d.Flush(context.Background()); err != nil || p.count() != 0 {
		t.Errorf("empty update written: %d, %v", p.count(), err)
	}
}
