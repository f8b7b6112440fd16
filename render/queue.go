package render

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"
)

// ErrQueueClosed is returned when submitting to a closed queue.
var ErrQueueClosed = errors.New("render: queue closed")

// Job is one decode-and-paint unit of work.
type Job func(ctx context.Context) error

// QueueOptions sets the settle delays absorbing decoder instability.
type QueueOptions struct {
	// InitialSettle is waited once before the first job runs.
	InitialSettle time.Duration `yaml:"initial_settle"`
	// Settle is waited between consecutive jobs.
	Settle time.Duration `yaml:"settle"`
}

// DefaultQueueOptions returns the stock settle delays.
func DefaultQueueOptions() QueueOptions {
	return QueueOptions{
		InitialSettle: 100 * time.Millisecond,
		Settle:        50 * time.Millisecond,
	}
}

type task struct {
	seq    uint64
	ctx    context.Context
	job    Job
	result chan error
}

// Queue serializes all access to the shared decode worker. Jobs run one at
// a time, strictly in submission order, and each job runs to completion
// before the next one starts. A failing or panicking job is logged and
// never blocks the jobs behind it.
//
// Jobs are accepted only after the gate has opened.
type Queue struct {
	gate *Gate
	opts QueueOptions

	mu      sync.Mutex
	tasks   []*task
	seq     uint64
	started bool
	closed  bool
	wake    chan struct{}
	stopped chan struct{}
}

// NewQueue returns a queue whose jobs wait for gate.
func NewQueue(gate *Gate, opts QueueOptions) *Queue {
	return &Queue{
		gate:    gate,
		opts:    opts,
		wake:    make(chan struct{}, 1),
		stopped: make(chan struct{}),
	}
}

// Gate returns the readiness gate of the queue.
func (q *Queue) Gate() *Gate {
	return q.gate
}

// Submit waits for the gate, appends job to the queue and returns a
// channel receiving the job's result. Once accepted the job runs even if
// ctx is cancelled later.
func (q *Queue) Submit(ctx context.Context, job Job) (<-chan error, error) {
	if err := q.gate.Wait(ctx); err != nil {
		return nil, err
	}

	q.mu.Lock()
	defer q.mu.Unlock()

	if q.closed {
		return nil, ErrQueueClosed
	}

	q.seq++
	t := &task{
		seq:    q.seq,
		ctx:    context.WithoutCancel(ctx),
		job:    job,
		result: make(chan error, 1),
	}
	q.tasks = append(q.tasks, t)

	if !q.started {
		q.started = true
		go q.run()
	}

	select {
	case q.wake <- struct{}{}:
	default:
	}

	return t.result, nil
}

// Do submits job and waits for its result.
func (q *Queue) Do(ctx context.Context, job Job) error {
	result, err := q.Submit(ctx, job)
	if err != nil {
		return err
	}

	select {
	case err := <-result:
		return err
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Pending returns the number of jobs waiting to run.
func (q *Queue) Pending() int {
	q.mu.Lock()
	defer q.mu.Unlock()

	return len(q.tasks)
}

// Close stops accepting jobs and waits until the queued ones have run.
func (q *Queue) Close() {
	q.mu.Lock()
	if q.closed {
		q.mu.Unlock()
		<-q.stopped
		return
	}

	q.closed = true
	started := q.started
	q.mu.Unlock()

	if !started {
		close(q.stopped)
		return
	}

	select {
	case q.wake <- struct{}{}:
	default:
	}

	<-q.stopped
}

func (q *Queue) next() (*task, bool) {
	for {
		q.mu.Lock()
		if len(q.tasks) > 0 {
			t := q.tasks[0]
			q.tasks[0] = nil
			q.tasks = q.tasks[1:]
			q.mu.Unlock()
			return t, true
		}
		if q.closed {
			q.mu.Unlock()
			return nil, false
		}
		q.mu.Unlock()

		<-q.wake
	}
}

func (q *Queue) run() {
	defer close(q.stopped)

	first := true

	for {
		t, ok := q.next()
		if !ok {
			return
		}

		if first {
			settle(q.opts.InitialSettle)
			first = false
		} else {
			settle(q.opts.Settle)
		}

		t.result <- q.execute(t)
	}
}

func settle(d time.Duration) {
	if d > 0 {
		time.Sleep(d)
	}
}

func (q *Queue) execute(t *task) (err error) {
	log := Logger().WithField("job", t.seq)

	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("render job panicked: %v", r)
		}
		if err != nil {
			log.WithError(err).Error("render job failed")
		}
	}()

	log.Debug("render job started")

	return t.job(t.ctx)
}
