// Package outbox delivers committed grid mutations to a MutationSink in the
// background. Dispatch never blocks the caller; a single worker applies
// entries in the order they were dispatched.
package outbox

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/javiermolinar/coachgrid/internal/program"
)

// DefaultTimeout bounds a single Apply call.
const DefaultTimeout = 30 * time.Second

// ErrClosed is returned by Flush after Close.
var ErrClosed = errors.New("outbox closed")

// Entry is one queued mutation.
type Entry struct {
	Seq             int64
	Mutation        program.Mutation
	Attempts        int
	LastError       string
	LastAttemptedAt time.Time
}

// Result reports the outcome of one delivery attempt.
type Result struct {
	Entry Entry
	Err   error
}

// Stats is a snapshot of the outbox state.
type Stats struct {
	Pending   int
	Failed    int
	Delivered int
}

// Unsynced reports whether any mutation has not reached the sink.
func (s Stats) Unsynced() bool { return s.Pending > 0 || s.Failed > 0 }

// Outbox queues mutations for a sink.
type Outbox struct {
	sink    program.MutationSink
	log     *slog.Logger
	timeout time.Duration

	mu        sync.Mutex
	queue     []Entry
	failed    []Entry
	inFlight  bool
	delivered int
	seq       int64
	closed    bool
	waiters   []chan struct{}
	// latest holds the highest delivered seq per mutation target.
	latest map[string]int64

	wake    chan struct{}
	results chan Result
	cancel  context.CancelFunc
	done    chan struct{}
}

// Option configures an Outbox.
type Option func(*Outbox)

// WithLogger sets the logger. The default discards output.
func WithLogger(l *slog.Logger) Option {
	return func(o *Outbox) { o.log = l }
}

// WithTimeout bounds each Apply call.
func WithTimeout(d time.Duration) Option {
	return func(o *Outbox) {
		if d > 0 {
			o.timeout = d
		}
	}
}

// WithResultBuffer sets the capacity of the Results channel.
func WithResultBuffer(n int) Option {
	return func(o *Outbox) {
		if n >= 0 {
			o.results = make(chan Result, n)
		}
	}
}

// New creates an outbox and starts its worker.
func New(sink program.MutationSink, opts ...Option) *Outbox {
	o := &Outbox{
		sink:    sink,
		log:     slog.New(slog.DiscardHandler),
		timeout: DefaultTimeout,
		latest:  make(map[string]int64),
		wake:    make(chan struct{}, 1),
		results: make(chan Result, 64),
		done:    make(chan struct{}),
	}
	for _, opt := range opts {
		opt(o)
	}
	ctx, cancel := context.WithCancel(context.Background())
	o.cancel = cancel
	go o.run(ctx)
	return o
}

// Dispatch queues m for delivery. It never blocks. Mutations dispatched
// after Close are dropped.
func (o *Outbox) Dispatch(m program.Mutation) {
	o.mu.Lock()
	if o.closed {
		o.mu.Unlock()
		o.log.Warn("outbox_dispatch_after_close", "mutation", m.String())
		return
	}
	o.seq++
	o.queue = append(o.queue, Entry{Seq: o.seq, Mutation: m})
	o.mu.Unlock()
	o.signal()
}

// Results delivers one Result per attempt. When nobody reads the channel
// and its buffer is full, results are dropped; Stats stays accurate.
func (o *Outbox) Results() <-chan Result { return o.results }

// Stats returns the current counters.
func (o *Outbox) Stats() Stats {
	o.mu.Lock()
	defer o.mu.Unlock()
	pending := len(o.queue)
	if o.inFlight {
		pending++
	}
	return Stats{Pending: pending, Failed: len(o.failed), Delivered: o.delivered}
}

// Failed returns the entries whose last attempt failed, oldest first.
func (o *Outbox) Failed() []Entry {
	o.mu.Lock()
	defer o.mu.Unlock()
	return append([]Entry(nil), o.failed...)
}

// RetryFailed queues failed entries again ahead of newer work. Entries
// already superseded by a later delivered write to the same target are
// discarded. It returns the number of entries queued.
func (o *Outbox) RetryFailed() int {
	o.mu.Lock()
	if o.closed || len(o.failed) == 0 {
		o.mu.Unlock()
		return 0
	}
	var retry []Entry
	for _, e := range o.failed {
		if key := target(e.Mutation); key != "" && o.latest[key] > e.Seq {
			o.log.Info("outbox_retry_superseded", "seq", e.Seq, "mutation", e.Mutation.String())
			continue
		}
		retry = append(retry, e)
	}
	o.failed = nil
	o.queue = append(retry, o.queue...)
	n := len(retry)
	o.mu.Unlock()

	if n > 0 {
		o.signal()
	}
	o.notifyIdle()
	return n
}

// Flush blocks until the queue is empty or ctx is done. Failed entries do
// not keep Flush waiting.
func (o *Outbox) Flush(ctx context.Context) error {
	for {
		o.mu.Lock()
		if len(o.queue) == 0 && !o.inFlight {
			o.mu.Unlock()
			return nil
		}
		if o.closed {
			o.mu.Unlock()
			return ErrClosed
		}
		ch := make(chan struct{})
		o.waiters = append(o.waiters, ch)
		o.mu.Unlock()

		select {
		case <-ch:
		case <-ctx.Done():
			return ctx.Err()
		}
	}
}

// Close stops the worker. Queued entries that were not delivered stay
// undelivered; call Flush first to drain.
func (o *Outbox) Close() error {
	o.mu.Lock()
	if o.closed {
		o.mu.Unlock()
		return nil
	}
	o.closed = true
	o.mu.Unlock()

	o.cancel()
	<-o.done
	o.notifyIdle()
	return nil
}

func (o *Outbox) signal() {
	select {
	case o.wake <- struct{}{}:
	default:
	}
}

func (o *Outbox) notifyIdle() {
	o.mu.Lock()
	waiters := o.waiters
	o.waiters = nil
	o.mu.Unlock()
	for _, ch := range waiters {
		close(ch)
	}
}

func (o *Outbox) run(ctx context.Context) {
	defer close(o.done)
	for {
		entry, ok := o.next()
		if !ok {
			o.notifyIdle()
			select {
			case <-o.wake:
				continue
			case <-ctx.Done():
				return
			}
		}
		o.deliver(ctx, entry)
	}
}

// next pops the head of the queue and marks it in flight.
func (o *Outbox) next() (Entry, bool) {
	o.mu.Lock()
	defer o.mu.Unlock()
	if len(o.queue) == 0 {
		return Entry{}, false
	}
	e := o.queue[0]
	o.queue = o.queue[1:]
	o.inFlight = true
	return e, true
}

func (o *Outbox) deliver(ctx context.Context, e Entry) {
	e.Attempts++
	e.LastAttemptedAt = time.Now()

	actx, cancel := context.WithTimeout(ctx, o.timeout)
	err := o.apply(actx, e.Mutation)
	cancel()

	o.mu.Lock()
	o.inFlight = false
	if err != nil {
		e.LastError = err.Error()
		o.failed = append(o.failed, e)
	} else {
		e.LastError = ""
		o.delivered++
		if key := target(e.Mutation); key != "" && e.Seq > o.latest[key] {
			o.latest[key] = e.Seq
		}
	}
	o.mu.Unlock()

	if err != nil {
		o.log.Warn("outbox_apply_failed", "seq", e.Seq, "attempt", e.Attempts, "mutation", e.Mutation.String(), "error", err)
	} else {
		o.log.Debug("outbox_apply_succeeded", "seq", e.Seq, "mutation", e.Mutation.String())
	}

	select {
	case o.results <- Result{Entry: e, Err: err}:
	default:
		o.log.Debug("outbox_result_dropped", "seq", e.Seq)
	}
}

func (o *Outbox) apply(ctx context.Context, m program.Mutation) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("apply %s: panic: %v", m.Kind, r)
		}
	}()
	if err := m.Validate(); err != nil {
		return err
	}
	return o.sink.Apply(ctx, m)
}

// target names what a mutation overwrites, so that a later write to the
// same target supersedes an older failed one. Mutations that only add or
// remove have no target.
func target(m program.Mutation) string {
	switch m.Kind {
	case program.MutationSetPrescription:
		return fmt.Sprintf("%s/%s/%s/%s", m.ProgramID, m.Kind, m.ItemID, m.WeekID)
	case program.MutationSetExercise, program.MutationSetGroup:
		return fmt.Sprintf("%s/%s/%s", m.ProgramID, m.Kind, m.ItemID)
	case program.MutationReorderItems:
		return fmt.Sprintf("%s/%s/%s", m.ProgramID, m.Kind, m.SessionID)
	}
	return ""
}
