/**
 * Copyright (c) 2025, OpenRTI Project Contributors.
 *
 * See LICENSE.TXT in the root directory of this source tree.
 */

// Package dispatcher implements the single-threaded socket-event reactor
// the rest of the transport core runs on: one poll/wait loop per process,
// intrusive membership of the sockets it owns, per-socket deadlines, and an
// idempotent cross-thread wakeup so a federate ambassador's own thread can
// hand work to the dispatcher thread without blocking it.
package dispatcher

import (
	"sync"
	"sync/atomic"
	"time"

	"github.com/openrti/rti/pkg/rtierr"
	"github.com/openrti/rti/pkg/rtilog"
)

// Dispatcher owns a list of socket Events and runs them from a single
// goroutine inside Exec. No locking guards the event list or any Event's
// state: everything here assumes one goroutine calls Exec and nothing else
// touches the dispatcher concurrently except through WakeUp and the
// cross-thread work queue.
type Dispatcher struct {
	events []Event
	poller poller
	wake   *wakeupPipe
	done   int32 // atomic; set(true) by SetDone

	wakePending int32 // atomic; 1 while a wakeup byte sits undrained in the pipe

	mu         sync.Mutex // guards pendingFns only — the cross-thread handoff queue
	pendingFns []func()

	recorder Recorder
}

// Recorder receives per-tick observations for metrics (internal/metrics.
// Collector implements this). Nil by default: SetRecorder is optional.
type Recorder interface {
	SetEventCount(n int)
	ObservePollLatency(d time.Duration)
}

// SetRecorder arranges for every Exec tick's event count and poll-wait
// latency to be reported to r.
func (d *Dispatcher) SetRecorder(r Recorder) { d.recorder = r }

// New creates a Dispatcher ready for Insert/Exec. Callers should Close it
// when done to release the wakeup self-pipe.
func New() (*Dispatcher, error) {
	wake, err := newWakeupPipe()
	if err != nil {
		return nil, rtierr.NewTransportError("dispatcher: create wakeup pipe", err)
	}
	return &Dispatcher{
		poller: newPoller(),
		wake:   wake,
	}, nil
}

// Close releases the dispatcher's wakeup self-pipe. It does not close or
// erase any still-inserted events; callers should Erase them first.
func (d *Dispatcher) Close() {
	d.wake.close()
}

// Insert attaches ev to the dispatcher. An Event already inserted is not
// inserted a second time.
func (d *Dispatcher) Insert(ev Event) {
	for _, e := range d.events {
		if e == ev {
			return
		}
	}
	d.events = append(d.events, ev)
}

// Erase detaches ev from the dispatcher, if present.
func (d *Dispatcher) Erase(ev Event) {
	for i, e := range d.events {
		if e == ev {
			d.events = append(d.events[:i], d.events[i+1:]...)
			return
		}
	}
}

// Len reports how many events are currently inserted.
func (d *Dispatcher) Len() int {
	return len(d.events)
}

// SetDone arranges for the current or next Exec call to return once the
// in-progress tick completes.
func (d *Dispatcher) SetDone(done bool) {
	if done {
		atomic.StoreInt32(&d.done, 1)
		d.WakeUp()
	} else {
		atomic.StoreInt32(&d.done, 0)
	}
}

// WakeUp writes one byte to the wakeup self-pipe, gated by an atomic flag so
// at most one byte is ever pending: further calls before the dispatcher
// drains the pipe are no-ops. Safe to call from any goroutine.
func (d *Dispatcher) WakeUp() {
	if atomic.CompareAndSwapInt32(&d.wakePending, 0, 1) {
		d.wake.signal()
	}
}

// Enqueue hands fn to the dispatcher thread: it runs synchronously inside
// the wakeup callback of the next tick, in FIFO order with every other
// enqueued function. Safe to call from any goroutine — this is the one
// thread-safe entry point into an otherwise single-threaded dispatcher.
func (d *Dispatcher) Enqueue(fn func()) {
	d.mu.Lock()
	d.pendingFns = append(d.pendingFns, fn)
	d.mu.Unlock()
	d.WakeUp()
}

func (d *Dispatcher) drainPending() {
	d.mu.Lock()
	fns := d.pendingFns
	d.pendingFns = nil
	d.mu.Unlock()
	for _, fn := range fns {
		fn()
	}
}

// Exec blocks running ticks until deadline arrives, SetDone(true) is
// called, or the event set becomes empty. Each tick: compute the earliest
// event deadline and build a poll set, wait, dispatch OnRead/OnWrite for
// ready fds (in list order), then OnTimeout for every event whose deadline
// has elapsed. A panic recovered from any callback is turned into an
// OnError call and the offending event is erased; the dispatcher itself
// never stops running because of it.
func (d *Dispatcher) Exec(deadline time.Time) error {
	for {
		if atomic.LoadInt32(&d.done) != 0 {
			atomic.StoreInt32(&d.done, 0)
			return nil
		}
		if len(d.events) == 0 {
			return nil
		}

		timeout := d.tickTimeout(deadline)
		targets := d.buildTargets()

		if d.recorder != nil {
			d.recorder.SetEventCount(len(d.events))
		}
		pollStart := time.Now()
		results, err := d.poller.wait(targets, timeout)
		if d.recorder != nil {
			d.recorder.ObservePollLatency(time.Since(pollStart))
		}
		if err != nil {
			return rtierr.NewTransportError("dispatcher: poll", err)
		}

		d.dispatchResults(results)
		d.dispatchTimeouts()

		if !deadline.IsZero() && !time.Now().Before(deadline) {
			return nil
		}
	}
}

func (d *Dispatcher) tickTimeout(deadline time.Time) time.Duration {
	earliest := deadline
	for _, ev := range d.events {
		dl := ev.Deadline()
		if dl.IsZero() {
			continue
		}
		if earliest.IsZero() || dl.Before(earliest) {
			earliest = dl
		}
	}
	if earliest.IsZero() {
		return -1
	}
	dur := time.Until(earliest)
	if dur < 0 {
		return 0
	}
	return dur
}

func (d *Dispatcher) buildTargets() []pollTarget {
	targets := make([]pollTarget, 0, len(d.events)+1)
	targets = append(targets, pollTarget{fd: d.wake.readFd(), wantRead: true})
	for _, ev := range d.events {
		fd := ev.Fd()
		if fd < 0 {
			continue
		}
		wr, ww := ev.WantsRead(), ev.WantsWrite()
		if !wr && !ww {
			continue
		}
		targets = append(targets, pollTarget{fd: fd, wantRead: wr, wantWrite: ww})
	}
	return targets
}

func (d *Dispatcher) dispatchResults(results []pollResult) {
	byFd := make(map[int]pollResult, len(results))
	for _, r := range results {
		if r.fd == d.wake.readFd() {
			d.wake.drain()
			atomic.StoreInt32(&d.wakePending, 0)
			d.drainPending()
			continue
		}
		byFd[r.fd] = r
	}

	// List order, as the spec requires: "within one tick, callbacks are
	// invoked in list order."
	for _, ev := range append([]Event(nil), d.events...) {
		r, ok := byFd[ev.Fd()]
		if !ok {
			continue
		}
		if r.err {
			d.safeCall(ev, func() error { return rtierr.NewTransportError("dispatcher: socket error", errSocketError) })
			continue
		}
		if r.read && ev.WantsRead() {
			d.safeCall(ev, func() error { return ev.OnRead(d) })
		}
		if r.write && ev.WantsWrite() {
			d.safeCall(ev, func() error { return ev.OnWrite(d) })
		}
	}
}

func (d *Dispatcher) dispatchTimeouts() {
	now := time.Now()
	for _, ev := range append([]Event(nil), d.events...) {
		dl := ev.Deadline()
		if dl.IsZero() || dl.After(now) {
			continue
		}
		func() {
			defer d.recoverInto(ev)
			ev.OnTimeout(d)
		}()
	}
}

// safeCall invokes fn, and on error or panic calls ev.OnError and erases ev
// — a broken connection never brings down the dispatcher or its siblings.
func (d *Dispatcher) safeCall(ev Event, fn func() error) {
	defer d.recoverInto(ev)
	if err := fn(); err != nil {
		rtilog.For(rtilog.CategoryNetwork).WithError(err).Debug("socket event callback failed")
		ev.OnError(d, err)
		d.Erase(ev)
	}
}

func (d *Dispatcher) recoverInto(ev Event) {
	if r := recover(); r != nil {
		err := rtierr.NewProtocolError("panic in socket event callback: %v", r)
		ev.OnError(d, err)
		d.Erase(ev)
	}
}

type simpleErr string

func (e simpleErr) Error() string { return string(e) }

var errSocketError error = simpleErr("fd flagged an error condition by the poller")
