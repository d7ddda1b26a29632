/**
 * Copyright (c) 2025, OpenRTI Project Contributors.
 *
 * See LICENSE.TXT in the root directory of this source tree.
 */

package dispatcher

import (
	"os"
	"testing"
	"time"
)

// fdEvent is a minimal Event over an *os.File, used only to exercise the
// dispatcher's fairness and timeout guarantees in tests.
type fdEvent struct {
	f          *os.File
	reads      int
	timeouts   int
	errs       int
	deadline   time.Time
	wantsRead  bool
}

func (e *fdEvent) Fd() int                { return int(e.f.Fd()) }
func (e *fdEvent) WantsRead() bool        { return e.wantsRead }
func (e *fdEvent) WantsWrite() bool       { return false }
func (e *fdEvent) Deadline() time.Time    { return e.deadline }
func (e *fdEvent) OnRead(d *Dispatcher) error {
	buf := make([]byte, 64)
	_, _ = e.f.Read(buf)
	e.reads++
	return nil
}
func (e *fdEvent) OnWrite(d *Dispatcher) error  { return nil }
func (e *fdEvent) OnTimeout(d *Dispatcher)      { e.timeouts++ }
func (e *fdEvent) OnError(d *Dispatcher, err error) { e.errs++ }

func TestDispatcherDeliversReadReadiness(t *testing.T) {
	r, w, err := os.Pipe()
	if err != nil {
		t.Fatal(err)
	}
	defer r.Close()
	defer w.Close()

	d, err := New()
	if err != nil {
		t.Fatal(err)
	}
	defer d.Close()

	ev := &fdEvent{f: r, wantsRead: true}
	d.Insert(ev)

	if _, err := w.Write([]byte("hi")); err != nil {
		t.Fatal(err)
	}

	d.SetDone(false)
	go func() {
		time.Sleep(50 * time.Millisecond)
		d.SetDone(true)
	}()
	if err := d.Exec(time.Now().Add(time.Second)); err != nil {
		t.Fatal(err)
	}

	if ev.reads == 0 {
		t.Fatal("expected at least one OnRead dispatch for a ready fd")
	}
}

func TestDispatcherTimeout(t *testing.T) {
	r, w, err := os.Pipe()
	if err != nil {
		t.Fatal(err)
	}
	defer r.Close()
	defer w.Close()

	d, err := New()
	if err != nil {
		t.Fatal(err)
	}
	defer d.Close()

	ev := &fdEvent{f: r, wantsRead: true, deadline: time.Now().Add(10 * time.Millisecond)}
	d.Insert(ev)

	if err := d.Exec(time.Now().Add(200 * time.Millisecond)); err != nil {
		t.Fatal(err)
	}

	if ev.timeouts == 0 {
		t.Fatal("expected OnTimeout to fire once the deadline elapsed")
	}
}

func TestWakeUpReturnsFromExec(t *testing.T) {
	r, w, err := os.Pipe()
	if err != nil {
		t.Fatal(err)
	}
	defer r.Close()
	defer w.Close()

	d, err := New()
	if err != nil {
		t.Fatal(err)
	}
	defer d.Close()

	d.Insert(&fdEvent{f: r, wantsRead: true})

	done := make(chan error, 1)
	go func() {
		done <- d.Exec(time.Time{})
	}()

	time.Sleep(20 * time.Millisecond)
	d.SetDone(true)

	select {
	case err := <-done:
		if err != nil {
			t.Fatal(err)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("Exec did not return after WakeUp/SetDone")
	}
}

func TestEnqueueRunsOnDispatcherTick(t *testing.T) {
	r, w, err := os.Pipe()
	if err != nil {
		t.Fatal(err)
	}
	defer r.Close()
	defer w.Close()

	d, err := New()
	if err != nil {
		t.Fatal(err)
	}
	defer d.Close()

	d.Insert(&fdEvent{f: r, wantsRead: true})

	ran := make(chan struct{}, 1)
	d.Enqueue(func() {
		ran <- struct{}{}
		d.SetDone(true)
	})

	if err := d.Exec(time.Now().Add(time.Second)); err != nil {
		t.Fatal(err)
	}
	select {
	case <-ran:
	default:
		t.Fatal("enqueued function did not run during Exec")
	}
}
