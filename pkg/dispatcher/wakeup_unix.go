//go:build !windows

/**
 * Copyright (c) 2025, OpenRTI Project Contributors.
 *
 * See LICENSE.TXT in the root directory of this source tree.
 */

package dispatcher

import "golang.org/x/sys/unix"

// wakeupPipe is the cross-thread wakeup channel: a self-pipe whose read end
// the dispatcher always keeps in its poll set. Writing one byte ends a
// blocked poll wait inside Exec, so the next tick starts at once; Exec itself
// returns only under its own conditions (done, empty set, deadline).
type wakeupPipe struct {
	r, w int
}

func newWakeupPipe() (*wakeupPipe, error) {
	fds := make([]int, 2)
	if err := unix.Pipe(fds); err != nil {
		return nil, err
	}
	if err := unix.SetNonblock(fds[0], true); err != nil {
		return nil, err
	}
	if err := unix.SetNonblock(fds[1], true); err != nil {
		return nil, err
	}
	return &wakeupPipe{r: fds[0], w: fds[1]}, nil
}

func (p *wakeupPipe) readFd() int { return p.r }

func (p *wakeupPipe) signal() {
	var b [1]byte
	_, _ = unix.Write(p.w, b[:])
}

// drain empties the pipe after a wakeup-triggered poll return.
func (p *wakeupPipe) drain() {
	buf := make([]byte, 64)
	for {
		n, err := unix.Read(p.r, buf)
		if n <= 0 || err != nil {
			return
		}
	}
}

func (p *wakeupPipe) close() {
	_ = unix.Close(p.r)
	_ = unix.Close(p.w)
}
