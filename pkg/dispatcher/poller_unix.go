//go:build !windows

/**
 * Copyright (c) 2025, OpenRTI Project Contributors.
 *
 * See LICENSE.TXT in the root directory of this source tree.
 */

package dispatcher

import (
	"time"

	"golang.org/x/sys/unix"
)

type unixPoller struct{}

func newPoller() poller { return unixPoller{} }

func (unixPoller) wait(targets []pollTarget, timeout time.Duration) ([]pollResult, error) {
	fds := make([]unix.PollFd, len(targets))
	for i, t := range targets {
		var events int16
		if t.wantRead {
			events |= unix.POLLIN
		}
		if t.wantWrite {
			events |= unix.POLLOUT
		}
		fds[i] = unix.PollFd{Fd: int32(t.fd), Events: events}
	}

	ms := int(timeout / time.Millisecond)
	if timeout < 0 {
		ms = -1
	}

	_, err := unix.Poll(fds, ms)
	if err != nil && err != unix.EINTR {
		return nil, err
	}

	results := make([]pollResult, 0, len(fds))
	for i, pfd := range fds {
		if pfd.Revents == 0 {
			continue
		}
		results = append(results, pollResult{
			fd:    targets[i].fd,
			read:  pfd.Revents&(unix.POLLIN|unix.POLLHUP|unix.POLLERR) != 0,
			write: pfd.Revents&(unix.POLLOUT|unix.POLLERR) != 0,
			err:   pfd.Revents&(unix.POLLERR|unix.POLLNVAL) != 0,
		})
	}
	return results, nil
}
