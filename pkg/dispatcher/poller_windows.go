//go:build windows

/**
 * Copyright (c) 2025, OpenRTI Project Contributors.
 *
 * See LICENSE.TXT in the root directory of this source tree.
 */

package dispatcher

import (
	"time"

	"golang.org/x/sys/windows"
)

type windowsPoller struct{}

func newPoller() poller { return windowsPoller{} }

func (windowsPoller) wait(targets []pollTarget, timeout time.Duration) ([]pollResult, error) {
	fds := make([]windows.WSAPollFD, len(targets))
	for i, t := range targets {
		var events int16
		if t.wantRead {
			events |= windows.POLLRDNORM
		}
		if t.wantWrite {
			events |= windows.POLLWRNORM
		}
		fds[i] = windows.WSAPollFD{Fd: windows.Handle(t.fd), Events: events}
	}

	ms := int32(timeout / time.Millisecond)
	if timeout < 0 {
		ms = -1
	}

	if _, err := windows.WSAPoll(fds, ms); err != nil {
		return nil, err
	}

	results := make([]pollResult, 0, len(fds))
	for i, pfd := range fds {
		if pfd.REvents == 0 {
			continue
		}
		results = append(results, pollResult{
			fd:    targets[i].fd,
			read:  pfd.REvents&(windows.POLLRDNORM|windows.POLLHUP|windows.POLLERR) != 0,
			write: pfd.REvents&(windows.POLLWRNORM|windows.POLLERR) != 0,
			err:   pfd.REvents&windows.POLLERR != 0,
		})
	}
	return results, nil
}
