/**
 * Copyright (c) 2025, OpenRTI Project Contributors.
 *
 * See LICENSE.TXT in the root directory of this source tree.
 */

package dispatcher

import "time"

// pollTarget is one fd and the readiness it wants, handed to the OS-specific
// poller.
type pollTarget struct {
	fd         int
	wantRead   bool
	wantWrite  bool
}

// pollResult reports what came back ready for one fd.
type pollResult struct {
	fd    int
	read  bool
	write bool
	err   bool
}

// poller is the single syscall the dispatcher's tick blocks in. Unix builds
// use golang.org/x/sys/unix.Poll; Windows builds use
// golang.org/x/sys/windows.WSAPoll — the same poll(2)-shaped call, just
// named differently by winsock. Both come from the one golang.org/x/sys
// dependency already in the module graph.
type poller interface {
	wait(targets []pollTarget, timeout time.Duration) ([]pollResult, error)
}
