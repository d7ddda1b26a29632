//go:build linux

/**
 * Copyright (c) 2025, OpenRTI Project Contributors.
 *
 * See LICENSE.TXT in the root directory of this source tree.
 */

package socket

import (
	"sync"

	"github.com/docker/docker/pkg/parsers/kernel"
	"golang.org/x/sys/unix"

	"github.com/openrti/rti/pkg/rtilog"
)

// TCP_USER_TIMEOUT landed in Linux 2.6.37; SO_REUSEPORT in 3.9. Older
// kernels reject the setsockopt outright, so we gate on the running
// kernel's version instead of probing with a throwaway socket.
var (
	minUserTimeoutVersion = &kernel.VersionInfo{Kernel: 2, Major: 6, Minor: 37}
	minReusePortVersion   = &kernel.VersionInfo{Kernel: 3, Major: 9, Minor: 0}

	gateOnce    sync.Once
	haveUserTO  bool
	haveReuseP  bool
)

func detectKernelGates() {
	v, err := kernel.GetKernelVersion()
	if err != nil {
		rtilog.For(rtilog.CategoryNetwork).WithError(err).Warn("could not determine kernel version, socket options left at their defaults")
		return
	}
	haveUserTO = kernel.CompareKernelVersion(*v, *minUserTimeoutVersion) >= 0
	haveReuseP = kernel.CompareKernelVersion(*v, *minReusePortVersion) >= 0
}

// applyKernelGatedOptions sets the socket options this RTI build wants that
// are not universally supported: TCP_USER_TIMEOUT bounds how long an
// unacknowledged write may sit before the kernel declares the peer gone
// (catching the "parent federate's process was SIGKILLed" case well before
// any application-level heartbeat would), and SO_REUSEPORT is set as well.
// FromNetConn applies both to the accepted or dialed connection sockets it
// wraps; listening sockets never pass through here. Failures here are
// logged, not fatal: a federate still functions without either.
func applyKernelGatedOptions(fd int) {
	gateOnce.Do(detectKernelGates)

	if haveUserTO {
		if err := unix.SetsockoptInt(fd, unix.IPPROTO_TCP, unix.TCP_USER_TIMEOUT, 30000); err != nil {
			rtilog.For(rtilog.CategoryNetwork).WithError(err).Debug("TCP_USER_TIMEOUT not applied")
		}
	}
	if haveReuseP {
		if err := unix.SetsockoptInt(fd, unix.SOL_SOCKET, unix.SO_REUSEPORT, 1); err != nil {
			rtilog.For(rtilog.CategoryNetwork).WithError(err).Debug("SO_REUSEPORT not applied")
		}
	}
}
