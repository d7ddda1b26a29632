//go:build !linux && !windows

/**
 * Copyright (c) 2025, OpenRTI Project Contributors.
 *
 * See LICENSE.TXT in the root directory of this source tree.
 */

package socket

// applyKernelGatedOptions is a no-op outside Linux: TCP_USER_TIMEOUT and
// SO_REUSEPORT gating by kernel version is a Linux-specific concern on the
// platforms this build targets.
func applyKernelGatedOptions(fd int) {}
