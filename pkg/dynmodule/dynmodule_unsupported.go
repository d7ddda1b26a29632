//go:build !linux && !darwin

/**
 * Copyright (c) 2025, OpenRTI Project Contributors.
 *
 * See LICENSE.TXT in the root directory of this source tree.
 */

package dynmodule

import "github.com/openrti/rti/pkg/rtierr"

// Open always fails: the stdlib plugin package only supports ELF and
// Mach-O binaries, so Windows and any other GOOS has no dynamic module
// loading available here.
func Open(path string) (Module, error) {
	return nil, rtierr.NewConfigError("dynmodule: dynamic modules are not supported on this platform")
}
