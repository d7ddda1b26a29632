/**
 * Copyright (c) 2025, OpenRTI Project Contributors.
 *
 * See LICENSE.TXT in the root directory of this source tree.
 */

package dynmodule

import "testing"

// TestOpenMissingModuleFails exercises the one path every platform's Open
// shares: a module that doesn't load returns a *rtierr.ConfigError rather
// than panicking. On linux/darwin this is plugin.Open failing to find the
// file; on every other GOOS it's the unconditional "not supported" stub.
// Building a real loadable plugin isn't possible from this repository's own
// test run (it requires a separate -buildmode=plugin build step), so this
// is the deepest this package's tests can reach.
func TestOpenMissingModuleFails(t *testing.T) {
	m, err := Open("/nonexistent/path/to/a/module.so")
	if err == nil {
		t.Fatal("expected an error for a nonexistent module path")
	}
	if m != nil {
		t.Fatal("expected a nil Module alongside the error")
	}
}
