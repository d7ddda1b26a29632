//go:build linux || darwin

/**
 * Copyright (c) 2025, OpenRTI Project Contributors.
 *
 * See LICENSE.TXT in the root directory of this source tree.
 */

package dynmodule

import (
	"plugin"

	"github.com/openrti/rti/pkg/rtierr"
)

// pluginModule wraps the stdlib plugin package, the only platforms (ELF,
// Mach-O) it supports.
type pluginModule struct {
	p *plugin.Plugin
}

// Open loads the shared object at path. path is passed straight through to
// plugin.Open, so it follows that package's own rules: it must have been
// built with `go build -buildmode=plugin` against the exact same Go
// toolchain version and module versions as this binary.
func Open(path string) (Module, error) {
	p, err := plugin.Open(path)
	if err != nil {
		return nil, rtierr.NewConfigError("dynmodule: open %q: %v", path, err)
	}
	return &pluginModule{p: p}, nil
}

func (m *pluginModule) Lookup(symbol string) (any, error) {
	sym, err := m.p.Lookup(symbol)
	if err != nil {
		return nil, rtierr.NewConfigError("dynmodule: lookup %q: %v", symbol, err)
	}
	return sym, nil
}

func (m *pluginModule) Close() error { return nil }
