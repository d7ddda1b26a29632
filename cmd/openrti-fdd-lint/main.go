/**
 * Copyright (c) 2025, OpenRTI Project Contributors.
 *
 * See LICENSE.TXT in the root directory of this source tree.
 */

// Command openrti-fdd-lint reads a federation object model document (1516
// FDD XML, 1516e FDD XML, or a .fed file) and reports whether it parses and
// validates, printing a summary of its object/interaction class counts on
// success.
package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/openrti/rti/pkg/objectmodel"
	"github.com/openrti/rti/pkg/objectmodel/fdd1516"
	"github.com/openrti/rti/pkg/objectmodel/fdd1516e"
	"github.com/openrti/rti/pkg/objectmodel/fed"
)

func main() {
	if len(os.Args) != 2 {
		fmt.Fprintf(os.Stderr, "usage: %s <fdd-or-fed-file>\n", os.Args[0])
		os.Exit(2)
	}
	path := os.Args[1]

	f, err := os.Open(path)
	if err != nil {
		fmt.Fprintf(os.Stderr, "openrti-fdd-lint: %v\n", err)
		os.Exit(1)
	}
	defer f.Close()

	var mod *objectmodel.Module
	switch strings.ToLower(filepath.Ext(path)) {
	case ".fed":
		mod, err = fed.Read(f)
	case ".xml":
		mod, err = readXML(f)
	default:
		fmt.Fprintf(os.Stderr, "openrti-fdd-lint: %s: unrecognized extension, expected .fed or .xml\n", path)
		os.Exit(2)
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "openrti-fdd-lint: %s: %v\n", path, err)
		os.Exit(1)
	}

	fmt.Printf("%s: OK\n", path)
	fmt.Printf("  object classes:      %d\n", len(mod.ObjectClasses))
	fmt.Printf("  interaction classes: %d\n", len(mod.InteractionClasses))
	fmt.Printf("  dimensions:          %d\n", len(mod.Dimensions))
	fmt.Printf("  transportation types:%d\n", len(mod.Transportations))
}

// readXML tries the 1516e reader first and falls back to 1516 only when it
// returns an error. The 1516e reader skips elements it does not recognize,
// so it rejects a 1516 document only when a known element is misplaced or
// the model it builds (with empty names) fails validation; a 1516 document
// that passes both is reported with the 1516e reader's result.
func readXML(f *os.File) (*objectmodel.Module, error) {
	mod, err := fdd1516e.Read(f)
	if err == nil {
		return mod, nil
	}
	if _, seekErr := f.Seek(0, 0); seekErr != nil {
		return nil, seekErr
	}
	return fdd1516.Read(f)
}
