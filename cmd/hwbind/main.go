// Copyright 2018 Denis Bernard <db047h@gmail.com>
// Licensed under the MIT license. See license text in the LICENSE file.

// Command hwbind inspects and runs the built-in designs.
//
//	hwbind designs
//	hwbind describe mkGCD --hcl
//	hwbind run mkGCD --set start_a=105 --set start_b=45 --set EN_start=1 --watch x,y --cycles 8
//
package main

import (
	"fmt"
	"os"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}
