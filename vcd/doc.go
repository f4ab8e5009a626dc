// Copyright 2018 Denis Bernard <db047h@gmail.com>
// Licensed under the MIT license. See license text in the LICENSE file.

// Package vcd reads and writes Value Change Dump files (IEEE 1364), the
// waveform format used by simulation traces.
//
package vcd
