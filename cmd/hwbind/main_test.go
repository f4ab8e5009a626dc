// Copyright 2018 Denis Bernard <db047h@gmail.com>
// Licensed under the MIT license. See license text in the LICENSE file.

package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/db47h/hwbind/desc"
	"github.com/db47h/hwbind/vcd"
)

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	cmd := newRootCmd()
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func TestDesigns(t *testing.T) {
	out, err := execute(t, "designs")
	if err != nil {
		t.Fatal(err)
	}
	for _, n := range []string{"mkCounter", "mkDatapath", "mkGCD"} {
		if !strings.Contains(out, n) {
			t.Errorf("missing %s in output:\n%s", n, out)
		}
	}
}

func TestDescribe(t *testing.T) {
	out, err := execute(t, "describe", "mkDatapath")
	if err != nil {
		t.Fatal(err)
	}
	for _, s := range []string{"module mkDatapath", "wdata", "extended", "mem64", "array", "metadata: "} {
		if !strings.Contains(out, s) {
			t.Errorf("missing %q in output:\n%s", s, out)
		}
	}

	src, err := execute(t, "describe", "--hcl", "mkGCD")
	if err != nil {
		t.Fatal(err)
	}
	path := filepath.Join(t.TempDir(), "gcd.hcl")
	if err = os.WriteFile(path, []byte(src), 0o644); err != nil {
		t.Fatal(err)
	}
	tbl, err := desc.Load(path)
	if err != nil {
		t.Fatalf("%v\n%s", err, src)
	}
	if tbl.Module() != "mkGCD" || tbl.NumRules() != 3 {
		t.Errorf("bad table %+v", tbl.Descriptor())
	}
	out, err = execute(t, "describe", path)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(out, "rules: 0:swap 1:subtract 2:finish") {
		t.Errorf("bad output:\n%s", out)
	}

	if _, err = execute(t, "describe", "mkNope"); err == nil || !strings.Contains(err.Error(), "mkGCD") {
		t.Errorf("unexpected error %v", err)
	}
}

func TestRun(t *testing.T) {
	path := filepath.Join(t.TempDir(), "gcd.vcd")
	out, err := execute(t, "run", "mkGCD",
		"--set", "start_a=105", "--set", "start_b=0x2d", "--set", "EN_start=1",
		"--watch", "x,y,result_ready", "--cycles", "3", "--vcd", path)
	if err != nil {
		t.Fatal(err)
	}
	// cycle 0 loads x and y, cycles 1 and 2 subtract.
	lines := strings.Split(strings.TrimSpace(out), "\n")
	if len(lines) != 4 {
		t.Fatalf("unexpected output:\n%s", out)
	}
	if f := strings.Fields(lines[3]); len(f) < 4 || f[1] != "0xf" || f[2] != "0x2d" {
		t.Errorf("unexpected last line %q", lines[3])
	}

	f, err := os.Open(path)
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()
	d, err := vcd.Parse(f)
	if err != nil {
		t.Fatal(err)
	}
	if v := d.Value("x"); v == nil || v.Int64() != 15 {
		t.Errorf("traced x = %v", v)
	}
}

func TestRun_fire(t *testing.T) {
	out, err := execute(t, "run", "mkGCD",
		"--set", "start_a=105", "--set", "start_b=45", "--set", "EN_start=1",
		"--fire", "swap", "--watch", "x", "-n", "3")
	if err != nil {
		t.Fatal(err)
	}
	lines := strings.Split(strings.TrimSpace(out), "\n")
	if f := strings.Fields(lines[len(lines)-1]); len(f) != 2 || f[1] != "0x69" {
		t.Errorf("subtract fired:\n%s", out)
	}
}

func TestRun_errors(t *testing.T) {
	data := [][]string{
		{"run", "mkNope"},
		{"run", "mkGCD", "--set", "start_a"},
		{"run", "mkGCD", "--set", "start_a=zz"},
		{"run", "mkGCD", "--set", "result=1"},
		{"run", "mkGCD", "--watch", "nope"},
		{"run", "mkCounter", "--fire", "swap"},
	}
	for _, args := range data {
		if _, err := execute(t, args...); err == nil {
			t.Errorf("%v: expected error", args)
		}
	}
}
