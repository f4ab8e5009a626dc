// Copyright 2018 Denis Bernard <db047h@gmail.com>
// Licensed under the MIT license. See license text in the LICENSE file.

package main

import (
	"fmt"
	"math/big"
	"strconv"
	"strings"

	"github.com/db47h/hwbind"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"
)

type runConfig struct {
	cycles  int
	workers int
	set     []string
	watch   []string
	fire    []string
	vcd     string
}

func newRunCmd() *cobra.Command {
	var cfg runConfig
	cmd := &cobra.Command{
		Use:   "run <design>",
		Short: "Run a design for a number of clock cycles",
		Long: `Run constructs an instance of a built-in design, resets it if it has
CLK and RST_N inputs, applies the --set inputs and toggles CLK for the
requested number of cycles. Designs without a clock are evaluated once per
cycle.

Watched signals and the rules in WILL_FIRE are printed after each cycle.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(cmd, args[0], &cfg)
		},
	}
	f := cmd.Flags()
	f.IntVarP(&cfg.cycles, "cycles", "n", 10, "number of clock cycles")
	f.IntVar(&cfg.workers, "workers", 1, "number of simulation workers")
	f.StringArrayVarP(&cfg.set, "set", "s", nil, "set input `name=value` before running")
	f.StringSliceVarP(&cfg.watch, "watch", "w", nil, "signals to print after each cycle")
	f.StringSliceVar(&cfg.fire, "fire", nil, "only let the named rules fire (sets BLOCK_FIRE)")
	f.StringVar(&cfg.vcd, "vcd", "", "write a VCD trace to `file`")
	return cmd
}

func parseAssign(s string) (string, *big.Int, error) {
	i := strings.IndexByte(s, '=')
	if i <= 0 {
		return "", nil, errors.Errorf("invalid assignment %q: expected name=value", s)
	}
	v, ok := new(big.Int).SetString(s[i+1:], 0)
	if !ok {
		return "", nil, errors.Errorf("invalid value in %q", s)
	}
	return s[:i], v, nil
}

func run(cmd *cobra.Command, design string, cfg *runConfig) (err error) {
	d, err := lookupDesign(design)
	if err != nil {
		return err
	}
	b, err := d.Bind(cfg.workers)
	if err != nil {
		return err
	}
	t := b.Table()
	h, err := b.Construct()
	if err != nil {
		return err
	}

	var th hwbind.TraceHandle
	defer func() {
		if !th.IsZero() {
			if e := b.StopTrace(th); err == nil {
				err = e
			}
		}
		if e := b.Destruct(h); err == nil {
			err = e
		}
	}()

	for _, s := range cfg.set {
		name, v, err := parseAssign(s)
		if err != nil {
			return err
		}
		if err = b.SetBig(h, name, v); err != nil {
			return err
		}
	}
	if len(cfg.fire) > 0 {
		if err = b.FireOnly(h, "BLOCK_FIRE", cfg.fire...); err != nil {
			return err
		}
	}
	for _, n := range cfg.watch {
		if _, ok := t.Signal(n); !ok {
			return errors.Errorf("no such signal %q", n)
		}
	}
	if cfg.vcd != "" {
		if th, err = b.StartTrace(h, cfg.vcd); err != nil {
			return err
		}
	}

	_, clocked := t.Signal("CLK")
	_, rules := t.Signal("WILL_FIRE")
	header := append([]string{"CYCLE"}, cfg.watch...)
	if rules {
		header = append(header, "FIRED")
	}
	tw := newTable(cmd.OutOrStdout(), header...)

	eval := func() error {
		if err := b.Eval(h); err != nil {
			return err
		}
		if th.IsZero() {
			return nil
		}
		ts, err := b.Time(h)
		if err != nil {
			return err
		}
		return b.AppendTrace(th, ts)
	}
	for c := 0; c < cfg.cycles; c++ {
		if clocked {
			if err = b.Set32(h, "CLK", 0); err != nil {
				return err
			}
			if err = eval(); err != nil {
				return err
			}
			if err = b.Set32(h, "CLK", 1); err != nil {
				return err
			}
		}
		if err = eval(); err != nil {
			return err
		}

		row := []string{strconv.Itoa(c)}
		for _, n := range cfg.watch {
			v, err := b.GetBig(h, n)
			if err != nil {
				return err
			}
			row = append(row, fmt.Sprintf("%#x", v))
		}
		if rules {
			fired, err := b.ListBits(h, "WILL_FIRE")
			if err != nil {
				return err
			}
			names := make([]string, len(fired))
			for i, r := range fired {
				names[i] = r.Name
			}
			row = append(row, strings.Join(names, ","))
		}
		tw.Append(row)
	}
	tw.Render()
	return nil
}
