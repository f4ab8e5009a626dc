// Copyright 2018 Denis Bernard <db047h@gmail.com>
// Licensed under the MIT license. See license text in the LICENSE file.

package main

import (
	"io"
	"strings"

	"github.com/db47h/hwbind"
	"github.com/db47h/hwbind/designs"
	"github.com/db47h/hwbind/desc"
	"github.com/olekukonko/tablewriter"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

func newRootCmd() *cobra.Command {
	var verbose bool
	root := &cobra.Command{
		Use:           "hwbind",
		Short:         "Inspect and run simulated hardware models",
		SilenceUsage:  true,
		SilenceErrors: true,
		CompletionOptions: cobra.CompletionOptions{
			DisableDefaultCmd: true,
		},
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			var (
				l   *zap.Logger
				err error
			)
			if verbose {
				l, err = zap.NewDevelopment()
			} else {
				cfg := zap.NewProductionConfig()
				cfg.Level = zap.NewAtomicLevelAt(zap.WarnLevel)
				l, err = cfg.Build()
			}
			if err != nil {
				return err
			}
			hwbind.SetLogger(l)
			return nil
		},
	}
	root.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable debug logging")
	root.AddCommand(newDesignsCmd(), newDescribeCmd(), newRunCmd())
	return root
}

func newTable(w io.Writer, header ...string) *tablewriter.Table {
	t := tablewriter.NewWriter(w)
	t.SetHeader(header)
	t.SetHeaderAlignment(tablewriter.ALIGN_LEFT)
	t.SetAlignment(tablewriter.ALIGN_LEFT)
	t.SetAutoFormatHeaders(false)
	t.SetHeaderLine(false)
	t.SetBorder(false)
	t.SetNoWhiteSpace(true)
	t.SetTablePadding("  ")
	return t
}

func lookupDesign(name string) (*designs.Design, error) {
	d, ok := designs.Lookup(name)
	if !ok {
		return nil, errors.Errorf("unknown design %q (available: %s)", name, strings.Join(designs.Names(), ", "))
	}
	return d, nil
}

// loadTable returns the table of a built-in design or of a descriptor file.
func loadTable(arg string) (*hwbind.Table, error) {
	if strings.HasSuffix(arg, ".hcl") || strings.HasSuffix(arg, ".json") {
		return desc.Load(arg)
	}
	d, err := lookupDesign(arg)
	if err != nil {
		return nil, err
	}
	return d.Table()
}

func newDesignsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "designs",
		Short: "List built-in designs",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			t := newTable(cmd.OutOrStdout(), "NAME", "DESCRIPTION")
			for _, n := range designs.Names() {
				d, _ := designs.Lookup(n)
				t.Append([]string{d.Name, d.Doc})
			}
			t.Render()
			return nil
		},
	}
}
