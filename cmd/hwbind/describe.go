// Copyright 2018 Denis Bernard <db047h@gmail.com>
// Licensed under the MIT license. See license text in the LICENSE file.

package main

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/db47h/hwbind/desc"
	"github.com/spf13/cobra"
)

func newDescribeCmd() *cobra.Command {
	var asHCL bool
	cmd := &cobra.Command{
		Use:   "describe <design|file.hcl>",
		Short: "Print the descriptor table of a design",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			t, err := loadTable(args[0])
			if err != nil {
				return err
			}
			w := cmd.OutOrStdout()
			if asHCL {
				src, err := desc.Encode(t)
				if err != nil {
					return err
				}
				_, err = w.Write(src)
				return err
			}

			fmt.Fprintf(w, "module %s\n\n", t.Module())
			tw := newTable(w, "NAME", "ROLE", "WIDTH", "CLASS", "WORDS", "DEPTH")
			for _, s := range t.Signals() {
				tw.Append([]string{s.Name, s.Role.String(), strconv.Itoa(int(s.Width)), s.Class().String(), strconv.Itoa(s.Words()), "-"})
			}
			for _, a := range t.Arrays() {
				tw.Append([]string{a.Name, "array", strconv.Itoa(int(a.Width)), a.Class().String(), strconv.Itoa(a.Words()), strconv.Itoa(int(a.Depth))})
			}
			tw.Render()
			if rs := t.Rules(); len(rs) > 0 {
				names := make([]string, len(rs))
				for i, r := range rs {
					names[i] = strconv.Itoa(int(r.Index)) + ":" + r.Name
				}
				fmt.Fprintf(w, "\nrules: %s\n", strings.Join(names, " "))
			}
			if m := t.Metadata(); m != "null" {
				fmt.Fprintf(w, "metadata: %s\n", m)
			}
			return nil
		},
	}
	cmd.Flags().BoolVar(&asHCL, "hcl", false, "print the table as an HCL descriptor")
	return cmd
}
