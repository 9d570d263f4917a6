// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package main

import (
	"fmt"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"
)

func newCheckCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "check <ballots.yaml>",
		Short: "Validate a ballot file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			f, err := LoadBallotFile(args[0])
			if err != nil {
				return err
			}

			problems := f.Check()
			for _, p := range problems {
				fmt.Fprintln(cmd.OutOrStdout(), p.String())
			}
			if len(problems) > 0 {
				return fmt.Errorf("%s found", pluralize(len(problems), "problem"))
			}

			fmt.Fprintf(cmd.OutOrStdout(), "ok: %s, %s\n",
				pluralize(len(f.Candidates), "candidate"),
				pluralize(len(f.Ballots), "ballot"))
			return nil
		},
	}
}

func pluralize(n int, noun string) string {
	if n != 1 {
		noun += "s"
	}
	return humanize.Comma(int64(n)) + " " + noun
}
