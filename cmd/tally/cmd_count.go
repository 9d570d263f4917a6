// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package main

import (
	"encoding/json"
	"fmt"
	"io"
	"slices"
	"strings"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"github.com/danielhkuo/council-vote/irv"
)

type countFlags struct {
	jsonOut bool
	lenient bool
}

func newCountCmd() *cobra.Command {
	var flags countFlags

	cmd := &cobra.Command{
		Use:   "count <ballots.yaml>",
		Short: "Run an instant runoff count and print every round",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			f, err := LoadBallotFile(args[0])
			if err != nil {
				return err
			}

			if problems := f.Check(); len(problems) > 0 && !flags.lenient {
				for _, p := range problems {
					cmd.PrintErrln(p.String())
				}
				return fmt.Errorf("%s found, rerun with --lenient to count anyway", pluralize(len(problems), "problem"))
			}

			first := irv.FirstPreferenceCounts(f.Ballots, f.Candidates...)
			res := irv.Count(f.Ballots)

			if flags.jsonOut {
				return writeJSON(cmd.OutOrStdout(), f, first, res)
			}
			writeReport(cmd.OutOrStdout(), f, first, res)
			return nil
		},
	}

	cmd.Flags().BoolVar(&flags.jsonOut, "json", false, "print the result as JSON")
	cmd.Flags().BoolVar(&flags.lenient, "lenient", false, "count ballots even if the file has problems")

	return cmd
}

type jsonRound struct {
	Counts     map[string]int `json:"counts"`
	Total      int            `json:"total"`
	Eliminated []string       `json:"eliminated"`
	Exhausted  int            `json:"exhausted"`
}

type jsonResult struct {
	Title            string         `json:"title,omitempty"`
	Ballots          int            `json:"ballots"`
	FirstPreferences map[string]int `json:"first_preferences"`
	Winner           *string        `json:"winner"`
	TieBreak         bool           `json:"tie_break"`
	Rounds           []jsonRound    `json:"rounds"`
}

func writeJSON(w io.Writer, f BallotFile, first map[string]int, res irv.Result[string]) error {
	out := jsonResult{
		Title:            f.Title,
		Ballots:          len(f.Ballots),
		FirstPreferences: first,
		TieBreak:         res.TieBreak,
		Rounds:           make([]jsonRound, len(res.Rounds)),
	}
	if res.HasWinner {
		out.Winner = &res.Winner
	}
	for i, rd := range res.Rounds {
		out.Rounds[i] = jsonRound{Counts: rd.Counts, Total: rd.Total, Eliminated: rd.Eliminated, Exhausted: rd.Exhausted}
		if out.Rounds[i].Eliminated == nil {
			out.Rounds[i].Eliminated = []string{}
		}
	}

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(out)
}

func writeReport(w io.Writer, f BallotFile, first map[string]int, res irv.Result[string]) {
	if f.Title != "" {
		fmt.Fprintln(w, f.Title)
		fmt.Fprintln(w, strings.Repeat("=", len(f.Title)))
	}
	fmt.Fprintf(w, "%s counted\n\n", pluralize(len(f.Ballots), "ballot"))

	fmt.Fprintln(w, "First preferences:")
	for _, c := range sortedByVotes(first) {
		fmt.Fprintf(w, "  %-20s %s\n", c, humanize.Comma(int64(first[c])))
	}

	for i, rd := range res.Rounds {
		fmt.Fprintf(w, "\n%s round (%s live):\n", humanize.Ordinal(i+1), pluralize(rd.Total, "ballot"))
		for _, c := range sortedByVotes(rd.Counts) {
			fmt.Fprintf(w, "  %-20s %s\n", c, humanize.Comma(int64(rd.Counts[c])))
		}
		if len(rd.Eliminated) > 0 {
			fmt.Fprintf(w, "  eliminated: %s\n", strings.Join(rd.Eliminated, ", "))
		}
		if rd.Exhausted > 0 {
			fmt.Fprintf(w, "  exhausted: %s\n", pluralize(rd.Exhausted, "ballot"))
		}
	}

	fmt.Fprintln(w)
	switch {
	case !res.HasWinner:
		fmt.Fprintln(w, "No winner")
	case res.TieBreak:
		fmt.Fprintf(w, "Winner: %s (tie-break among %s)\n", res.Winner, strings.Join(res.Tied, ", "))
	default:
		fmt.Fprintf(w, "Winner: %s\n", res.Winner)
	}
}

// sortedByVotes orders candidates by count descending, then by id
func sortedByVotes(counts map[string]int) []string {
	ids := make([]string, 0, len(counts))
	for c := range counts {
		ids = append(ids, c)
	}
	slices.SortFunc(ids, func(a, b string) int {
		if counts[a] != counts[b] {
			return counts[b] - counts[a]
		}
		return strings.Compare(a, b)
	})
	return ids
}
