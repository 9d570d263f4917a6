// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package irv

import (
	"slices"

	"golang.org/x/exp/constraints"
)

// Round is one pass of the elimination loop
type Round[C constraints.Ordered] struct {
	// Counts holds the current top choice tally. Only candidates with at
	// least one vote appear.
	Counts     map[C]int
	Total      int // live ballots this round
	Eliminated []C // ascending, empty on the deciding round
	Exhausted  int // ballots dropped after this round's eliminations
}

// Result is the outcome of a full count
type Result[C constraints.Ordered] struct {
	Winner    C
	HasWinner bool

	// TieBreak is set when every remaining candidate was tied at the
	// bottom and Winner was picked as the lowest id among Tied.
	TieBreak bool
	Tied     []C

	Rounds []Round[C]
}

// FirstPreferenceCounts counts how many ballots rank each candidate first.
// Empty ballots contribute nothing. Any candidates passed in are present
// in the result even with zero votes.
func FirstPreferenceCounts[C comparable](ballots [][]C, candidates ...C) map[C]int {
	counts := make(map[C]int, len(candidates))
	for _, c := range candidates {
		counts[c] = 0
	}

	for _, b := range ballots {
		if len(b) > 0 {
			counts[b[0]]++
		}
	}

	return counts
}

// Winner returns the IRV winner of ballots. ok is false when there is
// nothing to count or all ballots are exhausted before a majority forms.
func Winner[C constraints.Ordered](ballots [][]C) (winner C, ok bool) {
	res := Count(ballots)
	return res.Winner, res.HasWinner
}

// Count runs the elimination loop and records every round.
// The caller's ballots are never modified.
func Count[C constraints.Ordered](ballots [][]C) Result[C] {
	var res Result[C]

	working := liveCopy(ballots)
	for len(working) > 0 {
		round := Round[C]{
			Counts: FirstPreferenceCounts(working),
			Total:  len(working),
		}

		if c, ok := majority(round.Counts, round.Total); ok {
			res.Rounds = append(res.Rounds, round)
			res.Winner, res.HasWinner = c, true
			return res
		}

		losers := lowest(round.Counts)
		if len(losers) == len(round.Counts) {
			// Everyone left is tied at the bottom
			res.Rounds = append(res.Rounds, round)
			res.Winner, res.HasWinner = losers[0], true
			res.TieBreak = true
			res.Tied = losers
			return res
		}

		round.Eliminated = losers
		working, round.Exhausted = eliminate(working, losers)
		res.Rounds = append(res.Rounds, round)
	}

	return res
}

// majority finds the candidate holding more than half of total.
// 2*count > total is count > total/2 without truncation.
func majority[C comparable](counts map[C]int, total int) (C, bool) {
	for c, n := range counts {
		if 2*n > total {
			return c, true
		}
	}

	var zero C
	return zero, false
}

// lowest returns every candidate sharing the minimum count, ascending
func lowest[C constraints.Ordered](counts map[C]int) []C {
	minVotes := -1
	for _, n := range counts {
		if minVotes < 0 || n < minVotes {
			minVotes = n
		}
	}

	var out []C
	for c, n := range counts {
		if n == minVotes {
			out = append(out, c)
		}
	}
	slices.Sort(out)

	return out
}

// eliminate strips losers from every ballot and drops the ballots left
// empty. ballots must be owned by the caller of Count.
func eliminate[C comparable](ballots [][]C, losers []C) ([][]C, int) {
	out := make(map[C]struct{}, len(losers))
	for _, c := range losers {
		out[c] = struct{}{}
	}

	kept := ballots[:0]
	exhausted := 0
	for _, b := range ballots {
		b = slices.DeleteFunc(b, func(c C) bool {
			_, gone := out[c]
			return gone
		})
		if len(b) == 0 {
			exhausted++
			continue
		}
		kept = append(kept, b)
	}

	return kept, exhausted
}

// liveCopy deep-copies the non-empty ballots
func liveCopy[C any](ballots [][]C) [][]C {
	out := make([][]C, 0, len(ballots))
	for _, b := range ballots {
		if len(b) > 0 {
			out = append(out, slices.Clone(b))
		}
	}
	return out
}
