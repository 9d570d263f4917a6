// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package irv implements the Instant Runoff Voting count used to decide
council elections.

# Ballots

A ballot is a slice of candidate ids, most preferred first:

	ballots := [][]string{
		{"alice", "bob", "carol"},
		{"carol", "alice"},
	}

Candidate ids are opaque. Any ordered type works (string, int, ...).
Ballots are read-only to this package; every count works on its own copy.

# First Preferences

FirstPreferenceCounts counts the top choice of each ballot. Pass the
election's candidates to get explicit zero entries:

	counts := irv.FirstPreferenceCounts(ballots, "alice", "bob", "carol")

# Elimination Rounds

Winner runs elimination rounds until a candidate holds a strict majority
of the ballots still in play:

	winner, ok := irv.Winner(ballots)
	if !ok {
		// no ballots, or every ballot was exhausted
	}

Each round:

  - counts the current top choice of every live ballot
  - returns a candidate whose count is more than half the live ballots
  - otherwise removes every candidate tied at the lowest count (among
    candidates with at least one vote) from all ballots
  - drops ballots left with no preferences

When every remaining candidate is tied at the lowest count, no further
progress is possible and the lowest candidate id wins.

Count returns the same outcome plus a per-round log for results pages:

	res := irv.Count(ballots)
	for i, r := range res.Rounds {
		fmt.Println(i+1, r.Counts, r.Eliminated)
	}
*/
package irv
