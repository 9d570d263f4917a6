// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

// Package ballot turns submitted preference maps into ranked ballots.
package ballot

import (
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"strings"
)

var (
	ErrEmptyBallot       = errors.New("preferences cannot be empty")
	ErrUnknownCandidate  = errors.New("unknown candidate")
	ErrIncompleteRanking = errors.New("preferences must be a complete ranking starting from 1")
)

// FromPreferences orders a candidate_id -> rank map into a ballot, most
// preferred first. Every candidate must be ranked exactly once with ranks
// 1..n.
func FromPreferences(prefs map[string]int, candidates []string) ([]string, error) {
	if len(prefs) == 0 {
		return nil, ErrEmptyBallot
	}

	known := make(map[string]bool, len(candidates))
	for _, c := range candidates {
		known[c] = true
	}

	for id := range prefs {
		if !known[id] {
			return nil, fmt.Errorf("%w: %s", ErrUnknownCandidate, id)
		}
	}

	if len(prefs) != len(known) {
		return nil, ErrIncompleteRanking
	}

	ranking := make([]string, len(prefs))
	for id, rank := range prefs {
		if rank < 1 || rank > len(ranking) || ranking[rank-1] != "" {
			return nil, ErrIncompleteRanking
		}
		ranking[rank-1] = id
	}

	return ranking, nil
}

// Digest fingerprints a stored ranking so later tampering is detectable
func Digest(sessionID string, ranking []string) string {
	sum := sha256.Sum256([]byte(sessionID + "\x00" + strings.Join(ranking, "\x00")))
	return hex.EncodeToString(sum[:])
}
