// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package main

import (
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v2"
)

var (
	errNoCandidates       = errors.New("no candidates listed")
	errDuplicateCandidate = errors.New("candidate listed twice")
	errUnknownCandidate   = errors.New("ballot ranks an unknown candidate")
	errRepeatedRanking    = errors.New("ballot ranks a candidate twice")
)

// BallotFile is an exported election for offline recounts:
//
//	title: SRC President 2025
//	candidates: [alice, bob, cara]
//	ballots:
//	  - [alice, bob]
//	  - [cara, bob, alice]
type BallotFile struct {
	Title      string     `yaml:"title"`
	Candidates []string   `yaml:"candidates"`
	Ballots    [][]string `yaml:"ballots"`
}

// LoadBallotFile reads and parses a ballot file without validating it
func LoadBallotFile(path string) (BallotFile, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return BallotFile{}, err
	}

	var f BallotFile
	if err := yaml.UnmarshalStrict(b, &f); err != nil {
		return BallotFile{}, fmt.Errorf("failed to parse %s: %w", path, err)
	}

	return f, nil
}

// Problem is one validation finding, pointing at a 1-based ballot number
// when it concerns a ballot.
type Problem struct {
	Ballot int
	Err    error
	Detail string
}

func (p Problem) String() string {
	if p.Ballot == 0 {
		return fmt.Sprintf("%s: %s", p.Err, p.Detail)
	}
	return fmt.Sprintf("ballot %d: %s: %s", p.Ballot, p.Err, p.Detail)
}

// Check lists every problem in the file. Empty ballots are allowed and
// count as exhausted from the start.
func (f BallotFile) Check() []Problem {
	var problems []Problem

	if len(f.Candidates) == 0 {
		problems = append(problems, Problem{Err: errNoCandidates, Detail: "add a candidates list"})
	}

	known := make(map[string]bool, len(f.Candidates))
	for _, c := range f.Candidates {
		if known[c] {
			problems = append(problems, Problem{Err: errDuplicateCandidate, Detail: c})
		}
		known[c] = true
	}

	for i, ballot := range f.Ballots {
		seen := make(map[string]bool, len(ballot))
		for _, c := range ballot {
			if !known[c] {
				problems = append(problems, Problem{Ballot: i + 1, Err: errUnknownCandidate, Detail: c})
			}
			if seen[c] {
				problems = append(problems, Problem{Ballot: i + 1, Err: errRepeatedRanking, Detail: c})
			}
			seen[c] = true
		}
	}

	return problems
}
