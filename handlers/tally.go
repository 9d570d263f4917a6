// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"context"
	"fmt"
	"time"

	"github.com/dustin/go-humanize"

	"github.com/danielhkuo/council-vote/db"
	"github.com/danielhkuo/council-vote/irv"
	"github.com/danielhkuo/council-vote/models"
)

// ComputeIRVResults tallies every stored ballot for an election.
// Queries run one after another so a single-connection pool never blocks.
func ComputeIRVResults(ctx context.Context, q db.Querier, election models.Election) (models.ElectionResults, error) {
	candidates, err := db.LoadCandidates(ctx, q, election.ID)
	if err != nil {
		return models.ElectionResults{}, fmt.Errorf("failed to load candidates: %w", err)
	}

	ballots, err := db.LoadBallots(ctx, q, election.ID)
	if err != nil {
		return models.ElectionResults{}, fmt.Errorf("failed to load ballots: %w", err)
	}

	faculty, gender, level, err := turnout(ctx, q, election.ID)
	if err != nil {
		return models.ElectionResults{}, fmt.Errorf("failed to load turnout: %w", err)
	}

	ids := make([]string, len(candidates))
	byID := make(map[string]models.Candidate, len(candidates))
	for i, c := range candidates {
		ids[i] = c.ID
		byID[c.ID] = c
	}

	count := irv.Count(ballots)

	results := models.ElectionResults{
		ElectionID:          election.ID,
		Title:               election.Title,
		Method:              models.MethodIRV,
		Status:              election.Status,
		TotalVotes:          len(ballots),
		TotalVotesText:      humanize.Comma(int64(len(ballots))) + " " + pluralVotes(len(ballots)),
		TurnoutByFaculty:    faculty,
		TurnoutByGender:     gender,
		TurnoutByStudyLevel: level,
		VoteCounts:          irv.FirstPreferenceCounts(ballots, ids...),
		Candidates:          candidates,
		TieBreak:            count.TieBreak,
		Rounds:              make([]models.TallyRound, len(count.Rounds)),
		ComputedAt:          time.Now().UTC(),
	}

	for i, rd := range count.Rounds {
		eliminated := rd.Eliminated
		if eliminated == nil {
			eliminated = []string{}
		}
		results.Rounds[i] = models.TallyRound{
			Round:      i + 1,
			Counts:     rd.Counts,
			Total:      rd.Total,
			Eliminated: eliminated,
			Exhausted:  rd.Exhausted,
		}
	}

	if count.HasWinner {
		winner, ok := byID[count.Winner]
		if !ok {
			// Ballot references a candidate no longer registered
			winner = models.Candidate{ID: count.Winner, ElectionID: election.ID}
		}
		results.Winner = &winner
	}

	return results, nil
}

// turnout groups voters who cast a ballot by their self-reported traits
func turnout(ctx context.Context, q db.Querier, electionID string) (faculty, gender, level map[string]int, err error) {
	rows, err := q.QueryContext(ctx, `
		SELECT v.faculty, v.gender, v.study_level
		FROM voter v
		JOIN voting_session s ON s.voter_id = v.id
		WHERE s.election_id = $1
	`, electionID)
	if err != nil {
		return nil, nil, nil, err
	}
	defer rows.Close()

	faculty, gender, level = map[string]int{}, map[string]int{}, map[string]int{}
	for rows.Next() {
		var f, g, l string
		if err := rows.Scan(&f, &g, &l); err != nil {
			return nil, nil, nil, err
		}
		faculty[orUnknown(f)]++
		gender[orUnknown(g)]++
		level[orUnknown(l)]++
	}

	return faculty, gender, level, rows.Err()
}

func orUnknown(s string) string {
	if s == "" {
		return "unknown"
	}
	return s
}

func pluralVotes(n int) string {
	if n == 1 {
		return "vote"
	}
	return "votes"
}
