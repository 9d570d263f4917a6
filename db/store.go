// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package db

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/danielhkuo/council-vote/models"
)

var ErrNotFound = errors.New("not found")

// Querier is satisfied by both *sql.DB and *sql.Tx
type Querier interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

// GetElection loads one election and derives its status at now
func GetElection(ctx context.Context, q Querier, electionID string, now time.Time) (models.Election, error) {
	var e models.Election
	err := q.QueryRowContext(ctx, `
		SELECT id, title, description, start_time, end_time, closed_at, created_at
		FROM election
		WHERE id = $1
	`, electionID).Scan(
		&e.ID, &e.Title, &e.Description, &e.StartTime,
		&e.EndTime, &e.ClosedAt, &e.CreatedAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return models.Election{}, ErrNotFound
	}
	if err != nil {
		return models.Election{}, fmt.Errorf("failed to query election: %w", err)
	}

	e.Status = e.StatusAt(now)
	return e, nil
}

// ListElections returns every election, newest first
func ListElections(ctx context.Context, q Querier, now time.Time) ([]models.Election, error) {
	rows, err := q.QueryContext(ctx, `
		SELECT id, title, description, start_time, end_time, closed_at, created_at
		FROM election
		ORDER BY created_at DESC, id
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to query elections: %w", err)
	}
	defer rows.Close()

	elections := []models.Election{}
	for rows.Next() {
		var e models.Election
		if err := rows.Scan(
			&e.ID, &e.Title, &e.Description, &e.StartTime,
			&e.EndTime, &e.ClosedAt, &e.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan election: %w", err)
		}
		e.Status = e.StatusAt(now)
		elections = append(elections, e)
	}

	return elections, rows.Err()
}

// LoadCandidates is the candidate registry for an election, ordered by ID
func LoadCandidates(ctx context.Context, q Querier, electionID string) ([]models.Candidate, error) {
	rows, err := q.QueryContext(ctx, `
		SELECT id, election_id, name, faculty, manifesto, external_id
		FROM candidate
		WHERE election_id = $1
		ORDER BY id
	`, electionID)
	if err != nil {
		return nil, fmt.Errorf("failed to query candidates: %w", err)
	}
	defer rows.Close()

	candidates := []models.Candidate{}
	for rows.Next() {
		var c models.Candidate
		var externalID sql.NullString
		if err := rows.Scan(&c.ID, &c.ElectionID, &c.Name, &c.Faculty, &c.Manifesto, &externalID); err != nil {
			return nil, fmt.Errorf("failed to scan candidate: %w", err)
		}
		c.ExternalID = externalID.String
		candidates = append(candidates, c)
	}

	return candidates, rows.Err()
}

// LoadBallots is the ballot store for an election: every submitted
// ranking, most preferred candidate first
func LoadBallots(ctx context.Context, q Querier, electionID string) ([][]string, error) {
	rows, err := q.QueryContext(ctx, `
		SELECT v.preferences
		FROM vote v
		JOIN voting_session s ON v.voting_session_id = s.id
		WHERE s.election_id = $1
		ORDER BY v.id
	`, electionID)
	if err != nil {
		return nil, fmt.Errorf("failed to query ballots: %w", err)
	}
	defer rows.Close()

	ballots := [][]string{}
	for rows.Next() {
		var raw string
		if err := rows.Scan(&raw); err != nil {
			return nil, fmt.Errorf("failed to scan ballot: %w", err)
		}

		var ranking []string
		if err := json.Unmarshal([]byte(raw), &ranking); err != nil {
			return nil, fmt.Errorf("failed to decode ballot: %w", err)
		}
		ballots = append(ballots, ranking)
	}

	return ballots, rows.Err()
}

// InsertAuditLog records an admin action or vote submission.
// ID and Timestamp are filled in when empty.
func InsertAuditLog(ctx context.Context, q Querier, entry models.AuditLog) error {
	if entry.ID == "" {
		entry.ID = uuid.NewString()
	}
	if entry.Timestamp.IsZero() {
		entry.Timestamp = time.Now().UTC()
	}
	details := string(entry.Details)
	if details == "" {
		details = "{}"
	}

	_, err := q.ExecContext(ctx, `
		INSERT INTO audit_log (id, action_type, actor_id, election_id, details, ip_hash, logged_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`, entry.ID, entry.ActionType, entry.ActorID, entry.ElectionID, details, entry.IPHash, entry.Timestamp)
	if err != nil {
		return fmt.Errorf("failed to insert audit log: %w", err)
	}

	return nil
}

// ListAuditLogs returns the newest entries for an election
func ListAuditLogs(ctx context.Context, q Querier, electionID string, limit int) ([]models.AuditLog, error) {
	rows, err := q.QueryContext(ctx, `
		SELECT id, action_type, actor_id, election_id, details, logged_at
		FROM audit_log
		WHERE election_id = $1
		ORDER BY logged_at DESC, id
		LIMIT $2
	`, electionID, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query audit logs: %w", err)
	}
	defer rows.Close()

	logs := []models.AuditLog{}
	for rows.Next() {
		var l models.AuditLog
		var details string
		if err := rows.Scan(&l.ID, &l.ActionType, &l.ActorID, &l.ElectionID, &details, &l.Timestamp); err != nil {
			return nil, fmt.Errorf("failed to scan audit log: %w", err)
		}
		l.Details = json.RawMessage(details)
		logs = append(logs, l)
	}

	return logs, rows.Err()
}
