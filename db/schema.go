// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package db

import (
	"database/sql"
	"fmt"
)

// CreateSchema creates all tables needed for the application.
// Safe to call multiple times - uses IF NOT EXISTS.
// The statements are valid for both PostgreSQL and SQLite.
func CreateSchema(db *sql.DB) error {
	_, err := db.Exec(schema)
	if err != nil {
		return fmt.Errorf("failed to create schema: %w", err)
	}

	return nil
}

const schema = `
-- Elections
CREATE TABLE IF NOT EXISTS election (
    id TEXT PRIMARY KEY,
    title TEXT NOT NULL,
    description TEXT NOT NULL DEFAULT '',
    start_time TIMESTAMP NOT NULL,
    end_time TIMESTAMP NOT NULL,
    closed_at TIMESTAMP,
    created_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
);

-- Candidates
CREATE TABLE IF NOT EXISTS candidate (
    id TEXT PRIMARY KEY,
    election_id TEXT NOT NULL REFERENCES election(id) ON DELETE CASCADE,
    name TEXT NOT NULL,
    faculty TEXT NOT NULL DEFAULT '',
    manifesto TEXT NOT NULL DEFAULT '',
    external_id TEXT,
    UNIQUE (election_id, external_id)
);

CREATE INDEX IF NOT EXISTS idx_candidate_election_id ON candidate(election_id);

-- Voters (pseudonymous, no email stored)
CREATE TABLE IF NOT EXISTS voter (
    id TEXT PRIMARY KEY,
    pseudonym_id TEXT NOT NULL UNIQUE,
    faculty TEXT NOT NULL DEFAULT '',
    gender TEXT NOT NULL DEFAULT '',
    study_level TEXT NOT NULL DEFAULT '',
    year_level INTEGER NOT NULL DEFAULT 0
);

-- Voting Sessions (one per voter per election)
CREATE TABLE IF NOT EXISTS voting_session (
    id TEXT PRIMARY KEY,
    session_token TEXT NOT NULL UNIQUE,
    confirmation_code TEXT NOT NULL UNIQUE,
    voter_id TEXT NOT NULL REFERENCES voter(id) ON DELETE CASCADE,
    election_id TEXT NOT NULL REFERENCES election(id) ON DELETE CASCADE,
    voted_at TIMESTAMP NOT NULL,
    UNIQUE (voter_id, election_id)
);

CREATE INDEX IF NOT EXISTS idx_voting_session_election_id ON voting_session(election_id);

-- Votes (preferences is a JSON array of candidate ids, most preferred first)
CREATE TABLE IF NOT EXISTS vote (
    id TEXT PRIMARY KEY,
    voting_session_id TEXT NOT NULL UNIQUE REFERENCES voting_session(id) ON DELETE CASCADE,
    preferences TEXT NOT NULL,
    vote_hash TEXT NOT NULL,
    submitted_at TIMESTAMP NOT NULL
);

-- Receipts
CREATE TABLE IF NOT EXISTS vote_receipt (
    id TEXT PRIMARY KEY,
    voting_session_id TEXT NOT NULL REFERENCES voting_session(id) ON DELETE CASCADE,
    receipt_number TEXT NOT NULL UNIQUE,
    receipt_content TEXT NOT NULL,
    generated_at TIMESTAMP NOT NULL
);

-- Audit Log
CREATE TABLE IF NOT EXISTS audit_log (
    id TEXT PRIMARY KEY,
    action_type TEXT NOT NULL,
    actor_id TEXT NOT NULL,
    election_id TEXT,
    details TEXT NOT NULL DEFAULT '{}',
    ip_hash TEXT,
    logged_at TIMESTAMP NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_audit_log_election_id ON audit_log(election_id);
`
