// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package db handles database connections, schema creation, and the shared
queries behind elections, ballots, and audit logs.

# Connections

Open picks the driver from the configured database type:

	conn, err := db.Open(cfg.DatabaseType, cfg.DatabaseURL)

"postgres" uses lib/pq, "sqlite" (the default) uses the pure-Go
modernc.org/sqlite driver.

# Schema Creation

CreateSchema initializes all required tables:

	if err := db.CreateSchema(conn); err != nil {
		log.Fatal(err)
	}

Safe to call multiple times - uses IF NOT EXISTS for all tables and indexes.
The same statements run on both PostgreSQL and SQLite.

# Tables

  - election: Title and voting window
  - candidate: Candidates per election
  - voter: Pseudonymous voters with demographic traits
  - voting_session: One per voter per election, holds the session token
  - vote: Ranked preferences as a JSON array
  - vote_receipt: Text receipts handed back to voters
  - audit_log: Admin actions and vote submissions

# Relationships

	election 1──* candidate
	election 1──* voting_session
	voter    1──* voting_session
	voting_session 1──1 vote
	voting_session 1──* vote_receipt

# Queries

Ballots and candidates are loaded as plain values for the IRV count:

	ballots, err := db.LoadBallots(ctx, conn, electionID)     // [][]string
	candidates, err := db.LoadCandidates(ctx, conn, electionID)

All query helpers take a Querier, so they work inside transactions too.
*/
package db
