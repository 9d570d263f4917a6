// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package handlers contains HTTP request handlers for the council voting API.

# Handler Types

Each handler is a struct with database and config dependencies:

  - ElectionHandler: elections, candidates, results and audit logs
  - VotingHandler: ballot submission, verification and receipts

	electionHandler := handlers.NewElectionHandler(db, cfg)

# Election Lifecycle

An election's status comes from its voting window: scheduled before
start_time, active until end_time, closed afterwards or once an admin
closes it early.

	POST /elections                          → CreateElection (returns admin_key)
	POST /elections/{id}/candidates          → AddCandidate (scheduled only)
	POST /elections/{id}/candidates/import   → ImportCandidates (CSV, scheduled only)
	POST /elections/{id}/close               → CloseElection
	GET  /elections/{id}/audit-logs          → ListAuditLogs

These require the X-Admin-Key header. Every admin action is written to the
audit log in the same transaction as the change.

# Voting Flow

	POST /vote              → SubmitVote
	POST /verify-vote       → VerifyVote
	GET  /receipts/{number} → GetReceipt

Voters are identified only by a keyed hash of their institutional email.
One ballot per voter per election; a second attempt gets 409.

# Results

	GET /elections/{id}/results → GetResults

Sealed with 403 until the election is closed. Each request recounts the
stored ballots with ComputeIRVResults, which reports first preferences for
every candidate, the per-round log and the winner.
*/
package handlers
