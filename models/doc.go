// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package models defines request, response, and domain types for the API.

# Request Types

Types for parsing incoming JSON:

  - CreateElectionRequest: title, description, start_time, end_time
  - AddCandidateRequest: name, faculty, manifesto, external_id
  - SubmitVoteRequest: email, election_id, preferences, voter_traits
  - VerifyVoteRequest: confirmation_code

Preferences map candidate IDs to ranks, 1 being most preferred:

	{"c1": 1, "c2": 3, "c3": 2}

# Response Types

Types for JSON responses:

  - CreateElectionResponse: election_id, admin_key
  - AddCandidateResponse: candidate_id
  - ImportCandidatesResponse: imported, candidate_ids
  - SubmitVoteResponse: confirmation_code, receipt_number, timestamp
  - VerifyVoteResponse: election, voted_at
  - CloseElectionResponse: closed_at
  - ErrorResponse: error, message

# Domain Types

  - Election: voting window and status
  - Candidate: a person standing in one election
  - Receipt: text receipt for a submitted vote
  - AuditLog: record of an admin action or vote submission
  - ElectionResults: turnout, first preferences and the IRV outcome
  - TallyRound: one IRV elimination round

# Constants

Status values:

	StatusScheduled = "scheduled"
	StatusActive    = "active"
	StatusClosed    = "closed"

Counting method:

	MethodIRV = "irv"
*/
package models
