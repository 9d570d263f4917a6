// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package models

import (
	"encoding/json"
	"time"
)

// Election status constants
const (
	StatusScheduled = "scheduled"
	StatusActive    = "active"
	StatusClosed    = "closed"
)

// Counting method constants
const (
	MethodIRV = "irv"
)

// Audit action constants
const (
	ActionElectionCreated    = "election_created"
	ActionCandidateAdded     = "candidate_added"
	ActionCandidatesImported = "candidates_imported"
	ActionElectionClosed     = "election_closed"
	ActionVoteSubmitted      = "vote_submitted"
)

// Request types

type CreateElectionRequest struct {
	Title       string    `json:"title"`
	Description string    `json:"description"`
	StartTime   time.Time `json:"start_time"`
	EndTime     time.Time `json:"end_time"`
}

type AddCandidateRequest struct {
	Name       string `json:"name"`
	Faculty    string `json:"faculty"`
	Manifesto  string `json:"manifesto"`
	ExternalID string `json:"external_id"`
}

type VoterTraits struct {
	Faculty    string `json:"faculty"`
	Gender     string `json:"gender"`
	StudyLevel string `json:"study_level"`
	YearLevel  int    `json:"year_level"`
}

// candidate_id -> rank (1 = most preferred)
type SubmitVoteRequest struct {
	Email       string         `json:"email"`
	ElectionID  string         `json:"election_id"`
	Preferences map[string]int `json:"preferences"`
	VoterTraits VoterTraits    `json:"voter_traits"`
}

type VerifyVoteRequest struct {
	ConfirmationCode string `json:"confirmation_code"`
}

// Response types

type CreateElectionResponse struct {
	ElectionID string `json:"election_id"`
	AdminKey   string `json:"admin_key"`
}

type AddCandidateResponse struct {
	CandidateID string `json:"candidate_id"`
}

type ImportCandidatesResponse struct {
	Imported     int      `json:"imported"`
	CandidateIDs []string `json:"candidate_ids"`
}

type SubmitVoteResponse struct {
	Message          string    `json:"message"`
	ConfirmationCode string    `json:"confirmation_code"`
	ReceiptNumber    string    `json:"receipt_number"`
	Timestamp        time.Time `json:"timestamp"`
}

type VerifyVoteResponse struct {
	Verified      bool      `json:"verified"`
	ElectionID    string    `json:"election_id"`
	ElectionTitle string    `json:"election_title"`
	VotedAt       time.Time `json:"voted_at"`
}

type CloseElectionResponse struct {
	ClosedAt time.Time `json:"closed_at"`
}

// Domain types

type Election struct {
	ID          string     `json:"id"`
	Title       string     `json:"title"`
	Description string     `json:"description"`
	StartTime   time.Time  `json:"start_time"`
	EndTime     time.Time  `json:"end_time"`
	ClosedAt    *time.Time `json:"closed_at,omitempty"`
	CreatedAt   time.Time  `json:"created_at"`
	Status      string     `json:"status"`
}

// StatusAt derives the election status from its voting window.
// An election closed early by an admin stays closed.
func (e Election) StatusAt(now time.Time) string {
	switch {
	case e.ClosedAt != nil:
		return StatusClosed
	case now.Before(e.StartTime):
		return StatusScheduled
	case now.After(e.EndTime):
		return StatusClosed
	default:
		return StatusActive
	}
}

type Candidate struct {
	ID         string `json:"id"`
	ElectionID string `json:"election_id"`
	Name       string `json:"name"`
	Faculty    string `json:"faculty,omitempty"`
	Manifesto  string `json:"manifesto,omitempty"`
	ExternalID string `json:"external_id,omitempty"`
}

type ElectionWithCandidates struct {
	Election   Election    `json:"election"`
	Candidates []Candidate `json:"candidates"`
}

type Receipt struct {
	Number      string    `json:"receipt_number"`
	ElectionID  string    `json:"election_id"`
	Content     string    `json:"content"`
	GeneratedAt time.Time `json:"generated_at"`
}

type AuditLog struct {
	ID         string          `json:"id"`
	ActionType string          `json:"action_type"`
	ActorID    string          `json:"actor_id"`
	ElectionID *string         `json:"election_id,omitempty"`
	Details    json.RawMessage `json:"details,omitempty"`
	IPHash     *string         `json:"-"` // Never expose in JSON
	Timestamp  time.Time       `json:"timestamp"`
}

// IRV Result Types

type TallyRound struct {
	Round      int            `json:"round"`
	Counts     map[string]int `json:"counts"`
	Total      int            `json:"total"`
	Eliminated []string       `json:"eliminated"`
	Exhausted  int            `json:"exhausted"`
}

type ElectionResults struct {
	ElectionID          string         `json:"election_id"`
	Title               string         `json:"title"`
	Method              string         `json:"method"`
	Status              string         `json:"status"`
	TotalVotes          int            `json:"total_votes"`
	TotalVotesText      string         `json:"total_votes_text"`
	TurnoutByFaculty    map[string]int `json:"turnout_by_faculty"`
	TurnoutByGender     map[string]int `json:"turnout_by_gender"`
	TurnoutByStudyLevel map[string]int `json:"turnout_by_study_level"`
	VoteCounts          map[string]int `json:"vote_counts"` // first preferences by candidate_id
	Candidates          []Candidate    `json:"candidates"`
	Winner              *Candidate     `json:"winner"`
	TieBreak            bool           `json:"tie_break"`
	Rounds              []TallyRound   `json:"rounds"`
	ComputedAt          time.Time      `json:"computed_at"`
}

// Error response

type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
}
