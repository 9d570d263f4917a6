// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/google/uuid"

	"github.com/danielhkuo/council-vote/auth"
	"github.com/danielhkuo/council-vote/ballot"
	"github.com/danielhkuo/council-vote/cliparse"
	"github.com/danielhkuo/council-vote/db"
	"github.com/danielhkuo/council-vote/middleware"
	"github.com/danielhkuo/council-vote/models"
)

var errAlreadyVoted = errors.New("already voted")

type VotingHandler struct {
	db  *sql.DB
	cfg cliparse.Config
}

func NewVotingHandler(db *sql.DB, cfg cliparse.Config) *VotingHandler {
	return &VotingHandler{db: db, cfg: cfg}
}

// castBallot is everything written for one accepted vote
type castBallot struct {
	electionID string
	title      string
	pseudonym  string
	traits     models.VoterTraits
	ranking    []string
	ipHash     string
	now        time.Time
}

// SubmitVote handles POST /vote
func (h *VotingHandler) SubmitVote(w http.ResponseWriter, r *http.Request) {
	var req models.SubmitVoteRequest
	if err := middleware.ParseJSONBody(r, &req); err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, "Invalid JSON")
		return
	}

	email, err := auth.NormalizeEmail(req.Email)
	if err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, "A valid email is required")
		return
	}
	if err := auth.ValidateEmailDomain(email, h.cfg.AllowedEmailDomain); err != nil {
		middleware.ErrorResponse(w, http.StatusForbidden, "Only @"+h.cfg.AllowedEmailDomain+" addresses may vote")
		return
	}
	if req.ElectionID == "" {
		middleware.ErrorResponse(w, http.StatusBadRequest, "election_id is required")
		return
	}

	ctx := r.Context()
	now := time.Now().UTC()

	election, err := db.GetElection(ctx, h.db, req.ElectionID, now)
	if errors.Is(err, db.ErrNotFound) {
		middleware.ErrorResponse(w, http.StatusNotFound, "Election not found")
		return
	}
	if err != nil {
		slog.Error("failed to query election", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return
	}

	switch election.Status {
	case models.StatusScheduled:
		middleware.ErrorResponse(w, http.StatusConflict, "Election has not started yet")
		return
	case models.StatusClosed:
		middleware.ErrorResponse(w, http.StatusConflict, "Election has ended")
		return
	}

	candidates, err := db.LoadCandidates(ctx, h.db, election.ID)
	if err != nil {
		slog.Error("failed to load candidates", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return
	}
	ids := make([]string, len(candidates))
	for i, c := range candidates {
		ids[i] = c.ID
	}

	ranking, err := ballot.FromPreferences(req.Preferences, ids)
	if err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, err.Error())
		return
	}

	cast := castBallot{
		electionID: election.ID,
		title:      election.Title,
		pseudonym:  auth.Pseudonym(email, h.cfg.PseudonymSalt),
		traits:     req.VoterTraits,
		ranking:    ranking,
		ipHash:     auth.HashIP(middleware.GetClientIP(r), h.cfg.AdminKeySalt),
		now:        now,
	}

	resp, err := h.record(ctx, cast)
	if errors.Is(err, errAlreadyVoted) {
		middleware.ErrorResponse(w, http.StatusConflict, "You have already voted in this election")
		return
	}
	if err != nil {
		slog.Error("failed to record vote", "error", err, "election_id", election.ID)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Failed to submit vote")
		return
	}

	slog.Info("vote submitted", "election_id", election.ID, "receipt_number", resp.ReceiptNumber)

	middleware.JSONResponse(w, http.StatusCreated, resp)
}

// record writes voter, session, vote, receipt and audit entry in one
// transaction
func (h *VotingHandler) record(ctx context.Context, cast castBallot) (models.SubmitVoteResponse, error) {
	tx, err := h.db.BeginTx(ctx, nil)
	if err != nil {
		return models.SubmitVoteResponse{}, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	voterID, err := upsertVoter(ctx, tx, cast.pseudonym, cast.traits)
	if err != nil {
		return models.SubmitVoteResponse{}, err
	}

	var prior int
	err = tx.QueryRowContext(ctx, `
		SELECT COUNT(*) FROM voting_session WHERE voter_id = $1 AND election_id = $2
	`, voterID, cast.electionID).Scan(&prior)
	if err != nil {
		return models.SubmitVoteResponse{}, fmt.Errorf("failed to check prior vote: %w", err)
	}
	if prior > 0 {
		return models.SubmitVoteResponse{}, errAlreadyVoted
	}

	var seq int
	err = tx.QueryRowContext(ctx, `
		SELECT COUNT(*) FROM voting_session WHERE election_id = $1
	`, cast.electionID).Scan(&seq)
	if err != nil {
		return models.SubmitVoteResponse{}, fmt.Errorf("failed to count ballots: %w", err)
	}
	seq++

	sessionID, err := auth.GenerateID(16)
	if err != nil {
		return models.SubmitVoteResponse{}, err
	}
	token, err := auth.GenerateSessionToken()
	if err != nil {
		return models.SubmitVoteResponse{}, err
	}
	code := auth.ConfirmationCode(token)

	_, err = tx.ExecContext(ctx, `
		INSERT INTO voting_session (id, session_token, confirmation_code, voter_id, election_id, voted_at)
		VALUES ($1, $2, $3, $4, $5, $6)
	`, sessionID, token, code, voterID, cast.electionID, cast.now)
	if err != nil {
		if isUniqueViolation(err) {
			return models.SubmitVoteResponse{}, errAlreadyVoted
		}
		return models.SubmitVoteResponse{}, fmt.Errorf("failed to insert voting session: %w", err)
	}

	prefs, err := json.Marshal(cast.ranking)
	if err != nil {
		return models.SubmitVoteResponse{}, fmt.Errorf("failed to encode preferences: %w", err)
	}
	digest := ballot.Digest(sessionID, cast.ranking)

	_, err = tx.ExecContext(ctx, `
		INSERT INTO vote (id, voting_session_id, preferences, vote_hash, submitted_at)
		VALUES ($1, $2, $3, $4, $5)
	`, uuid.NewString(), sessionID, string(prefs), digest, cast.now)
	if err != nil {
		return models.SubmitVoteResponse{}, fmt.Errorf("failed to insert vote: %w", err)
	}

	receiptNumber := auth.GenerateReceiptNumber(token, h.cfg.PseudonymSalt)
	_, err = tx.ExecContext(ctx, `
		INSERT INTO vote_receipt (id, voting_session_id, receipt_number, receipt_content, generated_at)
		VALUES ($1, $2, $3, $4, $5)
	`, uuid.NewString(), sessionID, receiptNumber, receiptText(receiptNumber, code, cast, digest, seq), cast.now)
	if err != nil {
		return models.SubmitVoteResponse{}, fmt.Errorf("failed to insert receipt: %w", err)
	}

	electionID := cast.electionID
	err = db.InsertAuditLog(ctx, tx, models.AuditLog{
		ActionType: models.ActionVoteSubmitted,
		ActorID:    "voter:" + cast.pseudonym,
		ElectionID: &electionID,
		Details:    json.RawMessage(fmt.Sprintf(`{"receipt_number":%q}`, receiptNumber)),
		IPHash:     &cast.ipHash,
		Timestamp:  cast.now,
	})
	if err != nil {
		return models.SubmitVoteResponse{}, err
	}

	if err := tx.Commit(); err != nil {
		if isUniqueViolation(err) {
			return models.SubmitVoteResponse{}, errAlreadyVoted
		}
		return models.SubmitVoteResponse{}, fmt.Errorf("failed to commit vote: %w", err)
	}

	return models.SubmitVoteResponse{
		Message:          "Vote submitted successfully",
		ConfirmationCode: code,
		ReceiptNumber:    receiptNumber,
		Timestamp:        cast.now,
	}, nil
}

// upsertVoter finds the voter behind a pseudonym, creating them on first
// vote. Traits are recorded once and never overwritten.
func upsertVoter(ctx context.Context, tx *sql.Tx, pseudonym string, traits models.VoterTraits) (string, error) {
	var voterID string
	err := tx.QueryRowContext(ctx, `
		SELECT id FROM voter WHERE pseudonym_id = $1
	`, pseudonym).Scan(&voterID)
	if err == nil {
		return voterID, nil
	}
	if !errors.Is(err, sql.ErrNoRows) {
		return "", fmt.Errorf("failed to query voter: %w", err)
	}

	voterID, err = auth.GenerateID(16)
	if err != nil {
		return "", err
	}
	_, err = tx.ExecContext(ctx, `
		INSERT INTO voter (id, pseudonym_id, faculty, gender, study_level, year_level)
		VALUES ($1, $2, $3, $4, $5, $6)
	`, voterID, pseudonym, strings.TrimSpace(traits.Faculty), strings.TrimSpace(traits.Gender),
		strings.TrimSpace(traits.StudyLevel), traits.YearLevel)
	if err != nil {
		if isUniqueViolation(err) {
			// Another request created this voter first. The session
			// constraint decides whether this vote may proceed.
			return "", errAlreadyVoted
		}
		return "", fmt.Errorf("failed to insert voter: %w", err)
	}

	return voterID, nil
}

func receiptText(number, code string, cast castBallot, digest string, seq int) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Vote receipt %s\n", number)
	fmt.Fprintf(&b, "Election: %s\n", cast.title)
	fmt.Fprintf(&b, "Confirmation code: %s\n", code)
	fmt.Fprintf(&b, "Recorded: %s\n", cast.now.Format("2 Jan 2006 15:04:05 MST"))
	fmt.Fprintf(&b, "Candidates ranked: %d\n", len(cast.ranking))
	fmt.Fprintf(&b, "Ballot fingerprint: %s\n", digest[:16])
	fmt.Fprintf(&b, "This was the %s ballot cast in this election.\n", humanize.Ordinal(seq))
	return b.String()
}

// VerifyVote handles POST /verify-vote
// Confirms a ballot was recorded without revealing its preferences.
func (h *VotingHandler) VerifyVote(w http.ResponseWriter, r *http.Request) {
	var req models.VerifyVoteRequest
	if err := middleware.ParseJSONBody(r, &req); err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, "Invalid JSON")
		return
	}

	code := strings.TrimSpace(req.ConfirmationCode)
	if len(code) != auth.ConfirmationCodeLen {
		middleware.ErrorResponse(w, http.StatusBadRequest, "confirmation_code must be 8 characters")
		return
	}

	resp := models.VerifyVoteResponse{Verified: true}
	err := h.db.QueryRowContext(r.Context(), `
		SELECT e.id, e.title, s.voted_at
		FROM voting_session s
		JOIN election e ON s.election_id = e.id
		JOIN vote v ON v.voting_session_id = s.id
		WHERE s.confirmation_code = $1
	`, code).Scan(&resp.ElectionID, &resp.ElectionTitle, &resp.VotedAt)
	if errors.Is(err, sql.ErrNoRows) {
		middleware.ErrorResponse(w, http.StatusNotFound, "No vote found for that confirmation code")
		return
	}
	if err != nil {
		slog.Error("failed to verify vote", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return
	}

	middleware.JSONResponse(w, http.StatusOK, resp)
}

// GetReceipt handles GET /receipts/{number}
func (h *VotingHandler) GetReceipt(w http.ResponseWriter, r *http.Request) {
	number := r.PathValue("number")
	if number == "" {
		middleware.ErrorResponse(w, http.StatusBadRequest, "receipt number is required")
		return
	}

	var receipt models.Receipt
	err := h.db.QueryRowContext(r.Context(), `
		SELECT vr.receipt_number, s.election_id, vr.receipt_content, vr.generated_at
		FROM vote_receipt vr
		JOIN voting_session s ON vr.voting_session_id = s.id
		WHERE vr.receipt_number = $1
	`, number).Scan(&receipt.Number, &receipt.ElectionID, &receipt.Content, &receipt.GeneratedAt)
	if errors.Is(err, sql.ErrNoRows) {
		middleware.ErrorResponse(w, http.StatusNotFound, "Receipt not found")
		return
	}
	if err != nil {
		slog.Error("failed to query receipt", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return
	}

	middleware.JSONResponse(w, http.StatusOK, receipt)
}
