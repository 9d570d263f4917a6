// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/danielhkuo/council-vote/auth"
	"github.com/danielhkuo/council-vote/cliparse"
	"github.com/danielhkuo/council-vote/db"
	"github.com/danielhkuo/council-vote/middleware"
	"github.com/danielhkuo/council-vote/models"
)

const (
	maxTitleLen     = 200
	maxNameLen      = 120
	maxManifestoLen = 5000
)

type ElectionHandler struct {
	db  *sql.DB
	cfg cliparse.Config
}

func NewElectionHandler(db *sql.DB, cfg cliparse.Config) *ElectionHandler {
	return &ElectionHandler{db: db, cfg: cfg}
}

// CreateElection handles POST /elections
func (h *ElectionHandler) CreateElection(w http.ResponseWriter, r *http.Request) {
	var req models.CreateElectionRequest
	if err := middleware.ParseJSONBody(r, &req); err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, "Invalid JSON")
		return
	}

	req.Title = strings.TrimSpace(req.Title)
	if req.Title == "" {
		middleware.ErrorResponse(w, http.StatusBadRequest, "title is required")
		return
	}
	if len(req.Title) > maxTitleLen {
		middleware.ErrorResponse(w, http.StatusBadRequest, "title is too long")
		return
	}
	if req.StartTime.IsZero() || req.EndTime.IsZero() {
		middleware.ErrorResponse(w, http.StatusBadRequest, "start_time and end_time are required")
		return
	}
	if !req.EndTime.After(req.StartTime) {
		middleware.ErrorResponse(w, http.StatusBadRequest, "end_time must be after start_time")
		return
	}

	electionID, err := auth.GenerateID(16)
	if err != nil {
		slog.Error("failed to generate election ID", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Failed to create election")
		return
	}
	adminKey := auth.GenerateAdminKey(electionID, h.cfg.AdminKeySalt)

	ctx := r.Context()
	tx, err := h.db.BeginTx(ctx, nil)
	if err != nil {
		slog.Error("failed to begin transaction", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx, `
		INSERT INTO election (id, title, description, start_time, end_time, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)
	`, electionID, req.Title, req.Description, req.StartTime.UTC(), req.EndTime.UTC(), time.Now().UTC())
	if err != nil {
		slog.Error("failed to insert election", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Failed to create election")
		return
	}

	if err := h.audit(ctx, tx, r, models.ActionElectionCreated, electionID, map[string]any{
		"title":      req.Title,
		"start_time": req.StartTime.UTC(),
		"end_time":   req.EndTime.UTC(),
	}); err != nil {
		slog.Error("failed to audit election creation", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Failed to create election")
		return
	}

	if err := tx.Commit(); err != nil {
		slog.Error("failed to commit election", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Failed to create election")
		return
	}

	slog.Info("election created", "election_id", electionID, "title", req.Title)

	middleware.JSONResponse(w, http.StatusCreated, models.CreateElectionResponse{
		ElectionID: electionID,
		AdminKey:   adminKey,
	})
}

// ListElections handles GET /elections
func (h *ElectionHandler) ListElections(w http.ResponseWriter, r *http.Request) {
	elections, err := db.ListElections(r.Context(), h.db, time.Now().UTC())
	if err != nil {
		slog.Error("failed to list elections", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return
	}

	middleware.JSONResponse(w, http.StatusOK, elections)
}

// GetElection handles GET /elections/{id}
func (h *ElectionHandler) GetElection(w http.ResponseWriter, r *http.Request) {
	election, ok := h.loadElection(w, r)
	if !ok {
		return
	}

	candidates, err := db.LoadCandidates(r.Context(), h.db, election.ID)
	if err != nil {
		slog.Error("failed to load candidates", "error", err, "election_id", election.ID)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return
	}

	middleware.JSONResponse(w, http.StatusOK, models.ElectionWithCandidates{
		Election:   election,
		Candidates: candidates,
	})
}

// GetCandidates handles GET /elections/{id}/candidates
func (h *ElectionHandler) GetCandidates(w http.ResponseWriter, r *http.Request) {
	election, ok := h.loadElection(w, r)
	if !ok {
		return
	}

	candidates, err := db.LoadCandidates(r.Context(), h.db, election.ID)
	if err != nil {
		slog.Error("failed to load candidates", "error", err, "election_id", election.ID)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return
	}

	middleware.JSONResponse(w, http.StatusOK, candidates)
}

// AddCandidate handles POST /elections/{id}/candidates
func (h *ElectionHandler) AddCandidate(w http.ResponseWriter, r *http.Request) {
	electionID, ok := h.requireAdmin(w, r)
	if !ok {
		return
	}

	var req models.AddCandidateRequest
	if err := middleware.ParseJSONBody(r, &req); err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, "Invalid JSON")
		return
	}
	if msg := validateCandidate(&req); msg != "" {
		middleware.ErrorResponse(w, http.StatusBadRequest, msg)
		return
	}

	ctx := r.Context()
	tx, err := h.db.BeginTx(ctx, nil)
	if err != nil {
		slog.Error("failed to begin transaction", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return
	}
	defer tx.Rollback()

	if !h.requireScheduled(ctx, w, tx, electionID) {
		return
	}

	candidateID, err := insertCandidate(ctx, tx, electionID, req)
	if err != nil {
		h.candidateInsertError(w, err)
		return
	}

	if err := h.audit(ctx, tx, r, models.ActionCandidateAdded, electionID, map[string]any{
		"candidate_id": candidateID,
		"name":         req.Name,
	}); err != nil {
		slog.Error("failed to audit candidate", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Failed to add candidate")
		return
	}

	if err := tx.Commit(); err != nil {
		slog.Error("failed to commit candidate", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Failed to add candidate")
		return
	}

	slog.Info("candidate added", "election_id", electionID, "candidate_id", candidateID)

	middleware.JSONResponse(w, http.StatusCreated, models.AddCandidateResponse{
		CandidateID: candidateID,
	})
}

// CloseElection handles POST /elections/{id}/close
// Voting ends immediately and results become visible.
func (h *ElectionHandler) CloseElection(w http.ResponseWriter, r *http.Request) {
	electionID, ok := h.requireAdmin(w, r)
	if !ok {
		return
	}

	ctx := r.Context()
	tx, err := h.db.BeginTx(ctx, nil)
	if err != nil {
		slog.Error("failed to begin transaction", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return
	}
	defer tx.Rollback()

	now := time.Now().UTC()
	election, err := db.GetElection(ctx, tx, electionID, now)
	if errors.Is(err, db.ErrNotFound) {
		middleware.ErrorResponse(w, http.StatusNotFound, "Election not found")
		return
	}
	if err != nil {
		slog.Error("failed to query election", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return
	}
	if election.ClosedAt != nil {
		middleware.ErrorResponse(w, http.StatusConflict, "Election already closed")
		return
	}

	// An election past its end time is closed at its end time so the
	// recorded window matches what voters saw.
	closedAt := now
	if election.EndTime.Before(now) {
		closedAt = election.EndTime.UTC()
	}

	_, err = tx.ExecContext(ctx, `
		UPDATE election SET closed_at = $1 WHERE id = $2 AND closed_at IS NULL
	`, closedAt, electionID)
	if err != nil {
		slog.Error("failed to close election", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Failed to close election")
		return
	}

	if err := h.audit(ctx, tx, r, models.ActionElectionClosed, electionID, map[string]any{
		"closed_at": closedAt,
	}); err != nil {
		slog.Error("failed to audit close", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Failed to close election")
		return
	}

	if err := tx.Commit(); err != nil {
		slog.Error("failed to commit close", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Failed to close election")
		return
	}

	slog.Info("election closed", "election_id", electionID, "closed_at", closedAt)

	middleware.JSONResponse(w, http.StatusOK, models.CloseElectionResponse{
		ClosedAt: closedAt,
	})
}

// loadElection reads {id} and writes the error response itself when the
// election cannot be loaded.
func (h *ElectionHandler) loadElection(w http.ResponseWriter, r *http.Request) (models.Election, bool) {
	electionID := r.PathValue("id")
	if electionID == "" {
		middleware.ErrorResponse(w, http.StatusBadRequest, "election_id is required")
		return models.Election{}, false
	}

	election, err := db.GetElection(r.Context(), h.db, electionID, time.Now().UTC())
	if errors.Is(err, db.ErrNotFound) {
		middleware.ErrorResponse(w, http.StatusNotFound, "Election not found")
		return models.Election{}, false
	}
	if err != nil {
		slog.Error("failed to query election", "error", err, "election_id", electionID)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return models.Election{}, false
	}

	return election, true
}

func (h *ElectionHandler) requireAdmin(w http.ResponseWriter, r *http.Request) (string, bool) {
	electionID := r.PathValue("id")
	if electionID == "" {
		middleware.ErrorResponse(w, http.StatusBadRequest, "election_id is required")
		return "", false
	}

	adminKey := r.Header.Get("X-Admin-Key")
	if err := auth.ValidateAdminKey(electionID, adminKey, h.cfg.AdminKeySalt); err != nil {
		middleware.ErrorResponse(w, http.StatusUnauthorized, "Invalid admin key")
		return "", false
	}

	return electionID, true
}

// requireScheduled rejects candidate changes once voting has opened
func (h *ElectionHandler) requireScheduled(ctx context.Context, w http.ResponseWriter, q db.Querier, electionID string) bool {
	election, err := db.GetElection(ctx, q, electionID, time.Now().UTC())
	if errors.Is(err, db.ErrNotFound) {
		middleware.ErrorResponse(w, http.StatusNotFound, "Election not found")
		return false
	}
	if err != nil {
		slog.Error("failed to query election", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return false
	}

	if election.Status != models.StatusScheduled {
		middleware.ErrorResponse(w, http.StatusConflict, "Candidates cannot change after voting has started")
		return false
	}

	return true
}

func (h *ElectionHandler) audit(ctx context.Context, q db.Querier, r *http.Request, action, electionID string, details map[string]any) error {
	raw, err := json.Marshal(details)
	if err != nil {
		return err
	}

	ipHash := auth.HashIP(middleware.GetClientIP(r), h.cfg.AdminKeySalt)
	return db.InsertAuditLog(ctx, q, models.AuditLog{
		ActionType: action,
		ActorID:    "admin:" + electionID,
		ElectionID: &electionID,
		Details:    raw,
		IPHash:     &ipHash,
	})
}

func (h *ElectionHandler) candidateInsertError(w http.ResponseWriter, err error) {
	if isUniqueViolation(err) {
		middleware.ErrorResponse(w, http.StatusConflict, "Candidate external_id already exists")
		return
	}
	slog.Error("failed to insert candidate", "error", err)
	middleware.ErrorResponse(w, http.StatusInternalServerError, "Failed to add candidate")
}

// validateCandidate trims the request in place and returns a message for
// the first problem found.
func validateCandidate(req *models.AddCandidateRequest) string {
	req.Name = strings.TrimSpace(req.Name)
	req.Faculty = strings.TrimSpace(req.Faculty)
	req.ExternalID = strings.TrimSpace(req.ExternalID)

	switch {
	case req.Name == "":
		return "name is required"
	case len(req.Name) > maxNameLen:
		return "name is too long"
	case len(req.Manifesto) > maxManifestoLen:
		return "manifesto is too long"
	}
	return ""
}

func insertCandidate(ctx context.Context, q db.Querier, electionID string, req models.AddCandidateRequest) (string, error) {
	candidateID, err := auth.GenerateID(12)
	if err != nil {
		return "", err
	}

	var externalID *string
	if req.ExternalID != "" {
		externalID = &req.ExternalID
	}

	_, err = q.ExecContext(ctx, `
		INSERT INTO candidate (id, election_id, name, faculty, manifesto, external_id)
		VALUES ($1, $2, $3, $4, $5, $6)
	`, candidateID, electionID, req.Name, req.Faculty, req.Manifesto, externalID)
	if err != nil {
		return "", err
	}

	return candidateID, nil
}

// isUniqueViolation matches the constraint errors of both drivers
func isUniqueViolation(err error) bool {
	msg := err.Error()
	return strings.Contains(msg, "UNIQUE constraint failed") ||
		strings.Contains(msg, "duplicate key value violates unique constraint")
}
