// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/danielhkuo/council-vote/db"
	"github.com/danielhkuo/council-vote/middleware"
	"github.com/danielhkuo/council-vote/models"
)

const (
	defaultAuditLimit = 50
	maxAuditLimit     = 500
)

// GetResults handles GET /elections/{id}/results
// Returns 403 while voting is open. Results are recounted on every call.
func (h *ElectionHandler) GetResults(w http.ResponseWriter, r *http.Request) {
	election, ok := h.loadElection(w, r)
	if !ok {
		return
	}

	if election.Status != models.StatusClosed {
		middleware.ErrorResponse(w, http.StatusForbidden, "Results are sealed until the election closes")
		return
	}

	results, err := ComputeIRVResults(r.Context(), h.db, election)
	if err != nil {
		slog.Error("failed to compute results", "error", err, "election_id", election.ID)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Failed to compute results")
		return
	}

	winnerID := ""
	if results.Winner != nil {
		winnerID = results.Winner.ID
	}
	slog.Info("results computed",
		"election_id", election.ID,
		"total_votes", results.TotalVotes,
		"rounds", len(results.Rounds),
		"winner", winnerID,
		"tie_break", results.TieBreak,
	)

	middleware.JSONResponse(w, http.StatusOK, results)
}

// ListAuditLogs handles GET /elections/{id}/audit-logs?limit=N
func (h *ElectionHandler) ListAuditLogs(w http.ResponseWriter, r *http.Request) {
	electionID, ok := h.requireAdmin(w, r)
	if !ok {
		return
	}

	limit := defaultAuditLimit
	if raw := r.URL.Query().Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 1 {
			middleware.ErrorResponse(w, http.StatusBadRequest, "limit must be a positive integer")
			return
		}
		limit = min(n, maxAuditLimit)
	}

	ctx := r.Context()
	if _, err := db.GetElection(ctx, h.db, electionID, time.Now().UTC()); errors.Is(err, db.ErrNotFound) {
		middleware.ErrorResponse(w, http.StatusNotFound, "Election not found")
		return
	} else if err != nil {
		slog.Error("failed to query election", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return
	}

	logs, err := db.ListAuditLogs(ctx, h.db, electionID, limit)
	if err != nil {
		slog.Error("failed to list audit logs", "error", err, "election_id", electionID)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return
	}

	middleware.JSONResponse(w, http.StatusOK, logs)
}
