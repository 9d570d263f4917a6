// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"

	"github.com/danielhkuo/council-vote/middleware"
	"github.com/danielhkuo/council-vote/models"
)

const maxImportRows = 500

var errNoNameColumn = errors.New("header must include a name column")

// ImportCandidates handles POST /elections/{id}/candidates/import
//
// The body is CSV with a header row. Recognised columns are name, faculty,
// manifesto and external_id, in any order. The import is all or nothing.
func (h *ElectionHandler) ImportCandidates(w http.ResponseWriter, r *http.Request) {
	electionID, ok := h.requireAdmin(w, r)
	if !ok {
		return
	}

	defer r.Body.Close()
	reqs, err := parseCandidateCSV(http.MaxBytesReader(w, r.Body, middleware.MaxBodyBytes))
	if err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, err.Error())
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

	ids := make([]string, 0, len(reqs))
	for _, req := range reqs {
		id, err := insertCandidate(ctx, tx, electionID, req)
		if err != nil {
			h.candidateInsertError(w, err)
			return
		}
		ids = append(ids, id)
	}

	if err := h.audit(ctx, tx, r, models.ActionCandidatesImported, electionID, map[string]any{
		"count":         len(ids),
		"candidate_ids": ids,
	}); err != nil {
		slog.Error("failed to audit import", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Failed to import candidates")
		return
	}

	if err := tx.Commit(); err != nil {
		slog.Error("failed to commit import", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Failed to import candidates")
		return
	}

	slog.Info("candidates imported", "election_id", electionID, "count", len(ids))

	middleware.JSONResponse(w, http.StatusCreated, models.ImportCandidatesResponse{
		Imported:     len(ids),
		CandidateIDs: ids,
	})
}

// parseCandidateCSV reads and validates every row before anything is
// written.
func parseCandidateCSV(r io.Reader) ([]models.AddCandidateRequest, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	cr.TrimLeadingSpace = true

	header, err := cr.Read()
	if errors.Is(err, io.EOF) {
		return nil, errors.New("CSV is empty")
	}
	if err != nil {
		return nil, fmt.Errorf("invalid CSV: %w", err)
	}

	cols := map[string]int{}
	for i, name := range header {
		cols[strings.ToLower(strings.TrimSpace(name))] = i
	}
	if _, ok := cols["name"]; !ok {
		return nil, errNoNameColumn
	}

	field := func(record []string, col string) string {
		i, ok := cols[col]
		if !ok || i >= len(record) {
			return ""
		}
		return record[i]
	}

	var reqs []models.AddCandidateRequest
	seen := map[string]int{}
	for line := 2; ; line++ {
		record, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("invalid CSV: %w", err)
		}

		req := models.AddCandidateRequest{
			Name:       field(record, "name"),
			Faculty:    field(record, "faculty"),
			Manifesto:  field(record, "manifesto"),
			ExternalID: field(record, "external_id"),
		}
		if msg := validateCandidate(&req); msg != "" {
			return nil, fmt.Errorf("row %d: %s", line, msg)
		}
		if req.ExternalID != "" {
			if prev, dup := seen[req.ExternalID]; dup {
				return nil, fmt.Errorf("row %d: external_id %q repeats row %d", line, req.ExternalID, prev)
			}
			seen[req.ExternalID] = line
		}

		reqs = append(reqs, req)
		if len(reqs) > maxImportRows {
			return nil, fmt.Errorf("at most %d candidates per import", maxImportRows)
		}
	}

	if len(reqs) == 0 {
		return nil, errors.New("CSV has no candidate rows")
	}

	return reqs, nil
}
