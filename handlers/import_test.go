// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/danielhkuo/council-vote/models"
	"github.com/danielhkuo/council-vote/testutil"
)

func TestParseCandidateCSV(t *testing.T) {
	t.Run("columns in any order", func(t *testing.T) {
		csv := "external_id,name,faculty\nS1,Alice,Arts\nS2,  Bob ,Science\n"
		reqs, err := parseCandidateCSV(strings.NewReader(csv))
		if err != nil {
			t.Fatalf("Unexpected error: %v", err)
		}
		if len(reqs) != 2 {
			t.Fatalf("Expected 2 rows, got %d", len(reqs))
		}
		if reqs[1].Name != "Bob" || reqs[1].ExternalID != "S2" || reqs[1].Faculty != "Science" {
			t.Errorf("Unexpected second row: %+v", reqs[1])
		}
	})

	t.Run("quoted manifesto", func(t *testing.T) {
		csv := "name,manifesto\nAlice,\"Free coffee, longer library hours\"\n"
		reqs, err := parseCandidateCSV(strings.NewReader(csv))
		if err != nil {
			t.Fatalf("Unexpected error: %v", err)
		}
		if reqs[0].Manifesto != "Free coffee, longer library hours" {
			t.Errorf("Unexpected manifesto %q", reqs[0].Manifesto)
		}
	})

	errCases := []struct {
		name string
		csv  string
	}{
		{"empty", ""},
		{"header only", "name,faculty\n"},
		{"no name column", "faculty\nArts\n"},
		{"blank name", "name,faculty\n,Arts\n"},
		{"repeated external id", "name,external_id\nAlice,S1\nBob,S1\n"},
	}
	for _, tc := range errCases {
		t.Run(tc.name, func(t *testing.T) {
			if _, err := parseCandidateCSV(strings.NewReader(tc.csv)); err == nil {
				t.Error("Expected an error")
			}
		})
	}

	t.Run("missing name column sentinel", func(t *testing.T) {
		_, err := parseCandidateCSV(strings.NewReader("faculty\nArts\n"))
		if !errors.Is(err, errNoNameColumn) {
			t.Errorf("Expected errNoNameColumn, got %v", err)
		}
	})
}

func TestImportCandidates(t *testing.T) {
	conn := testutil.SetupTestDB(t)
	defer conn.Close()

	cfg := testutil.GetTestConfig()
	handler := NewElectionHandler(conn, cfg)

	scheduledID, scheduledKey := testutil.CreateTestElection(t, conn, cfg, models.StatusScheduled)
	activeID, activeKey := testutil.CreateTestElection(t, conn, cfg, models.StatusActive)

	importReq := func(id, key, body string) *httptest.ResponseRecorder {
		req := httptest.NewRequest("POST", "/elections/"+id+"/candidates/import", strings.NewReader(body))
		req.SetPathValue("id", id)
		req.Header.Set("Content-Type", "text/csv")
		req.Header.Set("X-Admin-Key", key)
		w := httptest.NewRecorder()
		handler.ImportCandidates(w, req)
		return w
	}

	t.Run("valid import", func(t *testing.T) {
		w := importReq(scheduledID, scheduledKey, "name,faculty,external_id\nAlice,Arts,S1\nBob,IT,S2\nCara,Law,S3\n")
		testutil.AssertStatus(t, w, http.StatusCreated)

		var resp models.ImportCandidatesResponse
		testutil.AssertJSON(t, w, &resp)
		if resp.Imported != 3 || len(resp.CandidateIDs) != 3 {
			t.Errorf("Expected 3 imported candidates, got %+v", resp)
		}
	})

	t.Run("clash with existing external id rolls back", func(t *testing.T) {
		w := importReq(scheduledID, scheduledKey, "name,external_id\nDan,S9\nEve,S1\n")
		testutil.AssertStatus(t, w, http.StatusConflict)

		if n := countRows(t, conn, "SELECT COUNT(*) FROM candidate WHERE election_id = $1", scheduledID); n != 3 {
			t.Errorf("Expected import to roll back leaving 3 candidates, got %d", n)
		}
	})

	t.Run("bad CSV", func(t *testing.T) {
		testutil.AssertStatus(t, importReq(scheduledID, scheduledKey, "faculty\nArts\n"), http.StatusBadRequest)
	})

	t.Run("invalid admin key", func(t *testing.T) {
		testutil.AssertStatus(t, importReq(scheduledID, "nope", "name\nZed\n"), http.StatusUnauthorized)
	})

	t.Run("voting already started", func(t *testing.T) {
		testutil.AssertStatus(t, importReq(activeID, activeKey, "name\nZed\n"), http.StatusConflict)
	})

	n := countRows(t, conn, "SELECT COUNT(*) FROM audit_log WHERE election_id = $1 AND action_type = $2",
		scheduledID, models.ActionCandidatesImported)
	if n != 1 {
		t.Errorf("Expected 1 import audit entry, got %d", n)
	}
}
