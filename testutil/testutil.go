// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package testutil

import (
	"bytes"
	"database/sql"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"github.com/danielhkuo/council-vote/auth"
	"github.com/danielhkuo/council-vote/cliparse"
	"github.com/danielhkuo/council-vote/db"
	"github.com/danielhkuo/council-vote/models"
)

// SetupTestDB creates a fresh SQLite database with the full schema
func SetupTestDB(t *testing.T) *sql.DB {
	t.Helper()

	conn, err := db.Open("sqlite", filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("Failed to open test database: %v", err)
	}

	if err := db.CreateSchema(conn); err != nil {
		conn.Close()
		t.Fatalf("Failed to create schema: %v", err)
	}

	return conn
}

// GetTestConfig returns a standard test configuration
func GetTestConfig() cliparse.Config {
	return cliparse.Config{
		Port:               8000,
		DatabaseURL:        ":memory:",
		DatabaseType:       "sqlite",
		AdminKeySalt:       "test-admin-salt",
		PseudonymSalt:      "test-pseudonym-salt",
		AllowedEmailDomain: "monash.edu",
	}
}

// CreateTestElection creates an election and returns its ID and admin key.
// status should be "scheduled", "active", or "closed"
func CreateTestElection(t *testing.T, conn *sql.DB, cfg cliparse.Config, status string) (electionID, adminKey string) {
	t.Helper()

	electionID, _ = auth.GenerateID(16)
	adminKey = auth.GenerateAdminKey(electionID, cfg.AdminKeySalt)

	now := time.Now().UTC()
	start, end := now.Add(-time.Hour), now.Add(24*time.Hour)
	switch status {
	case models.StatusScheduled:
		start, end = now.Add(time.Hour), now.Add(48*time.Hour)
	case models.StatusClosed:
		start, end = now.Add(-48*time.Hour), now.Add(-time.Hour)
	}

	_, err := conn.Exec(`
		INSERT INTO election (id, title, description, start_time, end_time, created_at)
		VALUES ($1, 'Test Election', 'A test election', $2, $3, $4)
	`, electionID, start, end, now)
	if err != nil {
		t.Fatalf("Failed to create test election: %v", err)
	}

	return electionID, adminKey
}

// AddTestCandidate adds a candidate to an election and returns its ID
func AddTestCandidate(t *testing.T, conn *sql.DB, electionID, name string) string {
	t.Helper()

	candidateID, _ := auth.GenerateID(12)
	_, err := conn.Exec(`
		INSERT INTO candidate (id, election_id, name, faculty, manifesto)
		VALUES ($1, $2, $3, 'Engineering', '')
	`, candidateID, electionID, name)
	if err != nil {
		t.Fatalf("Failed to create test candidate: %v", err)
	}

	return candidateID
}

// SubmitTestVote stores a ranked ballot for a fresh voter and returns the
// session token
func SubmitTestVote(t *testing.T, conn *sql.DB, electionID string, ranking []string, traits models.VoterTraits) string {
	t.Helper()

	voterID, _ := auth.GenerateID(16)
	pseudonym, _ := auth.GenerateID(8)
	_, err := conn.Exec(`
		INSERT INTO voter (id, pseudonym_id, faculty, gender, study_level, year_level)
		VALUES ($1, $2, $3, $4, $5, $6)
	`, voterID, pseudonym, traits.Faculty, traits.Gender, traits.StudyLevel, traits.YearLevel)
	if err != nil {
		t.Fatalf("Failed to create test voter: %v", err)
	}

	sessionID, _ := auth.GenerateID(16)
	token, _ := auth.GenerateSessionToken()
	now := time.Now().UTC()
	_, err = conn.Exec(`
		INSERT INTO voting_session (id, session_token, confirmation_code, voter_id, election_id, voted_at)
		VALUES ($1, $2, $3, $4, $5, $6)
	`, sessionID, token, auth.ConfirmationCode(token), voterID, electionID, now)
	if err != nil {
		t.Fatalf("Failed to create test session: %v", err)
	}

	prefs, _ := json.Marshal(ranking)
	voteID, _ := auth.GenerateID(16)
	_, err = conn.Exec(`
		INSERT INTO vote (id, voting_session_id, preferences, vote_hash, submitted_at)
		VALUES ($1, $2, $3, $4, $5)
	`, voteID, sessionID, string(prefs), "test-hash", now)
	if err != nil {
		t.Fatalf("Failed to create test vote: %v", err)
	}

	return token
}

// MakeRequest creates an HTTP test request
func MakeRequest(method, path string, body interface{}, headers map[string]string) *http.Request {
	var req *http.Request
	if body != nil {
		jsonBody, _ := json.Marshal(body)
		req = httptest.NewRequest(method, path, bytes.NewReader(jsonBody))
		req.Header.Set("Content-Type", "application/json")
	} else {
		req = httptest.NewRequest(method, path, nil)
	}

	for k, v := range headers {
		req.Header.Set(k, v)
	}

	return req
}

// AssertStatus checks that the response has the expected status code
func AssertStatus(t *testing.T, w *httptest.ResponseRecorder, expected int) {
	t.Helper()
	if w.Code != expected {
		t.Errorf("Expected status %d, got %d. Body: %s", expected, w.Code, w.Body.String())
	}
}

// AssertJSON decodes the response body into the provided struct
func AssertJSON(t *testing.T, w *httptest.ResponseRecorder, v interface{}) {
	t.Helper()
	if err := json.NewDecoder(w.Body).Decode(v); err != nil {
		t.Fatalf("Failed to decode JSON response: %v", err)
	}
}
