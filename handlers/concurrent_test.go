// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/danielhkuo/council-vote/models"
	"github.com/danielhkuo/council-vote/testutil"
)

// TestConcurrentVoteSubmissions verifies that simultaneous ballots from
// different voters are all stored exactly once
func TestConcurrentVoteSubmissions(t *testing.T) {
	conn := testutil.SetupTestDB(t)
	defer conn.Close()

	cfg := testutil.GetTestConfig()
	votingHandler := NewVotingHandler(conn, cfg)

	electionID, _ := testutil.CreateTestElection(t, conn, cfg, models.StatusActive)
	a := testutil.AddTestCandidate(t, conn, electionID, "A")
	b := testutil.AddTestCandidate(t, conn, electionID, "B")
	c := testutil.AddTestCandidate(t, conn, electionID, "C")

	numVoters := 10
	var successCount atomic.Int32
	var wg sync.WaitGroup

	for i := 0; i < numVoters; i++ {
		wg.Add(1)
		go func(voterIdx int) {
			defer wg.Done()

			prefs := map[string]int{
				a: voterIdx%3 + 1,
				b: (voterIdx+1)%3 + 1,
				c: (voterIdx+2)%3 + 1,
			}
			w := submitVote(votingHandler, models.SubmitVoteRequest{
				Email:       fmt.Sprintf("voter%d@monash.edu", voterIdx),
				ElectionID:  electionID,
				Preferences: prefs,
			})
			if w.Code == http.StatusCreated {
				successCount.Add(1)
			}
		}(i)
	}

	wg.Wait()

	if int(successCount.Load()) != numVoters {
		t.Errorf("Expected %d successful submissions, got %d", numVoters, successCount.Load())
	}

	n := countRows(t, conn, `
		SELECT COUNT(*) FROM vote v
		JOIN voting_session s ON v.voting_session_id = s.id
		WHERE s.election_id = $1
	`, electionID)
	if n != numVoters {
		t.Errorf("Expected %d votes in database, got %d", numVoters, n)
	}

	if n := countRows(t, conn, "SELECT COUNT(DISTINCT confirmation_code) FROM voting_session"); n != numVoters {
		t.Errorf("Expected %d distinct confirmation codes, got %d", numVoters, n)
	}
}

// TestConcurrentDoubleVote verifies that when one voter submits from
// several tabs at once, exactly one ballot is accepted
func TestConcurrentDoubleVote(t *testing.T) {
	conn := testutil.SetupTestDB(t)
	defer conn.Close()

	cfg := testutil.GetTestConfig()
	votingHandler := NewVotingHandler(conn, cfg)

	electionID, _ := testutil.CreateTestElection(t, conn, cfg, models.StatusActive)
	a := testutil.AddTestCandidate(t, conn, electionID, "A")
	b := testutil.AddTestCandidate(t, conn, electionID, "B")

	numAttempts := 5
	var successCount, conflictCount atomic.Int32
	var wg sync.WaitGroup

	for i := 0; i < numAttempts; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()

			w := submitVote(votingHandler, models.SubmitVoteRequest{
				Email:       "eager@monash.edu",
				ElectionID:  electionID,
				Preferences: map[string]int{a: 1, b: 2},
			})
			switch w.Code {
			case http.StatusCreated:
				successCount.Add(1)
			case http.StatusConflict:
				conflictCount.Add(1)
			}
		}()
	}

	wg.Wait()

	if successCount.Load() != 1 {
		t.Errorf("Expected exactly 1 accepted ballot, got %d", successCount.Load())
	}
	if conflictCount.Load() != int32(numAttempts-1) {
		t.Errorf("Expected %d conflicts, got %d", numAttempts-1, conflictCount.Load())
	}
	if n := countRows(t, conn, "SELECT COUNT(*) FROM vote"); n != 1 {
		t.Errorf("Expected 1 vote in database, got %d", n)
	}
}

// TestConcurrentElectionClose verifies that racing close requests leave
// one closed_at and one audit entry
func TestConcurrentElectionClose(t *testing.T) {
	conn := testutil.SetupTestDB(t)
	defer conn.Close()

	cfg := testutil.GetTestConfig()
	handler := NewElectionHandler(conn, cfg)

	electionID, adminKey := testutil.CreateTestElection(t, conn, cfg, models.StatusActive)

	numAttempts := 3
	var successCount atomic.Int32
	var wg sync.WaitGroup

	for i := 0; i < numAttempts; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()

			req := testutil.MakeRequest("POST", "/elections/"+electionID+"/close", nil, map[string]string{"X-Admin-Key": adminKey})
			req.SetPathValue("id", electionID)
			w := httptest.NewRecorder()
			handler.CloseElection(w, req)

			if w.Code == http.StatusOK {
				successCount.Add(1)
			}
		}()
	}

	wg.Wait()

	if successCount.Load() != 1 {
		t.Errorf("Expected exactly 1 successful close, got %d", successCount.Load())
	}
	n := countRows(t, conn, "SELECT COUNT(*) FROM audit_log WHERE election_id = $1 AND action_type = $2",
		electionID, models.ActionElectionClosed)
	if n != 1 {
		t.Errorf("Expected 1 close audit entry, got %d", n)
	}
}

// TestConcurrentResultsReads verifies recounts agree under parallel reads
func TestConcurrentResultsReads(t *testing.T) {
	conn := testutil.SetupTestDB(t)
	defer conn.Close()

	cfg := testutil.GetTestConfig()
	handler := NewElectionHandler(conn, cfg)

	electionID, _ := testutil.CreateTestElection(t, conn, cfg, models.StatusClosed)
	a := testutil.AddTestCandidate(t, conn, electionID, "A")
	b := testutil.AddTestCandidate(t, conn, electionID, "B")
	for i := 0; i < 3; i++ {
		testutil.SubmitTestVote(t, conn, electionID, []string{a, b}, testTraits)
	}
	testutil.SubmitTestVote(t, conn, electionID, []string{b, a}, testTraits)

	numReaders := 8
	winners := make([]string, numReaders)
	var wg sync.WaitGroup

	for i := 0; i < numReaders; i++ {
		wg.Add(1)
		go func(idx int) {
			defer wg.Done()

			w := getResults(handler, electionID)
			if w.Code != http.StatusOK {
				return
			}
			var res models.ElectionResults
			if err := json.NewDecoder(w.Body).Decode(&res); err != nil {
				return
			}
			if res.Winner != nil {
				winners[idx] = res.Winner.ID
			}
		}(i)
	}

	wg.Wait()

	for i, w := range winners {
		if w != a {
			t.Errorf("Reader %d: expected winner %s, got %q", i, a, w)
		}
	}
}
