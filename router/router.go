// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package router

import (
	"database/sql"
	"net/http"

	"github.com/danielhkuo/council-vote/cliparse"
	"github.com/danielhkuo/council-vote/handlers"
	"github.com/danielhkuo/council-vote/middleware"
)

// Banner is served at the root path
const Banner = "council-vote API v1"

func NewRouter(db *sql.DB, cfg cliparse.Config) *http.ServeMux {
	mux := http.NewServeMux()

	electionHandler := handlers.NewElectionHandler(db, cfg)
	votingHandler := handlers.NewVotingHandler(db, cfg)

	mux.HandleFunc("GET /health", func(w http.ResponseWriter, r *http.Request) {
		if err := db.PingContext(r.Context()); err != nil {
			middleware.ErrorResponse(w, http.StatusServiceUnavailable, "database unavailable")
			return
		}
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("OK"))
	})

	// Elections (reads are public, writes need X-Admin-Key)
	mux.HandleFunc("POST /elections", middleware.WithLogging(electionHandler.CreateElection))
	mux.HandleFunc("GET /elections", middleware.WithLogging(electionHandler.ListElections))
	mux.HandleFunc("GET /elections/{id}", middleware.WithLogging(electionHandler.GetElection))
	mux.HandleFunc("GET /elections/{id}/candidates", middleware.WithLogging(electionHandler.GetCandidates))
	mux.HandleFunc("POST /elections/{id}/candidates", middleware.WithLogging(electionHandler.AddCandidate))
	mux.HandleFunc("POST /elections/{id}/candidates/import", middleware.WithLogging(electionHandler.ImportCandidates))
	mux.HandleFunc("POST /elections/{id}/close", middleware.WithLogging(electionHandler.CloseElection))
	mux.HandleFunc("GET /elections/{id}/audit-logs", middleware.WithLogging(electionHandler.ListAuditLogs))

	// Results (sealed until closed)
	mux.HandleFunc("GET /elections/{id}/results", middleware.WithLogging(electionHandler.GetResults))

	// Voting
	mux.HandleFunc("POST /vote", middleware.WithLogging(votingHandler.SubmitVote))
	mux.HandleFunc("POST /verify-vote", middleware.WithLogging(votingHandler.VerifyVote))
	mux.HandleFunc("GET /receipts/{number}", middleware.WithLogging(votingHandler.GetReceipt))

	mux.HandleFunc("GET /{$}", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(Banner))
	})

	return mux
}
