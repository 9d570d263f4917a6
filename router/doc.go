// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package router defines HTTP routes for the council voting API.

	mux := router.NewRouter(db, cfg)

# Endpoints

Health (pings the database):

	GET /health

Elections (writes require X-Admin-Key):

	POST /elections                        - Create election
	GET  /elections                        - List with derived status
	GET  /elections/{id}                   - Election and candidates
	GET  /elections/{id}/candidates        - Candidates only
	POST /elections/{id}/candidates        - Add candidate
	POST /elections/{id}/candidates/import - Bulk add from CSV
	POST /elections/{id}/close             - End voting now
	GET  /elections/{id}/audit-logs        - Admin audit trail
	GET  /elections/{id}/results           - IRV results (closed only)

Voting:

	POST /vote               - Submit ranked ballot
	POST /verify-vote        - Check a confirmation code
	GET  /receipts/{number}  - Read a vote receipt
*/
package router
