// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package middleware provides HTTP middleware and helper functions.

# Request Logging

	mux.HandleFunc("GET /health", middleware.WithLogging(handler))

One line is logged per request with method, path, status, bytes and
duration_ms. Responses with a 5xx status are logged at error level.

NewLogger builds the process logger: text on a terminal, JSON otherwise.

# CORS

	server := http.Server{Handler: middleware.CORS(mux)}

The request origin is reflected. Preflight requests are answered directly.
X-Admin-Key is an allowed header so browser admin consoles can close
elections and read audit logs.

# JSON Helpers

	middleware.JSONResponse(w, http.StatusOK, data)
	middleware.ErrorResponse(w, http.StatusBadRequest, "message")

	var req models.SubmitVoteRequest
	if err := middleware.ParseJSONBody(r, &req); err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, "Invalid JSON")
		return
	}

Bodies above MaxBodyBytes are rejected.

# Client IP

GetClientIP honours X-Forwarded-For then X-Real-IP. The value is only
ever stored hashed in the audit log.
*/
package middleware
