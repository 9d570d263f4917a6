// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package main provides the entry point for the council-vote API server.

council-vote runs student council elections. Voters sign in with their
institutional email, rank every candidate and submit one ballot per
election. Results are counted by Instant Runoff Voting once voting closes.

# Starting the Server

	DATABASE_URL=council.db ADMIN_KEY_SALT=... PSEUDONYM_SALT=... go run .

Or with flags:

	go run . -p 8000 -t postgres -d "postgres://..."

A .env file in the working directory is loaded first. Variables already set
in the environment win.

# Configuration

Required settings:

  - DATABASE_URL (-d): SQLite path or PostgreSQL connection string
  - ADMIN_KEY_SALT (-admin-salt): Secret for admin key HMAC
  - PSEUDONYM_SALT (-pseudonym-salt): Secret for voter pseudonyms and receipts

Optional settings:

  - PORT (-p): Server port (default: 8000)
  - DATABASE_TYPE (-t): sqlite or postgres (default: sqlite)
  - ALLOWED_EMAIL_DOMAIN (-email-domain): Voter email domain (default: monash.edu)

# Architecture

  - irv: Instant Runoff Voting tally engine
  - ballot: Turns submitted rank maps into ordered ballots
  - handlers: HTTP request handlers (elections, voting, results, audit)
  - router: Route definitions using Go 1.22+ routing
  - middleware: CORS, logging, JSON helpers
  - models: Request/response types
  - auth: Keys, tokens, pseudonyms
  - db: Driver selection, schema and queries
  - cliparse: Configuration parsing
  - cmd/tally: Offline recount tool

See package documentation for each component.
*/
package main
