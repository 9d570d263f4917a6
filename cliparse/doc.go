// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package cliparse handles command-line argument parsing and configuration.

# Configuration

ParseFlags returns a Config struct with all settings:

	cfg, err := cliparse.ParseFlags(os.Args[1:])

An optional .env file is read first with LoadEnv:

	if err := cliparse.LoadEnv(); err != nil {
		log.Fatal(err)
	}

# Config Fields

  - Port: Server listen port (default: 8000)
  - DatabaseURL: Database connection string (required)
  - DatabaseType: sqlite or postgres (default: sqlite)
  - AdminKeySalt: Secret for election admin key HMAC (required)
  - PseudonymSalt: Secret for voter pseudonyms (required)
  - AllowedEmailDomain: Domain voter emails must use (default: monash.edu)

# CLI Flags

	-p               Server port
	-d               Database URL
	-t               Database type
	--email-domain   Allowed voter email domain
	--admin-salt     Admin key salt
	--pseudonym-salt Voter pseudonym salt

# Environment Variables

Flags fall back to environment variables:

	PORT                 → -p
	DATABASE_URL         → -d
	DATABASE_TYPE        → -t
	ALLOWED_EMAIL_DOMAIN → --email-domain
	ADMIN_KEY_SALT       → --admin-salt
	PSEUDONYM_SALT       → --pseudonym-salt

CLI flags take precedence over environment variables, and environment
variables take precedence over .env files.
*/
package cliparse
