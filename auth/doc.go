// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package auth provides authentication and token generation utilities.

# Admin Keys

Admin keys use HMAC-SHA256 to create deterministic, verifiable keys:

	adminKey := auth.GenerateAdminKey(electionID, salt)
	err := auth.ValidateAdminKey(electionID, adminKey, salt)

The key is URL-safe base64 encoded without padding. Since it's deterministic,
the same election ID and salt always produce the same key. This allows
validation without storing the key in the database.

# Voter Identity

Voters are identified by a pseudonym derived from their email, never by the
email itself:

	if err := auth.ValidateEmailDomain(email, "monash.edu"); err != nil {
		// ErrInvalidEmail or ErrEmailDomain
	}
	pseudonym := auth.Pseudonym(email, salt)

# Sessions and Receipts

Every accepted vote gets a random 32-byte session token. The voter sees only
its first 8 characters as a confirmation code, plus a receipt number:

	token, err := auth.GenerateSessionToken()
	code := auth.ConfirmationCode(token)
	receipt := auth.GenerateReceiptNumber(token, salt)

Receipt numbers are base62 encoded (alphanumeric only) after an "R-" prefix.

# ID Generation

Random hex IDs for database records:

	id, err := auth.GenerateID(16)  // 32 hex characters

# IP Hashing

For privacy-preserving audit records:

	hash := auth.HashIP(ipAddress, salt)

Returns first 8 bytes (16 hex chars) of HMAC-SHA256.
*/
package auth
