// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package auth

import (
	"crypto/hmac"
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
	"encoding/hex"
	"errors"
	"fmt"
	"net/mail"
	"strings"
)

var (
	ErrInvalidAdminKey = errors.New("invalid admin key")
	ErrInvalidEmail    = errors.New("invalid email address")
	ErrEmailDomain     = errors.New("email domain not allowed")
)

// ConfirmationCodeLen is how much of a session token is shown to voters
const ConfirmationCodeLen = 8

// GenerateID creates a random hex ID of the specified byte length
func GenerateID(byteLen int) (string, error) {
	b := make([]byte, byteLen)
	_, err := rand.Read(b)
	if err != nil {
		return "", fmt.Errorf("failed to generate random ID: %w", err)
	}
	return hex.EncodeToString(b), nil
}

// GenerateAdminKey creates an HMAC-based admin key for an election
// This is deterministic and verifiable
func GenerateAdminKey(electionID, salt string) string {
	h := hmac.New(sha256.New, []byte(salt))
	h.Write([]byte(electionID))
	sum := h.Sum(nil)
	// Use URL-safe base64 and trim padding for cleaner keys
	return strings.TrimRight(base64.URLEncoding.EncodeToString(sum), "=")
}

// ValidateAdminKey checks if the provided admin key is valid for the election
func ValidateAdminKey(electionID, adminKey, salt string) error {
	expected := GenerateAdminKey(electionID, salt)
	if !hmac.Equal([]byte(adminKey), []byte(expected)) {
		return ErrInvalidAdminKey
	}
	return nil
}

// GenerateSessionToken creates the random secret behind a voting session
func GenerateSessionToken() (string, error) {
	b := make([]byte, 32)
	_, err := rand.Read(b)
	if err != nil {
		return "", fmt.Errorf("failed to generate session token: %w", err)
	}
	// URL-safe base64 without padding
	return strings.TrimRight(base64.URLEncoding.EncodeToString(b), "="), nil
}

// ConfirmationCode is the short prefix of a session token handed to the voter
func ConfirmationCode(sessionToken string) string {
	if len(sessionToken) <= ConfirmationCodeLen {
		return sessionToken
	}
	return sessionToken[:ConfirmationCodeLen]
}

// GenerateReceiptNumber derives a short receipt number from a session token
// Uses HMAC for determinism and base62 encoding for URL-friendliness
func GenerateReceiptNumber(sessionToken, salt string) string {
	h := hmac.New(sha256.New, []byte(salt))
	h.Write([]byte("receipt:" + sessionToken))
	sum := h.Sum(nil)

	return "R-" + base62Encode(sum[:8])
}

// base62Encode converts bytes to base62 (0-9, a-z, A-Z)
func base62Encode(data []byte) string {
	const base62Chars = "0123456789abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ"

	// Convert bytes to a big integer
	var num uint64
	for i := 0; i < len(data) && i < 8; i++ {
		num = num<<8 | uint64(data[i])
	}

	if num == 0 {
		return "0"
	}

	result := make([]byte, 0, 11) // max length for uint64
	for num > 0 {
		result = append(result, base62Chars[num%62])
		num /= 62
	}

	// Reverse the string
	for i, j := 0, len(result)-1; i < j; i, j = i+1, j-1 {
		result[i], result[j] = result[j], result[i]
	}

	return string(result)
}

// NormalizeEmail lower-cases and trims an address after checking it parses
func NormalizeEmail(email string) (string, error) {
	addr, err := mail.ParseAddress(strings.TrimSpace(email))
	if err != nil || addr.Name != "" {
		return "", ErrInvalidEmail
	}
	return strings.ToLower(addr.Address), nil
}

// ValidateEmailDomain checks that email belongs to domain (e.g. "monash.edu").
// Subdomains like student.monash.edu are not accepted.
func ValidateEmailDomain(email, domain string) error {
	normalized, err := NormalizeEmail(email)
	if err != nil {
		return err
	}

	at := strings.LastIndex(normalized, "@")
	if normalized[at+1:] != strings.ToLower(strings.TrimPrefix(domain, "@")) {
		return ErrEmailDomain
	}
	return nil
}

// Pseudonym maps an email to a stable voter pseudonym.
// The same address always gives the same pseudonym, regardless of case.
func Pseudonym(email, salt string) string {
	h := hmac.New(sha256.New, []byte(salt))
	h.Write([]byte(strings.ToLower(strings.TrimSpace(email))))
	sum := h.Sum(nil)
	return hex.EncodeToString(sum[:8])
}

// HashIP creates a one-way hash of an IP address for privacy
// Includes salt to prevent rainbow table attacks
func HashIP(ip, salt string) string {
	h := hmac.New(sha256.New, []byte(salt))
	h.Write([]byte(ip))
	sum := h.Sum(nil)
	// Return first 16 hex chars (64 bits) - enough for deduplication
	return hex.EncodeToString(sum[:8])
}
