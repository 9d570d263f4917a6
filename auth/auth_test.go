// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package auth

import (
	"strings"
	"testing"
)

func TestGenerateID(t *testing.T) {
	tests := []struct {
		name    string
		byteLen int
		wantLen int // hex encoded length = byteLen * 2
	}{
		{"8 bytes", 8, 16},
		{"16 bytes", 16, 32},
		{"24 bytes", 24, 48},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			id, err := GenerateID(tt.byteLen)
			if err != nil {
				t.Fatalf("GenerateID() error = %v", err)
			}
			if len(id) != tt.wantLen {
				t.Errorf("GenerateID() length = %d, want %d", len(id), tt.wantLen)
			}
			// Verify it's valid hex
			for _, c := range id {
				if !((c >= '0' && c <= '9') || (c >= 'a' && c <= 'f')) {
					t.Errorf("GenerateID() contains invalid hex char: %c", c)
				}
			}
		})
	}

	// Test randomness - two IDs should be different
	id1, _ := GenerateID(16)
	id2, _ := GenerateID(16)
	if id1 == id2 {
		t.Error("GenerateID() produced duplicate IDs (extremely unlikely)")
	}
}

func TestGenerateAdminKey(t *testing.T) {
	tests := []struct {
		name       string
		electionID string
		salt       string
	}{
		{"standard", "election123", "secret-salt"},
		{"empty election id", "", "salt"},
		{"empty salt", "election456", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			key := GenerateAdminKey(tt.electionID, tt.salt)

			// Should not be empty
			if key == "" {
				t.Error("GenerateAdminKey() returned empty string")
			}

			// Should be deterministic
			key2 := GenerateAdminKey(tt.electionID, tt.salt)
			if key != key2 {
				t.Error("GenerateAdminKey() is not deterministic")
			}

			// Different inputs should produce different keys
			if tt.electionID != "" && tt.salt != "" {
				differentKey := GenerateAdminKey(tt.electionID+"x", tt.salt)
				if key == differentKey {
					t.Error("GenerateAdminKey() produced same key for different election IDs")
				}
			}

			// Should be URL-safe (no padding)
			if strings.Contains(key, "=") {
				t.Error("GenerateAdminKey() contains padding characters")
			}
		})
	}
}

func TestValidateAdminKey(t *testing.T) {
	electionID := "test-election-123"
	salt := "test-salt"
	validKey := GenerateAdminKey(electionID, salt)

	tests := []struct {
		name       string
		electionID string
		adminKey   string
		salt       string
		wantErr    bool
	}{
		{"valid key", electionID, validKey, salt, false},
		{"wrong key", electionID, "wrong-key", salt, true},
		{"wrong election id", "different-election", validKey, salt, true},
		{"wrong salt", electionID, validKey, "different-salt", true},
		{"empty key", electionID, "", salt, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateAdminKey(tt.electionID, tt.adminKey, tt.salt)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateAdminKey() error = %v, wantErr %v", err, tt.wantErr)
			}
			if tt.wantErr && err != ErrInvalidAdminKey {
				t.Errorf("ValidateAdminKey() error = %v, want %v", err, ErrInvalidAdminKey)
			}
		})
	}
}

func TestGenerateSessionToken(t *testing.T) {
	token, err := GenerateSessionToken()
	if err != nil {
		t.Fatalf("GenerateSessionToken() error = %v", err)
	}

	if token == "" {
		t.Error("GenerateSessionToken() returned empty string")
	}

	// Should be URL-safe (no padding)
	if strings.Contains(token, "=") {
		t.Error("GenerateSessionToken() contains padding characters")
	}

	// 32 bytes encoded
	if len(token) != 43 {
		t.Errorf("GenerateSessionToken() length = %d, want 43", len(token))
	}

	// Test randomness - should not produce duplicates
	tokens := make(map[string]bool)
	for i := 0; i < 100; i++ {
		token, err := GenerateSessionToken()
		if err != nil {
			t.Fatalf("GenerateSessionToken() error on iteration %d: %v", i, err)
		}
		if tokens[token] {
			t.Errorf("GenerateSessionToken() produced duplicate token: %s", token)
		}
		tokens[token] = true
	}
}

func TestConfirmationCode(t *testing.T) {
	tests := []struct {
		name  string
		token string
		want  string
	}{
		{"long token", "abcdefghijklmnop", "abcdefgh"},
		{"exact length", "abcdefgh", "abcdefgh"},
		{"short token", "abc", "abc"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ConfirmationCode(tt.token); got != tt.want {
				t.Errorf("ConfirmationCode() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestGenerateReceiptNumber(t *testing.T) {
	tests := []struct {
		name  string
		token string
		salt  string
	}{
		{"standard", "session-abc-123", "receipt-salt"},
		{"different token", "session-xyz-456", "receipt-salt"},
		{"different salt", "session-abc-123", "other-salt"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			number := GenerateReceiptNumber(tt.token, tt.salt)

			if !strings.HasPrefix(number, "R-") {
				t.Errorf("GenerateReceiptNumber() = %q, want R- prefix", number)
			}

			// Should be deterministic
			if number != GenerateReceiptNumber(tt.token, tt.salt) {
				t.Error("GenerateReceiptNumber() is not deterministic")
			}

			// Should be URL-safe (alphanumeric only after the prefix)
			for _, c := range strings.TrimPrefix(number, "R-") {
				if !((c >= '0' && c <= '9') || (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z')) {
					t.Errorf("GenerateReceiptNumber() contains non-alphanumeric char: %c", c)
				}
			}
		})
	}

	if GenerateReceiptNumber("s1", "salt") == GenerateReceiptNumber("s2", "salt") {
		t.Error("GenerateReceiptNumber() produced same number for different sessions")
	}
}

func TestValidateEmailDomain(t *testing.T) {
	tests := []struct {
		name    string
		email   string
		domain  string
		wantErr error
	}{
		{"valid", "student@monash.edu", "monash.edu", nil},
		{"mixed case", "  Student@Monash.EDU ", "monash.edu", nil},
		{"domain with at sign", "student@monash.edu", "@monash.edu", nil},
		{"wrong domain", "student@gmail.com", "monash.edu", ErrEmailDomain},
		{"subdomain", "student@student.monash.edu", "monash.edu", ErrEmailDomain},
		{"suffix trick", "student@evilmonash.edu", "monash.edu", ErrEmailDomain},
		{"not an email", "monash.edu", "monash.edu", ErrInvalidEmail},
		{"display name", "Student <student@monash.edu>", "monash.edu", ErrInvalidEmail},
		{"empty", "", "monash.edu", ErrInvalidEmail},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateEmailDomain(tt.email, tt.domain)
			if err != tt.wantErr {
				t.Errorf("ValidateEmailDomain() error = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

func TestPseudonym(t *testing.T) {
	p := Pseudonym("lumine@monash.edu", "salt")

	if len(p) != 16 {
		t.Errorf("Pseudonym() length = %d, want 16", len(p))
	}
	if p != Pseudonym(" LUMINE@monash.edu", "salt") {
		t.Error("Pseudonym() should ignore case and surrounding space")
	}
	if p == Pseudonym("aether@monash.edu", "salt") {
		t.Error("Pseudonym() produced same value for different emails")
	}
	if p == Pseudonym("lumine@monash.edu", "other-salt") {
		t.Error("Pseudonym() produced same value for different salts")
	}
}

func TestBase62Encode(t *testing.T) {
	tests := []struct {
		name  string
		input []byte
	}{
		{"zero bytes", []byte{0, 0, 0, 0}},
		{"small value", []byte{0, 0, 0, 1}},
		{"large value", []byte{255, 255, 255, 255, 255, 255, 255, 255}},
		{"mixed value", []byte{42, 123, 200, 17}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := base62Encode(tt.input)

			// Should not be empty (except for all zeros -> "0")
			if result == "" {
				t.Error("base62Encode() returned empty string")
			}

			// Should only contain base62 characters
			for _, c := range result {
				if !((c >= '0' && c <= '9') || (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z')) {
					t.Errorf("base62Encode() contains invalid char: %c", c)
				}
			}

			// Should be deterministic
			result2 := base62Encode(tt.input)
			if result != result2 {
				t.Error("base62Encode() is not deterministic")
			}
		})
	}

	// Different inputs should produce different outputs
	out1 := base62Encode([]byte{1, 2, 3, 4})
	out2 := base62Encode([]byte{5, 6, 7, 8})
	if out1 == out2 {
		t.Error("base62Encode() produced same output for different inputs")
	}
}

func TestHashIP(t *testing.T) {
	tests := []struct {
		name string
		ip   string
		salt string
	}{
		{"IPv4", "192.168.1.1", "ip-salt"},
		{"IPv6", "2001:0db8:85a3::8a2e:0370:7334", "ip-salt"},
		{"localhost", "127.0.0.1", "ip-salt"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			hash := HashIP(tt.ip, tt.salt)

			// Should not be empty
			if hash == "" {
				t.Error("HashIP() returned empty string")
			}

			// Should be 16 hex characters (8 bytes * 2)
			if len(hash) != 16 {
				t.Errorf("HashIP() length = %d, want 16", len(hash))
			}

			// Should be valid hex
			for _, c := range hash {
				if !((c >= '0' && c <= '9') || (c >= 'a' && c <= 'f')) {
					t.Errorf("HashIP() contains invalid hex char: %c", c)
				}
			}

			// Should be deterministic
			hash2 := HashIP(tt.ip, tt.salt)
			if hash != hash2 {
				t.Error("HashIP() is not deterministic")
			}
		})
	}

	// Different IPs should produce different hashes
	hash1 := HashIP("192.168.1.1", "salt")
	hash2 := HashIP("192.168.1.2", "salt")
	if hash1 == hash2 {
		t.Error("HashIP() produced same hash for different IPs")
	}

	// Different salts should produce different hashes
	hash3 := HashIP("192.168.1.1", "salt1")
	hash4 := HashIP("192.168.1.1", "salt2")
	if hash3 == hash4 {
		t.Error("HashIP() produced same hash for different salts")
	}
}

// Benchmark tests
func BenchmarkGenerateID(b *testing.B) {
	for i := 0; i < b.N; i++ {
		GenerateID(16)
	}
}

func BenchmarkGenerateAdminKey(b *testing.B) {
	electionID := "test-election-123"
	salt := "test-salt"
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		GenerateAdminKey(electionID, salt)
	}
}

func BenchmarkGenerateSessionToken(b *testing.B) {
	for i := 0; i < b.N; i++ {
		GenerateSessionToken()
	}
}

func BenchmarkPseudonym(b *testing.B) {
	for i := 0; i < b.N; i++ {
		Pseudonym("student@monash.edu", "salt")
	}
}
