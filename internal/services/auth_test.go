package services

import "testing"

func TestHashAndVerifyPassword(t *testing.T) {
	hash, err := HashPassword("CorrectHorse1")
	if err != nil {
		t.Fatalf("HashPassword failed: %v", err)
	}
	if hash == "CorrectHorse1" {
		t.Fatalf("hash must not equal the plain password")
	}

	if !VerifyPassword("CorrectHorse1", hash) {
		t.Errorf("expected correct password to verify")
	}
	if VerifyPassword("WrongHorse1", hash) {
		t.Errorf("expected wrong password to fail verification")
	}
}

func TestValidatePassword(t *testing.T) {
	tests := []struct {
		name     string
		password string
		wantErr  bool
	}{
		{"valid", "password1", false},
		{"too short", "pass1", true},
		{"no digit", "passwordonly", true},
		{"exactly eight with digit", "abcdefg1", false},
		{"empty", "", true},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			err := validatePassword(tc.password)
			if tc.wantErr && err == nil {
				t.Errorf("expected error for %q", tc.password)
			}
			if !tc.wantErr && err != nil {
				t.Errorf("unexpected error for %q: %v", tc.password, err)
			}
		})
	}
}

func TestGenerateToken(t *testing.T) {
	a, err := generateToken(32)
	if err != nil {
		t.Fatalf("generateToken failed: %v", err)
	}
	b, err := generateToken(32)
	if err != nil {
		t.Fatalf("generateToken failed: %v", err)
	}

	if len(a) != 64 {
		t.Errorf("Expected 64 hex chars, got %d", len(a))
	}
	if a == b {
		t.Errorf("expected distinct tokens")
	}
}

func TestUsernameRegex(t *testing.T) {
	tests := []struct {
		username string
		want     bool
	}{
		{"alice", true},
		{"al", false},
		{"alice_b-c.d", true},
		{"has space", false},
		{"ok123", true},
	}

	for _, tc := range tests {
		if got := usernameRegex.MatchString(tc.username); got != tc.want {
			t.Errorf("usernameRegex(%q) = %v, want %v", tc.username, got, tc.want)
		}
	}
}
