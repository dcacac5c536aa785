package utils

import "testing"

func TestNormalizeEmail(t *testing.T) {
	if got := NormalizeEmail("  Student@Example.COM "); got != "student@example.com" {
		t.Fatalf("unexpected normalization: %q", got)
	}
}

func TestValidateRegistration(t *testing.T) {
	cases := []struct {
		name        string
		email       string
		displayName string
		password    string
		wantErr     bool
	}{
		{"valid", "student@example.com", "Student", "longenough", false},
		{"bad email", "not-an-email", "Student", "longenough", true},
		{"blank display name", "student@example.com", "   ", "longenough", true},
		{"short password", "student@example.com", "Student", "short", true},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			err := ValidateRegistration(tc.email, tc.displayName, tc.password)
			if tc.wantErr && err == nil {
				t.Fatalf("expected error")
			}
			if !tc.wantErr && err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
		})
	}
}

func TestHashAndCheckPassword(t *testing.T) {
	hash, err := HashPassword("correct horse battery")
	if err != nil {
		t.Fatalf("hash: %v", err)
	}
	if hash == "correct horse battery" {
		t.Fatalf("hash must not be the plaintext")
	}
	if err := CheckPassword(hash, "correct horse battery"); err != nil {
		t.Fatalf("check: %v", err)
	}
	if err := CheckPassword(hash, "wrong"); err == nil {
		t.Fatalf("wrong password must not verify")
	}
}
