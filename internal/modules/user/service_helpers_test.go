package user

import (
	"errors"
	"testing"
)

func TestHashAndVerifyPassword(t *testing.T) {
	hash, err := hashPassword("s3cret-password")
	if err != nil {
		t.Fatalf("hash: %v", err)
	}
	if hash == "s3cret-password" {
		t.Fatal("hash must not equal the plaintext")
	}

	if err := verifyPassword("s3cret-password", hash); err != nil {
		t.Errorf("correct password rejected: %v", err)
	}
	if err := verifyPassword("wrong-password", hash); !errors.Is(err, ErrInvalidCredentials) {
		t.Errorf("got %v, want ErrInvalidCredentials", err)
	}
}

func TestGenerateNumericCode(t *testing.T) {
	seen := make(map[string]bool)
	for i := 0; i < 50; i++ {
		code, err := generateNumericCode(6)
		if err != nil {
			t.Fatalf("generate: %v", err)
		}
		if len(code) != 6 {
			t.Fatalf("len(%q) = %d, want 6", code, len(code))
		}
		for _, c := range code {
			if c < '0' || c > '9' {
				t.Fatalf("code %q contains non-digit %q", code, c)
			}
		}
		seen[code] = true
	}
	// 50 draws from a million-value space colliding down to a handful would
	// mean the generator is broken.
	if len(seen) < 10 {
		t.Errorf("only %d distinct codes in 50 draws", len(seen))
	}
}

func TestHashTokenDeterministic(t *testing.T) {
	a := hashToken("123456")
	b := hashToken("123456")
	c := hashToken("654321")

	if a != b {
		t.Error("same input must hash identically")
	}
	if a == c {
		t.Error("different inputs must not collide")
	}
	if a == "123456" {
		t.Error("hash must not equal the input")
	}
}

func TestGenerateSecureTokenUnique(t *testing.T) {
	a, err := generateSecureToken(32)
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	b, err := generateSecureToken(32)
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	if a == b {
		t.Error("two tokens must not be equal")
	}
	if len(a) == 0 {
		t.Error("token must not be empty")
	}
}

func TestConflictForConstraint(t *testing.T) {
	cases := []struct {
		constraint string
		want       *DomainError
	}{
		{"users_email_key", ErrEmailExists},
		{"users_username_key", ErrUsernameExists},
		{"users_phone_key", ErrPhoneExists},
		{"users_national_id_key", ErrNationalIDExists},
		{"some_future_constraint", ErrConflict},
		{"", ErrConflict},
	}
	for _, tc := range cases {
		if got := conflictForConstraint(tc.constraint); !errors.Is(got, tc.want) {
			t.Errorf("constraint %q: got %v, want %v", tc.constraint, got, tc.want)
		}
	}
}
