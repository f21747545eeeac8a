package user

import (
	"errors"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

func TestNewTokenIssuerRequiresSecret(t *testing.T) {
	if _, err := NewTokenIssuer(""); err == nil {
		t.Fatal("expected error for empty secret")
	}
	if _, err := NewTokenIssuer("secret"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestTokenRoundTrip(t *testing.T) {
	issuer, err := NewTokenIssuer("test-secret")
	if err != nil {
		t.Fatalf("new issuer: %v", err)
	}

	token, err := issuer.Issue("user-123", RoleDoctor)
	if err != nil {
		t.Fatalf("issue: %v", err)
	}

	claims, err := issuer.Verify(token)
	if err != nil {
		t.Fatalf("verify: %v", err)
	}
	if claims.UserID != "user-123" {
		t.Errorf("UserID = %q, want %q", claims.UserID, "user-123")
	}
	if claims.Role != RoleDoctor {
		t.Errorf("Role = %q, want %q", claims.Role, RoleDoctor)
	}
}

func TestVerifyRejectsWrongSecret(t *testing.T) {
	issuerA, _ := NewTokenIssuer("secret-a")
	issuerB, _ := NewTokenIssuer("secret-b")

	token, err := issuerA.Issue("user-123", RolePatient)
	if err != nil {
		t.Fatalf("issue: %v", err)
	}

	if _, err := issuerB.Verify(token); !errors.Is(err, ErrTokenMalformed) {
		t.Errorf("got %v, want ErrTokenMalformed", err)
	}
}

func TestVerifyRejectsGarbage(t *testing.T) {
	issuer, _ := NewTokenIssuer("test-secret")

	for _, tok := range []string{"", "not-a-token", "a.b.c"} {
		if _, err := issuer.Verify(tok); !errors.Is(err, ErrTokenMalformed) {
			t.Errorf("Verify(%q) = %v, want ErrTokenMalformed", tok, err)
		}
	}
}

func TestVerifyDistinguishesExpired(t *testing.T) {
	issuer, _ := NewTokenIssuer("test-secret")

	expired := jwt.NewWithClaims(jwt.SigningMethodHS256, jwtClaims{
		Role: RolePatient,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   "user-123",
			IssuedAt:  jwt.NewNumericDate(time.Now().Add(-2 * time.Hour)),
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(-time.Hour)),
		},
	})
	signed, err := expired.SignedString([]byte("test-secret"))
	if err != nil {
		t.Fatalf("sign: %v", err)
	}

	if _, err := issuer.Verify(signed); !errors.Is(err, ErrTokenExpired) {
		t.Errorf("got %v, want ErrTokenExpired", err)
	}
}

func TestVerifyRequiresSubject(t *testing.T) {
	issuer, _ := NewTokenIssuer("test-secret")

	noSubject := jwt.NewWithClaims(jwt.SigningMethodHS256, jwtClaims{
		Role: RolePatient,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
	})
	signed, err := noSubject.SignedString([]byte("test-secret"))
	if err != nil {
		t.Fatalf("sign: %v", err)
	}

	if _, err := issuer.Verify(signed); !errors.Is(err, ErrTokenMalformed) {
		t.Errorf("got %v, want ErrTokenMalformed", err)
	}
}
