package auth

import (
	"errors"
	"testing"
	"time"
)

func TestJWTRoundTrip(t *testing.T) {
	m := NewJWTManager("test-secret", time.Hour)

	token, err := m.Generate("acc-1", "ana@example.com")
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}

	claims, err := m.Validate(token)
	if err != nil {
		t.Fatalf("Validate: %v", err)
	}
	if claims.UserID != "acc-1" || claims.Email != "ana@example.com" {
		t.Errorf("unexpected claims: %+v", claims)
	}
}

func TestJWTRejects(t *testing.T) {
	m := NewJWTManager("test-secret", time.Hour)
	token, _ := m.Generate("acc-1", "ana@example.com")

	t.Run("empty", func(t *testing.T) {
		if _, err := m.Validate(""); !errors.Is(err, ErrMissingToken) {
			t.Fatalf("expected ErrMissingToken, got %v", err)
		}
	})

	t.Run("other secret", func(t *testing.T) {
		other := NewJWTManager("another-secret", time.Hour)
		if _, err := other.Validate(token); !errors.Is(err, ErrInvalidToken) {
			t.Fatalf("expected ErrInvalidToken, got %v", err)
		}
	})

	t.Run("expired", func(t *testing.T) {
		expired := NewJWTManager("test-secret", -time.Minute)
		old, _ := expired.Generate("acc-1", "ana@example.com")
		if _, err := m.Validate(old); !errors.Is(err, ErrInvalidToken) {
			t.Fatalf("expected ErrInvalidToken, got %v", err)
		}
	})

	t.Run("garbage", func(t *testing.T) {
		if _, err := m.Validate("not.a.token"); !errors.Is(err, ErrInvalidToken) {
			t.Fatalf("expected ErrInvalidToken, got %v", err)
		}
	})
}

func TestPassword(t *testing.T) {
	if _, err := HashPassword("short"); !errors.Is(err, ErrWeakPassword) {
		t.Fatalf("expected ErrWeakPassword, got %v", err)
	}

	hash, err := HashPassword("secret123")
	if err != nil {
		t.Fatalf("HashPassword: %v", err)
	}
	if hash == "secret123" {
		t.Fatal("password stored in clear text")
	}
	if err := CheckPassword(hash, "secret123"); err != nil {
		t.Errorf("CheckPassword with correct password: %v", err)
	}
	if err := CheckPassword(hash, "wrong-pass"); !errors.Is(err, ErrInvalidCredentials) {
		t.Errorf("expected ErrInvalidCredentials, got %v", err)
	}
}
