package utils

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

func TestEpochRoundTrip(t *testing.T) {
	in := "2024-01-10T09:00:00Z"
	millis, err := FromEpoch(in)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if got := FormatEpoch(millis); got != in {
		t.Fatalf("round trip mismatch: %s", got)
	}
}

func TestFromEpochRejectsGarbage(t *testing.T) {
	for _, in := range []string{"", "2024-01-10", "not a time", "2024-13-40T09:00:00Z"} {
		if _, err := FromEpoch(in); err == nil {
			t.Fatalf("expected error for %q", in)
		}
	}
}

func TestSanitize(t *testing.T) {
	type req struct {
		Name string
		Tags []string
		N    int
	}
	r := &req{Name: "  padded  ", Tags: []string{" a ", "b"}, N: 3}
	Sanitize(r)
	if r.Name != "padded" {
		t.Fatalf("name not trimmed: %q", r.Name)
	}
	if r.Tags[0] != "a" || r.Tags[1] != "b" {
		t.Fatalf("tags not trimmed: %v", r.Tags)
	}
	if r.N != 3 {
		t.Fatalf("non-string field changed: %d", r.N)
	}
}

func signTestToken(t *testing.T, claims *TokenData, secret string) string {
	t.Helper()
	raw, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(secret))
	if err != nil {
		t.Fatalf("sign token: %v", err)
	}
	return raw
}

func TestParseTokenRoundTrip(t *testing.T) {
	const secret = "test-secret"
	claims := &TokenData{Sub: "user-123", Role: "COORDINATOR"}
	claims.ExpiresAt = jwt.NewNumericDate(time.Now().Add(time.Hour))

	raw := signTestToken(t, claims, secret)

	data, err := ParseToken(raw, secret)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if data.Sub != "user-123" || data.Role != "COORDINATOR" {
		t.Fatalf("claims mismatch: %+v", data)
	}

	if _, err := ParseToken(raw, "wrong-secret"); err == nil {
		t.Fatal("expected failure with wrong secret")
	}
	if _, err := ParseToken("not.a.token", secret); err == nil {
		t.Fatal("expected failure for malformed token")
	}
}

func TestParseTokenRejectsExpired(t *testing.T) {
	const secret = "test-secret"
	claims := &TokenData{Sub: "user-123"}
	claims.ExpiresAt = jwt.NewNumericDate(time.Now().Add(-time.Hour))

	raw := signTestToken(t, claims, secret)
	if _, err := ParseToken(raw, secret); err == nil {
		t.Fatal("expected failure for expired token")
	}
}
