package jwt

import (
	"strings"
	"testing"
	"time"
)

const testSecret = "unit-test-secret"

func TestGenerateParseRoundTrip(t *testing.T) {
	token, err := GenerateToken("user-42", testSecret, time.Hour)
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	claims, err := Parse(token, testSecret)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if claims.UserID != "user-42" {
		t.Fatalf("expected user-42, got %q", claims.UserID)
	}
}

func TestParseRejectsExpiredToken(t *testing.T) {
	token, err := GenerateToken("user-42", testSecret, -time.Minute)
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	if _, err := Parse(token, testSecret); err == nil {
		t.Fatal("expected expired token to be rejected")
	}
}

func TestParseRejectsWrongSecret(t *testing.T) {
	token, err := GenerateToken("user-42", testSecret, time.Hour)
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	if _, err := Parse(token, "other-secret"); err == nil {
		t.Fatal("expected wrong-secret token to be rejected")
	}
}

func TestParseRejectsTamperedToken(t *testing.T) {
	token, err := GenerateToken("user-42", testSecret, time.Hour)
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	// Flip a byte in every position; none may verify. Skip positions where
	// the flip produces the same base64 alphabet character.
	for i := 0; i < len(token); i++ {
		if token[i] == '.' {
			continue
		}
		flipped := flipChar(token[i])
		tampered := token[:i] + string(flipped) + token[i+1:]
		if tampered == token {
			continue
		}
		if _, err := Parse(tampered, testSecret); err == nil {
			t.Fatalf("tampered token accepted at position %d", i)
		}
	}
}

func TestParseRejectsMalformedToken(t *testing.T) {
	for _, raw := range []string{"", "garbage", "a.b", strings.Repeat("x", 100)} {
		if _, err := Parse(raw, testSecret); err == nil {
			t.Fatalf("malformed token %q accepted", raw)
		}
	}
}

func flipChar(c byte) byte {
	if c == 'A' {
		return 'B'
	}
	return 'A'
}
