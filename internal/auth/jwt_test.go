package auth

import (
	"testing"
	"time"

	"github.com/google/uuid"
)

func TestGenerateAndParseJWT(t *testing.T) {
	sessionID := uuid.New()

	token, err := GenerateJWT("secret", sessionID, time.Hour)
	if err != nil {
		t.Fatalf("GenerateJWT: %v", err)
	}

	claims, err := ParseJWT("secret", token)
	if err != nil {
		t.Fatalf("ParseJWT: %v", err)
	}
	if claims.SessionID != sessionID {
		t.Errorf("session id = %s, want %s", claims.SessionID, sessionID)
	}
	if claims.Issuer != "flows-studio" {
		t.Errorf("issuer = %q", claims.Issuer)
	}
}

func TestParseJWTRejectsWrongSecret(t *testing.T) {
	token, err := GenerateJWT("secret", uuid.New(), time.Hour)
	if err != nil {
		t.Fatalf("GenerateJWT: %v", err)
	}
	if _, err := ParseJWT("other-secret", token); err == nil {
		t.Fatal("token accepted with wrong secret")
	}
}

func TestParseJWTRejectsExpired(t *testing.T) {
	token, err := GenerateJWT("secret", uuid.New(), time.Millisecond)
	if err != nil {
		t.Fatalf("GenerateJWT: %v", err)
	}
	time.Sleep(50 * time.Millisecond)
	if _, err := ParseJWT("secret", token); err == nil {
		t.Fatal("expired token accepted")
	}
}

func TestParseJWTRejectsGarbage(t *testing.T) {
	if _, err := ParseJWT("secret", "not.a.token"); err == nil {
		t.Fatal("garbage token accepted")
	}
}
