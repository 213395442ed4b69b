package auth

import (
	"testing"
	"time"
)

func TestTokenRoundTrip(t *testing.T) {
	issuer := NewTokenIssuer("test-secret", time.Hour)

	token, err := issuer.Issue(42)
	if err != nil {
		t.Fatalf("Issue returned error: %v", err)
	}

	userID, err := issuer.Parse(token)
	if err != nil {
		t.Fatalf("Parse returned error: %v", err)
	}
	if userID != 42 {
		t.Fatalf("expected user id 42, got %d", userID)
	}
}

func TestTokenExpired(t *testing.T) {
	issuer := NewTokenIssuer("test-secret", time.Hour)
	// 构造一个已经过期的令牌
	issuer.ttl = -time.Hour

	token, err := issuer.Issue(7)
	if err != nil {
		t.Fatalf("Issue returned error: %v", err)
	}

	if _, err := issuer.Parse(token); err == nil {
		t.Fatal("expected error for expired token")
	}
}

func TestTokenWrongSecret(t *testing.T) {
	issuer := NewTokenIssuer("secret-a", time.Hour)
	other := NewTokenIssuer("secret-b", time.Hour)

	token, err := issuer.Issue(7)
	if err != nil {
		t.Fatalf("Issue returned error: %v", err)
	}

	if _, err := other.Parse(token); err == nil {
		t.Fatal("expected error for token signed with different secret")
	}
}

func TestTokenSecretMissing(t *testing.T) {
	issuer := NewTokenIssuer("", time.Hour)
	if _, err := issuer.Issue(1); err != ErrSecretMissing {
		t.Fatalf("expected ErrSecretMissing, got %v", err)
	}
}
