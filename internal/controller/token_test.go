package controller

import (
	"errors"
	"strings"
	"testing"
	"time"
)

func TestTokenRoundTrip(t *testing.T) {
	tokens, err := NewTokens([]byte("secret"), time.Hour)
	if err != nil {
		t.Fatal(err)
	}
	tok, err := tokens.Issue("session-1")
	if err != nil {
		t.Fatal(err)
	}
	sid, err := tokens.Verify(tok)
	if err != nil {
		t.Fatalf("Verify: %v", err)
	}
	if sid != "session-1" {
		t.Errorf("sid = %q, want session-1", sid)
	}
}

func TestTokenRejected(t *testing.T) {
	tokens, _ := NewTokens([]byte("secret"), time.Hour)
	other, _ := NewTokens([]byte("other"), time.Hour)
	good, _ := tokens.Issue("s")
	forged, _ := other.Issue("s")

	expiring, _ := NewTokens([]byte("secret"), time.Minute)
	old, _ := expiring.Issue("s")
	tokens.now = func() time.Time { return time.Now().Add(2 * time.Minute) }

	// flip a character of the signature
	last := good[len(good)-2]
	flip := byte('A')
	if last == 'A' {
		flip = 'B'
	}
	tampered := good[:len(good)-2] + string(flip) + good[len(good)-1:]

	for name, tok := range map[string]string{
		"empty":    "",
		"garbage":  "not.a.token",
		"forged":   forged,
		"expired":  old,
		"tampered": tampered,
	} {
		if _, err := tokens.Verify(tok); !errors.Is(err, ErrInvalidToken) {
			t.Errorf("%s: err = %v, want ErrInvalidToken", name, err)
		}
	}
}

func TestRandomSecret(t *testing.T) {
	a, err := NewTokens(nil, time.Hour)
	if err != nil {
		t.Fatal(err)
	}
	b, _ := NewTokens(nil, time.Hour)
	tok, _ := a.Issue("s")
	if _, err := b.Verify(tok); err == nil {
		t.Error("token verified under a different random secret")
	}
	if strings.Count(tok, ".") != 2 {
		t.Errorf("token %q is not a JWT", tok)
	}
}
