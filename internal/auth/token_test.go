package auth

import (
	"errors"
	"strings"
	"testing"
	"time"
)

func testClock(at time.Time) func() time.Time {
	return func() time.Time { return at }
}

func TestCodecIssueAndVerify(t *testing.T) {
	issued := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	codec, err := NewCodec("test-secret", WithClock(testClock(issued)))
	if err != nil {
		t.Fatalf("NewCodec: %v", err)
	}

	token, expiresAt, err := codec.Issue(42, RoleTeacher)
	if err != nil {
		t.Fatalf("Issue: %v", err)
	}
	if token == "" {
		t.Fatal("empty token issued")
	}
	if want := issued.Add(24 * time.Hour); !expiresAt.Equal(want) {
		t.Fatalf("unexpected expiry: got %v want %v", expiresAt, want)
	}

	identity, err := codec.Verify(token)
	if err != nil {
		t.Fatalf("Verify: %v", err)
	}
	if identity.UserID != 42 {
		t.Fatalf("unexpected user id: %d", identity.UserID)
	}
	if identity.Role != RoleTeacher {
		t.Fatalf("unexpected role: %s", identity.Role)
	}
}

func TestCodecRejectsTamperedSignature(t *testing.T) {
	codec, err := NewCodec("test-secret")
	if err != nil {
		t.Fatalf("NewCodec: %v", err)
	}
	token, _, err := codec.Issue(7, RoleStudent)
	if err != nil {
		t.Fatalf("Issue: %v", err)
	}

	// Flip a character in the signature segment.
	i := strings.LastIndex(token, ".") + 1
	flipped := byte('A')
	if token[i] == 'A' {
		flipped = 'B'
	}
	tampered := token[:i] + string(flipped) + token[i+1:]

	if _, err := codec.Verify(tampered); !errors.Is(err, ErrInvalidToken) {
		t.Fatalf("expected ErrInvalidToken, got %v", err)
	}
}

func TestCodecRejectsWrongSecret(t *testing.T) {
	issuerCodec, _ := NewCodec("secret-one")
	verifier, _ := NewCodec("secret-two")

	token, _, err := issuerCodec.Issue(7, RoleAdmin)
	if err != nil {
		t.Fatalf("Issue: %v", err)
	}
	if _, err := verifier.Verify(token); !errors.Is(err, ErrInvalidToken) {
		t.Fatalf("expected ErrInvalidToken, got %v", err)
	}
}

func TestCodecExpiryBoundary(t *testing.T) {
	issued := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	now := issued
	codec, err := NewCodec("test-secret", WithClock(func() time.Time { return now }))
	if err != nil {
		t.Fatalf("NewCodec: %v", err)
	}

	token, _, err := codec.Issue(5, RoleStudent)
	if err != nil {
		t.Fatalf("Issue: %v", err)
	}

	now = issued.Add(24*time.Hour - time.Second)
	if _, err := codec.Verify(token); err != nil {
		t.Fatalf("token should still verify just before expiry: %v", err)
	}

	now = issued.Add(24*time.Hour + time.Second)
	if _, err := codec.Verify(token); !errors.Is(err, ErrInvalidToken) {
		t.Fatalf("expected ErrInvalidToken after expiry, got %v", err)
	}
}

func TestCodecRejectsForeignIssuer(t *testing.T) {
	other, _ := NewCodec("test-secret", WithIssuer("other-platform"))
	codec, _ := NewCodec("test-secret")

	token, _, err := other.Issue(9, RoleStudent)
	if err != nil {
		t.Fatalf("Issue: %v", err)
	}
	if _, err := codec.Verify(token); !errors.Is(err, ErrInvalidToken) {
		t.Fatalf("expected ErrInvalidToken, got %v", err)
	}
}

func TestCodecRejectsGarbage(t *testing.T) {
	codec, _ := NewCodec("test-secret")
	for _, raw := range []string{"", "   ", "not.a.jwt", "a.b"} {
		if _, err := codec.Verify(raw); !errors.Is(err, ErrInvalidToken) {
			t.Fatalf("Verify(%q): expected ErrInvalidToken, got %v", raw, err)
		}
	}
}

func TestCodecIssueValidation(t *testing.T) {
	codec, _ := NewCodec("test-secret")
	if _, _, err := codec.Issue(0, RoleStudent); err == nil {
		t.Fatal("expected error for zero user id")
	}
	if _, _, err := codec.Issue(1, Role("superuser")); err == nil {
		t.Fatal("expected error for unknown role")
	}
}

func TestNewCodecRequiresSecret(t *testing.T) {
	if _, err := NewCodec("  "); err == nil {
		t.Fatal("expected error for blank secret")
	}
}

func TestCodecWithTTL(t *testing.T) {
	issued := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	codec, err := NewCodec("test-secret", WithTTL(time.Hour), WithClock(testClock(issued)))
	if err != nil {
		t.Fatalf("NewCodec: %v", err)
	}
	_, expiresAt, err := codec.Issue(3, RoleAdmin)
	if err != nil {
		t.Fatalf("Issue: %v", err)
	}
	if want := issued.Add(time.Hour); !expiresAt.Equal(want) {
		t.Fatalf("unexpected expiry: got %v want %v", expiresAt, want)
	}
}
