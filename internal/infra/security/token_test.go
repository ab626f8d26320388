package security

import (
	"crypto/sha256"
	"encoding/base64"
	"encoding/hex"
	"testing"
)

func TestGenerateSecureToken(t *testing.T) {
	token, err := GenerateSecureToken(32)
	if err != nil {
		t.Fatalf("GenerateSecureToken returned error: %v", err)
	}

	decoded, err := base64.RawURLEncoding.DecodeString(token)
	if err != nil {
		t.Fatalf("token is not URL-safe base64: %v", err)
	}
	if len(decoded) != 32 {
		t.Fatalf("decoded length = %d, want 32", len(decoded))
	}

	other, err := GenerateSecureToken(32)
	if err != nil {
		t.Fatalf("GenerateSecureToken returned error: %v", err)
	}
	if token == other {
		t.Fatal("two generated tokens are identical")
	}
}

func TestGenerateSecureTokenRejectsNonPositiveLength(t *testing.T) {
	for _, n := range []int{0, -1} {
		if _, err := GenerateSecureToken(n); err == nil {
			t.Fatalf("expected error for length %d", n)
		}
	}
}

func TestHashToken(t *testing.T) {
	value := "opaque-reset-token"
	sum := sha256.Sum256([]byte(value))

	if got := HashToken(value); got != hex.EncodeToString(sum[:]) {
		t.Fatalf("HashToken mismatch: %s", got)
	}

	if HashToken(value) != HashToken(value) {
		t.Fatal("HashToken is not deterministic")
	}
	if HashToken(value) == HashToken(value+"x") {
		t.Fatal("distinct values produced the same hash")
	}
}
