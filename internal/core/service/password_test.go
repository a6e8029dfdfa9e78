package service

import (
	"strings"
	"testing"

	"golang.org/x/crypto/bcrypt"
)

func TestBcryptHasher_HashAndVerify(t *testing.T) {
	h := NewBcryptHasher(bcrypt.MinCost)

	digest, err := h.Hash("admin123")
	if err != nil {
		t.Fatalf("hash: %v", err)
	}
	if digest == "admin123" || !strings.HasPrefix(digest, "$2") {
		t.Fatalf("unexpected digest format: %q", digest)
	}
	if !h.Verify("admin123", digest) {
		t.Fatalf("expected matching password to verify")
	}
	if h.Verify("admin124", digest) {
		t.Fatalf("expected wrong password to fail")
	}
}

func TestBcryptHasher_SaltsEachDigest(t *testing.T) {
	h := NewBcryptHasher(bcrypt.MinCost)

	a, _ := h.Hash("same")
	b, _ := h.Hash("same")
	if a == b {
		t.Fatalf("expected distinct digests for the same password")
	}
	if !h.Verify("same", a) || !h.Verify("same", b) {
		t.Fatalf("both digests should verify")
	}
}

func TestBcryptHasher_MalformedDigestIsMismatch(t *testing.T) {
	h := NewBcryptHasher(bcrypt.MinCost)
	if h.Verify("anything", "not-a-bcrypt-digest") {
		t.Fatalf("malformed digest must not verify")
	}
}

func TestNewBcryptHasher_ClampsCost(t *testing.T) {
	if got := NewBcryptHasher(0).cost; got != bcrypt.DefaultCost {
		t.Fatalf("expected default cost, got %d", got)
	}
	if got := NewBcryptHasher(bcrypt.MaxCost + 1).cost; got != bcrypt.DefaultCost {
		t.Fatalf("expected default cost, got %d", got)
	}
}
