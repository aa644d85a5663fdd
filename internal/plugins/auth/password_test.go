package auth

import (
	"strings"
	"testing"

	"golang.org/x/crypto/bcrypt"
)

func TestBcryptHasher_RoundTrip(t *testing.T) {
	h := NewBcryptHasher(bcrypt.MinCost)

	hash, err := h.Hash("s3cret!")
	if err != nil {
		t.Fatalf("Hash: %v", err)
	}
	if hash == "s3cret!" || !strings.HasPrefix(hash, "$2a$") {
		t.Fatalf("unexpected hash format: %q", hash)
	}

	ok, err := h.Verify("s3cret!", hash)
	if err != nil || !ok {
		t.Errorf("Verify(correct) = %v, %v; want true, nil", ok, err)
	}

	ok, err = h.Verify("s3cret?", hash)
	if err != nil || ok {
		t.Errorf("Verify(wrong) = %v, %v; want false, nil", ok, err)
	}
}

func TestBcryptHasher_Salted(t *testing.T) {
	h := NewBcryptHasher(bcrypt.MinCost)

	a, err := h.Hash("same-password")
	if err != nil {
		t.Fatal(err)
	}
	b, err := h.Hash("same-password")
	if err != nil {
		t.Fatal(err)
	}
	if a == b {
		t.Error("two hashes of the same password should differ")
	}
}

func TestBcryptHasher_CorruptHash(t *testing.T) {
	h := NewBcryptHasher(bcrypt.MinCost)

	ok, err := h.Verify("whatever", "not-a-bcrypt-hash")
	if ok || err == nil {
		t.Errorf("Verify(corrupt) = %v, %v; want false, error", ok, err)
	}
}

func TestNewBcryptHasher_CostBounds(t *testing.T) {
	for _, cost := range []int{0, -1, bcrypt.MaxCost + 1} {
		h := NewBcryptHasher(cost).(*bcryptHasher)
		if h.cost != bcrypt.DefaultCost {
			t.Errorf("cost %d: got %d, want default %d", cost, h.cost, bcrypt.DefaultCost)
		}
	}
	if h := NewBcryptHasher(12).(*bcryptHasher); h.cost != 12 {
		t.Errorf("cost 12 not kept: %d", h.cost)
	}
}
