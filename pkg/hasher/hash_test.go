package hasher

import "testing"

func TestHash_Deterministic(t *testing.T) {
	in := "refresh-token-value"
	if Hash(in) != Hash(in) {
		t.Fatal("hash must be deterministic")
	}
}

func TestHash_DifferentInputs(t *testing.T) {
	if Hash("a") == Hash("b") {
		t.Fatal("different inputs should not produce the same hash")
	}
}

func TestHash_KnownVector(t *testing.T) {
	want := "2cf24dba5fb0a30e26e83b2ac5b9e29e1b161e5c1fa7425e73043362938b9824"
	if got := Hash("hello"); got != want {
		t.Fatalf("unexpected hash: got %s want %s", got, want)
	}
}

func TestVerify(t *testing.T) {
	h := Hash("tok")
	if !Verify("tok", h) {
		t.Fatal("verify should succeed for matching token")
	}
	if Verify("other", h) {
		t.Fatal("verify should fail for different token")
	}
}
