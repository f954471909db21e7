package auth

import (
	"strings"
	"testing"
)

func TestPasswordRoundTrip(t *testing.T) {
	hash, err := HashPassword("correct-horse-battery-staple")
	if err != nil {
		t.Fatalf("HashPassword: %v", err)
	}
	if !strings.HasPrefix(hash, "$argon2id$v=19$") {
		t.Fatalf("hash has unexpected format: %s", hash)
	}

	ok, err := VerifyPassword("correct-horse-battery-staple", hash)
	if err != nil {
		t.Fatalf("VerifyPassword: %v", err)
	}
	if !ok {
		t.Error("correct password did not verify")
	}

	ok, err = VerifyPassword("incorrect-horse", hash)
	if err != nil {
		t.Fatalf("VerifyPassword: %v", err)
	}
	if ok {
		t.Error("wrong password verified")
	}
}

func TestHashesAreSalted(t *testing.T) {
	h1, err := HashPassword("same-password")
	if err != nil {
		t.Fatalf("HashPassword: %v", err)
	}
	h2, err := HashPassword("same-password")
	if err != nil {
		t.Fatalf("HashPassword: %v", err)
	}
	if h1 == h2 {
		t.Fatal("two hashes of the same password are identical; salt is not random")
	}

	for _, h := range []string{h1, h2} {
		ok, err := VerifyPassword("same-password", h)
		if err != nil || !ok {
			t.Errorf("password failed to verify against its own hash: ok=%v err=%v", ok, err)
		}
	}
}

func TestVerifyRejectsMangledHashes(t *testing.T) {
	hash, err := HashPassword("whatever")
	if err != nil {
		t.Fatalf("HashPassword: %v", err)
	}

	cases := map[string]string{
		"empty":           "",
		"not a hash":      "plaintext",
		"wrong algorithm": strings.Replace(hash, "argon2id", "bcrypt", 1),
		"truncated":       hash[:len(hash)/2],
	}
	for name, mangled := range cases {
		if ok, _ := VerifyPassword("whatever", mangled); ok {
			t.Errorf("%s: mangled hash verified", name)
		}
	}
}
