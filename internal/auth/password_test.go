package auth

import "testing"

func TestHashPassword(t *testing.T) {
	hash, err := HashPassword("password123")
	if err != nil {
		t.Fatalf("HashPassword: %v", err)
	}
	if hash == "password123" || hash == "" {
		t.Fatal("hash must not be empty or the plaintext")
	}

	if !CheckPassword(hash, "password123") {
		t.Error("correct password rejected")
	}
	if CheckPassword(hash, "password124") {
		t.Error("wrong password accepted")
	}
	if CheckPassword(hash, "") {
		t.Error("empty password accepted")
	}
}

func TestHashPasswordSalted(t *testing.T) {
	h1, err := HashPassword("same-secret")
	if err != nil {
		t.Fatalf("HashPassword: %v", err)
	}
	h2, err := HashPassword("same-secret")
	if err != nil {
		t.Fatalf("HashPassword: %v", err)
	}
	if h1 == h2 {
		t.Error("two hashes of the same password must differ (salt)")
	}
}
