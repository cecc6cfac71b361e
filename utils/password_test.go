package utils

import "testing"

func TestPasswordRoundTrip(t *testing.T) {
	hash, err := HashPassword("hunter22")
	if err != nil {
		t.Fatalf("HashPassword: %v", err)
	}
	if hash == "hunter22" {
		t.Fatal("hash equals plaintext")
	}

	ok, err := CheckPassword(hash, "hunter22")
	if err != nil {
		t.Fatalf("CheckPassword: %v", err)
	}
	if !ok {
		t.Fatal("correct password rejected")
	}

	ok, err = CheckPassword(hash, "hunter23")
	if err != nil {
		t.Fatalf("CheckPassword with wrong password: %v", err)
	}
	if ok {
		t.Fatal("wrong password accepted")
	}
}

func TestCheckPasswordCorruptHash(t *testing.T) {
	ok, err := CheckPassword("not-a-bcrypt-hash", "whatever")
	if err == nil {
		t.Fatal("corrupt hash reported no error")
	}
	if ok {
		t.Fatal("corrupt hash verified successfully")
	}
}

func TestHashPasswordSalted(t *testing.T) {
	a, err := HashPassword("same-password")
	if err != nil {
		t.Fatalf("HashPassword: %v", err)
	}
	b, err := HashPassword("same-password")
	if err != nil {
		t.Fatalf("HashPassword: %v", err)
	}
	if a == b {
		t.Fatal("two hashes of the same password are identical")
	}
}
