package auth

import (
	"testing"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

const testSecret = "test-secret"

func TestSessionTokenRoundTrip(t *testing.T) {
	userID := primitive.NewObjectID()

	token, err := IssueSessionToken(userID, testSecret, 15*time.Minute)
	if err != nil {
		t.Fatalf("IssueSessionToken returned error: %v", err)
	}

	got, err := VerifySessionToken(token, testSecret)
	if err != nil {
		t.Fatalf("VerifySessionToken returned error: %v", err)
	}
	if got != userID {
		t.Fatalf("expected user id %s, got %s", userID.Hex(), got.Hex())
	}
}

func TestSessionTokenExpired(t *testing.T) {
	token, err := IssueSessionToken(primitive.NewObjectID(), testSecret, -1*time.Minute)
	if err != nil {
		t.Fatalf("IssueSessionToken returned error: %v", err)
	}

	if _, err := VerifySessionToken(token, testSecret); err != ErrInvalidToken {
		t.Fatalf("expected ErrInvalidToken for expired token, got %v", err)
	}
}

func TestSessionTokenWrongSecret(t *testing.T) {
	token, err := IssueSessionToken(primitive.NewObjectID(), testSecret, 15*time.Minute)
	if err != nil {
		t.Fatalf("IssueSessionToken returned error: %v", err)
	}

	if _, err := VerifySessionToken(token, "other-secret"); err != ErrInvalidToken {
		t.Fatalf("expected ErrInvalidToken for wrong secret, got %v", err)
	}
}

func TestSessionTokenGarbage(t *testing.T) {
	if _, err := VerifySessionToken("not-a-token", testSecret); err != ErrInvalidToken {
		t.Fatalf("expected ErrInvalidToken for garbage input, got %v", err)
	}
}

func TestNewResetTokenStoresOnlyHash(t *testing.T) {
	plain, hash, err := NewResetToken()
	if err != nil {
		t.Fatalf("NewResetToken returned error: %v", err)
	}
	if plain == "" || hash == "" {
		t.Fatal("expected non-empty plaintext and hash")
	}
	if plain == hash {
		t.Fatal("plaintext must differ from stored hash")
	}
	if HashResetToken(plain) != hash {
		t.Fatal("hashing the plaintext must reproduce the stored hash")
	}
}

func TestNewResetTokenUnique(t *testing.T) {
	first, _, err := NewResetToken()
	if err != nil {
		t.Fatalf("NewResetToken returned error: %v", err)
	}
	second, _, err := NewResetToken()
	if err != nil {
		t.Fatalf("NewResetToken returned error: %v", err)
	}
	if first == second {
		t.Fatal("expected distinct reset tokens")
	}
}

func TestPasswordHashNeverPlaintext(t *testing.T) {
	const plain = "s3cret-password"

	hash, err := HashPassword(plain)
	if err != nil {
		t.Fatalf("HashPassword returned error: %v", err)
	}
	if hash == plain {
		t.Fatal("stored hash must not equal the plaintext password")
	}

	if !CheckPassword(hash, plain) {
		t.Fatal("correct password must verify against its hash")
	}
	if CheckPassword(hash, "wrong-password") {
		t.Fatal("wrong password must not verify")
	}
}
