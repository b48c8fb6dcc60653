package auth_test

import (
	"testing"

	"github.com/golang-jwt/jwt/v5"

	"github.com/examlane/examlane/internal/auth"
)

func TestIssueAndParse(t *testing.T) {
	svc := auth.NewAuthService("test-secret")

	t.Run("ValidToken", func(t *testing.T) {
		tok, err := svc.IssueJWT("teacher-1", "Ada")
		if err != nil {
			t.Fatalf("IssueJWT: %v", err)
		}
		claims, err := svc.Parse(tok)
		if err != nil {
			t.Fatalf("Parse: %v", err)
		}
		if claims.Sub != "teacher-1" {
			t.Errorf("Sub = %q, want teacher-1", claims.Sub)
		}
		if claims.Name != "Ada" {
			t.Errorf("Name = %q, want Ada", claims.Name)
		}
	})

	t.Run("WrongKey", func(t *testing.T) {
		tok, err := svc.IssueJWT("teacher-1", "Ada")
		if err != nil {
			t.Fatal(err)
		}
		other := auth.NewAuthService("different-secret")
		if _, err := other.Parse(tok); err == nil {
			t.Fatal("Parse should fail with a different signing key")
		}
	})

	t.Run("Garbage", func(t *testing.T) {
		if _, err := svc.Parse("not.a.token"); err == nil {
			t.Fatal("Parse should fail on garbage input")
		}
	})

	t.Run("WrongAlgorithm", func(t *testing.T) {
		none := jwt.NewWithClaims(jwt.SigningMethodNone, jwt.MapClaims{"sub": "x"})
		tok, err := none.SignedString(jwt.UnsafeAllowNoneSignatureType)
		if err != nil {
			t.Fatal(err)
		}
		if _, err := svc.Parse(tok); err == nil {
			t.Fatal("Parse should reject unsigned tokens")
		}
	})
}
