package token

import "testing"

func TestTokenRoundTrip(t *testing.T) {
	svc := NewService("unit-test-secret", 1)

	signed, err := svc.Generate("user-123", "admin")
	if err != nil {
		t.Fatalf("generate: %v", err)
	}

	claims, err := svc.Parse(signed)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if claims.UserID != "user-123" || claims.Role != "admin" {
		t.Fatalf("claims = %+v", claims)
	}
}

func TestTokenWrongSecret(t *testing.T) {
	signed, err := NewService("secret-a", 1).Generate("user-123", "user")
	if err != nil {
		t.Fatalf("generate: %v", err)
	}

	if _, err := NewService("secret-b", 1).Parse(signed); err == nil {
		t.Fatal("token signed with a different secret was accepted")
	}
}

func TestTokenGarbage(t *testing.T) {
	svc := NewService("unit-test-secret", 1)
	for _, input := range []string{"", "not.a.token", "a.b"} {
		if _, err := svc.Parse(input); err == nil {
			t.Errorf("Parse(%q) succeeded, want error", input)
		}
	}
}
