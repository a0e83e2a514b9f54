package auth

import (
	"errors"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

func TestGenerateAndValidateToken(t *testing.T) {
	secret := "test-secret-key"
	now := time.Now()

	token, issued, err := GenerateToken(secret, "admin", now)
	if err != nil {
		t.Fatalf("GenerateToken: %v", err)
	}

	claims, err := ValidateToken(secret, token)
	if err != nil {
		t.Fatalf("ValidateToken: %v", err)
	}
	if claims.Subject != "admin" {
		t.Errorf("expected subject admin, got %q", claims.Subject)
	}
	if claims.Scope != ScopeRead {
		t.Errorf("expected scope %q, got %q", ScopeRead, claims.Scope)
	}
	if claims.ID == "" || claims.ID != issued.ID {
		t.Errorf("expected JTI %q, got %q", issued.ID, claims.ID)
	}

	diff := claims.ExpiresAt.Time.Sub(now.Add(TokenExpiry))
	if diff < -time.Second || diff > time.Second {
		t.Errorf("expiry off by %v", diff)
	}
}

func TestUniqueJTI(t *testing.T) {
	_, a, _ := GenerateToken("s", "admin", time.Now())
	_, b, _ := GenerateToken("s", "admin", time.Now())
	if a.ID == b.ID {
		t.Error("expected distinct JTIs")
	}
}

func TestValidateTokenRejects(t *testing.T) {
	good, _, _ := GenerateToken("secret1", "admin", time.Now())
	expired, _, _ := GenerateToken("secret1", "admin", time.Now().Add(-2*TokenExpiry))

	wrongScope, _ := jwt.NewWithClaims(jwt.SigningMethodHS256, &Claims{
		Scope: "countdowns:write",
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        "x",
			Issuer:    Issuer,
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
	}).SignedString([]byte("secret1"))

	noneAlg, _ := jwt.NewWithClaims(jwt.SigningMethodNone, &Claims{Scope: ScopeRead}).
		SignedString(jwt.UnsafeAllowNoneSignatureType)

	tests := map[string]struct{ secret, token string }{
		"wrong secret": {"secret2", good},
		"expired":      {"secret1", expired},
		"garbage":      {"secret1", "not-a-token"},
		"wrong scope":  {"secret1", wrongScope},
		"alg none":     {"secret1", noneAlg},
	}
	for name, tt := range tests {
		if _, err := ValidateToken(tt.secret, tt.token); !errors.Is(err, ErrInvalidToken) {
			t.Errorf("%s: expected ErrInvalidToken, got %v", name, err)
		}
	}
}

func TestPasswordHashing(t *testing.T) {
	password, err := GeneratePassword()
	if err != nil {
		t.Fatalf("GeneratePassword: %v", err)
	}
	if len(password) != 24 {
		t.Errorf("expected 24-character password, got %d", len(password))
	}

	hash, err := HashPassword(password)
	if err != nil {
		t.Fatalf("HashPassword: %v", err)
	}
	if !CheckPassword(hash, password) {
		t.Error("expected password to match its hash")
	}
	if CheckPassword(hash, password+"x") {
		t.Error("expected wrong password to be rejected")
	}
}
