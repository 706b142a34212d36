package auth

import (
	"testing"

	"orgflow-backend/internal/config"
	"orgflow-backend/internal/models"
)

func TestPasswordRoundTrip(t *testing.T) {
	hash, err := HashPassword("s3cret-password")
	if err != nil {
		t.Fatalf("HashPassword: %v", err)
	}
	if hash == "s3cret-password" {
		t.Fatal("hash must not equal the plaintext")
	}

	if !VerifyPassword(hash, "s3cret-password") {
		t.Error("correct password rejected")
	}
	if VerifyPassword(hash, "wrong-password") {
		t.Error("wrong password accepted")
	}
	if VerifyPassword(hash, "") {
		t.Error("empty password accepted")
	}
}

func TestJWTRoundTrip(t *testing.T) {
	cfg := &config.Config{}
	cfg.JWT.Secret = "test-secret"
	cfg.JWT.ExpirationHours = 1
	cfg.JWT.Issuer = "test"

	manager := NewJWTManager(cfg)

	principal := &models.Principal{
		ID:        20,
		Username:  "mallory",
		Role:      models.RoleManager,
		CompanyID: 10,
		BranchID:  5,
	}

	token, err := manager.GenerateToken(principal)
	if err != nil {
		t.Fatalf("GenerateToken: %v", err)
	}

	claims, err := manager.ValidateToken(token)
	if err != nil {
		t.Fatalf("ValidateToken: %v", err)
	}
	if claims.PrincipalID != 20 || claims.Username != "mallory" || claims.Role != models.RoleManager {
		t.Errorf("claims = %+v, want principal 20 mallory manager", claims)
	}
	if claims.CompanyID != 10 || claims.BranchID != 5 {
		t.Errorf("scope = (%d, %d), want (10, 5)", claims.CompanyID, claims.BranchID)
	}
}

func TestJWTRejectsForeignSignature(t *testing.T) {
	cfgA := &config.Config{}
	cfgA.JWT.Secret = "secret-a"
	cfgA.JWT.ExpirationHours = 1

	cfgB := &config.Config{}
	cfgB.JWT.Secret = "secret-b"
	cfgB.JWT.ExpirationHours = 1

	token, err := NewJWTManager(cfgA).GenerateToken(&models.Principal{ID: 1, Username: "x", Role: models.RoleAdmin})
	if err != nil {
		t.Fatalf("GenerateToken: %v", err)
	}

	if _, err := NewJWTManager(cfgB).ValidateToken(token); err == nil {
		t.Error("token signed with another secret validated")
	}
}
