package auth

import (
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/kmartindale/SceneIt/internal/models"
)

func TestHashAndCheckPassword(t *testing.T) {
	t.Parallel()

	hash, err := HashPassword("correct horse battery staple")
	if err != nil {
		t.Fatalf("hash: %v", err)
	}
	if !CheckPassword(hash, "correct horse battery staple") {
		t.Fatal("correct password rejected")
	}
	if CheckPassword(hash, "wrong") {
		t.Fatal("wrong password accepted")
	}
}

func TestTokenRoundTrip(t *testing.T) {
	t.Parallel()

	a, err := NewAuth("test-secret", time.Hour)
	if err != nil {
		t.Fatalf("new auth: %v", err)
	}

	user := &models.User{ID: uuid.New(), Role: models.RoleAdmin}
	token, err := a.GenerateToken(user)
	if err != nil {
		t.Fatalf("generate: %v", err)
	}

	claims, err := a.ValidateToken(token)
	if err != nil {
		t.Fatalf("validate: %v", err)
	}
	if claims.UserID != user.ID {
		t.Fatalf("user id = %s, want %s", claims.UserID, user.ID)
	}
	if claims.Role != models.RoleAdmin {
		t.Fatalf("role = %s, want admin", claims.Role)
	}
}

func TestValidateTokenRejectsWrongSecret(t *testing.T) {
	t.Parallel()

	a1, _ := NewAuth("secret-one", time.Hour)
	a2, _ := NewAuth("secret-two", time.Hour)

	token, err := a1.GenerateToken(&models.User{ID: uuid.New(), Role: models.RoleUser})
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	if _, err := a2.ValidateToken(token); err == nil {
		t.Fatal("token signed with a different secret accepted")
	}
	if _, err := a1.ValidateToken("not.a.token"); err == nil {
		t.Fatal("garbage token accepted")
	}
}

func TestNewAuthRequiresSecret(t *testing.T) {
	t.Parallel()

	if _, err := NewAuth("", time.Hour); err == nil {
		t.Fatal("empty secret accepted")
	}
}

func TestCheckPermission(t *testing.T) {
	t.Parallel()

	a, _ := NewAuth("test-secret", time.Hour)

	if !a.CheckPermission(models.RoleAdmin, models.RoleAdmin) {
		t.Fatal("admin denied admin action")
	}
	if a.CheckPermission(models.RoleUser, models.RoleAdmin) {
		t.Fatal("user allowed admin action")
	}
	if !a.CheckPermission(models.RoleUser, models.RoleUser) {
		t.Fatal("user denied user action")
	}
	if !a.CheckPermission(models.RoleAdmin, models.RoleUser) {
		t.Fatal("admin denied user action")
	}
}
