package services

import (
	"context"
	"strings"
	"testing"
	"time"

	"gorm.io/gorm"

	"github.com/uniquiz/uniquiz-backend/internal/repos"
	"github.com/uniquiz/uniquiz-backend/internal/repos/testutil"
	"github.com/uniquiz/uniquiz-backend/internal/requestdata"
	"github.com/uniquiz/uniquiz-backend/internal/types"
)

func newAuthServiceForTest(t *testing.T, tx *gorm.DB) AuthService {
	t.Helper()
	log := testutil.Logger(t)
	return NewAuthService(
		tx,
		log,
		repos.NewUserRepo(tx, log),
		repos.NewUserTokenRepo(tx, log),
		nil,
		"test-secret",
		time.Hour,
		24*time.Hour,
	)
}

func TestAuthService_RegisterNormalizesAndHashes(t *testing.T) {
	tx := testutil.Tx(t)
	svc := newAuthServiceForTest(t, tx)
	ctx := context.Background()

	user := &types.User{
		Email:     "  Alice@Example.COM  ",
		Password:  "secret123",
		FirstName: " Alice ",
		LastName:  " Doe ",
	}
	if err := svc.RegisterUser(ctx, user); err != nil {
		t.Fatalf("RegisterUser failed: %v", err)
	}
	if user.Email != "alice@example.com" || user.FirstName != "Alice" {
		t.Fatalf("expected normalized fields, got %q / %q", user.Email, user.FirstName)
	}
	if user.Password == "secret123" {
		t.Fatalf("expected hashed password")
	}

	dup := &types.User{Email: "alice@example.com", Password: "x", FirstName: "A", LastName: "B"}
	err := svc.RegisterUser(ctx, dup)
	if err == nil || !strings.Contains(err.Error(), "already in use") {
		t.Fatalf("expected duplicate email rejection, got %v", err)
	}
}

func TestAuthService_LoginIssuesTokensAndRotatesOnRelogin(t *testing.T) {
	tx := testutil.Tx(t)
	svc := newAuthServiceForTest(t, tx)
	ctx := context.Background()

	user := &types.User{Email: "bob@example.com", Password: "secret123", FirstName: "Bob", LastName: "Lee"}
	if err := svc.RegisterUser(ctx, user); err != nil {
		t.Fatalf("RegisterUser failed: %v", err)
	}

	access1, refresh1, err := svc.LoginUser(ctx, "bob@example.com", "secret123")
	if err != nil {
		t.Fatalf("LoginUser failed: %v", err)
	}
	if access1 == "" || refresh1 == "" {
		t.Fatalf("expected non-empty tokens")
	}

	if _, _, err := svc.LoginUser(ctx, "bob@example.com", "wrong"); err == nil {
		t.Fatalf("expected wrong password to fail")
	}

	_, refresh2, err := svc.LoginUser(ctx, "bob@example.com", "secret123")
	if err != nil {
		t.Fatalf("second LoginUser failed: %v", err)
	}
	if refresh2 == refresh1 {
		t.Fatalf("expected re-login to rotate the refresh token")
	}

	var tokenCount int64
	if err := tx.Model(&types.UserToken{}).Where("user_id = ?", user.ID).Count(&tokenCount).Error; err != nil {
		t.Fatalf("failed counting tokens: %v", err)
	}
	if tokenCount != 1 {
		t.Fatalf("expected a single live token row, got %d", tokenCount)
	}
}

func TestAuthService_SetContextFromTokenPopulatesRequestData(t *testing.T) {
	tx := testutil.Tx(t)
	svc := newAuthServiceForTest(t, tx)
	ctx := context.Background()

	user := &types.User{Email: "carol@example.com", Password: "secret123", FirstName: "Carol", LastName: "Ng"}
	if err := svc.RegisterUser(ctx, user); err != nil {
		t.Fatalf("RegisterUser failed: %v", err)
	}
	access, refresh, err := svc.LoginUser(ctx, "carol@example.com", "secret123")
	if err != nil {
		t.Fatalf("LoginUser failed: %v", err)
	}

	authedCtx, err := svc.SetContextFromToken(ctx, access)
	if err != nil {
		t.Fatalf("SetContextFromToken failed: %v", err)
	}
	rd := requestdata.GetRequestData(authedCtx)
	if rd == nil {
		t.Fatalf("expected request data in context")
	}
	if rd.UserID != user.ID || rd.TokenString != access || rd.RefreshToken != refresh {
		t.Fatalf("unexpected request data: %+v", rd)
	}

	if _, err := svc.SetContextFromToken(ctx, "not-a-jwt"); err == nil {
		t.Fatalf("expected garbage token to fail")
	}
}

func TestAuthService_RefreshRotatesAndLogoutRevokes(t *testing.T) {
	tx := testutil.Tx(t)
	svc := newAuthServiceForTest(t, tx)
	ctx := context.Background()

	user := &types.User{Email: "dan@example.com", Password: "secret123", FirstName: "Dan", LastName: "Wu"}
	if err := svc.RegisterUser(ctx, user); err != nil {
		t.Fatalf("RegisterUser failed: %v", err)
	}
	access, _, err := svc.LoginUser(ctx, "dan@example.com", "secret123")
	if err != nil {
		t.Fatalf("LoginUser failed: %v", err)
	}

	authedCtx, err := svc.SetContextFromToken(ctx, access)
	if err != nil {
		t.Fatalf("SetContextFromToken failed: %v", err)
	}

	newAccess, newRefresh, err := svc.RefreshUser(authedCtx)
	if err != nil {
		t.Fatalf("RefreshUser failed: %v", err)
	}
	if newAccess == "" || newRefresh == "" {
		t.Fatalf("expected rotated tokens")
	}

	// The old access token no longer maps to a token row.
	if _, _, err := svc.RefreshUser(authedCtx); err == nil {
		t.Fatalf("expected second refresh with the stale token to fail")
	}

	authedCtx, err = svc.SetContextFromToken(ctx, newAccess)
	if err != nil {
		t.Fatalf("SetContextFromToken with rotated token failed: %v", err)
	}
	if err := svc.LogoutUser(authedCtx); err != nil {
		t.Fatalf("LogoutUser failed: %v", err)
	}

	var tokenCount int64
	if err := tx.Model(&types.UserToken{}).Where("user_id = ?", user.ID).Count(&tokenCount).Error; err != nil {
		t.Fatalf("failed counting tokens: %v", err)
	}
	if tokenCount != 0 {
		t.Fatalf("expected no token rows after logout, got %d", tokenCount)
	}
}
