package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"gorm.io/gorm"

	"github.com/pylearnhq/pylearn-backend/internal/data/repos"
	"github.com/pylearnhq/pylearn-backend/internal/data/repos/testutil"
	apperrors "github.com/pylearnhq/pylearn-backend/internal/pkg/errors"
	"github.com/pylearnhq/pylearn-backend/internal/requestdata"
)

func newAuthService(t *testing.T, tx *gorm.DB) AuthService {
	t.Helper()
	log := testutil.Logger(t)
	return NewAuthService(
		tx, log,
		repos.NewUserRepo(tx, log),
		repos.NewUserTokenRepo(tx, log),
		repos.NewLoginEventRepo(tx, log),
		newMemoryLoginLimiter(),
		"test-secret",
		time.Hour,
		24*time.Hour,
		[]string{"Admin@Example.com"},
	)
}

func TestAuth_RegisterValidation(t *testing.T) {
	ctx := context.Background()
	tx := testutil.Tx(t, testutil.DB(t))
	svc := newAuthService(t, tx)

	if _, err := svc.RegisterUser(ctx, "not-an-email", "Student", "longenough"); err == nil {
		t.Fatalf("bad email must be rejected")
	}
	if _, err := svc.RegisterUser(ctx, "student@example.com", "Student", "short"); err == nil {
		t.Fatalf("short password must be rejected")
	}

	user, err := svc.RegisterUser(ctx, " Student@Example.com ", "Student", "longenough")
	if err != nil {
		t.Fatalf("register: %v", err)
	}
	if user.Email != "student@example.com" {
		t.Fatalf("email not normalized: %q", user.Email)
	}
	if user.Password == "longenough" {
		t.Fatalf("password stored in plaintext")
	}

	if _, err := svc.RegisterUser(ctx, "student@example.com", "Student", "longenough"); err == nil {
		t.Fatalf("duplicate registration must be rejected")
	}
}

func TestAuth_LoginIssuesUsableToken(t *testing.T) {
	ctx := context.Background()
	tx := testutil.Tx(t, testutil.DB(t))
	svc := newAuthService(t, tx)

	if _, err := svc.RegisterUser(ctx, "login@example.com", "Student", "longenough"); err != nil {
		t.Fatalf("register: %v", err)
	}

	access, refresh, err := svc.LoginUser(ctx, "login@example.com", "longenough")
	if err != nil {
		t.Fatalf("login: %v", err)
	}
	if access == "" || refresh == "" {
		t.Fatalf("expected both tokens")
	}

	authed, err := svc.SetContextFromToken(ctx, access)
	if err != nil {
		t.Fatalf("set context: %v", err)
	}
	rd := requestdata.GetRequestData(authed)
	if rd == nil || rd.Email != "login@example.com" {
		t.Fatalf("request data not populated: %+v", rd)
	}
	if svc.IsAdmin(authed) {
		t.Fatalf("plain user must not be admin")
	}
}

func TestAuth_WrongPasswordIsUnauthorized(t *testing.T) {
	ctx := context.Background()
	tx := testutil.Tx(t, testutil.DB(t))
	svc := newAuthService(t, tx)

	if _, err := svc.RegisterUser(ctx, "wrongpw@example.com", "Student", "longenough"); err != nil {
		t.Fatalf("register: %v", err)
	}

	_, _, err := svc.LoginUser(ctx, "wrongpw@example.com", "not-it")
	if !errors.Is(err, apperrors.ErrUnauthorized) {
		t.Fatalf("expected ErrUnauthorized, got %v", err)
	}
}

func TestAuth_LockoutAfterRepeatedFailures(t *testing.T) {
	ctx := context.Background()
	tx := testutil.Tx(t, testutil.DB(t))
	svc := newAuthService(t, tx)

	if _, err := svc.RegisterUser(ctx, "lockout@example.com", "Student", "longenough"); err != nil {
		t.Fatalf("register: %v", err)
	}

	for i := 0; i < loginFailureLimit; i++ {
		if _, _, err := svc.LoginUser(ctx, "lockout@example.com", "bad"); err == nil {
			t.Fatalf("failure %d should error", i)
		}
	}

	// Correct password no longer helps until the window passes.
	_, _, err := svc.LoginUser(ctx, "lockout@example.com", "longenough")
	if err == nil {
		t.Fatalf("locked account must reject even the right password")
	}
	if errors.Is(err, apperrors.ErrUnauthorized) {
		t.Fatalf("lockout is not a credential failure: %v", err)
	}
}

func TestAuth_RefreshRotatesTokens(t *testing.T) {
	ctx := context.Background()
	tx := testutil.Tx(t, testutil.DB(t))
	svc := newAuthService(t, tx)

	if _, err := svc.RegisterUser(ctx, "refresh@example.com", "Student", "longenough"); err != nil {
		t.Fatalf("register: %v", err)
	}
	_, refresh, err := svc.LoginUser(ctx, "refresh@example.com", "longenough")
	if err != nil {
		t.Fatalf("login: %v", err)
	}

	access2, refresh2, err := svc.RefreshUser(ctx, refresh)
	if err != nil {
		t.Fatalf("refresh: %v", err)
	}
	if access2 == "" || refresh2 == "" || refresh2 == refresh {
		t.Fatalf("refresh must rotate the refresh token")
	}

	// The old refresh token is dead after rotation.
	if _, _, err := svc.RefreshUser(ctx, refresh); !errors.Is(err, apperrors.ErrUnauthorized) {
		t.Fatalf("stale refresh token should be unauthorized, got %v", err)
	}
}

func TestAuth_LogoutInvalidatesRefresh(t *testing.T) {
	ctx := context.Background()
	tx := testutil.Tx(t, testutil.DB(t))
	svc := newAuthService(t, tx)

	if _, err := svc.RegisterUser(ctx, "logout@example.com", "Student", "longenough"); err != nil {
		t.Fatalf("register: %v", err)
	}
	access, refresh, err := svc.LoginUser(ctx, "logout@example.com", "longenough")
	if err != nil {
		t.Fatalf("login: %v", err)
	}

	authed, err := svc.SetContextFromToken(ctx, access)
	if err != nil {
		t.Fatalf("set context: %v", err)
	}
	if err := svc.LogoutUser(authed); err != nil {
		t.Fatalf("logout: %v", err)
	}
	if _, _, err := svc.RefreshUser(ctx, refresh); !errors.Is(err, apperrors.ErrUnauthorized) {
		t.Fatalf("refresh after logout should be unauthorized, got %v", err)
	}
}

func TestAuth_AdminEmailMatchingIsCaseInsensitive(t *testing.T) {
	ctx := context.Background()
	tx := testutil.Tx(t, testutil.DB(t))
	svc := newAuthService(t, tx)

	if _, err := svc.RegisterUser(ctx, "admin@example.com", "Admin", "longenough"); err != nil {
		t.Fatalf("register: %v", err)
	}
	access, _, err := svc.LoginUser(ctx, "admin@example.com", "longenough")
	if err != nil {
		t.Fatalf("login: %v", err)
	}
	authed, err := svc.SetContextFromToken(ctx, access)
	if err != nil {
		t.Fatalf("set context: %v", err)
	}
	if !svc.IsAdmin(authed) {
		t.Fatalf("configured admin email should grant admin")
	}
}

func TestAuth_GarbageTokenIsRejected(t *testing.T) {
	tx := testutil.Tx(t, testutil.DB(t))
	svc := newAuthService(t, tx)

	if _, err := svc.SetContextFromToken(context.Background(), "not.a.jwt"); !errors.Is(err, apperrors.ErrUnauthorized) {
		t.Fatalf("expected ErrUnauthorized, got %v", err)
	}
}
