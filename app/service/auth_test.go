package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/klarkurs/mpu-platform/app/entity"
	"github.com/klarkurs/mpu-platform/app/types"
	"github.com/klarkurs/mpu-platform/config"
)

func newAuthServiceForTest(store *fakeStore) *AuthService {
	return NewAuthService(store, config.AuthConfig{
		JWTSecret:  "test-secret",
		TokenTTL:   time.Hour,
		BcryptCost: bcrypt.MinCost,
	})
}

func TestRegisterIssuesTokenAndNormalizedUser(t *testing.T) {
	store := newFakeStore()
	svc := newAuthServiceForTest(store)

	user, token, err := svc.Register(context.Background(), &types.RegisterRequest{
		Email:    "anna@example.com",
		Password: "correct-horse-battery",
		Name:     "Anna",
		Locale:   "de",
	})
	if err != nil {
		t.Fatalf("register failed: %v", err)
	}
	if token == "" {
		t.Fatal("expected token")
	}
	if user.Role != entity.RoleUser || user.Status != entity.UserStatusActive {
		t.Fatalf("unexpected role/status: %q/%q", user.Role, user.Status)
	}
	if user.PasswordHash == "correct-horse-battery" {
		t.Fatal("password stored in plain text")
	}

	resolved, err := svc.CurrentUser(context.Background(), "Bearer "+token)
	if err != nil {
		t.Fatalf("current user failed: %v", err)
	}
	if resolved.ID != user.ID {
		t.Fatalf("expected user %q, got %q", user.ID, resolved.ID)
	}
}

func TestRegisterDuplicateEmail(t *testing.T) {
	store := newFakeStore()
	svc := newAuthServiceForTest(store)

	req := &types.RegisterRequest{
		Email:    "anna@example.com",
		Password: "correct-horse-battery",
		Name:     "Anna",
		Locale:   "de",
	}
	if _, _, err := svc.Register(context.Background(), req); err != nil {
		t.Fatalf("first register failed: %v", err)
	}
	_, _, err := svc.Register(context.Background(), req)
	if !errors.Is(err, ErrEmailTaken) {
		t.Fatalf("expected ErrEmailTaken, got %v", err)
	}
}

func TestLoginWrongPassword(t *testing.T) {
	store := newFakeStore()
	svc := newAuthServiceForTest(store)

	if _, _, err := svc.Register(context.Background(), &types.RegisterRequest{
		Email:    "anna@example.com",
		Password: "correct-horse-battery",
		Name:     "Anna",
		Locale:   "de",
	}); err != nil {
		t.Fatalf("register failed: %v", err)
	}

	_, _, err := svc.Login(context.Background(), &types.LoginRequest{
		Email:    "anna@example.com",
		Password: "wrong-password-here",
	})
	if !errors.Is(err, ErrInvalidCredentials) {
		t.Fatalf("expected ErrInvalidCredentials, got %v", err)
	}
}

func TestLoginUnknownEmail(t *testing.T) {
	store := newFakeStore()
	svc := newAuthServiceForTest(store)

	_, _, err := svc.Login(context.Background(), &types.LoginRequest{
		Email:    "nobody@example.com",
		Password: "whatever-password",
	})
	if !errors.Is(err, ErrInvalidCredentials) {
		t.Fatalf("expected ErrInvalidCredentials, got %v", err)
	}
}

func TestLoginBlockedUser(t *testing.T) {
	store := newFakeStore()
	svc := newAuthServiceForTest(store)

	user, _, err := svc.Register(context.Background(), &types.RegisterRequest{
		Email:    "anna@example.com",
		Password: "correct-horse-battery",
		Name:     "Anna",
		Locale:   "de",
	})
	if err != nil {
		t.Fatalf("register failed: %v", err)
	}
	store.st.users[user.ID].Status = entity.UserStatusBlocked

	_, _, loginErr := svc.Login(context.Background(), &types.LoginRequest{
		Email:    "anna@example.com",
		Password: "correct-horse-battery",
	})
	if !errors.Is(loginErr, ErrUserBlocked) {
		t.Fatalf("expected ErrUserBlocked, got %v", loginErr)
	}
}

func TestCurrentUserRejectsBlockedMidSession(t *testing.T) {
	store := newFakeStore()
	svc := newAuthServiceForTest(store)

	user, token, err := svc.Register(context.Background(), &types.RegisterRequest{
		Email:    "anna@example.com",
		Password: "correct-horse-battery",
		Name:     "Anna",
		Locale:   "de",
	})
	if err != nil {
		t.Fatalf("register failed: %v", err)
	}
	store.st.users[user.ID].Status = entity.UserStatusBlocked

	_, err = svc.CurrentUser(context.Background(), "Bearer "+token)
	if !errors.Is(err, ErrUserBlocked) {
		t.Fatalf("expected ErrUserBlocked, got %v", err)
	}
}

func TestCurrentUserRejectsGarbageToken(t *testing.T) {
	store := newFakeStore()
	svc := newAuthServiceForTest(store)

	for _, bearer := range []string{"", "Bearer ", "Bearer not-a-jwt"} {
		if _, err := svc.CurrentUser(context.Background(), bearer); !errors.Is(err, ErrUnauthorized) {
			t.Fatalf("bearer %q: expected ErrUnauthorized, got %v", bearer, err)
		}
	}
}

func TestCurrentUserRejectsForeignSecret(t *testing.T) {
	store := newFakeStore()
	svc := newAuthServiceForTest(store)
	other := NewAuthService(store, config.AuthConfig{
		JWTSecret:  "other-secret",
		TokenTTL:   time.Hour,
		BcryptCost: bcrypt.MinCost,
	})

	_, token, err := other.Register(context.Background(), &types.RegisterRequest{
		Email:    "anna@example.com",
		Password: "correct-horse-battery",
		Name:     "Anna",
		Locale:   "de",
	})
	if err != nil {
		t.Fatalf("register failed: %v", err)
	}

	if _, err := svc.CurrentUser(context.Background(), "Bearer "+token); !errors.Is(err, ErrUnauthorized) {
		t.Fatalf("expected ErrUnauthorized, got %v", err)
	}
}
