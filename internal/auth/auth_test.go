package auth

import (
	"context"
	"errors"
	"testing"

	"github.com/MonikaDutta279/ChatBot-for-Customer-Support/internal/store"
)

func newTestService(t *testing.T) *Service {
	t.Helper()
	st, err := store.NewSQLiteStore(":memory:")
	if err != nil {
		t.Fatalf("failed to create store: %v", err)
	}
	t.Cleanup(func() { st.Close() })
	return NewService(st)
}

func TestRegisterAndLogin(t *testing.T) {
	ctx := context.Background()
	svc := newTestService(t)

	user, err := svc.Register(ctx, "Monika", "monika@example.com", "s3cret")
	if err != nil {
		t.Fatalf("Register failed: %v", err)
	}
	if user.Name != "Monika" || user.ID == 0 {
		t.Fatalf("unexpected user: %+v", user)
	}

	got, err := svc.Login(ctx, "monika@example.com", "s3cret")
	if err != nil {
		t.Fatalf("Login failed: %v", err)
	}
	if got.ID != user.ID {
		t.Fatalf("login returned wrong user: %+v", got)
	}
}

func TestLoginWrongPassword(t *testing.T) {
	ctx := context.Background()
	svc := newTestService(t)

	if _, err := svc.Register(ctx, "", "a@example.com", "right"); err != nil {
		t.Fatalf("Register failed: %v", err)
	}
	if _, err := svc.Login(ctx, "a@example.com", "wrong"); !errors.Is(err, ErrInvalidCredentials) {
		t.Fatalf("expected ErrInvalidCredentials, got %v", err)
	}
}

func TestLoginUnknownEmailIsNotSignup(t *testing.T) {
	ctx := context.Background()
	svc := newTestService(t)

	if _, err := svc.Login(ctx, "new@example.com", "pw"); !errors.Is(err, ErrInvalidCredentials) {
		t.Fatalf("expected ErrInvalidCredentials, got %v", err)
	}
	// Login must not have provisioned an account.
	if _, err := svc.Register(ctx, "", "new@example.com", "pw"); err != nil {
		t.Fatalf("Register after failed login: %v", err)
	}
}

func TestRegisterDerivesNameFromEmail(t *testing.T) {
	ctx := context.Background()
	svc := newTestService(t)

	user, err := svc.Register(ctx, "", "support.fan@example.com", "pw")
	if err != nil {
		t.Fatalf("Register failed: %v", err)
	}
	if user.Name != "support.fan" {
		t.Fatalf("expected name derived from email, got %q", user.Name)
	}
}

func TestRegisterDuplicateEmail(t *testing.T) {
	ctx := context.Background()
	svc := newTestService(t)

	if _, err := svc.Register(ctx, "", "dup@example.com", "pw"); err != nil {
		t.Fatalf("Register failed: %v", err)
	}
	if _, err := svc.Register(ctx, "", "dup@example.com", "pw2"); !errors.Is(err, ErrEmailTaken) {
		t.Fatalf("expected ErrEmailTaken, got %v", err)
	}
}

func TestPasswordsAreNotStoredInClearText(t *testing.T) {
	ctx := context.Background()
	st, err := store.NewSQLiteStore(":memory:")
	if err != nil {
		t.Fatalf("failed to create store: %v", err)
	}
	t.Cleanup(func() { st.Close() })
	svc := NewService(st)

	if _, err := svc.Register(ctx, "", "hash@example.com", "plaintext"); err != nil {
		t.Fatalf("Register failed: %v", err)
	}
	_, hash, err := st.UserByEmail(ctx, "hash@example.com")
	if err != nil {
		t.Fatalf("UserByEmail failed: %v", err)
	}
	if hash == "plaintext" || hash == "" {
		t.Fatalf("password stored insecurely: %q", hash)
	}
}
