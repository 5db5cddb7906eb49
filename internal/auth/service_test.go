package auth

import (
	"context"
	"errors"
	"testing"
)

func newTestService(t *testing.T) (*Service, *MemoryUserStore) {
	t.Helper()
	codec, err := NewCodec("test-secret")
	if err != nil {
		t.Fatalf("NewCodec: %v", err)
	}
	store := NewMemoryUserStore()
	svc, err := NewService(store, codec)
	if err != nil {
		t.Fatalf("NewService: %v", err)
	}
	return svc, store
}

func TestRegisterCreatesUnapprovedAccount(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	user, err := svc.Register(ctx, "Aida", "aida@example.com", "pass123", "teacher")
	if err != nil {
		t.Fatalf("Register: %v", err)
	}
	if user.ID == 0 {
		t.Fatal("expected assigned id")
	}
	if user.Approved {
		t.Fatal("new account must start unapproved")
	}
	if user.Role != RoleTeacher {
		t.Fatalf("unexpected role: %s", user.Role)
	}
	if user.PasswordHash == "pass123" || user.PasswordHash == "" {
		t.Fatal("password must be stored hashed")
	}
}

func TestRegisterRejectsDuplicateEmail(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	if _, err := svc.Register(ctx, "A", "dup@example.com", "pass", "student"); err != nil {
		t.Fatalf("first Register: %v", err)
	}
	_, err := svc.Register(ctx, "B", "DUP@example.com", "pass", "student")
	if !errors.Is(err, ErrConflict) {
		t.Fatalf("expected ErrConflict, got %v", err)
	}
}

func TestRegisterRejectsAdminRole(t *testing.T) {
	svc, _ := newTestService(t)
	_, err := svc.Register(context.Background(), "A", "a@example.com", "pass", "admin")
	if !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput, got %v", err)
	}
}

func TestRegisterValidatesInput(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()
	cases := []struct {
		name, email, password, role string
	}{
		{"", "a@example.com", "pass", "student"},
		{"A", "", "pass", "student"},
		{"A", "not-an-email", "pass", "student"},
		{"A", "a@example.com", "", "student"},
		{"A", "a@example.com", "pass", "principal"},
	}
	for _, tc := range cases {
		if _, err := svc.Register(ctx, tc.name, tc.email, tc.password, tc.role); !errors.Is(err, ErrInvalidInput) {
			t.Fatalf("Register(%q,%q,%q,%q): expected ErrInvalidInput, got %v", tc.name, tc.email, tc.password, tc.role, err)
		}
	}
}

func TestLoginRequiresApproval(t *testing.T) {
	svc, store := newTestService(t)
	ctx := context.Background()

	user, err := svc.Register(ctx, "Aida", "aida@example.com", "pass123", "student")
	if err != nil {
		t.Fatalf("Register: %v", err)
	}

	// Pending approval is reported even with a wrong password: the
	// activation gate runs before the password check.
	if _, err := svc.Login(ctx, "aida@example.com", "wrong"); !errors.Is(err, ErrPendingApproval) {
		t.Fatalf("expected ErrPendingApproval, got %v", err)
	}
	if _, err := svc.Login(ctx, "aida@example.com", "pass123"); !errors.Is(err, ErrPendingApproval) {
		t.Fatalf("expected ErrPendingApproval, got %v", err)
	}

	if err := store.SetApproved(ctx, user.ID); err != nil {
		t.Fatalf("SetApproved: %v", err)
	}

	session, err := svc.Login(ctx, "aida@example.com", "pass123")
	if err != nil {
		t.Fatalf("Login after approval: %v", err)
	}
	if session.Token == "" {
		t.Fatal("empty session token")
	}
	if session.User.ID != user.ID {
		t.Fatalf("unexpected user in session: %d", session.User.ID)
	}
}

func TestLoginRejectsBadCredentials(t *testing.T) {
	svc, store := newTestService(t)
	ctx := context.Background()

	user, err := svc.Register(ctx, "Aida", "aida@example.com", "pass123", "student")
	if err != nil {
		t.Fatalf("Register: %v", err)
	}
	if err := store.SetApproved(ctx, user.ID); err != nil {
		t.Fatalf("SetApproved: %v", err)
	}

	if _, err := svc.Login(ctx, "aida@example.com", "wrong"); !errors.Is(err, ErrInvalidCredentials) {
		t.Fatalf("wrong password: expected ErrInvalidCredentials, got %v", err)
	}
	if _, err := svc.Login(ctx, "nobody@example.com", "pass123"); !errors.Is(err, ErrInvalidCredentials) {
		t.Fatalf("unknown email: expected ErrInvalidCredentials, got %v", err)
	}
	if _, err := svc.Login(ctx, "", ""); !errors.Is(err, ErrInvalidCredentials) {
		t.Fatalf("blank credentials: expected ErrInvalidCredentials, got %v", err)
	}
}

func TestApproveIsOneShot(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	user, err := svc.Register(ctx, "Aida", "aida@example.com", "pass123", "teacher")
	if err != nil {
		t.Fatalf("Register: %v", err)
	}

	if err := svc.Approve(ctx, user.ID); err != nil {
		t.Fatalf("Approve: %v", err)
	}
	if err := svc.Approve(ctx, user.ID); !errors.Is(err, ErrNotFound) {
		t.Fatalf("second Approve: expected ErrNotFound, got %v", err)
	}
	if err := svc.Approve(ctx, 9999); !errors.Is(err, ErrNotFound) {
		t.Fatalf("unknown id: expected ErrNotFound, got %v", err)
	}
}

func TestPendingUsersShrinksOnApproval(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	u1, _ := svc.Register(ctx, "A", "a@example.com", "pass", "student")
	u2, _ := svc.Register(ctx, "B", "b@example.com", "pass", "teacher")

	pending, err := svc.PendingUsers(ctx)
	if err != nil {
		t.Fatalf("PendingUsers: %v", err)
	}
	if len(pending) != 2 {
		t.Fatalf("expected 2 pending users, got %d", len(pending))
	}

	if err := svc.Approve(ctx, u1.ID); err != nil {
		t.Fatalf("Approve: %v", err)
	}
	pending, err = svc.PendingUsers(ctx)
	if err != nil {
		t.Fatalf("PendingUsers: %v", err)
	}
	if len(pending) != 1 || pending[0].ID != u2.ID {
		t.Fatalf("expected only user %d pending, got %+v", u2.ID, pending)
	}
}

func TestDeleteUser(t *testing.T) {
	svc, store := newTestService(t)
	ctx := context.Background()

	user, err := svc.Register(ctx, "Aida", "aida@example.com", "pass123", "student")
	if err != nil {
		t.Fatalf("Register: %v", err)
	}
	if err := svc.DeleteUser(ctx, user.ID); err != nil {
		t.Fatalf("DeleteUser: %v", err)
	}
	if _, err := store.FindByID(ctx, user.ID); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound after delete, got %v", err)
	}
	if err := svc.DeleteUser(ctx, user.ID); !errors.Is(err, ErrNotFound) {
		t.Fatalf("double delete: expected ErrNotFound, got %v", err)
	}
}
