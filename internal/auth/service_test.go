package auth

import (
	"context"
	"testing"

	"github.com/clopse/hotelfm/internal/storage"
)

func TestPoliciesSurviveRestart(t *testing.T) {
	ctx := context.Background()
	st := storage.NewMemory()

	svc, err := NewService(st)
	if err != nil {
		t.Fatalf("NewService failed: %v", err)
	}
	u, err := svc.Register(ctx, "alice", "secret", "admin")
	if err != nil {
		t.Fatalf("Register failed: %v", err)
	}

	// A second service over the same storage simulates a process restart;
	// the grouping policy must be loaded back from the casbin rules table.
	svc2, err := NewService(st)
	if err != nil {
		t.Fatalf("NewService after restart failed: %v", err)
	}
	ok, err := svc2.Enforce(u.ID, "bills", "write")
	if err != nil {
		t.Fatalf("Enforce failed: %v", err)
	}
	if !ok {
		t.Error("admin grouping did not survive restart")
	}
}

func TestEnforceRoles(t *testing.T) {
	svc, err := NewService(storage.NewMemory())
	if err != nil {
		t.Fatalf("NewService failed: %v", err)
	}

	cases := []struct {
		role, obj, act string
		want           bool
	}{
		{"admin", "users", "write", true},
		{"editor", "bills", "write", true},
		{"editor", "users", "write", false},
		{"viewer", "bills", "read", true},
		{"viewer", "bills", "write", false},
	}
	for _, c := range cases {
		got, err := svc.EnforceRole(c.role, c.obj, c.act)
		if err != nil {
			t.Fatalf("EnforceRole(%s,%s,%s) failed: %v", c.role, c.obj, c.act, err)
		}
		if got != c.want {
			t.Errorf("EnforceRole(%s,%s,%s) = %v, want %v", c.role, c.obj, c.act, got, c.want)
		}
	}
}

func TestUpdateUserRoleChange(t *testing.T) {
	ctx := context.Background()
	st := storage.NewMemory()
	svc, err := NewService(st)
	if err != nil {
		t.Fatalf("NewService failed: %v", err)
	}
	u, err := svc.Register(ctx, "bob", "secret", "viewer")
	if err != nil {
		t.Fatalf("Register failed: %v", err)
	}

	if ok, _ := svc.Enforce(u.ID, "bills", "write"); ok {
		t.Fatal("viewer should not write bills")
	}

	updated, err := svc.UpdateUser(ctx, u.ID, "editor", "", "")
	if err != nil {
		t.Fatalf("UpdateUser failed: %v", err)
	}
	if updated.Role != "editor" {
		t.Errorf("expected role editor, got %q", updated.Role)
	}
	if ok, _ := svc.Enforce(u.ID, "bills", "write"); !ok {
		t.Error("editor grouping not applied after role change")
	}
	if ok, _ := svc.Enforce(u.ID, "users", "write"); ok {
		t.Error("editor must not gain user management")
	}
}

func TestUpdateUserEmailConflict(t *testing.T) {
	ctx := context.Background()
	st := storage.NewMemory()
	svc, err := NewService(st)
	if err != nil {
		t.Fatalf("NewService failed: %v", err)
	}
	a, _ := svc.Register(ctx, "alice", "secret", "admin")
	b, _ := svc.Register(ctx, "bob", "secret", "viewer")

	if _, err := svc.UpdateUser(ctx, a.ID, "", "alice@example.com", ""); err != nil {
		t.Fatalf("setting email failed: %v", err)
	}
	if _, err := svc.UpdateUser(ctx, b.ID, "", "alice@example.com", ""); err == nil {
		t.Error("expected conflict on duplicate email")
	}
}

func TestUpdateUserPassword(t *testing.T) {
	ctx := context.Background()
	svc, err := NewService(storage.NewMemory())
	if err != nil {
		t.Fatalf("NewService failed: %v", err)
	}
	u, _ := svc.Register(ctx, "alice", "old-secret", "admin")

	if _, err := svc.UpdateUser(ctx, u.ID, "", "", "new-secret"); err != nil {
		t.Fatalf("UpdateUser failed: %v", err)
	}
	if _, err := svc.Authenticate(ctx, "alice", "old-secret"); err == nil {
		t.Error("old password should no longer authenticate")
	}
	if _, err := svc.Authenticate(ctx, "alice", "new-secret"); err != nil {
		t.Errorf("new password should authenticate: %v", err)
	}
}

func TestDeleteUserRevokesTokens(t *testing.T) {
	ctx := context.Background()
	st := storage.NewMemory()
	svc, err := NewService(st)
	if err != nil {
		t.Fatalf("NewService failed: %v", err)
	}
	u, _ := svc.Register(ctx, "alice", "secret", "admin")
	_, raw, err := svc.CreateToken(ctx, u.ID, "ci", u.Role, nil)
	if err != nil {
		t.Fatalf("CreateToken failed: %v", err)
	}

	if err := svc.DeleteUser(ctx, u.ID); err != nil {
		t.Fatalf("DeleteUser failed: %v", err)
	}
	if got, _ := st.GetUser(ctx, u.ID); got != nil {
		t.Error("user still present after delete")
	}
	if _, err := svc.ValidateToken(ctx, raw); err == nil {
		t.Error("token should be revoked with its user")
	}
	if err := svc.DeleteUser(ctx, u.ID); err == nil {
		t.Error("deleting a missing user should fail")
	}
}
