package store

import (
	"testing"

	"github.com/ktdash/ktdash/internal/database"
)

func setupUserTestDB(t *testing.T) *UserStore {
	t.Helper()
	db, err := database.Open(":memory:")
	if err != nil {
		t.Fatalf("open test db: %v", err)
	}
	if _, err := db.Exec("PRAGMA foreign_keys = ON"); err != nil {
		t.Fatalf("enable foreign keys: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return NewUserStore(db)
}

func TestUserCreate(t *testing.T) {
	us := setupUserTestDB(t)

	u, err := us.Create("a1b2c", "alice_01", "$2a$10$fakehash")
	if err != nil {
		t.Fatalf("create user: %v", err)
	}
	if u.UserID != "a1b2c" {
		t.Errorf("userid = %q, want %q", u.UserID, "a1b2c")
	}
	if u.Username != "alice_01" {
		t.Errorf("username = %q, want %q", u.Username, "alice_01")
	}
	if u.CreatedDate.IsZero() {
		t.Error("expected createddate to be set")
	}
}

func TestUserCreateDuplicateUsername(t *testing.T) {
	us := setupUserTestDB(t)

	if _, err := us.Create("a1b2c", "alice_01", "h"); err != nil {
		t.Fatalf("create user: %v", err)
	}
	if _, err := us.Create("d3e4f", "alice_01", "h"); err == nil {
		t.Fatal("expected error for duplicate username, got nil")
	}
}

func TestUserCreateDuplicateUserID(t *testing.T) {
	us := setupUserTestDB(t)

	if _, err := us.Create("a1b2c", "alice_01", "h"); err != nil {
		t.Fatalf("create user: %v", err)
	}
	if _, err := us.Create("a1b2c", "bobby_99", "h"); err == nil {
		t.Fatal("expected error for duplicate userid, got nil")
	}
}

func TestUserGetByUserID(t *testing.T) {
	us := setupUserTestDB(t)

	if _, err := us.Create("a1b2c", "alice_01", "h"); err != nil {
		t.Fatalf("create user: %v", err)
	}

	u, err := us.GetByUserID("a1b2c")
	if err != nil {
		t.Fatalf("get by userid: %v", err)
	}
	if u == nil {
		t.Fatal("expected user, got nil")
	}
	if u.Username != "alice_01" {
		t.Errorf("username = %q, want %q", u.Username, "alice_01")
	}
}

func TestUserGetByUserIDNotFound(t *testing.T) {
	us := setupUserTestDB(t)

	u, err := us.GetByUserID("zzzzz")
	if err != nil {
		t.Fatalf("get by userid: %v", err)
	}
	if u != nil {
		t.Error("expected nil for nonexistent user")
	}
}

func TestUserGetByUsernameNotFound(t *testing.T) {
	us := setupUserTestDB(t)

	u, err := us.GetByUsername("nobody")
	if err != nil {
		t.Fatalf("get by username: %v", err)
	}
	if u != nil {
		t.Error("expected nil for nonexistent username")
	}
}

func TestUserIDExists(t *testing.T) {
	us := setupUserTestDB(t)

	if _, err := us.Create("a1b2c", "alice_01", "h"); err != nil {
		t.Fatalf("create user: %v", err)
	}

	taken, err := us.UserIDExists("a1b2c")
	if err != nil {
		t.Fatalf("userid exists: %v", err)
	}
	if !taken {
		t.Error("expected existing userid to be reported taken")
	}

	free, err := us.UserIDExists("d3e4f")
	if err != nil {
		t.Fatalf("userid exists: %v", err)
	}
	if free {
		t.Error("expected unused userid to be reported free")
	}
}
