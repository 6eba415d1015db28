package store

import (
	"testing"
	"time"

	"github.com/ktdash/ktdash/internal/database"
)

func setupSessionTestDB(t *testing.T) (*SessionStore, *UserStore) {
	t.Helper()
	db, err := database.Open(":memory:")
	if err != nil {
		t.Fatalf("open test db: %v", err)
	}
	if _, err := db.Exec("PRAGMA foreign_keys = ON"); err != nil {
		t.Fatalf("enable foreign keys: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return NewSessionStore(db), NewUserStore(db)
}

func TestSessionCreate(t *testing.T) {
	ss, us := setupSessionTestDB(t)

	if _, err := us.Create("a1b2c", "alice_01", "h"); err != nil {
		t.Fatalf("create user: %v", err)
	}

	sess, err := ss.Create("a1b2c")
	if err != nil {
		t.Fatalf("create session: %v", err)
	}
	if len(sess.SessionID) != 16 {
		t.Errorf("sessionid length = %d, want 16", len(sess.SessionID))
	}
	if sess.UserID != "a1b2c" {
		t.Errorf("userid = %q, want %q", sess.UserID, "a1b2c")
	}
	if sess.LastActivity.IsZero() {
		t.Error("expected lastactivity to be set")
	}
}

func TestSessionGetBySessionIDNotFound(t *testing.T) {
	ss, _ := setupSessionTestDB(t)

	sess, err := ss.GetBySessionID("0123456789abcdef")
	if err != nil {
		t.Fatalf("get session: %v", err)
	}
	if sess != nil {
		t.Error("expected nil for nonexistent session")
	}
}

func TestSessionTouch(t *testing.T) {
	ss, us := setupSessionTestDB(t)

	if _, err := us.Create("a1b2c", "alice_01", "h"); err != nil {
		t.Fatalf("create user: %v", err)
	}
	sess, err := ss.Create("a1b2c")
	if err != nil {
		t.Fatalf("create session: %v", err)
	}

	time.Sleep(10 * time.Millisecond)
	if err := ss.Touch(sess.SessionID); err != nil {
		t.Fatalf("touch session: %v", err)
	}

	after, err := ss.GetBySessionID(sess.SessionID)
	if err != nil {
		t.Fatalf("get session: %v", err)
	}
	if !after.LastActivity.After(sess.LastActivity) {
		t.Errorf("lastactivity not refreshed: before %v, after %v", sess.LastActivity, after.LastActivity)
	}
}

func TestSessionDelete(t *testing.T) {
	ss, us := setupSessionTestDB(t)

	if _, err := us.Create("a1b2c", "alice_01", "h"); err != nil {
		t.Fatalf("create user: %v", err)
	}
	sess, err := ss.Create("a1b2c")
	if err != nil {
		t.Fatalf("create session: %v", err)
	}

	if err := ss.DeleteBySessionID(sess.SessionID); err != nil {
		t.Fatalf("delete session: %v", err)
	}

	got, err := ss.GetBySessionID(sess.SessionID)
	if err != nil {
		t.Fatalf("get after delete: %v", err)
	}
	if got != nil {
		t.Error("expected nil after delete")
	}
}

func TestSessionDeleteIdempotent(t *testing.T) {
	ss, _ := setupSessionTestDB(t)

	// Deleting a session that never existed is not an error.
	if err := ss.DeleteBySessionID("0123456789abcdef"); err != nil {
		t.Fatalf("delete nonexistent session: %v", err)
	}
	if err := ss.DeleteBySessionID("0123456789abcdef"); err != nil {
		t.Fatalf("second delete: %v", err)
	}
}
