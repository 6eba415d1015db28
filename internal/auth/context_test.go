package auth

import (
	"context"
	"testing"
)

func TestWithAuthRoundTrip(t *testing.T) {
	ac := AuthContext{UserID: "a1b2c", Username: "alice_01", SessionID: "deadbeefdeadbeef"}
	ctx := WithAuth(context.Background(), ac)

	got, ok := FromContext(ctx)
	if !ok {
		t.Fatal("expected AuthContext in context")
	}
	if got != ac {
		t.Errorf("got %+v, want %+v", got, ac)
	}
}

func TestFromContextEmpty(t *testing.T) {
	if _, ok := FromContext(context.Background()); ok {
		t.Error("expected no AuthContext in empty context")
	}
}

func TestUserIDEmpty(t *testing.T) {
	if id := UserID(context.Background()); id != "" {
		t.Errorf("UserID = %q, want empty", id)
	}
}

func TestUserID(t *testing.T) {
	ctx := WithAuth(context.Background(), AuthContext{UserID: "a1b2c"})
	if id := UserID(ctx); id != "a1b2c" {
		t.Errorf("UserID = %q, want %q", id, "a1b2c")
	}
}
