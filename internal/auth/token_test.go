package auth

import "testing"

func TestComposeAndParseToken(t *testing.T) {
	token := ComposeToken("deadbeefdeadbeef", "a1b2c")
	if token != "deadbeefdeadbeef|a1b2c" {
		t.Errorf("token = %q, want %q", token, "deadbeefdeadbeef|a1b2c")
	}

	sid, uid, ok := ParseToken(token)
	if !ok {
		t.Fatal("expected token to parse")
	}
	if sid != "deadbeefdeadbeef" {
		t.Errorf("sessionID = %q, want %q", sid, "deadbeefdeadbeef")
	}
	if uid != "a1b2c" {
		t.Errorf("userID = %q, want %q", uid, "a1b2c")
	}
}

func TestParseTokenMalformed(t *testing.T) {
	cases := []string{
		"",
		"nopipe",
		"|",
		"sid|",
		"|uid",
		"a|b|c",
	}
	for _, tc := range cases {
		if _, _, ok := ParseToken(tc); ok {
			t.Errorf("ParseToken(%q) ok = true, want false", tc)
		}
	}
}
