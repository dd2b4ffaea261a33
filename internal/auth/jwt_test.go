package auth

import (
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestTokenRoundTrip(t *testing.T) {
	secret := []byte("round-trip-secret")

	token, err := GenerateToken(secret, 42)
	if err != nil {
		t.Fatalf("generate: %v", err)
	}

	uid, err := ParseToken(secret, token)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if uid != 42 {
		t.Fatalf("uid=%d, want 42", uid)
	}
}

func TestParseTokenRejectsWrongSecret(t *testing.T) {
	token, err := GenerateToken([]byte("secret-a"), 42)
	if err != nil {
		t.Fatalf("generate: %v", err)
	}

	if _, err := ParseToken([]byte("secret-b"), token); err == nil {
		t.Fatal("token signed with another secret accepted")
	}
}

func TestParseTokenRejectsGarbage(t *testing.T) {
	if _, err := ParseToken([]byte("secret"), "not.a.token"); err == nil {
		t.Fatal("garbage token accepted")
	}
	if _, err := ParseToken([]byte("secret"), ""); err == nil {
		t.Fatal("empty token accepted")
	}
}

func TestMiddlewarePutsUserIDInContext(t *testing.T) {
	secret := []byte("mw-secret")
	token, err := GenerateToken(secret, 7)
	if err != nil {
		t.Fatalf("generate: %v", err)
	}

	var gotUID int
	var gotOK bool
	handler := New(secret).Wrap(func(w http.ResponseWriter, r *http.Request) {
		gotUID, gotOK = UserIDFromContext(r.Context())
	})

	req := httptest.NewRequest(http.MethodGet, "/me", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	rec := httptest.NewRecorder()
	handler(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status=%d, want 200", rec.Code)
	}
	if !gotOK || gotUID != 7 {
		t.Fatalf("context uid=%d ok=%v, want 7 true", gotUID, gotOK)
	}
}

func TestMiddlewareRejects(t *testing.T) {
	secret := []byte("mw-secret")
	nextCalled := false
	handler := New(secret).Wrap(func(w http.ResponseWriter, r *http.Request) {
		nextCalled = true
	})

	cases := []struct {
		name   string
		header string
	}{
		{"no header", ""},
		{"no bearer prefix", "Token abc"},
		{"bad token", "Bearer not.a.token"},
	}
	for _, tc := range cases {
		req := httptest.NewRequest(http.MethodGet, "/me", nil)
		if tc.header != "" {
			req.Header.Set("Authorization", tc.header)
		}
		rec := httptest.NewRecorder()
		handler(rec, req)

		if rec.Code != http.StatusUnauthorized {
			t.Fatalf("%s: status=%d, want 401", tc.name, rec.Code)
		}
	}
	if nextCalled {
		t.Fatal("handler ran without a valid token")
	}
}
