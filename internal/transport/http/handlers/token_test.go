package handlers

import (
	"net/http"
	"testing"
)

func TestValidateTokenEndpointAcceptsFreshToken(t *testing.T) {
	env := newTestEnv(t)
	access, _ := env.register(t, "jordan@example.com")

	rec := env.do(t, http.MethodPost, "/api/auth/validate-token", map[string]any{
		"token": access,
	}, nil)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200: %s", rec.Code, rec.Body.String())
	}

	body := decodeBody(t, rec)
	if body["valid"] != true {
		t.Fatalf("expected valid=true, got %v", body["valid"])
	}
	if id, _ := body["userId"].(string); id == "" {
		t.Fatal("expected userId in response")
	}
	if body["role"] != "user" {
		t.Fatalf("unexpected role %v", body["role"])
	}
	if body["firstName"] != "Jordan" || body["lastName"] != "Reyes" {
		t.Fatalf("unexpected names in response: %s", rec.Body.String())
	}
}

func TestValidateTokenEndpointRejectsGarbage(t *testing.T) {
	env := newTestEnv(t)

	rec := env.do(t, http.MethodPost, "/api/auth/validate-token", map[string]any{
		"token": "not.a.jwt",
	}, nil)

	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("status = %d, want 401: %s", rec.Code, rec.Body.String())
	}
	body := decodeBody(t, rec)
	if body["valid"] != false {
		t.Fatalf("expected valid=false, got %v", body["valid"])
	}
	if _, present := body["userId"]; present {
		t.Fatal("userId must not appear for an invalid token")
	}
}

func TestValidateTokenEndpointRejectsRefreshToken(t *testing.T) {
	env := newTestEnv(t)
	_, refresh := env.register(t, "jordan@example.com")

	rec := env.do(t, http.MethodPost, "/api/auth/validate-token", map[string]any{
		"token": refresh,
	}, nil)

	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("status = %d, want 401: %s", rec.Code, rec.Body.String())
	}
}
