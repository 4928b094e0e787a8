package auth

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/rs/zerolog"

	"github.com/gophertribe/notesync/pkg/fault"
	"github.com/gophertribe/notesync/pkg/gateway"
	"github.com/gophertribe/notesync/pkg/session"
)

func newController(t *testing.T, handler http.Handler) (*Controller, *session.MemoryStore, *int64) {
	t.Helper()
	var calls int64
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt64(&calls, 1)
		handler.ServeHTTP(w, r)
	}))
	t.Cleanup(server.Close)

	store := session.NewMemoryStore()
	gw := gateway.NewClient(server.URL, store, zerolog.Nop())
	return NewController(gw, store, zerolog.Nop()), store, &calls
}

func TestLoginRejectsInvalidEmailWithoutNetworkCall(t *testing.T) {
	ctrl, _, calls := newController(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))

	_, err := ctrl.Login(context.Background(), "not-an-email", "Abcdef1!")
	var failure *fault.Failure
	if !errors.As(err, &failure) || failure.Kind != fault.Validation {
		t.Fatalf("expected validation failure, got %v", err)
	}
	if failure.Message != msgInvalidEmail {
		t.Errorf("message = %q", failure.Message)
	}
	if got := atomic.LoadInt64(calls); got != 0 {
		t.Errorf("expected zero network calls, got %d", got)
	}
	if ctrl.State() != StateFailed {
		t.Errorf("state = %v, want StateFailed", ctrl.State())
	}
}

func TestLoginStoresTokenOnSuccess(t *testing.T) {
	ctrl, store, _ := newController(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/login" || r.Method != http.MethodPost {
			t.Errorf("unexpected request %s %s", r.Method, r.URL.Path)
		}
		var req struct {
			Email    string `json:"email"`
			Password string `json:"password"`
		}
		json.NewDecoder(r.Body).Decode(&req)
		if req.Email != "alice@example.com" {
			t.Errorf("email = %q", req.Email)
		}
		json.NewEncoder(w).Encode(map[string]string{"accessToken": "tok123"})
	}))

	res, err := ctrl.Login(context.Background(), "alice@example.com", "Abcdef1!")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if res.Token != "tok123" || res.Celebrate {
		t.Errorf("result = %+v", res)
	}
	if tok, ok := store.Token(); !ok || tok != "tok123" {
		t.Errorf("stored token = %q, %v", tok, ok)
	}
	if ctrl.State() != StateSuccess {
		t.Errorf("state = %v, want StateSuccess", ctrl.State())
	}
}

func TestLoginWithoutTokenInResponse(t *testing.T) {
	ctrl, store, _ := newController(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{}`))
	}))

	_, err := ctrl.Login(context.Background(), "alice@example.com", "Abcdef1!")
	var failure *fault.Failure
	if !errors.As(err, &failure) || failure.Kind != fault.Server {
		t.Fatalf("expected server failure, got %v", err)
	}
	if failure.Message != msgInvalidCredentials {
		t.Errorf("message = %q", failure.Message)
	}
	if _, ok := store.Token(); ok {
		t.Error("no token should be stored")
	}
}

func TestLoginSurfacesServerMessage(t *testing.T) {
	ctrl, _, _ := newController(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		w.Write([]byte(`{"message": "User not found"}`))
	}))

	_, err := ctrl.Login(context.Background(), "alice@example.com", "Abcdef1!")
	var failure *fault.Failure
	if !errors.As(err, &failure) || failure.Kind != fault.Server {
		t.Fatalf("expected server failure, got %v", err)
	}
	if failure.Message != "User not found" {
		t.Errorf("message = %q", failure.Message)
	}
}

func TestSignUpValidationOrder(t *testing.T) {
	ctrl, _, calls := newController(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))

	cases := []struct {
		name, email, password, confirm string
		wantMsg                        string
	}{
		{"Bob", "bad", "weak", "weak", msgInvalidName},
		{"Alice Smith", "bad", "weak", "weak", msgInvalidEmail},
		{"Alice Smith", "alice@example.com", "weak", "weak", msgInvalidPassword},
		{"Alice Smith", "alice@example.com", "Abcdef1!", "Different1!", msgPasswordMismatch},
	}
	for _, c := range cases {
		_, err := ctrl.SignUp(context.Background(), c.name, c.email, c.password, c.confirm)
		var failure *fault.Failure
		if !errors.As(err, &failure) || failure.Kind != fault.Validation {
			t.Fatalf("expected validation failure, got %v", err)
		}
		if failure.Message != c.wantMsg {
			t.Errorf("message = %q, want %q", failure.Message, c.wantMsg)
		}
	}
	if got := atomic.LoadInt64(calls); got != 0 {
		t.Errorf("expected zero network calls, got %d", got)
	}
}

func TestSignUpChecksBodyErrorFlagBeforeToken(t *testing.T) {
	ctrl, store, _ := newController(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		// Success status, logical error in the body.
		json.NewEncoder(w).Encode(map[string]interface{}{
			"error":       true,
			"message":     "Email already exists",
			"accessToken": "should-not-be-trusted",
		})
	}))

	_, err := ctrl.SignUp(context.Background(), "Alice Smith", "alice@example.com", "Abcdef1!", "Abcdef1!")
	var failure *fault.Failure
	if !errors.As(err, &failure) || failure.Kind != fault.Server {
		t.Fatalf("expected server failure, got %v", err)
	}
	if failure.Message != "Email already exists" {
		t.Errorf("message = %q", failure.Message)
	}
	if _, ok := store.Token(); ok {
		t.Error("token must not be stored when the body signals an error")
	}
}

func TestSignUpSuccessCelebrates(t *testing.T) {
	ctrl, store, _ := newController(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var req struct {
			FullName string `json:"fullName"`
		}
		json.NewDecoder(r.Body).Decode(&req)
		if req.FullName != "Alice Smith" {
			t.Errorf("fullName = %q", req.FullName)
		}
		json.NewEncoder(w).Encode(map[string]string{"accessToken": "tok456"})
	}))

	res, err := ctrl.SignUp(context.Background(), "Alice Smith", "alice@example.com", "Abcdef1!", "Abcdef1!")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !res.Celebrate {
		t.Error("sign-up success should carry the celebrate hint")
	}
	if tok, ok := store.Token(); !ok || tok != "tok456" {
		t.Errorf("stored token = %q, %v", tok, ok)
	}
}

func TestProfileClearsSessionOn401(t *testing.T) {
	ctrl, store, _ := newController(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	}))
	store.SetToken("expired")

	_, err := ctrl.Profile(context.Background())
	var failure *fault.Failure
	if !errors.As(err, &failure) || failure.Kind != fault.Auth {
		t.Fatalf("expected auth failure, got %v", err)
	}
	if _, ok := store.Token(); ok {
		t.Error("token should be cleared after 401")
	}
}

func TestProfileReturnsUser(t *testing.T) {
	ctrl, _, _ := newController(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"user": {"_id": "u1", "fullName": "Alice Smith", "email": "alice@example.com"}}`))
	}))

	user, err := ctrl.Profile(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if user.ID != "u1" || user.FullName != "Alice Smith" {
		t.Errorf("user = %+v", user)
	}
}
