package authprovider

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/uuid"

	pkgerrors "github.com/llanero/admin-backend/pkg/errors"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)
	client, err := NewClient(server.URL+"/", "service-key", WithHTTPClient(server.Client()))
	if err != nil {
		t.Fatalf("new client: %v", err)
	}
	return client
}

func TestNewClientValidation(t *testing.T) {
	if _, err := NewClient("", "key"); err == nil {
		t.Fatal("expected url error")
	}
	if _, err := NewClient("https://auth.test", " "); err == nil {
		t.Fatal("expected key error")
	}
}

func TestInviteUserSendsServiceCredentials(t *testing.T) {
	id := uuid.New()
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost || r.URL.Path != "/auth/v1/invite" {
			t.Fatalf("unexpected request %s %s", r.Method, r.URL.Path)
		}
		if r.URL.Query().Get("redirect_to") != "https://admin.llanero.app/welcome" {
			t.Fatalf("unexpected redirect %q", r.URL.RawQuery)
		}
		if r.Header.Get("apikey") != "service-key" || r.Header.Get("Authorization") != "Bearer service-key" {
			t.Fatalf("missing service credentials: %v", r.Header)
		}
		var body map[string]any
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			t.Fatalf("decode body: %v", err)
		}
		if body["email"] != "luis@llanero.app" {
			t.Fatalf("unexpected email %v", body["email"])
		}
		data, _ := body["data"].(map[string]any)
		if data["full_name"] != "Luis Pérez" {
			t.Fatalf("unexpected data %v", body["data"])
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = io.WriteString(w, `{"id":"`+id.String()+`","email":"luis@llanero.app","created_at":"2026-05-01T10:00:00Z"}`)
	})

	user, err := client.InviteUser(context.Background(), InviteParams{
		Email:      "luis@llanero.app",
		Data:       map[string]any{"full_name": "Luis Pérez"},
		RedirectTo: "https://admin.llanero.app/welcome",
	})
	if err != nil {
		t.Fatalf("invite: %v", err)
	}
	if user.ID != id || user.Email != "luis@llanero.app" {
		t.Fatalf("unexpected user %+v", user)
	}
}

func TestCreateUserEmailExists(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/auth/v1/admin/users" {
			t.Fatalf("unexpected path %s", r.URL.Path)
		}
		w.WriteHeader(http.StatusUnprocessableEntity)
		_, _ = io.WriteString(w, `{"code":422,"error_code":"email_exists","msg":"A user with this email address has already been registered"}`)
	})

	_, err := client.CreateUser(context.Background(), CreateUserParams{Email: "ana@llanero.app", Password: "secreto123"})
	if !errors.Is(err, ErrEmailExists) {
		t.Fatalf("expected ErrEmailExists, got %v", err)
	}
	if !pkgerrors.IsCode(err, pkgerrors.CodeConflict) {
		t.Fatalf("expected conflict code, got %v", err)
	}
	if pkgerrors.As(err).Message() != "email already registered" {
		t.Fatalf("unexpected message %q", pkgerrors.As(err).Message())
	}
}

func TestLegacyAlreadyRegisteredBody(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		_, _ = io.WriteString(w, `{"error":"invalid_request","error_description":"User already registered"}`)
	})
	_, err := client.InviteUser(context.Background(), InviteParams{Email: "ana@llanero.app"})
	if !errors.Is(err, ErrEmailExists) {
		t.Fatalf("expected ErrEmailExists, got %v", err)
	}
}

func TestDeleteUserNotFound(t *testing.T) {
	id := uuid.New()
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodDelete || r.URL.Path != "/auth/v1/admin/users/"+id.String() {
			t.Fatalf("unexpected request %s %s", r.Method, r.URL.Path)
		}
		w.WriteHeader(http.StatusNotFound)
		_, _ = io.WriteString(w, `{"code":404,"error_code":"user_not_found","msg":"User not found"}`)
	})
	err := client.DeleteUser(context.Background(), id)
	if !errors.Is(err, ErrUserNotFound) {
		t.Fatalf("expected ErrUserNotFound, got %v", err)
	}
}

func TestServerErrorKeepsBackendMessage(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
		_, _ = io.WriteString(w, `{"msg":"Database error saving new user"}`)
	})
	err := client.DeleteUser(context.Background(), uuid.New())
	typed := pkgerrors.As(err)
	if typed == nil || typed.Code() != pkgerrors.CodeDependency {
		t.Fatalf("expected dependency error, got %v", err)
	}
	details, _ := typed.Details().(map[string]any)
	if details["cause"] != "auth provider status 500: Database error saving new user" {
		t.Fatalf("unexpected cause %v", details["cause"])
	}
}

func TestUpdateAppMetadata(t *testing.T) {
	id := uuid.New()
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPut {
			t.Fatalf("unexpected method %s", r.Method)
		}
		var body struct {
			AppMetadata map[string]any `json:"app_metadata"`
		}
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			t.Fatalf("decode: %v", err)
		}
		if body.AppMetadata["role"] != "delivery" {
			t.Fatalf("unexpected metadata %v", body.AppMetadata)
		}
		_, _ = io.WriteString(w, `{"id":"`+id.String()+`","email":"x@llanero.app","app_metadata":{"role":"delivery"},"created_at":"2026-05-01T10:00:00Z"}`)
	})
	user, err := client.UpdateAppMetadata(context.Background(), id, map[string]any{"role": "delivery"})
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if user.AppMetadata["role"] != "delivery" {
		t.Fatalf("unexpected user %+v", user)
	}
}

func TestValidationBeforeNetwork(t *testing.T) {
	calls := 0
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) { calls++ })
	if _, err := client.CreateUser(context.Background(), CreateUserParams{Email: "a@b.c"}); !pkgerrors.IsCode(err, pkgerrors.CodeValidation) {
		t.Fatalf("expected validation error, got %v", err)
	}
	if err := client.DeleteUser(context.Background(), uuid.Nil); !pkgerrors.IsCode(err, pkgerrors.CodeValidation) {
		t.Fatalf("expected validation error, got %v", err)
	}
	if calls != 0 {
		t.Fatalf("expected no network calls, got %d", calls)
	}
}
