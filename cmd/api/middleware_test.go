package main

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"sigpeche/internal/access"
	"sigpeche/internal/domain/users"

	"go.uber.org/zap"
)

func newTestApp() *application {
	return &application{
		logger:       zap.NewNop().Sugar(),
		accessRouter: access.NewRouter(access.DefaultDestinations(), access.DefaultLandingPath),
	}
}

func requestWithRoles(roles ...access.Role) *http.Request {
	req := httptest.NewRequest(http.MethodGet, "/v1/documents", nil)
	ctx := context.WithValue(req.Context(), userCtx, &authedUser{
		User:  &users.User{ID: 1, Email: "agent@peche.ga"},
		Roles: roles,
	})
	return req.WithContext(ctx)
}

func TestRequireRolesAllowsMatchingRole(t *testing.T) {
	app := newTestApp()

	called := false
	handler := app.RequireRoles(access.RoleAdmin, access.RoleDGPA)(
		http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			called = true
			w.WriteHeader(http.StatusOK)
		}),
	)

	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, requestWithRoles(access.RoleDGPA))

	if !called {
		t.Fatal("handler was not reached")
	}
	if rr.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rr.Code)
	}
}

func TestRequireRolesDeniesWithRedirect(t *testing.T) {
	app := newTestApp()

	handler := app.RequireRoles(access.RoleMinistre, access.RoleAdmin)(
		http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			t.Fatal("handler must not be reached")
		}),
	)

	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, requestWithRoles(access.RoleArmateurPI))

	if rr.Code != http.StatusForbidden {
		t.Fatalf("expected 403, got %d", rr.Code)
	}

	var body struct {
		Redirect string `json:"redirect"`
	}
	if err := json.NewDecoder(rr.Body).Decode(&body); err != nil {
		t.Fatalf("decoding response: %v", err)
	}
	if body.Redirect != "/armeur-dashboard" {
		t.Fatalf("expected redirect to /armeur-dashboard, got %q", body.Redirect)
	}
}

func TestRequireRolesRejectsMissingUser(t *testing.T) {
	app := newTestApp()

	handler := app.RequireRoles(access.RoleAdmin)(
		http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			t.Fatal("handler must not be reached")
		}),
	)

	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/v1/documents", nil))

	if rr.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", rr.Code)
	}
}
