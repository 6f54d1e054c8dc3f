package integration

import (
	"encoding/json"
	"fmt"
	"net/http"
	"testing"
)

func TestRegistrationAndLoginFlow(t *testing.T) {
	ts := newAPITestServer(t)

	ts.createUser(t, "alice01", "alice@example.test", "CorrectHorse1")

	// Email lookup at login is case-insensitive.
	token, _ := ts.login(t, "ALICE@EXAMPLE.TEST", "CorrectHorse1")
	if token == "" {
		t.Fatal("expected a token")
	}

	status, raw := ts.do(t, http.MethodPost, "/api/auth/login", "", map[string]string{
		"email":    "alice@example.test",
		"password": "wrong-password",
	})
	if status != http.StatusUnauthorized {
		t.Fatalf("wrong password: status %d, body %s", status, raw)
	}
	var problem problemEnvelope
	if err := json.Unmarshal(raw, &problem); err != nil {
		t.Fatalf("decoding problem: %v", err)
	}
	if problem.Detail != "invalid credentials" {
		t.Errorf("detail = %q", problem.Detail)
	}
}

func TestRegistrationConflicts(t *testing.T) {
	ts := newAPITestServer(t)

	ts.createUser(t, "alice01", "alice@example.test", "CorrectHorse1")

	status, raw := ts.do(t, http.MethodPost, "/api/users", "", map[string]string{
		"username": "ALICE01",
		"email":    "other@example.test",
		"password": "CorrectHorse1",
	})
	if status != http.StatusConflict {
		t.Fatalf("duplicate username: status %d, body %s", status, raw)
	}

	status, raw = ts.do(t, http.MethodPost, "/api/users", "", map[string]string{
		"username": "alice02",
		"email":    "Alice@Example.Test",
		"password": "CorrectHorse1",
	})
	if status != http.StatusConflict {
		t.Fatalf("duplicate email: status %d, body %s", status, raw)
	}
}

func TestUserListPaginationAndFilters(t *testing.T) {
	ts := newAPITestServer(t)

	for i := 0; i < 12; i++ {
		ts.createUser(t,
			fmt.Sprintf("user_%02d", i),
			fmt.Sprintf("user%02d@example.test", i),
			"CorrectHorse1")
	}
	adminToken, _ := ts.login(t, "root@example.test", "R00tPassword")

	status, raw := ts.do(t, http.MethodGet, "/api/users?page=2&pageSize=5", adminToken, nil)
	if status != http.StatusOK {
		t.Fatalf("list: status %d, body %s", status, raw)
	}
	var env successEnvelope
	if err := json.Unmarshal(raw, &env); err != nil {
		t.Fatalf("decoding envelope: %v", err)
	}
	var page struct {
		Items      []json.RawMessage `json:"items"`
		Page       int               `json:"page"`
		PageSize   int               `json:"pageSize"`
		TotalCount int64             `json:"totalCount"`
		TotalPages int               `json:"totalPages"`
	}
	if err := json.Unmarshal(env.Data, &page); err != nil {
		t.Fatalf("decoding page: %v", err)
	}
	// 12 created plus the seeded bootstrap admin.
	if page.TotalCount != 13 || page.Page != 2 || page.PageSize != 5 || page.TotalPages != 3 {
		t.Fatalf("page = %+v", page)
	}
	if len(page.Items) != 5 {
		t.Fatalf("items = %d, want 5", len(page.Items))
	}

	// Oversized page sizes clamp instead of failing.
	status, raw = ts.do(t, http.MethodGet, "/api/users?pageSize=500", adminToken, nil)
	if status != http.StatusOK {
		t.Fatalf("clamped list: status %d, body %s", status, raw)
	}
	if err := json.Unmarshal(raw, &env); err != nil {
		t.Fatalf("decoding envelope: %v", err)
	}
	if err := json.Unmarshal(env.Data, &page); err != nil {
		t.Fatalf("decoding page: %v", err)
	}
	if page.PageSize != 50 {
		t.Fatalf("pageSize = %d, want clamp to 50", page.PageSize)
	}

	status, raw = ts.do(t, http.MethodGet, "/api/users?search=user", adminToken, nil)
	if status != http.StatusOK {
		t.Fatalf("search: status %d, body %s", status, raw)
	}
	if err := json.Unmarshal(raw, &env); err != nil {
		t.Fatalf("decoding envelope: %v", err)
	}
	if err := json.Unmarshal(env.Data, &page); err != nil {
		t.Fatalf("decoding page: %v", err)
	}
	// Matches the 12 created accounts but not the bootstrap admin.
	if page.TotalCount != 12 {
		t.Fatalf("search totalCount = %d, want 12", page.TotalCount)
	}
}

func TestDeactivationBlocksLogin(t *testing.T) {
	ts := newAPITestServer(t)

	userID := ts.createUser(t, "alice01", "alice@example.test", "CorrectHorse1")
	adminToken, _ := ts.login(t, "root@example.test", "R00tPassword")

	status, raw := ts.do(t, http.MethodDelete, "/api/users/"+userID, adminToken, nil)
	if status != http.StatusNoContent {
		t.Fatalf("deactivate: status %d, body %s", status, raw)
	}

	// Soft delete: credentials stop working but the row survives.
	status, _ = ts.do(t, http.MethodPost, "/api/auth/login", "", map[string]string{
		"email":    "alice@example.test",
		"password": "CorrectHorse1",
	})
	if status != http.StatusUnauthorized {
		t.Fatalf("login after deactivation: status %d, want 401", status)
	}

	status, raw = ts.do(t, http.MethodGet, "/api/users/"+userID, adminToken, nil)
	if status != http.StatusOK {
		t.Fatalf("get deactivated user: status %d, body %s", status, raw)
	}
	var env successEnvelope
	if err := json.Unmarshal(raw, &env); err != nil {
		t.Fatalf("decoding envelope: %v", err)
	}
	var user struct {
		IsActive bool `json:"isActive"`
	}
	if err := json.Unmarshal(env.Data, &user); err != nil {
		t.Fatalf("decoding user: %v", err)
	}
	if user.IsActive {
		t.Fatal("expected user to be inactive")
	}

	// Reactivate and log in again.
	status, raw = ts.do(t, http.MethodPut, "/api/users/"+userID, adminToken, map[string]bool{"isActive": true})
	if status != http.StatusOK {
		t.Fatalf("reactivate: status %d, body %s", status, raw)
	}
	ts.login(t, "alice@example.test", "CorrectHorse1")
}

func TestValidationProblemShape(t *testing.T) {
	ts := newAPITestServer(t)

	status, raw := ts.do(t, http.MethodPost, "/api/users", "", map[string]string{
		"username": "a!",
		"email":    "nope",
		"password": "weak",
	})
	if status != http.StatusBadRequest {
		t.Fatalf("status %d, body %s", status, raw)
	}
	var problem problemEnvelope
	if err := json.Unmarshal(raw, &problem); err != nil {
		t.Fatalf("decoding problem: %v", err)
	}
	if problem.Title != "One or more validation errors occurred." {
		t.Errorf("title = %q", problem.Title)
	}
	for _, field := range []string{"username", "email", "password"} {
		if len(problem.Errors[field]) == 0 {
			t.Errorf("missing validation error for %s: %v", field, problem.Errors)
		}
	}
}

func TestHealthEndpoints(t *testing.T) {
	ts := newAPITestServer(t)

	status, _ := ts.do(t, http.MethodGet, "/health/live", "", nil)
	if status != http.StatusOK {
		t.Fatalf("live: status %d", status)
	}
	status, raw := ts.do(t, http.MethodGet, "/health/ready", "", nil)
	if status != http.StatusOK {
		t.Fatalf("ready: status %d, body %s", status, raw)
	}
}
