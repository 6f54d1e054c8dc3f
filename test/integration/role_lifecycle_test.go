package integration

import (
	"encoding/json"
	"net/http"
	"testing"
)

// Full lifecycle: register, authenticate, grant and revoke the Admin role.
func TestRoleAssignmentLifecycle(t *testing.T) {
	ts := newAPITestServer(t)

	userID := ts.createUser(t, "alice01", "alice@example.test", "CorrectHorse1")
	adminToken, adminID := ts.login(t, "root@example.test", "R00tPassword")
	adminRoleID := ts.roleIDByName(t, adminToken, "Admin")

	status, raw := ts.do(t, http.MethodPost, "/api/roles/users/"+userID+"/roles", adminToken,
		map[string]string{"roleId": adminRoleID})
	if status != http.StatusCreated {
		t.Fatalf("assign: status %d, body %s", status, raw)
	}

	// Assigning again is a conflict.
	status, raw = ts.do(t, http.MethodPost, "/api/roles/users/"+userID+"/roles", adminToken,
		map[string]string{"roleId": adminRoleID})
	if status != http.StatusConflict {
		t.Fatalf("duplicate assign: status %d, body %s", status, raw)
	}

	status, raw = ts.do(t, http.MethodGet, "/api/roles/users/"+userID, adminToken, nil)
	if status != http.StatusOK {
		t.Fatalf("get user roles: status %d, body %s", status, raw)
	}
	var env successEnvelope
	if err := json.Unmarshal(raw, &env); err != nil {
		t.Fatalf("decoding envelope: %v", err)
	}
	var roles []struct {
		Name string `json:"name"`
	}
	if err := json.Unmarshal(env.Data, &roles); err != nil {
		t.Fatalf("decoding roles: %v", err)
	}
	if len(roles) != 1 || roles[0].Name != "Admin" {
		t.Fatalf("roles = %v, want [Admin]", roles)
	}

	// The newly promoted user's token carries the role.
	aliceToken, aliceID := ts.login(t, "alice@example.test", "CorrectHorse1")
	if aliceID == adminID {
		t.Fatal("distinct users must not share an id")
	}
	status, raw = ts.do(t, http.MethodGet, "/api/auth/me", aliceToken, nil)
	if status != http.StatusOK {
		t.Fatalf("me: status %d, body %s", status, raw)
	}

	status, raw = ts.do(t, http.MethodDelete, "/api/roles/users/"+userID+"/roles/"+adminRoleID, adminToken, nil)
	if status != http.StatusNoContent {
		t.Fatalf("remove: status %d, body %s", status, raw)
	}

	// Removing a role that is no longer assigned is a 404.
	status, raw = ts.do(t, http.MethodDelete, "/api/roles/users/"+userID+"/roles/"+adminRoleID, adminToken, nil)
	if status != http.StatusNotFound {
		t.Fatalf("second remove: status %d, body %s", status, raw)
	}
	var problem problemEnvelope
	if err := json.Unmarshal(raw, &problem); err != nil {
		t.Fatalf("decoding problem: %v", err)
	}
	if problem.Detail != "user does not have this role" {
		t.Errorf("detail = %q", problem.Detail)
	}
}

func TestRoleRoutesRejectNonAdmin(t *testing.T) {
	ts := newAPITestServer(t)

	userID := ts.createUser(t, "bob_smith", "bob@example.test", "Sup3rSecret")
	token, _ := ts.login(t, "bob@example.test", "Sup3rSecret")

	status, _ := ts.do(t, http.MethodGet, "/api/roles", token, nil)
	if status != http.StatusForbidden {
		t.Fatalf("list roles as non-admin: status %d, want 403", status)
	}

	status, _ = ts.do(t, http.MethodPost, "/api/roles/users/"+userID+"/roles", token,
		map[string]string{"roleId": "r1"})
	if status != http.StatusForbidden {
		t.Fatalf("assign as non-admin: status %d, want 403", status)
	}
}

func TestAssignRoleToUnknownUser(t *testing.T) {
	ts := newAPITestServer(t)

	adminToken, _ := ts.login(t, "root@example.test", "R00tPassword")
	adminRoleID := ts.roleIDByName(t, adminToken, "Admin")

	status, raw := ts.do(t, http.MethodPost, "/api/roles/users/no-such-user/roles", adminToken,
		map[string]string{"roleId": adminRoleID})
	if status != http.StatusNotFound {
		t.Fatalf("status %d, body %s", status, raw)
	}
}
