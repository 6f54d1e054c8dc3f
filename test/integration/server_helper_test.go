package integration

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"ai-samples-api/internal/agui"
	"ai-samples-api/internal/config"
	"ai-samples-api/internal/database"
	"ai-samples-api/internal/health"
	"ai-samples-api/internal/http/handler"
	"ai-samples-api/internal/http/router"
	"ai-samples-api/internal/repository"
	"ai-samples-api/internal/security"
	"ai-samples-api/internal/service"
)

type successEnvelope struct {
	Data    json.RawMessage `json:"data"`
	Message string          `json:"message"`
	Code    int             `json:"code"`
}

type problemEnvelope struct {
	Title  string              `json:"title"`
	Status int                 `json:"status"`
	Detail string              `json:"detail"`
	Errors map[string][]string `json:"errors"`
}

type testServer struct {
	URL    string
	Client *http.Client
	DB     *gorm.DB
	Config *config.Config
}

func newTestConfig() *config.Config {
	return &config.Config{
		Env:                    "test",
		HTTPPort:               "0",
		DatabaseURL:            "unused",
		JWTKey:                 "0123456789abcdef0123456789abcdef",
		JWTIssuer:              "test-issuer",
		JWTAudience:            "test-audience",
		JWTExpiryHours:         1,
		BootstrapAdminEmail:    "root@example.test",
		BootstrapAdminPassword: "R00tPassword",
		CORSAllowedOrigins:     []string{"http://localhost:3000"},
		AuthRateLimitPerMin:    1000,
		APIRateLimitPerMin:     10000,
	}
}

// newAPITestServer builds the full HTTP surface over an in-memory database
// with the default roles and the bootstrap admin seeded.
func newAPITestServer(t *testing.T, opts ...func(*config.Config)) *testServer {
	t.Helper()

	cfg := newTestConfig()
	for _, opt := range opts {
		opt(cfg)
	}

	dsn := fmt.Sprintf("file:integration_%s?mode=memory&cache=shared", t.Name())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("opening sqlite: %v", err)
	}
	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			_ = sqlDB.Close()
		}
	})
	if err := database.Migrate(db); err != nil {
		t.Fatalf("migrating: %v", err)
	}
	if _, err := database.Seed(db, cfg, slog.Default()); err != nil {
		t.Fatalf("seeding: %v", err)
	}

	userRepo := repository.NewUserRepository(db)
	roleRepo := repository.NewRoleRepository(db)
	jwtMgr := security.NewJWTManager(cfg.JWTKey, cfg.JWTIssuer, cfg.JWTAudience, cfg.JWTValidity())

	authSvc := service.NewAuthService(userRepo, roleRepo, jwtMgr)
	userSvc := service.NewUserService(userRepo)
	roleSvc := service.NewRoleService(userRepo, roleRepo)

	var factory *agui.Factory
	if cfg.AgentEnabled {
		factory = agui.NewFactory(staticCompleter{})
	}

	h := router.NewRouter(router.Dependencies{
		AuthHandler:      handler.NewAuthHandler(authSvc, roleSvc),
		UserHandler:      handler.NewUserHandler(userSvc),
		RoleHandler:      handler.NewRoleHandler(roleSvc),
		AgentHandler:     handler.NewAgentHandler(factory),
		JWTManager:       jwtMgr,
		CORSOrigins:      cfg.CORSAllowedOrigins,
		AuthRateLimitRPM: cfg.AuthRateLimitPerMin,
		APIRateLimitRPM:  cfg.APIRateLimitPerMin,
		Readiness:        health.NewProbeRunner(2*time.Second, 0, health.NewDBChecker(db)),
	})

	srv := httptest.NewServer(h)
	t.Cleanup(srv.Close)

	return &testServer{
		URL:    srv.URL,
		Client: srv.Client(),
		DB:     db,
		Config: cfg,
	}
}

type staticCompleter struct{}

func (staticCompleter) Complete(_ context.Context, _ string, _ []agui.Message) (agui.Message, error) {
	return agui.Message{Role: "assistant", Content: "ok"}, nil
}

func (ts *testServer) do(t *testing.T, method, path, token string, body any) (int, []byte) {
	t.Helper()
	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("encoding request body: %v", err)
		}
		reader = bytes.NewReader(raw)
	}
	req, err := http.NewRequest(method, ts.URL+path, reader)
	if err != nil {
		t.Fatalf("building request: %v", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	resp, err := ts.Client.Do(req)
	if err != nil {
		t.Fatalf("%s %s: %v", method, path, err)
	}
	defer resp.Body.Close()
	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		t.Fatalf("reading response body: %v", err)
	}
	return resp.StatusCode, raw
}

func (ts *testServer) login(t *testing.T, email, password string) (token, userID string) {
	t.Helper()
	status, raw := ts.do(t, http.MethodPost, "/api/auth/login", "", map[string]string{
		"email":    email,
		"password": password,
	})
	if status != http.StatusOK {
		t.Fatalf("login as %s: status %d, body %s", email, status, raw)
	}
	var env successEnvelope
	if err := json.Unmarshal(raw, &env); err != nil {
		t.Fatalf("decoding login envelope: %v", err)
	}
	var data struct {
		Token string `json:"token"`
		User  struct {
			ID string `json:"id"`
		} `json:"user"`
	}
	if err := json.Unmarshal(env.Data, &data); err != nil {
		t.Fatalf("decoding login payload: %v", err)
	}
	return data.Token, data.User.ID
}

func (ts *testServer) createUser(t *testing.T, username, email, password string) string {
	t.Helper()
	status, raw := ts.do(t, http.MethodPost, "/api/users", "", map[string]string{
		"username": username,
		"email":    email,
		"password": password,
	})
	if status != http.StatusCreated {
		t.Fatalf("creating user %s: status %d, body %s", username, status, raw)
	}
	var env successEnvelope
	if err := json.Unmarshal(raw, &env); err != nil {
		t.Fatalf("decoding create envelope: %v", err)
	}
	var user struct {
		ID string `json:"id"`
	}
	if err := json.Unmarshal(env.Data, &user); err != nil {
		t.Fatalf("decoding created user: %v", err)
	}
	return user.ID
}

func (ts *testServer) roleIDByName(t *testing.T, adminToken, name string) string {
	t.Helper()
	status, raw := ts.do(t, http.MethodGet, "/api/roles", adminToken, nil)
	if status != http.StatusOK {
		t.Fatalf("listing roles: status %d, body %s", status, raw)
	}
	var env successEnvelope
	if err := json.Unmarshal(raw, &env); err != nil {
		t.Fatalf("decoding roles envelope: %v", err)
	}
	var page struct {
		Items []struct {
			ID   string `json:"id"`
			Name string `json:"name"`
		} `json:"items"`
	}
	if err := json.Unmarshal(env.Data, &page); err != nil {
		t.Fatalf("decoding roles page: %v", err)
	}
	for _, role := range page.Items {
		if role.Name == name {
			return role.ID
		}
	}
	t.Fatalf("role %s not found", name)
	return ""
}
