package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"tenantnotes/cmd/internal/auth"
	"tenantnotes/cmd/internal/domain/database"
	"tenantnotes/cmd/internal/domain/database/repository"
	"tenantnotes/cmd/internal/domain/policy"
	authmw "tenantnotes/cmd/internal/http/middleware"
	"tenantnotes/cmd/internal/notification"
	"tenantnotes/cmd/internal/service"
	"tenantnotes/cmd/internal/utils"
	"tenantnotes/cmd/internal/utils/validators"
)

const testSecret = "handler-test-secret"

type testServer struct {
	e      *echo.Echo
	tokens *auth.TokenCodec
	conns  *repository.DefaultConnectionRepository
}

// newTestServer wires the full API over an in-memory database seeded with
// the demo tenants.
func newTestServer(t *testing.T, loginLimiter echo.MiddlewareFunc) *testServer {
	t.Helper()
	return buildTestServer(t, loginLimiter, "")
}

// newGatewayTestServer is newTestServer with the gateway callbacks guarded
// by 'secret'.
func newGatewayTestServer(t *testing.T, secret string) *testServer {
	t.Helper()
	return buildTestServer(t, nil, secret)
}

func buildTestServer(t *testing.T, loginLimiter echo.MiddlewareFunc, gatewaySecret string) *testServer {
	t.Helper()
	db, err := database.Open(database.Options{Driver: database.DriverSQLite, DSN: ":memory:"})
	if err != nil {
		t.Fatalf("open database: %v", err)
	}
	if err := database.SeedDemoData(context.Background(), db); err != nil {
		t.Fatalf("seed: %v", err)
	}

	tokens, err := auth.NewTokenCodec(testSecret, time.Hour)
	if err != nil {
		t.Fatalf("token codec: %v", err)
	}
	validate := validators.New()

	tenantRepo := repository.NewTenantRepository(db)
	userRepo := repository.NewUserRepository(db)
	noteRepo := repository.NewNoteRepository(db)
	connRepo := repository.NewConnectionRepository(db)

	notifier := notification.LogNotifier{}
	quotaPolicy := policy.NewQuotaPolicy(policy.DefaultFreeNoteLimit)
	quotaService := service.NewQuotaService(tenantRepo, noteRepo, quotaPolicy)
	tenantService := service.NewTenantService(tenantRepo, quotaService, validate)
	wsService := service.NewWebSocketService(connRepo, nil)

	routes := &Routes{
		Auth:        NewAuthDefault(service.NewAuthService(userRepo, tokens, validate, nil), utils.DefaultCookieConfig(false)),
		Notes:       NewNoteDefault(service.NewNoteService(noteRepo, quotaPolicy, notifier, validate, nil)),
		Tenants:     NewTenantDefault(tenantService),
		Users:       NewUserDefault(service.NewUserService(userRepo, validate)),
		Invitations: NewInvitationDefault(service.NewInvitationService(userRepo, tenantRepo, tenantService, notifier, validate)),
		WebSocket:   NewWSDefault(wsService, tokens),
		GatewayAuth: authmw.NewGatewayMiddleware(gatewaySecret),
	}

	if loginLimiter == nil {
		loginLimiter = NewLoginRateLimiter(0)
	}

	e := echo.New()
	e.Use(authmw.NewAuthMiddleware(auth.NewResolver(tokens)))
	Register(e, routes, loginLimiter)
	return &testServer{e: e, tokens: tokens, conns: connRepo}
}

type requestOption func(*http.Request)

func withToken(token string) requestOption {
	return func(req *http.Request) {
		req.Header.Set(echo.HeaderAuthorization, "Bearer "+token)
	}
}

func withHeader(key, value string) requestOption {
	return func(req *http.Request) {
		req.Header.Set(key, value)
	}
}

func (s *testServer) do(method, path, body string, opts ...requestOption) *httptest.ResponseRecorder {
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, path, nil)
	} else {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	}
	for _, opt := range opts {
		opt(req)
	}

	rec := httptest.NewRecorder()
	s.e.ServeHTTP(rec, req)
	return rec
}

// login signs in one of the seeded demo users.
func (s *testServer) login(t *testing.T, email string) string {
	t.Helper()
	return s.loginWith(t, email, "password")
}

func (s *testServer) loginWith(t *testing.T, email, password string) string {
	t.Helper()
	body, err := json.Marshal(map[string]string{"email": email, "password": password})
	if err != nil {
		t.Fatalf("marshal login body: %v", err)
	}

	rec := s.do(http.MethodPost, "/api/auth/login", string(body))
	if rec.Code != http.StatusOK {
		t.Fatalf("login %s: status %d, body %s", email, rec.Code, rec.Body.String())
	}

	var resp struct {
		Token string `json:"token"`
	}
	decode(t, rec, &resp)
	if resp.Token == "" {
		t.Fatalf("login %s returned no token", email)
	}
	return resp.Token
}

// connectionOwner returns who 'connID' is registered to, or "" when it is not.
func (s *testServer) connectionOwner(t *testing.T, connID string) string {
	t.Helper()
	conn, err := s.conns.FindByID(context.Background(), connID)
	if err != nil {
		t.Fatalf("find connection %s: %v", connID, err)
	}
	if conn == nil {
		return ""
	}
	return conn.UserID
}

// userID looks up a user of the admin's tenant by email.
func (s *testServer) userID(t *testing.T, adminToken, email string) string {
	t.Helper()
	rec := s.do(http.MethodGet, "/api/users", "", withToken(adminToken))
	if rec.Code != http.StatusOK {
		t.Fatalf("list users: status %d", rec.Code)
	}

	var resp struct {
		Users []struct {
			ID    string `json:"id"`
			Email string `json:"email"`
		} `json:"users"`
	}
	decode(t, rec, &resp)
	for _, u := range resp.Users {
		if u.Email == email {
			return u.ID
		}
	}
	t.Fatalf("user %s not found", email)
	return ""
}

func decode(t *testing.T, rec *httptest.ResponseRecorder, v any) {
	t.Helper()
	if err := json.Unmarshal(rec.Body.Bytes(), v); err != nil {
		t.Fatalf("decode %q: %v", rec.Body.String(), err)
	}
}

func expectStatus(t *testing.T, rec *httptest.ResponseRecorder, want int) {
	t.Helper()
	if rec.Code != want {
		t.Fatalf("status = %d, want %d (body %s)", rec.Code, want, rec.Body.String())
	}
}
