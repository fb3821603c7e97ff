package server

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"campushire/internal/config"
	"campushire/internal/testutil"

	"github.com/alicebob/miniredis/v2"
	"github.com/gofiber/fiber/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

const (
	testSecret        = "test-secret-key-that-is-at-least-32-chars"
	testAdminEmail    = "admin@campushire.test"
	testAdminPassword = "correct-horse-battery"
)

// captureSender records the last code mailed to each address.
type captureSender struct {
	mu    sync.Mutex
	codes map[string]string
}

func (c *captureSender) Send(_ context.Context, to, subject, _ string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.codes[to] = strings.TrimPrefix(subject, "CampusHire AI - Your OTP is ")
	return nil
}

func (c *captureSender) code(email string) string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.codes[email]
}

// stubGenerator answers every prompt with reply, or fails with err.
type stubGenerator struct {
	reply string
	err   error
}

func (g stubGenerator) Generate(context.Context, string) (string, error) {
	return g.reply, g.err
}

type testServer struct {
	*Server
	app    *fiber.App
	db     *gorm.DB
	mailer *captureSender
}

func testConfig() *config.Config {
	return &config.Config{
		Port:                     "8000",
		Env:                      "test",
		SecretKey:                testSecret,
		Algorithm:                "HS256",
		AccessTokenExpireMinutes: 30,
		AdminPassword:            testAdminPassword,
		EmailFromName:            "CampusHire AI",
		AllowedOrigins:           "http://localhost:3000",
	}
}

func newTestServer(t *testing.T, mutate ...func(*config.Config, *Deps)) *testServer {
	t.Helper()
	t.Setenv("APP_ENV", "test")

	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = rdb.Close() })

	db := testutil.NewSQLiteDB(t)
	mailer := &captureSender{codes: map[string]string{}}
	cfg := testConfig()
	deps := Deps{
		Mailer:    mailer,
		Generator: stubGenerator{reply: "Practice arrays daily."},
	}
	for _, m := range mutate {
		m(cfg, &deps)
	}

	s, err := NewServerWithDeps(cfg, db, rdb, deps)
	require.NoError(t, err)
	return &testServer{Server: s, app: s.App(), db: db, mailer: mailer}
}

// do sends a request with an optional JSON body and bearer token and
// decodes the JSON response into out when out is non-nil.
func (ts *testServer) do(t *testing.T, method, path string, body any, token string, out any) int {
	t.Helper()
	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	}
	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	resp, err := ts.app.Test(req, -1)
	require.NoError(t, err)
	defer func() { _ = resp.Body.Close() }()

	if out != nil {
		require.NoError(t, json.NewDecoder(resp.Body).Decode(out))
	}
	return resp.StatusCode
}

// registerStudent runs the signup flow for email and returns the session token.
func (ts *testServer) registerStudent(t *testing.T, email, fullName string) string {
	t.Helper()
	status := ts.do(t, http.MethodPost, "/api/v1/auth/signup", fiber.Map{"email": email}, "", nil)
	require.Equal(t, http.StatusOK, status)

	var tok struct {
		AccessToken string `json:"access_token"`
	}
	status = ts.do(t, http.MethodPost, "/api/v1/auth/verify-otp", fiber.Map{
		"email":            email,
		"otp":              ts.mailer.code(email),
		"full_name":        fullName,
		"password":         "secret123",
		"confirm_password": "secret123",
	}, "", &tok)
	require.Equal(t, http.StatusOK, status)
	require.NotEmpty(t, tok.AccessToken)
	return tok.AccessToken
}

func (ts *testServer) adminToken(t *testing.T) string {
	t.Helper()
	var out struct {
		AccessToken string `json:"access_token"`
	}
	status := ts.do(t, http.MethodPost, "/api/v1/admin/login", fiber.Map{
		"email":    testAdminEmail,
		"password": testAdminPassword,
	}, "", &out)
	require.Equal(t, http.StatusOK, status)
	return out.AccessToken
}
