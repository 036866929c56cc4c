package server

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"domainreg/internal/config"
	"domainreg/internal/database"
	"domainreg/internal/models"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

var testIPCounter uint32

func setupTestServer(t *testing.T) (*Server, *fiber.App) {
	t.Helper()
	t.Setenv("APP_ENV", "test")

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(database.Models()...))

	cfg := &config.Config{
		JWTSecret: "test-secret-key-for-handler-tests-only",
		Port:      "0",
	}

	srv, err := NewServerWithDeps(cfg, db, nil)
	require.NoError(t, err)

	app := fiber.New()
	app.Use(recover.New())
	srv.SetupRoutes(app)

	return srv, app
}

func createTestUser(t *testing.T, s *Server, username string, role models.Role) *models.User {
	t.Helper()
	user := &models.User{
		Username: username,
		Password: "pass" + username,
		Role:     role,
	}
	require.NoError(t, s.db.Create(user).Error)
	return user
}

func loginToken(t *testing.T, s *Server, user *models.User) string {
	t.Helper()
	token, err := s.generateToken(user)
	require.NoError(t, err)
	return token
}

func doRequest(t *testing.T, app *fiber.App, method, path, token string, body any) *http.Response {
	t.Helper()

	var reader io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(b)
	}

	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	return resp
}

func decodeBody(t *testing.T, resp *http.Response, dest any) {
	t.Helper()
	defer resp.Body.Close()
	require.NoError(t, json.NewDecoder(resp.Body).Decode(dest))
}

// submitRequestBody builds a valid request payload with a unique IP so
// duplicate-IP conflicts never leak between tests.
func submitRequestBody(domain string) fiber.Map {
	ip := fmt.Sprintf("10.1.0.%d", atomic.AddUint32(&testIPCounter, 1))
	return fiber.Map{
		"domain":           domain,
		"purpose":          "Department website",
		"ip_address":       ip,
		"requester_name":   "Test Requester",
		"responsible_name": "Test Responsible",
		"department":       "Computer Science",
		"contact":          "requester@example.edu",
		"duration_type":    string(models.DurationPermanent),
	}
}

func TestAuthRequired_RejectsMissingAndBadTokens(t *testing.T) {
	_, app := setupTestServer(t)

	resp := doRequest(t, app, http.MethodGet, "/api/requests", "", nil)
	require.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)

	resp = doRequest(t, app, http.MethodGet, "/api/requests", "not-a-jwt", nil)
	require.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)
}

func TestAuthRequired_RejectsWrongIssuer(t *testing.T) {
	s, app := setupTestServer(t)
	user := createTestUser(t, s, "issuercheck", models.RoleUser)

	now := time.Now()
	claims := jwt.MapClaims{
		"sub": fmt.Sprintf("%d", user.ID),
		"iss": "some-other-service",
		"aud": tokenAudience,
		"exp": now.Add(time.Hour).Unix(),
		"iat": now.Unix(),
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).
		SignedString([]byte(s.config.JWTSecret))
	require.NoError(t, err)

	resp := doRequest(t, app, http.MethodGet, "/api/requests", token, nil)
	require.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)
}

func TestAdminRequired_RejectsRegularUsers(t *testing.T) {
	s, app := setupTestServer(t)
	user := createTestUser(t, s, "plainuser", models.RoleUser)
	token := loginToken(t, s, user)

	resp := doRequest(t, app, http.MethodPost, "/api/cleanup", token, nil)
	require.Equal(t, fiber.StatusForbidden, resp.StatusCode)

	resp = doRequest(t, app, http.MethodGet, "/api/admin/users", token, nil)
	require.Equal(t, fiber.StatusForbidden, resp.StatusCode)
}

func TestHealthEndpoints(t *testing.T) {
	_, app := setupTestServer(t)

	resp := doRequest(t, app, http.MethodGet, "/health/live", "", nil)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)

	resp = doRequest(t, app, http.MethodGet, "/health/ready", "", nil)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)

	var body map[string]any
	decodeBody(t, resp, &body)
	require.Equal(t, "healthy", body["status"])
}

// approveViaAPI submits a request as user and approves it as admin,
// returning the request and domain IDs.
func approveViaAPI(t *testing.T, s *Server, app *fiber.App, userToken, adminToken, domain string) (uint, uint) {
	t.Helper()

	resp := doRequest(t, app, http.MethodPost, "/api/requests", userToken, submitRequestBody(domain))
	require.Equal(t, fiber.StatusCreated, resp.StatusCode)

	var created models.DomainRequest
	decodeBody(t, resp, &created)

	resp = doRequest(t, app, http.MethodPut,
		fmt.Sprintf("/api/requests/%d", created.ID), adminToken,
		fiber.Map{"action": "approve"})
	require.Equal(t, fiber.StatusOK, resp.StatusCode)

	var domainRec models.Domain
	require.NoError(t, s.db.Where("domain_request_id = ?", created.ID).First(&domainRec).Error)
	return created.ID, domainRec.ID
}

func TestRequestLifecycleViaAPI(t *testing.T) {
	s, app := setupTestServer(t)
	user := createTestUser(t, s, "requester", models.RoleUser)
	admin := createTestUser(t, s, "boss", models.RoleAdmin)
	userToken := loginToken(t, s, user)
	adminToken := loginToken(t, s, admin)

	requestID, domainID := approveViaAPI(t, s, app, userToken, adminToken, "www.example.edu")
	require.NotZero(t, requestID)
	require.NotZero(t, domainID)

	// The approved domain shows up on the public inventory without auth.
	resp := doRequest(t, app, http.MethodGet, "/api/domains", "", nil)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)

	var domains []models.Domain
	decodeBody(t, resp, &domains)
	require.Len(t, domains, 1)
	require.Equal(t, models.DomainStatusActive, domains[0].Status)

	// A second decision on the same request conflicts.
	resp = doRequest(t, app, http.MethodPut,
		fmt.Sprintf("/api/requests/%d", requestID), adminToken,
		fiber.Map{"action": "reject"})
	require.Equal(t, fiber.StatusConflict, resp.StatusCode)
}

func TestDecideRequest_RequiresValidAction(t *testing.T) {
	s, app := setupTestServer(t)
	user := createTestUser(t, s, "actioncheck", models.RoleUser)
	admin := createTestUser(t, s, "actionadmin", models.RoleAdmin)
	userToken := loginToken(t, s, user)
	adminToken := loginToken(t, s, admin)

	resp := doRequest(t, app, http.MethodPost, "/api/requests", userToken,
		submitRequestBody("pending.example.edu"))
	require.Equal(t, fiber.StatusCreated, resp.StatusCode)

	var created models.DomainRequest
	decodeBody(t, resp, &created)

	resp = doRequest(t, app, http.MethodPut,
		fmt.Sprintf("/api/requests/%d", created.ID), adminToken,
		fiber.Map{"action": "maybe"})
	require.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
}

func TestGetMyRequests_OnlyOwn(t *testing.T) {
	s, app := setupTestServer(t)
	alice := createTestUser(t, s, "alice", models.RoleUser)
	bob := createTestUser(t, s, "bob", models.RoleUser)
	aliceToken := loginToken(t, s, alice)
	bobToken := loginToken(t, s, bob)

	resp := doRequest(t, app, http.MethodPost, "/api/requests", aliceToken,
		submitRequestBody("alice.example.edu"))
	require.Equal(t, fiber.StatusCreated, resp.StatusCode)

	resp = doRequest(t, app, http.MethodGet, "/api/requests/me", bobToken, nil)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)

	var mine []models.DomainRequest
	decodeBody(t, resp, &mine)
	require.Empty(t, mine)

	// The shared index still shows it to everyone.
	resp = doRequest(t, app, http.MethodGet, "/api/requests", bobToken, nil)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)

	var all []models.DomainRequest
	decodeBody(t, resp, &all)
	require.Len(t, all, 1)
}

func TestDomainTrashAndRestoreViaAPI(t *testing.T) {
	s, app := setupTestServer(t)
	user := createTestUser(t, s, "carol", models.RoleUser)
	admin := createTestUser(t, s, "carolboss", models.RoleAdmin)
	userToken := loginToken(t, s, user)
	adminToken := loginToken(t, s, admin)

	_, domainID := approveViaAPI(t, s, app, userToken, adminToken, "trashme.example.edu")

	// Non-admins may not delete domains.
	resp := doRequest(t, app, http.MethodDelete,
		fmt.Sprintf("/api/domains/%d", domainID), userToken, nil)
	require.Equal(t, fiber.StatusForbidden, resp.StatusCode)

	// First delete moves the active domain to trash.
	resp = doRequest(t, app, http.MethodDelete,
		fmt.Sprintf("/api/domains/%d", domainID), adminToken, nil)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)

	var step map[string]string
	decodeBody(t, resp, &step)
	require.Equal(t, "moved_to_trash", step["action"])

	// Restore with a fresh temporary window brings it back.
	expiry := time.Now().Add(30 * 24 * time.Hour)
	resp = doRequest(t, app, http.MethodPut,
		fmt.Sprintf("/api/domains/%d", domainID), adminToken,
		fiber.Map{"action": "restore", "duration_type": string(models.DurationTemporary), "expires_at": expiry})
	require.Equal(t, fiber.StatusOK, resp.StatusCode)

	var restored map[string]string
	decodeBody(t, resp, &restored)
	require.Equal(t, "restored", restored["action"])

	var domainRec models.Domain
	require.NoError(t, s.db.First(&domainRec, domainID).Error)
	require.Equal(t, models.DomainStatusActive, domainRec.Status)

	// Second delete from trash purges permanently.
	resp = doRequest(t, app, http.MethodDelete,
		fmt.Sprintf("/api/domains/%d", domainID), adminToken, nil)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)

	resp = doRequest(t, app, http.MethodDelete,
		fmt.Sprintf("/api/domains/%d", domainID), adminToken, nil)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	decodeBody(t, resp, &step)
	require.Equal(t, "permanently_deleted", step["action"])

	var count int64
	require.NoError(t, s.db.Model(&models.Domain{}).Count(&count).Error)
	require.Zero(t, count)
}

func TestCleanupEndpoints(t *testing.T) {
	s, app := setupTestServer(t)
	admin := createTestUser(t, s, "sweeper", models.RoleAdmin)
	adminToken := loginToken(t, s, admin)

	resp := doRequest(t, app, http.MethodGet, "/api/cleanup", adminToken, nil)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)

	var status map[string]any
	decodeBody(t, resp, &status)
	require.EqualValues(t, 0, status["expired_domains_pending_trash"])

	resp = doRequest(t, app, http.MethodPost, "/api/cleanup", adminToken, nil)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)

	var result map[string]any
	decodeBody(t, resp, &result)
	require.EqualValues(t, 0, result["expired_domains_moved_to_trash"])
	require.EqualValues(t, 0, result["domains_deleted_permanently"])
}

func TestParseID_RejectsGarbage(t *testing.T) {
	s, app := setupTestServer(t)
	admin := createTestUser(t, s, "parsecheck", models.RoleAdmin)
	adminToken := loginToken(t, s, admin)

	resp := doRequest(t, app, http.MethodDelete, "/api/domains/abc", adminToken, nil)
	require.Equal(t, fiber.StatusBadRequest, resp.StatusCode)

	resp = doRequest(t, app, http.MethodDelete, "/api/domains/0", adminToken, nil)
	require.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
}
