package server

import (
	"net/http"
	"testing"

	"domainreg/internal/models"

	"github.com/alicebob/miniredis/v2"
	"github.com/gofiber/fiber/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/require"
)

func TestLogin(t *testing.T) {
	s, app := setupTestServer(t)
	user := createTestUser(t, s, "dave", models.RoleUser)

	t.Run("issues a working token on valid credentials", func(t *testing.T) {
		resp := doRequest(t, app, http.MethodPost, "/api/auth/login", "",
			fiber.Map{"username": "dave", "password": "passdave"})
		require.Equal(t, fiber.StatusOK, resp.StatusCode)

		var body LoginResponse
		decodeBody(t, resp, &body)
		require.NotEmpty(t, body.Token)
		require.Equal(t, user.ID, body.User.ID)

		resp = doRequest(t, app, http.MethodGet, "/api/requests/me", body.Token, nil)
		require.Equal(t, fiber.StatusOK, resp.StatusCode)
	})

	t.Run("same error for wrong password and unknown user", func(t *testing.T) {
		resp := doRequest(t, app, http.MethodPost, "/api/auth/login", "",
			fiber.Map{"username": "dave", "password": "wrong"})
		require.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)
		var wrongPass map[string]any
		decodeBody(t, resp, &wrongPass)

		resp = doRequest(t, app, http.MethodPost, "/api/auth/login", "",
			fiber.Map{"username": "nobody", "password": "whatever"})
		require.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)
		var unknownUser map[string]any
		decodeBody(t, resp, &unknownUser)

		require.Equal(t, wrongPass["error"], unknownUser["error"])
	})

	t.Run("requires username and password", func(t *testing.T) {
		resp := doRequest(t, app, http.MethodPost, "/api/auth/login", "",
			fiber.Map{"username": "dave"})
		require.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
	})
}

func TestLogout_RevokesToken(t *testing.T) {
	s, app := setupTestServer(t)

	mr := miniredis.RunT(t)
	s.redis = redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { s.redis.Close() })

	user := createTestUser(t, s, "erin", models.RoleUser)
	token := loginToken(t, s, user)

	// Token works before logout.
	resp := doRequest(t, app, http.MethodGet, "/api/requests/me", token, nil)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)

	resp = doRequest(t, app, http.MethodPost, "/api/auth/logout", token, nil)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)

	// The blacklisted JTI now rejects the same token everywhere.
	resp = doRequest(t, app, http.MethodGet, "/api/requests/me", token, nil)
	require.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)
}

func TestChangePasswordViaAPI(t *testing.T) {
	s, app := setupTestServer(t)
	user := createTestUser(t, s, "frank", models.RoleUser)
	token := loginToken(t, s, user)

	t.Run("rejects wrong current password", func(t *testing.T) {
		resp := doRequest(t, app, http.MethodPost, "/api/change-password", token,
			fiber.Map{"current_password": "nope", "new_password": "longenough"})
		require.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
	})

	t.Run("changes the password and old one stops working", func(t *testing.T) {
		resp := doRequest(t, app, http.MethodPost, "/api/change-password", token,
			fiber.Map{"current_password": "passfrank", "new_password": "newsecret"})
		require.Equal(t, fiber.StatusOK, resp.StatusCode)

		resp = doRequest(t, app, http.MethodPost, "/api/auth/login", "",
			fiber.Map{"username": "frank", "password": "passfrank"})
		require.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)

		resp = doRequest(t, app, http.MethodPost, "/api/auth/login", "",
			fiber.Map{"username": "frank", "password": "newsecret"})
		require.Equal(t, fiber.StatusOK, resp.StatusCode)
	})
}
