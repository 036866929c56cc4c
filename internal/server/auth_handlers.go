package server

import (
	"fmt"
	"log/slog"
	"time"

	"domainreg/internal/middleware"
	"domainreg/internal/models"
	"domainreg/internal/service"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

const (
	tokenIssuer   = "domainreg-api"
	tokenAudience = "domainreg-client"
	tokenLifetime = 7 * 24 * time.Hour
)

// LoginRequest is the payload for the login endpoint
type LoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// LoginResponse contains the issued token and the account it belongs to
type LoginResponse struct {
	Token string      `json:"token"`
	User  models.User `json:"user"`
}

// Login handles user authentication
func (s *Server) Login(c *fiber.Ctx) error {
	var req LoginRequest
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}

	if req.Username == "" || req.Password == "" {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Username and password are required"))
	}

	user, err := s.userRepo.GetByUsername(c.UserContext(), req.Username)
	if err != nil {
		return respondServiceError(c, err)
	}
	// Same message for unknown users and wrong passwords so that login
	// probes cannot enumerate accounts.
	if user == nil || user.Password != req.Password {
		return models.RespondWithError(c, fiber.StatusUnauthorized,
			models.NewUnauthorizedError("Invalid username or password"))
	}

	token, err := s.generateToken(user)
	if err != nil {
		return models.RespondWithError(c, fiber.StatusInternalServerError,
			models.NewInternalError(err))
	}

	middleware.Logger.InfoContext(c.UserContext(), "user logged in",
		slog.Uint64("user_id", uint64(user.ID)),
		slog.String("username", user.Username))

	return c.JSON(LoginResponse{Token: token, User: *user})
}

// Logout revokes the presented token by blacklisting its JTI until expiry.
func (s *Server) Logout(c *fiber.Ctx) error {
	claims := tokenClaimsFromHeader(c, s.config.JWTSecret)
	if claims == nil {
		return models.RespondWithError(c, fiber.StatusUnauthorized,
			models.NewUnauthorizedError("Invalid token"))
	}

	jti, _ := claims["jti"].(string)
	if jti != "" && s.redis != nil {
		ttl := tokenLifetime
		if exp, ok := claims["exp"].(float64); ok {
			remaining := time.Until(time.Unix(int64(exp), 0))
			if remaining > 0 {
				ttl = remaining
			}
		}
		if err := s.redis.Set(c.Context(), "blacklist:"+jti, "revoked", ttl).Err(); err != nil {
			middleware.Logger.WarnContext(c.UserContext(), "failed to blacklist token",
				slog.String("error", err.Error()))
		}
	}

	return c.JSON(fiber.Map{"message": "Logged out successfully"})
}

// ChangePasswordRequest is the payload for the change-password endpoint
type ChangePasswordRequest struct {
	CurrentPassword string `json:"current_password"`
	NewPassword     string `json:"new_password"`
}

// ChangePassword lets the authenticated user rotate their own password
func (s *Server) ChangePassword(c *fiber.Ctx) error {
	var req ChangePasswordRequest
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}

	err := s.userService.ChangePassword(c.UserContext(), service.ChangePasswordInput{
		UserID:          currentUserID(c),
		CurrentPassword: req.CurrentPassword,
		NewPassword:     req.NewPassword,
	})
	if err != nil {
		return respondServiceError(c, err)
	}

	return c.JSON(fiber.Map{"message": "Password changed successfully"})
}

func (s *Server) generateToken(user *models.User) (string, error) {
	now := time.Now()
	claims := jwt.MapClaims{
		"sub":      fmt.Sprintf("%d", user.ID),
		"username": user.Username,
		"role":     string(user.Role),
		"iss":      tokenIssuer,
		"aud":      tokenAudience,
		"exp":      now.Add(tokenLifetime).Unix(),
		"iat":      now.Unix(),
		"nbf":      now.Unix(),
		"jti":      generateJTI(),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(s.config.JWTSecret))
}

func generateJTI() string {
	return fmt.Sprintf("%d-%s", time.Now().Unix(), uuid.NewString()[:8])
}

// tokenClaimsFromHeader re-parses the bearer token from the Authorization
// header. Returns nil when the header is missing or the token is invalid.
func tokenClaimsFromHeader(c *fiber.Ctx, secret string) jwt.MapClaims {
	authHeader := c.Get("Authorization")
	const prefix = "Bearer "
	if len(authHeader) <= len(prefix) || authHeader[:len(prefix)] != prefix {
		return nil
	}

	token, err := jwt.Parse(authHeader[len(prefix):], func(token *jwt.Token) (any, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fiber.NewError(fiber.StatusUnauthorized, "Invalid signing method")
		}
		return []byte(secret), nil
	})
	if err != nil || !token.Valid {
		return nil
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return nil
	}
	return claims
}
