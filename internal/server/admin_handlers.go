package server

import (
	"domainreg/internal/models"
	"domainreg/internal/service"

	"github.com/gofiber/fiber/v2"
)

// CreateUserRequest is the payload for creating an account (admin only)
type CreateUserRequest struct {
	Username   string `json:"username"`
	Role       string `json:"role"`
	PositionID *uint  `json:"position_id"`
}

// ResetPasswordRequest names the account whose password is reset
type ResetPasswordRequest struct {
	UserID uint `json:"user_id"`
}

// CreatePositionRequest is the payload for adding a position (admin only)
type CreatePositionRequest struct {
	Name        string `json:"name"`
	Description string `json:"description"`
}

// GetUsers lists all accounts (admin only)
func (s *Server) GetUsers(c *fiber.Ctx) error {
	users, err := s.userService.List(c.UserContext())
	if err != nil {
		return respondServiceError(c, err)
	}
	return c.JSON(users)
}

// CreateUser creates an account with a generated password that is
// returned exactly once in the response (admin only)
func (s *Server) CreateUser(c *fiber.Ctx) error {
	var req CreateUserRequest
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}

	created, err := s.userService.Create(c.UserContext(), service.CreateUserInput{
		Username:   req.Username,
		Role:       req.Role,
		PositionID: req.PositionID,
	})
	if err != nil {
		return respondServiceError(c, err)
	}

	return c.Status(fiber.StatusCreated).JSON(created)
}

// DeleteUser removes an account and everything it owns (admin only)
func (s *Server) DeleteUser(c *fiber.Ctx) error {
	id, err := parseID(c, "id")
	if err != nil {
		return nil
	}

	err = s.userService.Delete(c.UserContext(), service.DeleteUserInput{
		AdminID: currentUserID(c),
		UserID:  id,
	})
	if err != nil {
		return respondServiceError(c, err)
	}

	return c.JSON(fiber.Map{"message": "User deleted successfully"})
}

// ResetUserPassword issues a fresh generated password for an account
// and returns it exactly once (admin only)
func (s *Server) ResetUserPassword(c *fiber.Ctx) error {
	var req ResetPasswordRequest
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}
	if req.UserID == 0 {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("user_id is required"))
	}

	result, err := s.userService.ResetPassword(c.UserContext(), req.UserID)
	if err != nil {
		return respondServiceError(c, err)
	}

	return c.JSON(result)
}

// GetPositions lists the active positions offered on the request form
func (s *Server) GetPositions(c *fiber.Ctx) error {
	positions, err := s.userService.ListPositions(c.UserContext())
	if err != nil {
		return respondServiceError(c, err)
	}
	return c.JSON(positions)
}

// CreatePosition adds a new position (admin only)
func (s *Server) CreatePosition(c *fiber.Ctx) error {
	var req CreatePositionRequest
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}

	created, err := s.userService.CreatePosition(c.UserContext(), service.CreatePositionInput{
		Name:        req.Name,
		Description: req.Description,
	})
	if err != nil {
		return respondServiceError(c, err)
	}

	return c.Status(fiber.StatusCreated).JSON(created)
}
