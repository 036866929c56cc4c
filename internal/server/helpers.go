package server

import (
	"context"
	"errors"
	"strconv"

	"domainreg/internal/models"

	"github.com/gofiber/fiber/v2"
)

// errResponseWritten signals that the handler already wrote an error response.
var errResponseWritten = errors.New("response already written")

// parseID parses a numeric path parameter and writes a 400 on failure.
func parseID(c *fiber.Ctx, param string) (uint, error) {
	raw := c.Params(param)
	id, err := strconv.ParseUint(raw, 10, 32)
	if err != nil || id == 0 {
		_ = models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid "+param+" parameter"))
		return 0, errResponseWritten
	}
	return uint(id), nil
}

// currentUserID returns the authenticated user's ID set by AuthRequired.
func currentUserID(c *fiber.Ctx) uint {
	userID, _ := c.Locals("userID").(uint)
	return userID
}

// respondServiceError maps an AppError from the service layer onto the
// right HTTP status. Unknown errors become a 500.
func respondServiceError(c *fiber.Ctx, err error) error {
	var appErr *models.AppError
	if errors.As(err, &appErr) {
		return models.RespondWithError(c, models.StatusForError(appErr), appErr)
	}
	return models.RespondWithError(c, fiber.StatusInternalServerError,
		models.NewInternalError(err))
}

// isAdminByUserID reports whether the given user has the admin role.
func (s *Server) isAdminByUserID(ctx context.Context, userID uint) (bool, error) {
	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		return false, err
	}
	return user.Role == models.RoleAdmin, nil
}
