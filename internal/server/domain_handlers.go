package server

import (
	"time"

	"domainreg/internal/models"
	"domainreg/internal/service"

	"github.com/gofiber/fiber/v2"
)

// RestoreDomainRequest is the payload for restoring a trashed domain
type RestoreDomainRequest struct {
	Action       string     `json:"action"`
	DurationType string     `json:"duration_type"`
	ExpiresAt    *time.Time `json:"expires_at"`
}

// RenewDomainRequest is the payload for a direct owner renewal
type RenewDomainRequest struct {
	ExpiresAt time.Time `json:"expires_at"`
}

// GetDomains returns the public domain inventory with effective statuses
func (s *Server) GetDomains(c *fiber.Ctx) error {
	domains, err := s.domainService.List(c.UserContext())
	if err != nil {
		return respondServiceError(c, err)
	}
	return c.JSON(domains)
}

// DeleteDomain applies the two-step delete: an active domain is moved to
// trash, a trashed domain is purged permanently (admin only)
func (s *Server) DeleteDomain(c *fiber.Ctx) error {
	id, err := parseID(c, "id")
	if err != nil {
		return nil
	}

	result, err := s.domainService.TrashOrPurge(c.UserContext(), id)
	if err != nil {
		return respondServiceError(c, err)
	}

	return c.JSON(fiber.Map{"action": string(result)})
}

// RestoreDomain brings a trashed domain back to active (admin only)
func (s *Server) RestoreDomain(c *fiber.Ctx) error {
	id, err := parseID(c, "id")
	if err != nil {
		return nil
	}

	var req RestoreDomainRequest
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}
	if req.Action != "" && req.Action != "restore" {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Action must be 'restore'"))
	}

	err = s.domainService.Restore(c.UserContext(), service.RestoreDomainInput{
		DomainID:     id,
		DurationType: req.DurationType,
		ExpiresAt:    req.ExpiresAt,
	})
	if err != nil {
		return respondServiceError(c, err)
	}

	return c.JSON(fiber.Map{"action": "restored"})
}

// RenewOwnedDomain extends a temporary domain's expiry directly. Only the
// request owner may use this shortcut; others go through renewal requests.
func (s *Server) RenewOwnedDomain(c *fiber.Ctx) error {
	id, err := parseID(c, "id")
	if err != nil {
		return nil
	}

	var req RenewDomainRequest
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}

	renewed, err := s.domainService.RenewOwned(c.UserContext(), service.RenewOwnedInput{
		UserID:    currentUserID(c),
		RequestID: id,
		ExpiresAt: req.ExpiresAt,
	})
	if err != nil {
		return respondServiceError(c, err)
	}

	return c.JSON(renewed)
}
