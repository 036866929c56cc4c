package server

import (
	"time"

	"domainreg/internal/models"
	"domainreg/internal/service"

	"github.com/gofiber/fiber/v2"
)

// CreateRenewalRequestRequest is the payload for opening a renewal request
type CreateRenewalRequestRequest struct {
	DomainID      uint      `json:"domain_id"`
	NewExpiryDate time.Time `json:"new_expiry_date"`
	Reason        string    `json:"reason"`
}

// DecideRenewalRequestRequest is the payload for an admin renewal decision
type DecideRenewalRequestRequest struct {
	Action string `json:"action"`
}

// GetRenewalRequests lists renewal requests. Admins see everything unless
// they pass ?mine=true; regular users only ever see their own.
func (s *Server) GetRenewalRequests(c *fiber.Ctx) error {
	renewals, err := s.renewalService.List(c.UserContext(), service.ListRenewalsInput{
		UserID:   currentUserID(c),
		MineOnly: c.Query("mine") == "true",
	})
	if err != nil {
		return respondServiceError(c, err)
	}
	return c.JSON(renewals)
}

// CreateRenewalRequest opens a renewal request for a domain
func (s *Server) CreateRenewalRequest(c *fiber.Ctx) error {
	var req CreateRenewalRequestRequest
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}

	created, err := s.renewalService.Create(c.UserContext(), service.CreateRenewalInput{
		UserID:        currentUserID(c),
		DomainID:      req.DomainID,
		NewExpiryDate: req.NewExpiryDate,
		Reason:        req.Reason,
	})
	if err != nil {
		return respondServiceError(c, err)
	}

	return c.Status(fiber.StatusCreated).JSON(created)
}

// DecideRenewalRequest approves or rejects a pending renewal (admin only)
func (s *Server) DecideRenewalRequest(c *fiber.Ctx) error {
	id, err := parseID(c, "id")
	if err != nil {
		return nil
	}

	var req DecideRenewalRequestRequest
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}

	var approve bool
	switch req.Action {
	case "approve":
		approve = true
	case "reject":
		approve = false
	default:
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Action must be 'approve' or 'reject'"))
	}

	decided, err := s.renewalService.Decide(c.UserContext(), service.DecideRenewalInput{
		RenewalID: id,
		Approve:   approve,
	})
	if err != nil {
		return respondServiceError(c, err)
	}

	return c.JSON(decided)
}

// DeleteRenewalRequest withdraws a pending renewal request
func (s *Server) DeleteRenewalRequest(c *fiber.Ctx) error {
	id, err := parseID(c, "id")
	if err != nil {
		return nil
	}

	err = s.renewalService.Delete(c.UserContext(), service.DeleteRenewalInput{
		UserID:    currentUserID(c),
		RenewalID: id,
	})
	if err != nil {
		return respondServiceError(c, err)
	}

	return c.JSON(fiber.Map{"message": "Renewal request deleted successfully"})
}
