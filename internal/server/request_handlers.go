package server

import (
	"time"

	"domainreg/internal/models"
	"domainreg/internal/service"

	"github.com/gofiber/fiber/v2"
)

// CreateRequestRequest is the payload for submitting a domain request
type CreateRequestRequest struct {
	Domain          string     `json:"domain"`
	Purpose         string     `json:"purpose"`
	IPAddress       string     `json:"ip_address"`
	RequesterName   string     `json:"requester_name"`
	ResponsibleName string     `json:"responsible_name"`
	Department      string     `json:"department"`
	Contact         string     `json:"contact"`
	ContactType     string     `json:"contact_type"`
	DurationType    string     `json:"duration_type"`
	ExpiresAt       *time.Time `json:"expires_at"`
}

// DecideRequestRequest is the payload for an admin decision on a request
type DecideRequestRequest struct {
	Action string `json:"action"`
}

// GetRequests returns every domain request. Visible to any authenticated
// user so requesters can see what is already taken or pending.
func (s *Server) GetRequests(c *fiber.Ctx) error {
	requests, err := s.requestService.List(c.UserContext())
	if err != nil {
		return respondServiceError(c, err)
	}
	return c.JSON(requests)
}

// GetMyRequests returns the authenticated user's own requests
func (s *Server) GetMyRequests(c *fiber.Ctx) error {
	requests, err := s.requestService.ListMine(c.UserContext(), currentUserID(c))
	if err != nil {
		return respondServiceError(c, err)
	}
	return c.JSON(requests)
}

// CreateRequest submits a new domain request for the authenticated user
func (s *Server) CreateRequest(c *fiber.Ctx) error {
	var req CreateRequestRequest
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}

	created, err := s.requestService.Submit(c.UserContext(), service.SubmitRequestInput{
		UserID:          currentUserID(c),
		Domain:          req.Domain,
		Purpose:         req.Purpose,
		IPAddress:       req.IPAddress,
		RequesterName:   req.RequesterName,
		ResponsibleName: req.ResponsibleName,
		Department:      req.Department,
		Contact:         req.Contact,
		ContactType:     req.ContactType,
		DurationType:    req.DurationType,
		ExpiresAt:       req.ExpiresAt,
	})
	if err != nil {
		return respondServiceError(c, err)
	}

	return c.Status(fiber.StatusCreated).JSON(created)
}

// DecideRequest approves or rejects a pending request (admin only)
func (s *Server) DecideRequest(c *fiber.Ctx) error {
	id, err := parseID(c, "id")
	if err != nil {
		return nil
	}

	var req DecideRequestRequest
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

	decided, err := s.requestService.Decide(c.UserContext(), service.DecideRequestInput{
		RequestID: id,
		Approve:   approve,
	})
	if err != nil {
		return respondServiceError(c, err)
	}

	return c.JSON(decided)
}

// DeleteRequest removes a request. Owners can remove their own undecided
// requests; approved ones and other users' requests need an admin.
func (s *Server) DeleteRequest(c *fiber.Ctx) error {
	id, err := parseID(c, "id")
	if err != nil {
		return nil
	}

	err = s.requestService.Delete(c.UserContext(), service.DeleteRequestInput{
		UserID:    currentUserID(c),
		RequestID: id,
	})
	if err != nil {
		return respondServiceError(c, err)
	}

	return c.JSON(fiber.Map{"message": "Request deleted successfully"})
}
