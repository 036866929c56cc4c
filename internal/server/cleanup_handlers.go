package server

import (
	"time"

	"github.com/gofiber/fiber/v2"
)

// RunCleanup triggers the retention sweep (admin only)
func (s *Server) RunCleanup(c *fiber.Ctx) error {
	result, err := s.cleanupService.Run(c.UserContext())
	if err != nil {
		return respondServiceError(c, err)
	}
	return c.JSON(result)
}

// CleanupStatus reports what the next sweep would do without running it,
// along with the most recent permanent deletions.
func (s *Server) CleanupStatus(c *fiber.Ctx) error {
	now := time.Now()

	expired, err := s.domainRepo.ListExpiredActive(c.UserContext(), now)
	if err != nil {
		return respondServiceError(c, err)
	}

	purgeable, err := s.domainRepo.ListPurgeable(c.UserContext(), now)
	if err != nil {
		return respondServiceError(c, err)
	}

	logs, err := s.logRepo.List(c.UserContext(), 20)
	if err != nil {
		return respondServiceError(c, err)
	}

	return c.JSON(fiber.Map{
		"expired_domains_pending_trash": len(expired),
		"trashed_domains_pending_purge": len(purgeable),
		"recent_deletions":              logs,
		"timestamp":                     now,
	})
}
