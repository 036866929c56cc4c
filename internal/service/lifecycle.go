// Package service implements the business logic of the domain portal.
package service

import "time"

const (
	// DecisionCooldown suppresses re-display of a decided request for a
	// fixed window after the decision.
	DecisionCooldown = time.Hour

	// TrashRetention is how long a trashed domain is kept before it
	// becomes eligible for permanent purge.
	TrashRetention = 90 * 24 * time.Hour
)
