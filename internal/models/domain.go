package models

import "time"

// DomainStatus defines the lifecycle state of a provisioned domain.
type DomainStatus string

const (
	// DomainStatusActive indicates the domain is live.
	DomainStatusActive DomainStatus = "ACTIVE"
	// DomainStatusExpired indicates a temporary domain past its expiry date.
	DomainStatusExpired DomainStatus = "EXPIRED"
	// DomainStatusTrashed indicates the domain is soft-deleted and awaiting purge.
	DomainStatusTrashed DomainStatus = "TRASHED"
)

// Domain is the materialized record created exactly when its DomainRequest
// is approved. A TRASHED domain always carries DeletedAt and TrashExpiresAt;
// an ACTIVE domain carries neither.
type Domain struct {
	ID              uint         `gorm:"primaryKey" json:"id"`
	DomainRequestID uint         `gorm:"uniqueIndex;not null" json:"domain_request_id"`
	Status          DomainStatus `gorm:"type:varchar(10);not null;default:'ACTIVE';index" json:"status"`
	LastUsedAt      time.Time    `json:"last_used_at"`
	DeletedAt       *time.Time   `json:"deleted_at"`
	TrashExpiresAt  *time.Time   `json:"trash_expires_at"`
	CreatedAt       time.Time    `json:"created_at"`
	UpdatedAt       time.Time    `json:"updated_at"`

	DomainRequest *DomainRequest `gorm:"foreignKey:DomainRequestID" json:"domain_request,omitempty"`
}

// EffectiveStatus returns the status as of now, treating an ACTIVE temporary
// domain whose request expiry has passed as EXPIRED. Stored state is not
// mutated; the retention sweeper performs the real transition.
func (d *Domain) EffectiveStatus(now time.Time) DomainStatus {
	if d.Status == DomainStatusActive &&
		d.DomainRequest != nil &&
		d.DomainRequest.DurationType == DurationTemporary &&
		d.DomainRequest.ExpiresAt != nil &&
		d.DomainRequest.ExpiresAt.Before(now) {
		return DomainStatusExpired
	}
	return d.Status
}
