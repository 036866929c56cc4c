package models

import "time"

// RenewalStatus defines lifecycle states for renewal requests.
type RenewalStatus string

const (
	// RenewalStatusPending indicates the renewal is awaiting review.
	RenewalStatusPending RenewalStatus = "PENDING"
	// RenewalStatusApproved indicates the renewal was accepted.
	RenewalStatusApproved RenewalStatus = "APPROVED"
	// RenewalStatusRejected indicates the renewal was denied.
	RenewalStatusRejected RenewalStatus = "REJECTED"
)

// RenewalRequest is a submission to extend a domain's effective expiry.
// At most one PENDING renewal may exist per domain at a time.
type RenewalRequest struct {
	ID                 uint          `gorm:"primaryKey" json:"id"`
	DomainID           uint          `gorm:"not null;index" json:"domain_id"`
	Domain             *Domain       `gorm:"foreignKey:DomainID" json:"domain,omitempty"`
	UserID             uint          `gorm:"not null;index" json:"user_id"`
	User               *User         `gorm:"foreignKey:UserID" json:"user,omitempty"`
	NewExpiryDate      time.Time     `gorm:"not null" json:"new_expiry_date"`
	Reason             string        `gorm:"type:text" json:"reason"`
	Status             RenewalStatus `gorm:"type:varchar(10);not null;default:'PENDING';index" json:"status"`
	ApprovalCooldownAt *time.Time    `json:"approval_cooldown_at"`
	RequestedAt        time.Time     `gorm:"autoCreateTime" json:"requested_at"`
	UpdatedAt          time.Time     `json:"updated_at"`
}
