package models

import "time"

// RequestStatus defines lifecycle states for domain requests.
type RequestStatus string

const (
	// RequestStatusPending indicates the request is awaiting an admin decision.
	RequestStatusPending RequestStatus = "PENDING"
	// RequestStatusApproved indicates the request was accepted and a Domain exists.
	RequestStatusApproved RequestStatus = "APPROVED"
	// RequestStatusRejected indicates the request was declined.
	RequestStatusRejected RequestStatus = "REJECTED"
)

// DurationType distinguishes permanent registrations from time-limited ones.
type DurationType string

const (
	// DurationPermanent carries no expiry.
	DurationPermanent DurationType = "PERMANENT"
	// DurationTemporary requires an expiry date.
	DurationTemporary DurationType = "TEMPORARY"
)

// ContactTypeEmail is the default contact channel for a request.
const ContactTypeEmail = "EMAIL"

// DomainRequest is a user-submitted request for a university subdomain.
// ExpiresAt is set only when DurationType is TEMPORARY. ApprovalCooldownAt
// is display-suppression metadata stamped when a decision is made; lifecycle
// transitions never branch on it.
type DomainRequest struct {
	ID                 uint          `gorm:"primaryKey" json:"id"`
	Domain             string        `gorm:"size:253;uniqueIndex;not null" json:"domain"`
	Purpose            string        `gorm:"type:text;not null" json:"purpose"`
	IPAddress          string        `gorm:"size:45;not null;index" json:"ip_address"`
	RequesterName      string        `gorm:"size:120;not null" json:"requester_name"`
	ResponsibleName    string        `gorm:"size:120;not null" json:"responsible_name"`
	Department         string        `gorm:"size:120;not null" json:"department"`
	Contact            string        `gorm:"size:120;not null" json:"contact"`
	ContactType        string        `gorm:"size:20;not null;default:'EMAIL'" json:"contact_type"`
	DurationType       DurationType  `gorm:"type:varchar(10);not null" json:"duration_type"`
	ExpiresAt          *time.Time    `json:"expires_at"`
	Status             RequestStatus `gorm:"type:varchar(10);not null;default:'PENDING';index" json:"status"`
	ApprovalCooldownAt *time.Time    `json:"approval_cooldown_at"`
	RequestedAt        time.Time     `gorm:"autoCreateTime" json:"requested_at"`
	UpdatedAt          time.Time     `json:"updated_at"`

	UserID uint    `gorm:"not null;index" json:"user_id"`
	User   *User   `gorm:"foreignKey:UserID" json:"user,omitempty"`
	Record *Domain `gorm:"foreignKey:DomainRequestID" json:"record,omitempty"`
}

// IsDecided reports whether an admin has already acted on the request.
func (r *DomainRequest) IsDecided() bool {
	return r.Status != RequestStatusPending
}
