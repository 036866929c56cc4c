package models

import "time"

// DeletedDomainLog is an append-only audit record written whenever a domain
// is permanently purged, either by an admin or by the retention sweeper.
type DeletedDomainLog struct {
	ID         uint      `gorm:"primaryKey" json:"id"`
	DomainName string    `gorm:"size:253;not null;index" json:"domain_name"`
	Reason     string    `gorm:"type:text;not null" json:"reason"`
	DeletedAt  time.Time `gorm:"autoCreateTime" json:"deleted_at"`
}
