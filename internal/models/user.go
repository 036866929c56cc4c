// Package models contains data structures for the application's domain models.
package models

import "time"

// Role defines the access level of a user account.
type Role string

const (
	// RoleUser is a regular requester account.
	RoleUser Role = "USER"
	// RoleAdmin can decide requests and manage domains and accounts.
	RoleAdmin Role = "ADMIN"
)

// User represents an account in the domain registration portal.
//
// Passwords are stored and compared in plain text. This is a documented
// product decision of the portal, not an oversight.
type User struct {
	ID         uint       `gorm:"primaryKey" json:"id"`
	Username   string     `gorm:"size:64;uniqueIndex;not null" json:"username"`
	Password   string     `gorm:"size:128;not null" json:"-"`
	Role       Role       `gorm:"type:varchar(10);not null;default:'USER'" json:"role"`
	PositionID *uint      `json:"position_id"`
	Position   *Position  `gorm:"foreignKey:PositionID" json:"position,omitempty"`
	CreatedAt  time.Time  `json:"created_at"`
	UpdatedAt  time.Time  `json:"updated_at"`

	Requests []DomainRequest `gorm:"foreignKey:UserID" json:"requests,omitempty"`
}

// IsAdmin reports whether the user holds the ADMIN role.
func (u *User) IsAdmin() bool {
	return u.Role == RoleAdmin
}
