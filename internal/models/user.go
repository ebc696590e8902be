package models

import "time"

// UserRole defines allowed roles in the system.
type UserRole string

const (
	RoleCustomer UserRole = "customer"
	RoleAdmin    UserRole = "admin"
)

// User represents a customer or an administrator.
type User struct {
	ID             string    `json:"id" gorm:"primaryKey;type:varchar(36)"`
	Email          string    `json:"email" gorm:"uniqueIndex;type:varchar(255);not null"`
	FirstName      string    `json:"firstName" gorm:"type:varchar(100);not null"`
	LastName       string    `json:"lastName" gorm:"type:varchar(100);not null"`
	Password       string    `json:"-" gorm:"type:varchar(255);not null"` // bcrypt hash, never serialized
	Role           UserRole  `json:"role" gorm:"type:varchar(20);not null;default:customer"`
	Phone          string    `json:"phone" gorm:"type:varchar(32)"`
	ProfilePicture string    `json:"profilePicture"`
	IsDeleted      bool      `json:"isDeleted" gorm:"not null;default:false"`
	CreatedAt      time.Time `json:"createdAt"`
	UpdatedAt      time.Time `json:"updatedAt"`
}

// IsAdmin reports whether the user has the admin role.
func (u User) IsAdmin() bool {
	return u.Role == RoleAdmin
}

// Redacted returns a copy safe to keep in a session or send to a client.
func (u User) Redacted() User {
	u.Password = ""
	return u
}
