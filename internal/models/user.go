package models

import (
	"time"
)

// Role labels
const (
	RoleAdmin     = "admin"
	RoleSuperUser = "super-user"
	RoleUser      = "user"
)

// User is an account that can own products and hold a realtime connection
type User struct {
	ID        string     `gorm:"type:char(36);primaryKey" json:"id"`
	Email     string     `gorm:"uniqueIndex;size:255;not null" json:"email"`
	Password  string     `gorm:"size:255;not null" json:"-"`
	FullName  string     `gorm:"size:255;not null" json:"fullName"`
	IsActive  bool       `gorm:"not null;default:true" json:"isActive"`
	Roles     StringList `json:"roles"`
	CreatedAt time.Time  `json:"-"`
	UpdatedAt time.Time  `json:"-"`
}

// TableName overrides the table name for User
func (User) TableName() string {
	return "users"
}

// HasAnyRole reports whether the user holds at least one of roles.
// An empty roles list is satisfied by any user.
func (u *User) HasAnyRole(roles ...string) bool {
	if len(roles) == 0 {
		return true
	}
	for _, role := range roles {
		if u.Roles.Contains(role) {
			return true
		}
	}
	return false
}
