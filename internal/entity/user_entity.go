// FILE: internal/entity/user_entity.go
package entity

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

type UserRole string

const (
	UserRoleAdmin   UserRole = "admin"
	UserRoleDonor   UserRole = "donor"
	UserRoleCharity UserRole = "charity"
)

func (r UserRole) Valid() bool {
	switch r {
	case UserRoleAdmin, UserRoleDonor, UserRoleCharity:
		return true
	}
	return false
}

type User struct {
	Id                      uuid.UUID
	Email                   string
	PasswordHash            string
	FirstName               string
	LastName                string
	Role                    UserRole
	PhoneNumber             string
	Address                 string
	City                    string
	State                   string
	ZipCode                 string
	OrganizationName        string
	OrganizationDescription string
	IsVerified              bool
	IsActive                bool
	DateJoined              time.Time
	UpdatedAt               time.Time
}

func (u *User) FullName() string {
	return strings.TrimSpace(u.FirstName + " " + u.LastName)
}

// DisplayName prefers the organization for charities.
func (u *User) DisplayName() string {
	if u.Role == UserRoleCharity && u.OrganizationName != "" {
		return u.OrganizationName
	}
	if name := u.FullName(); name != "" {
		return name
	}
	return u.Email
}

func (u *User) IsAdmin() bool {
	return u.Role == UserRoleAdmin
}

type UserRefreshToken struct {
	Id        uuid.UUID
	UserId    uuid.UUID
	TokenHash string
	ExpiresAt time.Time
	Revoked   bool
	CreatedAt time.Time
	IpAddress string
	UserAgent string
}
