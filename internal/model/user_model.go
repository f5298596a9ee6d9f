package model

import (
	"time"

	"github.com/google/uuid"
)

type User struct {
	Id                      uuid.UUID `gorm:"type:uuid;primaryKey"`
	Email                   string    `gorm:"type:varchar(255);uniqueIndex;not null"`
	PasswordHash            string    `gorm:"type:varchar(255);not null"`
	FirstName               string    `gorm:"type:varchar(150)"`
	LastName                string    `gorm:"type:varchar(150)"`
	Role                    string    `gorm:"type:varchar(20);not null;default:'donor';index"`
	PhoneNumber             string    `gorm:"type:varchar(15)"`
	Address                 string    `gorm:"type:text"`
	City                    string    `gorm:"type:varchar(100)"`
	State                   string    `gorm:"type:varchar(100)"`
	ZipCode                 string    `gorm:"type:varchar(10)"`
	OrganizationName        string    `gorm:"type:varchar(255)"`
	OrganizationDescription string    `gorm:"type:text"`
	IsVerified              bool      `gorm:"default:false"`
	IsActive                bool      `gorm:"default:true"`
	DateJoined              time.Time `gorm:"autoCreateTime"`
	UpdatedAt               time.Time `gorm:"autoUpdateTime"`
}

func (User) TableName() string {
	return "users"
}

type UserRefreshToken struct {
	Id        uuid.UUID `gorm:"type:uuid;primaryKey"`
	UserId    uuid.UUID `gorm:"type:uuid;not null;index"`
	TokenHash string    `gorm:"type:text;not null;index"`
	ExpiresAt time.Time `gorm:"not null"`
	Revoked   bool      `gorm:"default:false"`
	IpAddress string    `gorm:"type:varchar(45)"`
	UserAgent string    `gorm:"type:text"`
	CreatedAt time.Time `gorm:"autoCreateTime"`
}

func (UserRefreshToken) TableName() string {
	return "user_refresh_tokens"
}
