package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

type Donation struct {
	Id                 uuid.UUID      `gorm:"type:uuid;primaryKey"`
	DonorId            uuid.UUID      `gorm:"type:uuid;not null;index"`
	CharityId          *uuid.UUID     `gorm:"type:uuid;index"`
	CategoryId         uuid.UUID      `gorm:"type:uuid;not null;index"`
	FoodName           string         `gorm:"type:varchar(255);not null"`
	Description        string         `gorm:"type:text"`
	Quantity           string         `gorm:"type:varchar(100);not null"`
	ExpiryDate         datatypes.Date `gorm:"type:date;not null;index"`
	PickupAddress      string         `gorm:"type:text;not null"`
	PickupCity         string         `gorm:"type:varchar(100);not null"`
	PickupState        string         `gorm:"type:varchar(100);not null"`
	PickupZip          string         `gorm:"type:varchar(10);not null"`
	PickupInstructions string         `gorm:"type:text"`
	Latitude           *float64
	Longitude          *float64
	Status             string    `gorm:"type:varchar(20);not null;default:'available';index"`
	CreatedAt          time.Time `gorm:"not null;index"`
	UpdatedAt          time.Time `gorm:"autoUpdateTime"`
	ClaimedAt          *time.Time
	ReceivedAt         *time.Time

	Donor    *User         `gorm:"foreignKey:DonorId;constraint:OnDelete:CASCADE"`
	Charity  *User         `gorm:"foreignKey:CharityId;constraint:OnDelete:SET NULL"`
	Category *FoodCategory `gorm:"foreignKey:CategoryId;constraint:OnDelete:RESTRICT"`
}

func (Donation) TableName() string {
	return "donations"
}

type DonationClaim struct {
	Id         uuid.UUID `gorm:"type:uuid;primaryKey"`
	DonationId uuid.UUID `gorm:"type:uuid;not null;uniqueIndex"`
	CharityId  uuid.UUID `gorm:"type:uuid;not null;index"`
	ClaimedAt  time.Time `gorm:"not null"`
	PickupTime *time.Time
	Notes      string `gorm:"type:text"`
	IsReceived bool   `gorm:"default:false"`
	ReceivedAt *time.Time

	Donation *Donation `gorm:"foreignKey:DonationId;constraint:OnDelete:CASCADE"`
	Charity  *User     `gorm:"foreignKey:CharityId;constraint:OnDelete:CASCADE"`
}

func (DonationClaim) TableName() string {
	return "donation_claims"
}
