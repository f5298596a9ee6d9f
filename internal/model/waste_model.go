package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

type WasteLog struct {
	Id              uuid.UUID      `gorm:"type:uuid;primaryKey"`
	UserId          uuid.UUID      `gorm:"type:uuid;not null;index"`
	FoodName        string         `gorm:"type:varchar(255);not null"`
	Description     string         `gorm:"type:text"`
	Quantity        string         `gorm:"type:varchar(100);not null"`
	WasteType       string         `gorm:"type:varchar(20);not null;index"`
	WasteCategoryId *uuid.UUID     `gorm:"type:uuid"`
	FoodCategoryId  *uuid.UUID     `gorm:"type:uuid"`
	Date            datatypes.Date `gorm:"type:date;not null;index"`
	Notes           string         `gorm:"type:text"`
	CreatedAt       time.Time      `gorm:"autoCreateTime"`
	UpdatedAt       time.Time      `gorm:"autoUpdateTime"`

	User          *User          `gorm:"foreignKey:UserId;constraint:OnDelete:CASCADE"`
	WasteCategory *WasteCategory `gorm:"foreignKey:WasteCategoryId;constraint:OnDelete:SET NULL"`
	FoodCategory  *FoodCategory  `gorm:"foreignKey:FoodCategoryId;constraint:OnDelete:SET NULL"`
}

func (WasteLog) TableName() string {
	return "waste_logs"
}

type WasteReduction struct {
	Id          uuid.UUID      `gorm:"type:uuid;primaryKey"`
	UserId      uuid.UUID      `gorm:"type:uuid;not null;index"`
	Title       string         `gorm:"type:varchar(255);not null"`
	Description string         `gorm:"type:text"`
	AmountSaved string         `gorm:"type:varchar(100)"`
	Date        datatypes.Date `gorm:"type:date;not null"`
	CreatedAt   time.Time      `gorm:"autoCreateTime"`

	User *User `gorm:"foreignKey:UserId;constraint:OnDelete:CASCADE"`
}

func (WasteReduction) TableName() string {
	return "waste_reductions"
}
