package bootstrap

import (
	"food-donation-be/internal/model"
	"food-donation-be/internal/service"
	"food-donation-be/pkg/events"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// NotificationTypes is the default event-to-notification registry.
func NotificationTypes() []model.NotificationType {
	web := datatypes.JSON([]byte(`["web"]`))
	webEmail := datatypes.JSON([]byte(`["web", "email"]`))

	return []model.NotificationType{
		{
			Code:        events.DonationCreated,
			DisplayName: "New Donation Available",
			Template:    "{donor_name} listed \"{food_name}\" ({quantity}) in {pickup_city}.",
			TargetType:  service.TargetRole,
			TargetRole:  "charity",
			Priority:    "MEDIUM",
			Channels:    web,
			IsActive:    true,
		},
		{
			Code:        events.DonationClaimed,
			DisplayName: "Donation Claimed",
			Template:    "{charity_name} claimed your donation \"{food_name}\".",
			TargetType:  service.TargetRecipients,
			Priority:    "HIGH",
			Channels:    webEmail,
			IsActive:    true,
		},
		{
			Code:        events.DonationReceived,
			DisplayName: "Donation Received",
			Template:    "{charity_name} confirmed receipt of \"{food_name}\".",
			TargetType:  service.TargetRecipients,
			Priority:    "HIGH",
			Channels:    webEmail,
			IsActive:    true,
		},
		{
			Code:        events.DonationDeleted,
			DisplayName: "Donation Removed",
			Template:    "The donation \"{food_name}\" was removed.",
			TargetType:  service.TargetRecipients,
			Priority:    "MEDIUM",
			Channels:    web,
			IsActive:    true,
		},
		{
			Code:        events.DonationOverridden,
			DisplayName: "Donation Status Changed",
			Template:    "An administrator moved \"{food_name}\" from {from_status} to {to_status}.",
			TargetType:  service.TargetRecipients,
			Priority:    "MEDIUM",
			Channels:    web,
			IsActive:    true,
		},
		{
			Code:        events.UserVerified,
			DisplayName: "Account Verified",
			Template:    "Your account has been verified. Welcome aboard, {user_name}!",
			TargetType:  service.TargetRecipients,
			Priority:    "HIGH",
			Channels:    webEmail,
			IsActive:    true,
		},
		{
			Code:        events.UserRegistered,
			DisplayName: "New User Registration",
			Template:    "New {role} registered: {user_name}. Verification pending.",
			TargetType:  service.TargetAdmin,
			Priority:    "MEDIUM",
			Channels:    web,
			IsActive:    true,
		},
		{
			Code:        events.WasteLogged,
			DisplayName: "Waste Logged",
			Template:    "{user_name} logged {quantity} of \"{food_name}\" as {waste_type}.",
			TargetType:  service.TargetAdmin,
			Priority:    "LOW",
			Channels:    web,
			IsActive:    true,
		},
	}
}

// SeedNotificationTypes upserts the registry by code so template edits ship
// with the binary.
func SeedNotificationTypes(db *gorm.DB) error {
	types := NotificationTypes()
	return db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "code"}},
		DoUpdates: clause.AssignmentColumns([]string{"display_name", "template", "target_type", "target_role", "priority", "channels", "is_active"}),
	}).Create(&types).Error
}

var (
	defaultFoodCategories  = []string{"Fruits & Vegetables", "Bakery", "Dairy", "Meat & Fish", "Prepared Meals", "Canned & Dry Goods", "Beverages"}
	defaultWasteCategories = []string{"Household", "Restaurant", "Retail", "Farm"}
)

// SeedCategories inserts the default category names that are not present yet.
func SeedCategories(db *gorm.DB) error {
	for _, name := range defaultFoodCategories {
		row := model.FoodCategory{Category: model.Category{Id: uuid.New(), Name: name}}
		if err := db.Where("name = ?", name).FirstOrCreate(&row).Error; err != nil {
			return err
		}
	}
	for _, name := range defaultWasteCategories {
		row := model.WasteCategory{Category: model.Category{Id: uuid.New(), Name: name}}
		if err := db.Where("name = ?", name).FirstOrCreate(&row).Error; err != nil {
			return err
		}
	}
	return nil
}
