package model

// All lists every table in dependency order for migrations.
func All() []interface{} {
	return []interface{}{
		&User{},
		&UserRefreshToken{},
		&FoodCategory{},
		&WasteCategory{},
		&Donation{},
		&DonationClaim{},
		&WasteLog{},
		&WasteReduction{},
		&NotificationType{},
		&Notification{},
	}
}
