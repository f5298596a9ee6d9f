package scope

import "gorm.io/gorm"

func OrderByCreatedDesc(db *gorm.DB) *gorm.DB {
	return db.Order("created_at DESC").Order("id DESC")
}

func OrderByCreatedAsc(db *gorm.DB) *gorm.DB {
	return db.Order("created_at ASC").Order("id ASC")
}

func OrderByDateDesc(db *gorm.DB) *gorm.DB {
	return db.Order("date DESC").Order("created_at DESC")
}

func OrderByDateJoinedDesc(db *gorm.DB) *gorm.DB {
	return db.Order("date_joined DESC").Order("id DESC")
}
