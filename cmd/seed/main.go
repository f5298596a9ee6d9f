package main

import (
	"os"
	"strings"
	"time"

	"food-donation-be/internal/bootstrap"
	"food-donation-be/internal/config"
	"food-donation-be/internal/model"
	"food-donation-be/pkg/database"

	"github.com/fatih/color"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

func main() {
	cfg := config.Load()
	if cfg.Database.Connection == "" {
		color.Red("DB_CONNECTION_STRING is not set")
		os.Exit(1)
	}

	db, err := database.NewGormDBFromDSN(cfg.Database.Connection)
	if err != nil {
		color.Red("Failed to connect to database: %v", err)
		os.Exit(1)
	}

	color.Cyan("🌱 Seeding reference data\n")

	color.Yellow("\n1. Notification types")
	if err := bootstrap.SeedNotificationTypes(db); err != nil {
		color.Red("Failed: %v", err)
		os.Exit(1)
	}
	color.Green("Seeded %d notification types", len(bootstrap.NotificationTypes()))

	color.Yellow("\n2. Food & waste categories")
	if err := bootstrap.SeedCategories(db); err != nil {
		color.Red("Failed: %v", err)
		os.Exit(1)
	}
	color.Green("Categories ready")

	color.Yellow("\n3. Administrator account")
	email := strings.ToLower(strings.TrimSpace(os.Getenv("ADMIN_EMAIL")))
	password := os.Getenv("ADMIN_PASSWORD")
	if email == "" || password == "" {
		color.White("Skipped (set ADMIN_EMAIL and ADMIN_PASSWORD to create one)")
		return
	}
	created, err := seedAdmin(db, email, password)
	if err != nil {
		color.Red("Failed: %v", err)
		os.Exit(1)
	}
	if created {
		color.Green("Created admin %s", email)
	} else {
		color.White("Admin %s already exists", email)
	}
}

// seedAdmin creates a verified admin unless the email is already taken.
func seedAdmin(db *gorm.DB, email, password string) (bool, error) {
	var count int64
	if err := db.Model(&model.User{}).Where("email = ?", email).Count(&count).Error; err != nil {
		return false, err
	}
	if count > 0 {
		return false, nil
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return false, err
	}
	admin := model.User{
		Id:           uuid.New(),
		Email:        email,
		PasswordHash: string(hash),
		FirstName:    "System",
		LastName:     "Administrator",
		Role:         "admin",
		IsVerified:   true,
		IsActive:     true,
		DateJoined:   time.Now(),
	}
	return true, db.Create(&admin).Error
}
