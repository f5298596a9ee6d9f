package main

import (
	"log"

	"food-donation-be/internal/bootstrap"
	"food-donation-be/internal/config"
	"food-donation-be/pkg/database"
)

func main() {
	cfg := config.Load()
	if cfg.Database.Connection == "" {
		log.Fatal("Error: DB_CONNECTION_STRING is not set")
	}

	db, err := database.NewGormDBFromDSN(cfg.Database.Connection)
	if err != nil {
		log.Fatal("Error: Failed to connect to database:", err)
	}

	log.Printf("Migrating %d tables...", len(bootstrap.Models()))
	warnings, err := bootstrap.MigratePostgres(db)
	for _, w := range warnings {
		log.Printf("Warn: %v", w)
	}
	if err != nil {
		log.Fatalf("Error: migration failed: %v", err)
	}

	log.Println("Database migration completed")
}
