package config

import (
	"fmt"
	"log"
	"os"

	"github.com/IbrahimFattah/hisabcal/models"

	"github.com/joho/godotenv"
	"go.uber.org/zap"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

var DB *gorm.DB

func InitLogger() {
	logger, err := zap.NewProduction()
	if os.Getenv("APP_ENV") == "development" {
		logger, err = zap.NewDevelopment()
	}
	if err != nil {
		log.Fatalf("Failed to build logger: %v", err)
	}
	zap.ReplaceGlobals(logger)
}

func InitDB() {
	err := godotenv.Load()
	if err != nil {
		zap.L().Warn("No .env file found, relying on environment")
	}

	dsn := fmt.Sprintf("host=%s user=%s password=%s dbname=%s port=%s sslmode=disable",
		os.Getenv("DB_HOST"),
		os.Getenv("DB_USER"),
		os.Getenv("DB_PASSWORD"),
		os.Getenv("DB_NAME"),
		os.Getenv("DB_PORT"),
	)

	// TranslateError so duplicate-key violations surface as
	// gorm.ErrDuplicatedKey — the earn-once-per-date guard depends on it.
	DB, err = gorm.Open(postgres.Open(dsn), &gorm.Config{TranslateError: true})
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}

	if err := Migrate(DB); err != nil {
		log.Fatalf("AutoMigrate failed: %v", err)
	}
}

// Migrate runs schema migration for every model. Shared with the test
// suites, which run it against in-memory SQLite.
func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&models.User{},
		&models.UserSettings{},
		&models.UserProfile{},
		&models.WeightEntry{},
		&models.FoodItem{},
		&models.MealEntry{},
		&models.MealEntryItem{},
		&models.BankAccount{},
		&models.BankTransaction{},
		&models.Pot{},
		&models.UserXP{},
		&models.Achievement{},
		&models.UserAchievement{},
	)
}
