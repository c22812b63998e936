// database/migrate.go - Database Migration Runner
package database

import (
	"log"

	"gorm.io/gorm"

	"github.com/jleboube/scout/models"
)

// DefaultTeams is inserted once at startup; teams are immutable afterwards.
var DefaultTeams = []string{
	"MTown Rampage 12U",
	"MTown Venom 11U",
}

// RunMigrations runs all database migrations
func RunMigrations() {
	db := GetDB()
	log.Println("🔄 Running database migrations...")

	if err := Migrate(db); err != nil {
		log.Fatalf("❌ Failed to run migrations: %v", err)
	}

	log.Println("✅ All migrations completed successfully")
}

// Migrate creates the schema, indexes and seed data on the given handle.
func Migrate(db *gorm.DB) error {
	if err := db.AutoMigrate(
		&models.Team{},
		&models.User{},
		&models.ScoutingReport{},
	); err != nil {
		return err
	}

	createIndexes(db)

	return SeedTeams(db)
}

// createIndexes creates secondary indexes
func createIndexes(db *gorm.DB) {
	db.Exec("CREATE INDEX IF NOT EXISTS idx_users_email ON users(email)")
	db.Exec("CREATE INDEX IF NOT EXISTS idx_reports_user ON scouting_reports(user_id)")
	db.Exec("CREATE INDEX IF NOT EXISTS idx_reports_created ON scouting_reports(created_at DESC)")
}

// SeedTeams inserts the default team list. Safe to run more than once.
func SeedTeams(db *gorm.DB) error {
	for _, name := range DefaultTeams {
		team := models.Team{Name: name}
		if err := db.Where("name = ?", name).FirstOrCreate(&team).Error; err != nil {
			return err
		}
	}
	return nil
}
