// Package sqlite provides SQLite database setup and configuration
package sqlite

import (
	"context"
	"fmt"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	gormModels "github.com/robloxdeveloper2/Foodi-Backup-sub002/internal/infrastructure/persistence/gorm"
)

// SetupDatabase creates and configures the SQLite database. A nil gormLogger
// keeps GORM silent.
func SetupDatabase(dbPath string, gormLogger logger.Interface) (*gorm.DB, error) {
	// Use a private in-memory database if no path provided
	if dbPath == "" {
		dbPath = "file::memory:"
	}

	if gormLogger == nil {
		gormLogger = logger.Default.LogMode(logger.Silent)
	}

	db, err := gorm.Open(sqlite.Open(dbPath), &gorm.Config{
		Logger: gormLogger,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get sql.DB: %w", err)
	}
	// SQLite serializes writers; one connection also keeps an in-memory database alive
	sqlDB.SetMaxOpenConns(1)

	if err := db.Exec("PRAGMA foreign_keys = ON").Error; err != nil {
		return nil, fmt.Errorf("failed to enable foreign keys: %w", err)
	}

	// Run auto-migration
	if err := db.AutoMigrate(gormModels.Models()...); err != nil {
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}

	return db, nil
}

// SeedDatabase populates an empty catalog with the demo recipes and profiles
func SeedDatabase(ctx context.Context, db *gorm.DB) error {
	var recipeCount int64
	if err := db.WithContext(ctx).Model(&gormModels.RecipeModel{}).Count(&recipeCount).Error; err != nil {
		return fmt.Errorf("failed to count recipes: %w", err)
	}
	if recipeCount > 0 {
		return nil // Already seeded
	}

	recipes, err := DemoRecipes()
	if err != nil {
		return fmt.Errorf("failed to build demo recipes: %w", err)
	}
	if err := gormModels.NewRecipeRepository(db, len(recipes)).BulkCreate(ctx, recipes); err != nil {
		return fmt.Errorf("failed to create demo recipes: %w", err)
	}

	profiles, err := DemoProfiles()
	if err != nil {
		return fmt.Errorf("failed to build demo profiles: %w", err)
	}
	repo := gormModels.NewUserProfileRepository(db)
	for _, p := range profiles {
		if err := repo.Save(ctx, p); err != nil {
			return fmt.Errorf("failed to create demo profile: %w", err)
		}
	}

	return nil
}
