// Package testutil provides shared test utilities for service tests.
package testutil

import (
	"testing"

	"github.com/glebarez/sqlite"
	"github.com/lucsky/cuid"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/stageplot/stageplot-go/internal/database/models"
	"github.com/stageplot/stageplot-go/internal/database/repositories"
)

// TestDB holds the test database and repositories.
type TestDB struct {
	DB              *gorm.DB
	CategoryRepo    *repositories.CategoryRepository
	FixtureTypeRepo *repositories.FixtureTypeRepository
	StageRepo       *repositories.StageRepository
	TemplateRepo    *repositories.TemplateRepository
	PlotRepo        *repositories.PlotRepository
}

// SetupTestDB creates an in-memory SQLite database for testing.
// It returns a TestDB with all repositories initialized and a cleanup function.
func SetupTestDB(t *testing.T) (*TestDB, func()) {
	t.Helper()

	// Create in-memory SQLite database
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("Failed to open in-memory database: %v", err)
	}

	// Auto-migrate all models
	if err := db.AutoMigrate(models.AllModels()...); err != nil {
		t.Fatalf("Failed to migrate database: %v", err)
	}

	testDB := &TestDB{
		DB:              db,
		CategoryRepo:    repositories.NewCategoryRepository(db),
		FixtureTypeRepo: repositories.NewFixtureTypeRepository(db),
		StageRepo:       repositories.NewStageRepository(db),
		TemplateRepo:    repositories.NewTemplateRepository(db),
		PlotRepo:        repositories.NewPlotRepository(db),
	}

	// Cleanup function - close the database connection
	cleanup := func() {
		sqlDB, err := db.DB()
		if err == nil {
			_ = sqlDB.Close()
		}
	}

	return testDB, cleanup
}

// UniqueName generates a unique name for test records so tests don't
// conflict with each other.
func UniqueName(prefix string) string {
	return prefix + "-" + cuid.New()[:8]
}
