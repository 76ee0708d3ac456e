package db

import (
	"context"
	"fmt"
	"testing"

	"github.com/google/uuid"
	"github.com/yi-nology/page_harbor/biz/dal/model"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// SetupTestDB creates an in-memory SQLite database for testing
func SetupTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", uuid.NewString())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent), // Reduce log noise in tests
	})
	if err != nil {
		t.Fatalf("Failed to open test database: %v", err)
	}

	if err := db.AutoMigrate(&model.Deployment{}); err != nil {
		t.Fatalf("Failed to migrate tables: %v", err)
	}

	return db
}

// CleanupTestDB closes the database connection
func CleanupTestDB(t *testing.T, db *gorm.DB) {
	t.Helper()
	sqlDB, err := db.DB()
	if err != nil {
		t.Logf("Warning: Failed to get underlying DB: %v", err)
		return
	}
	if err := sqlDB.Close(); err != nil {
		t.Logf("Warning: Failed to close DB: %v", err)
	}
}

// CreateTestDeployment creates a deployment record with default values
func CreateTestDeployment(t *testing.T, db *gorm.DB, logicalName string) *model.Deployment {
	t.Helper()
	dao := NewDeploymentDAO()
	record := &model.Deployment{
		LogicalName:   logicalName,
		StoragePrefix: logicalName + "-deadbeef",
		Target:        model.TargetObjectStorage,
		PreviewURL:    "/api/v1/preview/" + logicalName + "-deadbeef/",
	}
	if err := dao.Create(context.Background(), db, record); err != nil {
		t.Fatalf("Failed to create test deployment: %v", err)
	}
	return record
}
