package services

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"faculty-hub/models"
)

// newTestDB opens a fresh in-memory database with the full schema migrated.
func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger:                                   logger.Default.LogMode(logger.Silent),
		DisableForeignKeyConstraintWhenMigrating: true,
		TranslateError:                           true,
	})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(
		&models.Department{}, &models.Faculty{},
		&models.ResearchPaper{}, &models.PaperAuthor{}, &models.Thesis{},
		&models.User{}, &models.Content{}, &models.ContentLike{}, &models.Comment{},
	))
	return db
}

func seedDepartment(t *testing.T, db *gorm.DB, name, code, category string) models.Department {
	t.Helper()
	dept := models.Department{Name: name, Code: code, Category: category}
	require.NoError(t, db.Create(&dept).Error)
	return dept
}

func seedFaculty(t *testing.T, db *gorm.DB, name string, deptID uint, hIndex int) models.Faculty {
	t.Helper()
	faculty := models.Faculty{
		Name:         name,
		DepartmentID: deptID,
		Email:        fmt.Sprintf("%s-%d@example.edu", name, hIndex),
		HIndex:       hIndex,
	}
	require.NoError(t, db.Create(&faculty).Error)
	return faculty
}

func nopLogger() *zap.Logger {
	return zap.NewNop()
}
