package testhelpers

import (
	"fmt"
	"strings"
	"testing"

	"github.com/google/uuid"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"alfredoptarigan/cv-coach/internal/models"
)

// SetupTestDB creates an isolated, fully migrated in-memory SQLite database.
func SetupTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	name := strings.NewReplacer("/", "_", " ", "_").Replace(t.Name())
	dsn := fmt.Sprintf("file:%s_%s?mode=memory&cache=shared", name, uuid.NewString())

	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("failed to open test database: %v", err)
	}
	sqlDB, err := db.DB()
	if err != nil {
		t.Fatalf("failed to access test database: %v", err)
	}
	// one connection keeps shared-cache SQLite free of table lock errors
	sqlDB.SetMaxOpenConns(1)

	if err := db.AutoMigrate(models.All()...); err != nil {
		t.Fatalf("failed to migrate test database: %v", err)
	}

	t.Cleanup(func() { sqlDB.Close() })
	return db
}

// CreateCandidate stores a candidate with a throwaway password hash.
func CreateCandidate(t *testing.T, db *gorm.DB, email string) *models.Candidate {
	t.Helper()

	candidate := &models.Candidate{
		Name:         "Test Candidate",
		Email:        email,
		PasswordHash: "not-a-real-hash",
	}
	if err := db.Create(candidate).Error; err != nil {
		t.Fatalf("failed to create candidate: %v", err)
	}
	return candidate
}

// SeedQuestions stores n questions with distinct texts.
func SeedQuestions(t *testing.T, db *gorm.DB, n int) []models.Question {
	t.Helper()

	questions := make([]models.Question, 0, n)
	for i := 1; i <= n; i++ {
		q := models.Question{Text: fmt.Sprintf("Question %d?", i)}
		if err := db.Create(&q).Error; err != nil {
			t.Fatalf("failed to create question: %v", err)
		}
		questions = append(questions, q)
	}
	return questions
}
