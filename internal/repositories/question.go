package repositories

import (
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"alfredoptarigan/cv-coach/internal/models"
)

type QuestionRepository interface {
	GetOrCreate(text string) (*models.Question, error)
	FindByID(id uuid.UUID) (*models.Question, error)
	// Sample returns up to n distinct questions in random order.
	Sample(n int) ([]models.Question, error)
	Count() (int64, error)
}

type questionRepository struct {
	db *gorm.DB
}

func NewQuestionRepository(db *gorm.DB) QuestionRepository {
	return &questionRepository{db: db}
}

func (r *questionRepository) GetOrCreate(text string) (*models.Question, error) {
	var question models.Question
	if err := r.db.Where(models.Question{Text: text}).FirstOrCreate(&question).Error; err != nil {
		return nil, fmt.Errorf("failed to get or create question: %w", err)
	}
	return &question, nil
}

func (r *questionRepository) FindByID(id uuid.UUID) (*models.Question, error) {
	var question models.Question
	if err := r.db.Where("id = ?", id).First(&question).Error; err != nil {
		return nil, wrapFind(err, "question", id)
	}
	return &question, nil
}

func (r *questionRepository) Sample(n int) ([]models.Question, error) {
	var questions []models.Question
	if err := r.db.Order("RANDOM()").Limit(n).Find(&questions).Error; err != nil {
		return nil, fmt.Errorf("failed to sample questions: %w", err)
	}
	return questions, nil
}

func (r *questionRepository) Count() (int64, error) {
	var count int64
	if err := r.db.Model(&models.Question{}).Count(&count).Error; err != nil {
		return 0, fmt.Errorf("failed to count questions: %w", err)
	}
	return count, nil
}
