package repositories

import (
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"alfredoptarigan/cv-coach/internal/models"
)

type DocumentRepository interface {
	Create(document *models.Document) error
	FindByID(id uuid.UUID) (*models.Document, error)
	FindByCandidate(candidateID uuid.UUID) ([]models.Document, error)
	Delete(id uuid.UUID) error
}

type documentRepository struct {
	db *gorm.DB
}

func NewDocumentRepository(db *gorm.DB) DocumentRepository {
	return &documentRepository{db: db}
}

// Create implements DocumentRepository.
func (d *documentRepository) Create(document *models.Document) error {
	if err := d.db.Create(document).Error; err != nil {
		return fmt.Errorf("failed to create document: %w", err)
	}

	return nil
}

// FindByID implements DocumentRepository.
func (d *documentRepository) FindByID(id uuid.UUID) (*models.Document, error) {
	var doc models.Document
	if err := d.db.Where("id = ?", id).First(&doc).Error; err != nil {
		return nil, wrapFind(err, "document", id)
	}

	return &doc, nil
}

// FindByCandidate implements DocumentRepository.
func (d *documentRepository) FindByCandidate(candidateID uuid.UUID) ([]models.Document, error) {
	var docs []models.Document
	if err := d.db.Where("candidate_id = ?", candidateID).Order("created_at DESC").Find(&docs).Error; err != nil {
		return nil, fmt.Errorf("failed to find documents: %w", err)
	}

	return docs, nil
}

// Delete implements DocumentRepository. Skill links and reports go with the document.
func (d *documentRepository) Delete(id uuid.UUID) error {
	return d.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("document_id = ?", id).Delete(&models.DocumentSkill{}).Error; err != nil {
			return fmt.Errorf("failed to delete document skills: %w", err)
		}
		if err := tx.Where("document_id = ?", id).Delete(&models.AnalysisReport{}).Error; err != nil {
			return fmt.Errorf("failed to delete document reports: %w", err)
		}

		result := tx.Where("id = ?", id).Delete(&models.Document{})
		if result.Error != nil {
			return fmt.Errorf("failed to delete document: %w", result.Error)
		}
		if result.RowsAffected == 0 {
			return fmt.Errorf("document %s: %w", id, ErrNotFound)
		}
		return nil
	})
}
