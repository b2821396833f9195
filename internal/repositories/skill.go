package repositories

import (
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"alfredoptarigan/cv-coach/internal/models"
)

type SkillRepository interface {
	GetOrCreateCategory(name string) (*models.SkillCategory, error)
	GetOrCreateSkill(categoryID uuid.UUID, name string) (*models.Skill, error)
	LinkDocument(documentID, skillID uuid.UUID) error
	FindByDocument(documentID uuid.UUID) ([]models.Skill, error)
}

type skillRepository struct {
	db *gorm.DB
}

func NewSkillRepository(db *gorm.DB) SkillRepository {
	return &skillRepository{db: db}
}

func (r *skillRepository) GetOrCreateCategory(name string) (*models.SkillCategory, error) {
	var category models.SkillCategory
	if err := r.db.Where(models.SkillCategory{Name: name}).FirstOrCreate(&category).Error; err != nil {
		return nil, fmt.Errorf("failed to get or create skill category %q: %w", name, err)
	}
	return &category, nil
}

func (r *skillRepository) GetOrCreateSkill(categoryID uuid.UUID, name string) (*models.Skill, error) {
	var skill models.Skill
	err := r.db.
		Where(models.Skill{CategoryID: categoryID, Name: name}).
		FirstOrCreate(&skill).Error
	if err != nil {
		return nil, fmt.Errorf("failed to get or create skill %q: %w", name, err)
	}
	return &skill, nil
}

func (r *skillRepository) LinkDocument(documentID, skillID uuid.UUID) error {
	var link models.DocumentSkill
	err := r.db.
		Where(models.DocumentSkill{DocumentID: documentID, SkillID: skillID}).
		FirstOrCreate(&link).Error
	if err != nil {
		return fmt.Errorf("failed to link skill %s to document %s: %w", skillID, documentID, err)
	}
	return nil
}

func (r *skillRepository) FindByDocument(documentID uuid.UUID) ([]models.Skill, error) {
	var skills []models.Skill
	err := r.db.
		Preload("Category").
		Joins("JOIN document_skills ON document_skills.skill_id = skills.id").
		Where("document_skills.document_id = ?", documentID).
		Order("skills.name ASC").
		Find(&skills).Error
	if err != nil {
		return nil, fmt.Errorf("failed to find skills for document %s: %w", documentID, err)
	}
	return skills, nil
}
