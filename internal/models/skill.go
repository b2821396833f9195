package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

const (
	SkillCategoryTechnical = "technical"
	SkillCategorySoft      = "soft"
)

type SkillCategory struct {
	ID   uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	Name string    `gorm:"type:text;not null;uniqueIndex" json:"name"`
}

func (SkillCategory) TableName() string {
	return "skill_categories"
}

func (s *SkillCategory) BeforeCreate(tx *gorm.DB) error {
	if s.ID == uuid.Nil {
		s.ID = uuid.New()
	}
	return nil
}

// Skill is deduplicated by (category, name).
type Skill struct {
	ID         uuid.UUID     `gorm:"type:uuid;primaryKey" json:"id"`
	CategoryID uuid.UUID     `gorm:"type:uuid;not null;uniqueIndex:idx_skills_category_name" json:"category_id"`
	Name       string        `gorm:"type:text;not null;uniqueIndex:idx_skills_category_name" json:"name"`
	Category   SkillCategory `gorm:"foreignKey:CategoryID" json:"category"`
}

func (Skill) TableName() string {
	return "skills"
}

func (s *Skill) BeforeCreate(tx *gorm.DB) error {
	if s.ID == uuid.Nil {
		s.ID = uuid.New()
	}
	return nil
}

// DocumentSkill links a document to a skill, unique per pair.
type DocumentSkill struct {
	ID         uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	DocumentID uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_document_skills_pair" json:"document_id"`
	SkillID    uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_document_skills_pair" json:"skill_id"`
	CreatedAt  time.Time `json:"created_at"`

	Skill Skill `gorm:"foreignKey:SkillID" json:"skill"`
}

func (DocumentSkill) TableName() string {
	return "document_skills"
}

func (d *DocumentSkill) BeforeCreate(tx *gorm.DB) error {
	if d.ID == uuid.Nil {
		d.ID = uuid.New()
	}
	return nil
}
