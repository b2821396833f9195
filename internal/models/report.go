package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// AnalysisReport is append-only: every analysis run of a document adds one.
type AnalysisReport struct {
	ID         uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	DocumentID uuid.UUID `gorm:"type:uuid;not null;index" json:"document_id"`
	Summary    string    `gorm:"type:text;not null" json:"summary"`
	CreatedAt  time.Time `json:"created_at"`
}

func (AnalysisReport) TableName() string {
	return "analysis_reports"
}

func (r *AnalysisReport) BeforeCreate(tx *gorm.DB) error {
	if r.ID == uuid.Nil {
		r.ID = uuid.New()
	}
	return nil
}
