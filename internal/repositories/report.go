package repositories

import (
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"alfredoptarigan/cv-coach/internal/models"
)

type ReportRepository interface {
	Create(report *models.AnalysisReport) error
	FindByID(id uuid.UUID) (*models.AnalysisReport, error)
	FindByDocument(documentID uuid.UUID) ([]models.AnalysisReport, error)
}

type reportRepository struct {
	db *gorm.DB
}

func NewReportRepository(db *gorm.DB) ReportRepository {
	return &reportRepository{db: db}
}

func (r *reportRepository) Create(report *models.AnalysisReport) error {
	if err := r.db.Create(report).Error; err != nil {
		return fmt.Errorf("failed to create analysis report: %w", err)
	}
	return nil
}

func (r *reportRepository) FindByID(id uuid.UUID) (*models.AnalysisReport, error) {
	var report models.AnalysisReport
	if err := r.db.Where("id = ?", id).First(&report).Error; err != nil {
		return nil, wrapFind(err, "analysis report", id)
	}
	return &report, nil
}

func (r *reportRepository) FindByDocument(documentID uuid.UUID) ([]models.AnalysisReport, error) {
	var reports []models.AnalysisReport
	err := r.db.
		Where("document_id = ?", documentID).
		Order("created_at DESC").
		Find(&reports).Error
	if err != nil {
		return nil, fmt.Errorf("failed to find analysis reports: %w", err)
	}
	return reports, nil
}
