package services

import (
	"context"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"alfredoptarigan/cv-coach/internal/models"
	"alfredoptarigan/cv-coach/internal/repositories"
)

type ReportService interface {
	GenerateAnalysisReport(ctx context.Context, documentID uuid.UUID) (*models.AnalysisReport, error)
	ListReports(documentID uuid.UUID) ([]models.AnalysisReport, error)
	GetReport(reportID uuid.UUID) (*models.AnalysisReport, error)
}

type reportService struct {
	documentRepo  repositories.DocumentRepository
	reportRepo    repositories.ReportRepository
	oracle        Oracle
	retriever     GuidanceRetriever
	promptBuilder *PromptBuilder
	logger        *zap.Logger
}

// NewReportService builds the analysis report generator. retriever may be
// nil, in which case prompts carry no reference guidance.
func NewReportService(
	documentRepo repositories.DocumentRepository,
	reportRepo repositories.ReportRepository,
	oracle Oracle,
	retriever GuidanceRetriever,
	logger *zap.Logger,
) ReportService {
	return &reportService{
		documentRepo:  documentRepo,
		reportRepo:    reportRepo,
		oracle:        oracle,
		retriever:     retriever,
		promptBuilder: NewPromptBuilder(),
		logger:        logger,
	}
}

// GenerateAnalysisReport stores the oracle's free-text analysis verbatim as a
// new report. Every call appends one more report for the document.
func (s *reportService) GenerateAnalysisReport(ctx context.Context, documentID uuid.UUID) (*models.AnalysisReport, error) {
	document, err := s.documentRepo.FindByID(documentID)
	if err != nil {
		return nil, err
	}

	guidance := s.guidanceFor(ctx, document)

	summary, err := callOracle(ctx, s.oracle, "analysis_report", s.promptBuilder.BuildAnalysisReportPrompt(document.ExtractedText, guidance))
	if err != nil {
		s.logger.Warn("analysis report generation failed",
			zap.String("document_id", documentID.String()), zap.Error(err))
		return nil, asUpstream(err)
	}

	report := &models.AnalysisReport{
		DocumentID: document.ID,
		Summary:    summary,
	}
	if err := s.reportRepo.Create(report); err != nil {
		return nil, err
	}

	s.logger.Info("analysis report generated",
		zap.String("document_id", documentID.String()),
		zap.String("report_id", report.ID.String()),
		zap.Bool("with_guidance", guidance != ""))

	return report, nil
}

func (s *reportService) guidanceFor(ctx context.Context, document *models.Document) string {
	if s.retriever == nil {
		return ""
	}

	guidance, err := s.retriever.Retrieve(ctx, document.ExtractedText)
	if err != nil {
		s.logger.Warn("guidance retrieval failed, generating report without it",
			zap.String("document_id", document.ID.String()), zap.Error(err))
		return ""
	}
	return guidance
}

func (s *reportService) ListReports(documentID uuid.UUID) ([]models.AnalysisReport, error) {
	return s.reportRepo.FindByDocument(documentID)
}

func (s *reportService) GetReport(reportID uuid.UUID) (*models.AnalysisReport, error) {
	return s.reportRepo.FindByID(reportID)
}
