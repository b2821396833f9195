package services

import (
	"context"
	"fmt"
	"mime/multipart"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"alfredoptarigan/cv-coach/internal/metrics"
	"alfredoptarigan/cv-coach/internal/models"
	"alfredoptarigan/cv-coach/internal/repositories"
)

type CVService interface {
	UploadCV(ctx context.Context, candidateID uuid.UUID, file *multipart.FileHeader) (*models.UploadResponse, error)
	ListDocuments(candidateID uuid.UUID) ([]models.Document, error)
	GetDocument(candidateID, documentID uuid.UUID) (*models.Document, error)
	DeleteDocument(candidateID, documentID uuid.UUID) error
	ListDocumentSkills(candidateID, documentID uuid.UUID) (*models.DocumentSkillsResponse, error)
}

type cvService struct {
	documentRepo   repositories.DocumentRepository
	storageService StorageService
	extractor      TextExtractor
	skills         SkillExtractor
	maxFileSize    int64
	logger         *zap.Logger
}

func NewCVService(
	documentRepo repositories.DocumentRepository,
	storageService StorageService,
	extractor TextExtractor,
	skills SkillExtractor,
	maxFileSize int64,
	logger *zap.Logger,
) CVService {
	return &cvService{
		documentRepo:   documentRepo,
		storageService: storageService,
		extractor:      extractor,
		skills:         skills,
		maxFileSize:    maxFileSize,
		logger:         logger,
	}
}

// UploadCV validates the CV before anything is stored: format, size and
// required sections. Skill extraction may come back empty without failing.
func (s *cvService) UploadCV(ctx context.Context, candidateID uuid.UUID, file *multipart.FileHeader) (*models.UploadResponse, error) {
	fileType, ok := FileTypeFromName(file.Filename)
	if !ok {
		return nil, &ValidationError{
			Message: "only PDF and DOCX files are supported",
			Fields:  map[string]string{"file": "must be .pdf or .docx"},
		}
	}
	if file.Size > s.maxFileSize {
		return nil, &ValidationError{
			Message: fmt.Sprintf("file exceeds the maximum size of %d bytes", s.maxFileSize),
			Fields:  map[string]string{"file": "too large"},
		}
	}

	text, err := s.readText(file, fileType)
	if err != nil {
		return nil, err
	}

	skills, err := s.skills.ExtractSkills(ctx, text)
	if err != nil {
		return nil, err
	}

	filename, filePath, err := s.storageService.SaveFile(file, candidateID)
	if err != nil {
		return nil, err
	}

	document := &models.Document{
		CandidateID:      candidateID,
		Filename:         filename,
		OriginalFileName: file.Filename,
		FileType:         fileType,
		FilePath:         filePath,
		ExtractedText:    text,
	}
	if err := s.documentRepo.Create(document); err != nil {
		if rmErr := s.storageService.DeleteFile(filename); rmErr != nil {
			s.logger.Warn("failed to remove orphaned upload", zap.String("filename", filename), zap.Error(rmErr))
		}
		return nil, err
	}

	// the document is stored at this point, so a failed link degrades to no skills
	if err := s.skills.AttachSkills(document.ID, skills); err != nil {
		s.logger.Warn("failed to link extracted skills",
			zap.String("document_id", document.ID.String()),
			zap.Error(err))
		metrics.SkillExtractionFallback()
		skills = &ExtractedSkills{Technical: []string{}, Soft: []string{}}
	}

	s.logger.Info("cv uploaded",
		zap.String("document_id", document.ID.String()),
		zap.String("candidate_id", candidateID.String()),
		zap.Int("technical_skills", len(skills.Technical)),
		zap.Int("soft_skills", len(skills.Soft)))

	return &models.UploadResponse{
		Document:        document,
		TechnicalSkills: skills.Technical,
		SoftSkills:      skills.Soft,
	}, nil
}

func (s *cvService) readText(file *multipart.FileHeader, fileType models.FileType) (string, error) {
	src, err := file.Open()
	if err != nil {
		return "", fmt.Errorf("failed to open uploaded file: %w", err)
	}
	defer src.Close()

	text, err := s.extractor.ExtractText(src, file.Size, fileType)
	if err != nil {
		return "", &ValidationError{
			Message: fmt.Sprintf("could not read text from the CV: %v", err),
			Fields:  map[string]string{"file": "unreadable"},
		}
	}
	return text, nil
}

func (s *cvService) ListDocuments(candidateID uuid.UUID) ([]models.Document, error) {
	return s.documentRepo.FindByCandidate(candidateID)
}

func (s *cvService) GetDocument(candidateID, documentID uuid.UUID) (*models.Document, error) {
	document, err := s.documentRepo.FindByID(documentID)
	if err != nil {
		return nil, err
	}
	if document.CandidateID != candidateID {
		return nil, fmt.Errorf("document %s: %w", documentID, ErrNotFound)
	}
	return document, nil
}

func (s *cvService) DeleteDocument(candidateID, documentID uuid.UUID) error {
	document, err := s.GetDocument(candidateID, documentID)
	if err != nil {
		return err
	}

	if err := s.documentRepo.Delete(document.ID); err != nil {
		return err
	}

	if err := s.storageService.DeleteFile(document.Filename); err != nil {
		s.logger.Warn("document deleted but file removal failed",
			zap.String("document_id", document.ID.String()), zap.Error(err))
	}
	return nil
}

func (s *cvService) ListDocumentSkills(candidateID, documentID uuid.UUID) (*models.DocumentSkillsResponse, error) {
	if _, err := s.GetDocument(candidateID, documentID); err != nil {
		return nil, err
	}

	skills, err := s.skills.ListDocumentSkills(documentID)
	if err != nil {
		return nil, err
	}

	return &models.DocumentSkillsResponse{
		DocumentID:      documentID.String(),
		TechnicalSkills: skills.Technical,
		SoftSkills:      skills.Soft,
	}, nil
}
