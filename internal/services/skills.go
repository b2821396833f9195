package services

import (
	"context"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"alfredoptarigan/cv-coach/internal/metrics"
	"alfredoptarigan/cv-coach/internal/models"
	"alfredoptarigan/cv-coach/internal/repositories"
)

// RequiredCVSections must all appear in a CV, matched case-insensitively.
var RequiredCVSections = []string{
	"Perfil Profesional",
	"Educación Superior",
	"Experiencia Académica",
	"Experiencia Laboral",
	"Información Adicional",
}

// MissingSections lists the required headers absent from text, in order.
func MissingSections(text string) []string {
	lower := strings.ToLower(text)

	var missing []string
	for _, section := range RequiredCVSections {
		if !strings.Contains(lower, strings.ToLower(section)) {
			missing = append(missing, section)
		}
	}
	return missing
}

type SkillExtractor interface {
	ExtractSkills(ctx context.Context, documentText string) (*ExtractedSkills, error)
	AttachSkills(documentID uuid.UUID, skills *ExtractedSkills) error
	ListDocumentSkills(documentID uuid.UUID) (*ExtractedSkills, error)
}

type skillExtractor struct {
	skillRepo     repositories.SkillRepository
	oracle        Oracle
	promptBuilder *PromptBuilder
	logger        *zap.Logger
}

func NewSkillExtractor(skillRepo repositories.SkillRepository, oracle Oracle, logger *zap.Logger) SkillExtractor {
	return &skillExtractor{
		skillRepo:     skillRepo,
		oracle:        oracle,
		promptBuilder: NewPromptBuilder(),
		logger:        logger,
	}
}

// ExtractSkills fails only when required sections are missing. Any oracle
// failure yields an empty skill list so the upload can still go through.
func (e *skillExtractor) ExtractSkills(ctx context.Context, documentText string) (*ExtractedSkills, error) {
	if missing := MissingSections(documentText); len(missing) > 0 {
		return nil, &ValidationError{
			Message:         "CV is missing required sections",
			MissingSections: missing,
		}
	}

	empty := &ExtractedSkills{Technical: []string{}, Soft: []string{}}

	raw, err := callOracle(ctx, e.oracle, "skill_extraction", e.promptBuilder.BuildSkillExtractionPrompt(documentText))
	if err != nil {
		metrics.SkillExtractionFallback()
		e.logger.Warn("skill extraction failed, continuing without skills", zap.Error(err))
		return empty, nil
	}

	skills, err := parseSkillExtraction(raw)
	if err != nil {
		metrics.SkillExtractionFallback()
		e.logger.Warn("skill extraction returned malformed output, continuing without skills", zap.Error(err))
		return empty, nil
	}

	return skills, nil
}

// AttachSkills get-or-creates every skill under its category and links it to the document.
func (e *skillExtractor) AttachSkills(documentID uuid.UUID, skills *ExtractedSkills) error {
	if skills.Empty() {
		return nil
	}

	groups := []struct {
		category string
		names    []string
	}{
		{models.SkillCategoryTechnical, skills.Technical},
		{models.SkillCategorySoft, skills.Soft},
	}

	for _, group := range groups {
		if len(group.names) == 0 {
			continue
		}

		category, err := e.skillRepo.GetOrCreateCategory(group.category)
		if err != nil {
			return err
		}

		for _, name := range group.names {
			skill, err := e.skillRepo.GetOrCreateSkill(category.ID, name)
			if err != nil {
				return err
			}
			if err := e.skillRepo.LinkDocument(documentID, skill.ID); err != nil {
				return err
			}
		}
	}

	return nil
}

func (e *skillExtractor) ListDocumentSkills(documentID uuid.UUID) (*ExtractedSkills, error) {
	skills, err := e.skillRepo.FindByDocument(documentID)
	if err != nil {
		return nil, err
	}

	result := &ExtractedSkills{Technical: []string{}, Soft: []string{}}
	for _, skill := range skills {
		switch skill.Category.Name {
		case models.SkillCategoryTechnical:
			result.Technical = append(result.Technical, skill.Name)
		case models.SkillCategorySoft:
			result.Soft = append(result.Soft, skill.Name)
		}
	}
	return result, nil
}
