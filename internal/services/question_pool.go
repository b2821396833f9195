package services

import (
	_ "embed"
	"fmt"
	"strings"

	"go.uber.org/zap"
	"gopkg.in/yaml.v3"

	"alfredoptarigan/cv-coach/internal/repositories"
)

//go:embed data/questions.yaml
var defaultQuestionBank []byte

type questionBank struct {
	Questions []string `yaml:"questions"`
}

// SeedQuestions loads the embedded question bank into the pool. Questions
// already stored are left untouched, so seeding on every start is safe.
func SeedQuestions(repo repositories.QuestionRepository, logger *zap.Logger) (int, error) {
	return seedQuestionsFrom(defaultQuestionBank, repo, logger)
}

func seedQuestionsFrom(data []byte, repo repositories.QuestionRepository, logger *zap.Logger) (int, error) {
	var bank questionBank
	if err := yaml.Unmarshal(data, &bank); err != nil {
		return 0, fmt.Errorf("failed to parse question bank: %w", err)
	}

	seeded := 0
	for _, text := range bank.Questions {
		text = strings.TrimSpace(text)
		if text == "" {
			continue
		}
		if _, err := repo.GetOrCreate(text); err != nil {
			return seeded, err
		}
		seeded++
	}

	total, err := repo.Count()
	if err != nil {
		return seeded, err
	}

	logger.Info("question pool ready", zap.Int("bank_size", seeded), zap.Int64("pool_size", total))
	return seeded, nil
}
