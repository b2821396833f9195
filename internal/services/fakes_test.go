package services

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/google/uuid"

	"alfredoptarigan/cv-coach/internal/models"
	"alfredoptarigan/cv-coach/internal/repositories"
)

// fakeOracle answers prompts through a function field and counts calls.
type fakeOracle struct {
	mu       sync.Mutex
	evaluate func(ctx context.Context, prompt string) (string, error)
	prompts  []string
}

func (f *fakeOracle) Evaluate(ctx context.Context, prompt string) (string, error) {
	f.mu.Lock()
	f.prompts = append(f.prompts, prompt)
	f.mu.Unlock()
	return f.evaluate(ctx, prompt)
}

func (f *fakeOracle) calls() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.prompts)
}

// scoringOracle replies with the given scores in order, one per call.
func scoringOracle(scores ...int) *fakeOracle {
	var (
		mu sync.Mutex
		i  int
	)
	return &fakeOracle{evaluate: func(context.Context, string) (string, error) {
		mu.Lock()
		defer mu.Unlock()
		score := scores[i%len(scores)]
		i++
		return fmt.Sprintf("```json\n{\"feedback\": \"Answer %d reviewed.\", \"score\": %d}\n```", i, score), nil
	}}
}

func staticOracle(reply string, err error) *fakeOracle {
	return &fakeOracle{evaluate: func(context.Context, string) (string, error) {
		return reply, err
	}}
}

// failingQueueRepo fails the next n queue updates and delegates everything else.
type failingQueueRepo struct {
	repositories.InterviewRepository
	failures int
}

func (r *failingQueueRepo) UpdateQueue(session *models.InterviewSession) error {
	if r.failures > 0 {
		r.failures--
		return errors.New("database is locked")
	}
	return r.InterviewRepository.UpdateQueue(session)
}

// failingAttachExtractor extracts normally but cannot link skills to documents.
type failingAttachExtractor struct {
	SkillExtractor
}

func (f *failingAttachExtractor) AttachSkills(uuid.UUID, *ExtractedSkills) error {
	return errors.New("constraint failed")
}
