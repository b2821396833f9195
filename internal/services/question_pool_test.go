package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"alfredoptarigan/cv-coach/internal/repositories"
	"alfredoptarigan/cv-coach/internal/testhelpers"
)

func TestSeedQuestions_EmbeddedBankIsIdempotent(t *testing.T) {
	db := testhelpers.SetupTestDB(t)
	repo := repositories.NewQuestionRepository(db)
	logger := zaptest.NewLogger(t)

	seeded, err := SeedQuestions(repo, logger)
	require.NoError(t, err)
	assert.GreaterOrEqual(t, seeded, QuestionsPerInterview)

	_, err = SeedQuestions(repo, logger)
	require.NoError(t, err)

	count, err := repo.Count()
	require.NoError(t, err)
	assert.Equal(t, int64(seeded), count)
}

func TestSeedQuestions_SkipsBlankEntries(t *testing.T) {
	db := testhelpers.SetupTestDB(t)
	repo := repositories.NewQuestionRepository(db)

	bank := []byte("questions:\n  - \"What motivates you?\"\n  - \"  \"\n  - \"What motivates you?\"\n")
	seeded, err := seedQuestionsFrom(bank, repo, zaptest.NewLogger(t))
	require.NoError(t, err)
	assert.Equal(t, 2, seeded)

	count, err := repo.Count()
	require.NoError(t, err)
	assert.Equal(t, int64(1), count)
}

func TestSeedQuestions_InvalidYAML(t *testing.T) {
	db := testhelpers.SetupTestDB(t)

	_, err := seedQuestionsFrom([]byte("questions: [unterminated"), repositories.NewQuestionRepository(db), zaptest.NewLogger(t))
	assert.Error(t, err)
}

func TestQuestionSample(t *testing.T) {
	db := testhelpers.SetupTestDB(t)
	testhelpers.SeedQuestions(t, db, 10)
	repo := repositories.NewQuestionRepository(db)

	sample, err := repo.Sample(QuestionsPerInterview)
	require.NoError(t, err)
	require.Len(t, sample, QuestionsPerInterview)

	seen := map[string]bool{}
	for _, q := range sample {
		assert.False(t, seen[q.ID.String()])
		seen[q.ID.String()] = true
	}
}
