package repositories

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/datatypes"

	"alfredoptarigan/cv-coach/internal/models"
	"alfredoptarigan/cv-coach/internal/testhelpers"
)

func TestCandidateRepository_EmailIsNormalized(t *testing.T) {
	db := testhelpers.SetupTestDB(t)
	repo := NewCandidateRepository(db)

	require.NoError(t, repo.Create(&models.Candidate{Name: "Ana", Email: "  Ana@Example.COM ", PasswordHash: "x"}))

	found, err := repo.FindByEmail("ana@example.com")
	require.NoError(t, err)
	assert.Equal(t, "ana@example.com", found.Email)

	_, err = repo.FindByEmail("nobody@example.com")
	assert.ErrorIs(t, err, ErrNotFound)

	assert.ErrorIs(t, repo.UpdateLastLogin(uuid.New(), time.Now()), ErrNotFound)
}

func TestInterviewRepository_QueueLifecycle(t *testing.T) {
	db := testhelpers.SetupTestDB(t)
	candidate := testhelpers.CreateCandidate(t, db, "ana@example.com")
	questions := testhelpers.SeedQuestions(t, db, 3)
	repo := NewInterviewRepository(db)

	session := &models.InterviewSession{
		CandidateID:        candidate.ID,
		Status:             models.SessionInProgress,
		CurrentQuestionID:  &questions[0].ID,
		PendingQuestionIDs: datatypes.JSONSlice[uuid.UUID]{questions[1].ID, questions[2].ID},
	}
	require.NoError(t, repo.CreateSession(session))

	loaded, err := repo.FindSessionByID(session.ID)
	require.NoError(t, err)
	assert.Equal(t, []uuid.UUID{questions[1].ID, questions[2].ID}, []uuid.UUID(loaded.PendingQuestionIDs))

	loaded.CurrentQuestionID = &questions[1].ID
	loaded.PendingQuestionIDs = loaded.PendingQuestionIDs[1:]
	require.NoError(t, repo.UpdateQueue(loaded))

	loaded, err = repo.FindSessionByID(session.ID)
	require.NoError(t, err)
	assert.Equal(t, questions[1].ID, *loaded.CurrentQuestionID)
	assert.Equal(t, []uuid.UUID{questions[2].ID}, []uuid.UUID(loaded.PendingQuestionIDs))

	require.NoError(t, repo.CompleteSession(session.ID, &SessionResult{
		AverageScore:   6.5,
		Verdict:        models.VerdictNeedsImprovement,
		VerdictMessage: "Keep practicing.",
		CompletedAt:    time.Now(),
	}))

	loaded, err = repo.FindSessionByID(session.ID)
	require.NoError(t, err)
	assert.Equal(t, models.SessionCompleted, loaded.Status)
	assert.Nil(t, loaded.CurrentQuestionID)
	assert.Empty(t, loaded.PendingQuestionIDs)
	require.NotNil(t, loaded.AverageScore)
	assert.Equal(t, 6.5, *loaded.AverageScore)

	assert.ErrorIs(t, repo.CompleteSession(uuid.New(), &SessionResult{}), ErrNotFound)
}

func TestInterviewRepository_Answers(t *testing.T) {
	db := testhelpers.SetupTestDB(t)
	candidate := testhelpers.CreateCandidate(t, db, "ana@example.com")
	questions := testhelpers.SeedQuestions(t, db, 2)
	repo := NewInterviewRepository(db)

	session := &models.InterviewSession{CandidateID: candidate.ID, Status: models.SessionInProgress}
	require.NoError(t, repo.CreateSession(session))

	first := &models.InterviewAnswer{SessionID: session.ID, QuestionID: questions[0].ID, AnswerText: "draft"}
	require.NoError(t, repo.CreateAnswer(first))

	found, err := repo.FindAnswerForQuestion(session.ID, questions[0].ID)
	require.NoError(t, err)
	assert.Equal(t, first.ID, found.ID)

	require.NoError(t, repo.UpdateAnswerEvaluation(first.ID, "Vague.", 3))
	require.NoError(t, repo.ResetAnswer(first.ID, "final"))

	found, err = repo.FindAnswerForQuestion(session.ID, questions[0].ID)
	require.NoError(t, err)
	assert.Equal(t, "final", found.AnswerText)
	assert.Nil(t, found.Score)
	assert.Nil(t, found.Feedback)

	require.NoError(t, repo.UpdateAnswerEvaluation(first.ID, "Clear.", 9))

	_, err = repo.FindAnswerForQuestion(session.ID, questions[1].ID)
	assert.ErrorIs(t, err, ErrNotFound)
	assert.ErrorIs(t, repo.ResetAnswer(uuid.New(), "x"), ErrNotFound)

	require.NoError(t, repo.CreateAnswer(&models.InterviewAnswer{SessionID: session.ID, QuestionID: questions[1].ID, AnswerText: "pending"}))

	scores, err := repo.FindScoresBySession(session.ID)
	require.NoError(t, err)
	assert.Equal(t, []int{9}, scores)

	withAnswers, err := repo.FindSessionWithAnswers(session.ID)
	require.NoError(t, err)
	require.Len(t, withAnswers.Answers, 2)
	assert.Equal(t, "final", withAnswers.Answers[0].AnswerText)
	assert.Equal(t, questions[0].Text, withAnswers.Answers[0].Question.Text)
}

func TestQuestionRepository_SampleAndGetOrCreate(t *testing.T) {
	db := testhelpers.SetupTestDB(t)
	testhelpers.SeedQuestions(t, db, 4)
	repo := NewQuestionRepository(db)

	again, err := repo.GetOrCreate("Question 1?")
	require.NoError(t, err)
	count, err := repo.Count()
	require.NoError(t, err)
	assert.Equal(t, int64(4), count)

	_, err = repo.GetOrCreate("What motivates you?")
	require.NoError(t, err)

	sample, err := repo.Sample(3)
	require.NoError(t, err)
	assert.Len(t, sample, 3)

	sample, err = repo.Sample(10)
	require.NoError(t, err)
	assert.Len(t, sample, 5)

	found, err := repo.FindByID(again.ID)
	require.NoError(t, err)
	assert.Equal(t, "Question 1?", found.Text)
}

func TestDocumentRepository_DeleteRemovesLinkedRows(t *testing.T) {
	db := testhelpers.SetupTestDB(t)
	candidate := testhelpers.CreateCandidate(t, db, "ana@example.com")
	docs := NewDocumentRepository(db)
	skills := NewSkillRepository(db)
	reports := NewReportRepository(db)

	doc := &models.Document{CandidateID: candidate.ID, Filename: "cv.pdf", FileType: models.FileTypePDF}
	require.NoError(t, docs.Create(doc))

	category, err := skills.GetOrCreateCategory(models.SkillCategoryTechnical)
	require.NoError(t, err)
	skill, err := skills.GetOrCreateSkill(category.ID, "Go")
	require.NoError(t, err)
	require.NoError(t, skills.LinkDocument(doc.ID, skill.ID))
	require.NoError(t, skills.LinkDocument(doc.ID, skill.ID))
	require.NoError(t, reports.Create(&models.AnalysisReport{DocumentID: doc.ID, Summary: "ok"}))

	linked, err := skills.FindByDocument(doc.ID)
	require.NoError(t, err)
	require.Len(t, linked, 1)
	assert.Equal(t, models.SkillCategoryTechnical, linked[0].Category.Name)

	require.NoError(t, docs.Delete(doc.ID))

	_, err = docs.FindByID(doc.ID)
	assert.ErrorIs(t, err, ErrNotFound)
	remaining, err := reports.FindByDocument(doc.ID)
	require.NoError(t, err)
	assert.Empty(t, remaining)
	linked, err = skills.FindByDocument(doc.ID)
	require.NoError(t, err)
	assert.Empty(t, linked)

	assert.ErrorIs(t, docs.Delete(doc.ID), ErrNotFound)
}
