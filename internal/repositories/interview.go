package repositories

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"alfredoptarigan/cv-coach/internal/models"
)

type InterviewRepository interface {
	CreateSession(session *models.InterviewSession) error
	FindSessionByID(id uuid.UUID) (*models.InterviewSession, error)
	FindSessionWithAnswers(id uuid.UUID) (*models.InterviewSession, error)
	FindSessionsByCandidate(candidateID uuid.UUID) ([]models.InterviewSession, error)
	UpdateQueue(session *models.InterviewSession) error
	CompleteSession(id uuid.UUID, result *SessionResult) error

	CreateAnswer(answer *models.InterviewAnswer) error
	FindAnswerForQuestion(sessionID, questionID uuid.UUID) (*models.InterviewAnswer, error)
	ResetAnswer(id uuid.UUID, text string) error
	UpdateAnswerEvaluation(id uuid.UUID, feedback string, score int) error
	FindScoresBySession(sessionID uuid.UUID) ([]int, error)
}

type SessionResult struct {
	AverageScore   float64
	Verdict        models.Verdict
	VerdictMessage string
	CompletedAt    time.Time
}

type interviewRepository struct {
	db *gorm.DB
}

func NewInterviewRepository(db *gorm.DB) InterviewRepository {
	return &interviewRepository{db: db}
}

func (r *interviewRepository) CreateSession(session *models.InterviewSession) error {
	if err := r.db.Create(session).Error; err != nil {
		return fmt.Errorf("failed to create interview session: %w", err)
	}
	return nil
}

func (r *interviewRepository) FindSessionByID(id uuid.UUID) (*models.InterviewSession, error) {
	var session models.InterviewSession
	if err := r.db.Where("id = ?", id).First(&session).Error; err != nil {
		return nil, wrapFind(err, "interview session", id)
	}
	return &session, nil
}

func (r *interviewRepository) FindSessionWithAnswers(id uuid.UUID) (*models.InterviewSession, error) {
	var session models.InterviewSession
	err := r.db.
		Preload("Answers", func(db *gorm.DB) *gorm.DB {
			return db.Order("created_at ASC")
		}).
		Preload("Answers.Question").
		Where("id = ?", id).
		First(&session).Error
	if err != nil {
		return nil, wrapFind(err, "interview session", id)
	}
	return &session, nil
}

func (r *interviewRepository) FindSessionsByCandidate(candidateID uuid.UUID) ([]models.InterviewSession, error) {
	var sessions []models.InterviewSession
	err := r.db.
		Where("candidate_id = ?", candidateID).
		Order("created_at DESC").
		Find(&sessions).Error
	if err != nil {
		return nil, fmt.Errorf("failed to find interview sessions: %w", err)
	}
	return sessions, nil
}

// UpdateQueue persists the session's current question and remaining queue.
func (r *interviewRepository) UpdateQueue(session *models.InterviewSession) error {
	result := r.db.Model(&models.InterviewSession{}).
		Where("id = ?", session.ID).
		Updates(map[string]interface{}{
			"current_question_id":  session.CurrentQuestionID,
			"pending_question_ids": session.PendingQuestionIDs,
			"updated_at":           time.Now(),
		})

	if result.Error != nil {
		return fmt.Errorf("failed to update question queue: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return fmt.Errorf("interview session %s: %w", session.ID, ErrNotFound)
	}
	return nil
}

func (r *interviewRepository) CompleteSession(id uuid.UUID, res *SessionResult) error {
	result := r.db.Model(&models.InterviewSession{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"status":               models.SessionCompleted,
			"current_question_id":  nil,
			"pending_question_ids": datatypes.JSONSlice[uuid.UUID]{},
			"average_score":        res.AverageScore,
			"verdict":              res.Verdict,
			"verdict_message":      res.VerdictMessage,
			"completed_at":         res.CompletedAt,
			"updated_at":           time.Now(),
		})

	if result.Error != nil {
		return fmt.Errorf("failed to complete interview session: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return fmt.Errorf("interview session %s: %w", id, ErrNotFound)
	}
	return nil
}

func (r *interviewRepository) CreateAnswer(answer *models.InterviewAnswer) error {
	if err := r.db.Omit("Question").Create(answer).Error; err != nil {
		return fmt.Errorf("failed to create interview answer: %w", err)
	}
	return nil
}

// FindAnswerForQuestion returns the latest answer stored for a question of
// the session, scored or not.
func (r *interviewRepository) FindAnswerForQuestion(sessionID, questionID uuid.UUID) (*models.InterviewAnswer, error) {
	var answer models.InterviewAnswer
	err := r.db.
		Where("session_id = ? AND question_id = ?", sessionID, questionID).
		Order("created_at DESC").
		First(&answer).Error
	if err != nil {
		return nil, wrapFind(err, "answer", questionID)
	}
	return &answer, nil
}

// ResetAnswer replaces the answer text and clears any earlier evaluation.
func (r *interviewRepository) ResetAnswer(id uuid.UUID, text string) error {
	result := r.db.Model(&models.InterviewAnswer{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"answer_text": text,
			"feedback":    nil,
			"score":       nil,
			"updated_at":  time.Now(),
		})

	if result.Error != nil {
		return fmt.Errorf("failed to reset answer: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return fmt.Errorf("interview answer %s: %w", id, ErrNotFound)
	}
	return nil
}

func (r *interviewRepository) UpdateAnswerEvaluation(id uuid.UUID, feedback string, score int) error {
	result := r.db.Model(&models.InterviewAnswer{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"feedback":   feedback,
			"score":      score,
			"updated_at": time.Now(),
		})

	if result.Error != nil {
		return fmt.Errorf("failed to update answer evaluation: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return fmt.Errorf("interview answer %s: %w", id, ErrNotFound)
	}
	return nil
}

// FindScoresBySession returns the score of every scored answer in the session.
// Answers whose scoring never completed are skipped.
func (r *interviewRepository) FindScoresBySession(sessionID uuid.UUID) ([]int, error) {
	var scores []int
	err := r.db.Model(&models.InterviewAnswer{}).
		Where("session_id = ? AND score IS NOT NULL", sessionID).
		Pluck("score", &scores).Error
	if err != nil {
		return nil, fmt.Errorf("failed to load answer scores: %w", err)
	}
	return scores, nil
}
