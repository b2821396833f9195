package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/datatypes"

	"alfredoptarigan/cv-coach/internal/metrics"
	"alfredoptarigan/cv-coach/internal/models"
	"alfredoptarigan/cv-coach/internal/repositories"
)

// QuestionsPerInterview is how many distinct questions one session asks.
const QuestionsPerInterview = 6

const (
	readyThreshold            = 8.0
	needsImprovementThreshold = 5.0
)

var verdictMessages = map[models.Verdict]string{
	models.VerdictReady:            "Congratulations! You are ready for a real interview.",
	models.VerdictNeedsImprovement: "Your performance is acceptable, but there are areas you can improve.",
	models.VerdictNotReady:         "You should improve your answers before a real job interview.",
}

// ClassifyVerdict buckets an average score: >= 8 ready, >= 5 needs
// improvement, anything lower not ready.
func ClassifyVerdict(average float64) (models.Verdict, string) {
	var verdict models.Verdict
	switch {
	case average >= readyThreshold:
		verdict = models.VerdictReady
	case average >= needsImprovementThreshold:
		verdict = models.VerdictNeedsImprovement
	default:
		verdict = models.VerdictNotReady
	}
	return verdict, verdictMessages[verdict]
}

type InterviewService interface {
	StartInterview(ctx context.Context, candidateID uuid.UUID) (*models.StartInterviewResponse, error)
	SubmitAnswer(ctx context.Context, candidateID, sessionID, questionID uuid.UUID, answer string) (*models.SubmitAnswerResponse, error)
	GetSession(candidateID, sessionID uuid.UUID) (*models.InterviewSession, error)
	ListSessions(candidateID uuid.UUID) ([]models.InterviewSession, error)
}

type interviewService struct {
	candidateRepo repositories.CandidateRepository
	questionRepo  repositories.QuestionRepository
	interviewRepo repositories.InterviewRepository
	oracle        Oracle
	locker        SessionLocker
	promptBuilder *PromptBuilder
	logger        *zap.Logger
}

func NewInterviewService(
	candidateRepo repositories.CandidateRepository,
	questionRepo repositories.QuestionRepository,
	interviewRepo repositories.InterviewRepository,
	oracle Oracle,
	locker SessionLocker,
	logger *zap.Logger,
) InterviewService {
	return &interviewService{
		candidateRepo: candidateRepo,
		questionRepo:  questionRepo,
		interviewRepo: interviewRepo,
		oracle:        oracle,
		locker:        locker,
		promptBuilder: NewPromptBuilder(),
		logger:        logger,
	}
}

// StartInterview samples the session's questions, asks the first one and
// keeps the rest queued on the session.
func (s *interviewService) StartInterview(ctx context.Context, candidateID uuid.UUID) (*models.StartInterviewResponse, error) {
	if _, err := s.candidateRepo.FindByID(candidateID); err != nil {
		return nil, err
	}

	questions, err := s.questionRepo.Sample(QuestionsPerInterview)
	if err != nil {
		return nil, err
	}
	if len(questions) == 0 {
		return nil, fmt.Errorf("%w: question pool is empty", ErrInconsistentState)
	}

	first := questions[0]
	pending := make(datatypes.JSONSlice[uuid.UUID], 0, len(questions)-1)
	for _, q := range questions[1:] {
		pending = append(pending, q.ID)
	}

	session := &models.InterviewSession{
		CandidateID:        candidateID,
		Status:             models.SessionInProgress,
		CurrentQuestionID:  &first.ID,
		PendingQuestionIDs: pending,
	}
	if err := s.interviewRepo.CreateSession(session); err != nil {
		return nil, err
	}

	s.logger.Info("interview started",
		zap.String("session_id", session.ID.String()),
		zap.String("candidate_id", candidateID.String()),
		zap.Int("questions", len(questions)))

	return &models.StartInterviewResponse{
		SessionID:    session.ID.String(),
		QuestionID:   first.ID.String(),
		QuestionText: first.Text,
	}, nil
}

// SubmitAnswer stores and scores the answer to the session's current question,
// then either advances to the next question or completes the session.
func (s *interviewService) SubmitAnswer(ctx context.Context, candidateID, sessionID, questionID uuid.UUID, answerText string) (*models.SubmitAnswerResponse, error) {
	answerText = strings.TrimSpace(answerText)
	if answerText == "" {
		return nil, &ValidationError{
			Message: "answer is required",
			Fields:  map[string]string{"answer": "required"},
		}
	}

	release, err := s.locker.Acquire(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	defer release()

	session, err := s.ownedSession(candidateID, sessionID)
	if err != nil {
		return nil, err
	}
	if session.Status == models.SessionCompleted {
		return nil, ErrSessionCompleted
	}
	if session.CurrentQuestionID == nil {
		return nil, fmt.Errorf("%w: session %s has no current question", ErrInconsistentState, sessionID)
	}
	if *session.CurrentQuestionID != questionID {
		return nil, &ValidationError{
			Message: fmt.Sprintf("question %s is not the current question of this interview", questionID),
			Fields:  map[string]string{"question_id": "not the current question"},
		}
	}

	question, err := s.questionRepo.FindByID(questionID)
	if err != nil {
		return nil, err
	}

	answer, err := s.recordAnswer(sessionID, questionID, answerText)
	if err != nil {
		return nil, err
	}

	raw, err := callOracle(ctx, s.oracle, "answer_evaluation", s.promptBuilder.BuildAnswerEvaluationPrompt(question.Text, answerText))
	if err != nil {
		s.logger.Warn("answer scoring failed",
			zap.String("session_id", sessionID.String()),
			zap.String("answer_id", answer.ID.String()),
			zap.Error(err))
		return nil, asUpstream(err)
	}

	evaluation, err := parseAnswerEvaluation(raw)
	if err != nil {
		s.logger.Warn("answer scoring returned malformed output",
			zap.String("session_id", sessionID.String()),
			zap.String("answer_id", answer.ID.String()),
			zap.Error(err))
		return nil, err
	}
	if evaluation.ScoreDefaulted {
		s.logger.Info("oracle omitted score, using default",
			zap.String("answer_id", answer.ID.String()),
			zap.Int("score", evaluation.Score))
	}

	if err := s.interviewRepo.UpdateAnswerEvaluation(answer.ID, evaluation.Feedback, evaluation.Score); err != nil {
		return nil, err
	}

	response := &models.SubmitAnswerResponse{
		Feedback: evaluation.Feedback,
		Score:    evaluation.Score,
	}

	if len(session.PendingQuestionIDs) > 0 {
		return s.advance(session, response)
	}
	return s.complete(session, response)
}

// recordAnswer keeps one row per question. A retry after a failed step,
// whether scoring or moving the queue failed, overwrites that row.
func (s *interviewService) recordAnswer(sessionID, questionID uuid.UUID, text string) (*models.InterviewAnswer, error) {
	existing, err := s.interviewRepo.FindAnswerForQuestion(sessionID, questionID)
	switch {
	case err == nil:
		if err := s.interviewRepo.ResetAnswer(existing.ID, text); err != nil {
			return nil, err
		}
		existing.AnswerText = text
		existing.Feedback = nil
		existing.Score = nil
		return existing, nil
	case !errors.Is(err, ErrNotFound):
		return nil, err
	}

	answer := &models.InterviewAnswer{
		SessionID:  sessionID,
		QuestionID: questionID,
		AnswerText: text,
	}
	if err := s.interviewRepo.CreateAnswer(answer); err != nil {
		return nil, err
	}
	return answer, nil
}

func (s *interviewService) advance(session *models.InterviewSession, response *models.SubmitAnswerResponse) (*models.SubmitAnswerResponse, error) {
	nextID := session.PendingQuestionIDs[0]
	next, err := s.questionRepo.FindByID(nextID)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return nil, fmt.Errorf("%w: queued question %s no longer exists", ErrInconsistentState, nextID)
		}
		return nil, err
	}

	session.CurrentQuestionID = &nextID
	session.PendingQuestionIDs = session.PendingQuestionIDs[1:]
	if err := s.interviewRepo.UpdateQueue(session); err != nil {
		return nil, err
	}

	id := next.ID.String()
	response.NextQuestionID = &id
	response.NextQuestionText = &next.Text
	return response, nil
}

func (s *interviewService) complete(session *models.InterviewSession, response *models.SubmitAnswerResponse) (*models.SubmitAnswerResponse, error) {
	scores, err := s.interviewRepo.FindScoresBySession(session.ID)
	if err != nil {
		return nil, err
	}
	if len(scores) == 0 {
		return nil, fmt.Errorf("%w: session %s has no scored answers", ErrInconsistentState, session.ID)
	}

	total := 0
	for _, score := range scores {
		total += score
	}
	average := float64(total) / float64(len(scores))
	verdict, message := ClassifyVerdict(average)

	err = s.interviewRepo.CompleteSession(session.ID, &repositories.SessionResult{
		AverageScore:   average,
		Verdict:        verdict,
		VerdictMessage: message,
		CompletedAt:    time.Now(),
	})
	if err != nil {
		return nil, err
	}

	metrics.InterviewCompleted(string(verdict))
	s.logger.Info("interview completed",
		zap.String("session_id", session.ID.String()),
		zap.Float64("average", average),
		zap.String("verdict", string(verdict)))

	response.Completed = true
	response.FinalAverage = &average
	response.Verdict = &verdict
	response.VerdictMessage = &message
	return response, nil
}

func (s *interviewService) GetSession(candidateID, sessionID uuid.UUID) (*models.InterviewSession, error) {
	session, err := s.interviewRepo.FindSessionWithAnswers(sessionID)
	if err != nil {
		return nil, err
	}
	if session.CandidateID != candidateID {
		return nil, fmt.Errorf("interview session %s: %w", sessionID, ErrNotFound)
	}
	return session, nil
}

func (s *interviewService) ListSessions(candidateID uuid.UUID) ([]models.InterviewSession, error) {
	return s.interviewRepo.FindSessionsByCandidate(candidateID)
}

func (s *interviewService) ownedSession(candidateID, sessionID uuid.UUID) (*models.InterviewSession, error) {
	session, err := s.interviewRepo.FindSessionByID(sessionID)
	if err != nil {
		return nil, err
	}
	if session.CandidateID != candidateID {
		return nil, fmt.Errorf("interview session %s: %w", sessionID, ErrNotFound)
	}
	return session, nil
}
