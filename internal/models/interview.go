package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type SessionStatus string

const (
	SessionInProgress SessionStatus = "in_progress"
	SessionCompleted  SessionStatus = "completed"
)

type Verdict string

const (
	VerdictReady            Verdict = "ready"
	VerdictNeedsImprovement Verdict = "needs_improvement"
	VerdictNotReady         Verdict = "not_ready"
)

// Question is a static interview prompt, unique by its text.
type Question struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	Text      string    `gorm:"type:text;not null;uniqueIndex" json:"text"`
	CreatedAt time.Time `json:"created_at"`
}

func (Question) TableName() string {
	return "interview_questions"
}

func (q *Question) BeforeCreate(tx *gorm.DB) error {
	if q.ID == uuid.Nil {
		q.ID = uuid.New()
	}
	return nil
}

// InterviewSession is one candidate's attempt at the mock interview. The
// questions still to be asked live on the session itself, front first.
type InterviewSession struct {
	ID                 uuid.UUID                      `gorm:"type:uuid;primaryKey" json:"id"`
	CandidateID        uuid.UUID                      `gorm:"type:uuid;not null;index" json:"candidate_id"`
	Status             SessionStatus                  `gorm:"type:text;not null;default:'in_progress'" json:"status"`
	CurrentQuestionID  *uuid.UUID                     `gorm:"type:uuid" json:"current_question_id,omitempty"`
	PendingQuestionIDs datatypes.JSONSlice[uuid.UUID] `json:"-"`
	AverageScore       *float64                       `json:"average_score,omitempty"`
	Verdict            *Verdict                       `gorm:"type:text" json:"verdict,omitempty"`
	VerdictMessage     *string                        `gorm:"type:text" json:"verdict_message,omitempty"`
	CompletedAt        *time.Time                     `json:"completed_at,omitempty"`
	CreatedAt          time.Time                      `json:"created_at"`
	UpdatedAt          time.Time                      `json:"updated_at"`

	Answers []InterviewAnswer `gorm:"foreignKey:SessionID;constraint:OnDelete:CASCADE" json:"answers,omitempty"`
}

func (InterviewSession) TableName() string {
	return "interview_sessions"
}

func (s *InterviewSession) BeforeCreate(tx *gorm.DB) error {
	if s.ID == uuid.Nil {
		s.ID = uuid.New()
	}
	return nil
}

// InterviewAnswer keeps null feedback and score until the oracle has scored it.
type InterviewAnswer struct {
	ID         uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	SessionID  uuid.UUID `gorm:"type:uuid;not null;index" json:"session_id"`
	QuestionID uuid.UUID `gorm:"type:uuid;not null" json:"question_id"`
	AnswerText string    `gorm:"type:text;not null" json:"answer"`
	Feedback   *string   `gorm:"type:text" json:"feedback,omitempty"`
	Score      *int      `json:"score,omitempty"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`

	Question Question `gorm:"foreignKey:QuestionID" json:"question"`
}

func (InterviewAnswer) TableName() string {
	return "interview_answers"
}

func (a *InterviewAnswer) BeforeCreate(tx *gorm.DB) error {
	if a.ID == uuid.Nil {
		a.ID = uuid.New()
	}
	return nil
}
