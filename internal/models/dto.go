package models

type RegisterRequest struct {
	Name            string `json:"name" validate:"required,max=255"`
	Email           string `json:"email" validate:"required,email"`
	Password        string `json:"password" validate:"required,min=8,max=72"`
	ConfirmPassword string `json:"confirm_password" validate:"required"`
}

type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type VerifyTokenRequest struct {
	Token string `json:"token" validate:"required"`
}

type LoginResponse struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
	ExpiresIn   int64  `json:"expires_in"`
	CandidateID string `json:"candidate_id"`
	Name        string `json:"name"`
}

type UploadResponse struct {
	Document        *Document `json:"document"`
	TechnicalSkills []string  `json:"technical_skills"`
	SoftSkills      []string  `json:"soft_skills"`
}

type DocumentSkillsResponse struct {
	DocumentID      string   `json:"document_id"`
	TechnicalSkills []string `json:"technical_skills"`
	SoftSkills      []string `json:"soft_skills"`
}

type StartInterviewResponse struct {
	SessionID    string `json:"session_id"`
	QuestionID   string `json:"question_id"`
	QuestionText string `json:"question_text"`
}

type SubmitAnswerRequest struct {
	QuestionID string `json:"question_id" validate:"required,uuid"`
	Answer     string `json:"answer" validate:"required"`
}

// SubmitAnswerResponse carries either the next question or, once the last
// answer is scored, the final average and verdict.
type SubmitAnswerResponse struct {
	Feedback         string   `json:"feedback"`
	Score            int      `json:"score"`
	NextQuestionID   *string  `json:"next_question_id,omitempty"`
	NextQuestionText *string  `json:"next_question_text,omitempty"`
	Completed        bool     `json:"completed"`
	FinalAverage     *float64 `json:"final_average,omitempty"`
	Verdict          *Verdict `json:"verdict,omitempty"`
	VerdictMessage   *string  `json:"verdict_message,omitempty"`
}
