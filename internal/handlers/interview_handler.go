package handlers

import (
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"alfredoptarigan/cv-coach/internal/middleware"
	"alfredoptarigan/cv-coach/internal/models"
	"alfredoptarigan/cv-coach/internal/services"
)

type InterviewHandler struct {
	interviewService services.InterviewService
}

func NewInterviewHandler(interviewService services.InterviewService) *InterviewHandler {
	return &InterviewHandler{interviewService: interviewService}
}

func (h *InterviewHandler) HandleStart(c *fiber.Ctx) error {
	candidateID, ok := middleware.CandidateID(c)
	if !ok {
		return fiber.ErrUnauthorized
	}

	resp, err := h.interviewService.StartInterview(c.UserContext(), candidateID)
	if err != nil {
		return toAPIError(err)
	}

	return c.Status(fiber.StatusCreated).JSON(resp)
}

func (h *InterviewHandler) HandleSubmitAnswer(c *fiber.Ctx) error {
	candidateID, ok := middleware.CandidateID(c)
	if !ok {
		return fiber.ErrUnauthorized
	}
	sessionID, err := paramUUID(c, "id")
	if err != nil {
		return err
	}

	var req models.SubmitAnswerRequest
	if err := bindJSON(c, &req); err != nil {
		return err
	}
	// validated as a UUID above
	questionID := uuid.MustParse(req.QuestionID)

	resp, err := h.interviewService.SubmitAnswer(c.UserContext(), candidateID, sessionID, questionID, req.Answer)
	if err != nil {
		return toAPIError(err)
	}

	return c.JSON(resp)
}

func (h *InterviewHandler) HandleList(c *fiber.Ctx) error {
	candidateID, ok := middleware.CandidateID(c)
	if !ok {
		return fiber.ErrUnauthorized
	}

	sessions, err := h.interviewService.ListSessions(candidateID)
	if err != nil {
		return toAPIError(err)
	}

	return c.JSON(fiber.Map{"interviews": sessions})
}

func (h *InterviewHandler) HandleGet(c *fiber.Ctx) error {
	candidateID, ok := middleware.CandidateID(c)
	if !ok {
		return fiber.ErrUnauthorized
	}
	sessionID, err := paramUUID(c, "id")
	if err != nil {
		return err
	}

	session, err := h.interviewService.GetSession(candidateID, sessionID)
	if err != nil {
		return toAPIError(err)
	}

	return c.JSON(session)
}
