package handlers

import (
	"github.com/gofiber/fiber/v2"

	"alfredoptarigan/cv-coach/internal/middleware"
	"alfredoptarigan/cv-coach/internal/services"
)

type CVHandler struct {
	cvService services.CVService
}

func NewCVHandler(cvService services.CVService) *CVHandler {
	return &CVHandler{cvService: cvService}
}

// HandleUpload accepts a single CV in the multipart field "file".
func (h *CVHandler) HandleUpload(c *fiber.Ctx) error {
	candidateID, ok := middleware.CandidateID(c)
	if !ok {
		return fiber.ErrUnauthorized
	}

	file, err := c.FormFile("file")
	if err != nil {
		return badRequest("a CV must be uploaded in the 'file' field as PDF or DOCX")
	}

	resp, err := h.cvService.UploadCV(c.UserContext(), candidateID, file)
	if err != nil {
		return toAPIError(err)
	}

	return c.Status(fiber.StatusCreated).JSON(resp)
}

func (h *CVHandler) HandleList(c *fiber.Ctx) error {
	candidateID, ok := middleware.CandidateID(c)
	if !ok {
		return fiber.ErrUnauthorized
	}

	documents, err := h.cvService.ListDocuments(candidateID)
	if err != nil {
		return toAPIError(err)
	}

	return c.JSON(fiber.Map{"documents": documents})
}

func (h *CVHandler) HandleSkills(c *fiber.Ctx) error {
	candidateID, ok := middleware.CandidateID(c)
	if !ok {
		return fiber.ErrUnauthorized
	}
	documentID, err := paramUUID(c, "id")
	if err != nil {
		return err
	}

	resp, err := h.cvService.ListDocumentSkills(candidateID, documentID)
	if err != nil {
		return toAPIError(err)
	}

	return c.JSON(resp)
}

func (h *CVHandler) HandleDelete(c *fiber.Ctx) error {
	candidateID, ok := middleware.CandidateID(c)
	if !ok {
		return fiber.ErrUnauthorized
	}
	documentID, err := paramUUID(c, "id")
	if err != nil {
		return err
	}

	if err := h.cvService.DeleteDocument(candidateID, documentID); err != nil {
		return toAPIError(err)
	}

	return c.SendStatus(fiber.StatusNoContent)
}
