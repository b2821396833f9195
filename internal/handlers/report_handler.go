package handlers

import (
	"github.com/gofiber/fiber/v2"

	"alfredoptarigan/cv-coach/internal/middleware"
	"alfredoptarigan/cv-coach/internal/services"
)

type ReportHandler struct {
	cvService     services.CVService
	reportService services.ReportService
}

func NewReportHandler(cvService services.CVService, reportService services.ReportService) *ReportHandler {
	return &ReportHandler{
		cvService:     cvService,
		reportService: reportService,
	}
}

// HandleGenerate runs a new analysis of the CV. Each call stores a new report.
func (h *ReportHandler) HandleGenerate(c *fiber.Ctx) error {
	candidateID, ok := middleware.CandidateID(c)
	if !ok {
		return fiber.ErrUnauthorized
	}
	documentID, err := paramUUID(c, "id")
	if err != nil {
		return err
	}

	if _, err := h.cvService.GetDocument(candidateID, documentID); err != nil {
		return toAPIError(err)
	}

	report, err := h.reportService.GenerateAnalysisReport(c.UserContext(), documentID)
	if err != nil {
		return toAPIError(err)
	}

	return c.Status(fiber.StatusCreated).JSON(report)
}

func (h *ReportHandler) HandleList(c *fiber.Ctx) error {
	candidateID, ok := middleware.CandidateID(c)
	if !ok {
		return fiber.ErrUnauthorized
	}
	documentID, err := paramUUID(c, "id")
	if err != nil {
		return err
	}

	if _, err := h.cvService.GetDocument(candidateID, documentID); err != nil {
		return toAPIError(err)
	}

	reports, err := h.reportService.ListReports(documentID)
	if err != nil {
		return toAPIError(err)
	}

	return c.JSON(fiber.Map{"reports": reports})
}

func (h *ReportHandler) HandleGet(c *fiber.Ctx) error {
	candidateID, ok := middleware.CandidateID(c)
	if !ok {
		return fiber.ErrUnauthorized
	}
	reportID, err := paramUUID(c, "id")
	if err != nil {
		return err
	}

	report, err := h.reportService.GetReport(reportID)
	if err != nil {
		return toAPIError(err)
	}

	// reports of another candidate's CV answer as not found
	if _, err := h.cvService.GetDocument(candidateID, report.DocumentID); err != nil {
		return toAPIError(err)
	}

	return c.JSON(report)
}
