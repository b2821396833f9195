package handlers

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"alfredoptarigan/cv-coach/internal/services"
)

// APIError is what handlers return; ErrorHandler renders it.
type APIError struct {
	Status  int
	Kind    string
	Message string
	Details fiber.Map
	Err     error
}

func (e *APIError) Error() string {
	if e.Err != nil {
		return e.Err.Error()
	}
	return e.Message
}

func (e *APIError) Unwrap() error   { return e.Err }
func (e *APIError) StatusCode() int { return e.Status }

// toAPIError maps service errors onto HTTP statuses.
func toAPIError(err error) *APIError {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr
	}

	var validationErr *services.ValidationError
	if errors.As(err, &validationErr) {
		details := fiber.Map{}
		if len(validationErr.Fields) > 0 {
			details["fields"] = validationErr.Fields
		}
		if len(validationErr.MissingSections) > 0 {
			details["missing_sections"] = validationErr.MissingSections
		}
		return &APIError{
			Status:  fiber.StatusBadRequest,
			Kind:    "validation_error",
			Message: validationErr.Message,
			Details: details,
			Err:     err,
		}
	}

	switch {
	case errors.Is(err, services.ErrNotFound):
		return &APIError{Status: fiber.StatusNotFound, Kind: "not_found", Message: "resource not found", Err: err}
	case errors.Is(err, services.ErrEmailTaken):
		return &APIError{Status: fiber.StatusConflict, Kind: "email_taken", Message: err.Error(), Err: err}
	case errors.Is(err, services.ErrSessionCompleted):
		return &APIError{Status: fiber.StatusConflict, Kind: "session_completed", Message: err.Error(), Err: err}
	case errors.Is(err, services.ErrSessionBusy):
		return &APIError{Status: fiber.StatusConflict, Kind: "session_busy", Message: err.Error(), Err: err}
	case errors.Is(err, services.ErrInvalidCredentials):
		return &APIError{Status: fiber.StatusUnauthorized, Kind: "invalid_credentials", Message: err.Error(), Err: err}
	case errors.Is(err, services.ErrUnauthorized):
		return &APIError{Status: fiber.StatusUnauthorized, Kind: "unauthorized", Message: err.Error(), Err: err}
	case errors.Is(err, services.ErrUpstreamFormat):
		return &APIError{Status: fiber.StatusInternalServerError, Kind: "upstream_format_error", Message: "the evaluation service returned an unexpected response", Err: err}
	case errors.Is(err, services.ErrUpstream):
		return &APIError{Status: fiber.StatusInternalServerError, Kind: "upstream_error", Message: "the evaluation service is unavailable", Err: err}
	case errors.Is(err, services.ErrInconsistentState):
		return &APIError{Status: fiber.StatusInternalServerError, Kind: "inconsistent_state", Message: "internal server error", Err: err}
	}

	return &APIError{Status: fiber.StatusInternalServerError, Kind: "internal_error", Message: "internal server error", Err: err}
}

func badRequest(message string) *APIError {
	return &APIError{Status: fiber.StatusBadRequest, Kind: "validation_error", Message: message}
}

// ErrorHandler renders every error as {"error", "code", "kind", ...details}.
func ErrorHandler(log *zap.Logger) fiber.ErrorHandler {
	return func(c *fiber.Ctx, err error) error {
		var fe *fiber.Error
		if errors.As(err, &fe) {
			return c.Status(fe.Code).JSON(fiber.Map{
				"error": fe.Message,
				"code":  fe.Code,
			})
		}

		apiErr := toAPIError(err)
		if apiErr.Status >= fiber.StatusInternalServerError {
			log.Error("request failed",
				zap.String("method", c.Method()),
				zap.String("path", c.Path()),
				zap.String("kind", apiErr.Kind),
				zap.Error(err))
		}

		body := fiber.Map{
			"error": apiErr.Message,
			"code":  apiErr.Status,
			"kind":  apiErr.Kind,
		}
		for k, v := range apiErr.Details {
			body[k] = v
		}
		return c.Status(apiErr.Status).JSON(body)
	}
}
