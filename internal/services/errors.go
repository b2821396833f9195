package services

import (
	"errors"
	"fmt"
	"strings"

	"alfredoptarigan/cv-coach/internal/repositories"
)

var (
	ErrNotFound           = repositories.ErrNotFound
	ErrUpstream           = errors.New("oracle request failed")
	ErrUpstreamFormat     = errors.New("oracle returned an unexpected format")
	ErrInconsistentState  = errors.New("inconsistent state")
	ErrSessionCompleted   = errors.New("interview session already completed")
	ErrSessionBusy        = errors.New("interview session is processing another answer")
	ErrEmailTaken         = errors.New("email already registered")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrUnauthorized       = errors.New("unauthorized")
)

// ValidationError reports rejected input. MissingSections is set when an
// uploaded CV lacks required section headers.
type ValidationError struct {
	Message         string
	Fields          map[string]string
	MissingSections []string
}

func (e *ValidationError) Error() string {
	if len(e.MissingSections) > 0 {
		return fmt.Sprintf("%s: missing sections %s", e.Message, strings.Join(e.MissingSections, ", "))
	}
	return e.Message
}

func newValidationError(format string, args ...interface{}) *ValidationError {
	return &ValidationError{Message: fmt.Sprintf(format, args...)}
}

// asUpstream makes sure an oracle failure matches ErrUpstream.
func asUpstream(err error) error {
	if errors.Is(err, ErrUpstream) {
		return err
	}
	return fmt.Errorf("%w: %v", ErrUpstream, err)
}
