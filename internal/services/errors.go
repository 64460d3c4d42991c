package services

import (
	"errors"
	"fmt"

	"etugal/internal/models"
)

// Business-rule violations surfaced to handlers. Handlers map these to
// structured JSON error payloads; raw storage errors never leave a service.
var (
	ErrAccountSuspended     = errors.New("your account is suspended")
	ErrAccountTerminated    = errors.New("your account is terminated")
	ErrInvalidStatus        = errors.New("invalid status")
	ErrPerformerNotFound    = errors.New("performer does not exist")
	ErrNoPerformerAssigned  = errors.New("no performer is assigned to this task")
	ErrDuplicateApplication = errors.New("performer has already applied to this task")
	ErrSessionNotFound      = errors.New("chat session not found")
	ErrReviewNotFound       = errors.New("review not found")
	ErrTaskNotFound         = errors.New("task not found")
	ErrTaskNotDone          = errors.New("the task cannot be marked as completed unless the performer has marked it done")
	ErrValidation           = errors.New("validation error")
)

func invalidStatusError(got models.TaskStatus) error {
	return fmt.Errorf("%w %q, allowed statuses: %v", ErrInvalidStatus, got, models.AllTaskStatuses)
}

// IsAccountInactive reports whether err is a trust-gate rejection of either
// flavor.
func IsAccountInactive(err error) bool {
	return errors.Is(err, ErrAccountSuspended) || errors.Is(err, ErrAccountTerminated)
}
