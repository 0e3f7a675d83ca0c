package wiro

import (
	"errors"
	"strings"
)

var (
	// ErrMissingTaskRef is returned when a detail lookup gets neither a
	// task id nor a socket access token.
	ErrMissingTaskRef = errors.New("either task id or socket access token must be provided")

	// ErrTaskNotFound is returned when Task/Detail answers without a task.
	ErrTaskNotFound = errors.New("task not found or invalid response")

	// ErrTaskCancelled is returned when the server reports task_cancel.
	ErrTaskCancelled = errors.New("Task was cancelled")

	// ErrPollTimeout is returned when polling runs out of attempts.
	ErrPollTimeout = errors.New("Polling timeout")
)

// UnknownError is reported when a rejection carries no error messages.
const UnknownError = "Unknown error"

// SubmissionError is returned when the Run endpoint rejects a task.
type SubmissionError struct {
	Errors []string
}

func (e *SubmissionError) Error() string {
	if len(e.Errors) == 0 {
		return UnknownError
	}
	return strings.Join(e.Errors, ", ")
}
