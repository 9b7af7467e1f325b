package queue

import "errors"

var (
	ErrRepositoryNil   = errors.New("repository cannot be nil")
	ErrPayloadNil      = errors.New("payload cannot be nil")
	ErrPayloadMarshal  = errors.New("failed to marshal payload to JSON")
	ErrTaskCreate      = errors.New("failed to create task in storage")
	ErrInvalidPriority = errors.New("priority must be between 0 and 100")

	ErrHandlerNotFound = errors.New("no handler registered for task type")
	ErrNoHandlers      = errors.New("no task handlers registered")

	// ErrNoTaskToClaim is returned by ClaimTask when nothing is ready.
	ErrNoTaskToClaim = errors.New("no task to claim")

	ErrTaskNil           = errors.New("task cannot be nil")
	ErrTaskExists        = errors.New("task already exists")
	ErrTaskNotFound      = errors.New("task not found")
	ErrTaskNotProcessing = errors.New("task is not in processing state")

	ErrWorkerAlreadyStarted = errors.New("worker already started")
	ErrWorkerNotStarted     = errors.New("worker not started")

	ErrStorageFailure = errors.New("queue storage failure")
)

// permanentError marks a handler failure that retrying cannot fix.
type permanentError struct {
	err error
}

func (e *permanentError) Error() string { return e.err.Error() }
func (e *permanentError) Unwrap() error { return e.err }

// Permanent wraps err so the worker moves the task straight to the
// dead-letter list instead of retrying it.
func Permanent(err error) error {
	if err == nil {
		return nil
	}
	return &permanentError{err: err}
}

// IsPermanent reports whether err was wrapped with Permanent.
func IsPermanent(err error) bool {
	var pe *permanentError
	return errors.As(err, &pe)
}
