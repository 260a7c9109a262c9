package services

import "fmt"

// ValidationError reports malformed or out-of-range input, caught before
// anything is persisted.
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}

// NotFoundError reports that no link with the requested id exists.
type NotFoundError struct {
	ID string
}

func (e *NotFoundError) Error() string {
	return "payment link not found"
}

// InvalidStateError reports an action attempted against a link whose
// effective status forbids it. Status carries the status the link was in.
type InvalidStateError struct {
	Status string
}

func (e *InvalidStateError) Error() string {
	return fmt.Sprintf("payment link cannot be paid. Status is: %s", e.Status)
}
