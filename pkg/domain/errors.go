package domain

import (
	"errors"
	"fmt"
)

var (
	// ErrEmptyInput is returned when text is empty after trimming.
	ErrEmptyInput = errors.New("task text cannot be empty")

	// ErrIndexOutOfRange is returned when a caller addresses a position the list does not have.
	// It signals a contract violation by the front-end, not a user error.
	ErrIndexOutOfRange = errors.New("task index out of range")

	// ErrTaskNotFound is returned when no task carries the requested ID.
	ErrTaskNotFound = errors.New("task not found")

	// ErrSlotNotFound is returned by a Slot when nothing has been stored under its key.
	ErrSlotNotFound = errors.New("slot not found")

	// ErrPersistenceRead marks a failure to read or decode the persisted list.
	ErrPersistenceRead = errors.New("failed to read persisted tasks")

	// ErrPersistenceWrite marks a failure to encode or write the persisted list.
	ErrPersistenceWrite = errors.New("failed to write persisted tasks")
)

// ValidationError reports rejected user input. It unwraps to ErrEmptyInput.
type ValidationError struct {
	Kind NoticeKind
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Kind, ErrEmptyInput.Error())
}

func (e *ValidationError) Unwrap() error {
	return ErrEmptyInput
}

// PersistenceReadError wraps the cause of a failed load.
type PersistenceReadError struct {
	Key string
	Err error
}

func (e *PersistenceReadError) Error() string {
	return fmt.Sprintf("%s (key %q): %v", ErrPersistenceRead.Error(), e.Key, e.Err)
}

func (e *PersistenceReadError) Unwrap() []error {
	return []error{ErrPersistenceRead, e.Err}
}

// Missing reports whether the read failed only because nothing was stored yet.
func (e *PersistenceReadError) Missing() bool {
	return errors.Is(e.Err, ErrSlotNotFound)
}
