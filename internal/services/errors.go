package services

import (
	"errors"
	"fmt"
)

var (
	ErrSubscriptionNotFound = errors.New("subscription not found")
	ErrArchiveFailed        = errors.New("archive failed")
	ErrPartialArchive       = errors.New("subscription archived but still active")
)

// ValidationError rejects user input before anything is written.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

func invalid(field string, err error) *ValidationError {
	return &ValidationError{Field: field, Message: err.Error()}
}

// RemoteWriteError reports a failed write to the record store. Writes are
// not retried here.
type RemoteWriteError struct {
	Op  string
	Err error
}

func (e *RemoteWriteError) Error() string {
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e *RemoteWriteError) Unwrap() error {
	return e.Err
}

type ArchivePhase string

const (
	PhaseInsert ArchivePhase = "insert"
	PhaseDelete ArchivePhase = "delete"
)

// ArchiveError is a RemoteWriteError raised by one phase of the archive
// saga. An insert failure leaves the subscription untouched; a delete
// failure leaves both the archived copy and the active row in place.
type ArchiveError struct {
	Phase          ArchivePhase
	SubscriptionID string
	ArchivedID     string
	Err            error
}

func (e *ArchiveError) Error() string {
	return fmt.Sprintf("archive subscription %s (%s phase): %v", e.SubscriptionID, e.Phase, e.Err)
}

func (e *ArchiveError) Unwrap() error {
	return &RemoteWriteError{Op: "archive " + string(e.Phase), Err: e.Err}
}

func (e *ArchiveError) Is(target error) bool {
	switch target {
	case ErrArchiveFailed:
		return e.Phase == PhaseInsert
	case ErrPartialArchive:
		return e.Phase == PhaseDelete
	}
	return false
}
