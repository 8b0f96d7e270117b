package task

import (
	"errors"
	"fmt"
	"strings"
)

// ErrorCode classifies failures of task operations.
type ErrorCode string

const (
	CodeNotFound   ErrorCode = "NOT_FOUND"
	CodeValidation ErrorCode = "VALIDATION_ERROR"
	CodeInternal   ErrorCode = "INTERNAL"
)

// Error is a classified task error. Under errors.Is an Error matches a
// target with the same code and message; a target without a message
// matches every error of its code.
type Error struct {
	Code    ErrorCode
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("[%s] %s: %v", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Is compares code and message, so distinct validation sentinels never
// match each other. Use CodeOf to match on the kind alone.
func (e *Error) Is(target error) bool {
	var t *Error
	if !errors.As(target, &t) {
		return false
	}
	if e.Code != t.Code {
		return false
	}
	return t.Message == "" || t.Message == e.Message
}

var (
	// ErrNotFound is returned when a task does not exist or is owned by another user.
	ErrNotFound = &Error{Code: CodeNotFound, Message: "task not found"}
	// ErrInvalidStatus is returned for status values outside OPEN, IN_PROGRESS, DONE.
	ErrInvalidStatus = &Error{Code: CodeValidation, Message: "status must be one of OPEN, IN_PROGRESS, DONE"}
	// ErrTitleRequired is returned when a task is created without a title.
	ErrTitleRequired = &Error{Code: CodeValidation, Message: "title is required"}
	// ErrDescriptionRequired is returned when a task is created without a description.
	ErrDescriptionRequired = &Error{Code: CodeValidation, Message: "description is required"}
	// ErrOwnerRequired is returned when an operation has no owner.
	ErrOwnerRequired = &Error{Code: CodeValidation, Message: "owner is required"}
	// ErrIDRequired is returned when an operation has no task id.
	ErrIDRequired = &Error{Code: CodeValidation, Message: "task id is required"}
)

// NewInternalError wraps a storage or transport failure.
func NewInternalError(message string, err error) *Error {
	return &Error{Code: CodeInternal, Message: message, Err: err}
}

// CodeOf returns the classification of err. Unclassified errors are INTERNAL.
func CodeOf(err error) ErrorCode {
	var e *Error
	if errors.As(err, &e) {
		return e.Code
	}
	return CodeInternal
}

// FromRemote restores the classification of an error that crossed a
// request-reply boundary, where only the "[CODE] message" text survives.
func FromRemote(err error) error {
	if err == nil {
		return nil
	}
	var e *Error
	if errors.As(err, &e) {
		return err
	}

	msg := err.Error()
	for _, code := range []ErrorCode{CodeNotFound, CodeValidation} {
		marker := "[" + string(code) + "] "
		idx := strings.Index(msg, marker)
		if idx < 0 {
			continue
		}
		return &Error{Code: code, Message: msg[idx+len(marker):]}
	}
	return NewInternalError("remote call failed", err)
}
